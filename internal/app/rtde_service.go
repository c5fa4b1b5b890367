package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/storeops/internal/apperr"
	corertde "github.com/example/storeops/internal/core/rtde"
	"github.com/example/storeops/internal/ports/primary"
	"github.com/example/storeops/internal/ports/secondary"
)

// RTDEServiceImpl implements the RTDEService interface.
type RTDEServiceImpl struct {
	sessionRepo secondary.RTDESessionRepository
	itemRepo    secondary.RTDEItemRepository
	activity    secondary.ActivityWriter
	window      time.Duration
	logger      *zap.Logger
	now         func() time.Time
}

// NewRTDEService creates a new RTDEService with injected dependencies.
// A non-positive window falls back to corertde.DefaultSessionWindow.
func NewRTDEService(
	sessionRepo secondary.RTDESessionRepository,
	itemRepo secondary.RTDEItemRepository,
	activity secondary.ActivityWriter,
	window time.Duration,
	logger *zap.Logger,
	now func() time.Time,
) *RTDEServiceImpl {
	if window <= 0 {
		window = corertde.DefaultSessionWindow
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if now == nil {
		now = time.Now
	}
	return &RTDEServiceImpl{
		sessionRepo: sessionRepo,
		itemRepo:    itemRepo,
		activity:    activity,
		window:      window,
		logger:      logger,
		now:         now,
	}
}

// StartOrResume starts a fresh session or resumes the user's latest one.
func (s *RTDEServiceImpl) StartOrResume(ctx context.Context, userID, action string) (*primary.RTDEStartResult, error) {
	if userID == "" {
		return nil, apperr.Validation("user id is required")
	}
	act, ok := corertde.ParseAction(action)
	if !ok {
		return nil, apperr.Validation("action must be %s or %s", corertde.ActionNew, corertde.ActionResume)
	}

	now := s.now().UTC()
	if act == corertde.ActionResume {
		return s.resume(ctx, userID, now)
	}

	record := &secondary.RTDESessionRecord{
		ID:        uuid.NewString(),
		UserID:    userID,
		Status:    string(corertde.StatusInProgress),
		StartedAt: now,
		ExpiresAt: corertde.ExpiresAt(now, s.window),
	}
	if err := s.sessionRepo.CreateReplacing(ctx, record); err != nil {
		return nil, err
	}

	s.logger.Info("rtde session started",
		zap.String("session_id", record.ID),
		zap.String("user_id", userID),
		zap.Time("expires_at", record.ExpiresAt))

	return &primary.RTDEStartResult{
		SessionID: record.ID,
		StartedAt: record.StartedAt,
		ExpiresAt: record.ExpiresAt,
	}, nil
}

func (s *RTDEServiceImpl) resume(ctx context.Context, userID string, now time.Time) (*primary.RTDEStartResult, error) {
	latest, err := s.sessionRepo.GetLatestInProgress(ctx, userID)
	if err != nil {
		return nil, err
	}

	guardCtx := corertde.ResumeContext{Found: latest != nil, Now: now}
	if latest != nil {
		guardCtx.Status = corertde.Status(latest.Status)
		guardCtx.ExpiresAt = latest.ExpiresAt
	}
	if result := corertde.CanResume(guardCtx); !result.Allowed {
		if latest != nil {
			s.expire(ctx, latest, now)
		}
		return nil, result.Error()
	}

	return &primary.RTDEStartResult{
		SessionID: latest.ID,
		StartedAt: latest.StartedAt,
		ExpiresAt: latest.ExpiresAt,
		Resumed:   true,
	}, nil
}

// GetActiveSession returns the user's live session, or nil if none.
func (s *RTDEServiceImpl) GetActiveSession(ctx context.Context, userID string) (*primary.RTDEActiveSession, error) {
	latest, err := s.sessionRepo.GetLatestInProgress(ctx, userID)
	if err != nil {
		return nil, err
	}
	if latest == nil {
		return nil, nil
	}
	now := s.now().UTC()
	if corertde.IsExpired(corertde.Status(latest.Status), latest.ExpiresAt, now) {
		s.expire(ctx, latest, now)
		return nil, nil
	}

	states, err := s.itemStates(ctx, latest.ID)
	if err != nil {
		return nil, err
	}
	return &primary.RTDEActiveSession{
		SessionID:    latest.ID,
		StartedAt:    latest.StartedAt,
		ExpiresAt:    latest.ExpiresAt,
		ItemsCounted: corertde.CountedItems(states),
		TotalItems:   len(states),
	}, nil
}

// GetSession lists every active item with its count for the session.
func (s *RTDEServiceImpl) GetSession(ctx context.Context, sessionID, userID string) (*primary.RTDESessionDetail, error) {
	session, err := s.loadLive(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}
	states, err := s.itemStates(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	detail := &primary.RTDESessionDetail{
		SessionID: session.ID,
		UserID:    session.UserID,
		Status:    session.Status,
		StartedAt: session.StartedAt,
		ExpiresAt: session.ExpiresAt,
		Items:     make([]primary.RTDESessionItem, len(states)),
	}
	for i, st := range states {
		detail.Items[i] = primary.RTDESessionItem{
			ItemID:       st.ItemID,
			Name:         st.Name,
			Brand:        st.Brand,
			Icon:         st.Icon,
			ParLevel:     st.ParLevel,
			DisplayOrder: st.DisplayOrder,
			Counted:      st.Counted,
			Need:         corertde.Need(st.ParLevel, st.Counted),
			IsPulled:     st.IsPulled,
		}
	}
	return detail, nil
}

// UpdateCount sets the counted quantity for an item.
func (s *RTDEServiceImpl) UpdateCount(ctx context.Context, sessionID, userID, itemID string, quantity int) error {
	if err := corertde.ValidateQuantity(quantity); err != nil {
		return err
	}
	if _, err := s.loadLive(ctx, sessionID, userID); err != nil {
		return err
	}
	if err := s.requireActiveItem(ctx, itemID); err != nil {
		return err
	}
	return s.upsertResult(s.sessionRepo.UpsertCount(ctx, sessionID, itemID, quantity, s.now().UTC()))
}

// GetPullList returns items below par with the quantity to pull.
func (s *RTDEServiceImpl) GetPullList(ctx context.Context, sessionID, userID string) (*primary.RTDEPullList, error) {
	if _, err := s.loadLive(ctx, sessionID, userID); err != nil {
		return nil, err
	}
	states, err := s.itemStates(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	pl := corertde.BuildPullList(states)
	out := &primary.RTDEPullList{
		SessionID:   sessionID,
		Items:       make([]primary.RTDEPullItem, len(pl.Items)),
		TotalItems:  pl.TotalItems,
		PulledItems: pl.PulledItems,
	}
	for i, it := range pl.Items {
		out.Items[i] = primary.RTDEPullItem(it)
	}
	return out, nil
}

// MarkPulled sets the pulled flag for an item.
func (s *RTDEServiceImpl) MarkPulled(ctx context.Context, sessionID, userID, itemID string, pulled bool) error {
	if _, err := s.loadLive(ctx, sessionID, userID); err != nil {
		return err
	}
	if err := s.requireActiveItem(ctx, itemID); err != nil {
		return err
	}
	return s.upsertResult(s.sessionRepo.UpsertPulled(ctx, sessionID, itemID, pulled, s.now().UTC()))
}

// Complete finishes the session. The completion event is written in the same
// transaction that deletes the session row.
func (s *RTDEServiceImpl) Complete(ctx context.Context, sessionID, userID string) error {
	if _, err := s.loadLive(ctx, sessionID, userID); err != nil {
		return err
	}
	states, err := s.itemStates(ctx, sessionID)
	if err != nil {
		return err
	}
	pl := corertde.BuildPullList(states)

	now := s.now().UTC()
	completion := &secondary.RTDECompletion{
		SessionID:   sessionID,
		UserID:      userID,
		CompletedAt: now,
		Event: &secondary.ActivityRecord{
			ID:        uuid.NewString(),
			Tool:      ToolRTDE,
			Action:    ActionCompleted,
			EntityID:  sessionID,
			ActorID:   userID,
			Detail:    fmt.Sprintf("%d of %d items pulled, %d counted", pl.PulledItems, pl.TotalItems, corertde.CountedItems(states)),
			CreatedAt: now,
		},
	}
	if err := s.sessionRepo.Complete(ctx, completion); err != nil {
		return s.upsertResult(err)
	}

	s.logger.Info("rtde session completed",
		zap.String("session_id", sessionID),
		zap.String("user_id", userID),
		zap.Int("pull_items", pl.TotalItems),
		zap.Int("pulled", pl.PulledItems))
	return nil
}

// SweepExpired deletes every lapsed in-progress session.
func (s *RTDEServiceImpl) SweepExpired(ctx context.Context) (int64, error) {
	n, err := s.sessionRepo.DeleteExpired(ctx, s.now().UTC())
	if err != nil {
		return 0, err
	}
	s.logger.Info("rtde expiry sweep", zap.Int64("deleted", n))
	if n > 0 && s.activity != nil {
		if err := s.activity.Record(ctx, ToolRTDE, ActionSwept, "", fmt.Sprintf("%d expired sessions removed", n)); err != nil {
			s.logger.Warn("failed to record activity", zap.String("action", ActionSwept), zap.Error(err))
		}
	}
	return n, nil
}

// loadLive applies the session checks in order: existence, ownership, then
// liveness. A lapsed session is flipped to expired on the way.
func (s *RTDEServiceImpl) loadLive(ctx context.Context, sessionID, userID string) (*secondary.RTDESessionRecord, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil && !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}

	now := s.now().UTC()
	guardCtx := corertde.AccessContext{
		SessionID:     sessionID,
		SessionExists: session != nil,
		CallerID:      userID,
		Now:           now,
	}
	if session != nil {
		guardCtx.OwnerID = session.UserID
		guardCtx.Status = corertde.Status(session.Status)
		guardCtx.ExpiresAt = session.ExpiresAt
	}

	if result := corertde.CanAccessSession(guardCtx); !result.Allowed {
		return nil, result.Error()
	}
	if corertde.IsExpired(guardCtx.Status, guardCtx.ExpiresAt, now) {
		s.expire(ctx, session, now)
	}
	if result := corertde.CanModifySession(guardCtx); !result.Allowed {
		return nil, result.Error()
	}
	return session, nil
}

// expire flips a lapsed session. Failure only delays the flip until the sweep.
func (s *RTDEServiceImpl) expire(ctx context.Context, session *secondary.RTDESessionRecord, now time.Time) {
	if !corertde.IsExpired(corertde.Status(session.Status), session.ExpiresAt, now) {
		return
	}
	if err := s.sessionRepo.MarkExpired(ctx, session.ID); err != nil {
		s.logger.Warn("failed to mark session expired", zap.String("session_id", session.ID), zap.Error(err))
		return
	}
	session.Status = string(corertde.StatusExpired)
	s.logger.Debug("rtde session expired", zap.String("session_id", session.ID))
}

func (s *RTDEServiceImpl) requireActiveItem(ctx context.Context, itemID string) error {
	item, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return err
	}
	if !item.Active {
		return apperr.Validation("item %s is not active", itemID)
	}
	return nil
}

// upsertResult maps a write that found the session no longer in progress.
func (s *RTDEServiceImpl) upsertResult(err error) error {
	var mismatch *secondary.StatusMismatchError
	if errors.As(err, &mismatch) {
		return apperr.InvalidPhase("session %s is not in progress - session status is %s", mismatch.SessionID, mismatch.Actual)
	}
	return err
}

func (s *RTDEServiceImpl) itemStates(ctx context.Context, sessionID string) ([]corertde.ItemState, error) {
	records, err := s.sessionRepo.ListItemStates(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	states := make([]corertde.ItemState, len(records))
	for i, r := range records {
		states[i] = corertde.ItemState(*r)
	}
	return states, nil
}

// Ensure RTDEServiceImpl implements the interface
var _ primary.RTDEService = (*RTDEServiceImpl)(nil)
