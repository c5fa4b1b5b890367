package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/storeops/internal/apperr"
	"github.com/example/storeops/internal/core/milkorder"
	"github.com/example/storeops/internal/ctxutil"
	"github.com/example/storeops/internal/ports/primary"
	"github.com/example/storeops/internal/ports/secondary"
)

const (
	defaultHistoryLimit = 30
	maxHistoryLimit     = 100
)

// MilkOrderServiceImpl implements the MilkOrderService interface.
type MilkOrderServiceImpl struct {
	milkTypeRepo secondary.MilkTypeRepository
	sessionRepo  secondary.MilkSessionRepository
	activity     secondary.ActivityWriter
	logger       *zap.Logger
	now          func() time.Time
}

// NewMilkOrderService creates a new MilkOrderService with injected dependencies.
func NewMilkOrderService(
	milkTypeRepo secondary.MilkTypeRepository,
	sessionRepo secondary.MilkSessionRepository,
	activity secondary.ActivityWriter,
	logger *zap.Logger,
	now func() time.Time,
) *MilkOrderServiceImpl {
	if logger == nil {
		logger = zap.NewNop()
	}
	if now == nil {
		now = time.Now
	}
	return &MilkOrderServiceImpl{
		milkTypeRepo: milkTypeRepo,
		sessionRepo:  sessionRepo,
		activity:     activity,
		logger:       logger,
		now:          now,
	}
}

// StartSession creates the session for date with one entry per active milk type.
func (s *MilkOrderServiceImpl) StartSession(ctx context.Context, date string) (*primary.MilkSession, error) {
	if _, err := time.Parse(time.DateOnly, date); err != nil {
		return nil, apperr.Validation("session date must be YYYY-MM-DD, got %q", date)
	}

	// 1. Guard: one session per day
	existing, err := s.sessionRepo.GetByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to look up session: %w", err)
	}
	guardCtx := milkorder.StartContext{SessionDate: date}
	if existing != nil {
		guardCtx.ExistingSessionID = existing.ID
	}
	if result := milkorder.CanStartSession(guardCtx); !result.Allowed {
		return nil, result.Error()
	}

	// 2. Read the catalog fresh; entries are pre-created for active types only
	milkTypes, err := s.milkTypeRepo.List(ctx, secondary.CatalogFilters{ActiveOnly: true})
	if err != nil {
		return nil, fmt.Errorf("failed to list milk types: %w", err)
	}

	now := s.now().UTC()
	record := &secondary.MilkSessionRecord{
		ID:          uuid.NewString(),
		SessionDate: date,
		Status:      string(milkorder.InitialStatus()),
		CreatedAt:   now,
	}
	entries := make([]*secondary.MilkEntryRecord, len(milkTypes))
	for i, mt := range milkTypes {
		entries[i] = &secondary.MilkEntryRecord{
			ID:         uuid.NewString(),
			SessionID:  record.ID,
			MilkTypeID: mt.ID,
			UpdatedAt:  now,
		}
	}

	// 3. Persist; a concurrent start for the same date surfaces as Conflict
	if err := s.sessionRepo.CreateWithEntries(ctx, record, entries); err != nil {
		return nil, err
	}

	s.logger.Info("milk session started",
		zap.String("session_id", record.ID),
		zap.String("session_date", date),
		zap.Int("entries", len(entries)))
	s.recordActivity(ctx, ActionSessionStarted, record.ID, fmt.Sprintf("%s, %d milk types", date, len(entries)))

	return s.GetSession(ctx, record.ID)
}

// GetSession retrieves a session with its entries.
func (s *MilkOrderServiceImpl) GetSession(ctx context.Context, sessionID string) (*primary.MilkSession, error) {
	record, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.withEntries(ctx, record)
}

// GetSessionByDate returns the session for date, or nil if none exists.
func (s *MilkOrderServiceImpl) GetSessionByDate(ctx context.Context, date string) (*primary.MilkSession, error) {
	record, err := s.sessionRepo.GetByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to look up session: %w", err)
	}
	if record == nil {
		return nil, nil
	}
	return s.withEntries(ctx, record)
}

// ListSessions returns session history, newest first.
func (s *MilkOrderServiceImpl) ListSessions(ctx context.Context, filters primary.MilkSessionFilters) (*primary.MilkSessionPage, error) {
	if filters.Status != "" && !milkorder.Status(filters.Status).Valid() {
		return nil, apperr.Validation("unknown status %q", filters.Status)
	}
	limit := filters.Limit
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	limit = min(limit, maxHistoryLimit)
	offset := max(filters.Offset, 0)

	records, total, err := s.sessionRepo.List(ctx, secondary.MilkSessionFilters{
		Status: filters.Status,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	page := &primary.MilkSessionPage{
		Sessions: make([]*primary.MilkSession, len(records)),
		Total:    total,
		Limit:    limit,
		Offset:   offset,
	}
	for i, r := range records {
		page.Sessions[i] = recordToMilkSession(r)
	}
	return page, nil
}

// SaveFrontCount records the night FOH counts and advances to night_boh.
func (s *MilkOrderServiceImpl) SaveFrontCount(ctx context.Context, req primary.SaveCountsRequest) (*primary.MilkSession, error) {
	return s.saveCounts(ctx, milkorder.OpSaveFrontCount, req, func(e *secondary.MilkEntryRecord, v int) {
		e.FrontCount = &v
	})
}

// SaveBackCount records the night BOH counts and advances to morning.
func (s *MilkOrderServiceImpl) SaveBackCount(ctx context.Context, req primary.SaveCountsRequest) (*primary.MilkSession, error) {
	return s.saveCounts(ctx, milkorder.OpSaveBackCount, req, func(e *secondary.MilkEntryRecord, v int) {
		e.BackCount = &v
	})
}

// SaveOnOrder records quantities already ordered and completes the session.
func (s *MilkOrderServiceImpl) SaveOnOrder(ctx context.Context, req primary.SaveCountsRequest) (*primary.MilkSession, error) {
	return s.saveCounts(ctx, milkorder.OpSaveOnOrder, req, func(e *secondary.MilkEntryRecord, v int) {
		e.OnOrder = &v
	})
}

func (s *MilkOrderServiceImpl) saveCounts(
	ctx context.Context,
	op milkorder.Operation,
	req primary.SaveCountsRequest,
	set func(e *secondary.MilkEntryRecord, v int),
) (*primary.MilkSession, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	ids := make([]string, len(req.Counts))
	for i, c := range req.Counts {
		ids[i] = c.MilkTypeID
	}

	return s.applyPhase(ctx, op, req.SessionID, req.ActorID, ids, func(entries []*secondary.MilkEntryRecord) error {
		for i, c := range req.Counts {
			set(entries[i], *c.Value)
		}
		return nil
	})
}

// SaveMorningCount records deliveries and advances to on_order.
func (s *MilkOrderServiceImpl) SaveMorningCount(ctx context.Context, req primary.SaveMorningRequest) (*primary.MilkSession, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	inputs := make([]milkorder.MorningInput, len(req.Counts))
	ids := make([]string, len(req.Counts))
	for i, c := range req.Counts {
		method, err := milkorder.ParseMorningMethod(c.Method)
		if err != nil {
			return nil, err
		}
		inputs[i] = milkorder.MorningInput{
			Method:           method,
			CurrentBackCount: c.CurrentBackCount,
			Delivered:        c.Delivered,
		}
		ids[i] = c.MilkTypeID
	}

	return s.applyPhase(ctx, milkorder.OpSaveMorningCount, req.SessionID, req.ActorID, ids, func(entries []*secondary.MilkEntryRecord) error {
		for i, e := range entries {
			updated, err := milkorder.ApplyMorning(recordToEntry(e), inputs[i])
			if err != nil {
				return fmt.Errorf("%s: %w", e.MilkTypeName, err)
			}
			applyEntry(e, updated)
		}
		return nil
	})
}

// applyPhase runs one phase-save: guard, resolve the payload against the
// session's entries, merge, then advance conditionally on the current status.
// merge receives the entries in payload order and must not do I/O.
func (s *MilkOrderServiceImpl) applyPhase(
	ctx context.Context,
	op milkorder.Operation,
	sessionID, actorID string,
	milkTypeIDs []string,
	merge func(entries []*secondary.MilkEntryRecord) error,
) (*primary.MilkSession, error) {
	actorID = ctxutil.ResolveActor(ctx, actorID)

	// 1. Guard on the observed status
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil && !errors.Is(err, apperr.ErrNotFound) {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	guardCtx := milkorder.PhaseContext{
		SessionID:     sessionID,
		SessionExists: session != nil,
		Op:            op,
	}
	if session != nil {
		guardCtx.Current = milkorder.Status(session.Status)
	}
	if result := milkorder.CanApplyPhase(guardCtx); !result.Allowed {
		s.logger.Debug("phase save rejected",
			zap.String("session_id", sessionID),
			zap.String("op", string(op)),
			zap.String("reason", result.Reason))
		return nil, result.Error()
	}

	// 2. Resolve every payload item before anything is written
	existing, err := s.sessionRepo.ListEntries(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	byType := make(map[string]*secondary.MilkEntryRecord, len(existing))
	for _, e := range existing {
		byType[e.MilkTypeID] = e
	}
	selected := make([]*secondary.MilkEntryRecord, len(milkTypeIDs))
	seen := make(map[string]bool, len(milkTypeIDs))
	for i, id := range milkTypeIDs {
		if seen[id] {
			return nil, apperr.Validation("milk type %s appears more than once", id)
		}
		seen[id] = true
		e, ok := byType[id]
		if !ok {
			return nil, apperr.NotFound("milk type %s is not part of session %s", id, sessionID)
		}
		selected[i] = e
	}

	now := s.now().UTC()
	if err := merge(selected); err != nil {
		return nil, err
	}
	for _, e := range selected {
		e.UpdatedAt = now
	}

	// 3. Conditional advance; losing a race reports the status actually found
	t, _ := milkorder.LookupTransition(op)
	adv := milkorder.ApplyTransition(t, actorID, now)
	write := &secondary.PhaseWrite{
		SessionID:   sessionID,
		From:        string(adv.From),
		To:          string(adv.To),
		StampColumn: string(adv.Stamp),
		At:          adv.At,
		ActorSlot:   string(adv.Actor),
		ActorID:     adv.ActorID,
		CompletedAt: adv.CompletedAt,
		Entries:     selected,
	}
	if err := s.sessionRepo.ApplyPhase(ctx, write); err != nil {
		var mismatch *secondary.StatusMismatchError
		if errors.As(err, &mismatch) {
			s.logger.Debug("phase save lost race",
				zap.String("session_id", sessionID),
				zap.String("op", string(op)),
				zap.String("actual", mismatch.Actual))
			return nil, milkorder.InvalidPhaseError(op, milkorder.Status(mismatch.Actual))
		}
		return nil, err
	}

	s.logger.Info("milk session advanced",
		zap.String("session_id", sessionID),
		zap.String("from", write.From),
		zap.String("to", write.To),
		zap.String("actor", actorID),
		zap.Int("entries", len(selected)))
	s.recordActivity(ctxutil.WithActorID(ctx, actorID), phaseAction(op), sessionID,
		fmt.Sprintf("%s saved for %d milk types", t.Label, len(selected)))

	return s.GetSession(ctx, sessionID)
}

// GetSummary computes per-item totals and order quantities.
func (s *MilkOrderServiceImpl) GetSummary(ctx context.Context, sessionID string) (*primary.MilkSummary, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	entries, err := s.sessionRepo.ListEntries(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}

	summary := &primary.MilkSummary{
		SessionID:   session.ID,
		SessionDate: session.SessionDate,
		Status:      session.Status,
		Items:       make([]primary.MilkSummaryItem, 0, len(entries)),
	}
	var totals milkorder.Totals
	for _, e := range entries {
		line := milkorder.Summarize(recordToEntry(e), e.ParValue)
		totals.Add(line)
		summary.Items = append(summary.Items, primary.MilkSummaryItem{
			MilkTypeID: e.MilkTypeID,
			Name:       e.MilkTypeName,
			Category:   e.Category,
			Front:      line.Front,
			Back:       line.Back,
			Delivered:  line.Delivered,
			OnOrder:    line.OnOrder,
			Total:      line.Total,
			Par:        line.Par,
			Order:      line.Order,
		})
	}
	summary.Totals = primary.MilkSummaryTotals(totals)
	return summary, nil
}

// ResetSessions deletes sessions (development only).
func (s *MilkOrderServiceImpl) ResetSessions(ctx context.Context, req primary.ResetSessionsRequest) (int64, error) {
	var (
		n   int64
		err error
	)
	switch {
	case req.All:
		n, err = s.sessionRepo.DeleteAll(ctx)
	case req.Date != "":
		n, err = s.sessionRepo.DeleteByDate(ctx, req.Date)
	default:
		return 0, apperr.Validation("reset needs a date or all")
	}
	if err != nil {
		return 0, fmt.Errorf("failed to reset sessions: %w", err)
	}
	s.logger.Info("milk sessions reset", zap.Int64("deleted", n), zap.Bool("all", req.All), zap.String("date", req.Date))
	return n, nil
}

func (s *MilkOrderServiceImpl) withEntries(ctx context.Context, record *secondary.MilkSessionRecord) (*primary.MilkSession, error) {
	entries, err := s.sessionRepo.ListEntries(ctx, record.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	session := recordToMilkSession(record)
	session.Entries = make([]*primary.MilkEntry, len(entries))
	for i, e := range entries {
		session.Entries[i] = recordToMilkEntry(e)
	}
	return session, nil
}

// recordActivity is best effort: the phase has already committed.
func (s *MilkOrderServiceImpl) recordActivity(ctx context.Context, action, sessionID, detail string) {
	if s.activity == nil {
		return
	}
	if err := s.activity.Record(ctx, ToolMilkOrder, action, sessionID, detail); err != nil {
		s.logger.Warn("failed to record activity",
			zap.String("action", action),
			zap.String("session_id", sessionID),
			zap.Error(err))
	}
}

func phaseAction(op milkorder.Operation) string {
	switch op {
	case milkorder.OpSaveFrontCount:
		return ActionFrontCountSaved
	case milkorder.OpSaveBackCount:
		return ActionBackCountSaved
	case milkorder.OpSaveMorningCount:
		return ActionMorningCountSaved
	default:
		return ActionOnOrderSaved
	}
}

func recordToEntry(e *secondary.MilkEntryRecord) milkorder.Entry {
	return milkorder.Entry{
		FrontCount:       e.FrontCount,
		BackCount:        e.BackCount,
		MorningMethod:    milkorder.MorningMethod(e.MorningMethod),
		CurrentBackCount: e.CurrentBackCount,
		Delivered:        e.Delivered,
		OnOrder:          e.OnOrder,
	}
}

func applyEntry(rec *secondary.MilkEntryRecord, e milkorder.Entry) {
	rec.FrontCount = e.FrontCount
	rec.BackCount = e.BackCount
	rec.MorningMethod = string(e.MorningMethod)
	rec.CurrentBackCount = e.CurrentBackCount
	rec.Delivered = e.Delivered
	rec.OnOrder = e.OnOrder
}

func recordToMilkSession(r *secondary.MilkSessionRecord) *primary.MilkSession {
	return &primary.MilkSession{
		ID:              r.ID,
		SessionDate:     r.SessionDate,
		Status:          r.Status,
		NightUserID:     r.NightUserID,
		MorningUserID:   r.MorningUserID,
		NightFOHSavedAt: r.NightFOHSavedAt,
		NightBOHSavedAt: r.NightBOHSavedAt,
		MorningSavedAt:  r.MorningSavedAt,
		OnOrderSavedAt:  r.OnOrderSavedAt,
		CompletedAt:     r.CompletedAt,
		CreatedAt:       r.CreatedAt,
	}
}

func recordToMilkEntry(e *secondary.MilkEntryRecord) *primary.MilkEntry {
	return &primary.MilkEntry{
		ID:               e.ID,
		MilkTypeID:       e.MilkTypeID,
		Name:             e.MilkTypeName,
		Category:         e.Category,
		DisplayOrder:     e.DisplayOrder,
		ParValue:         e.ParValue,
		FrontCount:       e.FrontCount,
		BackCount:        e.BackCount,
		MorningMethod:    e.MorningMethod,
		CurrentBackCount: e.CurrentBackCount,
		Delivered:        e.Delivered,
		OnOrder:          e.OnOrder,
		UpdatedAt:        e.UpdatedAt,
	}
}

// Ensure MilkOrderServiceImpl implements the interface
var _ primary.MilkOrderService = (*MilkOrderServiceImpl)(nil)
