package app

import (
	"context"
	"fmt"

	"github.com/example/storeops/internal/ports/primary"
	"github.com/example/storeops/internal/ports/secondary"
)

// Activity log vocabulary.
const (
	ToolMilkOrder = "milk_order"
	ToolRTDE      = "rtde"

	ActionSessionStarted    = "session_started"
	ActionFrontCountSaved   = "front_count_saved"
	ActionBackCountSaved    = "back_count_saved"
	ActionMorningCountSaved = "morning_count_saved"
	ActionOnOrderSaved      = "on_order_saved"
	ActionCompleted         = "completed"
	ActionSwept             = "swept"
)

const (
	defaultActivityLimit = 8
	maxActivityLimit     = 20
)

// ActivityServiceImpl implements the ActivityService interface.
type ActivityServiceImpl struct {
	logRepo secondary.ActivityLogRepository
}

// NewActivityService creates a new ActivityService with injected dependencies.
func NewActivityService(logRepo secondary.ActivityLogRepository) *ActivityServiceImpl {
	return &ActivityServiceImpl{logRepo: logRepo}
}

// RecentActivity returns the newest events across all tools.
func (s *ActivityServiceImpl) RecentActivity(ctx context.Context, limit int) ([]*primary.ActivityEntry, error) {
	if limit <= 0 {
		limit = defaultActivityLimit
	}
	limit = min(limit, maxActivityLimit)

	records, err := s.logRepo.List(ctx, secondary.ActivityFilters{Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	entries := make([]*primary.ActivityEntry, len(records))
	for i, r := range records {
		entries[i] = recordToActivity(r)
	}
	return entries, nil
}

// LastCompletedRTDE returns the most recent RTD&E completion, or nil.
func (s *ActivityServiceImpl) LastCompletedRTDE(ctx context.Context) (*primary.ActivityEntry, error) {
	record, err := s.logRepo.Latest(ctx, ToolRTDE, ActionCompleted)
	if err != nil {
		return nil, fmt.Errorf("failed to get last completion: %w", err)
	}
	if record == nil {
		return nil, nil
	}
	return recordToActivity(record), nil
}

func recordToActivity(r *secondary.ActivityRecord) *primary.ActivityEntry {
	return &primary.ActivityEntry{
		ID:        r.ID,
		Tool:      r.Tool,
		Action:    r.Action,
		EntityID:  r.EntityID,
		ActorID:   r.ActorID,
		Detail:    r.Detail,
		CreatedAt: r.CreatedAt,
	}
}

var _ primary.ActivityService = (*ActivityServiceImpl)(nil)
