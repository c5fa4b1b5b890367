package primary

import (
	"context"
	"time"
)

// ActivityService defines the primary port for reading the activity log.
type ActivityService interface {
	// RecentActivity returns the newest events across all tools.
	RecentActivity(ctx context.Context, limit int) ([]*ActivityEntry, error)

	// LastCompletedRTDE returns the most recent RTD&E completion, or nil.
	LastCompletedRTDE(ctx context.Context) (*ActivityEntry, error)
}

// ActivityEntry is one event in the activity feed.
type ActivityEntry struct {
	ID        string
	Tool      string
	Action    string
	EntityID  string
	ActorID   string
	Detail    string
	CreatedAt time.Time
}
