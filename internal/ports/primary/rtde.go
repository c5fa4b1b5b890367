package primary

import (
	"context"
	"time"
)

// RTDEService defines the primary port for the ready-to-drink/eat restock count.
type RTDEService interface {
	// StartOrResume starts a fresh session (action "new") or resumes the
	// user's latest in-progress session (action "resume").
	StartOrResume(ctx context.Context, userID, action string) (*RTDEStartResult, error)

	// GetActiveSession returns the user's live session, or nil if none.
	// Lapsed sessions are flipped to expired and reported as absent.
	GetActiveSession(ctx context.Context, userID string) (*RTDEActiveSession, error)

	// GetSession lists every active item with its count for the session.
	GetSession(ctx context.Context, sessionID, userID string) (*RTDESessionDetail, error)

	// UpdateCount sets the counted quantity for an item.
	UpdateCount(ctx context.Context, sessionID, userID, itemID string, quantity int) error

	// GetPullList returns items below par with the quantity to pull.
	GetPullList(ctx context.Context, sessionID, userID string) (*RTDEPullList, error)

	// MarkPulled sets the pulled flag for an item.
	MarkPulled(ctx context.Context, sessionID, userID, itemID string, pulled bool) error

	// Complete finishes the session and removes it along with stray sessions.
	Complete(ctx context.Context, sessionID, userID string) error

	// SweepExpired deletes every lapsed in-progress session.
	SweepExpired(ctx context.Context) (int64, error)
}

// RTDEStartResult is returned from StartOrResume.
type RTDEStartResult struct {
	SessionID string
	StartedAt time.Time
	ExpiresAt time.Time
	Resumed   bool
}

// RTDEActiveSession summarizes a user's live session.
type RTDEActiveSession struct {
	SessionID    string
	StartedAt    time.Time
	ExpiresAt    time.Time
	ItemsCounted int
	TotalItems   int
}

// RTDESessionDetail is a session with one row per active item.
type RTDESessionDetail struct {
	SessionID string
	UserID    string
	Status    string
	StartedAt time.Time
	ExpiresAt time.Time
	Items     []RTDESessionItem
}

// RTDESessionItem is an active item and its count within a session.
type RTDESessionItem struct {
	ItemID       string
	Name         string
	Brand        string
	Icon         string
	ParLevel     int
	DisplayOrder int
	Counted      int
	Need         int
	IsPulled     bool
}

// RTDEPullList is the filtered restock list.
type RTDEPullList struct {
	SessionID   string
	Items       []RTDEPullItem
	TotalItems  int
	PulledItems int
}

// RTDEPullItem is one line of the pull list.
type RTDEPullItem struct {
	ItemID   string
	Name     string
	Brand    string
	Icon     string
	Need     int
	IsPulled bool
}
