// Package rtde contains the pure business logic for the RTD&E restock tool.
// This is part of the Functional Core - no I/O, only pure functions.
package rtde

import "time"

// Status is the lifecycle state of a restock session.
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusExpired    Status = "expired"
)

// DefaultSessionWindow is how long a session stays usable after it starts.
const DefaultSessionWindow = 30 * time.Minute

// Action selects what StartOrResume does.
type Action string

const (
	ActionNew    Action = "new"
	ActionResume Action = "resume"
)

// ParseAction validates a start action.
func ParseAction(s string) (Action, bool) {
	switch Action(s) {
	case ActionNew, ActionResume:
		return Action(s), true
	}
	return "", false
}

// ExpiresAt computes a session's fixed expiry. It is set once at creation.
func ExpiresAt(startedAt time.Time, window time.Duration) time.Time {
	if window <= 0 {
		window = DefaultSessionWindow
	}
	return startedAt.Add(window)
}

// IsExpired reports whether an in-progress session has outlived its window.
// A session is still valid at exactly expires_at.
func IsExpired(status Status, expiresAt, now time.Time) bool {
	return status == StatusInProgress && now.After(expiresAt)
}

// Remaining returns the time left before expiry, never negative.
func Remaining(expiresAt, now time.Time) time.Duration {
	if d := expiresAt.Sub(now); d > 0 {
		return d
	}
	return 0
}
