package rtde

import (
	"fmt"
	"time"

	"github.com/example/storeops/internal/apperr"
)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Kind    apperr.Kind
	Reason  string
}

// Error converts the guard result to a typed error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return apperr.New(r.Kind, "%s", r.Reason)
}

func deny(kind apperr.Kind, format string, args ...any) GuardResult {
	return GuardResult{Allowed: false, Kind: kind, Reason: fmt.Sprintf(format, args...)}
}

// AccessContext provides context for session-scoped operations.
type AccessContext struct {
	SessionID     string
	SessionExists bool
	OwnerID       string
	CallerID      string
	Status        Status
	ExpiresAt     time.Time
	Now           time.Time
}

// CanAccessSession evaluates whether the caller may read a session.
// Rules (checked in order):
// - Session must exist (NotFound)
// - Caller must own the session (Forbidden)
func CanAccessSession(ctx AccessContext) GuardResult {
	if !ctx.SessionExists {
		return deny(apperr.KindNotFound, "session %s not found", ctx.SessionID)
	}
	if ctx.OwnerID != ctx.CallerID {
		return deny(apperr.KindForbidden, "not authorized to access session %s", ctx.SessionID)
	}
	return GuardResult{Allowed: true}
}

// CanModifySession evaluates whether the caller may change counts, pull
// flags or complete the session.
// Rules (checked in order):
// - Access rules above
// - Session must be in_progress and not past expires_at (InvalidPhase)
func CanModifySession(ctx AccessContext) GuardResult {
	if r := CanAccessSession(ctx); !r.Allowed {
		return r
	}
	status := ctx.Status
	if IsExpired(status, ctx.ExpiresAt, ctx.Now) {
		status = StatusExpired
	}
	if status != StatusInProgress {
		return deny(apperr.KindInvalidPhase, "session %s is not in progress - session status is %s", ctx.SessionID, status)
	}
	return GuardResult{Allowed: true}
}

// ResumeContext provides context for resuming a user's session.
type ResumeContext struct {
	Found     bool
	Status    Status
	ExpiresAt time.Time
	Now       time.Time
}

// CanResume evaluates whether the most recent in-progress session can be resumed.
func CanResume(ctx ResumeContext) GuardResult {
	if !ctx.Found || ctx.Status != StatusInProgress {
		return deny(apperr.KindNoActiveSession, "No active session to resume")
	}
	if IsExpired(ctx.Status, ctx.ExpiresAt, ctx.Now) {
		return deny(apperr.KindNoActiveSession, "Session has expired. Please start a new session.")
	}
	return GuardResult{Allowed: true}
}

// ValidateQuantity checks a counted quantity.
func ValidateQuantity(q int) error {
	if q < 0 {
		return apperr.Validation("quantity must be non-negative")
	}
	return nil
}
