package milkorder

import (
	"fmt"

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

func allow() GuardResult {
	return GuardResult{Allowed: true}
}

func deny(kind apperr.Kind, format string, args ...any) GuardResult {
	return GuardResult{Allowed: false, Kind: kind, Reason: fmt.Sprintf(format, args...)}
}

// StartContext provides context for session start guards.
type StartContext struct {
	SessionDate       string
	ExistingSessionID string // empty when no session exists for the date
}

// PhaseContext provides context for phase-save guards.
type PhaseContext struct {
	SessionID     string
	SessionExists bool
	Current       Status
	Op            Operation
}

// CanStartSession evaluates whether a session can be started for a date.
// Rules:
// - Exactly one session per calendar day
func CanStartSession(ctx StartContext) GuardResult {
	if ctx.ExistingSessionID != "" {
		return deny(apperr.KindConflict, "session already exists for %s (%s)", ctx.SessionDate, ctx.ExistingSessionID)
	}
	return allow()
}

// CanApplyPhase evaluates whether a phase-save may run against the session.
// Rules:
// - Session must exist
// - Current status must equal the transition's required status
func CanApplyPhase(ctx PhaseContext) GuardResult {
	if !ctx.SessionExists {
		return deny(apperr.KindNotFound, "session %s not found", ctx.SessionID)
	}

	t, ok := LookupTransition(ctx.Op)
	if !ok {
		return deny(apperr.KindValidation, "unknown operation %q", ctx.Op)
	}

	if ctx.Current != t.From {
		return deny(apperr.KindInvalidPhase, "cannot save %s - session status is %s", t.Label, ctx.Current)
	}

	return allow()
}

// InvalidPhaseError builds the rejection for a transition that lost a race or
// found the session in another status. actual is the status observed.
func InvalidPhaseError(op Operation, actual Status) error {
	t, ok := LookupTransition(op)
	if !ok {
		return apperr.Validation("unknown operation %q", op)
	}
	return apperr.InvalidPhase("cannot save %s - session status is %s", t.Label, actual)
}
