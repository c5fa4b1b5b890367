// Package milkorder contains the pure business logic for the Milk Order tool.
// This is part of the Functional Core - no I/O, only pure functions.
package milkorder

import "time"

// Status is the phase a milk order session is currently in.
type Status string

const (
	StatusNightFOH  Status = "night_foh"
	StatusNightBOH  Status = "night_boh"
	StatusMorning   Status = "morning"
	StatusOnOrder   Status = "on_order"
	StatusCompleted Status = "completed"
)

// statusOrder is the only legal progression. Index doubles as rank.
var statusOrder = []Status{
	StatusNightFOH,
	StatusNightBOH,
	StatusMorning,
	StatusOnOrder,
	StatusCompleted,
}

// Operation is a phase-save request against a session.
type Operation string

const (
	OpSaveFrontCount   Operation = "save_front_count"
	OpSaveBackCount    Operation = "save_back_count"
	OpSaveMorningCount Operation = "save_morning_count"
	OpSaveOnOrder      Operation = "save_on_order"
)

// ActorSlot names the session column that records who performed a phase.
type ActorSlot string

const (
	ActorNone    ActorSlot = ""
	ActorNight   ActorSlot = "night"
	ActorMorning ActorSlot = "morning"
)

// Stamp names the phase-completion timestamp a transition sets.
type Stamp string

const (
	StampNightFOH Stamp = "night_foh_saved_at"
	StampNightBOH Stamp = "night_boh_saved_at"
	StampMorning  Stamp = "morning_saved_at"
	StampOnOrder  Stamp = "on_order_saved_at"
)

// Transition is one row of the phase table.
type Transition struct {
	Op        Operation
	From      Status
	To        Status
	Stamp     Stamp
	Actor     ActorSlot
	Completes bool
	Label     string // human phrase used in rejection messages
}

// transitions is the complete (current status, operation) -> next status table.
// Anything not listed here is rejected.
var transitions = map[Operation]Transition{
	OpSaveFrontCount: {
		Op: OpSaveFrontCount, From: StatusNightFOH, To: StatusNightBOH,
		Stamp: StampNightFOH, Actor: ActorNight, Label: "FOH counts",
	},
	OpSaveBackCount: {
		// The night actor recorded at FOH time is retained.
		Op: OpSaveBackCount, From: StatusNightBOH, To: StatusMorning,
		Stamp: StampNightBOH, Actor: ActorNone, Label: "BOH counts",
	},
	OpSaveMorningCount: {
		Op: OpSaveMorningCount, From: StatusMorning, To: StatusOnOrder,
		Stamp: StampMorning, Actor: ActorMorning, Label: "morning count",
	},
	OpSaveOnOrder: {
		// Re-stamps the morning actor; morning and on-order share one field.
		Op: OpSaveOnOrder, From: StatusOnOrder, To: StatusCompleted,
		Stamp: StampOnOrder, Actor: ActorMorning, Completes: true, Label: "on order",
	},
}

// LookupTransition returns the table row for op.
func LookupTransition(op Operation) (Transition, bool) {
	t, ok := transitions[op]
	return t, ok
}

// InitialStatus returns the status of a freshly started session.
func InitialStatus() Status {
	return StatusNightFOH
}

// Rank returns the position of s in the phase sequence, or -1 if unknown.
func Rank(s Status) int {
	for i, st := range statusOrder {
		if st == s {
			return i
		}
	}
	return -1
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return Rank(s) >= 0
}

// IsNightComplete reports whether both night counts have been saved.
func (s Status) IsNightComplete() bool {
	return Rank(s) >= Rank(StatusMorning)
}

// Statuses returns the phase sequence in order.
func Statuses() []Status {
	out := make([]Status, len(statusOrder))
	copy(out, statusOrder)
	return out
}

// PhaseAdvance is the write a successful phase-save performs on the session row.
type PhaseAdvance struct {
	From        Status
	To          Status
	Stamp       Stamp
	Actor       ActorSlot
	ActorID     string
	At          time.Time
	CompletedAt *time.Time
}

// ApplyTransition computes the session write for t performed by actorID at now.
// The caller passes the current time to enable testing.
func ApplyTransition(t Transition, actorID string, now time.Time) PhaseAdvance {
	adv := PhaseAdvance{
		From:  t.From,
		To:    t.To,
		Stamp: t.Stamp,
		Actor: t.Actor,
		At:    now,
	}
	if t.Actor != ActorNone {
		adv.ActorID = actorID
	}
	if t.Completes {
		adv.CompletedAt = &now
	}
	return adv
}
