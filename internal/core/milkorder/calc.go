package milkorder

import (
	"github.com/example/storeops/internal/apperr"
)

// MorningMethod selects how the morning delivery is captured.
type MorningMethod string

const (
	// MethodCurrentBack counts BOH again; delivered is the difference from the night BOH.
	MethodCurrentBack MorningMethod = "current_back"
	// MethodDirect records the delivered quantity as entered.
	MethodDirect MorningMethod = "direct"
)

// ParseMorningMethod accepts the canonical names and the legacy
// boh_count/direct_delivered spellings.
func ParseMorningMethod(s string) (MorningMethod, error) {
	switch s {
	case string(MethodCurrentBack), "boh_count":
		return MethodCurrentBack, nil
	case string(MethodDirect), "direct_delivered":
		return MethodDirect, nil
	}
	return "", apperr.Validation("invalid method: %s", s)
}

// Entry holds the raw values collected for one catalog item in a session.
// Nil means the phase has not supplied the value.
type Entry struct {
	FrontCount       *int
	BackCount        *int
	MorningMethod    MorningMethod
	CurrentBackCount *int
	Delivered        *int
	OnOrder          *int
}

// MorningInput is one item's morning submission.
type MorningInput struct {
	Method           MorningMethod
	CurrentBackCount *int
	Delivered        *int
}

// ApplyMorning returns e updated with the morning input.
// Rules:
// - current_back requires current_back_count; delivered = max(0, current - night BOH)
// - direct requires delivered; current_back_count is cleared
func ApplyMorning(e Entry, in MorningInput) (Entry, error) {
	switch in.Method {
	case MethodCurrentBack:
		if in.CurrentBackCount == nil {
			return e, apperr.Validation("current_back_count required for %s method", MethodCurrentBack)
		}
		if *in.CurrentBackCount < 0 {
			return e, apperr.Validation("current_back_count must be a non-negative integer")
		}
		current := *in.CurrentBackCount
		delivered := DeliveredFromBackCount(current, valueOr(e.BackCount, 0))
		e.MorningMethod = MethodCurrentBack
		e.CurrentBackCount = &current
		e.Delivered = &delivered
	case MethodDirect:
		if in.Delivered == nil {
			return e, apperr.Validation("delivered required for %s method", MethodDirect)
		}
		if *in.Delivered < 0 {
			return e, apperr.Validation("delivered must be a non-negative integer")
		}
		delivered := *in.Delivered
		e.MorningMethod = MethodDirect
		e.CurrentBackCount = nil
		e.Delivered = &delivered
	default:
		return e, apperr.Validation("invalid method: %s", in.Method)
	}
	return e, nil
}

// DeliveredFromBackCount clamps at zero: a morning count below the night
// count is recorded as no delivery, not as a loss.
func DeliveredFromBackCount(currentBack, nightBack int) int {
	return max(0, currentBack-nightBack)
}

// CalculateDelivered derives the delivered quantity from the stored entry.
// Returns nil when the morning phase has not supplied enough data.
func CalculateDelivered(e Entry) *int {
	switch e.MorningMethod {
	case MethodCurrentBack:
		if e.CurrentBackCount != nil && e.BackCount != nil {
			d := DeliveredFromBackCount(*e.CurrentBackCount, *e.BackCount)
			return &d
		}
	case MethodDirect:
		return e.Delivered
	}
	return nil
}

// Line is one item's row in the session summary.
type Line struct {
	Front     int
	Back      int
	Delivered int
	OnOrder   int
	Total     int
	Par       int
	Order     int
}

// Summarize computes the summary row for an entry against its par.
// Missing components count as zero.
//
//	total = front + back + delivered
//	order = max(0, par - total - on_order)
func Summarize(e Entry, par int) Line {
	l := Line{
		Front:     valueOr(e.FrontCount, 0),
		Back:      valueOr(e.BackCount, 0),
		Delivered: valueOr(CalculateDelivered(e), 0),
		OnOrder:   valueOr(e.OnOrder, 0),
		Par:       par,
	}
	l.Total = l.Front + l.Back + l.Delivered
	l.Order = OrderQuantity(par, l.Total, l.OnOrder)
	return l
}

// OrderQuantity is the amount to order, never negative.
func OrderQuantity(par, total, onOrder int) int {
	return max(0, par-total-onOrder)
}

// Totals sums summary lines across a session.
type Totals struct {
	Front     int
	Back      int
	Delivered int
	OnOrder   int
	Total     int
	Order     int
}

// Add accumulates l into t.
func (t *Totals) Add(l Line) {
	t.Front += l.Front
	t.Back += l.Back
	t.Delivered += l.Delivered
	t.OnOrder += l.OnOrder
	t.Total += l.Total
	t.Order += l.Order
}

func valueOr(p *int, fallback int) int {
	if p == nil {
		return fallback
	}
	return *p
}
