package milkorder

import (
	"errors"
	"testing"

	"github.com/example/storeops/internal/apperr"
)

func intPtr(i int) *int { return &i }

func TestParseMorningMethod(t *testing.T) {
	tests := []struct {
		in      string
		want    MorningMethod
		wantErr bool
	}{
		{"current_back", MethodCurrentBack, false},
		{"boh_count", MethodCurrentBack, false},
		{"direct", MethodDirect, false},
		{"direct_delivered", MethodDirect, false},
		{"guess", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMorningMethod(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
			if err != nil && !errors.Is(err, apperr.ErrValidation) {
				t.Errorf("err kind = %q, want validation", apperr.KindOf(err))
			}
		})
	}
}

func TestApplyMorning(t *testing.T) {
	t.Run("current back computes delivered", func(t *testing.T) {
		e, err := ApplyMorning(Entry{BackCount: intPtr(20)}, MorningInput{Method: MethodCurrentBack, CurrentBackCount: intPtr(30)})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if *e.Delivered != 10 {
			t.Errorf("Delivered = %d, want 10", *e.Delivered)
		}
		if *e.CurrentBackCount != 30 {
			t.Errorf("CurrentBackCount = %d, want 30", *e.CurrentBackCount)
		}
	})

	t.Run("current back below night count clamps to zero", func(t *testing.T) {
		e, err := ApplyMorning(Entry{BackCount: intPtr(20)}, MorningInput{Method: MethodCurrentBack, CurrentBackCount: intPtr(15)})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := CalculateDelivered(e); got == nil || *got != 0 {
			t.Errorf("CalculateDelivered = %v, want 0", got)
		}
	})

	t.Run("missing night back count treated as zero", func(t *testing.T) {
		e, err := ApplyMorning(Entry{}, MorningInput{Method: MethodCurrentBack, CurrentBackCount: intPtr(7)})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if *e.Delivered != 7 {
			t.Errorf("Delivered = %d, want 7", *e.Delivered)
		}
	})

	t.Run("direct stores verbatim and clears current back", func(t *testing.T) {
		e, err := ApplyMorning(Entry{BackCount: intPtr(20), CurrentBackCount: intPtr(99)}, MorningInput{Method: MethodDirect, Delivered: intPtr(8)})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := CalculateDelivered(e); got == nil || *got != 8 {
			t.Errorf("CalculateDelivered = %v, want 8", got)
		}
		if e.CurrentBackCount != nil {
			t.Errorf("CurrentBackCount = %d, want nil", *e.CurrentBackCount)
		}
	})

	errorCases := []struct {
		name       string
		in         MorningInput
		wantReason string
	}{
		{"current back missing field", MorningInput{Method: MethodCurrentBack}, "current_back_count required for current_back method"},
		{"direct missing field", MorningInput{Method: MethodDirect}, "delivered required for direct method"},
		{"negative current back", MorningInput{Method: MethodCurrentBack, CurrentBackCount: intPtr(-1)}, "current_back_count must be a non-negative integer"},
		{"negative delivered", MorningInput{Method: MethodDirect, Delivered: intPtr(-3)}, "delivered must be a non-negative integer"},
		{"unknown method", MorningInput{Method: "estimate"}, "invalid method: estimate"},
	}
	for _, tt := range errorCases {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ApplyMorning(Entry{}, tt.in)
			if !errors.Is(err, apperr.ErrValidation) {
				t.Fatalf("err = %v, want validation error", err)
			}
			if err.Error() != tt.wantReason {
				t.Errorf("message = %q, want %q", err.Error(), tt.wantReason)
			}
		})
	}
}

func TestCalculateDelivered_NoMorningData(t *testing.T) {
	if got := CalculateDelivered(Entry{BackCount: intPtr(5)}); got != nil {
		t.Errorf("CalculateDelivered = %d, want nil", *got)
	}
	if got := CalculateDelivered(Entry{MorningMethod: MethodCurrentBack, CurrentBackCount: intPtr(5)}); got != nil {
		t.Errorf("CalculateDelivered without night BOH = %d, want nil", *got)
	}
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name      string
		entry     Entry
		par       int
		wantTotal int
		wantOrder int
	}{
		{
			name: "order formula",
			entry: Entry{
				FrontCount: intPtr(10), BackCount: intPtr(20),
				MorningMethod: MethodDirect, Delivered: intPtr(10), OnOrder: intPtr(5),
			},
			par:       50,
			wantTotal: 40,
			wantOrder: 5,
		},
		{
			name: "order floors at zero",
			entry: Entry{
				FrontCount: intPtr(20), BackCount: intPtr(30),
				MorningMethod: MethodDirect, Delivered: intPtr(0),
			},
			par:       30,
			wantTotal: 50,
			wantOrder: 0,
		},
		{
			name:      "missing components count as zero",
			entry:     Entry{FrontCount: intPtr(4)},
			par:       10,
			wantTotal: 4,
			wantOrder: 6,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := Summarize(tt.entry, tt.par)
			if l.Total != tt.wantTotal {
				t.Errorf("Total = %d, want %d", l.Total, tt.wantTotal)
			}
			if l.Order != tt.wantOrder {
				t.Errorf("Order = %d, want %d", l.Order, tt.wantOrder)
			}
		})
	}
}

func TestTotalsAdd(t *testing.T) {
	var totals Totals
	totals.Add(Line{Front: 10, Back: 20, Delivered: 10, OnOrder: 5, Total: 40, Order: 5})
	totals.Add(Line{Front: 8, Back: 15, Delivered: 5, OnOrder: 0, Total: 28, Order: 32})

	want := Totals{Front: 18, Back: 35, Delivered: 15, OnOrder: 5, Total: 68, Order: 37}
	if totals != want {
		t.Errorf("totals = %+v, want %+v", totals, want)
	}
}
