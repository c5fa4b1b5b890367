package rtde

import (
	"errors"
	"testing"
	"time"

	"github.com/example/storeops/internal/apperr"
)

var t0 = time.Date(2026, 1, 15, 14, 0, 0, 0, time.UTC)

func TestExpiresAt(t *testing.T) {
	if got := ExpiresAt(t0, 0); !got.Equal(t0.Add(30 * time.Minute)) {
		t.Errorf("ExpiresAt with zero window = %v, want default 30m", got)
	}
	if got := ExpiresAt(t0, 4*time.Hour); !got.Equal(t0.Add(4 * time.Hour)) {
		t.Errorf("ExpiresAt = %v, want +4h", got)
	}
}

func TestIsExpired(t *testing.T) {
	exp := t0.Add(DefaultSessionWindow)
	tests := []struct {
		name   string
		status Status
		now    time.Time
		want   bool
	}{
		{"before expiry", StatusInProgress, exp.Add(-time.Second), false},
		{"exactly at expiry", StatusInProgress, exp, false},
		{"after expiry", StatusInProgress, exp.Add(time.Second), true},
		{"completed sessions never expire", StatusCompleted, exp.Add(time.Hour), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsExpired(tt.status, exp, tt.now); got != tt.want {
				t.Errorf("IsExpired = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRemaining(t *testing.T) {
	exp := t0.Add(10 * time.Minute)
	if got := Remaining(exp, t0); got != 10*time.Minute {
		t.Errorf("Remaining = %v, want 10m", got)
	}
	if got := Remaining(exp, exp.Add(time.Minute)); got != 0 {
		t.Errorf("Remaining past expiry = %v, want 0", got)
	}
}

func TestParseAction(t *testing.T) {
	for _, s := range []string{"new", "resume"} {
		if _, ok := ParseAction(s); !ok {
			t.Errorf("ParseAction(%q) rejected", s)
		}
	}
	if _, ok := ParseAction("restart"); ok {
		t.Error("ParseAction(restart) accepted")
	}
}

func TestCanModifySession(t *testing.T) {
	exp := t0.Add(DefaultSessionWindow)
	tests := []struct {
		name     string
		ctx      AccessContext
		wantKind apperr.Kind
	}{
		{
			name: "owner of live session",
			ctx:  AccessContext{SessionID: "R-1", SessionExists: true, OwnerID: "u1", CallerID: "u1", Status: StatusInProgress, ExpiresAt: exp, Now: t0},
		},
		{
			name:     "missing session is not found even for strangers",
			ctx:      AccessContext{SessionID: "R-1", SessionExists: false, CallerID: "u2"},
			wantKind: apperr.KindNotFound,
		},
		{
			name:     "other user is forbidden",
			ctx:      AccessContext{SessionID: "R-1", SessionExists: true, OwnerID: "u1", CallerID: "u2", Status: StatusInProgress, ExpiresAt: exp, Now: t0},
			wantKind: apperr.KindForbidden,
		},
		{
			name:     "other user is forbidden before phase is checked",
			ctx:      AccessContext{SessionID: "R-1", SessionExists: true, OwnerID: "u1", CallerID: "u2", Status: StatusExpired, ExpiresAt: exp, Now: t0},
			wantKind: apperr.KindForbidden,
		},
		{
			name:     "lapsed window",
			ctx:      AccessContext{SessionID: "R-1", SessionExists: true, OwnerID: "u1", CallerID: "u1", Status: StatusInProgress, ExpiresAt: exp, Now: exp.Add(time.Minute)},
			wantKind: apperr.KindInvalidPhase,
		},
		{
			name:     "already expired",
			ctx:      AccessContext{SessionID: "R-1", SessionExists: true, OwnerID: "u1", CallerID: "u1", Status: StatusExpired, ExpiresAt: exp, Now: t0},
			wantKind: apperr.KindInvalidPhase,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := CanModifySession(tt.ctx)
			if tt.wantKind == "" {
				if !r.Allowed {
					t.Fatalf("denied: %s", r.Reason)
				}
				return
			}
			if r.Allowed {
				t.Fatal("expected denial")
			}
			if r.Kind != tt.wantKind {
				t.Errorf("Kind = %q, want %q", r.Kind, tt.wantKind)
			}
		})
	}
}

func TestCanModifySession_MessageNamesStatus(t *testing.T) {
	r := CanModifySession(AccessContext{SessionID: "R-1", SessionExists: true, OwnerID: "u1", CallerID: "u1", Status: StatusCompleted})
	if r.Reason != "session R-1 is not in progress - session status is completed" {
		t.Errorf("Reason = %q", r.Reason)
	}
}

func TestCanResume(t *testing.T) {
	exp := t0.Add(DefaultSessionWindow)
	tests := []struct {
		name        string
		ctx         ResumeContext
		wantAllowed bool
		wantReason  string
	}{
		{"live session", ResumeContext{Found: true, Status: StatusInProgress, ExpiresAt: exp, Now: t0}, true, ""},
		{"none", ResumeContext{}, false, "No active session to resume"},
		{"expired", ResumeContext{Found: true, Status: StatusInProgress, ExpiresAt: exp, Now: exp.Add(time.Second)}, false, "Session has expired. Please start a new session."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := CanResume(tt.ctx)
			if r.Allowed != tt.wantAllowed {
				t.Fatalf("Allowed = %v, want %v", r.Allowed, tt.wantAllowed)
			}
			if !tt.wantAllowed {
				if r.Reason != tt.wantReason {
					t.Errorf("Reason = %q, want %q", r.Reason, tt.wantReason)
				}
				if !errors.Is(r.Error(), apperr.ErrNoActiveSession) {
					t.Errorf("Error() = %v, want no-active-session", r.Error())
				}
			}
		})
	}
}

func TestBuildPullList(t *testing.T) {
	items := []ItemState{
		{ItemID: "at-par", Name: "Cold Brew", ParLevel: 6, HasCount: true, Counted: 6},
		{ItemID: "no-row", Name: "Egg Bites", ParLevel: 4},
		{ItemID: "over", Name: "Lemonade", ParLevel: 3, HasCount: true, Counted: 9},
		{ItemID: "short", Name: "Yogurt", ParLevel: 5, HasCount: true, Counted: 2, IsPulled: true},
		{ItemID: "zero-par", Name: "Seasonal", ParLevel: 0},
	}

	pl := BuildPullList(items)

	if pl.TotalItems != 2 {
		t.Fatalf("TotalItems = %d, want 2", pl.TotalItems)
	}
	if pl.PulledItems != 1 {
		t.Errorf("PulledItems = %d, want 1", pl.PulledItems)
	}
	if pl.Items[0].ItemID != "no-row" || pl.Items[0].Need != 4 {
		t.Errorf("first item = %+v, want no-row with need 4", pl.Items[0])
	}
	if pl.Items[1].ItemID != "short" || pl.Items[1].Need != 3 || !pl.Items[1].IsPulled {
		t.Errorf("second item = %+v, want short with need 3 pulled", pl.Items[1])
	}
	for _, it := range pl.Items {
		if it.ItemID == "at-par" {
			t.Error("item at par must not appear in pull list")
		}
	}
}

func TestBuildPullList_EmptyIsNotNil(t *testing.T) {
	pl := BuildPullList(nil)
	if pl.Items == nil || pl.TotalItems != 0 {
		t.Errorf("BuildPullList(nil) = %+v", pl)
	}
}

func TestCountedItems(t *testing.T) {
	items := []ItemState{
		{HasCount: true, Counted: 3},
		{HasCount: true, Counted: 0},
		{HasCount: false},
		{HasCount: true, Counted: 1},
	}
	if got := CountedItems(items); got != 2 {
		t.Errorf("CountedItems = %d, want 2", got)
	}
}

func TestValidateQuantity(t *testing.T) {
	if err := ValidateQuantity(0); err != nil {
		t.Errorf("ValidateQuantity(0) = %v", err)
	}
	if err := ValidateQuantity(-1); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("ValidateQuantity(-1) = %v, want validation", err)
	}
}
