package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/example/storeops/internal/apperr"
	"github.com/example/storeops/internal/ports/primary"
)

// mockRTDEService implements primary.RTDEService for testing.
type mockRTDEService struct {
	startFn    func(ctx context.Context, userID, action string) (*primary.RTDEStartResult, error)
	activeFn   func(ctx context.Context, userID string) (*primary.RTDEActiveSession, error)
	pullListFn func(ctx context.Context, sessionID, userID string) (*primary.RTDEPullList, error)
	err        error
	swept      int64

	lastItem   string
	lastQty    int
	lastPulled bool
}

func (m *mockRTDEService) StartOrResume(ctx context.Context, userID, action string) (*primary.RTDEStartResult, error) {
	if m.startFn != nil {
		return m.startFn(ctx, userID, action)
	}
	return &primary.RTDEStartResult{SessionID: "RTDE-1", ExpiresAt: time.Now().Add(30 * time.Minute)}, nil
}

func (m *mockRTDEService) GetActiveSession(ctx context.Context, userID string) (*primary.RTDEActiveSession, error) {
	if m.activeFn != nil {
		return m.activeFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockRTDEService) GetSession(ctx context.Context, sessionID, userID string) (*primary.RTDESessionDetail, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &primary.RTDESessionDetail{
		SessionID: sessionID,
		UserID:    userID,
		Status:    "in_progress",
		Items: []primary.RTDESessionItem{
			{ItemID: "I-1", Name: "Cold Brew", Brand: "House", Icon: "🧋", ParLevel: 6, Counted: 6},
			{ItemID: "I-2", Name: "Egg Bites", ParLevel: 4, Need: 4, IsPulled: true},
		},
	}, nil
}

func (m *mockRTDEService) UpdateCount(ctx context.Context, sessionID, userID, itemID string, quantity int) error {
	m.lastItem, m.lastQty = itemID, quantity
	return m.err
}

func (m *mockRTDEService) GetPullList(ctx context.Context, sessionID, userID string) (*primary.RTDEPullList, error) {
	if m.pullListFn != nil {
		return m.pullListFn(ctx, sessionID, userID)
	}
	return &primary.RTDEPullList{SessionID: sessionID}, nil
}

func (m *mockRTDEService) MarkPulled(ctx context.Context, sessionID, userID, itemID string, pulled bool) error {
	m.lastItem, m.lastPulled = itemID, pulled
	return m.err
}

func (m *mockRTDEService) Complete(ctx context.Context, sessionID, userID string) error {
	return m.err
}

func (m *mockRTDEService) SweepExpired(ctx context.Context) (int64, error) {
	return m.swept, m.err
}

func TestRTDEAdapter_Start(t *testing.T) {
	tests := []struct {
		name    string
		resumed bool
		want    string
	}{
		{"new", false, "Started RTD&E session RTDE-1"},
		{"resumed", true, "Resumed RTD&E session RTDE-1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockRTDEService{
				startFn: func(ctx context.Context, userID, action string) (*primary.RTDEStartResult, error) {
					return &primary.RTDEStartResult{SessionID: "RTDE-1", Resumed: tt.resumed}, nil
				},
			}
			var buf bytes.Buffer
			if _, err := NewRTDEAdapter(mock, &buf).Start(context.Background(), "u1", "resume"); err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("expected %q, got %q", tt.want, buf.String())
			}
		})
	}
}

func TestRTDEAdapter_Start_NoActiveSession(t *testing.T) {
	mock := &mockRTDEService{
		startFn: func(ctx context.Context, userID, action string) (*primary.RTDEStartResult, error) {
			return nil, apperr.NoActiveSession("no active session to resume")
		},
	}
	var buf bytes.Buffer
	_, err := NewRTDEAdapter(mock, &buf).Start(context.Background(), "u1", "resume")
	if !errors.Is(err, apperr.ErrNoActiveSession) {
		t.Errorf("expected no active session, got %v", err)
	}
}

func TestRTDEAdapter_Active(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewRTDEAdapter(&mockRTDEService{}, &buf)
	got, err := adapter.Active(context.Background(), "u1")
	if err != nil || got != nil {
		t.Fatalf("got %+v, %v", got, err)
	}
	if !strings.Contains(buf.String(), "No active RTD&E session for u1") {
		t.Errorf("unexpected output: %s", buf.String())
	}

	buf.Reset()
	mock := &mockRTDEService{
		activeFn: func(ctx context.Context, userID string) (*primary.RTDEActiveSession, error) {
			return &primary.RTDEActiveSession{SessionID: "RTDE-1", ItemsCounted: 3, TotalItems: 7}, nil
		},
	}
	if _, err := NewRTDEAdapter(mock, &buf).Active(context.Background(), "u1"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "Counted: 3/7 items") {
		t.Errorf("unexpected output: %s", buf.String())
	}
}

func TestRTDEAdapter_Show(t *testing.T) {
	var buf bytes.Buffer
	detail, err := NewRTDEAdapter(&mockRTDEService{}, &buf).Show(context.Background(), "RTDE-1", "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(detail.Items) != 2 {
		t.Errorf("items = %d", len(detail.Items))
	}
	output := buf.String()
	for _, want := range []string{"RTDE-1", "🧋 Cold Brew", "House", "Egg Bites"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, output)
		}
	}
}

func TestRTDEAdapter_Show_Forbidden(t *testing.T) {
	mock := &mockRTDEService{err: apperr.Forbidden("session belongs to another user")}
	var buf bytes.Buffer
	_, err := NewRTDEAdapter(mock, &buf).Show(context.Background(), "RTDE-1", "u2")
	if !errors.Is(err, apperr.ErrForbidden) {
		t.Errorf("expected forbidden, got %v", err)
	}
}

func TestRTDEAdapter_CountAndPull(t *testing.T) {
	mock := &mockRTDEService{}
	var buf bytes.Buffer
	adapter := NewRTDEAdapter(mock, &buf)
	ctx := context.Background()

	if err := adapter.Count(ctx, "RTDE-1", "u1", "I-1", 5); err != nil {
		t.Fatal(err)
	}
	if mock.lastItem != "I-1" || mock.lastQty != 5 {
		t.Errorf("count not forwarded: %s=%d", mock.lastItem, mock.lastQty)
	}
	if err := adapter.Pull(ctx, "RTDE-1", "u1", "I-2", true); err != nil {
		t.Fatal(err)
	}
	if err := adapter.Pull(ctx, "RTDE-1", "u1", "I-2", false); err != nil {
		t.Fatal(err)
	}
	if mock.lastPulled {
		t.Error("unpull not forwarded")
	}
	output := buf.String()
	for _, want := range []string{"I-1 counted: 5", "I-2 marked pulled", "I-2 marked not pulled"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, output)
		}
	}
}

func TestRTDEAdapter_PullList(t *testing.T) {
	var buf bytes.Buffer
	pl, err := NewRTDEAdapter(&mockRTDEService{}, &buf).PullList(context.Background(), "RTDE-1", "u1")
	if err != nil || pl.TotalItems != 0 {
		t.Fatalf("got %+v, %v", pl, err)
	}
	if !strings.Contains(buf.String(), "Nothing to pull") {
		t.Errorf("unexpected output: %s", buf.String())
	}

	buf.Reset()
	mock := &mockRTDEService{
		pullListFn: func(ctx context.Context, sessionID, userID string) (*primary.RTDEPullList, error) {
			return &primary.RTDEPullList{
				SessionID:   sessionID,
				Items:       []primary.RTDEPullItem{{ItemID: "I-2", Name: "Egg Bites", Need: 4, IsPulled: true}, {ItemID: "I-3", Name: "Yogurt", Need: 2}},
				TotalItems:  2,
				PulledItems: 1,
			}, nil
		},
	}
	if _, err := NewRTDEAdapter(mock, &buf).PullList(context.Background(), "RTDE-1", "u1"); err != nil {
		t.Fatal(err)
	}
	output := buf.String()
	for _, want := range []string{"1/2 pulled", "Egg Bites", "pull 4", "Yogurt", "pull 2"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, output)
		}
	}
}

func TestRTDEAdapter_CompleteAndSweep(t *testing.T) {
	mock := &mockRTDEService{swept: 2}
	var buf bytes.Buffer
	adapter := NewRTDEAdapter(mock, &buf)

	if err := adapter.Complete(context.Background(), "RTDE-1", "u1"); err != nil {
		t.Fatal(err)
	}
	n, err := adapter.Sweep(context.Background())
	if err != nil || n != 2 {
		t.Fatalf("sweep = %d, %v", n, err)
	}
	output := buf.String()
	if !strings.Contains(output, "RTDE-1 completed") || !strings.Contains(output, "Removed 2 expired") {
		t.Errorf("unexpected output: %s", output)
	}

	mock.err = apperr.InvalidPhase("session RTDE-1 is not in progress - session status is expired")
	if err := adapter.Complete(context.Background(), "RTDE-1", "u1"); !errors.Is(err, apperr.ErrInvalidPhase) {
		t.Errorf("expected invalid phase, got %v", err)
	}
}
