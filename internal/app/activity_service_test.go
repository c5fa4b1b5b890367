package app

import (
	"context"
	"fmt"
	"testing"

	"github.com/example/storeops/internal/ports/secondary"
)

func TestRecentActivity_Limits(t *testing.T) {
	repo := &mockActivityLogRepository{}
	for i := 0; i < 30; i++ {
		repo.records = append(repo.records, &secondary.ActivityRecord{ID: fmt.Sprintf("A-%02d", i), Tool: ToolMilkOrder, Action: ActionSessionStarted})
	}
	service := NewActivityService(repo)
	ctx := context.Background()

	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{"default", 0, 8},
		{"explicit", 5, 5},
		{"capped", 500, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := service.RecentActivity(ctx, tt.limit)
			if err != nil {
				t.Fatalf("RecentActivity failed: %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("len = %d, want %d", len(got), tt.want)
			}
			if got[0].ID != "A-29" {
				t.Errorf("first = %s, want newest", got[0].ID)
			}
		})
	}
}

func TestLastCompletedRTDE(t *testing.T) {
	repo := &mockActivityLogRepository{}
	service := NewActivityService(repo)
	ctx := context.Background()

	got, err := service.LastCompletedRTDE(ctx)
	if err != nil || got != nil {
		t.Fatalf("empty log = %v, %v; want nil, nil", got, err)
	}

	repo.records = append(repo.records,
		&secondary.ActivityRecord{ID: "A-1", Tool: ToolRTDE, Action: ActionCompleted, ActorID: "u1", CreatedAt: t0},
		&secondary.ActivityRecord{ID: "A-2", Tool: ToolRTDE, Action: ActionSwept, CreatedAt: t0},
	)
	got, err = service.LastCompletedRTDE(ctx)
	if err != nil || got == nil || got.ID != "A-1" || got.ActorID != "u1" {
		t.Errorf("LastCompletedRTDE = %+v, %v", got, err)
	}
}
