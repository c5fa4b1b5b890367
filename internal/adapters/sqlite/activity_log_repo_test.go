package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/example/storeops/internal/adapters/sqlite"
	"github.com/example/storeops/internal/ctxutil"
	"github.com/example/storeops/internal/ports/secondary"
)

func TestActivityLogRepository_ListAndLatest(t *testing.T) {
	repo := sqlite.NewActivityLogRepository(setupTestDB(t))
	ctx := context.Background()

	events := []*secondary.ActivityRecord{
		{ID: "A-1", Tool: "milk_order", Action: "session_started", EntityID: "S-1", CreatedAt: t0},
		{ID: "A-2", Tool: "rtde", Action: "completed", EntityID: "R-1", ActorID: "u1", CreatedAt: t0.Add(time.Minute)},
		{ID: "A-3", Tool: "rtde", Action: "completed", EntityID: "R-2", ActorID: "u2", Detail: "3 items pulled", CreatedAt: t0.Add(2 * time.Minute)},
	}
	for _, e := range events {
		if err := repo.Create(ctx, e); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	all, err := repo.List(ctx, secondary.ActivityFilters{Limit: 2})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 2 || all[0].ID != "A-3" || all[1].ID != "A-2" {
		t.Errorf("List = %v, want A-3, A-2", ids(all))
	}
	if all[0].Detail != "3 items pulled" {
		t.Errorf("Detail = %q", all[0].Detail)
	}

	latest, err := repo.Latest(ctx, "rtde", "completed")
	if err != nil || latest == nil || latest.ID != "A-3" {
		t.Errorf("Latest = %v, %v", latest, err)
	}
	none, err := repo.Latest(ctx, "rtde", "swept")
	if err != nil || none != nil {
		t.Errorf("Latest(none) = %v, %v", none, err)
	}
}

func TestLogWriterAdapter_AttributesActorFromContext(t *testing.T) {
	database := setupTestDB(t)
	logRepo := sqlite.NewActivityLogRepository(database)
	writer := sqlite.NewLogWriterAdapter(logRepo)

	ctx := ctxutil.WithActorID(context.Background(), "STAFF-7")
	if err := writer.Record(ctx, "milk_order", "front_count_saved", "S-1", "2 items"); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	entries, _ := logRepo.List(context.Background(), secondary.ActivityFilters{})
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	if entries[0].ActorID != "STAFF-7" || entries[0].EntityID != "S-1" || entries[0].ID == "" {
		t.Errorf("entry = %+v", entries[0])
	}
}

func ids(entries []*secondary.ActivityRecord) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}
