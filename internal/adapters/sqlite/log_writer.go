package sqlite

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/example/storeops/internal/ctxutil"
	"github.com/example/storeops/internal/ports/secondary"
)

// LogWriterAdapter implements secondary.ActivityWriter using ActivityLogRepository.
type LogWriterAdapter struct {
	logRepo secondary.ActivityLogRepository
	now     func() time.Time
}

// NewLogWriterAdapter creates a new LogWriterAdapter.
func NewLogWriterAdapter(logRepo secondary.ActivityLogRepository) *LogWriterAdapter {
	return &LogWriterAdapter{logRepo: logRepo, now: time.Now}
}

// Record appends an event attributed to the actor carried in ctx.
func (w *LogWriterAdapter) Record(ctx context.Context, tool, action, entityID, detail string) error {
	return w.logRepo.Create(ctx, &secondary.ActivityRecord{
		ID:        uuid.NewString(),
		Tool:      tool,
		Action:    action,
		EntityID:  entityID,
		ActorID:   ctxutil.ActorFromContext(ctx),
		Detail:    detail,
		CreatedAt: w.now(),
	})
}

// Ensure LogWriterAdapter implements the interface
var _ secondary.ActivityWriter = (*LogWriterAdapter)(nil)
