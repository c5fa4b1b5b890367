package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/storeops/internal/ports/secondary"
)

// ActivityLogRepository implements secondary.ActivityLogRepository with SQLite.
type ActivityLogRepository struct {
	db *sql.DB
}

// NewActivityLogRepository creates a new SQLite activity log repository.
func NewActivityLogRepository(db *sql.DB) *ActivityLogRepository {
	return &ActivityLogRepository{db: db}
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertActivity(ctx context.Context, ex execer, e *secondary.ActivityRecord) error {
	_, err := ex.ExecContext(ctx,
		`INSERT INTO activity_log (id, tool, action, entity_id, actor_id, detail, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Tool, e.Action, e.EntityID, nullString(e.ActorID), nullString(e.Detail), utc(e.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create activity entry: %w", err)
	}
	return nil
}

// Create appends an activity entry.
func (r *ActivityLogRepository) Create(ctx context.Context, e *secondary.ActivityRecord) error {
	return insertActivity(ctx, r.db, e)
}

// List retrieves entries newest first.
func (r *ActivityLogRepository) List(ctx context.Context, filters secondary.ActivityFilters) ([]*secondary.ActivityRecord, error) {
	query := `SELECT id, tool, action, entity_id, actor_id, detail, created_at FROM activity_log WHERE 1=1`
	args := []any{}

	if filters.Tool != "" {
		query += " AND tool = ?"
		args = append(args, filters.Tool)
	}
	if filters.Action != "" {
		query += " AND action = ?"
		args = append(args, filters.Action)
	}

	query += " ORDER BY created_at DESC, rowid DESC"

	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	defer rows.Close()

	var entries []*secondary.ActivityRecord
	for rows.Next() {
		e, err := scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Latest returns the newest entry for tool/action, or nil if none.
func (r *ActivityLogRepository) Latest(ctx context.Context, tool, action string) (*secondary.ActivityRecord, error) {
	entries, err := r.List(ctx, secondary.ActivityFilters{Tool: tool, Action: action, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}
	return entries[0], nil
}

func scanActivity(s rowScanner) (*secondary.ActivityRecord, error) {
	var (
		e              secondary.ActivityRecord
		actor, details sql.NullString
	)
	if err := s.Scan(&e.ID, &e.Tool, &e.Action, &e.EntityID, &actor, &details, &e.CreatedAt); err != nil {
		return nil, err
	}
	e.ActorID = actor.String
	e.Detail = details.String
	return &e, nil
}

var _ secondary.ActivityLogRepository = (*ActivityLogRepository)(nil)
