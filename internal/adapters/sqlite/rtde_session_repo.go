package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/example/storeops/internal/apperr"
	"github.com/example/storeops/internal/ports/secondary"
)

// RTDESessionRepository implements secondary.RTDESessionRepository with SQLite.
type RTDESessionRepository struct {
	db *sql.DB
}

// NewRTDESessionRepository creates a new SQLite RTD&E session repository.
func NewRTDESessionRepository(db *sql.DB) *RTDESessionRepository {
	return &RTDESessionRepository{db: db}
}

const rtdeSessionSelect = `SELECT id, user_id, status, started_at, expires_at, completed_at FROM rtde_sessions`

// CreateReplacing deletes the user's in-progress sessions and inserts s.
func (r *RTDESessionRepository) CreateReplacing(ctx context.Context, s *secondary.RTDESessionRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM rtde_sessions WHERE user_id = ? AND status = 'in_progress'`, s.UserID,
	); err != nil {
		return fmt.Errorf("failed to clear previous sessions: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO rtde_sessions (id, user_id, status, started_at, expires_at) VALUES (?, ?, ?, ?, ?)`,
		s.ID, s.UserID, s.Status, utc(s.StartedAt), utc(s.ExpiresAt),
	); err != nil {
		return fmt.Errorf("failed to create rtde session: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit rtde session: %w", err)
	}
	return nil
}

// GetByID retrieves a session by its ID.
func (r *RTDESessionRepository) GetByID(ctx context.Context, id string) (*secondary.RTDESessionRecord, error) {
	record, err := scanRTDESession(r.db.QueryRowContext(ctx, rtdeSessionSelect+` WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("session %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get rtde session: %w", err)
	}
	return record, nil
}

// GetLatestInProgress returns the user's most recently started in-progress session.
func (r *RTDESessionRepository) GetLatestInProgress(ctx context.Context, userID string) (*secondary.RTDESessionRecord, error) {
	record, err := scanRTDESession(r.db.QueryRowContext(ctx,
		rtdeSessionSelect+` WHERE user_id = ? AND status = 'in_progress' ORDER BY started_at DESC, rowid DESC LIMIT 1`, userID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active rtde session: %w", err)
	}
	return record, nil
}

// MarkExpired flips an in-progress session to expired.
func (r *RTDESessionRepository) MarkExpired(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE rtde_sessions SET status = 'expired' WHERE id = ? AND status = 'in_progress'`, id,
	); err != nil {
		return fmt.Errorf("failed to expire rtde session: %w", err)
	}
	return nil
}

// UpsertCount sets counted_quantity for (session, item). The row is only
// written while the session is in progress.
func (r *RTDESessionRepository) UpsertCount(ctx context.Context, sessionID, itemID string, quantity int, at time.Time) error {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO rtde_session_counts (id, session_id, item_id, counted_quantity, is_pulled, updated_at)
		SELECT ?, ?, ?, ?, 0, ?
		WHERE EXISTS (SELECT 1 FROM rtde_sessions WHERE id = ? AND status = 'in_progress')
		ON CONFLICT(session_id, item_id) DO UPDATE SET counted_quantity = excluded.counted_quantity, updated_at = excluded.updated_at`,
		uuid.NewString(), sessionID, itemID, quantity, utc(at), sessionID,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert count: %w", err)
	}
	return r.checkUpsert(ctx, result, sessionID)
}

// UpsertPulled sets is_pulled for (session, item), creating the row with a
// zero count if needed.
func (r *RTDESessionRepository) UpsertPulled(ctx context.Context, sessionID, itemID string, pulled bool, at time.Time) error {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO rtde_session_counts (id, session_id, item_id, counted_quantity, is_pulled, updated_at)
		SELECT ?, ?, ?, 0, ?, ?
		WHERE EXISTS (SELECT 1 FROM rtde_sessions WHERE id = ? AND status = 'in_progress')
		ON CONFLICT(session_id, item_id) DO UPDATE SET is_pulled = excluded.is_pulled, updated_at = excluded.updated_at`,
		uuid.NewString(), sessionID, itemID, boolToInt(pulled), utc(at), sessionID,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert pulled flag: %w", err)
	}
	return r.checkUpsert(ctx, result, sessionID)
}

func (r *RTDESessionRepository) checkUpsert(ctx context.Context, result sql.Result, sessionID string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n > 0 {
		return nil
	}
	s, err := r.GetByID(ctx, sessionID)
	if err != nil {
		return err
	}
	return &secondary.StatusMismatchError{SessionID: sessionID, Actual: s.Status}
}

// ListItemStates returns every active item joined with the session's count rows.
func (r *RTDESessionRepository) ListItemStates(ctx context.Context, sessionID string) ([]*secondary.RTDEItemStateRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT i.id, i.name, i.brand, i.icon, i.par_level, i.display_order,
			c.id IS NOT NULL, COALESCE(c.counted_quantity, 0), COALESCE(c.is_pulled, 0)
		FROM rtde_items i
		LEFT JOIN rtde_session_counts c ON c.item_id = i.id AND c.session_id = ?
		WHERE i.active = 1
		ORDER BY i.display_order, i.rowid, i.id`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list item states: %w", err)
	}
	defer rows.Close()

	var states []*secondary.RTDEItemStateRecord
	for rows.Next() {
		var (
			st               secondary.RTDEItemStateRecord
			brand, icon      sql.NullString
			hasCount, pulled int
		)
		if err := rows.Scan(&st.ItemID, &st.Name, &brand, &icon, &st.ParLevel, &st.DisplayOrder,
			&hasCount, &st.Counted, &pulled); err != nil {
			return nil, fmt.Errorf("failed to scan item state: %w", err)
		}
		st.Brand = brand.String
		st.Icon = icon.String
		st.HasCount = hasCount == 1
		st.IsPulled = pulled == 1
		states = append(states, &st)
	}
	return states, rows.Err()
}

// Complete records the completion then removes the session and the user's
// stray in-progress sessions. The completion event is the durable history.
func (r *RTDESessionRepository) Complete(ctx context.Context, c *secondary.RTDECompletion) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE rtde_sessions SET status = 'completed', completed_at = ? WHERE id = ? AND status = 'in_progress'`,
		utc(c.CompletedAt), c.SessionID,
	)
	if err != nil {
		return fmt.Errorf("failed to complete rtde session: %w", err)
	}
	if n, _ := result.RowsAffected(); n != 1 {
		var actual string
		err := tx.QueryRowContext(ctx, `SELECT status FROM rtde_sessions WHERE id = ?`, c.SessionID).Scan(&actual)
		if err == sql.ErrNoRows {
			return apperr.NotFound("session %s not found", c.SessionID)
		}
		if err != nil {
			return fmt.Errorf("failed to read rtde session status: %w", err)
		}
		return &secondary.StatusMismatchError{SessionID: c.SessionID, Actual: actual}
	}

	if c.Event != nil {
		if err := insertActivity(ctx, tx, c.Event); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM rtde_sessions WHERE id = ?`, c.SessionID); err != nil {
		return fmt.Errorf("failed to delete completed session: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM rtde_sessions WHERE user_id = ? AND status = 'in_progress'`, c.UserID,
	); err != nil {
		return fmt.Errorf("failed to delete stray sessions: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit completion: %w", err)
	}
	return nil
}

// DeleteExpired removes every in-progress session past its expiry in a
// single statement. Zero matches is not an error.
func (r *RTDESessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM rtde_sessions WHERE status = 'in_progress' AND expires_at < ?`, utc(now))
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return result.RowsAffected()
}

func scanRTDESession(s rowScanner) (*secondary.RTDESessionRecord, error) {
	var (
		record      secondary.RTDESessionRecord
		completedAt sql.NullTime
	)
	if err := s.Scan(&record.ID, &record.UserID, &record.Status, &record.StartedAt, &record.ExpiresAt, &completedAt); err != nil {
		return nil, err
	}
	record.CompletedAt = timePtr(completedAt)
	return &record, nil
}

var _ secondary.RTDESessionRepository = (*RTDESessionRepository)(nil)
