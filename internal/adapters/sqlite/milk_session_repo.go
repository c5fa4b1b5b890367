package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/storeops/internal/apperr"
	"github.com/example/storeops/internal/ports/secondary"
)

// MilkSessionRepository implements secondary.MilkSessionRepository with SQLite.
type MilkSessionRepository struct {
	db *sql.DB
}

// NewMilkSessionRepository creates a new SQLite milk session repository.
func NewMilkSessionRepository(db *sql.DB) *MilkSessionRepository {
	return &MilkSessionRepository{db: db}
}

const milkSessionColumns = `id, session_date, status, night_count_user_id, morning_count_user_id,
	night_foh_saved_at, night_boh_saved_at, morning_saved_at, on_order_saved_at, completed_at, created_at`

// Phase columns a PhaseWrite may name. Anything else is rejected before SQL is built.
var (
	stampColumns = map[string]bool{
		"night_foh_saved_at": true,
		"night_boh_saved_at": true,
		"morning_saved_at":   true,
		"on_order_saved_at":  true,
	}
	actorColumns = map[string]string{
		"night":   "night_count_user_id",
		"morning": "morning_count_user_id",
	}
)

// CreateWithEntries inserts the session and its entries in one transaction.
func (r *MilkSessionRepository) CreateWithEntries(ctx context.Context, s *secondary.MilkSessionRecord, entries []*secondary.MilkEntryRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO milk_sessions (id, session_date, status, created_at) VALUES (?, ?, ?, ?)`,
		s.ID, s.SessionDate, s.Status, utc(s.CreatedAt),
	)
	if isUniqueViolation(err) {
		return apperr.Conflict("session already exists for %s", s.SessionDate)
	}
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	for _, e := range entries {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO milk_entries (id, session_id, milk_type_id, updated_at) VALUES (?, ?, ?, ?)`,
			e.ID, s.ID, e.MilkTypeID, utc(e.UpdatedAt),
		)
		if err != nil {
			return fmt.Errorf("failed to create entry for %s: %w", e.MilkTypeID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit session: %w", err)
	}
	return nil
}

// GetByID retrieves a session by its ID.
func (r *MilkSessionRepository) GetByID(ctx context.Context, id string) (*secondary.MilkSessionRecord, error) {
	record, err := scanMilkSession(r.db.QueryRowContext(ctx,
		`SELECT `+milkSessionColumns+` FROM milk_sessions WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("session %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return record, nil
}

// GetByDate returns the session for date, or nil if none.
func (r *MilkSessionRepository) GetByDate(ctx context.Context, date string) (*secondary.MilkSessionRecord, error) {
	record, err := scanMilkSession(r.db.QueryRowContext(ctx,
		`SELECT `+milkSessionColumns+` FROM milk_sessions WHERE session_date = ?`, date))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session by date: %w", err)
	}
	return record, nil
}

// List retrieves sessions newest date first.
func (r *MilkSessionRepository) List(ctx context.Context, filters secondary.MilkSessionFilters) ([]*secondary.MilkSessionRecord, int, error) {
	where := ` WHERE 1=1`
	args := []any{}
	if filters.Status != "" {
		where += ` AND status = ?`
		args = append(args, filters.Status)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM milk_sessions`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count sessions: %w", err)
	}

	query := `SELECT ` + milkSessionColumns + ` FROM milk_sessions` + where + ` ORDER BY session_date DESC`
	if filters.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, filters.Limit, filters.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var records []*secondary.MilkSessionRecord
	for rows.Next() {
		record, err := scanMilkSession(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan session: %w", err)
		}
		records = append(records, record)
	}
	return records, total, rows.Err()
}

// ListEntries retrieves a session's entries in counting order.
func (r *MilkSessionRepository) ListEntries(ctx context.Context, sessionID string) ([]*secondary.MilkEntryRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT e.id, e.session_id, e.milk_type_id, e.front_count, e.back_count, e.morning_method,
			e.current_back_count, e.delivered, e.on_order, e.updated_at,
			m.name, m.category, m.display_order, COALESCE(p.par_value, 0)
		FROM milk_entries e
		JOIN milk_types m ON m.id = e.milk_type_id
		LEFT JOIN milk_par_levels p ON p.milk_type_id = e.milk_type_id
		WHERE e.session_id = ?
		ORDER BY m.display_order, m.rowid, m.id`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	defer rows.Close()

	var entries []*secondary.MilkEntryRecord
	for rows.Next() {
		var (
			e                                            secondary.MilkEntryRecord
			front, back, currentBack, delivered, onOrder sql.NullInt64
			method                                       sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.SessionID, &e.MilkTypeID, &front, &back, &method,
			&currentBack, &delivered, &onOrder, &e.UpdatedAt,
			&e.MilkTypeName, &e.Category, &e.DisplayOrder, &e.ParValue); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		e.FrontCount = intPtr(front)
		e.BackCount = intPtr(back)
		e.MorningMethod = method.String
		e.CurrentBackCount = intPtr(currentBack)
		e.Delivered = intPtr(delivered)
		e.OnOrder = intPtr(onOrder)
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

// ApplyPhase advances the session and writes entry values in one transaction.
// The status predicate in the UPDATE makes check-and-advance atomic: of two
// concurrent callers for the same phase, exactly one sees a row affected.
func (r *MilkSessionRepository) ApplyPhase(ctx context.Context, w *secondary.PhaseWrite) error {
	if !stampColumns[w.StampColumn] {
		return fmt.Errorf("unknown phase column %q", w.StampColumn)
	}
	actorColumn := ""
	if w.ActorSlot != "" {
		col, ok := actorColumns[w.ActorSlot]
		if !ok {
			return fmt.Errorf("unknown actor slot %q", w.ActorSlot)
		}
		actorColumn = col
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	set := `status = ?, ` + w.StampColumn + ` = ?`
	args := []any{w.To, utc(w.At)}
	if actorColumn != "" {
		set += `, ` + actorColumn + ` = ?`
		args = append(args, nullString(w.ActorID))
	}
	if w.CompletedAt != nil {
		set += `, completed_at = ?`
		args = append(args, nullTime(w.CompletedAt))
	}
	args = append(args, w.SessionID, w.From)

	result, err := tx.ExecContext(ctx, `UPDATE milk_sessions SET `+set+` WHERE id = ? AND status = ?`, args...)
	if err != nil {
		return fmt.Errorf("failed to advance session: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected != 1 {
		var actual string
		err := tx.QueryRowContext(ctx, `SELECT status FROM milk_sessions WHERE id = ?`, w.SessionID).Scan(&actual)
		if err == sql.ErrNoRows {
			return apperr.NotFound("session %s not found", w.SessionID)
		}
		if err != nil {
			return fmt.Errorf("failed to read session status: %w", err)
		}
		return &secondary.StatusMismatchError{SessionID: w.SessionID, Actual: actual}
	}

	at := utc(w.At)
	for _, e := range w.Entries {
		result, err := tx.ExecContext(ctx,
			`UPDATE milk_entries SET front_count = ?, back_count = ?, morning_method = ?, current_back_count = ?,
				delivered = ?, on_order = ?, updated_at = ?
			WHERE session_id = ? AND milk_type_id = ?`,
			nullInt(e.FrontCount), nullInt(e.BackCount), nullString(e.MorningMethod), nullInt(e.CurrentBackCount),
			nullInt(e.Delivered), nullInt(e.OnOrder), at,
			w.SessionID, e.MilkTypeID,
		)
		if err != nil {
			return fmt.Errorf("failed to update entry %s: %w", e.MilkTypeID, err)
		}
		if n, _ := result.RowsAffected(); n == 0 {
			return apperr.NotFound("milk type %s is not part of session %s", e.MilkTypeID, w.SessionID)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit phase: %w", err)
	}
	return nil
}

// DeleteByDate removes the session for date.
func (r *MilkSessionRepository) DeleteByDate(ctx context.Context, date string) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM milk_sessions WHERE session_date = ?`, date)
	if err != nil {
		return 0, fmt.Errorf("failed to delete session: %w", err)
	}
	return result.RowsAffected()
}

// DeleteAll removes every session.
func (r *MilkSessionRepository) DeleteAll(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM milk_sessions`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete sessions: %w", err)
	}
	return result.RowsAffected()
}

func scanMilkSession(s rowScanner) (*secondary.MilkSessionRecord, error) {
	var (
		record                             secondary.MilkSessionRecord
		nightUser, morningUser             sql.NullString
		fohAt, bohAt, morningAt, onOrderAt sql.NullTime
		completedAt                        sql.NullTime
	)
	err := s.Scan(&record.ID, &record.SessionDate, &record.Status, &nightUser, &morningUser,
		&fohAt, &bohAt, &morningAt, &onOrderAt, &completedAt, &record.CreatedAt)
	if err != nil {
		return nil, err
	}
	record.NightUserID = nightUser.String
	record.MorningUserID = morningUser.String
	record.NightFOHSavedAt = timePtr(fohAt)
	record.NightBOHSavedAt = timePtr(bohAt)
	record.MorningSavedAt = timePtr(morningAt)
	record.OnOrderSavedAt = timePtr(onOrderAt)
	record.CompletedAt = timePtr(completedAt)
	return &record, nil
}

var _ secondary.MilkSessionRepository = (*MilkSessionRepository)(nil)
