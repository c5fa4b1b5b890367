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

// MilkTypeRepository implements secondary.MilkTypeRepository with SQLite.
type MilkTypeRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewMilkTypeRepository creates a new SQLite milk type repository.
func NewMilkTypeRepository(db *sql.DB) *MilkTypeRepository {
	return &MilkTypeRepository{db: db, now: time.Now}
}

const milkTypeSelect = `SELECT m.id, m.name, m.category, m.display_order, m.active,
	COALESCE(p.par_value, 0), p.updated_by, m.created_at, m.updated_at
	FROM milk_types m
	LEFT JOIN milk_par_levels p ON p.milk_type_id = m.id`

// Create persists a new milk type.
func (r *MilkTypeRepository) Create(ctx context.Context, m *secondary.MilkTypeRecord) error {
	now := utc(r.now())
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO milk_types (id, name, category, display_order, active, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.Name, m.Category, m.DisplayOrder, boolToInt(m.Active), now, now,
	)
	if isUniqueViolation(err) {
		return apperr.Conflict("milk type %q already exists", m.Name)
	}
	if err != nil {
		return fmt.Errorf("failed to create milk type: %w", err)
	}
	m.CreatedAt, m.UpdatedAt = now, now
	return nil
}

// Update updates an existing milk type.
func (r *MilkTypeRepository) Update(ctx context.Context, m *secondary.MilkTypeRecord) error {
	now := utc(r.now())
	result, err := r.db.ExecContext(ctx,
		`UPDATE milk_types SET name = ?, category = ?, display_order = ?, active = ?, updated_at = ? WHERE id = ?`,
		m.Name, m.Category, m.DisplayOrder, boolToInt(m.Active), now, m.ID,
	)
	if isUniqueViolation(err) {
		return apperr.Conflict("milk type %q already exists", m.Name)
	}
	if err != nil {
		return fmt.Errorf("failed to update milk type: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperr.NotFound("milk type %s not found", m.ID)
	}
	m.UpdatedAt = now
	return nil
}

// GetByID retrieves a milk type by its ID.
func (r *MilkTypeRepository) GetByID(ctx context.Context, id string) (*secondary.MilkTypeRecord, error) {
	record, err := scanMilkType(r.db.QueryRowContext(ctx, milkTypeSelect+` WHERE m.id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("milk type %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get milk type: %w", err)
	}
	return record, nil
}

// GetByName returns the milk type with the given name, or nil if none.
func (r *MilkTypeRepository) GetByName(ctx context.Context, name string) (*secondary.MilkTypeRecord, error) {
	record, err := scanMilkType(r.db.QueryRowContext(ctx, milkTypeSelect+` WHERE m.name = ?`, name))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get milk type: %w", err)
	}
	return record, nil
}

// List retrieves milk types in counting order. Ties on display_order fall
// back to insertion order (rowid), then id.
func (r *MilkTypeRepository) List(ctx context.Context, filters secondary.CatalogFilters) ([]*secondary.MilkTypeRecord, error) {
	query := milkTypeSelect
	if filters.ActiveOnly {
		query += ` WHERE m.active = 1`
	}
	query += ` ORDER BY m.display_order, m.rowid, m.id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list milk types: %w", err)
	}
	defer rows.Close()

	var records []*secondary.MilkTypeRecord
	for rows.Next() {
		record, err := scanMilkType(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan milk type: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// SetPar creates the par row on first write and updates it afterwards.
func (r *MilkTypeRepository) SetPar(ctx context.Context, milkTypeID string, par int, updatedBy string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO milk_par_levels (id, milk_type_id, par_value, updated_by, updated_at) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(milk_type_id) DO UPDATE SET par_value = excluded.par_value, updated_by = excluded.updated_by, updated_at = excluded.updated_at`,
		uuid.NewString(), milkTypeID, par, nullString(updatedBy), utc(r.now()),
	)
	if err != nil {
		return fmt.Errorf("failed to set par level: %w", err)
	}
	return nil
}

// Reorder assigns display orders 1..n following ids.
func (r *MilkTypeRepository) Reorder(ctx context.Context, ids []string) error {
	return reorder(ctx, r.db, "milk_types", ids, utc(r.now()))
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMilkType(s rowScanner) (*secondary.MilkTypeRecord, error) {
	var (
		record    secondary.MilkTypeRecord
		active    int
		updatedBy sql.NullString
	)
	err := s.Scan(&record.ID, &record.Name, &record.Category, &record.DisplayOrder, &active,
		&record.ParValue, &updatedBy, &record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		return nil, err
	}
	record.Active = active == 1
	record.ParUpdatedBy = updatedBy.String
	return &record, nil
}

// reorder rewrites display_order for table in one transaction.
func reorder(ctx context.Context, db *sql.DB, table string, ids []string, now time.Time) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt := fmt.Sprintf(`UPDATE %s SET display_order = ?, updated_at = ? WHERE id = ?`, table)
	for i, id := range ids {
		result, err := tx.ExecContext(ctx, stmt, i+1, now, id)
		if err != nil {
			return fmt.Errorf("failed to reorder %s: %w", id, err)
		}
		if n, _ := result.RowsAffected(); n == 0 {
			return apperr.NotFound("item %s not found", id)
		}
	}
	return tx.Commit()
}

var _ secondary.MilkTypeRepository = (*MilkTypeRepository)(nil)
