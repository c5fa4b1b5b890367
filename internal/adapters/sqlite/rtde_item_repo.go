package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/storeops/internal/apperr"
	"github.com/example/storeops/internal/ports/secondary"
)

// RTDEItemRepository implements secondary.RTDEItemRepository with SQLite.
type RTDEItemRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewRTDEItemRepository creates a new SQLite RTD&E item repository.
func NewRTDEItemRepository(db *sql.DB) *RTDEItemRepository {
	return &RTDEItemRepository{db: db, now: time.Now}
}

const rtdeItemSelect = `SELECT id, name, brand, icon, par_level, display_order, active, created_at, updated_at FROM rtde_items`

// Create persists a new item.
func (r *RTDEItemRepository) Create(ctx context.Context, it *secondary.RTDEItemRecord) error {
	now := utc(r.now())
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO rtde_items (id, name, brand, icon, par_level, display_order, active, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		it.ID, it.Name, nullString(it.Brand), nullString(it.Icon), it.ParLevel, it.DisplayOrder, boolToInt(it.Active), now, now,
	)
	if isUniqueViolation(err) {
		return apperr.Conflict("item %q already exists", it.Name)
	}
	if err != nil {
		return fmt.Errorf("failed to create rtde item: %w", err)
	}
	it.CreatedAt, it.UpdatedAt = now, now
	return nil
}

// Update replaces an item's editable fields.
func (r *RTDEItemRepository) Update(ctx context.Context, it *secondary.RTDEItemRecord) error {
	now := utc(r.now())
	result, err := r.db.ExecContext(ctx,
		`UPDATE rtde_items SET name = ?, brand = ?, icon = ?, par_level = ?, display_order = ?, active = ?, updated_at = ? WHERE id = ?`,
		it.Name, nullString(it.Brand), nullString(it.Icon), it.ParLevel, it.DisplayOrder, boolToInt(it.Active), now, it.ID,
	)
	if isUniqueViolation(err) {
		return apperr.Conflict("item %q already exists", it.Name)
	}
	if err != nil {
		return fmt.Errorf("failed to update rtde item: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return apperr.NotFound("item %s not found", it.ID)
	}
	it.UpdatedAt = now
	return nil
}

// GetByID retrieves an item by its ID.
func (r *RTDEItemRepository) GetByID(ctx context.Context, id string) (*secondary.RTDEItemRecord, error) {
	record, err := scanRTDEItem(r.db.QueryRowContext(ctx, rtdeItemSelect+` WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("item %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get rtde item: %w", err)
	}
	return record, nil
}

// GetByName returns the item with the given name, or nil if none.
func (r *RTDEItemRepository) GetByName(ctx context.Context, name string) (*secondary.RTDEItemRecord, error) {
	record, err := scanRTDEItem(r.db.QueryRowContext(ctx, rtdeItemSelect+` WHERE name = ?`, name))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get rtde item: %w", err)
	}
	return record, nil
}

// List retrieves items in display order.
func (r *RTDEItemRepository) List(ctx context.Context, filters secondary.CatalogFilters) ([]*secondary.RTDEItemRecord, error) {
	query := rtdeItemSelect
	if filters.ActiveOnly {
		query += ` WHERE active = 1`
	}
	query += ` ORDER BY display_order, rowid, id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list rtde items: %w", err)
	}
	defer rows.Close()

	var records []*secondary.RTDEItemRecord
	for rows.Next() {
		record, err := scanRTDEItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rtde item: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// Reorder assigns display orders 1..n following ids.
func (r *RTDEItemRepository) Reorder(ctx context.Context, ids []string) error {
	return reorder(ctx, r.db, "rtde_items", ids, utc(r.now()))
}

func scanRTDEItem(s rowScanner) (*secondary.RTDEItemRecord, error) {
	var (
		record      secondary.RTDEItemRecord
		brand, icon sql.NullString
		active      int
	)
	err := s.Scan(&record.ID, &record.Name, &brand, &icon, &record.ParLevel, &record.DisplayOrder,
		&active, &record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		return nil, err
	}
	record.Brand = brand.String
	record.Icon = icon.String
	record.Active = active == 1
	return &record, nil
}

var _ secondary.RTDEItemRepository = (*RTDEItemRepository)(nil)
