package db

import (
	"database/sql"
	"fmt"
	"time"
)

// SeedFixtures loads the default store catalog: nine milk types with zero
// par levels and a starter set of RTD&E items. Rows that already exist are
// left untouched, so seeding twice is harmless.
func SeedFixtures(database *sql.DB) error {
	now := time.Now().UTC()

	tx, err := database.Begin()
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	defer tx.Rollback()

	milkTypes := []struct {
		id, name, category string
		order              int
	}{
		{"mt-001-whole", "Whole", "dairy", 1},
		{"mt-002-twopercent", "2%", "dairy", 2},
		{"mt-003-nonfat", "Non-Fat", "dairy", 3},
		{"mt-004-halfhalf", "Half & Half", "dairy", 4},
		{"mt-005-heavycream", "Heavy Cream", "dairy", 5},
		{"mt-006-oat", "Oat", "non_dairy", 6},
		{"mt-007-almond", "Almond", "non_dairy", 7},
		{"mt-008-coconut", "Coconut", "non_dairy", 8},
		{"mt-009-soy", "Soy", "non_dairy", 9},
	}
	for _, m := range milkTypes {
		if _, err := tx.Exec(
			"INSERT OR IGNORE INTO milk_types (id, name, category, display_order, active, created_at, updated_at) VALUES (?, ?, ?, ?, 1, ?, ?)",
			m.id, m.name, m.category, m.order, now, now,
		); err != nil {
			return fmt.Errorf("seed milk types: %w", err)
		}
		if _, err := tx.Exec(
			"INSERT OR IGNORE INTO milk_par_levels (id, milk_type_id, par_value, updated_at) VALUES (?, ?, 0, ?)",
			"par-"+m.id, m.id, now,
		); err != nil {
			return fmt.Errorf("seed par levels: %w", err)
		}
	}

	items := []struct {
		id, brand, name, icon string
		par                   int
	}{
		{"rtde-001", "Ethos", "Water", "", 8},
		{"rtde-002", "Spindrift", "Lemon Sparkling Water", "", 6},
		{"rtde-003", "Spindrift", "Raspberry Lime Sparkling Water", "", 6},
		{"rtde-004", "Koia", "Cacao Bean Nutrition Shake", "", 4},
		{"rtde-005", "Koia", "Vanilla Bean Nutrition Shake", "", 4},
		{"rtde-006", "", "Egg Bites", "🥚", 6},
		{"rtde-007", "", "Protein Box", "📦", 4},
		{"rtde-008", "", "Yogurt Parfait", "🥣", 4},
	}
	for i, it := range items {
		if _, err := tx.Exec(
			"INSERT OR IGNORE INTO rtde_items (id, name, brand, icon, par_level, display_order, active, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, 1, ?, ?)",
			it.id, it.name, nullIfEmpty(it.brand), nullIfEmpty(it.icon), it.par, i+1, now, now,
		); err != nil {
			return fmt.Errorf("seed rtde items: %w", err)
		}
	}

	return tx.Commit()
}

func nullIfEmpty(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
