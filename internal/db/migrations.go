package db

import (
	"database/sql"
	"fmt"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	Up      func(*sql.Tx) error
}

const schemaVersionSQL = `
	CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)
`

// migrations is the list of all migrations in order
var migrations = []Migration{
	{
		Version: 1,
		Name:    "create_counting_tables",
		Up:      migrationV1,
	},
	{
		Version: 2,
		Name:    "add_activity_log",
		Up:      migrationV2,
	},
}

// RunMigrations applies every migration newer than the recorded version.
// Each migration and its version row commit together.
func RunMigrations(database *sql.DB) error {
	if _, err := database.Exec(schemaVersionSQL); err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}

	var currentVersion int
	err := database.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, err := database.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin transaction for migration %d: %w", migration.Version, err)
		}

		if err := migration.Up(tx); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d (%s) failed: %w", migration.Version, migration.Name, err)
		}

		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", migration.Version); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}
	}

	return nil
}

// CurrentVersion returns the highest applied migration.
func CurrentVersion(database *sql.DB) (int, error) {
	var v int
	err := database.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&v)
	return v, err
}

// migrationV1 creates the catalog, milk order and RTD&E tables.
func migrationV1(tx *sql.Tx) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS milk_types (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			category TEXT NOT NULL CHECK (category IN ('dairy', 'non_dairy')),
			display_order INTEGER NOT NULL CHECK (display_order >= 1),
			active INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_milk_types_order ON milk_types(active, display_order)`,
		`CREATE TABLE IF NOT EXISTS milk_par_levels (
			id TEXT PRIMARY KEY,
			milk_type_id TEXT NOT NULL UNIQUE,
			par_value INTEGER NOT NULL DEFAULT 0 CHECK (par_value >= 0),
			updated_by TEXT,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (milk_type_id) REFERENCES milk_types(id)
		)`,
		`CREATE TABLE IF NOT EXISTS milk_sessions (
			id TEXT PRIMARY KEY,
			session_date TEXT NOT NULL UNIQUE,
			status TEXT NOT NULL DEFAULT 'night_foh' CHECK (status IN ('night_foh', 'night_boh', 'morning', 'on_order', 'completed')),
			night_count_user_id TEXT,
			morning_count_user_id TEXT,
			night_foh_saved_at DATETIME,
			night_boh_saved_at DATETIME,
			morning_saved_at DATETIME,
			on_order_saved_at DATETIME,
			completed_at DATETIME,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_milk_sessions_status ON milk_sessions(status)`,
		`CREATE TABLE IF NOT EXISTS milk_entries (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			milk_type_id TEXT NOT NULL,
			front_count INTEGER CHECK (front_count >= 0),
			back_count INTEGER CHECK (back_count >= 0),
			morning_method TEXT CHECK (morning_method IN ('current_back', 'direct')),
			current_back_count INTEGER CHECK (current_back_count >= 0),
			delivered INTEGER CHECK (delivered >= 0),
			on_order INTEGER CHECK (on_order >= 0),
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (session_id, milk_type_id),
			FOREIGN KEY (session_id) REFERENCES milk_sessions(id) ON DELETE CASCADE,
			FOREIGN KEY (milk_type_id) REFERENCES milk_types(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_milk_entries_session ON milk_entries(session_id)`,
		`CREATE TABLE IF NOT EXISTS rtde_items (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			brand TEXT,
			icon TEXT,
			par_level INTEGER NOT NULL DEFAULT 0 CHECK (par_level >= 0),
			display_order INTEGER NOT NULL CHECK (display_order >= 1),
			active INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_rtde_items_order ON rtde_items(active, display_order)`,
		`CREATE TABLE IF NOT EXISTS rtde_sessions (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'in_progress' CHECK (status IN ('in_progress', 'completed', 'expired')),
			started_at DATETIME NOT NULL,
			expires_at DATETIME NOT NULL,
			completed_at DATETIME
		)`,
		`CREATE INDEX IF NOT EXISTS idx_rtde_sessions_user_status ON rtde_sessions(user_id, status)`,
		`CREATE INDEX IF NOT EXISTS idx_rtde_sessions_expiry ON rtde_sessions(status, expires_at)`,
		`CREATE TABLE IF NOT EXISTS rtde_session_counts (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			item_id TEXT NOT NULL,
			counted_quantity INTEGER NOT NULL DEFAULT 0 CHECK (counted_quantity >= 0),
			is_pulled INTEGER NOT NULL DEFAULT 0,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (session_id, item_id),
			FOREIGN KEY (session_id) REFERENCES rtde_sessions(id) ON DELETE CASCADE,
			FOREIGN KEY (item_id) REFERENCES rtde_items(id)
		)`,
	}
	return execAll(tx, stmts)
}

// migrationV2 adds the append-only activity log used for completion history.
func migrationV2(tx *sql.Tx) error {
	return execAll(tx, []string{
		`CREATE TABLE IF NOT EXISTS activity_log (
			id TEXT PRIMARY KEY,
			tool TEXT NOT NULL,
			action TEXT NOT NULL,
			entity_id TEXT NOT NULL,
			actor_id TEXT,
			detail TEXT,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_activity_log_created ON activity_log(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_activity_log_tool_action ON activity_log(tool, action, created_at)`,
	})
}

func execAll(tx *sql.Tx, stmts []string) error {
	for _, s := range stmts {
		if _, err := tx.Exec(s); err != nil {
			return err
		}
	}
	return nil
}
