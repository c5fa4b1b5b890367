package db

import "database/sql"

// SchemaSQL is the complete schema for fresh installs.
// This schema reflects the current state after all migrations.
//
// # Schema Drift Protection
//
// This is the SINGLE SOURCE OF TRUTH for the database schema. Repository
// tests load it via GetSchemaSQL() and never declare tables of their own, so
// a column referenced by repository code but missing here fails immediately
// with "no such column".
//
// When adding new columns or tables:
//  1. Add a migration to the migrations list
//  2. Update SchemaSQL here
//  3. Run `make test` to verify alignment
const SchemaSQL = `
-- Milk catalog
CREATE TABLE IF NOT EXISTS milk_types (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL UNIQUE,
	category TEXT NOT NULL CHECK (category IN ('dairy', 'non_dairy')),
	display_order INTEGER NOT NULL CHECK (display_order >= 1),
	active INTEGER NOT NULL DEFAULT 1,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_milk_types_order ON milk_types(active, display_order);

-- One par level per milk type, created on first write
CREATE TABLE IF NOT EXISTS milk_par_levels (
	id TEXT PRIMARY KEY,
	milk_type_id TEXT NOT NULL UNIQUE,
	par_value INTEGER NOT NULL DEFAULT 0 CHECK (par_value >= 0),
	updated_by TEXT,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (milk_type_id) REFERENCES milk_types(id)
);

-- Milk order sessions: one per store calendar day
CREATE TABLE IF NOT EXISTS milk_sessions (
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
);

CREATE INDEX IF NOT EXISTS idx_milk_sessions_status ON milk_sessions(status);

-- Entry ledger: one row per (session, milk type)
CREATE TABLE IF NOT EXISTS milk_entries (
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
);

CREATE INDEX IF NOT EXISTS idx_milk_entries_session ON milk_entries(session_id);

-- RTD&E catalog
CREATE TABLE IF NOT EXISTS rtde_items (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL UNIQUE,
	brand TEXT,
	icon TEXT,
	par_level INTEGER NOT NULL DEFAULT 0 CHECK (par_level >= 0),
	display_order INTEGER NOT NULL CHECK (display_order >= 1),
	active INTEGER NOT NULL DEFAULT 1,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_rtde_items_order ON rtde_items(active, display_order);

-- RTD&E sessions: per user, time boxed
CREATE TABLE IF NOT EXISTS rtde_sessions (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	status TEXT NOT NULL DEFAULT 'in_progress' CHECK (status IN ('in_progress', 'completed', 'expired')),
	started_at DATETIME NOT NULL,
	expires_at DATETIME NOT NULL,
	completed_at DATETIME
);

CREATE INDEX IF NOT EXISTS idx_rtde_sessions_user_status ON rtde_sessions(user_id, status);
CREATE INDEX IF NOT EXISTS idx_rtde_sessions_expiry ON rtde_sessions(status, expires_at);

-- RTD&E counts, created lazily
CREATE TABLE IF NOT EXISTS rtde_session_counts (
	id TEXT PRIMARY KEY,
	session_id TEXT NOT NULL,
	item_id TEXT NOT NULL,
	counted_quantity INTEGER NOT NULL DEFAULT 0 CHECK (counted_quantity >= 0),
	is_pulled INTEGER NOT NULL DEFAULT 0,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	UNIQUE (session_id, item_id),
	FOREIGN KEY (session_id) REFERENCES rtde_sessions(id) ON DELETE CASCADE,
	FOREIGN KEY (item_id) REFERENCES rtde_items(id)
);

-- Append-only activity log
CREATE TABLE IF NOT EXISTS activity_log (
	id TEXT PRIMARY KEY,
	tool TEXT NOT NULL,
	action TEXT NOT NULL,
	entity_id TEXT NOT NULL,
	actor_id TEXT,
	detail TEXT,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_activity_log_created ON activity_log(created_at);
CREATE INDEX IF NOT EXISTS idx_activity_log_tool_action ON activity_log(tool, action, created_at);
`

// InitSchema brings database up to date. A database without a
// schema_version table gets SchemaSQL directly and every migration is
// marked applied; otherwise pending migrations run.
func InitSchema(database *sql.DB) error {
	var tableCount int
	err := database.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&tableCount)
	if err != nil {
		return err
	}

	if tableCount > 0 {
		return RunMigrations(database)
	}

	tx, err := database.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(SchemaSQL); err != nil {
		return err
	}
	if _, err := tx.Exec(schemaVersionSQL); err != nil {
		return err
	}
	for _, m := range migrations {
		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", m.Version); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
// Tests should use this instead of hardcoding their own schema to prevent drift.
func GetSchemaSQL() string {
	return SchemaSQL
}
