// Package sqlite_test contains integration tests for SQLite repositories.
//
// # Schema Protection
//
// This file is the SINGLE POINT where the database schema is loaded for tests.
// All test setup functions use db.GetSchemaSQL() to ensure tests run against
// the authoritative schema, preventing drift between test and production.
//
// DO NOT hardcode CREATE TABLE statements in test files. Instead, use
// setupTestDB() and the seed* helpers.
package sqlite_test

import (
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/storeops/internal/db"
)

var t0 = time.Date(2026, 1, 15, 21, 0, 0, 0, time.UTC)

// setupTestDB creates an in-memory database with the authoritative schema.
// This is the single shared test database setup function for all repository tests.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	// Every pooled connection to :memory: is a separate database.
	testDB.SetMaxOpenConns(1)

	if _, err := testDB.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("failed to enable foreign keys: %v", err)
	}

	// Use the authoritative schema from schema.go
	if _, err := testDB.Exec(db.GetSchemaSQL()); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// seedMilkType inserts a milk type with a par row and returns its ID.
func seedMilkType(t *testing.T, database *sql.DB, id, name string, order, par int) string {
	t.Helper()
	_, err := database.Exec(
		"INSERT INTO milk_types (id, name, category, display_order, active, created_at, updated_at) VALUES (?, ?, 'dairy', ?, 1, ?, ?)",
		id, name, order, t0, t0,
	)
	if err != nil {
		t.Fatalf("failed to seed milk type: %v", err)
	}
	_, err = database.Exec(
		"INSERT INTO milk_par_levels (id, milk_type_id, par_value, updated_at) VALUES (?, ?, ?, ?)",
		"par-"+id, id, par, t0,
	)
	if err != nil {
		t.Fatalf("failed to seed par level: %v", err)
	}
	return id
}

// seedRTDEItem inserts an active RTD&E item and returns its ID.
func seedRTDEItem(t *testing.T, database *sql.DB, id, name string, order, par int) string {
	t.Helper()
	_, err := database.Exec(
		"INSERT INTO rtde_items (id, name, par_level, display_order, active, created_at, updated_at) VALUES (?, ?, ?, ?, 1, ?, ?)",
		id, name, par, order, t0, t0,
	)
	if err != nil {
		t.Fatalf("failed to seed rtde item: %v", err)
	}
	return id
}

func intPtr(i int) *int { return &i }

func countRows(t *testing.T, database *sql.DB, query string, args ...any) int {
	t.Helper()
	var n int
	if err := database.QueryRow(query, args...).Scan(&n); err != nil {
		t.Fatalf("count query failed: %v", err)
	}
	return n
}
