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

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/jai/internal/db"
)

// setupTestDB creates an in-memory database with the authoritative schema.
// This is the single shared test database setup function for all repository tests.
// Uses db.GetSchemaSQL() to prevent test schemas from drifting.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	if _, err := testDB.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("failed to enable foreign keys: %v", err)
	}

	// Use the authoritative schema from schema.go
	_, err = testDB.Exec(db.GetSchemaSQL())
	if err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// seedRepo inserts a test repo and returns its ID.
func seedRepo(t *testing.T, db *sql.DB, id, name string) string {
	t.Helper()
	if id == "" {
		id = "REPO-001"
	}
	if name == "" {
		name = "test-repo"
	}
	_, err := db.Exec("INSERT INTO repos (id, name, default_branch, status) VALUES (?, ?, 'main', 'active')", id, name)
	if err != nil {
		t.Fatalf("failed to seed repo: %v", err)
	}
	return id
}

// seedSyncRun inserts a test sync run and returns its ID.
func seedSyncRun(t *testing.T, db *sql.DB, id, repoID, status string) string {
	t.Helper()
	if id == "" {
		id = "RUN-00001"
	}
	if repoID == "" {
		repoID = "REPO-001"
	}
	if status == "" {
		status = "pending"
	}
	_, err := db.Exec(`INSERT INTO sync_runs (id, repo_id, type, status, "trigger", started_at) VALUES (?, ?, 'file-index', ?, 'manual', CURRENT_TIMESTAMP)`,
		id, repoID, status)
	if err != nil {
		t.Fatalf("failed to seed sync run: %v", err)
	}
	return id
}

// seedSession inserts a test pilot session and returns its ID.
func seedSession(t *testing.T, db *sql.DB, id string) string {
	t.Helper()
	if id == "" {
		id = "PSES-001"
	}
	_, err := db.Exec("INSERT INTO pilot_sessions (id, mode, surface, created_by, started_at) VALUES (?, 'copilot', 'cli', 'tester', CURRENT_TIMESTAMP)", id)
	if err != nil {
		t.Fatalf("failed to seed session: %v", err)
	}
	return id
}
