package db

import (
	"database/sql"
	"testing"
)

// NewTestDB returns an empty in-memory pixelpet database with the schema and
// migrations applied. It fails the test if foreign keys are not enforced, so
// generation rows behave as they do on disk.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("opening pixelpet test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := EnsureSchema(db); err != nil {
		t.Fatalf("applying pixelpet schema: %v", err)
	}

	var fk int
	if err := db.QueryRow(`PRAGMA foreign_keys`).Scan(&fk); err != nil || fk != 1 {
		t.Fatalf("test database must enforce foreign keys (foreign_keys=%d, err=%v)", fk, err)
	}
	return db
}

// InsertTestUser adds an account row with a placeholder password hash and
// returns its id. Tests that need a real login go through the account service.
func InsertTestUser(t *testing.T, db *sql.DB, username, role string) int64 {
	t.Helper()

	res, err := db.Exec(
		`INSERT INTO users (username, password_hash, role) VALUES (?, 'x', ?)`,
		username, role,
	)
	if err != nil {
		t.Fatalf("inserting test user %q: %v", username, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("reading test user id: %v", err)
	}
	return id
}
