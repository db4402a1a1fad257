// internal/dbtest/dbtest.go
//
// Shared sqlite fixture for store-level tests: an in-memory database with
// the production schema applied. Kept in one place so the schema used by
// tests cannot drift per package.

package dbtest

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE troops (
    name        TEXT PRIMARY KEY,
    tier        INTEGER NOT NULL CHECK (tier BETWEEN 1 AND 6),
    type        TEXT NOT NULL,
    occupation  TEXT NOT NULL,
    faction     TEXT NOT NULL,
    culture     TEXT NOT NULL,
    banner      TEXT NOT NULL,
    image       TEXT NOT NULL
);
CREATE TABLE map_areas (
    name     TEXT PRIMARY KEY,
    faction  TEXT NOT NULL,
    type     TEXT NOT NULL CHECK (type IN ('Castle', 'Town', 'Village')),
    x        REAL,
    y        REAL
);
CREATE TABLE used_troops (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    name        TEXT NOT NULL,
    tier        INTEGER NOT NULL,
    type        TEXT NOT NULL,
    occupation  TEXT NOT NULL,
    faction     TEXT NOT NULL,
    culture     TEXT NOT NULL,
    banner      TEXT NOT NULL,
    image       TEXT NOT NULL,
    used_date   TEXT NOT NULL,
    used_day    TEXT NOT NULL UNIQUE
);
CREATE TABLE used_map_areas (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    name       TEXT NOT NULL,
    faction    TEXT NOT NULL,
    type       TEXT NOT NULL,
    x          REAL,
    y          REAL,
    used_date  TEXT NOT NULL,
    used_day   TEXT NOT NULL UNIQUE
);
`

// Open returns an in-memory database with the schema applied, closed
// automatically at test end.
func Open(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// A second connection would see a different empty :memory: database.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}
