package testutil

import (
	"database/sql"
	"testing"

	"repoapi/internal/config"
	"repoapi/internal/database"
	"repoapi/internal/repository/memory"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS Users (id BIGINT PRIMARY KEY, name TEXT NOT NULL)`,
	`CREATE TABLE IF NOT EXISTS Items (id BIGINT PRIMARY KEY, name TEXT NOT NULL)`,
}

// OpenSQLite opens a named in-memory SQLite database through database.NewSQLite
// and creates the Users and Items tables. The DB is closed via t.Cleanup.
func OpenSQLite(t *testing.T, name string) *sql.DB {
	t.Helper()
	// A single connection keeps every query on the same in-memory database.
	d, err := database.NewSQLite(config.SQLiteConfig{
		Path:         "file:" + name + "?mode=memory&cache=shared",
		MaxOpenConns: 1,
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })

	for _, stmt := range schema {
		if _, err := d.Exec(stmt); err != nil {
			t.Fatalf("create schema: %v", err)
		}
	}
	return d
}

// Seed inserts the given fixtures.
func Seed(t *testing.T, d *sql.DB, f memory.FixtureSet) {
	t.Helper()
	for _, u := range f.Users {
		if _, err := d.Exec(`INSERT INTO Users (id, name) VALUES (?, ?)`, u.ID, u.Name); err != nil {
			t.Fatalf("seed user %d: %v", u.ID, err)
		}
	}
	for _, it := range f.Items {
		if _, err := d.Exec(`INSERT INTO Items (id, name) VALUES (?, ?)`, it.ID, it.Name); err != nil {
			t.Fatalf("seed item %d: %v", it.ID, err)
		}
	}
}

// OpenSeededSQLite is OpenSQLite followed by Seed with the demo fixtures.
func OpenSeededSQLite(t *testing.T, name string) *sql.DB {
	t.Helper()
	d := OpenSQLite(t, name)
	Seed(t, d, memory.Fixtures())
	return d
}
