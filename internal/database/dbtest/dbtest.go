// Package dbtest opens throwaway SQLite databases carrying the production
// schema.  It is imported by tests only.
package dbtest

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/iliyamo/movie-catalog/internal/database"
)

// New returns an in-memory database with every table migrated.  The pool
// is pinned to one connection because each SQLite :memory: connection is a
// separate database.
func New(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	if err := database.Migrate(context.Background(), db, database.SQLite); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("close sqlite: %v", err)
		}
	})
	return db
}
