package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

// openTestDB creates a migrated throwaway database. A file in TempDir
// rather than :memory:, because the pool would hand each connection its
// own empty in-memory database.
func openTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := NewSQLiteConnection(Config{
		Path:        filepath.Join(t.TempDir(), "test.db"),
		BusyTimeout: 2 * time.Second,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	return db
}

// seedDynasty inserts the registry row that the foreign keys hang off
func seedDynasty(t *testing.T, db *DB, dynastyID string) {
	t.Helper()
	repo := NewDynastyRepository(db)
	if err := repo.EnsureDynasty(context.Background(), dynastyID, "Test Dynasty"); err != nil {
		t.Fatalf("failed to seed dynasty: %v", err)
	}
}
