package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"nfl-dynasty-go/database"
)

// openTestDB creates a migrated throwaway database backed by a temp
// file; :memory: would give every pooled connection its own store.
func openTestDB(t *testing.T) *database.DB {
	t.Helper()

	db, err := database.NewSQLiteConnection(database.Config{
		Path:        filepath.Join(t.TempDir(), "test.db"),
		BusyTimeout: 2 * time.Second,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := database.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	return db
}

func seedDynasty(t *testing.T, db *database.DB, dynastyID string) {
	t.Helper()
	repo := database.NewDynastyRepository(db)
	if err := repo.EnsureDynasty(context.Background(), dynastyID, "Test Dynasty"); err != nil {
		t.Fatalf("failed to seed dynasty: %v", err)
	}
}
