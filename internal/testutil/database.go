package testutil

import (
	"path/filepath"
	"testing"

	"mvx/internal/database"
	"mvx/internal/mvx"
)

// NewTestDatabase creates a migrated SQLite database in a temp directory.
// The database is automatically closed when the test completes.
func NewTestDatabase(t *testing.T) mvx.Database {
	t.Helper()

	db, err := database.NewSQLiteDatabase(filepath.Join(t.TempDir(), database.DatabaseFileName))
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db
}
