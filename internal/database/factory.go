package database

import (
	"fmt"
	"os"
	"path/filepath"

	"mvx/internal/config"
	"mvx/internal/mvx"
)

// DatabaseFileName is the journal file created inside the configured data_dir.
const DatabaseFileName = "mvx.db"

// NewDatabaseFromConfig creates a Database implementation based on the database config type.
// The returned database is migrated to the latest schema.
func NewDatabaseFromConfig(cfg config.DatabaseConfig) (mvx.Database, error) {
	var path string
	switch cfg.Type {
	case "sqlite":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("data_dir required for sqlite database")
		}
		if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
		path = filepath.Join(cfg.DataDir, DatabaseFileName)
	case "memory":
		path = ":memory:"
	default:
		return nil, fmt.Errorf("unknown database type: %s", cfg.Type)
	}

	db, err := NewSQLiteDatabase(path)
	if err != nil {
		return nil, err
	}
	return db, nil
}
