package database

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"mvx/internal/database/migrations"
	"mvx/internal/mvx"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteDatabase implements the mvx.Database interface using SQLite.
type SQLiteDatabase struct {
	db   *sql.DB
	path string
}

// NewSQLiteDatabase opens the database at path and migrates it to the latest schema.
// path can be a file path or ":memory:" for in-memory database.
func NewSQLiteDatabase(path string) (*SQLiteDatabase, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}

	if err := migrations.MigrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}

	return &SQLiteDatabase{db: db, path: path}, nil
}

// OpenConnection opens and configures a SQLite database connection with appropriate PRAGMAs.
// path can be a file path or ":memory:" for in-memory database.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Every connection to ":memory:" is a separate database, and the journal
	// is written by a single control flow anyway.
	db.SetMaxOpenConns(1)

	// Enable foreign key constraints (SQLite default is OFF for backward compatibility)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// Run operations

const runColumns = `id, source_dir, destination_dir, quota, started_at, finished_at,
	status, bytes_moved, files_moved, files_skipped`

func (s *SQLiteDatabase) CreateRun(run *mvx.Run) error {
	_, err := s.db.ExecContext(context.Background(), `
		INSERT INTO runs (id, source_dir, destination_dir, quota, started_at, status)
		VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.SourceDir, run.DestinationDir, strconv.FormatUint(run.Quota, 10), run.StartedAt, run.Status,
	)
	if err != nil {
		return fmt.Errorf("creating run: %w", err)
	}
	return nil
}

func (s *SQLiteDatabase) FinishRun(run *mvx.Run) error {
	res, err := s.db.ExecContext(context.Background(), `
		UPDATE runs
		SET finished_at = ?, status = ?, bytes_moved = ?, files_moved = ?, files_skipped = ?
		WHERE id = ?`,
		run.FinishedAt, run.Status, int64(run.BytesMoved), run.FilesMoved, run.FilesSkipped, run.ID,
	)
	if err != nil {
		return fmt.Errorf("finishing run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finishing run: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("finishing run: run not found: %s", run.ID)
	}
	return nil
}

func (s *SQLiteDatabase) ListRuns(limit int) ([]*mvx.Run, error) {
	rows, err := s.db.QueryContext(context.Background(),
		`SELECT `+runColumns+` FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []*mvx.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("listing runs: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	return runs, nil
}

func (s *SQLiteDatabase) FindRun(id string) (*mvx.Run, error) {
	if id == "" {
		return nil, nil
	}

	// substr instead of LIKE so '%' and '_' in id are matched literally.
	rows, err := s.db.QueryContext(context.Background(),
		`SELECT `+runColumns+` FROM runs WHERE substr(id, 1, length(?1)) = ?1 LIMIT 2`, id)
	if err != nil {
		return nil, fmt.Errorf("finding run: %w", err)
	}
	defer rows.Close()

	var found []*mvx.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("finding run: %w", err)
		}
		found = append(found, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("finding run: %w", err)
	}

	switch len(found) {
	case 0:
		return nil, nil
	case 1:
		return found[0], nil
	default:
		return nil, fmt.Errorf("run id prefix %q is ambiguous", id)
	}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*mvx.Run, error) {
	var (
		run        mvx.Run
		quota      string
		bytesMoved int64
	)
	err := row.Scan(
		&run.ID, &run.SourceDir, &run.DestinationDir, &quota, &run.StartedAt, &run.FinishedAt,
		&run.Status, &bytesMoved, &run.FilesMoved, &run.FilesSkipped,
	)
	if err != nil {
		return nil, err
	}
	run.Quota, err = strconv.ParseUint(quota, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing quota of run %s: %w", run.ID, err)
	}
	run.BytesMoved = uint64(bytesMoved)
	return &run, nil
}

// Moved file operations

func (s *SQLiteDatabase) RecordMove(moved *mvx.MovedFile) error {
	_, err := s.db.ExecContext(context.Background(), `
		INSERT INTO moved_files (run_id, relative_path, size, modified_at, moved_at)
		VALUES (?, ?, ?, ?, ?)`,
		moved.RunID, moved.RelativePath, moved.Size, moved.ModifiedAt, moved.MovedAt,
	)
	if err != nil {
		return fmt.Errorf("recording moved file: %w", err)
	}
	return nil
}

func (s *SQLiteDatabase) ListMovedFiles(runID string) ([]*mvx.MovedFile, error) {
	rows, err := s.db.QueryContext(context.Background(), `
		SELECT run_id, relative_path, size, modified_at, moved_at
		FROM moved_files WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("listing moved files: %w", err)
	}
	defer rows.Close()

	var files []*mvx.MovedFile
	for rows.Next() {
		var f mvx.MovedFile
		if err := rows.Scan(&f.RunID, &f.RelativePath, &f.Size, &f.ModifiedAt, &f.MovedAt); err != nil {
			return nil, fmt.Errorf("listing moved files: %w", err)
		}
		files = append(files, &f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing moved files: %w", err)
	}
	return files, nil
}

// Path returns the database file path (or ":memory:" for in-memory databases).
func (s *SQLiteDatabase) Path() string {
	return s.path
}

// CheckMigrations verifies the database schema is up-to-date.
func (s *SQLiteDatabase) CheckMigrations() error {
	return migrations.CheckDBMigrationStatus(s.db)
}

// Close closes the database connection.
func (s *SQLiteDatabase) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Compile-time check that SQLiteDatabase implements mvx.Database interface
var _ mvx.Database = (*SQLiteDatabase)(nil)
