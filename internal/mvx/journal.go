package mvx

import (
	"database/sql"
	"time"
)

// Run statuses.
const (
	RunStatusRunning = "running"
	RunStatusSuccess = "success"
	RunStatusError   = "error"
)

// Run is one invocation of the move operation as recorded in the journal.
type Run struct {
	ID             string
	SourceDir      string
	DestinationDir string
	Quota          uint64
	StartedAt      time.Time
	FinishedAt     sql.NullTime
	Status         string
	BytesMoved     uint64
	FilesMoved     int64
	FilesSkipped   int64
}

// MovedFile is a single file that completed its move during a run.
type MovedFile struct {
	RunID        string
	RelativePath string
	Size         int64
	ModifiedAt   time.Time
	MovedAt      time.Time
}

// Journal receives every successful move. The Mover treats journal failures
// as recoverable: the file has already been moved.
type Journal interface {
	RecordMove(moved *MovedFile) error
}

// NopJournal discards all records.
type NopJournal struct{}

func (NopJournal) RecordMove(*MovedFile) error { return nil }

// Database is the run history store.
type Database interface {
	// CreateRun inserts a new run. The run's ID must already be set.
	CreateRun(run *Run) error

	// FinishRun stores the final status and totals of a run.
	FinishRun(run *Run) error

	// RecordMove appends a moved file to its run.
	RecordMove(moved *MovedFile) error

	// ListRuns returns the most recent runs, newest first.
	ListRuns(limit int) ([]*Run, error)

	// FindRun returns the run whose ID equals or uniquely starts with id.
	// Returns nil if no run matches.
	FindRun(id string) (*Run, error)

	// ListMovedFiles returns the files moved by a run in the order they were moved.
	ListMovedFiles(runID string) ([]*MovedFile, error)

	// Close closes the database connection.
	Close() error
}
