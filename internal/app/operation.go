package app

import (
	"database/sql"
	"time"

	"mvx/internal/mvx"
)

// newRun creates an in-memory run record in the running state.
// Timestamps are stored in UTC.
func newRun(id, sourceDir, destinationDir string, quota uint64, now time.Time) *mvx.Run {
	return &mvx.Run{
		ID:             id,
		SourceDir:      sourceDir,
		DestinationDir: destinationDir,
		Quota:          quota,
		StartedAt:      now.UTC(),
		Status:         mvx.RunStatusRunning,
	}
}

// finishRun records the outcome of a move on run. result may be nil when
// the move failed before any file was considered.
func finishRun(run *mvx.Run, result *mvx.Result, moveErr error, now time.Time) {
	run.FinishedAt = sql.NullTime{Time: now.UTC(), Valid: true}
	run.Status = mvx.RunStatusSuccess
	if moveErr != nil {
		run.Status = mvx.RunStatusError
	}
	if result != nil {
		run.BytesMoved = result.BytesMoved
		run.FilesMoved = result.FilesMoved
		run.FilesSkipped = result.FilesSkipped
	}
}

// runJournal attaches every move reported by the Mover to one run.
type runJournal struct {
	db    mvx.Database
	runID string
}

func (j *runJournal) RecordMove(moved *mvx.MovedFile) error {
	moved.RunID = j.runID
	moved.ModifiedAt = moved.ModifiedAt.UTC()
	moved.MovedAt = moved.MovedAt.UTC()
	return j.db.RecordMove(moved)
}

// Compile-time check
var _ mvx.Journal = (*runJournal)(nil)
