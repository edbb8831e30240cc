package app

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"mvx/internal/config"
	"mvx/internal/database"
	mvxfs "mvx/internal/fs"
	"mvx/internal/mvx"
)

// MvxApp is the application layer between the CLI and the Mover.
// It constructs all dependencies from config, exposes high-level operations
// that accept raw command-line arguments, and owns the run journal.
// The caller must call Close when done.
type MvxApp struct {
	cfg     *config.Config
	db      mvx.Database
	fsys    afero.Fs
	logger  mvx.Logger
	clock   mvx.Clock
	runID   string
	stdout  io.Writer
	logFile *os.File
}

// NewMvxApp creates a fully wired MvxApp from the given config.
// Moved paths are printed to stdout; diagnostics go to stderr and the log file.
func NewMvxApp(cfg *config.Config, stdout, stderr io.Writer) (*MvxApp, error) {
	return newMvxApp(cfg, stdout, stderr, mvx.UUIDGenerator{})
}

func newMvxApp(cfg *config.Config, stdout, stderr io.Writer, ids mvx.IDGenerator) (*MvxApp, error) {
	db, err := database.NewDatabaseFromConfig(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("creating database: %w", err)
	}

	runID := ids.New()
	logger, logFile, err := newLogger(cfg.LogDir, runID, stderr)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	return &MvxApp{
		cfg:     cfg,
		db:      db,
		fsys:    afero.NewOsFs(),
		logger:  &slogAdapter{l: logger},
		clock:   mvx.RealClock{},
		runID:   runID,
		stdout:  stdout,
		logFile: logFile,
	}, nil
}

// RunID returns the ID under which a Move made by this app is journaled.
func (a *MvxApp) RunID() string {
	return a.runID
}

// Move parses sizeExpr and moves the oldest files from rawSource to rawDest
// until that many bytes have been moved. The run is journaled once the size
// is known, and finished with the outcome of the move.
func (a *MvxApp) Move(rawSource, rawDest, sizeExpr string) (*mvx.Result, error) {
	quota, err := mvx.ParseSize(sizeExpr, a.logger)
	if err != nil {
		return nil, err
	}

	source, err := filepath.Abs(rawSource)
	if err != nil {
		return nil, fmt.Errorf("resolving source: %w", err)
	}
	dest, err := filepath.Abs(rawDest)
	if err != nil {
		return nil, fmt.Errorf("resolving destination: %w", err)
	}

	run := newRun(a.runID, source, dest, quota, a.clock.Now())
	if err := a.db.CreateRun(run); err != nil {
		return nil, fmt.Errorf("journaling run: %w", err)
	}

	result, moveErr := a.move(source, dest, quota)

	finishRun(run, result, moveErr, a.clock.Now())
	if err := a.db.FinishRun(run); err != nil {
		a.logger.Warn("finishing run in journal", "run", run.ID, "error", err)
	}
	return result, moveErr
}

func (a *MvxApp) move(source, dest string, quota uint64) (*mvx.Result, error) {
	opts := mvx.MoverOptions{DirMode: fs.FileMode(a.cfg.Filesystem.DirMode)}

	// A missing or non-directory source is reported by the Mover.
	if isDir, _ := afero.IsDir(a.fsys, source); isDir {
		ignore, err := mvxfs.LoadIgnoreMatcher(a.fsys, source, a.cfg.Filesystem.Ignore)
		if err != nil {
			return nil, fmt.Errorf("loading ignore patterns: %w", err)
		}
		opts.Ignore = ignore
	}

	journal := &runJournal{db: a.db, runID: a.runID}
	mover := mvx.NewMover(a.fsys, journal, a.logger, a.clock, a.stdout, opts)
	return mover.Move(source, dest, quota)
}

// History returns the most recent runs, newest first.
func (a *MvxApp) History(limit int) ([]*mvx.Run, error) {
	runs, err := a.db.ListRuns(limit)
	if err != nil {
		return nil, fmt.Errorf("reading history: %w", err)
	}
	return runs, nil
}

// RunLog returns the run identified by id (or a unique prefix of it) and the
// files it moved.
func (a *MvxApp) RunLog(id string) (*mvx.Run, []*mvx.MovedFile, error) {
	run, err := a.db.FindRun(id)
	if err != nil {
		return nil, nil, err
	}
	if run == nil {
		return nil, nil, fmt.Errorf("no run matches %q", id)
	}

	files, err := a.db.ListMovedFiles(run.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("reading run log: %w", err)
	}
	return run, files, nil
}

// Close closes the database and the log file.
func (a *MvxApp) Close() error {
	var firstErr error
	if err := a.db.Close(); err != nil {
		firstErr = fmt.Errorf("closing database: %w", err)
	}
	if a.logFile != nil {
		if err := a.logFile.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("closing log file: %w", err)
		}
	}
	return firstErr
}
