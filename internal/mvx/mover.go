package mvx

import (
	"fmt"
	"io"
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"
)

// DefaultDirMode is the permission mode for directories created under the
// destination root.
const DefaultDirMode fs.FileMode = 0755

// MoverOptions holds optional Mover settings. The zero value is valid.
type MoverOptions struct {
	// Ignore selects files that are never moved. May be nil.
	Ignore Matcher
	// DirMode is used for created destination directories; 0 means DefaultDirMode.
	DirMode fs.FileMode
}

// Result summarizes a completed Move.
type Result struct {
	BytesMoved   uint64
	FilesMoved   int64
	FilesSkipped int64
	DirsRemoved  int64
}

// Mover moves files from a source tree into a destination tree, oldest first,
// until a byte quota is reached.
type Mover struct {
	fsys     afero.Fs
	journal  Journal
	logger   Logger
	clock    Clock
	progress io.Writer
	ignore   Matcher
	dirMode  fs.FileMode
}

// NewMover creates a Mover. The relative path of every moved file is written
// to progress on its own line.
func NewMover(fsys afero.Fs, journal Journal, logger Logger, clock Clock, progress io.Writer, opts MoverOptions) *Mover {
	dirMode := opts.DirMode
	if dirMode == 0 {
		dirMode = DefaultDirMode
	}
	return &Mover{
		fsys:     fsys,
		journal:  journal,
		logger:   logger,
		clock:    clock,
		progress: progress,
		ignore:   opts.Ignore,
		dirMode:  dirMode,
	}
}

// Move renames files from sourceRoot to the same relative paths under
// destRoot in ascending modification time order, and stops as soon as the
// total size moved reaches quota. The quota is checked after each move, so a
// zero quota still moves the oldest file.
//
// destRoot must be an existing directory; otherwise nothing is touched and
// ErrDestinationNotDirectory is returned. Failures on individual files are
// logged and the file is skipped. After each move the file's former parent
// directory is removed if it is now empty, unless it is sourceRoot itself.
func (m *Mover) Move(sourceRoot, destRoot string, quota uint64) (*Result, error) {
	isDir, err := afero.IsDir(m.fsys, destRoot)
	if err != nil {
		return nil, fmt.Errorf("%q: %w: %w", destRoot, ErrDestinationNotDirectory, err)
	}
	if !isDir {
		return nil, fmt.Errorf("%q: %w", destRoot, ErrDestinationNotDirectory)
	}

	records, err := Enumerate(m.fsys, sourceRoot, m.ignore, m.logger)
	if err != nil {
		return nil, err
	}

	m.logger.Info("moving files", "source", sourceRoot, "destination", destRoot, "quota", quota, "candidates", len(records))

	result := &Result{}
	for _, rec := range records {
		if !m.moveFile(sourceRoot, destRoot, rec, result) {
			result.FilesSkipped++
			continue
		}
		if result.BytesMoved >= quota {
			break
		}
	}

	m.logger.Info("move complete",
		"bytes", result.BytesMoved,
		"files", result.FilesMoved,
		"skipped", result.FilesSkipped,
		"dirs_removed", result.DirsRemoved,
	)
	return result, nil
}

// moveFile moves a single file and updates result. It reports whether the
// file was moved.
func (m *Mover) moveFile(sourceRoot, destRoot string, rec FileRecord, result *Result) bool {
	srcPath := filepath.Join(sourceRoot, rec.RelPath)
	dstPath := filepath.Join(destRoot, rec.RelPath)

	info, err := m.fsys.Stat(srcPath)
	if err != nil {
		m.logger.Warn("skipping file", "path", srcPath, "error", err)
		return false
	}

	dstDir := filepath.Dir(dstPath)
	if err := m.fsys.MkdirAll(dstDir, m.dirMode); err != nil {
		m.logger.Error("creating destination directory", "path", dstDir, "error", err)
		return false
	}

	if err := m.fsys.Rename(srcPath, dstPath); err != nil {
		m.logger.Error("moving file", "path", dstPath, "error", err)
		return false
	}

	result.BytesMoved += uint64(info.Size())
	result.FilesMoved++
	fmt.Fprintln(m.progress, rec.RelPath)

	moved := &MovedFile{
		RelativePath: rec.RelPath,
		Size:         info.Size(),
		ModifiedAt:   rec.ModTime,
		MovedAt:      m.clock.Now(),
	}
	if err := m.journal.RecordMove(moved); err != nil {
		m.logger.Warn("recording move in journal", "path", rec.RelPath, "error", err)
	}

	// The source root is kept even when this empties it.
	if filepath.Dir(rec.RelPath) != "." {
		m.removeIfEmpty(filepath.Dir(srcPath), result)
	}
	return true
}

// removeIfEmpty removes dir if it has no entries left. Only dir itself is
// examined; ancestors emptied by the removal are left in place.
func (m *Mover) removeIfEmpty(dir string, result *Result) {
	empty, err := afero.IsEmpty(m.fsys, dir)
	if err != nil {
		m.logger.Debug("checking directory", "path", dir, "error", err)
		return
	}
	if !empty {
		return
	}
	if err := m.fsys.Remove(dir); err != nil {
		m.logger.Warn("removing empty directory", "path", dir, "error", err)
		return
	}
	result.DirsRemoved++
	m.logger.Debug("removed empty directory", "path", dir)
}
