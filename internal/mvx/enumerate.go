package mvx

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/afero"
)

// FileRecord is a regular file found under a source root.
type FileRecord struct {
	ModTime time.Time
	// RelPath is relative to the enumerated root, so it can be joined
	// under any other root to reproduce the tree shape.
	RelPath string
}

// Compare orders records oldest first. Records with equal modification times
// are ordered by their relative paths, compared one path element at a time.
func (r FileRecord) Compare(other FileRecord) int {
	if c := r.ModTime.Compare(other.ModTime); c != 0 {
		return c
	}
	return comparePaths(r.RelPath, other.RelPath)
}

func comparePaths(a, b string) int {
	sep := string(filepath.Separator)
	return slices.Compare(strings.Split(a, sep), strings.Split(b, sep))
}

// Matcher reports whether a relative path must be left where it is.
type Matcher interface {
	Match(relativePath string) bool
}

// Enumerate lists every regular file under root, sorted by modification time
// and then by relative path.
//
// Directories are walked through an explicit worklist, one directory listing
// at a time, so deep trees never hold more than one directory handle open.
// Symlinks and special files are neither recorded nor followed. A
// subdirectory that cannot be read is logged and skipped; only an unreadable
// root is an error.
//
// ignore may be nil.
func Enumerate(fsys afero.Fs, root string, ignore Matcher, logger Logger) ([]FileRecord, error) {
	info, err := fsys.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRootUnreadable, root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrRootUnreadable, root)
	}

	var records []FileRecord

	// Pending directories, relative to root. "" is the root itself.
	pending := []string{""}
	for len(pending) > 0 {
		dir := pending[0]
		pending = pending[1:]

		entries, err := afero.ReadDir(fsys, filepath.Join(root, dir))
		if err != nil {
			if dir == "" {
				return nil, fmt.Errorf("%w: %s: %w", ErrRootUnreadable, root, err)
			}
			logger.Warn("skipping unreadable directory", "path", filepath.Join(root, dir), "error", err)
			continue
		}

		for _, entry := range entries {
			rel := filepath.Join(dir, entry.Name())
			mode := entry.Mode()
			switch {
			case mode.IsDir():
				pending = append(pending, rel)
			case mode.IsRegular():
				if ignore != nil && ignore.Match(rel) {
					logger.Debug("file ignored", "path", rel)
					continue
				}
				records = append(records, FileRecord{ModTime: entry.ModTime(), RelPath: rel})
			default:
				logger.Debug("skipping non-regular file", "path", rel, "mode", mode.String())
			}
		}
	}

	slices.SortFunc(records, FileRecord.Compare)

	logger.Debug("enumeration complete", "root", root, "files", len(records))
	return records, nil
}
