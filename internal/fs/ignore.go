// Package fs holds filesystem helpers shared by the mvx commands.
package fs

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// IgnoreFileName is the per-tree ignore file, read from the source root.
const IgnoreFileName = ".mvxignore"

// ignorePattern is a parsed ignore pattern with its matching strategy.
type ignorePattern struct {
	pattern   string
	matchPath bool // true = match against relative path; false = match against basename only
}

// IgnoreMatcher selects files that must stay in the source tree.
// Patterns without '/' match against the file's basename only.
// Patterns with '/' match against the full relative path from the source root.
type IgnoreMatcher struct {
	patterns []ignorePattern
	// anchored are exact relative paths from the source root.
	anchored map[string]bool
}

// NewIgnoreMatcher creates an IgnoreMatcher from raw pattern strings.
// Blank lines and lines starting with '#' are skipped.
func NewIgnoreMatcher(rawPatterns []string) *IgnoreMatcher {
	var patterns []ignorePattern
	for _, raw := range rawPatterns {
		raw = strings.TrimSpace(raw)
		if raw == "" || strings.HasPrefix(raw, "#") {
			continue
		}
		patterns = append(patterns, ignorePattern{
			pattern:   raw,
			matchPath: strings.Contains(raw, "/"),
		})
	}
	return &IgnoreMatcher{patterns: patterns}
}

// LoadIgnoreMatcher builds the matcher for a source tree from the configured
// patterns and the tree's own .mvxignore file, which itself always stays.
func LoadIgnoreMatcher(fsys afero.Fs, root string, configured []string) (*IgnoreMatcher, error) {
	fromFile, err := ParseIgnoreFile(fsys, filepath.Join(root, IgnoreFileName))
	if err != nil {
		return nil, err
	}

	patterns := make([]string, 0, len(configured)+len(fromFile))
	patterns = append(patterns, configured...)
	patterns = append(patterns, fromFile...)

	m := NewIgnoreMatcher(patterns)
	// Only the root's ignore file is read as rules. Files of the same name
	// deeper in the tree are ordinary data.
	m.anchored = map[string]bool{IgnoreFileName: true}
	return m, nil
}

// Match reports whether the given relative path should be left in place.
func (m *IgnoreMatcher) Match(relativePath string) bool {
	normalized := filepath.ToSlash(relativePath)
	if m.anchored[normalized] {
		return true
	}

	basename := filepath.Base(relativePath)

	for _, p := range m.patterns {
		var matched bool
		var err error
		if p.matchPath {
			matched, err = filepath.Match(p.pattern, normalized)
		} else {
			matched, err = filepath.Match(p.pattern, basename)
		}
		if err != nil {
			// Bad pattern; it can never match.
			continue
		}
		if matched {
			return true
		}
	}
	return false
}

// ParseIgnoreFile reads an ignore file and returns the raw pattern lines.
// Returns nil and no error if the file does not exist.
func ParseIgnoreFile(fsys afero.Fs, path string) ([]string, error) {
	f, err := fsys.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening ignore file: %w", err)
	}
	defer f.Close()

	var patterns []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		patterns = append(patterns, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading ignore file: %w", err)
	}
	return patterns, nil
}
