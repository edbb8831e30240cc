package fs

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
)

func TestNewIgnoreMatcher(t *testing.T) {
	t.Run("skips blank lines and comments", func(t *testing.T) {
		t.Parallel()
		m := NewIgnoreMatcher([]string{"", "  ", "# comment", "*.part"})
		if len(m.patterns) != 1 {
			t.Fatalf("expected 1 pattern, got %d", len(m.patterns))
		}
		if m.patterns[0].pattern != "*.part" {
			t.Errorf("expected *.part, got %s", m.patterns[0].pattern)
		}
	})

	t.Run("classifies path vs basename patterns", func(t *testing.T) {
		t.Parallel()
		m := NewIgnoreMatcher([]string{"*.part", "incoming/current"})
		if m.patterns[0].matchPath {
			t.Error("*.part should not be a path pattern")
		}
		if !m.patterns[1].matchPath {
			t.Error("incoming/current should be a path pattern")
		}
	})
}

func TestIgnoreMatcher_Match(t *testing.T) {
	tests := []struct {
		name         string
		patterns     []string
		relativePath string
		want         bool
	}{
		{
			name:         "basename glob matches file in root",
			patterns:     []string{"*.part"},
			relativePath: "movie.part",
			want:         true,
		},
		{
			name:         "basename glob matches file in subdirectory",
			patterns:     []string{"*.part"},
			relativePath: filepath.Join("2024", "movie.part"),
			want:         true,
		},
		{
			name:         "basename glob does not match different extension",
			patterns:     []string{"*.part"},
			relativePath: "movie.mkv",
			want:         false,
		},
		{
			name:         "ignore file name is not special without a loaded tree",
			patterns:     nil,
			relativePath: IgnoreFileName,
			want:         false,
		},
		{
			name:         "path pattern matches exact relative path",
			patterns:     []string{"incoming/current"},
			relativePath: filepath.Join("incoming", "current"),
			want:         true,
		},
		{
			name:         "path pattern does not match wrong path",
			patterns:     []string{"incoming/current"},
			relativePath: filepath.Join("archive", "current"),
			want:         false,
		},
		{
			name:         "path pattern with glob",
			patterns:     []string{"keep/*.db"},
			relativePath: filepath.Join("keep", "index.db"),
			want:         true,
		},
		{
			name:         "malformed pattern never matches",
			patterns:     []string{"[unclosed"},
			relativePath: "[unclosed",
			want:         false,
		},
		{
			name:         "no patterns matches nothing",
			patterns:     nil,
			relativePath: "anything.txt",
			want:         false,
		},
		{
			name:         "multiple patterns second matches",
			patterns:     []string{"*.part", "*.tmp"},
			relativePath: "data.tmp",
			want:         true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m := NewIgnoreMatcher(tt.patterns)
			got := m.Match(tt.relativePath)
			if got != tt.want {
				t.Errorf("Match(%q) = %v, want %v", tt.relativePath, got, tt.want)
			}
		})
	}
}

func TestParseIgnoreFile(t *testing.T) {
	t.Run("reads patterns from file", func(t *testing.T) {
		t.Parallel()
		fsys := afero.NewMemMapFs()
		content := "*.part\n# comment\n\n*.tmp\nkeep/index.db\n"
		if err := afero.WriteFile(fsys, "/src/.mvxignore", []byte(content), 0644); err != nil {
			t.Fatalf("writing test file: %v", err)
		}

		patterns, err := ParseIgnoreFile(fsys, "/src/.mvxignore")
		if err != nil {
			t.Fatalf("ParseIgnoreFile() error = %v", err)
		}
		if len(patterns) != 5 { // raw lines; filtering is NewIgnoreMatcher's job
			t.Fatalf("expected 5 raw lines, got %d", len(patterns))
		}

		m := NewIgnoreMatcher(patterns)
		if len(m.patterns) != 3 {
			t.Errorf("expected 3 parsed patterns, got %d", len(m.patterns))
		}
	})

	t.Run("returns nil for missing file", func(t *testing.T) {
		t.Parallel()
		patterns, err := ParseIgnoreFile(afero.NewMemMapFs(), "/nonexistent/.mvxignore")
		if err != nil {
			t.Fatalf("ParseIgnoreFile() error = %v", err)
		}
		if patterns != nil {
			t.Errorf("expected nil patterns, got %v", patterns)
		}
	})
}

func TestLoadIgnoreMatcher(t *testing.T) {
	fsys := afero.NewMemMapFs()
	if err := afero.WriteFile(fsys, "/src/.mvxignore", []byte("*.part\n"), 0644); err != nil {
		t.Fatalf("writing ignore file: %v", err)
	}

	m, err := LoadIgnoreMatcher(fsys, "/src", []string{"*.tmp"})
	if err != nil {
		t.Fatalf("LoadIgnoreMatcher() error = %v", err)
	}

	for path, want := range map[string]bool{
		IgnoreFileName:                        true,
		filepath.Join("leaf", IgnoreFileName): false,
		"scratch.tmp":                         true,
		filepath.Join("a", "x.part"):          true,
		filepath.Join("a", "x.mkv"):           false,
		filepath.Join("a", "notes.md"):        false,
	} {
		if got := m.Match(path); got != want {
			t.Errorf("Match(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestLoadIgnoreMatcher_NoConfig(t *testing.T) {
	m, err := LoadIgnoreMatcher(afero.NewMemMapFs(), "/src", nil)
	if err != nil {
		t.Fatalf("LoadIgnoreMatcher() error = %v", err)
	}

	for path, want := range map[string]bool{
		IgnoreFileName:                          true,
		filepath.Join("leaf", IgnoreFileName):   false,
		filepath.Join("a", "b", IgnoreFileName): false,
		filepath.Join("leaf", "data"):           false,
	} {
		if got := m.Match(path); got != want {
			t.Errorf("Match(%q) = %v, want %v", path, got, want)
		}
	}
}
