package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestManager_ReadWrite_RoundTrip(t *testing.T) {
	original := &Config{
		BaseDir:  "/home/user/.local/share/mvx",
		LogDir:   "/home/user/.local/share/mvx/log",
		Database: DatabaseConfig{Type: "sqlite", DataDir: "/home/user/.local/share/mvx/data"},
		Filesystem: FilesystemConfig{
			Ignore:  []string{"*.part", "keep/*"},
			DirMode: 0750,
		},
	}

	var buf bytes.Buffer
	m := &Manager{}

	if err := m.Write(&buf, original); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got, err := m.Read(&buf)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if got.BaseDir != original.BaseDir {
		t.Errorf("BaseDir = %q, want %q", got.BaseDir, original.BaseDir)
	}
	if got.LogDir != original.LogDir {
		t.Errorf("LogDir = %q, want %q", got.LogDir, original.LogDir)
	}
	if got.Database != original.Database {
		t.Errorf("Database = %+v, want %+v", got.Database, original.Database)
	}
	if got.Filesystem.DirMode != 0750 {
		t.Errorf("Filesystem.DirMode = %o, want %o", got.Filesystem.DirMode, 0750)
	}
	if len(got.Filesystem.Ignore) != 2 {
		t.Fatalf("len(Filesystem.Ignore) = %d, want 2", len(got.Filesystem.Ignore))
	}
}

func TestNewConfig(t *testing.T) {
	cfg := NewConfig("/data/mvx")

	if cfg.BaseDir != "/data/mvx" {
		t.Errorf("BaseDir = %q, want %q", cfg.BaseDir, "/data/mvx")
	}
	if cfg.LogDir != "/data/mvx/log" {
		t.Errorf("LogDir = %q, want %q", cfg.LogDir, "/data/mvx/log")
	}
	if cfg.Database.Type != "sqlite" {
		t.Errorf("Database.Type = %q, want %q", cfg.Database.Type, "sqlite")
	}
	if cfg.Database.DataDir != "/data/mvx/data" {
		t.Errorf("Database.DataDir = %q, want %q", cfg.Database.DataDir, "/data/mvx/data")
	}
	if cfg.Filesystem.DirMode != 0755 {
		t.Errorf("Filesystem.DirMode = %o, want %o", cfg.Filesystem.DirMode, 0755)
	}
}

func TestInit(t *testing.T) {
	t.Run("creates config file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "mvx.toml")

		if err := Init(path, NewConfig(dir)); err != nil {
			t.Fatalf("Init() error = %v", err)
		}

		if _, err := os.Stat(path); err != nil {
			t.Fatalf("config file not created: %v", err)
		}
	})

	t.Run("fails if file already exists", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "mvx.toml")
		cfg := NewConfig(dir)

		if err := Init(path, cfg); err != nil {
			t.Fatalf("first Init() error = %v", err)
		}

		if err := Init(path, cfg); err == nil {
			t.Fatal("second Init() expected error")
		}
	})
}

func TestReadFromFile(t *testing.T) {
	t.Run("reads valid config", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "mvx.toml")
		cfg := NewConfig(dir)
		cfg.Database = DatabaseConfig{Type: "memory"}

		if err := Init(path, cfg); err != nil {
			t.Fatalf("Init() error = %v", err)
		}

		got, err := ReadFromFile(path)
		if err != nil {
			t.Fatalf("ReadFromFile() error = %v", err)
		}
		if got.Database.Type != "memory" {
			t.Errorf("Database.Type = %q, want %q", got.Database.Type, "memory")
		}
	})

	t.Run("returns error for missing file", func(t *testing.T) {
		if _, err := ReadFromFile("/nonexistent/path/mvx.toml"); err == nil {
			t.Fatal("ReadFromFile() expected error for missing file")
		}
	})
}

func TestReadOrDefault(t *testing.T) {
	t.Run("missing file yields defaults", func(t *testing.T) {
		dir := t.TempDir()

		got, err := ReadOrDefault(filepath.Join(dir, "absent.toml"), dir)
		if err != nil {
			t.Fatalf("ReadOrDefault() error = %v", err)
		}
		if got.LogDir != filepath.Join(dir, "log") {
			t.Errorf("LogDir = %q, want %q", got.LogDir, filepath.Join(dir, "log"))
		}
	})

	t.Run("file overrides only the keys it sets", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "mvx.toml")
		content := "[filesystem]\nignore = [\"*.part\"]\n"
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("writing config: %v", err)
		}

		got, err := ReadOrDefault(path, dir)
		if err != nil {
			t.Fatalf("ReadOrDefault() error = %v", err)
		}
		if len(got.Filesystem.Ignore) != 1 || got.Filesystem.Ignore[0] != "*.part" {
			t.Errorf("Filesystem.Ignore = %v, want [*.part]", got.Filesystem.Ignore)
		}
		if got.Database.Type != "sqlite" {
			t.Errorf("Database.Type = %q, want default %q", got.Database.Type, "sqlite")
		}
		if got.Filesystem.DirMode != 0755 {
			t.Errorf("Filesystem.DirMode = %o, want default %o", got.Filesystem.DirMode, 0755)
		}
	})

	t.Run("malformed file is an error", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "mvx.toml")
		if err := os.WriteFile(path, []byte("base_dir = [\n"), 0644); err != nil {
			t.Fatalf("writing config: %v", err)
		}

		if _, err := ReadOrDefault(path, dir); err == nil {
			t.Fatal("ReadOrDefault() expected error for malformed file")
		}
	})
}
