package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
)

// Tree builds and inspects file trees on an afero.Fs.
type Tree struct {
	t  *testing.T
	Fs afero.Fs
}

// NewMemTree returns a Tree backed by an in-memory filesystem.
func NewMemTree(t *testing.T) *Tree {
	return &Tree{t: t, Fs: afero.NewMemMapFs()}
}

// NewOSTree returns a Tree backed by the real filesystem.
// Callers should only touch paths under t.TempDir().
func NewOSTree(t *testing.T) *Tree {
	return &Tree{t: t, Fs: afero.NewOsFs()}
}

// AddFile writes content to path, creating parent directories, and sets its
// modification time to mtime.
func (tr *Tree) AddFile(path string, content []byte, mtime time.Time) {
	tr.t.Helper()
	if err := tr.Fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		tr.t.Fatalf("creating parent of %s: %v", path, err)
	}
	if err := afero.WriteFile(tr.Fs, path, content, 0644); err != nil {
		tr.t.Fatalf("writing %s: %v", path, err)
	}
	if err := tr.Fs.Chtimes(path, mtime, mtime); err != nil {
		tr.t.Fatalf("setting mtime of %s: %v", path, err)
	}
}

// AddDir creates path and any missing parents.
func (tr *Tree) AddDir(path string) {
	tr.t.Helper()
	if err := tr.Fs.MkdirAll(path, 0755); err != nil {
		tr.t.Fatalf("creating %s: %v", path, err)
	}
}

// Exists reports whether path exists.
func (tr *Tree) Exists(path string) bool {
	tr.t.Helper()
	ok, err := afero.Exists(tr.Fs, path)
	if err != nil {
		tr.t.Fatalf("checking %s: %v", path, err)
	}
	return ok
}

// ReadFile returns the content of path.
func (tr *Tree) ReadFile(path string) []byte {
	tr.t.Helper()
	data, err := afero.ReadFile(tr.Fs, path)
	if err != nil {
		tr.t.Fatalf("reading %s: %v", path, err)
	}
	return data
}

// FaultyFs wraps an afero.Fs and fails selected operations on selected paths.
// Paths are matched exactly as passed to the operation.
type FaultyFs struct {
	afero.Fs
	StatErr   map[string]error
	OpenErr   map[string]error
	MkdirErr  map[string]error
	RenameErr map[string]error // keyed by the source path
	RemoveErr map[string]error
}

// NewFaultyFs wraps base with no failures configured.
func NewFaultyFs(base afero.Fs) *FaultyFs {
	return &FaultyFs{
		Fs:        base,
		StatErr:   map[string]error{},
		OpenErr:   map[string]error{},
		MkdirErr:  map[string]error{},
		RenameErr: map[string]error{},
		RemoveErr: map[string]error{},
	}
}

func (f *FaultyFs) Stat(name string) (os.FileInfo, error) {
	if err, ok := f.StatErr[name]; ok {
		return nil, &os.PathError{Op: "stat", Path: name, Err: err}
	}
	return f.Fs.Stat(name)
}

func (f *FaultyFs) Open(name string) (afero.File, error) {
	if err, ok := f.OpenErr[name]; ok {
		return nil, &os.PathError{Op: "open", Path: name, Err: err}
	}
	return f.Fs.Open(name)
}

func (f *FaultyFs) MkdirAll(path string, perm os.FileMode) error {
	if err, ok := f.MkdirErr[path]; ok {
		return &os.PathError{Op: "mkdir", Path: path, Err: err}
	}
	return f.Fs.MkdirAll(path, perm)
}

func (f *FaultyFs) Rename(oldname, newname string) error {
	if err, ok := f.RenameErr[oldname]; ok {
		return &os.LinkError{Op: "rename", Old: oldname, New: newname, Err: err}
	}
	return f.Fs.Rename(oldname, newname)
}

func (f *FaultyFs) Remove(name string) error {
	if err, ok := f.RemoveErr[name]; ok {
		return &os.PathError{Op: "remove", Path: name, Err: err}
	}
	return f.Fs.Remove(name)
}

// Compile-time check
var _ afero.Fs = (*FaultyFs)(nil)
