package storage

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/starford/mdview/internal/apperr"
)

// FS implements Provider on top of an fs.FS. NewFS roots it at a local
// directory through os.Root, so neither ".." nor symlinks can leave it.
type FS struct {
	fsys fs.FS
	root *os.Root
	dir  string
}

// NewFS creates a new FS provider rooted at the given directory.
// The directory must already exist.
func NewFS(dir string) (*FS, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("storage: root is not a directory: %s", abs)
	}
	root, err := os.OpenRoot(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: open root: %w", err)
	}
	return &FS{fsys: root.FS(), root: root, dir: abs}, nil
}

// FromFS wraps an existing file system, e.g. an fstest.MapFS or embed.FS.
func FromFS(fsys fs.FS) *FS {
	return &FS{fsys: fsys}
}

// Dir returns the absolute content directory, or "" for FromFS providers.
func (f *FS) Dir() string {
	return f.dir
}

// Close releases the root handle.
func (f *FS) Close() error {
	if f.root == nil {
		return nil
	}
	return f.root.Close()
}

// safePath normalizes rel and rejects anything that is not a valid
// relative path below the root.
func (f *FS) safePath(rel string) (string, error) {
	p := NormalizePath(rel)
	if p == "" {
		return ".", nil
	}
	if !fs.ValidPath(p) {
		return "", fmt.Errorf("storage: %w: %s", apperr.ErrInvalidPath, rel)
	}
	return p, nil
}

// ReadDir lists a directory relative to the root.
func (f *FS) ReadDir(dir string) ([]fs.DirEntry, error) {
	p, err := f.safePath(dir)
	if err != nil {
		return nil, err
	}
	entries, err := fs.ReadDir(f.fsys, p)
	if err != nil {
		return nil, fmt.Errorf("storage: read dir %s: %w", p, err)
	}
	return entries, nil
}

// Stat returns file info for a path relative to the root.
func (f *FS) Stat(path string) (fs.FileInfo, error) {
	p, err := f.safePath(path)
	if err != nil {
		return nil, err
	}
	info, err := fs.Stat(f.fsys, p)
	if err != nil {
		return nil, fmt.Errorf("storage: stat %s: %w", p, err)
	}
	return info, nil
}

// Read returns the raw bytes of a content file.
func (f *FS) Read(path string) ([]byte, error) {
	p, err := f.safePath(path)
	if err != nil {
		return nil, err
	}
	data, err := fs.ReadFile(f.fsys, p)
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", p, err)
	}
	return data, nil
}
