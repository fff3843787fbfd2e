// Package testutil provides shared test helpers for building content trees.
package testutil

import (
	"bytes"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/mdview/internal/storage"
)

// TestRoot writes files (relative path to content) into a temporary content
// directory and returns the directory with a storage provider rooted at it.
// A path ending in "/" creates an empty directory.
func TestRoot(t *testing.T, files map[string]string) (string, *storage.FS) {
	t.Helper()
	dir := t.TempDir()
	WriteTree(t, dir, files)
	store, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return dir, store
}

// WriteTree writes files below dir.
func WriteTree(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		full := filepath.Join(dir, filepath.FromSlash(rel))
		if rel != "" && rel[len(rel)-1] == '/' {
			if err := os.MkdirAll(full, 0o755); err != nil {
				t.Fatal(err)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

// FailingProvider wraps a provider and fails ReadDir for selected paths.
type FailingProvider struct {
	storage.Provider
	Fail map[string]error
}

// ReadDir returns the configured error for dir, or delegates.
func (p *FailingProvider) ReadDir(dir string) ([]fs.DirEntry, error) {
	if err, ok := p.Fail[storage.NormalizePath(dir)]; ok {
		return nil, err
	}
	return p.Provider.ReadDir(dir)
}

// CaptureLogger returns a text logger writing into the returned buffer.
func CaptureLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}
