package storage

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/starford/mdview/internal/apperr"
)

func tempRoot(t *testing.T, files map[string]string) (string, *FS) {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	s, err := NewFS(dir)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return dir, s
}

func TestRead(t *testing.T) {
	_, s := tempRoot(t, map[string]string{"note.md": "# Hello\nWorld\n"})
	got, err := s.Read("note.md")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != "# Hello\nWorld\n" {
		t.Errorf("content mismatch: got %q", got)
	}
}

func TestRead_LeadingSlashIgnored(t *testing.T) {
	_, s := tempRoot(t, map[string]string{"a/b.md": "deep"})
	for _, p := range []string{"a/b.md", "/a/b.md", `a\b.md`} {
		got, err := s.Read(p)
		if err != nil {
			t.Fatalf("Read(%q): %v", p, err)
		}
		if string(got) != "deep" {
			t.Errorf("Read(%q) = %q", p, got)
		}
	}
}

func TestRead_MissingIsNotExist(t *testing.T) {
	_, s := tempRoot(t, nil)
	_, err := s.Read("nope.md")
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("err = %v, want fs.ErrNotExist", err)
	}
}

func TestReadDir_RootAndSub(t *testing.T) {
	_, s := tempRoot(t, map[string]string{
		"a.md":       "a",
		"sub/b.md":   "b",
		"readme.txt": "not md",
	})
	entries, err := s.ReadDir("")
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 3 {
		t.Errorf("len = %d, want 3", len(entries))
	}
	sub, err := s.ReadDir("/sub")
	if err != nil {
		t.Fatalf("ReadDir(sub): %v", err)
	}
	if len(sub) != 1 || sub[0].Name() != "b.md" {
		t.Errorf("sub entries = %v", sub)
	}
}

func TestStat(t *testing.T) {
	_, s := tempRoot(t, map[string]string{"x.md": "12345"})
	info, err := s.Stat("x.md")
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if info.Size() != 5 {
		t.Errorf("size = %d, want 5", info.Size())
	}
}

func TestTraversalBlocked(t *testing.T) {
	_, s := tempRoot(t, nil)

	cases := []string{
		"../../etc/passwd",
		"../outside.md",
		"a/../../outside.md",
	}
	for _, p := range cases {
		_, err := s.Read(p)
		if !errors.Is(err, apperr.ErrInvalidPath) {
			t.Errorf("Read(%q) err = %v, want ErrInvalidPath", p, err)
		}
		if _, err := s.ReadDir(p); err == nil {
			t.Errorf("expected error listing %q", p)
		}
	}
}

func TestSymlinkEscapeBlocked(t *testing.T) {
	outside := t.TempDir()
	if err := os.WriteFile(filepath.Join(outside, "secret.md"), []byte("s"), 0o644); err != nil {
		t.Fatal(err)
	}
	dir, s := tempRoot(t, nil)
	if err := os.Symlink(filepath.Join(outside, "secret.md"), filepath.Join(dir, "link.md")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}
	if _, err := s.Read("link.md"); err == nil {
		t.Error("symlink escaping the root should not be readable")
	}
}

func TestNewFS_NonExistentDir(t *testing.T) {
	_, err := NewFS(filepath.Join(t.TempDir(), "does-not-exist"))
	if err == nil {
		t.Error("expected error for non-existent dir")
	}
}

func TestNewFS_FileNotDir(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "mdview-test-*")
	if err != nil {
		t.Fatal(err)
	}
	_ = f.Close()
	if _, err := NewFS(f.Name()); err == nil {
		t.Error("expected error when root is a file")
	}
}

func TestFromFS(t *testing.T) {
	s := FromFS(fstest.MapFS{
		"docs/a.md": {Data: []byte("alpha")},
	})
	got, err := s.Read("/docs/a.md")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != "alpha" {
		t.Errorf("content = %q", got)
	}
	if s.Dir() != "" {
		t.Errorf("Dir = %q, want empty", s.Dir())
	}
	if err := s.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}
