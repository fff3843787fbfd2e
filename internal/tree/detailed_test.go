package tree

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/starford/mdview/internal/apperr"
	"github.com/starford/mdview/internal/storage"
	"github.com/starford/mdview/internal/testutil"
)

func TestBuildDetailed(t *testing.T) {
	b := NewBuilder(storage.FromFS(fixture()))
	got, err := b.BuildDetailed(context.Background(), "", 0)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(names(got), ",") != "assets,empty,guide,readme.md" {
		t.Fatalf("names = %v", names(got))
	}

	guide := find(t, got, "guide")
	if guide.Size == nil || *guide.Size != 35 {
		t.Errorf("guide size = %v, want 35", guide.Size)
	}
	if guide.ItemCount == nil || *guide.ItemCount != 3 {
		t.Errorf("guide itemCount = %v, want 3", guide.ItemCount)
	}
	if len(guide.Children) != 2 {
		t.Fatalf("guide children = %v", names(guide.Children))
	}
	if s := guide.Children[1].Size; s == nil || *s != 20 {
		t.Errorf("setup.md size = %v, want 20", s)
	}

	empty := find(t, got, "empty")
	if *empty.Size != 0 || *empty.ItemCount != 0 || empty.Children == nil {
		t.Errorf("empty = %+v", empty)
	}

	readme := find(t, got, "readme.md")
	if readme.Size == nil || *readme.Size != 30 || readme.ItemCount != nil {
		t.Errorf("readme = %+v", readme)
	}
}

func TestBuildDetailed_ModTime(t *testing.T) {
	mod := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	b := NewBuilder(storage.FromFS(fstest.MapFS{
		"a.md": {Data: []byte("x"), ModTime: mod},
	}))
	got, err := b.BuildDetailed(context.Background(), "", 0)
	if err != nil {
		t.Fatal(err)
	}
	if got[0].LastModified == nil || !got[0].LastModified.Equal(mod) {
		t.Errorf("lastModified = %v, want %v", got[0].LastModified, mod)
	}
}

func TestBuildDetailed_Depth(t *testing.T) {
	b := NewBuilder(storage.FromFS(fstest.MapFS{
		"a/b/c/deep.md": {Data: []byte("12345")},
		"a/top.md":      {Data: []byte("1")},
	}))
	got, err := b.BuildDetailed(context.Background(), "", 2)
	if err != nil {
		t.Fatal(err)
	}
	a := find(t, got, "a")
	if a.Children == nil {
		t.Fatal("level 1 directory should carry children")
	}
	inner := find(t, a.Children, "b")
	if inner.Children != nil {
		t.Errorf("level 2 directory should not carry children, got %v", names(inner.Children))
	}
	if *inner.Size != 5 || *inner.ItemCount != 2 {
		t.Errorf("b size=%d count=%d, want 5 and 2", *inner.Size, *inner.ItemCount)
	}
	if *a.Size != 6 {
		t.Errorf("a size = %d, want 6", *a.Size)
	}

	raw, err := json.Marshal(inner)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(raw), "children") {
		t.Errorf("depth-limited directory serialised children: %s", raw)
	}
}

func TestBuildDetailed_SkipsUnreadableSubtree(t *testing.T) {
	logger, buf := testutil.CaptureLogger()
	store := &testutil.FailingProvider{
		Provider: storage.FromFS(fixture()),
		Fail:     map[string]error{"guide": errors.New("permission denied")},
	}
	got, err := NewBuilder(store, WithLogger(logger)).BuildDetailed(context.Background(), "", 0)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(names(got), ",") != "assets,empty,readme.md" {
		t.Errorf("names = %v", names(got))
	}
	if !strings.Contains(buf.String(), "skipping unreadable directory") {
		t.Errorf("expected skip to be logged, got %q", buf.String())
	}
}

func TestDetails(t *testing.T) {
	b := NewBuilder(storage.FromFS(fixture()))
	root, err := b.Details(context.Background(), "", 1)
	if err != nil {
		t.Fatal(err)
	}
	if root.Name != "root" || root.Path != "" {
		t.Errorf("root name/path = %q/%q", root.Name, root.Path)
	}
	if *root.Size != 75 {
		t.Errorf("root size = %d, want 75", *root.Size)
	}
	if *root.ItemCount != 9 {
		t.Errorf("root itemCount = %d, want 9", *root.ItemCount)
	}
	guide := find(t, root.Children, "guide")
	if guide.Children != nil {
		t.Error("depth 1 should not expand second level")
	}

	sub, err := b.Details(context.Background(), "/guide", 0)
	if err != nil {
		t.Fatal(err)
	}
	if sub.Name != "guide" || *sub.Size != 35 || len(sub.Children) != 2 {
		t.Errorf("guide details = %+v", sub)
	}
}

func TestDetails_NotFound(t *testing.T) {
	b := NewBuilder(storage.FromFS(fixture()))
	for _, p := range []string{"missing", "readme.md"} {
		if _, err := b.Details(context.Background(), p, 1); !errors.Is(err, apperr.ErrNotFound) {
			t.Errorf("%q: err = %v, want ErrNotFound", p, err)
		}
	}
}
