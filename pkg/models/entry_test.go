package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestMarshal_EmptyDirectoryKeepsChildren(t *testing.T) {
	dir := NewDirectory("docs", "docs", nil)
	data, err := json.Marshal(dir)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !strings.Contains(string(data), `"children":[]`) {
		t.Errorf("expected empty children array, got %s", data)
	}
}

func TestMarshal_UnwalkedDirectoryOmitsChildren(t *testing.T) {
	dir := Entry{Name: "deep", Path: "a/deep", Type: TypeDirectory}
	data, _ := json.Marshal(dir)
	if strings.Contains(string(data), "children") {
		t.Errorf("unwalked directory should omit children, got %s", data)
	}
}

func TestMarshal_FileOmitsOptionalFields(t *testing.T) {
	data, _ := json.Marshal(NewFile("a.md", "x/a.md", "md"))
	got := string(data)
	want := `{"name":"a.md","path":"x/a.md","type":"file","extension":"md"}`
	if got != want {
		t.Errorf("json = %s, want %s", got, want)
	}
}

func TestMarshal_NestedChildrenRoundTrip(t *testing.T) {
	tree := []Entry{
		NewDirectory("a", "a", []Entry{
			NewDirectory("b", "a/b", nil),
			NewFile("c.md", "a/c.md", "md"),
		}),
	}
	data, err := json.Marshal(tree)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var back []Entry
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(back) != 1 || len(back[0].Children) != 2 {
		t.Fatalf("decoded tree = %+v", back)
	}
	if back[0].Children[1].Path != "a/c.md" {
		t.Errorf("child path = %q", back[0].Children[1].Path)
	}
}
