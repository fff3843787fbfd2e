package parser

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestSplit_NoFrontmatter(t *testing.T) {
	input := "# Just a heading\nSome text.\n"
	fm, body, err := Split(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fm != nil {
		t.Errorf("expected nil frontmatter, got %v", fm)
	}
	if body != input {
		t.Errorf("body = %q, want input unchanged", body)
	}
}

func TestSplit_FrontmatterAndBody(t *testing.T) {
	fm, body, err := Split("---\ntitle: X\n---\nBODY")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fm) != 1 || fm["title"] != "X" {
		t.Errorf("frontmatter = %v, want {title: X}", fm)
	}
	if body != "BODY" {
		t.Errorf("body = %q, want %q", body, "BODY")
	}
}

func TestSplit_BodyTrimmed(t *testing.T) {
	_, body, _ := Split("---\na: 1\n---\n\n# Heading\n\ntext\n\n")
	if body != "# Heading\n\ntext" {
		t.Errorf("body = %q", body)
	}
}

func TestSplit_Unterminated(t *testing.T) {
	input := "---\nunterminated"
	fm, body, err := Split(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fm != nil {
		t.Errorf("expected nil frontmatter, got %v", fm)
	}
	if body != input {
		t.Errorf("body = %q, want full input", body)
	}
}

func TestSplit_InvalidYAMLFallback(t *testing.T) {
	input := "---\ntitle: [unclosed\n---\nBody\n"
	fm, body, err := Split(input)
	if !errors.Is(err, ErrFrontmatter) {
		t.Errorf("err = %v, want ErrFrontmatter", err)
	}
	if fm != nil {
		t.Errorf("expected nil frontmatter on invalid YAML")
	}
	if body != input {
		t.Errorf("body = %q, want untouched input", body)
	}
}

func TestSplit_ScalarBlockIsNotMetadata(t *testing.T) {
	input := "---\njust some words\n---\nBody"
	fm, body, err := Split(input)
	if !errors.Is(err, ErrFrontmatter) {
		t.Errorf("err = %v, want ErrFrontmatter", err)
	}
	if fm != nil || body != input {
		t.Errorf("fm = %v, body = %q", fm, body)
	}
}

func TestSplit_EmptyBlock(t *testing.T) {
	fm, body, err := Split("---\n---\nBody")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fm == nil || len(fm) != 0 {
		t.Errorf("frontmatter = %v, want empty map", fm)
	}
	if body != "Body" {
		t.Errorf("body = %q", body)
	}
}

func TestSplit_NestedNonStringKeys(t *testing.T) {
	fm, _, err := Split("---\nmeta:\n  1: one\n  2: two\ntags:\n  - go\n---\nx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	meta, ok := fm["meta"].(map[string]any)
	if !ok {
		t.Fatalf("meta = %T, want map[string]any", fm["meta"])
	}
	if meta["1"] != "one" {
		t.Errorf("meta = %v", meta)
	}
	tags, ok := fm["tags"].([]any)
	if !ok || len(tags) != 1 || tags[0] != "go" {
		t.Errorf("tags = %v", fm["tags"])
	}
}

func TestSplit_NonFiniteFloatsBecomeNull(t *testing.T) {
	fm, body, err := Split("---\nweight: .inf\nlow: -.inf\nodd: .nan\nlist: [1.5, .inf]\n---\n# Body\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body != "# Body" {
		t.Errorf("body = %q", body)
	}
	for _, k := range []string{"weight", "low", "odd"} {
		if v, ok := fm[k]; !ok || v != nil {
			t.Errorf("%s = %v, want nil", k, v)
		}
	}
	out, err := json.Marshal(fm)
	if err != nil {
		t.Fatalf("metadata not JSON encodable: %v", err)
	}
	want := `{"list":[1.5,null],"low":null,"odd":null,"weight":null}`
	if string(out) != want {
		t.Errorf("json = %s, want %s", out, want)
	}
}

func TestParse_TitleFromFrontmatter(t *testing.T) {
	r := Parse([]byte("---\ntitle: FM Title\n---\n# H1 Title\ntext"))
	if r.Title != "FM Title" {
		t.Errorf("title = %q, want %q", r.Title, "FM Title")
	}
	if r.Err != nil {
		t.Errorf("unexpected err: %v", r.Err)
	}
}

func TestParse_TitleFromFirstH1(t *testing.T) {
	r := Parse([]byte("some text\n\n## Sub\n\n# My Heading\nmore"))
	if r.Title != "My Heading" {
		t.Errorf("title = %q, want %q", r.Title, "My Heading")
	}
}

func TestParse_InvalidFrontmatterKeepsBody(t *testing.T) {
	input := "---\ntitle: [unclosed\n---\n# Body"
	r := Parse([]byte(input))
	if r.Frontmatter != nil {
		t.Errorf("frontmatter = %v", r.Frontmatter)
	}
	if r.Body != input {
		t.Errorf("body = %q", r.Body)
	}
	if !errors.Is(r.Err, ErrFrontmatter) {
		t.Errorf("err = %v", r.Err)
	}
}
