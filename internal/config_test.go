package internal

import (
	"strings"
	"testing"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should pass: %v", err)
	}
	if cfg.App.HTTP.Address() != ":3300" {
		t.Errorf("address = %q", cfg.App.HTTP.Address())
	}
}

func TestHTTPConfig_InvalidPort(t *testing.T) {
	for _, port := range []int{0, -1, 70000} {
		cfg := HTTPConfig{Port: port}
		if err := cfg.Validate(); err == nil {
			t.Errorf("port %d should fail validation", port)
		}
	}
}

func TestDocsConfig_Extension(t *testing.T) {
	for _, ext := range []string{".md", ".markdown", ".MD"} {
		cfg := DocsConfig{Root: "x", Extension: ext}
		if err := cfg.Validate(); err != nil {
			t.Errorf("%q should pass: %v", ext, err)
		}
	}
	for _, ext := range []string{"md", ".", "", ".a/b"} {
		cfg := DocsConfig{Root: "x", Extension: ext}
		if err := cfg.Validate(); err == nil {
			t.Errorf("%q should fail validation", ext)
		}
	}
}

func TestDocsConfig_Sort(t *testing.T) {
	cfg := DocsConfig{Root: "x", Extension: ".md", Sort: "dirs-first"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("dirs-first should pass: %v", err)
	}
	cfg.Sort = "random"
	err := cfg.Validate()
	if err == nil {
		t.Fatal("unknown sort should fail validation")
	}
	if !strings.Contains(err.Error(), "Sort") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestDocsConfig_RootRequired(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Docs.Root = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("full config validate should catch empty root")
	}
}

func TestCORSConfig_EmptyOrigin(t *testing.T) {
	cfg := CORSConfig{AllowedOrigins: []string{"http://a.example", ""}}
	if err := cfg.Validate(); err == nil {
		t.Fatal("empty origin should fail validation")
	}
	cfg = CORSConfig{}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("no origins should pass: %v", err)
	}
}
