package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsEmptyOverlay(t *testing.T) {
	f, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.CompressionLevel != nil || f.Display != nil {
		t.Fatal("expected an empty overlay for a missing file")
	}
}

func TestLoadParsesFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "screencap.yaml")
	content := "compression_level: 3\ndisplay: \":1\"\nwith_cursor: true\nbackend: xlib\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	f, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.CompressionLevel == nil || *f.CompressionLevel != 3 {
		t.Fatalf("CompressionLevel = %v, want 3", f.CompressionLevel)
	}
	if f.Display == nil || *f.Display != ":1" {
		t.Fatalf("Display = %v, want :1", f.Display)
	}
	if f.WithCursor == nil || !*f.WithCursor {
		t.Fatal("WithCursor not parsed as true")
	}
	if f.Backend == nil || *f.Backend != "xlib" {
		t.Fatalf("Backend = %v, want xlib", f.Backend)
	}
	if f.MaxDisplays != nil {
		t.Fatal("MaxDisplays should remain unset when absent from the file")
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("display: [unterminated"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected an error for malformed YAML")
	}
}
