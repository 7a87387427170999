package atomicfile

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSaveWritesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "out.json")

	if err := Save(path, []byte(`{"x":1}`), 0o600); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if string(got) != `{"x":1}` {
		t.Fatalf("content = %q", string(got))
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("perm = %o, want 0600", info.Mode().Perm())
	}
}

func TestSaveReplacesAndLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.json")

	if err := Save(path, []byte("first"), 0); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if err := Save(path, []byte("second"), 0); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	got, _ := os.ReadFile(path)
	if string(got) != "second" {
		t.Fatalf("content = %q, want second", string(got))
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir() error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected only the target file, got %d entries", len(entries))
	}
}

func TestSaveEmptyPath(t *testing.T) {
	if err := Save("  ", []byte("x"), 0o600); err == nil {
		t.Fatalf("expected error for empty path")
	}
}
