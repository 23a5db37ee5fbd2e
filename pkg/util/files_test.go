package util

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEnsureDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "c")
	if err := EnsureDir(path); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if !FileExists(path) {
		t.Fatal("directory should exist after EnsureDir")
	}
	// creating it again is a no-op
	if err := EnsureDir(path); err != nil {
		t.Fatalf("re-ensure: %v", err)
	}
}

func TestFileExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "present.txt")
	if FileExists(path) {
		t.Fatal("missing file reported as present")
	}
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if !FileExists(path) {
		t.Fatal("written file reported as missing")
	}
}

func TestCleanupFiles(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.mp4")
	b := filepath.Join(dir, "b.mp4")
	if err := os.WriteFile(a, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	// one existing file, one already gone
	CleanupFiles(a, b)

	if FileExists(a) {
		t.Fatal("existing file should be removed")
	}
}
