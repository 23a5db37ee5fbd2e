package ffmpeg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

func fakeBinary(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestNewHonorsConfiguredBinaryPath(t *testing.T) {
	dir := t.TempDir()
	ffmpegPath := fakeBinary(t, dir, "ffmpeg")
	ffprobePath := fakeBinary(t, dir, "ffprobe")

	e, err := New(zerolog.Nop(), ffmpegPath, 0)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	if e.ffmpegPath != ffmpegPath {
		t.Errorf("ffmpeg path = %q, want %q", e.ffmpegPath, ffmpegPath)
	}
	if e.ffprobePath != ffprobePath {
		t.Errorf("ffprobe path = %q, want sibling %q", e.ffprobePath, ffprobePath)
	}
}

func TestNewRejectsMissingBinary(t *testing.T) {
	if _, err := New(zerolog.Nop(), filepath.Join(t.TempDir(), "ffmpeg"), 0); err == nil {
		t.Fatal("nonexistent binary path should fail")
	}
}
