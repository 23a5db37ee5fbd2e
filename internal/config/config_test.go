package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Editor.HistoryDepth != 50 {
		t.Errorf("history depth = %d", cfg.Editor.HistoryDepth)
	}
	if cfg.Editor.MinTrimGap != 500*time.Millisecond {
		t.Errorf("min trim gap = %v", cfg.Editor.MinTrimGap)
	}
	if cfg.FFmpeg.CRF != 23 || cfg.FFmpeg.Preset != "medium" {
		t.Errorf("ffmpeg defaults: %+v", cfg.FFmpeg)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
editor:
  history_depth: 10
  seek_step: 2s
gateway:
  base_url: https://gw.example.com
subtitles:
  font_file: /fonts/inter.ttf
music:
  lofi: /audio/lofi.mp3
`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Editor.HistoryDepth != 10 {
		t.Errorf("history depth = %d", cfg.Editor.HistoryDepth)
	}
	if cfg.Editor.SeekStep != 2*time.Second {
		t.Errorf("seek step = %v", cfg.Editor.SeekStep)
	}
	if cfg.Gateway.BaseURL != "https://gw.example.com" {
		t.Errorf("gateway url = %q", cfg.Gateway.BaseURL)
	}
	if cfg.Subtitles.FontFile != "/fonts/inter.ttf" {
		t.Errorf("font file = %q", cfg.Subtitles.FontFile)
	}
	if cfg.Music["lofi"] != "/audio/lofi.mp3" {
		t.Errorf("music catalog = %v", cfg.Music)
	}
	// untouched sections keep defaults
	if cfg.Editor.MinTrimGap != 500*time.Millisecond {
		t.Errorf("min trim gap = %v", cfg.Editor.MinTrimGap)
	}
}

func TestEnvOverridesGateway(t *testing.T) {
	t.Setenv("CLIPFORGE_GATEWAY_URL", "https://env.example.com")
	t.Setenv("CLIPFORGE_GATEWAY_KEY", "env-key")

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("gateway:\n  base_url: https://file.example.com\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Gateway.BaseURL != "https://env.example.com" {
		t.Errorf("env should win: %q", cfg.Gateway.BaseURL)
	}
	if cfg.Gateway.APIKey != "env-key" {
		t.Errorf("api key = %q", cfg.Gateway.APIKey)
	}
}

func TestConfigContextRoundTrip(t *testing.T) {
	cfg := defaultConfig()
	cfg.WorkDir = "/tmp/forge"

	ctx := WithConfig(context.Background(), cfg)
	if got := FromContext(ctx); got.WorkDir != "/tmp/forge" {
		t.Errorf("round trip: %q", got.WorkDir)
	}

	// missing config falls back to defaults
	if got := FromContext(context.Background()); got.Editor.HistoryDepth != 50 {
		t.Errorf("fallback: %+v", got.Editor)
	}
}
