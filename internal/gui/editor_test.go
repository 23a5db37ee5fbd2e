package gui

import (
	"testing"

	"fyne.io/fyne/v2"

	"github.com/kikiluvv/clipforge/internal/config"
)

func TestShortcutMapping(t *testing.T) {
	cases := []struct {
		name fyne.KeyName
		want string
		ok   bool
	}{
		{fyne.KeySpace, "space", true},
		{fyne.KeyLeft, "left", true},
		{fyne.KeyRight, "right", true},
		{fyne.KeyI, "i", true},
		{fyne.KeyO, "o", true},
		{fyne.KeyEscape, "", false},
	}
	for _, c := range cases {
		got, ok := shortcutFor(c.name)
		if got != c.want || ok != c.ok {
			t.Errorf("shortcutFor(%v) = %q, %v; want %q, %v", c.name, got, ok, c.want, c.ok)
		}
	}
}

func TestMusicLibraryFromConfig(t *testing.T) {
	cfg := &config.Config{Music: map[string]string{
		"lofi":  "/audio/lofi.mp3",
		"synth": "https://cdn.example.com/synth.mp3",
	}}

	l := musicLibrary(cfg)
	if url, ok := l.Resolve("lofi"); !ok || url != "/audio/lofi.mp3" {
		t.Errorf("resolve lofi: %q, %v", url, ok)
	}
	if got := len(l.List()); got != 2 {
		t.Errorf("list: %d entries", got)
	}

	// empty config yields an empty catalog, not nil
	if got := len(musicLibrary(&config.Config{}).List()); got != 0 {
		t.Errorf("empty catalog has %d entries", got)
	}
}
