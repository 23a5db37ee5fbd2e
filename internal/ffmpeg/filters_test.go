package ffmpeg

import (
	"strings"
	"testing"

	"github.com/kikiluvv/clipforge/internal/render"
)

func TestFilterBuilderChain(t *testing.T) {
	got := NewFilterBuilder().
		Scale(1080, 1920).
		Eq(120, 100, 100).
		Blur(2.5).
		Build()

	want := "scale=1080:1920,eq=brightness=0.200:contrast=1.000:saturation=1.000,gblur=sigma=2.50"
	if got != want {
		t.Errorf("chain = %q, want %q", got, want)
	}
}

func TestFilterBuilderSkipsNeutralValues(t *testing.T) {
	fb := NewFilterBuilder().
		Scale(0, 0).
		Eq(100, 100, 100).
		Blur(0).
		HueRotate(0).
		Saturate(1).
		Contrast(1)

	if got := fb.BuildAll(); len(got) != 0 {
		t.Errorf("neutral values produced filters: %v", got)
	}
}

func TestFromSettingsNeutral(t *testing.T) {
	if got := FromSettings(render.NeutralSettings()); len(got) != 0 {
		t.Errorf("neutral settings produced filters: %v", got)
	}
}

func TestFromSettingsManualThenPreset(t *testing.T) {
	s := render.NeutralSettings()
	s.Brightness = 120
	s.Preset = render.PresetCool

	got := FromSettings(s)
	if len(got) != 3 {
		t.Fatalf("got %d filters: %v", len(got), got)
	}
	if !strings.HasPrefix(got[0], "eq=") {
		t.Errorf("manual adjustments must come first: %v", got)
	}
	if got[1] != "hue=h=30.0" || got[2] != "hue=s=1.20" {
		t.Errorf("cool preset chain: %v", got)
	}
}

func TestFromSettingsPresets(t *testing.T) {
	cases := map[render.Preset]int{
		render.PresetVintage:  2,
		render.PresetCool:     2,
		render.PresetWarm:     2,
		render.PresetDramatic: 2,
	}
	for preset, want := range cases {
		s := render.NeutralSettings()
		s.Preset = preset
		if got := FromSettings(s); len(got) != want {
			t.Errorf("%s: got %d filters %v, want %d", preset, len(got), got, want)
		}
	}
}

func TestEscapeFilterPath(t *testing.T) {
	got := escapeFilterPath(`/tmp/it's: a.srt`)
	want := `/tmp/it\'s\: a.srt`
	if got != want {
		t.Errorf("escaped = %q, want %q", got, want)
	}
}
