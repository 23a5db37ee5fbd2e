package editor

import (
	"context"
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"

	"github.com/kikiluvv/clipforge/internal/layers"
	"github.com/kikiluvv/clipforge/internal/player"
	"github.com/kikiluvv/clipforge/internal/render"
	"github.com/kikiluvv/clipforge/internal/timeline"
)

func solidStill(w, h int, c color.RGBA) StillFrame {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
	}
	return StillFrame{Image: img}
}

func newTestSession(t *testing.T, duration time.Duration) *Session {
	t.Helper()
	source := player.NewSimulated(duration)
	frames := solidStill(320, 180, color.RGBA{R: 10, G: 10, B: 10, A: 255})

	s, err := NewSession(context.Background(), zerolog.Nop(), source, frames, nil, DefaultOptions())
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func TestNewSessionDefaults(t *testing.T) {
	s := newTestSession(t, 30*time.Second)

	state := s.State()
	assert.Equal(t, timeline.TrimRange{Start: 0, End: 30 * time.Second}, state.Trim)
	assert.True(t, state.Filters.IsNeutral())
	assert.Empty(t, state.Overlays)

	info := s.HistoryInfo()
	assert.Equal(t, 1, info.Total)
	assert.False(t, info.CanUndo, "the opening snapshot is not undoable")
}

func TestSeekClampsIntoTrim(t *testing.T) {
	s := newTestSession(t, 30*time.Second)

	s.Seek(10 * time.Second)
	s.SetInPoint()
	s.Seek(25 * time.Second)
	s.SetOutPoint()

	require.Equal(t, timeline.TrimRange{Start: 10 * time.Second, End: 25 * time.Second}, s.Trim())

	s.Seek(2 * time.Second)
	assert.Equal(t, 10*time.Second, s.CurrentTime(), "seek before trim clamps to start")

	s.Seek(time.Hour)
	assert.Equal(t, 25*time.Second, s.CurrentTime(), "seek past trim clamps to end")
}

func TestInOutPointGuards(t *testing.T) {
	s := newTestSession(t, 30*time.Second)

	// out point at the playhead start would invert the range
	s.Seek(0)
	s.SetOutPoint()
	assert.Equal(t, 30*time.Second, s.Trim().End, "invalid out point ignored")

	s.Seek(30 * time.Second)
	s.SetInPoint()
	assert.Equal(t, time.Duration(0), s.Trim().Start, "invalid in point ignored")
}

func TestUndoRedoRestoresWholeState(t *testing.T) {
	s := newTestSession(t, 30*time.Second)

	_, err := s.AddOverlay("Hello", 6*time.Second, 9*time.Second)
	require.NoError(t, err)

	filters := render.NeutralSettings()
	filters.Preset = render.PresetWarm
	s.SetFilters(filters)

	require.Len(t, s.State().Overlays, 1)
	require.Equal(t, render.PresetWarm, s.State().Filters.Preset)

	require.True(t, s.Undo())
	state := s.State()
	assert.Equal(t, render.PresetNone, state.Filters.Preset, "filter change undone")
	assert.Len(t, state.Overlays, 1, "overlay from the earlier snapshot survives")

	require.True(t, s.Undo())
	assert.Empty(t, s.State().Overlays)

	require.True(t, s.Redo())
	require.True(t, s.Redo())
	state = s.State()
	assert.Len(t, state.Overlays, 1)
	assert.Equal(t, render.PresetWarm, state.Filters.Preset)

	assert.False(t, s.Redo(), "nothing further to redo")
}

func TestSaveAfterUndoDropsRedoBranch(t *testing.T) {
	s := newTestSession(t, 30*time.Second)

	_, err := s.AddOverlay("one", 0, time.Second)
	require.NoError(t, err)
	require.True(t, s.Undo())

	_, err = s.AddOverlay("two", 0, time.Second)
	require.NoError(t, err)

	assert.False(t, s.HistoryInfo().CanRedo)
	require.Len(t, s.State().Overlays, 1)
	assert.Equal(t, "two", s.State().Overlays[0].Text)
}

func TestInvalidEditLeavesStateAndHistoryUntouched(t *testing.T) {
	s := newTestSession(t, 30*time.Second)
	before := s.HistoryInfo().Total

	_, err := s.AddOverlay("", 0, time.Second)
	assert.Error(t, err)

	_, err = s.AddSpeedSegment(10*time.Second, 5*time.Second, 100)
	assert.Error(t, err)

	assert.Equal(t, before, s.HistoryInfo().Total)
	assert.Empty(t, s.State().Overlays)
	assert.Empty(t, s.State().Speed)
}

func TestGuardedLayerMoveAddsNoHistory(t *testing.T) {
	s := newTestSession(t, 30*time.Second)

	l := s.AddLayer(layers.KindImage, "only", "", 0, 30*time.Second)
	before := s.HistoryInfo().Total

	s.MoveLayerUp(l.ID)
	s.MoveLayerDown(l.ID)

	assert.Equal(t, before, s.HistoryInfo().Total, "guarded no-ops must not pollute history")
}

func TestSetCaptionFont(t *testing.T) {
	s := newTestSession(t, 30*time.Second)

	f, err := opentype.Parse(gobold.TTF)
	require.NoError(t, err)

	s.SetCaptionFont(f)
	s.SetCaptionFont(nil) // ignored

	_, err = s.AddOverlay("styled", 0, 5*time.Second)
	require.NoError(t, err)
	s.RenderNow()
	assert.NotNil(t, s.LastFrame(), "rendering continues with the swapped typeface")
}

func TestAddLayerWithURLAndNoAssetStore(t *testing.T) {
	s := newTestSession(t, 30*time.Second)

	l := s.AddLayer(layers.KindImage, "sticker", "file:///nope.png", 0, 30*time.Second)

	s.RenderNow()
	require.NotNil(t, s.LastFrame(), "layer without a resolvable asset still renders the frame")
	_, ok := s.Preloader().Image(l.ID)
	assert.False(t, ok, "unresolvable asset stays absent")
}

func TestTrimDragRecordsSingleHistoryEntry(t *testing.T) {
	s := newTestSession(t, 100*time.Second)
	before := s.HistoryInfo().Total

	s.PointerDown(timeline.Target{Kind: timeline.TargetTrimStart}, 0)
	s.PointerMove(0.1)
	s.PointerMove(0.2)
	s.PointerMove(0.15)
	s.PointerUp()

	assert.Equal(t, before+1, s.HistoryInfo().Total, "one drag, one entry")
	assert.Equal(t, 15*time.Second, s.Trim().Start)

	require.True(t, s.Undo())
	assert.Equal(t, time.Duration(0), s.Trim().Start, "drag undone in one step")
}

func TestSplitAtPlayhead(t *testing.T) {
	s := newTestSession(t, 30*time.Second)

	require.NoError(t, s.SplitAt(10*time.Second))
	require.Error(t, s.SplitAt(10*time.Second), "splitting on an existing boundary fails")
	require.NoError(t, s.SplitAt(20*time.Second))

	segs := s.State().Segments
	require.Len(t, segs, 3)
	assert.Equal(t, s.Trim().Length(), segs[0].Duration+segs[1].Duration+segs[2].Duration)
}

func TestComposedFrameShowsOverlay(t *testing.T) {
	s := newTestSession(t, 30*time.Second)

	var sunk *image.RGBA
	s.SetFrameSink(func(f *image.RGBA) { sunk = f })

	_, err := s.AddOverlay("Hello", 6*time.Second, 9*time.Second)
	require.NoError(t, err)

	s.Seek(7 * time.Second)
	require.NotNil(t, sunk, "paused edits re-render through the sink")

	painted := 0
	for i := 0; i < len(sunk.Pix); i += 4 {
		if sunk.Pix[i] != 10 || sunk.Pix[i+1] != 10 || sunk.Pix[i+2] != 10 {
			painted++
		}
	}
	assert.NotZero(t, painted, "overlay text should appear on the frame at t=7s")

	// outside the overlay window the frame is clean again
	s.Seek(3 * time.Second)
	painted = 0
	for i := 0; i < len(sunk.Pix); i += 4 {
		if sunk.Pix[i] != 10 || sunk.Pix[i+1] != 10 || sunk.Pix[i+2] != 10 {
			painted++
		}
	}
	assert.Zero(t, painted)
}

func TestLoadStateReplacesAggregate(t *testing.T) {
	s := newTestSession(t, 30*time.Second)

	loaded := NewState(30 * time.Second)
	loaded.Trim = timeline.TrimRange{Start: 5 * time.Second, End: 20 * time.Second}
	s.LoadState(loaded)

	assert.Equal(t, loaded.Trim, s.Trim())
}

func TestAudioTrackLifecycle(t *testing.T) {
	s := newTestSession(t, 30*time.Second)

	tr := s.AddAudioTrack("music", "mem://song", 0, 30*time.Second)
	assert.Equal(t, 100.0, tr.Volume)

	s.SetAudioTrackVolume(tr.ID, 250)
	require.Len(t, s.State().Audio, 1)
	assert.Equal(t, 100.0, s.State().Audio[0].Volume, "volume clamped")

	s.RemoveAudioTrack(tr.ID)
	assert.Empty(t, s.State().Audio)
}

func TestHandleKeyShortcuts(t *testing.T) {
	s := newTestSession(t, 100*time.Second)

	s.HandleKey("right")
	assert.Equal(t, 5*time.Second, s.CurrentTime())

	s.HandleKey("left")
	assert.Equal(t, time.Duration(0), s.CurrentTime())

	s.Seek(10 * time.Second)
	s.HandleKey("i")
	assert.Equal(t, 10*time.Second, s.Trim().Start)

	s.Seek(50 * time.Second)
	s.HandleKey("o")
	assert.Equal(t, 50*time.Second, s.Trim().End)
}
