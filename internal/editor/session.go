package editor

import (
	"context"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/image/font/opentype"

	"github.com/kikiluvv/clipforge/internal/history"
	"github.com/kikiluvv/clipforge/internal/layers"
	"github.com/kikiluvv/clipforge/internal/overlays"
	"github.com/kikiluvv/clipforge/internal/player"
	"github.com/kikiluvv/clipforge/internal/render"
	"github.com/kikiluvv/clipforge/internal/segments"
	"github.com/kikiluvv/clipforge/internal/speed"
	"github.com/kikiluvv/clipforge/internal/subtitles"
	"github.com/kikiluvv/clipforge/internal/timeline"
)

// FrameSource supplies the decoded base frame for a media time.
// A nil or zero-sized frame makes the compositor skip the tick.
type FrameSource interface {
	Frame(t time.Duration) image.Image
}

// StillFrame is a FrameSource that always returns the same image,
// standing in for a decoder when only a poster frame is available.
type StillFrame struct {
	Image image.Image
}

// Frame returns the poster image regardless of time
func (s StillFrame) Frame(time.Duration) image.Image {
	return s.Image
}

// FrameSink receives composited frames for display
type FrameSink func(*image.RGBA)

// Options tunes a session
type Options struct {
	HistoryDepth  int
	MinTrimGap    time.Duration
	SeekStep      time.Duration
	FrameRate     float64
	SubtitleStyle render.SubtitleStyle
}

// DefaultOptions returns the product defaults
func DefaultOptions() Options {
	return Options{
		HistoryDepth:  50,
		MinTrimGap:    500 * time.Millisecond,
		SeekStep:      5 * time.Second,
		FrameRate:     30,
		SubtitleStyle: render.DefaultSubtitleStyle(),
	}
}

// Session is one editing session over one media source. All state
// mutations go through its methods; every history-worthy edit pushes a
// post-mutation snapshot. The compositor re-reads the state once per
// loop tick while playing, and once after any edit while paused.
type Session struct {
	logger zerolog.Logger
	ctx    context.Context

	mu        sync.Mutex
	state     State
	subtitles []subtitles.Segment
	frames    FrameSource
	sink      FrameSink
	lastFrame *image.RGBA

	source     player.Source
	compositor *render.Compositor
	preloader  *layers.Preloader
	history    *history.Manager[State]
	controller *timeline.Controller
	loop       *player.Loop

	seekStep time.Duration
}

// NewSession wires a session around a media source. assets may be nil
// when no layer media will be loaded.
func NewSession(ctx context.Context, logger zerolog.Logger, source player.Source, frames FrameSource, assets layers.ImageSource, opts Options) (*Session, error) {
	if source == nil {
		return nil, fmt.Errorf("session requires a media source")
	}
	if opts.SeekStep <= 0 {
		opts.SeekStep = 5 * time.Second
	}

	preloader := layers.NewPreloader(logger, assets)
	compositor, err := render.NewCompositor(logger, preloader, opts.SubtitleStyle)
	if err != nil {
		return nil, fmt.Errorf("failed to create compositor: %w", err)
	}

	s := &Session{
		logger:     logger.With().Str("component", "session").Logger(),
		ctx:        ctx,
		state:      NewState(source.Duration()),
		frames:     frames,
		source:     source,
		compositor: compositor,
		preloader:  preloader,
		history:    history.New[State](logger, opts.HistoryDepth),
		seekStep:   opts.SeekStep,
	}
	s.controller = timeline.NewController(logger, (*surface)(s), opts.MinTrimGap)
	s.loop = player.NewLoop(logger, opts.FrameRate, s.Tick)

	s.history.Save(s.state.Clone(), "Open project")
	return s, nil
}

// Close stops the render loop. Must be called on unmount so no redraw
// goroutine outlives the session.
func (s *Session) Close() {
	s.loop.Stop()
}

// State returns a snapshot of the editable aggregate
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// SetFrameSink registers the display callback
func (s *Session) SetFrameSink(sink FrameSink) {
	s.mu.Lock()
	s.sink = sink
	s.mu.Unlock()
}

// LastFrame returns the most recently composited frame
func (s *Session) LastFrame() *image.RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastFrame
}

// --- playback ---

// Playing reports whether the source clock is advancing
func (s *Session) Playing() bool {
	return s.source.Playing()
}

// CurrentTime returns the playhead position
func (s *Session) CurrentTime() time.Duration {
	return s.source.CurrentTime()
}

// Duration returns the media length
func (s *Session) Duration() time.Duration {
	return s.source.Duration()
}

// TogglePlay flips play/pause and starts or cancels the render loop
// accordingly. Not history-worthy.
func (s *Session) TogglePlay() {
	if s.source.Playing() {
		s.source.Pause()
		s.loop.Stop()
		s.RenderNow()
		return
	}
	s.Seek(s.source.CurrentTime()) // re-clamp into trim before rolling
	s.source.Play()
	s.loop.Start()
}

// Seek moves the playhead, clamped into the trim range
func (s *Session) Seek(t time.Duration) {
	s.mu.Lock()
	target := s.state.Trim.Clamp(t)
	s.mu.Unlock()

	s.source.Seek(target)
	s.renderIfPaused()
}

// StepForward seeks ahead by the configured step
func (s *Session) StepForward() {
	s.Seek(s.source.CurrentTime() + s.seekStep)
}

// StepBack seeks back by the configured step
func (s *Session) StepBack() {
	s.Seek(s.source.CurrentTime() - s.seekStep)
}

// SetVolume sets output volume as a percentage
func (s *Session) SetVolume(pct float64) {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	s.source.SetVolume(pct / 100)
}

// HandleKey maps editor-level keyboard shortcuts
func (s *Session) HandleKey(key string) {
	switch key {
	case "space":
		s.TogglePlay()
	case "left":
		s.StepBack()
	case "right":
		s.StepForward()
	case "i":
		s.SetInPoint()
	case "o":
		s.SetOutPoint()
	}
}

// Tick runs one render pass against the current state. Invoked by the
// loop driver while playing and directly after paused edits.
func (s *Session) Tick() {
	now := s.source.CurrentTime()

	s.mu.Lock()
	rate := speed.Rate(now, s.state.Speed)
	in := render.Input{
		Time:      now,
		Source:    s.frameAt(now),
		Filters:   s.state.Filters,
		Layers:    s.state.Layers,
		Overlays:  s.state.Overlays,
		Subtitles: s.subtitles,
	}
	sink := s.sink
	s.mu.Unlock()

	s.source.SetRate(rate)

	frame, err := s.compositor.Compose(in)
	if err != nil {
		// source frame not ready; skip this tick
		return
	}

	s.mu.Lock()
	s.lastFrame = frame
	s.mu.Unlock()

	if sink != nil {
		sink(frame)
	}
}

// RenderNow composes one frame synchronously so paused edits are
// visible without pressing play.
func (s *Session) RenderNow() {
	s.Tick()
}

func (s *Session) renderIfPaused() {
	if !s.source.Playing() {
		s.RenderNow()
	}
}

// frameAt reads the base frame; caller holds the lock
func (s *Session) frameAt(t time.Duration) image.Image {
	if s.frames == nil {
		return nil
	}
	return s.frames.Frame(t)
}

// --- timeline gestures ---

// PointerDown forwards a pointer-down on the timeline. frac is the
// cursor x position as a fraction of the track width.
func (s *Session) PointerDown(target timeline.Target, frac float64) {
	s.controller.PointerDown(target, frac)
}

// PointerMove forwards pointer movement during a drag
func (s *Session) PointerMove(frac float64) {
	s.controller.PointerMove(frac)
}

// PointerUp ends the gesture; a drag that changed state is recorded as
// one history entry.
func (s *Session) PointerUp() {
	g := s.controller.PointerUp()
	if g.Changed && g.Label != "" {
		s.saveState(g.Label)
	}
	s.renderIfPaused()
}

// DragMode exposes the controller state for the UI
func (s *Session) DragMode() timeline.DragMode {
	return s.controller.Mode()
}

// SetInPoint moves trim start to the playhead
func (s *Session) SetInPoint() {
	now := s.source.CurrentTime()

	s.mu.Lock()
	trim := s.state.Trim
	if now >= trim.End {
		s.mu.Unlock()
		return
	}
	s.state.Trim = timeline.TrimRange{Start: now, End: trim.End}
	s.mu.Unlock()

	s.saveState("Set in point")
	s.renderIfPaused()
}

// SetOutPoint moves trim end to the playhead
func (s *Session) SetOutPoint() {
	now := s.source.CurrentTime()

	s.mu.Lock()
	trim := s.state.Trim
	if now <= trim.Start {
		s.mu.Unlock()
		return
	}
	s.state.Trim = timeline.TrimRange{Start: trim.Start, End: now}
	s.mu.Unlock()

	s.saveState("Set out point")
	s.renderIfPaused()
}

// Trim returns the current trim range
func (s *Session) Trim() timeline.TrimRange {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Trim
}

// --- history ---

func (s *Session) saveState(label string) {
	s.mu.Lock()
	snapshot := s.state.Clone()
	s.mu.Unlock()
	s.history.Save(snapshot, label)
}

// Undo restores the previous snapshot wholesale. Returns false when
// there is nothing to undo.
func (s *Session) Undo() bool {
	snapshot, ok := s.history.Undo()
	if !ok {
		return false
	}
	s.restore(snapshot)
	return true
}

// Redo restores the next snapshot wholesale. Returns false when there
// is nothing to redo.
func (s *Session) Redo() bool {
	snapshot, ok := s.history.Redo()
	if !ok {
		return false
	}
	s.restore(snapshot)
	return true
}

// restore replaces every state field atomically so overlays, trim and
// the rest never desync, then re-requests any layer assets the cache
// no longer holds.
func (s *Session) restore(snapshot State) {
	s.mu.Lock()
	s.state = snapshot.Clone()
	restored := s.state.Layers
	s.mu.Unlock()

	for _, l := range restored {
		s.preloader.Preload(s.ctx, l)
	}
	s.renderIfPaused()
}

// HistoryInfo exposes undo/redo availability for display
func (s *Session) HistoryInfo() history.Info {
	return s.history.Info()
}

// --- subtitles ---

// SetSubtitles replaces the caption track. Captions come from
// transcription results or an imported file; they are not part of the
// undoable aggregate.
func (s *Session) SetSubtitles(segs []subtitles.Segment) {
	s.mu.Lock()
	s.subtitles = append([]subtitles.Segment(nil), segs...)
	s.mu.Unlock()
	s.renderIfPaused()
}

// Subtitles returns the caption track
func (s *Session) Subtitles() []subtitles.Segment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]subtitles.Segment(nil), s.subtitles...)
}

// --- surface adapter ---

// surface adapts the session to timeline.Surface. Trim edits made
// mid-drag are applied live but recorded as a single history entry at
// pointer-up.
type surface Session

func (s *surface) Duration() time.Duration {
	return s.source.Duration()
}

func (s *surface) Trim() timeline.TrimRange {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Trim
}

func (s *surface) SetTrim(r timeline.TrimRange) {
	s.mu.Lock()
	s.state.Trim = r
	s.mu.Unlock()
}

func (s *surface) Seek(t time.Duration) {
	(*Session)(s).Seek(t)
}

func (s *surface) TrackWindow(kind timeline.TrackKind, id string) (time.Duration, time.Duration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch kind {
	case timeline.TrackAudio:
		for _, t := range s.state.Audio {
			if t.ID == id {
				return t.Start, t.Duration, true
			}
		}
	case timeline.TrackLayer:
		if l, ok := layers.Find(s.state.Layers, id); ok {
			return l.Start, l.Duration, true
		}
	case timeline.TrackSegment:
		for _, seg := range s.state.Segments {
			if seg.ID == id {
				return seg.Start, seg.Duration, true
			}
		}
	}
	return 0, 0, false
}

func (s *surface) SetTrackStart(kind timeline.TrackKind, id string, start time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch kind {
	case timeline.TrackAudio:
		out := append([]AudioTrack(nil), s.state.Audio...)
		for i := range out {
			if out[i].ID == id {
				out[i].Start = start
				s.state.Audio = out
				return
			}
		}
	case timeline.TrackLayer:
		out := append([]layers.Layer(nil), s.state.Layers...)
		for i := range out {
			if out[i].ID == id {
				out[i].Start = start
				s.state.Layers = out
				return
			}
		}
	case timeline.TrackSegment:
		out := append([]segments.Segment(nil), s.state.Segments...)
		for i := range out {
			if out[i].ID == id {
				out[i].Start = start
				s.state.Segments = out
				return
			}
		}
	}
}

// --- edits ---

// SetCaptionFont swaps the typeface used for overlays and captions.
// Fonts come from configuration or an uploaded file; the swap is not
// history-worthy.
func (s *Session) SetCaptionFont(f *opentype.Font) {
	if f == nil {
		return
	}
	s.compositor.SetFont(f)
	s.renderIfPaused()
}

// SetFilters replaces the visual adjustments
func (s *Session) SetFilters(settings render.Settings) {
	s.mu.Lock()
	s.state.Filters = settings
	s.mu.Unlock()

	s.saveState("Adjust filters")
	s.renderIfPaused()
}

// AddOverlay creates a text overlay. Invalid input leaves state
// untouched.
func (s *Session) AddOverlay(text string, start, end time.Duration) (overlays.Text, error) {
	o, err := overlays.New(text, start, end)
	if err != nil {
		return overlays.Text{}, err
	}

	s.mu.Lock()
	s.state.Overlays = append(append([]overlays.Text(nil), s.state.Overlays...), o)
	s.mu.Unlock()

	s.saveState("Add text overlay")
	s.renderIfPaused()
	return o, nil
}

// UpdateOverlay replaces an overlay by id
func (s *Session) UpdateOverlay(o overlays.Text) error {
	if err := o.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	out := append([]overlays.Text(nil), s.state.Overlays...)
	found := false
	for i := range out {
		if out[i].ID == o.ID {
			out[i] = o
			found = true
			break
		}
	}
	if found {
		s.state.Overlays = out
	}
	s.mu.Unlock()

	if !found {
		return fmt.Errorf("overlay %s not found", o.ID)
	}
	s.saveState("Edit text overlay")
	s.renderIfPaused()
	return nil
}

// RemoveOverlay deletes an overlay by id
func (s *Session) RemoveOverlay(id string) {
	s.mu.Lock()
	out := make([]overlays.Text, 0, len(s.state.Overlays))
	removed := false
	for _, o := range s.state.Overlays {
		if o.ID == id {
			removed = true
			continue
		}
		out = append(out, o)
	}
	if removed {
		s.state.Overlays = out
	}
	s.mu.Unlock()

	if removed {
		s.saveState("Remove text overlay")
		s.renderIfPaused()
	}
}

// AddLayer imports a media layer and starts resolving its asset
func (s *Session) AddLayer(kind layers.Kind, name, url string, start, duration time.Duration) layers.Layer {
	l := layers.New(kind, name, url, start, duration)

	s.mu.Lock()
	s.state.Layers = layers.Add(s.state.Layers, l)
	s.mu.Unlock()

	s.preloader.Preload(s.ctx, l)
	s.saveState("Add layer")
	s.renderIfPaused()
	return l
}

// RemoveLayer deletes a layer and discards its asset, including any
// load still in flight.
func (s *Session) RemoveLayer(id string) {
	s.mu.Lock()
	out, removed := layers.Remove(s.state.Layers, id)
	if removed {
		s.state.Layers = out
	}
	s.mu.Unlock()

	if removed {
		s.preloader.Forget(id)
		s.saveState("Remove layer")
		s.renderIfPaused()
	}
}

// ToggleLayer flips layer visibility
func (s *Session) ToggleLayer(id string) {
	s.mu.Lock()
	out, ok := layers.Toggle(s.state.Layers, id)
	if ok {
		s.state.Layers = out
	}
	s.mu.Unlock()

	if ok {
		s.saveState("Toggle layer")
		s.renderIfPaused()
	}
}

// SetLayerOpacity changes a layer's opacity (0..100)
func (s *Session) SetLayerOpacity(id string, opacity float64) {
	s.mu.Lock()
	out, ok := layers.SetOpacity(s.state.Layers, id, opacity)
	if ok {
		s.state.Layers = out
	}
	s.mu.Unlock()

	if ok {
		s.saveState("Set layer opacity")
		s.renderIfPaused()
	}
}

// MoveLayerUp raises a layer one step in paint order. A no-op on the
// topmost layer.
func (s *Session) MoveLayerUp(id string) {
	s.moveLayer(id, layers.MoveUp, "Move layer up")
}

// MoveLayerDown lowers a layer one step in paint order. A no-op on the
// bottom layer.
func (s *Session) MoveLayerDown(id string) {
	s.moveLayer(id, layers.MoveDown, "Move layer down")
}

func (s *Session) moveLayer(id string, op func([]layers.Layer, string) ([]layers.Layer, bool), label string) {
	s.mu.Lock()
	out, moved := op(s.state.Layers, id)
	if moved {
		s.state.Layers = out
	}
	s.mu.Unlock()

	if moved {
		s.saveState(label)
		s.renderIfPaused()
	}
}

// Layers returns the layer stack
func (s *Session) Layers() []layers.Layer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]layers.Layer(nil), s.state.Layers...)
}

// Preloader exposes the asset cache, mainly for wiring and tests
func (s *Session) Preloader() *layers.Preloader {
	return s.preloader
}

// AddSpeedSegment appends a playback-rate range. Overlaps are allowed;
// resolution is first match in insertion order.
func (s *Session) AddSpeedSegment(start, end time.Duration, pct float64) (speed.Segment, error) {
	seg, err := speed.New(start, end, pct)
	if err != nil {
		return speed.Segment{}, err
	}

	s.mu.Lock()
	s.state.Speed = append(append([]speed.Segment(nil), s.state.Speed...), seg)
	s.mu.Unlock()

	s.saveState("Add speed segment")
	return seg, nil
}

// RemoveSpeedSegment deletes a speed segment by id
func (s *Session) RemoveSpeedSegment(id string) {
	s.mu.Lock()
	out := make([]speed.Segment, 0, len(s.state.Speed))
	removed := false
	for _, seg := range s.state.Speed {
		if seg.ID == id {
			removed = true
			continue
		}
		out = append(out, seg)
	}
	if removed {
		s.state.Speed = out
	}
	s.mu.Unlock()

	if removed {
		s.saveState("Remove speed segment")
	}
}

// AddAudioTrack places an audio lane
func (s *Session) AddAudioTrack(name, url string, start, duration time.Duration) AudioTrack {
	t := NewAudioTrack(name, url, start, duration)

	s.mu.Lock()
	s.state.Audio = append(append([]AudioTrack(nil), s.state.Audio...), t)
	s.mu.Unlock()

	s.saveState("Add audio track")
	return t
}

// SetAudioTrackVolume changes a track's volume (0..100)
func (s *Session) SetAudioTrackVolume(id string, volume float64) {
	if volume < 0 {
		volume = 0
	}
	if volume > 100 {
		volume = 100
	}

	s.mu.Lock()
	out := append([]AudioTrack(nil), s.state.Audio...)
	found := false
	for i := range out {
		if out[i].ID == id {
			out[i].Volume = volume
			found = true
			break
		}
	}
	if found {
		s.state.Audio = out
	}
	s.mu.Unlock()

	if found {
		s.saveState("Set audio volume")
	}
}

// RemoveAudioTrack deletes an audio lane
func (s *Session) RemoveAudioTrack(id string) {
	s.mu.Lock()
	out := make([]AudioTrack, 0, len(s.state.Audio))
	removed := false
	for _, t := range s.state.Audio {
		if t.ID == id {
			removed = true
			continue
		}
		out = append(out, t)
	}
	if removed {
		s.state.Audio = out
	}
	s.mu.Unlock()

	if removed {
		s.saveState("Remove audio track")
	}
}

// SplitAt cuts the video-segment partition at the given time. The
// first split divides the trim range into two.
func (s *Session) SplitAt(at time.Duration) error {
	s.mu.Lock()
	out, err := segments.Split(s.state.Segments, s.state.Trim, at)
	if err == nil {
		s.state.Segments = out
	}
	s.mu.Unlock()

	if err != nil {
		return err
	}
	s.saveState("Split segment")
	return nil
}

// AddMarker drops an annotation at the given time
func (s *Session) AddMarker(at time.Duration, label, color string) Marker {
	m := NewMarker(at, label, color)

	s.mu.Lock()
	s.state.Markers = append(append([]Marker(nil), s.state.Markers...), m)
	s.mu.Unlock()

	s.saveState("Add marker")
	return m
}

// LoadState replaces the aggregate from a persisted project and resets
// history around it.
func (s *Session) LoadState(state State) {
	s.mu.Lock()
	s.state = state.Clone()
	restored := s.state.Layers
	s.mu.Unlock()

	for _, l := range restored {
		s.preloader.Preload(s.ctx, l)
	}
	s.history.Save(state.Clone(), "Load project")
	s.renderIfPaused()
}
