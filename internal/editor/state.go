// Package editor owns the editable state aggregate and the session
// that orchestrates playback, editing operations, history, and
// per-frame compositing.
package editor

import (
	"time"

	"github.com/google/uuid"

	"github.com/kikiluvv/clipforge/internal/layers"
	"github.com/kikiluvv/clipforge/internal/overlays"
	"github.com/kikiluvv/clipforge/internal/render"
	"github.com/kikiluvv/clipforge/internal/segments"
	"github.com/kikiluvv/clipforge/internal/speed"
	"github.com/kikiluvv/clipforge/internal/timeline"
)

// AudioTrack is an audio lane placed independently of the video trim
type AudioTrack struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	URL      string        `json:"url"`
	Volume   float64       `json:"volume"` // 0..100
	Start    time.Duration `json:"start"`
	Duration time.Duration `json:"duration"`
}

// Marker is a pure timeline annotation with no playback effect
type Marker struct {
	ID    string        `json:"id"`
	Time  time.Duration `json:"time"`
	Label string        `json:"label"`
	Color string        `json:"color"`
}

// NewAudioTrack creates a track with a fresh id and full volume
func NewAudioTrack(name, url string, start, duration time.Duration) AudioTrack {
	return AudioTrack{
		ID:       uuid.NewString(),
		Name:     name,
		URL:      url,
		Volume:   100,
		Start:    start,
		Duration: duration,
	}
}

// NewMarker creates a marker with a fresh id
func NewMarker(at time.Duration, label, color string) Marker {
	return Marker{ID: uuid.NewString(), Time: at, Label: label, Color: color}
}

// State is the undoable aggregate. Playback position and play/pause
// are deliberately not part of it. Mutations replace slices rather
// than editing them in place, so a snapshot handed to the compositor
// or the history manager stays consistent.
type State struct {
	Filters  render.Settings    `json:"filters"`
	Trim     timeline.TrimRange `json:"trim"`
	Overlays []overlays.Text    `json:"overlays"`
	Layers   []layers.Layer     `json:"layers"`
	Speed    []speed.Segment    `json:"speed"`
	Audio    []AudioTrack       `json:"audio"`
	Segments []segments.Segment `json:"segments"`
	Markers  []Marker           `json:"markers"`
}

// NewState returns the mount defaults: full-duration trim, neutral
// filters, nothing else.
func NewState(duration time.Duration) State {
	return State{
		Filters: render.NeutralSettings(),
		Trim:    timeline.TrimRange{Start: 0, End: duration},
	}
}

// Clone deep-copies the aggregate for history snapshots
func (s State) Clone() State {
	out := s
	out.Overlays = append([]overlays.Text(nil), s.Overlays...)
	out.Layers = append([]layers.Layer(nil), s.Layers...)
	out.Speed = append([]speed.Segment(nil), s.Speed...)
	out.Audio = append([]AudioTrack(nil), s.Audio...)
	out.Segments = append([]segments.Segment(nil), s.Segments...)
	out.Markers = append([]Marker(nil), s.Markers...)
	return out
}
