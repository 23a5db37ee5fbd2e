// Package layers models the ordered collection of overlay layers and
// the operations the editor performs on it. Paint order is ascending
// ZIndex; operations that reorder renumber ZIndex contiguously.
package layers

import (
	"time"

	"github.com/google/uuid"
)

// Kind categorizes a layer
type Kind string

const (
	KindText    Kind = "text"
	KindImage   Kind = "image"
	KindVideo   Kind = "video"
	KindOverlay Kind = "overlay"
)

// Position is the layer anchor as percentages of the frame dimensions
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Layer is one overlay entity on the composite
type Layer struct {
	ID       string        `json:"id"`
	Kind     Kind          `json:"kind"`
	Name     string        `json:"name"`
	Visible  bool          `json:"visible"`
	Opacity  float64       `json:"opacity"` // 0..100
	ZIndex   int           `json:"z_index"`
	URL      string        `json:"url,omitempty"`
	Position Position      `json:"position"`
	Scale    float64       `json:"scale"`
	Rotation float64       `json:"rotation"` // degrees
	Start    time.Duration `json:"start"`
	Duration time.Duration `json:"duration"`
}

// New creates a layer with sensible defaults. ZIndex is assigned by Add.
func New(kind Kind, name, url string, start, duration time.Duration) Layer {
	return Layer{
		ID:       uuid.NewString(),
		Kind:     kind,
		Name:     name,
		Visible:  true,
		Opacity:  100,
		URL:      url,
		Position: Position{X: 50, Y: 50},
		Scale:    1,
		Start:    start,
		Duration: duration,
	}
}

// ActiveAt reports whether the layer's time window contains t.
// The window is half-open: [Start, Start+Duration).
func (l Layer) ActiveAt(t time.Duration) bool {
	return t >= l.Start && t < l.Start+l.Duration
}

// VisibleAt combines the visibility toggle with the time window
func (l Layer) VisibleAt(t time.Duration) bool {
	return l.Visible && l.ActiveAt(t)
}
