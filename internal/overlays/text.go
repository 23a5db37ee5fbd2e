// Package overlays models animated text overlays. Animation output is
// a pure function of normalized progress so rendering stays
// deterministic frame to frame.
package overlays

import (
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Animation names a text entrance effect
type Animation string

const (
	AnimationNone    Animation = "none"
	AnimationFadeIn  Animation = "fadeIn"
	AnimationSlideUp Animation = "slideUp"
	AnimationBounce  Animation = "bounce"
)

// Text is an animated text overlay placed on the composite frame.
// X and Y are percentages of the frame dimensions.
type Text struct {
	ID        string        `json:"id"`
	Text      string        `json:"text"`
	X         float64       `json:"x"`
	Y         float64       `json:"y"`
	FontSize  float64       `json:"font_size"`
	Color     string        `json:"color"`
	Animation Animation     `json:"animation"`
	Start     time.Duration `json:"start"`
	End       time.Duration `json:"end"`
}

var (
	ErrEmptyText    = errors.New("overlay text cannot be empty")
	ErrInvalidRange = errors.New("overlay end must be after start")
)

// New creates a validated overlay with a fresh id
func New(text string, start, end time.Duration) (Text, error) {
	t := Text{
		ID:        uuid.NewString(),
		Text:      text,
		X:         50,
		Y:         50,
		FontSize:  32,
		Color:     "#FFFFFF",
		Animation: AnimationNone,
		Start:     start,
		End:       end,
	}
	if err := t.Validate(); err != nil {
		return Text{}, err
	}
	return t, nil
}

// Validate checks user input before the overlay enters the state
func (t Text) Validate() error {
	if strings.TrimSpace(t.Text) == "" {
		return ErrEmptyText
	}
	if t.End <= t.Start {
		return ErrInvalidRange
	}
	return nil
}

// ActiveAt reports whether the overlay is visible at media time at.
// Both boundaries are inclusive.
func (t Text) ActiveAt(at time.Duration) bool {
	return at >= t.Start && at <= t.End
}

// Progress returns the normalized animation progress at media time at,
// clamped to [0, 1].
func (t Text) Progress(at time.Duration) float64 {
	span := t.End - t.Start
	if span <= 0 {
		return 1
	}
	p := float64(at-t.Start) / float64(span)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// Effect is the transform an animation applies at a given progress
type Effect struct {
	Alpha   float64 // 0..1
	OffsetY float64 // pixels added below the target position
}

// Evaluate computes the animation effect at progress p. Pure: the same
// p always yields the same effect.
func (a Animation) Evaluate(p float64) Effect {
	switch a {
	case AnimationFadeIn:
		return Effect{Alpha: math.Min(3*p, 1)}
	case AnimationSlideUp:
		return Effect{Alpha: 1, OffsetY: (1 - math.Min(2*p, 1)) * 100}
	case AnimationBounce:
		return Effect{Alpha: 1, OffsetY: math.Sin(p*2*math.Pi) * 20}
	default:
		return Effect{Alpha: 1}
	}
}
