// Package speed resolves which playback-rate multiplier applies at a
// given media time. Segments are kept in insertion order and are not
// merged; when segments overlap, the first match wins.
package speed

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// NormalRate is the default speed percentage outside all segments
const NormalRate = 100.0

// Segment is a time range with a playback-rate percentage (100 = normal)
type Segment struct {
	ID    string        `json:"id"`
	Start time.Duration `json:"start"`
	End   time.Duration `json:"end"`
	Speed float64       `json:"speed"`
}

var (
	ErrInvalidRange = errors.New("speed segment end must be after start")
	ErrInvalidSpeed = errors.New("speed must be greater than zero")
)

// New creates a validated segment with a fresh id
func New(start, end time.Duration, speed float64) (Segment, error) {
	s := Segment{ID: uuid.NewString(), Start: start, End: end, Speed: speed}
	if err := s.Validate(); err != nil {
		return Segment{}, err
	}
	return s, nil
}

// Validate checks segment bounds
func (s Segment) Validate() error {
	if s.End <= s.Start {
		return ErrInvalidRange
	}
	if s.Speed <= 0 {
		return ErrInvalidSpeed
	}
	return nil
}

// contains is inclusive on both ends, so a time sitting exactly on a
// shared boundary resolves to the earlier-inserted segment.
func (s Segment) contains(t time.Duration) bool {
	return t >= s.Start && t <= s.End
}

// Resolve returns the speed percentage in effect at t: the first
// segment in insertion order containing t, or NormalRate.
func Resolve(t time.Duration, segments []Segment) float64 {
	for _, s := range segments {
		if s.contains(t) {
			return s.Speed
		}
	}
	return NormalRate
}

// Rate returns the playback-rate multiplier at t (1.0 = normal)
func Rate(t time.Duration, segments []Segment) float64 {
	return Resolve(t, segments) / 100.0
}
