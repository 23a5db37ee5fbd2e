// Package segments maintains the partition of the trimmed range into
// contiguous video segments produced by split operations.
package segments

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/kikiluvv/clipforge/internal/timeline"
)

// Segment is one contiguous piece of the trimmed range
type Segment struct {
	ID       string        `json:"id"`
	Start    time.Duration `json:"start"`
	Duration time.Duration `json:"duration"`
}

// ErrInvalidSplitPosition is returned when the cut point falls outside
// every segment. Surfaced to the user; never fatal.
var ErrInvalidSplitPosition = errors.New("invalid split position")

// End returns Start + Duration
func (s Segment) End() time.Duration {
	return s.Start + s.Duration
}

// Contains reports whether t falls inside [Start, Start+Duration)
func (s Segment) Contains(t time.Duration) bool {
	return t >= s.Start && t < s.End()
}

// Split cuts the partition at the given time and returns the new
// segment list. When no segments exist yet the trim range itself is
// divided into exactly two. Ids are freshly generated on every split.
func Split(existing []Segment, trim timeline.TrimRange, at time.Duration) ([]Segment, error) {
	if len(existing) == 0 {
		if at <= trim.Start || at >= trim.End {
			return nil, ErrInvalidSplitPosition
		}
		return []Segment{
			{ID: uuid.NewString(), Start: trim.Start, Duration: at - trim.Start},
			{ID: uuid.NewString(), Start: at, Duration: trim.End - at},
		}, nil
	}

	for i, seg := range existing {
		if !seg.Contains(at) || at == seg.Start {
			continue
		}

		out := make([]Segment, 0, len(existing)+1)
		out = append(out, existing[:i]...)
		out = append(out,
			Segment{ID: uuid.NewString(), Start: seg.Start, Duration: at - seg.Start},
			Segment{ID: uuid.NewString(), Start: at, Duration: seg.End() - at},
		)
		out = append(out, existing[i+1:]...)
		return out, nil
	}

	return nil, ErrInvalidSplitPosition
}

// TotalDuration sums all segment durations
func TotalDuration(segs []Segment) time.Duration {
	var total time.Duration
	for _, s := range segs {
		total += s.Duration
	}
	return total
}

// Find returns the segment containing t
func Find(segs []Segment, t time.Duration) (Segment, bool) {
	for _, s := range segs {
		if s.Contains(t) {
			return s, true
		}
	}
	return Segment{}, false
}
