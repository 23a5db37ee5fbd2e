package timeline

import (
	"fmt"
	"time"
)

// TrimRange is the editable window of the source video.
// Invariant: 0 <= Start < End <= source duration.
type TrimRange struct {
	Start time.Duration `json:"start"`
	End   time.Duration `json:"end"`
}

// Length returns End - Start
func (r TrimRange) Length() time.Duration {
	return r.End - r.Start
}

// Contains reports whether t lies inside the range (inclusive)
func (r TrimRange) Contains(t time.Duration) bool {
	return t >= r.Start && t <= r.End
}

// Clamp limits t into the range
func (r TrimRange) Clamp(t time.Duration) time.Duration {
	if t < r.Start {
		return r.Start
	}
	if t > r.End {
		return r.End
	}
	return t
}

// Validate checks the range against a source duration
func (r TrimRange) Validate(duration time.Duration) error {
	if r.Start < 0 || r.End > duration || r.Start >= r.End {
		return fmt.Errorf("invalid trim range [%v, %v] for duration %v", r.Start, r.End, duration)
	}
	return nil
}
