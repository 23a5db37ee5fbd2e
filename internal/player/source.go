// Package player owns playback timing: the media source abstraction,
// a clock-driven reference implementation, and the render-loop driver.
package player

import "time"

// Source is the media playback element the editor drives. It is the
// single source of truth for "now"; the editor only reads and steers
// it, never the underlying media.
type Source interface {
	CurrentTime() time.Duration
	Duration() time.Duration
	Playing() bool
	Play()
	Pause()
	Seek(t time.Duration)
	SetRate(rate float64)
	SetVolume(volume float64)
}
