package player

import (
	"sync"
	"time"
)

// Simulated is a wall-clock-driven Source for environments without a
// real decoder: media time advances at the configured rate while
// playing and pauses automatically at the end of the media.
type Simulated struct {
	mu        sync.Mutex
	duration  time.Duration
	mediaTime time.Duration
	rate      float64
	volume    float64
	playing   bool
	anchor    time.Time
	now       func() time.Time
}

// NewSimulated creates a paused source for media of the given duration
func NewSimulated(duration time.Duration) *Simulated {
	return &Simulated{
		duration: duration,
		rate:     1,
		volume:   1,
		now:      time.Now,
	}
}

// SetClock replaces the wall clock, used by tests
func (s *Simulated) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// position computes current media time; caller holds the lock
func (s *Simulated) position() time.Duration {
	if !s.playing {
		return s.mediaTime
	}
	elapsed := s.now().Sub(s.anchor)
	t := s.mediaTime + time.Duration(float64(elapsed)*s.rate)
	if t >= s.duration {
		t = s.duration
		s.mediaTime = t
		s.playing = false
	}
	return t
}

// CurrentTime returns the media position
func (s *Simulated) CurrentTime() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.position()
}

// Duration returns the media length
func (s *Simulated) Duration() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.duration
}

// Playing reports whether media time is advancing
func (s *Simulated) Playing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.position()
	return s.playing
}

// Play starts advancing media time
func (s *Simulated) Play() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.playing || s.mediaTime >= s.duration {
		return
	}
	s.playing = true
	s.anchor = s.now()
}

// Pause freezes media time
func (s *Simulated) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mediaTime = s.position()
	s.playing = false
}

// Seek jumps to t, clamped into [0, duration]
func (s *Simulated) Seek(t time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t < 0 {
		t = 0
	}
	if t > s.duration {
		t = s.duration
	}
	s.mediaTime = t
	s.anchor = s.now()
}

// SetRate changes the playback-rate multiplier without disturbing the
// current position.
func (s *Simulated) SetRate(rate float64) {
	if rate <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mediaTime = s.position()
	s.anchor = s.now()
	s.rate = rate
}

// SetVolume stores the output volume (0..1)
func (s *Simulated) SetVolume(volume float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if volume < 0 {
		volume = 0
	}
	if volume > 1 {
		volume = 1
	}
	s.volume = volume
}

// Volume returns the output volume
func (s *Simulated) Volume() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.volume
}
