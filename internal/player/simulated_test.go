package player

import (
	"testing"
	"time"
)

// fakeClock advances only when told to
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) advance(d time.Duration) { c.now = c.now.Add(d) }
func (c *fakeClock) get() time.Time          { return c.now }

func newClockedSource(duration time.Duration) (*Simulated, *fakeClock) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	s := NewSimulated(duration)
	s.SetClock(clock.get)
	return s, clock
}

func TestSimulatedAdvancesWhilePlaying(t *testing.T) {
	s, clock := newClockedSource(time.Minute)

	s.Play()
	clock.advance(10 * time.Second)

	if got := s.CurrentTime(); got != 10*time.Second {
		t.Errorf("position = %v, want 10s", got)
	}
}

func TestSimulatedPausedHoldsPosition(t *testing.T) {
	s, clock := newClockedSource(time.Minute)

	s.Play()
	clock.advance(5 * time.Second)
	s.Pause()
	clock.advance(20 * time.Second)

	if got := s.CurrentTime(); got != 5*time.Second {
		t.Errorf("position = %v, want 5s after pause", got)
	}
}

func TestSimulatedRate(t *testing.T) {
	s, clock := newClockedSource(time.Minute)

	s.SetRate(2)
	s.Play()
	clock.advance(5 * time.Second)

	if got := s.CurrentTime(); got != 10*time.Second {
		t.Errorf("position = %v, want 10s at 2x", got)
	}

	// rate change mid-play re-anchors without jumping
	s.SetRate(0.5)
	clock.advance(4 * time.Second)
	if got := s.CurrentTime(); got != 12*time.Second {
		t.Errorf("position = %v, want 12s after slowing down", got)
	}
}

func TestSimulatedAutoPausesAtEnd(t *testing.T) {
	s, clock := newClockedSource(10 * time.Second)

	s.Play()
	clock.advance(30 * time.Second)

	if got := s.CurrentTime(); got != 10*time.Second {
		t.Errorf("position = %v, want clamped to duration", got)
	}
	if s.Playing() {
		t.Error("source should auto-pause at the end")
	}

	// play at the end is a no-op
	s.Play()
	if s.Playing() {
		t.Error("play at end should not restart")
	}
}

func TestSimulatedSeekClamps(t *testing.T) {
	s, _ := newClockedSource(10 * time.Second)

	s.Seek(-5 * time.Second)
	if got := s.CurrentTime(); got != 0 {
		t.Errorf("seek below zero: %v", got)
	}
	s.Seek(time.Hour)
	if got := s.CurrentTime(); got != 10*time.Second {
		t.Errorf("seek past end: %v", got)
	}
}

func TestSimulatedVolumeClamps(t *testing.T) {
	s, _ := newClockedSource(10 * time.Second)

	s.SetVolume(2)
	if got := s.Volume(); got != 1 {
		t.Errorf("volume = %v, want 1", got)
	}
	s.SetVolume(-1)
	if got := s.Volume(); got != 0 {
		t.Errorf("volume = %v, want 0", got)
	}
}
