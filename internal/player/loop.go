package player

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// TickFunc runs one render tick. It reads whatever state it needs at
// call time; the loop never captures state on its behalf.
type TickFunc func()

// Loop drives the tick function at a fixed frame rate while started.
// Stopping is an explicit handle, not implicit cleanup: the session
// stops the loop on pause and on shutdown so no redraw goroutine is
// leaked.
type Loop struct {
	logger   zerolog.Logger
	interval time.Duration
	tick     TickFunc

	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}
}

// NewLoop creates a driver ticking at the given frame rate
func NewLoop(logger zerolog.Logger, fps float64, tick TickFunc) *Loop {
	if fps <= 0 {
		fps = 30
	}
	return &Loop{
		logger:   logger.With().Str("component", "render-loop").Logger(),
		interval: time.Duration(float64(time.Second) / fps),
		tick:     tick,
	}
}

// Start begins ticking. Calling Start on a running loop is a no-op.
func (l *Loop) Start() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.stop != nil {
		return
	}
	l.stop = make(chan struct{})
	l.done = make(chan struct{})

	go l.run(l.stop, l.done)
	l.logger.Debug().Dur("interval", l.interval).Msg("render loop started")
}

// Stop cancels ticking and waits for the in-flight tick to finish.
// Calling Stop on a stopped loop is a no-op.
func (l *Loop) Stop() {
	l.mu.Lock()
	if l.stop == nil {
		l.mu.Unlock()
		return
	}
	stop, done := l.stop, l.done
	l.stop = nil
	l.done = nil
	l.mu.Unlock()

	close(stop)
	<-done
	l.logger.Debug().Msg("render loop stopped")
}

// Running reports whether the loop is ticking
func (l *Loop) Running() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stop != nil
}

func (l *Loop) run(stop, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			l.safeTick()
		}
	}
}

// safeTick confines a bad frame to its own tick
func (l *Loop) safeTick() {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error().Interface("panic", r).Msg("render tick failed, frame skipped")
		}
	}()
	l.tick()
}
