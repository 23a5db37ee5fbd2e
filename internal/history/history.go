// Package history implements a bounded, linear snapshot history with a
// single cursor. Saving truncates any redo entries past the cursor;
// the oldest entry is evicted once the depth limit is reached.
package history

import (
	"time"

	"github.com/rs/zerolog"
)

// DefaultDepth bounds retained snapshots when no limit is given
const DefaultDepth = 50

// Entry pairs a state snapshot with the action that produced it
type Entry[S any] struct {
	State S
	Label string
	At    time.Time
}

// Info describes the history for display
type Info struct {
	Current       int
	Total         int
	CanUndo       bool
	CanRedo       bool
	RecentActions []string
}

// Manager holds the snapshot sequence. Snapshots must be deep copies;
// the manager never mutates them.
type Manager[S any] struct {
	logger  zerolog.Logger
	entries []Entry[S]
	cursor  int
	max     int
}

// New creates a history manager retaining at most max snapshots
func New[S any](logger zerolog.Logger, max int) *Manager[S] {
	if max <= 0 {
		max = DefaultDepth
	}
	return &Manager[S]{
		logger: logger.With().Str("component", "history").Logger(),
		cursor: -1,
		max:    max,
	}
}

// Save records a post-mutation snapshot. Any redo entries past the
// cursor are discarded.
func (m *Manager[S]) Save(state S, label string) {
	m.entries = append(m.entries[:m.cursor+1], Entry[S]{
		State: state,
		Label: label,
		At:    time.Now(),
	})
	m.cursor++

	if len(m.entries) > m.max {
		m.entries = m.entries[1:]
		m.cursor--
	}

	m.logger.Debug().
		Str("action", label).
		Int("depth", len(m.entries)).
		Msg("state saved")
}

// Undo steps the cursor back and returns that snapshot. Returns false
// when there is nothing to undo.
func (m *Manager[S]) Undo() (S, bool) {
	if !m.CanUndo() {
		var zero S
		return zero, false
	}
	m.cursor--
	return m.entries[m.cursor].State, true
}

// Redo steps the cursor forward and returns that snapshot. Returns
// false when there is nothing to redo.
func (m *Manager[S]) Redo() (S, bool) {
	if !m.CanRedo() {
		var zero S
		return zero, false
	}
	m.cursor++
	return m.entries[m.cursor].State, true
}

// CanUndo reports whether an earlier snapshot exists
func (m *Manager[S]) CanUndo() bool {
	return m.cursor > 0
}

// CanRedo reports whether a later snapshot exists
func (m *Manager[S]) CanRedo() bool {
	return m.cursor < len(m.entries)-1
}

// Info returns display data: position, depth, and the most recent
// action labels (newest first, up to five).
func (m *Manager[S]) Info() Info {
	info := Info{
		Current: m.cursor + 1,
		Total:   len(m.entries),
		CanUndo: m.CanUndo(),
		CanRedo: m.CanRedo(),
	}

	for i := m.cursor; i >= 0 && len(info.RecentActions) < 5; i-- {
		info.RecentActions = append(info.RecentActions, m.entries[i].Label)
	}
	return info
}
