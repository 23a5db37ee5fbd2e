package timeline

import (
	"time"

	"github.com/rs/zerolog"
)

// DragMode identifies the active drag gesture. Modes are mutually
// exclusive: a new pointer-down while a drag is active is ignored.
type DragMode int

const (
	ModeIdle DragMode = iota
	ModeTrimStart
	ModeTrimEnd
	ModePlayhead
	ModeTrack
)

func (m DragMode) String() string {
	switch m {
	case ModeTrimStart:
		return "trim-start"
	case ModeTrimEnd:
		return "trim-end"
	case ModePlayhead:
		return "playhead"
	case ModeTrack:
		return "track"
	default:
		return "idle"
	}
}

// TrackKind identifies a lane on the unified timeline
type TrackKind int

const (
	TrackAudio TrackKind = iota
	TrackLayer
	TrackSegment
)

func (k TrackKind) String() string {
	switch k {
	case TrackAudio:
		return "audio"
	case TrackLayer:
		return "layer"
	default:
		return "segment"
	}
}

// TargetKind identifies what the pointer went down on
type TargetKind int

const (
	TargetScrub TargetKind = iota
	TargetTrimStart
	TargetTrimEnd
	TargetPlayhead
	TargetTrackClip
)

// Target describes the element under the pointer at pointer-down
type Target struct {
	Kind    TargetKind
	Track   TrackKind // only for TargetTrackClip
	TrackID string    // only for TargetTrackClip
}

// Surface is the editable state the controller drags against. The
// editor session implements it; the controller never owns timing state
// beyond the gesture itself.
type Surface interface {
	Duration() time.Duration
	Trim() TrimRange
	SetTrim(TrimRange)
	Seek(time.Duration)
	TrackWindow(kind TrackKind, id string) (start, length time.Duration, ok bool)
	SetTrackStart(kind TrackKind, id string, start time.Duration)
}

// Gesture reports a completed drag so the caller can record history
type Gesture struct {
	Mode    DragMode
	Label   string
	Changed bool
}

// Controller maps pointer gestures on a linear time axis onto trim,
// playhead, and per-track window edits.
type Controller struct {
	logger  zerolog.Logger
	surface Surface
	minGap  time.Duration

	mode       DragMode
	track      TrackKind
	trackID    string
	grabOffset time.Duration
	changed    bool
}

// NewController creates a drag controller. minGap is the smallest
// distance the two trim handles may approach each other.
func NewController(logger zerolog.Logger, surface Surface, minGap time.Duration) *Controller {
	if minGap <= 0 {
		minGap = 500 * time.Millisecond
	}
	return &Controller{
		logger:  logger.With().Str("component", "timeline").Logger(),
		surface: surface,
		minGap:  minGap,
	}
}

// Mode returns the active drag mode
func (c *Controller) Mode() DragMode {
	return c.mode
}

// timeAt maps a horizontal fraction of the track (0..1) to media time
func (c *Controller) timeAt(frac float64) time.Duration {
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	return time.Duration(frac * float64(c.surface.Duration()))
}

// PointerDown begins a gesture. A pointer-down on the bare scrub area
// seeks immediately without entering a drag mode.
func (c *Controller) PointerDown(target Target, frac float64) {
	if c.mode != ModeIdle {
		return
	}

	switch target.Kind {
	case TargetScrub:
		c.surface.Seek(c.timeAt(frac))

	case TargetTrimStart:
		c.mode = ModeTrimStart
		c.changed = false

	case TargetTrimEnd:
		c.mode = ModeTrimEnd
		c.changed = false

	case TargetPlayhead:
		c.mode = ModePlayhead
		c.changed = false

	case TargetTrackClip:
		start, _, ok := c.surface.TrackWindow(target.Track, target.TrackID)
		if !ok {
			return
		}
		c.mode = ModeTrack
		c.track = target.Track
		c.trackID = target.TrackID
		c.grabOffset = c.timeAt(frac) - start
		c.changed = false
	}
}

// PointerMove recomputes the dragged boundary from the cursor position
func (c *Controller) PointerMove(frac float64) {
	t := c.timeAt(frac)

	switch c.mode {
	case ModeTrimStart:
		trim := c.surface.Trim()
		limit := trim.End - c.minGap
		if t > limit {
			t = limit
		}
		if t < 0 {
			t = 0
		}
		if t != trim.Start {
			c.surface.SetTrim(TrimRange{Start: t, End: trim.End})
			c.changed = true
		}

	case ModeTrimEnd:
		trim := c.surface.Trim()
		limit := trim.Start + c.minGap
		if t < limit {
			t = limit
		}
		if max := c.surface.Duration(); t > max {
			t = max
		}
		if t != trim.End {
			c.surface.SetTrim(TrimRange{Start: trim.Start, End: t})
			c.changed = true
		}

	case ModePlayhead:
		c.surface.Seek(t)
		c.changed = true

	case ModeTrack:
		start, length, ok := c.surface.TrackWindow(c.track, c.trackID)
		if !ok {
			return
		}
		newStart := t - c.grabOffset
		if newStart < 0 {
			newStart = 0
		}
		if max := c.surface.Duration() - length; newStart > max {
			newStart = max
		}
		if newStart != start {
			c.surface.SetTrackStart(c.track, c.trackID, newStart)
			c.changed = true
		}
	}
}

// PointerUp ends the gesture and reports what happened
func (c *Controller) PointerUp() Gesture {
	g := Gesture{Mode: c.mode, Changed: c.changed}

	switch c.mode {
	case ModeTrimStart:
		g.Label = "Adjust trim start"
	case ModeTrimEnd:
		g.Label = "Adjust trim end"
	case ModeTrack:
		g.Label = "Move " + c.track.String() + " clip"
	}

	if c.mode != ModeIdle {
		c.logger.Debug().
			Str("mode", c.mode.String()).
			Bool("changed", c.changed).
			Msg("drag finished")
	}

	c.mode = ModeIdle
	c.trackID = ""
	c.changed = false
	return g
}
