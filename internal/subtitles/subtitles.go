// Package subtitles holds caption segments and their active-caption
// lookup, plus SubRip import/export.
package subtitles

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/kikiluvv/clipforge/pkg/util"
)

// Segment is one caption. Segments are non-overlapping by
// construction: one active caption per instant.
type Segment struct {
	Start time.Duration `json:"start"`
	End   time.Duration `json:"end"`
	Text  string        `json:"text"`
}

// ActiveAt returns the first segment whose [Start, End] contains t
func ActiveAt(segs []Segment, t time.Duration) (Segment, bool) {
	for _, s := range segs {
		if t >= s.Start && t <= s.End {
			return s, true
		}
	}
	return Segment{}, false
}

// ParseSRT reads SubRip captions. Malformed blocks are skipped rather
// than failing the whole file.
func ParseSRT(r io.Reader) ([]Segment, error) {
	scanner := bufio.NewScanner(r)
	var segs []Segment

	var cur *Segment
	var text []string

	flush := func() {
		if cur != nil && len(text) > 0 {
			cur.Text = strings.Join(text, "\n")
			segs = append(segs, *cur)
		}
		cur = nil
		text = nil
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "":
			flush()

		case strings.Contains(line, "-->"):
			parts := strings.SplitN(line, "-->", 2)
			start, err1 := util.ParseTimestamp(strings.TrimSpace(parts[0]))
			end, err2 := util.ParseTimestamp(strings.TrimSpace(parts[1]))
			if err1 != nil || err2 != nil || end <= start {
				cur = nil
				continue
			}
			cur = &Segment{Start: start, End: end}

		default:
			if cur == nil {
				// sequence counter line
				if _, err := strconv.Atoi(line); err == nil {
					continue
				}
				continue
			}
			text = append(text, line)
		}
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read subtitles: %w", err)
	}
	return segs, nil
}

// WriteSRT writes captions in SubRip format
func WriteSRT(w io.Writer, segs []Segment) error {
	for i, s := range segs {
		_, err := fmt.Fprintf(w, "%d\n%s --> %s\n%s\n\n",
			i+1, util.FormatSRT(s.Start), util.FormatSRT(s.End), s.Text)
		if err != nil {
			return fmt.Errorf("failed to write subtitles: %w", err)
		}
	}
	return nil
}

// Shift offsets every segment by delta, dropping segments pushed
// before zero.
func Shift(segs []Segment, delta time.Duration) []Segment {
	out := make([]Segment, 0, len(segs))
	for _, s := range segs {
		s.Start += delta
		s.End += delta
		if s.End <= 0 {
			continue
		}
		if s.Start < 0 {
			s.Start = 0
		}
		out = append(out, s)
	}
	return out
}
