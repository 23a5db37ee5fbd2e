// Package ai talks to the hosted inference gateway and models each
// analysis result as its own typed value. A nil pointer in Analyses
// means "not yet computed", which is distinct from an empty result.
package ai

import (
	"time"

	"github.com/kikiluvv/clipforge/internal/subtitles"
)

// Task names an inference task the gateway performs
type Task string

const (
	TaskTranscribe Task = "transcribe"
	TaskTranslate  Task = "translate"
	TaskModerate   Task = "moderate"
	TaskMoments    Task = "moments"
	TaskVirality   Task = "virality"
	TaskProducts   Task = "products"
	TaskSuggest    Task = "suggest"
)

// Line is one timed piece of text
type Line struct {
	Start time.Duration `json:"start"`
	End   time.Duration `json:"end"`
	Text  string        `json:"text"`
}

// Transcript is the result of speech-to-text
type Transcript struct {
	Language string `json:"language"`
	Lines    []Line `json:"lines"`
}

// Subtitles converts transcript lines into caption segments
func (t *Transcript) Subtitles() []subtitles.Segment {
	segs := make([]subtitles.Segment, 0, len(t.Lines))
	for _, l := range t.Lines {
		segs = append(segs, subtitles.Segment{Start: l.Start, End: l.End, Text: l.Text})
	}
	return segs
}

// Translation is a transcript rendered into a target language
type Translation struct {
	Language string `json:"language"`
	Lines    []Line `json:"lines"`
}

// ModerationReport flags content policy issues
type ModerationReport struct {
	Flagged    bool     `json:"flagged"`
	Categories []string `json:"categories"`
	Reason     string   `json:"reason"`
}

// Moment is a detected highlight window
type Moment struct {
	Start      time.Duration `json:"start"`
	End        time.Duration `json:"end"`
	Label      string        `json:"label"`
	Confidence float64       `json:"confidence"`
}

// MomentList holds detected highlight windows
type MomentList struct {
	Moments []Moment `json:"moments"`
}

// ViralityScore estimates short-form performance
type ViralityScore struct {
	Score   float64  `json:"score"`
	Reasons []string `json:"reasons"`
}

// ProductMatch is a recognized product appearance
type ProductMatch struct {
	Name       string        `json:"name"`
	Time       time.Duration `json:"time"`
	Confidence float64       `json:"confidence"`
}

// ProductReport holds recognized products
type ProductReport struct {
	Products []ProductMatch `json:"products"`
}

// CopySuggestions are publishing copy and thumbnail hints
type CopySuggestions struct {
	Titles        []string `json:"titles"`
	Description   string   `json:"description"`
	Hashtags      []string `json:"hashtags"`
	ThumbnailHint string   `json:"thumbnail_hint"`
}

// Analyses aggregates every result obtained so far for a project.
// Fields stay nil until their task has completed successfully; a
// failed call leaves the prior value untouched.
type Analyses struct {
	Transcript  *Transcript       `json:"transcript,omitempty"`
	Translation *Translation      `json:"translation,omitempty"`
	Moderation  *ModerationReport `json:"moderation,omitempty"`
	Moments     *MomentList       `json:"moments,omitempty"`
	Virality    *ViralityScore    `json:"virality,omitempty"`
	Products    *ProductReport    `json:"products,omitempty"`
	Copy        *CopySuggestions  `json:"copy,omitempty"`
}
