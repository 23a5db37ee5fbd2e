package ffmpeg

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kikiluvv/clipforge/pkg/util"
)

// ClipOptions defines clip extraction parameters
type ClipOptions struct {
	Start        time.Duration
	End          time.Duration
	Output       string
	Filters      []string // -vf chain applied during extraction
	VideoCodec   string
	AudioCodec   string
	CRF          int
	Preset       string
	CopyCodec    bool // fast extraction, incompatible with Filters
	ProgressFunc ProgressFunc
}

// ExtractClip cuts a segment from a video, optionally applying a
// video filter chain.
func (e *Executor) ExtractClip(ctx context.Context, input string, opts ClipOptions) error {
	duration := opts.End - opts.Start
	if duration <= 0 {
		return fmt.Errorf("invalid clip duration: end must be after start")
	}
	if opts.CopyCodec && len(opts.Filters) > 0 {
		return fmt.Errorf("cannot copy codec while applying filters")
	}

	e.logger.Info().
		Str("input", input).
		Str("output", opts.Output).
		Dur("start", opts.Start).
		Dur("duration", duration).
		Msg("extracting clip")

	args := []string{
		"-i", input,
		"-ss", util.FormatDuration(opts.Start),
		"-t", util.FormatDuration(duration),
	}

	if opts.CopyCodec {
		args = append(args, "-c", "copy")
	} else {
		if len(opts.Filters) > 0 {
			args = append(args, "-vf", joinFilters(opts.Filters))
		}
		args = append(args, encodingArgs(opts.VideoCodec, opts.AudioCodec, opts.CRF, opts.Preset)...)
	}

	args = append(args, opts.Output)

	err := e.Run(ctx, RunOptions{
		Args:            args,
		ProgressHandler: opts.ProgressFunc,
		LogHandler: func(line string) {
			e.logger.Debug().Str("ffmpeg", line).Msg("clip extraction")
		},
	})
	if err != nil {
		return fmt.Errorf("clip extraction failed: %w", err)
	}
	return nil
}

// ConcatOptions defines concatenation parameters
type ConcatOptions struct {
	Inputs       []string
	Output       string
	ReEncode     bool
	VideoCodec   string
	AudioCodec   string
	CRF          int
	Preset       string
	ProgressFunc ProgressFunc
}

// Concat merges multiple video files into one using the concat demuxer
func (e *Executor) Concat(ctx context.Context, opts ConcatOptions) error {
	if len(opts.Inputs) == 0 {
		return fmt.Errorf("no input files provided")
	}
	if opts.Output == "" {
		return fmt.Errorf("output path is required")
	}

	e.logger.Info().
		Int("inputs", len(opts.Inputs)).
		Str("output", opts.Output).
		Msg("concatenating videos")

	listFile, err := e.writeConcatList(opts.Inputs)
	if err != nil {
		return fmt.Errorf("failed to create concat list: %w", err)
	}
	defer os.Remove(listFile)

	args := []string{
		"-f", "concat",
		"-safe", "0",
		"-i", listFile,
	}
	if opts.ReEncode {
		args = append(args, encodingArgs(opts.VideoCodec, opts.AudioCodec, opts.CRF, opts.Preset)...)
	} else {
		args = append(args, "-c", "copy")
	}
	args = append(args, opts.Output)

	return e.Run(ctx, RunOptions{
		Args:            args,
		ProgressHandler: opts.ProgressFunc,
		LogHandler: func(line string) {
			e.logger.Debug().Str("ffmpeg", line).Msg("concatenating")
		},
	})
}

// BurnSubtitles re-encodes the video with captions rendered in
func (e *Executor) BurnSubtitles(ctx context.Context, input, subtitleFile, output string, progressFunc ProgressFunc) error {
	if input == "" || subtitleFile == "" || output == "" {
		return fmt.Errorf("input, subtitle file, and output are required")
	}

	e.logger.Info().
		Str("input", input).
		Str("subtitles", subtitleFile).
		Msg("burning subtitles")

	args := []string{
		"-i", input,
		"-vf", fmt.Sprintf("subtitles=%s", escapeFilterPath(subtitleFile)),
	}
	args = append(args, encodingArgs("", "", 0, "")...)
	args = append(args, output)

	return e.Run(ctx, RunOptions{
		Args:            args,
		ProgressHandler: progressFunc,
		LogHandler: func(line string) {
			e.logger.Debug().Str("ffmpeg", line).Msg("subtitle burn")
		},
	})
}

func (e *Executor) writeConcatList(inputs []string) (string, error) {
	f, err := os.CreateTemp("", "clipforge-concat-*.txt")
	if err != nil {
		return "", err
	}
	defer f.Close()

	for _, input := range inputs {
		abs, err := filepath.Abs(input)
		if err != nil {
			os.Remove(f.Name())
			return "", err
		}
		if _, err := fmt.Fprintf(f, "file '%s'\n", abs); err != nil {
			os.Remove(f.Name())
			return "", err
		}
	}
	return f.Name(), nil
}

func encodingArgs(videoCodec, audioCodec string, crf int, preset string) []string {
	if videoCodec == "" {
		videoCodec = DefaultVideoCodec
	}
	if audioCodec == "" {
		audioCodec = DefaultAudioCodec
	}
	if crf == 0 {
		crf = DefaultCRF
	}
	if preset == "" {
		preset = DefaultPreset
	}
	return []string{
		"-c:v", videoCodec,
		"-crf", fmt.Sprintf("%d", crf),
		"-preset", preset,
		"-c:a", audioCodec,
	}
}

var filterPathReplacer = strings.NewReplacer(`\`, `\\`, `:`, `\:`, `'`, `\'`)

// escapeFilterPath escapes a path for use inside a filter argument
func escapeFilterPath(path string) string {
	return filterPathReplacer.Replace(filepath.ToSlash(path))
}
