package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
)

// SilencePeriod is a detected quiet stretch of audio
type SilencePeriod struct {
	Start time.Duration
	End   time.Duration
}

// DetectScenes finds scene-change timestamps using ffmpeg's scene
// score filter. Used for local moment detection when no inference
// gateway is configured.
func (e *Executor) DetectScenes(ctx context.Context, input string, threshold float64) ([]time.Duration, error) {
	e.logger.Info().
		Str("input", input).
		Float64("threshold", threshold).
		Msg("detecting scene changes")

	output, err := e.collectStderr(ctx, []string{
		"-i", input,
		"-vf", fmt.Sprintf("select='gt(scene,%f)',showinfo", threshold),
		"-f", "null",
		"-",
	})
	if err != nil {
		return nil, fmt.Errorf("scene detection failed: %w", err)
	}

	var scenes []time.Duration
	for _, line := range strings.Split(output, "\n") {
		idx := strings.Index(line, "pts_time:")
		if idx < 0 {
			continue
		}
		fields := strings.Fields(line[idx+len("pts_time:"):])
		if len(fields) == 0 {
			continue
		}
		if seconds, err := strconv.ParseFloat(fields[0], 64); err == nil {
			scenes = append(scenes, time.Duration(seconds*float64(time.Second)))
		}
	}

	e.logger.Info().Int("scenes", len(scenes)).Msg("scene detection complete")
	return scenes, nil
}

// DetectSilence finds quiet audio stretches via the silencedetect
// filter. noiseDB is the threshold in dBFS, minDuration in seconds.
func (e *Executor) DetectSilence(ctx context.Context, input string, noiseDB, minDuration float64) ([]SilencePeriod, error) {
	e.logger.Info().
		Str("input", input).
		Float64("noise_db", noiseDB).
		Msg("detecting silence")

	output, err := e.collectStderr(ctx, []string{
		"-i", input,
		"-af", fmt.Sprintf("silencedetect=noise=%fdB:d=%f", noiseDB, minDuration),
		"-f", "null",
		"-",
	})
	if err != nil {
		return nil, fmt.Errorf("silence detection failed: %w", err)
	}

	var periods []SilencePeriod
	var current *SilencePeriod
	for _, line := range strings.Split(output, "\n") {
		if v, ok := floatAfter(line, "silence_start:"); ok {
			current = &SilencePeriod{Start: time.Duration(v * float64(time.Second))}
			continue
		}
		if v, ok := floatAfter(line, "silence_end:"); ok && current != nil {
			current.End = time.Duration(v * float64(time.Second))
			periods = append(periods, *current)
			current = nil
		}
	}

	e.logger.Info().Int("periods", len(periods)).Msg("silence detection complete")
	return periods, nil
}

func floatAfter(line, marker string) (float64, bool) {
	idx := strings.Index(line, marker)
	if idx < 0 {
		return 0, false
	}
	fields := strings.Fields(line[idx+len(marker):])
	if len(fields) == 0 {
		return 0, false
	}
	v, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// collectStderr runs ffmpeg and returns everything it wrote to stderr.
// Analysis filters report through stderr, so a nonzero exit with
// usable output is not treated as fatal.
func (e *Executor) collectStderr(ctx context.Context, args []string) (string, error) {
	var buf bytes.Buffer
	var mu sync.Mutex

	err := e.Run(ctx, RunOptions{
		Args: args,
		LogHandler: func(line string) {
			mu.Lock()
			buf.WriteString(line)
			buf.WriteByte('\n')
			mu.Unlock()
		},
	})

	mu.Lock()
	output := buf.String()
	mu.Unlock()

	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if output == "" {
			return "", err
		}
	}
	return output, nil
}
