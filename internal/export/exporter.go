// Package export is the encode extension point: EditorState plus a
// source file in, encoded media out. The ffmpeg implementation covers
// trim, segment cuts, filters, and burned captions; anything richer
// plugs in behind the same interface.
package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/kikiluvv/clipforge/internal/editor"
	"github.com/kikiluvv/clipforge/internal/ffmpeg"
	"github.com/kikiluvv/clipforge/internal/subtitles"
	"github.com/kikiluvv/clipforge/pkg/util"
)

// Request describes one export
type Request struct {
	Input         string
	Output        string
	State         editor.State
	Subtitles     []subtitles.Segment
	BurnSubtitles bool
	Progress      ffmpeg.ProgressFunc
}

// Exporter produces a final encoded video from an editing session
type Exporter interface {
	Export(ctx context.Context, req Request) (string, error)
}

// FFmpegExporter encodes through the ffmpeg executor
type FFmpegExporter struct {
	logger  zerolog.Logger
	exec    *ffmpeg.Executor
	workDir string
	preset  string
	crf     int
}

// NewFFmpegExporter creates an exporter writing intermediates to workDir
func NewFFmpegExporter(logger zerolog.Logger, exec *ffmpeg.Executor, workDir, preset string, crf int) *FFmpegExporter {
	return &FFmpegExporter{
		logger:  logger.With().Str("component", "export").Logger(),
		exec:    exec,
		workDir: workDir,
		preset:  preset,
		crf:     crf,
	}
}

// Export renders the session to req.Output. When the state carries
// video segments they are cut and concatenated; otherwise the trim
// range is extracted directly.
func (e *FFmpegExporter) Export(ctx context.Context, req Request) (string, error) {
	if req.Input == "" || req.Output == "" {
		return "", fmt.Errorf("input and output paths are required")
	}
	if !util.FileExists(req.Input) {
		return "", fmt.Errorf("input file %s does not exist", req.Input)
	}
	if err := util.EnsureDir(e.workDir); err != nil {
		return "", fmt.Errorf("failed to prepare work dir: %w", err)
	}

	e.logger.Info().
		Str("input", req.Input).
		Str("output", req.Output).
		Int("segments", len(req.State.Segments)).
		Msg("starting export")

	filters := ffmpeg.FromSettings(req.State.Filters)

	cut := req.Output
	if req.BurnSubtitles && len(req.Subtitles) > 0 {
		cut = e.tempPath("cut", ".mp4")
		defer os.Remove(cut)
	}

	var err error
	if len(req.State.Segments) > 0 {
		err = e.exportSegments(ctx, req, filters, cut)
	} else {
		err = e.exec.ExtractClip(ctx, req.Input, ffmpeg.ClipOptions{
			Start:        req.State.Trim.Start,
			End:          req.State.Trim.End,
			Output:       cut,
			Filters:      filters,
			CRF:          e.crf,
			Preset:       e.preset,
			ProgressFunc: req.Progress,
		})
	}
	if err != nil {
		return "", fmt.Errorf("export failed: %w", err)
	}

	if req.BurnSubtitles && len(req.Subtitles) > 0 {
		srt := e.tempPath("captions", ".srt")
		defer os.Remove(srt)

		if err := writeSRTFile(srt, req.Subtitles, req.State.Trim.Start); err != nil {
			return "", err
		}
		if err := e.exec.BurnSubtitles(ctx, cut, srt, req.Output, req.Progress); err != nil {
			return "", fmt.Errorf("subtitle burn failed: %w", err)
		}
	}

	e.logger.Info().Str("output", req.Output).Msg("export complete")
	return req.Output, nil
}

// exportSegments cuts each video segment and concatenates the pieces
func (e *FFmpegExporter) exportSegments(ctx context.Context, req Request, filters []string, output string) error {
	parts := make([]string, 0, len(req.State.Segments))
	defer func() {
		util.CleanupFiles(parts...)
	}()

	for i, seg := range req.State.Segments {
		part := e.tempPath(fmt.Sprintf("part_%03d", i), ".mp4")
		err := e.exec.ExtractClip(ctx, req.Input, ffmpeg.ClipOptions{
			Start:        seg.Start,
			End:          seg.End(),
			Output:       part,
			Filters:      filters,
			CRF:          e.crf,
			Preset:       e.preset,
			ProgressFunc: req.Progress,
		})
		if err != nil {
			return fmt.Errorf("segment %d extraction failed: %w", i, err)
		}
		parts = append(parts, part)
	}

	return e.exec.Concat(ctx, ffmpeg.ConcatOptions{
		Inputs:       parts,
		Output:       output,
		ReEncode:     false,
		ProgressFunc: req.Progress,
	})
}

func (e *FFmpegExporter) tempPath(stem, ext string) string {
	return filepath.Join(e.workDir, fmt.Sprintf("%s_%d%s", stem, time.Now().UnixNano(), ext))
}

// writeSRTFile writes captions shifted so they line up with the cut
// output, which starts at the trim start.
func writeSRTFile(path string, segs []subtitles.Segment, trimStart time.Duration) error {
	shifted := subtitles.Shift(segs, -trimStart)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create subtitle file: %w", err)
	}
	defer f.Close()

	return subtitles.WriteSRT(f, shifted)
}
