// Package gui is the desktop control surface for an editing session.
// It owns no editing state; every control calls into editor.Session and
// redraws from what the session reports back.
package gui

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"

	"github.com/kikiluvv/clipforge/internal/assets"
	"github.com/kikiluvv/clipforge/internal/config"
	"github.com/kikiluvv/clipforge/internal/editor"
	"github.com/kikiluvv/clipforge/internal/export"
	"github.com/kikiluvv/clipforge/internal/ffmpeg"
	"github.com/kikiluvv/clipforge/internal/player"
	"github.com/kikiluvv/clipforge/internal/render"
	"github.com/kikiluvv/clipforge/pkg/util"
)

const previewW, previewH = 640, 360

// Editor drives the main window
type Editor struct {
	logger  zerolog.Logger
	ctx     context.Context
	cfg     *config.Config
	exec    *ffmpeg.Executor
	session *editor.Session

	music *assets.Library

	videoPath string
	window    fyne.Window
	preview   *canvas.Image
	timeline  *widget.Slider
	timeLabel *widget.Label
	histLabel *widget.Label
	playBtn   *widget.Button

	scrubbing bool
}

// Run opens the editor window and blocks until it is closed
func Run(ctx context.Context, logger zerolog.Logger, cfg *config.Config) error {
	exec, err := ffmpeg.New(logger, cfg.FFmpeg.BinaryPath, cfg.FFmpeg.Threads)
	if err != nil {
		return fmt.Errorf("ffmpeg not available: %w", err)
	}

	e := &Editor{
		logger: logger.With().Str("component", "gui").Logger(),
		ctx:    ctx,
		cfg:    cfg,
		exec:   exec,
		music:  musicLibrary(cfg),
	}

	a := app.NewWithID("clipforge")
	e.window = a.NewWindow("clipforge editor")
	e.window.Resize(fyne.NewSize(900, 620))
	e.window.SetContent(e.build())
	e.window.SetOnClosed(func() {
		if e.session != nil {
			e.session.Close()
		}
	})
	e.window.Canvas().SetOnTypedKey(e.typedKey)
	e.window.ShowAndRun()
	return nil
}

func (e *Editor) build() fyne.CanvasObject {
	e.preview = canvas.NewImageFromImage(placeholderFrame())
	e.preview.FillMode = canvas.ImageFillContain
	e.preview.SetMinSize(fyne.NewSize(previewW, previewH))

	e.timeLabel = widget.NewLabel("0:00 / 0:00")
	e.histLabel = widget.NewLabel("")

	e.timeline = widget.NewSlider(0, 1)
	e.timeline.Step = 0.001
	e.timeline.OnChanged = func(val float64) {
		if e.session == nil {
			return
		}
		e.scrubbing = true
		e.session.Seek(time.Duration(val * float64(e.session.Duration())))
		e.updateTimeLabel()
	}
	e.timeline.OnChangeEnded = func(float64) {
		e.scrubbing = false
	}

	e.playBtn = widget.NewButton("Play", func() {
		if e.session == nil {
			return
		}
		e.session.TogglePlay()
		e.refreshTransport()
	})

	transport := container.NewHBox(
		e.playBtn,
		widget.NewButton("<<", e.withSession(func(s *editor.Session) { s.StepBack() })),
		widget.NewButton(">>", e.withSession(func(s *editor.Session) { s.StepForward() })),
		widget.NewButton("Mark In", e.withSession(func(s *editor.Session) { s.SetInPoint() })),
		widget.NewButton("Mark Out", e.withSession(func(s *editor.Session) { s.SetOutPoint() })),
		widget.NewButton("Split", func() {
			if e.session == nil {
				return
			}
			if err := e.session.SplitAt(e.session.CurrentTime()); err != nil {
				dialog.ShowError(err, e.window)
			}
		}),
	)

	history := container.NewHBox(
		widget.NewButton("Undo", func() {
			if e.session != nil && e.session.Undo() {
				e.refreshHistory()
			}
		}),
		widget.NewButton("Redo", func() {
			if e.session != nil && e.session.Redo() {
				e.refreshHistory()
			}
		}),
		e.histLabel,
	)

	presets := widget.NewSelect(
		[]string{"none", "vintage", "cool", "warm", "dramatic"},
		func(name string) {
			if e.session == nil {
				return
			}
			settings := e.session.State().Filters
			settings.Preset = render.Preset(name)
			e.session.SetFilters(settings)
		},
	)
	presets.SetSelected("none")

	overlayEntry := widget.NewEntry()
	overlayEntry.SetPlaceHolder("Overlay text")
	addOverlay := widget.NewButton("Add Text", func() {
		if e.session == nil || overlayEntry.Text == "" {
			return
		}
		now := e.session.CurrentTime()
		if _, err := e.session.AddOverlay(overlayEntry.Text, now, now+3*time.Second); err != nil {
			dialog.ShowError(err, e.window)
			return
		}
		overlayEntry.SetText("")
		e.refreshHistory()
	})

	musicSelect := widget.NewSelect(e.music.List(), nil)
	musicSelect.PlaceHolder = "Music"
	addMusic := widget.NewButton("Add Music", func() {
		if e.session == nil || musicSelect.Selected == "" {
			return
		}
		url, ok := e.music.Resolve(musicSelect.Selected)
		if !ok {
			return
		}
		now := e.session.CurrentTime()
		e.session.AddAudioTrack(musicSelect.Selected, url, now, e.session.Trim().End-now)
		e.refreshHistory()
	})

	tools := container.NewHBox(
		widget.NewLabel("Filter:"), presets,
		overlayEntry, addOverlay,
		musicSelect, addMusic,
	)

	actions := container.NewHBox(
		widget.NewButton("Load Video", e.loadVideo),
		widget.NewButton("Export", e.exportVideo),
	)

	return container.NewVBox(
		e.preview,
		e.timeline,
		container.NewHBox(e.timeLabel),
		transport,
		history,
		tools,
		actions,
	)
}

// typedKey forwards window-level shortcuts to the session
func (e *Editor) typedKey(ev *fyne.KeyEvent) {
	if e.session == nil {
		return
	}
	key, ok := shortcutFor(ev.Name)
	if !ok {
		return
	}
	e.session.HandleKey(key)
	e.refreshTransport()
	e.refreshHistory()
}

// shortcutFor maps fyne key names to editor shortcuts
func shortcutFor(name fyne.KeyName) (string, bool) {
	switch name {
	case fyne.KeySpace:
		return "space", true
	case fyne.KeyLeft:
		return "left", true
	case fyne.KeyRight:
		return "right", true
	case fyne.KeyI:
		return "i", true
	case fyne.KeyO:
		return "o", true
	}
	return "", false
}

// withSession wraps a button handler so it is a no-op before a video is
// loaded, and repaints the transport after.
func (e *Editor) withSession(fn func(*editor.Session)) func() {
	return func() {
		if e.session == nil {
			return
		}
		fn(e.session)
		e.refreshTransport()
		e.refreshHistory()
	}
}

func (e *Editor) loadVideo() {
	fd := dialog.NewFileOpen(func(ur fyne.URIReadCloser, err error) {
		if ur == nil || err != nil {
			return
		}
		path := ur.URI().Path()
		ur.Close()

		info, err := e.exec.ProbeVideo(e.ctx, path)
		if err != nil {
			dialog.ShowError(err, e.window)
			return
		}
		if err := e.openSession(path, info); err != nil {
			dialog.ShowError(err, e.window)
			return
		}
		e.window.SetTitle("clipforge editor - " + path)
	}, e.window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".mp4", ".mov", ".mkv", ".webm"}))
	fd.Show()
}

func (e *Editor) openSession(path string, info *ffmpeg.VideoInfo) error {
	if e.session != nil {
		e.session.Close()
	}

	opts := editor.Options{
		HistoryDepth:  e.cfg.Editor.HistoryDepth,
		MinTrimGap:    e.cfg.Editor.MinTrimGap,
		SeekStep:      e.cfg.Editor.SeekStep,
		FrameRate:     e.cfg.Editor.FrameRate,
		SubtitleStyle: subtitleStyle(e.cfg.Subtitles),
	}

	source := player.NewSimulated(info.Duration)
	frames := editor.StillFrame{Image: posterFrame(info)}
	store := assets.NewFileStore(e.logger)

	session, err := editor.NewSession(e.ctx, e.logger, source, frames, store, opts)
	if err != nil {
		return err
	}
	if e.cfg.Subtitles.FontFile != "" {
		if f, err := store.Font(e.ctx, e.cfg.Subtitles.FontFile); err != nil {
			e.logger.Warn().Err(err).
				Str("font", e.cfg.Subtitles.FontFile).
				Msg("caption font not loaded, keeping the default")
		} else {
			session.SetCaptionFont(f)
		}
	}
	session.SetFrameSink(func(frame *image.RGBA) {
		fyne.Do(func() {
			e.preview.Image = frame
			e.preview.Refresh()
			e.syncTimeline()
		})
	})

	e.session = session
	e.videoPath = path
	e.session.RenderNow()
	e.refreshTransport()
	e.refreshHistory()

	e.logger.Info().Str("video", path).Dur("duration", info.Duration).Msg("video loaded")
	return nil
}

func (e *Editor) exportVideo() {
	if e.session == nil {
		return
	}
	fd := dialog.NewFileSave(func(uw fyne.URIWriteCloser, err error) {
		if uw == nil || err != nil {
			return
		}
		output := uw.URI().Path()
		uw.Close()

		exporter := export.NewFFmpegExporter(
			e.logger, e.exec, e.cfg.WorkDir, e.cfg.FFmpeg.Preset, e.cfg.FFmpeg.CRF)
		req := export.Request{
			Input:         e.videoPath,
			Output:        output,
			State:         e.session.State(),
			Subtitles:     e.session.Subtitles(),
			BurnSubtitles: len(e.session.Subtitles()) > 0,
		}

		go func() {
			if _, err := exporter.Export(e.ctx, req); err != nil {
				e.logger.Error().Err(err).Msg("export failed")
				fyne.Do(func() { dialog.ShowError(err, e.window) })
				return
			}
			fyne.Do(func() {
				dialog.ShowInformation("Export", "Saved to "+output, e.window)
			})
		}()
	}, e.window)
	fd.SetFileName("clip.mp4")
	fd.Show()
}

func (e *Editor) refreshTransport() {
	if e.session != nil && e.session.Playing() {
		e.playBtn.SetText("Pause")
	} else {
		e.playBtn.SetText("Play")
	}
}

func (e *Editor) refreshHistory() {
	if e.session == nil {
		return
	}
	info := e.session.HistoryInfo()
	e.histLabel.SetText(fmt.Sprintf("%d/%d", info.Current, info.Total))
}

// syncTimeline moves the slider to the playhead unless the user is
// dragging it.
func (e *Editor) syncTimeline() {
	if e.session == nil || e.scrubbing {
		return
	}
	total := e.session.Duration()
	if total > 0 {
		e.timeline.SetValue(float64(e.session.CurrentTime()) / float64(total))
	}
	e.updateTimeLabel()
	if !e.session.Playing() {
		e.refreshTransport()
	}
}

func (e *Editor) updateTimeLabel() {
	e.timeLabel.SetText(fmt.Sprintf("%s / %s",
		util.FormatDuration(e.session.CurrentTime()),
		util.FormatDuration(e.session.Duration())))
}

// musicLibrary builds the bundled-audio catalog from configuration
func musicLibrary(cfg *config.Config) *assets.Library {
	l := assets.NewLibrary()
	for name, url := range cfg.Music {
		l.Register(name, url)
	}
	return l
}

func subtitleStyle(cfg config.SubtitleConfig) render.SubtitleStyle {
	style := render.DefaultSubtitleStyle()
	if cfg.FontSize > 0 {
		style.FontSize = cfg.FontSize
	}
	if cfg.FontColor != "" {
		style.Color = cfg.FontColor
	}
	if cfg.OutlineWidth > 0 {
		style.OutlineWidth = cfg.OutlineWidth
	}
	if cfg.BottomMargin > 0 {
		style.BottomMargin = cfg.BottomMargin
	}
	return style
}

// posterFrame stands in for decoded video until a real decoder is
// wired: a dark frame at the source aspect ratio.
func posterFrame(info *ffmpeg.VideoInfo) image.Image {
	w, h := info.Width, info.Height
	if w <= 0 || h <= 0 {
		w, h = previewW, previewH
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	fill(img, color.RGBA{R: 24, G: 24, B: 28, A: 255})
	return img
}

func placeholderFrame() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, previewW, previewH))
	fill(img, color.RGBA{R: 16, G: 16, B: 18, A: 255})
	return img
}

func fill(img *image.RGBA, c color.RGBA) {
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
	}
}
