// Package render implements the per-frame compositor: the source
// frame with visual filters applied, then overlay layers in paint
// order, then animated text overlays, then the active caption, drawn
// onto a single output image.
package render

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"math"
	"strings"
	"time"

	"github.com/nfnt/resize"
	"github.com/rs/zerolog"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/f64"

	"github.com/kikiluvv/clipforge/internal/layers"
	"github.com/kikiluvv/clipforge/internal/overlays"
	"github.com/kikiluvv/clipforge/internal/subtitles"
)

// ErrNoFrame signals that the source frame has no dimensions yet. The
// caller skips the tick; the next one will retry.
var ErrNoFrame = errors.New("source frame not ready")

// SubtitleStyle controls burned-in caption appearance
type SubtitleStyle struct {
	FontSize     float64
	Color        string
	OutlineWidth int
	BottomMargin int
}

// DefaultSubtitleStyle matches the product defaults
func DefaultSubtitleStyle() SubtitleStyle {
	return SubtitleStyle{
		FontSize:     24,
		Color:        "#FFFFFF",
		OutlineWidth: 2,
		BottomMargin: 40,
	}
}

// Input is everything one composite reads. All fields belong to the
// same state version; the compositor never reaches back into live
// editor state mid-draw.
type Input struct {
	Time      time.Duration
	Source    image.Image
	Filters   Settings
	Layers    []layers.Layer
	Overlays  []overlays.Text
	Subtitles []subtitles.Segment
}

// Compositor draws composite frames. Safe to call once per animation
// tick while playing or once after any state change while paused.
type Compositor struct {
	logger zerolog.Logger
	assets *layers.Preloader
	fonts  *fontCache
	style  SubtitleStyle
}

// NewCompositor creates a compositor reading layer assets from the
// given preloader.
func NewCompositor(logger zerolog.Logger, assets *layers.Preloader, style SubtitleStyle) (*Compositor, error) {
	fonts, err := newFontCache()
	if err != nil {
		return nil, err
	}
	if style.FontSize <= 0 {
		style = DefaultSubtitleStyle()
	}
	return &Compositor{
		logger: logger.With().Str("component", "compositor").Logger(),
		assets: assets,
		fonts:  fonts,
		style:  style,
	}, nil
}

// SetFont replaces the typeface used for overlays and captions
func (c *Compositor) SetFont(f *opentype.Font) {
	c.fonts.SetFont(f)
}

// Compose produces one composited frame at the source's native
// resolution. A layer whose asset is still loading is skipped; nothing
// here is fatal to the session.
func (c *Compositor) Compose(in Input) (*image.RGBA, error) {
	if in.Source == nil {
		return nil, ErrNoFrame
	}
	bounds := in.Source.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return nil, ErrNoFrame
	}

	// 1. base frame with the filter chain
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), in.Source, bounds.Min, draw.Src)
	in.Filters.Apply(dst)

	// 2. layers in ascending paint order
	for _, l := range layers.Ordered(in.Layers) {
		if !l.VisibleAt(in.Time) {
			continue
		}
		img, ok := c.assets.Image(l.ID)
		if !ok {
			continue
		}
		c.drawLayer(dst, l, img)
	}

	// 3. animated text overlays
	for _, o := range in.Overlays {
		if !o.ActiveAt(in.Time) {
			continue
		}
		effect := o.Animation.Evaluate(o.Progress(in.Time))
		c.drawOverlay(dst, o, effect)
	}

	// 4. active caption
	if seg, ok := subtitles.ActiveAt(in.Subtitles, in.Time); ok {
		c.drawSubtitle(dst, seg)
	}

	return dst, nil
}

// drawLayer composites one layer image centered on its anchor with
// scale, rotation, and opacity applied.
func (c *Compositor) drawLayer(dst *image.RGBA, l layers.Layer, img image.Image) {
	frame := dst.Bounds()

	if l.Scale > 0 && l.Scale != 1 {
		sw := uint(math.Round(float64(img.Bounds().Dx()) * l.Scale))
		if sw == 0 {
			return
		}
		img = resize.Resize(sw, 0, img, resize.Bilinear)
	}

	lw := img.Bounds().Dx()
	lh := img.Bounds().Dy()
	if lw == 0 || lh == 0 {
		return
	}

	cx := l.Position.X / 100 * float64(frame.Dx())
	cy := l.Position.Y / 100 * float64(frame.Dy())

	alpha := l.Opacity / 100
	if alpha <= 0 {
		return
	}
	if alpha > 1 {
		alpha = 1
	}
	mask := image.NewUniform(color.Alpha{A: uint8(alpha * 255)})

	if l.Rotation == 0 {
		offset := image.Pt(int(cx)-lw/2, int(cy)-lh/2)
		r := image.Rectangle{Min: offset, Max: offset.Add(image.Pt(lw, lh))}
		draw.DrawMask(dst, r, img, img.Bounds().Min, mask, image.Point{}, draw.Over)
		return
	}

	// rotate about the layer center, then mask for opacity
	rad := l.Rotation * math.Pi / 180
	sin, cos := math.Sin(rad), math.Cos(rad)
	m := f64.Aff3{
		cos, -sin, cx - cos*float64(lw)/2 + sin*float64(lh)/2,
		sin, cos, cy - sin*float64(lw)/2 - cos*float64(lh)/2,
	}

	tmp := image.NewRGBA(frame)
	xdraw.ApproxBiLinear.Transform(tmp, m, img, img.Bounds(), xdraw.Over, nil)
	draw.DrawMask(dst, frame, tmp, image.Point{}, mask, image.Point{}, draw.Over)
}

// drawOverlay renders one text overlay with its animation effect
func (c *Compositor) drawOverlay(dst *image.RGBA, o overlays.Text, effect overlays.Effect) {
	if effect.Alpha <= 0 {
		return
	}

	face, err := c.fonts.face(o.FontSize)
	if err != nil {
		c.logger.Warn().Err(err).Str("overlay", o.ID).Msg("skipping overlay, no font face")
		return
	}

	frame := dst.Bounds()
	x := int(o.X / 100 * float64(frame.Dx()))
	y := int(o.Y/100*float64(frame.Dy()) + effect.OffsetY)

	col := parseHexColor(o.Color, effect.Alpha)
	drawTextCentered(dst, face, o.Text, x, y, col)
}

// drawSubtitle renders the active caption bottom-center with an
// outline for legibility.
func (c *Compositor) drawSubtitle(dst *image.RGBA, seg subtitles.Segment) {
	face, err := c.fonts.face(c.style.FontSize)
	if err != nil {
		c.logger.Warn().Err(err).Msg("skipping caption, no font face")
		return
	}

	frame := dst.Bounds()
	lines := strings.Split(seg.Text, "\n")
	lineHeight := int(c.style.FontSize * 1.2)

	fill := parseHexColor(c.style.Color, 1)
	outline := color.NRGBA{A: 255}

	x := frame.Dx() / 2
	y := frame.Dy() - c.style.BottomMargin - (len(lines)-1)*lineHeight

	for _, line := range lines {
		drawTextOutlined(dst, face, line, x, y, c.style.OutlineWidth, fill, outline)
		y += lineHeight
	}
}
