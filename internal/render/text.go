package render

import (
	"fmt"
	"image"
	"image/color"
	"strconv"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// fontCache hands out faces by point size, parsing the embedded Go
// Regular font once. A custom font loaded through the asset store can
// replace the default for all subsequently created faces.
type fontCache struct {
	mu    sync.Mutex
	sfnt  *opentype.Font
	faces map[float64]font.Face
}

func newFontCache() (*fontCache, error) {
	parsed, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse embedded font: %w", err)
	}
	return &fontCache{
		sfnt:  parsed,
		faces: make(map[float64]font.Face),
	}, nil
}

// SetFont replaces the typeface, invalidating cached faces
func (fc *fontCache) SetFont(f *opentype.Font) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	fc.sfnt = f
	fc.faces = make(map[float64]font.Face)
}

func (fc *fontCache) face(size float64) (font.Face, error) {
	if size <= 0 {
		size = 24
	}

	fc.mu.Lock()
	defer fc.mu.Unlock()

	if f, ok := fc.faces[size]; ok {
		return f, nil
	}

	f, err := opentype.NewFace(fc.sfnt, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create face at %.1fpt: %w", size, err)
	}
	fc.faces[size] = f
	return f, nil
}

// drawTextCentered draws text horizontally centered on x at baseline y
func drawTextCentered(dst *image.RGBA, face font.Face, text string, x, y int, col color.Color) {
	width := font.MeasureString(face, text)

	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: face,
		Dot: fixed.Point26_6{
			X: fixed.I(x) - width/2,
			Y: fixed.I(y),
		},
	}
	d.DrawString(text)
}

// drawTextOutlined draws text with a stroked outline for legibility
// over arbitrary backgrounds: the outline color at the surrounding
// offsets, then the fill on top.
func drawTextOutlined(dst *image.RGBA, face font.Face, text string, x, y, outlineWidth int, fill, outline color.Color) {
	if outlineWidth > 0 {
		for dy := -outlineWidth; dy <= outlineWidth; dy++ {
			for dx := -outlineWidth; dx <= outlineWidth; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				drawTextCentered(dst, face, text, x+dx, y+dy, outline)
			}
		}
	}
	drawTextCentered(dst, face, text, x, y, fill)
}

// parseHexColor parses #RGB and #RRGGBB colors with an alpha
// multiplier in [0, 1]. Unparseable input falls back to white.
func parseHexColor(s string, alpha float64) color.NRGBA {
	if alpha < 0 {
		alpha = 0
	}
	if alpha > 1 {
		alpha = 1
	}
	c := color.NRGBA{R: 255, G: 255, B: 255, A: uint8(alpha * 255)}

	if len(s) == 0 || s[0] != '#' {
		return c
	}
	hex := s[1:]
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return c
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return c
	}
	c.R = uint8(v >> 16)
	c.G = uint8(v >> 8)
	c.B = uint8(v)
	return c
}
