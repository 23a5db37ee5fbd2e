package render

import (
	"image"
	"math"
)

// Preset names a canned look layered on top of the manual adjustments
type Preset string

const (
	PresetNone     Preset = "none"
	PresetVintage  Preset = "vintage"
	PresetCool     Preset = "cool"
	PresetWarm     Preset = "warm"
	PresetDramatic Preset = "dramatic"
)

// Settings are the per-frame visual adjustments. Brightness, contrast
// and saturation are percentages with 100 as neutral; Blur is a pixel
// radius.
type Settings struct {
	Brightness float64 `json:"brightness"`
	Contrast   float64 `json:"contrast"`
	Saturation float64 `json:"saturation"`
	Blur       float64 `json:"blur"`
	Preset     Preset  `json:"preset"`
}

// NeutralSettings leaves the frame untouched
func NeutralSettings() Settings {
	return Settings{Brightness: 100, Contrast: 100, Saturation: 100, Preset: PresetNone}
}

// IsNeutral reports whether applying the settings would be a no-op
func (s Settings) IsNeutral() bool {
	return s.Brightness == 100 && s.Contrast == 100 && s.Saturation == 100 &&
		s.Blur == 0 && (s.Preset == PresetNone || s.Preset == "")
}

// Apply runs the full adjustment chain on img in place: manual
// brightness/contrast/saturation/blur first, then the preset chain.
func (s Settings) Apply(img *image.RGBA) {
	if s.Brightness != 100 || s.Contrast != 100 {
		applyBrightnessContrast(img, s.Brightness/100, s.Contrast/100)
	}
	if s.Saturation != 100 {
		applyMatrix(img, saturationMatrix(s.Saturation/100))
	}
	if s.Blur > 0 {
		applyBoxBlur(img, int(math.Round(s.Blur)))
	}

	switch s.Preset {
	case PresetVintage:
		applyMatrix(img, sepiaMatrix(0.8))
		applyMatrix(img, hueRotateMatrix(-20))
	case PresetCool:
		applyMatrix(img, hueRotateMatrix(30))
		applyMatrix(img, saturationMatrix(1.2))
	case PresetWarm:
		applyMatrix(img, hueRotateMatrix(-30))
		applyMatrix(img, saturationMatrix(1.3))
	case PresetDramatic:
		applyBrightnessContrast(img, 1, 1.4)
		applyMatrix(img, saturationMatrix(0.8))
	}
}

func clampByte(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// applyBrightnessContrast scales pixel values around mid-gray
func applyBrightnessContrast(img *image.RGBA, brightness, contrast float64) {
	pix := img.Pix
	for i := 0; i < len(pix); i += 4 {
		for c := 0; c < 3; c++ {
			v := float64(pix[i+c]) * brightness
			v = contrast*(v-128) + 128
			pix[i+c] = clampByte(v)
		}
	}
}

// colorMatrix is a row-major 3x3 matrix over RGB
type colorMatrix [9]float64

func applyMatrix(img *image.RGBA, m colorMatrix) {
	pix := img.Pix
	for i := 0; i < len(pix); i += 4 {
		r := float64(pix[i])
		g := float64(pix[i+1])
		b := float64(pix[i+2])
		pix[i] = clampByte(m[0]*r + m[1]*g + m[2]*b)
		pix[i+1] = clampByte(m[3]*r + m[4]*g + m[5]*b)
		pix[i+2] = clampByte(m[6]*r + m[7]*g + m[8]*b)
	}
}

// saturationMatrix interpolates between luma gray (s=0) and identity (s=1)
func saturationMatrix(s float64) colorMatrix {
	return colorMatrix{
		0.213 + 0.787*s, 0.715 - 0.715*s, 0.072 - 0.072*s,
		0.213 - 0.213*s, 0.715 + 0.285*s, 0.072 - 0.072*s,
		0.213 - 0.213*s, 0.715 - 0.715*s, 0.072 + 0.928*s,
	}
}

// hueRotateMatrix is the CSS filter hue-rotation matrix for degrees
func hueRotateMatrix(degrees float64) colorMatrix {
	rad := degrees * math.Pi / 180
	c := math.Cos(rad)
	s := math.Sin(rad)
	return colorMatrix{
		0.213 + 0.787*c - 0.213*s, 0.715 - 0.715*c - 0.715*s, 0.072 - 0.072*c + 0.928*s,
		0.213 - 0.213*c + 0.143*s, 0.715 + 0.285*c + 0.140*s, 0.072 - 0.072*c - 0.283*s,
		0.213 - 0.213*c - 0.787*s, 0.715 - 0.715*c + 0.715*s, 0.072 + 0.928*c + 0.072*s,
	}
}

// sepiaMatrix interpolates between identity (a=0) and full sepia (a=1)
func sepiaMatrix(a float64) colorMatrix {
	return colorMatrix{
		1 - 0.607*a, 0.769 * a, 0.189 * a,
		0.349 * a, 1 - 0.314*a, 0.168 * a,
		0.272 * a, 0.534 * a, 1 - 0.869*a,
	}
}

// applyBoxBlur runs a separable box blur with the given radius.
// Radius is in pixels; zero or negative is a no-op.
func applyBoxBlur(img *image.RGBA, radius int) {
	if radius <= 0 {
		return
	}
	bounds := img.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	if w == 0 || h == 0 {
		return
	}

	tmp := image.NewRGBA(bounds)
	blurPass(img.Pix, tmp.Pix, w, h, radius, true)
	blurPass(tmp.Pix, img.Pix, w, h, radius, false)
}

func blurPass(src, dst []uint8, w, h, radius int, horizontal bool) {
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var sum [4]int
			count := 0
			for d := -radius; d <= radius; d++ {
				sx, sy := x, y
				if horizontal {
					sx += d
				} else {
					sy += d
				}
				if sx < 0 || sx >= w || sy < 0 || sy >= h {
					continue
				}
				o := (sy*w + sx) * 4
				for c := 0; c < 4; c++ {
					sum[c] += int(src[o+c])
				}
				count++
			}
			o := (y*w + x) * 4
			for c := 0; c < 4; c++ {
				dst[o+c] = uint8(sum[c] / count)
			}
		}
	}
}
