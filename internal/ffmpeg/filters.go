package ffmpeg

import (
	"fmt"
	"strings"

	"github.com/kikiluvv/clipforge/internal/render"
)

// FilterBuilder helps construct ffmpeg video filter chains
type FilterBuilder struct {
	filters []string
}

// NewFilterBuilder creates a new filter builder
func NewFilterBuilder() *FilterBuilder {
	return &FilterBuilder{filters: make([]string, 0)}
}

// Scale adds a scale filter
func (fb *FilterBuilder) Scale(width, height int) *FilterBuilder {
	if width <= 0 || height <= 0 {
		return fb
	}
	fb.filters = append(fb.filters, fmt.Sprintf("scale=%d:%d", width, height))
	return fb
}

// Eq adds an eq filter. The editor's 100-neutral percentages map onto
// ffmpeg's ranges: brightness is -1..1 around 0, contrast and
// saturation are multipliers around 1.
func (fb *FilterBuilder) Eq(brightness, contrast, saturation float64) *FilterBuilder {
	if brightness == 100 && contrast == 100 && saturation == 100 {
		return fb
	}
	fb.filters = append(fb.filters, fmt.Sprintf(
		"eq=brightness=%.3f:contrast=%.3f:saturation=%.3f",
		(brightness-100)/100, contrast/100, saturation/100))
	return fb
}

// Blur adds a gaussian blur with the given sigma
func (fb *FilterBuilder) Blur(sigma float64) *FilterBuilder {
	if sigma <= 0 {
		return fb
	}
	fb.filters = append(fb.filters, fmt.Sprintf("gblur=sigma=%.2f", sigma))
	return fb
}

// HueRotate shifts hue by degrees
func (fb *FilterBuilder) HueRotate(degrees float64) *FilterBuilder {
	if degrees == 0 {
		return fb
	}
	fb.filters = append(fb.filters, fmt.Sprintf("hue=h=%.1f", degrees))
	return fb
}

// Saturate multiplies saturation
func (fb *FilterBuilder) Saturate(factor float64) *FilterBuilder {
	if factor == 1 {
		return fb
	}
	fb.filters = append(fb.filters, fmt.Sprintf("hue=s=%.2f", factor))
	return fb
}

// Sepia applies a sepia tone via colorchannelmixer
func (fb *FilterBuilder) Sepia() *FilterBuilder {
	fb.filters = append(fb.filters,
		"colorchannelmixer=.393:.769:.189:0:.349:.686:.168:0:.272:.534:.131")
	return fb
}

// Contrast multiplies contrast only
func (fb *FilterBuilder) Contrast(factor float64) *FilterBuilder {
	if factor == 1 {
		return fb
	}
	fb.filters = append(fb.filters, fmt.Sprintf("eq=contrast=%.2f", factor))
	return fb
}

// FPS adds an fps filter
func (fb *FilterBuilder) FPS(fps float64) *FilterBuilder {
	if fps <= 0 {
		return fb
	}
	fb.filters = append(fb.filters, fmt.Sprintf("fps=%f", fps))
	return fb
}

// Custom adds a raw filter string
func (fb *FilterBuilder) Custom(filter string) *FilterBuilder {
	fb.filters = append(fb.filters, filter)
	return fb
}

// Build returns the complete filter string joined with commas
func (fb *FilterBuilder) Build() string {
	return joinFilters(fb.filters)
}

// BuildAll returns all filters as a slice
func (fb *FilterBuilder) BuildAll() []string {
	return fb.filters
}

func joinFilters(filters []string) string {
	return strings.Join(filters, ",")
}

// FromSettings translates the editor's preview filter settings into
// the equivalent ffmpeg chain, mirroring the compositor's paint order:
// manual adjustments first, then the preset look.
func FromSettings(s render.Settings) []string {
	fb := NewFilterBuilder().
		Eq(s.Brightness, s.Contrast, s.Saturation).
		Blur(s.Blur)

	switch s.Preset {
	case render.PresetVintage:
		fb.Sepia().HueRotate(-20)
	case render.PresetCool:
		fb.HueRotate(30).Saturate(1.2)
	case render.PresetWarm:
		fb.HueRotate(-30).Saturate(1.3)
	case render.PresetDramatic:
		fb.Contrast(1.4).Saturate(0.8)
	}

	return fb.BuildAll()
}
