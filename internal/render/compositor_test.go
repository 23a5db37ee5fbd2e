package render

import (
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/kikiluvv/clipforge/internal/layers"
	"github.com/kikiluvv/clipforge/internal/overlays"
	"github.com/kikiluvv/clipforge/internal/subtitles"
)

func newTestCompositor(t *testing.T) (*Compositor, *layers.Preloader) {
	t.Helper()
	pre := layers.NewPreloader(zerolog.Nop(), nil)
	c, err := NewCompositor(zerolog.Nop(), pre, DefaultSubtitleStyle())
	if err != nil {
		t.Fatalf("compositor: %v", err)
	}
	return c, pre
}

func countNonBase(frame *image.RGBA, base color.RGBA) int {
	n := 0
	for i := 0; i < len(frame.Pix); i += 4 {
		if frame.Pix[i] != base.R || frame.Pix[i+1] != base.G || frame.Pix[i+2] != base.B {
			n++
		}
	}
	return n
}

func TestComposeNilSource(t *testing.T) {
	c, _ := newTestCompositor(t)

	if _, err := c.Compose(Input{Time: 0}); err != ErrNoFrame {
		t.Errorf("nil source: got %v, want ErrNoFrame", err)
	}
	if _, err := c.Compose(Input{Source: image.NewRGBA(image.Rectangle{})}); err != ErrNoFrame {
		t.Errorf("zero-size source: got %v, want ErrNoFrame", err)
	}
}

func TestComposeBaseFramePassThrough(t *testing.T) {
	c, _ := newTestCompositor(t)
	base := color.RGBA{R: 10, G: 20, B: 30, A: 255}
	src := solidFrame(64, 64, base)

	frame, err := c.Compose(Input{Source: src, Filters: NeutralSettings()})
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	if got := countNonBase(frame, base); got != 0 {
		t.Errorf("%d pixels changed with nothing to draw", got)
	}
}

func TestComposeDrawsActiveOverlay(t *testing.T) {
	c, _ := newTestCompositor(t)
	base := color.RGBA{R: 10, G: 10, B: 10, A: 255}
	src := solidFrame(320, 180, base)

	o, err := overlays.New("Hello", 6*time.Second, 9*time.Second)
	if err != nil {
		t.Fatal(err)
	}
	o.Animation = overlays.AnimationFadeIn

	// t=7s: progress > 1/3, alpha is fully 1
	frame, err := c.Compose(Input{
		Time:     7 * time.Second,
		Source:   src,
		Filters:  NeutralSettings(),
		Overlays: []overlays.Text{o},
	})
	if err != nil {
		t.Fatal(err)
	}
	if countNonBase(frame, base) == 0 {
		t.Error("active overlay left no pixels on the frame")
	}

	// t=5s: outside the overlay window, frame stays clean
	frame, err = c.Compose(Input{
		Time:     5 * time.Second,
		Source:   src,
		Filters:  NeutralSettings(),
		Overlays: []overlays.Text{o},
	})
	if err != nil {
		t.Fatal(err)
	}
	if got := countNonBase(frame, base); got != 0 {
		t.Errorf("inactive overlay painted %d pixels", got)
	}
}

func TestComposeLayerPaintOrder(t *testing.T) {
	c, pre := newTestCompositor(t)
	base := color.RGBA{A: 255}
	src := solidFrame(100, 100, base)

	red := solidFrame(40, 40, color.RGBA{R: 255, A: 255})
	blue := solidFrame(40, 40, color.RGBA{B: 255, A: 255})

	var ls []layers.Layer
	bottom := layers.New(layers.KindImage, "red", "mem://r", 0, time.Minute)
	top := layers.New(layers.KindImage, "blue", "mem://b", 0, time.Minute)
	ls = layers.Add(ls, bottom)
	ls = layers.Add(ls, top)
	pre.Put(bottom.ID, red)
	pre.Put(top.ID, blue)

	compose := func(stack []layers.Layer) color.RGBA {
		frame, err := c.Compose(Input{
			Time:    time.Second,
			Source:  src,
			Filters: NeutralSettings(),
			Layers:  stack,
		})
		if err != nil {
			t.Fatal(err)
		}
		return frame.RGBAAt(50, 50)
	}

	if got := compose(ls); got.B != 255 {
		t.Errorf("center pixel %+v, want blue on top", got)
	}

	// moving red up flips the winner
	moved, ok := layers.MoveUp(ls, bottom.ID)
	if !ok {
		t.Fatal("move failed")
	}
	if got := compose(moved); got.R != 255 {
		t.Errorf("center pixel %+v, want red on top after move", got)
	}
}

func TestComposeSkipsUnloadedAndHiddenLayers(t *testing.T) {
	c, pre := newTestCompositor(t)
	base := color.RGBA{A: 255}
	src := solidFrame(100, 100, base)

	pending := layers.New(layers.KindImage, "pending", "mem://x", 0, time.Minute)
	hidden := layers.New(layers.KindImage, "hidden", "mem://y", 0, time.Minute)
	hidden.Visible = false
	pre.Put(hidden.ID, solidFrame(40, 40, color.RGBA{G: 255, A: 255}))

	ls := layers.Add(nil, pending)
	ls = layers.Add(ls, hidden)

	frame, err := c.Compose(Input{
		Time:    time.Second,
		Source:  src,
		Filters: NeutralSettings(),
		Layers:  ls,
	})
	if err != nil {
		t.Fatal(err)
	}
	if got := countNonBase(frame, base); got != 0 {
		t.Errorf("%d pixels painted by layers that should be skipped", got)
	}
}

func TestComposeLayerOpacity(t *testing.T) {
	c, pre := newTestCompositor(t)
	base := color.RGBA{A: 255}
	src := solidFrame(100, 100, base)

	l := layers.New(layers.KindImage, "half", "mem://h", 0, time.Minute)
	ls := layers.Add(nil, l)
	pre.Put(l.ID, solidFrame(40, 40, color.RGBA{R: 255, A: 255}))

	ls, ok := layers.SetOpacity(ls, l.ID, 50)
	if !ok {
		t.Fatal("set opacity failed")
	}

	frame, err := c.Compose(Input{
		Time:    time.Second,
		Source:  src,
		Filters: NeutralSettings(),
		Layers:  ls,
	})
	if err != nil {
		t.Fatal(err)
	}

	got := frame.RGBAAt(50, 50)
	if got.R < 100 || got.R > 155 {
		t.Errorf("half-opacity red = %d, want roughly 127", got.R)
	}
}

func TestComposeDrawsActiveCaption(t *testing.T) {
	c, _ := newTestCompositor(t)
	base := color.RGBA{R: 10, G: 10, B: 10, A: 255}
	src := solidFrame(320, 180, base)

	segs := []subtitles.Segment{{Start: time.Second, End: 3 * time.Second, Text: "caption"}}

	frame, err := c.Compose(Input{
		Time:      2 * time.Second,
		Source:    src,
		Filters:   NeutralSettings(),
		Subtitles: segs,
	})
	if err != nil {
		t.Fatal(err)
	}
	if countNonBase(frame, base) == 0 {
		t.Error("active caption left no pixels on the frame")
	}
}
