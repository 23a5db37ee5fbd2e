package overlays

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestNewValidation(t *testing.T) {
	if _, err := New("", 0, time.Second); !errors.Is(err, ErrEmptyText) {
		t.Errorf("empty text: got %v, want ErrEmptyText", err)
	}
	if _, err := New("   ", 0, time.Second); !errors.Is(err, ErrEmptyText) {
		t.Errorf("whitespace text: got %v, want ErrEmptyText", err)
	}
	if _, err := New("hi", 5*time.Second, 5*time.Second); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("zero range: got %v, want ErrInvalidRange", err)
	}

	o, err := New("hello", time.Second, 3*time.Second)
	if err != nil {
		t.Fatalf("valid overlay: %v", err)
	}
	if o.ID == "" || o.X != 50 || o.Y != 50 || o.Animation != AnimationNone {
		t.Errorf("unexpected defaults: %+v", o)
	}
}

func TestActiveAtInclusiveBoundaries(t *testing.T) {
	o, _ := New("hi", 6*time.Second, 9*time.Second)

	cases := []struct {
		at   time.Duration
		want bool
	}{
		{5 * time.Second, false},
		{6 * time.Second, true},
		{7 * time.Second, true},
		{9 * time.Second, true},
		{9*time.Second + time.Millisecond, false},
	}
	for _, c := range cases {
		if got := o.ActiveAt(c.at); got != c.want {
			t.Errorf("ActiveAt(%v) = %v, want %v", c.at, got, c.want)
		}
	}
}

func TestProgressClamped(t *testing.T) {
	o, _ := New("hi", 10*time.Second, 20*time.Second)

	if got := o.Progress(5 * time.Second); got != 0 {
		t.Errorf("before start: %v, want 0", got)
	}
	if got := o.Progress(15 * time.Second); got != 0.5 {
		t.Errorf("midpoint: %v, want 0.5", got)
	}
	if got := o.Progress(25 * time.Second); got != 1 {
		t.Errorf("after end: %v, want 1", got)
	}
}

func TestEvaluateIsPure(t *testing.T) {
	for _, a := range []Animation{AnimationNone, AnimationFadeIn, AnimationSlideUp, AnimationBounce} {
		for _, p := range []float64{0, 0.25, 0.5, 1} {
			first := a.Evaluate(p)
			for i := 0; i < 3; i++ {
				if got := a.Evaluate(p); got != first {
					t.Fatalf("%s.Evaluate(%v) not deterministic: %+v vs %+v", a, p, got, first)
				}
			}
		}
	}
}

func TestEvaluateEffects(t *testing.T) {
	const eps = 1e-9

	if e := AnimationNone.Evaluate(0.5); e.Alpha != 1 || e.OffsetY != 0 {
		t.Errorf("none: %+v", e)
	}

	if e := AnimationFadeIn.Evaluate(0.1); math.Abs(e.Alpha-0.3) > eps {
		t.Errorf("fadeIn(0.1) alpha = %v, want 0.3", e.Alpha)
	}
	if e := AnimationFadeIn.Evaluate(0.5); e.Alpha != 1 {
		t.Errorf("fadeIn(0.5) alpha = %v, want 1", e.Alpha)
	}

	if e := AnimationSlideUp.Evaluate(0); e.OffsetY != 100 {
		t.Errorf("slideUp(0) offset = %v, want 100", e.OffsetY)
	}
	if e := AnimationSlideUp.Evaluate(0.5); e.OffsetY != 0 {
		t.Errorf("slideUp(0.5) offset = %v, want 0", e.OffsetY)
	}

	if e := AnimationBounce.Evaluate(0.25); math.Abs(e.OffsetY-20) > eps {
		t.Errorf("bounce(0.25) offset = %v, want 20", e.OffsetY)
	}
	if e := AnimationBounce.Evaluate(0.5); math.Abs(e.OffsetY) > eps {
		t.Errorf("bounce(0.5) offset = %v, want 0", e.OffsetY)
	}
}
