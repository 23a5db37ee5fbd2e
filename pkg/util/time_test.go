package util

import (
	"testing"
	"time"
)

func TestFormatSRT(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00:00,000"},
		{1500 * time.Millisecond, "00:00:01,500"},
		{time.Hour + 2*time.Minute + 3*time.Second + 45*time.Millisecond, "01:02:03,045"},
	}
	for _, c := range cases {
		if got := FormatSRT(c.d); got != c.want {
			t.Errorf("FormatSRT(%v) = %q, want %q", c.d, got, c.want)
		}
	}
}

func TestParseTimestamp(t *testing.T) {
	cases := []struct {
		in   string
		want time.Duration
	}{
		{"5", 5 * time.Second},
		{"1.5", 1500 * time.Millisecond},
		{"01:30", 90 * time.Second},
		{"00:00:01.500", 1500 * time.Millisecond},
		{"00:00:01,500", 1500 * time.Millisecond},
		{"01:02:03,045", time.Hour + 2*time.Minute + 3*time.Second + 45*time.Millisecond},
	}
	for _, c := range cases {
		got, err := ParseTimestamp(c.in)
		if err != nil {
			t.Errorf("ParseTimestamp(%q): %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseTimestamp(%q) = %v, want %v", c.in, got, c.want)
		}
	}

	for _, in := range []string{"", "abc", "1:2:3:4", "1:xx"} {
		if _, err := ParseTimestamp(in); err == nil {
			t.Errorf("ParseTimestamp(%q) should fail", in)
		}
	}
}

func TestParseTimestampRoundTripsFormatSRT(t *testing.T) {
	for _, d := range []time.Duration{0, 250 * time.Millisecond, 59 * time.Second, 90 * time.Minute} {
		got, err := ParseTimestamp(FormatSRT(d))
		if err != nil {
			t.Fatalf("round trip %v: %v", d, err)
		}
		if got != d {
			t.Errorf("round trip %v = %v", d, got)
		}
	}
}

func TestParseFrameRate(t *testing.T) {
	if got := ParseFrameRate("30/1"); got != 30 {
		t.Errorf("30/1 = %v", got)
	}
	if got := ParseFrameRate("30000/1001"); got < 29.9 || got > 30 {
		t.Errorf("ntsc = %v", got)
	}
	for _, in := range []string{"", "30", "x/y", "30/0"} {
		if got := ParseFrameRate(in); got != 0 {
			t.Errorf("ParseFrameRate(%q) = %v, want 0", in, got)
		}
	}
}

func TestClamp(t *testing.T) {
	lo, hi := time.Second, 10*time.Second

	if got := Clamp(0, lo, hi); got != lo {
		t.Errorf("below: %v", got)
	}
	if got := Clamp(time.Minute, lo, hi); got != hi {
		t.Errorf("above: %v", got)
	}
	if got := Clamp(5*time.Second, lo, hi); got != 5*time.Second {
		t.Errorf("inside: %v", got)
	}
}
