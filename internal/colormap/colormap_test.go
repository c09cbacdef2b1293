package colormap

import (
	"math"
	"testing"
)

func TestDiscreteColor_Buckets(t *testing.T) {
	tests := []struct {
		value float64
		want  RGB
	}{
		{0, RGB{0, 0, 255}},
		{0.19, RGB{0, 0, 255}},
		{0.2, RGB{63, 0, 255}},
		{0.4, RGB{127, 0, 255}},
		{0.6, RGB{191, 0, 255}},
		{0.8, RGB{255, 0, 255}},
		{0.99, RGB{255, 0, 255}},
		{1.0, RGB{255, 0, 191}},
		{1.23, RGB{255, 0, 191}},
		{1.5, RGB{255, 0, 127}},
		{2.0, RGB{255, 0, 63}},
		{3.49, RGB{255, 0, 63}},
		{3.5, RGB{255, 0, 0}},
		{math.Exp(2) / 2, RGB{255, 0, 0}},
		{1000, RGB{255, 0, 0}},
	}

	for _, tt := range tests {
		if got := DiscreteColor(tt.value); got != tt.want {
			t.Errorf("DiscreteColor(%v) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

// redness ranks a discrete color: red rises first, then blue falls.
func redness(c RGB) int {
	return c.R + (255 - c.B)
}

func TestDiscreteColor_Monotonic(t *testing.T) {
	prev := DiscreteColor(0)
	for v := 0.0; v <= 5.0; v += 0.01 {
		c := DiscreteColor(v)
		if redness(c) < redness(prev) {
			t.Fatalf("redness decreased at %v: %v after %v", v, c, prev)
		}
		if again := DiscreteColor(v); again != c {
			t.Fatalf("DiscreteColor(%v) not stable: %v then %v", v, c, again)
		}
		prev = c
	}
}

func TestLinearColor(t *testing.T) {
	tests := []struct {
		value float64
		want  RGB
	}{
		{0, RGB{0, 0, 255}},
		{1.25, RGB{127, 0, 255}},
		{2.5, RGB{255, 0, 255}},
		{3.75, RGB{255, 0, 127}},
		{5.0, RGB{255, 0, 0}},
	}

	for _, tt := range tests {
		if got := LinearColor(tt.value); got != tt.want {
			t.Errorf("LinearColor(%v) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

// Out-of-range inputs are passed through unclamped; these cases pin that
// behavior so a change to clamping is deliberate.
func TestLinearColor_Unclamped(t *testing.T) {
	tests := []struct {
		value float64
		want  RGB
	}{
		{-1.0, RGB{-102, 0, 255}},
		{6.0, RGB{255, 0, -102}},
		{10.0, RGB{255, 0, -510}},
	}

	for _, tt := range tests {
		if got := LinearColor(tt.value); got != tt.want {
			t.Errorf("LinearColor(%v) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestLinearColor_Truncates(t *testing.T) {
	// 255 * 0.1 / 2.5 = 10.2
	if got := LinearColor(0.1).R; got != 10 {
		t.Errorf("expected red 10, got %d", got)
	}
	// 255 * 2.49 / 2.5 = 253.98
	if got := LinearColor(2.49).R; got != 253 {
		t.Errorf("expected red 253, got %d", got)
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"", Discrete, false},
		{"discrete", Discrete, false},
		{"LINEAR", Linear, false},
		{" linear ", Linear, false},
		{"rainbow", "", true},
	}

	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseMode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNew(t *testing.T) {
	if got := New(Linear)(1.25); got != (RGB{127, 0, 255}) {
		t.Errorf("linear mapper returned %v", got)
	}
	if got := New(Discrete)(1.25); got != (RGB{255, 0, 191}) {
		t.Errorf("discrete mapper returned %v", got)
	}
	if got := New(ModeFromFlag(false))(4); got != Red {
		t.Errorf("default mapper returned %v", got)
	}
}

func TestRGB_String(t *testing.T) {
	if got := (RGB{255, 0, 63}).String(); got != "255 0 63" {
		t.Errorf("unexpected string %q", got)
	}
	if got := (RGB{255, 0, -102}).String(); got != "255 0 -102" {
		t.Errorf("unexpected string %q", got)
	}
}

func TestRGB_DisplayClamping(t *testing.T) {
	c := LinearColor(-1)
	if c.R >= 0 {
		t.Fatalf("expected a negative red, got %v", c)
	}

	r, g, b, a := c.RGBA()
	if r != 0 || g != 0 || b != 0xffff || a != 0xffff {
		t.Errorf("RGBA() = %d %d %d %d", r, g, b, a)
	}

	if r, _, b, _ = LinearColor(6).RGBA(); r != 0xffff || b != 0 {
		t.Errorf("negative blue should clamp to 0, got %d %d", r, b)
	}
	if c = DiscreteColor(0); c != Blue {
		t.Errorf("lowest bucket = %v, want %v", c, Blue)
	}
}
