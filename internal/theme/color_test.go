package theme

import (
	"math"
	"testing"

	"github.com/FocuswithJustin/JuniperReader/core/errors"
)

func TestParseHex(t *testing.T) {
	tests := []struct {
		in      string
		want    Color
		wantErr bool
	}{
		{"#FF8D6E63", 0xFF8D6E63, false},
		{"#8D6E63", 0xFF8D6E63, false},
		{"8d6e63", 0xFF8D6E63, false},
		{"#fff", White, false},
		{"#80000000", 0x80000000, false},
		{" #000000 ", Black, false},
		{"#12345", 0, true},
		{"#GGGGGG", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseHex(tt.in)
			if tt.wantErr {
				if !errors.Is(err, errors.ErrInvalidInput) {
					t.Errorf("ParseHex(%q) error = %v, want ErrInvalidInput", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseHex(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseHex(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestHex(t *testing.T) {
	if got := RGB(0x8D, 0x6E, 0x63).Hex(); got != "#8D6E63" {
		t.Errorf("Hex() = %q", got)
	}
	if got := ARGB(0x80, 0, 0, 0).Hex(); got != "#80000000" {
		t.Errorf("Hex() translucent = %q", got)
	}
	c := ARGB(1, 2, 3, 4)
	if c.A() != 1 || c.R() != 2 || c.G() != 3 || c.B() != 4 {
		t.Errorf("channels of %s wrong", c)
	}
}

func TestHSVKnownValues(t *testing.T) {
	tests := []struct {
		c    Color
		want HSV
	}{
		{RGB(255, 0, 0), HSV{0, 1, 1}},
		{RGB(0, 255, 0), HSV{120, 1, 1}},
		{RGB(0, 0, 255), HSV{240, 1, 1}},
		{RGB(255, 0, 255), HSV{300, 1, 1}},
		{Black, HSV{0, 0, 0}},
		{White, HSV{0, 0, 1}},
	}
	for _, tt := range tests {
		if got := tt.c.HSV(); got != tt.want {
			t.Errorf("%s.HSV() = %+v, want %+v", tt.c, got, tt.want)
		}
	}
}

func TestHSVRoundTrip(t *testing.T) {
	diff := func(a, b uint8) int {
		d := int(a) - int(b)
		if d < 0 {
			return -d
		}
		return d
	}
	for r := 0; r < 256; r += 15 {
		for g := 0; g < 256; g += 15 {
			for b := 0; b < 256; b += 15 {
				c := ARGB(0x7F, uint8(r), uint8(g), uint8(b))
				back := FromHSV(c.HSV(), c.A())
				if diff(c.R(), back.R()) > 1 || diff(c.G(), back.G()) > 1 || diff(c.B(), back.B()) > 1 || back.A() != 0x7F {
					t.Fatalf("round trip %s -> %+v -> %s", c, c.HSV(), back)
				}
			}
		}
	}
}

func TestFromHSVClamps(t *testing.T) {
	if got := FromHSV(HSV{H: 360, S: 1, V: 1}, 0xFF); got != RGB(255, 0, 0) {
		t.Errorf("hue 360 = %s, want red", got)
	}
	if got := FromHSV(HSV{H: -120, S: 1, V: 1}, 0xFF); got != RGB(0, 0, 255) {
		t.Errorf("hue -120 = %s, want blue", got)
	}
	if got := FromHSV(HSV{H: 0, S: 0, V: 2}, 0xFF); got != White {
		t.Errorf("value 2 = %s, want white", got)
	}
}

func TestLightenDarken(t *testing.T) {
	c := RGB(100, 50, 25)
	if l := c.Lighten(0.2); l.HSV().V <= c.HSV().V {
		t.Errorf("Lighten did not raise value: %s -> %s", c, l)
	}
	if d := c.Darken(0.2); d.HSV().V >= c.HSV().V {
		t.Errorf("Darken did not lower value: %s -> %s", c, d)
	}
	if got := c.Darken(5); got != Black {
		t.Errorf("Darken(5) = %s, want black", got)
	}
	if got := c.WithAlpha(0x40).Lighten(0.1).A(); got != 0x40 {
		t.Errorf("Lighten changed alpha to %#x", got)
	}
}

func TestContrast(t *testing.T) {
	if got := ContrastRatio(Black, White); got < 20.9 || got > 21.1 {
		t.Errorf("ContrastRatio(black, white) = %f, want 21", got)
	}
	if got := ContrastRatio(White, White); got != 1 {
		t.Errorf("ContrastRatio(white, white) = %f, want 1", got)
	}
	tests := []struct {
		bg   Color
		want Color
	}{
		{White, Black},
		{RGB(0xFF, 0xEB, 0x3B), Black},
		{RGB(0x1A, 0x23, 0x7E), White},
		{Black, White},
	}
	for _, tt := range tests {
		if got := tt.bg.Contrast(); got != tt.want {
			t.Errorf("%s.Contrast() = %s, want %s", tt.bg, got, tt.want)
		}
	}
}

func TestSwatches(t *testing.T) {
	sw := Swatches(6, 1, 1)
	want := []Color{
		RGB(255, 0, 0), RGB(255, 255, 0), RGB(0, 255, 0),
		RGB(0, 255, 255), RGB(0, 0, 255), RGB(255, 0, 255),
	}
	if len(sw) != len(want) {
		t.Fatalf("len = %d", len(sw))
	}
	for i := range want {
		if sw[i] != want[i] {
			t.Errorf("swatch %d = %s, want %s", i, sw[i], want[i])
		}
	}
	if Swatches(0, 1, 1) != nil {
		t.Error("Swatches(0) should be nil")
	}
}

func TestColorText(t *testing.T) {
	var c Color
	if err := c.UnmarshalText([]byte("#3949AB")); err != nil {
		t.Fatal(err)
	}
	b, _ := c.MarshalText()
	if string(b) != "#3949AB" {
		t.Errorf("MarshalText() = %s", b)
	}
	if err := c.UnmarshalText([]byte("nope")); err == nil {
		t.Error("UnmarshalText(nope) should fail")
	}
	if got := string(RGB(1, 2, 3).Lipgloss()); got != "#010203" {
		t.Errorf("Lipgloss() = %q", got)
	}
}

func TestLuminance(t *testing.T) {
	tests := []struct {
		c    Color
		want float64
	}{
		{Black, 0},
		{White, 1},
		{RGB(128, 128, 128), 0.2159},
		{RGB(255, 0, 0), 0.2126},
		{RGB(0, 137, 123), 0.1932},
	}
	for _, tt := range tests {
		if got := tt.c.Luminance(); math.Abs(got-tt.want) > 1e-3 {
			t.Errorf("%s.Luminance() = %.4f, want %.4f", tt.c, got, tt.want)
		}
	}
}

func TestHSVRoundTripGrid(t *testing.T) {
	for r := 0; r < 256; r += 17 {
		for g := 0; g < 256; g += 17 {
			for b := 0; b < 256; b += 17 {
				c := ARGB(0x80, uint8(r), uint8(g), uint8(b))
				got := FromHSV(c.HSV(), 0x80)
				if absDiff(got.R(), c.R()) > 1 || absDiff(got.G(), c.G()) > 1 || absDiff(got.B(), c.B()) > 1 {
					t.Fatalf("round trip %s -> %+v -> %s", c, c.HSV(), got)
				}
				if got.A() != 0x80 {
					t.Fatalf("round trip lost alpha: %s", got)
				}
			}
		}
	}
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
