// Package theme holds the reader's color handling and theme state.
//
// Colors are 32-bit ARGB values as used in Android color resources. The theme
// itself is an immutable State value: changing it means applying an Event and
// keeping the State that comes back.
package theme

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/FocuswithJustin/JuniperReader/core/errors"
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Color is an ARGB color, 8 bits per channel.
type Color uint32

// Common colors.
const (
	Black Color = 0xFF000000
	White Color = 0xFFFFFFFF
)

// ARGB builds a color from its channels.
func ARGB(a, r, g, b uint8) Color {
	return Color(uint32(a)<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b))
}

// RGB builds an opaque color.
func RGB(r, g, b uint8) Color {
	return ARGB(0xFF, r, g, b)
}

func (c Color) A() uint8 { return uint8(c >> 24) }
func (c Color) R() uint8 { return uint8(c >> 16) }
func (c Color) G() uint8 { return uint8(c >> 8) }
func (c Color) B() uint8 { return uint8(c) }

// WithAlpha returns c with its alpha channel replaced.
func (c Color) WithAlpha(a uint8) Color {
	return ARGB(a, c.R(), c.G(), c.B())
}

// ParseHex parses "#RGB", "#RRGGBB" or "#AARRGGBB". The leading '#' is optional.
func ParseHex(s string) (Color, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	switch len(h) {
	case 3:
		h = "FF" + string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	case 6:
		h = "FF" + h
	case 8:
	default:
		return 0, errors.NewParse("color", s, "expected #RGB, #RRGGBB or #AARRGGBB")
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return 0, errors.NewParse("color", s, "invalid hex digits")
	}
	return Color(v), nil
}

// Hex formats c as "#RRGGBB", or "#AARRGGBB" when it is not opaque.
func (c Color) Hex() string {
	if c.A() == 0xFF {
		return fmt.Sprintf("#%02X%02X%02X", c.R(), c.G(), c.B())
	}
	return fmt.Sprintf("#%08X", uint32(c))
}

func (c Color) String() string { return c.Hex() }

func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.Hex()), nil
}

func (c *Color) UnmarshalText(b []byte) error {
	v, err := ParseHex(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// Lipgloss converts c for terminal styling. Alpha is dropped.
func (c Color) Lipgloss() lipgloss.Color {
	return lipgloss.Color(c.WithAlpha(0xFF).Hex())
}

// HSV is hue in degrees [0, 360), saturation and value in [0, 1].
type HSV struct {
	H float64 `json:"h"`
	S float64 `json:"s"`
	V float64 `json:"v"`
}

// HSV converts c, ignoring alpha.
func (c Color) HSV() HSV {
	h, sat, v := c.colorful().Hsv()
	return HSV{H: h, S: sat, V: v}
}

// FromHSV converts back to a color with the given alpha. Out-of-range
// components are clamped and hue wraps around.
func FromHSV(hsv HSV, alpha uint8) Color {
	h := math.Mod(hsv.H, 360)
	if h < 0 {
		h += 360
	}
	return fromColorful(colorful.Hsv(h, clamp01(hsv.S), clamp01(hsv.V)), alpha)
}

// Lighten raises the HSV value by amount (0..1).
func (c Color) Lighten(amount float64) Color {
	hsv := c.HSV()
	hsv.V += amount
	return FromHSV(hsv, c.A())
}

// Darken lowers the HSV value by amount (0..1).
func (c Color) Darken(amount float64) Color {
	return c.Lighten(-amount)
}

// Luminance is the WCAG relative luminance of c.
func (c Color) Luminance() float64 {
	r, g, b := c.colorful().LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b
}

// ContrastRatio is the WCAG contrast ratio between two colors, 1 to 21.
func ContrastRatio(a, b Color) float64 {
	la, lb := a.Luminance(), b.Luminance()
	if la < lb {
		la, lb = lb, la
	}
	return (la + 0.05) / (lb + 0.05)
}

// Contrast returns black or white, whichever reads better on c.
func (c Color) Contrast() Color {
	if ContrastRatio(c, Black) >= ContrastRatio(c, White) {
		return Black
	}
	return White
}

// Swatches returns n colors evenly spaced around the hue wheel at the given
// saturation and value, starting from red.
func Swatches(n int, s, v float64) []Color {
	if n <= 0 {
		return nil
	}
	out := make([]Color, n)
	for i := range out {
		out[i] = FromHSV(HSV{H: 360 * float64(i) / float64(n), S: s, V: v}, 0xFF)
	}
	return out
}

func clamp01(f float64) float64 {
	return math.Max(0, math.Min(1, f))
}

func (c Color) colorful() colorful.Color {
	return colorful.Color{
		R: float64(c.R()) / 255,
		G: float64(c.G()) / 255,
		B: float64(c.B()) / 255,
	}
}

func fromColorful(col colorful.Color, alpha uint8) Color {
	r, g, b := col.Clamped().RGB255()
	return ARGB(alpha, r, g, b)
}
