package color

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// MinOpacity is the floor applied to every brush opacity so that a fully
// transparent brush can never be selected by accident.
const MinOpacity = 0.05

// RGBA represents a color with 8-bit components and straight (not
// premultiplied) alpha.
type RGBA struct {
	R, G, B, A uint8
}

// Common colors.
var (
	Transparent = RGBA{}
	Black       = RGBA{0, 0, 0, 255}
	White       = RGBA{255, 255, 255, 255}
)

// FromStdColor converts a standard library color to straight-alpha RGBA.
func FromStdColor(c color.Color) RGBA {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return RGBA{R: n.R, G: n.G, B: n.B, A: n.A}
}

// ToStdColor converts RGBA to a standard library color.
func (c RGBA) ToStdColor() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// Premultiply returns the color with R, G and B scaled by alpha, the layout
// stored in pixel buffers.
func (c RGBA) Premultiply() RGBA {
	if c.A == 255 {
		return c
	}
	a := uint32(c.A)
	return RGBA{
		R: uint8((uint32(c.R)*a + 127) / 255),
		G: uint8((uint32(c.G)*a + 127) / 255),
		B: uint8((uint32(c.B)*a + 127) / 255),
		A: c.A,
	}
}

// WithOpacity scales alpha by the clamped opacity.
func (c RGBA) WithOpacity(opacity float64) RGBA {
	c.A = uint8(math.Round(float64(c.A) * ClampOpacity(opacity)))
	return c
}

// ClampOpacity clamps opacity to [MinOpacity, 1]. NaN counts as fully opaque.
func ClampOpacity(opacity float64) float64 {
	switch {
	case math.IsNaN(opacity), opacity > 1:
		return 1
	case opacity < MinOpacity:
		return MinOpacity
	}
	return opacity
}

// Luminance returns the integer luma (30R + 59G + 11B) / 100.
func (c RGBA) Luminance() int {
	return (30*int(c.R) + 59*int(c.G) + 11*int(c.B)) / 100
}

// Within reports whether every channel of a and b differs by at most tol.
func Within(a, b RGBA, tol int) bool {
	return absDiff(a.R, b.R) <= tol &&
		absDiff(a.G, b.G) <= tol &&
		absDiff(a.B, b.B) <= tol &&
		absDiff(a.A, b.A) <= tol
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

// Hue returns the opaque color at the given position on the hue wheel.
// phase is wrapped into [0, 1).
func Hue(phase, saturation, value float64) RGBA {
	phase -= math.Floor(phase)
	r, g, b := colorful.Hsv(phase*360, saturation, value).RGB255()
	return RGBA{R: r, G: g, B: b, A: 255}
}

// ParseHex parses a hex color string like "#000", "#000000", "#FF00FF" or
// "#FF00FF80" (with alpha).
func ParseHex(s string) (RGBA, error) {
	s = strings.TrimPrefix(s, "#")
	var r, g, b uint8
	a := uint8(255)
	switch len(s) {
	case 3:
		_, err := fmt.Sscanf(s, "%1x%1x%1x", &r, &g, &b)
		if err != nil {
			return RGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
		}
		r = r*16 + r
		g = g*16 + g
		b = b*16 + b
	case 6:
		_, err := fmt.Sscanf(s, "%02x%02x%02x", &r, &g, &b)
		if err != nil {
			return RGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
		}
	case 8:
		_, err := fmt.Sscanf(s, "%02x%02x%02x%02x", &r, &g, &b, &a)
		if err != nil {
			return RGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
		}
	default:
		return RGBA{}, fmt.Errorf("invalid hex color %q: must be 3, 6 or 8 hex digits", s)
	}
	return RGBA{R: r, G: g, B: b, A: a}, nil
}

// Hex formats the color as "#RRGGBBAA".
func (c RGBA) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}
