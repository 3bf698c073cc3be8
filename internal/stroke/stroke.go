// Package stroke draws brush segments into an overlay buffer.
//
// Each call renders one round-capped segment into a copy of the overlay, so a
// multi-segment stroke is built by calling Draw once per pointer move with
// the previous point as From. Consecutive round caps produce round joins.
package stroke

import (
	"image"
	"math"

	"golang.org/x/image/math/f32"

	"github.com/Ramstar757/TracerStar/internal/color"
	"github.com/Ramstar757/TracerStar/internal/pixel"
)

// Tuning constants.
const (
	// HueCycleLength is the distance in pixels for one full trip around the
	// hue wheel in Rainbow mode.
	HueCycleLength = 260.0

	// RainbowSaturation and RainbowValue pick the rainbow colors.
	RainbowSaturation = 0.85
	RainbowValue      = 1.0

	// GlowWidthFactor and GlowOpacityFactor size the halo behind Glow and
	// Rainbow strokes relative to the main pass.
	GlowWidthFactor   = 2.0
	GlowOpacityFactor = 0.3

	// copyThreshold is the coverage from which Copy replaces a pixel.
	copyThreshold = 128
)

// Stroke is one segment of a brush stroke in pixel space.
type Stroke struct {
	From, To f32.Vec2
	Color    color.RGBA // straight alpha; ignored by Erase and Rainbow
	Width    float32    // diameter in pixels
	Opacity  float64    // clamped to [color.MinOpacity, 1]
	Mode     Mode
	Phase    float64 // rainbow hue phase in [0, 1)
}

// Draw renders s into a copy of overlay and returns the copy. size is the
// canvas size; a nil overlay is treated as a transparent buffer of that
// size. Pixels outside the canvas are clipped.
//
// The input overlay is returned unchanged when the canvas size is not
// positive, the overlay does not match it, the width is not positive, a
// coordinate is not finite, or the segment lies entirely off the canvas.
func Draw(overlay *pixel.Buffer, size image.Point, s Stroke) *pixel.Buffer {
	if size.X <= 0 || size.Y <= 0 {
		return overlay
	}
	if overlay != nil && overlay.Size() != size {
		return overlay
	}
	if !(s.Width > 0) || !finite(s.From) || !finite(s.To) || math.IsInf(float64(s.Width), 0) {
		return overlay
	}
	radius := s.Width / 2
	if s.Mode == Glow || s.Mode == Rainbow {
		radius *= GlowWidthFactor
	}
	if segmentBounds(s.From, s.To, radius, size).Empty() {
		return overlay
	}

	out := overlay.Clone()
	if out == nil {
		out = pixel.New(size.X, size.Y)
	}

	switch s.Mode {
	case Erase:
		cov, r := coverage(s.From, s.To, s.Width/2, size)
		composite(out, cov, r, func(px []uint8, c uint32) {
			inv := 255 - c
			px[0] = uint8(mul255(uint32(px[0]), inv))
			px[1] = uint8(mul255(uint32(px[1]), inv))
			px[2] = uint8(mul255(uint32(px[2]), inv))
			px[3] = uint8(mul255(uint32(px[3]), inv))
		})
	case Copy:
		paint := s.Color.WithOpacity(s.Opacity).Premultiply()
		cov, r := coverage(s.From, s.To, s.Width/2, size)
		composite(out, cov, r, func(px []uint8, c uint32) {
			if c >= copyThreshold {
				px[0], px[1], px[2], px[3] = paint.R, paint.G, paint.B, paint.A
			}
		})
	case Rainbow:
		hue := color.Hue(s.Phase, RainbowSaturation, RainbowValue)
		drawGlow(out, size, s, hue)
	case Glow:
		drawGlow(out, size, s, s.Color)
	default:
		drawOver(out, size, s.From, s.To, s.Width/2, s.Color.WithOpacity(s.Opacity))
	}
	return out
}

// AdvancePhase moves a rainbow hue phase forward by the distance from
// from to to, wrapping into [0, 1). Zero distance leaves the phase alone.
func AdvancePhase(phase float64, from, to f32.Vec2) float64 {
	dx := float64(to[0] - from[0])
	dy := float64(to[1] - from[1])
	p := phase + math.Hypot(dx, dy)/HueCycleLength
	return p - math.Floor(p)
}

// drawGlow paints a faint wide halo and the main stroke over it.
func drawGlow(out *pixel.Buffer, size image.Point, s Stroke, c color.RGBA) {
	opacity := color.ClampOpacity(s.Opacity)
	halo := c
	halo.A = uint8(math.Round(float64(c.A) * opacity * GlowOpacityFactor))
	drawOver(out, size, s.From, s.To, s.Width/2*GlowWidthFactor, halo)
	drawOver(out, size, s.From, s.To, s.Width/2, c.WithOpacity(opacity))
}

// drawOver source-over composites a straight-alpha color under the capsule.
func drawOver(out *pixel.Buffer, size image.Point, from, to f32.Vec2, radius float32, c color.RGBA) {
	paint := c.Premultiply()
	cov, r := coverage(from, to, radius, size)
	composite(out, cov, r, func(px []uint8, cv uint32) {
		sa := mul255(uint32(paint.A), cv)
		inv := 255 - sa
		px[0] = uint8(mul255(uint32(paint.R), cv) + mul255(uint32(px[0]), inv))
		px[1] = uint8(mul255(uint32(paint.G), cv) + mul255(uint32(px[1]), inv))
		px[2] = uint8(mul255(uint32(paint.B), cv) + mul255(uint32(px[2]), inv))
		px[3] = uint8(sa + mul255(uint32(px[3]), inv))
	})
}

// composite calls blend for every overlay pixel with non-zero coverage.
// cov is in local coordinates with its origin at r.Min.
func composite(out *pixel.Buffer, cov *image.Alpha, r image.Rectangle, blend func(px []uint8, c uint32)) {
	if cov == nil {
		return
	}
	for ly := 0; ly < r.Dy(); ly++ {
		row := cov.Pix[ly*cov.Stride : ly*cov.Stride+r.Dx()]
		for lx, c := range row {
			if c == 0 {
				continue
			}
			i := out.Offset(r.Min.X+lx, r.Min.Y+ly)
			blend(out.Pix[i:i+4:i+4], uint32(c))
		}
	}
}

func mul255(a, b uint32) uint32 {
	return (a*b + 127) / 255
}

func finite(v f32.Vec2) bool {
	for _, c := range v {
		f := float64(c)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}
