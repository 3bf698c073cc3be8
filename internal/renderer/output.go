// Package renderer flattens a page and its paint overlay into images for
// display and export.
package renderer

import (
	"image"

	"golang.org/x/image/draw"

	"github.com/Ramstar757/TracerStar/internal/color"
	"github.com/Ramstar757/TracerStar/internal/detection"
	"github.com/Ramstar757/TracerStar/internal/pixel"
)

// Config holds rendering configuration.
type Config struct {
	Paper color.RGBA // drawn under the base so exports are opaque
}

// DefaultConfig returns sensible default rendering configuration.
func DefaultConfig() Config {
	return Config{Paper: color.White}
}

// Composite draws overlay over base on white paper.
func Composite(base, overlay *pixel.Buffer) *image.RGBA {
	return Render(base, overlay, DefaultConfig())
}

// Render draws overlay over base over cfg.Paper. The output takes the size of
// base, or of overlay when base is nil; an overlay of another size is
// anchored at the origin and clipped. It returns nil when both are nil.
func Render(base, overlay *pixel.Buffer, cfg Config) *image.RGBA {
	size := base.Size()
	if base == nil {
		size = overlay.Size()
	}
	if size.X <= 0 || size.Y <= 0 {
		return nil
	}

	out := image.NewRGBA(image.Rect(0, 0, size.X, size.Y))
	paper := image.NewUniform(cfg.Paper.ToStdColor())
	draw.Draw(out, out.Bounds(), paper, image.Point{}, draw.Src)
	if base != nil {
		draw.Draw(out, out.Bounds(), base.Image(), image.Point{}, draw.Over)
	}
	if overlay != nil {
		draw.Draw(out, out.Bounds(), overlay.Image(), image.Point{}, draw.Over)
	}
	return out
}

// MaskImage renders a boundary mask as grayscale: white where the mask is
// impassable, black elsewhere. It returns nil for an empty mask.
func MaskImage(m *detection.Mask) *image.Gray {
	if m.Empty() {
		return nil
	}
	img := image.NewGray(image.Rect(0, 0, m.Width, m.Height))
	for y := 0; y < m.Height; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+m.Width]
		for x := range row {
			if m.At(x, y) {
				row[x] = 255
			}
		}
	}
	return img
}

// OverlayImage returns the overlay as a standalone image with straight
// alpha, suitable for saving as a transparent PNG.
func OverlayImage(overlay *pixel.Buffer) *image.NRGBA {
	if !overlay.Valid() {
		return nil
	}
	out := image.NewNRGBA(image.Rect(0, 0, overlay.Width, overlay.Height))
	draw.Draw(out, out.Bounds(), overlay.Image(), image.Point{}, draw.Src)
	return out
}
