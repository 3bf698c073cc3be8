// Package page turns a photo into a coloring page: a desaturated base with
// inked edges for display, and the boundary mask that keeps fills inside the
// lines. Both come from the same edge map, so their pixels line up exactly.
package page

import (
	"fmt"
	"image"
	"math"

	"golang.org/x/image/draw"

	"github.com/Ramstar757/TracerStar/internal/detection"
	"github.com/Ramstar757/TracerStar/internal/logging"
	"github.com/Ramstar757/TracerStar/internal/pixel"
)

// Options configures page generation.
type Options struct {
	// MaxDimension caps the longer side of the page in pixels. Images are
	// never upscaled. 0 disables downscaling. Default: 1600.
	MaxDimension int

	// Orientation is the EXIF orientation tag of the photo (1–8).
	// Default: 1 (upright).
	Orientation int

	// Saturation, Contrast and Brightness shape the faded base layer.
	// Saturation 0 is gray, 1 keeps the photo's colors. Brightness is added
	// as a fraction of full scale. Defaults: 0.25, 0.85, 0.2.
	Saturation float64
	Contrast   float64
	Brightness float64

	// InkContrast steepens the inverted edge layer into dark lines on white.
	// Default: 2.5.
	InkContrast float64

	// Mask tunes edge detection and boundary mask derivation.
	Mask detection.Options
}

// DefaultOptions returns the tuned page generation settings.
func DefaultOptions() Options {
	return Options{
		MaxDimension: 1600,
		Orientation:  1,
		Saturation:   0.25,
		Contrast:     0.85,
		Brightness:   0.2,
		InkContrast:  2.5,
		Mask:         detection.DefaultOptions(),
	}
}

// Page is a generated coloring page.
type Page struct {
	Display *pixel.Buffer   // opaque ink-on-paper image
	Mask    *detection.Mask // boundary mask, same dimensions as Display
	Edges   *image.Gray     // edge map both were derived from
}

// Size returns the canonical canvas size of the page.
func (p *Page) Size() image.Point {
	return p.Display.Size()
}

// Generate builds a coloring page from photo. It holds no shared state and
// may run on any goroutine.
func Generate(photo image.Image, opts Options) (*Page, error) {
	if photo == nil {
		return nil, fmt.Errorf("photo is nil")
	}
	if photo.Bounds().Empty() {
		return nil, fmt.Errorf("photo is empty")
	}
	log := logging.Logger()

	upright := Orient(photo, opts.Orientation)
	paper := flatten(downscale(upright.Image(), opts.MaxDimension))
	log.Debug("page: normalized photo",
		"srcWidth", photo.Bounds().Dx(), "srcHeight", photo.Bounds().Dy(),
		"width", paper.Width, "height", paper.Height)

	edges := detection.EdgeMap(paper.Image(), opts.Mask.Intensity)
	display := pixel.New(paper.Width, paper.Height)

	for y := 0; y < paper.Height; y++ {
		for x := 0; x < paper.Width; x++ {
			i := paper.Offset(x, y)
			r, g, b := adjustBase(paper.Pix[i], paper.Pix[i+1], paper.Pix[i+2], opts)
			ink := inkLevel(edges.Pix[y*edges.Stride+x], opts.InkContrast)

			display.Pix[i+0] = multiply(r, ink)
			display.Pix[i+1] = multiply(g, ink)
			display.Pix[i+2] = multiply(b, ink)
			display.Pix[i+3] = 255
		}
	}

	mask := detection.MaskFromEdges(edges, opts.Mask)
	return &Page{Display: display, Mask: mask, Edges: edges}, nil
}

// downscale shrinks img so its longer side is at most maxDim.
func downscale(img *image.RGBA, maxDim int) *image.RGBA {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	longer := w
	if h > longer {
		longer = h
	}
	if maxDim <= 0 || longer <= maxDim {
		return img
	}
	scale := float64(maxDim) / float64(longer)
	nw := int(math.Max(1, math.Round(float64(w)*scale)))
	nh := int(math.Max(1, math.Round(float64(h)*scale)))

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

// flatten composites img over white paper so transparent photos read as
// blank paper rather than black.
func flatten(img *image.RGBA) *pixel.Buffer {
	b := pixel.New(img.Rect.Dx(), img.Rect.Dy())
	for i := range b.Pix {
		b.Pix[i] = 255
	}
	draw.Draw(b.Image(), b.Image().Bounds(), img, img.Rect.Min, draw.Over)
	return b
}

func adjustBase(r, g, b uint8, opts Options) (uint8, uint8, uint8) {
	lum := (30*float64(r) + 59*float64(g) + 11*float64(b)) / 100
	adjust := func(c uint8) uint8 {
		v := lum + opts.Saturation*(float64(c)-lum)
		v = (v-128)*opts.Contrast + 128
		v += opts.Brightness * 255
		return clamp255(v)
	}
	return adjust(r), adjust(g), adjust(b)
}

// inkLevel inverts an edge value into ink: 255 is bare paper, 0 solid line.
func inkLevel(edge uint8, contrast float64) uint8 {
	inv := 255 - float64(edge)
	return clamp255((inv-128)*contrast + 128)
}

func multiply(c, ink uint8) uint8 {
	return uint8((uint32(c)*uint32(ink) + 127) / 255)
}

func clamp255(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
