// Package tracerstar turns photos into coloring pages and paints on them.
//
// A coloring page is a faded, ink-lined version of the photo plus a boundary
// mask. The mask keeps bucket fills inside the lines; brushes paint onto a
// transparent overlay with undo history.
//
// Usage as a library:
//
//	img, _ := tracerstar.LoadImage("photo.jpg")
//	page, _ := tracerstar.Generate(img, tracerstar.DefaultOptions())
//	tracerstar.SavePNG("page.png", page.Display)
//
// Or use the file-based convenience:
//
//	err := tracerstar.GenerateFile("photo.jpg", "page.png", "mask.png", tracerstar.DefaultOptions())
//
// Painting happens on a Document:
//
//	doc, _ := tracerstar.NewDocument(img, tracerstar.DefaultOptions())
//	doc.Fill(image.Pt(40, 60), tracerstar.ParseColor("#FF8800"), tracerstar.FillAdult)
package tracerstar

import (
	"fmt"
	"image"
	"log/slog"

	"github.com/Ramstar757/TracerStar/internal/canvas"
	"github.com/Ramstar757/TracerStar/internal/color"
	"github.com/Ramstar757/TracerStar/internal/imaging"
	"github.com/Ramstar757/TracerStar/internal/logging"
	"github.com/Ramstar757/TracerStar/internal/page"
	"github.com/Ramstar757/TracerStar/internal/pipeline"
	"github.com/Ramstar757/TracerStar/internal/renderer"
	"github.com/Ramstar757/TracerStar/internal/stroke"
)

// Options configures page generation.
type Options struct {
	// MaxDimension caps the longer side of the page in pixels. Photos are
	// never upscaled. 0 keeps the photo size. Default: 1600.
	MaxDimension int

	// EdgeIntensity multiplies edge strength before thresholding.
	// Default: 1.
	EdgeIntensity float64

	// EdgeThreshold is the edge luminance (0–255) above which a pixel
	// becomes a boundary. Default: 65.
	EdgeThreshold int

	// DilateRadius thickens boundaries to close small gaps. Default: 2.
	DilateRadius int
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() Options {
	d := page.DefaultOptions()
	return Options{
		MaxDimension:  d.MaxDimension,
		EdgeIntensity: d.Mask.Intensity,
		EdgeThreshold: d.Mask.Threshold,
		DilateRadius:  d.Mask.DilateRadius,
	}
}

func (o Options) pageOptions() page.Options {
	p := page.DefaultOptions()
	p.MaxDimension = o.MaxDimension
	p.Mask.Intensity = o.EdgeIntensity
	p.Mask.Threshold = o.EdgeThreshold
	p.Mask.DilateRadius = o.DilateRadius
	return p
}

// Color is an RGBA color with 8-bit components and straight alpha.
type Color = color.RGBA

// ParseColor parses a hex color like "#F80", "#FF8800" or "#FF880080".
// Invalid input yields opaque black.
func ParseColor(hex string) Color {
	c, err := color.ParseHex(hex)
	if err != nil {
		return color.Black
	}
	return c
}

// Page is a generated coloring page.
type Page struct {
	Display *image.RGBA // ink-on-paper image
	Mask    *image.Gray // white where fills stop
}

// Document is a page being painted. All of its methods are safe for
// concurrent use.
type Document = canvas.Document

// FillMode selects the boundary a bucket fill respects.
type FillMode = canvas.FillMode

const (
	FillAdult = canvas.Adult // stop at the boundary mask
	FillKids  = canvas.Kids  // stop short of dark line art
)

// Tool selects how a brush stroke is composited.
type Tool = stroke.Mode

const (
	ToolBrush      = stroke.Normal
	ToolEraser     = stroke.Erase
	ToolWatercolor = stroke.Copy
	ToolRainbow    = stroke.Rainbow
	ToolGlow       = stroke.Glow
)

// StrokeOptions describes the brush used for one gesture.
type StrokeOptions = canvas.StrokeOptions

// SetLogger routes library logs to l. Logging is off by default; passing
// nil turns it off again.
func SetLogger(l *slog.Logger) {
	logging.Set(l)
}

// LoadImage reads a photo from disk and turns it upright according to its
// EXIF orientation. Supports PNG, JPEG, WEBP, BMP and TIFF.
func LoadImage(path string) (image.Image, error) {
	photo, err := imaging.Load(path)
	if err != nil {
		return nil, err
	}
	if photo.Orientation <= 1 {
		return photo.Image, nil
	}
	return page.Orient(photo.Image, photo.Orientation).Image(), nil
}

// SavePNG writes an image to disk as PNG.
func SavePNG(path string, img image.Image) error {
	return imaging.SavePNG(path, img)
}

// Generate builds a coloring page from an upright photo.
func Generate(img image.Image, opts Options) (*Page, error) {
	p, err := page.Generate(img, opts.pageOptions())
	if err != nil {
		return nil, err
	}
	return &Page{
		Display: p.Display.Image(),
		Mask:    renderer.MaskImage(p.Mask),
	}, nil
}

// GenerateFile is a convenience that loads a photo from inPath, generates
// its page and saves it as PNG to outPath. The mask is saved to maskOutPath
// unless it is empty.
func GenerateFile(inPath, outPath, maskOutPath string, opts Options) error {
	if _, err := pipeline.Convert(inPath, outPath, maskOutPath, opts.pageOptions()); err != nil {
		return fmt.Errorf("generating %s: %w", inPath, err)
	}
	return nil
}

// NewDocument generates a page from an upright photo and opens it for
// painting.
func NewDocument(img image.Image, opts Options) (*Document, error) {
	p, err := page.Generate(img, opts.pageOptions())
	if err != nil {
		return nil, err
	}
	return canvas.FromPage(p)
}
