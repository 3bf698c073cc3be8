// Package pipeline converts a photo file into coloring page files.
package pipeline

import (
	"fmt"

	"github.com/Ramstar757/TracerStar/internal/cli"
	"github.com/Ramstar757/TracerStar/internal/imaging"
	"github.com/Ramstar757/TracerStar/internal/logging"
	"github.com/Ramstar757/TracerStar/internal/page"
	"github.com/Ramstar757/TracerStar/internal/renderer"
)

// Run executes the photo-to-page pipeline for the CLI.
func Run(cfg cli.Config) error {
	_, err := Convert(cfg.InPath, cfg.OutPath, cfg.MaskOutPath, cfg.PageOptions())
	return err
}

// Convert loads the photo at inPath, generates its coloring page and writes
// the display image to outPath. When maskOutPath is not empty the boundary
// mask is written there as well. The photo's own EXIF orientation replaces
// opts.Orientation.
func Convert(inPath, outPath, maskOutPath string, opts page.Options) (*page.Page, error) {
	log := logging.Logger()

	// Step 1: Load input photo
	log.Info("loading image", "path", inPath)
	photo, err := imaging.Load(inPath)
	if err != nil {
		return nil, fmt.Errorf("loading image: %w", err)
	}
	b := photo.Image.Bounds()
	log.Info("image loaded", "format", photo.Format,
		"width", b.Dx(), "height", b.Dy(), "orientation", photo.Orientation)

	// Step 2: Generate the page
	opts.Orientation = photo.Orientation
	p, err := page.Generate(photo.Image, opts)
	if err != nil {
		return nil, fmt.Errorf("generating page: %w", err)
	}
	size := p.Size()
	boundary := p.Mask.Count()
	log.Info("page generated", "width", size.X, "height", size.Y,
		"boundaryPixels", boundary,
		"boundaryPct", fmt.Sprintf("%.1f", float64(boundary)/float64(size.X*size.Y)*100))

	// Step 3: Save outputs
	log.Info("saving page", "path", outPath)
	if err := imaging.SavePNG(outPath, p.Display.Image()); err != nil {
		return nil, fmt.Errorf("saving page: %w", err)
	}
	if maskOutPath != "" {
		log.Info("saving mask", "path", maskOutPath)
		if err := imaging.SavePNG(maskOutPath, renderer.MaskImage(p.Mask)); err != nil {
			return nil, fmt.Errorf("saving mask: %w", err)
		}
	}

	log.Info("done")
	return p, nil
}
