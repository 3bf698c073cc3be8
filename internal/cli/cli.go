package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Ramstar757/TracerStar/internal/page"
)

// Config holds the parsed CLI arguments.
type Config struct {
	InPath        string
	OutPath       string
	MaskOutPath   string // optional
	MaxDimension  int
	EdgeIntensity float64
	EdgeThreshold int
	DilateRadius  int
	Verbose       bool
}

// PageOptions maps the flags onto page generation options.
func (c Config) PageOptions() page.Options {
	opts := page.DefaultOptions()
	opts.MaxDimension = c.MaxDimension
	opts.Mask.Intensity = c.EdgeIntensity
	opts.Mask.Threshold = c.EdgeThreshold
	opts.Mask.DilateRadius = c.DilateRadius
	return opts
}

// Parse parses the process arguments and returns a validated Config.
func Parse() (Config, error) {
	return ParseArgs(os.Args[1:], os.Stderr)
}

// ParseArgs parses args and returns a validated Config. Usage and flag
// errors are written to stderr.
func ParseArgs(args []string, stderr io.Writer) (Config, error) {
	defaults := page.DefaultOptions()
	fs := flag.NewFlagSet("tracerstar", flag.ContinueOnError)
	fs.SetOutput(stderr)

	inPath := fs.String("in", "", "Path to input photo (required, supports PNG, JPEG, WEBP, BMP, TIFF)")
	outPath := fs.String("out", "", "Path to generated coloring page (required, must be .png)")
	maskOut := fs.String("mask-out", "", "Optional path for the boundary mask (white = line, must be .png)")
	maxDim := fs.Int("max-dimension", defaults.MaxDimension, "Longest side of the page in pixels (0 = keep photo size)")
	intensity := fs.Float64("edge-intensity", defaults.Mask.Intensity, "Multiplier applied to edge strength")
	threshold := fs.Int("edge-threshold", defaults.Mask.Threshold, "Edge luminance above which a pixel is a boundary (0-255)")
	dilate := fs.Int("dilate-radius", defaults.Mask.DilateRadius, "Boundary thickening radius in pixels")
	verbose := fs.Bool("verbose", false, "Log pipeline progress to stderr")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: tracerstar [options]\n\nOptions:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExample:\n  tracerstar --in=photo.jpg --out=page.png --mask-out=mask.png --max-dimension=1200\n")
	}

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if *inPath == "" {
		return Config{}, fmt.Errorf("--in is required")
	}
	if *outPath == "" {
		return Config{}, fmt.Errorf("--out is required")
	}
	if ext := strings.ToLower(filepath.Ext(*outPath)); ext != ".png" {
		return Config{}, fmt.Errorf("--out must be a .png file, got %q", ext)
	}
	if *maskOut != "" {
		if ext := strings.ToLower(filepath.Ext(*maskOut)); ext != ".png" {
			return Config{}, fmt.Errorf("--mask-out must be a .png file, got %q", ext)
		}
	}
	if *maxDim < 0 {
		return Config{}, fmt.Errorf("--max-dimension must be >= 0, got %d", *maxDim)
	}
	if *intensity <= 0 {
		return Config{}, fmt.Errorf("--edge-intensity must be > 0, got %g", *intensity)
	}
	if *threshold < 0 || *threshold > 255 {
		return Config{}, fmt.Errorf("--edge-threshold must be between 0 and 255, got %d", *threshold)
	}
	if *dilate < 0 {
		return Config{}, fmt.Errorf("--dilate-radius must be >= 0, got %d", *dilate)
	}

	return Config{
		InPath:        *inPath,
		OutPath:       *outPath,
		MaskOutPath:   *maskOut,
		MaxDimension:  *maxDim,
		EdgeIntensity: *intensity,
		EdgeThreshold: *threshold,
		DilateRadius:  *dilate,
		Verbose:       *verbose,
	}, nil
}
