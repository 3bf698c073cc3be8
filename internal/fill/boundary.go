package fill

import (
	"github.com/Ramstar757/TracerStar/internal/color"
	"github.com/Ramstar757/TracerStar/internal/detection"
	"github.com/Ramstar757/TracerStar/internal/logging"
	"github.com/Ramstar757/TracerStar/internal/pixel"
)

// MaskBoundary looks boundaries up in a precomputed mask. An empty mask
// carries no boundary information, so the canvas is treated as open.
func MaskBoundary(m *detection.Mask) Boundary {
	if m.Empty() {
		logging.Logger().Debug("fill: empty boundary mask, canvas treated as open")
		return NoBoundary
	}
	return m.At
}

// NewMaskEngine returns the precise fill used on photo pages.
func NewMaskEngine(m *detection.Mask) *Engine {
	return &Engine{
		Boundary:  MaskBoundary(m),
		Tolerance: DefaultTolerance,
		MaxPixels: DefaultMaxPixels,
	}
}

// BaseImageOptions configures boundary detection by sampling the base image.
type BaseImageOptions struct {
	// BoundaryColor is the line-art color. Default: opaque black.
	BoundaryColor color.RGBA

	// BoundaryTolerance is the per-channel tolerance for matching
	// BoundaryColor. Default: 40.
	BoundaryTolerance int

	// ShrinkRadius keeps paint this many pixels away from the line art so no
	// halo of fill color hugs the lines. 0 disables. Default: 1.
	ShrinkRadius int

	// Tolerance and MaxPixels configure the fill itself.
	Tolerance int
	MaxPixels int
}

// DefaultBaseImageOptions returns the looser settings used for line-art
// pages.
func DefaultBaseImageOptions() BaseImageOptions {
	return BaseImageOptions{
		BoundaryColor:     color.Black,
		BoundaryTolerance: 40,
		ShrinkRadius:      1,
		Tolerance:         DefaultTolerance,
		MaxPixels:         DefaultBaseImageMaxPixels,
	}
}

// BaseImageBoundary samples base live: a pixel is a boundary when any pixel
// in its (2r+1)×(2r+1) neighborhood matches the boundary color. A nil base
// yields an open canvas.
func BaseImageBoundary(base *pixel.Buffer, opts BaseImageOptions) Boundary {
	if !base.Valid() {
		logging.Logger().Debug("fill: base image unavailable, canvas treated as open")
		return NoBoundary
	}
	line := opts.BoundaryColor.Premultiply()
	r := opts.ShrinkRadius
	if r < 0 {
		r = 0
	}
	return func(x, y int) bool {
		for ny := y - r; ny <= y+r; ny++ {
			for nx := x - r; nx <= x+r; nx++ {
				if !base.In(nx, ny) {
					continue
				}
				if color.Within(base.At(nx, ny), line, opts.BoundaryTolerance) {
					return true
				}
			}
		}
		return false
	}
}

// NewBaseImageEngine returns the fill used on line-art pages, bounded by the
// base image's line color.
func NewBaseImageEngine(base *pixel.Buffer, opts BaseImageOptions) *Engine {
	return &Engine{
		Boundary:  BaseImageBoundary(base, opts),
		Tolerance: opts.Tolerance,
		MaxPixels: opts.MaxPixels,
	}
}
