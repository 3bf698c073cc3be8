// Package fill implements the region-locked bucket fill.
//
// There is a single stack-based, 4-connected flood fill. What stops it is a
// Boundary predicate: a lookup into a precomputed boundary mask, or live
// sampling of the base image for line-art pages.
package fill

import (
	"image"

	"github.com/Ramstar757/TracerStar/internal/color"
	"github.com/Ramstar757/TracerStar/internal/logging"
	"github.com/Ramstar757/TracerStar/internal/pixel"
)

// Tuned defaults.
const (
	// DefaultTolerance is the per-channel match tolerance for the target
	// region. It is tight so that a partially painted region does not bleed.
	DefaultTolerance = 14

	// DefaultMaxPixels caps a mask-constrained fill.
	DefaultMaxPixels = 450_000

	// DefaultBaseImageMaxPixels caps a fill constrained by base image
	// sampling, which does more work per pixel.
	DefaultBaseImageMaxPixels = 300_000
)

// Boundary reports whether (x, y) is an impassable pixel.
type Boundary func(x, y int) bool

// NoBoundary lets a fill spread across the whole canvas.
func NoBoundary(x, y int) bool { return false }

// Engine runs flood fills against one boundary.
type Engine struct {
	Boundary  Boundary
	Tolerance int // per-channel tolerance for matching the target color
	MaxPixels int // paint at most this many pixels; <= 0 means unlimited
}

// Result is the outcome of a fill.
type Result struct {
	// Overlay is the buffer to install. When the fill was rejected it is the
	// input overlay itself; otherwise it is a new buffer.
	Overlay   *pixel.Buffer
	Painted   int  // pixels written
	Truncated bool // MaxPixels was reached before the region was exhausted
}

// Fill paints the contiguous region around start that matches the overlay
// color at start, stopping at boundary pixels. size is the canvas size;
// a nil overlay is treated as a transparent buffer of that size.
//
// Rejected inputs (bad size, mismatched overlay, start outside the canvas or
// on a boundary, region already the fill color) return the input overlay
// unchanged.
func (e *Engine) Fill(overlay *pixel.Buffer, size image.Point, start image.Point, fillColor color.RGBA) Result {
	log := logging.Logger()
	rejected := Result{Overlay: overlay}

	if size.X <= 0 || size.Y <= 0 {
		log.Debug("fill rejected: bad canvas size", "size", size)
		return rejected
	}
	if overlay != nil && overlay.Size() != size {
		log.Debug("fill rejected: overlay does not match canvas",
			"overlay", overlay.Size(), "size", size)
		return rejected
	}
	w, h := size.X, size.Y
	if start.X < 0 || start.Y < 0 || start.X >= w || start.Y >= h {
		log.Debug("fill rejected: start outside canvas", "start", start)
		return rejected
	}

	boundary := e.Boundary
	if boundary == nil {
		boundary = NoBoundary
	}
	if boundary(start.X, start.Y) {
		return rejected
	}

	src := overlay
	if src == nil {
		src = pixel.New(w, h)
	}
	paint := fillColor.Premultiply()
	target := src.At(start.X, start.Y)
	if color.Within(target, paint, e.Tolerance) {
		return rejected
	}

	out := src.Clone()
	visited := make([]bool, w*h)
	stack := []image.Point{start}
	painted := 0
	truncated := false

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		idx := p.Y*w + p.X
		if visited[idx] {
			continue
		}
		visited[idx] = true

		if boundary(p.X, p.Y) {
			continue
		}
		if !color.Within(src.At(p.X, p.Y), target, e.Tolerance) {
			continue
		}

		out.Set(p.X, p.Y, paint)
		painted++
		if e.MaxPixels > 0 && painted >= e.MaxPixels {
			truncated = pending(stack, w, visited) || hasOpenNeighbor(p, w, h, visited)
			break
		}

		// 4-connected neighbors
		for _, d := range [4]image.Point{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
			nx, ny := p.X+d.X, p.Y+d.Y
			if nx < 0 || nx >= w || ny < 0 || ny >= h {
				continue
			}
			if visited[ny*w+nx] {
				continue
			}
			stack = append(stack, image.Point{X: nx, Y: ny})
		}
	}

	if truncated {
		log.Debug("fill truncated at pixel cap", "cap", e.MaxPixels, "start", start)
	}
	return Result{Overlay: out, Painted: painted, Truncated: truncated}
}

// pending reports whether the stack still holds an unvisited pixel.
func pending(stack []image.Point, w int, visited []bool) bool {
	for _, p := range stack {
		if !visited[p.Y*w+p.X] {
			return true
		}
	}
	return false
}

func hasOpenNeighbor(p image.Point, w, h int, visited []bool) bool {
	for _, d := range [4]image.Point{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
		nx, ny := p.X+d.X, p.Y+d.Y
		if nx >= 0 && nx < w && ny >= 0 && ny < h && !visited[ny*w+nx] {
			return true
		}
	}
	return false
}
