package detection

import (
	"image"
	stdcolor "image/color"
	"sync"

	"github.com/Ramstar757/TracerStar/internal/logging"
)

// Mask holds a boolean grid where true means the pixel is an impassable
// line or edge.
type Mask struct {
	Width, Height int
	Bits          []bool // row-major: index = y*Width + x
}

// NewMask allocates a mask with no boundary pixels.
func NewMask(width, height int) *Mask {
	if width <= 0 || height <= 0 {
		return &Mask{}
	}
	return &Mask{Width: width, Height: height, Bits: make([]bool, width*height)}
}

// At returns whether the pixel at (x, y) is a boundary. Points outside the
// mask are always boundaries.
func (m *Mask) At(x, y int) bool {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return true
	}
	return m.Bits[y*m.Width+x]
}

// Set marks (x, y). Points outside the mask are ignored.
func (m *Mask) Set(x, y int, v bool) {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return
	}
	m.Bits[y*m.Width+x] = v
}

// Empty reports whether the mask carries no pixels at all, which happens
// when the source image could not be rasterized.
func (m *Mask) Empty() bool {
	return m == nil || m.Width == 0 || m.Height == 0
}

// Count returns the number of boundary pixels.
func (m *Mask) Count() int {
	n := 0
	for _, b := range m.Bits {
		if b {
			n++
		}
	}
	return n
}

// Options tunes mask derivation.
type Options struct {
	// Intensity scales the edge gradient before clamping. Default: 1.
	Intensity float64

	// Threshold is the edge luminance (0–255) above which a pixel is a
	// boundary. Default: 65.
	Threshold int

	// DilateRadius grows the mask by a (2r+1)×(2r+1) square so one-pixel
	// gaps in the detected edges cannot leak a fill. Default: 2.
	DilateRadius int
}

// DefaultOptions returns the tuned mask derivation settings.
func DefaultOptions() Options {
	return Options{
		Intensity:    1,
		Threshold:    65,
		DilateRadius: 2,
	}
}

// Build derives a boundary mask from a source image: grayscale, edge
// intensity, luminance threshold, dilation. The mask has the pixel
// dimensions of the edge map. A nil or empty source yields an empty mask.
func Build(src image.Image, opts Options) *Mask {
	edges := EdgeMap(src, opts.Intensity)
	if edges == nil {
		logging.Logger().Warn("boundary mask: source could not be rasterized")
		return &Mask{}
	}
	return MaskFromEdges(edges, opts)
}

// MaskFromEdges thresholds an edge map (bright = edge) on
// (30R + 59G + 11B)/100 and dilates the result.
func MaskFromEdges(edges image.Image, opts Options) *Mask {
	if edges == nil || edges.Bounds().Empty() {
		return &Mask{}
	}
	bounds := edges.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	m := NewMask(w, h)

	gray, isGray := edges.(*image.Gray)
	parallelRows(h, func(sy, ey int) {
		for y := sy; y < ey; y++ {
			for x := 0; x < w; x++ {
				var lum int
				if isGray {
					// R = G = B = Y, so the weighted sum reduces to Y.
					lum = int(gray.Pix[gray.PixOffset(bounds.Min.X+x, bounds.Min.Y+y)])
				} else {
					c := stdcolor.RGBAModel.Convert(edges.At(bounds.Min.X+x, bounds.Min.Y+y)).(stdcolor.RGBA)
					lum = (30*int(c.R) + 59*int(c.G) + 11*int(c.B)) / 100
				}
				if lum > opts.Threshold {
					m.Bits[y*w+x] = true
				}
			}
		}
	})

	out := Dilate(m, opts.DilateRadius)
	logging.Logger().Debug("boundary mask built",
		"width", w, "height", h, "boundary", out.Count())
	return out
}

// Dilate grows every boundary pixel into a (2r+1)×(2r+1) square, clamped to
// the mask. The square is separable, so it runs as a horizontal pass
// followed by a vertical one. A radius <= 0 returns a copy.
func Dilate(m *Mask, radius int) *Mask {
	out := &Mask{Width: m.Width, Height: m.Height, Bits: make([]bool, len(m.Bits))}
	if radius <= 0 {
		copy(out.Bits, m.Bits)
		return out
	}
	w, h := m.Width, m.Height
	tmp := make([]bool, len(m.Bits))

	parallelRows(h, func(sy, ey int) {
		for y := sy; y < ey; y++ {
			row := m.Bits[y*w : (y+1)*w]
			for x := 0; x < w; x++ {
				x0, x1 := clampRange(x, radius, w)
				for nx := x0; nx <= x1; nx++ {
					if row[nx] {
						tmp[y*w+x] = true
						break
					}
				}
			}
		}
	})

	parallelRows(h, func(sy, ey int) {
		for y := sy; y < ey; y++ {
			y0, y1 := clampRange(y, radius, h)
			for x := 0; x < w; x++ {
				for ny := y0; ny <= y1; ny++ {
					if tmp[ny*w+x] {
						out.Bits[y*w+x] = true
						break
					}
				}
			}
		}
	})
	return out
}

func clampRange(v, radius, n int) (int, int) {
	lo := v - radius
	if lo < 0 {
		lo = 0
	}
	hi := v + radius
	if hi >= n {
		hi = n - 1
	}
	return lo, hi
}

// parallelRows runs fn across row bands using multiple goroutines.
// Each band is disjoint, so fn may write its own rows without locking.
func parallelRows(h int, fn func(startY, endY int)) {
	numWorkers := 8
	rowsPerWorker := (h + numWorkers - 1) / numWorkers
	var wg sync.WaitGroup
	for worker := 0; worker < numWorkers; worker++ {
		startY := worker * rowsPerWorker
		endY := startY + rowsPerWorker
		if endY > h {
			endY = h
		}
		if startY >= h {
			break
		}
		wg.Add(1)
		go func(sy, ey int) {
			defer wg.Done()
			fn(sy, ey)
		}(startY, endY)
	}
	wg.Wait()
}
