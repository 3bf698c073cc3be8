package fill

import (
	"image"
	"math"
	"testing"

	"github.com/Ramstar757/TracerStar/internal/color"
	"github.com/Ramstar757/TracerStar/internal/detection"
	"github.com/Ramstar757/TracerStar/internal/pixel"
)

var (
	red  = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	blue = color.RGBA{R: 0, G: 0, B: 255, A: 255}
)

// ringMask builds a w×h mask with a one-pixel ring of radius r around c,
// dilated by one pixel.
func ringMask(w, h int, c image.Point, r float64) *detection.Mask {
	m := detection.NewMask(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			d := math.Hypot(float64(x-c.X), float64(y-c.Y))
			if d >= r-0.5 && d < r+0.5 {
				m.Set(x, y, true)
			}
		}
	}
	return detection.Dilate(m, 1)
}

// exterior returns the open pixels reachable from the canvas border.
func exterior(m *detection.Mask) []bool {
	w, h := m.Width, m.Height
	out := make([]bool, w*h)
	var stack []image.Point
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x == 0 || y == 0 || x == w-1 || y == h-1) && !m.At(x, y) {
				stack = append(stack, image.Pt(x, y))
			}
		}
	}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if p.X < 0 || p.Y < 0 || p.X >= w || p.Y >= h {
			continue
		}
		i := p.Y*w + p.X
		if out[i] || m.At(p.X, p.Y) {
			continue
		}
		out[i] = true
		stack = append(stack, image.Pt(p.X+1, p.Y), image.Pt(p.X-1, p.Y), image.Pt(p.X, p.Y+1), image.Pt(p.X, p.Y-1))
	}
	return out
}

func TestFill_RingInterior(t *testing.T) {
	w, h := 10, 10
	center := image.Pt(5, 5)
	m := ringMask(w, h, center, 4)
	ext := exterior(m)

	res := NewMaskEngine(m).Fill(nil, image.Pt(w, h), center, red)
	if res.Overlay == nil {
		t.Fatal("fill returned nil overlay")
	}

	interior := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			got := res.Overlay.At(x, y)
			inside := !m.At(x, y) && !ext[y*w+x]
			if inside {
				interior++
				if got != red {
					t.Errorf("interior (%d,%d) = %+v, want red", x, y, got)
				}
			} else if got != color.Transparent {
				t.Errorf("ring/exterior (%d,%d) = %+v, want untouched", x, y, got)
			}
		}
	}
	if interior == 0 {
		t.Fatal("ring has no interior; fixture is wrong")
	}
	if res.Painted != interior {
		t.Errorf("painted %d, want %d", res.Painted, interior)
	}
}

func TestFill_Containment(t *testing.T) {
	// Closed rectangle loop with the fill starting inside it. Every painted
	// pixel must be reachable from start through painted, non-boundary
	// pixels only.
	w, h := 30, 20
	m := detection.NewMask(w, h)
	for x := 5; x <= 20; x++ {
		m.Set(x, 4, true)
		m.Set(x, 15, true)
	}
	for y := 4; y <= 15; y++ {
		m.Set(5, y, true)
		m.Set(20, y, true)
	}
	start := image.Pt(10, 10)
	res := NewMaskEngine(m).Fill(nil, image.Pt(w, h), start, red)

	painted := make([]bool, w*h)
	total := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if res.Overlay.At(x, y) == red {
				if m.At(x, y) {
					t.Fatalf("boundary pixel (%d,%d) was painted", x, y)
				}
				painted[y*w+x] = true
				total++
			}
		}
	}

	seen := make([]bool, w*h)
	stack := []image.Point{start}
	reached := 0
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if p.X < 0 || p.Y < 0 || p.X >= w || p.Y >= h {
			continue
		}
		i := p.Y*w + p.X
		if seen[i] || !painted[i] {
			continue
		}
		seen[i] = true
		reached++
		stack = append(stack, image.Pt(p.X+1, p.Y), image.Pt(p.X-1, p.Y), image.Pt(p.X, p.Y+1), image.Pt(p.X, p.Y-1))
	}
	if reached != total {
		t.Errorf("reached %d of %d painted pixels from start", reached, total)
	}
	if total != 14*10 {
		t.Errorf("painted %d pixels, want the 14x10 interior", total)
	}
}

func TestFill_StartOnBoundaryIsNoop(t *testing.T) {
	m := ringMask(10, 10, image.Pt(5, 5), 4)
	overlay := pixel.New(10, 10)
	overlay.Set(0, 0, blue)
	before := overlay.Clone()

	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			if !m.At(x, y) {
				continue
			}
			res := NewMaskEngine(m).Fill(overlay, image.Pt(10, 10), image.Pt(x, y), red)
			if res.Overlay != overlay || res.Painted != 0 {
				t.Fatalf("fill at boundary (%d,%d) was not a no-op", x, y)
			}
		}
	}
	if !overlay.Equal(before) {
		t.Error("overlay bytes changed")
	}
}

func TestFill_Idempotent(t *testing.T) {
	m := detection.NewMask(8, 8)
	e := NewMaskEngine(m)
	first := e.Fill(nil, image.Pt(8, 8), image.Pt(3, 3), red)
	if first.Painted != 64 {
		t.Fatalf("first fill painted %d, want 64", first.Painted)
	}
	snapshot := first.Overlay.Clone()

	second := e.Fill(first.Overlay, image.Pt(8, 8), image.Pt(3, 3), red)
	if second.Overlay != first.Overlay || second.Painted != 0 {
		t.Error("refilling with the same color should return the input unchanged")
	}
	// Within tolerance counts as the same color.
	third := e.Fill(first.Overlay, image.Pt(8, 8), image.Pt(3, 3), color.RGBA{R: 245, G: 10, B: 0, A: 255})
	if third.Painted != 0 {
		t.Errorf("near-identical color repainted %d pixels", third.Painted)
	}
	if !first.Overlay.Equal(snapshot) {
		t.Error("no-op fill mutated the overlay")
	}
}

func TestFill_CopyOnWrite(t *testing.T) {
	overlay := pixel.New(4, 4)
	res := NewMaskEngine(detection.NewMask(4, 4)).Fill(overlay, image.Pt(4, 4), image.Pt(0, 0), red)
	if res.Overlay == overlay {
		t.Fatal("fill should return a new buffer")
	}
	if !overlay.IsEmpty() {
		t.Error("input overlay was mutated")
	}
}

func TestFill_PixelCap(t *testing.T) {
	t.Run("custom cap", func(t *testing.T) {
		e := &Engine{Tolerance: DefaultTolerance, MaxPixels: 1000}
		res := e.Fill(nil, image.Pt(100, 100), image.Pt(50, 50), red)
		if res.Painted != 1000 || !res.Truncated {
			t.Fatalf("painted %d truncated %v, want 1000 true", res.Painted, res.Truncated)
		}
		count := 0
		for y := 0; y < 100; y++ {
			for x := 0; x < 100; x++ {
				if res.Overlay.At(x, y) == red {
					count++
				}
			}
		}
		if count != 1000 {
			t.Errorf("%d red pixels, want 1000", count)
		}
	})

	t.Run("default cap on an open canvas", func(t *testing.T) {
		size := image.Pt(800, 800)
		res := NewMaskEngine(detection.NewMask(size.X, size.Y)).Fill(nil, size, image.Pt(0, 0), red)
		if res.Painted > DefaultMaxPixels {
			t.Errorf("painted %d, cap is %d", res.Painted, DefaultMaxPixels)
		}
		if !res.Truncated {
			t.Error("expected truncation")
		}
	})

	t.Run("exact fit is not truncated", func(t *testing.T) {
		e := &Engine{Tolerance: DefaultTolerance, MaxPixels: 16}
		res := e.Fill(nil, image.Pt(4, 4), image.Pt(0, 0), red)
		if res.Painted != 16 || res.Truncated {
			t.Errorf("painted %d truncated %v, want 16 false", res.Painted, res.Truncated)
		}
	})
}

func TestFill_RejectedInputs(t *testing.T) {
	overlay := pixel.New(5, 5)
	e := NewMaskEngine(detection.NewMask(5, 5))
	tests := []struct {
		name  string
		size  image.Point
		start image.Point
	}{
		{"negative x", image.Pt(5, 5), image.Pt(-1, 2)},
		{"x past width", image.Pt(5, 5), image.Pt(5, 2)},
		{"y past height", image.Pt(5, 5), image.Pt(2, 5)},
		{"zero canvas", image.Pt(0, 5), image.Pt(0, 0)},
		{"negative canvas", image.Pt(-3, -3), image.Pt(0, 0)},
		{"overlay size mismatch", image.Pt(6, 6), image.Pt(1, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := e.Fill(overlay, tt.size, tt.start, red)
			if res.Overlay != overlay || res.Painted != 0 {
				t.Errorf("expected no-op, got painted %d", res.Painted)
			}
		})
	}
	if !overlay.IsEmpty() {
		t.Error("overlay mutated by rejected fills")
	}
}

func TestFill_StaysInTargetRegion(t *testing.T) {
	// No boundaries, but the left half already carries blue paint: a red
	// fill on the right must not cross into it.
	overlay := pixel.New(10, 4)
	for y := 0; y < 4; y++ {
		for x := 0; x < 5; x++ {
			overlay.Set(x, y, blue)
		}
	}
	res := NewMaskEngine(detection.NewMask(10, 4)).Fill(overlay, image.Pt(10, 4), image.Pt(8, 1), red)
	for y := 0; y < 4; y++ {
		for x := 0; x < 10; x++ {
			want := red
			if x < 5 {
				want = blue
			}
			if got := res.Overlay.At(x, y); got != want {
				t.Errorf("(%d,%d) = %+v, want %+v", x, y, got, want)
			}
		}
	}
}

func TestFill_PremultipliesFillColor(t *testing.T) {
	half := color.RGBA{R: 255, G: 0, B: 0, A: 128}
	res := NewMaskEngine(detection.NewMask(2, 2)).Fill(nil, image.Pt(2, 2), image.Pt(0, 0), half)
	if got := res.Overlay.At(1, 1); got != half.Premultiply() {
		t.Errorf("got %+v, want %+v", got, half.Premultiply())
	}
}

func TestMaskBoundary_EmptyMaskIsOpen(t *testing.T) {
	res := NewMaskEngine(&detection.Mask{}).Fill(nil, image.Pt(6, 6), image.Pt(2, 2), red)
	if res.Painted != 36 {
		t.Errorf("painted %d, want the whole 6x6 canvas", res.Painted)
	}
}

// lineArt is a white w×h page with a black vertical line at column lineX.
func lineArt(w, h, lineX int, ink color.RGBA) *pixel.Buffer {
	b := pixel.New(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.White
			if x == lineX {
				c = ink
			}
			b.Set(x, y, c)
		}
	}
	return b
}

func TestBaseImageEngine_EdgeShrink(t *testing.T) {
	base := lineArt(10, 6, 5, color.Black)
	size := image.Pt(10, 6)

	t.Run("radius 1 keeps a gap next to the line", func(t *testing.T) {
		e := NewBaseImageEngine(base, DefaultBaseImageOptions())
		res := e.Fill(nil, size, image.Pt(1, 1), red)
		for y := 0; y < 6; y++ {
			for x := 0; x < 10; x++ {
				want := x <= 3
				if got := res.Overlay.At(x, y) == red; got != want {
					t.Errorf("(%d,%d) painted=%v, want %v", x, y, got, want)
				}
			}
		}
	})

	t.Run("radius 0 paints up to the line", func(t *testing.T) {
		opts := DefaultBaseImageOptions()
		opts.ShrinkRadius = 0
		res := NewBaseImageEngine(base, opts).Fill(nil, size, image.Pt(1, 1), red)
		if res.Overlay.At(4, 2) != red {
			t.Error("(4,2) should be painted without shrink")
		}
		if res.Overlay.At(5, 2) != color.Transparent || res.Overlay.At(6, 2) != color.Transparent {
			t.Error("fill crossed the line")
		}
	})

	t.Run("start inside the shrink margin is rejected", func(t *testing.T) {
		res := NewBaseImageEngine(base, DefaultBaseImageOptions()).Fill(nil, size, image.Pt(4, 2), red)
		if res.Painted != 0 {
			t.Errorf("painted %d, want 0", res.Painted)
		}
	})
}

func TestBaseImageEngine_BoundaryTolerance(t *testing.T) {
	// Dark gray line art still stops the fill within tolerance 40.
	base := lineArt(10, 4, 5, color.RGBA{R: 30, G: 30, B: 30, A: 255})
	opts := DefaultBaseImageOptions()
	opts.ShrinkRadius = 0
	res := NewBaseImageEngine(base, opts).Fill(nil, image.Pt(10, 4), image.Pt(0, 0), red)
	if res.Overlay.At(7, 1) != color.Transparent {
		t.Error("fill leaked through a dark gray line")
	}

	// A mid gray line is not a boundary.
	base = lineArt(10, 4, 5, color.RGBA{R: 100, G: 100, B: 100, A: 255})
	res = NewBaseImageEngine(base, opts).Fill(nil, image.Pt(10, 4), image.Pt(0, 0), red)
	if res.Overlay.At(7, 1) != red {
		t.Error("mid gray should not stop the fill")
	}
}

func TestBaseImageEngine_NilBase(t *testing.T) {
	res := NewBaseImageEngine(nil, DefaultBaseImageOptions()).Fill(nil, image.Pt(3, 3), image.Pt(1, 1), red)
	if res.Painted != 9 {
		t.Errorf("painted %d, want 9 with no base image", res.Painted)
	}
}
