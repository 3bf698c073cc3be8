package stroke

import (
	"image"
	"image/draw"
	"math"

	"golang.org/x/image/math/f32"
	"golang.org/x/image/vector"
)

// kappa places cubic control points so four curves approximate a circle.
const kappa = 0.5522847498

// segmentBounds returns the canvas pixels a capsule of the given radius
// around from→to can touch.
func segmentBounds(from, to f32.Vec2, radius float32, size image.Point) image.Rectangle {
	pad := float64(radius) + 1
	minX := math.Floor(math.Min(float64(from[0]), float64(to[0])) - pad)
	minY := math.Floor(math.Min(float64(from[1]), float64(to[1])) - pad)
	maxX := math.Ceil(math.Max(float64(from[0]), float64(to[0])) + pad)
	maxY := math.Ceil(math.Max(float64(from[1]), float64(to[1])) + pad)

	canvas := image.Rect(0, 0, size.X, size.Y)
	// Clamp before converting so huge coordinates cannot overflow int.
	clampF := func(v float64, hi int) int {
		if v < -1 {
			return -1
		}
		if v > float64(hi)+1 {
			return hi + 1
		}
		return int(v)
	}
	r := image.Rect(clampF(minX, size.X), clampF(minY, size.Y), clampF(maxX, size.X), clampF(maxY, size.Y))
	return r.Intersect(canvas)
}

// coverage rasterizes a round-capped capsule of the given radius around the
// segment from→to. Point (x, y) addresses the center of pixel (x, y).
// The returned mask's origin is at the returned rectangle's Min.
func coverage(from, to f32.Vec2, radius float32, size image.Point) (*image.Alpha, image.Rectangle) {
	r := segmentBounds(from, to, radius, size)
	if r.Empty() || radius <= 0 {
		return nil, image.Rectangle{}
	}
	origin := f32.Vec2{float32(r.Min.X) - 0.5, float32(r.Min.Y) - 0.5}
	a := sub(from, origin)
	b := sub(to, origin)

	z := vector.NewRasterizer(r.Dx(), r.Dy())
	z.DrawOp = draw.Src
	capsule(z, a, b, radius)

	mask := image.NewAlpha(image.Rect(0, 0, r.Dx(), r.Dy()))
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	return mask, r
}

// capsule adds the outline of a stadium shape: two half circles joined by
// the segment's parallel offsets. A degenerate segment becomes a circle.
func capsule(z *vector.Rasterizer, a, b f32.Vec2, r float32) {
	dx, dy := b[0]-a[0], b[1]-a[1]
	length := float32(math.Hypot(float64(dx), float64(dy)))
	if length < 1e-3 {
		u := f32.Vec2{1, 0}
		v := f32.Vec2{0, 1}
		start := add(a, scale(u, r))
		z.MoveTo(start[0], start[1])
		quarter(z, a, u, v, r)
		quarter(z, a, v, neg(u), r)
		quarter(z, a, neg(u), neg(v), r)
		quarter(z, a, neg(v), u, r)
		z.ClosePath()
		return
	}
	d := f32.Vec2{dx / length, dy / length}
	n := f32.Vec2{-d[1], d[0]}

	start := add(a, scale(n, r))
	z.MoveTo(start[0], start[1])
	p := add(b, scale(n, r))
	z.LineTo(p[0], p[1])
	quarter(z, b, n, d, r)
	quarter(z, b, d, neg(n), r)
	p = sub(a, scale(n, r))
	z.LineTo(p[0], p[1])
	quarter(z, a, neg(n), neg(d), r)
	quarter(z, a, neg(d), n, r)
	z.ClosePath()
}

// quarter adds a quarter circle around c from direction u to direction v.
func quarter(z *vector.Rasterizer, c, u, v f32.Vec2, r float32) {
	k := float32(kappa) * r
	p1 := add(add(c, scale(u, r)), scale(v, k))
	p2 := add(add(c, scale(v, r)), scale(u, k))
	p3 := add(c, scale(v, r))
	z.CubeTo(p1[0], p1[1], p2[0], p2[1], p3[0], p3[1])
}

func add(a, b f32.Vec2) f32.Vec2           { return f32.Vec2{a[0] + b[0], a[1] + b[1]} }
func sub(a, b f32.Vec2) f32.Vec2           { return f32.Vec2{a[0] - b[0], a[1] - b[1]} }
func scale(a f32.Vec2, s float32) f32.Vec2 { return f32.Vec2{a[0] * s, a[1] * s} }
func neg(a f32.Vec2) f32.Vec2              { return f32.Vec2{-a[0], -a[1]} }
