// Package pixel provides the RGBA8 buffer shared by every drawing tool.
//
// A Buffer stores premultiplied-alpha pixels in the same layout as
// image.RGBA, so it can be handed to the standard image packages through
// Image without copying.
package pixel

import (
	"bytes"
	"image"

	"golang.org/x/image/draw"

	"github.com/Ramstar757/TracerStar/internal/color"
)

// Buffer is a width×height RGBA8 pixel buffer with premultiplied alpha.
// len(Pix) == Height*Stride and Stride >= Width*4.
type Buffer struct {
	Width, Height int
	Stride        int
	Pix           []uint8
}

// New allocates a fully transparent buffer. It returns nil when either
// dimension is not positive.
func New(width, height int) *Buffer {
	if width <= 0 || height <= 0 {
		return nil
	}
	return &Buffer{
		Width:  width,
		Height: height,
		Stride: width * 4,
		Pix:    make([]uint8, width*height*4),
	}
}

// FromImage rasterizes img into a new buffer anchored at (0, 0).
// It returns nil when img is nil or empty.
func FromImage(img image.Image) *Buffer {
	if img == nil {
		return nil
	}
	bounds := img.Bounds()
	b := New(bounds.Dx(), bounds.Dy())
	if b == nil {
		return nil
	}
	draw.Draw(b.Image(), b.Image().Bounds(), img, bounds.Min, draw.Src)
	return b
}

// Image returns an *image.RGBA that shares the buffer's pixels.
func (b *Buffer) Image() *image.RGBA {
	return &image.RGBA{
		Pix:    b.Pix,
		Stride: b.Stride,
		Rect:   image.Rect(0, 0, b.Width, b.Height),
	}
}

// Size returns the buffer dimensions as a point.
func (b *Buffer) Size() image.Point {
	if b == nil {
		return image.Point{}
	}
	return image.Pt(b.Width, b.Height)
}

// Valid reports whether the buffer satisfies its layout invariants.
func (b *Buffer) Valid() bool {
	return b != nil && b.Width > 0 && b.Height > 0 &&
		b.Stride >= b.Width*4 && len(b.Pix) == b.Height*b.Stride
}

// In reports whether (x, y) lies inside the buffer.
func (b *Buffer) In(x, y int) bool {
	return x >= 0 && y >= 0 && x < b.Width && y < b.Height
}

// Offset returns the index of the first byte of pixel (x, y).
func (b *Buffer) Offset(x, y int) int {
	return y*b.Stride + x*4
}

// At returns the raw premultiplied pixel at (x, y), or transparent when the
// point is outside the buffer.
func (b *Buffer) At(x, y int) color.RGBA {
	if !b.In(x, y) {
		return color.Transparent
	}
	i := b.Offset(x, y)
	p := b.Pix[i : i+4 : i+4]
	return color.RGBA{R: p[0], G: p[1], B: p[2], A: p[3]}
}

// Set writes a raw premultiplied pixel. Points outside the buffer are ignored.
func (b *Buffer) Set(x, y int, c color.RGBA) {
	if !b.In(x, y) {
		return
	}
	i := b.Offset(x, y)
	p := b.Pix[i : i+4 : i+4]
	p[0], p[1], p[2], p[3] = c.R, c.G, c.B, c.A
}

// Clone returns a deep copy. Cloning nil returns nil.
func (b *Buffer) Clone() *Buffer {
	if b == nil {
		return nil
	}
	c := *b
	c.Pix = append([]uint8(nil), b.Pix...)
	return &c
}

// Equal reports whether two buffers have the same size and pixels.
// Padding bytes past Width*4 in each row are ignored.
func (b *Buffer) Equal(o *Buffer) bool {
	if b == nil || o == nil {
		return b == o
	}
	if b.Width != o.Width || b.Height != o.Height {
		return false
	}
	row := b.Width * 4
	for y := 0; y < b.Height; y++ {
		if !bytes.Equal(b.Pix[y*b.Stride:y*b.Stride+row], o.Pix[y*o.Stride:y*o.Stride+row]) {
			return false
		}
	}
	return true
}

// IsEmpty reports whether every pixel is fully transparent.
func (b *Buffer) IsEmpty() bool {
	if b == nil {
		return true
	}
	for y := 0; y < b.Height; y++ {
		row := b.Pix[y*b.Stride : y*b.Stride+b.Width*4]
		for i := 3; i < len(row); i += 4 {
			if row[i] != 0 {
				return false
			}
		}
	}
	return true
}
