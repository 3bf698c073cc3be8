package page

import (
	"image"

	"github.com/Ramstar757/TracerStar/internal/pixel"
)

// Orient applies an EXIF orientation tag (1–8) so the result is upright.
// Orientation 1 and unknown values return a plain copy.
func Orient(img image.Image, orientation int) *pixel.Buffer {
	src := pixel.FromImage(img)
	if src == nil || orientation < 2 || orientation > 8 {
		return src
	}
	w, h := src.Width, src.Height

	// dst(x, y) = src(mapping(x, y)); orientations 5-8 swap the axes.
	var dw, dh int
	var mapping func(x, y int) (int, int)
	switch orientation {
	case 2: // mirror horizontal
		dw, dh = w, h
		mapping = func(x, y int) (int, int) { return w - 1 - x, y }
	case 3: // rotate 180
		dw, dh = w, h
		mapping = func(x, y int) (int, int) { return w - 1 - x, h - 1 - y }
	case 4: // mirror vertical
		dw, dh = w, h
		mapping = func(x, y int) (int, int) { return x, h - 1 - y }
	case 5: // transpose
		dw, dh = h, w
		mapping = func(x, y int) (int, int) { return y, x }
	case 6: // rotate 90 clockwise
		dw, dh = h, w
		mapping = func(x, y int) (int, int) { return y, h - 1 - x }
	case 7: // transverse
		dw, dh = h, w
		mapping = func(x, y int) (int, int) { return w - 1 - y, h - 1 - x }
	case 8: // rotate 90 counter-clockwise
		dw, dh = h, w
		mapping = func(x, y int) (int, int) { return w - 1 - y, x }
	}

	dst := pixel.New(dw, dh)
	for y := 0; y < dh; y++ {
		for x := 0; x < dw; x++ {
			sx, sy := mapping(x, y)
			si := src.Offset(sx, sy)
			di := dst.Offset(x, y)
			copy(dst.Pix[di:di+4], src.Pix[si:si+4])
		}
	}
	return dst
}
