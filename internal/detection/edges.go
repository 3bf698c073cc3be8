package detection

import (
	"image"
	"math"

	"golang.org/x/image/draw"
)

// Grayscale converts img to an 8-bit luma image anchored at (0, 0).
// It returns nil for a nil or empty image.
func Grayscale(img image.Image) *image.Gray {
	if img == nil || img.Bounds().Empty() {
		return nil
	}
	b := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(gray, gray.Bounds(), img, b.Min, draw.Src)
	return gray
}

// EdgeMap returns the Sobel gradient magnitude of img's luma, scaled by
// intensity and clamped to 255. Edges are bright, flat regions are black.
// Pixels on the border sample their clamped neighbors.
func EdgeMap(img image.Image, intensity float64) *image.Gray {
	gray := Grayscale(img)
	if gray == nil {
		return nil
	}
	if intensity <= 0 {
		intensity = 1
	}
	w, h := gray.Rect.Dx(), gray.Rect.Dy()
	out := image.NewGray(gray.Rect)

	at := func(x, y int) int {
		if x < 0 {
			x = 0
		} else if x >= w {
			x = w - 1
		}
		if y < 0 {
			y = 0
		} else if y >= h {
			y = h - 1
		}
		return int(gray.Pix[y*gray.Stride+x])
	}

	parallelRows(h, func(sy, ey int) {
		for y := sy; y < ey; y++ {
			for x := 0; x < w; x++ {
				tl, tc, tr := at(x-1, y-1), at(x, y-1), at(x+1, y-1)
				ml, mr := at(x-1, y), at(x+1, y)
				bl, bc, br := at(x-1, y+1), at(x, y+1), at(x+1, y+1)

				gx := (tr + 2*mr + br) - (tl + 2*ml + bl)
				gy := (bl + 2*bc + br) - (tl + 2*tc + tr)
				mag := math.Sqrt(float64(gx*gx+gy*gy)) * intensity
				if mag > 255 {
					mag = 255
				}
				out.Pix[y*out.Stride+x] = uint8(mag + 0.5)
			}
		}
	})
	return out
}
