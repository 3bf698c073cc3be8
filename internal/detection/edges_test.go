package detection

import (
	"image"
	"image/color"
	"testing"
)

func TestEdgeMap_Polarity(t *testing.T) {
	// Left half black, right half white. Edge pixels must be bright and flat
	// regions black.
	w, h := 20, 6
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 10; x < w; x++ {
			img.SetGray(x, y, color.Gray{Y: 255})
		}
	}

	edges := EdgeMap(img, 1)
	for y := 0; y < h; y++ {
		if edges.GrayAt(9, y).Y != 255 || edges.GrayAt(10, y).Y != 255 {
			t.Errorf("row %d: transition pixels not bright: %d %d",
				y, edges.GrayAt(9, y).Y, edges.GrayAt(10, y).Y)
		}
		if edges.GrayAt(2, y).Y != 0 || edges.GrayAt(17, y).Y != 0 {
			t.Errorf("row %d: flat pixels not black", y)
		}
	}
}

func TestEdgeMap_Intensity(t *testing.T) {
	// A soft step of 10 levels gives gx = 40 at the transition.
	img := image.NewGray(image.Rect(0, 0, 6, 3))
	for y := 0; y < 3; y++ {
		for x := 3; x < 6; x++ {
			img.SetGray(x, y, color.Gray{Y: 10})
		}
	}
	if got := EdgeMap(img, 1).GrayAt(2, 1).Y; got != 40 {
		t.Errorf("intensity 1: got %d, want 40", got)
	}
	if got := EdgeMap(img, 2).GrayAt(2, 1).Y; got != 80 {
		t.Errorf("intensity 2: got %d, want 80", got)
	}
}

func TestEdgeMap_OffsetBounds(t *testing.T) {
	img := image.NewRGBA(image.Rect(5, 5, 15, 10))
	edges := EdgeMap(img, 1)
	if edges.Rect != image.Rect(0, 0, 10, 5) {
		t.Errorf("edge map rect = %v, want (0,0)-(10,5)", edges.Rect)
	}
}

func TestGrayscale_Nil(t *testing.T) {
	if Grayscale(nil) != nil {
		t.Error("expected nil")
	}
	if EdgeMap(nil, 1) != nil {
		t.Error("expected nil edge map")
	}
}
