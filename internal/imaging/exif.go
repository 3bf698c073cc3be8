package imaging

import (
	"io"

	"github.com/rwcarlsen/goexif/exif"

	"github.com/Ramstar757/TracerStar/internal/logging"
)

// Orientation reads the EXIF orientation tag from a JPEG or TIFF stream.
// It returns 1 (upright) when the stream has no usable tag.
func Orientation(r io.Reader) int {
	x, err := exif.Decode(r)
	if err != nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	o, err := tag.Int(0)
	if err != nil || o < 1 || o > 8 {
		logging.Logger().Debug("imaging: ignoring EXIF orientation", "value", o, "err", err)
		return 1
	}
	return o
}
