package stroke

import "fmt"

// Mode selects how a stroke is composited onto the overlay.
type Mode int

const (
	// Normal is source-over alpha compositing; overlapping passes build up.
	Normal Mode = iota
	// Erase clears the overlay under the stroke to full transparency.
	Erase
	// Copy replaces covered pixels outright, so repeated passes of the same
	// stroke never darken. This is the watercolor brush.
	Copy
	// Rainbow paints with a hue that advances with distance travelled,
	// over a soft glow.
	Rainbow
	// Glow paints the stroke color over a wider, faint halo.
	Glow
)

var modeNames = map[Mode]string{
	Normal:  "brush",
	Erase:   "eraser",
	Copy:    "watercolor",
	Rainbow: "rainbow",
	Glow:    "glow",
}

func (m Mode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode maps a tool name to its compositing mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "brush", "normal":
		return Normal, nil
	case "eraser", "erase":
		return Erase, nil
	case "watercolor", "copy":
		return Copy, nil
	case "rainbow":
		return Rainbow, nil
	case "glow":
		return Glow, nil
	}
	return Normal, fmt.Errorf("unknown stroke tool %q", s)
}
