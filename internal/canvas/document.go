// Package canvas owns a coloring page while it is being painted: the base
// display, its boundary mask, the live paint overlay and its undo history.
package canvas

import (
	"errors"
	"image"
	"sync"

	"golang.org/x/image/math/f32"

	"github.com/Ramstar757/TracerStar/internal/color"
	"github.com/Ramstar757/TracerStar/internal/detection"
	"github.com/Ramstar757/TracerStar/internal/fill"
	"github.com/Ramstar757/TracerStar/internal/history"
	"github.com/Ramstar757/TracerStar/internal/logging"
	"github.com/Ramstar757/TracerStar/internal/page"
	"github.com/Ramstar757/TracerStar/internal/pixel"
	"github.com/Ramstar757/TracerStar/internal/renderer"
	"github.com/Ramstar757/TracerStar/internal/stroke"
)

var (
	// ErrNotFound is returned by Store for unknown document ids.
	ErrNotFound = errors.New("document not found")

	errNoBase = errors.New("canvas: base image is empty")
)

// FillMode selects which boundary the bucket respects.
type FillMode int

const (
	// Adult fills against the precomputed boundary mask.
	Adult FillMode = iota
	// Kids fills against the dark line art of the base image, keeping a
	// small gap from the lines.
	Kids
)

func (m FillMode) String() string {
	if m == Kids {
		return "kids"
	}
	return "adult"
}

// StrokeOptions describes the brush used for a whole gesture.
type StrokeOptions struct {
	Mode    stroke.Mode
	Color   color.RGBA
	Width   float32
	Opacity float64
}

type gesture struct {
	opts StrokeOptions
	last f32.Vec2
}

// Info summarizes a document's state.
type Info struct {
	Width, Height int
	MaskPixels    int
	CanUndo       bool
	CanRedo       bool
	History       int
	Painting      bool
}

// Document serializes every tool call on one page. All methods are safe for
// concurrent use.
type Document struct {
	mu sync.Mutex

	base  *pixel.Buffer
	mask  *detection.Mask
	size  image.Point
	adult *fill.Engine
	kids  *fill.Engine

	overlay *pixel.Buffer // nil until something is painted
	history *history.History
	phase   float64
	active  *gesture
}

// New creates a document over base. mask may be nil or empty, in which case
// Adult fills are unconstrained.
func New(base *pixel.Buffer, mask *detection.Mask) (*Document, error) {
	if !base.Valid() {
		return nil, errNoBase
	}
	if !mask.Empty() && (mask.Width != base.Width || mask.Height != base.Height) {
		logging.Logger().Warn("canvas: mask does not match base, ignoring it",
			"mask", image.Pt(mask.Width, mask.Height), "base", base.Size())
		mask = nil
	}
	d := &Document{
		base:    base,
		mask:    mask,
		size:    base.Size(),
		adult:   fill.NewMaskEngine(mask),
		kids:    fill.NewBaseImageEngine(base, fill.DefaultBaseImageOptions()),
		history: history.New(history.DefaultCapacity),
	}
	d.history.Commit(nil)
	return d, nil
}

// FromPage creates a document for a generated coloring page.
func FromPage(p *page.Page) (*Document, error) {
	if p == nil {
		return nil, errNoBase
	}
	return New(p.Display, p.Mask)
}

// Size returns the canvas size.
func (d *Document) Size() image.Point { return d.size }

// Base returns the page display. It is shared and must not be modified.
func (d *Document) Base() *pixel.Buffer { return d.base }

// Mask returns the boundary mask. It is shared and must not be modified.
func (d *Document) Mask() *detection.Mask { return d.mask }

// Fill runs the bucket at pt and records the result in history when
// anything changed. An active stroke is finished first.
func (d *Document) Fill(pt image.Point, c color.RGBA, mode FillMode) fill.Result {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.endStroke()

	engine := d.adult
	if mode == Kids {
		engine = d.kids
	}
	res := engine.Fill(d.overlay, d.size, pt, c)
	if res.Overlay != d.overlay {
		d.overlay = res.Overlay
		d.history.Commit(d.overlay)
	}
	logging.Logger().Debug("canvas: fill", "point", pt, "mode", mode,
		"painted", res.Painted, "truncated", res.Truncated)
	return res
}

// BeginStroke starts a gesture at pt and paints a dot there. A gesture that
// is still active is finished first.
func (d *Document) BeginStroke(opts StrokeOptions, pt f32.Vec2) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.endStroke()

	d.active = &gesture{opts: opts, last: pt}
	d.paint(pt, pt)
}

// MoveStroke extends the active gesture to pt. It reports false when no
// gesture is active.
func (d *Document) MoveStroke(pt f32.Vec2) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.active == nil {
		return false
	}
	from := d.active.last
	d.paint(from, pt)
	if d.active.opts.Mode == stroke.Rainbow {
		d.phase = stroke.AdvancePhase(d.phase, from, pt)
	}
	d.active.last = pt
	return true
}

// EndStroke finishes the active gesture and records it as one history
// entry. It reports false when no gesture is active.
func (d *Document) EndStroke() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.endStroke()
}

func (d *Document) endStroke() bool {
	if d.active == nil {
		return false
	}
	d.active = nil
	d.history.Commit(d.overlay)
	return true
}

func (d *Document) paint(from, to f32.Vec2) {
	o := d.active.opts
	d.overlay = stroke.Draw(d.overlay, d.size, stroke.Stroke{
		From:    from,
		To:      to,
		Color:   o.Color,
		Width:   o.Width,
		Opacity: o.Opacity,
		Mode:    o.Mode,
		Phase:   d.phase,
	})
}

// Undo restores the previous overlay. It reports false when there is
// nothing to undo.
func (d *Document) Undo() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.endStroke()
	snap, ok := d.history.Undo()
	if ok {
		d.overlay = snap
	}
	return ok
}

// Redo reapplies the next overlay. It reports false when there is nothing
// to redo.
func (d *Document) Redo() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.endStroke()
	snap, ok := d.history.Redo()
	if ok {
		d.overlay = snap
	}
	return ok
}

// Clear removes all paint. It can be undone.
func (d *Document) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.active = nil
	d.overlay = nil
	d.history.Commit(nil)
}

// Phase returns the current rainbow hue phase.
func (d *Document) Phase() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.phase
}

// Snapshot returns a private copy of the overlay, transparent when nothing
// has been painted.
func (d *Document) Snapshot() *pixel.Buffer {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.overlay == nil {
		return pixel.New(d.size.X, d.size.Y)
	}
	return d.overlay.Clone()
}

// Composite returns the base with the overlay drawn on top.
func (d *Document) Composite() *image.RGBA {
	d.mu.Lock()
	defer d.mu.Unlock()
	return renderer.Composite(d.base, d.overlay)
}

// Info returns a summary of the document.
func (d *Document) Info() Info {
	d.mu.Lock()
	defer d.mu.Unlock()
	info := Info{
		Width:    d.size.X,
		Height:   d.size.Y,
		CanUndo:  d.history.CanUndo(),
		CanRedo:  d.history.CanRedo(),
		History:  d.history.Len(),
		Painting: d.active != nil,
	}
	if !d.mask.Empty() {
		info.MaskPixels = d.mask.Count()
	}
	return info
}
