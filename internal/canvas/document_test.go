package canvas

import (
	"errors"
	"image"
	"math"
	"sync"
	"testing"

	"golang.org/x/image/math/f32"

	"github.com/Ramstar757/TracerStar/internal/color"
	"github.com/Ramstar757/TracerStar/internal/detection"
	"github.com/Ramstar757/TracerStar/internal/pixel"
	"github.com/Ramstar757/TracerStar/internal/stroke"
)

var red = color.RGBA{R: 255, G: 0, B: 0, A: 255}

// ringPage returns a 20×20 white page with a one-pixel black square outline
// from (4,4) to (15,15), and the matching mask. The interior is 10×10.
func ringPage() (*pixel.Buffer, *detection.Mask) {
	base := pixel.New(20, 20)
	mask := detection.NewMask(20, 20)
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			onRing := (x == 4 || x == 15) && y >= 4 && y <= 15 ||
				(y == 4 || y == 15) && x >= 4 && x <= 15
			if onRing {
				base.Set(x, y, color.Black)
				mask.Set(x, y, true)
			} else {
				base.Set(x, y, color.White)
			}
		}
	}
	return base, mask
}

func newRingDoc(t *testing.T) *Document {
	t.Helper()
	base, mask := ringPage()
	d, err := New(base, mask)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return d
}

func countPainted(b *pixel.Buffer) int {
	n := 0
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			if b.At(x, y).A != 0 {
				n++
			}
		}
	}
	return n
}

func TestFill_AdultUndoRedo(t *testing.T) {
	d := newRingDoc(t)
	res := d.Fill(image.Pt(9, 9), red, Adult)
	if res.Painted != 100 {
		t.Fatalf("Painted = %d, want 100", res.Painted)
	}
	snap := d.Snapshot()
	if snap.At(9, 9) != red || snap.At(4, 9).A != 0 || snap.At(2, 2).A != 0 {
		t.Error("fill escaped the ring or missed the interior")
	}
	if info := d.Info(); info.History != 2 || !info.CanUndo || info.CanRedo {
		t.Errorf("info after fill = %+v", info)
	}

	if !d.Undo() {
		t.Fatal("Undo() = false")
	}
	if !d.Snapshot().IsEmpty() {
		t.Error("undo should restore the blank overlay")
	}
	if !d.Redo() {
		t.Fatal("Redo() = false")
	}
	if countPainted(d.Snapshot()) != 100 {
		t.Error("redo should restore the fill")
	}
}

func TestFill_RejectedDoesNotCommit(t *testing.T) {
	d := newRingDoc(t)
	d.Fill(image.Pt(4, 9), red, Adult)  // on the line
	d.Fill(image.Pt(-1, 0), red, Adult) // off canvas
	d.Fill(image.Pt(9, 9), red, Adult)
	d.Fill(image.Pt(9, 9), red, Adult) // already red
	if got := d.Info().History; got != 2 {
		t.Errorf("History = %d, want 2", got)
	}
}

func TestFill_KidsKeepsGapFromLines(t *testing.T) {
	d := newRingDoc(t)
	res := d.Fill(image.Pt(9, 9), red, Kids)
	if res.Painted != 64 {
		t.Fatalf("Painted = %d, want 64", res.Painted)
	}
	snap := d.Snapshot()
	if snap.At(5, 9).A != 0 {
		t.Error("pixel next to the line should stay unpainted")
	}
	if snap.At(6, 9) != red {
		t.Error("pixel two away from the line should be painted")
	}
}

func TestStrokeGestureIsOneHistoryEntry(t *testing.T) {
	d := newRingDoc(t)
	d.BeginStroke(StrokeOptions{Mode: stroke.Normal, Color: red, Width: 3, Opacity: 1}, f32.Vec2{2, 2})
	if !d.MoveStroke(f32.Vec2{2, 10}) || !d.MoveStroke(f32.Vec2{10, 18}) {
		t.Fatal("MoveStroke during a gesture returned false")
	}
	if !d.Info().Painting {
		t.Error("gesture should be active")
	}
	if d.Snapshot().At(2, 6) != red {
		t.Error("stroke not painted before EndStroke")
	}
	if !d.EndStroke() {
		t.Fatal("EndStroke() = false")
	}
	if got := d.Info().History; got != 2 {
		t.Errorf("History = %d, want 2", got)
	}
	d.Undo()
	if !d.Snapshot().IsEmpty() {
		t.Error("one undo should remove the whole gesture")
	}
}

func TestStrokeWithoutGesture(t *testing.T) {
	d := newRingDoc(t)
	if d.MoveStroke(f32.Vec2{1, 1}) {
		t.Error("MoveStroke without BeginStroke returned true")
	}
	if d.EndStroke() {
		t.Error("EndStroke without BeginStroke returned true")
	}
}

func TestBeginStrokeEndsPreviousGesture(t *testing.T) {
	d := newRingDoc(t)
	opts := StrokeOptions{Mode: stroke.Normal, Color: red, Width: 2, Opacity: 1}
	d.BeginStroke(opts, f32.Vec2{2, 2})
	d.BeginStroke(opts, f32.Vec2{17, 17})
	d.EndStroke()
	if got := d.Info().History; got != 3 {
		t.Errorf("History = %d, want 3", got)
	}
}

func TestRainbowPhaseAdvancesWithDistance(t *testing.T) {
	d := newRingDoc(t)
	d.BeginStroke(StrokeOptions{Mode: stroke.Rainbow, Width: 2, Opacity: 1}, f32.Vec2{2, 2})
	if d.Phase() != 0 {
		t.Errorf("phase after dot = %v, want 0", d.Phase())
	}
	d.MoveStroke(f32.Vec2{15, 2})
	want := 13.0 / stroke.HueCycleLength
	if got := d.Phase(); math.Abs(got-want) > 1e-6 {
		t.Errorf("phase = %v, want %v", got, want)
	}
	d.EndStroke()

	d.BeginStroke(StrokeOptions{Mode: stroke.Normal, Color: red, Width: 2, Opacity: 1}, f32.Vec2{2, 2})
	d.MoveStroke(f32.Vec2{2, 18})
	if got := d.Phase(); math.Abs(got-want) > 1e-6 {
		t.Errorf("brush stroke changed the phase to %v", got)
	}
}

func TestClear(t *testing.T) {
	d := newRingDoc(t)
	d.Fill(image.Pt(9, 9), red, Adult)
	d.Clear()
	if !d.Snapshot().IsEmpty() {
		t.Fatal("Clear left paint behind")
	}
	d.Undo()
	if countPainted(d.Snapshot()) != 100 {
		t.Error("Clear should be undoable")
	}
}

func TestSnapshotIsPrivate(t *testing.T) {
	d := newRingDoc(t)
	d.Fill(image.Pt(9, 9), red, Adult)
	s := d.Snapshot()
	s.Set(9, 9, color.Transparent)
	if d.Snapshot().At(9, 9) != red {
		t.Error("modifying a snapshot changed the document")
	}
}

func TestComposite(t *testing.T) {
	d := newRingDoc(t)
	d.Fill(image.Pt(9, 9), red, Adult)
	img := d.Composite()
	if img.Bounds() != image.Rect(0, 0, 20, 20) {
		t.Fatalf("bounds = %v", img.Bounds())
	}
	if got := img.RGBAAt(9, 9); got.R != 255 || got.G != 0 {
		t.Errorf("painted pixel = %v", got)
	}
	if got := img.RGBAAt(4, 4); got.R != 0 || got.A != 255 {
		t.Errorf("line pixel = %v, want black", got)
	}
}

func TestNew(t *testing.T) {
	if _, err := New(nil, nil); err == nil {
		t.Error("expected error for nil base")
	}
	if _, err := FromPage(nil); err == nil {
		t.Error("expected error for nil page")
	}

	base, _ := ringPage()
	d, err := New(base, detection.NewMask(5, 5))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if d.Mask() != nil {
		t.Error("mismatched mask should be dropped")
	}
	// Without a mask the adult bucket fills the whole canvas.
	if res := d.Fill(image.Pt(0, 0), red, Adult); res.Painted != 400 {
		t.Errorf("Painted = %d, want 400", res.Painted)
	}
}

func TestConcurrentToolCalls(t *testing.T) {
	d := newRingDoc(t)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c := color.RGBA{R: uint8(40 * i), G: 0, B: 255, A: 255}
			d.Fill(image.Pt(9, 9), c, Adult)
			d.Snapshot()
			d.Composite()
			if i%2 == 0 {
				d.Undo()
			}
		}(i)
	}
	wg.Wait()
	if d.Info().History < 1 {
		t.Error("history lost its entries")
	}
}

func TestStore(t *testing.T) {
	s := NewStore()
	d := newRingDoc(t)
	id, err := s.Add(d)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if len(id) != 16 {
		t.Errorf("id %q, want 16 hex characters", id)
	}
	got, err := s.Get(id)
	if err != nil || got != d {
		t.Fatalf("Get = %v, %v", got, err)
	}
	if ids := s.IDs(); len(ids) != 1 || ids[0] != id {
		t.Errorf("IDs() = %v", ids)
	}
	if err := s.Delete(id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(id); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after delete: %v, want ErrNotFound", err)
	}
	if err := s.Delete(id); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete: %v, want ErrNotFound", err)
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
}
