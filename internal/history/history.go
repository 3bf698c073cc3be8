// Package history keeps a bounded undo/redo list of overlay snapshots.
package history

import "github.com/Ramstar757/TracerStar/internal/pixel"

// DefaultCapacity is the number of snapshots kept before the oldest is
// evicted.
const DefaultCapacity = 30

// History is a linear list of overlay snapshots with a cursor. A nil entry
// stands for the empty overlay. History is not safe for concurrent use.
type History struct {
	entries  []*pixel.Buffer
	index    int
	capacity int
}

// New returns an empty history that holds at most capacity snapshots.
// A capacity below 1 falls back to DefaultCapacity.
func New(capacity int) *History {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &History{index: -1, capacity: capacity}
}

// Commit records a copy of snapshot as the newest state. Entries after the
// cursor are discarded. Committing a snapshot identical to the current entry
// does nothing and returns false.
func (h *History) Commit(snapshot *pixel.Buffer) bool {
	if h.index >= 0 && same(h.entries[h.index], snapshot) {
		return false
	}
	h.entries = append(h.entries[:h.index+1], snapshot.Clone())
	// Drop references held past the new end so evicted buffers can be freed.
	clear(h.entries[len(h.entries):cap(h.entries)])
	if over := len(h.entries) - h.capacity; over > 0 {
		copy(h.entries, h.entries[over:])
		clear(h.entries[len(h.entries)-over:])
		h.entries = h.entries[:len(h.entries)-over]
	}
	h.index = len(h.entries) - 1
	return true
}

// Undo moves the cursor back and returns a copy of the entry it lands on.
// ok is false when there is nothing to undo.
func (h *History) Undo() (snapshot *pixel.Buffer, ok bool) {
	if !h.CanUndo() {
		return nil, false
	}
	h.index--
	return h.entries[h.index].Clone(), true
}

// Redo moves the cursor forward and returns a copy of the entry it lands on.
// ok is false when there is nothing to redo.
func (h *History) Redo() (snapshot *pixel.Buffer, ok bool) {
	if !h.CanRedo() {
		return nil, false
	}
	h.index++
	return h.entries[h.index].Clone(), true
}

// Current returns a copy of the entry at the cursor, or nil when the history
// is empty.
func (h *History) Current() *pixel.Buffer {
	if h.index < 0 {
		return nil
	}
	return h.entries[h.index].Clone()
}

func (h *History) CanUndo() bool { return h.index > 0 }
func (h *History) CanRedo() bool { return h.index < len(h.entries)-1 }

// Len returns the number of stored snapshots.
func (h *History) Len() int { return len(h.entries) }

// Index returns the cursor position, -1 for an empty history.
func (h *History) Index() int { return h.index }

// same compares two snapshots, treating nil as an all-transparent overlay.
func same(a, b *pixel.Buffer) bool {
	if a == nil || b == nil {
		return a.IsEmpty() && b.IsEmpty()
	}
	return a.Equal(b)
}
