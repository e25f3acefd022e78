package surface

import (
	"fmt"
	"sync"
)

// Handle refers to a slot in a Table. The zero Handle never resolves.
type Handle struct {
	index uint32
	gen   uint32
}

func (h Handle) Valid() bool { return h.gen != 0 }

func (h Handle) String() string { return fmt.Sprintf("surface#%d.%d", h.index, h.gen) }

type slot struct {
	gen  uint32
	surf Surface
}

// Table maps handles to live surfaces. Removing a surface bumps the slot's generation, so
// handles taken before the removal stop resolving even after the slot is reused.
type Table struct {
	mu    sync.RWMutex
	slots []slot
	free  []uint32
	live  int
}

func NewTable() *Table {
	return &Table{}
}

// Insert registers s and returns its handle.
func (t *Table) Insert(s Surface) Handle {
	t.mu.Lock()
	defer t.mu.Unlock()

	var idx uint32
	if n := len(t.free); n > 0 {
		idx = t.free[n-1]
		t.free = t.free[:n-1]
	} else {
		idx = uint32(len(t.slots))
		t.slots = append(t.slots, slot{})
	}
	sl := &t.slots[idx]
	sl.gen++
	if sl.gen == 0 {
		sl.gen = 1
	}
	sl.surf = s
	t.live++
	return Handle{index: idx, gen: sl.gen}
}

// Remove invalidates h. It reports whether h was live.
func (t *Table) Remove(h Handle) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	sl, ok := t.lookup(h)
	if !ok {
		return false
	}
	sl.surf = nil
	sl.gen++
	if sl.gen == 0 {
		sl.gen = 1
	}
	t.free = append(t.free, h.index)
	t.live--
	return true
}

// Resolve returns the surface behind h, if it still exists.
func (t *Table) Resolve(h Handle) (Surface, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	sl, ok := t.lookup(h)
	if !ok {
		return nil, false
	}
	return sl.surf, true
}

// Handles lists every live handle in slot order.
func (t *Table) Handles() []Handle {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Handle, 0, t.live)
	for i, sl := range t.slots {
		if sl.surf != nil {
			out = append(out, Handle{index: uint32(i), gen: sl.gen})
		}
	}
	return out
}

func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.live
}

func (t *Table) lookup(h Handle) (*slot, bool) {
	if !h.Valid() || int(h.index) >= len(t.slots) {
		return nil, false
	}
	sl := &t.slots[h.index]
	if sl.gen != h.gen || sl.surf == nil {
		return nil, false
	}
	return sl, true
}

// Resolver is the read side of Table the effect depends on.
type Resolver interface {
	Resolve(h Handle) (Surface, bool)
}
