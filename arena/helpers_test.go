package arena

import (
	"testing"
	"unsafe"
)

// fill writes pattern over n bytes at p.
func fill(p unsafe.Pointer, n uintptr, pattern byte) {
	s := unsafe.Slice((*byte)(p), n)
	for i := range s {
		s[i] = pattern
	}
}

// checkFilled asserts the first n bytes at p all equal pattern.
func checkFilled(t *testing.T, p unsafe.Pointer, n uintptr, pattern byte) {
	t.Helper()
	s := unsafe.Slice((*byte)(p), n)
	for i, got := range s {
		if got != pattern {
			t.Fatalf("byte %d: got %#x, want %#x", i, got, pattern)
		}
	}
}

// blockAt returns the tracked block whose header sits at addr, or nil.
// Caller must hold a.mu.
func blockAt(a *Arena, addr uintptr) *block {
	for b := a.head; b != nil; b = b.next {
		if b.addr() == addr {
			return b
		}
	}
	return nil
}

// validateArena checks every structural invariant of the block list:
// strict ascending address order with symmetric links, no overlapping
// extents, every mapping exactly tiled by header+payload extents whose
// region tags match, and no same-mapping adjacent pair of free blocks left
// unmerged.
func validateArena(t *testing.T, a *Arena) {
	t.Helper()
	a.mu.Lock()
	defer a.mu.Unlock()

	var prev *block
	for b := a.head; b != nil; b = b.next {
		if b.prev != prev {
			t.Fatalf("block %#x: prev link broken", b.addr())
		}
		if prev != nil {
			if prev.addr() >= b.addr() {
				t.Fatalf("address order violated: %#x !< %#x", prev.addr(), b.addr())
			}
			if prev.end() > b.addr() {
				t.Fatalf("blocks overlap: %#x..%#x and %#x", prev.addr(), prev.end(), b.addr())
			}
			if !prev.used && !b.used && prev.mergeableWith(b) {
				t.Fatalf("unmerged adjacent free blocks at %#x and %#x", prev.addr(), b.addr())
			}
		}
		if b.capacity%blockAlign != 0 {
			t.Fatalf("block %#x: capacity %d not aligned", b.addr(), b.capacity)
		}
		prev = b
	}
	if a.tail != prev {
		t.Fatalf("tail does not point at last block")
	}

	for _, m := range a.mappings {
		base := uintptr(unsafe.Pointer(&m.data[0]))
		end := base + uintptr(len(m.data))
		at := base
		for at < end {
			b := blockAt(a, at)
			if b == nil {
				t.Fatalf("mapping %#x..%#x: unaccounted gap at %#x", base, end, at)
			}
			if b.region != base {
				t.Fatalf("block %#x: region tag %#x, mapping base %#x", b.addr(), b.region, base)
			}
			at = b.end()
		}
		if at != end {
			t.Fatalf("mapping %#x..%#x: blocks run past end to %#x", base, end, at)
		}
	}
}

// localPtr converts a stack/heap array address into a payload-shaped pointer.
func localPtr(p *[16]byte) unsafe.Pointer {
	return unsafe.Pointer(&p[0])
}

// mustAlloc allocates or fails the test.
func mustAlloc(t *testing.T, a *Arena, size uintptr) unsafe.Pointer {
	t.Helper()
	p, err := a.Alloc(size)
	if err != nil {
		t.Fatalf("Alloc(%d): %v", size, err)
	}
	return p
}

// newArena builds an arena and registers its teardown.
func newArena(t *testing.T) *Arena {
	t.Helper()
	a, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}
