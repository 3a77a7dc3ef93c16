package arena

import "unsafe"

// Realloc resizes the allocation at p to size bytes.
//
// Realloc(nil, size) behaves exactly like Alloc(size). Realloc(p, 0)
// behaves exactly like Free(p) and returns a nil pointer with a nil error.
// Otherwise p must be tracked as in use, or the call fails with
// ErrBadPointer.
//
// When the block's current capacity already covers the aligned size the
// address is preserved and no bytes move; excess is split off in place when
// large enough to stand alone. A genuine grow allocates a fresh block,
// copies the old payload, and frees the old block — those two sub-steps are
// independently locked operations, so concurrent observers may see the new
// and old blocks change state as two events rather than one. Bytes past the
// old capacity are uninitialized in the result.
func (a *Arena) Realloc(p unsafe.Pointer, size uintptr) (unsafe.Pointer, error) {
	if p == nil {
		return a.Alloc(size)
	}
	if size == 0 {
		if err := a.Free(p); err != nil {
			return nil, err
		}
		return nil, nil
	}
	aligned := alignUp(size, blockAlign)

	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil, ErrClosed
	}
	a.stats.ReallocCalls++
	b := a.lookup(p)
	if b == nil {
		a.mu.Unlock()
		a.log.Error("realloc of untracked pointer", "addr", uintptr(p))
		return nil, ErrBadPointer
	}
	if b.capacity >= aligned {
		// Zero-copy shrink or same-size reuse. A split remainder sits
		// between this block and its successor, so it may itself have a
		// free neighbor to absorb.
		if a.split(b, aligned) {
			a.coalesce(b.next)
		}
		a.mu.Unlock()
		return p, nil
	}
	oldCap := b.capacity
	a.mu.Unlock()

	np, err := a.Alloc(size)
	if err != nil {
		return nil, err
	}
	copy(unsafe.Slice((*byte)(np), oldCap), unsafe.Slice((*byte)(p), oldCap))
	if err := a.Free(p); err != nil {
		return nil, err
	}
	return np, nil
}
