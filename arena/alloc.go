package arena

import "unsafe"

// Alloc returns a pointer to at least size writable bytes, aligned to the
// allocator's alignment constant. A zero size fails with ErrZeroSize; an
// exhausted address space fails with ErrNoMemory. The returned bytes are
// uninitialized unless they come from a fresh mapping.
func (a *Arena) Alloc(size uintptr) (unsafe.Pointer, error) {
	if size == 0 {
		return nil, ErrZeroSize
	}
	size = alignUp(size, blockAlign)

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return nil, ErrClosed
	}
	a.stats.AllocCalls++

	if b := a.findFit(size); b != nil {
		b.used = true
		a.split(b, size)
		return b.payload(), nil
	}
	b, err := a.grow(size)
	if err != nil {
		return nil, err
	}
	return b.payload(), nil
}

// AllocZero allocates n*elemSize bytes and zero-fills them. The
// multiplication is checked before any allocation work: an overflowing
// product fails with ErrSizeOverflow and has no side effects.
func (a *Arena) AllocZero(n, elemSize uintptr) (unsafe.Pointer, error) {
	if n != 0 && elemSize > ^uintptr(0)/n {
		return nil, ErrSizeOverflow
	}
	total := n * elemSize
	p, err := a.Alloc(total)
	if err != nil {
		return nil, err
	}
	clear(unsafe.Slice((*byte)(p), total))
	return p, nil
}

// findFit runs the first-fit scan: the first free block in address order
// whose capacity covers size. Cost is linear in live blocks; coalescing is
// the only thing keeping that population down.
func (a *Arena) findFit(size uintptr) *block {
	for b := a.head; b != nil; b = b.next {
		if !b.used && b.capacity >= size {
			return b
		}
	}
	return nil
}

// split carves b into an exact-fit head of size bytes and a free remainder
// inserted immediately after it. Leftovers of one header plus alignment or
// less are not worth a header of their own; b then keeps its full capacity.
// Called with the lock held.
func (a *Arena) split(b *block, size uintptr) bool {
	if b.capacity <= size+headerSize+blockAlign {
		return false
	}
	nb := (*block)(unsafe.Add(unsafe.Pointer(b), headerSize+size))
	nb.capacity = b.capacity - size - headerSize
	nb.region = b.region
	nb.used = false
	nb.next, nb.prev = b.next, b
	if nb.next != nil {
		nb.next.prev = nb
	} else {
		a.tail = nb
	}
	b.capacity = size
	b.next = nb
	a.stats.Splits++
	return true
}
