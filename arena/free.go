package arena

import "unsafe"

// Free returns p's block to the allocator and merges it with any free
// neighbor adjacent within the same mapping. Free(nil) is a documented no-op. A pointer the
// arena does not track as in use — a double free, a foreign pointer — is
// reported as ErrBadPointer and leaves the block list untouched. Pages are
// never returned to the OS here; only Close unmaps.
func (a *Arena) Free(p unsafe.Pointer) error {
	if p == nil {
		return nil
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return ErrClosed
	}
	a.stats.FreeCalls++

	b := a.lookup(p)
	if b == nil {
		a.log.Error("free of untracked pointer", "addr", uintptr(p))
		return ErrBadPointer
	}
	b.used = false
	a.coalesce(b)
	return nil
}

// coalesce merges b with its free neighbors: next first, then previous.
// Both checks are single-neighbor lookups; neighbors are already in fully
// coalesced form by induction from earlier frees, so no rescan is needed.
// Blocks merge only inside the same mapping, never across a region
// boundary, even when the kernel has placed two mappings back to back.
// Returns the surviving block. Called with the lock held.
func (a *Arena) coalesce(b *block) *block {
	if nb := b.next; nb != nil && !nb.used && b.mergeableWith(nb) {
		b.capacity += headerSize + nb.capacity
		b.next = nb.next
		if b.next != nil {
			b.next.prev = b
		} else {
			a.tail = b
		}
		a.stats.CoalesceNext++
	}
	if pb := b.prev; pb != nil && !pb.used && pb.mergeableWith(b) {
		pb.capacity += headerSize + b.capacity
		pb.next = b.next
		if pb.next != nil {
			pb.next.prev = pb
		} else {
			a.tail = pb
		}
		a.stats.CoalescePrev++
		b = pb
	}
	return b
}
