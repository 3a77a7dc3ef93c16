package arena

import "unsafe"

// blockAlign is the payload alignment constant. Every payload address and
// every capacity is a multiple of it, which satisfies worst-case native
// alignment and bounds fragmentation granularity.
const blockAlign = 16

// block is the metadata header preceding every payload. Headers live inside
// the mapped regions themselves, immediately before the bytes they describe,
// so recovering a header from a payload pointer is pure address arithmetic.
type block struct {
	capacity uintptr // aligned payload bytes following the header
	region   uintptr // base address of the mapping holding this block
	used     bool    // currently owned by a caller
	next     *block  // address-order successor
	prev     *block  // address-order predecessor
}

// headerSize is the header footprint rounded up to blockAlign so the payload
// that follows is always aligned.
const headerSize = (unsafe.Sizeof(block{}) + blockAlign - 1) &^ (blockAlign - 1)

// alignUp rounds n up to the nearest multiple of a (a power of two).
func alignUp(n, a uintptr) uintptr {
	return (n + a - 1) &^ (a - 1)
}

// payload returns the caller-visible pointer for b.
func (b *block) payload() unsafe.Pointer {
	return unsafe.Add(unsafe.Pointer(b), headerSize)
}

// addr returns the address of b's header.
func (b *block) addr() uintptr {
	return uintptr(unsafe.Pointer(b))
}

// end returns the first address past b's payload.
func (b *block) end() uintptr {
	return b.addr() + headerSize + b.capacity
}

// adjacentTo reports whether nb starts exactly where b ends.
func (b *block) adjacentTo(nb *block) bool {
	return b.end() == nb.addr()
}

// mergeableWith is the coalescing precondition: nb follows b with no gap and
// both live in the same mapping. Contiguity alone is not enough because the
// kernel often places consecutive anonymous mappings back to back, and a
// block must never span two regions.
func (b *block) mergeableWith(nb *block) bool {
	return b.region == nb.region && b.end() == nb.addr()
}
