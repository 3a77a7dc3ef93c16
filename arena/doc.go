// Package arena implements a general-purpose dynamic memory allocator built
// directly on OS virtual-memory mappings, with no delegation to the Go heap
// or a platform allocator.
//
// # Overview
//
// An Arena owns a single address-ordered list of blocks. Each block is a
// fixed-layout header followed immediately by its payload; the pointer a
// caller receives is always header address + header size, and the header is
// never relocated while the payload is outstanding. Every byte of every
// mapping the arena has acquired is covered by exactly one header+payload
// extent.
//
// # Operations
//
// The four public operations mirror the classic malloc family:
//
//   - Alloc(size): first-fit search, split-on-excess, or heap extension
//   - Realloc(p, size): in-place shrink/reuse, or allocate-copy-free
//   - Free(p): validity check, mark free, coalesce with free neighbors
//   - AllocZero(n, elemSize): overflow-checked multiply, then zeroed Alloc
//
// # Allocation strategy
//
// Search is strictly first-fit in address order. A hit whose capacity
// exceeds the request by more than one header plus the alignment constant
// is split into an exact-fit head and a free remainder; smaller leftovers
// are handed out whole, trading internal fragmentation for the absence of
// unusable slivers. On a miss the arena maps a fresh private anonymous
// region, rounded up to whole pages, and donates the rounding slack to the
// new block's capacity.
//
// Freed blocks merge in O(1) with free neighbors adjacent within the same
// mapping; blocks never span two mappings even when the OS places them back
// to back.
// Individual frees never return pages to the OS; mappings are released only
// by Close.
//
// # Thread safety
//
// A single mutex serializes each public operation end to end, so no caller
// observes a torn intermediate state of the block list. The move path of
// Realloc is the one documented exception: its allocate and free sub-steps
// are two independently locked operations, never one atomic transaction.
// Close offers no quiescence protocol; callers must guarantee no operation
// is in flight when it runs.
//
// # Errors
//
// No operation panics across the API boundary. Failures are reported
// through sentinel errors (ErrZeroSize, ErrNoMemory, ErrBadPointer,
// ErrSizeOverflow, ErrClosed) and the arena's state is left exactly as it
// was before the failing call. Passing Free or Realloc a pointer the arena
// does not currently track as in use is detected and reported, never
// treated as undefined behavior.
package arena
