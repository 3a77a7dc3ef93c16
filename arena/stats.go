package arena

// Stats is a point-in-time snapshot of allocator activity. Counter fields
// accumulate over the arena's lifetime; gauge fields (Blocks, Mappings and
// the byte totals) describe the block list at snapshot time.
type Stats struct {
	AllocCalls   uint64 // Alloc invocations, including failures
	FreeCalls    uint64 // Free invocations on non-nil pointers
	ReallocCalls uint64 // Realloc invocations past the nil/zero-size fast paths, including failures
	GrowCalls    uint64 // heap extensions (one fresh mapping each)
	GrowBytes    uint64 // total bytes acquired via heap extension
	Splits       uint64 // oversized blocks carved into head+remainder
	CoalesceNext uint64 // merges absorbing the next neighbor
	CoalescePrev uint64 // merges absorbing into the previous neighbor

	Blocks      int    // live blocks, in-use and free
	Mappings    int    // OS mappings currently held
	InUseBytes  uint64 // payload bytes owned by callers
	FreeBytes   uint64 // payload bytes available for reuse
	MappedBytes uint64 // total bytes of address space acquired
}
