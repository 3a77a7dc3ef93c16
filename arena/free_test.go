package arena

import (
	"errors"
	"os"
	"testing"
	"unsafe"

	"github.com/joshuapare/memkit/internal/mem"
)

// carveAdjacent returns three payload pointers whose blocks are physically
// adjacent within one mapping, by splitting one large freed block.
func carveAdjacent(t *testing.T, a *Arena, size uintptr) (p1, p2, p3 unsafe.Pointer) {
	t.Helper()
	big := mustAlloc(t, a, 3*(size+headerSize)+256)
	if err := a.Free(big); err != nil {
		t.Fatal(err)
	}
	p1 = mustAlloc(t, a, size)
	p2 = mustAlloc(t, a, size)
	p3 = mustAlloc(t, a, size)
	if uintptr(p2) != uintptr(p1)+size+headerSize ||
		uintptr(p3) != uintptr(p2)+size+headerSize {
		t.Fatalf("carved blocks are not adjacent: %#x %#x %#x",
			uintptr(p1), uintptr(p2), uintptr(p3))
	}
	return p1, p2, p3
}

func Test_Free_CoalesceFreeOrderAscending(t *testing.T) {
	a := newArena(t)
	p1, p2, p3 := carveAdjacent(t, a, 64)

	// Free low address first, then its higher neighbor: second free merges
	// backward into the first.
	if err := a.Free(p1); err != nil {
		t.Fatal(err)
	}
	if err := a.Free(p2); err != nil {
		t.Fatal(err)
	}
	s := a.Stats()
	if s.CoalesceNext+s.CoalescePrev == 0 {
		t.Fatalf("no coalesce recorded: %+v", s)
	}

	// Combined capacity of the two blocks plus the absorbed header.
	combined := uintptr(64 + 64 + headerSize)
	before := a.Stats().GrowCalls
	q := mustAlloc(t, a, combined)
	if a.Stats().GrowCalls != before {
		t.Fatalf("allocation of combined capacity triggered a heap extension")
	}
	if q != p1 {
		t.Fatalf("expected merged block at %#x, got %#x", uintptr(p1), uintptr(q))
	}
	_ = p3
	validateArena(t, a)
}

func Test_Free_CoalesceFreeOrderDescending(t *testing.T) {
	a := newArena(t)
	p1, p2, p3 := carveAdjacent(t, a, 64)

	// Reverse order: high neighbor first, then the low one, which absorbs
	// the already-free next block.
	if err := a.Free(p2); err != nil {
		t.Fatal(err)
	}
	if err := a.Free(p1); err != nil {
		t.Fatal(err)
	}

	combined := uintptr(64 + 64 + headerSize)
	before := a.Stats().GrowCalls
	q := mustAlloc(t, a, combined)
	if a.Stats().GrowCalls != before {
		t.Fatalf("allocation of combined capacity triggered a heap extension")
	}
	if q != p1 {
		t.Fatalf("expected merged block at %#x, got %#x", uintptr(p1), uintptr(q))
	}
	_ = p3
	validateArena(t, a)
}

func Test_Free_CoalesceBothSides(t *testing.T) {
	a := newArena(t)
	p1, p2, p3 := carveAdjacent(t, a, 64)

	if err := a.Free(p1); err != nil {
		t.Fatal(err)
	}
	if err := a.Free(p3); err != nil {
		t.Fatal(err)
	}
	// Middle free must absorb next and fold into prev in one call.
	if err := a.Free(p2); err != nil {
		t.Fatal(err)
	}
	validateArena(t, a)

	s := a.Stats()
	if s.CoalesceNext == 0 || s.CoalescePrev == 0 {
		t.Fatalf("expected merges on both sides: %+v", s)
	}
}

func Test_Free_DoubleFree(t *testing.T) {
	a := newArena(t)

	p := mustAlloc(t, a, 64)
	if err := a.Free(p); err != nil {
		t.Fatal(err)
	}
	if err := a.Free(p); !errors.Is(err, ErrBadPointer) {
		t.Fatalf("double free: got %v, want ErrBadPointer", err)
	}
	// The failed call must not corrupt the list.
	validateArena(t, a)
	q := mustAlloc(t, a, 64)
	fill(q, 64, 0x42)
	checkFilled(t, q, 64, 0x42)
}

func Test_Free_ForeignPointer(t *testing.T) {
	a := newArena(t)
	mustAlloc(t, a, 64)

	var local [64]byte
	if err := a.Free(unsafe.Pointer(&local[0])); !errors.Is(err, ErrBadPointer) {
		t.Fatalf("foreign pointer: got %v, want ErrBadPointer", err)
	}
	validateArena(t, a)
}

func Test_Free_InteriorPointer(t *testing.T) {
	a := newArena(t)

	p := mustAlloc(t, a, 128)
	interior := unsafe.Add(p, 16)
	if err := a.Free(interior); !errors.Is(err, ErrBadPointer) {
		t.Fatalf("interior pointer: got %v, want ErrBadPointer", err)
	}
	// Original allocation is still valid.
	fill(p, 128, 0x77)
	checkFilled(t, p, 128, 0x77)
	validateArena(t, a)
}

func Test_Free_NoUnmapBeforeClose(t *testing.T) {
	a := newArena(t)

	p1 := mustAlloc(t, a, 64)
	p2 := mustAlloc(t, a, 8192)
	if err := a.Free(p1); err != nil {
		t.Fatal(err)
	}
	if err := a.Free(p2); err != nil {
		t.Fatal(err)
	}
	// Every mapping is retained until Close.
	s := a.Stats()
	if s.Mappings != 2 {
		t.Fatalf("Mappings = %d after frees, want 2", s.Mappings)
	}
}

// The kernel routinely places consecutive anonymous mappings back to back,
// so the tail block of one mapping can physically touch the head block of
// the next. Freeing both must leave them distinct: a merged block would
// span two regions and break per-mapping accounting. One doubled region
// registered as two mappings makes the contiguity deterministic.
func Test_Free_NoMergeAcrossContiguousMappings(t *testing.T) {
	a := newArena(t)
	page := uintptr(os.Getpagesize())

	data, cleanup, err := mem.Map(int(2 * page))
	if err != nil {
		t.Fatalf("Map: %v", err)
	}
	t.Cleanup(func() { cleanup() })

	a.mu.Lock()
	var payloads []unsafe.Pointer
	for i := uintptr(0); i < 2; i++ {
		d := data[i*page : (i+1)*page : (i+1)*page]
		b := (*block)(unsafe.Pointer(&d[0]))
		b.capacity = page - headerSize
		b.region = uintptr(unsafe.Pointer(&d[0]))
		b.used = true
		b.next, b.prev = nil, nil
		a.mappings = append(a.mappings, mapping{data: d, cleanup: func() error { return nil }})
		a.mapped += page
		a.insert(b)
		a.stats.GrowCalls++
		a.stats.GrowBytes += uint64(page)
		payloads = append(payloads, b.payload())
	}
	a.mu.Unlock()

	for _, p := range payloads {
		if err := a.Free(p); err != nil {
			t.Fatal(err)
		}
	}
	validateArena(t, a)

	s := a.Stats()
	if s.Blocks != 2 {
		t.Fatalf("Blocks = %d after frees, want 2 distinct per-mapping blocks", s.Blocks)
	}
	if s.CoalesceNext != 0 || s.CoalescePrev != 0 {
		t.Fatalf("coalesce crossed a mapping boundary: next=%d prev=%d", s.CoalesceNext, s.CoalescePrev)
	}

	// Each region is still individually reusable at full capacity.
	q := mustAlloc(t, a, page-headerSize)
	if q != payloads[0] {
		t.Fatalf("first-fit reuse at %#x, want %#x", uintptr(q), uintptr(payloads[0]))
	}
}
