package bench

import (
	"fmt"
	"math/rand"
	"unsafe"

	"github.com/joshuapare/memkit/arena"
)

// Defaults mirroring the harness's historical call volumes.
const (
	DefaultIterations = 5
	DefaultOps        = 10000
	DefaultMaxVarSize = 1024
)

// Pattern is one reproducible allocator workload. Run executes ops
// operations against a, drawing any randomness from rng so runs with the
// same seed are identical.
type Pattern struct {
	Name string
	Run  func(a *arena.Arena, ops int, rng *rand.Rand) error
}

// FixedPattern repeatedly allocates and immediately releases blocks of one
// fixed size. It measures the allocator's hot path: first-fit hit on a
// fully coalesced list.
func FixedPattern(size uintptr) Pattern {
	return Pattern{
		Name: fmt.Sprintf("fixed_%d", size),
		Run: func(a *arena.Arena, ops int, _ *rand.Rand) error {
			for i := 0; i < ops; i++ {
				p, err := a.Alloc(size)
				if err != nil {
					return fmt.Errorf("fixed alloc %d: %w", i, err)
				}
				if err := a.Free(p); err != nil {
					return fmt.Errorf("fixed free %d: %w", i, err)
				}
			}
			return nil
		},
	}
}

// VariablePattern allocates ops blocks of random sizes in [1, maxSize],
// holding all of them live, then releases the batch. Holding the batch
// forces list growth and exercises fragmentation and coalescing.
func VariablePattern(maxSize uintptr) Pattern {
	return Pattern{
		Name: fmt.Sprintf("variable_%d", maxSize),
		Run: func(a *arena.Arena, ops int, rng *rand.Rand) error {
			ptrs := make([]unsafe.Pointer, 0, ops)
			for i := 0; i < ops; i++ {
				size := uintptr(rng.Intn(int(maxSize))) + 1
				p, err := a.Alloc(size)
				if err != nil {
					return fmt.Errorf("variable alloc %d: %w", i, err)
				}
				ptrs = append(ptrs, p)
			}
			for i, p := range ptrs {
				if err := a.Free(p); err != nil {
					return fmt.Errorf("variable free %d: %w", i, err)
				}
			}
			return nil
		},
	}
}

// ReallocPattern allocates initial bytes, grows the block to growTo, shrinks
// it to shrinkTo, and releases it, ops times. It exercises both the
// zero-copy in-place path and the allocate-copy-free move path.
func ReallocPattern(initial, growTo, shrinkTo uintptr) Pattern {
	return Pattern{
		Name: fmt.Sprintf("realloc_%d_%d_%d", initial, growTo, shrinkTo),
		Run: func(a *arena.Arena, ops int, _ *rand.Rand) error {
			for i := 0; i < ops; i++ {
				p, err := a.Alloc(initial)
				if err != nil {
					return fmt.Errorf("realloc alloc %d: %w", i, err)
				}
				if p, err = a.Realloc(p, growTo); err != nil {
					return fmt.Errorf("realloc grow %d: %w", i, err)
				}
				if p, err = a.Realloc(p, shrinkTo); err != nil {
					return fmt.Errorf("realloc shrink %d: %w", i, err)
				}
				if err := a.Free(p); err != nil {
					return fmt.Errorf("realloc free %d: %w", i, err)
				}
			}
			return nil
		},
	}
}

// DefaultPatterns returns the standard suite: fixed 64-byte pairs, variable
// sizes up to DefaultMaxVarSize, and a 128→512→64 realloc cycle.
func DefaultPatterns() []Pattern {
	return []Pattern{
		FixedPattern(64),
		VariablePattern(DefaultMaxVarSize),
		ReallocPattern(128, 512, 64),
	}
}
