package arena

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"unsafe"

	"github.com/joshuapare/memkit/internal/mem"
)

// mapping records one OS region acquired by heap extension, kept so Close
// can release every region the arena has ever obtained.
type mapping struct {
	data    []byte
	cleanup func() error
}

// Arena is a self-contained allocator instance: the block list, the mutex
// guarding it, and the mappings backing it. Multiple isolated arenas can
// coexist in one process.
type Arena struct {
	mu       sync.Mutex
	head     *block
	tail     *block
	mappings []mapping

	pageSize uintptr
	maxBytes uintptr // mapped-bytes ceiling, 0 means unlimited
	mapped   uintptr
	stats    Stats
	log      *slog.Logger
	closed   bool
}

// Option configures an Arena at construction time.
type Option func(*Arena)

// WithLogger routes the arena's diagnostics to l. Logging is never used for
// control flow; by default all output is discarded.
func WithLogger(l *slog.Logger) Option {
	return func(a *Arena) {
		if l != nil {
			a.log = l
		}
	}
}

// WithMapLimit caps the total bytes of address space the arena may acquire.
// Extensions past the limit fail with ErrNoMemory before asking the OS.
func WithMapLimit(n uintptr) Option {
	return func(a *Arena) { a.maxBytes = n }
}

// New prepares an allocator instance. It fails only if the environment
// cannot be queried for a usable page size.
func New(opts ...Option) (*Arena, error) {
	a := &Arena{
		pageSize: uintptr(mem.PageSize()),
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.pageSize == 0 || a.pageSize&(a.pageSize-1) != 0 {
		return nil, fmt.Errorf("arena: unusable page size %d", a.pageSize)
	}
	return a, nil
}

// Close releases every OS mapping the arena holds and resets it. It is
// idempotent, but not safe against operations still in flight: callers must
// guarantee quiescence externally. Pointers handed out earlier are invalid
// once Close returns.
func (a *Arena) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return nil
	}
	var firstErr error
	for _, m := range a.mappings {
		if err := m.cleanup(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	a.mappings = nil
	a.head, a.tail = nil, nil
	a.mapped = 0
	a.stats = Stats{}
	a.closed = true
	return firstErr
}

// Stats returns a consistent snapshot of allocator counters and the current
// shape of the block list.
func (a *Arena) Stats() Stats {
	a.mu.Lock()
	defer a.mu.Unlock()
	s := a.stats
	for b := a.head; b != nil; b = b.next {
		s.Blocks++
		if b.used {
			s.InUseBytes += uint64(b.capacity)
		} else {
			s.FreeBytes += uint64(b.capacity)
		}
	}
	s.Mappings = len(a.mappings)
	s.MappedBytes = uint64(a.mapped)
	return s
}

// lookup resolves a payload pointer to its tracked in-use block. The header
// is co-located one headerSize before the payload, but dereferencing that
// address for a foreign pointer would itself be unsafe, so validity means
// membership in the list. Returns nil for untracked or free blocks.
func (a *Arena) lookup(p unsafe.Pointer) *block {
	want := uintptr(p) - headerSize
	for b := a.head; b != nil; b = b.next {
		addr := b.addr()
		if addr == want {
			if b.used {
				return b
			}
			return nil
		}
		if addr > want {
			// List is address-ordered; no later block can match.
			return nil
		}
	}
	return nil
}

// insert links b into the list keeping strict ascending address order. Fresh
// mappings usually land past the current tail, so the scan starts there.
func (a *Arena) insert(b *block) {
	if a.tail == nil {
		a.head, a.tail = b, b
		return
	}
	at := a.tail
	for at != nil && at.addr() > b.addr() {
		at = at.prev
	}
	if at == nil {
		b.next, b.prev = a.head, nil
		a.head.prev = b
		a.head = b
		return
	}
	b.next, b.prev = at.next, at
	if at.next != nil {
		at.next.prev = b
	} else {
		a.tail = b
	}
	at.next = b
}

// grow acquires a fresh private anonymous mapping large enough for one
// header plus size payload bytes, rounded up to whole pages. The rounding
// slack is donated to the new block's capacity. Called with the lock held.
func (a *Arena) grow(size uintptr) (*block, error) {
	total := alignUp(headerSize+size, a.pageSize)
	if a.maxBytes != 0 && a.mapped+total > a.maxBytes {
		return nil, fmt.Errorf("%w: %d bytes mapped, limit %d", ErrNoMemory, a.mapped, a.maxBytes)
	}
	data, cleanup, err := mem.Map(int(total))
	if err != nil {
		a.log.Debug("heap extension refused", "bytes", total, "err", err)
		return nil, fmt.Errorf("%w: %v", ErrNoMemory, err)
	}
	b := (*block)(unsafe.Pointer(&data[0]))
	b.capacity = total - headerSize
	b.region = uintptr(unsafe.Pointer(&data[0]))
	b.used = true
	b.next, b.prev = nil, nil
	a.mappings = append(a.mappings, mapping{data: data, cleanup: cleanup})
	a.mapped += total
	a.insert(b)
	a.stats.GrowCalls++
	a.stats.GrowBytes += uint64(total)
	a.log.Debug("heap extended", "bytes", total, "capacity", b.capacity)
	return b, nil
}
