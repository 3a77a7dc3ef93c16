//go:build !unix

// Package mem provides platform-specific helpers for acquiring anonymous,
// page-aligned memory regions outside the Go heap.
package mem

import (
	"fmt"
	"os"
	"unsafe"
)

// Map serves a page-aligned region carved from an ordinary heap buffer when
// anonymous mmap is not available. The cleanup function drops the buffer
// reference so the garbage collector can reclaim it.
func Map(size int) ([]byte, func() error, error) {
	if size <= 0 {
		return nil, nil, fmt.Errorf("mem: invalid mapping size %d", size)
	}
	page := os.Getpagesize()
	// Over-allocate by one page so a page-aligned window of the requested
	// size always fits, matching the alignment contract of the mmap path.
	backing := make([]byte, size+page)
	base := uintptr(unsafe.Pointer(&backing[0]))
	off := 0
	if rem := int(base % uintptr(page)); rem != 0 {
		off = page - rem
	}
	data := backing[off : off+size : off+size]
	cleanup := func() error {
		backing = nil
		return nil
	}
	return data, cleanup, nil
}

// PageSize reports the size of an OS virtual-memory page.
func PageSize() int {
	return os.Getpagesize()
}
