package arena

import "errors"

var (
	// ErrZeroSize indicates a zero-byte allocation request.
	ErrZeroSize = errors.New("arena: zero-size allocation")

	// ErrNoMemory indicates that the OS declined to provide a new mapping.
	ErrNoMemory = errors.New("arena: out of memory")

	// ErrBadPointer indicates a pointer that is not currently tracked as an
	// in-use block: a double free, a foreign pointer, or corrupted metadata.
	ErrBadPointer = errors.New("arena: pointer not tracked as in-use")

	// ErrSizeOverflow indicates that count*elemSize does not fit in a uintptr.
	ErrSizeOverflow = errors.New("arena: allocation size overflows")

	// ErrClosed indicates an operation on an arena after Close.
	ErrClosed = errors.New("arena: closed")
)
