package files

import "errors"

var (
	// ErrNotFound is returned when a path or search pattern does not resolve.
	ErrNotFound = errors.New("not found")

	// ErrExists is returned by copy, move, rename and create when the
	// destination is already taken and the conflict policy does not resolve it.
	ErrExists = errors.New("destination already exists")

	// ErrReadOnly is returned for writes to a read-only drive or file.
	ErrReadOnly = errors.New("read-only")

	// ErrDirFull is returned when a listing is at capacity.
	ErrDirFull = errors.New("listing is full")

	// ErrNotSupported is returned when a backend cannot perform an operation.
	ErrNotSupported = errors.New("operation not supported")

	// ErrSkipped is returned by copy and move when the conflict policy skipped an item.
	ErrSkipped = errors.New("skipped")
)
