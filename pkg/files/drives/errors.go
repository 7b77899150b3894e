package drives

import "errors"

var (
	// ErrNoDrive is returned for paths whose drive letter is not attached or
	// whose media is not present.
	ErrNoDrive = errors.New("no such drive")

	// ErrNoFreeLetter is returned by Mount when every candidate letter is taken.
	ErrNoFreeLetter = errors.New("no free drive letter")

	// ErrSameLocation is returned when a copy or move would land on its source.
	ErrSameLocation = errors.New("destination equals origin")

	// ErrInsideSource is returned when a directory would be copied into itself.
	ErrInsideSource = errors.New("destination is inside origin")

	// ErrInvalidName is returned for names that cannot be a path element.
	ErrInvalidName = errors.New("invalid name")
)
