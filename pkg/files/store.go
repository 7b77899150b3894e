package files

import (
	"context"
)

//go:generate mockgen -source=store.go -destination=mock_store.go -package=files

// Store is the storage collaborator the engine works against. Paths are
// drive paths such as "0:/gm9/out/file.bin"; the empty path is the drive
// selection root.
type Store interface {
	Enumerate(ctx context.Context, path string) ([]DirEntry, error)
	ClassifyContent(ctx context.Context, path string) ContentClass
	ClassifyDrive(path string) DriveClass
	Size(ctx context.Context, path string) (int64, error)
	Writable(path string) bool

	// ReadBytes may return fewer bytes than requested at the end of a file.
	ReadBytes(ctx context.Context, path string, offset int64, length int) ([]byte, error)
	// WriteBytes writes data at offset. With overwrite set the file is created
	// or truncated first, otherwise it must already exist.
	WriteBytes(ctx context.Context, path string, data []byte, offset int64, overwrite bool) error
	// SearchBytes returns the offset of the first occurrence of pattern at or
	// after from, or ErrNotFound.
	SearchBytes(ctx context.Context, path string, pattern []byte, from int64) (int64, error)

	// Copy and Move place src inside destDir. With policy ConflictAsk an
	// existing destination fails with ErrExists.
	Copy(ctx context.Context, destDir, src string, policy ConflictPolicy) error
	Move(ctx context.Context, destDir, src string, policy ConflictPolicy) error
	Delete(ctx context.Context, path string) error
	Rename(ctx context.Context, path, newName string) error
	CreateDir(ctx context.Context, dir, name string) error
	CreateFile(ctx context.Context, dir, name string, size int64) error
}

// ConflictPolicy decides what happens when a copy or move destination exists.
type ConflictPolicy int

const (
	ConflictAsk ConflictPolicy = iota
	ConflictOverwrite
	ConflictSkip
	ConflictOverwriteAll
	ConflictSkipAll
	ConflictAbort
)

func (p ConflictPolicy) String() string {
	switch p {
	case ConflictAsk:
		return "ask"
	case ConflictOverwrite:
		return "overwrite"
	case ConflictSkip:
		return "skip"
	case ConflictOverwriteAll:
		return "overwrite-all"
	case ConflictSkipAll:
		return "skip-all"
	case ConflictAbort:
		return "abort"
	default:
		return "unknown"
	}
}

// Sticky reports whether the decision applies to the rest of a batch.
func (p ConflictPolicy) Sticky() bool {
	return p == ConflictOverwriteAll || p == ConflictSkipAll
}

// Overwrites reports whether an existing destination gets replaced.
func (p ConflictPolicy) Overwrites() bool {
	return p == ConflictOverwrite || p == ConflictOverwriteAll
}

// Skips reports whether an existing destination is left alone.
func (p ConflictPolicy) Skips() bool {
	return p == ConflictSkip || p == ConflictSkipAll
}
