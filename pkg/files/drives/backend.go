package drives

import (
	"context"
	"io"

	"github.com/datatug/drivetug/pkg/files"
)

// Info describes one object of a backend.
type Info struct {
	Name  string
	Size  int64
	IsDir bool
}

// Backend is a physical or synthetic drive. Paths are backend-local, slash
// separated and rooted at "/".
type Backend interface {
	Label() string
	Class() files.DriveClass
	Stat(ctx context.Context, p string) (Info, error)
	ReadDir(ctx context.Context, p string) ([]Info, error)
	ReadAt(ctx context.Context, p string, off int64, n int) ([]byte, error)
	// WriteAt writes data at off. With truncate set the file is created or
	// truncated first.
	WriteAt(ctx context.Context, p string, data []byte, off int64, truncate bool) error
	Open(ctx context.Context, p string) (io.ReadCloser, error)
	Create(ctx context.Context, p string) (io.WriteCloser, error)
	Mkdir(ctx context.Context, p string) error
	// Remove deletes p, directories recursively.
	Remove(ctx context.Context, p string) error
	Rename(ctx context.Context, from, to string) error
}

// Classifier is implemented by backends that can recognize file content.
type Classifier interface {
	ClassifyContent(ctx context.Context, p string) files.ContentClass
}

// Searcher is implemented by backends with a faster byte search than
// chunked ReadAt calls.
type Searcher interface {
	SearchBytes(ctx context.Context, p string, pattern []byte, from int64) (int64, error)
}

// Presence is implemented by removable media.
type Presence interface {
	Present() bool
}

// SpaceReporter is implemented by backends that know their capacity.
type SpaceReporter interface {
	Space(ctx context.Context) (free, total uint64, err error)
}

// Walker is implemented by backends with a native recursive walk.
type Walker interface {
	Walk(ctx context.Context, p string, fn func(p string, info Info) error) error
}

// Lister is implemented by synthetic drives whose listing refers to objects
// on other drives. Entries carry absolute drive paths.
type Lister interface {
	List(ctx context.Context) ([]files.DirEntry, error)
}

// FileCopier is implemented by backends that copy a file internally.
type FileCopier interface {
	CopyFile(ctx context.Context, from, to string) error
}

// Mounter turns an image file into a new drive backend.
type Mounter interface {
	Mount(ctx context.Context, store files.Store, imagePath string) (Backend, error)
}
