// Package searchfs implements the search drive: a read-only listing of the
// objects that matched the last file search.
package searchfs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/datatug/drivetug/pkg/files"
	"github.com/datatug/drivetug/pkg/files/drives"
)

// Letter is where the search drive is attached.
const Letter = "Z"

// ErrBadPattern is returned for patterns doublestar cannot parse.
var ErrBadPattern = errors.New("invalid search pattern")

var errLimit = errors.New("result limit reached")

var _ drives.Backend = (*Drive)(nil)
var _ drives.Lister = (*Drive)(nil)

// Walker is the slice of the drive registry a search needs.
type Walker interface {
	Walk(ctx context.Context, p string, fn func(p string, info drives.Info) error) error
}

type Drive struct {
	mu      sync.RWMutex
	limit   int
	root    string
	pattern string
	results []files.DirEntry
}

// New creates an empty search drive holding at most limit results.
func New(limit int) *Drive {
	if limit <= 0 {
		limit = files.MaxDirEntries - 1
	}
	return &Drive{limit: limit}
}

// Search walks root and keeps every object whose name matches pattern.
// Patterns without glob syntax match as substrings. It returns the number
// of results and whether the limit cut the search short.
func (d *Drive) Search(ctx context.Context, w Walker, root, pattern string) (n int, truncated bool, err error) {
	glob := strings.ToLower(pattern)
	if !strings.ContainsAny(glob, "*?[{") {
		glob = "*" + glob + "*"
	}
	if !doublestar.ValidatePattern(glob) {
		return 0, false, fmt.Errorf("%q: %w", pattern, ErrBadPattern)
	}
	byPath := strings.Contains(glob, "/")
	var results []files.DirEntry
	err = w.Walk(ctx, root, func(p string, info drives.Info) error {
		subject := strings.ToLower(info.Name)
		if byPath {
			subject = strings.ToLower(strings.TrimPrefix(strings.TrimPrefix(p, root), "/"))
		}
		if ok, _ := doublestar.Match(glob, subject); !ok {
			return nil
		}
		if len(results) == d.limit {
			return errLimit
		}
		kind := files.KindFile
		if info.IsDir {
			kind = files.KindDirectory
		}
		results = append(results, files.NewDirEntry(info.Name, p, info.Size, kind))
		return nil
	})
	if errors.Is(err, errLimit) {
		truncated, err = true, nil
	}
	if err != nil {
		return 0, false, err
	}
	d.mu.Lock()
	d.root, d.pattern, d.results = root, pattern, results
	d.mu.Unlock()
	return len(results), truncated, nil
}

// Query returns the root and pattern of the last search.
func (d *Drive) Query() (root, pattern string) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.root, d.pattern
}

func (d *Drive) Clear() {
	d.mu.Lock()
	d.root, d.pattern, d.results = "", "", nil
	d.mu.Unlock()
}

func (d *Drive) List(ctx context.Context) ([]files.DirEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]files.DirEntry(nil), d.results...), nil
}

func (d *Drive) Label() string {
	if _, pattern := d.Query(); pattern != "" {
		return "SEARCH " + pattern
	}
	return "SEARCH"
}

func (d *Drive) Class() files.DriveClass {
	return files.DriveSearch | files.DriveVirtual | files.DriveReadOnly
}

func (d *Drive) Stat(_ context.Context, p string) (drives.Info, error) {
	if path.Clean("/"+p) == "/" {
		return drives.Info{Name: Letter + ":", IsDir: true}, nil
	}
	return drives.Info{}, fmt.Errorf("%s: %w", p, files.ErrNotFound)
}

func (d *Drive) ReadDir(_ context.Context, p string) ([]drives.Info, error) {
	return nil, fmt.Errorf("%s: %w", p, files.ErrNotFound)
}

func (d *Drive) ReadAt(context.Context, string, int64, int) ([]byte, error) {
	return nil, files.ErrNotSupported
}

func (d *Drive) WriteAt(context.Context, string, []byte, int64, bool) error {
	return files.ErrReadOnly
}

func (d *Drive) Open(context.Context, string) (io.ReadCloser, error) {
	return nil, files.ErrNotSupported
}

func (d *Drive) Create(context.Context, string) (io.WriteCloser, error) {
	return nil, files.ErrReadOnly
}

func (d *Drive) Mkdir(context.Context, string) error { return files.ErrReadOnly }

func (d *Drive) Remove(context.Context, string) error { return files.ErrReadOnly }

func (d *Drive) Rename(context.Context, string, string) error { return files.ErrReadOnly }
