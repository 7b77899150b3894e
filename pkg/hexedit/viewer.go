// Package hexedit is a memory-bounded hex viewer and editor over a file of
// a drive. Only one window of the file is held in memory at a time.
package hexedit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/datatug/drivetug/pkg/files"
)

// DefaultEditWindow is the number of bytes loaded for editing. It is a
// multiple of two sectors.
const DefaultEditWindow = 0x4000

const sectorSize = 0x200

// ErrNotWritable is returned when editing a file on a read-only drive.
var ErrNotWritable = errors.New("file is not writable")

// ByteIO is the part of the storage collaborator the editor needs.
type ByteIO interface {
	Size(ctx context.Context, path string) (int64, error)
	ReadBytes(ctx context.Context, path string, offset int64, length int) ([]byte, error)
	WriteBytes(ctx context.Context, path string, data []byte, offset int64, overwrite bool) error
	SearchBytes(ctx context.Context, path string, pattern []byte, from int64) (int64, error)
	Writable(path string) bool
}

var _ ByteIO = (files.Store)(nil)

// Step is a scroll distance of the viewer.
type Step int

const (
	StepLine Step = iota
	StepCoarseLine
	StepPage
	StepCoarsePage
)

type Viewer struct {
	io         ByteIO
	logger     *slog.Logger
	path       string
	size       int64
	screenRows int
	geo        Geometry
	editWindow int

	offset     int64
	lastOffset int64
	data       []byte

	pattern    []byte
	found      int64
	foundValid bool

	edit *EditBuffer
}

type Option func(v *Viewer)

func WithMode(mode Mode) Option {
	return func(v *Viewer) {
		v.geo.Mode = mode
	}
}

// WithScreenRows sets the text rows of one screen.
func WithScreenRows(n int) Option {
	return func(v *Viewer) {
		if n > 0 {
			v.screenRows = n
		}
	}
}

// WithEditWindow sets the edit buffer capacity, rounded down to sectors.
func WithEditWindow(n int) Option {
	return func(v *Viewer) {
		if n >= 2*sectorSize {
			v.editWindow = n - n%sectorSize
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(v *Viewer) {
		v.logger = logger
	}
}

// Open prepares a viewer on path. Nothing is read until Load.
func Open(ctx context.Context, io ByteIO, path string, options ...Option) (*Viewer, error) {
	size, err := io.Size(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	v := &Viewer{
		io:         io,
		logger:     slog.Default(),
		path:       path,
		size:       size,
		screenRows: DefaultScreenRows,
		editWindow: DefaultEditWindow,
		lastOffset: -1,
	}
	for _, o := range options {
		o(v)
	}
	v.geo = GeometryFor(v.geo.Mode, v.screenRows)
	return v, nil
}

func (v *Viewer) Path() string { return v.path }

func (v *Viewer) Size() int64 { return v.size }

func (v *Viewer) Offset() int64 { return v.offset }

func (v *Viewer) Geometry() Geometry { return v.geo }

func (v *Viewer) Editing() bool { return v.edit != nil }

// Found returns the offset of the highlighted match.
func (v *Viewer) Found() (int64, bool) { return v.found, v.foundValid }

// NextMode cycles the display geometry. The offset is re-aligned on the next Load.
func (v *Viewer) NextMode() {
	if v.edit != nil {
		return
	}
	v.geo = GeometryFor((v.geo.Mode+1)%modeCount, v.screenRows)
	v.lastOffset = -1
}

// SetScreenRows changes the screen geometry.
func (v *Viewer) SetScreenRows(n int) {
	if n <= 0 || n == v.screenRows || v.edit != nil {
		return
	}
	v.screenRows = n
	v.geo = GeometryFor(v.geo.Mode, n)
	v.lastOffset = -1
}

func (v *Viewer) stepSize(step Step) int64 {
	cols := int64(v.geo.Cols)
	switch step {
	case StepCoarseLine:
		return 0x1000 - 0x1000%cols
	case StepPage:
		return int64(v.geo.Shown())
	case StepCoarsePage:
		return 0x10000 - 0x10000%cols
	default:
		return cols
	}
}

// Scroll moves the view offset by step in direction. It does nothing while editing.
func (v *Viewer) Scroll(step Step, direction int) {
	if v.edit != nil {
		return
	}
	n := v.stepSize(step)
	switch {
	case direction > 0:
		v.offset += n
	case v.offset > n:
		v.offset -= n
	default:
		v.offset = 0
	}
}

// Goto moves the view to offset, at most the end of the file. It does
// nothing while editing.
func (v *Viewer) Goto(offset int64) {
	if v.edit == nil {
		v.offset = min(max(offset, 0), v.size)
	}
}

// Load fixes the offset and reads the window when the offset changed.
func (v *Viewer) Load(ctx context.Context) error {
	v.offset = FixOffset(v.offset, v.size, v.geo.Cols, v.geo.Shown())
	if v.offset == v.lastOffset {
		return nil
	}
	if v.edit != nil {
		v.data = v.edit.view(v.offset, v.geo.Shown())
		v.lastOffset = v.offset
		return nil
	}
	data, err := v.io.ReadBytes(ctx, v.path, v.offset, v.geo.Shown())
	if err != nil {
		v.data = nil
		v.lastOffset = -1
		return fmt.Errorf("read %s at %08X: %w", v.path, v.offset, err)
	}
	v.data = data
	v.lastOffset = v.offset
	return nil
}

// Find searches pattern from the current offset, wrapping around to the
// start of the file. A match moves the view and is highlighted.
func (v *Viewer) Find(ctx context.Context, pattern []byte) (bool, error) {
	if v.edit != nil {
		return false, nil
	}
	if _, err := checkPattern(pattern); err != nil {
		return false, err
	}
	v.pattern = append(v.pattern[:0], pattern...)
	return v.search(ctx, v.offset)
}

// FindNext repeats the last successful search from one past its match.
func (v *Viewer) FindNext(ctx context.Context) (bool, error) {
	if v.edit != nil || !v.foundValid {
		return false, nil
	}
	return v.search(ctx, v.found+1)
}

func (v *Viewer) search(ctx context.Context, from int64) (bool, error) {
	at, err := v.io.SearchBytes(ctx, v.path, v.pattern, from)
	if errors.Is(err, files.ErrNotFound) && from > 0 {
		at, err = v.io.SearchBytes(ctx, v.path, v.pattern, 0)
		if err == nil && at >= from {
			err = files.ErrNotFound
		}
	}
	if errors.Is(err, files.ErrNotFound) {
		v.foundValid = false
		return false, nil
	}
	if err != nil {
		v.foundValid = false
		return false, err
	}
	v.found, v.foundValid = at, true
	v.offset = at
	return true, nil
}
