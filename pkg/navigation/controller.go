// Package navigation owns the current listing, the cursor and scroll
// position and the remembered pane positions.
package navigation

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/datatug/drivetug/pkg/files"
	"github.com/datatug/drivetug/pkg/files/drives"
	"github.com/datatug/drivetug/pkg/metrics"
)

// ErrInvalidRoot is returned when the drive selection root lists nothing.
// The session cannot continue.
var ErrInvalidRoot = errors.New("invalid root directory")

const (
	DefaultPanes     = 3
	DefaultLines     = 20
	DefaultQuickStep = 20
)

// Lister enumerates a path of the store.
type Lister interface {
	Enumerate(ctx context.Context, path string) ([]files.DirEntry, error)
}

type Outcome int

const (
	// Moved means the listing changed location.
	Moved Outcome = iota
	// OpenFile means the entry is a file and file handling is up to the caller.
	OpenFile
)

type Controller struct {
	store     Lister
	logger    *slog.Logger
	listing   *files.DirStruct
	clipboard *files.Clipboard
	panes     []files.PaneData
	active    int
	path      string
	cursor    int
	scroll    int
	lines     int
	quickStep int
}

type Option func(c *Controller)

// WithPanes sets the number of pane slots. Values below 1 mean one pane.
func WithPanes(n int) Option {
	return func(c *Controller) {
		c.panes = make([]files.PaneData, max(n, 1))
	}
}

// WithLines sets how many entries one screen shows.
func WithLines(n int) Option {
	return func(c *Controller) {
		c.lines = max(n, 1)
	}
}

func WithQuickStep(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.quickStep = n
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithListingLimit bounds the current listing and the clipboard.
func WithListingLimit(n int) Option {
	return func(c *Controller) {
		c.listing = files.NewDirStruct(n)
		c.clipboard = files.NewClipboard(n)
	}
}

// New creates a controller positioned at the drive selection root.
func New(ctx context.Context, store Lister, options ...Option) (*Controller, error) {
	c := &Controller{
		store:     store,
		logger:    slog.Default(),
		listing:   files.NewDirStruct(0),
		clipboard: files.NewClipboard(0),
		panes:     make([]files.PaneData, DefaultPanes),
		lines:     DefaultLines,
		quickStep: DefaultQuickStep,
	}
	for _, o := range options {
		o(c)
	}
	c.refresh(ctx)
	if c.listing.Len() == 0 {
		return nil, ErrInvalidRoot
	}
	return c, nil
}

func (c *Controller) Path() string { return c.path }

func (c *Controller) Cursor() int { return c.cursor }

func (c *Controller) Scroll() int { return c.scroll }

func (c *Controller) Lines() int { return c.lines }

// SetLines changes the screen geometry and re-establishes the scroll window.
func (c *Controller) SetLines(n int) {
	c.lines = max(n, 1)
	c.fixScroll()
}

func (c *Controller) Len() int { return c.listing.Len() }

func (c *Controller) Listing() *files.DirStruct { return c.listing }

func (c *Controller) Clipboard() *files.Clipboard { return c.clipboard }

// Current returns the entry under the cursor, nil for an empty listing.
func (c *Controller) Current() *files.DirEntry { return c.listing.At(c.cursor) }

// AtRoot reports whether the drive selection root is listed.
func (c *Controller) AtRoot() bool { return c.path == "" }

// ActivePane returns the index of the active pane slot.
func (c *Controller) ActivePane() int { return c.active }

func (c *Controller) PaneCount() int { return len(c.panes) }

// Panes returns the pane slots with the active slot holding the live position.
func (c *Controller) Panes() []files.PaneData {
	panes := append([]files.PaneData(nil), c.panes...)
	panes[c.active] = c.position()
	return panes
}

func (c *Controller) position() files.PaneData {
	return files.PaneData{Path: c.path, Cursor: c.cursor, Scroll: c.scroll}
}

// refresh re-reads the current path. A failing enumeration leaves an empty listing.
func (c *Controller) refresh(ctx context.Context) {
	entries, err := c.store.Enumerate(ctx, c.path)
	if err != nil {
		c.logger.Warn("enumeration failed", "path", c.path, "err", err)
		metrics.RecordEnumerationFailure()
		entries = nil
	}
	if err = c.listing.Replace(entries); err != nil {
		c.logger.Warn("listing truncated", "path", c.path, "entries", len(entries), "kept", c.listing.Len())
	}
}

// settle falls back to the root when the listing is empty and keeps the
// cursor and scroll inside the listing.
func (c *Controller) settle(ctx context.Context) error {
	if c.listing.Len() == 0 && c.path != "" {
		c.logger.Warn("invalid directory, returning to root", "path", c.path)
		c.path = ""
		c.cursor, c.scroll = 0, 0
		c.refresh(ctx)
	}
	if c.listing.Len() == 0 {
		c.cursor, c.scroll = 0, 0
		return ErrInvalidRoot
	}
	c.clampCursor()
	c.fixScroll()
	return nil
}

func (c *Controller) clampCursor() {
	if c.cursor >= c.listing.Len() {
		c.cursor = c.listing.Len() - 1
	}
	if c.cursor < 0 {
		c.cursor = 0
	}
}

func (c *Controller) fixScroll() {
	c.scroll = FixScroll(c.cursor, c.scroll, c.listing.Len(), c.lines)
}

// FixScroll adjusts scroll minimally so that scroll <= cursor < scroll+lines
// and scroll+lines <= max(n, lines).
func FixScroll(cursor, scroll, n, lines int) int {
	if scroll > cursor {
		scroll = cursor
	} else if scroll+lines <= cursor {
		scroll = cursor - lines + 1
	}
	if scroll+lines > n {
		scroll = max(n-lines, 0)
	}
	return max(scroll, 0)
}

// firstCursor is where the cursor lands in a freshly entered listing: past
// the parent link when there is anything after it.
func (c *Controller) firstCursor() int {
	if c.listing.HasParentLink() && c.listing.Len() > 1 {
		return 1
	}
	return 0
}

// Enter opens a directory or drive root. Files are left to the caller and
// a parent link behaves like Leave.
func (c *Controller) Enter(ctx context.Context, entry files.DirEntry) (Outcome, error) {
	switch entry.Kind {
	case files.KindFile:
		return OpenFile, nil
	case files.KindParentLink:
		return Moved, c.Leave(ctx)
	}
	c.path = entry.Path
	c.refresh(ctx)
	c.cursor, c.scroll = c.firstCursor(), 0
	return Moved, c.settle(ctx)
}

// EnterCurrent is Enter for the entry under the cursor.
func (c *Controller) EnterCurrent(ctx context.Context) (Outcome, error) {
	entry := c.Current()
	if entry == nil {
		return Moved, c.settle(ctx)
	}
	return c.Enter(ctx, *entry)
}

// EnterContaining lists the directory holding path in the active pane.
func (c *Controller) EnterContaining(ctx context.Context, path string) error {
	c.path = drives.Parent(path)
	c.refresh(ctx)
	c.cursor, c.scroll = c.firstCursor(), 0
	return c.settle(ctx)
}

// Leave goes one level up, or from a drive root to the drive selection
// root, and puts the cursor back on the entry just left.
func (c *Controller) Leave(ctx context.Context) error {
	if c.path == "" {
		return nil
	}
	old := c.path
	c.path = drives.Parent(old)
	c.refresh(ctx)
	c.scroll = 0
	c.cursor = c.findLeft(old)
	return c.settle(ctx)
}

// findLeft locates the child just left, searching from the last entry
// down to index 1.
func (c *Controller) findLeft(old string) int {
	found := 0
	for i := c.listing.Len() - 1; i > 0; i-- {
		if c.listing.At(i).Path == old {
			found = i
			break
		}
	}
	if c.path == "" {
		// drive selection root: no parent link, index 0 is a drive
		return found
	}
	// subdirectory: index 0 is the parent link and never gets the cursor
	if found == 0 && c.listing.Len() > 1 {
		return 1
	}
	return found
}

// LeaveToRoot returns to the drive selection root in one step.
func (c *Controller) LeaveToRoot(ctx context.Context) error {
	c.path = ""
	c.refresh(ctx)
	c.cursor, c.scroll = 0, 0
	return c.settle(ctx)
}

// SwitchPane stores the live position in the active slot, moves direction
// slots around the ring and restores the position found there.
func (c *Controller) SwitchPane(ctx context.Context, direction int) error {
	c.panes[c.active] = c.position()
	n := len(c.panes)
	c.active = ((c.active+direction)%n + n) % n
	p := c.panes[c.active]
	c.path, c.cursor, c.scroll = p.Path, p.Cursor, p.Scroll
	c.refresh(ctx)
	return c.settle(ctx)
}

// OpenContaining switches to the next pane and shows the directory holding
// path with path selected.
func (c *Controller) OpenContaining(ctx context.Context, path string) error {
	if !strings.Contains(path, "/") {
		return nil
	}
	c.panes[c.active] = c.position()
	c.active = (c.active + 1) % len(c.panes)
	c.path = drives.Parent(path)
	c.refresh(ctx)
	c.scroll = 0
	c.cursor = c.firstCursor()
	for i := 1; i < c.listing.Len(); i++ {
		if strings.EqualFold(c.listing.At(i).Path, path) {
			c.cursor = i
			break
		}
	}
	return c.settle(ctx)
}

// Reconcile re-reads the current location after the listing may have
// changed size. Entries that are still listed keep their marks.
func (c *Controller) Reconcile(ctx context.Context) error {
	marked := c.listing.Marked()
	c.refresh(ctx)
	for _, e := range marked {
		if i := c.listing.IndexOfPath(e.Path); i >= 0 {
			c.listing.At(i).Marked = true
		}
	}
	return c.settle(ctx)
}

// Select moves the cursor to the entry with path, searching from the end.
// It reports whether the entry was found.
func (c *Controller) Select(path string) bool {
	i := c.listing.IndexOfPath(path)
	if i < 0 {
		return false
	}
	c.cursor = i
	c.fixScroll()
	return true
}

// MoveCursor moves by delta and clamps. With drag set the entry arrived at
// takes over the mark state of the entry left.
func (c *Controller) MoveCursor(delta int, drag bool) {
	prev := c.Current()
	c.cursor += delta
	c.clampCursor()
	if drag && prev != nil && c.path != "" {
		if next := c.Current(); next != nil && next != prev && next.Kind != files.KindParentLink {
			next.Marked = prev.Marked
		}
	}
	c.fixScroll()
}

// QuickStep moves by the quick step in direction.
func (c *Controller) QuickStep(direction int) {
	if direction < 0 {
		c.MoveCursor(-c.quickStep, false)
		return
	}
	c.MoveCursor(c.quickStep, false)
}
