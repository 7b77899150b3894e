package navigation

import (
	"context"

	"github.com/datatug/drivetug/pkg/files"
	"github.com/datatug/drivetug/pkg/files/drives"
	"github.com/datatug/drivetug/pkg/metrics"
)

// ToggleMark flips the mark of the entry under the cursor. The parent link
// and drive roots cannot be marked.
func (c *Controller) ToggleMark() bool {
	e := c.Current()
	if e == nil || c.path == "" || e.Kind == files.KindParentLink {
		return false
	}
	e.Marked = !e.Marked
	return true
}

// MarkAll marks every entry after the parent link. Nothing is marked in the
// drive selection root.
func (c *Controller) MarkAll() {
	if c.path != "" {
		c.listing.MarkAll()
	}
}

func (c *Controller) UnmarkAll() {
	c.listing.UnmarkAll()
}

// Selection returns the marked entries, or the entry under the cursor when
// nothing is marked. The parent link is never selected.
func (c *Controller) Selection() []files.DirEntry {
	if marked := c.listing.Marked(); len(marked) > 0 {
		return marked
	}
	e := c.Current()
	if e == nil || e.Kind == files.KindParentLink {
		return nil
	}
	return []files.DirEntry{*e}
}

// FillClipboard copies the selection into the clipboard and unmarks the
// listing. It returns the number of entries copied.
func (c *Controller) FillClipboard() (int, error) {
	selection := c.Selection()
	if len(selection) == 0 {
		return 0, nil
	}
	c.listing.UnmarkAll()
	err := c.clipboard.Fill(selection)
	return c.clipboard.Len(), err
}

// ToggleClipboard clears a filled clipboard or restores the last contents.
func (c *Controller) ToggleClipboard() {
	c.clipboard.Toggle()
}

// HandleMediaEvent brings the navigation state up to date with an insert,
// eject or remap. Clipboard contents on drives that went away are dropped
// and a listing on such a drive falls back to the root.
func (c *Controller) HandleMediaEvent(ctx context.Context, ev drives.MediaEvent) error {
	metrics.RecordMediaEvent(ev.Kind.String())
	present := c.presentDrives(ctx)
	gone := func(p string) bool {
		letter, _ := drives.Split(p)
		if ev.Kind == drives.MediaEjected && letter == ev.Drive {
			return true
		}
		return letter != "" && !present[letter]
	}
	if c.clipboard.Invalidate(func(e files.DirEntry) bool { return gone(e.Path) }) {
		c.logger.Info("clipboard dropped", "drive", ev.Drive, "event", ev.Kind.String())
	}
	letter, _ := drives.Split(c.path)
	switch {
	case c.path != "" && gone(c.path):
		c.path = ""
		c.cursor, c.scroll = 0, 0
	case c.path == "", letter == ev.Drive:
	default:
		return nil
	}
	return c.Reconcile(ctx)
}

func (c *Controller) presentDrives(ctx context.Context) map[string]bool {
	present := make(map[string]bool)
	roots, err := c.store.Enumerate(ctx, "")
	if err != nil {
		return present
	}
	for _, r := range roots {
		letter, _ := drives.Split(r.Path)
		present[letter] = true
	}
	return present
}
