package navigation

import "github.com/datatug/drivetug/pkg/files"

// ListingView is the visible window of the listing.
type ListingView struct {
	Path      string
	Entries   []files.DirEntry
	First     int // listing index of Entries[0]
	Cursor    int // listing index of the selected entry
	Total     int
	Marked    int
	Pane      int
	Panes     int
	Clipboard int
}

// Render re-establishes the scroll window for lines entries and returns the
// visible part of the listing.
func (c *Controller) Render(lines int) ListingView {
	if lines > 0 && lines != c.lines {
		c.lines = lines
	}
	c.clampCursor()
	c.fixScroll()
	entries := c.listing.Entries()
	end := min(c.scroll+c.lines, len(entries))
	return ListingView{
		Path:      c.path,
		Entries:   entries[c.scroll:end],
		First:     c.scroll,
		Cursor:    c.cursor,
		Total:     len(entries),
		Marked:    c.listing.MarkedCount(),
		Pane:      c.active,
		Panes:     len(c.panes),
		Clipboard: c.clipboard.Len(),
	}
}
