package files

// Clipboard holds entries copied out of a listing. The copies are owned by the
// clipboard, later changes to the listing do not affect them.
type Clipboard struct {
	store    *DirStruct
	n        int
	lastSize int
}

func NewClipboard(limit int) *Clipboard {
	return &Clipboard{store: NewDirStruct(limit)}
}

func (c *Clipboard) Len() int { return c.n }

func (c *Clipboard) IsEmpty() bool { return c.n == 0 }

// Entries returns the live clipboard contents.
func (c *Clipboard) Entries() []DirEntry {
	return c.store.Entries()[:c.n]
}

// Fill replaces the clipboard contents. Marks are cleared on the copies.
func (c *Clipboard) Fill(entries []DirEntry) error {
	c.store.Reset()
	c.n = 0
	for _, e := range entries {
		e.Marked = false
		if err := c.store.Add(e); err != nil {
			c.n = c.store.Len()
			c.lastSize = c.n
			return err
		}
	}
	c.n = c.store.Len()
	if c.n > 0 {
		c.lastSize = c.n
	}
	return nil
}

func (c *Clipboard) Clear() {
	c.n = 0
}

// Retain keeps the entries keep reports true for, in order. The kept
// entries also become the contents Toggle restores.
func (c *Clipboard) Retain(keep func(DirEntry) bool) {
	entries := c.Entries()
	c.store.Reset()
	for _, e := range entries {
		if keep(e) {
			_ = c.store.Add(e)
		}
	}
	c.n = c.store.Len()
	c.lastSize = c.n
}

// Toggle clears a non-empty clipboard, or restores the last non-empty contents.
func (c *Clipboard) Toggle() {
	if c.n > 0 {
		c.n = 0
		return
	}
	c.n = c.lastSize
}

// Invalidate drops the clipboard contents, and the remembered contents, when
// stale reports true for the first entry.
func (c *Clipboard) Invalidate(stale func(DirEntry) bool) bool {
	if c.store.Len() == 0 {
		return false
	}
	if !stale(*c.store.At(0)) {
		return false
	}
	c.store.Reset()
	c.n = 0
	c.lastSize = 0
	return true
}
