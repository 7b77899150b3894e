package files

import "strings"

// MaxDirEntries is the capacity of a listing.
const MaxDirEntries = 1024

// DirStruct is an insertion-ordered, capacity-bounded listing.
// The zero value is not usable, use NewDirStruct.
type DirStruct struct {
	entries []DirEntry
	limit   int
}

func NewDirStruct(limit int) *DirStruct {
	if limit <= 0 {
		limit = MaxDirEntries
	}
	return &DirStruct{
		entries: make([]DirEntry, 0, min(limit, 64)),
		limit:   limit,
	}
}

func (d *DirStruct) Len() int { return len(d.entries) }

func (d *DirStruct) Cap() int { return d.limit }

// At returns a pointer into the listing; it is invalidated by Reset.
func (d *DirStruct) At(i int) *DirEntry {
	if i < 0 || i >= len(d.entries) {
		return nil
	}
	return &d.entries[i]
}

// Entries returns a copy of all entries.
func (d *DirStruct) Entries() []DirEntry {
	out := make([]DirEntry, len(d.entries))
	copy(out, d.entries)
	return out
}

// Add appends an entry, it fails with ErrDirFull once the listing is at capacity.
func (d *DirStruct) Add(e DirEntry) error {
	if len(d.entries) >= d.limit {
		return ErrDirFull
	}
	d.entries = append(d.entries, e)
	return nil
}

// Replace swaps the whole listing for entries. Entries beyond capacity are
// dropped and reported with ErrDirFull.
func (d *DirStruct) Replace(entries []DirEntry) error {
	d.entries = d.entries[:0]
	for _, e := range entries {
		if err := d.Add(e); err != nil {
			return err
		}
	}
	return nil
}

func (d *DirStruct) Reset() {
	d.entries = d.entries[:0]
}

// HasParentLink reports whether the first entry is a ".." link.
func (d *DirStruct) HasParentLink() bool {
	return len(d.entries) > 0 && d.entries[0].Kind == KindParentLink
}

// IndexOfPath returns the index of the last entry addressed by path, or -1.
// An exact match wins; otherwise drive paths compare case-insensitively.
func (d *DirStruct) IndexOfPath(path string) int {
	folded := -1
	for i := len(d.entries) - 1; i >= 0; i-- {
		p := d.entries[i].Path
		if p == path {
			return i
		}
		if folded < 0 && strings.EqualFold(p, path) {
			folded = i
		}
	}
	return folded
}

// IndexOfName returns the index of the last entry named name, or -1.
func (d *DirStruct) IndexOfName(name string) int {
	for i := len(d.entries) - 1; i >= 0; i-- {
		if d.entries[i].Name == name {
			return i
		}
	}
	return -1
}

func (d *DirStruct) MarkedCount() (n int) {
	for _, e := range d.entries {
		if e.Marked {
			n++
		}
	}
	return n
}

// Marked returns copies of the marked entries in listing order.
func (d *DirStruct) Marked() []DirEntry {
	var out []DirEntry
	for _, e := range d.entries {
		if e.Marked {
			out = append(out, e)
		}
	}
	return out
}

// MarkAll marks every entry except the parent link.
func (d *DirStruct) MarkAll() {
	d.setAllMarks(true)
}

func (d *DirStruct) UnmarkAll() {
	d.setAllMarks(false)
}

func (d *DirStruct) setAllMarks(v bool) {
	for i := range d.entries {
		if d.entries[i].Kind != KindParentLink {
			d.entries[i].Marked = v
		}
	}
}

// Unmark clears the mark of the entry addressed by path.
func (d *DirStruct) Unmark(path string) bool {
	if i := d.IndexOfPath(path); i >= 0 {
		d.entries[i].Marked = false
		return true
	}
	return false
}
