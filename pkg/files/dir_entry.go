package files

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/width"
)

const (
	// MaxNameLen bounds the display label of an entry, in bytes.
	MaxNameLen = 255
	// MaxPathLen bounds the canonical address of an entry, in bytes.
	MaxPathLen = 255
)

// EntryKind tells how an entry behaves when it is entered.
type EntryKind int

const (
	KindFile EntryKind = iota
	KindDirectory
	KindParentLink
	KindDriveRoot
)

func (k EntryKind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDirectory:
		return "dir"
	case KindParentLink:
		return ".."
	case KindDriveRoot:
		return "drive"
	default:
		return "unknown"
	}
}

// IsContainer reports whether entering the entry enumerates a new listing.
func (k EntryKind) IsContainer() bool {
	return k == KindDirectory || k == KindDriveRoot
}

// DirEntry is one row of a listing. Path is unique within the listing it belongs to.
type DirEntry struct {
	Name   string
	Path   string
	Size   int64
	Kind   EntryKind
	Marked bool
}

// NewDirEntry bounds name and path to their maximum lengths.
// Directories and parent links always report a zero size.
func NewDirEntry(name, path string, size int64, kind EntryKind) DirEntry {
	if kind != KindFile {
		size = 0
	}
	return DirEntry{
		Name: boundString(name, MaxNameLen),
		Path: boundString(path, MaxPathLen),
		Size: size,
		Kind: kind,
	}
}

// NewParentLink returns the ".." entry pointing at parentPath.
func NewParentLink(parentPath string) DirEntry {
	return NewDirEntry("..", parentPath, 0, KindParentLink)
}

func (e DirEntry) IsFile() bool { return e.Kind == KindFile }

// DisplayLabel returns the entry name fitted into cols terminal cells.
// East Asian wide runes take two cells; a cut label ends with "~".
func (e DirEntry) DisplayLabel(cols int) string {
	return FitCells(e.Name, cols)
}

// FitCells truncates s to at most cols display cells.
func FitCells(s string, cols int) string {
	if cols <= 0 {
		return ""
	}
	if cellWidth(s) <= cols {
		return s
	}
	var sb strings.Builder
	used := 0
	for _, r := range s {
		w := runeCells(r)
		if used+w > cols-1 {
			break
		}
		sb.WriteRune(r)
		used += w
	}
	sb.WriteByte('~')
	return sb.String()
}

func cellWidth(s string) (n int) {
	for _, r := range s {
		n += runeCells(r)
	}
	return n
}

func runeCells(r rune) int {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2
	default:
		return 1
	}
}

func boundString(s string, max int) string {
	if len(s) <= max {
		return s
	}
	s = s[:max]
	for len(s) > 0 && !utf8.ValidString(s) {
		s = s[:len(s)-1]
	}
	return s
}
