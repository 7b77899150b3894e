// Package capability decides which operations a listing entry offers. It
// is a pure function of classification bits and session flags, evaluated
// every time a menu opens.
package capability

import (
	"strings"

	"github.com/datatug/drivetug/pkg/files"
)

type Op uint32

const (
	HexView Op = 1 << iota
	TextView
	Info
	CopyToStaging
	Mount
	TransformInPlace
	TransformToStaging
	Rename
	Delete
	Paste
	Inject
	OpenContaining
	Search
	DirInfo
	Create
)

// MenuOrder lists every operation in the order menus present them.
var MenuOrder = []Op{
	OpenContaining, HexView, TextView, Info, DirInfo, Search, CopyToStaging, Mount,
	TransformInPlace, TransformToStaging, Inject, Paste, Rename, Delete, Create,
}

var opTitles = map[Op]string{
	HexView:            "Show in hexeditor",
	TextView:           "Show as text",
	Info:               "File info",
	CopyToStaging:      "Copy to output",
	Mount:              "Mount image",
	TransformInPlace:   "Transform in place",
	TransformToStaging: "Transform to output",
	Rename:             "Rename",
	Delete:             "Delete",
	Paste:              "Paste here",
	Inject:             "Inject clipboard data",
	OpenContaining:     "Open containing folder",
	Search:             "Search for files",
	DirInfo:            "Directory info",
	Create:             "Create folder or file",
}

func (o Op) String() string {
	if t, ok := opTitles[o]; ok {
		return t
	}
	return "unknown"
}

// OpSet is a set of operations.
type OpSet uint32

func (s OpSet) Has(o Op) bool { return uint32(s)&uint32(o) != 0 }

func (s OpSet) With(o Op) OpSet { return s | OpSet(o) }

func (s OpSet) Len() (n int) {
	for _, o := range MenuOrder {
		if s.Has(o) {
			n++
		}
	}
	return n
}

// Ops returns the members in menu order.
func (s OpSet) Ops() []Op {
	ops := make([]Op, 0, s.Len())
	for _, o := range MenuOrder {
		if s.Has(o) {
			ops = append(ops, o)
		}
	}
	return ops
}

func (s OpSet) String() string {
	ops := s.Ops()
	if len(ops) == 0 {
		return "none"
	}
	names := make([]string, len(ops))
	for i, o := range ops {
		names[i] = o.String()
	}
	return strings.Join(names, "|")
}

// Context is everything a rule may look at.
type Context struct {
	Kind    files.EntryKind
	Content files.ContentClass
	// Drive is the class of the drive holding the entry. Entries listed on
	// the search drive also carry files.DriveSearch. For operations on the
	// listing itself Kind is files.KindDirectory and Drive is the class of
	// the listed drive.
	Drive         files.DriveClass
	InStaging     bool
	WriteElevated bool
	ClipboardSize int
	ClipboardFile bool // the clipboard holds exactly one file
}
