package engine

import (
	"github.com/datatug/drivetug/pkg/batch"
	"github.com/datatug/drivetug/pkg/files"
	"github.com/datatug/drivetug/pkg/hexedit"
	"github.com/datatug/drivetug/pkg/navigation"
)

type FrameMode int

const (
	FrameBrowser FrameMode = iota
	FrameHex
	FrameText
)

// Frame is everything the renderer needs to draw one screen.
type Frame struct {
	Mode FrameMode
	// TopBar is the path of the listing or of the viewed file.
	TopBar   string
	Elevated bool
	Status   string

	// browser
	Listing navigation.ListingView
	Current *files.DirEntry
	Drive   files.DriveClass

	// viewers
	Hex  *hexedit.HexView
	Text *TextView

	// Progress is set while a batch runs.
	Progress *batch.OperationProgress
}

// TextView is a window of lines of a text file.
type TextView struct {
	Path  string
	Lines []string
	First int
	Total int
	// Truncated is set when the file is larger than what was loaded.
	Truncated bool
}
