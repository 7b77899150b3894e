package hexedit

// Mode selects the display geometry of the viewer.
type Mode int

const (
	// ModeDual shows 8 columns across both screens.
	ModeDual Mode = iota
	// ModeWide shows 12 columns with offset and ASCII columns.
	ModeWide
	// ModeNoOffset shows 16 columns without the offset column.
	ModeNoOffset
	// ModeNoASCII shows 16 columns without the ASCII column.
	ModeNoASCII

	modeCount = 4
)

// DefaultScreenRows is the number of text rows of one screen.
const DefaultScreenRows = 16

type Geometry struct {
	Mode         Mode
	Cols         int
	Rows         int
	DualScreen   bool
	OffsetColumn bool
	ASCIIColumn  bool
}

// Shown is the number of bytes one window displays.
func (g Geometry) Shown() int { return g.Rows * g.Cols }

// GeometryFor derives the geometry of mode for screens of screenRows rows.
// Unknown modes fall back to ModeDual.
func GeometryFor(mode Mode, screenRows int) Geometry {
	screenRows = max(screenRows, 1)
	switch mode {
	case ModeWide:
		return Geometry{Mode: mode, Cols: 12, Rows: screenRows, OffsetColumn: true, ASCIIColumn: true}
	case ModeNoOffset:
		return Geometry{Mode: mode, Cols: 16, Rows: screenRows, ASCIIColumn: true}
	case ModeNoASCII:
		return Geometry{Mode: mode, Cols: 16, Rows: screenRows, OffsetColumn: true}
	default:
		return Geometry{Mode: ModeDual, Cols: 8, Rows: 2 * screenRows, DualScreen: true, OffsetColumn: true, ASCIIColumn: true}
	}
}

// FixOffset aligns offset down to cols and pulls it back so the last row of
// the window holds the end of a file of size bytes.
func FixOffset(offset, size int64, cols, shown int) int64 {
	c, s := int64(cols), int64(shown)
	if offset < 0 {
		offset = 0
	}
	offset -= offset % c
	if offset > size-s+c {
		if s > size {
			return 0
		}
		return size + c - s - size%c
	}
	return offset
}
