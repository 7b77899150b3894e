package hexedit

// HexRow is one displayed row. Bytes is shorter than the column count on
// the last row of a file and empty past its end.
type HexRow struct {
	Offset int64
	Bytes  []byte
	Marked []bool
	Cursor int // column of the edit cursor, -1 when not on this row
}

// ASCII returns the printable rendition of the row, padded to cols.
func (r HexRow) ASCII(cols int) string {
	out := make([]byte, cols)
	for i := range out {
		out[i] = ' '
		if i < len(r.Bytes) && r.Bytes[i] >= 0x20 && r.Bytes[i] < 0x7f {
			out[i] = r.Bytes[i]
		} else if i < len(r.Bytes) && r.Bytes[i] != 0 {
			out[i] = '.'
		}
	}
	return string(out)
}

type HexView struct {
	Path     string
	Size     int64
	Offset   int64
	Geometry Geometry
	Editing  bool
	Diffs    int
	Rows     []HexRow
}

// Render returns the rows of the loaded window with the match highlight
// and the edit cursor applied.
func (v *Viewer) Render() HexView {
	view := HexView{
		Path:     v.path,
		Size:     v.size,
		Offset:   v.offset,
		Geometry: v.geo,
		Editing:  v.edit != nil,
		Rows:     make([]HexRow, v.geo.Rows),
	}
	if v.edit != nil {
		view.Diffs = v.edit.Diffs()
	}
	cols := v.geo.Cols
	for row := range view.Rows {
		pos := row * cols
		r := HexRow{Offset: v.offset + int64(pos), Cursor: -1}
		if pos < len(v.data) {
			r.Bytes = v.data[pos:min(pos+cols, len(v.data))]
		}
		r.Marked = v.marked(r.Offset, cols)
		if v.edit != nil && v.edit.cursor/cols == row {
			r.Cursor = v.edit.cursor % cols
		}
		view.Rows[row] = r
	}
	return view
}

// marked flags the columns of the row starting at rowOffset that are part
// of the highlighted match, including matches straddling rows.
func (v *Viewer) marked(rowOffset int64, cols int) []bool {
	marks := make([]bool, cols)
	if !v.foundValid || len(v.pattern) == 0 {
		return marks
	}
	end := v.found + int64(len(v.pattern))
	for i := range marks {
		at := rowOffset + int64(i)
		marks[i] = at >= v.found && at < end
	}
	return marks
}
