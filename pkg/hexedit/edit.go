package hexedit

import (
	"bytes"
	"context"
	"fmt"

	"github.com/datatug/drivetug/pkg/metrics"
)

// EditBuffer holds the loaded edit window and its pristine shadow copy.
type EditBuffer struct {
	origin int64
	bytes  []byte
	shadow []byte
	cursor int // relative to the view offset
}

func (b *EditBuffer) Origin() int64 { return b.origin }

func (b *EditBuffer) Len() int { return len(b.bytes) }

// Dirty reports whether any byte differs from the shadow copy.
func (b *EditBuffer) Dirty() bool { return !bytes.Equal(b.bytes, b.shadow) }

// Diffs counts the bytes that differ from the shadow copy.
func (b *EditBuffer) Diffs() (n int) {
	for i := range b.bytes {
		if b.bytes[i] != b.shadow[i] {
			n++
		}
	}
	return n
}

func (b *EditBuffer) end() int64 { return b.origin + int64(len(b.bytes)) }

// view returns the part of the buffer starting at file offset off.
func (b *EditBuffer) view(off int64, n int) []byte {
	start := int(off - b.origin)
	if start < 0 || start > len(b.bytes) {
		return nil
	}
	return b.bytes[start:min(start+n, len(b.bytes))]
}

// EditStart is where the edit window of size window starts for a view at
// offset: centered on the sector holding offset, 0 near the start of the
// file or when the file is smaller than the window.
func EditStart(offset, size int64, window int) int64 {
	w := int64(window)
	base := offset - offset%sectorSize
	if base <= w/2 || size < w {
		return 0
	}
	return base - w/2
}

// EnterEdit loads the edit window around the view. The search highlight is
// dropped.
func (v *Viewer) EnterEdit(ctx context.Context) error {
	if v.edit != nil {
		return nil
	}
	if len(v.data) == 0 {
		return nil
	}
	if !v.io.Writable(v.path) {
		return fmt.Errorf("edit %s: %w", v.path, ErrNotWritable)
	}
	origin := EditStart(v.offset, v.size, v.editWindow)
	length := int(min(int64(v.editWindow), v.size-origin))
	data, err := v.io.ReadBytes(ctx, v.path, origin, length)
	if err != nil {
		return fmt.Errorf("edit %s at %08X: %w", v.path, origin, err)
	}
	v.edit = &EditBuffer{
		origin: origin,
		bytes:  data,
		shadow: bytes.Clone(data),
	}
	v.foundValid = false
	v.lastOffset = -1
	return v.Load(ctx)
}

// Edit returns the edit buffer, nil outside edit mode.
func (v *Viewer) Edit() *EditBuffer { return v.edit }

// Cursor returns the edit cursor as a file offset.
func (v *Viewer) Cursor() (int64, bool) {
	if v.edit == nil {
		return 0, false
	}
	return v.offset + int64(v.edit.cursor), true
}

// MoveEditCursor moves the edit cursor by delta bytes. Crossing the top or
// bottom edge of the view slides the view by one row while the slid view
// stays inside the edit window, otherwise the cursor is clamped.
func (v *Viewer) MoveEditCursor(delta int) {
	b := v.edit
	if b == nil {
		return
	}
	cols, shown := v.geo.Cols, v.geo.Shown()
	cols64 := int64(cols)
	b.cursor += delta
	switch total := len(v.data); {
	case b.cursor < 0:
		if v.offset >= cols64 && v.offset-cols64 >= b.origin {
			v.offset -= cols64
			b.cursor += cols
		}
		b.cursor = max(b.cursor, 0)
	case b.cursor >= total && total < shown:
		b.cursor = total - 1
	case b.cursor >= shown:
		if v.offset+int64(shown) >= v.size || v.offset+cols64+int64(shown) > b.end() {
			b.cursor = shown - 1
			break
		}
		v.offset += cols64
		b.cursor -= cols
		b.cursor = int(min(int64(b.cursor), v.size-v.offset-1))
	}
	v.data = b.view(v.offset, shown)
	v.lastOffset = v.offset
	b.cursor = min(b.cursor, len(v.data)-1)
}

// Adjust adds delta to the byte under the edit cursor, wrapping within a
// byte. The editor offers +1, -1, +0x10 and -0x10.
func (v *Viewer) Adjust(delta int) {
	b := v.edit
	if b == nil || b.cursor < 0 || b.cursor >= len(v.data) {
		return
	}
	v.data[b.cursor] += byte(delta)
}

// CommitResult describes how leaving edit mode went.
type CommitResult struct {
	Diffs   int
	Written bool
}

// ExitEdit leaves edit mode. With changes pending, confirm is asked and a
// positive answer writes the whole edit window once at its file offset. The
// edits are discarded in every case.
func (v *Viewer) ExitEdit(ctx context.Context, confirm func(diffs int) bool) (CommitResult, error) {
	b := v.edit
	if b == nil {
		return CommitResult{}, nil
	}
	v.edit = nil
	v.data = nil
	v.lastOffset = -1
	res := CommitResult{Diffs: b.Diffs()}
	if res.Diffs == 0 || confirm == nil || !confirm(res.Diffs) {
		return res, nil
	}
	err := v.io.WriteBytes(ctx, v.path, b.bytes, b.origin, false)
	metrics.RecordHexCommit(res.Diffs, err == nil)
	if err != nil {
		v.logger.Warn("hex commit failed", "path", v.path, "offset", b.origin, "diffs", res.Diffs, "err", err)
		return res, fmt.Errorf("write %s at %08X: %w", v.path, b.origin, err)
	}
	v.logger.Info("hex commit", "path", v.path, "offset", b.origin, "diffs", res.Diffs)
	res.Written = true
	return res, nil
}
