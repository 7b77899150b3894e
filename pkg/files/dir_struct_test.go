package files

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestListing(t *testing.T, withParent bool, names ...string) *DirStruct {
	t.Helper()
	d := NewDirStruct(0)
	if withParent {
		require.NoError(t, d.Add(NewParentLink("0:")))
	}
	for _, name := range names {
		require.NoError(t, d.Add(NewDirEntry(name, "0:/"+name, 10, KindFile)))
	}
	return d
}

func TestDirStruct_Add(t *testing.T) {
	t.Parallel()

	t.Run("keeps_insertion_order", func(t *testing.T) {
		d := newTestListing(t, false, "b", "a", "c")
		assert.Equal(t, 3, d.Len())
		assert.Equal(t, "b", d.At(0).Name)
		assert.Equal(t, "a", d.At(1).Name)
		assert.Equal(t, "c", d.At(2).Name)
	})

	t.Run("capacity_bounded", func(t *testing.T) {
		d := NewDirStruct(2)
		assert.NoError(t, d.Add(NewDirEntry("a", "0:/a", 0, KindFile)))
		assert.NoError(t, d.Add(NewDirEntry("b", "0:/b", 0, KindFile)))
		assert.ErrorIs(t, d.Add(NewDirEntry("c", "0:/c", 0, KindFile)), ErrDirFull)
		assert.Equal(t, 2, d.Len())
	})

	t.Run("at_out_of_range", func(t *testing.T) {
		d := newTestListing(t, false, "a")
		assert.Nil(t, d.At(-1))
		assert.Nil(t, d.At(1))
	})
}

func TestDirStruct_Replace(t *testing.T) {
	t.Parallel()
	d := newTestListing(t, true, "a", "b")
	d.At(1).Marked = true

	err := d.Replace([]DirEntry{NewDirEntry("z", "0:/z", 1, KindFile)})
	assert.NoError(t, err)
	assert.Equal(t, 1, d.Len())
	assert.Equal(t, 0, d.MarkedCount())
	assert.False(t, d.HasParentLink())
}

func TestDirStruct_Marks(t *testing.T) {
	t.Parallel()
	d := newTestListing(t, true, "a", "b", "c")

	d.MarkAll()
	assert.Equal(t, 3, d.MarkedCount())
	assert.False(t, d.At(0).Marked, "parent link is never marked")

	assert.True(t, d.Unmark("0:/b"))
	assert.False(t, d.Unmark("0:/missing"))
	marked := d.Marked()
	require.Len(t, marked, 2)
	assert.Equal(t, "a", marked[0].Name)
	assert.Equal(t, "c", marked[1].Name)

	d.UnmarkAll()
	assert.Zero(t, d.MarkedCount())
}

func TestDirStruct_Index(t *testing.T) {
	t.Parallel()
	d := newTestListing(t, true, "a", "B")
	assert.Equal(t, 2, d.IndexOfPath("0:/b"), "drive paths compare case-insensitively")
	assert.Equal(t, 1, d.IndexOfName("a"))
	assert.Equal(t, -1, d.IndexOfName("b"))
	assert.Equal(t, -1, d.IndexOfPath("1:/a"))

	both := newTestListing(t, true, "a.bin", "A.bin")
	assert.Equal(t, 1, both.IndexOfPath("0:/a.bin"), "exact match before case folding")
	assert.Equal(t, 2, both.IndexOfPath("0:/A.bin"))
	assert.Equal(t, 2, both.IndexOfPath("0:/A.BIN"))

	both.MarkAll()
	assert.True(t, both.Unmark("0:/a.bin"))
	assert.False(t, both.At(1).Marked)
	assert.True(t, both.At(2).Marked, "A.bin keeps its mark")
}

func TestDirStruct_EntriesIsACopy(t *testing.T) {
	t.Parallel()
	d := newTestListing(t, false, "a")
	entries := d.Entries()
	entries[0].Name = "changed"
	assert.Equal(t, "a", d.At(0).Name)
}

func TestNewDirEntry(t *testing.T) {
	t.Parallel()

	t.Run("dirs_have_no_size", func(t *testing.T) {
		e := NewDirEntry("dir", "0:/dir", 123, KindDirectory)
		assert.Zero(t, e.Size)
		assert.True(t, e.Kind.IsContainer())
		assert.False(t, e.IsFile())
	})

	t.Run("bounds_name_and_path", func(t *testing.T) {
		long := strings.Repeat("x", 300)
		e := NewDirEntry(long, "0:/"+long, 1, KindFile)
		assert.Len(t, e.Name, MaxNameLen)
		assert.Len(t, e.Path, MaxPathLen)
	})

	t.Run("bound_keeps_utf8_valid", func(t *testing.T) {
		name := strings.Repeat("a", MaxNameLen-1) + "é"
		e := NewDirEntry(name, "0:/x", 1, KindFile)
		assert.Len(t, e.Name, MaxNameLen-1)
	})
}

func TestFitCells(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in       string
		cols     int
		expected string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"much-too-long-name", 8, "much-to~"},
		{"ファイル名", 10, "ファイル名"},
		{"ファイル名", 6, "ファ~"},
		{"anything", 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.expected, FitCells(tt.in, tt.cols))
		})
	}
}

func TestEntryKind_String(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "file", KindFile.String())
	assert.Equal(t, "dir", KindDirectory.String())
	assert.Equal(t, "..", KindParentLink.String())
	assert.Equal(t, "drive", KindDriveRoot.String())
	assert.Equal(t, "unknown", EntryKind(42).String())
}
