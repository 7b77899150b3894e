package navigation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datatug/drivetug/pkg/files"
	"github.com/datatug/drivetug/pkg/files/drives"
)

func TestController_Marks(t *testing.T) {
	f := newFixture(t)

	t.Run("root_cannot_be_marked", func(t *testing.T) {
		assert.False(t, f.nav.ToggleMark())
		f.nav.MarkAll()
		assert.Equal(t, 0, f.nav.Listing().MarkedCount())
		f.nav.MoveCursor(1, true)
		assert.False(t, f.nav.Current().Marked)
	})

	f.enter(t, "0:/gm9")

	t.Run("toggle", func(t *testing.T) {
		assert.True(t, f.nav.ToggleMark())
		assert.True(t, f.nav.Current().Marked)
		assert.True(t, f.nav.ToggleMark())
		assert.False(t, f.nav.Current().Marked)
	})

	t.Run("parent_link", func(t *testing.T) {
		f.nav.MoveCursor(-10, false)
		assert.False(t, f.nav.ToggleMark())
		assert.False(t, f.nav.Current().Marked)
	})

	t.Run("mark_all_skips_parent_link", func(t *testing.T) {
		f.nav.MarkAll()
		assert.Equal(t, f.nav.Len()-1, f.nav.Listing().MarkedCount())
		assert.False(t, f.nav.Listing().At(0).Marked)
		f.nav.UnmarkAll()
		assert.Equal(t, 0, f.nav.Listing().MarkedCount())
	})

	t.Run("drag", func(t *testing.T) {
		f.nav.MoveCursor(1, false)
		require.True(t, f.nav.ToggleMark())
		f.nav.MoveCursor(1, true)
		f.nav.MoveCursor(1, true)
		assert.Equal(t, 3, f.nav.Listing().MarkedCount())
		f.nav.MoveCursor(-3, true)
		assert.False(t, f.nav.Listing().At(0).Marked, "drag never marks the parent link")
		assert.False(t, f.nav.ToggleMark())
		f.nav.MoveCursor(1, false)
		require.True(t, f.nav.ToggleMark())
		f.nav.MoveCursor(1, true)
		assert.False(t, f.nav.Current().Marked, "unmarked state is dragged too")
		f.nav.UnmarkAll()
	})
}

func TestController_Reconcile_KeepsMarks(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.enter(t, "0:/gm9")
	f.nav.MarkAll()
	require.NoError(t, f.sd.Remove(ctx, "/gm9/out"))
	require.NoError(t, f.sd.WriteFile("/gm9/new.txt", nil))
	require.NoError(t, f.nav.Reconcile(ctx))
	var marked []string
	for _, e := range f.nav.Listing().Marked() {
		marked = append(marked, e.Path)
	}
	assert.Equal(t, []string{"0:/gm9/empty", "0:/gm9/b.txt"}, marked)
}

func TestController_Selection(t *testing.T) {
	f := newFixture(t)
	f.enter(t, "0:/gm9")

	t.Run("current_entry", func(t *testing.T) {
		sel := f.nav.Selection()
		require.Len(t, sel, 1)
		assert.Equal(t, "0:/gm9/empty", sel[0].Path)
	})

	t.Run("parent_link_alone", func(t *testing.T) {
		f.nav.MoveCursor(-1, false)
		assert.Empty(t, f.nav.Selection())
		n, err := f.nav.FillClipboard()
		assert.NoError(t, err)
		assert.Equal(t, 0, n)
	})

	t.Run("marked_entries", func(t *testing.T) {
		f.nav.MoveCursor(2, false)
		f.nav.ToggleMark()
		f.nav.MoveCursor(1, false)
		f.nav.ToggleMark()
		sel := f.nav.Selection()
		require.Len(t, sel, 2)
		assert.Equal(t, "0:/gm9/out", sel[0].Path)
		assert.Equal(t, "0:/gm9/b.txt", sel[1].Path)
	})
}

func TestController_Clipboard(t *testing.T) {
	f := newFixture(t)
	f.enter(t, "0:/gm9")
	f.nav.MarkAll()

	n, err := f.nav.FillClipboard()
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, 0, f.nav.Listing().MarkedCount(), "marks are consumed")
	for _, e := range f.nav.Clipboard().Entries() {
		assert.False(t, e.Marked)
	}

	f.nav.ToggleClipboard()
	assert.True(t, f.nav.Clipboard().IsEmpty())
	f.nav.ToggleClipboard()
	assert.Equal(t, 3, f.nav.Clipboard().Len())
	assert.Equal(t, 3, f.nav.Render(0).Clipboard)
}

func TestController_HandleMediaEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("eject_current_drive", func(t *testing.T) {
		f := newFixture(t)
		f.enter(t, "0:/gm9")
		f.nav.MarkAll()
		_, err := f.nav.FillClipboard()
		require.NoError(t, err)

		f.sd.SetPresent(false)
		require.NoError(t, f.nav.HandleMediaEvent(ctx, drives.MediaEvent{Kind: drives.MediaEjected, Drive: "0"}))
		assert.True(t, f.nav.AtRoot())
		assert.Equal(t, 1, f.nav.Len())
		assert.Equal(t, "1:", f.nav.Current().Path)
		assert.True(t, f.nav.Clipboard().IsEmpty())
		f.nav.ToggleClipboard()
		assert.True(t, f.nav.Clipboard().IsEmpty(), "dropped contents cannot be restored")
	})

	t.Run("eject_other_drive", func(t *testing.T) {
		f := newFixture(t)
		f.enter(t, "1:")
		f.sd.SetPresent(false)
		require.NoError(t, f.nav.HandleMediaEvent(ctx, drives.MediaEvent{Kind: drives.MediaEjected, Drive: "0"}))
		assert.Equal(t, "1:", f.nav.Path())
	})

	t.Run("clipboard_on_other_drive_survives", func(t *testing.T) {
		f := newFixture(t)
		f.enter(t, "0:/gm9")
		_, err := f.nav.FillClipboard()
		require.NoError(t, err)
		require.NoError(t, f.nav.HandleMediaEvent(ctx, drives.MediaEvent{Kind: drives.MediaEjected, Drive: "1"}))
		assert.Equal(t, 1, f.nav.Clipboard().Len())
		assert.Equal(t, "0:/gm9", f.nav.Path())
	})

	t.Run("insert_at_root", func(t *testing.T) {
		f := newFixture(t)
		f.sd.SetPresent(false)
		require.NoError(t, f.nav.Reconcile(ctx))
		require.Equal(t, 1, f.nav.Len())

		f.sd.SetPresent(true)
		require.NoError(t, f.nav.HandleMediaEvent(ctx, drives.MediaEvent{Kind: drives.MediaInserted, Drive: "0"}))
		assert.Equal(t, 2, f.nav.Len())
	})

	t.Run("remap_current_drive", func(t *testing.T) {
		f := newFixture(t)
		f.enter(t, "0:/gm9")
		require.NoError(t, f.sd.WriteFile("/gm9/c.txt", nil))
		require.NoError(t, f.nav.HandleMediaEvent(ctx, drives.MediaEvent{Kind: drives.DriveRemapped, Drive: "0"}))
		assert.Equal(t, 5, f.nav.Len())
	})
}

func TestController_OpenContaining(t *testing.T) {
	ctx := context.Background()

	t.Run("selects_entry_in_next_pane", func(t *testing.T) {
		f := newFixture(t)
		f.enter(t, "1:")
		require.NoError(t, f.nav.OpenContaining(ctx, "0:/gm9/B.TXT"))
		assert.Equal(t, 1, f.nav.ActivePane())
		assert.Equal(t, "0:/gm9", f.nav.Path())
		assert.Equal(t, "0:/gm9/b.txt", f.nav.Current().Path)
		assert.Equal(t, "1:", f.nav.Panes()[0].Path, "previous pane is remembered")
	})

	t.Run("missing_entry", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.nav.OpenContaining(ctx, "0:/gm9/nope.bin"))
		assert.Equal(t, 1, f.nav.Cursor())
	})

	t.Run("drive_path_without_separator", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.nav.OpenContaining(ctx, "0:"))
		assert.Equal(t, 0, f.nav.ActivePane())
		assert.True(t, f.nav.AtRoot())
	})

	t.Run("same_pane", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.nav.EnterContaining(ctx, "0:/gm9/out/a.bin"))
		assert.Equal(t, 0, f.nav.ActivePane())
		assert.Equal(t, "0:/gm9/out", f.nav.Path())
		assert.Equal(t, 1, f.nav.Cursor())
	})
}

func TestController_Select(t *testing.T) {
	f := newFixture(t)
	f.enter(t, "0:/many")
	assert.True(t, f.nav.Select("0:/MANY/F25.BIN"))
	assert.Equal(t, 26, f.nav.Cursor())
	assert.False(t, f.nav.Select("0:/many/none"))
	assert.Equal(t, 26, f.nav.Cursor())
	assert.Equal(t, files.KindFile, f.nav.Current().Kind)
}
