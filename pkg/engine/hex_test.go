package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datatug/drivetug/pkg/files"
	"github.com/datatug/drivetug/pkg/files/ramfile"
)

func hexMarked(frames []Frame) bool {
	for _, f := range frames {
		for _, row := range f.Hex.Rows {
			for _, m := range row.Marked {
				if m {
					return true
				}
			}
		}
	}
	return false
}

func TestSession_HexEdit(t *testing.T) {
	t.Run("commit", func(t *testing.T) {
		f := newFixture(t)
		f.enter(t, "0:/src", "0:/src/a.bin")
		f.prompt.choices = []string{"Show in hexeditor"}
		f.run(t, press(ButtonA), press(ButtonA), press(ButtonA|ButtonUp), press(ButtonB), press(ButtonB))
		assert.Equal(t, "BAAA", f.content(t, "0:/src/a.bin"))
		assert.Equal(t, []string{"You made edits in 1 place(s).\nWrite changes to file?"}, f.prompt.questions)

		hex := f.out.mode(FrameHex)
		require.NotEmpty(t, hex)
		assert.Equal(t, "0:/src/a.bin", hex[0].TopBar)
		editing := 0
		for _, fr := range hex {
			if fr.Hex.Editing {
				editing++
			}
		}
		assert.Equal(t, 2, editing)
		assert.Equal(t, "1 change(s) written", hex[len(hex)-1].Status)
		assert.Equal(t, FrameBrowser, f.out.last().Mode)
	})
	t.Run("declined", func(t *testing.T) {
		f := newFixture(t)
		f.enter(t, "0:/src", "0:/src/a.bin")
		f.prompt.choices = []string{"Show in hexeditor"}
		f.prompt.answers = []bool{false}
		f.run(t, press(ButtonA), press(ButtonA), press(ButtonA|ButtonDown), press(ButtonRight), press(ButtonA|ButtonRight), press(ButtonB))
		assert.Equal(t, "AAAA", f.content(t, "0:/src/a.bin"))
		assert.Equal(t, []string{"You made edits in 2 place(s).\nWrite changes to file?"}, f.prompt.questions)
	})
	t.Run("no_changes_no_question", func(t *testing.T) {
		f := newFixture(t)
		f.enter(t, "0:/src", "0:/src/a.bin")
		f.prompt.choices = []string{"Show in hexeditor"}
		f.run(t, press(ButtonA), press(ButtonA), press(ButtonA|ButtonUp), press(ButtonA|ButtonDown), press(ButtonStart))
		assert.Empty(t, f.prompt.questions)
		assert.Equal(t, "AAAA", f.content(t, "0:/src/a.bin"))
	})
	t.Run("start_leaves_edit_mode_only", func(t *testing.T) {
		f := newFixture(t)
		f.enter(t, "0:/src", "0:/src/disk.img")
		f.prompt.choices = []string{"Show in hexeditor"}
		f.run(t, press(ButtonA), press(ButtonA), press(ButtonStart), press(ButtonDown))
		hex := f.out.mode(FrameHex)
		require.Len(t, hex, 4)
		assert.True(t, hex[1].Hex.Editing)
		assert.False(t, hex[2].Hex.Editing)
		assert.False(t, hex[3].Hex.Editing)
		assert.Equal(t, int64(hex[3].Hex.Geometry.Cols), hex[3].Hex.Offset, "still scrolling the viewer")
		assert.Empty(t, f.prompt.questions)
	})
	t.Run("read_only", func(t *testing.T) {
		f := newFixture(t)
		rom := ramfile.New(ramfile.WithLabel("ROM"), ramfile.WithClass(files.DriveReadOnly))
		require.NoError(t, rom.WriteFile("/r.bin", []byte{1, 2, 3}))
		require.NoError(t, f.reg.Attach("2", rom))
		f.enter(t, "2:", "2:/r.bin")
		f.prompt.choices = []string{"Show in hexeditor"}
		f.run(t, press(ButtonA), press(ButtonA))
		assert.Equal(t, []string{"2:/r.bin\n\nFile is write protected"}, f.prompt.alerts)
		for _, fr := range f.out.mode(FrameHex) {
			assert.False(t, fr.Hex.Editing)
		}
	})
}

func TestSession_HexView(t *testing.T) {
	t.Run("scroll_and_mode", func(t *testing.T) {
		f := newFixture(t)
		f.enter(t, "0:/src", "0:/src/disk.img")
		f.prompt.choices = []string{"Show in hexeditor"}
		f.run(t, press(ButtonA), press(ButtonDown))
		hex := f.out.mode(FrameHex)
		require.Len(t, hex, 2)
		assert.Equal(t, int64(0), hex[0].Hex.Offset)
		assert.Equal(t, int64(hex[1].Hex.Geometry.Cols), hex[1].Hex.Offset)

		f.prompt.choices = []string{"Show in hexeditor"}
		f.out.frames = nil
		f.run(t, press(ButtonA), press(ButtonY))
		hex = f.out.mode(FrameHex)
		require.Len(t, hex, 2)
		assert.NotEqual(t, hex[0].Hex.Geometry.Mode, hex[1].Hex.Geometry.Mode)
	})
	t.Run("goto", func(t *testing.T) {
		f := newFixture(t)
		f.enter(t, "0:/src", "0:/src/disk.img")
		f.prompt.choices = []string{"Show in hexeditor", "Go to offset"}
		f.prompt.inputs = []string{"0x10"}
		f.run(t, press(ButtonA), press(ButtonX))
		hex := f.out.mode(FrameHex)
		assert.Equal(t, int64(0x10), hex[len(hex)-1].Hex.Offset)
	})
	t.Run("find", func(t *testing.T) {
		f := newFixture(t)
		f.enter(t, "0:/src", "0:/src/notes.txt")
		f.prompt.choices = []string{"Show in hexeditor", "Search for string", "Search for data"}
		f.prompt.inputs = []string{"world", "7a7a7a"}
		f.run(t, press(ButtonA), press(ButtonX), press(ButtonR|ButtonX), press(ButtonX))
		assert.Equal(t, []string{"Not found!"}, f.prompt.alerts)
		assert.True(t, hexMarked(f.out.mode(FrameHex)))
		assert.Equal(t, []string{"Go to offset", "Search for string", "Search for data", "Search again"}, f.prompt.menus[2])
	})
	t.Run("bad_hex_pattern", func(t *testing.T) {
		f := newFixture(t)
		f.enter(t, "0:/src", "0:/src/notes.txt")
		f.prompt.choices = []string{"Show in hexeditor", "Search for data"}
		f.prompt.inputs = []string{"xyz"}
		f.run(t, press(ButtonA), press(ButtonX))
		require.Len(t, f.prompt.alerts, 1)
		assert.Contains(t, f.prompt.alerts[0], "Invalid search")
		assert.Equal(t, []string{"Go to offset", "Search for string", "Search for data"}, f.prompt.menus[1])
	})
}

func TestRunHex_OpenFails(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.s.runHex(context.Background(), "0:/src/missing.bin"))
	require.Len(t, f.prompt.alerts, 1)
	assert.Contains(t, f.prompt.alerts[0], "Cannot open")
}
