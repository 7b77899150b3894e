package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadText(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.sd.WriteFile("/crlf.txt", []byte("one\r\ntwo\r\nthree")))
	require.NoError(t, f.sd.WriteFile("/empty.txt", nil))
	ctx := context.Background()

	for _, tt := range []struct {
		name      string
		path      string
		limit     int
		lines     []string
		truncated bool
	}{
		{name: "lf", path: "0:/src/notes.txt", limit: DefaultTextLimit, lines: []string{"hello", "world"}},
		{name: "crlf", path: "0:/crlf.txt", limit: DefaultTextLimit, lines: []string{"one", "two", "three"}},
		{name: "empty", path: "0:/empty.txt", limit: DefaultTextLimit},
		{name: "limited", path: "0:/src/notes.txt", limit: 3, lines: []string{"hel"}, truncated: true},
	} {
		t.Run(tt.name, func(t *testing.T) {
			view, err := LoadText(ctx, f.reg, tt.path, tt.limit)
			require.NoError(t, err)
			assert.Equal(t, tt.lines, view.Lines)
			assert.Equal(t, len(tt.lines), view.Total)
			assert.Equal(t, tt.truncated, view.Truncated)
		})
	}

	_, err := LoadText(ctx, f.reg, "0:/missing.txt", DefaultTextLimit)
	assert.Error(t, err)
}

func TestSession_TextView(t *testing.T) {
	f := newFixture(t)
	f.enter(t, "0:/src", "0:/src/notes.txt")
	f.prompt.choices = []string{"Show as text"}
	f.run(t, press(ButtonA), press(ButtonDown), press(ButtonB))
	text := f.out.mode(FrameText)
	require.Len(t, text, 2)
	assert.Equal(t, "0:/src/notes.txt", text[0].TopBar)
	assert.Equal(t, []string{"hello", "world"}, text[0].Text.Lines)
	assert.Equal(t, 0, text[1].Text.First, "two lines fit on one page")
	assert.Equal(t, FrameBrowser, f.out.last().Mode)
	assert.Equal(t, "0:/src/notes.txt", f.nav().Current().Path)
}

func TestSession_TextView_LongFile(t *testing.T) {
	f := newFixture(t, WithTextLimit(1<<10))
	long := make([]byte, 0, 200)
	for i := 0; i < 50; i++ {
		long = append(long, 'x', '\n')
	}
	require.NoError(t, f.sd.WriteFile("/src/long.txt", long))
	f.enter(t, "0:/src", "0:/src/long.txt")
	f.prompt.choices = []string{"Show as text"}
	f.run(t,
		press(ButtonA),
		step{in: Input{Buttons: ButtonRight, Lines: 10}},
		press(ButtonRight), press(ButtonRight), press(ButtonRight), press(ButtonRight),
		press(ButtonUp),
	)
	text := f.out.mode(FrameText)
	require.Len(t, text, 7)
	assert.Equal(t, 10, text[1].Text.First)
	assert.Equal(t, 40, text[5].Text.First, "clamped to the last page")
	assert.Equal(t, 39, text[6].Text.First)
}
