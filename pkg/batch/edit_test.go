package batch

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datatug/drivetug/pkg/files"
)

func TestOrchestrator_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("declined", func(t *testing.T) {
		f := newFixture(t)
		f.operator.answers = []bool{false}
		res, err := f.batch.Delete(ctx)
		require.NoError(t, err)
		assert.Equal(t, Result{}, res)
		assert.True(t, f.exists("/src/a.bin"))
		assert.Equal(t, []string{"Delete a.bin?"}, f.operator.questions)
	})

	t.Run("marked", func(t *testing.T) {
		f := newFixture(t)
		f.nav.MarkAll()
		res, err := f.batch.Delete(ctx)
		require.NoError(t, err)
		assert.Equal(t, Result{Succeeded: 3}, res)
		assert.Equal(t, []string{"Delete 3 paths?"}, f.operator.questions)
		assert.Equal(t, 1, f.nav.Len())
		assert.Equal(t, 0, f.nav.Cursor())
	})

	t.Run("failure_count", func(t *testing.T) {
		f := newFixture(t, "0:/src/a.bin", "0:/src/c.bin")
		f.nav.MarkAll()
		res, err := f.batch.Delete(ctx)
		require.NoError(t, err)
		assert.Equal(t, Result{Succeeded: 1, Failed: 2}, res)
		assert.Equal(t, []string{"Failed deleting 2/3 paths"}, f.operator.alerts)
		assert.Equal(t, []string{"0:/src/a.bin", "0:/src/c.bin"}, markedPaths(f.nav))
	})

	t.Run("cursor_clamped", func(t *testing.T) {
		f := newFixture(t)
		f.nav.MoveCursor(10, false)
		require.Equal(t, "0:/src/c.bin", f.nav.Current().Path)
		_, err := f.batch.Delete(ctx)
		require.NoError(t, err)
		assert.Equal(t, "0:/src/b.bin", f.nav.Current().Path)
	})

	t.Run("parent_link_only", func(t *testing.T) {
		f := newFixture(t)
		f.nav.MoveCursor(-1, false)
		res, err := f.batch.Delete(ctx)
		require.NoError(t, err)
		assert.Equal(t, Result{}, res)
		assert.Empty(t, f.operator.questions)
	})
}

func TestOrchestrator_Rename(t *testing.T) {
	ctx := context.Background()

	t.Run("selects_new_name", func(t *testing.T) {
		f := newFixture(t)
		res, err := f.batch.Rename(ctx, "z.bin")
		require.NoError(t, err)
		assert.Equal(t, 1, res.Succeeded)
		assert.Equal(t, "0:/src/z.bin", f.nav.Current().Path)
		assert.Equal(t, 3, f.nav.Cursor())
	})

	t.Run("existing_name", func(t *testing.T) {
		f := newFixture(t)
		res, err := f.batch.Rename(ctx, "b.bin")
		require.NoError(t, err)
		assert.Equal(t, 1, res.Failed)
		assert.Len(t, f.operator.alerts, 1)
		assert.Equal(t, "0:/src/a.bin", f.nav.Current().Path)
	})

	t.Run("unchanged", func(t *testing.T) {
		f := newFixture(t)
		res, err := f.batch.Rename(ctx, "a.bin")
		require.NoError(t, err)
		assert.Equal(t, Result{}, res)
	})
}

func TestOrchestrator_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("dir", func(t *testing.T) {
		f := newFixture(t)
		res, err := f.batch.CreateDir(ctx, "new")
		require.NoError(t, err)
		assert.Equal(t, 1, res.Succeeded)
		assert.Equal(t, "0:/src/new", f.nav.Current().Path)
		assert.Equal(t, files.KindDirectory, f.nav.Current().Kind)
	})

	t.Run("dummy", func(t *testing.T) {
		f := newFixture(t)
		res, err := f.batch.CreateDummy(ctx, "dummy.bin", 100)
		require.NoError(t, err)
		assert.Equal(t, 1, res.Succeeded)
		assert.Equal(t, "0:/src/dummy.bin", f.nav.Current().Path)
		assert.Equal(t, int64(100), f.nav.Current().Size)
	})

	t.Run("existing", func(t *testing.T) {
		f := newFixture(t)
		res, err := f.batch.CreateDir(ctx, "a.bin")
		require.NoError(t, err)
		assert.Equal(t, 1, res.Failed)
		assert.Len(t, f.operator.alerts, 1)
	})

	t.Run("root_listing", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.nav.LeaveToRoot(ctx))
		res, err := f.batch.CreateDir(ctx, "x")
		require.NoError(t, err)
		assert.Equal(t, Result{}, res)
	})
}

func TestOrchestrator_Inject(t *testing.T) {
	ctx := context.Background()

	t.Run("writes_at_offset", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.nav.FillClipboard()
		require.NoError(t, err)
		res, err := f.batch.Inject(ctx, "0:/src/c.bin", 2)
		require.NoError(t, err)
		assert.Equal(t, 1, res.Succeeded)
		assert.Equal(t, "ccAAAAcc", f.read(t, "/src/c.bin"))
		require.Len(t, f.operator.questions, 1)
		assert.Contains(t, f.operator.questions[0], "00000002")
	})

	t.Run("declined", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.nav.FillClipboard()
		require.NoError(t, err)
		f.operator.answers = []bool{false}
		res, err := f.batch.Inject(ctx, "0:/src/c.bin", 0)
		require.NoError(t, err)
		assert.Equal(t, Result{}, res)
		assert.Equal(t, "cccccccc", f.read(t, "/src/c.bin"))
	})

	t.Run("no_source", func(t *testing.T) {
		f := newFixture(t)
		res, err := f.batch.Inject(ctx, "0:/src/c.bin", 0)
		require.NoError(t, err)
		assert.Equal(t, Result{}, res)
		assert.Equal(t, []string{ErrNoSource.Error()}, f.operator.alerts)
	})

	t.Run("read_only_target", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.nav.FillClipboard()
		require.NoError(t, err)
		res, err := f.batch.Inject(ctx, "C:/rom.bin", 0)
		require.NoError(t, err)
		assert.Equal(t, 1, res.Failed)
		assert.Len(t, f.operator.alerts, 1)
	})
}
