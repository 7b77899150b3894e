package ramfile

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datatug/drivetug/pkg/files"
)

func TestDrive_WriteReadStat(t *testing.T) {
	ctx := context.Background()
	d := New()
	require.NoError(t, d.WriteFile("/gm9/out/a.bin", []byte("hello")))

	info, err := d.Stat(ctx, "/gm9/out/a.bin")
	require.NoError(t, err)
	assert.Equal(t, "a.bin", info.Name)
	assert.Equal(t, int64(5), info.Size)
	assert.False(t, info.IsDir)

	data, err := d.ReadAt(ctx, "/gm9/out/a.bin", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, []byte("ello"), data)

	data, err = d.ReadAt(ctx, "/gm9/out/a.bin", 10, 4)
	require.NoError(t, err)
	assert.Empty(t, data)

	require.NoError(t, d.WriteAt(ctx, "/gm9/out/a.bin", []byte("XY"), 4, false))
	data, _ = d.ReadAt(ctx, "/gm9/out/a.bin", 0, 10)
	assert.Equal(t, []byte("hellXY"), data)

	_, err = d.Stat(ctx, "/nope")
	assert.True(t, errors.Is(err, files.ErrNotFound))
}

func TestDrive_ReadDir(t *testing.T) {
	ctx := context.Background()
	d := New()
	require.NoError(t, d.WriteFile("/b.txt", nil))
	require.NoError(t, d.MkdirAll("/a/deep"))
	infos, err := d.ReadDir(ctx, "/")
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, "a", infos[0].Name)
	assert.True(t, infos[0].IsDir)
	assert.Equal(t, "b.txt", infos[1].Name)

	_, err = d.ReadDir(ctx, "/b.txt")
	assert.Error(t, err)
}

func TestDrive_CreateMkdirRemoveRename(t *testing.T) {
	ctx := context.Background()
	d := New()

	w, err := d.Create(ctx, "/f.bin")
	require.NoError(t, err)
	_, _ = w.Write([]byte("abc"))
	require.NoError(t, w.Close())

	r, err := d.Open(ctx, "/f.bin")
	require.NoError(t, err)
	data, _ := io.ReadAll(r)
	assert.Equal(t, []byte("abc"), data)

	_, err = d.Create(ctx, "/missing/f.bin")
	assert.True(t, errors.Is(err, files.ErrNotFound))

	require.NoError(t, d.Mkdir(ctx, "/dir"))
	assert.True(t, errors.Is(d.Mkdir(ctx, "/dir"), files.ErrExists))
	require.NoError(t, d.WriteFile("/dir/x", []byte("x")))

	require.NoError(t, d.Rename(ctx, "/dir", "/moved"))
	_, err = d.Stat(ctx, "/moved/x")
	assert.NoError(t, err)
	assert.True(t, errors.Is(d.Rename(ctx, "/moved", "/f.bin"), files.ErrExists))

	require.NoError(t, d.Remove(ctx, "/moved"))
	_, err = d.Stat(ctx, "/moved/x")
	assert.True(t, errors.Is(err, files.ErrNotFound))
	assert.True(t, errors.Is(d.Remove(ctx, "/moved"), files.ErrNotFound))
}

func TestDrive_Capacity(t *testing.T) {
	ctx := context.Background()
	d := New(WithCapacity(8))
	require.NoError(t, d.WriteFile("/a", []byte("12345")))
	assert.True(t, errors.Is(d.WriteFile("/b", []byte("12345")), ErrNoSpace))

	free, total, err := d.Space(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), free)
	assert.Equal(t, uint64(8), total)

	require.NoError(t, d.Remove(ctx, "/a"))
	free, _, _ = d.Space(ctx)
	assert.Equal(t, uint64(8), free)

	_, _, err = New().Space(ctx)
	assert.True(t, errors.Is(err, files.ErrNotSupported))
}

func TestDrive_Presence(t *testing.T) {
	d := New(WithLabel("SDCARD"), WithClass(files.DriveRemovable|files.DriveStandard))
	assert.Equal(t, "SDCARD", d.Label())
	assert.True(t, d.Class().Has(files.DriveRemovable))
	assert.True(t, d.Present())
	d.SetPresent(false)
	assert.False(t, d.Present())
}

func TestDrive_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d := New()
	_, err := d.ReadDir(ctx, "/")
	assert.True(t, errors.Is(err, context.Canceled))
}
