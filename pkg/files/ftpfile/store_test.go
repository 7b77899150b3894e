package ftpfile

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/textproto"
	"sort"
	"strings"
	"testing"

	"github.com/jlaffaye/ftp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datatug/drivetug/pkg/files"
	"github.com/datatug/drivetug/pkg/files/drives"
)

var errUnavailable = &textproto.Error{Code: ftp.StatusFileUnavailable, Msg: "No such file or directory"}

// fakeConn is an FTP server in memory. Directories are keys ending in "/".
type fakeConn struct {
	tree  map[string][]byte
	dials int
	quits int
}

var _ Conn = (*fakeConn)(nil)

func newFakeConn(paths ...string) *fakeConn {
	c := &fakeConn{tree: map[string][]byte{"/": nil}}
	for _, p := range paths {
		name, data, _ := strings.Cut(p, "=")
		c.tree[name] = []byte(data)
	}
	return c
}

func (c *fakeConn) List(p string) ([]*ftp.Entry, error) {
	dir := strings.TrimSuffix(p, "/") + "/"
	if _, ok := c.tree[dir]; !ok {
		return nil, errUnavailable
	}
	entries := []*ftp.Entry{{Name: ".", Type: ftp.EntryTypeFolder}, {Name: "..", Type: ftp.EntryTypeFolder}}
	for name, data := range c.tree {
		rest, ok := strings.CutPrefix(name, dir)
		if !ok || rest == "" || strings.Contains(strings.TrimSuffix(rest, "/"), "/") {
			continue
		}
		if strings.HasSuffix(rest, "/") {
			entries = append(entries, &ftp.Entry{Name: strings.TrimSuffix(rest, "/"), Type: ftp.EntryTypeFolder})
			continue
		}
		entries = append(entries, &ftp.Entry{Name: rest, Size: uint64(len(data)), Type: ftp.EntryTypeFile})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

func (c *fakeConn) RetrFrom(p string, offset uint64) (io.ReadCloser, error) {
	data, ok := c.tree[p]
	if !ok || strings.HasSuffix(p, "/") {
		return nil, errUnavailable
	}
	return io.NopCloser(bytes.NewReader(data[min(int(offset), len(data)):])), nil
}

func (c *fakeConn) Stor(p string, r io.Reader) error {
	data, err := io.ReadAll(r)
	c.tree[p] = data
	return err
}

func (c *fakeConn) StorFrom(p string, r io.Reader, offset uint64) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	cur := c.tree[p]
	buf := make([]byte, max(int(offset)+len(data), len(cur)))
	copy(buf, cur)
	copy(buf[offset:], data)
	c.tree[p] = buf
	return nil
}

func (c *fakeConn) MakeDir(p string) error {
	c.tree[p+"/"] = nil
	return nil
}

func (c *fakeConn) Delete(p string) error {
	if _, ok := c.tree[p]; !ok {
		return errUnavailable
	}
	delete(c.tree, p)
	return nil
}

func (c *fakeConn) RemoveDirRecur(p string) error {
	for name := range c.tree {
		if strings.HasPrefix(name, p+"/") {
			delete(c.tree, name)
		}
	}
	return nil
}

func (c *fakeConn) Rename(from, to string) error {
	data, ok := c.tree[from]
	if !ok {
		return errUnavailable
	}
	delete(c.tree, from)
	c.tree[to] = data
	return nil
}

func (c *fakeConn) Quit() error {
	c.quits++
	return nil
}

func newTestStore(c *fakeConn) *Store {
	return NewWithDialer("ftp.example.com", func(context.Context) (Conn, error) {
		c.dials++
		return c, nil
	})
}

func TestStore_Browse(t *testing.T) {
	ctx := context.Background()
	c := newFakeConn("/roms/", "/roms/a.3ds=NCSD", "/readme.txt=hi")
	s := newTestStore(c)
	assert.Equal(t, "ftp://ftp.example.com", s.Label())
	assert.True(t, s.Class().Has(files.DriveRemote))

	infos, err := s.ReadDir(ctx, "/")
	require.NoError(t, err)
	assert.Equal(t, []drives.Info{{Name: "readme.txt", Size: 2}, {Name: "roms", IsDir: true}}, infos)

	info, err := s.Stat(ctx, "/roms/a.3ds")
	require.NoError(t, err)
	assert.Equal(t, drives.Info{Name: "a.3ds", Size: 4}, info)

	root, err := s.Stat(ctx, "/")
	require.NoError(t, err)
	assert.True(t, root.IsDir)

	_, err = s.Stat(ctx, "/roms/missing")
	assert.ErrorIs(t, err, files.ErrNotFound)
	_, err = s.ReadDir(ctx, "/nope")
	assert.ErrorIs(t, err, files.ErrNotFound)
	assert.Equal(t, c.dials, c.quits, "every connection is closed")
}

func TestStore_ReadWrite(t *testing.T) {
	ctx := context.Background()
	c := newFakeConn("/a.bin=ABCDEF")
	s := newTestStore(c)

	data, err := s.ReadAt(ctx, "/a.bin", 2, 3)
	require.NoError(t, err)
	assert.Equal(t, "CDE", string(data))

	data, err = s.ReadAt(ctx, "/a.bin", 4, 10)
	require.NoError(t, err)
	assert.Equal(t, "EF", string(data), "short read at the end")

	_, err = s.ReadAt(ctx, "/b.bin", 0, 1)
	assert.ErrorIs(t, err, files.ErrNotFound)

	require.NoError(t, s.WriteAt(ctx, "/a.bin", []byte("zz"), 1, false))
	assert.Equal(t, "AzzDEF", string(c.tree["/a.bin"]))
	require.NoError(t, s.WriteAt(ctx, "/pad.bin", []byte("x"), 2, true))
	assert.Equal(t, []byte{0, 0, 'x'}, c.tree["/pad.bin"])

	w, err := s.Create(ctx, "/new.bin")
	require.NoError(t, err)
	_, _ = w.Write([]byte("new"))
	require.NoError(t, w.Close())
	assert.Equal(t, "new", string(c.tree["/new.bin"]))

	r, err := s.Open(ctx, "/new.bin")
	require.NoError(t, err)
	quits := c.quits
	all, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "new", string(all))
	require.NoError(t, r.Close())
	assert.Equal(t, quits+1, c.quits)

	_, err = s.Open(ctx, "/gone.bin")
	assert.ErrorIs(t, err, files.ErrNotFound)
}

func TestStore_Tree(t *testing.T) {
	ctx := context.Background()
	c := newFakeConn("/d/", "/d/x=1", "/f=2")
	s := newTestStore(c)

	require.NoError(t, s.Mkdir(ctx, "/new"))
	_, ok := c.tree["/new/"]
	assert.True(t, ok)

	require.NoError(t, s.Rename(ctx, "/f", "/g"))
	assert.Equal(t, "2", string(c.tree["/g"]))

	require.NoError(t, s.Remove(ctx, "/g"))
	require.NoError(t, s.Remove(ctx, "/d"))
	for name := range c.tree {
		assert.False(t, strings.HasPrefix(name, "/d/") || name == "/g", name)
	}
	assert.ErrorIs(t, s.Remove(ctx, "/missing"), files.ErrNotFound)
	assert.ErrorIs(t, s.Rename(ctx, "/missing", "/x"), files.ErrNotFound)
}

func TestStore_DialFails(t *testing.T) {
	dialErr := errors.New("connection refused")
	s := NewWithDialer("down", func(context.Context) (Conn, error) { return nil, dialErr })
	_, err := s.ReadDir(context.Background(), "/")
	assert.ErrorIs(t, err, dialErr)
	_, err = s.Open(context.Background(), "/a")
	assert.ErrorIs(t, err, dialErr)
	assert.Equal(t, "ftp://down", s.Label())
}
