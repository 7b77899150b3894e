// Package imagefs mounts an image file as a virtual drive that exposes the
// raw image as its single file. Format specific mounting is left to other
// Mounter implementations.
package imagefs

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/datatug/drivetug/pkg/files"
	"github.com/datatug/drivetug/pkg/files/drives"
)

var _ drives.Mounter = Mounter{}
var _ drives.Backend = (*Image)(nil)

type Mounter struct{}

func (Mounter) Mount(ctx context.Context, store files.Store, imagePath string) (drives.Backend, error) {
	if _, err := store.Size(ctx, imagePath); err != nil {
		return nil, err
	}
	if !store.ClassifyContent(ctx, imagePath).Has(files.ContentImage) {
		return nil, fmt.Errorf("%s is not an image: %w", imagePath, files.ErrNotSupported)
	}
	return &Image{store: store, source: imagePath, name: drives.Base(imagePath)}, nil
}

// Image forwards reads and writes of its single file to the image source.
type Image struct {
	store  files.Store
	source string
	name   string
}

func (m *Image) Label() string {
	return strings.ToUpper(strings.TrimSuffix(m.name, path.Ext(m.name)))
}

func (m *Image) Class() files.DriveClass { return files.DriveVirtual }

func (m *Image) Source() string { return m.source }

func (m *Image) check(p string) error {
	if path.Clean("/"+p) != "/"+m.name {
		return fmt.Errorf("%s: %w", p, files.ErrNotFound)
	}
	return nil
}

func (m *Image) Stat(ctx context.Context, p string) (drives.Info, error) {
	if path.Clean("/"+p) == "/" {
		return drives.Info{Name: m.Label(), IsDir: true}, nil
	}
	if err := m.check(p); err != nil {
		return drives.Info{}, err
	}
	size, err := m.store.Size(ctx, m.source)
	if err != nil {
		return drives.Info{}, err
	}
	return drives.Info{Name: m.name, Size: size}, nil
}

func (m *Image) ReadDir(ctx context.Context, p string) ([]drives.Info, error) {
	if path.Clean("/"+p) != "/" {
		return nil, fmt.Errorf("%s: %w", p, files.ErrNotFound)
	}
	info, err := m.Stat(ctx, m.name)
	if err != nil {
		return nil, err
	}
	return []drives.Info{info}, nil
}

func (m *Image) ReadAt(ctx context.Context, p string, off int64, n int) ([]byte, error) {
	if err := m.check(p); err != nil {
		return nil, err
	}
	return m.store.ReadBytes(ctx, m.source, off, n)
}

func (m *Image) WriteAt(ctx context.Context, p string, data []byte, off int64, truncate bool) error {
	if err := m.check(p); err != nil {
		return err
	}
	if truncate {
		return files.ErrNotSupported
	}
	return m.store.WriteBytes(ctx, m.source, data, off, false)
}

func (m *Image) Open(ctx context.Context, p string) (io.ReadCloser, error) {
	if err := m.check(p); err != nil {
		return nil, err
	}
	return io.NopCloser(&reader{ctx: ctx, m: m}), nil
}

type reader struct {
	ctx context.Context
	m   *Image
	off int64
}

func (r *reader) Read(p []byte) (int, error) {
	data, err := r.m.store.ReadBytes(r.ctx, r.m.source, r.off, len(p))
	if err != nil {
		return 0, err
	}
	if len(data) == 0 && len(p) > 0 {
		return 0, io.EOF
	}
	r.off += int64(len(data))
	return copy(p, data), nil
}

func (m *Image) Create(context.Context, string) (io.WriteCloser, error) {
	return nil, files.ErrNotSupported
}

func (m *Image) Mkdir(context.Context, string) error { return files.ErrNotSupported }

func (m *Image) Remove(context.Context, string) error { return files.ErrNotSupported }

func (m *Image) Rename(context.Context, string, string) error { return files.ErrNotSupported }
