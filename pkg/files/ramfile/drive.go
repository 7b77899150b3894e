// Package ramfile implements an in-memory drive backend. It serves the RAM
// drive and gives tests a fully controllable backend.
package ramfile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/datatug/drivetug/pkg/files"
	"github.com/datatug/drivetug/pkg/files/drives"
)

// ErrNoSpace is returned when a write would exceed the drive capacity.
var ErrNoSpace = errors.New("drive full")

var _ drives.Backend = (*Drive)(nil)
var _ drives.Presence = (*Drive)(nil)
var _ drives.SpaceReporter = (*Drive)(nil)

type node struct {
	dir  bool
	data []byte
}

type Drive struct {
	mu       sync.RWMutex
	label    string
	class    files.DriveClass
	capacity int64
	used     int64
	present  bool
	nodes    map[string]*node
}

type Option func(d *Drive)

func WithLabel(label string) Option {
	return func(d *Drive) {
		d.label = label
	}
}

func WithClass(class files.DriveClass) Option {
	return func(d *Drive) {
		d.class = class
	}
}

// WithCapacity limits the total size of stored file data. Zero means unlimited.
func WithCapacity(n int64) Option {
	return func(d *Drive) {
		d.capacity = n
	}
}

func New(options ...Option) *Drive {
	d := &Drive{
		label:   "RAMDRIVE",
		class:   files.DriveRAM | files.DriveStandard,
		present: true,
		nodes:   map[string]*node{"/": {dir: true}},
	}
	for _, o := range options {
		o(d)
	}
	return d
}

func (d *Drive) Label() string { return d.label }

func (d *Drive) Class() files.DriveClass { return d.class }

func (d *Drive) Present() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.present
}

// SetPresent simulates inserting or ejecting the medium.
func (d *Drive) SetPresent(present bool) {
	d.mu.Lock()
	d.present = present
	d.mu.Unlock()
}

func (d *Drive) Space(_ context.Context) (free, total uint64, err error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.capacity <= 0 {
		return 0, 0, files.ErrNotSupported
	}
	return uint64(d.capacity - d.used), uint64(d.capacity), nil
}

func clean(p string) string {
	return path.Clean("/" + strings.TrimPrefix(p, "/"))
}

func notFound(p string) error {
	return fmt.Errorf("%s: %w", p, files.ErrNotFound)
}

func (d *Drive) get(p string) (*node, error) {
	n, ok := d.nodes[clean(p)]
	if !ok {
		return nil, notFound(p)
	}
	return n, nil
}

func (d *Drive) Stat(ctx context.Context, p string) (drives.Info, error) {
	if err := ctx.Err(); err != nil {
		return drives.Info{}, err
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	n, err := d.get(p)
	if err != nil {
		return drives.Info{}, err
	}
	return drives.Info{Name: path.Base(clean(p)), Size: int64(len(n.data)), IsDir: n.dir}, nil
}

func (d *Drive) ReadDir(ctx context.Context, p string) ([]drives.Info, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	dir := clean(p)
	n, err := d.get(dir)
	if err != nil {
		return nil, err
	}
	if !n.dir {
		return nil, fmt.Errorf("%s: not a directory", p)
	}
	var infos []drives.Info
	for key, child := range d.nodes {
		if key == "/" || path.Dir(key) != dir {
			continue
		}
		infos = append(infos, drives.Info{Name: path.Base(key), Size: int64(len(child.data)), IsDir: child.dir})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos, nil
}

func (d *Drive) ReadAt(ctx context.Context, p string, off int64, n int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	f, err := d.file(p)
	if err != nil {
		return nil, err
	}
	if off < 0 || off >= int64(len(f.data)) {
		return nil, nil
	}
	end := min(off+int64(n), int64(len(f.data)))
	return bytes.Clone(f.data[off:end]), nil
}

func (d *Drive) file(p string) (*node, error) {
	f, err := d.get(p)
	if err != nil {
		return nil, err
	}
	if f.dir {
		return nil, fmt.Errorf("%s: is a directory", p)
	}
	return f, nil
}

func (d *Drive) WriteAt(ctx context.Context, p string, data []byte, off int64, truncate bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if off < 0 {
		return fmt.Errorf("%s: negative offset %d", p, off)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	f, err := d.file(p)
	if err != nil && (!truncate || !errors.Is(err, files.ErrNotFound)) {
		return err
	}
	var old []byte
	if f != nil && !truncate {
		old = f.data
	}
	grown := max(off+int64(len(data)), int64(len(old)))
	var current int64
	if f != nil {
		current = int64(len(f.data))
	}
	if err = d.reserve(grown - current); err != nil {
		return err
	}
	if f == nil {
		if f, err = d.add(p, false); err != nil {
			d.used -= grown
			return err
		}
	}
	buf := make([]byte, grown)
	copy(buf, old)
	copy(buf[off:], data)
	f.data = buf
	return nil
}

func (d *Drive) reserve(delta int64) error {
	if d.capacity > 0 && d.used+delta > d.capacity {
		return ErrNoSpace
	}
	d.used += delta
	return nil
}

// add creates a node whose parent directory must exist.
func (d *Drive) add(p string, dir bool) (*node, error) {
	p = clean(p)
	if _, ok := d.nodes[p]; ok {
		return nil, fmt.Errorf("%s: %w", p, files.ErrExists)
	}
	parent, ok := d.nodes[path.Dir(p)]
	if !ok || !parent.dir {
		return nil, notFound(path.Dir(p))
	}
	n := &node{dir: dir}
	d.nodes[p] = n
	return n, nil
}

func (d *Drive) Open(ctx context.Context, p string) (io.ReadCloser, error) {
	data, err := d.ReadAt(ctx, p, 0, int(^uint(0)>>1))
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

type writer struct {
	bytes.Buffer
	d    *Drive
	path string
}

func (w *writer) Close() error {
	return w.d.WriteAt(context.Background(), w.path, w.Bytes(), 0, true)
}

// Create returns a writer whose contents replace the file on Close.
func (d *Drive) Create(ctx context.Context, p string) (io.WriteCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.mu.RLock()
	parent, ok := d.nodes[path.Dir(clean(p))]
	d.mu.RUnlock()
	if !ok || !parent.dir {
		return nil, notFound(path.Dir(clean(p)))
	}
	return &writer{d: d, path: p}, nil
}

func (d *Drive) Mkdir(ctx context.Context, p string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	_, err := d.add(p, true)
	return err
}

func (d *Drive) Remove(ctx context.Context, p string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	p = clean(p)
	if p == "/" {
		return files.ErrNotSupported
	}
	if _, ok := d.nodes[p]; !ok {
		return notFound(p)
	}
	for key, n := range d.nodes {
		if key == p || strings.HasPrefix(key, p+"/") {
			d.used -= int64(len(n.data))
			delete(d.nodes, key)
		}
	}
	return nil
}

func (d *Drive) Rename(ctx context.Context, from, to string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	from, to = clean(from), clean(to)
	if _, ok := d.nodes[from]; !ok {
		return notFound(from)
	}
	if parent, ok := d.nodes[path.Dir(to)]; !ok || !parent.dir {
		return notFound(path.Dir(to))
	}
	if _, ok := d.nodes[to]; ok {
		return fmt.Errorf("%s: %w", to, files.ErrExists)
	}
	moved := make(map[string]*node)
	for key, n := range d.nodes {
		if key == from || strings.HasPrefix(key, from+"/") {
			moved[to+strings.TrimPrefix(key, from)] = n
			delete(d.nodes, key)
		}
	}
	for key, n := range moved {
		d.nodes[key] = n
	}
	return nil
}

// WriteFile stores data at p, creating missing parent directories.
func (d *Drive) WriteFile(p string, data []byte) error {
	if err := d.MkdirAll(path.Dir(clean(p))); err != nil {
		return err
	}
	return d.WriteAt(context.Background(), p, data, 0, true)
}

func (d *Drive) MkdirAll(p string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	p = clean(p)
	cur := "/"
	for _, part := range strings.Split(strings.TrimPrefix(p, "/"), "/") {
		if part == "" {
			continue
		}
		cur = path.Join(cur, part)
		n, ok := d.nodes[cur]
		if !ok {
			d.nodes[cur] = &node{dir: true}
			continue
		}
		if !n.dir {
			return fmt.Errorf("%s: not a directory", cur)
		}
	}
	return nil
}
