package osfile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/datatug/drivetug/pkg/files"
	"github.com/datatug/drivetug/pkg/files/drives"
)

var osReadDir = os.ReadDir
var osHostname = os.Hostname
var osStat = os.Stat
var osMkdir = os.Mkdir
var osOpen = os.Open
var osOpenFile = os.OpenFile
var osRemoveAll = os.RemoveAll
var osRename = os.Rename

var _ drives.Backend = (*Store)(nil)
var _ drives.Presence = (*Store)(nil)
var _ drives.Walker = (*Store)(nil)
var _ drives.FileCopier = (*Store)(nil)
var _ drives.Classifier = (*Store)(nil)
var _ drives.Searcher = (*Store)(nil)

// Store exposes a host directory as a drive.
type Store struct {
	title string
	root  string
	class files.DriveClass
}

type Option func(s *Store)

func WithTitle(title string) Option {
	return func(s *Store) {
		s.title = title
	}
}

func WithClass(class files.DriveClass) Option {
	return func(s *Store) {
		s.class = class
	}
}

func NewStore(root string, options ...Option) *Store {
	if root == "" {
		panic("osfile store root is empty")
	}
	store := Store{root: filepath.Clean(root), class: files.DriveInternal | files.DriveStandard}
	for _, o := range options {
		o(&store)
	}
	if store.title == "" {
		store.title = strings.ToUpper(filepath.Base(store.root))
		if store.root == string(filepath.Separator) {
			var err error
			if store.title, err = osHostname(); err != nil {
				store.title = err.Error()
			}
		}
	}
	return &store
}

func (s *Store) Label() string { return s.title }

func (s *Store) Class() files.DriveClass { return s.class }

func (s *Store) Root() string { return s.root }

// Present reports whether the host directory is reachable, which is how an
// ejected medium looks on a workstation.
func (s *Store) Present() bool {
	fi, err := osStat(s.root)
	return err == nil && fi.IsDir()
}

func (s *Store) hostPath(p string) string {
	local := path.Clean("/" + strings.TrimPrefix(p, "/"))
	return filepath.Join(s.root, filepath.FromSlash(local))
}

// mapErr translates host errors to the store sentinels.
func mapErr(op, p string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%s %s: %w", op, p, files.ErrNotFound)
	case errors.Is(err, fs.ErrExist):
		return fmt.Errorf("%s %s: %w", op, p, files.ErrExists)
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%s %s: %w: %v", op, p, files.ErrReadOnly, err)
	default:
		return fmt.Errorf("%s %s: %w", op, p, err)
	}
}

func (s *Store) Stat(ctx context.Context, p string) (drives.Info, error) {
	if err := ctx.Err(); err != nil {
		return drives.Info{}, err
	}
	fi, err := osStat(s.hostPath(p))
	if err != nil {
		return drives.Info{}, mapErr("stat", p, err)
	}
	return infoOf(fi), nil
}

func infoOf(fi fs.FileInfo) drives.Info {
	info := drives.Info{Name: fi.Name(), IsDir: fi.IsDir()}
	if !info.IsDir {
		info.Size = fi.Size()
	}
	return info
}

func (s *Store) ReadDir(ctx context.Context, p string) ([]drives.Info, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := osReadDir(s.hostPath(p))
	if err != nil {
		return nil, mapErr("read dir", p, err)
	}
	infos := make([]drives.Info, 0, len(entries))
	for _, entry := range entries {
		fi, err := entry.Info()
		if err != nil {
			continue // vanished between listing and stat
		}
		infos = append(infos, infoOf(fi))
	}
	return infos, nil
}

func (s *Store) ReadAt(ctx context.Context, p string, off int64, n int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := osOpen(s.hostPath(p))
	if err != nil {
		return nil, mapErr("open", p, err)
	}
	defer func() {
		_ = f.Close()
	}()
	buf := make([]byte, n)
	read, err := f.ReadAt(buf, off)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, mapErr("read", p, err)
	}
	return buf[:read], nil
}

func (s *Store) WriteAt(ctx context.Context, p string, data []byte, off int64, truncate bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	flag := os.O_WRONLY
	if truncate {
		flag |= os.O_CREATE | os.O_TRUNC
	}
	f, err := osOpenFile(s.hostPath(p), flag, 0o644)
	if err != nil {
		return mapErr("open", p, err)
	}
	if _, err = f.WriteAt(data, off); err != nil {
		_ = f.Close()
		return mapErr("write", p, err)
	}
	return mapErr("close", p, f.Close())
}

func (s *Store) Open(ctx context.Context, p string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := osOpen(s.hostPath(p))
	if err != nil {
		return nil, mapErr("open", p, err)
	}
	return f, nil
}

func (s *Store) Create(ctx context.Context, p string) (io.WriteCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := osOpenFile(s.hostPath(p), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, mapErr("create", p, err)
	}
	return f, nil
}

func (s *Store) Mkdir(ctx context.Context, p string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return mapErr("mkdir", p, osMkdir(s.hostPath(p), 0o755))
}

func (s *Store) Remove(ctx context.Context, p string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	host := s.hostPath(p)
	if host == s.root {
		return files.ErrNotSupported
	}
	if _, err := osStat(host); err != nil {
		return mapErr("remove", p, err)
	}
	return mapErr("remove", p, osRemoveAll(host))
}

func (s *Store) Rename(ctx context.Context, from, to string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return mapErr("rename", from, osRename(s.hostPath(from), s.hostPath(to)))
}
