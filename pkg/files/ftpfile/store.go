// Package ftpfile exposes a directory of an FTP server as a drive.
package ftpfile

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/textproto"
	"path"
	"time"

	"github.com/jlaffaye/ftp"

	"github.com/datatug/drivetug/pkg/files"
	"github.com/datatug/drivetug/pkg/files/drives"
	"github.com/datatug/drivetug/pkg/metrics"
)

const schema = "ftp"

var _ drives.Backend = (*Store)(nil)

// Conn is the part of an FTP control connection the store uses.
type Conn interface {
	List(p string) ([]*ftp.Entry, error)
	RetrFrom(p string, offset uint64) (io.ReadCloser, error)
	Stor(p string, r io.Reader) error
	StorFrom(p string, r io.Reader, offset uint64) error
	MakeDir(p string) error
	Delete(p string) error
	RemoveDirRecur(p string) error
	Rename(from, to string) error
	Quit() error
}

// Dialer opens a logged in connection.
type Dialer func(ctx context.Context) (Conn, error)

type Config struct {
	Addr     string
	User     string
	Password string
	// TLS is "explicit", "implicit" or empty for plain FTP.
	TLS string
}

type Store struct {
	dial  Dialer
	label string
}

// NewStore connects to cfg.Addr for every operation; the default port is 21.
func NewStore(cfg Config) *Store {
	return NewWithDialer(cfg.Addr, dialer(cfg))
}

func NewWithDialer(host string, dial Dialer) *Store {
	return &Store{dial: dial, label: schema + "://" + host}
}

type serverConn struct {
	*ftp.ServerConn
}

func (c serverConn) RetrFrom(p string, offset uint64) (io.ReadCloser, error) {
	return c.ServerConn.RetrFrom(p, offset)
}

func dialer(cfg Config) Dialer {
	return func(ctx context.Context) (Conn, error) {
		host, port, err := net.SplitHostPort(cfg.Addr)
		if err != nil {
			host = cfg.Addr
			port = "21"
		}
		options := []ftp.DialOption{
			ftp.DialWithContext(ctx),
			ftp.DialWithTimeout(5 * time.Second),
		}
		tlsConfig := &tls.Config{ServerName: host}
		switch cfg.TLS {
		case "implicit":
			options = append(options, ftp.DialWithTLS(tlsConfig))
		case "explicit":
			options = append(options, ftp.DialWithExplicitTLS(tlsConfig))
		}
		c, err := ftp.Dial(net.JoinHostPort(host, port), options...)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to ftp server: %w", err)
		}
		if cfg.User != "" {
			if err = c.Login(cfg.User, cfg.Password); err != nil {
				_ = c.Quit()
				return nil, fmt.Errorf("failed to login to ftp server: %w", err)
			}
		}
		return serverConn{ServerConn: c}, nil
	}
}

func (s *Store) Label() string { return s.label }

func (s *Store) Class() files.DriveClass { return files.DriveRemote | files.DriveStandard }

func clean(p string) string {
	return path.Clean("/" + p)
}

// mapErr turns the "550 no such file" reply into files.ErrNotFound.
func mapErr(op, p string, err error) error {
	var reply *textproto.Error
	if errors.As(err, &reply) && reply.Code == ftp.StatusFileUnavailable {
		return fmt.Errorf("%s %s: %w", op, p, files.ErrNotFound)
	}
	return fmt.Errorf("%s %s: %w", op, p, err)
}

// with runs fn on a fresh connection.
func (s *Store) with(ctx context.Context, op string, fn func(c Conn) error) (err error) {
	start := time.Now()
	defer func() {
		metrics.RecordBackendOperation(schema, op, time.Since(start), err == nil)
	}()
	c, err := s.dial(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = c.Quit()
	}()
	return fn(c)
}

func infoOf(e *ftp.Entry) drives.Info {
	return drives.Info{Name: e.Name, Size: int64(e.Size), IsDir: e.Type == ftp.EntryTypeFolder}
}

func (s *Store) list(c Conn, p string) ([]drives.Info, error) {
	entries, err := c.List(p)
	if err != nil {
		return nil, mapErr("list", p, err)
	}
	infos := make([]drives.Info, 0, len(entries))
	for _, e := range entries {
		if e.Name == "." || e.Name == ".." {
			continue
		}
		infos = append(infos, infoOf(e))
	}
	return infos, nil
}

func (s *Store) stat(c Conn, p string) (drives.Info, error) {
	p = clean(p)
	if p == "/" {
		return drives.Info{Name: s.label, IsDir: true}, nil
	}
	infos, err := s.list(c, path.Dir(p))
	if err != nil {
		return drives.Info{}, err
	}
	name := path.Base(p)
	for _, info := range infos {
		if info.Name == name {
			return info, nil
		}
	}
	return drives.Info{}, fmt.Errorf("stat %s: %w", p, files.ErrNotFound)
}

// Stat lists the parent directory, which works on servers without MLST.
func (s *Store) Stat(ctx context.Context, p string) (info drives.Info, err error) {
	err = s.with(ctx, "stat", func(c Conn) error {
		info, err = s.stat(c, p)
		return err
	})
	return info, err
}

func (s *Store) ReadDir(ctx context.Context, p string) (infos []drives.Info, err error) {
	err = s.with(ctx, "list", func(c Conn) error {
		infos, err = s.list(c, clean(p))
		return err
	})
	return infos, err
}

func (s *Store) ReadAt(ctx context.Context, p string, off int64, n int) (data []byte, err error) {
	if n <= 0 || off < 0 {
		return nil, nil
	}
	err = s.with(ctx, "retr", func(c Conn) error {
		r, err := c.RetrFrom(clean(p), uint64(off))
		if err != nil {
			return mapErr("read", p, err)
		}
		data, err = io.ReadAll(io.LimitReader(r, int64(n)))
		// closing before the end of the file aborts the transfer
		_ = r.Close()
		return err
	})
	return data, err
}

func (s *Store) WriteAt(ctx context.Context, p string, data []byte, off int64, truncate bool) error {
	return s.with(ctx, "stor", func(c Conn) error {
		var err error
		switch {
		case truncate:
			body := append(make([]byte, off), data...)
			err = c.Stor(clean(p), bytes.NewReader(body))
		default:
			err = c.StorFrom(clean(p), bytes.NewReader(data), uint64(off))
		}
		if err != nil {
			return mapErr("write", p, err)
		}
		return nil
	})
}

type reader struct {
	io.ReadCloser
	conn Conn
}

func (r *reader) Close() error {
	err := r.ReadCloser.Close()
	_ = r.conn.Quit()
	return err
}

// Open keeps its connection until the reader is closed.
func (s *Store) Open(ctx context.Context, p string) (io.ReadCloser, error) {
	c, err := s.dial(ctx)
	if err != nil {
		return nil, err
	}
	r, err := c.RetrFrom(clean(p), 0)
	if err != nil {
		_ = c.Quit()
		return nil, mapErr("open", p, err)
	}
	return &reader{ReadCloser: r, conn: c}, nil
}

type writer struct {
	bytes.Buffer
	ctx   context.Context
	store *Store
	path  string
}

func (w *writer) Close() error {
	return w.store.WriteAt(w.ctx, w.path, w.Bytes(), 0, true)
}

// Create buffers the content and uploads it on Close.
func (s *Store) Create(ctx context.Context, p string) (io.WriteCloser, error) {
	return &writer{ctx: ctx, store: s, path: p}, nil
}

func (s *Store) Mkdir(ctx context.Context, p string) error {
	return s.with(ctx, "mkd", func(c Conn) error {
		if err := c.MakeDir(clean(p)); err != nil {
			return mapErr("mkdir", p, err)
		}
		return nil
	})
}

func (s *Store) Remove(ctx context.Context, p string) error {
	return s.with(ctx, "dele", func(c Conn) error {
		info, err := s.stat(c, p)
		if err != nil {
			return err
		}
		if info.IsDir {
			err = c.RemoveDirRecur(clean(p))
		} else {
			err = c.Delete(clean(p))
		}
		if err != nil {
			return mapErr("remove", p, err)
		}
		return nil
	})
}

func (s *Store) Rename(ctx context.Context, from, to string) error {
	return s.with(ctx, "rename", func(c Conn) error {
		if err := c.Rename(clean(from), clean(to)); err != nil {
			return mapErr("rename", from, err)
		}
		return nil
	})
}
