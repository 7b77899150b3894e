package osfile

import (
	"bytes"
	"context"
	"errors"
	"io"

	"github.com/datatug/drivetug/pkg/files"
)

const searchChunk = 1 << 20

// SearchBytes scans the file from offset from with one open handle.
func (s *Store) SearchBytes(ctx context.Context, p string, pattern []byte, from int64) (int64, error) {
	f, err := osOpen(s.hostPath(p))
	if err != nil {
		return 0, mapErr("open", p, err)
	}
	defer func() {
		_ = f.Close()
	}()
	buf := make([]byte, max(searchChunk, 2*len(pattern)))
	for pos := max(from, 0); ; {
		if err = ctx.Err(); err != nil {
			return 0, err
		}
		n, rerr := f.ReadAt(buf, pos)
		if rerr != nil && !errors.Is(rerr, io.EOF) {
			return 0, mapErr("read", p, rerr)
		}
		if i := bytes.Index(buf[:n], pattern); i >= 0 {
			return pos + int64(i), nil
		}
		if n < len(buf) {
			return 0, files.ErrNotFound
		}
		pos += int64(n - len(pattern) + 1)
	}
}
