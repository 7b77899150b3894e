package osfile

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/zeebo/blake3"
)

// ErrHashMismatch is returned when a copied file does not read back identical to its source.
var ErrHashMismatch = errors.New("hash mismatch")

type contextReader struct {
	ctx    context.Context
	reader io.Reader
}

func (cr *contextReader) Read(p []byte) (int, error) {
	select {
	case <-cr.ctx.Done():
		return 0, context.Canceled
	default:
		return cr.reader.Read(p)
	}
}

// CopyFile copies within the store through a temporary file and verifies
// the result with blake3 before moving it into place.
func (s *Store) CopyFile(ctx context.Context, from, to string) error {
	var complete bool

	src, err := osOpen(s.hostPath(from))
	if err != nil {
		return mapErr("open", from, err)
	}
	defer func() {
		_ = src.Close()
	}()

	dstPath := s.hostPath(to)
	tmpPath := dstPath + ".drivetug"
	defer func() {
		if !complete {
			_ = os.Remove(tmpPath)
		}
	}()

	dst, err := osOpenFile(tmpPath, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return mapErr("create", to, err)
	}
	defer func() {
		_ = dst.Close()
	}()

	srcHasher := blake3.New()
	reader := &contextReader{ctx: ctx, reader: io.TeeReader(src, srcHasher)}
	if _, err = io.Copy(dst, reader); err != nil {
		if errors.Is(err, context.Canceled) {
			return fmt.Errorf("copy canceled: %w", err)
		}
		return mapErr("copy", from, err)
	}
	if err = dst.Sync(); err != nil {
		return mapErr("sync", to, err)
	}

	srcSum := srcHasher.Sum(nil)
	dstSum, err := hashFile(tmpPath)
	if err != nil {
		return mapErr("verify", to, err)
	}
	if !bytes.Equal(srcSum, dstSum) {
		return fmt.Errorf("%w: %s (src) != %s (dst)", ErrHashMismatch, hex.EncodeToString(srcSum), hex.EncodeToString(dstSum))
	}
	if err = osRename(tmpPath, dstPath); err != nil {
		return mapErr("rename", to, err)
	}
	complete = true
	return nil
}

// hashFile reads p back from disk.
func hashFile(p string) ([]byte, error) {
	f, err := osOpen(p)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()
	h := blake3.New()
	if _, err = io.Copy(h, f); err != nil {
		return nil, err
	}
	return h.Sum(nil), nil
}
