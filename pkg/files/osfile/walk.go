package osfile

import (
	"context"
	"io/fs"
	"path/filepath"

	"github.com/charlievieth/fastwalk"

	"github.com/datatug/drivetug/pkg/files/drives"
)

// Walk visits everything below p with fastwalk. Callbacks may run
// concurrently but are serialized before fn is called.
func (s *Store) Walk(ctx context.Context, p string, fn func(p string, info drives.Info) error) error {
	root := s.hostPath(p)
	visits := make(chan visit)
	done := make(chan error, 1)
	go func() {
		conf := fastwalk.Config{Follow: false}
		done <- fastwalk.Walk(&conf, root, func(hp string, d fs.DirEntry, err error) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err != nil || hp == root {
				return nil
			}
			fi, err := d.Info()
			if err != nil {
				return nil
			}
			rel, err := filepath.Rel(s.root, hp)
			if err != nil {
				return nil
			}
			result := make(chan error, 1)
			select {
			case visits <- visit{p: "/" + filepath.ToSlash(rel), info: infoOf(fi), result: result}:
			case <-ctx.Done():
				return ctx.Err()
			}
			return <-result
		})
		close(visits)
	}()
	var firstErr error
	for v := range visits {
		if firstErr != nil {
			v.result <- firstErr
			continue
		}
		firstErr = fn(v.p, v.info)
		v.result <- firstErr
	}
	if err := <-done; firstErr == nil {
		firstErr = err
	}
	return firstErr
}

type visit struct {
	p      string
	info   drives.Info
	result chan error
}
