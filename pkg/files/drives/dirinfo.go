package drives

import (
	"context"
	"path"
)

// DirStats summarizes a directory tree. Free and Total are only set for
// drive roots of backends that report their capacity.
type DirStats struct {
	Files int
	Dirs  int
	Bytes int64
	Free  uint64
	Total uint64
}

func (r *Registry) DirInfo(ctx context.Context, p string) (DirStats, error) {
	var stats DirStats
	d, local, err := r.resolve(p)
	if err != nil {
		return stats, err
	}
	count := func(_ string, info Info) error {
		if info.IsDir {
			stats.Dirs++
		} else {
			stats.Files++
			stats.Bytes += info.Size
		}
		return ctx.Err()
	}
	if w, ok := d.backend.(Walker); ok {
		err = w.Walk(ctx, local, count)
	} else {
		err = walkReadDir(ctx, d.backend, local, count)
	}
	if err != nil {
		return stats, err
	}
	if s, ok := d.backend.(SpaceReporter); ok && local == "/" {
		if stats.Free, stats.Total, err = s.Space(ctx); err != nil {
			r.logger.Debug("space unavailable", "drive", d.letter, "err", err)
			err = nil
		}
	}
	return stats, err
}

// walkReadDir visits everything below dir, dir itself excluded.
func walkReadDir(ctx context.Context, b Backend, dir string, fn func(p string, info Info) error) error {
	infos, err := b.ReadDir(ctx, dir)
	if err != nil {
		return err
	}
	for _, info := range infos {
		p := path.Join(dir, info.Name)
		if err = fn(p, info); err != nil {
			return err
		}
		if info.IsDir {
			if err = walkReadDir(ctx, b, p, fn); err != nil {
				return err
			}
		}
	}
	return nil
}

// Walk visits every object below the drive path p with drive paths.
func (r *Registry) Walk(ctx context.Context, p string, fn func(p string, info Info) error) error {
	d, local, err := r.resolve(p)
	if err != nil {
		return err
	}
	visit := func(lp string, info Info) error {
		return fn(Join(d.letter, lp), info)
	}
	if w, ok := d.backend.(Walker); ok {
		return w.Walk(ctx, local, visit)
	}
	return walkReadDir(ctx, d.backend, local, visit)
}
