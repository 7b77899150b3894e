package drives

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/datatug/drivetug/pkg/files"
)

// Copy places a copy of src inside destDir. Directories are copied
// recursively. An existing destination is resolved by policy: skipping
// returns files.ErrSkipped, ConflictAsk returns files.ErrExists.
func (r *Registry) Copy(ctx context.Context, destDir, src string, policy files.ConflictPolicy) error {
	return r.transfer(ctx, destDir, src, policy, false)
}

// Move relocates src into destDir. Within one standard drive it is a
// rename, otherwise a copy followed by deleting the source.
func (r *Registry) Move(ctx context.Context, destDir, src string, policy files.ConflictPolicy) error {
	return r.transfer(ctx, destDir, src, policy, true)
}

func (r *Registry) transfer(ctx context.Context, destDir, src string, policy files.ConflictPolicy, move bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	sd, slocal, err := r.resolve(src)
	if err != nil {
		return err
	}
	dd, dlocal, err := r.resolve(destDir)
	if err != nil {
		return err
	}
	if slocal == "/" {
		return fmt.Errorf("copy drive root %s: %w", src, files.ErrNotSupported)
	}
	if !writable(dd) {
		return fmt.Errorf("copy to %s: %w", destDir, files.ErrReadOnly)
	}
	if move && !writable(sd) {
		return fmt.Errorf("move from %s: %w", src, files.ErrReadOnly)
	}
	target := path.Join(dlocal, path.Base(slocal))
	if sd == dd {
		if target == slocal {
			return fmt.Errorf("%s: %w", src, ErrSameLocation)
		}
		if Within(dlocal, slocal) {
			return fmt.Errorf("%s into %s: %w", src, destDir, ErrInsideSource)
		}
	}
	// a vanished source must fail before the destination is replaced
	if _, err = sd.backend.Stat(ctx, slocal); err != nil {
		return err
	}
	exists, err := r.exists(ctx, dd, target)
	if err != nil {
		return err
	}
	if exists {
		switch {
		case policy.Skips():
			return files.ErrSkipped
		case policy.Overwrites():
			if err = dd.backend.Remove(ctx, target); err != nil {
				return fmt.Errorf("replace %s: %w", Join(dd.letter, target), err)
			}
		default:
			return fmt.Errorf("%s: %w", Join(dd.letter, target), files.ErrExists)
		}
	}
	if move && sd == dd && sd.class.Has(files.DriveStandard) {
		return sd.backend.Rename(ctx, slocal, target)
	}
	if err = r.copyTree(ctx, sd, slocal, dd, target); err != nil {
		return err
	}
	if move {
		return sd.backend.Remove(ctx, slocal)
	}
	return nil
}

func (r *Registry) copyTree(ctx context.Context, sd *drive, from string, dd *drive, to string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	info, err := sd.backend.Stat(ctx, from)
	if err != nil {
		return err
	}
	if !info.IsDir {
		return r.copyFile(ctx, sd, from, dd, to)
	}
	if err = dd.backend.Mkdir(ctx, to); err != nil {
		return err
	}
	children, err := sd.backend.ReadDir(ctx, from)
	if err != nil {
		return err
	}
	for _, child := range children {
		if err = r.copyTree(ctx, sd, path.Join(from, child.Name), dd, path.Join(to, child.Name)); err != nil {
			return err
		}
	}
	return nil
}

func (r *Registry) copyFile(ctx context.Context, sd *drive, from string, dd *drive, to string) error {
	if sd == dd {
		if c, ok := sd.backend.(FileCopier); ok {
			return c.CopyFile(ctx, from, to)
		}
	}
	in, err := sd.backend.Open(ctx, from)
	if err != nil {
		return err
	}
	defer func() {
		_ = in.Close()
	}()
	out, err := dd.backend.Create(ctx, to)
	if err != nil {
		return err
	}
	_, err = io.Copy(out, in)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		r.logger.Warn("copy failed", "from", Join(sd.letter, from), "to", Join(dd.letter, to), "err", err)
		_ = dd.backend.Remove(ctx, to)
		return err
	}
	return nil
}
