//go:build linux || darwin

package osfile

import (
	"context"
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/datatug/drivetug/pkg/files/drives"
)

var _ drives.SpaceReporter = (*Store)(nil)

var unixStatfs = unix.Statfs

func (s *Store) Space(_ context.Context) (free, total uint64, err error) {
	var stat unix.Statfs_t
	if err = unixStatfs(s.root, &stat); err != nil {
		return 0, 0, fmt.Errorf("statfs %s: %w", s.root, err)
	}
	bsize := uint64(stat.Bsize) //nolint:gosec
	return stat.Bavail * bsize, stat.Blocks * bsize, nil
}
