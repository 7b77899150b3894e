//go:build !linux && !darwin

package osfile

import (
	"context"

	"github.com/datatug/drivetug/pkg/files"
)

func (s *Store) Space(_ context.Context) (free, total uint64, err error) {
	return 0, 0, files.ErrNotSupported
}
