package fsutils

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

var (
	osStat      = os.Stat
	userHomeDir = os.UserHomeDir
)

// ErrNotDir is returned for host paths that exist but are not directories.
var ErrNotDir = errors.New("not a directory")

// ExpandHome replaces a leading "~" with the current user's home directory.
func ExpandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := userHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, p[1:])
}

// HostDir resolves a configured drive directory to an absolute path.
// A directory that does not exist yet is reported through present, not err.
func HostDir(dir string) (abs string, present bool, err error) {
	if abs, err = filepath.Abs(ExpandHome(dir)); err != nil {
		return "", false, err
	}
	info, err := osStat(abs)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return abs, false, nil
	case err != nil:
		return abs, false, err
	case !info.IsDir():
		return abs, false, fmt.Errorf("%s: %w", abs, ErrNotDir)
	}
	return abs, true, nil
}
