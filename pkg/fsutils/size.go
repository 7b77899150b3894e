package fsutils

import (
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// SizeText returns a human readable size string such as "1.5 KiB".
func SizeText(size int64) string {
	if size < 0 {
		size = 0
	}
	return humanize.IBytes(uint64(size))
}

// ParseSize reads a byte count written either in hex ("0x400") or in
// units ("4 MiB", "512k").
func ParseSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if hex, ok := strings.CutPrefix(strings.ToLower(s), "0x"); ok {
		return strconv.ParseInt(hex, 16, 64)
	}
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, err
	}
	return int64(n), nil
}
