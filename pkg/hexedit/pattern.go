package hexedit

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// MaxPattern bounds the length of a search pattern in bytes.
const MaxPattern = 64

var (
	ErrEmptyPattern   = errors.New("empty search pattern")
	ErrPatternTooLong = fmt.Errorf("search pattern exceeds %d bytes", MaxPattern)
)

// TextPattern returns the bytes of s as a search pattern.
func TextPattern(s string) ([]byte, error) {
	return checkPattern([]byte(s))
}

// HexPattern parses hex digits, whitespace between them is ignored.
func HexPattern(s string) ([]byte, error) {
	s = strings.Join(strings.Fields(s), "")
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("hex pattern %q: %w", s, err)
	}
	return checkPattern(b)
}

func checkPattern(b []byte) ([]byte, error) {
	switch {
	case len(b) == 0:
		return nil, ErrEmptyPattern
	case len(b) > MaxPattern:
		return nil, ErrPatternTooLong
	}
	return b, nil
}
