package fsutils

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestSizeText(t *testing.T) {
	tests := []struct {
		size     int64
		expected string
	}{
		{-1, "0 B"},
		{0, "0 B"},
		{500, "500 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{1024 * 1024, "1.0 MiB"},
		{4 << 30, "4.0 GiB"},
	}
	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, SizeText(tt.size))
		})
	}
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		in       string
		expected int64
		err      bool
	}{
		{in: "0", expected: 0},
		{in: "1 KiB", expected: 1024},
		{in: "4M", expected: 4_000_000},
		{in: "4MiB", expected: 4 << 20},
		{in: "0x400", expected: 0x400},
		{in: " 0X10 ", expected: 0x10},
		{in: "0xZZ", err: true},
		{in: "lots", err: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			n, err := ParseSize(tt.in)
			if tt.err {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, n)
		})
	}
}
