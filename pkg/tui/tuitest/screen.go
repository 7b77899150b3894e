// Package tuitest provides simulation screen helpers for UI tests.
package tuitest

import (
	"strings"

	"github.com/gdamore/tcell/v2"
)

// TB is the part of testing.TB the helpers need.
type TB interface {
	Helper()
	Fatalf(format string, args ...any)
}

var NewSimulationScreen = tcell.NewSimulationScreen

// NewSimScreen creates an initialized simulation screen of the given size.
func NewSimScreen(t TB, charset string, width, height int) tcell.SimulationScreen {
	t.Helper()
	s := NewSimulationScreen(charset)
	if err := s.Init(); err != nil {
		t.Fatalf("failed to init simulation screen: %v", err)
	}
	s.SetSize(width, height)
	return s
}

// ReadLine reads a full line from the screen. Cells nothing was drawn to
// read as spaces.
func ReadLine(screen tcell.Screen, y, width int) string {
	var b strings.Builder
	for x := 0; x < width; x++ {
		str, _, _ := screen.Get(x, y)
		if str == "" {
			b.WriteRune(' ')
			continue
		}
		b.WriteString(str)
	}
	return b.String()
}

// ReadScreen returns all lines of the screen with trailing spaces removed.
func ReadScreen(screen tcell.Screen) []string {
	w, h := screen.Size()
	lines := make([]string, h)
	for y := range lines {
		lines[y] = strings.TrimRight(ReadLine(screen, y, w), " ")
	}
	return lines
}
