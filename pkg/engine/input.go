// Package engine runs the file browser session: it waits for input, polls
// media events between waits and dispatches buttons to the navigation
// controller, the batch orchestrator and the hex editor.
package engine

import (
	"context"
	"strings"
	"time"

	"github.com/datatug/drivetug/pkg/batch"
)

// Button is a bitmask of held buttons.
type Button uint32

const (
	ButtonA Button = 1 << iota
	ButtonB
	ButtonX
	ButtonY
	ButtonL
	ButtonR
	ButtonUp
	ButtonDown
	ButtonLeft
	ButtonRight
	ButtonSelect
	ButtonStart
	ButtonHome
)

const ButtonNone Button = 0

var buttonNames = []struct {
	b    Button
	name string
}{
	{ButtonA, "A"},
	{ButtonB, "B"},
	{ButtonX, "X"},
	{ButtonY, "Y"},
	{ButtonL, "L"},
	{ButtonR, "R"},
	{ButtonUp, "UP"},
	{ButtonDown, "DOWN"},
	{ButtonLeft, "LEFT"},
	{ButtonRight, "RIGHT"},
	{ButtonSelect, "SELECT"},
	{ButtonStart, "START"},
	{ButtonHome, "HOME"},
}

// Has reports whether every button of b is held.
func (b Button) Has(o Button) bool { return b&o == o && o != 0 }

// Any reports whether at least one button of o is held.
func (b Button) Any(o Button) bool { return b&o != 0 }

func (b Button) String() string {
	if b == ButtonNone {
		return "none"
	}
	var names []string
	for _, n := range buttonNames {
		if b.Has(n.b) {
			names = append(names, n.name)
		}
	}
	return strings.Join(names, "+")
}

// Input is one discrete input event.
type Input struct {
	Buttons Button
	// Lines is the number of listing rows the front-end can show, or 0
	// when the geometry did not change.
	Lines int
}

// InputSource hands over input events. Wait returns ok == false when
// timeout passed without input.
type InputSource interface {
	Wait(ctx context.Context, timeout time.Duration) (in Input, ok bool, err error)
}

// Renderer draws a frame. It must not block on input.
type Renderer interface {
	Render(f Frame)
}

// Prompter is the blocking dialog collaborator.
type Prompter interface {
	batch.Operator
	// Select shows options and returns the chosen index, or false when
	// the dialog was cancelled.
	Select(title string, options []string) (int, bool)
	// Input asks for a line of text.
	Input(title, initial string) (string, bool)
}
