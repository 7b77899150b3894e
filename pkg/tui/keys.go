package tui

import (
	"github.com/gdamore/tcell/v2"

	"github.com/datatug/drivetug/pkg/engine"
)

var keyButtons = map[tcell.Key]engine.Button{
	tcell.KeyUp:         engine.ButtonUp,
	tcell.KeyDown:       engine.ButtonDown,
	tcell.KeyLeft:       engine.ButtonLeft,
	tcell.KeyRight:      engine.ButtonRight,
	tcell.KeyPgUp:       engine.ButtonLeft,
	tcell.KeyPgDn:       engine.ButtonRight,
	tcell.KeyEnter:      engine.ButtonA,
	tcell.KeyEscape:     engine.ButtonB,
	tcell.KeyBackspace:  engine.ButtonB,
	tcell.KeyBackspace2: engine.ButtonB,
	tcell.KeyDelete:     engine.ButtonX,
	tcell.KeyInsert:     engine.ButtonY,
	tcell.KeyTab:        engine.ButtonR | engine.ButtonRight,
	tcell.KeyBacktab:    engine.ButtonR | engine.ButtonLeft,
	tcell.KeyF5:         engine.ButtonR | engine.ButtonDown,
	tcell.KeyHome:       engine.ButtonHome,
	tcell.KeyF10:        engine.ButtonStart,
}

var runeButtons = map[rune]engine.Button{
	'a': engine.ButtonA,
	'b': engine.ButtonB,
	'x': engine.ButtonX,
	'y': engine.ButtonY,
	' ': engine.ButtonL,
	'l': engine.ButtonL,
	's': engine.ButtonSelect,
	'q': engine.ButtonStart,
	'h': engine.ButtonHome,
	'm': engine.ButtonR | engine.ButtonA,
	'A': engine.ButtonR | engine.ButtonA,
	'B': engine.ButtonR | engine.ButtonB,
	'X': engine.ButtonR | engine.ButtonX,
	'Y': engine.ButtonR | engine.ButtonY,
	'r': engine.ButtonR | engine.ButtonX,
	'n': engine.ButtonR | engine.ButtonY,
	// vi style movement
	'j': engine.ButtonDown,
	'k': engine.ButtonUp,
	'J': engine.ButtonL | engine.ButtonDown,
	'K': engine.ButtonL | engine.ButtonUp,
	// hex editing
	'+': engine.ButtonA | engine.ButtonUp,
	'-': engine.ButtonA | engine.ButtonDown,
	']': engine.ButtonA | engine.ButtonRight,
	'[': engine.ButtonA | engine.ButtonLeft,
}

// KeyButtons maps a key press to console buttons. Shift on a special key
// holds L, Alt or Ctrl hold R.
func KeyButtons(ev *tcell.EventKey) engine.Button {
	var b engine.Button
	if ev.Key() == tcell.KeyRune {
		b = runeButtons[ev.Rune()]
	} else {
		b = keyButtons[ev.Key()]
		if b != engine.ButtonNone && ev.Modifiers()&tcell.ModShift != 0 {
			b |= engine.ButtonL
		}
		if b != engine.ButtonNone && ev.Modifiers()&tcell.ModCtrl != 0 {
			b |= engine.ButtonR
		}
	}
	if b != engine.ButtonNone && ev.Modifiers()&tcell.ModAlt != 0 {
		b |= engine.ButtonR
	}
	return b
}

// KeyHelp is the key legend shown in the footer.
const KeyHelp = "Enter:A Esc:B x:X y:Y Space:mark Shift:drag Alt/Ctrl:R m:menu s:clipboard h:home q:quit"
