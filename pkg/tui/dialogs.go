package tui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/datatug/drivetug/pkg/files"
)

const minDialogWidth = 40

// ask shows the dialog build returns and blocks until the dialog calls
// done. A closed UI answers -1.
func (u *UI) ask(build func(done func(int)) tview.Primitive) int {
	answer := make(chan int, 1)
	u.app.QueueUpdateDraw(func() {
		finished := false
		done := func(i int) {
			if finished {
				return
			}
			finished = true
			u.answer = nil
			u.root.RemovePage(pageDialog)
			u.app.SetFocus(u.body)
			answer <- i
		}
		p := build(done)
		u.answer = done
		u.root.AddPage(pageDialog, p, true, true)
		u.app.SetFocus(p)
	})
	select {
	case i := <-answer:
		return i
	case <-u.closed:
		return -1
	}
}

func (u *UI) modal(msg string, buttons ...string) int {
	return u.ask(func(done func(int)) tview.Primitive {
		return tview.NewModal().
			SetText(tview.Escape(msg)).
			AddButtons(buttons).
			SetDoneFunc(func(i int, _ string) {
				done(i)
			})
	})
}

func (u *UI) Alert(msg string) {
	u.modal(msg, "OK")
}

func (u *UI) Confirm(msg string) bool {
	return u.modal(msg, "Yes", "No") == 0
}

var conflictChoices = []struct {
	label  string
	policy files.ConflictPolicy
}{
	{"Overwrite", files.ConflictOverwrite},
	{"Skip", files.ConflictSkip},
	{"Overwrite all", files.ConflictOverwriteAll},
	{"Skip all", files.ConflictSkipAll},
	{"Abort", files.ConflictAbort},
}

func (u *UI) ResolveConflict(target string) files.ConflictPolicy {
	labels := make([]string, len(conflictChoices))
	for i, c := range conflictChoices {
		labels[i] = c.label
	}
	i := u.modal(fmt.Sprintf("Destination already exists:\n%s", target), labels...)
	if i < 0 || i >= len(conflictChoices) {
		return files.ConflictAbort
	}
	return conflictChoices[i].policy
}

func (u *UI) Select(title string, options []string) (int, bool) {
	i := u.ask(func(done func(int)) tview.Primitive {
		list := tview.NewList().ShowSecondaryText(false)
		for _, option := range options {
			list.AddItem(tview.Escape(option), "", 0, nil)
		}
		list.SetSelectedFunc(func(i int, _, _ string, _ rune) {
			done(i)
		})
		list.SetDoneFunc(func() {
			done(-1)
		})
		return dialogFrame(title, list, len(options), widest(options))
	})
	return i, i >= 0
}

func (u *UI) Input(title, initial string) (string, bool) {
	var text string
	i := u.ask(func(done func(int)) tview.Primitive {
		field := tview.NewInputField().SetText(initial)
		field.SetDoneFunc(func(key tcell.Key) {
			switch key {
			case tcell.KeyEnter:
				text = field.GetText()
				done(0)
			case tcell.KeyEscape:
				done(-1)
			}
		})
		return dialogFrame(title, field, 1, len(initial))
	})
	return text, i == 0
}

// dialogFrame puts title above body in a centered bordered box.
func dialogFrame(title string, body tview.Primitive, bodyHeight, bodyWidth int) tview.Primitive {
	lines := strings.Split(title, "\n")
	heading := tview.NewTextView().SetText(title)
	frame := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(heading, len(lines), 0, false).
		AddItem(body, bodyHeight, 0, true)
	frame.SetBorder(true)
	width := max(widest(lines), bodyWidth, minDialogWidth-4) + 4
	return centered(frame, width, len(lines)+bodyHeight+2)
}

func centered(p tview.Primitive, width, height int) tview.Primitive {
	return tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().SetDirection(tview.FlexRow).
			AddItem(nil, 0, 1, false).
			AddItem(p, height, 0, true).
			AddItem(nil, 0, 1, false), width, 0, true).
		AddItem(nil, 0, 1, false)
}

func widest(lines []string) int {
	n := 0
	for _, line := range lines {
		n = max(n, tview.TaggedStringWidth(line))
	}
	return n
}
