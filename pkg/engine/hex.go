package engine

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/datatug/drivetug/pkg/hexedit"
)

// runHex shows path in the hex viewer until the operator leaves it.
func (s *Session) runHex(ctx context.Context, path string) error {
	options := append([]hexedit.Option{hexedit.WithLogger(s.logger)}, s.hexOpts...)
	v, err := hexedit.Open(ctx, s.store, path, options...)
	if err != nil {
		s.prompt.Alert(fmt.Sprintf("%s\n\nCannot open: %v", path, err))
		return nil
	}
	for {
		if err = v.Load(ctx); err != nil {
			s.prompt.Alert(fmt.Sprintf("Error reading file:\n%v", err))
			return nil
		}
		view := v.Render()
		s.render.Render(Frame{
			Mode:     FrameHex,
			TopBar:   path,
			Elevated: s.elevated,
			Status:   s.status,
			Hex:      &view,
		})
		in, ok, err := s.input.Wait(ctx, s.poll)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if in.Lines > 0 {
			// the two screens share the body
			v.SetScreenRows(max(in.Lines/2, 1))
		}
		if in.Buttons == ButtonNone {
			continue
		}
		s.status = ""
		var done bool
		if v.Editing() {
			done = s.hexEditInput(ctx, v, in.Buttons)
		} else {
			done, err = s.hexViewInput(ctx, v, in.Buttons)
		}
		if err != nil {
			return err
		}
		if done {
			return s.nav.Reconcile(ctx)
		}
	}
}

func (s *Session) hexViewInput(ctx context.Context, v *hexedit.Viewer, b Button) (bool, error) {
	line, page := hexedit.StepLine, hexedit.StepPage
	if b.Has(ButtonR) {
		line, page = hexedit.StepCoarseLine, hexedit.StepCoarsePage
	}
	switch {
	case b.Any(ButtonB | ButtonStart):
		return true, nil
	case b.Has(ButtonDown):
		v.Scroll(line, 1)
	case b.Has(ButtonUp):
		v.Scroll(line, -1)
	case b.Has(ButtonRight):
		v.Scroll(page, 1)
	case b.Has(ButtonLeft):
		v.Scroll(page, -1)
	case b.Has(ButtonY):
		v.NextMode()
	case b.Has(ButtonR | ButtonX):
		s.hexFindNext(ctx, v)
	case b.Has(ButtonX):
		s.hexMenu(ctx, v)
	case b.Has(ButtonA):
		err := v.EnterEdit(ctx)
		switch {
		case errors.Is(err, hexedit.ErrNotWritable):
			s.prompt.Alert(fmt.Sprintf("%s\n\nFile is write protected", v.Path()))
		case err != nil:
			s.prompt.Alert(fmt.Sprintf("Error reading file:\n%v", err))
		}
	}
	return false, nil
}

// hexEditInput handles one input in edit mode. B and Start both leave edit
// mode only; the viewer stays open.
func (s *Session) hexEditInput(ctx context.Context, v *hexedit.Viewer, b Button) bool {
	cols := v.Geometry().Cols
	if b.Has(ButtonA) {
		switch {
		case b.Has(ButtonUp):
			v.Adjust(1)
		case b.Has(ButtonDown):
			v.Adjust(-1)
		case b.Has(ButtonRight):
			v.Adjust(0x10)
		case b.Has(ButtonLeft):
			v.Adjust(-0x10)
		}
		return false
	}
	switch {
	case b.Any(ButtonB | ButtonStart):
		res, err := v.ExitEdit(ctx, func(diffs int) bool {
			return s.prompt.Confirm(fmt.Sprintf("You made edits in %d place(s).\nWrite changes to file?", diffs))
		})
		switch {
		case err != nil:
			s.prompt.Alert(fmt.Sprintf("Failed writing to file!\n%v", err))
		case res.Written:
			s.status = fmt.Sprintf("%d change(s) written", res.Diffs)
		}
		return false
	case b.Has(ButtonDown):
		v.MoveEditCursor(cols)
	case b.Has(ButtonUp):
		v.MoveEditCursor(-cols)
	case b.Has(ButtonRight):
		v.MoveEditCursor(1)
	case b.Has(ButtonLeft):
		v.MoveEditCursor(-1)
	}
	return false
}

var hexMenuOptions = []string{"Go to offset", "Search for string", "Search for data", "Search again"}

func (s *Session) hexMenu(ctx context.Context, v *hexedit.Viewer) {
	options := hexMenuOptions
	if _, found := v.Found(); !found {
		options = options[:3]
	}
	choice, ok := s.prompt.Select(fmt.Sprintf("Current offset: %08X\nSelect action:", v.Offset()), options)
	if !ok {
		return
	}
	switch choice {
	case 0:
		text, ok := s.prompt.Input("Enter new offset below.", fmt.Sprintf("%08X", v.Offset()))
		if !ok {
			return
		}
		off, err := strconv.ParseInt(strings.TrimPrefix(strings.ToLower(text), "0x"), 16, 64)
		if err != nil {
			s.prompt.Alert(fmt.Sprintf("%q is not a valid offset", text))
			return
		}
		v.Goto(off)
	case 1, 2:
		title, parse := "Enter search string below.\n(R+X to repeat search)", hexedit.TextPattern
		if choice == 2 {
			title, parse = "Enter search data below.\n(R+X to repeat search)", hexedit.HexPattern
		}
		text, ok := s.prompt.Input(title, s.lastFind)
		if !ok {
			return
		}
		pattern, err := parse(text)
		if err != nil {
			s.prompt.Alert(fmt.Sprintf("Invalid search: %v", err))
			return
		}
		s.lastFind = text
		found, err := v.Find(ctx, pattern)
		s.reportFind(found, err)
	case 3:
		s.hexFindNext(ctx, v)
	}
}

func (s *Session) hexFindNext(ctx context.Context, v *hexedit.Viewer) {
	if _, found := v.Found(); !found {
		return
	}
	found, err := v.FindNext(ctx)
	s.reportFind(found, err)
}

func (s *Session) reportFind(found bool, err error) {
	switch {
	case err != nil:
		s.prompt.Alert(fmt.Sprintf("Search failed: %v", err))
	case !found:
		s.prompt.Alert("Not found!")
	}
}
