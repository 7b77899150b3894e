// Package tui draws engine frames with tview and turns terminal keys into
// console button events.
package tui

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/datatug/drivetug/pkg/chroma2tcell"
	"github.com/datatug/drivetug/pkg/engine"
	"github.com/datatug/drivetug/pkg/hexedit"
)

// ErrClosed is returned by Wait once the terminal application has stopped.
var ErrClosed = errors.New("terminal closed")

const (
	pageListing = "listing"
	pageHex     = "hex"
	pageText    = "text"
	pageMain    = "main"
	pageDialog  = "dialog"
)

var (
	_ engine.Renderer    = (*UI)(nil)
	_ engine.InputSource = (*UI)(nil)
	_ engine.Prompter    = (*UI)(nil)
)

// application is the part of *tview.Application the UI drives. All calls
// made through QueueUpdateDraw run on the UI goroutine.
type application interface {
	QueueUpdateDraw(f func())
	SetFocus(p tview.Primitive)
}

type tviewApp struct {
	app *tview.Application
}

func (a tviewApp) QueueUpdateDraw(f func()) {
	a.app.QueueUpdateDraw(f)
}

func (a tviewApp) SetFocus(p tview.Primitive) {
	a.app.SetFocus(p)
}

type UI struct {
	app application

	root    *tview.Pages
	body    *bodyPages
	header  *tview.TextView
	listing *tview.Table
	hex     *tview.TextView
	text    *tview.TextView
	footer  *tview.TextView
	style   string

	events    chan engine.Input
	closed    chan struct{}
	closeOnce sync.Once

	// touched on the UI goroutine only
	answer   func(int)
	lines    int
	textPath string
}

type Option func(*UI)

// WithStyle sets the chroma style of the text viewer.
func WithStyle(name string) Option {
	return func(u *UI) {
		u.style = name
	}
}

// New lays the UI out on app and captures its key input.
func New(app *tview.Application, options ...Option) *UI {
	u := newUI(tviewApp{app: app}, options...)
	app.SetRoot(u.root, true)
	app.SetInputCapture(u.capture)
	return u
}

func newUI(app application, options ...Option) *UI {
	u := &UI{
		app:    app,
		style:  chroma2tcell.DefaultStyle,
		events: make(chan engine.Input, 16),
		closed: make(chan struct{}),
	}
	for _, option := range options {
		option(u)
	}

	u.header = tview.NewTextView().SetDynamicColors(true)
	u.footer = tview.NewTextView().SetDynamicColors(true)
	u.listing = tview.NewTable().SetSelectable(true, false)
	u.hex = tview.NewTextView().SetDynamicColors(true).SetWrap(false)
	u.text = tview.NewTextView().SetDynamicColors(true).SetWrap(false)

	u.body = &bodyPages{Pages: tview.NewPages(), resized: u.resized}
	u.body.AddPage(pageListing, u.listing, true, true)
	u.body.AddPage(pageHex, u.hex, true, false)
	u.body.AddPage(pageText, u.text, true, false)

	layout := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(u.header, 1, 0, false).
		AddItem(u.body, 0, 1, true).
		AddItem(u.footer, 2, 0, false)
	u.root = tview.NewPages().AddPage(pageMain, layout, true, true)
	return u
}

// Close unblocks Wait and any open dialog. It is safe to call more than once.
func (u *UI) Close() {
	u.closeOnce.Do(func() {
		close(u.closed)
	})
}

// bodyPages reports the height of the body after every draw.
type bodyPages struct {
	*tview.Pages
	resized func(lines int)
}

func (b *bodyPages) Draw(screen tcell.Screen) {
	b.Pages.Draw(screen)
	_, _, _, h := b.GetRect()
	b.resized(h)
}

func (u *UI) resized(lines int) {
	if lines <= 0 || lines == u.lines {
		return
	}
	u.lines = lines
	u.send(engine.Input{Lines: lines})
}

func (u *UI) send(in engine.Input) {
	select {
	case u.events <- in:
	default:
		// the session is busy; drop the key rather than block drawing
	}
}

// capture turns keys into button events while no dialog is open.
func (u *UI) capture(ev *tcell.EventKey) *tcell.EventKey {
	if u.answer != nil {
		return ev
	}
	b := KeyButtons(ev)
	if b == engine.ButtonNone {
		return ev
	}
	u.send(engine.Input{Buttons: b})
	return nil
}

// Wait returns the next key or resize, or false once timeout passes.
func (u *UI) Wait(ctx context.Context, timeout time.Duration) (engine.Input, bool, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case in := <-u.events:
		return in, true, nil
	case <-timer.C:
		return engine.Input{}, false, nil
	case <-ctx.Done():
		return engine.Input{}, false, ctx.Err()
	case <-u.closed:
		return engine.Input{}, false, ErrClosed
	}
}

// Render queues f for drawing. Frame data is copied first since the
// session keeps mutating its buffers.
func (u *UI) Render(f engine.Frame) {
	f = detach(f)
	u.app.QueueUpdateDraw(func() {
		u.show(f)
	})
}

func detach(f engine.Frame) engine.Frame {
	f.Listing.Entries = slices.Clone(f.Listing.Entries)
	if f.Current != nil {
		c := *f.Current
		f.Current = &c
	}
	if f.Hex != nil {
		h := *f.Hex
		h.Rows = make([]hexedit.HexRow, len(f.Hex.Rows))
		for i, row := range f.Hex.Rows {
			row.Bytes = slices.Clone(row.Bytes)
			row.Marked = slices.Clone(row.Marked)
			h.Rows[i] = row
		}
		f.Hex = &h
	}
	if f.Text != nil {
		t := *f.Text
		f.Text = &t
	}
	if f.Progress != nil {
		p := *f.Progress
		f.Progress = &p
	}
	return f
}

func (u *UI) show(f engine.Frame) {
	u.header.SetText(headerText(f))
	u.footer.SetText(footerText(f))
	switch {
	case f.Mode == engine.FrameHex && f.Hex != nil:
		u.hex.SetText(hexText(f.Hex))
		u.body.SwitchToPage(pageHex)
	case f.Mode == engine.FrameText && f.Text != nil:
		if f.Text.Path != u.textPath {
			u.textPath = f.Text.Path
			u.text.SetText(textBody(f.Text, u.style))
		}
		u.text.ScrollTo(f.Text.First, 0)
		u.body.SwitchToPage(pageText)
	default:
		u.textPath = ""
		fillListing(u.listing, f.Listing)
		u.body.SwitchToPage(pageListing)
	}
}
