package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/datatug/drivetug/pkg/batch"
	"github.com/datatug/drivetug/pkg/capability"
	"github.com/datatug/drivetug/pkg/files"
	"github.com/datatug/drivetug/pkg/files/drives"
	"github.com/datatug/drivetug/pkg/files/searchfs"
	"github.com/datatug/drivetug/pkg/hexedit"
	"github.com/datatug/drivetug/pkg/navigation"
)

// DefaultPollInterval is how long the session waits for input before it
// checks for media events again.
const DefaultPollInterval = 250 * time.Millisecond

// Storage is what the session needs from the drive registry.
type Storage interface {
	files.Store
	drives.EventSource
	DirInfo(ctx context.Context, p string) (drives.DirStats, error)
	Walk(ctx context.Context, p string, fn func(p string, info drives.Info) error) error
	Mount(ctx context.Context, imagePath string, m drives.Mounter) (string, error)
	Unmount() string
	MountedImage() (letter, source string)
}

var _ Storage = (*drives.Registry)(nil)

// Transformer encrypts or decrypts a file. An empty destDir writes the
// result over the source.
type Transformer interface {
	Transform(ctx context.Context, src, destDir string) error
}

var errExit = errors.New("exit requested")

type Session struct {
	store   Storage
	input   InputSource
	render  Renderer
	prompt  Prompter
	logger  *slog.Logger
	nav     *navigation.Controller
	batch   *batch.Orchestrator
	navOpts []navigation.Option
	hexOpts []hexedit.Option

	staging     string
	poll        time.Duration
	search      *searchfs.Drive
	mounter     drives.Mounter
	transformer Transformer

	elevated  bool
	status    string
	lastFind  string
	textLimit int
}

type Option func(s *Session)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithNavigation passes options to the navigation controller.
func WithNavigation(options ...navigation.Option) Option {
	return func(s *Session) {
		s.navOpts = append(s.navOpts, options...)
	}
}

// WithHexEditor passes options to every hex viewer the session opens.
func WithHexEditor(options ...hexedit.Option) Option {
	return func(s *Session) {
		s.hexOpts = append(s.hexOpts, options...)
	}
}

// WithStaging sets the output area.
func WithStaging(dir string) Option {
	return func(s *Session) {
		if dir != "" {
			s.staging = dir
		}
	}
}

func WithPollInterval(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.poll = d
		}
	}
}

// WithSearch enables searching into the given search drive.
func WithSearch(d *searchfs.Drive) Option {
	return func(s *Session) {
		s.search = d
	}
}

// WithMounter enables mounting image files.
func WithMounter(m drives.Mounter) Option {
	return func(s *Session) {
		s.mounter = m
	}
}

// WithTransformer enables the in-place and to-output transforms.
func WithTransformer(t Transformer) Option {
	return func(s *Session) {
		s.transformer = t
	}
}

// WithWriteElevated starts the session with internal drives unlocked.
func WithWriteElevated(elevated bool) Option {
	return func(s *Session) {
		s.elevated = elevated
	}
}

// WithTextLimit bounds how much of a file the text viewer loads.
func WithTextLimit(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.textLimit = n
		}
	}
}

// New lists the drive selection root. It fails with
// navigation.ErrInvalidRoot when no drive is attached.
func New(ctx context.Context, store Storage, input InputSource, render Renderer, prompt Prompter, options ...Option) (*Session, error) {
	s := &Session{
		store:     store,
		input:     input,
		render:    render,
		prompt:    prompt,
		logger:    slog.Default(),
		staging:   batch.DefaultStaging,
		poll:      DefaultPollInterval,
		textLimit: DefaultTextLimit,
	}
	for _, option := range options {
		option(s)
	}
	navOpts := append([]navigation.Option{navigation.WithLogger(s.logger)}, s.navOpts...)
	nav, err := navigation.New(ctx, store, navOpts...)
	if err != nil {
		return nil, err
	}
	s.nav = nav
	s.batch = batch.New(store, nav, prompt,
		batch.WithLogger(s.logger),
		batch.WithStaging(s.staging),
		batch.WithProgress(s.showProgress),
	)
	return s, nil
}

func (s *Session) Navigation() *navigation.Controller { return s.nav }

func (s *Session) Elevated() bool { return s.elevated }

// Run processes input until the operator exits, ctx is cancelled or the
// root listing becomes empty.
func (s *Session) Run(ctx context.Context) error {
	s.logger.Info("session started", "path", s.nav.Path())
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.pollMedia(ctx); err != nil {
			return err
		}
		s.draw()
		in, ok, err := s.input.Wait(ctx, s.poll)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if in.Lines > 0 {
			s.nav.SetLines(in.Lines)
		}
		if in.Buttons == ButtonNone {
			continue
		}
		s.status = ""
		err = s.handle(ctx, in.Buttons)
		if errors.Is(err, errExit) {
			s.logger.Info("session ended")
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (s *Session) pollMedia(ctx context.Context) error {
	for _, ev := range s.store.Poll() {
		s.logger.Info("media event", "drive", ev.Drive, "event", ev.Kind.String())
		if err := s.nav.HandleMediaEvent(ctx, ev); err != nil {
			return err
		}
		if ev.Kind == drives.MediaEjected {
			s.status = fmt.Sprintf("Drive %s: removed", ev.Drive)
		}
	}
	return nil
}

func (s *Session) frame() Frame {
	view := s.nav.Render(0)
	f := Frame{
		Mode:     FrameBrowser,
		TopBar:   view.Path,
		Elevated: s.elevated,
		Status:   s.status,
		Listing:  view,
		Drive:    s.store.ClassifyDrive(s.nav.Path()),
	}
	if cur := s.nav.Current(); cur != nil {
		e := *cur
		f.Current = &e
	}
	return f
}

func (s *Session) draw() {
	s.render.Render(s.frame())
}

func (s *Session) showProgress(p batch.OperationProgress) {
	f := s.frame()
	f.Progress = &p
	s.render.Render(f)
}

// handle dispatches one button event, mirroring the browser key map: R is
// the function modifier, L the mark modifier.
func (s *Session) handle(ctx context.Context, b Button) error {
	switched := b.Has(ButtonR)
	cur := s.nav.Current()
	if cur == nil {
		return s.nav.Reconcile(ctx)
	}
	entry := *cur
	onSearch := s.listingDrive().Has(files.DriveSearch)

	switch {
	case b.Has(ButtonA) && entry.Kind.IsContainer():
		switch {
		case switched && !onSearch:
			return s.directoryMenu(ctx, entry)
		case onSearch && entry.Kind == files.KindDirectory:
			return s.searchEntryMenu(ctx, entry)
		}
		_, err := s.nav.Enter(ctx, entry)
		return err
	case b.Has(ButtonA) && entry.Kind == files.KindFile:
		return s.fileMenu(ctx, entry)
	case !s.nav.AtRoot() && (b.Has(ButtonB) || (b.Has(ButtonA) && entry.Kind == files.KindParentLink)):
		if switched {
			return s.nav.LeaveToRoot(ctx)
		}
		return s.nav.Leave(ctx)
	case switched && b.Has(ButtonB):
		return s.nav.LeaveToRoot(ctx)
	case !switched && b.Has(ButtonDown):
		s.nav.MoveCursor(1, b.Has(ButtonL))
	case !switched && b.Has(ButtonUp):
		s.nav.MoveCursor(-1, b.Has(ButtonL))
	case switched && b.Any(ButtonLeft|ButtonRight):
		dir := 1
		if b.Has(ButtonLeft) {
			dir = -1
		}
		return s.nav.SwitchPane(ctx, dir)
	case switched && b.Has(ButtonDown):
		return s.nav.Reconcile(ctx)
	case b.Has(ButtonRight) && !b.Has(ButtonL):
		s.nav.QuickStep(1)
	case b.Has(ButtonLeft) && !b.Has(ButtonL):
		s.nav.QuickStep(-1)
	case b.Has(ButtonRight | ButtonL):
		s.nav.MarkAll()
	case b.Has(ButtonLeft | ButtonL):
		s.nav.UnmarkAll()
	case b.Has(ButtonL) && !switched:
		s.nav.ToggleMark()
	case b.Has(ButtonSelect):
		s.nav.ToggleClipboard()
	case b.Has(ButtonStart):
		return errExit
	case b.Has(ButtonHome):
		return s.homeMenu(ctx)
	case s.nav.AtRoot() && switched && b.Has(ButtonX):
		return s.unmount(ctx)
	case s.nav.AtRoot() && switched && b.Has(ButtonY):
		s.relock()
	case s.nav.AtRoot():
	case !switched && b.Has(ButtonX):
		return s.deleteSelection(ctx)
	case !switched && b.Has(ButtonY):
		if s.nav.Clipboard().IsEmpty() {
			n, err := s.nav.FillClipboard()
			if err != nil {
				s.prompt.Alert(fmt.Sprintf("Clipboard is full: %v", err))
			}
			s.status = fmt.Sprintf("%d paths in clipboard", n)
			return nil
		}
		return s.paste(ctx)
	case switched && b.Has(ButtonX):
		return s.rename(ctx, entry)
	case switched && b.Has(ButtonY):
		return s.createMenu(ctx)
	}
	return nil
}

// listingDrive is the class of the drive being listed.
func (s *Session) listingDrive() files.DriveClass {
	return s.store.ClassifyDrive(s.nav.Path())
}

func (s *Session) inStaging(p string) bool {
	return p == s.staging || drives.Within(p, s.staging)
}

// entryContext is the capability context of a listed entry.
func (s *Session) entryContext(ctx context.Context, e files.DirEntry) capability.Context {
	c := s.baseContext()
	c.Kind = e.Kind
	c.Drive = s.store.ClassifyDrive(e.Path)
	if s.listingDrive().Has(files.DriveSearch) {
		c.Drive |= files.DriveSearch
	}
	c.InStaging = s.inStaging(e.Path)
	if e.Kind == files.KindFile {
		c.Content = s.store.ClassifyContent(ctx, e.Path)
	}
	return c
}

// listingContext is the capability context of the listing itself.
func (s *Session) listingContext() capability.Context {
	c := s.baseContext()
	c.Kind = files.KindDirectory
	c.Drive = s.listingDrive()
	c.InStaging = s.inStaging(s.nav.Path())
	return c
}

func (s *Session) baseContext() capability.Context {
	clip := s.nav.Clipboard()
	c := capability.Context{
		WriteElevated: s.elevated,
		ClipboardSize: clip.Len(),
	}
	if entries := clip.Entries(); len(entries) == 1 && entries[0].IsFile() {
		c.ClipboardFile = true
	}
	return c
}

// allow reports whether op may run in c. When only write permission is
// missing the operator is offered to unlock it.
func (s *Session) allow(c capability.Context, op capability.Op) bool {
	reason := capability.Blocked(c, op)
	if reason == "" {
		return true
	}
	if !c.WriteElevated {
		c.WriteElevated = true
		if capability.Blocked(c, op) == "" {
			if s.prompt.Confirm("Writing to this drive needs write permission.\nUnlock write permission?") {
				s.elevated = true
				s.logger.Info("write permission unlocked")
				return true
			}
			return false
		}
	}
	s.prompt.Alert(fmt.Sprintf("%s:\n%s", op, reason))
	return false
}

func (s *Session) relock() {
	if !s.elevated {
		return
	}
	s.elevated = false
	s.status = "Write permissions relocked"
	s.logger.Info("write permission relocked")
}

func (s *Session) unmount(ctx context.Context) error {
	letter := s.store.Unmount()
	if letter == "" {
		return nil
	}
	s.status = fmt.Sprintf("Drive %s: unmounted", letter)
	return s.pollMedia(ctx)
}

func (s *Session) deleteSelection(ctx context.Context) error {
	if !s.allow(s.listingContext(), capability.Delete) {
		return nil
	}
	_, err := s.batch.Delete(ctx)
	return err
}

func (s *Session) rename(ctx context.Context, entry files.DirEntry) error {
	if entry.Kind == files.KindParentLink {
		return nil
	}
	if !s.allow(s.entryContext(ctx, entry), capability.Rename) {
		return nil
	}
	name, ok := s.prompt.Input(fmt.Sprintf("Rename %s?\nEnter new name below.", entry.Name), entry.Name)
	if !ok {
		return nil
	}
	if !drives.ValidName(name) {
		s.prompt.Alert(fmt.Sprintf("%q is not a valid name", name))
		return nil
	}
	_, err := s.batch.Rename(ctx, name)
	return err
}

func (s *Session) paste(ctx context.Context) error {
	if !s.allow(s.listingContext(), capability.Paste) {
		return nil
	}
	clip := s.nav.Clipboard().Entries()
	what := fmt.Sprintf("%d paths", len(clip))
	if len(clip) == 1 {
		what = clip[0].Name
	}
	title := fmt.Sprintf("Paste %s into\n%s?", what, s.nav.Path())
	move := false
	src := s.store.ClassifyDrive(clip[0].Path)
	if src.Has(files.DriveStandard) && s.listingDrive().Has(files.DriveStandard) {
		choice, ok := s.prompt.Select(title, []string{"Copy path(s)", "Move path(s)"})
		if !ok {
			return nil
		}
		move = choice == 1
	} else if !s.prompt.Confirm(title) {
		return nil
	}
	_, err := s.batch.Paste(ctx, s.nav.Path(), move)
	return err
}
