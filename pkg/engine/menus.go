package engine

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/datatug/drivetug/pkg/capability"
	"github.com/datatug/drivetug/pkg/files"
	"github.com/datatug/drivetug/pkg/files/drives"
	"github.com/datatug/drivetug/pkg/files/searchfs"
	"github.com/datatug/drivetug/pkg/fsutils"
)

// dirMenuOps are the operations R+A offers on a directory or drive.
var dirMenuOps = capability.OpSet(0).With(capability.Search).With(capability.DirInfo).With(capability.CopyToStaging)

// offered resolves the operations of c. Writes that only lack write
// permission are offered too; picking one asks to unlock.
func (s *Session) offered(c capability.Context) capability.OpSet {
	set := capability.Resolve(c)
	if !c.WriteElevated {
		c.WriteElevated = true
		set |= capability.Resolve(c)
	}
	return set
}

func (s *Session) supports(op capability.Op) bool {
	switch op {
	case capability.Search:
		return s.search != nil
	case capability.Mount:
		return s.mounter != nil
	case capability.TransformInPlace, capability.TransformToStaging:
		return s.transformer != nil
	}
	return true
}

func (s *Session) menu(title string, set capability.OpSet) (capability.Op, bool) {
	var ops []capability.Op
	var titles []string
	for _, op := range capability.MenuOrder {
		if set.Has(op) && s.supports(op) {
			ops = append(ops, op)
			titles = append(titles, op.String())
		}
	}
	if len(ops) == 0 {
		s.prompt.Alert(title + "\n\nNo operations available")
		return 0, false
	}
	i, ok := s.prompt.Select(title, titles)
	if !ok || i < 0 || i >= len(ops) {
		return 0, false
	}
	return ops[i], true
}

func (s *Session) fileMenu(ctx context.Context, e files.DirEntry) error {
	c := s.entryContext(ctx, e)
	title := fmt.Sprintf("%s\n(%s)", e.Name, fsutils.SizeText(e.Size))
	if n := s.nav.Listing().MarkedCount(); n > 1 {
		title = fmt.Sprintf("%s\n(%d files selected)", e.Name, n)
	}
	op, ok := s.menu(title, s.offered(c))
	if !ok {
		return nil
	}
	return s.dispatch(ctx, e, c, op)
}

func (s *Session) directoryMenu(ctx context.Context, e files.DirEntry) error {
	c := s.entryContext(ctx, e)
	op, ok := s.menu(e.Name, s.offered(c)&dirMenuOps)
	if !ok {
		return nil
	}
	return s.dispatch(ctx, e, c, op)
}

// searchEntryMenu is shown when a directory found by a search is picked.
func (s *Session) searchEntryMenu(ctx context.Context, e files.DirEntry) error {
	choice, ok := s.prompt.Select(e.Path, []string{"Open this folder", "Open containing folder"})
	if !ok {
		return nil
	}
	if choice == 0 {
		_, err := s.nav.Enter(ctx, e)
		return err
	}
	if err := s.nav.EnterContaining(ctx, e.Path); err != nil {
		return err
	}
	s.nav.Select(e.Path)
	return nil
}

func (s *Session) dispatch(ctx context.Context, e files.DirEntry, c capability.Context, op capability.Op) error {
	if !s.allow(c, op) {
		return nil
	}
	var err error
	switch op {
	case capability.OpenContaining:
		return s.nav.OpenContaining(ctx, e.Path)
	case capability.HexView:
		return s.runHex(ctx, e.Path)
	case capability.TextView:
		return s.runText(ctx, e.Path)
	case capability.Info:
		s.showInfo(e, c)
	case capability.DirInfo:
		s.showDirInfo(ctx, e)
	case capability.Search:
		return s.searchIn(ctx, e)
	case capability.CopyToStaging:
		_, err = s.batch.CopyToStaging(ctx)
	case capability.Mount:
		return s.mount(ctx, e)
	case capability.TransformInPlace:
		return s.transform(ctx, e, "")
	case capability.TransformToStaging:
		return s.transform(ctx, e, s.staging)
	case capability.Inject:
		return s.inject(ctx, e)
	case capability.Paste:
		return s.paste(ctx)
	case capability.Rename:
		return s.rename(ctx, e)
	case capability.Delete:
		_, err = s.batch.Delete(ctx)
	}
	return err
}

func (s *Session) showInfo(e files.DirEntry, c capability.Context) {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", e.Path)
	if e.IsFile() {
		fmt.Fprintf(&b, "Size: %s (%s bytes)\n", fsutils.SizeText(e.Size), humanize.Comma(e.Size))
		fmt.Fprintf(&b, "Type: %s\n", c.Content)
	} else {
		fmt.Fprintf(&b, "Kind: %s\n", e.Kind)
	}
	fmt.Fprintf(&b, "Drive: %s", c.Drive)
	s.prompt.Alert(b.String())
}

func (s *Session) showDirInfo(ctx context.Context, e files.DirEntry) {
	stats, err := s.store.DirInfo(ctx, e.Path)
	if err != nil {
		s.prompt.Alert(fmt.Sprintf("%s\n\nAnalyzing failed: %v", e.Path, err))
		return
	}
	msg := fmt.Sprintf("%s\n\n%s files & %s subdirs\n%s total",
		e.Path, humanize.Comma(int64(stats.Files)), humanize.Comma(int64(stats.Dirs)), fsutils.SizeText(stats.Bytes))
	if stats.Total > 0 {
		msg += fmt.Sprintf("\n\n%s free of %s", humanize.IBytes(stats.Free), humanize.IBytes(stats.Total))
	}
	s.prompt.Alert(msg)
}

func (s *Session) searchIn(ctx context.Context, e files.DirEntry) error {
	root, last := s.search.Query()
	if root != e.Path || last == "" {
		last = "*"
	}
	pattern, ok := s.prompt.Input(fmt.Sprintf("Search %s?\nEnter search below.", e.Path), last)
	if !ok || pattern == "" {
		return nil
	}
	n, truncated, err := s.search.Search(ctx, s.store, e.Path, pattern)
	switch {
	case errors.Is(err, searchfs.ErrBadPattern):
		s.prompt.Alert(fmt.Sprintf("%q is not a valid search pattern", pattern))
		return nil
	case err != nil:
		s.prompt.Alert(fmt.Sprintf("Search failed: %v", err))
		return nil
	case n == 0:
		s.prompt.Alert("No results found")
		return nil
	}
	root = drives.Root(searchfs.Letter)
	if _, err = s.nav.Enter(ctx, files.NewDirEntry(root, root, 0, files.KindDriveRoot)); err != nil {
		return err
	}
	msg := fmt.Sprintf("Found %d results", n)
	if truncated {
		msg += "\n(result limit reached)"
	}
	s.prompt.Alert(msg)
	return nil
}

func (s *Session) mount(ctx context.Context, e files.DirEntry) error {
	letter, err := s.store.Mount(ctx, e.Path, s.mounter)
	if err != nil {
		s.prompt.Alert(fmt.Sprintf("%s\n\nMounting image failed: %v", e.Name, err))
		return nil
	}
	if err = s.pollMedia(ctx); err != nil {
		return err
	}
	if !s.prompt.Confirm(fmt.Sprintf("Mounted as drive %s:\nEnter path now?", letter)) {
		return nil
	}
	if err = s.nav.SwitchPane(ctx, 1); err != nil {
		return err
	}
	root := drives.Root(letter)
	_, err = s.nav.Enter(ctx, files.NewDirEntry(root, root, 0, files.KindDriveRoot))
	return err
}

func (s *Session) transform(ctx context.Context, e files.DirEntry, destDir string) error {
	where := "in place"
	if destDir != "" {
		where = "to " + destDir
	}
	if !s.prompt.Confirm(fmt.Sprintf("%s\n\nTransform %s?", e.Name, where)) {
		return nil
	}
	if err := s.transformer.Transform(ctx, e.Path, destDir); err != nil {
		s.logger.Warn("transform failed", "path", e.Path, "dest", destDir, "err", err)
		s.prompt.Alert(fmt.Sprintf("%s\n\nTransform failed: %v", e.Name, err))
	} else {
		s.status = fmt.Sprintf("%s transformed", e.Name)
	}
	return s.nav.Reconcile(ctx)
}

func (s *Session) inject(ctx context.Context, e files.DirEntry) error {
	src := s.nav.Clipboard().Entries()[0]
	text, ok := s.prompt.Input(fmt.Sprintf("Inject data from %s?\nSpecify offset below.", src.Name), "00000000")
	if !ok {
		return nil
	}
	offset, err := strconv.ParseInt(strings.TrimPrefix(strings.ToLower(text), "0x"), 16, 64)
	if err != nil || offset < 0 {
		s.prompt.Alert(fmt.Sprintf("%q is not a valid offset", text))
		return nil
	}
	_, err = s.batch.Inject(ctx, e.Path, offset)
	return err
}

func (s *Session) createMenu(ctx context.Context) error {
	if !s.allow(s.listingContext(), capability.Create) {
		return nil
	}
	choice, ok := s.prompt.Select(fmt.Sprintf("%s\n\nCreate a new entry here?", s.nav.Path()), []string{"Create a folder", "Create a dummy file"})
	if !ok {
		return nil
	}
	initial := "newdir"
	if choice == 1 {
		initial = "dummy.bin"
	}
	name, ok := s.prompt.Input("Enter name below.", initial)
	if !ok {
		return nil
	}
	if !drives.ValidName(name) {
		s.prompt.Alert(fmt.Sprintf("%q is not a valid name", name))
		return nil
	}
	if choice == 0 {
		_, err := s.batch.CreateDir(ctx, name)
		return err
	}
	text, ok := s.prompt.Input(fmt.Sprintf("Create a new %s here?\nEnter file size below.", name), "0")
	if !ok {
		return nil
	}
	size, err := fsutils.ParseSize(text)
	if err != nil || size < 0 {
		s.prompt.Alert(fmt.Sprintf("%q is not a valid size", text))
		return nil
	}
	_, err = s.batch.CreateDummy(ctx, name, size)
	return err
}

func (s *Session) homeMenu(ctx context.Context) error {
	lock := "Unlock write permission"
	if s.elevated {
		lock = "Relock write permission"
	}
	options := []string{"Exit", lock}
	if letter, _ := s.store.MountedImage(); letter != "" {
		options = append(options, fmt.Sprintf("Unmount drive %s:", letter))
	}
	choice, ok := s.prompt.Select("HOME menu.\nSelect action:", options)
	if !ok {
		return nil
	}
	switch choice {
	case 0:
		return errExit
	case 1:
		if s.elevated {
			s.relock()
		} else if s.prompt.Confirm("Unlock write permission for internal drives?") {
			s.elevated = true
			s.logger.Info("write permission unlocked")
		}
	case 2:
		return s.unmount(ctx)
	}
	return nil
}
