package batch

import (
	"context"
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/datatug/drivetug/pkg/files"
	"github.com/datatug/drivetug/pkg/files/drives"
)

// InjectChunk is the size of one read-write round trip of Inject.
const InjectChunk = 64 << 10

var ErrNoSource = errors.New("clipboard holds no file")

// Delete removes the selection after confirmation. Failures are reported
// once as a count.
func (o *Orchestrator) Delete(ctx context.Context) (Result, error) {
	items := o.listing.Selection()
	if len(items) == 0 {
		return Result{}, nil
	}
	question := fmt.Sprintf("Delete %s?", drives.Base(items[0].Path))
	if len(items) > 1 {
		question = fmt.Sprintf("Delete %d paths?", len(items))
	}
	if !o.operator.Confirm(question) {
		return Result{}, nil
	}
	var res Result
	var err error
	progress := OperationProgress{Type: DeleteOperation, Total: len(items)}
	for _, item := range items {
		if err = ctx.Err(); err != nil {
			res.Aborted = true
			break
		}
		progress.Current = item.Path
		o.report(progress)
		o.settleItem(DeleteOperation, item, o.store.Delete(ctx, item.Path), &res, &progress, o.unmark)
	}
	if res.Failed > 0 {
		o.operator.Alert(fmt.Sprintf("Failed deleting %d/%d paths", res.Failed, len(items)))
	}
	return res, o.finish(ctx, DeleteOperation, res, err)
}

// Rename gives the entry under the cursor a new name and selects it.
func (o *Orchestrator) Rename(ctx context.Context, newName string) (Result, error) {
	entry := o.listing.Current()
	if entry == nil || entry.Kind == files.KindParentLink || entry.Kind == files.KindDriveRoot {
		return Result{}, nil
	}
	item := *entry
	if newName == drives.Base(item.Path) {
		return Result{}, nil
	}
	var res Result
	progress := OperationProgress{Type: RenameOperation, Total: 1, Current: item.Path}
	o.report(progress)
	err := o.store.Rename(ctx, item.Path, newName)
	if o.settleItem(RenameOperation, item, err, &res, &progress, nil) == outcomeFailed {
		o.operator.Alert(fmt.Sprintf("%s\nfailed renaming: %v", drives.Base(item.Path), err))
		return res, o.finish(ctx, RenameOperation, res, nil)
	}
	return res, o.finishSelect(ctx, RenameOperation, res, drives.Child(drives.Parent(item.Path), newName))
}

// CreateDir creates a folder in the current directory and selects it.
func (o *Orchestrator) CreateDir(ctx context.Context, name string) (Result, error) {
	return o.create(ctx, CreateDirOperation, name, func(dir string) error {
		return o.store.CreateDir(ctx, dir, name)
	})
}

// CreateDummy creates a zero-filled file of size bytes in the current
// directory and selects it.
func (o *Orchestrator) CreateDummy(ctx context.Context, name string, size int64) (Result, error) {
	return o.create(ctx, CreateOperation, name, func(dir string) error {
		return o.store.CreateFile(ctx, dir, name, size)
	})
}

func (o *Orchestrator) create(ctx context.Context, op OperationType, name string, apply func(dir string) error) (Result, error) {
	dir := o.listing.Path()
	if dir == "" {
		return Result{}, nil
	}
	target := drives.Child(dir, name)
	var res Result
	progress := OperationProgress{Type: op, Total: 1, Current: target}
	o.report(progress)
	err := apply(dir)
	if o.settleItem(op, files.DirEntry{Path: target}, err, &res, &progress, nil) == outcomeFailed {
		o.operator.Alert(fmt.Sprintf("%s\nfailed creating: %v", name, err))
		return res, o.finish(ctx, op, res, nil)
	}
	return res, o.finishSelect(ctx, op, res, target)
}

func (o *Orchestrator) finishSelect(ctx context.Context, op OperationType, res Result, path string) error {
	if err := o.finish(ctx, op, res, nil); err != nil {
		return err
	}
	o.listing.Select(path)
	return nil
}

// Inject writes the data of the first clipboard file into target starting
// at offset, after confirmation.
func (o *Orchestrator) Inject(ctx context.Context, target string, offset int64) (Result, error) {
	src, err := o.injectSource()
	if err != nil {
		o.operator.Alert(err.Error())
		return Result{}, nil
	}
	size, err := o.store.Size(ctx, src.Path)
	if err == nil && offset < 0 {
		err = fmt.Errorf("offset %d: %w", offset, files.ErrNotSupported)
	}
	if err != nil {
		o.operator.Alert(fmt.Sprintf("%s\ncannot be injected: %v", drives.Base(src.Path), err))
		return Result{}, nil
	}
	question := fmt.Sprintf("Inject %s (%s)\ninto %s at %08X?",
		drives.Base(src.Path), humanize.IBytes(uint64(size)), drives.Base(target), offset)
	if !o.operator.Confirm(question) {
		return Result{}, nil
	}
	var res Result
	progress := OperationProgress{Type: InjectOperation, Total: 1, Current: target}
	o.report(progress)
	err = o.inject(ctx, src.Path, target, offset, size)
	if o.settleItem(InjectOperation, files.DirEntry{Path: target}, err, &res, &progress, nil) == outcomeFailed {
		o.operator.Alert(fmt.Sprintf("%s\nfailed injecting: %v", drives.Base(target), err))
	}
	return res, o.finish(ctx, InjectOperation, res, nil)
}

func (o *Orchestrator) injectSource() (files.DirEntry, error) {
	clip := o.listing.Clipboard()
	if clip.IsEmpty() {
		return files.DirEntry{}, ErrNoSource
	}
	src := clip.Entries()[0]
	if !src.IsFile() {
		return files.DirEntry{}, ErrNoSource
	}
	return src, nil
}

func (o *Orchestrator) inject(ctx context.Context, src, target string, offset, size int64) error {
	for pos := int64(0); pos < size; {
		if err := ctx.Err(); err != nil {
			return err
		}
		chunk, err := o.store.ReadBytes(ctx, src, pos, int(min(InjectChunk, size-pos)))
		if err != nil {
			return err
		}
		if len(chunk) == 0 {
			return fmt.Errorf("read %s at %d: %w", src, pos, files.ErrNotFound)
		}
		if err = o.store.WriteBytes(ctx, target, chunk, offset+pos, false); err != nil {
			return err
		}
		pos += int64(len(chunk))
	}
	return nil
}
