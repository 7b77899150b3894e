// Package batch applies copy, move, delete and the other multi-entry
// operations to the marked entries of a listing.
package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/datatug/drivetug/pkg/files"
	"github.com/datatug/drivetug/pkg/files/drives"
	"github.com/datatug/drivetug/pkg/metrics"
)

// DefaultStaging is the output area CopyToStaging writes to.
const DefaultStaging = "0:/gm9/out"

var errAborted = errors.New("aborted by operator")

// Operator is the blocking prompt collaborator.
type Operator interface {
	// Alert shows msg and waits for acknowledgement.
	Alert(msg string)
	// Confirm asks a yes/no question.
	Confirm(msg string) bool
	// ResolveConflict decides what happens to an existing destination.
	// ConflictAbort and ConflictAsk both end the batch.
	ResolveConflict(target string) files.ConflictPolicy
}

// Listing is the navigation state a batch works on.
type Listing interface {
	Path() string
	Current() *files.DirEntry
	Selection() []files.DirEntry
	Listing() *files.DirStruct
	Clipboard() *files.Clipboard
	Reconcile(ctx context.Context) error
	Select(path string) bool
}

type Orchestrator struct {
	store    files.Store
	listing  Listing
	operator Operator
	logger   *slog.Logger
	progress ProgressReporter
	staging  string
}

type Option func(o *Orchestrator)

func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// WithProgress sets the reporter called before each item.
func WithProgress(progress ProgressReporter) Option {
	return func(o *Orchestrator) {
		o.progress = progress
	}
}

// WithStaging sets the output area used by CopyToStaging.
func WithStaging(dir string) Option {
	return func(o *Orchestrator) {
		if dir != "" {
			o.staging = dir
		}
	}
}

func New(store files.Store, listing Listing, operator Operator, options ...Option) *Orchestrator {
	o := &Orchestrator{
		store:    store,
		listing:  listing,
		operator: operator,
		logger:   slog.Default(),
		staging:  DefaultStaging,
	}
	for _, opt := range options {
		opt(o)
	}
	return o
}

func (o *Orchestrator) Staging() string { return o.staging }

func (o *Orchestrator) report(p OperationProgress) {
	if o.progress != nil {
		o.progress(p)
	}
}

type transferFunc = func(ctx context.Context, destDir, src string, policy files.ConflictPolicy) error

// Copy copies the selection into destDir.
func (o *Orchestrator) Copy(ctx context.Context, destDir string) (Result, error) {
	return o.transferSelection(ctx, CopyOperation, destDir, o.store.Copy)
}

// Move moves the selection into destDir.
func (o *Orchestrator) Move(ctx context.Context, destDir string) (Result, error) {
	return o.transferSelection(ctx, MoveOperation, destDir, o.store.Move)
}

func (o *Orchestrator) transferSelection(ctx context.Context, op OperationType, destDir string, apply transferFunc) (Result, error) {
	items := o.listing.Selection()
	if len(items) == 0 {
		return Result{}, nil
	}
	res, err := o.transfer(ctx, op, items, destDir, apply, o.unmark)
	return res, o.finish(ctx, op, res, err)
}

// Paste copies or moves the clipboard contents into destDir. The clipboard
// is emptied, or after an abort keeps only the entries not yet resolved.
func (o *Orchestrator) Paste(ctx context.Context, destDir string, move bool) (Result, error) {
	clip := o.listing.Clipboard()
	if clip.IsEmpty() {
		return Result{}, nil
	}
	if !o.store.Writable(destDir) {
		o.operator.Alert(fmt.Sprintf("%s\nis write protected", destDir))
		return Result{Aborted: true}, nil
	}
	apply := o.store.Copy
	if move {
		apply = o.store.Move
	}
	resolved := make(map[string]bool)
	res, err := o.transfer(ctx, PasteOperation, clip.Entries(), destDir, apply, func(e files.DirEntry) {
		resolved[e.Path] = true
	})
	if res.Aborted {
		clip.Retain(func(e files.DirEntry) bool { return !resolved[e.Path] })
	} else {
		clip.Clear()
	}
	return res, o.finish(ctx, PasteOperation, res, err)
}

// CopyToStaging copies the selection into the output area. The first
// failure stops the batch.
func (o *Orchestrator) CopyToStaging(ctx context.Context) (Result, error) {
	items := o.listing.Selection()
	if len(items) == 0 {
		return Result{}, nil
	}
	if err := o.ensureStaging(ctx); err != nil {
		o.operator.Alert(fmt.Sprintf("%s\ncannot be created: %v", o.staging, err))
		return Result{Aborted: true}, nil
	}
	var res Result
	progress := OperationProgress{Type: StagingOperation, Total: len(items)}
	policy := files.ConflictAsk
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			res.Aborted = true
			return res, o.finish(ctx, StagingOperation, res, err)
		}
		progress.Current = item.Path
		o.report(progress)
		var err error
		policy, err = o.transferItem(ctx, o.store.Copy, o.staging, item.Path, policy)
		if errors.Is(err, errAborted) {
			res.Aborted = true
			break
		}
		if o.settleItem(StagingOperation, item, err, &res, &progress, o.unmark) == outcomeFailed {
			o.operator.Alert(fmt.Sprintf("%s\nfailed copying to %s: %v", drives.Base(item.Path), o.staging, err))
			res.Aborted = len(items) > res.Total()
			break
		}
	}
	return res, o.finish(ctx, StagingOperation, res, nil)
}

func (o *Orchestrator) ensureStaging(ctx context.Context) error {
	if _, err := o.store.Enumerate(ctx, o.staging); err == nil {
		return nil
	}
	return o.store.CreateDir(ctx, drives.Parent(o.staging), drives.Base(o.staging))
}

// transfer runs apply over items in order. A failure offers to continue
// unless it was the last item. resolved is called for every item that did
// not fail.
func (o *Orchestrator) transfer(ctx context.Context, op OperationType, items []files.DirEntry, destDir string, apply transferFunc, resolved func(files.DirEntry)) (Result, error) {
	var res Result
	progress := OperationProgress{Type: op, Total: len(items)}
	policy := files.ConflictAsk
	for i, item := range items {
		if err := ctx.Err(); err != nil {
			res.Aborted = true
			return res, err
		}
		progress.Current = item.Path
		o.report(progress)
		var err error
		policy, err = o.transferItem(ctx, apply, destDir, item.Path, policy)
		if errors.Is(err, errAborted) {
			res.Aborted = true
			return res, nil
		}
		if o.settleItem(op, item, err, &res, &progress, resolved) != outcomeFailed {
			continue
		}
		msg := fmt.Sprintf("%s\nfailed: %v", drives.Base(item.Path), err)
		if len(items) == 1 || i == len(items)-1 {
			o.operator.Alert(msg)
			continue
		}
		if !o.operator.Confirm(msg + "\n\nContinue?") {
			res.Aborted = true
			return res, nil
		}
	}
	return res, nil
}

// transferItem applies one item. An existing destination under ConflictAsk
// is put to the operator and the item retried with the decision. Sticky
// decisions are returned as the policy for the following items.
func (o *Orchestrator) transferItem(ctx context.Context, apply transferFunc, destDir, src string, policy files.ConflictPolicy) (files.ConflictPolicy, error) {
	err := apply(ctx, destDir, src, policy)
	if policy != files.ConflictAsk || !errors.Is(err, files.ErrExists) {
		return policy, err
	}
	decision := o.operator.ResolveConflict(drives.Child(destDir, drives.Base(src)))
	if decision == files.ConflictAbort || decision == files.ConflictAsk {
		return policy, errAborted
	}
	if decision.Sticky() {
		policy = decision
	}
	return policy, apply(ctx, destDir, src, decision)
}

func (o *Orchestrator) unmark(e files.DirEntry) {
	o.listing.Listing().Unmark(e.Path)
}

func (o *Orchestrator) settleItem(op OperationType, item files.DirEntry, err error, res *Result, progress *OperationProgress, resolved func(files.DirEntry)) string {
	outcome := outcomeSucceeded
	switch {
	case errors.Is(err, files.ErrSkipped):
		outcome = outcomeSkipped
	case err != nil:
		outcome = outcomeFailed
		o.logger.Warn("batch item failed", "operation", string(op), "path", item.Path, "err", err)
	}
	res.track(progress, outcome)
	metrics.RecordBatchItem(string(op), outcome)
	if resolved != nil && outcome != outcomeFailed {
		resolved(item)
	}
	return outcome
}

// finish reconciles the listing after a batch, also when ctx was cancelled
// mid-batch. A fatal reconcile error wins over the batch error.
func (o *Orchestrator) finish(ctx context.Context, op OperationType, res Result, err error) error {
	if res.Aborted {
		metrics.RecordBatchAborted(string(op))
	}
	o.logger.Info("batch finished", "operation", string(op),
		"succeeded", res.Succeeded, "failed", res.Failed, "skipped", res.Skipped, "aborted", res.Aborted)
	if rerr := o.listing.Reconcile(context.WithoutCancel(ctx)); rerr != nil {
		return rerr
	}
	return err
}
