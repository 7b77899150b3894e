package drives

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/datatug/drivetug/pkg/files"
)

const defaultSearchChunk = 64 * 1024

var _ files.Store = (*Registry)(nil)
var _ EventSource = (*Registry)(nil)

type drive struct {
	letter  string
	backend Backend
	class   files.DriveClass
	source  string // image path for mounted drives
}

// DriveInfo describes one attached drive.
type DriveInfo struct {
	Letter  string
	Label   string
	Class   files.DriveClass
	Present bool
}

// Registry routes drive paths to the attached backends and implements the
// engine's storage contract on top of them.
type Registry struct {
	mu          sync.RWMutex
	drives      map[string]*drive
	order       []string
	present     map[string]bool
	events      *EventQueue
	logger      *slog.Logger
	searchChunk int
}

type Option func(r *Registry)

func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

func WithEventQueue(q *EventQueue) Option {
	return func(r *Registry) {
		r.events = q
	}
}

// WithSearchChunk sets the read size used by the generic byte search.
func WithSearchChunk(n int) Option {
	return func(r *Registry) {
		if n > 0 {
			r.searchChunk = n
		}
	}
}

func NewRegistry(options ...Option) *Registry {
	r := &Registry{
		drives:      make(map[string]*drive),
		present:     make(map[string]bool),
		events:      &EventQueue{},
		logger:      slog.Default(),
		searchChunk: defaultSearchChunk,
	}
	for _, o := range options {
		o(r)
	}
	return r
}

// Attach makes backend reachable under letter. The drive class is the
// backend's own class.
func (r *Registry) Attach(letter string, backend Backend) error {
	return r.attach(letter, backend, backend.Class(), "")
}

func (r *Registry) attach(letter string, backend Backend, class files.DriveClass, source string) error {
	letter = strings.ToUpper(letter)
	if letter == "" || strings.ContainsAny(letter, ":/") {
		return fmt.Errorf("attach %q: %w", letter, ErrInvalidName)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.drives[letter]; ok {
		return fmt.Errorf("attach %s: %w", letter, files.ErrExists)
	}
	r.drives[letter] = &drive{letter: letter, backend: backend, class: class, source: source}
	r.order = append(r.order, letter)
	r.present[letter] = isPresent(backend)
	return nil
}

// Detach removes a drive. It reports whether the letter was attached.
func (r *Registry) Detach(letter string) bool {
	letter = strings.ToUpper(letter)
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.drives[letter]; !ok {
		return false
	}
	delete(r.drives, letter)
	delete(r.present, letter)
	for i, l := range r.order {
		if l == letter {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

func (r *Registry) Drives() []DriveInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	infos := make([]DriveInfo, 0, len(r.order))
	for _, letter := range r.order {
		d := r.drives[letter]
		infos = append(infos, DriveInfo{
			Letter:  letter,
			Label:   d.backend.Label(),
			Class:   d.class,
			Present: isPresent(d.backend),
		})
	}
	return infos
}

// Backend returns the backend attached under letter.
func (r *Registry) Backend(letter string) (Backend, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.drives[strings.ToUpper(letter)]
	if !ok {
		return nil, false
	}
	return d.backend, true
}

func isPresent(b Backend) bool {
	if p, ok := b.(Presence); ok {
		return p.Present()
	}
	return true
}

func (r *Registry) lookup(letter string) *drive {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.drives[letter]
}

// resolve maps a drive path to its drive and backend-local path.
func (r *Registry) resolve(p string) (*drive, string, error) {
	letter, local := Split(p)
	if letter == "" {
		return nil, "", fmt.Errorf("%q: %w", p, ErrNoDrive)
	}
	d := r.lookup(letter)
	if d == nil {
		return nil, "", fmt.Errorf("%s: %w", letter, ErrNoDrive)
	}
	if !isPresent(d.backend) {
		return nil, "", fmt.Errorf("%s: media not present: %w", letter, ErrNoDrive)
	}
	return d, local, nil
}

func (r *Registry) Enumerate(ctx context.Context, p string) ([]files.DirEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p == "" {
		return r.rootListing(), nil
	}
	d, local, err := r.resolve(p)
	if err != nil {
		return nil, err
	}
	dir := Join(d.letter, local)
	entries := []files.DirEntry{files.NewParentLink(Parent(dir))}
	if l, ok := d.backend.(Lister); ok && local == "/" {
		listed, err := l.List(ctx)
		if err != nil {
			return nil, err
		}
		return append(entries, listed...), nil
	}
	infos, err := d.backend.ReadDir(ctx, local)
	if err != nil {
		return nil, fmt.Errorf("enumerate %s: %w", dir, err)
	}
	sortInfos(infos)
	for _, info := range infos {
		kind := files.KindFile
		if info.IsDir {
			kind = files.KindDirectory
		}
		entries = append(entries, files.NewDirEntry(info.Name, Child(dir, info.Name), info.Size, kind))
	}
	return entries, nil
}

func (r *Registry) rootListing() []files.DirEntry {
	infos := r.Drives()
	entries := make([]files.DirEntry, 0, len(infos))
	for _, info := range infos {
		if !info.Present {
			continue
		}
		name := "[" + info.Letter + ":] " + info.Label
		entries = append(entries, files.NewDirEntry(name, Root(info.Letter), 0, files.KindDriveRoot))
	}
	return entries
}

// sortInfos puts directories first, then orders by name.
func sortInfos(infos []Info) {
	sort.SliceStable(infos, func(i, j int) bool {
		if infos[i].IsDir != infos[j].IsDir {
			return infos[i].IsDir
		}
		return strings.ToLower(infos[i].Name) < strings.ToLower(infos[j].Name)
	})
}

func (r *Registry) ClassifyDrive(p string) files.DriveClass {
	letter, _ := Split(p)
	if letter == "" {
		return files.DriveNone
	}
	if d := r.lookup(letter); d != nil {
		return d.class
	}
	return files.DriveNone
}

func (r *Registry) ClassifyContent(ctx context.Context, p string) files.ContentClass {
	d, local, err := r.resolve(p)
	if err != nil || local == "/" {
		return files.ContentNone
	}
	if c, ok := d.backend.(Classifier); ok {
		return c.ClassifyContent(ctx, local)
	}
	info, err := d.backend.Stat(ctx, local)
	if err != nil || info.IsDir {
		return files.ContentNone
	}
	return ClassifyName(info.Name)
}

func (r *Registry) Size(ctx context.Context, p string) (int64, error) {
	d, local, err := r.resolve(p)
	if err != nil {
		return 0, err
	}
	info, err := d.backend.Stat(ctx, local)
	if err != nil {
		return 0, err
	}
	return info.Size, nil
}

func (r *Registry) Writable(p string) bool {
	d, _, err := r.resolve(p)
	return err == nil && writable(d)
}

func writable(d *drive) bool {
	return !d.class.Any(files.DriveReadOnly | files.DriveSearch)
}

func (r *Registry) ReadBytes(ctx context.Context, p string, offset int64, length int) ([]byte, error) {
	d, local, err := r.resolve(p)
	if err != nil {
		return nil, err
	}
	return d.backend.ReadAt(ctx, local, offset, length)
}

func (r *Registry) WriteBytes(ctx context.Context, p string, data []byte, offset int64, overwrite bool) error {
	d, local, err := r.resolve(p)
	if err != nil {
		return err
	}
	if !writable(d) {
		return fmt.Errorf("write %s: %w", p, files.ErrReadOnly)
	}
	return d.backend.WriteAt(ctx, local, data, offset, overwrite)
}

func (r *Registry) SearchBytes(ctx context.Context, p string, pattern []byte, from int64) (int64, error) {
	if len(pattern) == 0 {
		return 0, fmt.Errorf("empty pattern: %w", files.ErrNotFound)
	}
	d, local, err := r.resolve(p)
	if err != nil {
		return 0, err
	}
	if s, ok := d.backend.(Searcher); ok {
		return s.SearchBytes(ctx, local, pattern, from)
	}
	return searchChunked(ctx, d.backend, local, pattern, from, r.searchChunk)
}

// searchChunked scans with overlapping reads so matches that straddle a
// chunk boundary are found.
func searchChunked(ctx context.Context, b Backend, local string, pattern []byte, from int64, chunk int) (int64, error) {
	if chunk < len(pattern) {
		chunk = len(pattern) * 2
	}
	if from < 0 {
		from = 0
	}
	for pos := from; ; {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		buf, err := b.ReadAt(ctx, local, pos, chunk)
		if err != nil {
			return 0, err
		}
		if i := bytes.Index(buf, pattern); i >= 0 {
			return pos + int64(i), nil
		}
		if len(buf) < chunk {
			return 0, files.ErrNotFound
		}
		pos += int64(len(buf) - len(pattern) + 1)
	}
}

func (r *Registry) Delete(ctx context.Context, p string) error {
	d, local, err := r.resolve(p)
	if err != nil {
		return err
	}
	if !writable(d) {
		return fmt.Errorf("delete %s: %w", p, files.ErrReadOnly)
	}
	if local == "/" {
		return fmt.Errorf("delete drive root %s: %w", p, files.ErrNotSupported)
	}
	return d.backend.Remove(ctx, local)
}

func (r *Registry) Rename(ctx context.Context, p, newName string) error {
	if !ValidName(newName) {
		return fmt.Errorf("rename to %q: %w", newName, ErrInvalidName)
	}
	d, local, err := r.resolve(p)
	if err != nil {
		return err
	}
	if !writable(d) {
		return fmt.Errorf("rename %s: %w", p, files.ErrReadOnly)
	}
	if local == "/" {
		return fmt.Errorf("rename drive root %s: %w", p, files.ErrNotSupported)
	}
	target := path.Join(path.Dir(local), newName)
	if target == local {
		return nil
	}
	// a case-only rename targets the same object
	if !strings.EqualFold(target, local) {
		if exists, err := r.exists(ctx, d, target); err != nil {
			return err
		} else if exists {
			return fmt.Errorf("rename %s: %w", Join(d.letter, target), files.ErrExists)
		}
	}
	return d.backend.Rename(ctx, local, target)
}

func (r *Registry) CreateDir(ctx context.Context, dir, name string) error {
	d, target, err := r.prepareCreate(ctx, dir, name)
	if err != nil {
		return err
	}
	return d.backend.Mkdir(ctx, target)
}

// CreateFile creates a zero-filled file of the given size.
func (r *Registry) CreateFile(ctx context.Context, dir, name string, size int64) error {
	d, target, err := r.prepareCreate(ctx, dir, name)
	if err != nil {
		return err
	}
	w, err := d.backend.Create(ctx, target)
	if err != nil {
		return err
	}
	zeros := make([]byte, min(size, int64(r.searchChunk)))
	for left := size; left > 0; {
		if err = ctx.Err(); err != nil {
			break
		}
		n := min(left, int64(len(zeros)))
		if _, err = w.Write(zeros[:n]); err != nil {
			break
		}
		left -= n
	}
	if cerr := w.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		r.logger.Warn("create failed", "path", Join(d.letter, target), "err", err)
		_ = d.backend.Remove(context.WithoutCancel(ctx), target)
	}
	return err
}

func (r *Registry) prepareCreate(ctx context.Context, dir, name string) (*drive, string, error) {
	if !ValidName(name) {
		return nil, "", fmt.Errorf("create %q: %w", name, ErrInvalidName)
	}
	d, local, err := r.resolve(dir)
	if err != nil {
		return nil, "", err
	}
	if !writable(d) {
		return nil, "", fmt.Errorf("create in %s: %w", dir, files.ErrReadOnly)
	}
	target := path.Join(local, name)
	exists, err := r.exists(ctx, d, target)
	if err != nil {
		return nil, "", err
	}
	if exists {
		return nil, "", fmt.Errorf("create %s: %w", Join(d.letter, target), files.ErrExists)
	}
	return d, target, nil
}

func (r *Registry) exists(ctx context.Context, d *drive, local string) (bool, error) {
	_, err := d.backend.Stat(ctx, local)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, files.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}
