// Package httpfile exposes a web server directory index as a read-only drive.
package httpfile

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/datatug/drivetug/pkg/files"
	"github.com/datatug/drivetug/pkg/files/drives"
	"github.com/datatug/drivetug/pkg/metrics"
)

type StoreOption func(*HttpStore)

func NewStore(root url.URL, o ...StoreOption) *HttpStore {
	root.Path = strings.TrimSuffix(root.Path, "/")
	store := &HttpStore{
		Root:   root,
		client: http.DefaultClient,
	}
	for _, opt := range o {
		opt(store)
	}
	return store
}

func WithHttpClient(client *http.Client) StoreOption {
	return func(store *HttpStore) {
		store.client = client
	}
}

var _ drives.Backend = (*HttpStore)(nil)

type HttpStore struct {
	Root   url.URL
	client *http.Client
}

var hrefPattern = regexp.MustCompile(`<a href="([^"]+)">`)

func (h *HttpStore) Label() string {
	root := h.Root
	root.User = nil
	return root.String()
}

func (h *HttpStore) Class() files.DriveClass { return files.DriveRemote | files.DriveReadOnly }

func (h *HttpStore) url(p string, dir bool) string {
	u := h.Root
	u.Path += path.Clean("/" + p)
	if dir && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

func (h *HttpStore) do(ctx context.Context, op, method, target string, header http.Header) (_ *http.Response, err error) {
	start := time.Now()
	defer func() {
		metrics.RecordBackendOperation("http", op, time.Since(start), err == nil)
	}()
	req, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for k, v := range header {
		req.Header[k] = v
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", target, err)
	}
	switch resp.StatusCode {
	case http.StatusOK, http.StatusPartialContent:
		return resp, nil
	case http.StatusNotFound:
		_ = resp.Body.Close()
		return nil, fmt.Errorf("%s: %w", target, files.ErrNotFound)
	default:
		_ = resp.Body.Close()
		return nil, fmt.Errorf("%s: unexpected status code: %d", target, resp.StatusCode)
	}
}

// ReadDir reads the links of an autoindex page. Sizes are not part of the
// index; Stat asks the server for them.
func (h *HttpStore) ReadDir(ctx context.Context, p string) ([]drives.Info, error) {
	resp, err := h.do(ctx, "list", http.MethodGet, h.url(p, true), nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var infos []drives.Info
	seen := make(map[string]bool)
	for _, match := range hrefPattern.FindAllStringSubmatch(string(body), -1) {
		href := match[1]
		// parent, absolute, sorting and external links
		if href == "../" || strings.HasPrefix(href, "/") || strings.HasPrefix(href, "?") || strings.Contains(href, "://") {
			continue
		}
		isDir := strings.HasSuffix(href, "/")
		name, err := url.PathUnescape(strings.TrimSuffix(href, "/"))
		if err != nil || name == "" || strings.Contains(name, "/") || seen[name] {
			continue
		}
		seen[name] = true
		infos = append(infos, drives.Info{Name: name, IsDir: isDir})
	}
	return infos, nil
}

func (h *HttpStore) Stat(ctx context.Context, p string) (drives.Info, error) {
	p = path.Clean("/" + p)
	if p == "/" {
		return drives.Info{Name: h.Label(), IsDir: true}, nil
	}
	infos, err := h.ReadDir(ctx, path.Dir(p))
	if err != nil {
		return drives.Info{}, err
	}
	name := path.Base(p)
	for _, info := range infos {
		if info.Name != name {
			continue
		}
		if !info.IsDir {
			resp, err := h.do(ctx, "head", http.MethodHead, h.url(p, false), nil)
			if err != nil {
				return drives.Info{}, err
			}
			_ = resp.Body.Close()
			info.Size = max(resp.ContentLength, 0)
		}
		return info, nil
	}
	return drives.Info{}, fmt.Errorf("stat %s: %w", p, files.ErrNotFound)
}

// ReadAt asks for a byte range. Servers ignoring ranges send the whole file,
// which is then skipped to off.
func (h *HttpStore) ReadAt(ctx context.Context, p string, off int64, n int) ([]byte, error) {
	if n <= 0 || off < 0 {
		return nil, nil
	}
	header := http.Header{"Range": {fmt.Sprintf("bytes=%d-%d", off, off+int64(n)-1)}}
	resp, err := h.do(ctx, "get", http.MethodGet, h.url(p, false), header)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode == http.StatusOK {
		if _, err = io.CopyN(io.Discard, resp.Body, off); err != nil {
			return nil, nil
		}
	}
	return io.ReadAll(io.LimitReader(resp.Body, int64(n)))
}

func (h *HttpStore) Open(ctx context.Context, p string) (io.ReadCloser, error) {
	resp, err := h.do(ctx, "get", http.MethodGet, h.url(p, false), nil)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

func (h *HttpStore) WriteAt(context.Context, string, []byte, int64, bool) error {
	return files.ErrReadOnly
}

func (h *HttpStore) Create(context.Context, string) (io.WriteCloser, error) {
	return nil, files.ErrReadOnly
}

func (h *HttpStore) Mkdir(context.Context, string) error { return files.ErrReadOnly }

func (h *HttpStore) Remove(context.Context, string) error { return files.ErrReadOnly }

func (h *HttpStore) Rename(context.Context, string, string) error { return files.ErrReadOnly }
