package engine

import (
	"bytes"
	"context"
	"fmt"
	"strings"
)

// DefaultTextLimit is how much of a file the text viewer reads.
const DefaultTextLimit = 256 << 10

const textPage = 20

type TextSource interface {
	Size(ctx context.Context, path string) (int64, error)
	ReadBytes(ctx context.Context, path string, offset int64, length int) ([]byte, error)
}

// LoadText reads up to limit bytes of path and splits them into lines.
func LoadText(ctx context.Context, store TextSource, path string, limit int) (TextView, error) {
	size, err := store.Size(ctx, path)
	if err != nil {
		return TextView{}, err
	}
	n := int(min(size, int64(limit)))
	if n <= 0 {
		return TextView{Path: path}, nil
	}
	data, err := store.ReadBytes(ctx, path, 0, n)
	if err != nil {
		return TextView{}, err
	}
	data = bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	if len(data) == 0 {
		lines = nil
	}
	return TextView{
		Path:      path,
		Lines:     lines,
		Total:     len(lines),
		Truncated: size > int64(n),
	}, nil
}

// runText shows path as text until the operator leaves the viewer.
func (s *Session) runText(ctx context.Context, path string) error {
	view, err := LoadText(ctx, s.store, path, s.textLimit)
	if err != nil {
		s.prompt.Alert(fmt.Sprintf("%s\n\nError reading file: %v", path, err))
		return nil
	}
	page := textPage
	for {
		view.First = max(min(view.First, view.Total-page), 0)
		f := Frame{
			Mode:     FrameText,
			TopBar:   path,
			Elevated: s.elevated,
			Text:     &view,
		}
		if view.Truncated {
			f.Status = fmt.Sprintf("showing first %d lines", view.Total)
		}
		s.render.Render(f)
		in, ok, err := s.input.Wait(ctx, s.poll)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		if in.Lines > 0 {
			page = in.Lines
		}
		switch b := in.Buttons; {
		case b.Any(ButtonB | ButtonStart):
			return nil
		case b.Has(ButtonDown):
			view.First++
		case b.Has(ButtonUp):
			view.First--
		case b.Has(ButtonRight):
			view.First += page
		case b.Has(ButtonLeft):
			view.First -= page
		}
	}
}
