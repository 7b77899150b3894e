package drives

import (
	"slices"
	"sync"
)

type MediaEventKind int

const (
	MediaInserted MediaEventKind = iota + 1
	MediaEjected
	// DriveRemapped means drives appeared or disappeared through mount or unmount.
	DriveRemapped
)

func (k MediaEventKind) String() string {
	switch k {
	case MediaInserted:
		return "inserted"
	case MediaEjected:
		return "ejected"
	case DriveRemapped:
		return "remapped"
	default:
		return "unknown"
	}
}

type MediaEvent struct {
	Kind  MediaEventKind
	Drive string
}

// EventSource hands out the media events pending since the last call.
type EventSource interface {
	Poll() []MediaEvent
}

var _ EventSource = (*EventQueue)(nil)

// EventQueue collects media events between two polls. Identical events
// posted more than once before a poll are delivered once.
type EventQueue struct {
	mu      sync.Mutex
	pending []MediaEvent
}

func (q *EventQueue) Post(ev MediaEvent) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if slices.Contains(q.pending, ev) {
		return
	}
	q.pending = append(q.pending, ev)
}

func (q *EventQueue) Poll() []MediaEvent {
	q.mu.Lock()
	defer q.mu.Unlock()
	events := q.pending
	q.pending = nil
	return events
}
