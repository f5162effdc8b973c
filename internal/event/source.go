package event

import "errors"

// Sentinel errors for event sources.
var (
	// ErrSourceClosed is returned by Next once a source has been closed
	// and its queue drained.
	ErrSourceClosed = errors.New("event source closed")

	// ErrQueueFull is returned by Post when a bounded source cannot
	// accept another event without blocking.
	ErrQueueFull = errors.New("event queue full")
)

// Source delivers events to the frame loop. Next is the loop's single
// suspension point: it blocks until an event arrives, the stop channel
// closes, or the source itself closes.
//
// Events are delivered strictly in arrival order.
type Source interface {
	Next(stop <-chan struct{}) (Event, error)
}

// ChanSource is a channel-backed Source. External producers push events
// with Post; tests drive the loop deterministically with it.
type ChanSource struct {
	ch     chan Event
	closed chan struct{}
}

// NewChanSource creates a source with the given queue capacity.
func NewChanSource(capacity int) *ChanSource {
	if capacity < 1 {
		capacity = 1
	}
	return &ChanSource{
		ch:     make(chan Event, capacity),
		closed: make(chan struct{}),
	}
}

// Post enqueues an event. Returns ErrQueueFull if the queue is at
// capacity and ErrSourceClosed after Close.
func (s *ChanSource) Post(ev Event) error {
	select {
	case <-s.closed:
		return ErrSourceClosed
	default:
	}
	select {
	case s.ch <- ev:
		return nil
	default:
		return ErrQueueFull
	}
}

// Next blocks until an event is available or stop closes. Queued events
// are still drained after Close; only then is ErrSourceClosed returned.
func (s *ChanSource) Next(stop <-chan struct{}) (Event, error) {
	// Drain anything already queued before honoring close or stop, so
	// arrival order is preserved across shutdown.
	select {
	case ev := <-s.ch:
		return ev, nil
	default:
	}

	select {
	case ev := <-s.ch:
		return ev, nil
	case <-stop:
		return Event{}, ErrSourceClosed
	case <-s.closed:
		// Late events may have raced in between the drain and close.
		select {
		case ev := <-s.ch:
			return ev, nil
		default:
			return Event{}, ErrSourceClosed
		}
	}
}

// Close marks the source closed. Pending events remain readable.
func (s *ChanSource) Close() {
	select {
	case <-s.closed:
	default:
		close(s.closed)
	}
}
