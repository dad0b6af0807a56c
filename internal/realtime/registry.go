package realtime

import (
	"context"
	"fmt"
	"strings"
	"sync"

	pkgerrors "github.com/saikganesh/navajothi-jewels-backend/pkg/errors"
)

// Stream is one underlying per-user subscription. Events closes when the
// stream is closed or the transport drops it.
type Stream interface {
	Events() <-chan Event
	Close() error
}

// Source opens the underlying transport stream for a user's channel.
type Source interface {
	Open(ctx context.Context, userID string) (Stream, error)
}

// Registry guarantees at most one underlying stream per user no matter how
// many observers are attached. The first Acquire opens the stream, the last
// Release tears it down.
type Registry struct {
	source Source

	mu   sync.Mutex
	subs map[string]*channelState
}

type channelState struct {
	stream    Stream
	observers map[*Handle]struct{}
}

// Handle is one observer's view of a user's channel.
type Handle struct {
	registry *Registry
	userID   string
	events   chan Event
	closed   sync.Once
}

// NewRegistry builds a registry over the provided source.
func NewRegistry(source Source) (*Registry, error) {
	if source == nil {
		return nil, fmt.Errorf("stream source required")
	}
	return &Registry{source: source, subs: map[string]*channelState{}}, nil
}

// Acquire attaches an observer to the user's channel, opening the underlying
// stream if this is the first observer.
func (r *Registry) Acquire(ctx context.Context, userID string) (*Handle, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	state, ok := r.subs[userID]
	if !ok {
		stream, err := r.source.Open(ctx, userID)
		if err != nil {
			return nil, err
		}
		state = &channelState{stream: stream, observers: map[*Handle]struct{}{}}
		r.subs[userID] = state
		go r.fanOut(userID, state)
	}

	handle := &Handle{registry: r, userID: userID, events: make(chan Event, 16)}
	state.observers[handle] = struct{}{}
	return handle, nil
}

// ObserverCount reports how many observers are attached to the user's channel.
func (r *Registry) ObserverCount(userID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	state, ok := r.subs[userID]
	if !ok {
		return 0
	}
	return len(state.observers)
}

func (r *Registry) fanOut(userID string, state *channelState) {
	for event := range state.stream.Events() {
		r.mu.Lock()
		for handle := range state.observers {
			// Slow observers drop events; the next refetch resyncs them.
			select {
			case handle.events <- event:
			default:
			}
		}
		r.mu.Unlock()
	}

	// Upstream closed. Detach whatever observers remain.
	r.mu.Lock()
	if r.subs[userID] == state {
		delete(r.subs, userID)
	}
	remaining := make([]*Handle, 0, len(state.observers))
	for handle := range state.observers {
		remaining = append(remaining, handle)
	}
	state.observers = map[*Handle]struct{}{}
	r.mu.Unlock()

	for _, handle := range remaining {
		handle.close()
	}
}

// Events delivers the channel's events until Release or transport teardown.
func (h *Handle) Events() <-chan Event {
	return h.events
}

// Release detaches the observer. The last release closes the underlying
// stream.
func (h *Handle) Release() {
	h.registry.release(h)
}

func (r *Registry) release(h *Handle) {
	var stream Stream

	r.mu.Lock()
	if state, ok := r.subs[h.userID]; ok {
		if _, attached := state.observers[h]; attached {
			delete(state.observers, h)
			if len(state.observers) == 0 {
				delete(r.subs, h.userID)
				stream = state.stream
			}
		}
	}
	r.mu.Unlock()

	if stream != nil {
		_ = stream.Close()
	}
	h.close()
}

func (h *Handle) close() {
	h.closed.Do(func() { close(h.events) })
}
