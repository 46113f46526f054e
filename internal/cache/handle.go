package cache

import (
	"context"
	"sync"
	"time"
)

// Handle is a one-shot, multi-waiter completion slot for a single decoded
// frame's bytes. It is the Go counterpart of the original Rust
// SharedManualFuture: any number of goroutines may call Await concurrently,
// all of them observe the same resolved value, and Complete is a no-op once
// a value has already been set.
//
// Where SharedManualFuture keeps an explicit list of pending completers and
// notifies each one when the value arrives, Handle closes a channel instead
// - closing a channel already broadcasts to every current and future
// receiver, so no completer bookkeeping is needed.
type Handle struct {
	mu       sync.Mutex
	resolved bool
	value    []byte
	done     chan struct{}
}

// NewHandle returns an unresolved handle.
func NewHandle() *Handle {
	return &Handle{done: make(chan struct{})}
}

// NewResolvedHandle returns a handle that is already resolved to value.
func NewResolvedHandle(value []byte) *Handle {
	h := &Handle{done: make(chan struct{}), resolved: true, value: value}
	close(h.done)
	return h
}

// IsResolved reports whether the handle has a value yet.
func (h *Handle) IsResolved() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.resolved
}

// GetNow returns the resolved value without blocking. ok is false if the
// handle has not resolved yet.
func (h *Handle) GetNow() (value []byte, ok bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.resolved {
		return nil, false
	}
	return h.value, true
}

// Complete resolves the handle to value. Subsequent calls are no-ops, like
// SharedManualFuture::complete's already-resolved check, so the winner of a
// race between the decode task and a second getter is always the first
// writer.
func (h *Handle) Complete(value []byte) {
	h.mu.Lock()
	if h.resolved {
		h.mu.Unlock()
		return
	}
	h.value = value
	h.resolved = true
	h.mu.Unlock()
	close(h.done)
}

// Await blocks until the handle resolves, timeout elapses, or ctx is done.
// ok is true only when a value was obtained; a timeout or cancellation
// returns ok=false with err set only for cancellation.
func (h *Handle) Await(ctx context.Context, timeout time.Duration) (value []byte, ok bool, err error) {
	if v, done := h.GetNow(); done {
		return v, true, nil
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-h.done:
		v, _ := h.GetNow()
		return v, true, nil
	case <-timer.C:
		return nil, false, nil
	case <-ctx.Done():
		return nil, false, ctx.Err()
	}
}
