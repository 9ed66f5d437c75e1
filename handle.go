package asyncrx

import "context"

// Handle is a reference-counted view onto a shared state container of type
// S. Every exported function except AwaitState never blocks on the worker and
// never blocks the caller against other callers (spec §3.1/§3.5).
//
// Grounded on the teacher's Workers interface (AddTask/GetResults/
// GetErrors) and lifecycle.go's ordered shutdown, generalized from "drain
// tasks, close results/errors channels" to "drain writeQ/readQ, close
// broadcaster, refcounted across handles" (see DESIGN.md).
type Handle[S any] struct {
	c *core[S]
}

func newHandle[S any](initial S, cfg config) *Handle[S] {
	c := newCore(initial, cfg)
	c.refcount.Add(1)
	return &Handle[S]{c: c}
}

// Clone returns a new Handle sharing the same underlying worker, bumping
// its refcount. The worker shuts down only once every cloned Handle (and
// the original) has been Closed.
func (h *Handle[S]) Clone() *Handle[S] {
	h.c.refcount.Add(1)
	return &Handle[S]{c: h.c}
}

// SetState enqueues reducer to run against the current state on the
// worker, publishing its result. Returns ErrClosed if the worker has
// already shut down.
func (h *Handle[S]) SetState(reducer func(S) S) error {
	return h.c.submitWrite(reducer)
}

// WithState enqueues observe to run against the current state on the
// worker, without mutating it. Returns ErrClosed if the worker has already
// shut down.
func (h *Handle[S]) WithState(observe func(S)) error {
	return h.c.submitRead(observe)
}

// GetState returns a snapshot of the current state. It does not enqueue an
// operation on the worker, so it does not reflect writes that are still
// queued, including ones submitted by the calling goroutine (spec §3.1).
func (h *Handle[S]) GetState() S {
	return h.c.current()
}

// AwaitState enqueues a read and blocks until it has actually run on the
// worker (so, unlike GetState, it reflects every write submitted-before
// this call from the same goroutine), or until ctx is done.
func (h *Handle[S]) AwaitState(ctx context.Context) (S, error) {
	result := make(chan S, 1)
	if err := h.WithState(func(s S) { result <- s }); err != nil {
		var zero S
		return zero, err
	}
	select {
	case s := <-result:
		return s, nil
	case <-ctx.Done():
		var zero S
		return zero, ctx.Err()
	}
}

// Close drops this Handle's reference to the worker. Once every Handle
// sharing the worker has been Closed, the worker drains its remaining
// queues and shuts down (spec §3.5, P10). Safe to call exactly once per
// Handle; calling it twice double-releases the refcount and is a caller
// error.
func (h *Handle[S]) Close() {
	h.c.release()
}

// Done returns a channel closed once the worker has fully shut down (all
// Handles closed and queues drained).
func (h *Handle[S]) Done() <-chan struct{} {
	return h.c.doneCh
}
