package asyncrx

import (
	"context"

	"github.com/ygrebnov/asyncrx/broadcast"
)

// Signal is a pull-style cursor into a Handle's state stream (spec §4.4):
// each call blocks until a new value has been published since the last
// call, or until ctx is done. The first call returns the current value
// immediately. ok is false once the underlying Handle has shut down or ctx
// is done.
//
// Grounded on the teacher's task.go adapter-closures-over-a-common-contract
// idiom (newTask dispatching to taskResult/taskResultError/taskError): a
// thin closure here plays the same role, wrapping broadcast.Observer.
type Signal[S any] func(ctx context.Context) (S, bool)

// NewSignal returns a Signal over h's state, and a stop function that must
// be called once the Signal is no longer needed, to deregister it from the
// underlying broadcaster.
func (h *Handle[S]) NewSignal() (Signal[S], func()) {
	obs := h.c.broadcaster.NewObserver()
	sig := func(ctx context.Context) (S, bool) {
		return obs.Next(ctx.Done())
	}
	return sig, obs.Stop
}

// Stream wraps a Signal as a struct with a Next method and a Stop method,
// convenient for range-style consumption loops.
type Stream[S any] struct {
	obs *broadcast.Observer[S]
}

// NewStream returns a Stream over h's state. Call Stop when done.
func (h *Handle[S]) NewStream() *Stream[S] {
	return &Stream[S]{obs: h.c.broadcaster.NewObserver()}
}

// Next blocks until a new value has been published since the last call (or
// returns the current value immediately on the first call), or until ctx is
// done.
func (s *Stream[S]) Next(ctx context.Context) (S, bool) {
	return s.obs.Next(ctx.Done())
}

// Stop deregisters the Stream from its underlying broadcaster.
func (s *Stream[S]) Stop() {
	s.obs.Stop()
}

// StopIf wraps sig so that once a pulled value satisfies predicate, that
// value is still returned with ok=true and every subsequent call reports ok=false,
// without needing to track the underlying Handle's lifecycle explicitly
// (spec §4.4).
func StopIf[S any](sig Signal[S], predicate func(S) bool) Signal[S] {
	var done bool
	return func(ctx context.Context) (S, bool) {
		if done {
			var zero S
			return zero, false
		}
		v, ok := sig(ctx)
		if !ok {
			return v, false
		}
		if predicate(v) {
			done = true
		}
		return v, true
	}
}
