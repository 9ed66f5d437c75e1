// Package broadcast implements spec §4.1's latest-value broadcaster: a
// single mutable slot plus a monotonically increasing version, observed by
// any number of independent, non-blocking-for-writers consumers.
//
// There is no teacher equivalent — github.com/ygrebnov/workers has no
// latest-value broadcast concept — so this is built directly from the
// spec's contract using only sync.Mutex and per-observer buffered signal
// channels; no pub/sub library appears anywhere in the retrieved example
// pack (see DESIGN.md).
package broadcast

import "sync"

// Broadcaster holds the current value of S and publishes updates to any
// number of Observers. Publish never blocks on readers (spec §4.1
// "starvation-freedom for producers").
type Broadcaster[S any] struct {
	mu        sync.Mutex
	state     S
	version   uint64
	closed    bool
	observers map[*Observer[S]]struct{}
}

// New constructs a Broadcaster holding initial as its current value.
func New[S any](initial S) *Broadcaster[S] {
	return &Broadcaster[S]{
		state:     initial,
		version:   1,
		observers: make(map[*Observer[S]]struct{}),
	}
}

// Publish overwrites the current value, bumps the version, and wakes every
// parked observer (wake-all, per spec §9's normative resolution of the
// wake-one/wake-all ambiguity). Always succeeds and never blocks.
func (b *Broadcaster[S]) Publish(s S) {
	b.mu.Lock()
	b.state = s
	b.version++
	for obs := range b.observers {
		nonBlockingSend(obs.wake)
	}
	b.mu.Unlock()
}

// Current returns the broadcaster's present value without registering an
// observer or consuming any observer's cursor. Used by a single designated
// writer goroutine that already knows it is the only source of Publish
// calls, to read back what it just published.
func (b *Broadcaster[S]) Current() S {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Close marks the broadcaster closed and wakes every parked observer one
// final time so pending Next calls can return (spec §4.2 "Shutdown").
// Observers that have already seen the final published value will see
// Next return false on their next call.
func (b *Broadcaster[S]) Close() {
	b.mu.Lock()
	b.closed = true
	for obs := range b.observers {
		nonBlockingSend(obs.wake)
	}
	b.mu.Unlock()
}

// NewObserver registers a fresh Observer whose cursor starts one version
// behind current, so its first Next call returns the current state
// immediately (spec §4.1 "Initial read").
func (b *Broadcaster[S]) NewObserver() *Observer[S] {
	b.mu.Lock()
	defer b.mu.Unlock()
	obs := &Observer[S]{
		b:        b,
		lastSeen: b.version - 1,
		wake:     make(chan struct{}, 1),
	}
	b.observers[obs] = struct{}{}
	nonBlockingSend(obs.wake)
	return obs
}

func nonBlockingSend(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

// Observer is a single consumer's cursor into a Broadcaster. It never
// blocks any other Observer and never blocks a writer. Not safe for
// concurrent use by multiple goroutines (spec implies one observer per
// consumer "since I last looked").
type Observer[S any] struct {
	b        *Broadcaster[S]
	lastSeen uint64
	stopped  bool
	wake     chan struct{}
}

// Stop deregisters the observer; every later Next call returns the zero
// value and false. Safe to call more than once.
func (o *Observer[S]) Stop() {
	o.b.mu.Lock()
	o.stopped = true
	delete(o.b.observers, o)
	o.b.mu.Unlock()
}

// Next accepts a done channel (e.g. from context.Context.Done) so this
// package stays free of a context import and is reusable from non-context
// call sites.

// Next blocks until the broadcaster's version has advanced past what this
// observer has already seen, then returns the current state and true. If
// done closes first, it returns the zero value and false. Once the
// broadcaster is closed and this observer is fully caught up, Next returns
// the zero value and false (spec §4.2 "Shutdown": "observers already
// holding references complete their streams").
//
// A slow observer that misses several intermediate writes between calls
// will only ever see the most recent one — the documented lossiness of
// spec §4.1/§8 P4.
func (o *Observer[S]) Next(done <-chan struct{}) (S, bool) {
	for {
		o.b.mu.Lock()
		if o.stopped {
			o.b.mu.Unlock()
			var zero S
			return zero, false
		}
		if o.b.version > o.lastSeen {
			s := o.b.state
			o.lastSeen = o.b.version
			o.b.mu.Unlock()
			return s, true
		}
		closed := o.b.closed
		o.b.mu.Unlock()

		if closed {
			var zero S
			return zero, false
		}

		select {
		case <-o.wake:
			continue
		case <-done:
			var zero S
			return zero, false
		}
	}
}
