// Package runtime implements spec §6's external runtime collaborator:
// spawn_cooperative, spawn_blocking, and sleep. Cooperative tasks are plain
// goroutines — Go's own scheduler already is the cooperative task system
// the spec abstracts over. Blocking tasks are dispatched through a
// pool-backed slot-token allocator adapted from the teacher's pool.Pool
// (fixed or dynamic): exactly like the teacher's own MaxWorkers config
// (see workers.go/dispatcher.go, where `go w.dispatch(ctx, t)` is spawned
// unconditionally regardless of pool size), a fixed pool here caps how
// many reusable slot tokens are allocated, not how many blocking
// computations run concurrently — goroutine concurrency itself stays
// unbounded, matching the teacher's real (not idealized) behavior.
//
// Panic isolation mirrors the teacher's worker.go: a fault inside a spawned
// computation is recovered and reported through JoinHandle.Err rather than
// crashing the process, the same way worker.execute recovers task.execute
// panics into an error sent on the errors channel.
package runtime

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ygrebnov/asyncrx/pool"
)

// JoinHandle reports completion and, if the spawned function panicked, the
// recovered fault as an error.
type JoinHandle interface {
	// Done is closed once the spawned function returns or panics.
	Done() <-chan struct{}
	// Err returns the recovered panic, if any, once Done is closed.
	Err() error
}

// Runtime is the collaborator Execute* combinators use to run computations.
type Runtime interface {
	// SpawnCooperative starts fn on a cooperative task (a goroutine). fn
	// should itself honor ctx cancellation.
	SpawnCooperative(ctx context.Context, fn func(context.Context)) JoinHandle
	// SpawnBlocking starts fn on a blocking-offload task.
	SpawnBlocking(fn func()) JoinHandle
	// Sleep returns a channel closed after d elapses or ctx is done,
	// whichever comes first.
	Sleep(ctx context.Context, d time.Duration) <-chan struct{}
}

type joinHandle struct {
	done chan struct{}
	err  error
}

func (j *joinHandle) Done() <-chan struct{} { return j.done }
func (j *joinHandle) Err() error            { return j.err }

func recoverInto(j *joinHandle, fn func()) {
	defer close(j.done)
	defer func() {
		if r := recover(); r != nil {
			j.err = fmt.Errorf("%s: computation panicked: %v", "asyncrx", r)
		}
	}()
	fn()
}

// goRuntime is the default Runtime, backed by an adapted pool.Pool for
// blocking-offload concurrency control (see package doc).
type goRuntime struct {
	blockingSlots pool.Pool
	inflight      sync.WaitGroup
}

// Option configures a Runtime constructed by New.
type Option func(*goRuntime)

// WithFixedBlockingPool caps the number of distinct slot tokens allocated
// for SpawnBlocking reuse to n, using the teacher's adapted fixed-size pool
// (pool.NewFixed). It bounds allocation churn, not concurrency — see the
// package doc.
func WithFixedBlockingPool(n uint) Option {
	return func(r *goRuntime) {
		r.blockingSlots = pool.NewFixed(n, func() interface{} { return struct{}{} })
	}
}

// New constructs the default Runtime. Without WithFixedBlockingPool,
// blocking computations run on an unbounded dynamic pool (pool.NewDynamic),
// matching spec §5's default of unbounded blocking-offload capacity.
func New(opts ...Option) Runtime {
	r := &goRuntime{}
	for _, opt := range opts {
		opt(r)
	}
	if r.blockingSlots == nil {
		r.blockingSlots = pool.NewDynamic(func() interface{} { return struct{}{} })
	}
	return r
}

func (r *goRuntime) SpawnCooperative(ctx context.Context, fn func(context.Context)) JoinHandle {
	j := &joinHandle{done: make(chan struct{})}
	go recoverInto(j, func() { fn(ctx) })
	return j
}

func (r *goRuntime) SpawnBlocking(fn func()) JoinHandle {
	j := &joinHandle{done: make(chan struct{})}
	r.inflight.Add(1)
	slot := r.blockingSlots.Get()
	go func() {
		defer r.inflight.Done()
		defer r.blockingSlots.Put(slot)
		recoverInto(j, fn)
	}()
	return j
}

func (r *goRuntime) Sleep(ctx context.Context, d time.Duration) <-chan struct{} {
	ch := make(chan struct{})
	t := time.NewTimer(d)
	go func() {
		defer close(ch)
		select {
		case <-t.C:
		case <-ctx.Done():
			if !t.Stop() {
				<-t.C
			}
		}
	}()
	return ch
}

// Wait blocks until every SpawnBlocking computation started on r has
// returned (adapted from the teacher's lifecycleCoordinator/dispatcher
// inflight-draining idiom). Handle.Close does not call it.
func (r *goRuntime) Wait() { r.inflight.Wait() }

// Wait exposes goRuntime.Wait through the Runtime interface when the
// concrete type supports it; runtimes that don't track inflight work are a
// no-op.
func Wait(rt Runtime) {
	if w, ok := rt.(interface{ Wait() }); ok {
		w.Wait()
	}
}
