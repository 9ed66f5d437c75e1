package asyncrx

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ygrebnov/asyncrx/broadcast"
	"github.com/ygrebnov/asyncrx/metrics"
	"github.com/ygrebnov/asyncrx/runtime"
)

// core owns a single state value of type S, serializing every mutation
// through one goroutine (run), and publishing every new value to a
// broadcast.Broadcaster for observers. It is shared by every Handle cloned
// from the same New call; the last Close shuts it down (spec §3.5).
type core[S any] struct {
	writeQ *unboundedQueue[writeOp[S]]
	readQ  *unboundedQueue[readOp[S]]

	broadcaster *broadcast.Broadcaster[S]

	rt      runtime.Runtime
	metrics metrics.Provider
	logger  Logger

	refcount   atomic.Int64
	closed     atomic.Bool
	shutdownCh chan struct{}
	doneCh     chan struct{}
	shutOnce   sync.Once

	queueDepth      metrics.UpDownCounter
	panics          metrics.Counter
	computeDuration metrics.Histogram
}

func newCore[S any](initial S, cfg config) *core[S] {
	c := &core[S]{
		writeQ:      newUnboundedQueue[writeOp[S]](),
		readQ:       newUnboundedQueue[readOp[S]](),
		broadcaster: broadcast.New(initial),
		rt:          cfg.Runtime,
		metrics:     cfg.Metrics,
		logger:      cfg.Logger,
		shutdownCh:  make(chan struct{}),
		doneCh:      make(chan struct{}),
	}
	instruments := metrics.NewCoreInstruments(c.metrics)
	c.queueDepth = instruments.QueueDepth
	c.panics = instruments.ReducerPanics
	c.computeDuration = instruments.ComputeDuration
	go c.run()
	return c
}

// recordComputeDuration reports how long a combinator's compute step took,
// from just before it was invoked to just after it returned (spec §4.5's
// three-phase write sequence brackets this interval).
func (c *core[S]) recordComputeDuration(d time.Duration) {
	c.computeDuration.Record(d.Seconds())
}

// submitWrite enqueues a reducer, returning ErrClosed if the core has
// already shut down. Never blocks.
func (c *core[S]) submitWrite(reducer func(S) S) error {
	if c.closed.Load() {
		return ErrClosed
	}
	c.writeQ.push(writeOp[S]{reducer: reducer})
	c.queueDepth.Add(1)
	return nil
}

// submitRead enqueues an observation, returning ErrClosed if the core has
// already shut down. Never blocks.
func (c *core[S]) submitRead(observe func(S)) error {
	if c.closed.Load() {
		return ErrClosed
	}
	c.readQ.push(readOp[S]{observe: observe})
	c.queueDepth.Add(1)
	return nil
}

// release decrements the refcount; the last Close shuts the worker down.
func (c *core[S]) release() {
	if c.refcount.Add(-1) == 0 {
		c.shutOnce.Do(func() {
			c.closed.Store(true)
			close(c.shutdownCh)
		})
	}
}

// run is the serialized worker loop (spec §4.2). At every selection point it
// prefers a pending write over a pending read (write precedence, spec
// P2/P3), and only exits once shutdown has been requested and both
// sub-queues are empty, so no submitted operation is ever silently dropped.
//
// Panic isolation is grounded on the teacher's worker.go execute: recover
// converts a reducer/observer fault into a logged, swallowed error instead
// of crashing the goroutine (and, unlike the teacher, without forwarding it
// as a task result — a panicking reducer simply leaves state unchanged).
func (c *core[S]) run() {
	defer close(c.doneCh)
	defer c.broadcaster.Close()

	for {
		if op, ok := c.writeQ.pop(); ok {
			c.applyWrite(op)
			continue
		}
		if op, ok := c.readQ.pop(); ok {
			c.applyRead(op)
			continue
		}

		select {
		case <-c.writeQ.notify:
			continue
		case <-c.readQ.notify:
			continue
		case <-c.shutdownCh:
			if c.writeQ.empty() && c.readQ.empty() {
				return
			}
		}
	}
}

func (c *core[S]) applyWrite(op writeOp[S]) {
	defer c.queueDepth.Add(-1)
	defer func() {
		if r := recover(); r != nil {
			c.panics.Add(1)
			logWarn(c.logger, "reducer panicked", fmt.Errorf("%v", r))
		}
	}()
	next := c.current()
	next = op.reducer(next)
	c.broadcaster.Publish(next)
}

func (c *core[S]) applyRead(op readOp[S]) {
	defer c.queueDepth.Add(-1)
	defer func() {
		if r := recover(); r != nil {
			c.panics.Add(1)
			logWarn(c.logger, "observer panicked", fmt.Errorf("%v", r))
		}
	}()
	op.observe(c.current())
}

// current returns the broadcaster's current value, which is always the last
// value this same worker goroutine published (or the initial value).
func (c *core[S]) current() S {
	return c.broadcaster.Current()
}
