package metrics

import (
	"math"
	"sync"
	"sync/atomic"
)

// instrumentRegistry is a name-keyed, create-once-per-name registry shared by
// BasicProvider's three instrument kinds. Counter/UpDownCounter/Histogram
// differ only in what they construct on first sight of a name and what
// interface they return it as; factoring that out collapses what would
// otherwise be three copies of the same double-checked-locking lookup.
type instrumentRegistry[T any] struct {
	mu    sync.RWMutex
	items map[string]T
	meta  map[string]InstrumentConfig
	newFn func() T
}

func newInstrumentRegistry[T any](newFn func() T) *instrumentRegistry[T] {
	return &instrumentRegistry[T]{
		items: make(map[string]T),
		meta:  make(map[string]InstrumentConfig),
		newFn: newFn,
	}
}

func (r *instrumentRegistry[T]) getOrCreate(name string, opts []InstrumentOption) T {
	r.mu.RLock()
	if v, ok := r.items[name]; ok {
		r.mu.RUnlock()
		return v
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	// re-check after acquiring write lock
	if v, ok := r.items[name]; ok {
		return v
	}
	r.meta[name] = applyOptions(opts)
	v := r.newFn()
	r.items[name] = v
	return v
}

func (r *instrumentRegistry[T]) describe(name string) (InstrumentConfig, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cfg, ok := r.meta[name]
	return cfg, ok
}

// applyOptions builds InstrumentConfig from options.
func applyOptions(opts []InstrumentOption) InstrumentConfig {
	var cfg InstrumentConfig
	for _, o := range opts {
		if o != nil {
			o(&cfg)
		}
	}
	return cfg
}

// BasicProvider is a simple in-memory Provider: instruments are created on
// demand by name and reused for the same name, and record into plain
// atomics/mutex-guarded accumulators rather than exporting anywhere.
// Concurrency-safe; intended for tests, examples, and lightweight embedding
// rather than production export.
type BasicProvider struct {
	counters   *instrumentRegistry[*BasicCounter]
	updowns    *instrumentRegistry[*BasicUpDownCounter]
	histograms *instrumentRegistry[*BasicHistogram]
}

// NewBasicProvider constructs a new BasicProvider.
func NewBasicProvider() *BasicProvider {
	return &BasicProvider{
		counters:   newInstrumentRegistry(func() *BasicCounter { return &BasicCounter{} }),
		updowns:    newInstrumentRegistry(func() *BasicUpDownCounter { return &BasicUpDownCounter{} }),
		histograms: newInstrumentRegistry(newBasicHistogram),
	}
}

// Counter returns a monotonic counter instrument for the given name (created once).
func (p *BasicProvider) Counter(name string, opts ...InstrumentOption) Counter {
	return p.counters.getOrCreate(name, opts)
}

// UpDownCounter returns an up/down counter instrument for the given name (created once).
func (p *BasicProvider) UpDownCounter(name string, opts ...InstrumentOption) UpDownCounter {
	return p.updowns.getOrCreate(name, opts)
}

// Histogram returns a histogram instrument for the given name (created once).
func (p *BasicProvider) Histogram(name string, opts ...InstrumentOption) Histogram {
	return p.histograms.getOrCreate(name, opts)
}

// Describe returns the InstrumentConfig an instrument was registered with,
// whichever of the three kinds it is. Used by tests and diagnostics to
// confirm NewCoreInstruments' naming/label conventions actually reached the
// provider, without needing a kind-specific lookup.
func (p *BasicProvider) Describe(name string) (InstrumentConfig, bool) {
	if cfg, ok := p.counters.describe(name); ok {
		return cfg, true
	}
	if cfg, ok := p.updowns.describe(name); ok {
		return cfg, true
	}
	return p.histograms.describe(name)
}

// BasicCounter is a thread-safe monotonic counter.
type BasicCounter struct {
	val atomic.Int64
}

// Add increments the counter by n (n may be negative but it's not recommended for monotonic counters).
func (c *BasicCounter) Add(n int64) { c.val.Add(n) }

// Snapshot returns the current value.
func (c *BasicCounter) Snapshot() int64 { return c.val.Load() }

// BasicUpDownCounter is a thread-safe up/down counter.
type BasicUpDownCounter struct {
	val atomic.Int64
}

// Add adds n (positive or negative) to the current value.
func (u *BasicUpDownCounter) Add(n int64) { u.val.Add(n) }

// Snapshot returns the current value.
func (u *BasicUpDownCounter) Snapshot() int64 { return u.val.Load() }

// BasicHistogram is a thread-safe histogram that tracks count, sum, min, and max.
// It does not maintain buckets; it's intended as a lightweight, general-purpose aggregator.
type BasicHistogram struct {
	mu    sync.Mutex
	count int64
	sum   float64
	min   float64
	max   float64
}

func newBasicHistogram() *BasicHistogram {
	return &BasicHistogram{min: math.Inf(1), max: math.Inf(-1)}
}

// Record adds a measurement to the histogram.
func (h *BasicHistogram) Record(v float64) {
	h.mu.Lock()
	if h.count == 0 {
		// initialize min/max on first record
		h.min, h.max = v, v
	} else {
		if v < h.min {
			h.min = v
		}
		if v > h.max {
			h.max = v
		}
	}
	h.count++
	h.sum += v
	h.mu.Unlock()
}

// HistSnapshot is an immutable snapshot of a BasicHistogram.
type HistSnapshot struct {
	Count int64
	Sum   float64
	Min   float64
	Max   float64
	Mean  float64
}

// Snapshot returns a copy of the histogram state at the time of call.
func (h *BasicHistogram) Snapshot() HistSnapshot {
	h.mu.Lock()
	count := h.count
	sum := h.sum
	min := h.min
	max := h.max
	h.mu.Unlock()
	mean := 0.0
	if count > 0 {
		mean = sum / float64(count)
	}
	return HistSnapshot{Count: count, Sum: sum, Min: min, Max: max, Mean: mean}
}
