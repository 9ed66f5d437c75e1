// Package metrics is asyncrx's instrumentation contract: a minimal
// Provider/Counter/UpDownCounter/Histogram surface plus the naming and
// labeling conventions the core worker and Execute* combinators register
// their instruments under (queue depth, reducer panics, compute duration).
package metrics

// Namespace prefixes every instrument name this package's Name helper
// builds, mirroring the sentinel-error namespacing in the root package's
// errors.go.
const Namespace = "asyncrx"

// Name builds the canonical instrument name for a bare metric, e.g.
// Name("queue_depth") -> "asyncrx_queue_depth". core and the Execute*
// combinators register their instruments through NewCoreInstruments rather
// than hand-writing this prefix at each call site.
func Name(metric string) string { return Namespace + "_" + metric }

// Provider constructs instruments used to record metrics.
// Implementations must be safe for concurrent use.
//
// Keep this interface minimal and stable. If you need new capabilities later,
// introduce separate optional interfaces rather than expanding this surface.
type Provider interface {
	Counter(name string, opts ...InstrumentOption) Counter
	UpDownCounter(name string, opts ...InstrumentOption) UpDownCounter
	Histogram(name string, opts ...InstrumentOption) Histogram
}

// Counter records monotonic counts.
// Methods must be safe for concurrent use.
type Counter interface {
	Add(n int64)
}

// UpDownCounter records values that can move up or down (e.g., current in-flight).
// Methods must be safe for concurrent use.
type UpDownCounter interface {
	Add(n int64)
}

// Histogram records distribution of float64 measurements (e.g., durations in seconds).
// Methods must be safe for concurrent use.
type Histogram interface {
	Record(v float64)
}

// InstrumentConfig carries optional instrument metadata. It's advisory only.
type InstrumentConfig struct {
	Description string
	Unit        string
	// Attributes are static key-value pairs associated with the instrument itself.
	// Keep cardinality bounded. Implementations may ignore attributes.
	Attributes map[string]string
}

// InstrumentOption mutates InstrumentConfig.
type InstrumentOption func(*InstrumentConfig)

// WithDescription sets an advisory description for the instrument.
func WithDescription(desc string) InstrumentOption {
	return func(c *InstrumentConfig) { c.Description = desc }
}

// WithUnit sets an advisory unit for the instrument (e.g., "1", "seconds").
func WithUnit(unit string) InstrumentOption {
	return func(c *InstrumentConfig) { c.Unit = unit }
}

// WithAttributes attaches static attributes to the instrument (bounded cardinality only).
func WithAttributes(attrs map[string]string) InstrumentOption {
	return func(c *InstrumentConfig) {
		if len(attrs) == 0 {
			return
		}
		// copy to avoid external mutation
		if c.Attributes == nil {
			c.Attributes = make(map[string]string, len(attrs))
		}
		for k, v := range attrs {
			c.Attributes[k] = v
		}
	}
}

// WithComponent is this module's bounded-cardinality attribute convention:
// which asyncrx subsystem owns the instrument ("worker" for queue depth and
// reducer panics, "combinator" for compute duration), rather than a
// free-form Attributes map at every call site.
func WithComponent(name string) InstrumentOption {
	return WithAttributes(map[string]string{"component": name})
}

// CoreInstruments bundles the three instruments core (worker.go) and the Execute*
// combinators record against: queue depth, reducer/observer panics, and
// combinator compute duration.
type CoreInstruments struct {
	QueueDepth      UpDownCounter
	ReducerPanics   Counter
	ComputeDuration Histogram
}

// NewCoreInstruments registers the fixed set of instruments this module
// needs against p, under their canonical asyncrx_-prefixed names and
// "worker"/"combinator" component labels. Centralizing the name/label/unit
// conventions here keeps them consistent regardless of which Provider
// implementation is plugged in, and keeps worker.go free of instrument
// bookkeeping beyond calling this once.
func NewCoreInstruments(p Provider) CoreInstruments {
	return CoreInstruments{
		QueueDepth: p.UpDownCounter(
			Name("queue_depth"),
			WithDescription("number of write/read operations queued but not yet applied"),
			WithComponent("worker"),
		),
		ReducerPanics: p.Counter(
			Name("reducer_panics"),
			WithDescription("reducer or observer invocations isolated after a panic"),
			WithComponent("worker"),
		),
		ComputeDuration: p.Histogram(
			Name("compute_duration_seconds"),
			WithUnit("seconds"),
			WithDescription("wall-clock duration of an Execute* combinator's compute step"),
			WithComponent("combinator"),
		),
	}
}
