package metrics

// NoopProvider discards every instrument it constructs. It is the default
// Provider (see options.go's WithMetrics doc), so an asyncrx.Handle created
// without an explicit provider pays no instrumentation cost: NewCoreInstruments
// still registers queue_depth/reducer_panics/compute_duration_seconds against
// it, but each Add/Record is a no-op method call on a zero-size value.
type NoopProvider struct{}

// NewNoopProvider constructs a Provider that discards all metrics.
func NewNoopProvider() NoopProvider { return NoopProvider{} }

func (NoopProvider) Counter(_ string, _ ...InstrumentOption) Counter {
	return noopCounter{}
}

func (NoopProvider) UpDownCounter(_ string, _ ...InstrumentOption) UpDownCounter {
	return noopUpDownCounter{}
}

func (NoopProvider) Histogram(_ string, _ ...InstrumentOption) Histogram {
	return noopHistogram{}
}

type noopCounter struct{}

func (noopCounter) Add(_ int64) {}

type noopUpDownCounter struct{}

func (noopUpDownCounter) Add(_ int64) {}

type noopHistogram struct{}

func (noopHistogram) Record(_ float64) {}
