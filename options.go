package asyncrx

import (
	"fmt"

	"github.com/ygrebnov/asyncrx/metrics"
	"github.com/ygrebnov/asyncrx/runtime"
)

// Option configures a Handle. Use New(initial, opts...) to construct one,
// mirroring the teacher's NewOptions(ctx, opts...) builder.
type Option func(*configOptions)

type poolType int

const (
	poolUnspecified poolType = iota
	poolDynamic
	poolFixed
)

// configOptions is the internal options-assembly state, same split as the
// teacher's configOptions{cfg, poolSelected}.
type configOptions struct {
	cfg          config
	poolSelected poolType
}

// WithLogger overrides the default stumpy-backed logger. A nil Logger
// disables diagnostic logging entirely.
func WithLogger(l Logger) Option {
	return func(co *configOptions) { co.cfg.Logger = l }
}

// WithMetrics overrides the default no-op metrics.Provider.
func WithMetrics(p metrics.Provider) Option {
	return func(co *configOptions) { co.cfg.Metrics = p }
}

// WithRuntime overrides the Runtime used to execute blocking/cooperative
// computations. When set, WithFixedBlockingWorkers/WithDynamicBlockingWorkers
// are ignored, since pool selection is the overridden Runtime's concern.
func WithRuntime(rt runtime.Runtime) Option {
	return func(co *configOptions) { co.cfg.Runtime = rt }
}

// WithFixedBlockingWorkers selects a fixed-capacity blocking-offload slot
// pool (n must be > 0). See runtime package doc: this caps slot-token
// allocation, not concurrency.
func WithFixedBlockingWorkers(n uint) Option {
	return func(co *configOptions) {
		if co.poolSelected != poolUnspecified && co.poolSelected != poolFixed {
			panic("conflicting pool options: WithFixedBlockingWorkers and WithDynamicBlockingWorkers both specified")
		}
		if n == 0 {
			panic("WithFixedBlockingWorkers requires n > 0")
		}
		co.poolSelected = poolFixed
		co.cfg.FixedBlockingWorkers = n
	}
}

// WithDynamicBlockingWorkers selects a dynamic (unbounded) blocking-offload
// slot pool. This is the default if no pool option is given.
func WithDynamicBlockingWorkers() Option {
	return func(co *configOptions) {
		if co.poolSelected != poolUnspecified && co.poolSelected != poolDynamic {
			panic("conflicting pool options: WithFixedBlockingWorkers and WithDynamicBlockingWorkers both specified")
		}
		co.poolSelected = poolDynamic
		co.cfg.FixedBlockingWorkers = 0
	}
}

// New constructs a Handle owning initial as its starting state, configured
// by opts. The returned Handle has an initial reference count of one; call
// Close when done with it.
func New[S any](initial S, opts ...Option) *Handle[S] {
	co := configOptions{cfg: defaultConfig(), poolSelected: poolUnspecified}
	for _, opt := range opts {
		if opt == nil {
			panic("nil asyncrx option")
		}
		opt(&co)
	}

	if co.cfg.Runtime == nil {
		if co.poolSelected == poolFixed {
			co.cfg.Runtime = runtime.New(runtime.WithFixedBlockingPool(co.cfg.FixedBlockingWorkers))
		} else {
			co.cfg.Runtime = runtime.New()
		}
	}

	if err := validateConfig(&co.cfg); err != nil {
		panic(fmt.Errorf("invalid asyncrx config: %w", err))
	}

	return newHandle(initial, co.cfg)
}
