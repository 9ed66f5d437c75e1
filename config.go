package asyncrx

import (
	"fmt"

	"github.com/ygrebnov/asyncrx/metrics"
	"github.com/ygrebnov/asyncrx/runtime"
)

// config holds a Handle's configuration. Mirrors the teacher's config
// shape (a plain struct plus a separate functional-options layer in
// options.go) rather than folding options state directly into config.
type config struct {
	// Logger receives diagnostics for reducer/observer panics.
	// Default: a stumpy-backed logiface logger.
	Logger Logger

	// Metrics records queue depth and combinator compute duration.
	// Default: metrics.NewNoopProvider().
	Metrics metrics.Provider

	// Runtime executes blocking and cooperative computations spawned by the
	// Execute* combinators. Default: runtime.New() with a dynamic pool.
	Runtime runtime.Runtime

	// FixedBlockingWorkers caps the blocking-offload slot pool's allocation
	// (not its concurrency, see runtime package doc). Zero (default) selects
	// a dynamic pool. Ignored if Runtime is set explicitly.
	FixedBlockingWorkers uint
}

// defaultConfig centralizes default values for config. Applied by New as the
// options builder base, same division of responsibility as the teacher's
// defaultConfig/NewOptions split.
func defaultConfig() config {
	return config{
		Logger:               defaultLogger(),
		Metrics:              metrics.NewNoopProvider(),
		Runtime:              nil,
		FixedBlockingWorkers: 0,
	}
}

// validateConfig performs lightweight invariant checks, same division of
// responsibility as the teacher's validateConfig. A nil Logger is valid (it
// disables diagnostics, see WithLogger); a nil Metrics is not, since core
// unconditionally dereferences it to create its instruments. Runtime is
// never nil by the time this runs: New fills in a default before calling
// validateConfig.
func validateConfig(cfg *config) error {
	if cfg.Metrics == nil {
		return fmt.Errorf("%w: metrics provider is nil", ErrInvalidConfig)
	}
	return nil
}
