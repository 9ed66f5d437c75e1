package asyncrx

import "errors"

// Namespace prefixes every sentinel error this package defines, matching
// the teacher convention of namespacing error strings for easy grepping in
// logs.
const Namespace = "asyncrx"

var (
	// ErrClosed is returned by Handle.SetState, Handle.WithState, and
	// Handle.AwaitState once every Handle sharing the worker has been
	// closed. It is the single programmer-visible submission
	// failure mode described in spec §7.
	ErrClosed = errors.New(Namespace + ": worker is shut down")

	// ErrInvalidConfig is wrapped into the panic New raises when the
	// assembled config fails validateConfig (e.g. an explicit nil
	// metrics.Provider). Recoverable via errors.Is on the panic value.
	ErrInvalidConfig = errors.New(Namespace + ": invalid configuration")

	// ErrEmptyResult is returned by a combinator's computation to signal an
	// absent optional result (spec §4.5's Optional::None case), lifted into
	// Failure{Empty} at the outcome write rather than Failure{Message}.
	ErrEmptyResult = errors.New(Namespace + ": empty result")
)
