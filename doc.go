// Package asyncrx provides a reactive state container: a single owned value
// (the state) mutated only by serialized reducer functions, observable by
// any number of consumers as a lossy stream of the latest state.
//
// On top of the container, Execute* functions run synchronous or
// asynchronous computations, lift their outcome into a four-state lifecycle
// value (AsyncT), and fold that outcome back into the state — optionally
// with retention of a prior successful value, cancellation, and timeout.
//
// The state itself is owned exclusively by an internal worker goroutine;
// every external view (Handle.GetState, observers) is a snapshot. Producers
// never block on the worker and never block each other.
package asyncrx
