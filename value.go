package asyncrx

import (
	"encoding/json"
	"fmt"
)

// lifecycleKind is the tag discriminating an AsyncT's four cases (spec §3.2).
type lifecycleKind int

const (
	stateUninitialized lifecycleKind = iota
	stateLoading
	stateSuccess
	stateFailure
)

// AsyncT is the four-state lifecycle value capturing the status of one
// asynchronous result (spec §3.2). The zero value is Uninitialized.
//
// AsyncT is a plain tagged struct rather than an interface: it must be
// cheap to copy, since it normally lives as a field of a snapshot-producing
// application state S (spec §3.1).
type AsyncT[T any] struct {
	kind     lifecycleKind
	value    T
	retained *T
	err      ErrorKind
}

// UninitializedOf returns the Uninitialized case.
func UninitializedOf[T any]() AsyncT[T] { return AsyncT[T]{kind: stateUninitialized} }

// LoadingOf returns the Loading case with no retained value.
func LoadingOf[T any]() AsyncT[T] { return AsyncT[T]{kind: stateLoading} }

// LoadingWithRetainOf returns the Loading case carrying a retained prior value.
func LoadingWithRetainOf[T any](retained T) AsyncT[T] {
	r := retained
	return AsyncT[T]{kind: stateLoading, retained: &r}
}

// SuccessOf returns the Success case carrying value.
func SuccessOf[T any](value T) AsyncT[T] { return AsyncT[T]{kind: stateSuccess, value: value} }

// FailureOf returns the Failure case with no retained value.
func FailureOf[T any](err ErrorKind) AsyncT[T] { return AsyncT[T]{kind: stateFailure, err: err} }

// FailureWithRetainOf returns the Failure case carrying a retained prior value.
func FailureWithRetainOf[T any](err ErrorKind, retained T) AsyncT[T] {
	r := retained
	return AsyncT[T]{kind: stateFailure, err: err, retained: &r}
}

// IsUninitialized reports whether this is the Uninitialized case.
func (a AsyncT[T]) IsUninitialized() bool { return a.kind == stateUninitialized }

// IsLoading reports whether this is the Loading case.
func (a AsyncT[T]) IsLoading() bool { return a.kind == stateLoading }

// IsSuccess reports whether this is the Success case.
func (a AsyncT[T]) IsSuccess() bool { return a.kind == stateSuccess }

// IsFailure reports whether this is the Failure case.
func (a AsyncT[T]) IsFailure() bool { return a.kind == stateFailure }

// Value returns the Success value and true, or the zero value and false.
func (a AsyncT[T]) Value() (T, bool) {
	if a.kind == stateSuccess {
		return a.value, true
	}
	var zero T
	return zero, false
}

// Retained returns the retained value carried by Loading or Failure, and
// true if one is present.
func (a AsyncT[T]) Retained() (T, bool) {
	if (a.kind == stateLoading || a.kind == stateFailure) && a.retained != nil {
		return *a.retained, true
	}
	var zero T
	return zero, false
}

// Err returns the failure's ErrorKind and true, or the zero value and false.
func (a AsyncT[T]) Err() (ErrorKind, bool) {
	if a.kind == stateFailure {
		return a.err, true
	}
	return ErrorKind{}, false
}

// String implements fmt.Stringer for debugging and logging.
func (a AsyncT[T]) String() string {
	switch a.kind {
	case stateUninitialized:
		return "Uninitialized"
	case stateLoading:
		if r, ok := a.Retained(); ok {
			return fmt.Sprintf("Loading{retained: %v}", r)
		}
		return "Loading{}"
	case stateSuccess:
		return fmt.Sprintf("Success{value: %v}", a.value)
	case stateFailure:
		if r, ok := a.Retained(); ok {
			return fmt.Sprintf("Failure{error: %v, retained: %v}", a.err, r)
		}
		return fmt.Sprintf("Failure{error: %v}", a.err)
	default:
		return "Invalid"
	}
}

// retainFrom implements the retain rule shared by the loading write and the
// retain-variant failure write (spec §4.5 rule 1, §9 "retain snapshot
// timing"): if the field is currently Success{v}, carry v; if Loading or
// Failure already carries a retained v, carry that same v; otherwise carry
// nothing.
func retainFrom[T any](cur AsyncT[T]) *T {
	if v, ok := cur.Value(); ok {
		return &v
	}
	if r, ok := cur.Retained(); ok {
		return &r
	}
	return nil
}

// asyncTWire is the §6 tag+payload wire shape used by MarshalJSON/UnmarshalJSON.
type asyncTWire[T any] struct {
	Uninitialized *struct{}       `json:"Uninitialized,omitempty"`
	Loading       *loadingWire[T] `json:"Loading,omitempty"`
	Success       *successWire[T] `json:"Success,omitempty"`
	Failure       *failureWire[T] `json:"Failure,omitempty"`
}

type loadingWire[T any] struct {
	Retained *T `json:"retained"`
}

type successWire[T any] struct {
	Value T `json:"value"`
}

type failureWire[T any] struct {
	Error    errorKindWire `json:"error"`
	Retained *T            `json:"retained"`
}

type errorKindWire struct {
	Kind    string `json:"kind"`
	Message string `json:"message,omitempty"`
}

// MarshalJSON encodes AsyncT using the tag+payload shape documented in
// spec §6: {"Uninitialized":null}, {"Loading":{"retained":...}},
// {"Success":{"value":...}}, {"Failure":{"error":...,"retained":...}}.
func (a AsyncT[T]) MarshalJSON() ([]byte, error) {
	switch a.kind {
	case stateUninitialized:
		return json.Marshal(struct {
			Uninitialized *struct{} `json:"Uninitialized"`
		}{})
	case stateLoading:
		return json.Marshal(struct {
			Loading loadingWire[T] `json:"Loading"`
		}{Loading: loadingWire[T]{Retained: a.retained}})
	case stateSuccess:
		return json.Marshal(struct {
			Success successWire[T] `json:"Success"`
		}{Success: successWire[T]{Value: a.value}})
	case stateFailure:
		msg, _ := a.err.Message()
		return json.Marshal(struct {
			Failure failureWire[T] `json:"Failure"`
		}{Failure: failureWire[T]{
			Error:    errorKindWire{Kind: a.err.Kind().String(), Message: msg},
			Retained: a.retained,
		}})
	default:
		return nil, fmt.Errorf("%s: invalid AsyncT kind %d", Namespace, a.kind)
	}
}

// UnmarshalJSON decodes the wire shape produced by MarshalJSON.
func (a *AsyncT[T]) UnmarshalJSON(data []byte) error {
	var wire asyncTWire[T]
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	switch {
	case wire.Loading != nil:
		*a = AsyncT[T]{kind: stateLoading, retained: wire.Loading.Retained}
	case wire.Success != nil:
		*a = AsyncT[T]{kind: stateSuccess, value: wire.Success.Value}
	case wire.Failure != nil:
		var ek ErrorKind
		switch wire.Failure.Error.Kind {
		case "Cancelled":
			ek = Cancelled()
		case "Timeout":
			ek = Timeout()
		case "Empty":
			ek = Empty()
		default:
			ek = MessageString(wire.Failure.Error.Message)
		}
		*a = AsyncT[T]{kind: stateFailure, err: ek, retained: wire.Failure.Retained}
	default:
		*a = AsyncT[T]{kind: stateUninitialized}
	}
	return nil
}
