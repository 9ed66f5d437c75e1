package asyncrx

import (
	"errors"
	"fmt"
	"time"

	"github.com/ygrebnov/asyncrx/cancel"
)

// Each Execute* combinator drives the three-phase write sequence of spec
// §4.5 against a Handle: a loading write, a compute step run on the
// runtime, and an outcome write. fold is the single reducer supplied by the
// caller that places a new AsyncT[T] into S at whichever field the caller
// chooses; it is reused, unchanged, for both the loading and outcome
// writes. get, when non-nil, is the retain-variant field accessor used to
// read the field's value at loading-write time.
//
// There is no teacher equivalent of this three-phase protocol; it is built
// directly from spec §4.5/§9, using runtime.Runtime and cancel.Token as its
// only collaborators (see DESIGN.md). The small helper functions below
// exist so the eight exported variants plus the two timeout wrappers stay
// thin, matching the teacher's one-small-function-per-task-variant style
// in task.go.

// panicToErr converts a recovered panic value into an error, grounded on
// the teacher's worker.execute recover idiom (worker.go).
func panicToErr(r interface{}) error {
	return fmt.Errorf("%s: computation panicked: %v", Namespace, r)
}

// safeCall0 runs compute, recovering a panic into an error rather than
// letting it escape the blocking-offload goroutine.
func safeCall0[T any](compute func() (T, error)) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = panicToErr(r)
		}
	}()
	return compute()
}

func safeCallTok[T any](compute func(tok *cancel.Token) (T, error), tok *cancel.Token) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = panicToErr(r)
		}
	}()
	return compute(tok)
}

// loadingReducer builds the reducer submitted as the loading write. When get
// is non-nil (a retain variant), it captures the retained value visible at
// the moment this reducer runs on the worker into *capture, per §9's "retain
// snapshot timing" rule.
func loadingReducer[S any, T any](fold func(S, AsyncT[T]) S, get func(S) AsyncT[T], capture **T) func(S) S {
	if get == nil {
		return func(s S) S { return fold(s, LoadingOf[T]()) }
	}
	return func(s S) S {
		r := retainFrom(get(s))
		*capture = r
		if r != nil {
			return fold(s, LoadingWithRetainOf[T](*r))
		}
		return fold(s, LoadingOf[T]())
	}
}

// outcomeValue lifts a computation's (value, error) result into an AsyncT[T]
// per §4.5's outcome-lifting rules. tok is nil for non-cancellable variants;
// a cancelled tok yields a Failure even when compute returned no error.
// timeoutMode reclassifies a tok-cancelled failure as Timeout instead of
// Cancelled, for the _with_timeout wrappers whose internal token is only
// ever cancelled by the timer. retained, if non-nil, is threaded into the
// Failure case unchanged (captured at loading-write time, never recomputed
// here, per §9). phase and field tag a Message failure with FieldError
// correlation metadata (field_error.go); field is optional and empty when
// the caller didn't supply one.
func outcomeValue[T any](v T, err error, tok *cancel.Token, timeoutMode bool, retained *T, phase, field string) AsyncT[T] {
	var kind ErrorKind
	switch {
	case tok != nil && tok.IsCancelled():
		if timeoutMode {
			kind = Timeout()
		} else {
			kind = Cancelled()
		}
	case err == nil:
		return SuccessOf(v)
	case errors.Is(err, ErrEmptyResult):
		kind = Empty()
	default:
		kind = Message(newFieldError(err, field, phase))
	}

	if retained != nil {
		return FailureWithRetainOf[T](kind, *retained)
	}
	return FailureOf[T](kind)
}

func firstField(field []string) string {
	if len(field) == 0 {
		return ""
	}
	return field[0]
}

// Execute runs compute on a blocking-offload task and folds its outcome
// into S via fold, with no retention of a prior value. field, if given,
// tags a resulting Message failure for ExtractField.
func Execute[S any, T any](h *Handle[S], fold func(S, AsyncT[T]) S, compute func() (T, error), field ...string) {
	f := firstField(field)
	_ = h.SetState(loadingReducer[S, T](fold, nil, new(*T)))
	h.c.rt.SpawnBlocking(func() {
		start := time.Now()
		v, err := safeCall0(compute)
		h.c.recordComputeDuration(time.Since(start))
		_ = h.SetState(func(s S) S { return fold(s, outcomeValue(v, err, nil, false, nil, "Execute", f)) })
	})
}

// ExecuteWithRetain is Execute, additionally carrying the field's prior
// Success/retained value forward into Loading and any Failure (spec §4.5
// rule 1, §9).
func ExecuteWithRetain[S any, T any](h *Handle[S], get func(S) AsyncT[T], fold func(S, AsyncT[T]) S, compute func() (T, error), field ...string) {
	f := firstField(field)
	var retained *T
	_ = h.SetState(loadingReducer(fold, get, &retained))
	h.c.rt.SpawnBlocking(func() {
		start := time.Now()
		v, err := safeCall0(compute)
		h.c.recordComputeDuration(time.Since(start))
		_ = h.SetState(func(s S) S { return fold(s, outcomeValue(v, err, nil, false, retained, "ExecuteWithRetain", f)) })
	})
}
