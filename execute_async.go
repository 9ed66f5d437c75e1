package asyncrx

import (
	"context"
	"time"
)

func safeCallCtx[T any](ctx context.Context, compute func(context.Context) (T, error)) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = panicToErr(r)
		}
	}()
	return compute(ctx)
}

// ExecuteAsync runs compute on a cooperative task and folds its outcome
// into S via fold, with no retention of a prior value. field, if given,
// tags a resulting Message failure for ExtractField.
func ExecuteAsync[S any, T any](ctx context.Context, h *Handle[S], fold func(S, AsyncT[T]) S, compute func(context.Context) (T, error), field ...string) {
	f := firstField(field)
	_ = h.SetState(loadingReducer[S, T](fold, nil, new(*T)))
	h.c.rt.SpawnCooperative(ctx, func(cctx context.Context) {
		start := time.Now()
		v, err := safeCallCtx(cctx, compute)
		h.c.recordComputeDuration(time.Since(start))
		_ = h.SetState(func(s S) S { return fold(s, outcomeValue(v, err, nil, false, nil, "ExecuteAsync", f)) })
	})
}

// ExecuteAsyncWithRetain is ExecuteAsync, additionally carrying the field's
// prior Success/retained value forward into Loading and any Failure.
func ExecuteAsyncWithRetain[S any, T any](ctx context.Context, h *Handle[S], get func(S) AsyncT[T], fold func(S, AsyncT[T]) S, compute func(context.Context) (T, error), field ...string) {
	f := firstField(field)
	var retained *T
	_ = h.SetState(loadingReducer(fold, get, &retained))
	h.c.rt.SpawnCooperative(ctx, func(cctx context.Context) {
		start := time.Now()
		v, err := safeCallCtx(cctx, compute)
		h.c.recordComputeDuration(time.Since(start))
		_ = h.SetState(func(s S) S { return fold(s, outcomeValue(v, err, nil, false, retained, "ExecuteAsyncWithRetain", f)) })
	})
}
