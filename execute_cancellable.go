package asyncrx

import (
	"context"
	"time"

	"github.com/ygrebnov/asyncrx/cancel"
)

// contextFromToken derives a context.Context that is cancelled either when
// parent is done or when tok is cancelled, whichever comes first, so an
// async computation can select on ctx.Done() in addition to polling tok
// directly (spec §4.5: "computation receives the token").
func contextFromToken(parent context.Context, tok *cancel.Token) context.Context {
	ctx, stop := context.WithCancel(parent)
	go func() {
		select {
		case <-tok.Cancelled():
			stop()
		case <-ctx.Done():
		}
	}()
	return ctx
}

func safeCallCtxTok[T any](ctx context.Context, tok *cancel.Token, compute func(context.Context, *cancel.Token) (T, error)) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = panicToErr(r)
		}
	}()
	return compute(ctx, tok)
}

// ExecuteCancellable runs compute on a blocking-offload task, giving it a
// fresh cancel.Token. Cancelling the returned token before compute finishes
// yields Failure{Cancelled}; cancelling after the outcome write has been
// applied is ignored (spec §4.5/§9, P7). The token is checked once before
// compute is spawned and once when the worker applies the outcome write,
// never between.
func ExecuteCancellable[S any, T any](h *Handle[S], fold func(S, AsyncT[T]) S, compute func(tok *cancel.Token) (T, error), field ...string) *cancel.Token {
	f := firstField(field)
	tok := cancel.New()
	_ = h.SetState(loadingReducer[S, T](fold, nil, new(*T)))

	if tok.IsCancelled() {
		_ = h.SetState(func(s S) S { return fold(s, FailureOf[T](Cancelled())) })
		return tok
	}

	h.c.rt.SpawnBlocking(func() {
		start := time.Now()
		v, err := safeCallTok(compute, tok)
		h.c.recordComputeDuration(time.Since(start))
		_ = h.SetState(func(s S) S { return fold(s, outcomeValue(v, err, tok, false, nil, "ExecuteCancellable", f)) })
	})
	return tok
}

// ExecuteCancellableWithRetain is ExecuteCancellable, additionally carrying
// the field's prior Success/retained value forward into Loading and any
// Failure.
func ExecuteCancellableWithRetain[S any, T any](h *Handle[S], get func(S) AsyncT[T], fold func(S, AsyncT[T]) S, compute func(tok *cancel.Token) (T, error), field ...string) *cancel.Token {
	f := firstField(field)
	tok := cancel.New()
	var retained *T
	_ = h.SetState(loadingReducer(fold, get, &retained))

	if tok.IsCancelled() {
		_ = h.SetState(func(s S) S {
			if retained != nil {
				return fold(s, FailureWithRetainOf[T](Cancelled(), *retained))
			}
			return fold(s, FailureOf[T](Cancelled()))
		})
		return tok
	}

	h.c.rt.SpawnBlocking(func() {
		start := time.Now()
		v, err := safeCallTok(compute, tok)
		h.c.recordComputeDuration(time.Since(start))
		_ = h.SetState(func(s S) S { return fold(s, outcomeValue(v, err, tok, false, retained, "ExecuteCancellableWithRetain", f)) })
	})
	return tok
}

// ExecuteAsyncCancellable runs compute on a cooperative task, giving it a
// fresh cancel.Token and a context derived from ctx that is also cancelled
// when the token is cancelled.
func ExecuteAsyncCancellable[S any, T any](ctx context.Context, h *Handle[S], fold func(S, AsyncT[T]) S, compute func(context.Context, *cancel.Token) (T, error), field ...string) *cancel.Token {
	f := firstField(field)
	tok := cancel.New()
	_ = h.SetState(loadingReducer[S, T](fold, nil, new(*T)))

	if tok.IsCancelled() {
		_ = h.SetState(func(s S) S { return fold(s, FailureOf[T](Cancelled())) })
		return tok
	}

	computeCtx := contextFromToken(ctx, tok)
	h.c.rt.SpawnCooperative(computeCtx, func(cctx context.Context) {
		start := time.Now()
		v, err := safeCallCtxTok(cctx, tok, compute)
		h.c.recordComputeDuration(time.Since(start))
		_ = h.SetState(func(s S) S { return fold(s, outcomeValue(v, err, tok, false, nil, "ExecuteAsyncCancellable", f)) })
	})
	return tok
}

// ExecuteAsyncCancellableWithRetain is ExecuteAsyncCancellable, additionally
// carrying the field's prior Success/retained value forward into Loading
// and any Failure.
func ExecuteAsyncCancellableWithRetain[S any, T any](ctx context.Context, h *Handle[S], get func(S) AsyncT[T], fold func(S, AsyncT[T]) S, compute func(context.Context, *cancel.Token) (T, error), field ...string) *cancel.Token {
	f := firstField(field)
	tok := cancel.New()
	var retained *T
	_ = h.SetState(loadingReducer(fold, get, &retained))

	if tok.IsCancelled() {
		_ = h.SetState(func(s S) S {
			if retained != nil {
				return fold(s, FailureWithRetainOf[T](Cancelled(), *retained))
			}
			return fold(s, FailureOf[T](Cancelled()))
		})
		return tok
	}

	computeCtx := contextFromToken(ctx, tok)
	h.c.rt.SpawnCooperative(computeCtx, func(cctx context.Context) {
		start := time.Now()
		v, err := safeCallCtxTok(cctx, tok, compute)
		h.c.recordComputeDuration(time.Since(start))
		_ = h.SetState(func(s S) S { return fold(s, outcomeValue(v, err, tok, false, retained, "ExecuteAsyncCancellableWithRetain", f)) })
	})
	return tok
}
