package asyncrx

import (
	"context"
	"sync"
	"time"

	"github.com/ygrebnov/asyncrx/cancel"
)

// terminalOnce guards the single terminal write a timeout variant is allowed
// to make (spec P5: the field's transitions for one call are a prefix of
// [prior, Loading, terminal]). Two goroutines race to fire it — the internal
// timer and the compute task's completion — and whichever calls write first
// wins; the loser's write is dropped. This is what lets a timeout preempt a
// computation that never checks its token: the timer's own write does not
// wait for compute to return (spec §8 P8, "no later than duration + ε").
type terminalOnce struct{ once sync.Once }

func (g *terminalOnce) fire(write func()) {
	g.once.Do(write)
}

// ExecuteWithTimeout is a cancellable execution whose token is cancelled
// internally by a runtime timer after d elapses, never exposed to the
// caller (spec §4.5: "timeout is implemented as a cancellable execution").
// A computation that returns before d elapses yields its natural outcome; a
// timer win yields Failure{Timeout} — issued by the timer itself, so a
// computation that never checks tok still loses the race within d+ε instead
// of leaving the field stuck in Loading until compute eventually returns
// (spec §8 P8).
func ExecuteWithTimeout[S any, T any](h *Handle[S], fold func(S, AsyncT[T]) S, d time.Duration, compute func(tok *cancel.Token) (T, error), field ...string) {
	f := firstField(field)
	tok := cancel.New()
	timerCtx, stopTimer := context.WithCancel(context.Background())
	terminal := &terminalOnce{}

	_ = h.SetState(loadingReducer[S, T](fold, nil, new(*T)))

	go func() {
		<-h.c.rt.Sleep(timerCtx, d)
		if timerCtx.Err() != nil {
			return
		}
		tok.Cancel()
		terminal.fire(func() {
			_ = h.SetState(func(s S) S { return fold(s, FailureOf[T](Timeout())) })
		})
	}()

	h.c.rt.SpawnBlocking(func() {
		start := time.Now()
		v, err := safeCallTok(compute, tok)
		h.c.recordComputeDuration(time.Since(start))
		stopTimer()
		terminal.fire(func() {
			_ = h.SetState(func(s S) S { return fold(s, outcomeValue(v, err, tok, true, nil, "ExecuteWithTimeout", f)) })
		})
	})
}

// ExecuteAsyncWithTimeout is ExecuteWithTimeout for a cooperative-task
// computation, receiving a context additionally cancelled by the internal
// timer. As with the sync variant, the timer fires its own Failure{Timeout}
// write the instant d elapses rather than waiting on the compute task.
func ExecuteAsyncWithTimeout[S any, T any](ctx context.Context, h *Handle[S], fold func(S, AsyncT[T]) S, d time.Duration, compute func(context.Context, *cancel.Token) (T, error), field ...string) {
	f := firstField(field)
	tok := cancel.New()
	timerCtx, stopTimer := context.WithCancel(context.Background())
	terminal := &terminalOnce{}

	_ = h.SetState(loadingReducer[S, T](fold, nil, new(*T)))

	go func() {
		<-h.c.rt.Sleep(timerCtx, d)
		if timerCtx.Err() != nil {
			return
		}
		tok.Cancel()
		terminal.fire(func() {
			_ = h.SetState(func(s S) S { return fold(s, FailureOf[T](Timeout())) })
		})
	}()

	computeCtx := contextFromToken(ctx, tok)
	h.c.rt.SpawnCooperative(computeCtx, func(cctx context.Context) {
		start := time.Now()
		v, err := safeCallCtxTok(cctx, tok, compute)
		h.c.recordComputeDuration(time.Since(start))
		stopTimer()
		terminal.fire(func() {
			_ = h.SetState(func(s S) S { return fold(s, outcomeValue(v, err, tok, true, nil, "ExecuteAsyncWithTimeout", f)) })
		})
	})
}
