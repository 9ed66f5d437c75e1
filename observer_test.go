package asyncrx_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ygrebnov/asyncrx"
)

func TestSignal_InitialRead_ThenAdvances(t *testing.T) {
	h := asyncrx.New(counterState{n: 1})
	defer h.Close()

	sig, stop := h.NewSignal()
	defer stop()

	v, ok := sig(context.Background())
	require.True(t, ok)
	assert.Equal(t, 1, v.n)

	require.NoError(t, h.SetState(func(s counterState) counterState { s.n = 2; return s }))

	v, ok = sig(context.Background())
	require.True(t, ok)
	assert.Equal(t, 2, v.n)
}

func TestStream_NextAndStop(t *testing.T) {
	h := asyncrx.New(counterState{n: 1})
	defer h.Close()

	st := h.NewStream()
	_, _ = st.Next(context.Background())
	st.Stop()

	require.NoError(t, h.SetState(func(s counterState) counterState { s.n = 2; return s }))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, ok := st.Next(ctx)
	assert.False(t, ok, "a stopped stream must not observe further writes")
}

func TestStopIf_StopsAfterPredicateMatches(t *testing.T) {
	h := asyncrx.New(counterState{n: 0})
	defer h.Close()

	sig, stop := h.NewSignal()
	defer stop()
	limited := asyncrx.StopIf(sig, func(s counterState) bool { return s.n >= 3 })

	go func() {
		for i := 1; i <= 5; i++ {
			_ = h.SetState(func(s counterState) counterState { s.n++; return s })
		}
	}()

	var last counterState
	for {
		v, ok := limited(context.Background())
		if !ok {
			break
		}
		last = v
		if v.n >= 3 {
			break
		}
	}
	assert.GreaterOrEqual(t, last.n, 3)

	_, ok := limited(context.Background())
	assert.False(t, ok, "StopIf must report done once the predicate has matched")
}

func TestHandle_Close_CompletesSignal(t *testing.T) {
	h := asyncrx.New(counterState{})
	sig, stop := h.NewSignal()
	defer stop()

	_, _ = sig(context.Background())
	h.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, ok := sig(ctx)
	assert.False(t, ok)
}
