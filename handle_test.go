package asyncrx_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ygrebnov/asyncrx"
)

type counterState struct{ n int }

func TestHandle_SetState_FIFO(t *testing.T) {
	h := asyncrx.New(counterState{})
	defer h.Close()

	require.NoError(t, h.SetState(func(s counterState) counterState { s.n++; return s }))
	require.NoError(t, h.SetState(func(s counterState) counterState { s.n *= 10; return s }))
	require.NoError(t, h.SetState(func(s counterState) counterState { s.n -= 3; return s }))

	s, err := h.AwaitState(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, s.n)
}

func TestHandle_NestedSubmission_WritePrecedence(t *testing.T) {
	h := asyncrx.New(counterState{})
	defer h.Close()

	var mu sync.Mutex
	var order []string
	record := func(tag string) {
		mu.Lock()
		order = append(order, tag)
		mu.Unlock()
	}

	done := make(chan struct{})
	require.NoError(t, h.WithState(func(counterState) {
		record("W1")
		_ = h.WithState(func(counterState) {
			record("W2")
			_ = h.SetState(func(s counterState) counterState {
				record("S1")
				return s
			})
		})
	}))

	require.NoError(t, h.WithState(func(counterState) { close(done) }))

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("nested reads never drained")
	}

	// The sentinel read is queued ahead of the nested W2 read, so it can run
	// first. W2 is already queued by now; this read runs after it, and the S1
	// write W2 submits is applied before it by write precedence.
	_, err := h.AwaitState(context.Background())
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, order, 3)
	assert.Equal(t, []string{"W1", "W2", "S1"}, order)
}

func TestHandle_GetState_SnapshotNeverBlocks(t *testing.T) {
	h := asyncrx.New(counterState{n: 5})
	defer h.Close()
	assert.Equal(t, 5, h.GetState().n)
}

func TestHandle_Close_RefcountedAcrossClones(t *testing.T) {
	h := asyncrx.New(counterState{})
	clone := h.Clone()

	h.Close()
	require.NoError(t, clone.SetState(func(s counterState) counterState { return s }))

	clone.Close()
	select {
	case <-h.Done():
	case <-time.After(time.Second):
		t.Fatal("worker never shut down after last Close")
	}
}

func TestHandle_SetState_AfterClose_ReturnsErrClosed(t *testing.T) {
	h := asyncrx.New(counterState{})
	h.Close()

	select {
	case <-h.Done():
	case <-time.After(time.Second):
		t.Fatal("worker never shut down")
	}

	assert.ErrorIs(t, h.SetState(func(s counterState) counterState { return s }), asyncrx.ErrClosed)
	assert.ErrorIs(t, h.WithState(func(counterState) {}), asyncrx.ErrClosed)
}

func TestHandle_ReducerPanic_DoesNotStopWorker(t *testing.T) {
	h := asyncrx.New(counterState{n: 1})
	defer h.Close()

	require.NoError(t, h.SetState(func(counterState) counterState { panic("boom") }))
	require.NoError(t, h.SetState(func(s counterState) counterState { s.n = 9; return s }))

	s, err := h.AwaitState(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 9, s.n)
}
