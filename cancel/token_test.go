package cancel_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ygrebnov/asyncrx/cancel"
)

func TestToken_IsCancelled_InitiallyFalse(t *testing.T) {
	tok := cancel.New()
	assert.False(t, tok.IsCancelled())
}

func TestToken_Cancel_IsIdempotent(t *testing.T) {
	tok := cancel.New()
	tok.Cancel()
	tok.Cancel()
	assert.True(t, tok.IsCancelled())
}

func TestToken_Cancel_WakesAllWaiters(t *testing.T) {
	tok := cancel.New()

	const n = 8
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			<-tok.Cancelled()
		}()
	}

	time.Sleep(10 * time.Millisecond)
	tok.Cancel()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("not all waiters were woken")
	}
}

func TestToken_CancelledChannel_RemainsClosed(t *testing.T) {
	tok := cancel.New()
	tok.Cancel()
	require.Eventually(t, tok.IsCancelled, time.Second, time.Millisecond)
	// Reading twice from the same closed channel must not block.
	<-tok.Cancelled()
	<-tok.Cancelled()
}
