package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleAwaitBlocksUntilComplete(t *testing.T) {
	h := NewHandle()

	var wg sync.WaitGroup
	results := make([][]byte, 4)
	for i := range results {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, ok, err := h.Await(context.Background(), time.Second)
			require.NoError(t, err)
			require.True(t, ok)
			results[i] = v
		}()
	}

	time.Sleep(10 * time.Millisecond) // let goroutines register as waiters
	h.Complete([]byte("payload"))
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, []byte("payload"), r)
	}
}

func TestHandleCompleteIsOnceOnly(t *testing.T) {
	h := NewHandle()
	h.Complete([]byte("first"))
	h.Complete([]byte("second"))

	v, ok := h.GetNow()
	require.True(t, ok)
	assert.Equal(t, []byte("first"), v)
}

func TestHandleAwaitTimesOutWithoutCompletion(t *testing.T) {
	h := NewHandle()
	v, ok, err := h.Await(context.Background(), 10*time.Millisecond)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, v)
}

func TestHandleAwaitRespectsCancellation(t *testing.T) {
	h := NewHandle()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, ok, err := h.Await(ctx, time.Second)
	assert.False(t, ok)
	assert.Error(t, err)
}

func TestNewResolvedHandleGetNow(t *testing.T) {
	h := NewResolvedHandle([]byte("x"))
	v, ok := h.GetNow()
	require.True(t, ok)
	assert.Equal(t, []byte("x"), v)
}
