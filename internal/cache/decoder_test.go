package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/five82/framecached/internal/config"
	"github.com/five82/framecached/internal/decodeadapter"
	"github.com/five82/framecached/internal/reporter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAdapter is a deterministic decodeadapter.Adapter for tests: every
// call is recorded, and behavior (delay, error, frame content, blocking)
// is fully controlled by the test.
type fakeAdapter struct {
	mu    sync.Mutex
	calls []fakeCall

	delay      time.Duration
	err        error
	block      chan struct{} // if non-nil, ExtractWindow blocks on it until closed
	frameBytes func(idx uint32) []byte
}

type fakeCall struct {
	start, end uint32
}

func newFakeAdapter() *fakeAdapter {
	return &fakeAdapter{
		frameBytes: func(idx uint32) []byte {
			return []byte(fmt.Sprintf("frame-%d", idx))
		},
	}
}

func (f *fakeAdapter) ExtractWindow(ctx context.Context, path string, start, endInclusive, width, height uint32) ([]decodeadapter.WindowFrame, error) {
	f.mu.Lock()
	f.calls = append(f.calls, fakeCall{start, endInclusive})
	f.mu.Unlock()

	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.err != nil {
		return nil, f.err
	}

	frames := make([]decodeadapter.WindowFrame, 0, endInclusive-start+1)
	for i := start; i <= endInclusive; i++ {
		frames = append(frames, decodeadapter.WindowFrame{Index: i, RGBA: f.frameBytes(i)})
	}
	return frames, nil
}

func (f *fakeAdapter) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func testConfig() *config.Config {
	cfg := config.New()
	cfg.WindowSize = 120
	cfg.AwaitTimeoutSecs = 1
	cfg.GCIntervalSecs = 3600 // tests drive GC manually via sweepOnce
	return cfg
}

func newTestDecoder(adapter decodeadapter.Adapter, cfg *config.Config, capBytes uint64) *CachedDecoder {
	d := newCachedDecoder(DecoderKey{Path: "video.mkv", Width: 64, Height: 48}, adapter, cfg, NewCapacity(capBytes), reporter.NullReporter{})
	return d
}

func TestGetFrameBasicDelivery(t *testing.T) {
	adapter := newFakeAdapter()
	d := newTestDecoder(adapter, testConfig(), 1<<30)
	defer d.Stop()

	got := d.GetFrame(context.Background(), 5)
	assert.Equal(t, []byte("frame-5"), got)
}

func TestGetFrameCoalescesConcurrentRequests(t *testing.T) {
	adapter := newFakeAdapter()
	adapter.block = make(chan struct{})
	cfg := testConfig()
	cfg.WindowSize = 10
	d := newTestDecoder(adapter, cfg, 1<<30)
	defer d.Stop()

	var wg sync.WaitGroup
	results := make([][]byte, 3)
	fetch := func(i int, idx uint32) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = d.GetFrame(context.Background(), idx)
		}()
	}

	// Frame 0 claims the window [0, 9] first; requests for 1 and 2 arrive
	// while that decode is still in flight. A window stops at the first
	// already-claimed index, so the first claim is made deterministic here.
	fetch(0, 0)
	require.Eventually(t, func() bool { return adapter.callCount() == 1 }, time.Second, time.Millisecond)
	fetch(1, 1)
	fetch(2, 2)
	close(adapter.block)
	wg.Wait()

	assert.Equal(t, []byte("frame-0"), results[0])
	assert.Equal(t, []byte("frame-1"), results[1])
	assert.Equal(t, []byte("frame-2"), results[2])
	assert.Equal(t, 1, adapter.callCount(), "adjacent fresh requests should coalesce into one decode window")
}

func TestGetFrameReRequestTakesDirectPath(t *testing.T) {
	adapter := newFakeAdapter()
	d := newTestDecoder(adapter, testConfig(), 1<<30)
	defer d.Stop()

	first := d.GetFrame(context.Background(), 3)
	require.Equal(t, []byte("frame-3"), first)
	require.Equal(t, 1, adapter.callCount())

	second := d.GetFrame(context.Background(), 3)
	assert.Equal(t, []byte("frame-3"), second)
	assert.Equal(t, 2, adapter.callCount(), "a repeat request should trigger its own single-frame decode")

	last := adapter.calls[len(adapter.calls)-1]
	assert.Equal(t, uint32(3), last.start)
	assert.Equal(t, uint32(3), last.end)
}

func TestGetFrameNonZeroIndexReleasesCapacityAfterDelivery(t *testing.T) {
	adapter := newFakeAdapter()
	cfg := testConfig()
	cfg.WindowSize = 1 // frame 7 is the only frame the window accounts for
	d := newTestDecoder(adapter, cfg, 1<<30)
	defer d.Stop()

	d.GetFrame(context.Background(), 7)

	d.framesMu.RLock()
	_, stillCached := d.frames[7]
	d.framesMu.RUnlock()
	assert.False(t, stillCached, "frame 7's handle should be released after delivery")

	current, _ := d.capacity.Usage()
	assert.Equal(t, uint64(0), current)
}

func TestGetFrameZeroIndexIsExemptFromRelease(t *testing.T) {
	adapter := newFakeAdapter()
	d := newTestDecoder(adapter, testConfig(), 1<<30)
	defer d.Stop()

	d.GetFrame(context.Background(), 0)

	d.framesMu.RLock()
	_, stillCached := d.frames[0]
	d.framesMu.RUnlock()
	assert.True(t, stillCached, "frame 0's handle must survive delivery")
}

func TestGetFrameStallRecoveryReusesPriorFrame(t *testing.T) {
	adapter := newFakeAdapter()
	cfg := testConfig()
	cfg.AwaitTimeoutSecs = 1
	d := newTestDecoder(adapter, cfg, 1<<30)
	defer d.Stop()

	// Seed frame 0 as already resolved and exempt from release.
	d.GetFrame(context.Background(), 0)

	// d2's adapter would block forever, but it is never called: index 5 is
	// marked claimed below, so GetFrame schedules no window for it.
	adapter2 := newFakeAdapter()
	adapter2.block = make(chan struct{})
	d2 := newTestDecoder(adapter2, cfg, 1<<30)
	defer d2.Stop()
	// Seed index 0 on d2 too, so the walk-back has something to find.
	d2.framesMu.Lock()
	d2.frames[0] = NewResolvedHandle([]byte("frame-0"))
	d2.framesMu.Unlock()

	// Mark index 5 as claimed without counting a running decode task, as if
	// its decode had already given up (e.g. adapter error) while the handle
	// is still unresolved. With no decode running, the first await timeout
	// leads straight into stall recovery.
	d2.decodingMu.Lock()
	d2.decodingFrames[5] = struct{}{}
	d2.decodingMu.Unlock()
	d2.getOrCreateHandle(5) // create the pending handle the way Phase C would

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	got := d2.GetFrame(ctx, 5)
	assert.Equal(t, []byte("frame-0"), got)
}

func TestSweepOnceEvictsHighestIndexNoneStateEntriesFirst(t *testing.T) {
	adapter := newFakeAdapter()
	cfg := testConfig()
	d := newTestDecoder(adapter, cfg, 1<<30)
	defer d.Stop()

	// Seed three resolved, released-state (None) handles directly.
	d.framesMu.Lock()
	d.frames[1] = NewResolvedHandle(make([]byte, 10))
	d.frames[2] = NewResolvedHandle(make([]byte, 10))
	d.frames[3] = NewResolvedHandle(make([]byte, 10))
	d.framesMu.Unlock()
	// Force over-budget so sweepOnce has something to do.
	d.capacity = NewCapacity(20)
	d.capacity.Add(30)

	d.sweepOnce()

	d.framesMu.RLock()
	_, has3 := d.frames[3]
	d.framesMu.RUnlock()
	assert.False(t, has3, "descending sweep should evict the highest index first")
}

func TestSweepOnceSkipsNonNoneStates(t *testing.T) {
	adapter := newFakeAdapter()
	d := newTestDecoder(adapter, testConfig(), 1<<30)
	defer d.Stop()

	d.framesMu.Lock()
	d.frames[1] = NewResolvedHandle(make([]byte, 10))
	d.framesMu.Unlock()
	d.statesMu.Lock()
	d.frameStates[1] = FrameStateWait
	d.statesMu.Unlock()
	d.capacity = NewCapacity(5)
	d.capacity.Add(10)

	d.sweepOnce()

	d.framesMu.RLock()
	_, stillThere := d.frames[1]
	d.framesMu.RUnlock()
	assert.True(t, stillThere, "a frame in Wait state must not be evicted")
}

func TestGetFrameAdapterErrorFallsBackToEmptyFrame(t *testing.T) {
	adapter := newFakeAdapter()
	adapter.err = assert.AnError
	cfg := testConfig()
	cfg.AwaitTimeoutSecs = 1
	d := newTestDecoder(adapter, cfg, 1<<30)
	defer d.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	got := d.GetFrame(ctx, 9)
	assert.Len(t, got, 64*48*4)
	assert.Equal(t, byte(255), got[0], "placeholder frame is opaque red")
}
