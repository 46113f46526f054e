package cache

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/five82/framecached/internal/config"
	"github.com/five82/framecached/internal/decodeadapter"
	"github.com/five82/framecached/internal/emptyframe"
	"github.com/five82/framecached/internal/reporter"
)

// FrameState records a frame's request history: it has never been
// requested (None), it has been requested at least once (Wait), or the GC
// sweeper evicted it before any request (Drop).
type FrameState int

const (
	FrameStateNone FrameState = iota
	FrameStateWait
	FrameStateDrop
)

// DecoderKey identifies a decoder by the video it decodes and the output
// geometry it decodes at - the same source file requested at two
// resolutions gets two independent decoders.
type DecoderKey struct {
	Path   string
	Width  uint32
	Height uint32
}

// CachedDecoder serves GetFrame requests for one DecoderKey, coalescing
// overlapping requests into shared decode windows and bounding its own
// memory footprint via a background sweeper.
type CachedDecoder struct {
	key      DecoderKey
	adapter  decodeadapter.Adapter
	cfg      *config.Config
	capacity *Capacity
	reporter reporter.Reporter

	framesMu sync.RWMutex
	frames   map[uint32]*Handle

	statesMu    sync.Mutex
	frameStates map[uint32]FrameState

	decodingMu     sync.Mutex
	decodingFrames map[uint32]struct{}

	runningDecodeTasks atomic.Int64

	stopOnce sync.Once
	stopCh   chan struct{}
}

func newCachedDecoder(key DecoderKey, adapter decodeadapter.Adapter, cfg *config.Config, capacity *Capacity, rep reporter.Reporter) *CachedDecoder {
	d := &CachedDecoder{
		key:            key,
		adapter:        adapter,
		cfg:            cfg,
		capacity:       capacity,
		reporter:       rep,
		frames:         make(map[uint32]*Handle),
		frameStates:    make(map[uint32]FrameState),
		decodingFrames: make(map[uint32]struct{}),
		stopCh:         make(chan struct{}),
	}
	go d.runGC()
	return d
}

// Stop shuts down the decoder's background GC sweeper. It does not cancel
// in-flight decode tasks; callers drain those separately (see
// Registry.Clear).
func (d *CachedDecoder) Stop() {
	d.stopOnce.Do(func() { close(d.stopCh) })
}

// RunningDecodeTasks reports how many background decode windows are
// currently in flight for this decoder.
func (d *CachedDecoder) RunningDecodeTasks() int64 {
	return d.runningDecodeTasks.Load()
}

// GetFrame implements the four-phase algorithm: claim a decode window if
// frameIndex isn't already being decoded, detect whether this is a
// re-request of a frame whose handle already came and went, await the
// shared handle (falling back to stall recovery if nothing is making
// progress), and finally release the handle's cache slot.
//
// GetFrame never returns an error, per the cache's liveness guarantee: a
// cancelled context resolves to a placeholder frame, and a decode failure
// or adapter error resolves to an earlier resolved frame found by stall
// recovery, or to a placeholder frame when there is none.
func (d *CachedDecoder) GetFrame(ctx context.Context, frameIndex uint32) []byte {
	started := time.Now()

	d.claimWindow(frameIndex)

	if frame, handled := d.handleReRequest(ctx, frameIndex); handled {
		return frame
	}

	handle := d.getOrCreateHandle(frameIndex)
	timeout := time.Duration(d.cfg.AwaitTimeoutSecs) * time.Second

	for {
		value, ok, err := handle.Await(ctx, timeout)
		if err != nil {
			return emptyframe.Generate(d.key.Width, d.key.Height)
		}
		if ok {
			result := d.deliver(frameIndex, value)
			d.reporter.FrameDelivered(d.key.Path, frameIndex, len(result), time.Since(started))
			return result
		}
		if d.runningDecodeTasks.Load() > 0 {
			continue
		}
		if recovered, found := d.stallRecoveryFrame(frameIndex); found {
			d.reporter.StallRecovery(d.key.Path, frameIndex, false)
			return recovered
		}
		d.reporter.StallRecovery(d.key.Path, frameIndex, true)
		return emptyframe.Generate(d.key.Width, d.key.Height)
	}
}

// claimWindow is Phase A: if frameIndex is not already being decoded,
// claim it and the indices after it, stopping before the first index that
// is already claimed and at WindowSize indices in total, then spawn a
// background decode for the whole window.
func (d *CachedDecoder) claimWindow(frameIndex uint32) {
	d.decodingMu.Lock()
	if _, claimed := d.decodingFrames[frameIndex]; claimed {
		d.decodingMu.Unlock()
		return
	}

	last := frameIndex
	for i := frameIndex + 1; i < frameIndex+d.cfg.WindowSize; i++ {
		if _, claimed := d.decodingFrames[i]; claimed {
			break
		}
		last = i
	}
	for i := frameIndex; i <= last; i++ {
		d.decodingFrames[i] = struct{}{}
	}
	d.runningDecodeTasks.Add(1)
	d.decodingMu.Unlock()

	d.reporter.WindowScheduled(d.key.Path, frameIndex, last, d.key.Width, d.key.Height)
	go d.decodeWindow(frameIndex, last)
}

// handleReRequest is Phase B: a frame whose state is already Wait or Drop
// means this decoder already answered it once and nothing will fill its
// handle again, so serve it with a direct, synchronous single-frame
// decode instead of waiting on the shared window machinery.
func (d *CachedDecoder) handleReRequest(ctx context.Context, frameIndex uint32) (frame []byte, handled bool) {
	d.statesMu.Lock()
	prev := d.frameStates[frameIndex]
	d.frameStates[frameIndex] = FrameStateWait
	d.statesMu.Unlock()

	if prev != FrameStateDrop && prev != FrameStateWait {
		return nil, false
	}

	frames, err := d.adapter.ExtractWindow(ctx, d.key.Path, frameIndex, frameIndex, d.key.Width, d.key.Height)
	if err != nil || len(frames) == 0 {
		return emptyframe.Generate(d.key.Width, d.key.Height), true
	}
	return frames[0].RGBA, true
}

// decodeWindow runs as a background goroutine per claimed window. Adapter
// errors are treated as the spec's conservative resolution of the
// software re-decode open question: waiters simply never see their handle
// resolve and fall through to stall recovery instead of an error path.
func (d *CachedDecoder) decodeWindow(start, end uint32) {
	defer d.runningDecodeTasks.Add(-1)

	frames, err := d.adapter.ExtractWindow(context.Background(), d.key.Path, start, end, d.key.Width, d.key.Height)
	if err != nil {
		d.reporter.Warning("decode window failed, waiters will fall back to stall recovery")
		return
	}

	type pending struct {
		handle *Handle
		frame  decodeadapter.WindowFrame
	}
	toComplete := make([]pending, 0, len(frames))

	d.framesMu.Lock()
	for _, f := range frames {
		toComplete = append(toComplete, pending{handle: d.getOrCreateHandleLocked(f.Index), frame: f})
	}
	d.framesMu.Unlock()

	for _, p := range toComplete {
		d.capacity.Add(uint64(len(p.frame.RGBA)))
		p.handle.Complete(p.frame.RGBA)
	}
}

func (d *CachedDecoder) getOrCreateHandle(frameIndex uint32) *Handle {
	d.framesMu.Lock()
	defer d.framesMu.Unlock()
	return d.getOrCreateHandleLocked(frameIndex)
}

func (d *CachedDecoder) getOrCreateHandleLocked(frameIndex uint32) *Handle {
	if h, ok := d.frames[frameIndex]; ok {
		return h
	}
	h := NewHandle()
	d.frames[frameIndex] = h
	return h
}

// deliver is Phase D: release the cache slot for frameIndex once its own
// handle resolves. Frame 0 is deliberately exempt - the front end
// repeatedly re-requests it during initialization, and evicting it would
// leave later identical requests with nothing to await and no decode in
// flight to fill it.
func (d *CachedDecoder) deliver(frameIndex uint32, value []byte) []byte {
	if frameIndex == 0 {
		return value
	}
	d.framesMu.Lock()
	delete(d.frames, frameIndex)
	d.framesMu.Unlock()
	d.capacity.Sub(uint64(len(value)))
	return value
}

// stallRecoveryFrame walks backward from frameIndex-1 looking for any
// already-resolved handle to reuse as a stand-in, stopping once it has
// checked index 0. This never touches frameIndex's own cache slot or
// capacity accounting, since the bytes it returns belong to a different
// frame's entry, which remains exactly as it was.
func (d *CachedDecoder) stallRecoveryFrame(frameIndex uint32) ([]byte, bool) {
	if frameIndex == 0 {
		return nil, false
	}
	for idx := frameIndex - 1; ; idx-- {
		d.framesMu.RLock()
		h, ok := d.frames[idx]
		d.framesMu.RUnlock()
		if ok {
			if v, resolved := h.GetNow(); resolved {
				return v, true
			}
		}
		if idx == 0 {
			return nil, false
		}
	}
}

// runGC sweeps descending frame indices, evicting resolved handles whose
// state is still None, until usage drops back under budget or nothing is
// left to evict. It sleeps GCIntervalSecs between every pass regardless of
// whether the last pass evicted anything, matching the original's
// unconditional per-iteration sleep.
//
// Frame 0's handle can never be evicted here once its state has moved to
// Wait: eviction requires state None, and Phase B sets state to Wait on
// every request including the first. This mirrors a latent quirk in the
// original design rather than a bug introduced here - see DESIGN.md.
func (d *CachedDecoder) runGC() {
	interval := time.Duration(d.cfg.GCIntervalSecs) * time.Second
	for {
		select {
		case <-d.stopCh:
			return
		case <-time.After(interval):
		}
		if !d.capacity.OverBudget() {
			continue
		}
		d.sweepOnce()
	}
}

func (d *CachedDecoder) sweepOnce() {
	d.framesMu.Lock()
	defer d.framesMu.Unlock()

	indices := make([]uint32, 0, len(d.frames))
	for idx := range d.frames {
		indices = append(indices, idx)
	}
	sort.Slice(indices, func(i, j int) bool { return indices[i] > indices[j] })

	evicted := 0
	var freed uint64
	for _, idx := range indices {
		d.statesMu.Lock()
		state := d.frameStates[idx]
		d.statesMu.Unlock()
		if state != FrameStateNone {
			continue
		}

		h := d.frames[idx]
		value, resolved := h.GetNow()
		if !resolved {
			continue
		}

		delete(d.frames, idx)
		d.statesMu.Lock()
		d.frameStates[idx] = FrameStateDrop
		d.statesMu.Unlock()
		d.capacity.Sub(uint64(len(value)))
		evicted++
		freed += uint64(len(value))

		if !d.capacity.OverBudget() {
			break
		}
	}

	if evicted > 0 {
		d.reporter.GCSweep(d.key.Path, evicted, freed)
	}
}
