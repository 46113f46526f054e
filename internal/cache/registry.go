// Package cache implements the concurrent, coalescing frame decode cache:
// a Registry of CachedDecoders, each serving GetFrame requests for one
// (path, width, height) key by claiming sliding decode windows, sharing
// in-flight work through Handles, and bounding memory via a background
// sweeper against a shared Capacity budget.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/five82/framecached/internal/config"
	"github.com/five82/framecached/internal/decodeadapter"
	"github.com/five82/framecached/internal/reporter"
	"golang.org/x/sync/errgroup"
)

// Registry owns every CachedDecoder in one cache instance and the capacity
// budget they share.
type Registry struct {
	mu       sync.Mutex
	decoders map[DecoderKey]*CachedDecoder

	adapter  decodeadapter.Adapter
	cfg      *config.Config
	capacity *Capacity
	reporter reporter.Reporter
}

// NewRegistry creates an empty registry budgeted at cfg.MaxCacheSizeBytes.
// A nil reporter is replaced with reporter.NullReporter{} so decoder code
// never has to nil-check it.
func NewRegistry(adapter decodeadapter.Adapter, cfg *config.Config, rep reporter.Reporter) *Registry {
	if rep == nil {
		rep = reporter.NullReporter{}
	}
	return &Registry{
		decoders: make(map[DecoderKey]*CachedDecoder),
		adapter:  adapter,
		cfg:      cfg,
		capacity: NewCapacity(cfg.MaxCacheSizeBytes),
		reporter: rep,
	}
}

// CachedDecoder returns the decoder for key, creating it if this is the
// first request for that (path, width, height) combination.
func (r *Registry) CachedDecoder(key DecoderKey) *CachedDecoder {
	r.mu.Lock()
	defer r.mu.Unlock()

	if d, ok := r.decoders[key]; ok {
		return d
	}
	d := newCachedDecoder(key, r.adapter, r.cfg, r.capacity, r.reporter)
	r.decoders[key] = d
	return d
}

// GetFrame is the registry-level convenience entry point: resolve (or
// create) the decoder for the given geometry, then ask it for a frame.
func (r *Registry) GetFrame(ctx context.Context, path string, width, height, frameIndex uint32) []byte {
	d := r.CachedDecoder(DecoderKey{Path: path, Width: width, Height: height})
	return d.GetFrame(ctx, frameIndex)
}

// Clear drains and discards every decoder. It swaps the decoder map for an
// empty one first (so no new GetFrame call can observe a decoder mid-drain)
// then waits, concurrently per decoder, for each one's in-flight decode
// tasks to finish before resetting current capacity usage to zero. This is a
// drain, not an abort: in-flight ffmpeg processes run to completion, their
// results are simply discarded once nothing references the handles they
// would have resolved.
func (r *Registry) Clear(ctx context.Context) error {
	r.mu.Lock()
	removed := r.decoders
	r.decoders = make(map[DecoderKey]*CachedDecoder)
	r.mu.Unlock()

	pollInterval := time.Duration(r.cfg.ClearPollIntervalMillis) * time.Millisecond

	g, gctx := errgroup.WithContext(ctx)
	for _, d := range removed {
		d := d
		g.Go(func() error {
			d.drain(gctx, pollInterval)
			d.Stop()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	r.capacity.Reset()
	r.reporter.Cleared(len(removed))
	return nil
}

// SetMaxCacheSize updates the shared capacity budget, clamped to
// MinBudgetBytes.
func (r *Registry) SetMaxCacheSize(bytes uint64) {
	r.capacity.SetMax(bytes)
}

// CacheUsage returns the current and maximum byte budgets.
func (r *Registry) CacheUsage() (current, max uint64) {
	return r.capacity.Usage()
}

// drain polls RunningDecodeTasks at pollInterval until it reaches zero or
// ctx is done, matching the original's 50ms poll loop per evicted decoder.
func (d *CachedDecoder) drain(ctx context.Context, pollInterval time.Duration) {
	if d.RunningDecodeTasks() == 0 {
		return
	}
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for d.RunningDecodeTasks() > 0 {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
