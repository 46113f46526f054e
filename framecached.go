// Package framecached provides a Go library for concurrent, coalescing
// video frame decode caching.
//
// A Cache serves GetFrame requests for (path, width, height, frameIndex)
// tuples, decoding through ffmpeg on demand, coalescing overlapping
// requests into shared decode windows, and bounding its own memory
// footprint against a configurable byte budget.
//
// Basic usage:
//
//	c, err := framecached.New(
//	    framecached.WithMaxCacheSizeBytes(2 << 30),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	frame := c.GetFrame(ctx, "input.mkv", 1280, 720, 42)
package framecached

import (
	"context"

	"github.com/five82/framecached/internal/cache"
	"github.com/five82/framecached/internal/config"
	"github.com/five82/framecached/internal/decodeadapter"
	"github.com/five82/framecached/internal/discovery"
	"github.com/five82/framecached/internal/reporter"
	"github.com/five82/framecached/internal/util"
)

// Cache is the main entry point for frame retrieval.
type Cache struct {
	registry *cache.Registry
	cfg      *config.Config
}

// options collects everything an Option can configure. cfg embeds the
// plain tunables; adapter and reporter are held separately since neither
// belongs in the serializable config.
type options struct {
	cfg      *config.Config
	adapter  decodeadapter.Adapter
	reporter reporter.Reporter
}

// Option configures a Cache.
type Option func(*options)

// New creates a new Cache with the given options. With no options it
// defaults to a 4 GiB budget, a 120-frame decode window, and the system
// ffmpeg binary.
func New(opts ...Option) (*Cache, error) {
	o := &options{cfg: config.New()}
	for _, opt := range opts {
		opt(o)
	}

	if o.cfg.MaxCacheSizeBytes == 0 {
		o.cfg.MaxCacheSizeBytes = config.AutoCacheSize(util.AvailableMemoryBytes())
	}

	if err := o.cfg.Validate(); err != nil {
		return nil, err
	}

	if o.adapter == nil {
		o.adapter = decodeadapter.NewFFmpegAdapter()
	}

	registry := cache.NewRegistry(o.adapter, o.cfg, o.reporter)
	return &Cache{registry: registry, cfg: o.cfg}, nil
}

// WithMaxCacheSizeBytes sets the total byte budget shared across every
// decoder the cache creates. A nonzero value below config.MinCacheSizeBytes
// makes New return a validation error; 0 sizes the budget from available
// host memory, as WithAutoCacheSize does.
func WithMaxCacheSizeBytes(bytes uint64) Option {
	return func(o *options) { o.cfg.MaxCacheSizeBytes = bytes }
}

// WithAutoCacheSize sizes the budget as a fraction of currently available
// host memory instead of a fixed byte count.
func WithAutoCacheSize() Option {
	return func(o *options) {
		o.cfg.MaxCacheSizeBytes = config.AutoCacheSize(util.AvailableMemoryBytes())
	}
}

// WithWindowSize sets how many frames a single decode claims ahead of the
// requested index.
func WithWindowSize(frames uint32) Option {
	return func(o *options) { o.cfg.WindowSize = frames }
}

// WithAwaitTimeout sets how long GetFrame waits on a shared handle before
// checking whether stall recovery applies.
func WithAwaitTimeout(secs uint64) Option {
	return func(o *options) { o.cfg.AwaitTimeoutSecs = secs }
}

// WithGCInterval sets how often the background sweeper wakes to check the
// capacity budget.
func WithGCInterval(secs uint64) Option {
	return func(o *options) { o.cfg.GCIntervalSecs = secs }
}

// WithVerbose enables verbose reporter output.
func WithVerbose() Option {
	return func(o *options) { o.cfg.Verbose = true }
}

// WithAdapter overrides the decode adapter used to extract frames.
// Defaults to decodeadapter.NewFFmpegAdapter().
func WithAdapter(adapter decodeadapter.Adapter) Option {
	return func(o *options) { o.adapter = adapter }
}

// WithReporter installs a custom Reporter to receive every cache
// lifecycle event directly, bypassing the EventHandler abstraction.
func WithReporter(rep Reporter) Option {
	return func(o *options) { o.reporter = rep }
}

// WithEventHandler installs an EventHandler that receives cache lifecycle
// events as serializable Event values.
func WithEventHandler(handler EventHandler) Option {
	return func(o *options) {
		if handler != nil {
			o.reporter = newEventReporter(handler)
		}
	}
}

// GetFrame returns the RGBA bytes for frameIndex of the video at path,
// decoded at width x height. It never returns an error: failures resolve
// to an earlier decoded frame or a placeholder frame instead.
func (c *Cache) GetFrame(ctx context.Context, path string, width, height, frameIndex uint32) []byte {
	return c.registry.GetFrame(ctx, path, width, height, frameIndex)
}

// Clear drains every decoder's in-flight work and discards all cached
// frames, resetting current cache usage to zero. The maximum budget is
// left unchanged.
func (c *Cache) Clear(ctx context.Context) error {
	return c.registry.Clear(ctx)
}

// SetMaxCacheSize updates the shared capacity budget.
func (c *Cache) SetMaxCacheSize(bytes uint64) {
	c.registry.SetMaxCacheSize(bytes)
}

// CacheUsage returns the current and maximum byte budgets.
func (c *Cache) CacheUsage() (current, max uint64) {
	return c.registry.CacheUsage()
}

// FindVideos finds video files in a directory, for callers that want to
// warm a cache across an entire library.
func FindVideos(dir string) ([]string, error) {
	return discovery.FindVideoFiles(dir)
}
