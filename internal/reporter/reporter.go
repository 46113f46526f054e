// Package reporter defines the cache's event-reporting surface and ships
// null, log-file, and terminal implementations.
package reporter

import "time"

// ReporterError carries a structured error for display by a Reporter.
type ReporterError struct {
	Title      string
	Message    string
	Context    string
	Suggestion string
}

// Reporter receives cache lifecycle events. All methods must be safe to
// call concurrently from multiple goroutines, since decode windows and GC
// sweeps run independently per decoder.
type Reporter interface {
	// WindowScheduled fires when a GetFrame call claims a new decode
	// window and spawns a background decode task for it.
	WindowScheduled(path string, start, end, width, height uint32)

	// FrameDelivered fires when GetFrame returns the requested frame's
	// bytes from its shared handle. The direct single-frame re-decode for
	// a repeat request does not fire it.
	FrameDelivered(path string, frameIndex uint32, bytes int, elapsed time.Duration)

	// StallRecovery fires when GetFrame had to fall back to a previously
	// decoded frame or a placeholder because no decode task was making
	// progress.
	StallRecovery(path string, frameIndex uint32, usedPlaceholder bool)

	// GCSweep fires after a sweeper pass that evicted at least one entry.
	GCSweep(path string, evicted int, bytesFreed uint64)

	// Cleared fires when the registry's Clear completes.
	Cleared(decoders int)

	// Warning reports a non-fatal condition worth surfacing.
	Warning(message string)

	// Error reports a structured error.
	Error(err ReporterError)

	// Verbose reports low-priority diagnostic chatter, shown only when
	// verbose mode is enabled.
	Verbose(message string)
}

// NullReporter discards every event. It is the default when a caller
// doesn't want reporting overhead.
type NullReporter struct{}

func (NullReporter) WindowScheduled(string, uint32, uint32, uint32, uint32) {}
func (NullReporter) FrameDelivered(string, uint32, int, time.Duration)      {}
func (NullReporter) StallRecovery(string, uint32, bool)                    {}
func (NullReporter) GCSweep(string, int, uint64)                           {}
func (NullReporter) Cleared(int)                                           {}
func (NullReporter) Warning(string)                                        {}
func (NullReporter) Error(ReporterError)                                   {}
func (NullReporter) Verbose(string)                                        {}

// CompositeReporter fans every event out to multiple reporters in order.
type CompositeReporter struct {
	reporters []Reporter
}

// NewCompositeReporter combines reporters so every event reaches all of
// them.
func NewCompositeReporter(reporters ...Reporter) *CompositeReporter {
	return &CompositeReporter{reporters: reporters}
}

func (c *CompositeReporter) WindowScheduled(path string, start, end, width, height uint32) {
	for _, r := range c.reporters {
		r.WindowScheduled(path, start, end, width, height)
	}
}

func (c *CompositeReporter) FrameDelivered(path string, frameIndex uint32, bytes int, elapsed time.Duration) {
	for _, r := range c.reporters {
		r.FrameDelivered(path, frameIndex, bytes, elapsed)
	}
}

func (c *CompositeReporter) StallRecovery(path string, frameIndex uint32, usedPlaceholder bool) {
	for _, r := range c.reporters {
		r.StallRecovery(path, frameIndex, usedPlaceholder)
	}
}

func (c *CompositeReporter) GCSweep(path string, evicted int, bytesFreed uint64) {
	for _, r := range c.reporters {
		r.GCSweep(path, evicted, bytesFreed)
	}
}

func (c *CompositeReporter) Cleared(decoders int) {
	for _, r := range c.reporters {
		r.Cleared(decoders)
	}
}

func (c *CompositeReporter) Warning(message string) {
	for _, r := range c.reporters {
		r.Warning(message)
	}
}

func (c *CompositeReporter) Error(err ReporterError) {
	for _, r := range c.reporters {
		r.Error(err)
	}
}

func (c *CompositeReporter) Verbose(message string) {
	for _, r := range c.reporters {
		r.Verbose(message)
	}
}
