// Package framecached provides a Go library for concurrent, coalescing
// video frame decode caching.
package framecached

import (
	"time"

	"github.com/five82/framecached/internal/reporter"
)

// Event types for external integrations that consume serialized events
// rather than a Go Reporter implementation.
const (
	EventTypeWindowScheduled = "window_scheduled"
	EventTypeFrameDelivered  = "frame_delivered"
	EventTypeStallRecovery   = "stall_recovery"
	EventTypeGCSweep         = "gc_sweep"
	EventTypeCleared         = "cleared"
	EventTypeWarning         = "warning"
	EventTypeError           = "error"
)

// Event is the interface for all framecached events.
type Event interface {
	Type() string
	Timestamp() int64
}

// BaseEvent contains common fields for all events.
type BaseEvent struct {
	EventType string `json:"type"`
	Time      int64  `json:"timestamp"`
}

func (e BaseEvent) Type() string     { return e.EventType }
func (e BaseEvent) Timestamp() int64 { return e.Time }

// WindowScheduledEvent represents a decode window claimed in the background.
type WindowScheduledEvent struct {
	BaseEvent
	Path   string `json:"path"`
	Start  uint32 `json:"start"`
	End    uint32 `json:"end"`
	Width  uint32 `json:"width"`
	Height uint32 `json:"height"`
}

// FrameDeliveredEvent represents a frame successfully handed back to a caller.
type FrameDeliveredEvent struct {
	BaseEvent
	Path          string `json:"path"`
	FrameIndex    uint32 `json:"frame_index"`
	Bytes         int    `json:"bytes"`
	ElapsedMillis int64  `json:"elapsed_millis"`
}

// StallRecoveryEvent represents a fallback when the decode for a
// requested frame made no progress.
type StallRecoveryEvent struct {
	BaseEvent
	Path            string `json:"path"`
	FrameIndex      uint32 `json:"frame_index"`
	UsedPlaceholder bool   `json:"used_placeholder"`
}

// GCSweepEvent represents a completed background eviction pass.
type GCSweepEvent struct {
	BaseEvent
	Path       string `json:"path"`
	Evicted    int    `json:"evicted"`
	BytesFreed uint64 `json:"bytes_freed"`
}

// ClearedEvent represents a completed Cache.Clear call.
type ClearedEvent struct {
	BaseEvent
	Decoders int `json:"decoders"`
}

// WarningEvent represents a warning message.
type WarningEvent struct {
	BaseEvent
	Message string `json:"message"`
}

// ErrorEvent represents an error.
type ErrorEvent struct {
	BaseEvent
	Title      string `json:"title"`
	Message    string `json:"message"`
	Context    string `json:"context"`
	Suggestion string `json:"suggestion"`
}

// EventHandler is called with events during cache operation.
type EventHandler func(Event) error

// NewTimestamp returns the current Unix timestamp.
func NewTimestamp() int64 {
	return time.Now().Unix()
}

// eventReporter adapts EventHandler to the Reporter interface.
type eventReporter struct {
	handler EventHandler
}

func newEventReporter(handler EventHandler) *eventReporter {
	return &eventReporter{handler: handler}
}

func (r *eventReporter) WindowScheduled(path string, start, end, width, height uint32) {
	_ = r.handler(WindowScheduledEvent{
		BaseEvent: BaseEvent{EventType: EventTypeWindowScheduled, Time: NewTimestamp()},
		Path:      path,
		Start:     start,
		End:       end,
		Width:     width,
		Height:    height,
	})
}

func (r *eventReporter) FrameDelivered(path string, frameIndex uint32, bytes int, elapsed time.Duration) {
	_ = r.handler(FrameDeliveredEvent{
		BaseEvent:     BaseEvent{EventType: EventTypeFrameDelivered, Time: NewTimestamp()},
		Path:          path,
		FrameIndex:    frameIndex,
		Bytes:         bytes,
		ElapsedMillis: elapsed.Milliseconds(),
	})
}

func (r *eventReporter) StallRecovery(path string, frameIndex uint32, usedPlaceholder bool) {
	_ = r.handler(StallRecoveryEvent{
		BaseEvent:       BaseEvent{EventType: EventTypeStallRecovery, Time: NewTimestamp()},
		Path:            path,
		FrameIndex:      frameIndex,
		UsedPlaceholder: usedPlaceholder,
	})
}

func (r *eventReporter) GCSweep(path string, evicted int, bytesFreed uint64) {
	_ = r.handler(GCSweepEvent{
		BaseEvent:  BaseEvent{EventType: EventTypeGCSweep, Time: NewTimestamp()},
		Path:       path,
		Evicted:    evicted,
		BytesFreed: bytesFreed,
	})
}

func (r *eventReporter) Cleared(decoders int) {
	_ = r.handler(ClearedEvent{
		BaseEvent: BaseEvent{EventType: EventTypeCleared, Time: NewTimestamp()},
		Decoders:  decoders,
	})
}

func (r *eventReporter) Warning(message string) {
	_ = r.handler(WarningEvent{
		BaseEvent: BaseEvent{EventType: EventTypeWarning, Time: NewTimestamp()},
		Message:   message,
	})
}

func (r *eventReporter) Error(e reporter.ReporterError) {
	_ = r.handler(ErrorEvent{
		BaseEvent:  BaseEvent{EventType: EventTypeError, Time: NewTimestamp()},
		Title:      e.Title,
		Message:    e.Message,
		Context:    e.Context,
		Suggestion: e.Suggestion,
	})
}

func (r *eventReporter) Verbose(string) {}
