package reporter

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/five82/framecached/internal/util"
)

// LogReporter writes cache events to a log file.
type LogReporter struct {
	w  io.Writer
	mu sync.Mutex
}

// NewLogReporter creates a new log reporter that writes to the given writer.
func NewLogReporter(w io.Writer) *LogReporter {
	return &LogReporter{w: w}
}

func (r *LogReporter) log(level, format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	timestamp := time.Now().Format("2006-01-02 15:04:05")
	msg := fmt.Sprintf(format, args...)
	_, _ = fmt.Fprintf(r.w, "%s [%s] %s\n", timestamp, level, msg)
}

func (r *LogReporter) WindowScheduled(path string, start, end, width, height uint32) {
	r.log("INFO", "window scheduled: %s [%d-%d] %dx%d", path, start, end, width, height)
}

func (r *LogReporter) FrameDelivered(path string, frameIndex uint32, bytes int, elapsed time.Duration) {
	r.log("INFO", "frame delivered: %s #%d (%s, %s)", path, frameIndex, util.FormatBytesReadable(uint64(bytes)), elapsed)
}

func (r *LogReporter) StallRecovery(path string, frameIndex uint32, usedPlaceholder bool) {
	if usedPlaceholder {
		r.log("WARN", "stall recovery: %s #%d used placeholder frame", path, frameIndex)
		return
	}
	r.log("WARN", "stall recovery: %s #%d reused a prior decoded frame", path, frameIndex)
}

func (r *LogReporter) GCSweep(path string, evicted int, bytesFreed uint64) {
	r.log("INFO", "gc sweep: %s evicted %d entries, freed %s", path, evicted, util.FormatBytesReadable(bytesFreed))
}

func (r *LogReporter) Cleared(decoders int) {
	r.log("INFO", "cache cleared: %d decoders drained", decoders)
}

func (r *LogReporter) Warning(message string) {
	r.log("WARN", "%s", message)
}

func (r *LogReporter) Error(err ReporterError) {
	r.log("ERROR", "%s: %s", err.Title, err.Message)
	if err.Context != "" {
		r.log("ERROR", "  Context: %s", err.Context)
	}
	if err.Suggestion != "" {
		r.log("ERROR", "  Suggestion: %s", err.Suggestion)
	}
}

func (r *LogReporter) Verbose(message string) {
	r.log("DEBUG", "%s", message)
}
