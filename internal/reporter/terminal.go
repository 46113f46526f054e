package reporter

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/five82/framecached/internal/util"
	"github.com/schollz/progressbar/v3"
)

// TerminalReporter outputs human-friendly, colorized text to the terminal
// and drives a progress bar for the warm command.
type TerminalReporter struct {
	mu       sync.Mutex
	progress *progressbar.ProgressBar
	verbose  bool
	cyan     *color.Color
	green    *color.Color
	yellow   *color.Color
	red      *color.Color
	dim      *color.Color
}

// NewTerminalReporter creates a new terminal reporter with verbose mode
// disabled.
func NewTerminalReporter() *TerminalReporter {
	return NewTerminalReporterVerbose(false)
}

// NewTerminalReporterVerbose creates a new terminal reporter with
// configurable verbose mode.
func NewTerminalReporterVerbose(verbose bool) *TerminalReporter {
	return &TerminalReporter{
		verbose: verbose,
		cyan:    color.New(color.FgCyan, color.Bold),
		green:   color.New(color.FgGreen),
		yellow:  color.New(color.FgYellow, color.Bold),
		red:     color.New(color.FgRed, color.Bold),
		dim:     color.New(color.Faint),
	}
}

// StartProgress creates a progress bar for a warm run of the given length.
// Safe to call once; a subsequent call replaces the prior bar.
func (r *TerminalReporter) StartProgress(total int64, description string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.progress = progressbar.NewOptions64(
		total,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(40),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionShowDescriptionAtLineEnd(),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "warm [",
			BarEnd:        "]",
		}),
	)
}

// AdvanceProgress increments the active progress bar by one, if any.
func (r *TerminalReporter) AdvanceProgress() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.progress != nil {
		_ = r.progress.Add(1)
	}
}

// FinishProgress closes out the active progress bar, if any.
func (r *TerminalReporter) FinishProgress() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.progress != nil {
		_ = r.progress.Finish()
		r.progress = nil
	}
}

func (r *TerminalReporter) WindowScheduled(path string, start, end, width, height uint32) {
	if !r.verbose {
		return
	}
	fmt.Printf("  %s window %d-%d for %s (%dx%d)\n", r.cyan.Sprint("›"), start, end, path, width, height)
}

func (r *TerminalReporter) FrameDelivered(path string, frameIndex uint32, bytes int, elapsed time.Duration) {
	if !r.verbose {
		return
	}
	fmt.Printf("  %s frame %d of %s: %s in %s\n", r.green.Sprint("✓"), frameIndex, path, util.FormatBytesReadable(uint64(bytes)), elapsed)
}

func (r *TerminalReporter) StallRecovery(path string, frameIndex uint32, usedPlaceholder bool) {
	if usedPlaceholder {
		_, _ = r.red.Printf("  stall: %s frame %d had nothing to recover, used placeholder\n", path, frameIndex)
		return
	}
	_, _ = r.yellow.Printf("  stall: %s frame %d recovered from a prior decode\n", path, frameIndex)
}

func (r *TerminalReporter) GCSweep(path string, evicted int, bytesFreed uint64) {
	_, _ = r.yellow.Printf("  gc: %s evicted %d, freed %s\n", path, evicted, util.FormatBytesReadable(bytesFreed))
}

func (r *TerminalReporter) Cleared(decoders int) {
	fmt.Println()
	fmt.Printf("%s cleared %d decoders\n", r.green.Sprint("✓"), decoders)
}

func (r *TerminalReporter) Warning(message string) {
	_, _ = r.yellow.Printf("WARN: %s\n", message)
}

func (r *TerminalReporter) Error(err ReporterError) {
	_, _ = fmt.Fprintln(os.Stderr)
	_, _ = r.red.Fprintf(os.Stderr, "ERROR %s\n", err.Title)
	_, _ = fmt.Fprintf(os.Stderr, "  %s\n", err.Message)
	if err.Context != "" {
		_, _ = fmt.Fprintf(os.Stderr, "  Context: %s\n", err.Context)
	}
	if err.Suggestion != "" {
		_, _ = fmt.Fprintf(os.Stderr, "  Suggestion: %s\n", err.Suggestion)
	}
}

func (r *TerminalReporter) Verbose(message string) {
	if !r.verbose {
		return
	}
	fmt.Printf("  %s %s\n", r.dim.Sprint("›"), r.dim.Sprint(message))
}
