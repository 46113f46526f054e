// This file re-exports the internal Reporter interface and associated
// types so callers can receive cache lifecycle events directly.

package framecached

import "github.com/five82/framecached/internal/reporter"

// Reporter defines the interface for cache lifecycle reporting. Implement
// this to receive events about decode windows, delivered frames, stall
// recovery, and GC sweeps.
type Reporter = reporter.Reporter

// NullReporter is a no-op reporter that discards all updates.
type NullReporter = reporter.NullReporter

// ReporterError contains error information.
type ReporterError = reporter.ReporterError
