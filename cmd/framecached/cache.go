package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/five82/framecached"
	"github.com/five82/framecached/internal/logging"
	"github.com/five82/framecached/internal/reporter"
)

// commonFlags holds cache-construction options shared across subcommands.
type commonFlags struct {
	maxCacheSizeBytes uint64
	windowSize        uint
	verbose           bool
	logDir            string
	noLog             bool
}

func registerCommonFlags(fs *flag.FlagSet, cf *commonFlags) {
	fs.Uint64Var(&cf.maxCacheSizeBytes, "max-cache-bytes", 0, "Max cache size in bytes (0 = auto, 25% of free memory)")
	fs.UintVar(&cf.windowSize, "window", 0, "Decode window size in frames (0 = default)")
	fs.BoolVar(&cf.verbose, "verbose", false, "Enable verbose reporter output")
	fs.StringVar(&cf.logDir, "log-dir", "", "Log directory (defaults to ~/.local/state/framecached/logs)")
	fs.BoolVar(&cf.noLog, "no-log", false, "Disable log file creation")
}

// setupCache builds a Cache from common flags and wires up file logging
// alongside terminal reporting, mirroring the teacher's encode command:
// a TerminalReporter for colored interactive output, a LogReporter writing
// through the run's *logging.Logger, and a CompositeReporter fanning every
// cache event to both. The caller must Close the returned logger, which is
// nil when logging is disabled via -no-log.
func setupCache(cf commonFlags) (*framecached.Cache, *reporter.TerminalReporter, *logging.Logger, error) {
	term := reporter.NewTerminalReporterVerbose(cf.verbose)

	logDir := cf.logDir
	if logDir == "" {
		logDir = logging.DefaultLogDir()
	}
	logger, err := logging.Setup(logDir, cf.verbose, cf.noLog, os.Args)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to setup logging: %w", err)
	}

	var rep reporter.Reporter = term
	if logger != nil {
		rep = reporter.NewCompositeReporter(term, reporter.NewLogReporter(logger.Writer()))
	}

	opts := []framecached.Option{framecached.WithReporter(rep)}
	if cf.maxCacheSizeBytes > 0 {
		opts = append(opts, framecached.WithMaxCacheSizeBytes(cf.maxCacheSizeBytes))
	} else {
		opts = append(opts, framecached.WithAutoCacheSize())
	}
	if cf.windowSize > 0 {
		opts = append(opts, framecached.WithWindowSize(uint32(cf.windowSize)))
	}
	if cf.verbose {
		opts = append(opts, framecached.WithVerbose())
	}

	c, err := framecached.New(opts...)
	if err != nil {
		if logger != nil {
			_ = logger.Close()
		}
		return nil, nil, nil, err
	}
	return c, term, logger, nil
}
