package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/five82/framecached/internal/util"
)

func runStats(args []string) error {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	var cf commonFlags
	registerCommonFlags(fs, &cf)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Print current/max cache bytes and host memory.

Usage:
  %s stats [options]
`, appName)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	c, _, logger, err := setupCache(cf)
	if err != nil {
		return fmt.Errorf("failed to create cache: %w", err)
	}
	if logger != nil {
		defer func() { _ = logger.Close() }()
	}

	current, max := c.CacheUsage()
	fmt.Printf("cache usage:    %s / %s\n", util.FormatBytesReadable(current), util.FormatBytesReadable(max))
	fmt.Printf("host memory:    %s free / %s total\n", util.FormatBytesReadable(util.AvailableMemoryBytes()), util.FormatBytesReadable(util.TotalMemoryBytes()))
	return nil
}
