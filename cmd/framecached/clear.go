package main

import (
	"context"
	"flag"
	"fmt"
	"os"
)

func runClear(args []string) error {
	fs := flag.NewFlagSet("clear", flag.ExitOnError)
	var cf commonFlags
	registerCommonFlags(fs, &cf)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Drain and reset a cache's decoders and capacity usage.

Usage:
  %s clear [options]

This process owns no decoders of its own, so running it standalone only
exercises the drain-and-reset path against an empty registry. It exists
for scripting a cold cache between repeated benchmark runs and for the
test suite, which constructs a Cache, warms it, and calls Clear directly
through the library rather than through this subcommand.
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

	if err := c.Clear(context.Background()); err != nil {
		return fmt.Errorf("clear failed: %w", err)
	}
	fmt.Println("cache cleared")
	return nil
}
