package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"
)

func runGet(args []string) error {
	fs := flag.NewFlagSet("get", flag.ExitOnError)
	var cf commonFlags
	registerCommonFlags(fs, &cf)

	var path string
	var width, height uint
	var frame uint

	fs.StringVar(&path, "path", "", "Path to the video file")
	fs.UintVar(&width, "w", 0, "Output frame width")
	fs.UintVar(&height, "h", 0, "Output frame height")
	fs.UintVar(&frame, "frame", 0, "Frame index to fetch")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Fetch a single frame and report its size and delivery latency.

Usage:
  %s get -path P -w W -h H -frame N [options]
`, appName)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if path == "" || width == 0 || height == 0 {
		return fmt.Errorf("-path, -w, and -h are required")
	}

	c, _, logger, err := setupCache(cf)
	if err != nil {
		return fmt.Errorf("failed to create cache: %w", err)
	}
	if logger != nil {
		defer func() { _ = logger.Close() }()
	}

	started := time.Now()
	data := c.GetFrame(context.Background(), path, uint32(width), uint32(height), uint32(frame))
	elapsed := time.Since(started)

	fmt.Printf("frame %d: %d bytes in %s\n", frame, len(data), elapsed)
	return nil
}
