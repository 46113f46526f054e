package main

import (
	"context"
	"flag"
	"fmt"
	"os"
)

func runWarm(args []string) error {
	fs := flag.NewFlagSet("warm", flag.ExitOnError)
	var cf commonFlags
	registerCommonFlags(fs, &cf)

	var path string
	var width, height uint
	var start, count uint

	fs.StringVar(&path, "path", "", "Path to the video file")
	fs.UintVar(&width, "w", 0, "Output frame width")
	fs.UintVar(&height, "h", 0, "Output frame height")
	fs.UintVar(&start, "start", 0, "First frame index to fetch")
	fs.UintVar(&count, "count", 1, "Number of sequential frames to fetch")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Issue a run of sequential GetFrame calls, showing progress.

Usage:
  %s warm -path P -w W -h H -start S -count N [options]

Consecutive indices land in the same decode window, so this command
demonstrates window coalescing: a warm run of N frames typically issues
far fewer than N ffmpeg invocations.
`, appName)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if path == "" || width == 0 || height == 0 {
		return fmt.Errorf("-path, -w, and -h are required")
	}

	c, term, logger, err := setupCache(cf)
	if err != nil {
		return fmt.Errorf("failed to create cache: %w", err)
	}
	if logger != nil {
		defer func() { _ = logger.Close() }()
	}

	ctx := context.Background()
	term.StartProgress(int64(count), fmt.Sprintf("warming %s", path))
	var totalBytes int
	for i := uint(0); i < count; i++ {
		data := c.GetFrame(ctx, path, uint32(width), uint32(height), uint32(start)+uint32(i))
		totalBytes += len(data)
		term.AdvanceProgress()
	}
	term.FinishProgress()

	current, max := c.CacheUsage()
	fmt.Printf("warmed %d frames (%d bytes); cache usage %d/%d bytes\n", count, totalBytes, current, max)
	return nil
}
