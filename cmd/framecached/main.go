// Package main provides the CLI entry point for framecached.
package main

import (
	"fmt"
	"os"
)

const (
	appName    = "framecached"
	appVersion = "0.1.0"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "get":
		err = runGet(os.Args[2:])
	case "warm":
		err = runWarm(os.Args[2:])
	case "stats":
		err = runStats(os.Args[2:])
	case "clear":
		err = runClear(os.Args[2:])
	case "version", "--version", "-v":
		fmt.Printf("%s version %s\n", appName, appVersion)
		return
	case "help", "--help", "-h":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf(`%s - Concurrent video frame decode cache

Usage:
  %s <command> [options]

Commands:
  get       Fetch a single frame and report its size and latency
  warm      Issue a run of sequential GetFrame calls with a progress bar
  stats     Print current/max cache bytes and host memory
  clear     Drain and reset a cache
  version   Print version information
  help      Show this help message

Run '%s <command> --help' for command-specific options.
`, appName, appName, appName)
}
