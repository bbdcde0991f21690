// Package main is the entry point for the MVPMoral vulnerability triage CLI.
// MVPMoral ingests dependency-scanner reports, estimates CVSS scores for each
// finding, classifies likely false positives with lightweight heuristics, and
// produces a prioritized triage result.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gabrieldeoliveira72/MVPMoral/cmd/analyze"
	"github.com/gabrieldeoliveira72/MVPMoral/cmd/browse"
	"github.com/gabrieldeoliveira72/MVPMoral/cmd/history"
	"github.com/gabrieldeoliveira72/MVPMoral/pkg/logger"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	// Global flags
	var (
		debug       bool
		logFormat   string
		showVersion bool
	)

	globalFlags := flag.NewFlagSet("mvpmoral", flag.ExitOnError)
	globalFlags.BoolVar(&debug, "debug", false, "Enable debug logging")
	globalFlags.StringVar(&logFormat, "log-format", "text", "Log format (text or json)")
	globalFlags.BoolVar(&showVersion, "version", false, "Show version information")

	if err := globalFlags.Parse(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing flags: %v\n", err)
		os.Exit(1)
	}

	if showVersion {
		fmt.Printf("mvpmoral version %s (built %s)\n", version, buildTime) //nolint:forbidigo
		os.Exit(0)
	}

	logger.SetupLogger(debug, logFormat)

	args := globalFlags.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	command := args[0]
	commandArgs := args[1:]

	switch command {
	case "analyze":
		if err := analyze.Run(commandArgs); err != nil {
			logger.Error("analysis failed", "error", err)
			os.Exit(1)
		}
	case "history":
		if err := history.Run(commandArgs); err != nil {
			logger.Error("history command failed", "error", err)
			os.Exit(1)
		}
	case "browse":
		if err := browse.Run(commandArgs); err != nil {
			logger.Error("browse failed", "error", err)
			os.Exit(1)
		}
	case "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	//nolint:forbidigo
	fmt.Println(`MVPMoral Vulnerability Triage

Usage:
  mvpmoral [global flags] <command> [command flags]

Commands:
  analyze   Triage a dependency-scanner report
  history   List, show, and delete stored analyses
  browse    Browse a stored analysis in the terminal
  help      Show this help message

Global Flags:
  --debug         Enable debug logging
  --log-format    Log format (text or json) (default: text)
  --version       Show version information

Examples:
  mvpmoral analyze --report dependency-check-report.json
  mvpmoral analyze --report report.json --output triage.json --save
  mvpmoral history list --limit 10
  mvpmoral browse --latest

Use "mvpmoral <command> --help" for more information about a command.`)
}
