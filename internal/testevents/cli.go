package testevents

import (
	"fmt"
	"os"

	"github.com/malcolmgaynor/MLB-ELO/pkg/logger"
)

// SetupLogging initializes the logger for the generator CLI.
func SetupLogging(verbose bool) error {
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		_ = logger.SetLevelString("debug")
	}
	return nil
}

// ShowHelp prints usage information for the season generator.
func ShowHelp() {
	os.Stdout.WriteString(`Synthetic Season Generator
==========================

Generates a synthetic season of plate-appearance CSV files in the shape
the rating pipeline ingests, and verifies the rating pass over it.

Usage:
  go run cmd/gen-events/main.go [options]

Options:
  -games int
        Number of games to simulate (default 300)
  -atbats int
        Plate appearances per game (default 70)
  -batters int
        Number of batters on the synthetic rosters (default 90)
  -pitchers int
        Number of pitchers on the synthetic rosters (default 40)
  -workers int
        Number of concurrent generation workers (default 4)
  -out string
        Output directory for the CSV files (default "testdata/synthetic")
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Generate with default settings
  go run cmd/gen-events/main.go

  # A fuller season into a custom directory
  go run cmd/gen-events/main.go -games 2430 -out data/synthetic

  # Point the pipeline at the result
  MLBELO_EVENTS_GLOB='testdata/synthetic/events_*.csv' \
  MLBELO_PARK_FACTORS_PATH=testdata/synthetic/park_factors.csv \
  go run cmd/main.go
`)
}
