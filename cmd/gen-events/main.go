package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/malcolmgaynor/MLB-ELO/internal/testevents"
)

// Default configuration constants.
const (
	defaultGames      = 300
	defaultAtBats     = 70
	defaultBatters    = 90
	defaultPitchers   = 40
	defaultWorkers    = 4
	defaultRunTimeout = 10 * time.Minute
)

func main() {
	var (
		games    = flag.Int("games", defaultGames, "Number of games to simulate")
		atBats   = flag.Int("atbats", defaultAtBats, "Plate appearances per game")
		batters  = flag.Int("batters", defaultBatters, "Number of batters on the synthetic rosters")
		pitchers = flag.Int("pitchers", defaultPitchers, "Number of pitchers on the synthetic rosters")
		workers  = flag.Int("workers", defaultWorkers, "Number of concurrent generation workers")
		out      = flag.String("out", "testdata/synthetic", "Output directory for the CSV files")
		verbose  = flag.Bool("verbose", false, "Enable verbose logging")
		help     = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		testevents.ShowHelp()
		return
	}

	if err := testevents.SetupLogging(*verbose); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	config := testevents.DefaultConfig()
	config.NumGames = *games
	config.AtBatsPerGame = *atBats
	config.NumBatters = *batters
	config.NumPitchers = *pitchers
	config.Workers = *workers
	config.OutputDir = *out
	config.Verbose = *verbose

	if err := testevents.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Generation failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
