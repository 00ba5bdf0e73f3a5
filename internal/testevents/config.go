// Package testevents generates a synthetic season of plate-appearance
// data and verifies the rating pass over it.
package testevents

import "time"

// Config holds configuration for a synthetic season.
type Config struct {
	NumBatters    int       // Batters on the synthetic rosters
	NumPitchers   int       // Pitchers on the synthetic rosters
	NumGames      int       // Games to simulate
	AtBatsPerGame int       // Plate appearances per game
	StartDate     time.Time // Date of the first game
	Workers       int       // Concurrent generation workers
	OutputDir     string    // Directory for the CSV files
	Verbose       bool      // Enable verbose logging
}

// Stats holds generation and verification statistics.
type Stats struct {
	EventsGenerated int
	EventsApplied   int
	EventsSkipped   int
	BattersTracked  int
	PitchersTracked int
	FilesWritten    int
	StartTime       time.Time
	EndTime         time.Time
	Duration        time.Duration
}

// DefaultConfig returns a season roughly the shape of a short real one.
func DefaultConfig() *Config {
	return &Config{
		NumBatters:    90,
		NumPitchers:   40,
		NumGames:      300,
		AtBatsPerGame: 70,
		StartDate:     time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC),
		Workers:       4,
		OutputDir:     "testdata/synthetic",
	}
}
