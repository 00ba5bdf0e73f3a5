// Package config defines pipeline configuration structures and loading hooks.
//
// Conventions:
// - Provide New(...) initializer to build a Config with defaults.
// - All future functions must accept context.Context as the first parameter.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"context"
	"runtime"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// MetricsAddr configures the optional Prometheus listen address,
	// e.g. ":9090". Empty disables the listener.
	MetricsAddr string `koanf:"metrics_addr"`

	// EventsGlob matches the plate-appearance CSV files, e.g. "data/*.csv".
	EventsGlob string `koanf:"events_glob"`

	// ParkFactorsPath points at the park-factor CSV (Team, Park Factor).
	ParkFactorsPath string `koanf:"park_factors_path"`

	// PlayerIDMapPath points at the player id map CSV (optional).
	PlayerIDMapPath string `koanf:"player_id_map_path"`

	// BatterBenchmarkPath points at the wRC+ CSV (optional).
	BatterBenchmarkPath string `koanf:"batter_benchmark_path"`

	// PitcherBenchmarkPath points at the ERA- CSV (optional).
	PitcherBenchmarkPath string `koanf:"pitcher_benchmark_path"`

	// BatterOutputPath and PitcherOutputPath receive the final tables.
	BatterOutputPath  string `koanf:"batter_output_path"`
	PitcherOutputPath string `koanf:"pitcher_output_path"`

	// LoaderConcurrency bounds how many event files load in parallel.
	LoaderConcurrency int `koanf:"loader_concurrency"`

	// StrictEvents escalates malformed single events from skip-and-log to fatal.
	StrictEvents bool `koanf:"strict_events"`

	// InitialRating is the rating assigned on first appearance.
	InitialRating float64 `koanf:"initial_rating"`

	// StrikeoutSentinel replaces the raw metric for strikeouts before the
	// shift; OutcomeShift is added before min/max scaling.
	StrikeoutSentinel float64 `koanf:"strikeout_sentinel"`
	OutcomeShift      float64 `koanf:"outcome_shift"`

	// KHigh applies while a side's appearance count is at or below
	// KCountThreshold; KLow applies after.
	KHigh           float64 `koanf:"k_high"`
	KLow            float64 `koanf:"k_low"`
	KCountThreshold int     `koanf:"k_count_threshold"`

	// BatterQualificationPA and PitcherQualificationIP gate the qualified
	// subset used by the anchored index.
	BatterQualificationPA  float64 `koanf:"batter_qualification_pa"`
	PitcherQualificationIP float64 `koanf:"pitcher_qualification_ip"`
}

// New creates a Config using defaults. Context is accepted first to satisfy
// the project-wide convention; it is reserved for future use and is
// currently unused.
func New(_ context.Context) *Config {
	c := &Config{
		LogLevel:               "info",
		MetricsAddr:            "",
		EventsGlob:             "data/*.csv",
		ParkFactorsPath:        "data/park_factors.csv",
		PlayerIDMapPath:        "data/playerid_map.csv",
		BatterBenchmarkPath:    "data/wrc_plus.csv",
		PitcherBenchmarkPath:   "data/era_minus.csv",
		BatterOutputPath:       "batter_elo_ratings.csv",
		PitcherOutputPath:      "pitcher_elo_ratings.csv",
		LoaderConcurrency:      runtime.NumCPU(),
		StrictEvents:           false,
		InitialRating:          1500.0,
		StrikeoutSentinel:      -0.7,
		OutcomeShift:           0.7,
		KHigh:                  40,
		KLow:                   20,
		KCountThreshold:        120,
		BatterQualificationPA:  502,
		PitcherQualificationIP: 162,
	}
	return c
}
