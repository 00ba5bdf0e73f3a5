package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):.
//  1. defaults (New(ctx))
//  2. file (YAML) if MLBELO_CONFIG is set
//  3. env (prefix MLBELO_)
func Load(ctx context.Context) (*Config, error) {
	// Start with defaults
	base := New(ctx)

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("MLBELO_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: MLBELO_EVENTS_GLOB, MLBELO_K_HIGH, ...
	// Map env keys like MLBELO_EVENTS_GLOB -> events_glob (flat keys)
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("MLBELO_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "mlbelo_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate rejects configurations the pipeline cannot run with.
func (c *Config) validate() error {
	switch {
	case c.EventsGlob == "":
		return fmt.Errorf("%w: events_glob must not be empty", ErrInvalidConfig)
	case c.ParkFactorsPath == "":
		return fmt.Errorf("%w: park_factors_path must not be empty", ErrInvalidConfig)
	case c.BatterOutputPath == "" || c.PitcherOutputPath == "":
		return fmt.Errorf("%w: output paths must not be empty", ErrInvalidConfig)
	case c.LoaderConcurrency <= 0:
		return fmt.Errorf("%w: loader_concurrency must be positive", ErrInvalidConfig)
	case c.KHigh <= 0 || c.KLow <= 0:
		return fmt.Errorf("%w: k factors must be positive", ErrInvalidConfig)
	case c.KCountThreshold < 0:
		return fmt.Errorf("%w: k_count_threshold must not be negative", ErrInvalidConfig)
	}
	return nil
}
