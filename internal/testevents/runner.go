package testevents

import (
	"context"
	"fmt"
	"time"

	"github.com/malcolmgaynor/MLB-ELO/internal/domain/event"
	"github.com/malcolmgaynor/MLB-ELO/internal/domain/outcome"
	"github.com/malcolmgaynor/MLB-ELO/internal/domain/rating"
	"github.com/malcolmgaynor/MLB-ELO/pkg/logger"
)

// Run generates a synthetic season, verifies the rating pass over it in
// memory, and writes the season to disk in the ingest format.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting synthetic season run",
		logger.Int("games", config.NumGames),
		logger.Int("batters", config.NumBatters),
		logger.Int("pitchers", config.NumPitchers),
		logger.Int("workers", config.Workers),
		logger.String("outputDir", config.OutputDir),
		logger.Any("verbose", config.Verbose))

	events, err := generateSeason(ctx, config, stats)
	if err != nil {
		return fmt.Errorf("season generation failed: %w", err)
	}

	store, err := verifySeason(ctx, config, events, stats)
	if err != nil {
		return fmt.Errorf("season verification failed: %w", err)
	}

	if err := saveSeason(ctx, config, events, store, stats); err != nil {
		return fmt.Errorf("season save failed: %w", err)
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)

	logger.Get().Info(ctx, "synthetic season completed successfully")
	return nil
}

// verifySeason runs the rating pass over the generated events and checks
// the bookkeeping the pipeline depends on. The finished store feeds the
// synthetic benchmark tables.
func verifySeason(ctx context.Context, config *Config, events []event.Event, stats *Stats) (*rating.Store, error) {
	logger.Get().Info(ctx, "verifying rating pass over generated season")

	parks := rating.ParkFactors{}
	for team, factor := range ParkTable {
		parks[team] = factor / 100
	}

	mapper, err := outcome.NewMapper(events)
	if err != nil {
		return nil, fmt.Errorf("failed to fit outcome mapper: %w", err)
	}

	store := rating.NewStore()
	engine := rating.New(store, parks, mapper)
	report, err := engine.Run(ctx, events)
	if err != nil {
		return nil, fmt.Errorf("rating pass failed: %w", err)
	}

	stats.EventsApplied = report.Applied
	stats.EventsSkipped = report.Skipped
	stats.BattersTracked = store.Count(rating.Batter)
	stats.PitchersTracked = store.Count(rating.Pitcher)

	if report.Applied != len(events) {
		return nil, fmt.Errorf("applied %d events, generated %d", report.Applied, len(events))
	}
	if err := verifyAppearances(store, rating.Batter, len(events)); err != nil {
		return nil, err
	}
	if err := verifyAppearances(store, rating.Pitcher, len(events)); err != nil {
		return nil, err
	}

	// A second pass from fresh state must land on the same ratings.
	replayStore := rating.NewStore()
	replayEngine := rating.New(replayStore, parks, mapper)
	if _, err := replayEngine.Run(ctx, events); err != nil {
		return nil, fmt.Errorf("replay pass failed: %w", err)
	}
	if err := verifyReplay(store, replayStore, rating.Batter); err != nil {
		return nil, err
	}
	if err := verifyReplay(store, replayStore, rating.Pitcher); err != nil {
		return nil, err
	}

	logger.Get().Info(ctx, "rating pass verified",
		logger.Int("applied", report.Applied),
		logger.Int("batters", stats.BattersTracked),
		logger.Int("pitchers", stats.PitchersTracked),
	)
	return store, nil
}

// verifyAppearances checks that one role's appearance counts sum to the
// number of events, each event touching exactly one player per role.
func verifyAppearances(store *rating.Store, role rating.Role, want int) error {
	total := 0
	for _, rec := range store.Snapshot(role) {
		total += rec.Appearances
	}
	if total != want {
		return fmt.Errorf("%s appearances sum to %d, want %d", role, total, want)
	}
	return nil
}

// verifyReplay checks that two passes over the same ordered events agree.
func verifyReplay(a, b *rating.Store, role rating.Role) error {
	first := a.Snapshot(role)
	second := b.Snapshot(role)
	if len(first) != len(second) {
		return fmt.Errorf("%s replay tracked %d players, want %d", role, len(second), len(first))
	}
	for i := range first {
		if first[i] != second[i] {
			return fmt.Errorf("%s replay diverged at %s: %+v vs %+v",
				role, first[i].PlayerID, first[i], second[i])
		}
	}
	return nil
}

// displayFinalStats prints the final statistics.
func displayFinalStats(stats *Stats) {
	var eventsPerSecond float64
	if stats.Duration > 0 {
		eventsPerSecond = float64(stats.EventsGenerated) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("eventsGenerated", stats.EventsGenerated),
		logger.Int("eventsApplied", stats.EventsApplied),
		logger.Int("eventsSkipped", stats.EventsSkipped),
		logger.Int("battersTracked", stats.BattersTracked),
		logger.Int("pitchersTracked", stats.PitchersTracked),
		logger.Int("filesWritten", stats.FilesWritten),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("eventsPerSecond", eventsPerSecond))
}
