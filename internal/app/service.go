// Package service wires the ingest, rating, normalization, and export
// stages into one batch run.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/malcolmgaynor/MLB-ELO/internal/adapters/export"
	"github.com/malcolmgaynor/MLB-ELO/internal/adapters/statcast"
	"github.com/malcolmgaynor/MLB-ELO/internal/config"
	"github.com/malcolmgaynor/MLB-ELO/internal/domain/event"
	"github.com/malcolmgaynor/MLB-ELO/internal/domain/normalize"
	"github.com/malcolmgaynor/MLB-ELO/internal/domain/outcome"
	"github.com/malcolmgaynor/MLB-ELO/internal/domain/rating"
	"github.com/malcolmgaynor/MLB-ELO/pkg/logger"
	"github.com/malcolmgaynor/MLB-ELO/pkg/metrics"
)

// Summary reports what one batch run did.
type Summary struct {
	Events    int
	Applied   int
	Skipped   int
	Batters   int
	Pitchers  int
	Clamps    int
	Warnings  int
	LoadStats *statcast.LoadStats
	Duration  time.Duration
}

// Service runs the full season pipeline: load reference tables, ingest
// events, apply the rating pass, normalize both tables, and export them.
type Service struct {
	cfg    *config.Config
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service around a loaded configuration.
func New(cfg *config.Config, opts ...Option) *Service {
	s := &Service{cfg: cfg}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run executes the pipeline once. The rating pass owns the store for the
// whole run; nothing else reads it until the pass finishes.
func (s *Service) Run(ctx context.Context) (*Summary, error) {
	if s.logger == nil {
		s.logger = logger.Get()
	}
	start := time.Now()

	parks, err := s.loadParks(ctx)
	if err != nil {
		return nil, err
	}

	events, loadStats, err := s.loadEvents(ctx)
	if err != nil {
		return nil, err
	}

	mapper, err := outcome.NewMapper(events,
		outcome.WithStrikeoutSentinel(s.cfg.StrikeoutSentinel),
		outcome.WithShift(s.cfg.OutcomeShift),
	)
	if err != nil {
		metrics.RecordErrorByComponent("outcome", "fit")
		return nil, fmt.Errorf("fit outcome mapper: %w", err)
	}
	s.logger.Info(ctx, "fitted outcome mapper",
		logger.Float64("min", mapper.Min()),
		logger.Float64("max", mapper.Max()),
	)

	store := rating.NewStore(
		rating.WithInitialRating(s.cfg.InitialRating),
		rating.WithCreateHook(func(role rating.Role, id string) {
			metrics.RecordPlayerCreated(string(role))
			s.logger.Debug(ctx, "tracking new player",
				logger.String("role", string(role)),
				logger.String("player", id),
			)
		}),
	)

	report, err := s.ratePass(ctx, store, parks, mapper, events)
	if err != nil {
		return nil, err
	}

	batters, pitchers, err := s.normalizeAndExport(ctx, store)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		Events:    len(events),
		Applied:   report.Applied,
		Skipped:   report.Skipped,
		Batters:   batters,
		Pitchers:  pitchers,
		Clamps:    report.Clamps(),
		Warnings:  len(report.Warnings),
		LoadStats: loadStats,
		Duration:  time.Since(start),
	}
	s.logger.Info(ctx, "pipeline finished",
		logger.Int("events", summary.Events),
		logger.Int("applied", summary.Applied),
		logger.Int("skipped", summary.Skipped),
		logger.Int("batters", summary.Batters),
		logger.Int("pitchers", summary.Pitchers),
		logger.Any("duration", summary.Duration),
	)
	return summary, nil
}

func (s *Service) loadParks(ctx context.Context) (rating.ParkFactors, error) {
	start := time.Now()
	parks, err := statcast.LoadParkFactors(s.cfg.ParkFactorsPath)
	if err != nil {
		metrics.RecordErrorByComponent("statcast", "parks")
		return nil, fmt.Errorf("load park factors: %w", err)
	}
	metrics.RecordStageDuration("load_parks", time.Since(start).Seconds())
	s.logger.Info(ctx, "loaded park factors", logger.Int("teams", len(parks)))
	return parks, nil
}

func (s *Service) loadEvents(ctx context.Context) ([]event.Event, *statcast.LoadStats, error) {
	start := time.Now()
	events, stats, err := statcast.LoadEvents(ctx, s.cfg.EventsGlob,
		statcast.WithConcurrency(s.cfg.LoaderConcurrency),
		statcast.WithLoaderLogger(s.logger),
	)
	if err != nil {
		metrics.RecordErrorByComponent("statcast", "events")
		return nil, nil, fmt.Errorf("load events: %w", err)
	}
	metrics.RecordStageDuration("load_events", time.Since(start).Seconds())
	return events, stats, nil
}

func (s *Service) ratePass(ctx context.Context, store *rating.Store, parks rating.ParkFactors, mapper *outcome.Mapper, events []event.Event) (*rating.Report, error) {
	start := time.Now()
	engine := rating.New(store, parks, mapper,
		rating.WithKFactors(s.cfg.KHigh, s.cfg.KLow),
		rating.WithKCountThreshold(s.cfg.KCountThreshold),
		rating.WithStrictEvents(s.cfg.StrictEvents),
		rating.WithLogger(s.logger),
	)
	report, err := engine.Run(ctx, events)
	if err != nil {
		metrics.RecordErrorByComponent("rating", "pass")
		return nil, fmt.Errorf("rating pass: %w", err)
	}
	metrics.RecordStageDuration("rating_pass", time.Since(start).Seconds())
	return report, nil
}

func (s *Service) normalizeAndExport(ctx context.Context, store *rating.Store) (int, int, error) {
	start := time.Now()

	players, err := s.loadPlayerInfo(ctx)
	if err != nil {
		return 0, 0, err
	}

	batters, err := s.exportRole(ctx, store, players, roleExport{
		role:          rating.Batter,
		benchmarkPath: s.cfg.BatterBenchmarkPath,
		loadBenchmark: statcast.LoadBatterBenchmarks,
		qualification: s.cfg.BatterQualificationPA,
		outputPath:    s.cfg.BatterOutputPath,
	})
	if err != nil {
		return 0, 0, err
	}

	pitchers, err := s.exportRole(ctx, store, players, roleExport{
		role:          rating.Pitcher,
		benchmarkPath: s.cfg.PitcherBenchmarkPath,
		loadBenchmark: statcast.LoadPitcherBenchmarks,
		qualification: s.cfg.PitcherQualificationIP,
		outputPath:    s.cfg.PitcherOutputPath,
	})
	if err != nil {
		return 0, 0, err
	}

	metrics.RecordStageDuration("normalize_export", time.Since(start).Seconds())
	return batters, pitchers, nil
}

// loadPlayerInfo is optional; without an id map the export carries ids
// only and no anchored index can be built.
func (s *Service) loadPlayerInfo(ctx context.Context) (map[string]statcast.PlayerInfo, error) {
	if s.cfg.PlayerIDMapPath == "" {
		return nil, nil
	}
	players, err := statcast.LoadPlayerIDMap(s.cfg.PlayerIDMapPath)
	if err != nil {
		metrics.RecordErrorByComponent("statcast", "idmap")
		return nil, fmt.Errorf("load player id map: %w", err)
	}
	s.logger.Info(ctx, "loaded player id map", logger.Int("players", len(players)))
	return players, nil
}

type roleExport struct {
	role          rating.Role
	benchmarkPath string
	loadBenchmark func(string) (map[string]statcast.Benchmark, error)
	qualification float64
	outputPath    string
}

func (s *Service) exportRole(ctx context.Context, store *rating.Store, players map[string]statcast.PlayerInfo, re roleExport) (int, error) {
	records := store.Snapshot(re.role)

	anchor, err := s.buildAnchor(ctx, records, players, re)
	if err != nil {
		return 0, err
	}

	result, err := normalize.Normalize(records, anchor)
	if err != nil {
		metrics.RecordErrorByComponent("normalize", string(re.role))
		return 0, fmt.Errorf("normalize %s table: %w", re.role, err)
	}
	for _, w := range result.Warnings {
		s.logger.Warn(ctx, "normalization warning",
			logger.String("role", string(re.role)),
			logger.String("kind", string(w.Kind)),
			logger.String("player", w.PlayerID),
			logger.String("detail", w.Detail),
		)
	}

	if err := export.WriteRatings(re.outputPath, result, export.WithPlayerInfo(players)); err != nil {
		metrics.RecordErrorByComponent("export", string(re.role))
		return 0, fmt.Errorf("export %s table: %w", re.role, err)
	}
	s.logger.Info(ctx, "exported rating table",
		logger.String("role", string(re.role)),
		logger.String("path", re.outputPath),
		logger.Int("players", len(result.Rows)),
	)
	return len(result.Rows), nil
}

// buildAnchor joins rated ids through the id map to an external
// benchmark table. Players without a benchmark row simply get no
// anchored index.
func (s *Service) buildAnchor(ctx context.Context, records []rating.PlayerRecord, players map[string]statcast.PlayerInfo, re roleExport) (*normalize.Anchor, error) {
	if re.benchmarkPath == "" || len(players) == 0 {
		return nil, nil
	}
	marks, err := re.loadBenchmark(re.benchmarkPath)
	if err != nil {
		metrics.RecordErrorByComponent("statcast", "benchmark")
		return nil, fmt.Errorf("load %s benchmarks: %w", re.role, err)
	}

	anchor := &normalize.Anchor{
		Values:    make(map[string]float64),
		Qualified: make(map[string]bool),
	}
	for _, rec := range records {
		info, ok := players[rec.PlayerID]
		if !ok {
			continue
		}
		mark, ok := marks[info.FangraphsName]
		if !ok {
			continue
		}
		anchor.Values[rec.PlayerID] = mark.Value
		anchor.Qualified[rec.PlayerID] = mark.Volume >= re.qualification
	}
	if len(anchor.Values) == 0 {
		s.logger.Warn(ctx, "benchmark join produced no matches",
			logger.String("role", string(re.role)),
		)
		return nil, nil
	}
	return anchor, nil
}
