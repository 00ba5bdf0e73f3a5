// Package statcast loads plate-appearance events and reference tables
// from Statcast-style CSV exports.
package statcast

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/malcolmgaynor/MLB-ELO/internal/domain/dedupe"
	"github.com/malcolmgaynor/MLB-ELO/internal/domain/event"
	"github.com/malcolmgaynor/MLB-ELO/pkg/logger"
	"github.com/malcolmgaynor/MLB-ELO/pkg/metrics"
)

// Default loader configuration constants.
const (
	defaultConcurrency = 4
	dateLayout         = "2006-01-02"
)

// Required event columns in the CSV header.
const (
	colGameDate    = "game_date"
	colAtBatNumber = "at_bat_number"
	colBatter      = "batter"
	colPitcher     = "pitcher"
	colEvents      = "events"
	colWOBAValue   = "woba_value"
	colHomeTeam    = "home_team"
)

// LoadStats summarizes one ingest run.
type LoadStats struct {
	Files       int
	Rows        int
	DroppedNull int // rows without an outcome label
	Duplicates  int // exact duplicates removed
}

// LoaderOption applies a configuration option to the event loader.
type LoaderOption func(*eventLoader)

// WithConcurrency bounds how many files are parsed in parallel.
func WithConcurrency(n int) LoaderOption {
	return func(l *eventLoader) {
		if n > 0 {
			l.concurrency = n
		}
	}
}

// WithLoaderLogger sets a custom logger for the loader.
func WithLoaderLogger(log logger.Logger) LoaderOption {
	return func(l *eventLoader) {
		if log != nil {
			l.log = log
		}
	}
}

type eventLoader struct {
	concurrency int
	log         logger.Logger
}

// LoadEvents reads every CSV matching the glob, drops rows without an
// outcome label, removes exact duplicates, and returns the merged set
// sorted chronologically (game date asc, at-bat number asc). Files parse
// concurrently; the rating pass itself stays sequential downstream.
func LoadEvents(ctx context.Context, glob string, opts ...LoaderOption) ([]event.Event, *LoadStats, error) {
	l := &eventLoader{concurrency: defaultConcurrency}
	for _, opt := range opts {
		opt(l)
	}

	if err := ctx.Err(); err != nil {
		return nil, nil, fmt.Errorf("ingest cancelled: %w", err)
	}

	start := time.Now()

	paths, err := filepath.Glob(glob)
	if err != nil {
		return nil, nil, fmt.Errorf("bad events glob %q: %w", glob, err)
	}
	if len(paths) == 0 {
		return nil, nil, fmt.Errorf("%w: glob %q", ErrNoFiles, glob)
	}

	type fileResult struct {
		events  []event.Event
		dropped int
		err     error
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	pathCh := make(chan string)
	resultCh := make(chan fileResult, len(paths))

	workers := l.concurrency
	if workers > len(paths) {
		workers = len(paths)
	}
	for w := 0; w < workers; w++ {
		go func() {
			for path := range pathCh {
				events, dropped, err := parseEventFile(path)
				select {
				case resultCh <- fileResult{events: events, dropped: dropped, err: err}:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		defer close(pathCh)
		for _, path := range paths {
			select {
			case pathCh <- path:
			case <-ctx.Done():
				return
			}
		}
	}()

	stats := &LoadStats{Files: len(paths)}
	var merged []event.Event
	for range paths {
		select {
		case <-ctx.Done():
			return nil, nil, fmt.Errorf("ingest cancelled: %w", ctx.Err())
		case res := <-resultCh:
			if res.err != nil {
				return nil, nil, res.err
			}
			merged = append(merged, res.events...)
			stats.DroppedNull += res.dropped
			metrics.RecordFileLoaded()
		}
	}

	// Exact-duplicate removal over all columns; the engine's
	// at-most-one-update invariant depends on it.
	deduper := dedupe.NewInMemoryDeduper(dedupe.WithSizeHint(len(merged)))
	unique := merged[:0]
	for _, e := range merged {
		if deduper.SeenAndRecord(ctx, e.Key()) {
			stats.Duplicates++
			metrics.RecordEventDuplicate()
			continue
		}
		unique = append(unique, e)
	}

	event.SortChronological(unique)
	stats.Rows = len(unique)

	metrics.RecordRowsParsed(stats.Rows)
	metrics.RecordRowsDropped(stats.DroppedNull)
	metrics.RecordIngestDuration(time.Since(start).Seconds())

	if l.log != nil {
		l.log.Info(ctx, "loaded events",
			logger.Int("files", stats.Files),
			logger.Int("rows", stats.Rows),
			logger.Int("droppedNull", stats.DroppedNull),
			logger.Int("duplicates", stats.Duplicates),
		)
	}

	return unique, stats, nil
}

// parseEventFile reads one Statcast CSV into events, dropping rows whose
// outcome label is empty (non-terminal pitches).
func parseEventFile(path string) ([]event.Event, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.ReuseRecord = true

	header, err := r.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("read header of %s: %w", path, err)
	}

	idx, err := columnIndex(header, path,
		colGameDate, colAtBatNumber, colBatter, colPitcher, colEvents, colWOBAValue, colHomeTeam)
	if err != nil {
		return nil, 0, err
	}

	var events []event.Event
	dropped := 0
	line := 1
	for {
		record, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, 0, fmt.Errorf("read %s line %d: %w", path, line+1, err)
		}
		line++

		label := strings.TrimSpace(record[idx[colEvents]])
		if label == "" {
			dropped++
			continue
		}

		e, err := parseEventRow(record, idx, label)
		if err != nil {
			return nil, 0, fmt.Errorf("%s line %d: %w", path, line, err)
		}
		events = append(events, e)
	}

	return events, dropped, nil
}

func parseEventRow(record []string, idx map[string]int, label string) (event.Event, error) {
	gameDate, err := time.Parse(dateLayout, strings.TrimSpace(record[idx[colGameDate]]))
	if err != nil {
		return event.Event{}, fmt.Errorf("bad game_date: %w", err)
	}

	atBat, err := parseIntField(record[idx[colAtBatNumber]])
	if err != nil {
		return event.Event{}, fmt.Errorf("bad at_bat_number: %w", err)
	}

	// Missing woba_value means a zero-weight outcome, matching the
	// upstream convention.
	woba := 0.0
	if raw := strings.TrimSpace(record[idx[colWOBAValue]]); raw != "" {
		woba, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			return event.Event{}, fmt.Errorf("bad woba_value: %w", err)
		}
		// ParseFloat accepts "NaN" and "Inf"; neither is a usable metric.
		if math.IsNaN(woba) || math.IsInf(woba, 0) {
			return event.Event{}, fmt.Errorf("bad woba_value: non-finite %v", woba)
		}
	}

	return event.Event{
		GameDate:    gameDate,
		AtBatNumber: atBat,
		Batter:      normalizeID(strings.TrimSpace(record[idx[colBatter]])),
		Pitcher:     normalizeID(strings.TrimSpace(record[idx[colPitcher]])),
		Outcome:     label,
		WOBA:        woba,
		HomeTeam:    strings.TrimSpace(record[idx[colHomeTeam]]),
	}, nil
}

// parseIntField tolerates the float-formatted integers some exports emit
// ("12.0").
func parseIntField(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if n, err := strconv.Atoi(raw); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

// columnIndex maps required column names to their header positions.
func columnIndex(header []string, path string, required ...string) (map[string]int, error) {
	idx := make(map[string]int, len(required))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}
	for _, name := range required {
		if _, ok := idx[name]; !ok {
			return nil, fmt.Errorf("%w: %q in %s", ErrMissingColumn, name, path)
		}
	}
	return idx, nil
}
