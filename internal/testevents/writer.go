package testevents

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/malcolmgaynor/MLB-ELO/internal/domain/event"
	"github.com/malcolmgaynor/MLB-ELO/internal/domain/rating"
	"github.com/malcolmgaynor/MLB-ELO/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
)

var eventHeader = []string{
	"game_date", "at_bat_number", "batter", "pitcher",
	"events", "woba_value", "home_team",
}

// saveSeason writes the generated events as monthly CSV files plus the
// park factor and reference tables, in the same shape the ingest reads.
func saveSeason(ctx context.Context, config *Config, events []event.Event, store *rating.Store, stats *Stats) error {
	if len(events) == 0 {
		return fmt.Errorf("no events to save")
	}

	if err := os.MkdirAll(config.OutputDir, directoryPermission); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	byMonth := make(map[string][]event.Event)
	for _, ev := range events {
		key := ev.GameDate.Format("2006-01")
		byMonth[key] = append(byMonth[key], ev)
	}

	for month, monthEvents := range byMonth {
		path := filepath.Join(config.OutputDir, "events_"+month+".csv")
		if err := writeEventFile(path, monthEvents); err != nil {
			return err
		}
		stats.FilesWritten++
		if config.Verbose {
			logger.Get().Debug(ctx, "wrote event file",
				logger.String("path", path),
				logger.Int("events", len(monthEvents)),
			)
		}
	}

	parksPath := filepath.Join(config.OutputDir, "park_factors.csv")
	if err := writeParkFile(parksPath); err != nil {
		return err
	}
	stats.FilesWritten++

	if err := writeReferenceFiles(config, store, stats); err != nil {
		return err
	}

	logger.Get().Info(ctx, "season saved",
		logger.String("dir", config.OutputDir),
		logger.Int("files", stats.FilesWritten),
	)
	return nil
}

func writeEventFile(path string, events []event.Event) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(eventHeader); err != nil {
		return fmt.Errorf("failed to write header of %s: %w", path, err)
	}
	for _, ev := range events {
		record := []string{
			ev.GameDate.Format("2006-01-02"),
			strconv.Itoa(ev.AtBatNumber),
			ev.Batter,
			ev.Pitcher,
			ev.Outcome,
			strconv.FormatFloat(ev.WOBA, 'f', 3, 64),
			ev.HomeTeam,
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write row of %s: %w", path, err)
		}
	}
	w.Flush()
	return w.Error()
}

// writeReferenceFiles emits a player id map and benchmark tables derived
// from the verified pass, so the anchored index is exercisable against
// the synthetic season. Benchmark values track the final ratings and the
// volumes are the actual appearance counts, with innings approximated
// from batters faced.
func writeReferenceFiles(config *Config, store *rating.Store, stats *Stats) error {
	batters := store.Snapshot(rating.Batter)
	pitchers := store.Snapshot(rating.Pitcher)

	idPath := filepath.Join(config.OutputDir, "playerid_map.csv")
	f, err := os.Create(idPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", idPath, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"MLBID", "MLBNAME", "TEAM", "FANGRAPHSNAME"}); err != nil {
		return fmt.Errorf("failed to write header of %s: %w", idPath, err)
	}
	teams := make([]string, 0, len(ParkTable))
	for team := range ParkTable {
		teams = append(teams, team)
	}
	writeIDRows := func(records []rating.PlayerRecord, prefix string) error {
		for i, rec := range records {
			name := fmt.Sprintf("%s %04d", prefix, i+1)
			team := teams[i%len(teams)]
			if err := w.Write([]string{rec.PlayerID, name, team, name}); err != nil {
				return fmt.Errorf("failed to write row of %s: %w", idPath, err)
			}
		}
		return nil
	}
	if err := writeIDRows(batters, "Batter"); err != nil {
		return err
	}
	if err := writeIDRows(pitchers, "Pitcher"); err != nil {
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	stats.FilesWritten++

	wrcPath := filepath.Join(config.OutputDir, "wrc_plus.csv")
	if err := writeBenchmarkFile(wrcPath, []string{"Name", "WRC+", "PA"}, batters, "Batter",
		func(rec rating.PlayerRecord) (float64, float64) {
			// Center on 100 with spread proportional to rating distance
			// from the start.
			return 100 + (rec.Rating-rating.DefaultInitialRating)/2, float64(rec.Appearances)
		}); err != nil {
		return err
	}
	stats.FilesWritten++

	eraPath := filepath.Join(config.OutputDir, "era_minus.csv")
	if err := writeBenchmarkFile(eraPath, []string{"Name", "ERA-", "IP"}, pitchers, "Pitcher",
		func(rec rating.PlayerRecord) (float64, float64) {
			// Lower is better for ERA-, so invert the rating distance.
			return 100 - (rec.Rating-rating.DefaultInitialRating)/2, float64(rec.Appearances) / 4.3
		}); err != nil {
		return err
	}
	stats.FilesWritten++

	return nil
}

func writeBenchmarkFile(path string, header []string, records []rating.PlayerRecord, prefix string, mark func(rating.PlayerRecord) (float64, float64)) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write header of %s: %w", path, err)
	}
	for i, rec := range records {
		value, volume := mark(rec)
		record := []string{
			fmt.Sprintf("%s %04d", prefix, i+1),
			strconv.FormatFloat(value, 'f', 1, 64),
			strconv.FormatFloat(volume, 'f', 1, 64),
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write row of %s: %w", path, err)
		}
	}
	w.Flush()
	return w.Error()
}

func writeParkFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"Team", "Park Factor"}); err != nil {
		return fmt.Errorf("failed to write header of %s: %w", path, err)
	}
	for team, factor := range ParkTable {
		record := []string{team, strconv.FormatFloat(factor, 'f', 0, 64)}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write row of %s: %w", path, err)
		}
	}
	w.Flush()
	return w.Error()
}
