package statcast

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Player id map columns.
const (
	colMLBID         = "MLBID"
	colMLBName       = "MLBNAME"
	colRefTeam       = "TEAM"
	colFangraphsName = "FANGRAPHSNAME"
)

// Benchmark table columns.
const (
	colName = "Name"
	colWRC  = "WRC+"
	colPA   = "PA"
	colERA  = "ERA-"
	colIP   = "IP"
)

// PlayerInfo is one row of the id map, keyed by the numeric id used in
// the event files.
type PlayerInfo struct {
	Name          string
	Team          string
	FangraphsName string
}

// Benchmark is one row of an external rate-stat table, keyed by the
// player's Fangraphs name. Volume is plate appearances for batters and
// innings pitched for pitchers.
type Benchmark struct {
	Value  float64
	Volume float64
}

// LoadPlayerIDMap reads the id map joining event-file ids to names and
// teams. Rows without an id or a Fangraphs name are skipped, matching
// what the join downstream can actually use.
func LoadPlayerIDMap(path string) (map[string]PlayerInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: player id map %s: %w", ErrMissingReferenceData, path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w", path, err)
	}
	idx, err := columnIndex(header, path, colMLBID, colMLBName, colRefTeam, colFangraphsName)
	if err != nil {
		return nil, err
	}

	players := make(map[string]PlayerInfo)
	line := 1
	for {
		record, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read %s line %d: %w", path, line+1, err)
		}
		line++

		id := normalizeID(field(record, idx[colMLBID]))
		if id == "" {
			continue
		}
		info := PlayerInfo{
			Name:          field(record, idx[colMLBName]),
			Team:          field(record, idx[colRefTeam]),
			FangraphsName: field(record, idx[colFangraphsName]),
		}
		if info.FangraphsName == "" {
			continue
		}
		players[id] = info
	}

	if len(players) == 0 {
		return nil, fmt.Errorf("%w: player id map %s is empty", ErrMissingReferenceData, path)
	}
	return players, nil
}

// LoadBatterBenchmarks reads a wRC+ table keyed by player name.
func LoadBatterBenchmarks(path string) (map[string]Benchmark, error) {
	return loadBenchmarks(path, colWRC, colPA)
}

// LoadPitcherBenchmarks reads an ERA- table keyed by player name.
func LoadPitcherBenchmarks(path string) (map[string]Benchmark, error) {
	return loadBenchmarks(path, colERA, colIP)
}

func loadBenchmarks(path, valueCol, volumeCol string) (map[string]Benchmark, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: benchmark table %s: %w", ErrMissingReferenceData, path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w", path, err)
	}
	idx, err := columnIndex(header, path, colName, valueCol, volumeCol)
	if err != nil {
		return nil, err
	}

	marks := make(map[string]Benchmark)
	line := 1
	for {
		record, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read %s line %d: %w", path, line+1, err)
		}
		line++

		name := field(record, idx[colName])
		if name == "" {
			continue
		}
		value, err := strconv.ParseFloat(field(record, idx[valueCol]), 64)
		if err != nil {
			continue
		}
		volume, err := strconv.ParseFloat(field(record, idx[volumeCol]), 64)
		if err != nil {
			continue
		}
		marks[name] = Benchmark{Value: value, Volume: volume}
	}

	if len(marks) == 0 {
		return nil, fmt.Errorf("%w: benchmark table %s is empty", ErrMissingReferenceData, path)
	}
	return marks, nil
}

func field(record []string, i int) string {
	if i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

// normalizeID strips a trailing ".0" left behind by spreadsheet exports
// of numeric id columns.
func normalizeID(s string) string {
	if s == "" {
		return ""
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return strconv.FormatInt(int64(f), 10)
	}
	return s
}
