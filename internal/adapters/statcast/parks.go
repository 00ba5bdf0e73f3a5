package statcast

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/malcolmgaynor/MLB-ELO/internal/domain/rating"
)

// Park-factor table columns.
const (
	colTeam       = "Team"
	colParkFactor = "Park Factor"
)

// parkFactorScale divides the published percentage into a multiplier
// (100 -> 1.0).
const parkFactorScale = 100.0

// LoadParkFactors reads the team -> park factor table. Published factors
// are percentages around 100 and are scaled into multipliers around 1.0.
func LoadParkFactors(path string) (rating.ParkFactors, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: park factors %s: %w", ErrMissingReferenceData, path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w", path, err)
	}
	idx, err := columnIndex(header, path, colTeam, colParkFactor)
	if err != nil {
		return nil, err
	}

	parks := rating.ParkFactors{}
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

		team := strings.TrimSpace(record[idx[colTeam]])
		if team == "" {
			continue
		}
		factor, err := strconv.ParseFloat(strings.TrimSpace(record[idx[colParkFactor]]), 64)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: bad park factor: %w", path, line, err)
		}
		parks[team] = factor / parkFactorScale
	}

	if len(parks) == 0 {
		return nil, fmt.Errorf("%w: park factor table %s is empty", ErrMissingReferenceData, path)
	}
	return parks, nil
}
