// Package export writes final rating tables to CSV, highest rating
// first.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/malcolmgaynor/MLB-ELO/internal/adapters/statcast"
	"github.com/malcolmgaynor/MLB-ELO/internal/domain/normalize"
)

const floatDigits = 4

var header = []string{
	"player_id",
	"name",
	"team",
	"rating",
	"appearances",
	"rating_adjusted",
	"index",
	"min_shifted",
	"min_shifted_index",
	"anchored_index",
}

// Option configures a ratings export.
type Option func(*writer)

// WithPlayerInfo joins ids to names and teams in the output. Ids
// without an entry still export, with blank name and team.
func WithPlayerInfo(players map[string]statcast.PlayerInfo) Option {
	return func(w *writer) {
		w.players = players
	}
}

type writer struct {
	players map[string]statcast.PlayerInfo
}

// WriteRatings writes one role's normalized table to path, sorted by raw
// rating descending with player id as the tie-break. Parent directories
// are created as needed.
func WriteRatings(path string, result *normalize.Result, opts ...Option) error {
	if result == nil || len(result.Rows) == 0 {
		return fmt.Errorf("%w: %s", ErrNoRows, path)
	}

	w := &writer{}
	for _, opt := range opts {
		opt(w)
	}

	rows := make([]normalize.Row, len(result.Rows))
	copy(rows, result.Rows)
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Rating != rows[j].Rating {
			return rows[i].Rating > rows[j].Rating
		}
		return rows[i].PlayerID < rows[j].PlayerID
	})

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir %s: %w", dir, err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header of %s: %w", path, err)
	}
	for _, row := range rows {
		if err := cw.Write(w.record(row)); err != nil {
			return fmt.Errorf("write row of %s: %w", path, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return nil
}

func (w *writer) record(row normalize.Row) []string {
	var name, team string
	if info, ok := w.players[row.PlayerID]; ok {
		name = info.Name
		team = info.Team
	}
	anchored := ""
	if row.HasAnchor {
		anchored = formatFloat(row.AnchoredIndex)
	}
	return []string{
		row.PlayerID,
		name,
		team,
		formatFloat(row.Rating),
		strconv.Itoa(row.Appearances),
		formatFloat(row.RatingAdjusted),
		formatFloat(row.Index),
		formatFloat(row.MinShifted),
		formatFloat(row.MinShiftedIndex),
		anchored,
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', floatDigits, 64)
}
