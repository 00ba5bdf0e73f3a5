// Package normalize rescales final raw ratings into standardized indices
// for comparison against baseline metrics.
//
// It runs once, after the engine has consumed every event; intermediate
// store states are not a valid input because the weighted means are
// aggregate properties of the final state.
package normalize

import (
	"fmt"
	"math"

	"github.com/malcolmgaynor/MLB-ELO/internal/domain/rating"
	"github.com/malcolmgaynor/MLB-ELO/pkg/metrics"
)

const indexScale = 100.0

// WarningKind classifies non-fatal normalizer diagnostics.
type WarningKind string

// Warning kinds.
const (
	WarnNegativeMinimum     WarningKind = "negative_minimum"
	WarnAnchorExtrapolation WarningKind = "anchor_extrapolation"
	WarnDegenerateMean      WarningKind = "degenerate_mean"
)

// Warning is one non-fatal diagnostic from normalization.
type Warning struct {
	Kind     WarningKind
	PlayerID string
	Detail   string
}

// Anchor supplies the external benchmark for one namespace.
type Anchor struct {
	// Values holds the benchmark metric per player id (e.g. wRC+ for
	// batters, ERA- for pitchers). Players absent from the map simply
	// have no benchmark row.
	Values map[string]float64
	// Qualified marks the player ids meeting the externally supplied
	// minimum sample threshold. Only qualified players define the affine
	// map; everyone else is extrapolated through it.
	Qualified map[string]bool
}

// Row is the fully normalized view of one player.
type Row struct {
	PlayerID    string
	Rating      float64
	Appearances int

	// RatingAdjusted shifts by |min| only when the namespace minimum is
	// negative; otherwise it equals the raw rating.
	RatingAdjusted float64
	// Index is RatingAdjusted over the appearance-weighted mean of
	// RatingAdjusted, x100.
	Index float64
	// MinShifted is rating minus the namespace minimum, so the worst
	// player sits at exactly 0.
	MinShifted float64
	// MinShiftedIndex is MinShifted over the appearance-weighted mean of
	// MinShifted, x100 (100 = weighted-average performance).
	MinShiftedIndex float64

	// AnchoredIndex remaps the raw rating onto the benchmark's scale.
	// Only meaningful when HasAnchor is true.
	AnchoredIndex float64
	HasAnchor     bool
	Qualified     bool
}

// Result is the normalized namespace plus collected warnings.
type Result struct {
	Rows     []Row
	Warnings []Warning
}

// Normalize rescales one namespace's final snapshot. The anchor may be
// nil, in which case the anchored index is skipped for the namespace.
func Normalize(records []rating.PlayerRecord, anchor *Anchor) (*Result, error) {
	if len(records) == 0 {
		return nil, ErrNoPlayers
	}

	res := &Result{Rows: make([]Row, len(records))}

	minRating := records[0].Rating
	for _, rec := range records {
		minRating = math.Min(minRating, rec.Rating)
	}

	// Shift only if min < 0; a silently-negative minimum must not be
	// masked downstream.
	negShift := 0.0
	if minRating < 0 {
		negShift = -minRating
		metrics.RecordNegativeMinWarning()
		res.Warnings = append(res.Warnings, Warning{
			Kind:   WarnNegativeMinimum,
			Detail: fmt.Sprintf("namespace minimum rating %v is negative", minRating),
		})
	}

	for i, rec := range records {
		res.Rows[i] = Row{
			PlayerID:       rec.PlayerID,
			Rating:         rec.Rating,
			Appearances:    rec.Appearances,
			RatingAdjusted: rec.Rating + negShift,
			MinShifted:     rec.Rating - minRating,
		}
	}

	adjustedMean, err := weightedMean(res.Rows, func(r Row) float64 { return r.RatingAdjusted })
	if err != nil {
		return nil, err
	}
	shiftedMean, err := weightedMean(res.Rows, func(r Row) float64 { return r.MinShifted })
	if err != nil {
		return nil, err
	}

	for i := range res.Rows {
		res.Rows[i].Index = meanIndex(res.Rows[i].RatingAdjusted, adjustedMean)
		res.Rows[i].MinShiftedIndex = meanIndex(res.Rows[i].MinShifted, shiftedMean)
	}
	if shiftedMean == 0 || adjustedMean == 0 {
		res.Warnings = append(res.Warnings, Warning{
			Kind:   WarnDegenerateMean,
			Detail: "weighted mean is zero; mean-normalized index reported as 0",
		})
	}

	if anchor != nil {
		if err := applyAnchor(res, anchor); err != nil {
			return nil, err
		}
	}

	return res, nil
}

// weightedMean computes the appearance-count-weighted mean of a column:
// players with more appearances contribute proportionally more.
func weightedMean(rows []Row, col func(Row) float64) (float64, error) {
	sum := 0.0
	weight := 0.0
	for _, r := range rows {
		sum += col(r) * float64(r.Appearances)
		weight += float64(r.Appearances)
	}
	if weight == 0 {
		return 0, ErrZeroWeight
	}
	return sum / weight, nil
}

// meanIndex scales a value against the weighted mean, x100. A zero mean is
// degenerate (single-player or all-equal namespaces); 0 stands in for the
// undefined index and the caller emits a warning.
func meanIndex(value, mean float64) float64 {
	if mean == 0 {
		return 0
	}
	return value / mean * indexScale
}

// applyAnchor linearly remaps every player's raw rating from the qualified
// subset's rating range onto the benchmark's observed range. Unqualified
// players go through the same affine map and may land outside it.
func applyAnchor(res *Result, anchor *Anchor) error {
	minElo := math.Inf(1)
	maxElo := math.Inf(-1)
	minBench := math.Inf(1)
	maxBench := math.Inf(-1)
	qualified := 0

	for i := range res.Rows {
		row := &res.Rows[i]
		if !anchor.Qualified[row.PlayerID] {
			continue
		}
		bench, ok := anchor.Values[row.PlayerID]
		if !ok {
			continue
		}
		row.Qualified = true
		qualified++
		minElo = math.Min(minElo, row.Rating)
		maxElo = math.Max(maxElo, row.Rating)
		minBench = math.Min(minBench, bench)
		maxBench = math.Max(maxBench, bench)
	}

	if qualified == 0 {
		return ErrNoQualifiedPlayers
	}
	if maxElo == minElo || maxBench == minBench {
		return fmt.Errorf("%w: rating range [%v,%v], benchmark range [%v,%v]",
			ErrDegenerateAnchor, minElo, maxElo, minBench, maxBench)
	}

	scale := (maxBench - minBench) / (maxElo - minElo)
	for i := range res.Rows {
		row := &res.Rows[i]
		row.AnchoredIndex = (row.Rating-minElo)*scale + minBench
		row.HasAnchor = true
		if row.Rating < minElo || row.Rating > maxElo {
			metrics.RecordAnchorExtrapolation()
			res.Warnings = append(res.Warnings, Warning{
				Kind:     WarnAnchorExtrapolation,
				PlayerID: row.PlayerID,
				Detail:   fmt.Sprintf("rating %v outside fitted range [%v,%v]", row.Rating, minElo, maxElo),
			})
		}
	}
	return nil
}
