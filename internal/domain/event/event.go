// Package event contains the plate-appearance model passed between layers.
package event

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"
)

// Event represents one plate appearance from the Statcast feed.
// Events are immutable once produced by the ingest layer; the engine only
// reads them, in the strict total order defined by SortChronological.
type Event struct {
	GameDate    time.Time // game date (primary ordering key)
	AtBatNumber int       // tie-break ordering within a date
	Batter      string    // opaque batter identifier
	Pitcher     string    // opaque pitcher identifier
	Outcome     string    // categorical outcome label, e.g. "strikeout"
	WOBA        float64   // raw secondary weighted-outcome metric
	HomeTeam    string    // identifies the park
}

// Validate reports whether the event is usable by the rating engine.
// A malformed event is a local condition; the caller decides whether to
// skip it or escalate.
func (e Event) Validate() error {
	switch {
	case e.Batter == "":
		return fmt.Errorf("%w: missing batter id", ErrMalformedEvent)
	case e.Pitcher == "":
		return fmt.Errorf("%w: missing pitcher id", ErrMalformedEvent)
	case e.HomeTeam == "":
		return fmt.Errorf("%w: missing home team", ErrMalformedEvent)
	case e.Outcome == "":
		return fmt.Errorf("%w: missing outcome label", ErrMalformedEvent)
	case math.IsNaN(e.WOBA) || math.IsInf(e.WOBA, 0):
		return fmt.Errorf("%w: non-finite metric %v", ErrMalformedEvent, e.WOBA)
	}
	return nil
}

// Key returns the identity of the event over all columns, used for
// exact-duplicate suppression before the pass.
func (e Event) Key() string {
	return e.GameDate.Format("2006-01-02") + "|" +
		strconv.Itoa(e.AtBatNumber) + "|" +
		e.Batter + "|" + e.Pitcher + "|" +
		e.Outcome + "|" +
		strconv.FormatFloat(e.WOBA, 'g', -1, 64) + "|" +
		e.HomeTeam
}

// Before reports whether e precedes other in the pass order:
// game date ascending, then at-bat number ascending.
func (e Event) Before(other Event) bool {
	if !e.GameDate.Equal(other.GameDate) {
		return e.GameDate.Before(other.GameDate)
	}
	return e.AtBatNumber < other.AtBatNumber
}

// SortChronological orders events by (game date asc, at-bat number asc).
// The sort is stable so events within the same tie group keep their
// encounter order; the final ratings are invariant under permutations
// inside a tie group only by convention, not by construction.
func SortChronological(events []Event) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Before(events[j])
	})
}
