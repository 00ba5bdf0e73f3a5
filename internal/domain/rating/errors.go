package rating

import (
	"errors"
	"fmt"

	"github.com/malcolmgaynor/MLB-ELO/internal/domain/event"
)

// Sentinel kinds for engine errors.
var (
	// ErrMissingParkFactor marks a home team absent from the park-factor
	// table. A missing multiplier silently defaulting to 1.0 would be a
	// correctness regression, so this is fatal.
	ErrMissingParkFactor = errors.New("missing park factor")
)

// PassError is a fatal error raised mid-pass. It carries the offending
// event's position in the ordered sequence so the caller can attribute it.
type PassError struct {
	Position int
	Event    event.Event
	Err      error
}

func (e *PassError) Error() string {
	return fmt.Sprintf("event %d (%s at-bat %d, %s vs %s): %v",
		e.Position,
		e.Event.GameDate.Format("2006-01-02"),
		e.Event.AtBatNumber,
		e.Event.Batter,
		e.Event.Pitcher,
		e.Err,
	)
}

func (e *PassError) Unwrap() error {
	return e.Err
}
