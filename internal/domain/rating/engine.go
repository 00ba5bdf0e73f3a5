package rating

import (
	"context"
	"fmt"
	"math"

	"github.com/malcolmgaynor/MLB-ELO/internal/domain/event"
	"github.com/malcolmgaynor/MLB-ELO/internal/domain/outcome"
	"github.com/malcolmgaynor/MLB-ELO/pkg/logger"
	"github.com/malcolmgaynor/MLB-ELO/pkg/metrics"
)

// Default engine configuration constants. 30 games is the usual chess
// provisional sample, so 30*4 = 120 plate appearances.
const (
	defaultKHigh           = 40.0
	defaultKLow            = 20.0
	defaultKCountThreshold = 120
	ratingScale            = 400.0
	progressStep           = 0.1
)

// ParkFactors maps a home team to its positive expectation multiplier.
type ParkFactors map[string]float64

// WarningKind classifies non-fatal conditions collected during a pass.
type WarningKind string

// Warning kinds.
const (
	WarnClampedExpectation WarningKind = "clamped_expectation"
	WarnMalformedEvent     WarningKind = "malformed_event"
)

// Warning is one non-fatal diagnostic, attributed to an event position.
type Warning struct {
	Kind     WarningKind
	Position int
	Detail   string
}

// Report summarizes a completed pass. Warnings are returned alongside the
// result, never silently dropped.
type Report struct {
	Applied  int
	Skipped  int
	Warnings []Warning
}

// Clamps counts the clamped-expectation warnings in the report.
func (r *Report) Clamps() int {
	n := 0
	for _, w := range r.Warnings {
		if w.Kind == WarnClampedExpectation {
			n++
		}
	}
	return n
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithKFactors sets the step sizes used below and above the count threshold.
func WithKFactors(high, low float64) Option {
	return func(e *Engine) {
		if high > 0 && low > 0 {
			e.kHigh = high
			e.kLow = low
		}
	}
}

// WithKCountThreshold sets the appearance count at or below which the high
// K factor applies.
func WithKCountThreshold(n int) Option {
	return func(e *Engine) {
		if n >= 0 {
			e.kThreshold = n
		}
	}
}

// WithStrictEvents escalates malformed single events from skip-and-log to
// fatal.
func WithStrictEvents(strict bool) Option {
	return func(e *Engine) {
		e.strict = strict
	}
}

// WithLogger sets a custom logger for the engine.
func WithLogger(log logger.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// Engine performs the sequential rating pass. It is stateless between
// events except through the Store; each event's update is a pure function
// of the two participants' pre-event state, the park factor, and the
// precomputed outcome value.
type Engine struct {
	store  *Store
	parks  ParkFactors
	mapper *outcome.Mapper

	kHigh      float64
	kLow       float64
	kThreshold int
	strict     bool

	log logger.Logger
}

// New constructs an Engine over an exclusively owned store.
func New(store *Store, parks ParkFactors, mapper *outcome.Mapper, opts ...Option) *Engine {
	e := &Engine{
		store:      store,
		parks:      parks,
		mapper:     mapper,
		kHigh:      defaultKHigh,
		kLow:       defaultKLow,
		kThreshold: defaultKCountThreshold,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Expectation returns the probability that the batter "wins" the plate
// appearance, from the logistic rating-difference curve: a pitcher rated
// 400 points above the batter leaves the batter roughly a 9% expectation,
// symmetric around diff=0 -> 0.5.
func Expectation(batterRating, pitcherRating float64) float64 {
	diff := pitcherRating - batterRating
	return 1.0 / (math.Pow(10, diff/ratingScale) + 1.0)
}

// kFor picks the step size from a side's own appearance count before the
// event. A count exactly at the threshold still gets the high K.
func (e *Engine) kFor(appearances int) float64 {
	if appearances <= e.kThreshold {
		return e.kHigh
	}
	return e.kLow
}

// Run consumes the ordered event stream one event at a time and applies
// the two-sided rating update for each. Events must already be sorted by
// (game date, at-bat number); re-ordering changes every downstream rating.
//
// Cancellation is honored between events only, so a cancelled pass leaves
// the store in a consistent prefix-applied state: no event is ever half
// applied.
func (e *Engine) Run(ctx context.Context, events []event.Event) (*Report, error) {
	report := &Report{}
	total := len(events)
	nextProgress := progressStep

	for i, ev := range events {
		select {
		case <-ctx.Done():
			return report, fmt.Errorf("pass cancelled after %d events: %w", report.Applied, ctx.Err())
		default:
		}

		if err := ev.Validate(); err != nil {
			metrics.RecordEventMalformed()
			metrics.RecordErrorByComponent("engine", "malformed_event")
			if e.strict {
				return report, &PassError{Position: i, Event: ev, Err: err}
			}
			report.Skipped++
			report.Warnings = append(report.Warnings, Warning{
				Kind:     WarnMalformedEvent,
				Position: i,
				Detail:   err.Error(),
			})
			if e.log != nil {
				e.log.Warn(ctx, "skipping malformed event", logger.Int("position", i), logger.Error(err))
			}
			continue
		}

		parkFactor, ok := e.parks[ev.HomeTeam]
		if !ok {
			metrics.RecordErrorByComponent("engine", "missing_park_factor")
			return report, &PassError{
				Position: i,
				Event:    ev,
				Err:      fmt.Errorf("%w: team %q", ErrMissingParkFactor, ev.HomeTeam),
			}
		}

		// All reads below use state strictly prior to this event's
		// updates; the deltas land only after both sides are computed.
		batter := e.store.GetOrInit(Batter, ev.Batter)
		pitcher := e.store.GetOrInit(Pitcher, ev.Pitcher)

		batterK := e.kFor(batter.Appearances)
		pitcherK := e.kFor(pitcher.Appearances)

		expectedBatter := Expectation(batter.Rating, pitcher.Rating) * parkFactor
		if expectedBatter > 1 {
			// Known approximation: a park factor above 1.0 on an already
			// high raw expectation can leave the probability range.
			// Clamping keeps the [0,1] semantics at the cost of the
			// excess mass; surfaced for calibration review.
			expectedBatter = 1
			metrics.RecordClampedExpectation()
			report.Warnings = append(report.Warnings, Warning{
				Kind:     WarnClampedExpectation,
				Position: i,
				Detail:   fmt.Sprintf("park factor %v at %s", parkFactor, ev.HomeTeam),
			})
			if e.log != nil {
				e.log.Warn(ctx, "clamped expectation",
					logger.Int("position", i),
					logger.String("homeTeam", ev.HomeTeam),
					logger.Float64("parkFactor", parkFactor),
				)
			}
		}
		// Derived from the clamped value so the two sides stay zero-sum.
		expectedPitcher := 1 - expectedBatter

		value := e.mapper.Map(ev.Outcome, ev.WOBA)

		// The two deltas share structure but use each side's own K, so
		// they are not generally equal in magnitude. Classic shared-K
		// chess updates would negate one delta to get the other; here
		// each side converges at its own provisional rate.
		batterDelta := batterK * (value.Norm - expectedBatter)
		pitcherDelta := pitcherK * ((1 - value.Norm) - expectedPitcher)

		e.store.ApplyDelta(Batter, ev.Batter, batterDelta)
		e.store.ApplyDelta(Pitcher, ev.Pitcher, pitcherDelta)
		e.store.IncrementCount(Batter, ev.Batter)
		e.store.IncrementCount(Pitcher, ev.Pitcher)

		report.Applied++
		metrics.RecordEventApplied()

		progress := float64(i+1) / float64(total)
		metrics.UpdatePassProgress(progress)
		for progress >= nextProgress {
			if e.log != nil {
				e.log.Info(ctx, "pass progress",
					logger.Int("percent", int(math.Round(nextProgress*100))),
					logger.Int("applied", i+1),
					logger.Int("total", total),
				)
			}
			nextProgress += progressStep
		}
	}

	metrics.UpdateTrackedPlayers(string(Batter), e.store.Count(Batter))
	metrics.UpdateTrackedPlayers(string(Pitcher), e.store.Count(Pitcher))

	return report, nil
}
