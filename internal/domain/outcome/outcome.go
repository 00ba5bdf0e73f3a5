// Package outcome converts raw plate-appearance outcomes into bounded
// numeric values usable by the rating engine.
//
// The mapper depends on the whole event set: the min/max of the shifted
// metric is a global property, so a Mapper must be built once, before the
// sequential pass, and never recomputed mid-pass.
package outcome

import (
	"fmt"
	"math"

	"github.com/malcolmgaynor/MLB-ELO/internal/domain/event"
)

// StrikeoutLabel is the outcome label that overrides the raw metric.
const StrikeoutLabel = "strikeout"

// Default mapping constants.
const (
	defaultStrikeoutSentinel = -0.7 // strictly worse than a generic out
	defaultShift             = 0.7
)

// Option applies a configuration option to the Mapper.
type Option func(*Mapper)

// WithStrikeoutSentinel overrides the fixed value used for strikeouts.
func WithStrikeoutSentinel(v float64) Option {
	return func(m *Mapper) {
		m.strikeoutSentinel = v
	}
}

// WithShift overrides the shift applied before min/max scaling.
func WithShift(v float64) Option {
	return func(m *Mapper) {
		m.shift = v
	}
}

// Value is the mapped outcome of a single plate appearance.
type Value struct {
	// Norm is the min/max-normalized value in [0,1], the batter's "score"
	// for the appearance.
	Norm float64
	// Productive is 1 when the unshifted, unscaled metric is strictly
	// positive, 0 otherwise. Retained for alternative scoring modes; the
	// core rating formula does not read it.
	Productive int
	// Raw is the (possibly strikeout-overridden) pre-shift metric.
	Raw float64
}

// Mapper maps outcome labels and raw metrics onto [0,1] using a global
// min/max fitted over the full event set.
type Mapper struct {
	strikeoutSentinel float64
	shift             float64
	min               float64 // min of shifted metric across the event set
	max               float64 // max of shifted metric across the event set
}

// NewMapper fits a Mapper over the full event set. The event set must be
// complete: fitting over a prefix and mapping the rest would silently
// change every normalized value.
func NewMapper(events []event.Event, opts ...Option) (*Mapper, error) {
	m := &Mapper{
		strikeoutSentinel: defaultStrikeoutSentinel,
		shift:             defaultShift,
	}
	for _, opt := range opts {
		opt(m)
	}

	if len(events) == 0 {
		return nil, ErrNoEvents
	}

	// Non-finite metrics are excluded from the fit: one NaN would
	// propagate through math.Min/Max and poison every normalized value.
	// The engine rejects such events individually during the pass.
	fitted := 0
	m.min = math.Inf(1)
	m.max = math.Inf(-1)
	for _, e := range events {
		shifted := m.shifted(e.Outcome, e.WOBA)
		if math.IsNaN(shifted) || math.IsInf(shifted, 0) {
			continue
		}
		fitted++
		m.min = math.Min(m.min, shifted)
		m.max = math.Max(m.max, shifted)
	}
	if fitted == 0 {
		return nil, ErrNoEvents
	}

	if m.max == m.min {
		return nil, fmt.Errorf("%w: all shifted metrics equal %v", ErrDegenerateRange, m.min)
	}
	return m, nil
}

// shifted applies the strikeout override and the fixed shift.
func (m *Mapper) shifted(label string, metric float64) float64 {
	return m.override(label, metric) + m.shift
}

// override applies the strikeout sentinel regardless of the raw metric.
func (m *Mapper) override(label string, metric float64) float64 {
	if label == StrikeoutLabel {
		return m.strikeoutSentinel
	}
	return metric
}

// Map converts an outcome label and raw metric into a Value. Labels the
// mapper never saw during fitting go through the same shift/normalize
// transform; only strikeouts are special-cased.
func (m *Mapper) Map(label string, metric float64) Value {
	raw := m.override(label, metric)
	norm := (raw + m.shift - m.min) / (m.max - m.min)

	// The flag reads the metric as supplied, before the strikeout
	// override is applied.
	productive := 0
	if metric > 0 {
		productive = 1
	}

	return Value{
		Norm:       norm,
		Productive: productive,
		Raw:        raw,
	}
}

// Min returns the fitted global minimum of the shifted metric.
func (m *Mapper) Min() float64 { return m.min }

// Max returns the fitted global maximum of the shifted metric.
func (m *Mapper) Max() float64 { return m.max }
