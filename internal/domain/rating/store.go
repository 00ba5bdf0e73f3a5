// Package rating implements the ELO-style player rating state and the
// sequential update engine that mutates it.
package rating

import (
	"sort"
)

// Role identifies the namespace a player record lives in. Batters and
// pitchers are tracked independently; a player who both bats and pitches
// has two unrelated records.
type Role string

// Recognized roles.
const (
	Batter  Role = "batter"
	Pitcher Role = "pitcher"
)

// DefaultInitialRating is the rating assigned on first appearance,
// matching the chess convention.
const DefaultInitialRating = 1500.0

// Record holds the mutable rating state for one player in one role.
type Record struct {
	Rating      float64
	Appearances int
}

// PlayerRecord is one immutable snapshot row.
type PlayerRecord struct {
	PlayerID    string
	Rating      float64
	Appearances int
}

// Store maps player identifiers to rating records in two independent
// namespaces. It is exclusively owned by the engine for the duration of a
// pass: a single writer, no concurrent readers until the pass completes,
// so it carries no locking.
type Store struct {
	initialRating float64
	records       map[Role]map[string]*Record
	created       func(role Role, playerID string)
}

// StoreOption applies a configuration option to the Store.
type StoreOption func(*Store)

// WithInitialRating overrides the rating assigned on first appearance.
func WithInitialRating(r float64) StoreOption {
	return func(s *Store) {
		s.initialRating = r
	}
}

// WithCreateHook installs an audit hook, invoked once per lazily created
// record.
func WithCreateHook(fn func(role Role, playerID string)) StoreOption {
	return func(s *Store) {
		s.created = fn
	}
}

// NewStore creates an empty store.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		initialRating: DefaultInitialRating,
		records: map[Role]map[string]*Record{
			Batter:  {},
			Pitcher: {},
		},
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// GetOrInit returns the existing record for the player or lazily creates
// one with the initial rating and a zero appearance count. The store only
// grows; records are never removed during a pass.
func (s *Store) GetOrInit(role Role, playerID string) *Record {
	if rec, ok := s.records[role][playerID]; ok {
		return rec
	}
	rec := &Record{Rating: s.initialRating}
	s.records[role][playerID] = rec
	if s.created != nil {
		s.created(role, playerID)
	}
	return rec
}

// ApplyDelta adds delta to the player's rating. No clamping, no bounds;
// negative ratings are permitted and not an error condition.
func (s *Store) ApplyDelta(role Role, playerID string, delta float64) {
	s.GetOrInit(role, playerID).Rating += delta
}

// IncrementCount increments the player's appearance count by exactly 1.
func (s *Store) IncrementCount(role Role, playerID string) {
	s.GetOrInit(role, playerID).Appearances++
}

// Count returns the number of players tracked in a namespace.
func (s *Store) Count(role Role) int {
	return len(s.records[role])
}

// Snapshot returns the final state of a namespace sorted best-to-worst by
// rating (player id breaks ties, for determinism). Only valid once the
// pass has completed; intermediate states are not a basis for the
// normalizer's aggregate statistics.
func (s *Store) Snapshot(role Role) []PlayerRecord {
	rows := make([]PlayerRecord, 0, len(s.records[role]))
	for id, rec := range s.records[role] {
		rows = append(rows, PlayerRecord{
			PlayerID:    id,
			Rating:      rec.Rating,
			Appearances: rec.Appearances,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Rating != rows[j].Rating {
			return rows[i].Rating > rows[j].Rating
		}
		return rows[i].PlayerID < rows[j].PlayerID
	})
	return rows
}
