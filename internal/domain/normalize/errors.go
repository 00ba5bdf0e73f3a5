package normalize

import "errors"

// Sentinel kinds for normalizer errors.
var (
	ErrNoPlayers          = errors.New("no players to normalize")
	ErrZeroWeight         = errors.New("total appearance weight is zero")
	ErrNoQualifiedPlayers = errors.New("no qualified players for anchor")
	ErrDegenerateAnchor   = errors.New("degenerate anchor range")
)
