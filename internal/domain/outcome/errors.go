package outcome

import "errors"

// Sentinel kinds for mapper errors.
var (
	ErrNoEvents        = errors.New("no events to fit mapper")
	ErrDegenerateRange = errors.New("degenerate metric range")
)
