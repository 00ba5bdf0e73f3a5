package statcast

import "errors"

// Sentinel kinds for ingest errors.
var (
	ErrNoFiles              = errors.New("no event files matched")
	ErrMissingColumn        = errors.New("missing required column")
	ErrMissingReferenceData = errors.New("missing reference data")
)
