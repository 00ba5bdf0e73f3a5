package event

import "errors"

// Sentinel kinds for event errors.
var (
	ErrMalformedEvent = errors.New("malformed event")
)
