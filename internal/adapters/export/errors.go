package export

import "errors"

var (
	// ErrNoRows is returned when there is nothing to write.
	ErrNoRows = errors.New("no rows to export")
)
