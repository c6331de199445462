package dataset

import "errors"

// Sentinel kinds for dataset errors.
var (
	// ErrDataUnavailable means a source file is missing or unreadable. The
	// data has to be regenerated outside this program.
	ErrDataUnavailable = errors.New("data unavailable")
	// ErrMalformed means a source file was read but its content is invalid.
	ErrMalformed = errors.New("malformed data")
)
