package app

import "errors"

// Sentinel kinds for comparison errors.
var (
	// ErrNoOverlap means the two competitions share no competitor with a
	// score in both. It is an expected outcome, not a fault.
	ErrNoOverlap = errors.New("no competitors in common")
	// ErrInvalidArgument means the request failed validation or named an
	// unknown competition.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotConfigured means the service was built without a store.
	ErrNotConfigured = errors.New("service has no result store")
)
