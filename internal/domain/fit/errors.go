package fit

import "errors"

// Sentinel kinds for fit errors.
var (
	ErrInfeasible    = errors.New("polynomial fit infeasible")
	ErrInvalidDegree = errors.New("invalid polynomial degree")
)
