package correlation

import "errors"

// Sentinel kinds for correlation errors. Every function returns NaN together
// with one of these.
var (
	ErrLengthMismatch = errors.New("sequences differ in length")
	ErrTooFewPoints   = errors.New("at least two points are required")
	ErrDegenerate     = errors.New("zero variance: correlation undefined")
	ErrNonFinite      = errors.New("non-finite value: correlation undefined")
)
