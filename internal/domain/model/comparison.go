package model

import (
	"fmt"
	"math"
)

// DisplayPrecision is the number of decimal digits used when presenting
// correlation coefficients.
const DisplayPrecision = 4

// Correlation is a coefficient together with the reason it is undefined,
// if it is.
type Correlation struct {
	Value float64
	Err   error
}

// Defined reports whether the coefficient could be computed.
func (c Correlation) Defined() bool { return c.Err == nil && !math.IsNaN(c.Value) }

func (c Correlation) String() string {
	if !c.Defined() {
		if c.Err != nil {
			return fmt.Sprintf("undefined (%v)", c.Err)
		}
		return "undefined"
	}
	return fmt.Sprintf("%.*f", DisplayPrecision, c.Value)
}

// FitPoint is one sample of a fitted trend curve.
type FitPoint struct {
	X, Y float64
}

// FitCurve is a fitted polynomial and its samples over the observed domain.
type FitCurve struct {
	Degree int
	// Coefficients are lowest degree first.
	Coefficients []float64
	Points       []FitPoint
}

// ComparisonResult is the outcome of comparing two competitions. ScoresA[i]
// and ScoresB[i] belong to the same competitor.
type ComparisonResult struct {
	CompetitionA string
	CompetitionB string
	ScoresA      []float64
	ScoresB      []float64
	Pearson      Correlation
	Spearman     Correlation
	Fit          *FitCurve
	// FitErr is set when a fit was requested but could not be computed.
	FitErr error
	// Excluded counts overlapping competitors dropped for a missing score.
	Excluded int
}

// Len returns the number of paired scores.
func (r *ComparisonResult) Len() int { return len(r.ScoresA) }
