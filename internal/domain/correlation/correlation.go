// Package correlation computes Pearson and Spearman correlation coefficients.
package correlation

import (
	"fmt"
	"math"

	"github.com/okian/contestcorr/internal/domain/ranking"
)

// Pearson returns the product-moment correlation of x and y.
//
// It fails with ErrDegenerate when either sequence is constant, since the
// coefficient divides by both standard deviations, and with ErrNonFinite
// when an input is NaN or infinite or the sums overflow.
func Pearson(x, y []float64) (float64, error) {
	if len(x) != len(y) {
		return math.NaN(), fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, len(x), len(y))
	}
	if len(x) < 2 {
		return math.NaN(), fmt.Errorf("%w: got %d", ErrTooFewPoints, len(x))
	}

	if i, ok := firstNonFinite(x, y); ok {
		return math.NaN(), fmt.Errorf("%w: pair %d", ErrNonFinite, i)
	}

	mx, my := mean(x), mean(y)
	var sxy, sxx, syy float64
	for i := range x {
		dx, dy := x[i]-mx, y[i]-my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	if !finite(sxy) || !finite(sxx) || !finite(syy) {
		return math.NaN(), fmt.Errorf("%w: sums overflow", ErrNonFinite)
	}
	if sxx == 0 || syy == 0 {
		return math.NaN(), ErrDegenerate
	}

	r := sxy / (math.Sqrt(sxx) * math.Sqrt(syy))
	if !finite(r) {
		return math.NaN(), fmt.Errorf("%w: coefficient", ErrNonFinite)
	}
	return math.Max(-1, math.Min(1, r)), nil
}

// Spearman returns the rank correlation of x and y: Pearson over the
// average ranks of each sequence.
func Spearman(x, y []float64) (float64, error) {
	if len(x) != len(y) {
		return math.NaN(), fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, len(x), len(y))
	}
	// Ranks of NaN or Inf are finite, so check the raw values here.
	if i, ok := firstNonFinite(x, y); ok {
		return math.NaN(), fmt.Errorf("spearman: %w: pair %d", ErrNonFinite, i)
	}
	r, err := Pearson(ranking.AverageRank(x), ranking.AverageRank(y))
	if err != nil {
		return math.NaN(), fmt.Errorf("spearman: %w", err)
	}
	return r, nil
}

func mean(v []float64) float64 {
	var s float64
	for _, x := range v {
		s += x
	}
	return s / float64(len(v))
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// firstNonFinite reports the first index where x or y is not finite.
func firstNonFinite(x, y []float64) (int, bool) {
	for i := range x {
		if !finite(x[i]) || !finite(y[i]) {
			return i, true
		}
	}
	return 0, false
}
