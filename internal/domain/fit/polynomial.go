// Package fit fits polynomial trend curves by least squares.
package fit

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/mat"
)

// minSamples is the least number of intervals a sampled curve spans, so the
// step is one unit or finer.
const minSamples = 100

// maxSamples bounds the intervals of a sampled curve over a very wide range.
const maxSamples = 10000

// Polynomial is a least-squares fit evaluated on a centered and scaled
// variable t = (x - center) / scale to keep the normal equations well
// conditioned.
type Polynomial struct {
	degree int
	coef   []float64 // in t, lowest degree first
	center float64
	scale  float64
}

// Point is one sample of a fitted curve.
type Point struct {
	X, Y float64
}

// Polyfit fits y ≈ p(x) of the given degree. It needs at least degree+1
// distinct x values; otherwise it returns ErrInfeasible.
func Polyfit(x, y []float64, degree int) (*Polynomial, error) {
	if degree < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDegree, degree)
	}
	if len(x) != len(y) {
		return nil, fmt.Errorf("%w: %d x values vs %d y values", ErrInfeasible, len(x), len(y))
	}
	distinct := slices.Clone(x)
	slices.Sort(distinct)
	distinct = slices.Compact(distinct)
	if len(distinct) < degree+1 {
		return nil, fmt.Errorf("%w: degree %d needs %d distinct points, have %d",
			ErrInfeasible, degree, degree+1, len(distinct))
	}

	lo, hi := distinct[0], distinct[len(distinct)-1]
	center := (lo + hi) / 2
	scale := (hi - lo) / 2
	if scale == 0 {
		scale = 1
	}

	cols := degree + 1
	a := mat.NewDense(len(x), cols, nil)
	for i, xi := range x {
		t := (xi - center) / scale
		p := 1.0
		for j := 0; j < cols; j++ {
			a.Set(i, j, p)
			p *= t
		}
	}
	b := mat.NewVecDense(len(y), slices.Clone(y))

	var sol mat.VecDense
	if err := sol.SolveVec(a, b); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) {
			return nil, fmt.Errorf("%w: %w", ErrInfeasible, err)
		}
		// ill-conditioned but solved; keep the estimate
	}

	coef := make([]float64, cols)
	for j := range coef {
		coef[j] = sol.AtVec(j)
		if math.IsNaN(coef[j]) || math.IsInf(coef[j], 0) {
			return nil, fmt.Errorf("%w: non-finite coefficient", ErrInfeasible)
		}
	}
	return &Polynomial{degree: degree, coef: coef, center: center, scale: scale}, nil
}

// Degree returns the polynomial degree.
func (p *Polynomial) Degree() int { return p.degree }

// Eval evaluates the polynomial at x.
func (p *Polynomial) Eval(x float64) float64 {
	t := (x - p.center) / p.scale
	y := 0.0
	for j := len(p.coef) - 1; j >= 0; j-- {
		y = y*t + p.coef[j]
	}
	return y
}

// Coefficients returns the coefficients in x, lowest degree first, so that
// p(x) = c[0] + c[1]x + ... + c[d]x^d.
func (p *Polynomial) Coefficients() []float64 {
	out := make([]float64, len(p.coef))
	// (x-c)^k / s^k = sum_j C(k,j) x^j (-c)^(k-j) / s^k
	for k, a := range p.coef {
		f := a / math.Pow(p.scale, float64(k))
		for j := 0; j <= k; j++ {
			out[j] += f * binomial(k, j) * math.Pow(-p.center, float64(k-j))
		}
	}
	return out
}

// Sample evaluates the polynomial from lo to hi inclusive with a step of one
// unit, finer when the range spans fewer than minSamples units and coarser
// when it spans more than maxSamples.
func (p *Polynomial) Sample(lo, hi float64) []Point {
	if hi < lo {
		lo, hi = hi, lo
	}
	span := hi - lo
	if span == 0 {
		return []Point{{X: lo, Y: p.Eval(lo)}}
	}
	step := math.Max(math.Min(1, span/minSamples), span/maxSamples)
	n := int(math.Floor(span/step + 1e-9))

	pts := make([]Point, 0, n+2)
	for i := 0; i <= n; i++ {
		x := lo + float64(i)*step
		pts = append(pts, Point{X: x, Y: p.Eval(x)})
	}
	if last := pts[len(pts)-1].X; hi-last > step*1e-6 {
		pts = append(pts, Point{X: hi, Y: p.Eval(hi)})
	}
	return pts
}

func binomial(n, k int) float64 {
	r := 1.0
	for i := 1; i <= k; i++ {
		r = r * float64(n-k+i) / float64(i)
	}
	return r
}
