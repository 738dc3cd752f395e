package regress

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/cognicore/drift/pkg/drift/internalerr"
)

// Point is one yearly observation for a word: the year and that year's
// mean rating.
type Point struct {
	Year   int
	Rating float64
}

// TrendFit is the linear regression of mean rating on year for one word.
type TrendFit struct {
	Word      string
	Slope     float64 // rating change per year
	Intercept float64
	PValue    float64 // two-sided t-test on slope = 0, in [0,1]
	Years     int     // number of year-points the fit used
}

// Fit runs ordinary least squares of rating on year. Weights, when
// non-nil, must match points in length; nil fits every point equally.
//
// The p-value is the standard two-sided t-test on the slope coefficient
// with n-2 residual degrees of freedom. With exactly two points the
// residual degrees of freedom are zero and the p-value is defined as 1:
// such a fit can never be significant. A perfect fit over more points has
// p-value 0.
func Fit(points []Point, weights []float64) (slope, intercept, pValue float64, err error) {
	if distinctYears(points) < 2 {
		return 0, 0, 0, fmt.Errorf("%w: need >= 2 distinct years, have %d",
			internalerr.ErrUnderdetermined, distinctYears(points))
	}
	if weights != nil && len(weights) != len(points) {
		return 0, 0, 0, fmt.Errorf("%w: %d weights for %d points",
			internalerr.ErrInvalidConfig, len(weights), len(points))
	}

	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i] = float64(p.Year)
		ys[i] = p.Rating
	}

	intercept, slope = stat.LinearRegression(xs, ys, weights, false)
	pValue = slopePValue(xs, ys, weights, slope, intercept)
	return slope, intercept, pValue, nil
}

// slopePValue computes the two-sided p-value for the null hypothesis that
// the slope is zero.
func slopePValue(xs, ys, weights []float64, slope, intercept float64) float64 {
	n := len(xs)
	df := float64(n - 2)
	if df <= 0 {
		return 1
	}

	w := func(i int) float64 {
		if weights == nil {
			return 1
		}
		return weights[i]
	}

	var sumW, sumWX float64
	for i := range xs {
		sumW += w(i)
		sumWX += w(i) * xs[i]
	}
	meanX := sumWX / sumW

	var sse, sxx float64
	for i := range xs {
		resid := ys[i] - (intercept + slope*xs[i])
		sse += w(i) * resid * resid
		dx := xs[i] - meanX
		sxx += w(i) * dx * dx
	}
	if sxx == 0 {
		return 1
	}

	se := math.Sqrt((sse / df) / sxx)
	if se == 0 {
		// Zero residuals: the fit is exact. A nonzero slope is then
		// certain; a zero slope is exactly the null hypothesis.
		if slope == 0 {
			return 1
		}
		return 0
	}

	t := math.Abs(slope / se)
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	return 2 * dist.Survival(t)
}

func distinctYears(points []Point) int {
	seen := make(map[int]struct{}, len(points))
	for _, p := range points {
		seen[p.Year] = struct{}{}
	}
	return len(seen)
}
