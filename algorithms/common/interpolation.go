package common

import (
	"fmt"

	"gonum.org/v1/gonum/interp"
)

// LinearInterpolator evaluates a piecewise-linear curve through a set of
// knots on an arbitrary, strictly increasing grid. Queries outside the knot
// range hold the nearest boundary value, so it never projects a trend past
// the measured data.
type LinearInterpolator struct {
	xs       []float64
	ys       []float64
	fit      interp.PiecewiseLinear
	constant bool
}

// NewLinearInterpolator fits knots (xs[i], ys[i]). A single knot yields a
// constant interpolator.
func NewLinearInterpolator(xs, ys []float64) (*LinearInterpolator, error) {
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("knot length mismatch: %d wavelengths, %d values", len(xs), len(ys))
	}
	if len(xs) == 0 {
		return nil, fmt.Errorf("at least one knot is required")
	}
	for i := 1; i < len(xs); i++ {
		if xs[i] <= xs[i-1] {
			return nil, fmt.Errorf("knots must be strictly increasing: %v follows %v", xs[i], xs[i-1])
		}
	}

	li := &LinearInterpolator{
		xs:       xs,
		ys:       ys,
		constant: len(xs) == 1,
	}
	if !li.constant {
		// Fit panics on invalid input, which the checks above rule out
		if err := li.fit.Fit(xs, ys); err != nil {
			return nil, fmt.Errorf("failed to fit knots: %w", err)
		}
	}

	return li, nil
}

// Predict returns the interpolated value at x
func (li *LinearInterpolator) Predict(x float64) float64 {
	last := len(li.xs) - 1
	if li.constant || x <= li.xs[0] {
		return li.ys[0]
	}
	if x >= li.xs[last] {
		return li.ys[last]
	}
	return li.fit.Predict(x)
}

// PredictGrid evaluates the interpolator at every point of grid
func (li *LinearInterpolator) PredictGrid(grid []float64) []float64 {
	out := make([]float64, len(grid))
	for i, x := range grid {
		out[i] = li.Predict(x)
	}
	return out
}

// IntGrid builds the integer axis low, low+step, ... up to and including high
// when it falls on a step.
func IntGrid(low, high, step int) []int {
	if step <= 0 || low > high {
		return []int{}
	}

	grid := make([]int, 0, (high-low)/step+1)
	for w := low; w <= high; w += step {
		grid = append(grid, w)
	}
	return grid
}

// ToFloat64 widens an integer axis for interpolation
func ToFloat64(values []int) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = float64(v)
	}
	return out
}
