package spectrum

import (
	"fmt"

	"github.com/RyanBlaney/spectra/algorithms/common"
)

// Shape describes a uniform wavelength grid from Min to Max (inclusive when
// Max lands on a step) every Interval nanometers.
type Shape struct {
	Min      int `json:"min" yaml:"min" koanf:"min"`
	Max      int `json:"max" yaml:"max" koanf:"max"`
	Interval int `json:"interval" yaml:"interval" koanf:"interval"`
}

// DefaultShape is the canonical 360-780 nm grid at 1 nm
var DefaultShape = Shape{Min: 360, Max: 780, Interval: 1}

// Validate reports whether the grid can be built
func (s Shape) Validate() error {
	if s.Interval <= 0 {
		return fmt.Errorf("%w: interval %d must be positive", ErrInvalidShape, s.Interval)
	}
	if s.Min > s.Max {
		return fmt.Errorf("%w: min %d exceeds max %d", ErrInvalidShape, s.Min, s.Max)
	}
	return nil
}

// Wavelengths returns the grid points
func (s Shape) Wavelengths() []int {
	return common.IntGrid(s.Min, s.Max, s.Interval)
}

// Len returns the number of grid points
func (s Shape) Len() int {
	if s.Validate() != nil {
		return 0
	}
	return (s.Max-s.Min)/s.Interval + 1
}

func (s Shape) String() string {
	return fmt.Sprintf("%d-%d nm @ %d nm", s.Min, s.Max, s.Interval)
}

// Normalize scales the distribution so its largest value is exactly 1.0.
// Wavelengths are untouched.
func (d *Distribution) Normalize() (*Distribution, error) {
	if len(d.values) == 0 {
		return nil, ErrEmptyDistribution
	}

	normalized, _, ok := common.PeakNormalize(d.values)
	if !ok {
		return nil, fmt.Errorf("cannot normalize %q: %w", d.name, ErrZeroPeak)
	}

	return newSorted(d.name, d.wavelengths, normalized), nil
}

// Scale multiplies every value by weight. A weight of 1.0 returns the
// receiver itself.
func (d *Distribution) Scale(weight float64) *Distribution {
	if weight == 1.0 {
		return d
	}
	return newSorted(d.name, d.wavelengths, common.Scale(d.values, weight))
}

// Reshape resamples the distribution onto shape. Grid points inside the
// measured band are linearly interpolated between the two nearest samples;
// points outside it repeat the nearest boundary value. Reshaping onto the
// grid a distribution already has reproduces its samples exactly.
func (d *Distribution) Reshape(shape Shape) (*Distribution, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	if len(d.wavelengths) == 0 {
		return nil, ErrEmptyDistribution
	}

	interpolator, err := common.NewLinearInterpolator(common.ToFloat64(d.wavelengths), d.values)
	if err != nil {
		return nil, fmt.Errorf("failed to reshape %q: %w", d.name, err)
	}

	grid := shape.Wavelengths()
	values := interpolator.PredictGrid(common.ToFloat64(grid))

	return newSorted(d.name, grid, values), nil
}
