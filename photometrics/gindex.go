package photometrics

import (
	"fmt"
	"math"

	"github.com/RyanBlaney/spectra/algorithms/common"
	"github.com/RyanBlaney/spectra/reference"
	"github.com/RyanBlaney/spectra/spectrum"
)

// Bands of the spectral G-index, inclusive, in nm
const (
	GIndexBlueMin    = 380
	GIndexBlueMax    = 500
	GIndexVisibleMin = 380
	GIndexVisibleMax = 780
)

// SpectralGIndex is -2.5*log10 of the unweighted blue band sum over the
// photopically weighted visible band sum. The result is not rounded.
//
// spd must be sampled at every integer wavelength from 380 to 780 nm, which
// holds for any distribution reshaped onto a 1 nm grid covering that band.
// Anything else fails with ErrNotReshaped instead of being resampled here.
func (c *Calculator) SpectralGIndex(spd *spectrum.Distribution) (float64, error) {
	registry := c.engine.Registry()
	if registry == nil {
		return 0, c.fail(MetricSpectralGIndex, spd, fmt.Errorf("no reference registry configured for %q", reference.Photopic))
	}
	photopic, err := registry.Curve(reference.Photopic)
	if err != nil {
		return 0, c.fail(MetricSpectralGIndex, spd, err)
	}

	blue, err := bandValues(spd, GIndexBlueMin, GIndexBlueMax)
	if err != nil {
		return 0, c.fail(MetricSpectralGIndex, spd, err)
	}
	visible, err := bandValues(spd, GIndexVisibleMin, GIndexVisibleMax)
	if err != nil {
		return 0, c.fail(MetricSpectralGIndex, spd, err)
	}
	weights, err := bandValues(photopic, GIndexVisibleMin, GIndexVisibleMax)
	if err != nil {
		return 0, c.fail(MetricSpectralGIndex, spd, err)
	}

	numerator := common.Sum(blue)
	denominator := common.Dot(visible, weights)
	if numerator <= 0 || denominator <= 0 {
		return 0, c.fail(MetricSpectralGIndex, spd, fmt.Errorf(
			"%w: g-index of %q has blue sum %g over weighted sum %g",
			ErrDegenerateResponse, spd.Name(), numerator, denominator))
	}

	return -2.5 * math.Log10(numerator/denominator), nil
}

func bandValues(spd *spectrum.Distribution, low, high int) ([]float64, error) {
	if spd == nil {
		return nil, spectrum.ErrEmptyDistribution
	}
	grid := common.IntGrid(low, high, 1)
	values := make([]float64, len(grid))
	for i, w := range grid {
		v, ok := spd.At(w)
		if !ok {
			return nil, fmt.Errorf("%w: %q has no sample at %d nm", ErrNotReshaped, spd.Name(), w)
		}
		values[i] = v
	}
	return values, nil
}
