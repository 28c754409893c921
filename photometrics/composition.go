package photometrics

import (
	"fmt"

	"github.com/RyanBlaney/spectra/algorithms/common"
	"github.com/RyanBlaney/spectra/spectrum"
)

// BluePercentage is the share of spd's total intensity that falls in the
// G-index blue band (380-500 nm inclusive), as a percentage. A distribution
// whose samples sum to zero has no blue share and reports 0.
func (c *Calculator) BluePercentage(spd *spectrum.Distribution, round bool) (float64, error) {
	if spd == nil || spd.Len() == 0 {
		return 0, c.fail(MetricBluePercentage, spd, fmt.Errorf("blue percentage: %w", spectrum.ErrEmptyDistribution))
	}

	wavelengths, values := spd.Wavelengths(), spd.Values()
	blue := make([]float64, 0, GIndexBlueMax-GIndexBlueMin+1)
	for i, w := range wavelengths {
		if w >= GIndexBlueMin && w <= GIndexBlueMax {
			blue = append(blue, values[i])
		}
	}

	total := common.Sum(values)
	if total == 0 {
		return 0, nil
	}
	return roundTo(100*common.Sum(blue)/total, percentDigits, round), nil
}

// PeakWavelength is the wavelength of spd's largest sample, the lowest one on
// a tie. It is 0 when no sample is positive.
func (c *Calculator) PeakWavelength(spd *spectrum.Distribution) (int, error) {
	if spd == nil || spd.Len() == 0 {
		return 0, c.fail(MetricPeakWavelength, spd, fmt.Errorf("peak wavelength: %w", spectrum.ErrEmptyDistribution))
	}

	wavelengths, values := spd.Wavelengths(), spd.Values()
	peak, peakValue := 0, 0.0
	for i, v := range values {
		if v > peakValue {
			peak, peakValue = wavelengths[i], v
		}
	}
	return peak, nil
}
