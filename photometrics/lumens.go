package photometrics

import (
	"fmt"

	"github.com/RyanBlaney/spectra/algorithms/common"
	"github.com/RyanBlaney/spectra/spectrum"
)

// LumensInput is what MelanopicLumens derives its melanopic ratio from. It is
// implemented only by Ratio and Spectrum.
type LumensInput interface {
	lumensInput()
}

// Ratio is an already computed, unrounded melanopic ratio
type Ratio float64

// Spectrum asks MelanopicLumens to compute the ratio from a distribution
type Spectrum struct {
	SPD *spectrum.Distribution
}

func (Ratio) lumensInput()    {}
func (Spectrum) lumensInput() {}

// MelanopicLumens scales photopic lumens by the melanopic ratio. The rounded
// result is an integer, rounded half to even.
func (c *Calculator) MelanopicLumens(input LumensInput, lumens float64, round bool) (float64, error) {
	var ratio float64
	switch in := input.(type) {
	case Ratio:
		ratio = float64(in)
	case Spectrum:
		r, err := c.MelanopicRatio(in.SPD, Unrounded)
		if err != nil {
			return 0, err
		}
		ratio = r
	default:
		return 0, fmt.Errorf("unsupported melanopic lumens input %T", input)
	}

	value := ratio * lumens
	if !round {
		return value, nil
	}
	return common.RoundInteger(value), nil
}
