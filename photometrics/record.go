package photometrics

import (
	"github.com/RyanBlaney/spectra/logging"
	"github.com/RyanBlaney/spectra/spectrum"
)

// Record is the set of reported metrics for one distribution. Every field is
// rounded per its calculator; MelanopicLumens is present only when a lumen
// output was supplied.
type Record struct {
	Name                   string   `json:"name" yaml:"name"`
	MelanopicRatio         float64  `json:"melanopic_ratio" yaml:"melanopic_ratio"`
	MelanopicResponse      float64  `json:"melanopic_response" yaml:"melanopic_response"`
	ScotopicPhotopicRatio  float64  `json:"scotopic_photopic_ratio" yaml:"scotopic_photopic_ratio"`
	MelanopicPhotopicRatio float64  `json:"melanopic_photopic_ratio" yaml:"melanopic_photopic_ratio"`
	PhotopicResponse       float64  `json:"photopic_response" yaml:"photopic_response"`
	ScotopicResponse       float64  `json:"scotopic_response" yaml:"scotopic_response"`
	SpectralGIndex         float64  `json:"spectral_g_index" yaml:"spectral_g_index"`
	BluePercentage         float64  `json:"blue_percentage" yaml:"blue_percentage"`
	PeakWavelength         int      `json:"peak_wavelength" yaml:"peak_wavelength"`
	MelanopicLumens        *float64 `json:"melanopic_lumens,omitempty" yaml:"melanopic_lumens,omitempty"`
}

// Compute evaluates every metric of spd. lumens, when non-nil, is the photopic
// lumen output used for MelanopicLumens. The first failing metric aborts the
// record.
func (c *Calculator) Compute(spd *spectrum.Distribution, lumens *float64) (*Record, error) {
	rec := &Record{Name: spd.Name()}

	var err error
	if rec.MelanopicResponse, err = c.MelanopicResponse(spd, Rounded); err != nil {
		return nil, err
	}
	if rec.PhotopicResponse, err = c.PhotopicResponse(spd, Rounded); err != nil {
		return nil, err
	}
	if rec.ScotopicResponse, err = c.ScotopicResponse(spd, Rounded); err != nil {
		return nil, err
	}

	ratio, err := c.MelanopicRatio(spd, Unrounded)
	if err != nil {
		return nil, err
	}
	rec.MelanopicRatio = roundTo(ratio, ratioDigits, Rounded)

	if rec.MelanopicPhotopicRatio, err = c.MelanopicPhotopicRatio(spd, Rounded); err != nil {
		return nil, err
	}
	if rec.ScotopicPhotopicRatio, err = c.ScotopicPhotopicRatio(spd, Rounded); err != nil {
		return nil, err
	}
	if rec.SpectralGIndex, err = c.SpectralGIndex(spd); err != nil {
		return nil, err
	}
	if rec.BluePercentage, err = c.BluePercentage(spd, Rounded); err != nil {
		return nil, err
	}
	if rec.PeakWavelength, err = c.PeakWavelength(spd); err != nil {
		return nil, err
	}

	if lumens != nil {
		value, err := c.MelanopicLumens(Ratio(ratio), *lumens, Rounded)
		if err != nil {
			return nil, err
		}
		rec.MelanopicLumens = &value
	}

	c.logger.Debug("Computed metrics", logging.Fields{
		"spd":             rec.Name,
		"melanopic_ratio": rec.MelanopicRatio,
	})
	return rec, nil
}
