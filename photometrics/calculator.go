// Package photometrics derives the reported human-response metrics of a light
// source from its spectral power distribution.
//
// Every calculator takes a round flag. Rounded results are for reporting;
// metrics that build on other metrics always consume the unrounded values so
// no precision is lost between steps.
package photometrics

import (
	"fmt"

	"github.com/RyanBlaney/spectra/algorithms/common"
	"github.com/RyanBlaney/spectra/logging"
	"github.com/RyanBlaney/spectra/reference"
	"github.com/RyanBlaney/spectra/response"
	"github.com/RyanBlaney/spectra/spectrum"
)

// MelanopicRatioFactor converts melanopic/photopic into the melanopic ratio
const MelanopicRatioFactor = 1.218

// Values for the round argument of every calculator
const (
	Rounded   = true
	Unrounded = false
)

const (
	responseDigits = 1
	ratioDigits    = 2
	percentDigits  = 2
)

// Metric names used in logs and failure reports
const (
	MetricMelanopicResponse      = "melanopic_response"
	MetricPhotopicResponse       = "photopic_response"
	MetricScotopicResponse       = "scotopic_response"
	MetricLConeResponse          = "l_cone_response"
	MetricMConeResponse          = "m_cone_response"
	MetricSConeResponse          = "s_cone_response"
	MetricMelanopicRatio         = "melanopic_ratio"
	MetricMelanopicPhotopicRatio = "melanopic_photopic_ratio"
	MetricScotopicPhotopicRatio  = "scotopic_photopic_ratio"
	MetricMelanopicLumens        = "melanopic_lumens"
	MetricSpectralGIndex         = "spectral_g_index"
	MetricBluePercentage         = "blue_percentage"
	MetricPeakWavelength         = "peak_wavelength"
)

// FailureObserver is told about every metric that could not be computed
type FailureObserver interface {
	ObserveMetricFailure(metric string, err error)
}

// Option configures a Calculator
type Option func(*Calculator)

// WithRatioFactor overrides MelanopicRatioFactor
func WithRatioFactor(factor float64) Option {
	return func(c *Calculator) {
		c.ratioFactor = factor
	}
}

// WithLogger sets the calculator's logger
func WithLogger(logger logging.Logger) Option {
	return func(c *Calculator) {
		c.logger = logger
	}
}

// WithObserver reports failed metrics to observer
func WithObserver(observer FailureObserver) Option {
	return func(c *Calculator) {
		c.observer = observer
	}
}

// Calculator evaluates metrics through a response engine
type Calculator struct {
	engine      *response.Engine
	ratioFactor float64
	logger      logging.Logger
	observer    FailureObserver
}

// NewCalculator creates a calculator over engine
func NewCalculator(engine *response.Engine, opts ...Option) *Calculator {
	c := &Calculator{
		engine:      engine,
		ratioFactor: MelanopicRatioFactor,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logging.OrGlobal(c.logger).WithFields(logging.Fields{
		"component": "photometrics",
	})
	return c
}

// RatioFactor returns the factor applied by MelanopicRatio
func (c *Calculator) RatioFactor() float64 {
	return c.ratioFactor
}

// MelanopicResponse is the response of spd against the melanopic curve,
// rounded to 1 decimal.
func (c *Calculator) MelanopicResponse(spd *spectrum.Distribution, round bool) (float64, error) {
	return c.curveResponse(MetricMelanopicResponse, reference.Melanopic, spd, round)
}

// PhotopicResponse is the response of spd against the photopic curve,
// rounded to 1 decimal.
func (c *Calculator) PhotopicResponse(spd *spectrum.Distribution, round bool) (float64, error) {
	return c.curveResponse(MetricPhotopicResponse, reference.Photopic, spd, round)
}

// ScotopicResponse is the response of spd against the scotopic curve,
// rounded to 1 decimal.
func (c *Calculator) ScotopicResponse(spd *spectrum.Distribution, round bool) (float64, error) {
	return c.curveResponse(MetricScotopicResponse, reference.Scotopic, spd, round)
}

// LConeResponse is the long-wavelength cone response, rounded to 1 decimal
func (c *Calculator) LConeResponse(spd *spectrum.Distribution, round bool) (float64, error) {
	return c.curveResponse(MetricLConeResponse, reference.LCone, spd, round)
}

// MConeResponse is the medium-wavelength cone response, rounded to 1 decimal
func (c *Calculator) MConeResponse(spd *spectrum.Distribution, round bool) (float64, error) {
	return c.curveResponse(MetricMConeResponse, reference.MCone, spd, round)
}

// SConeResponse is the short-wavelength cone response, rounded to 1 decimal
func (c *Calculator) SConeResponse(spd *spectrum.Distribution, round bool) (float64, error) {
	return c.curveResponse(MetricSConeResponse, reference.SCone, spd, round)
}

// MelanopicRatio is melanopic/photopic times the ratio factor, rounded to 2
// decimals.
func (c *Calculator) MelanopicRatio(spd *spectrum.Distribution, round bool) (float64, error) {
	ratio, err := c.responseRatio(MetricMelanopicRatio, reference.Melanopic, spd)
	if err != nil {
		return 0, err
	}
	return roundTo(ratio*c.ratioFactor, ratioDigits, round), nil
}

// MelanopicPhotopicRatio is melanopic/photopic (M/P), rounded to 2 decimals
func (c *Calculator) MelanopicPhotopicRatio(spd *spectrum.Distribution, round bool) (float64, error) {
	ratio, err := c.responseRatio(MetricMelanopicPhotopicRatio, reference.Melanopic, spd)
	if err != nil {
		return 0, err
	}
	return roundTo(ratio, ratioDigits, round), nil
}

// ScotopicPhotopicRatio is scotopic/photopic (S/P), rounded to 2 decimals
func (c *Calculator) ScotopicPhotopicRatio(spd *spectrum.Distribution, round bool) (float64, error) {
	ratio, err := c.responseRatio(MetricScotopicPhotopicRatio, reference.Scotopic, spd)
	if err != nil {
		return 0, err
	}
	return roundTo(ratio, ratioDigits, round), nil
}

func (c *Calculator) curveResponse(metric string, key reference.Key, spd *spectrum.Distribution, round bool) (float64, error) {
	resp, err := c.engine.CurveResponse(key, spd)
	if err != nil {
		return 0, c.fail(metric, spd, err)
	}
	return roundTo(resp, responseDigits, round), nil
}

// responseRatio divides the unrounded response of key by the unrounded
// photopic response.
func (c *Calculator) responseRatio(metric string, key reference.Key, spd *spectrum.Distribution) (float64, error) {
	numerator, err := c.curveResponse(metric, key, spd, Unrounded)
	if err != nil {
		return 0, err
	}
	photopic, err := c.curveResponse(metric, reference.Photopic, spd, Unrounded)
	if err != nil {
		return 0, err
	}
	if photopic == 0 {
		return 0, c.fail(metric, spd, fmt.Errorf("%w: photopic response of %q is zero", ErrDegenerateResponse, spd.Name()))
	}

	ratio := numerator / photopic
	if !common.IsFinite(ratio) {
		return 0, c.fail(metric, spd, fmt.Errorf("%w: %s of %q is not finite", ErrDegenerateResponse, metric, spd.Name()))
	}
	return ratio, nil
}

func (c *Calculator) fail(metric string, spd *spectrum.Distribution, err error) error {
	if c.observer != nil {
		c.observer.ObserveMetricFailure(metric, err)
	}
	name := ""
	if spd != nil {
		name = spd.Name()
	}
	c.logger.Debug("Metric failed", logging.Fields{
		"metric": metric,
		"spd":    name,
		"error":  err.Error(),
	})
	return err
}

func roundTo(value float64, digits int, round bool) float64 {
	if !round {
		return value
	}
	return common.Round(value, digits)
}
