// Package response computes the wavelength-wise inner product of two spectra
// that may be sampled on different grids.
package response

import (
	"errors"
	"fmt"
	"sort"

	"github.com/RyanBlaney/spectra/algorithms/common"
	"github.com/RyanBlaney/spectra/reference"
	"github.com/RyanBlaney/spectra/spectrum"
)

// ErrDisjointRange is returned when two spectra share no wavelength
var ErrDisjointRange = errors.New("spectral ranges do not overlap")

// Engine evaluates responses of spectra against each other and against the
// curves of an injected reference registry.
type Engine struct {
	registry *reference.Registry
}

// NewEngine creates an engine over registry
func NewEngine(registry *reference.Registry) *Engine {
	return &Engine{registry: registry}
}

// Registry returns the registry curve lookups go through
func (e *Engine) Registry() *reference.Registry {
	return e.registry
}

// Response aligns a and b on a shared 1 nm axis spanning their overlap and
// returns the sum of the pointwise products. Both inputs are linearly
// interpolated onto the axis; since the axis never leaves the overlap, no
// extrapolation happens here. The sum is a plain Riemann sum at 1 nm, not a
// trapezoidal integral.
func (e *Engine) Response(a, b *spectrum.Distribution) (float64, error) {
	return Response(a, b)
}

// CurveResponse is Response of the registry curve for key against spd
func (e *Engine) CurveResponse(key reference.Key, spd *spectrum.Distribution) (float64, error) {
	if e.registry == nil {
		return 0, fmt.Errorf("no reference registry configured for %q", key)
	}

	curve, err := e.registry.Curve(key)
	if err != nil {
		return 0, err
	}

	resp, err := e.Response(curve, spd)
	if err != nil {
		return 0, fmt.Errorf("%s response of %q: %w", key, spd.Name(), err)
	}
	return resp, nil
}

// Response is the registry-free form of Engine.Response
func Response(a, b *spectrum.Distribution) (float64, error) {
	aw, av, err := sortedSamples(a)
	if err != nil {
		return 0, err
	}
	bw, bv, err := sortedSamples(b)
	if err != nil {
		return 0, err
	}

	low := max(aw[0], bw[0])
	high := min(aw[len(aw)-1], bw[len(bw)-1])
	if low > high {
		return 0, fmt.Errorf("%w: %q covers %d-%d nm, %q covers %d-%d nm", ErrDisjointRange,
			a.Name(), aw[0], aw[len(aw)-1], b.Name(), bw[0], bw[len(bw)-1])
	}

	axis := common.ToFloat64(common.IntGrid(low, high, 1))

	aInterp, err := common.NewLinearInterpolator(common.ToFloat64(aw), av)
	if err != nil {
		return 0, fmt.Errorf("failed to align %q: %w", a.Name(), err)
	}
	bInterp, err := common.NewLinearInterpolator(common.ToFloat64(bw), bv)
	if err != nil {
		return 0, fmt.Errorf("failed to align %q: %w", b.Name(), err)
	}

	return common.Dot(aInterp.PredictGrid(axis), bInterp.PredictGrid(axis)), nil
}

type samplePairs struct {
	wavelengths []int
	values      []float64
}

func (p samplePairs) Len() int           { return len(p.wavelengths) }
func (p samplePairs) Less(i, j int) bool { return p.wavelengths[i] < p.wavelengths[j] }
func (p samplePairs) Swap(i, j int) {
	p.wavelengths[i], p.wavelengths[j] = p.wavelengths[j], p.wavelengths[i]
	p.values[i], p.values[j] = p.values[j], p.values[i]
}

// sortedSamples copies d's samples in ascending wavelength order. A
// Distribution already guarantees the order; sorting again keeps this routine
// correct for any caller-built input.
func sortedSamples(d *spectrum.Distribution) ([]int, []float64, error) {
	if d == nil || d.Len() == 0 {
		name := "<nil>"
		if d != nil {
			name = d.Name()
		}
		return nil, nil, fmt.Errorf("%q: %w", name, spectrum.ErrEmptyDistribution)
	}

	pairs := samplePairs{wavelengths: d.Wavelengths(), values: d.Values()}
	if !sort.IsSorted(pairs) {
		sort.Stable(pairs)
	}
	return pairs.wavelengths, pairs.values, nil
}
