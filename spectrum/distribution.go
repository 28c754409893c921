// Package spectrum holds the canonical spectral power distribution type and
// the transforms every measured or reference spectrum passes through before
// any response calculation.
package spectrum

import (
	"fmt"
	"math"
	"sort"
)

// Distribution is a named set of (wavelength, value) samples with unique,
// strictly increasing integer wavelengths in nanometers. Values are
// unit-less intensities and are never clamped.
//
// A Distribution is immutable: transforms return new instances and the
// accessors hand out copies, so one value can be shared freely.
type Distribution struct {
	name        string
	wavelengths []int
	values      []float64
}

// New builds a distribution from a wavelength -> value mapping. NaN and
// infinite values are rejected with ErrInvalidValue.
func New(name string, samples map[int]float64) (*Distribution, error) {
	wavelengths := make([]int, 0, len(samples))
	for w := range samples {
		wavelengths = append(wavelengths, w)
	}
	sort.Ints(wavelengths)

	values := make([]float64, len(wavelengths))
	for i, w := range wavelengths {
		v := samples[w]
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: %v at %d nm", ErrInvalidValue, v, w)
		}
		values[i] = v
	}

	return &Distribution{name: name, wavelengths: wavelengths, values: values}, nil
}

// FromSamples builds a distribution from parallel slices in any order. When a
// wavelength repeats, the later sample wins.
func FromSamples(name string, wavelengths []int, values []float64) (*Distribution, error) {
	if len(wavelengths) != len(values) {
		return nil, fmt.Errorf("sample length mismatch: %d wavelengths, %d values", len(wavelengths), len(values))
	}

	samples := make(map[int]float64, len(wavelengths))
	for i, w := range wavelengths {
		samples[w] = values[i]
	}
	return New(name, samples)
}

// newSorted wraps slices that already satisfy the ordering invariant. The
// distribution takes ownership of both slices.
func newSorted(name string, wavelengths []int, values []float64) *Distribution {
	return &Distribution{name: name, wavelengths: wavelengths, values: values}
}

// Name returns the distribution's display name
func (d *Distribution) Name() string {
	return d.name
}

// Len returns the number of samples
func (d *Distribution) Len() int {
	return len(d.wavelengths)
}

// Wavelengths returns a copy of the sample wavelengths in ascending order
func (d *Distribution) Wavelengths() []int {
	out := make([]int, len(d.wavelengths))
	copy(out, d.wavelengths)
	return out
}

// Values returns a copy of the sample values, aligned with Wavelengths
func (d *Distribution) Values() []float64 {
	out := make([]float64, len(d.values))
	copy(out, d.values)
	return out
}

// Range returns the lowest and highest sampled wavelength
func (d *Distribution) Range() (low, high int, err error) {
	if len(d.wavelengths) == 0 {
		return 0, 0, ErrEmptyDistribution
	}
	return d.wavelengths[0], d.wavelengths[len(d.wavelengths)-1], nil
}

// At returns the value sampled exactly at wavelength
func (d *Distribution) At(wavelength int) (float64, bool) {
	i := sort.SearchInts(d.wavelengths, wavelength)
	if i < len(d.wavelengths) && d.wavelengths[i] == wavelength {
		return d.values[i], true
	}
	return 0, false
}

// Peak returns the largest sample value
func (d *Distribution) Peak() (float64, error) {
	if len(d.values) == 0 {
		return 0, ErrEmptyDistribution
	}
	peak := d.values[0]
	for _, v := range d.values[1:] {
		if v > peak {
			peak = v
		}
	}
	return peak, nil
}

// Sample is one (wavelength, value) pair, used for serialization
type Sample struct {
	Wavelength int     `json:"wavelength" yaml:"wavelength"`
	Value      float64 `json:"value" yaml:"value"`
}

// Samples returns the distribution as ordered pairs
func (d *Distribution) Samples() []Sample {
	out := make([]Sample, len(d.wavelengths))
	for i, w := range d.wavelengths {
		out[i] = Sample{Wavelength: w, Value: d.values[i]}
	}
	return out
}

func (d *Distribution) String() string {
	if len(d.wavelengths) == 0 {
		return fmt.Sprintf("%s (empty)", d.name)
	}
	return fmt.Sprintf("%s (%d samples, %d-%d nm)", d.name, len(d.wavelengths), d.wavelengths[0], d.wavelengths[len(d.wavelengths)-1])
}
