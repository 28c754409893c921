package common

import (
	"gonum.org/v1/gonum/floats"
)

// PeakNormalize divides every value by the largest value in data. It returns
// the normalized copy and the peak it divided by; ok is false for empty data
// or a peak that is not positive, where the result could not peak at 1.0.
func PeakNormalize(data []float64) (normalized []float64, peak float64, ok bool) {
	if len(data) == 0 {
		return nil, 0, false
	}

	peak = floats.Max(data)
	if peak <= 0 {
		return nil, 0, false
	}

	// Divide rather than scale by 1/peak so the peak lands on exactly 1.0
	normalized = make([]float64, len(data))
	for i, v := range data {
		normalized[i] = v / peak
	}

	return normalized, peak, true
}

// Scale multiplies every value by weight into a new slice
func Scale(data []float64, weight float64) []float64 {
	scaled := make([]float64, len(data))
	floats.ScaleTo(scaled, weight, data)
	return scaled
}
