package common

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/stat"
)

// Numeric helpers shared by the spectral packages, backed by gonum

// Dot returns the plain sum of the pointwise products of a and b
func Dot(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0.0
	}
	return floats.Dot(a, b)
}

// Sum adds every value in data
func Sum(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	return floats.Sum(data)
}

// Round rounds value to the given number of decimal digits, resolving ties
// to even.
func Round(value float64, digits int) float64 {
	return scalar.RoundEven(value, digits)
}

// RoundInteger rounds value to the nearest whole number, ties to even
func RoundInteger(value float64) float64 {
	return math.RoundToEven(value)
}

// IsFinite reports whether v is neither NaN nor infinite
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// MeanStdDev returns the mean and sample standard deviation of data. The
// deviation is zero for fewer than two values.
func MeanStdDev(data []float64) (mean, std float64) {
	switch len(data) {
	case 0:
		return 0.0, 0.0
	case 1:
		return data[0], 0.0
	}
	return stat.MeanStdDev(data, nil)
}
