package spectrum

import "errors"

var (
	// ErrEmptyDistribution is returned when an operation needs at least one sample
	ErrEmptyDistribution = errors.New("spectral distribution has no samples")
	// ErrZeroPeak is returned when normalizing a distribution whose maximum
	// is zero or negative
	ErrZeroPeak = errors.New("spectral distribution peak is not positive")
	// ErrInvalidValue is returned for NaN or infinite sample values
	ErrInvalidValue = errors.New("invalid spectral value")
	// ErrInvalidShape is returned for an unusable reshape grid
	ErrInvalidShape = errors.New("invalid spectral shape")
)
