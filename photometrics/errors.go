package photometrics

import "errors"

var (
	// ErrDegenerateResponse is returned when a ratio or index would divide by
	// a zero (or negative) response.
	ErrDegenerateResponse = errors.New("degenerate response")

	// ErrNotReshaped is returned when a band sum needs a sample at a
	// wavelength the distribution does not carry.
	ErrNotReshaped = errors.New("distribution is not sampled on the required integer grid")
)
