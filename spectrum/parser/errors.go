package parser

import (
	"errors"
	"fmt"
)

// ErrFormat marks malformed spectral input: an unparsable row or a file that
// does not follow its declared layout.
var ErrFormat = errors.New("malformed spectral data")

// RowError locates a malformed row. It matches ErrFormat with errors.Is.
type RowError struct {
	Line int
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("%v: line %d: %v", ErrFormat, e.Line, e.Err)
}

func (e *RowError) Unwrap() []error {
	return []error{ErrFormat, e.Err}
}
