package reference

import "errors"

// ErrUnknownCurve is returned when the reference table has no row for a key
var ErrUnknownCurve = errors.New("unknown reference curve")
