package main

import (
	"errors"
	"os"

	"github.com/RyanBlaney/spectra/config"
	"github.com/RyanBlaney/spectra/telemetry"
)

// Exit codes
const (
	exitFailure  = 1
	exitBadInput = 2
	exitConfig   = 3
)

var kindMessages = map[string]string{
	telemetry.KindFormat:        "the file is not valid spectral data",
	telemetry.KindEmpty:         "the file contains no usable spectral samples",
	telemetry.KindZeroPeak:      "the spectrum has no positive intensity to normalize",
	telemetry.KindInvalidValue:  "the spectrum contains a non-finite intensity",
	telemetry.KindInvalidShape:  "the wavelength grid is invalid",
	telemetry.KindDisjointRange: "the spectrum does not overlap the reference curve wavelengths",
	telemetry.KindUnknownCurve:  "the reference curve does not exist",
	telemetry.KindDegenerate:    "the spectrum has no response to divide by, so the ratio is undefined",
	telemetry.KindNotReshaped:   "the spectrum is not sampled at every nanometer from 380 to 780",
}

// describeError turns an engine error into a one-line message for the user.
// The underlying error follows the message so the failing file and row stay
// visible.
func describeError(err error) string {
	if errors.Is(err, config.ErrInvalidConfig) || errors.Is(err, config.ErrLoadConfig) {
		return "configuration error: " + err.Error()
	}
	if msg, ok := kindMessages[telemetry.ErrorKind(err)]; ok {
		return msg + ": " + err.Error()
	}
	return "error: " + err.Error()
}

func exitCode(err error) int {
	switch {
	case errors.Is(err, config.ErrInvalidConfig), errors.Is(err, config.ErrLoadConfig):
		return exitConfig
	case errors.Is(err, os.ErrNotExist):
		return exitBadInput
	case telemetry.ErrorKind(err) != telemetry.KindOther:
		return exitBadInput
	default:
		return exitFailure
	}
}
