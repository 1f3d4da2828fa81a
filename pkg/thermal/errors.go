package thermal

import "errors"

var (
	// ErrInvalidCalibration means a required constant for the selected
	// camera family is missing or unusable. Fatal, detected pre-pass.
	ErrInvalidCalibration = errors.New("invalid calibration")

	// ErrConversionDomain means one raw value fell outside the domain of
	// the Planck formula (division by zero, or log of a non-positive
	// number). Per-pixel and recoverable: the run skips the pixel.
	ErrConversionDomain = errors.New("raw value outside conversion domain")

	// ErrAggregatorClosed means Observe or Skip was called after
	// Finalize. Always a caller bug.
	ErrAggregatorClosed = errors.New("aggregator already finalized")
)
