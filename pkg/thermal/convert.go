package thermal

import (
	"fmt"
	"math"
)

// absoluteZeroC converts the Planck formula's Kelvin result to Celsius.
const absoluteZeroC = -273.15

// A ConvertFunc maps one raw sensor code to degrees Celsius. Every call is
// independent and referentially transparent given the same calibration.
type ConvertFunc func(raw int32) (float64, error)

// Converter selects the conversion function for the calibration's camera
// family. The calibration must already have passed Validate.
func (c Calibration) Converter() (ConvertFunc, error) {
	switch c.Family {
	case FamilyDJI:
		scale := c.Scale
		return func(raw int32) (float64, error) {
			return DJITemperature(raw, scale), nil
		}, nil
	case FamilyFLIR:
		p := c.Planck
		return func(raw int32) (float64, error) {
			return FLIRTemperature(raw, p)
		}, nil
	}
	return nil, fmt.Errorf("%w: unknown camera family %q", ErrInvalidCalibration, c.Family)
}

// DJITemperature converts a DJI SDK raw temperature code. The SDK emits
// linear codes in tenths of a degree, so this is a plain division - it has
// to reproduce the vendor tooling's readings exactly, because downstream
// verification compares against them.
func DJITemperature(raw int32, scale float64) float64 {
	return float64(raw) / scale
}

// FLIRTemperature converts a FLIR raw sensor count via the Planck formula:
//
//	T = B / ln(R1 / (R2 * (raw + O)) + F) - 273.15
//
// A raw count that drives the divisor to zero or the log argument to <= 0
// is outside the calibrated domain (FLIR sensors produce a handful of such
// edge pixels) and returns ErrConversionDomain.
func FLIRTemperature(raw int32, p Planck) (float64, error) {
	shifted := float64(raw) + p.O
	if shifted == 0 {
		return 0, fmt.Errorf("%w: raw %d + offset %v is zero", ErrConversionDomain, raw, p.O)
	}

	arg := p.R1/(p.R2*shifted) + p.F
	if arg <= 0 {
		return 0, fmt.Errorf("%w: log argument %v for raw %d", ErrConversionDomain, arg, raw)
	}

	return p.B/math.Log(arg) + absoluteZeroC, nil
}
