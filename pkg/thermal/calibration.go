// Package thermal converts raw radiometric sensor values into calibrated
// per-pixel temperatures, streams them into a bounded-memory tabular export,
// and computes run statistics in a single pass.
package thermal

import (
	"fmt"
	"math"
)

// CameraFamily selects which conversion formula applies to a grid of raw
// sensor values.
type CameraFamily string

const (
	// FamilyDJI covers DJI drones whose vendor SDK already emits linear
	// temperature codes in tenths of a degree.
	FamilyDJI CameraFamily = "dji"

	// FamilyFLIR covers FLIR-based sensors (Boson, Lepton, Tau - Skydio,
	// Autel, Yuneec, Parrot) that need the Planck radiance formula.
	FamilyFLIR CameraFamily = "flir"
)

// DJIScale is the fixed divisor mapping DJI raw codes to degrees Celsius.
const DJIScale = 10.0

// Planck holds the per-image FLIR calibration constants, read from the
// image's embedded metadata.
type Planck struct {
	R1 float64
	R2 float64
	B  float64
	F  float64
	O  float64
}

// Environment is pass-through shooting metadata. It is reported in the
// summary record but never feeds the conversion formula.
type Environment struct {
	Distance   float64 // meters
	Humidity   float64 // percent relative
	Emissivity float64
	Reflection float64 // reflected apparent temperature, Celsius
}

// Calibration is the full calibration model for one image. It is immutable
// once constructed and shared read-only across every pixel of a run.
type Calibration struct {
	Family CameraFamily
	Scale  float64 // DJI only
	Planck Planck  // FLIR only
	Camera string  // model string, reporting only
	Env    Environment
}

// NewDJICalibration builds the calibration model for a DJI image.
func NewDJICalibration(env Environment) Calibration {
	return Calibration{Family: FamilyDJI, Scale: DJIScale, Env: env}
}

// NewFLIRCalibration builds the calibration model for a FLIR-based image.
func NewFLIRCalibration(p Planck, env Environment) Calibration {
	return Calibration{Family: FamilyFLIR, Planck: p, Env: env}
}

// Validate checks the constants needed by the selected family's formula.
// It runs once, before any pixel is converted, so a bad calibration is
// rejected before any output exists.
func (c Calibration) Validate() error {
	switch c.Family {

	case FamilyDJI:
		if math.IsNaN(c.Scale) || c.Scale <= 0 {
			return fmt.Errorf("%w: dji scale %v must be > 0", ErrInvalidCalibration, c.Scale)
		}

	case FamilyFLIR:
		p := c.Planck
		for _, v := range []struct {
			name string
			val  float64
		}{{"R1", p.R1}, {"R2", p.R2}, {"B", p.B}, {"F", p.F}, {"O", p.O}} {
			if math.IsNaN(v.val) || math.IsInf(v.val, 0) {
				return fmt.Errorf("%w: planck %s is not a number", ErrInvalidCalibration, v.name)
			}
		}
		if p.R2 == 0 {
			return fmt.Errorf("%w: planck R2 is zero", ErrInvalidCalibration)
		}
		// Probe the formula at raw==0. With a negative offset the zero
		// pixel sits in the known-bad edge region and the probe says
		// nothing; with a positive offset it must be convertible, and a
		// non-positive log argument there means the constants are broken.
		if p.O > 0 {
			if arg := p.R1/(p.R2*p.O) + p.F; arg <= 0 {
				return fmt.Errorf("%w: log argument %v <= 0 at zero raw value", ErrInvalidCalibration, arg)
			}
		}

	default:
		return fmt.Errorf("%w: unknown camera family %q", ErrInvalidCalibration, c.Family)
	}

	return nil
}
