package thermal

import (
	"errors"
	"math"
	"testing"
)

func TestValidateDJI(t *testing.T) {
	if err := NewDJICalibration(Environment{}).Validate(); err != nil {
		t.Fatal(err)
	}

	bad := Calibration{Family: FamilyDJI, Scale: 0}
	if err := bad.Validate(); !errors.Is(err, ErrInvalidCalibration) {
		t.Errorf("zero scale: got %v", err)
	}
}

func TestValidateFLIR(t *testing.T) {
	ok := NewFLIRCalibration(Planck{R1: 21106.77, R2: 0.012545258, B: 1501, F: 1, O: -7340}, Environment{})
	if err := ok.Validate(); err != nil {
		t.Fatal(err)
	}

	for name, p := range map[string]Planck{
		"nan R1":   {R1: math.NaN(), R2: 0.04, B: 1400, F: 1},
		"zero R2":  {R1: 16000, R2: 0, B: 1400, F: 1},
		"bad probe": {R1: -16000, R2: 0.04, B: 1400, F: 1, O: 100}, // log arg <= 0 at raw 0
	} {
		if err := NewFLIRCalibration(p, Environment{}).Validate(); !errors.Is(err, ErrInvalidCalibration) {
			t.Errorf("%s: got %v, want ErrInvalidCalibration", name, err)
		}
	}
}

func TestValidateUnknownFamily(t *testing.T) {
	if err := (Calibration{Family: "seek"}).Validate(); !errors.Is(err, ErrInvalidCalibration) {
		t.Errorf("got %v, want ErrInvalidCalibration", err)
	}
}

func TestNewRawGrid(t *testing.T) {
	if _, err := NewRawGrid(2, 2, []int32{1, 2, 3, 4}); err != nil {
		t.Fatal(err)
	}
	if _, err := NewRawGrid(2, 2, []int32{1, 2, 3}); err == nil {
		t.Error("short values accepted")
	}
	if _, err := NewRawGrid(0, 2, nil); err == nil {
		t.Error("zero width accepted")
	}
}

func TestRawGridIndexing(t *testing.T) {
	g, err := NewRawGrid(3, 2, []int32{0, 1, 2, 3, 4, 5})
	if err != nil {
		t.Fatal(err)
	}
	if v := g.At(2, 1); v != 5 {
		t.Errorf("At(2,1) = %d, want 5", v)
	}
	if x, y := g.XY(4); x != 1 || y != 1 {
		t.Errorf("XY(4) = (%d,%d), want (1,1)", x, y)
	}
}
