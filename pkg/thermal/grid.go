package thermal

import "fmt"

// A RawGrid is a decoded radiometric image: width*height raw sensor codes
// in row-major order, x fastest-varying. Raw codes are int32 so one grid
// type holds both FLIR's uint16 counts and DJI's signed decicelsius codes.
type RawGrid struct {
	Width  int
	Height int
	Values []int32
}

// NewRawGrid validates dimensions against the value count.
func NewRawGrid(width, height int, values []int32) (RawGrid, error) {
	if width <= 0 || height <= 0 {
		return RawGrid{}, fmt.Errorf("grid dimensions %dx%d must be positive", width, height)
	}
	if len(values) != width*height {
		return RawGrid{}, fmt.Errorf("grid %dx%d needs %d values, got %d", width, height, width*height, len(values))
	}
	return RawGrid{Width: width, Height: height, Values: values}, nil
}

// At returns the raw code at (x, y).
func (g RawGrid) At(x, y int) int32 { return g.Values[y*g.Width+x] }

// XY maps a linear pixel index back to coordinates.
func (g RawGrid) XY(i int) (x, y int) { return i % g.Width, i / g.Width }

func (g RawGrid) String() string {
	return fmt.Sprintf("grid[%dx%d]", g.Width, g.Height)
}
