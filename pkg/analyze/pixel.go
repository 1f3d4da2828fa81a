package analyze

import "fmt"

// TempAt looks up one pixel, naming the valid coordinate ranges when the
// lookup is out of bounds.
func (g Grid) TempAt(x, y int) (float64, error) {
	if !g.InBounds(x, y) {
		return 0, fmt.Errorf("pixel (%d, %d) out of bounds, valid range x: 0-%d, y: 0-%d",
			x, y, g.Width-1, g.Height-1)
	}
	t, ok := g.At(x, y)
	if !ok {
		return 0, fmt.Errorf("pixel (%d, %d) was skipped during conversion", x, y)
	}
	return t, nil
}

// Diff is the temperature difference between two pixels (second minus
// first).
func (g Grid) Diff(x1, y1, x2, y2 int) (t1, t2, diff float64, err error) {
	if t1, err = g.TempAt(x1, y1); err != nil {
		return 0, 0, 0, err
	}
	if t2, err = g.TempAt(x2, y2); err != nil {
		return 0, 0, 0, err
	}
	return t1, t2, t2 - t1, nil
}
