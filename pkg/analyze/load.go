// Package analyze works on the tabular artifact the conversion pipeline
// exports: it loads the per-pixel temperatures back into a dense grid and
// derives distribution statistics, hot/cold spots, pixel lookups and a
// row-profile plot from them.
package analyze

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
)

// A Grid is a reloaded temperature field. Cells the conversion skipped have
// no CSV row and come back as NaN.
type Grid struct {
	Width  int
	Height int
	Temps  []float64
}

type cell struct {
	x, y int
	t    float64
}

// Load reads the x,y,temperature_celsius stream. Dimensions are the
// largest seen coordinate + 1, matching how the exporter indexes pixels.
func Load(r io.Reader) (Grid, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 3

	header, err := cr.Read()
	if err != nil {
		return Grid{}, fmt.Errorf("thermal csv: %v", err)
	}
	if header[0] != "x" || header[1] != "y" || header[2] != "temperature_celsius" {
		return Grid{}, fmt.Errorf("thermal csv: unexpected header %v", header)
	}

	var cells []cell
	maxX, maxY := -1, -1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Grid{}, fmt.Errorf("thermal csv row %d: %v", len(cells)+2, err)
		}

		x, err := strconv.Atoi(rec[0])
		if err != nil {
			return Grid{}, fmt.Errorf("thermal csv x %q: %v", rec[0], err)
		}
		y, err := strconv.Atoi(rec[1])
		if err != nil {
			return Grid{}, fmt.Errorf("thermal csv y %q: %v", rec[1], err)
		}
		t, err := strconv.ParseFloat(rec[2], 64)
		if err != nil {
			return Grid{}, fmt.Errorf("thermal csv temperature %q: %v", rec[2], err)
		}

		if x < 0 || y < 0 {
			return Grid{}, fmt.Errorf("thermal csv: negative coordinate (%d,%d)", x, y)
		}
		if x > maxX {
			maxX = x
		}
		if y > maxY {
			maxY = y
		}
		cells = append(cells, cell{x, y, t})
	}

	if len(cells) == 0 {
		return Grid{}, fmt.Errorf("thermal csv: no data rows")
	}

	g := Grid{Width: maxX + 1, Height: maxY + 1}
	g.Temps = make([]float64, g.Width*g.Height)
	for i := range g.Temps {
		g.Temps[i] = math.NaN()
	}
	for _, c := range cells {
		g.Temps[c.y*g.Width+c.x] = c.t
	}
	return g, nil
}

// LoadFile loads one exported CSV artifact.
func LoadFile(filename string) (Grid, error) {
	f, err := os.Open(filename)
	if err != nil {
		return Grid{}, fmt.Errorf("open+r '%s': %v", filename, err)
	}
	defer f.Close()

	g, err := Load(f)
	if err != nil {
		return Grid{}, fmt.Errorf("'%s': %v", filename, err)
	}
	return g, nil
}

// At returns the temperature at (x, y); ok is false for skipped cells.
func (g Grid) At(x, y int) (tempC float64, ok bool) {
	t := g.Temps[y*g.Width+x]
	return t, !math.IsNaN(t)
}

// InBounds reports whether (x, y) is inside the grid.
func (g Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.Width && y >= 0 && y < g.Height
}

// Row returns one horizontal line of temperatures (NaN for skipped cells).
func (g Grid) Row(y int) []float64 {
	return g.Temps[y*g.Width : (y+1)*g.Width]
}
