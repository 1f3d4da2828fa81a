package analyze

import (
	"fmt"
	"math"

	"github.com/fogleman/gg"
	colorful "github.com/lucasb-eyer/go-colorful"
)

const (
	profileHeight = 400
	profileMinW   = 640
	profileMargin = 50.0
)

// Temperature ramp endpoints for the profile line.
var (
	rampCold = colorful.Color{R: 0.15, G: 0.35, B: 0.85}
	rampHot  = colorful.Color{R: 0.90, G: 0.15, B: 0.10}
)

// ProfilePlot renders the temperatures of one grid row as a PNG line plot:
// segments colored cold-to-hot, dashed mean/min/max reference lines.
// Skipped cells leave gaps in the line.
func ProfilePlot(g Grid, row int, filename string) error {
	if row < 0 || row >= g.Height {
		return fmt.Errorf("profile row %d out of range 0-%d", row, g.Height-1)
	}

	temps := g.Row(row)
	min, max := math.Inf(1), math.Inf(-1)
	for _, t := range temps {
		if math.IsNaN(t) {
			continue
		}
		if t < min {
			min = t
		}
		if t > max {
			max = t
		}
	}
	if min > max {
		return fmt.Errorf("profile row %d has no valid cells", row)
	}
	mean := rowMean(temps)

	width := g.Width
	if width < profileMinW {
		width = profileMinW
	}
	dc := gg.NewContext(width, profileHeight)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	plotW := float64(width) - 2*profileMargin
	plotH := float64(profileHeight) - 2*profileMargin
	spread := max - min
	if spread == 0 {
		spread = 1 // flat row still plots as a line
	}
	cols := g.Width - 1
	if cols == 0 {
		cols = 1
	}
	toXY := func(i int, t float64) (float64, float64) {
		x := profileMargin + float64(i)/float64(cols)*plotW
		y := profileMargin + (1-(t-min)/spread)*plotH
		return x, y
	}

	// Axes
	dc.SetRGB(0, 0, 0)
	dc.SetLineWidth(1)
	dc.DrawLine(profileMargin, profileMargin, profileMargin, profileMargin+plotH)
	dc.DrawLine(profileMargin, profileMargin+plotH, profileMargin+plotW, profileMargin+plotH)
	dc.Stroke()

	// Reference lines
	for _, ref := range []struct {
		val   float64
		label string
		r, g  float64
		b     float64
	}{
		{mean, fmt.Sprintf("mean %.2fC", mean), 0.8, 0.1, 0.1},
		{max, fmt.Sprintf("max %.2fC", max), 0.9, 0.5, 0.1},
		{min, fmt.Sprintf("min %.2fC", min), 0.1, 0.3, 0.8},
	} {
		_, y := toXY(0, ref.val)
		dc.SetRGB(ref.r, ref.g, ref.b)
		dc.SetDash(4, 4)
		dc.DrawLine(profileMargin, y, profileMargin+plotW, y)
		dc.Stroke()
		dc.SetDash()
		dc.DrawString(ref.label, profileMargin+plotW-110, y-4)
	}

	// The profile itself, one segment per adjacent valid pair.
	dc.SetLineWidth(2)
	for i := 1; i < len(temps); i++ {
		a, b := temps[i-1], temps[i]
		if math.IsNaN(a) || math.IsNaN(b) {
			continue
		}
		mid := (a + b) / 2
		dc.SetColor(rampCold.BlendHsv(rampHot, (mid-min)/spread))
		x1, y1 := toXY(i-1, a)
		x2, y2 := toXY(i, b)
		dc.DrawLine(x1, y1, x2, y2)
		dc.Stroke()
	}

	dc.SetRGB(0, 0, 0)
	dc.DrawString(fmt.Sprintf("Temperature profile at row y=%d", row), profileMargin, profileMargin-12)

	if err := dc.SavePNG(filename); err != nil {
		return fmt.Errorf("open+w '%s': %v", filename, err)
	}
	return nil
}

func rowMean(temps []float64) float64 {
	sum, n := 0.0, 0
	for _, t := range temps {
		if !math.IsNaN(t) {
			sum += t
			n++
		}
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}
