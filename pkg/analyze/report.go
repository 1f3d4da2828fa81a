package analyze

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/codahale/hdrhistogram"
	"gonum.org/v1/gonum/stat"
)

// Pixel is one located temperature reading.
type Pixel struct {
	X     int
	Y     int
	TempC float64
}

// Bucket is one bar of the temperature distribution.
type Bucket struct {
	FromC float64
	ToC   float64
	Count int64
}

// A Report summarizes one reloaded grid. Cells outside the valid window
// are treated as sensor error values and excluded from the statistics.
type Report struct {
	TotalCells   int
	ValidCells   int
	MissingCells int // skipped during conversion
	ErrorCells   int // outside the valid window

	Min    float64
	Max    float64
	Mean   float64
	StdDev float64
	Range  float64

	// Hot and cold spots: top and bottom 5% of the distribution.
	HotThreshold  float64
	ColdThreshold float64
	HotCells      int
	ColdCells     int
	Hottest       Pixel
	Coldest       Pixel

	Distribution []Bucket
}

// histogramSigFigs keeps the distribution at centidegree resolution.
const histogramSigFigs = 3

// Analyze computes the report over cells within [validMin, validMax].
func Analyze(g Grid, validMin, validMax float64) (Report, error) {
	if validMin >= validMax {
		return Report{}, fmt.Errorf("valid temperature window [%v,%v] is empty", validMin, validMax)
	}

	r := Report{TotalCells: g.Width * g.Height}
	valid := make([]float64, 0, r.TotalCells)

	// Offset centidegrees so the histogram only sees positive values.
	offset := int64(math.Ceil(-validMin*100)) + 1
	hist := hdrhistogram.New(1, int64((validMax-validMin)*100)+offset, histogramSigFigs)

	r.Hottest = Pixel{TempC: math.Inf(-1)}
	r.Coldest = Pixel{TempC: math.Inf(1)}

	for i, t := range g.Temps {
		switch {
		case math.IsNaN(t):
			r.MissingCells++
		case t < validMin || t > validMax:
			r.ErrorCells++
		default:
			valid = append(valid, t)
			hist.RecordValue(int64(t*100) + offset)
			x, y := i%g.Width, i/g.Width
			if t > r.Hottest.TempC {
				r.Hottest = Pixel{x, y, t}
			}
			if t < r.Coldest.TempC {
				r.Coldest = Pixel{x, y, t}
			}
		}
	}

	r.ValidCells = len(valid)
	if r.ValidCells == 0 {
		return r, fmt.Errorf("no valid temperature values in grid (missing %d, out of window %d)", r.MissingCells, r.ErrorCells)
	}

	sort.Float64s(valid)
	r.Min = valid[0]
	r.Max = valid[len(valid)-1]
	r.Range = r.Max - r.Min
	r.Mean = stat.Mean(valid, nil)
	r.StdDev = stat.StdDev(valid, nil)
	r.HotThreshold = stat.Quantile(0.95, stat.Empirical, valid, nil)
	r.ColdThreshold = stat.Quantile(0.05, stat.Empirical, valid, nil)

	for _, t := range valid {
		if t >= r.HotThreshold {
			r.HotCells++
		}
		if t <= r.ColdThreshold {
			r.ColdCells++
		}
	}

	for _, bar := range hist.Distribution() {
		if bar.Count == 0 {
			continue
		}
		r.Distribution = append(r.Distribution, Bucket{
			FromC: float64(bar.From-offset) / 100,
			ToC:   float64(bar.To-offset) / 100,
			Count: bar.Count,
		})
	}

	return r, nil
}

// Print writes the human-readable report.
func (r Report) Print(w io.Writer) {
	rule := strings.Repeat("=", 60)

	fmt.Fprintf(w, "%s\nOVERALL STATISTICS\n%s\n", rule, rule)
	fmt.Fprintf(w, "Total pixels:   %d\n", r.TotalCells)
	fmt.Fprintf(w, "Valid pixels:   %d\n", r.ValidCells)
	fmt.Fprintf(w, "Skipped pixels: %d\n", r.MissingCells)
	fmt.Fprintf(w, "Error pixels:   %d\n", r.ErrorCells)
	fmt.Fprintf(w, "Min temperature:  %.2f C\n", r.Min)
	fmt.Fprintf(w, "Max temperature:  %.2f C\n", r.Max)
	fmt.Fprintf(w, "Mean temperature: %.2f C\n", r.Mean)
	fmt.Fprintf(w, "Std deviation:    %.2f C\n", r.StdDev)
	fmt.Fprintf(w, "Temperature range: %.2f C\n", r.Range)

	fmt.Fprintf(w, "\n%s\nHOT AND COLD SPOTS\n%s\n", rule, rule)
	fmt.Fprintf(w, "Hot spots (top 5%%):\n")
	fmt.Fprintf(w, "  Threshold: %.2f C\n", r.HotThreshold)
	fmt.Fprintf(w, "  Pixels:    %d\n", r.HotCells)
	fmt.Fprintf(w, "  Hottest pixel: (%d, %d) at %.2f C\n", r.Hottest.X, r.Hottest.Y, r.Hottest.TempC)
	fmt.Fprintf(w, "Cold spots (bottom 5%%):\n")
	fmt.Fprintf(w, "  Threshold: %.2f C\n", r.ColdThreshold)
	fmt.Fprintf(w, "  Pixels:    %d\n", r.ColdCells)
	fmt.Fprintf(w, "  Coldest pixel: (%d, %d) at %.2f C\n", r.Coldest.X, r.Coldest.Y, r.Coldest.TempC)

	if len(r.Distribution) > 0 {
		fmt.Fprintf(w, "\n%s\nDISTRIBUTION\n%s\n", rule, rule)
		for _, b := range r.Distribution {
			fmt.Fprintf(w, "  %8.2f .. %8.2f C: %d\n", b.FromC, b.ToC, b.Count)
		}
	}
}
