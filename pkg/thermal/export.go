package thermal

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// csvHeader is the fixed first line of the tabular artifact.
const csvHeader = "x,y,temperature_celsius"

// A RowSink receives one row per successfully converted pixel, in ascending
// linear pixel index order.
type RowSink interface {
	WriteRow(x, y int, tempC float64) error
}

// A CSVWriter streams tabular rows through a buffer so a grid far larger
// than memory can still be exported: rows are encoded and flushed
// incrementally, never held as one in-memory table.
type CSVWriter struct {
	w         *bufio.Writer
	headerRow bool
}

// NewCSVWriter wraps w and emits rows with the standard header and
// temperatures at exactly two decimal places.
func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{w: bufio.NewWriter(w)}
}

// WriteRow appends one pixel row, writing the header first if needed.
func (c *CSVWriter) WriteRow(x, y int, tempC float64) error {
	if !c.headerRow {
		if _, err := fmt.Fprintln(c.w, csvHeader); err != nil {
			return err
		}
		c.headerRow = true
	}
	_, err := fmt.Fprintf(c.w, "%d,%d,%.2f\n", x, y, tempC)
	return err
}

// Flush drains the row buffer. Call once the pass is complete.
func (c *CSVWriter) Flush() error {
	if !c.headerRow {
		// Even an all-skipped grid gets the header line.
		if _, err := fmt.Fprintln(c.w, csvHeader); err != nil {
			return err
		}
		c.headerRow = true
	}
	return c.w.Flush()
}

// SummaryMetadata reports the calibration context a run was converted
// under. The environmental values are pass-through: they never altered the
// temperatures.
type SummaryMetadata struct {
	Camera     string  `json:"camera,omitempty"`
	Distance   float64 `json:"distance"`
	Humidity   float64 `json:"humidity"`
	Emissivity float64 `json:"emissivity"`
	Reflection float64 `json:"reflection"`
	PlanckR1   float64 `json:"planck_r1,omitempty"`
	PlanckR2   float64 `json:"planck_r2,omitempty"`
	PlanckB    float64 `json:"planck_b,omitempty"`
	PlanckF    float64 `json:"planck_f,omitempty"`
	PlanckO    float64 `json:"planck_o,omitempty"`
}

// SummaryStats is the statistics block of the summary record. Min, Max,
// Average and Range are omitted entirely when no pixel survived, so a
// no-data run can never smuggle a NaN into the JSON.
type SummaryStats struct {
	Min           *float64 `json:"min,omitempty"`
	Max           *float64 `json:"max,omitempty"`
	Average       *float64 `json:"average,omitempty"`
	Range         *float64 `json:"range,omitempty"`
	ValidPixels   int64    `json:"valid_pixels"`
	SkippedPixels int64    `json:"skipped_pixels"`
}

// Summary is the structured record written once, after the full pass.
type Summary struct {
	Width      int             `json:"width"`
	Height     int             `json:"height"`
	Metadata   SummaryMetadata `json:"metadata"`
	Statistics SummaryStats    `json:"statistics"`
}

// NewSummary snapshots one completed run.
func NewSummary(g RawGrid, cal Calibration, s Stats) Summary {
	md := SummaryMetadata{
		Camera:     cal.Camera,
		Distance:   cal.Env.Distance,
		Humidity:   cal.Env.Humidity,
		Emissivity: cal.Env.Emissivity,
		Reflection: cal.Env.Reflection,
	}
	if cal.Family == FamilyFLIR {
		md.PlanckR1 = cal.Planck.R1
		md.PlanckR2 = cal.Planck.R2
		md.PlanckB = cal.Planck.B
		md.PlanckF = cal.Planck.F
		md.PlanckO = cal.Planck.O
	}

	st := SummaryStats{ValidPixels: s.Count, SkippedPixels: s.Skipped}
	if s.HasData() {
		min, max, avg, rng := s.Min, s.Max, s.Average, s.Range()
		st.Min, st.Max, st.Average, st.Range = &min, &max, &avg, &rng
	}

	return Summary{Width: g.Width, Height: g.Height, Metadata: md, Statistics: st}
}

// WriteJSON writes the summary record to filename, indented.
func (s Summary) WriteJSON(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("open+w '%s': %v", filename, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("summary encode '%s': %v", filename, err)
	}
	return nil
}
