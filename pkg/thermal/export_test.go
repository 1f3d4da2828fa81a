package thermal

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestCSVWriterFormatting(t *testing.T) {
	var buf bytes.Buffer
	w := NewCSVWriter(&buf)

	w.WriteRow(0, 0, 20.0)
	w.WriteRow(1, 0, -12.666)
	w.WriteRow(2, 0, 101.005)
	if err := w.Flush(); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if lines[0] != "x,y,temperature_celsius" {
		t.Errorf("header %q", lines[0])
	}
	// Exactly two decimal places, always.
	for i, want := range []string{"0,0,20.00", "1,0,-12.67"} {
		if lines[i+1] != want {
			t.Errorf("row %d = %q, want %q", i, lines[i+1], want)
		}
	}
}

func TestCSVWriterHeaderOnlyWhenEmpty(t *testing.T) {
	var buf bytes.Buffer
	w := NewCSVWriter(&buf)
	if err := w.Flush(); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "x,y,temperature_celsius\n" {
		t.Errorf("got %q", buf.String())
	}
}

func TestSummaryJSON(t *testing.T) {
	g := RawGrid{Width: 2, Height: 2, Values: []int32{1, 2, 3, 4}}
	cal := NewFLIRCalibration(Planck{R1: 16000, R2: 0.04, B: 1400, F: 1, O: 0},
		Environment{Distance: 25, Humidity: 50, Emissivity: 0.95, Reflection: 20})
	cal.Camera = "Skydio X10"

	agg := NewAggregator()
	agg.Observe(20.0)
	agg.Observe(30.0)
	agg.Skip()
	stats, _ := agg.Finalize()

	sum := NewSummary(g, cal, stats)

	raw, err := json.Marshal(sum)
	if err != nil {
		t.Fatal(err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded["width"].(float64) != 2 || decoded["height"].(float64) != 2 {
		t.Errorf("dims wrong: %s", raw)
	}

	md := decoded["metadata"].(map[string]interface{})
	if md["camera"] != "Skydio X10" || md["emissivity"].(float64) != 0.95 {
		t.Errorf("metadata wrong: %v", md)
	}
	if md["planck_r1"].(float64) != 16000 {
		t.Errorf("planck constants missing: %v", md)
	}

	st := decoded["statistics"].(map[string]interface{})
	if st["min"].(float64) != 20 || st["max"].(float64) != 30 || st["average"].(float64) != 25 {
		t.Errorf("statistics wrong: %v", st)
	}
	if st["valid_pixels"].(float64) != 2 || st["skipped_pixels"].(float64) != 1 {
		t.Errorf("pixel counts wrong: %v", st)
	}
}

func TestSummaryJSONNoData(t *testing.T) {
	g := RawGrid{Width: 1, Height: 1, Values: []int32{0}}
	agg := NewAggregator()
	agg.Skip()
	stats, _ := agg.Finalize()

	raw, err := json.Marshal(NewSummary(g, NewDJICalibration(Environment{}), stats))
	if err != nil {
		t.Fatal(err)
	}
	s := string(raw)
	for _, field := range []string{"min", "max", "average", "range"} {
		if strings.Contains(s, `"`+field+`"`) {
			t.Errorf("no-data summary contains %q: %s", field, s)
		}
	}
	if !strings.Contains(s, `"skipped_pixels":1`) {
		t.Errorf("skipped count missing: %s", s)
	}
}
