package pipeline

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"thermaltools/pkg/dji"
	"thermaltools/pkg/thermal"
)

// fakeDecoder serves canned grids keyed by file basename.
type fakeDecoder struct {
	grids map[string]dji.Result
}

func (f *fakeDecoder) Decode(imagePath string) (dji.Result, error) {
	res, ok := f.grids[filepath.Base(imagePath)]
	if !ok {
		return dji.Result{}, dji.ErrDecode
	}
	return res, nil
}

func testRunner(t *testing.T) *Runner {
	t.Helper()
	cfg := NewConfig()
	cfg.OutputDir = t.TempDir()
	if err := cfg.FinalizeConfig(); err != nil {
		t.Fatal(err)
	}
	return NewRunner(cfg, zerolog.Nop())
}

func TestFinalizeConfigDefaults(t *testing.T) {
	c := NewConfig()
	if err := c.FinalizeConfig(); err != nil {
		t.Fatal(err)
	}
	if c.OutputDir != "data/output" || c.Exiftool != "exiftool" {
		t.Errorf("defaults: %+v", c)
	}
	if c.ValidMinC != -200 || c.ValidMaxC != 500 {
		t.Errorf("valid window: %+v", c)
	}
	if c.DJI.Command != "dji_irp" || c.DJI.Width != 640 || c.DJI.Height != 512 {
		t.Errorf("dji defaults: %+v", c.DJI)
	}
}

func TestFinalizeConfigRejectsBadWindow(t *testing.T) {
	c := NewConfig()
	c.ValidMinC, c.ValidMaxC = 100, -100
	if err := c.FinalizeConfig(); err == nil {
		t.Fatal("inverted window accepted")
	}
}

func TestFinalizeConfigRejectsBadFallback(t *testing.T) {
	c := NewConfig()
	c.FLIR.FallbackPlanck = &PlanckOptions{R1: 16000, R2: 0, B: 1400, F: 1}
	if err := c.FinalizeConfig(); err == nil {
		t.Fatal("fallback with zero R2 accepted")
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "thermal.yaml")
	doc := `
output_dir: /tmp/out
exiftool: /opt/exiftool
dji:
  docker_image: dji-thermal-sdk:latest
  humidity: 70
flir:
  fallback_planck:
    r1: 21106.77
    r2: 0.012545258
    b: 1501
    f: 1
    o: -7340
`
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	c, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.OutputDir != "/tmp/out" || c.Exiftool != "/opt/exiftool" {
		t.Errorf("%+v", c)
	}
	if c.DJI.DockerImage != "dji-thermal-sdk:latest" || c.DJI.Humidity != 70 {
		t.Errorf("dji: %+v", c.DJI)
	}
	if c.FLIR.FallbackPlanck == nil || c.FLIR.FallbackPlanck.O != -7340 {
		t.Errorf("flir: %+v", c.FLIR)
	}
	// Defaults still fill unset fields.
	if c.DJI.Command != "dji_irp" {
		t.Errorf("dji command: %q", c.DJI.Command)
	}
}

func TestOutputPaths(t *testing.T) {
	r := testRunner(t)
	csvPath, jsonPath := r.OutputPaths("/data/in/DJI_0042.JPG")
	if filepath.Base(csvPath) != "DJI_0042_thermal_data.csv" {
		t.Errorf("csv %q", csvPath)
	}
	if filepath.Base(jsonPath) != "DJI_0042_thermal_data.json" {
		t.Errorf("json %q", jsonPath)
	}
}

func TestProcessDJI(t *testing.T) {
	r := testRunner(t)
	r.DJI = &fakeDecoder{grids: map[string]dji.Result{
		"a.jpg": {
			Width: 2, Height: 2,
			Values: []int32{200, 205, 210, 215},
			Env:    thermal.Environment{Distance: 25, Humidity: 70, Emissivity: 1.0, Reflection: 23},
		},
	}}

	sum, err := r.ProcessDJI("a.jpg")
	if err != nil {
		t.Fatal(err)
	}
	if *sum.Statistics.Average != 20.75 {
		t.Errorf("average %v", *sum.Statistics.Average)
	}

	csvPath, jsonPath := r.OutputPaths("a.jpg")

	csv, err := os.ReadFile(csvPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(csv), "x,y,temperature_celsius\n0,0,20.00\n") {
		t.Errorf("csv: %q", csv)
	}

	blob, err := os.ReadFile(jsonPath)
	if err != nil {
		t.Fatal(err)
	}
	var onDisk thermal.Summary
	if err := json.Unmarshal(blob, &onDisk); err != nil {
		t.Fatal(err)
	}
	if onDisk.Metadata.Humidity != 70 || onDisk.Width != 2 {
		t.Errorf("summary on disk: %+v", onDisk)
	}
}

func TestProcessDJIDecodeFailureLeavesNoOutput(t *testing.T) {
	r := testRunner(t)
	r.DJI = &fakeDecoder{}

	_, err := r.ProcessDJI("unknown.jpg")
	if !errors.Is(err, dji.ErrDecode) {
		t.Fatalf("got %v, want ErrDecode", err)
	}

	csvPath, jsonPath := r.OutputPaths("unknown.jpg")
	for _, p := range []string{csvPath, jsonPath} {
		if _, err := os.Stat(p); !os.IsNotExist(err) {
			t.Errorf("failed run left artifact %s", p)
		}
	}
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "flight2")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"a.jpg", "b.JPG", "notes.txt", "flight2/c.jpeg"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0644); err != nil {
			t.Fatal(err)
		}
	}

	found, err := Discover(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(found) != 3 {
		t.Errorf("found %v", found)
	}

	if _, err := Discover(filepath.Join(dir, "absent")); err == nil {
		t.Error("missing path accepted")
	}
}

func TestBatchCountsFailures(t *testing.T) {
	r := testRunner(t)
	r.DJI = &fakeDecoder{grids: map[string]dji.Result{
		"good.jpg": {Width: 1, Height: 1, Values: []int32{321}},
	}}

	dir := t.TempDir()
	for _, name := range []string{"good.jpg", "bad.jpg"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0644); err != nil {
			t.Fatal(err)
		}
	}

	err := r.Batch(r.ProcessDJI, dir)
	if err == nil || !strings.Contains(err.Error(), "1 of 2") {
		t.Fatalf("got %v, want 1-of-2 failure tally", err)
	}
}
