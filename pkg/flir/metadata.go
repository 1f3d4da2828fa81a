// Package flir extracts radiometric data from FLIR-based thermal images
// (Skydio, Autel, Yuneec, Parrot - anything carrying a Boson, Lepton or Tau
// sensor). The embedded FLIR tag structures are not parsed here: exiftool is
// the collaborator that owns them, and this package only turns its output
// into plain numbers and a raw grid.
//
// DJI images do not work with this path - see the dji package.
package flir

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/rwcarlsen/goexif/exif"

	"thermaltools/pkg/thermal"
)

// ErrMetadataMissing means a tag required for the Planck conversion is
// absent from the image. The image is either not radiometric or not FLIR.
var ErrMetadataMissing = errors.New("required thermal metadata missing")

type runFunc func(tool string, args ...string) ([]byte, error)

// An Extractor pulls calibration metadata and the embedded raw sensor image
// out of a FLIR radiometric JPEG.
type Extractor struct {
	Exiftool string // exiftool binary, default "exiftool"

	// Fallback supplies Planck constants for cameras whose images omit
	// them. Nil means missing tags are fatal.
	Fallback *thermal.Planck

	run runFunc
}

// NewExtractor returns an extractor shelling out to the given exiftool
// binary ("" for the one on PATH).
func NewExtractor(exiftool string) *Extractor {
	if exiftool == "" {
		exiftool = "exiftool"
	}
	return &Extractor{
		Exiftool: exiftool,
		run: func(tool string, args ...string) ([]byte, error) {
			out, err := exec.Command(tool, args...).Output()
			if err != nil {
				return nil, fmt.Errorf("%s %s: %v", tool, strings.Join(args, " "), err)
			}
			return out, nil
		},
	}
}

// Extract reads the calibration model and raw grid for one image.
func (e *Extractor) Extract(imagePath string) (thermal.Calibration, thermal.RawGrid, error) {
	tags, err := e.flirTags(imagePath)
	if err != nil {
		return thermal.Calibration{}, thermal.RawGrid{}, err
	}

	cal, err := e.calibrationFromTags(imagePath, tags)
	if err != nil {
		return thermal.Calibration{}, thermal.RawGrid{}, err
	}

	grid, err := e.rawGrid(imagePath, tags)
	if err != nil {
		return thermal.Calibration{}, thermal.RawGrid{}, err
	}

	return cal, grid, nil
}

// flirTags runs exiftool over the FLIR tag group and returns the decoded
// tag map for the image.
func (e *Extractor) flirTags(imagePath string) (map[string]interface{}, error) {
	out, err := e.run(e.Exiftool, "-flir:all", "-j", imagePath)
	if err != nil {
		return nil, fmt.Errorf("flir metadata '%s': %w", imagePath, err)
	}

	var files []map[string]interface{}
	if err := json.Unmarshal(out, &files); err != nil {
		return nil, fmt.Errorf("flir metadata '%s': exiftool json: %v", imagePath, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("flir metadata '%s': %w", imagePath, ErrMetadataMissing)
	}
	return files[0], nil
}

// calibrationFromTags assembles the Planck constants and the pass-through
// environment values.
func (e *Extractor) calibrationFromTags(imagePath string, tags map[string]interface{}) (thermal.Calibration, error) {
	var p thermal.Planck
	for _, c := range []struct {
		tag string
		dst *float64
	}{
		{"PlanckR1", &p.R1},
		{"PlanckR2", &p.R2},
		{"PlanckB", &p.B},
		{"PlanckF", &p.F},
		{"PlanckO", &p.O},
	} {
		v, ok := floatTag(tags, c.tag)
		if !ok {
			if e.Fallback == nil {
				return thermal.Calibration{}, fmt.Errorf("'%s' tag %s: %w", imagePath, c.tag, ErrMetadataMissing)
			}
			p = *e.Fallback
			break
		}
		*c.dst = v
	}

	env := thermal.Environment{}
	if v, ok := floatTag(tags, "ObjectDistance"); ok {
		env.Distance = v
	}
	if v, ok := floatTag(tags, "RelativeHumidity"); ok {
		env.Humidity = v
	}
	if v, ok := floatTag(tags, "Emissivity"); ok {
		env.Emissivity = v
	}
	if v, ok := floatTag(tags, "ReflectedApparentTemperature"); ok {
		env.Reflection = v
	}

	cal := thermal.NewFLIRCalibration(p, env)
	cal.Camera = CameraModel(imagePath)
	if cal.Camera == "" {
		if m, ok := tags["CameraModel"].(string); ok {
			cal.Camera = m
		}
	}
	return cal, nil
}

// CameraModel reads the camera model string from the image's standard EXIF
// block. Best-effort: a missing tag just yields "".
func CameraModel(imagePath string) string {
	f, err := os.Open(imagePath)
	if err != nil {
		return ""
	}
	defer f.Close()

	ex, err := exif.Decode(f)
	if err != nil {
		return ""
	}
	tag, err := ex.Get(exif.Model)
	if err != nil {
		return ""
	}
	model, err := tag.StringVal()
	if err != nil {
		return ""
	}
	return model
}

// floatTag parses one exiftool value as a float. exiftool renders some tags
// as plain numbers and others as strings carrying units ("25.00 m",
// "50.0 %"), so strings are parsed up to the first space.
func floatTag(tags map[string]interface{}, name string) (float64, bool) {
	raw, ok := tags[name]
	if !ok {
		return 0, false
	}

	switch v := raw.(type) {
	case float64:
		return v, true
	case string:
		fields := strings.Fields(v)
		if len(fields) == 0 {
			return 0, false
		}
		f, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}
