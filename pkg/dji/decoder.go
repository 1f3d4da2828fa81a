// Package dji decodes DJI R-JPEG radiometric images. The proprietary
// container format is owned by the DJI Thermal SDK, invoked as an external
// command (directly or through docker); this package only handles the SDK's
// output: a stream of little-endian int16 temperature codes in tenths of a
// degree, which is exactly what the dji divide-by-ten calibration expects.
//
// FLIR-based images do not work with this path - see the flir package.
package dji

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/rwcarlsen/goexif/exif"

	"thermaltools/pkg/thermal"
)

// ErrDecode means the input is not a radiometric container this decoder
// recognizes. Surfaced to the user with a hint to try the FLIR pipeline.
var ErrDecode = errors.New("not a recognized DJI radiometric image (try the flir pipeline)")

// Result is one decoded image: dimensions, vendor raw temperature codes,
// and the shooting-parameter hints carried for reporting.
type Result struct {
	Width  int
	Height int
	Values []int32
	Env    thermal.Environment
}

// Grid assembles the decoded values into a validated raw grid.
func (r Result) Grid() (thermal.RawGrid, error) {
	return thermal.NewRawGrid(r.Width, r.Height, r.Values)
}

// A Decoder turns one R-JPEG file into raw temperature codes. It is an
// injected capability so the conversion core can be exercised with
// synthetic grids instead of the vendor SDK.
type Decoder interface {
	Decode(imagePath string) (Result, error)
}

// SDKDecoder runs the DJI Thermal SDK's measurement tool.
type SDKDecoder struct {
	Command     string // SDK binary, default "dji_irp"
	DockerImage string // when set, run the command inside this image
	Width       int    // sensor dims; default 640x512 (M2EA/M30T/M3T)
	Height      int
	Env         thermal.Environment // hints reported alongside, not applied

	run func(name string, args ...string) error
}

// NewSDKDecoder returns a decoder shelling out to the SDK tool.
func NewSDKDecoder(command, dockerImage string) *SDKDecoder {
	if command == "" {
		command = "dji_irp"
	}
	return &SDKDecoder{
		Command:     command,
		DockerImage: dockerImage,
		Width:       640,
		Height:      512,
		run: func(name string, args ...string) error {
			cmd := exec.Command(name, args...)
			cmd.Stderr = os.Stderr
			return cmd.Run()
		},
	}
}

// Decode invokes the SDK on one image and reads back the int16 raw stream.
func (d *SDKDecoder) Decode(imagePath string) (Result, error) {
	width, height := d.dimensions(imagePath)

	workDir, err := os.MkdirTemp("", "dji-decode-")
	if err != nil {
		return Result{}, fmt.Errorf("decode '%s': %v", imagePath, err)
	}
	defer os.RemoveAll(workDir)

	rawPath := filepath.Join(workDir, "measure.raw")
	if err := d.invoke(imagePath, rawPath, workDir); err != nil {
		return Result{}, fmt.Errorf("decode '%s': %w: %v", imagePath, ErrDecode, err)
	}

	blob, err := os.ReadFile(rawPath)
	if err != nil {
		return Result{}, fmt.Errorf("decode '%s': %w: sdk wrote no output", imagePath, ErrDecode)
	}

	values, err := ParseRawInt16(blob, width, height)
	if err != nil {
		return Result{}, fmt.Errorf("decode '%s': %w: %v", imagePath, ErrDecode, err)
	}

	return Result{Width: width, Height: height, Values: values, Env: d.Env}, nil
}

func (d *SDKDecoder) invoke(imagePath, rawPath, workDir string) error {
	if d.DockerImage == "" {
		return d.run(d.Command, "-s", imagePath, "-a", "measure", "-o", rawPath)
	}

	// Inside docker the SDK sees the input dir at /in and the scratch
	// dir at /out.
	absImage, err := filepath.Abs(imagePath)
	if err != nil {
		return err
	}
	return d.run("docker", "run", "--rm",
		"-v", filepath.Dir(absImage)+":/in:ro",
		"-v", workDir+":/out",
		d.DockerImage,
		d.Command, "-s", filepath.Join("/in", filepath.Base(absImage)),
		"-a", "measure", "-o", filepath.Join("/out", filepath.Base(rawPath)))
}

// dimensions prefers the JPEG's own EXIF pixel dimensions over the
// configured sensor default.
func (d *SDKDecoder) dimensions(imagePath string) (int, int) {
	width, height := d.Width, d.Height

	f, err := os.Open(imagePath)
	if err != nil {
		return width, height
	}
	defer f.Close()

	ex, err := exif.Decode(f)
	if err != nil {
		return width, height
	}
	if w, err := tagInt(ex, exif.PixelXDimension); err == nil && w > 0 {
		if h, err := tagInt(ex, exif.PixelYDimension); err == nil && h > 0 {
			return w, h
		}
	}
	return width, height
}

func tagInt(ex *exif.Exif, name exif.FieldName) (int, error) {
	tag, err := ex.Get(name)
	if err != nil {
		return 0, err
	}
	v, err := tag.Int64(0)
	if err != nil {
		return 0, err
	}
	return int(v), nil
}

// ParseRawInt16 decodes the SDK's little-endian int16 measurement stream.
func ParseRawInt16(blob []byte, width, height int) ([]int32, error) {
	n := width * height
	if len(blob) != 2*n {
		return nil, fmt.Errorf("raw stream is %d bytes, want %d for %dx%d", len(blob), 2*n, width, height)
	}

	values := make([]int32, n)
	for i := range values {
		values[i] = int32(int16(binary.LittleEndian.Uint16(blob[2*i:])))
	}
	return values, nil
}
