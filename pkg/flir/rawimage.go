package flir

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"

	"golang.org/x/image/tiff"

	"thermaltools/pkg/thermal"
)

// Candidate byte offsets for the raw sensor data when the embedded blob is
// not a well-formed TIFF. Observed across Skydio/Autel firmware revisions.
var scanOffsets = []int{0, 8, 100, 500, 1000, 1500, 2000}

// Plausibility window for mean raw counts; real FLIR sensor data sits well
// inside it, container headers and palettes do not.
const (
	scanSampleSize = 100
	scanMeanMin    = 5000
	scanMeanMax    = 30000
)

// rawGrid extracts the embedded RawThermalImage and decodes it into a grid
// of raw sensor counts.
func (e *Extractor) rawGrid(imagePath string, tags map[string]interface{}) (thermal.RawGrid, error) {
	width, height, err := rawDimensions(tags)
	if err != nil {
		return thermal.RawGrid{}, fmt.Errorf("'%s': %w", imagePath, err)
	}

	blob, err := e.run(e.Exiftool, "-b", "-RawThermalImage", imagePath)
	if err != nil {
		return thermal.RawGrid{}, fmt.Errorf("raw thermal image '%s': %w", imagePath, err)
	}
	if len(blob) == 0 {
		return thermal.RawGrid{}, fmt.Errorf("'%s' has no RawThermalImage: %w", imagePath, ErrMetadataMissing)
	}

	grid, err := DecodeRawThermal(blob, width, height)
	if err != nil {
		return thermal.RawGrid{}, fmt.Errorf("'%s': %v", imagePath, err)
	}
	return grid, nil
}

func rawDimensions(tags map[string]interface{}) (int, int, error) {
	w, wok := floatTag(tags, "RawThermalImageWidth")
	h, hok := floatTag(tags, "RawThermalImageHeight")
	if !wok || !hok {
		// Some firmwares only stamp the visible-image dimensions.
		w, wok = floatTag(tags, "ImageWidth")
		h, hok = floatTag(tags, "ImageHeight")
	}
	if !wok || !hok {
		return 0, 0, fmt.Errorf("thermal image dimensions: %w", ErrMetadataMissing)
	}
	return int(w), int(h), nil
}

// DecodeRawThermal turns the RawThermalImage blob into a raw grid. The blob
// is normally a 16-bit grayscale TIFF; when TIFF decoding fails, fall back
// to scanning for a run of little-endian uint16 sensor counts at a handful
// of known offsets.
func DecodeRawThermal(blob []byte, width, height int) (thermal.RawGrid, error) {
	if img, err := tiff.Decode(bytes.NewReader(blob)); err == nil {
		return gridFromImage(img)
	}

	values, ok := scanUint16(blob, width*height)
	if !ok {
		return thermal.RawGrid{}, fmt.Errorf("no raw thermal data found for %dx%d grid in %d byte blob", width, height, len(blob))
	}
	return thermal.NewRawGrid(width, height, values)
}

// gridFromImage converts a decoded raw thermal image. The TIFF's own
// dimensions win over the tag-claimed ones.
func gridFromImage(img image.Image) (thermal.RawGrid, error) {
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()

	gray, ok := img.(*image.Gray16)
	if !ok {
		return thermal.RawGrid{}, fmt.Errorf("raw thermal TIFF is %T, want 16-bit grayscale", img)
	}

	values := make([]int32, 0, width*height)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			values = append(values, int32(gray.Gray16At(x, y).Y))
		}
	}
	return thermal.NewRawGrid(width, height, values)
}

// scanUint16 looks for width*height plausible sensor counts at each
// candidate offset.
func scanUint16(blob []byte, n int) ([]int32, bool) {
	for _, offset := range scanOffsets {
		if offset+2*n > len(blob) {
			continue
		}

		sample := scanSampleSize
		if sample > n {
			sample = n
		}
		total := 0.0
		for i := 0; i < sample; i++ {
			total += float64(binary.LittleEndian.Uint16(blob[offset+2*i:]))
		}
		if mean := total / float64(sample); mean <= scanMeanMin || mean >= scanMeanMax {
			continue
		}

		values := make([]int32, n)
		for i := range values {
			values[i] = int32(binary.LittleEndian.Uint16(blob[offset+2*i:]))
		}
		return values, true
	}
	return nil, false
}
