package dji

import (
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"thermaltools/pkg/thermal"
)

func TestParseRawInt16(t *testing.T) {
	blob := make([]byte, 8)
	for i, v := range []int16{200, 205, -127, 215} {
		binary.LittleEndian.PutUint16(blob[2*i:], uint16(v))
	}

	values, err := ParseRawInt16(blob, 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	if values[2] != -127 {
		t.Errorf("negative code mangled: %d", values[2])
	}

	if _, err := ParseRawInt16(blob, 3, 2); err == nil {
		t.Error("size mismatch accepted")
	}
}

func TestSDKDecoder(t *testing.T) {
	d := NewSDKDecoder("", "")
	d.Width, d.Height = 2, 1
	d.Env = thermal.Environment{Distance: 25, Humidity: 70, Emissivity: 1.0, Reflection: 23}

	// Fake SDK: write two int16 codes to the -o path.
	d.run = func(name string, args ...string) error {
		var out string
		for i, a := range args {
			if a == "-o" {
				out = args[i+1]
			}
		}
		blob := make([]byte, 4)
		neg := int16(-120)
		binary.LittleEndian.PutUint16(blob[0:], 200)
		binary.LittleEndian.PutUint16(blob[2:], uint16(neg))
		return os.WriteFile(out, blob, 0644)
	}

	res, err := d.Decode(filepath.Join(t.TempDir(), "nonexistent.jpg"))
	if err != nil {
		t.Fatal(err)
	}
	if res.Width != 2 || res.Height != 1 {
		t.Fatalf("dims %dx%d", res.Width, res.Height)
	}
	if res.Values[1] != -120 {
		t.Errorf("values %v", res.Values)
	}
	if res.Env.Humidity != 70 {
		t.Errorf("env hints dropped: %+v", res.Env)
	}

	g, err := res.Grid()
	if err != nil {
		t.Fatal(err)
	}
	if g.At(1, 0) != -120 {
		t.Errorf("grid value %d", g.At(1, 0))
	}
}

func TestSDKDecoderFailure(t *testing.T) {
	d := NewSDKDecoder("", "")
	d.run = func(name string, args ...string) error {
		return errors.New("exit status 1")
	}

	_, err := d.Decode("not-radiometric.jpg")
	if !errors.Is(err, ErrDecode) {
		t.Fatalf("got %v, want ErrDecode", err)
	}
}

func TestSDKDecoderTruncatedOutput(t *testing.T) {
	d := NewSDKDecoder("", "")
	d.Width, d.Height = 4, 4
	d.run = func(name string, args ...string) error {
		var out string
		for i, a := range args {
			if a == "-o" {
				out = args[i+1]
			}
		}
		return os.WriteFile(out, []byte{1, 2, 3}, 0644)
	}

	if _, err := d.Decode("img.jpg"); !errors.Is(err, ErrDecode) {
		t.Fatalf("got %v, want ErrDecode", err)
	}
}
