// Package pipeline wires the collaborators (decoders, extractors) to the
// conversion core, one run per image, and handles the file plumbing around
// them: configuration, output naming, batch discovery.
package pipeline

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"thermaltools/pkg/thermal"
)

/* Example config file ...

output_dir: data/output
valid_min_c: -200
valid_max_c: 500
exiftool: exiftool

flir:
  fallback_planck:
    r1: 21106.77
    r2: 0.012545258
    b: 1501
    f: 1
    o: -7340

dji:
  command: dji_irp
  docker_image: dji-thermal-sdk:latest
  width: 640
  height: 512
  distance: 25
  humidity: 70
  emissivity: 1.0
  reflection: 23
*/

type Config struct {
	OutputDir string  `yaml:"output_dir"`
	ValidMinC float64 `yaml:"valid_min_c"` // analyzer valid-temperature window
	ValidMaxC float64 `yaml:"valid_max_c"`
	Exiftool  string  `yaml:"exiftool"`

	FLIR FLIROptions `yaml:"flir"`
	DJI  DJIOptions  `yaml:"dji"`
}

type FLIROptions struct {
	// FallbackPlanck, when set, stands in for Planck tags the camera did
	// not stamp. Unset means missing tags abort the image.
	FallbackPlanck *PlanckOptions `yaml:"fallback_planck"`
}

type PlanckOptions struct {
	R1 float64 `yaml:"r1"`
	R2 float64 `yaml:"r2"`
	B  float64 `yaml:"b"`
	F  float64 `yaml:"f"`
	O  float64 `yaml:"o"`
}

func (p PlanckOptions) Planck() thermal.Planck {
	return thermal.Planck{R1: p.R1, R2: p.R2, B: p.B, F: p.F, O: p.O}
}

type DJIOptions struct {
	Command     string `yaml:"command"`
	DockerImage string `yaml:"docker_image"`
	Width       int    `yaml:"width"`
	Height      int    `yaml:"height"`

	// Shooting parameters reported in the summary; never applied to the
	// conversion.
	Distance   float64 `yaml:"distance"`
	Humidity   float64 `yaml:"humidity"`
	Emissivity float64 `yaml:"emissivity"`
	Reflection float64 `yaml:"reflection"`
}

func (d DJIOptions) Environment() thermal.Environment {
	return thermal.Environment{
		Distance:   d.Distance,
		Humidity:   d.Humidity,
		Emissivity: d.Emissivity,
		Reflection: d.Reflection,
	}
}

func NewConfig() Config {
	return Config{}
}

func LoadConfig(filename string) (Config, error) {
	c := NewConfig()

	contents, err := os.ReadFile(filename)
	if err != nil {
		return c, fmt.Errorf("config read '%s': %v", filename, err)
	}
	if err := yaml.Unmarshal(contents, &c); err != nil {
		return c, fmt.Errorf("config parse '%s': %v", filename, err)
	}

	return c, c.FinalizeConfig()
}

// FinalizeConfig fills defaults and sanity checks. Call it on hand-built
// configs too.
func (c *Config) FinalizeConfig() error {
	if c.OutputDir == "" {
		c.OutputDir = "data/output"
	}
	if c.ValidMinC == 0 && c.ValidMaxC == 0 {
		c.ValidMinC, c.ValidMaxC = -200, 500
	}
	if c.ValidMinC >= c.ValidMaxC {
		return fmt.Errorf("valid temperature window [%v,%v] is empty", c.ValidMinC, c.ValidMaxC)
	}
	if c.Exiftool == "" {
		c.Exiftool = "exiftool"
	}
	if c.DJI.Command == "" {
		c.DJI.Command = "dji_irp"
	}
	if c.DJI.Width == 0 {
		c.DJI.Width = 640
	}
	if c.DJI.Height == 0 {
		c.DJI.Height = 512
	}
	if c.DJI.Width < 0 || c.DJI.Height < 0 {
		return fmt.Errorf("dji dimensions %dx%d invalid", c.DJI.Width, c.DJI.Height)
	}
	if p := c.FLIR.FallbackPlanck; p != nil {
		if err := thermal.NewFLIRCalibration(p.Planck(), thermal.Environment{}).Validate(); err != nil {
			return fmt.Errorf("flir fallback_planck: %v", err)
		}
	}
	return nil
}
