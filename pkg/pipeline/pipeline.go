package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/maruel/interrupt"
	"github.com/rs/zerolog"

	"thermaltools/pkg/dji"
	"thermaltools/pkg/flir"
	"thermaltools/pkg/thermal"
)

// A Runner converts images one at a time. Each image's run owns its own
// calibration and accumulator, so there is no state crossing run
// boundaries.
type Runner struct {
	Config Config
	Log    zerolog.Logger

	FLIR *flir.Extractor
	DJI  dji.Decoder
}

// NewRunner builds a runner with the production collaborators configured
// from cfg.
func NewRunner(cfg Config, log zerolog.Logger) *Runner {
	extractor := flir.NewExtractor(cfg.Exiftool)
	if p := cfg.FLIR.FallbackPlanck; p != nil {
		planck := p.Planck()
		extractor.Fallback = &planck
	}

	decoder := dji.NewSDKDecoder(cfg.DJI.Command, cfg.DJI.DockerImage)
	decoder.Width = cfg.DJI.Width
	decoder.Height = cfg.DJI.Height
	decoder.Env = cfg.DJI.Environment()

	return &Runner{Config: cfg, Log: log, FLIR: extractor, DJI: decoder}
}

// OutputPaths derives the artifact names for one input image:
// <stem>_thermal_data.{csv,json} under the configured output dir.
func (r *Runner) OutputPaths(imagePath string) (csvPath, jsonPath string) {
	stem := strings.TrimSuffix(filepath.Base(imagePath), filepath.Ext(imagePath))
	csvPath = filepath.Join(r.Config.OutputDir, stem+"_thermal_data.csv")
	jsonPath = filepath.Join(r.Config.OutputDir, stem+"_thermal_data.json")
	return
}

// ProcessFLIR runs the FLIR pipeline for one image.
func (r *Runner) ProcessFLIR(imagePath string) (thermal.Summary, error) {
	cal, grid, err := r.FLIR.Extract(imagePath)
	if err != nil {
		return thermal.Summary{}, fmt.Errorf("extract: %w", err)
	}
	return r.process(imagePath, grid, cal)
}

// ProcessDJI runs the DJI pipeline for one image.
func (r *Runner) ProcessDJI(imagePath string) (thermal.Summary, error) {
	res, err := r.DJI.Decode(imagePath)
	if err != nil {
		return thermal.Summary{}, fmt.Errorf("decode: %w", err)
	}
	grid, err := res.Grid()
	if err != nil {
		return thermal.Summary{}, fmt.Errorf("decode: %w", err)
	}
	return r.process(imagePath, grid, thermal.NewDJICalibration(res.Env))
}

// process is the per-image run: open the row stream, make the single pass,
// and only then persist the summary. A failed pass removes the partial CSV
// and leaves no summary, so a summary on disk always describes a complete
// run.
func (r *Runner) process(imagePath string, grid thermal.RawGrid, cal thermal.Calibration) (thermal.Summary, error) {
	log := r.Log.With().
		Str("image", filepath.Base(imagePath)).
		Str("family", string(cal.Family)).
		Logger()

	if err := os.MkdirAll(r.Config.OutputDir, 0755); err != nil {
		return thermal.Summary{}, fmt.Errorf("outdir '%s': %v", r.Config.OutputDir, err)
	}
	csvPath, jsonPath := r.OutputPaths(imagePath)

	f, err := os.Create(csvPath)
	if err != nil {
		return thermal.Summary{}, fmt.Errorf("open+w '%s': %v", csvPath, err)
	}

	log.Info().Int("width", grid.Width).Int("height", grid.Height).Msg("converting")

	sink := thermal.NewCSVWriter(f)
	summary, err := thermal.Convert(grid, cal, sink)
	if err == nil {
		err = sink.Flush()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(csvPath)
		return thermal.Summary{}, fmt.Errorf("convert '%s': %w", imagePath, err)
	}

	if err := summary.WriteJSON(jsonPath); err != nil {
		return thermal.Summary{}, err
	}

	ev := log.Info().
		Int64("valid_pixels", summary.Statistics.ValidPixels).
		Int64("skipped_pixels", summary.Statistics.SkippedPixels).
		Str("csv", csvPath).
		Str("summary", jsonPath)
	if s := summary.Statistics; s.Min != nil {
		ev = ev.Float64("min_c", *s.Min).Float64("max_c", *s.Max).Float64("avg_c", *s.Average)
	}
	ev.Msg("converted")

	return summary, nil
}

// imageExts are the input files Batch picks up when walking a directory.
var imageExts = map[string]bool{".jpg": true, ".jpeg": true, ".rjpg": true}

// Discover expands the argument list: files pass through, directories are
// walked for radiometric JPEGs.
func Discover(args ...string) ([]string, error) {
	var found []string
	for _, arg := range args {
		item, err := os.Stat(arg)
		switch {

		case err != nil:
			return nil, fmt.Errorf("load %s: %v", arg, err)

		case item.IsDir():
			contents, err := os.ReadDir(arg)
			if err != nil {
				return nil, fmt.Errorf("readdir %s: %v", arg, err)
			}
			for _, content := range contents {
				name := filepath.Join(arg, content.Name())
				if content.IsDir() {
					sub, err := Discover(name)
					if err != nil {
						return nil, err
					}
					found = append(found, sub...)
				} else if imageExts[strings.ToLower(filepath.Ext(name))] {
					found = append(found, name)
				}
			}

		default:
			found = append(found, arg)
		}
	}
	return found, nil
}

// Batch processes every discovered image with the given per-image
// function, stopping early on ctrl-C. Per-image failures are logged and
// counted rather than aborting the batch; the error reports the tally.
func (r *Runner) Batch(process func(string) (thermal.Summary, error), args ...string) error {
	images, err := Discover(args...)
	if err != nil {
		return err
	}
	if len(images) == 0 {
		return fmt.Errorf("no radiometric images found in %v", args)
	}

	failed := 0
	for _, img := range images {
		if interrupt.IsSet() {
			r.Log.Warn().Msg("interrupted, stopping batch")
			break
		}
		if _, err := process(img); err != nil {
			failed++
			r.Log.Error().Err(err).Str("image", img).Msg("image failed")
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d images failed", failed, len(images))
	}
	return nil
}
