// flir-extract converts FLIR-based radiometric JPEGs (Skydio, Autel,
// Yuneec, Parrot) into per-pixel temperature CSVs plus a JSON summary.
// DJI images need dji-extract instead.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/maruel/interrupt"
	"github.com/rs/zerolog"

	"thermaltools/pkg/pipeline"
)

var (
	fConfig   string
	fOutDir   string
	fExiftool string
	fVerbose  bool
)

func init() {
	flag.StringVar(&fConfig, "config", "", "path to pipeline config YAML")
	flag.StringVar(&fOutDir, "out", "", "output directory (overrides config)")
	flag.StringVar(&fExiftool, "exiftool", "", "exiftool binary (overrides config)")
	flag.BoolVar(&fVerbose, "v", false, "debug logging")
	flag.Parse()
}

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if !fVerbose {
		log = log.Level(zerolog.InfoLevel)
	}

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: flir-extract [flags] image.jpg|dir ...")
		flag.PrintDefaults()
		os.Exit(1)
	}

	cfg := pipeline.NewConfig()
	if fConfig != "" {
		var err error
		if cfg, err = pipeline.LoadConfig(fConfig); err != nil {
			log.Fatal().Err(err).Msg("config")
		}
	}
	if fOutDir != "" {
		cfg.OutputDir = fOutDir
	}
	if fExiftool != "" {
		cfg.Exiftool = fExiftool
	}
	if err := cfg.FinalizeConfig(); err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	interrupt.HandleCtrlC()

	r := pipeline.NewRunner(cfg, log)
	if err := r.Batch(r.ProcessFLIR, flag.Args()...); err != nil {
		log.Fatal().Err(err).Msg("extraction failed")
	}
}
