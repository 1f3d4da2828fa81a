// dji-extract converts DJI R-JPEG radiometric images into per-pixel
// temperature CSVs plus a JSON summary, using the DJI Thermal SDK as the
// decoder. FLIR-based images need flir-extract instead.
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
	fConfig  string
	fOutDir  string
	fSDK     string
	fDocker  string
	fVerbose bool
)

func init() {
	flag.StringVar(&fConfig, "config", "", "path to pipeline config YAML")
	flag.StringVar(&fOutDir, "out", "", "output directory (overrides config)")
	flag.StringVar(&fSDK, "sdk", "", "DJI thermal SDK command (overrides config)")
	flag.StringVar(&fDocker, "docker", "", "docker image to run the SDK in (overrides config)")
	flag.BoolVar(&fVerbose, "v", false, "debug logging")
	flag.Parse()
}

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if !fVerbose {
		log = log.Level(zerolog.InfoLevel)
	}

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: dji-extract [flags] image.jpg|dir ...")
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
	if fSDK != "" {
		cfg.DJI.Command = fSDK
	}
	if fDocker != "" {
		cfg.DJI.DockerImage = fDocker
	}
	if err := cfg.FinalizeConfig(); err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	interrupt.HandleCtrlC()

	r := pipeline.NewRunner(cfg, log)
	if err := r.Batch(r.ProcessDJI, flag.Args()...); err != nil {
		log.Fatal().Err(err).Msg("extraction failed")
	}
}
