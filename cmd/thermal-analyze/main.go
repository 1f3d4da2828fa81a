// thermal-analyze reads an exported temperature CSV and prints distribution
// statistics, hot/cold spots and a temperature histogram; optionally it
// renders a row-profile plot.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"thermaltools/pkg/analyze"
	"thermaltools/pkg/pipeline"
)

var (
	fConfig     string
	fProfileRow int
	fPlot       string
)

func init() {
	flag.StringVar(&fConfig, "config", "", "path to pipeline config YAML (for the valid temperature window)")
	flag.IntVar(&fProfileRow, "row", -1, "row for the profile plot (default: center row)")
	flag.StringVar(&fPlot, "plot", "", "write a row-profile PNG to this path")
	flag.Parse()
}

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: thermal-analyze [flags] thermal_data.csv")
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
	if err := cfg.FinalizeConfig(); err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	csvPath := flag.Arg(0)
	grid, err := analyze.LoadFile(csvPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load")
	}
	log.Info().Int("width", grid.Width).Int("height", grid.Height).Str("csv", csvPath).Msg("loaded")

	report, err := analyze.Analyze(grid, cfg.ValidMinC, cfg.ValidMaxC)
	if err != nil {
		log.Fatal().Err(err).Msg("analyze")
	}
	report.Print(os.Stdout)

	if fPlot != "" {
		row := fProfileRow
		if row < 0 {
			row = grid.Height / 2
		}
		if err := analyze.ProfilePlot(grid, row, fPlot); err != nil {
			log.Fatal().Err(err).Msg("profile plot")
		}
		log.Info().Int("row", row).Str("png", fPlot).Msg("profile written")
	}
}
