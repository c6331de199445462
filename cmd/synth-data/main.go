// Command synth-data writes a synthetic contest dataset for trying the
// contestcorr CLI without the OIerDb data generator.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/okian/contestcorr/internal/synth"
	"github.com/okian/contestcorr/pkg/logger"
)

const defaultTimeout = 2 * time.Minute

func main() {
	var (
		dir         = flag.String("dir", "testdata", "Output directory")
		competitors = flag.Int("competitors", synth.DefaultCompetitors, "Number of competitors to generate")
		correlation = flag.Float64("correlation", synth.DefaultCorrelation, "Weight of the shared ability in every score, in [0,1]")
		turnout     = flag.Float64("turnout", synth.DefaultTurnout, "Probability a competitor enters a given competition")
		missing     = flag.Float64("missing", synth.DefaultMissingRate, "Probability an entered score is left blank")
		seed        = flag.Uint64("seed", synth.DefaultSeed, "Random seed")
		verbose     = flag.Bool("verbose", false, "Enable debug logging")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	if *verbose {
		_ = logger.SetLevelString("debug")
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	cfg := synth.NewConfig(*dir)
	cfg.Competitors = *competitors
	cfg.Correlation = *correlation
	cfg.Turnout = *turnout
	cfg.MissingRate = *missing
	cfg.Seed = *seed

	paths, stats, err := synth.Write(ctx, cfg)
	if err != nil {
		logger.Get().Error(ctx, "generation failed", logger.Error(err))
		os.Exit(1)
	}

	fmt.Printf("Wrote %d competitors with %d participations.\n", stats.Competitors, stats.Participations)
	fmt.Println("Point contestcorr at it with:")
	fmt.Printf("  export CONTESTCORR_CONTESTS_PATH=%s\n", paths.Contests)
	fmt.Printf("  export CONTESTCORR_RESULTS_PATH=%s\n", paths.Results)
	fmt.Printf("  export CONTESTCORR_PROVINCES_PATH=%s\n", paths.Provinces)
}
