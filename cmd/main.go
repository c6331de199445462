package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/okian/contestcorr/internal/adapters/dataset"
	"github.com/okian/contestcorr/internal/adapters/render"
	"github.com/okian/contestcorr/internal/adapters/repository"
	"github.com/okian/contestcorr/internal/app"
	"github.com/okian/contestcorr/internal/config"
	"github.com/okian/contestcorr/pkg/logger"
	"github.com/okian/contestcorr/pkg/metrics"
)

// Exit codes.
const (
	exitOK      = 0
	exitFailure = 1
)

const dataGuidance = "Data files not found. Please ensure that the OIerDb-data-generator submodule " +
	"has generated the necessary data files, or point CONTESTCORR_CONTESTS_PATH and " +
	"CONTESTCORR_RESULTS_PATH at them."

// cli carries the state shared by all commands of one invocation.
type cli struct {
	stdout, stderr io.Writer
	// opener shows interactive figures; nil means the system viewer.
	opener func(path string) error

	cfg     *config.Config
	log     logger.Logger
	metrics *metrics.Manager
	runID   string
}

func main() {
	os.Exit(execute(context.Background(), os.Args[1:], os.Stdout, os.Stderr, nil))
}

// execute runs the command line and returns the process exit code.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer, opener func(string) error) int {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c := &cli{stdout: stdout, stderr: stderr, opener: opener}
	root := c.rootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	c.finish(ctx)
	return c.report(err)
}

// setup loads configuration and initializes logging and metrics. It runs
// before every command.
func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cmd.Context())
	if err != nil {
		return eris.Wrap(err, "load config")
	}
	c.cfg = cfg

	if err := logger.Init(logger.WithWriter(c.stderr), logger.WithFormat(cfg.LogFormat)); err != nil {
		return eris.Wrap(err, "init logger")
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		return eris.Wrap(err, "init logger")
	}

	c.runID = uuid.NewString()
	c.log = logger.Get().With(logger.String("run_id", c.runID))
	c.metrics = metrics.NewManager()
	c.log.Debug(cmd.Context(), "configuration loaded",
		logger.String("command", cmd.Name()),
		logger.String("contests_path", cfg.ContestsPath),
		logger.String("results_path", cfg.ResultsPath))
	return nil
}

// loadDataset reads the configured source files.
func (c *cli) loadDataset(ctx context.Context) (*dataset.Dataset, error) {
	return dataset.Load(ctx, dataset.Paths{
		Contests:  c.cfg.ContestsPath,
		Results:   c.cfg.ResultsPath,
		Provinces: c.cfg.ProvincesPath,
	}, dataset.WithLogger(c.log))
}

// service loads the dataset and wires the comparison service over it.
func (c *cli) service(ctx context.Context) (*app.Service, error) {
	ds, err := c.loadDataset(ctx)
	if err != nil {
		return nil, err
	}
	store := repository.New(ds.Records, ds.Catalog,
		repository.WithLogger(c.log),
		repository.WithMetrics(c.metrics))
	renderer := render.NewPlotRenderer(
		render.WithLogger(c.log),
		render.WithMetrics(c.metrics),
		render.WithOpener(c.opener))
	return app.New(
		app.WithStore(store),
		app.WithRenderer(renderer),
		app.WithLogger(c.log),
		app.WithMetrics(c.metrics),
		app.WithFigureSize(c.cfg.FigureSizeIn),
	), nil
}

// finish exports run metrics when a textfile is configured.
func (c *cli) finish(ctx context.Context) {
	if c.cfg == nil || c.cfg.MetricsTextfile == "" {
		return
	}
	if err := c.metrics.WriteTextfile(c.cfg.MetricsTextfile); err != nil {
		c.log.Warn(ctx, "metrics export failed", logger.Error(err))
	}
}

// report prints a message for err and maps it to an exit code.
func (c *cli) report(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, dataset.ErrDataUnavailable):
		fmt.Fprintln(c.stdout, dataGuidance)
		fmt.Fprintf(c.stderr, "error: %v\n", err)
	case errors.Is(err, app.ErrNoOverlap):
		fmt.Fprintf(c.stdout, "Nothing to compare (%v).\n", err)
	case errors.Is(err, context.Canceled):
		fmt.Fprintln(c.stdout, "Interrupted, exiting.")
	default:
		fmt.Fprintf(c.stderr, "error: %v\n", err)
	}
	return exitFailure
}
