package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/okian/contestcorr/internal/app"
	"github.com/okian/contestcorr/internal/config"
	"github.com/okian/contestcorr/internal/domain/model"
)

// saveDefault is the value of a bare --save flag.
const saveDefault = "<A>_vs_<B>.png"

type compareFlags struct {
	save      string
	noShow    bool
	alpha     float64
	dpi       int
	polyfit   int
	provinces []string
}

func (c *cli) rootCommand() *cobra.Command {
	var f compareFlags
	defaults := config.New()

	root := &cobra.Command{
		Use:   "contestcorr <competition-a> <competition-b>",
		Short: "Correlate competitor results across two competitions",
		Long: `Compare how competitors who took part in both competitions scored in
each, print the Pearson and Spearman correlation of their scores, and draw
a scatter plot with an optional polynomial trend curve.

Examples:
  # Show the plot for two competitions
  contestcorr CSP2023提高 NOIP2023

  # Save as SVG without opening a viewer, with a quadratic trend
  contestcorr CSP2023提高 NOIP2023 --alpha=0.2 --polyfit=2 --save=out.svg --no-show

  # Only competitors representing Zhejiang, saved as <A>_vs_<B>.png
  contestcorr NOIP2023 NOI2024 --province 浙江 --save --no-show`,
		Args:              cobra.ExactArgs(2),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCompare(cmd, args, f)
		},
	}

	fl := root.Flags()
	fl.StringVar(&f.save, "save", "", "save the figure; the extension picks the format (png, jpg, tif, svg, pdf)")
	fl.Lookup("save").NoOptDefVal = saveDefault
	fl.BoolVar(&f.noShow, "no-show", false, "do not open the figure in a viewer")
	fl.Float64Var(&f.alpha, "alpha", defaults.Alpha, "point opacity in [0,1] (overrides config)")
	fl.IntVar(&f.dpi, "dpi", defaults.DPI, "image resolution (overrides config)")
	fl.IntVar(&f.polyfit, "polyfit", 0, fmt.Sprintf("fit a polynomial trend curve of this degree (1-%d)", app.MaxFitDegree))
	fl.StringSliceVar(&f.provinces, "province", nil, "only count competitors representing these provinces (repeatable)")

	root.AddCommand(c.batchCommand(), c.contestsCommand())
	return root
}

func (c *cli) runCompare(cmd *cobra.Command, args []string, f compareFlags) error {
	ctx := cmd.Context()

	req := app.Request{
		CompetitionA: args[0],
		CompetitionB: args[1],
		Provenance:   f.provinces,
		Alpha:        c.cfg.Alpha,
		DPI:          c.cfg.DPI,
		OutputPath:   f.save,
		Interactive:  !f.noShow,
	}
	if cmd.Flags().Changed("alpha") {
		req.Alpha = f.alpha
	}
	if cmd.Flags().Changed("dpi") {
		req.DPI = f.dpi
	}
	if cmd.Flags().Changed("polyfit") {
		degree := f.polyfit
		req.FitDegree = &degree
	}
	if req.OutputPath == saveDefault {
		req.OutputPath = app.DefaultOutputName(req.CompetitionA, req.CompetitionB)
	}

	// Reject bad flags before paying for the dataset load.
	if err := app.ValidateRequest(req); err != nil {
		return eris.Wrap(err, "compare")
	}

	svc, err := c.service(ctx)
	if err != nil {
		return eris.Wrap(err, "load dataset")
	}
	res, err := svc.Run(ctx, req)
	if res != nil {
		printSummary(c.stdout, res)
		if err == nil && req.OutputPath != "" {
			fmt.Fprintf(c.stdout, "Saved to %s\n", req.OutputPath)
		}
	}
	if err != nil {
		return eris.Wrap(err, "compare")
	}
	return nil
}

func printSummary(w io.Writer, res *model.ComparisonResult) {
	fmt.Fprintf(w, "%s vs %s: %d competitors", res.CompetitionA, res.CompetitionB, res.Len())
	if res.Excluded > 0 {
		fmt.Fprintf(w, " (%d excluded for a missing score)", res.Excluded)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Pearson:  %s\n", res.Pearson)
	fmt.Fprintf(w, "Spearman: %s\n", res.Spearman)
	switch {
	case res.Fit != nil:
		fmt.Fprintf(w, "Fit:      %s\n", formatPolynomial(res.Fit.Coefficients))
	case res.FitErr != nil:
		fmt.Fprintf(w, "Fit:      skipped (%v)\n", res.FitErr)
	}
}

// formatPolynomial renders coefficients, lowest degree first, as
// "y = c0 + c1·x + c2·x^2".
func formatPolynomial(coef []float64) string {
	var b strings.Builder
	b.WriteString("y =")
	for i, v := range coef {
		sign := "+"
		if v < 0 {
			sign = "-"
			v = -v
		}
		switch {
		case i == 0:
			if sign == "-" {
				fmt.Fprintf(&b, " -%.4g", v)
			} else {
				fmt.Fprintf(&b, " %.4g", v)
			}
		case i == 1:
			fmt.Fprintf(&b, " %s %.4g·x", sign, v)
		default:
			fmt.Fprintf(&b, " %s %.4g·x^%d", sign, v, i)
		}
	}
	return b.String()
}

func (c *cli) batchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "batch <file.yaml>",
		Short: "Run every comparison listed in a YAML batch file",
		Long: `Run the comparisons listed under "comparisons" in a YAML file and save
each figure. Jobs that fail are reported and the rest still run.

Example file:
  comparisons:
    - a: CSP2023提高
      b: NOIP2023
      alpha: 0.2
      save: samples/CSP2023提高_vs_NOIP2023.svg
    - a: CSP2025提高
      b: NOIP2025
      alpha: 0.1
      polyfit: 2
      save: samples/CSP2025提高_vs_NOIP2025_fit.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, err := c.service(ctx)
			if err != nil {
				return eris.Wrap(err, "load dataset")
			}
			results, err := svc.RunBatch(ctx, args[0], app.BatchDefaults{Alpha: c.cfg.Alpha, DPI: c.cfg.DPI})
			if err != nil {
				return eris.Wrap(err, "batch")
			}

			failed := 0
			for _, r := range results {
				if r.Err != nil {
					failed++
					fmt.Fprintf(c.stdout, "FAIL %s vs %s: %v\n", r.Job.A, r.Job.B, r.Err)
					continue
				}
				fmt.Fprintf(c.stdout, "ok   %s vs %s -> %s (pearson %s, spearman %s)\n",
					r.Result.CompetitionA, r.Result.CompetitionB, r.Path, r.Result.Pearson, r.Result.Spearman)
			}
			if failed > 0 {
				return eris.Errorf("batch: %d of %d comparisons failed", failed, len(results))
			}
			return nil
		},
	}
}

func (c *cli) contestsCommand() *cobra.Command {
	var filter string
	cmd := &cobra.Command{
		Use:   "contests",
		Short: "List the competitions in the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ds, err := c.loadDataset(cmd.Context())
			if err != nil {
				return eris.Wrap(err, "load dataset")
			}
			needle := strings.ToLower(model.CanonicalName(filter))
			for _, comp := range ds.Catalog.All() {
				if needle != "" && !strings.Contains(strings.ToLower(comp.Name), needle) {
					continue
				}
				fmt.Fprintf(c.stdout, "%4d  %-24s %-8s %d\n", comp.ID, comp.Name, comp.Type, comp.Year)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&filter, "filter", "", "only list competitions whose name contains this text")
	return cmd
}
