package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/contestcorr/internal/synth"
	"github.com/okian/contestcorr/pkg/logger"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// writeDataset generates a small dataset and points the config env vars at
// it.
func writeDataset(t *testing.T) (*synth.Config, string) {
	t.Helper()
	dir := t.TempDir()
	cfg := synth.NewConfig(filepath.Join(dir, "data"))
	cfg.Competitors = 400
	cfg.Seed = 3
	paths, _, err := synth.Write(context.Background(), cfg)
	if err != nil {
		t.Fatalf("synth: %v", err)
	}
	t.Setenv("CONTESTCORR_CONFIG", "")
	t.Setenv("CONTESTCORR_CONTESTS_PATH", paths.Contests)
	t.Setenv("CONTESTCORR_RESULTS_PATH", paths.Results)
	t.Setenv("CONTESTCORR_PROVINCES_PATH", paths.Provinces)
	t.Setenv("CONTESTCORR_DPI", "20")
	t.Setenv("CONTESTCORR_FIGURE_SIZE_IN", "3")
	return cfg, dir
}

func run(args ...string) (int, string, string, []string) {
	var stdout, stderr bytes.Buffer
	var opened []string
	code := execute(context.Background(), args, &stdout, &stderr, func(path string) error {
		opened = append(opened, path)
		return nil
	})
	return code, stdout.String(), stderr.String(), opened
}

func TestCompareCommand(t *testing.T) {
	convey.Convey("Given a generated dataset", t, func() {
		_, dir := writeDataset(t)

		convey.Convey("When saving an SVG with a trend curve", func() {
			out := filepath.Join(dir, "out.svg")
			code, stdout, _, opened := run("CSP2023提高", "NOIP2023", "--alpha=0.2", "--polyfit=2", "--save="+out, "--no-show")

			convey.Convey("Then it succeeds and prints the coefficients", func() {
				convey.So(code, convey.ShouldEqual, exitOK)
				convey.So(stdout, convey.ShouldContainSubstring, "CSP2023提高 vs NOIP2023")
				convey.So(stdout, convey.ShouldContainSubstring, "Pearson:")
				convey.So(stdout, convey.ShouldContainSubstring, "Spearman:")
				convey.So(stdout, convey.ShouldContainSubstring, "Fit:      y =")
				convey.So(stdout, convey.ShouldContainSubstring, "Saved to "+out)
				convey.So(opened, convey.ShouldBeEmpty)

				_, err := os.Stat(out)
				convey.So(err, convey.ShouldBeNil)
			})
		})

		convey.Convey("When --save is given without a path", func() {
			t.Chdir(dir)
			code, _, _, _ := run("NOIP2023", "NOIP2024", "--save", "--no-show")

			convey.Convey("Then the default file name is used", func() {
				convey.So(code, convey.ShouldEqual, exitOK)
				_, err := os.Stat(filepath.Join(dir, "NOIP2023_vs_NOIP2024.png"))
				convey.So(err, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the figure is shown", func() {
			code, _, _, opened := run("NOIP2023", "NOIP2024")

			convey.Convey("Then the viewer receives a png", func() {
				convey.So(code, convey.ShouldEqual, exitOK)
				convey.So(opened, convey.ShouldHaveLength, 1)
				convey.So(filepath.Ext(opened[0]), convey.ShouldEqual, ".png")
				_ = os.Remove(opened[0])
			})
		})

		convey.Convey("When the province filter matches nobody", func() {
			code, stdout, _, _ := run("NOIP2023", "NOIP2024", "--province", "Atlantis", "--no-show")

			convey.Convey("Then it reports no overlap and fails", func() {
				convey.So(code, convey.ShouldEqual, exitFailure)
				convey.So(stdout, convey.ShouldContainSubstring, "Nothing to compare")
			})
		})

		convey.Convey("When a competition is unknown", func() {
			code, _, stderr, _ := run("NOIP2023", "IOI1989", "--no-show")

			convey.Convey("Then it fails naming the competition", func() {
				convey.So(code, convey.ShouldEqual, exitFailure)
				convey.So(stderr, convey.ShouldContainSubstring, "unknown competition")
				convey.So(stderr, convey.ShouldContainSubstring, "IOI1989")
			})
		})

		convey.Convey("When a flag is out of range", func() {
			code, _, stderr, _ := run("NOIP2023", "NOIP2024", "--alpha=3", "--no-show")

			convey.Convey("Then it fails as an invalid argument", func() {
				convey.So(code, convey.ShouldEqual, exitFailure)
				convey.So(stderr, convey.ShouldContainSubstring, "invalid argument")
			})
		})

		convey.Convey("When the argument count is wrong", func() {
			code, _, _, _ := run("NOIP2023")

			convey.Convey("Then it fails", func() {
				convey.So(code, convey.ShouldEqual, exitFailure)
			})
		})

		convey.Convey("When metrics export is configured", func() {
			prom := filepath.Join(dir, "contestcorr.prom")
			t.Setenv("CONTESTCORR_METRICS_TEXTFILE", prom)
			code, _, _, _ := run("NOIP2023", "NOIP2024", "--no-show")

			convey.Convey("Then the textfile records the comparison", func() {
				convey.So(code, convey.ShouldEqual, exitOK)
				data, err := os.ReadFile(prom)
				convey.So(err, convey.ShouldBeNil)
				convey.So(string(data), convey.ShouldContainSubstring, `contestcorr_compare_comparisons_total{outcome="ok"} 1`)
			})
		})
	})
}

func TestMissingData(t *testing.T) {
	convey.Convey("Given config pointing at missing files", t, func() {
		dir := t.TempDir()
		t.Setenv("CONTESTCORR_CONFIG", "")
		t.Setenv("CONTESTCORR_CONTESTS_PATH", filepath.Join(dir, "contests.json"))
		t.Setenv("CONTESTCORR_RESULTS_PATH", filepath.Join(dir, "result.txt"))

		code, stdout, _, _ := run("NOIP2023", "NOIP2024", "--no-show")

		convey.Convey("Then it prints guidance and fails", func() {
			convey.So(code, convey.ShouldEqual, exitFailure)
			convey.So(stdout, convey.ShouldContainSubstring, "Data files not found")
		})
	})
}

func TestContestsCommand(t *testing.T) {
	convey.Convey("Given a generated dataset", t, func() {
		writeDataset(t)

		convey.Convey("When listing with a filter", func() {
			code, stdout, _, _ := run("contests", "--filter", "noip")

			convey.Convey("Then only matching competitions are listed", func() {
				convey.So(code, convey.ShouldEqual, exitOK)
				convey.So(stdout, convey.ShouldContainSubstring, "NOIP2023")
				convey.So(stdout, convey.ShouldContainSubstring, "NOIP2024")
				convey.So(stdout, convey.ShouldNotContainSubstring, "CSP2023")
			})
		})
	})
}

func TestBatchCommand(t *testing.T) {
	convey.Convey("Given a generated dataset and a batch file", t, func() {
		_, dir := writeDataset(t)
		out := filepath.Join(dir, "samples", "a.svg")
		batch := filepath.Join(dir, "batch.yaml")
		content := "comparisons:\n" +
			"  - a: CSP2023提高\n    b: NOIP2023\n    alpha: 0.2\n    save: " + out + "\n"
		convey.So(os.WriteFile(batch, []byte(content), 0o600), convey.ShouldBeNil)

		convey.Convey("When running the batch", func() {
			code, stdout, _, _ := run("batch", batch)

			convey.Convey("Then every figure is written", func() {
				convey.So(code, convey.ShouldEqual, exitOK)
				convey.So(stdout, convey.ShouldContainSubstring, "ok   CSP2023提高 vs NOIP2023")
				_, err := os.Stat(out)
				convey.So(err, convey.ShouldBeNil)
			})
		})

		convey.Convey("When a job names an unknown competition", func() {
			bad := filepath.Join(dir, "bad.yaml")
			convey.So(os.WriteFile(bad, []byte("comparisons:\n  - a: NOIP2023\n    b: IOI1989\n"), 0o600), convey.ShouldBeNil)
			code, stdout, _, _ := run("batch", bad)

			convey.Convey("Then the job is reported and the run fails", func() {
				convey.So(code, convey.ShouldEqual, exitFailure)
				convey.So(stdout, convey.ShouldContainSubstring, "FAIL NOIP2023 vs IOI1989")
			})
		})
	})
}

func TestFormatPolynomial(t *testing.T) {
	convey.Convey("Coefficients are printed lowest degree first", t, func() {
		convey.So(formatPolynomial([]float64{1, -2, 0.5}), convey.ShouldEqual, "y = 1 - 2·x + 0.5·x^2")
		convey.So(formatPolynomial([]float64{-3, 4}), convey.ShouldEqual, "y = -3 + 4·x")
	})
}
