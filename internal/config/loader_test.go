package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/contestcorr/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			// Clear any existing environment variables
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.ResultsPath, convey.ShouldEqual, config.DefaultResultsPath)
				convey.So(cfg.Alpha, convey.ShouldEqual, 0.5)
				convey.So(cfg.DPI, convey.ShouldEqual, 80)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("CONTESTCORR_LOG_LEVEL", "debug")
			_ = os.Setenv("CONTESTCORR_RESULTS_PATH", "/data/result.txt")
			_ = os.Setenv("CONTESTCORR_PROVINCES_PATH", "/data/provinces.json")
			_ = os.Setenv("CONTESTCORR_ALPHA", "0.2")
			_ = os.Setenv("CONTESTCORR_DPI", "150")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
				convey.So(cfg.ResultsPath, convey.ShouldEqual, "/data/result.txt")
				convey.So(cfg.ProvincesPath, convey.ShouldEqual, "/data/provinces.json")
				convey.So(cfg.Alpha, convey.ShouldEqual, 0.2)
				convey.So(cfg.DPI, convey.ShouldEqual, 150)
				convey.So(cfg.ContestsPath, convey.ShouldEqual, config.DefaultContestsPath)
			})
		})

		convey.Convey("When loading config with a YAML file", func() {
			yamlContent := `
contests_path: /srv/contests.json
results_path: /srv/result.txt
log_format: json
figure_size_in: 8
metrics_textfile: /var/lib/node_exporter/contestcorr.prom
`
			tmpFile := createTempConfigFile(t, yamlContent)
			_ = os.Setenv("CONTESTCORR_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from the file and keep other defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.ContestsPath, convey.ShouldEqual, "/srv/contests.json")
				convey.So(cfg.ResultsPath, convey.ShouldEqual, "/srv/result.txt")
				convey.So(cfg.LogFormat, convey.ShouldEqual, "json")
				convey.So(cfg.FigureSizeIn, convey.ShouldEqual, 8)
				convey.So(cfg.MetricsTextfile, convey.ShouldEqual, "/var/lib/node_exporter/contestcorr.prom")
				convey.So(cfg.DPI, convey.ShouldEqual, 80)
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			tmpFile := createTempConfigFile(t, "dpi: 100\nalpha: 0.3\n")
			_ = os.Setenv("CONTESTCORR_CONFIG", tmpFile)
			_ = os.Setenv("CONTESTCORR_DPI", "200") // overrides the file
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.DPI, convey.ShouldEqual, 200)   // Overridden by env
				convey.So(cfg.Alpha, convey.ShouldEqual, 0.3) // From file
			})
		})

		convey.Convey("When the config file is missing", func() {
			_ = os.Setenv("CONTESTCORR_CONFIG", "/nonexistent/contestcorr.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(t, `invalid: yaml: content: [`)
			_ = os.Setenv("CONTESTCORR_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with an empty results path", func() {
			_ = os.Setenv("CONTESTCORR_RESULTS_PATH", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "ResultsPath")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("CONTESTCORR_DPI", "not_a_number")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the context is already cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()

			_, err := config.Load(cctx)

			convey.Convey("Then it should return the context error", func() {
				convey.So(errors.Is(err, context.Canceled), convey.ShouldBeTrue)
			})
		})
	})
}

// createTempConfigFile creates a temporary config file with the given content.
func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	tmpFile, err := os.CreateTemp(t.TempDir(), "contestcorr_config_*.yaml")
	if err != nil {
		t.Fatalf("create temp config: %v", err)
	}
	defer func() { _ = tmpFile.Close() }()

	if _, err := tmpFile.WriteString(content); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return tmpFile.Name()
}

// clearConfigEnvVars clears all contestcorr environment variables.
func clearConfigEnvVars() {
	for _, key := range []string{
		"CONTESTCORR_CONFIG",
		"CONTESTCORR_LOG_LEVEL",
		"CONTESTCORR_LOG_FORMAT",
		"CONTESTCORR_CONTESTS_PATH",
		"CONTESTCORR_RESULTS_PATH",
		"CONTESTCORR_PROVINCES_PATH",
		"CONTESTCORR_ALPHA",
		"CONTESTCORR_DPI",
		"CONTESTCORR_FIGURE_SIZE_IN",
		"CONTESTCORR_METRICS_TEXTFILE",
	} {
		_ = os.Unsetenv(key)
	}
}
