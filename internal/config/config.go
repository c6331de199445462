// Package config defines process configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Loading functions accept context.Context as the first parameter.
// - External errors are wrapped with this package's sentinel errors.
package config

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Default dataset locations, relative to the working directory.
const (
	DefaultContestsPath = "OIerDb-data-generator/static/contests.json"
	DefaultResultsPath  = "OIerDb-data-generator/dist/result.txt"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"oneof=debug info warn warning error"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format" validate:"oneof=text json"`

	// ContestsPath points at the competition catalog (contests.json).
	ContestsPath string `koanf:"contests_path" validate:"required"`

	// ResultsPath points at the results table (result.txt).
	ResultsPath string `koanf:"results_path" validate:"required"`

	// ProvincesPath optionally points at a JSON array of province names.
	ProvincesPath string `koanf:"provinces_path"`

	// Alpha is the default point opacity.
	Alpha float64 `koanf:"alpha" validate:"gte=0,lte=1"`

	// DPI is the default image resolution.
	DPI int `koanf:"dpi" validate:"min=1,max=1200"`

	// FigureSizeIn is the side of the square figure in inches.
	FigureSizeIn float64 `koanf:"figure_size_in" validate:"gt=0,lte=100"`

	// MetricsTextfile, when set, receives run metrics in Prometheus text
	// format at exit.
	MetricsTextfile string `koanf:"metrics_textfile"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:     "info",
		LogFormat:    "text",
		ContestsPath: DefaultContestsPath,
		ResultsPath:  DefaultResultsPath,
		Alpha:        0.5,
		DPI:          80,
		FigureSizeIn: 10,
	}
}

var validate = validator.New()

// Validate checks every field constraint.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%w: %s=%v violates %s", ErrInvalidConfig, fe.Field(), fe.Value(), fe.ActualTag())
		}
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}
