// Package synth writes synthetic result datasets in the on-disk layout read
// by the dataset loader. Scores of each competitor share a latent ability
// so competitions correlate by a configurable amount.
package synth

import (
	"errors"
	"fmt"
)

// Defaults used by NewConfig.
const (
	DefaultCompetitors = 2000
	DefaultCorrelation = 0.7
	DefaultTurnout     = 0.6
	DefaultMissingRate = 0.02
	DefaultMaxScore    = 400
	DefaultSeed        = 1
)

// ErrInvalidConfig reports a generator setting out of range.
var ErrInvalidConfig = errors.New("invalid synth config")

// Config holds generator settings.
type Config struct {
	Dir          string   // output directory
	Competitors  int      // number of result rows
	Competitions []string // catalog names, in id order
	Provinces    []string // province table, in code order
	Correlation  float64  // weight of the shared ability in every score, in [0,1]
	Turnout      float64  // probability a competitor enters a given competition
	MissingRate  float64  // probability an entered score is left blank
	MaxScore     float64
	Seed         uint64
}

// NewConfig returns a Config with defaults writing into dir.
func NewConfig(dir string) *Config {
	return &Config{
		Dir:          dir,
		Competitors:  DefaultCompetitors,
		Competitions: []string{"CSP2023提高", "NOIP2023", "CSP2024提高", "NOIP2024", "NOI2024"},
		Provinces:    []string{"北京", "上海", "浙江", "江苏", "广东", "四川"},
		Correlation:  DefaultCorrelation,
		Turnout:      DefaultTurnout,
		MissingRate:  DefaultMissingRate,
		MaxScore:     DefaultMaxScore,
		Seed:         DefaultSeed,
	}
}

// Validate checks every setting.
func (c *Config) Validate() error {
	switch {
	case c.Dir == "":
		return fmt.Errorf("%w: output directory is empty", ErrInvalidConfig)
	case c.Competitors < 1:
		return fmt.Errorf("%w: competitors %d < 1", ErrInvalidConfig, c.Competitors)
	case len(c.Competitions) == 0:
		return fmt.Errorf("%w: no competitions", ErrInvalidConfig)
	case len(c.Provinces) == 0:
		return fmt.Errorf("%w: no provinces", ErrInvalidConfig)
	case c.Correlation < 0 || c.Correlation > 1:
		return fmt.Errorf("%w: correlation %v outside [0,1]", ErrInvalidConfig, c.Correlation)
	case c.Turnout <= 0 || c.Turnout > 1:
		return fmt.Errorf("%w: turnout %v outside (0,1]", ErrInvalidConfig, c.Turnout)
	case c.MissingRate < 0 || c.MissingRate >= 1:
		return fmt.Errorf("%w: missing rate %v outside [0,1)", ErrInvalidConfig, c.MissingRate)
	case c.MaxScore <= 0:
		return fmt.Errorf("%w: max score %v <= 0", ErrInvalidConfig, c.MaxScore)
	}
	return nil
}
