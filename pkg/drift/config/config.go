package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/drift/pkg/drift/internalerr"
	"github.com/cognicore/drift/pkg/drift/trend"
)

// ProfileConfig is one named significance/effect-size cutoff pair.
type ProfileConfig struct {
	Alpha       float64 `yaml:"alpha"`
	MinSlopeAbs float64 `yaml:"min_slope_abs"`
}

// Config carries every pipeline threshold. Nothing here is hardcoded in
// the pipeline itself; the defaults document where the conventional values
// come from.
type Config struct {
	// MinGlobalCount is the strict floor for corpus-wide word counts: a
	// word needs more than this many occurrences to appear in the global
	// table. The default of 150 works out to roughly 10 occurrences per
	// year over a ~15-year review corpus.
	MinGlobalCount int64 `yaml:"min_global_count"`

	// MinYearCount is the strict per-(word, year) floor.
	MinYearCount int64 `yaml:"min_year_count"`

	// MinYearsPresent is how many distinct qualifying years a word needs
	// to stay in the yearly table. Zero means auto: half the observed year
	// span, rounded up.
	MinYearsPresent int `yaml:"min_years_present"`

	// WeightedFit weights each year-point by its token count during
	// regression. Off by default to match the unweighted baseline.
	WeightedFit bool `yaml:"weighted_fit"`

	// Workers bounds the regression worker pool; zero means one per CPU.
	Workers int `yaml:"workers"`

	Broad  ProfileConfig `yaml:"broad"`
	Strict ProfileConfig `yaml:"strict"`
}

// DefaultConfig returns the conventional thresholds.
func DefaultConfig() Config {
	broad := trend.BroadProfile()
	strict := trend.StrictProfile()
	return Config{
		MinGlobalCount: 150,
		MinYearCount:   10,
		Broad:          ProfileConfig{Alpha: broad.Alpha, MinSlopeAbs: broad.MinSlopeAbs},
		Strict:         ProfileConfig{Alpha: strict.Alpha, MinSlopeAbs: strict.MinSlopeAbs},
	}
}

// LoadConfig reads a YAML config file over the defaults, so a partial file
// only overrides what it names.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects statically-detectable nonsense before any data is read.
// Span-dependent checks (a years-present floor exceeding the observed span)
// happen at pipeline start, once the span is known.
func (c Config) Validate() error {
	if c.MinGlobalCount < 0 {
		return fmt.Errorf("%w: min_global_count %d is negative",
			internalerr.ErrInvalidConfig, c.MinGlobalCount)
	}
	if c.MinYearCount < 0 {
		return fmt.Errorf("%w: min_year_count %d is negative",
			internalerr.ErrInvalidConfig, c.MinYearCount)
	}
	if c.MinYearsPresent < 0 {
		return fmt.Errorf("%w: min_years_present %d is negative",
			internalerr.ErrInvalidConfig, c.MinYearsPresent)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers %d is negative",
			internalerr.ErrInvalidConfig, c.Workers)
	}
	for _, p := range []struct {
		name string
		cfg  ProfileConfig
	}{{"broad", c.Broad}, {"strict", c.Strict}} {
		if p.cfg.Alpha <= 0 || p.cfg.Alpha > 1 {
			return fmt.Errorf("%w: %s alpha %v outside (0, 1]",
				internalerr.ErrInvalidConfig, p.name, p.cfg.Alpha)
		}
		if p.cfg.MinSlopeAbs < 0 {
			return fmt.Errorf("%w: %s min_slope_abs %v is negative",
				internalerr.ErrInvalidConfig, p.name, p.cfg.MinSlopeAbs)
		}
	}
	return nil
}

// BroadProfile returns the configured broad selection profile.
func (c Config) BroadProfile() trend.Profile {
	return trend.Profile{Name: "broad", Alpha: c.Broad.Alpha, MinSlopeAbs: c.Broad.MinSlopeAbs}
}

// StrictProfile returns the configured strict selection profile.
func (c Config) StrictProfile() trend.Profile {
	return trend.Profile{Name: "strict", Alpha: c.Strict.Alpha, MinSlopeAbs: c.Strict.MinSlopeAbs}
}

// Stoplist represents the stopword list configuration.
type Stoplist struct {
	Terms []string `yaml:"terms"`
}

// LoadStoplist loads stopwords from a YAML file.
func LoadStoplist(path string) (*Stoplist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load stoplist: %w", err)
	}

	var sl Stoplist
	if err := yaml.Unmarshal(data, &sl); err != nil {
		return nil, fmt.Errorf("parse stoplist: %w", err)
	}
	return &sl, nil
}
