// Package config provides configuration loading for gwsiren. Application
// settings come from environment variables; run settings (the scientific
// parameters of one batch) come from a YAML file so runs are reproducible
// from a single checked-in document.
package config

import (
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"gwsiren/internal/errors"
)

// App holds process-level settings.
type App struct {
	LogLevel string `env:"GWSIREN_LOG_LEVEL" envDefault:"info"`
	DataDir  string `env:"GWSIREN_DATA_DIR" envDefault:"."`
}

// LoadApp reads application configuration from the environment.
func LoadApp() (*App, error) {
	cfg := &App{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse environment configuration")
	}
	return cfg, nil
}

// Grid configures the H0 analysis grid.
type Grid struct {
	Min    float64 `yaml:"min"`
	Max    float64 `yaml:"max"`
	Points int     `yaml:"points"`
}

// Selection configures the detection-probability model.
type Selection struct {
	Form      string  `yaml:"form"`      // "sigmoid" or "heaviside"
	Threshold float64 `yaml:"threshold"` // Mpc
	Width     float64 `yaml:"width"`     // fractional smoothing (sigmoid)
}

// Catalog configures the galaxy population. An empty path selects the
// synthetic uniform-in-comoving-volume population.
type Catalog struct {
	Path  string `yaml:"path"`
	Sheet string `yaml:"sheet"`
}

// Output configures where per-event records go.
type Output struct {
	Path   string `yaml:"path"`
	Format string `yaml:"format"` // "jsonl" or "sqlite"
}

// Run is the complete specification of one simulation batch.
type Run struct {
	Events      int     `yaml:"events"`
	InjectionH0 float64 `yaml:"injection_h0"`
	SigmaFrac   float64 `yaml:"sigma_frac"`
	OmegaM      float64 `yaml:"omega_m"`
	ZHorizon    float64 `yaml:"z_horizon"`
	Seed        int64   `yaml:"seed"`
	Workers     int     `yaml:"workers"`
	MaxRetries  int     `yaml:"max_retries"`

	// LocalizationRadius is the sky-localization radius in radians.
	LocalizationRadius float64 `yaml:"localization_radius"`

	// Policy is the likelihood normalization treatment: "correct",
	// "no-selection", or "double-count".
	Policy      string `yaml:"policy"`
	OmitMissing bool   `yaml:"omit_missing"`

	Grid      Grid      `yaml:"grid"`
	Selection Selection `yaml:"selection"`
	Catalog   Catalog   `yaml:"catalog"`
	Output    Output    `yaml:"output"`
}

// DefaultRun mirrors the reference scenario: injection at 70 km/s/Mpc, 10%
// fractional distance errors, analysis grid on [50, 100].
func DefaultRun() Run {
	return Run{
		Events:             100,
		InjectionH0:        70,
		SigmaFrac:          0.1,
		OmegaM:             0.25,
		ZHorizon:           0.15,
		Seed:               42,
		Workers:            4,
		MaxRetries:         10000,
		LocalizationRadius: 0.05,
		Policy:             "correct",
		Grid:               Grid{Min: 50, Max: 100, Points: 200},
		Selection:          Selection{Form: "sigmoid", Threshold: 400, Width: 0.1},
		Output:             Output{Path: "events.jsonl", Format: "jsonl"},
	}
}

// LoadRun reads a run configuration from a YAML file, filling unset fields
// from the defaults, and validates it.
func LoadRun(path string) (*Run, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read run configuration %s", path)
	}
	cfg := DefaultRun()
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse run configuration")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the run parameters.
func (r *Run) Validate() error {
	if r.Events <= 0 {
		return errors.ConfigInvalid("events must be positive")
	}
	if r.InjectionH0 <= 0 {
		return errors.ConfigInvalid("injection_h0 must be positive")
	}
	if r.SigmaFrac <= 0 {
		return errors.ConfigInvalid("sigma_frac must be positive")
	}
	if r.OmegaM < 0 || r.OmegaM > 1 {
		return errors.ConfigInvalid("omega_m must be in [0,1]")
	}
	if r.ZHorizon <= 0 {
		return errors.ConfigInvalid("z_horizon must be positive")
	}
	if r.Workers <= 0 {
		return errors.ConfigInvalid("workers must be positive")
	}
	if r.LocalizationRadius <= 0 {
		return errors.ConfigInvalid("localization_radius must be positive")
	}
	if r.Grid.Min <= 0 || r.Grid.Max <= r.Grid.Min || r.Grid.Points < 2 {
		return errors.ConfigInvalid("grid must satisfy 0 < min < max with at least 2 points")
	}
	if r.Selection.Threshold <= 0 {
		return errors.ConfigInvalid("selection.threshold must be positive")
	}
	if r.Selection.Form != "sigmoid" && r.Selection.Form != "heaviside" {
		return errors.ConfigInvalid("selection.form must be sigmoid or heaviside")
	}
	if r.Selection.Form == "sigmoid" && r.Selection.Width <= 0 {
		return errors.ConfigInvalid("selection.width must be positive for the sigmoid form")
	}
	switch r.Policy {
	case "correct", "no-selection", "double-count":
	default:
		return errors.ConfigInvalid("policy must be correct, no-selection, or double-count")
	}
	switch r.Output.Format {
	case "jsonl", "sqlite":
	default:
		return errors.ConfigInvalid("output.format must be jsonl or sqlite")
	}
	if r.Output.Path == "" {
		return errors.ConfigInvalid("output.path is required")
	}
	return nil
}
