// Package config defines service configuration structures and loading hooks.
package config

import (
	"fmt"
	"time"

	"github.com/albanecoiffe/JO2024-visualization/internal/domain/model"
	"github.com/albanecoiffe/JO2024-visualization/internal/domain/reconcile"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json log output.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// AthletesPath is the athlete document export (JSON).
	AthletesPath string `koanf:"athletes_path"`

	// MedalsPath is the medal spreadsheet (.xlsx or .csv).
	MedalsPath string `koanf:"medals_path"`

	// TorchPath is the torch relay file. Empty disables torch loading.
	TorchPath string `koanf:"torch_path"`

	// ReferenceYear is the year ages are computed against.
	ReferenceYear int `koanf:"reference_year"`

	// MaxQueryLimit caps n and limit query parameters.
	MaxQueryLimit int `koanf:"max_query_limit"`

	// ReloadIntervalSec re-runs the pipeline periodically. Zero disables it.
	ReloadIntervalSec int `koanf:"reload_interval_sec"`

	// DisableDefaultOverrides drops the built-in medal corrections.
	DisableDefaultOverrides bool `koanf:"disable_default_overrides"`

	// Overrides are extra identity-keyed corrections.
	Overrides []Override `koanf:"overrides"`
}

// Override is the configuration form of a roster correction. Medal fields
// are all-or-nothing: set any of them to replace the whole tally.
type Override struct {
	Slug      string `koanf:"slug"`
	Firstname string `koanf:"firstname"`
	Lastname  string `koanf:"lastname"`
	Birthdate string `koanf:"birthdate"`
	Gold      *int   `koanf:"gold"`
	Silver    *int   `koanf:"silver"`
	Bronze    *int   `koanf:"bronze"`
	Total     *int   `koanf:"total"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		Addr:              ":9080",
		AthletesPath:      "athlete_fr_2024.json",
		MedalsPath:        "medailles2024.xlsx",
		TorchPath:         "games_map_torch_position.xlsx",
		ReferenceYear:     2024,
		MaxQueryLimit:     100,
		ReloadIntervalSec: 0,
	}
}

// ReloadInterval returns ReloadIntervalSec as a duration.
func (c *Config) ReloadInterval() time.Duration {
	return time.Duration(c.ReloadIntervalSec) * time.Second
}

// Validate checks the configuration for values the service cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.AthletesPath == "":
		return fmt.Errorf("%w: athletes_path must not be empty", ErrInvalidConfig)
	case c.MedalsPath == "":
		return fmt.Errorf("%w: medals_path must not be empty", ErrInvalidConfig)
	case c.ReferenceYear <= 0:
		return fmt.Errorf("%w: reference_year must be positive", ErrInvalidConfig)
	case c.MaxQueryLimit <= 0:
		return fmt.Errorf("%w: max_query_limit must be positive", ErrInvalidConfig)
	case c.ReloadIntervalSec < 0:
		return fmt.Errorf("%w: reload_interval_sec must not be negative", ErrInvalidConfig)
	}
	for i, o := range c.Overrides {
		if o.Slug == "" && o.Firstname == "" && o.Lastname == "" {
			return fmt.Errorf("%w: overrides[%d] has an empty key", ErrInvalidConfig, i)
		}
		if o.Birthdate == "" && !o.hasMedals() {
			return fmt.Errorf("%w: overrides[%d] changes nothing", ErrInvalidConfig, i)
		}
	}
	return nil
}

func (o Override) hasMedals() bool {
	return o.Gold != nil || o.Silver != nil || o.Bronze != nil || o.Total != nil
}

// ReconcileOverrides converts the configured overrides for the reconciler.
// Unset medal fields in a medal override count as zero.
func (c *Config) ReconcileOverrides() []reconcile.Override {
	out := make([]reconcile.Override, 0, len(c.Overrides))
	for _, o := range c.Overrides {
		ro := reconcile.Override{
			Key:       model.NaturalKey{Slug: o.Slug, Firstname: o.Firstname, Lastname: o.Lastname},
			Birthdate: o.Birthdate,
		}
		if o.hasMedals() {
			ro.Medals = &model.MedalCounts{
				Gold:   deref(o.Gold),
				Silver: deref(o.Silver),
				Bronze: deref(o.Bronze),
				Total:  deref(o.Total),
			}
		}
		out = append(out, ro)
	}
	return out
}

func deref(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
