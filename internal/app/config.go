package service

import (
	"github.com/albanecoiffe/JO2024-visualization/internal/config"
)

// OptionsFromConfig maps a loaded Config onto service options.
func OptionsFromConfig(cfg *config.Config) []Option {
	opts := []Option{
		WithSources(cfg.AthletesPath, cfg.MedalsPath, cfg.TorchPath),
		WithReferenceYear(cfg.ReferenceYear),
		WithReloadInterval(cfg.ReloadInterval()),
		WithOverrides(cfg.ReconcileOverrides()...),
	}
	if cfg.DisableDefaultOverrides {
		opts = append(opts, WithoutDefaultOverrides())
	}
	return opts
}
