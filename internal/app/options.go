package service

import (
	"time"

	"github.com/albanecoiffe/JO2024-visualization/internal/adapters/repository"
	"github.com/albanecoiffe/JO2024-visualization/internal/domain/reconcile"
	"github.com/albanecoiffe/JO2024-visualization/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithSources sets the input file paths. An empty torch path skips the
// torch file.
func WithSources(athletes, medals, torch string) Option {
	return func(s *Service) {
		s.athletesPath = athletes
		s.medalsPath = medals
		s.torchPath = torch
	}
}

// WithReferenceYear sets the year ages are computed against.
func WithReferenceYear(year int) Option {
	return func(s *Service) {
		if year > 0 {
			s.referenceYear = year
		}
	}
}

// WithOverrides adds roster corrections on top of the defaults.
func WithOverrides(overrides ...reconcile.Override) Option {
	return func(s *Service) {
		s.overrides = append(s.overrides, overrides...)
	}
}

// WithoutDefaultOverrides drops the built-in roster corrections.
func WithoutDefaultOverrides() Option {
	return func(s *Service) {
		s.noDefaultOverrides = true
	}
}

// WithReloadInterval re-runs the pipeline periodically after Start.
func WithReloadInterval(interval time.Duration) Option {
	return func(s *Service) {
		if interval > 0 {
			s.reloadInterval = interval
		}
	}
}

// WithStore sets the snapshot store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
