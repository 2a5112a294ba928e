package service

import (
	"context"
	"errors"

	"github.com/albanecoiffe/JO2024-visualization/internal/adapters/repository"
	"github.com/albanecoiffe/JO2024-visualization/internal/adapters/source"
	"github.com/albanecoiffe/JO2024-visualization/internal/domain/derive"
)

// Sentinel kinds for service errors.
var (
	// ErrNoSnapshot is returned before the first successful pipeline run.
	ErrNoSnapshot = repository.ErrNoSnapshot
	// ErrPipelineFailed wraps any failure of a pipeline run.
	ErrPipelineFailed = errors.New("pipeline run failed")
)

// errorKind maps a pipeline error to a metrics label.
func errorKind(err error) string {
	switch {
	case errors.Is(err, source.ErrSourceNotFound):
		return "source_not_found"
	case errors.Is(err, source.ErrSourceFormat):
		return "source_format"
	case errors.Is(err, derive.ErrInvalidBirthdate):
		return "invalid_birthdate"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	default:
		return "internal"
	}
}
