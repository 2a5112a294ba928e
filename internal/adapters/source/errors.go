package source

import (
	"errors"
	"fmt"
)

var (
	// ErrSourceNotFound is returned when an input file does not exist.
	ErrSourceNotFound = errors.New("source not found")
	// ErrSourceFormat is returned when an input file is structurally invalid.
	ErrSourceFormat = errors.New("invalid source format")
)

// SourceError describes a failure reading one input file.
type SourceError struct {
	Path  string
	Field string
	Err   error
}

func (e *SourceError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Path, e.Field, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

func formatError(path, field, format string, args ...any) error {
	return &SourceError{
		Path:  path,
		Field: field,
		Err:   fmt.Errorf("%w: "+format, append([]any{ErrSourceFormat}, args...)...),
	}
}
