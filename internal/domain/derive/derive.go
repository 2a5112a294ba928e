// Package derive computes display fields for reconciled roster rows.
package derive

import (
	"fmt"
	"strings"
	"time"

	"github.com/albanecoiffe/JO2024-visualization/internal/domain/model"
)

// DefaultReferenceYear is the year of the games ages are computed against.
const DefaultReferenceYear = 2024

// NoDisciplines is shown when an athlete has no discipline.
const NoDisciplines = "N/A"

var birthdateLayouts = []string{
	time.DateOnly,
	time.RFC3339,
	time.DateTime,
	"2006-01-02T15:04:05",
}

// Option applies a configuration option to the Deriver.
type Option func(*Deriver)

// WithReferenceYear sets the year ages are computed against.
func WithReferenceYear(year int) Option {
	return func(d *Deriver) {
		if year > 0 {
			d.referenceYear = year
		}
	}
}

// Deriver turns roster rows into athlete views.
type Deriver struct {
	referenceYear int
}

// New creates a Deriver.
func New(opts ...Option) *Deriver {
	d := &Deriver{referenceYear: DefaultReferenceYear}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// ReferenceYear returns the configured reference year.
func (d *Deriver) ReferenceYear() int {
	return d.referenceYear
}

// Derive computes age and the joined discipline string for one row.
func (d *Deriver) Derive(row model.RosterRow) (model.AthleteView, error) {
	age, err := Age(row.Birthdate, d.referenceYear)
	if err != nil {
		return model.AthleteView{}, fmt.Errorf("%s: %w", row.NaturalKey, err)
	}
	return model.AthleteView{
		RosterRow:         row,
		Age:               age,
		DisciplinesJoined: JoinDisciplines(row.Disciplines),
	}, nil
}

// DeriveAll derives every row, stopping at the first invalid birthdate.
func (d *Deriver) DeriveAll(rows []model.RosterRow) ([]model.AthleteView, error) {
	out := make([]model.AthleteView, len(rows))
	for i, r := range rows {
		v, err := d.Derive(r)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

// Age returns referenceYear minus the year of birthdate.
func Age(birthdate string, referenceYear int) (int, error) {
	s := strings.TrimSpace(birthdate)
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidBirthdate)
	}
	for _, layout := range birthdateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return referenceYear - t.Year(), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidBirthdate, birthdate)
}

// JoinDisciplines renders discipline slugs for display.
func JoinDisciplines(disciplines []string) string {
	if len(disciplines) == 0 {
		return NoDisciplines
	}
	return strings.Join(disciplines, ", ")
}
