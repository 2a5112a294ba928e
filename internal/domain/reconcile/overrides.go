package reconcile

import "github.com/albanecoiffe/JO2024-visualization/internal/domain/model"

// Override is a manual correction addressed by natural key.
// Empty Birthdate and nil Medals leave the row untouched.
type Override struct {
	Key       model.NaturalKey
	Birthdate string
	Medals    *model.MedalCounts
}

// DefaultOverrides returns the corrections known to be needed on the 2024
// export. Antoine Brizard's gold is missing from the medal spreadsheet.
func DefaultOverrides() []Override {
	return []Override{
		{
			Key:    model.NaturalKey{Slug: "antoine-brizard", Firstname: "Antoine", Lastname: "BRIZARD"},
			Medals: &model.MedalCounts{Gold: 1, Silver: 0, Bronze: 0, Total: 1},
		},
	}
}

func (o Override) apply(row *draft) {
	if o.Birthdate != "" {
		row.birthdate = o.Birthdate
	}
	if o.Medals != nil {
		m := *o.Medals
		row.gold, row.silver, row.bronze, row.total = &m.Gold, &m.Silver, &m.Bronze, &m.Total
	}
}
