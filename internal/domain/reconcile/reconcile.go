package reconcile

import (
	"slices"

	"github.com/albanecoiffe/JO2024-visualization/internal/domain/model"
)

// Report summarizes what a reconciliation did.
type Report struct {
	Matched            int                `json:"matched"`
	AthleteOnly        int                `json:"athlete_only"`
	MedalOnly          int                `json:"medal_only"`
	DuplicateKeys      []model.NaturalKey `json:"duplicate_keys"`
	OverridesApplied   int                `json:"overrides_applied"`
	UnmatchedOverrides []model.NaturalKey `json:"unmatched_overrides"`
	ZeroFilled         int                `json:"zero_filled"`
}

// Reconciler performs the full outer join of athletes and medal rows,
// applies identity-keyed overrides and zero-fills missing medal counts.
type Reconciler struct {
	overrides []Override
}

// New creates a Reconciler seeded with DefaultOverrides.
func New(opts ...Option) *Reconciler {
	r := &Reconciler{
		overrides: DefaultOverrides(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Overrides returns a copy of the configured overrides.
func (r *Reconciler) Overrides() []Override {
	return slices.Clone(r.overrides)
}

// draft is a roster row before zero-filling.
type draft struct {
	athlete   model.Athlete
	birthdate string
	gold      *int
	silver    *int
	bronze    *int
	total     *int
	presence  model.Presence
}

// Reconcile joins athletes and medals on (slug, firstname, lastname).
//
// Rows come out in athlete input order, each athlete fanned out over its
// matching medal rows in medal input order, followed by medal rows that
// matched no athlete. Duplicate keys on either side fan out and are listed
// in the report. Inputs are not modified and output rows share no slices
// with them.
func (r *Reconciler) Reconcile(athletes []model.Athlete, medals []model.RawMedal) ([]model.RosterRow, Report) {
	var rep Report

	medalIdx := make(map[model.NaturalKey][]int, len(medals))
	for i, m := range medals {
		medalIdx[m.NaturalKey] = append(medalIdx[m.NaturalKey], i)
	}
	athleteCount := make(map[model.NaturalKey]int, len(athletes))
	for _, a := range athletes {
		athleteCount[a.NaturalKey]++
	}
	rep.DuplicateKeys = duplicateKeys(athletes, medals, athleteCount, medalIdx)

	drafts := make([]draft, 0, len(athletes)+len(medals))
	used := make([]bool, len(medals))
	for _, a := range athletes {
		idx := medalIdx[a.NaturalKey]
		if len(idx) == 0 {
			drafts = append(drafts, draft{athlete: cloneAthlete(a), birthdate: a.Birthdate, presence: model.PresenceAthleteOnly})
			rep.AthleteOnly++
			continue
		}
		for _, i := range idx {
			m := medals[i]
			used[i] = true
			drafts = append(drafts, draft{
				athlete:   cloneAthlete(a),
				birthdate: a.Birthdate,
				gold:      m.Gold,
				silver:    m.Silver,
				bronze:    m.Bronze,
				total:     m.Total,
				presence:  model.PresenceBoth,
			})
			rep.Matched++
		}
	}
	for i, m := range medals {
		if used[i] {
			continue
		}
		drafts = append(drafts, draft{
			athlete: model.Athlete{
				NaturalKey:   m.NaturalKey,
				OlympicGames: []int{},
				Disciplines:  []string{},
			},
			gold:     m.Gold,
			silver:   m.Silver,
			bronze:   m.Bronze,
			total:    m.Total,
			presence: model.PresenceMedalOnly,
		})
		rep.MedalOnly++
	}

	rep.OverridesApplied, rep.UnmatchedOverrides = r.applyOverrides(drafts)

	rows := make([]model.RosterRow, len(drafts))
	for i, d := range drafts {
		row, filled := d.finalize()
		rows[i] = row
		rep.ZeroFilled += filled
	}
	return rows, rep
}

// applyOverrides patches every draft whose key matches an override.
func (r *Reconciler) applyOverrides(drafts []draft) (int, []model.NaturalKey) {
	byKey := make(map[model.NaturalKey][]int, len(drafts))
	for i := range drafts {
		k := drafts[i].athlete.NaturalKey
		byKey[k] = append(byKey[k], i)
	}

	applied := 0
	var unmatched []model.NaturalKey
	for _, o := range r.overrides {
		idx := byKey[o.Key]
		if len(idx) == 0 {
			unmatched = append(unmatched, o.Key)
			continue
		}
		for _, i := range idx {
			o.apply(&drafts[i])
			applied++
		}
	}
	return applied, unmatched
}

// finalize zero-fills missing medal counts and returns how many were filled.
func (d draft) finalize() (model.RosterRow, int) {
	filled := 0
	fill := func(p *int) int {
		if p == nil {
			filled++
			return 0
		}
		return *p
	}
	a := d.athlete
	a.Birthdate = d.birthdate
	row := model.RosterRow{
		Athlete: a,
		Medals: model.MedalCounts{
			Gold:   fill(d.gold),
			Silver: fill(d.silver),
			Bronze: fill(d.bronze),
			Total:  fill(d.total),
		},
		Presence: d.presence,
	}
	return row, filled
}

func cloneAthlete(a model.Athlete) model.Athlete {
	a.OlympicGames = append(make([]int, 0, len(a.OlympicGames)), a.OlympicGames...)
	a.Disciplines = append(make([]string, 0, len(a.Disciplines)), a.Disciplines...)
	return a
}

// duplicateKeys lists keys seen more than once on either side, in first-seen order.
func duplicateKeys(athletes []model.Athlete, medals []model.RawMedal, athleteCount map[model.NaturalKey]int, medalIdx map[model.NaturalKey][]int) []model.NaturalKey {
	var dups []model.NaturalKey
	seen := make(map[model.NaturalKey]bool)
	note := func(k model.NaturalKey) {
		if seen[k] {
			return
		}
		if athleteCount[k] > 1 || len(medalIdx[k]) > 1 {
			seen[k] = true
			dups = append(dups, k)
		}
	}
	for _, a := range athletes {
		note(a.NaturalKey)
	}
	for _, m := range medals {
		note(m.NaturalKey)
	}
	return dups
}
