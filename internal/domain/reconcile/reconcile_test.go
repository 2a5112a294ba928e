package reconcile_test

import (
	"math/rand"
	"testing"

	"github.com/albanecoiffe/JO2024-visualization/internal/domain/model"
	"github.com/albanecoiffe/JO2024-visualization/internal/domain/reconcile"
	. "github.com/smartystreets/goconvey/convey"
)

func intp(v int) *int { return &v }

func key(slug string) model.NaturalKey {
	return model.NaturalKey{Slug: slug, Firstname: "F-" + slug, Lastname: "L-" + slug}
}

func athlete(slug string, disciplines ...string) model.Athlete {
	if disciplines == nil {
		disciplines = []string{}
	}
	return model.Athlete{
		NaturalKey:   key(slug),
		Birthdate:    "2000-01-01",
		Type:         model.Olympic,
		OlympicGames: []int{2024},
		Disciplines:  disciplines,
	}
}

func medal(slug string, gold, silver, bronze, total int) model.RawMedal {
	return model.RawMedal{NaturalKey: key(slug), Gold: intp(gold), Silver: intp(silver), Bronze: intp(bronze), Total: intp(total)}
}

func rowsByKey(rows []model.RosterRow) map[model.NaturalKey][]model.RosterRow {
	out := make(map[model.NaturalKey][]model.RosterRow)
	for _, r := range rows {
		out[r.NaturalKey] = append(out[r.NaturalKey], r)
	}
	return out
}

func TestReconcile_EndToEndScenario(t *testing.T) {
	Convey("Given athlete a without a medal row and athlete b with one gold", t, func() {
		r := reconcile.New(reconcile.WithoutDefaultOverrides())
		athletes := []model.Athlete{athlete("a"), athlete("b")}
		medals := []model.RawMedal{{NaturalKey: key("b"), Gold: intp(1)}}

		Convey("When reconciling", func() {
			rows, rep := r.Reconcile(athletes, medals)

			Convey("Then the roster has exactly two rows", func() {
				So(rows, ShouldHaveLength, 2)
				So(rep.Matched, ShouldEqual, 1)
				So(rep.AthleteOnly, ShouldEqual, 1)
				So(rep.MedalOnly, ShouldEqual, 0)
			})

			Convey("And a's medal counts are all zero", func() {
				a := rowsByKey(rows)[key("a")]
				So(a, ShouldHaveLength, 1)
				So(a[0].Medals, ShouldResemble, model.MedalCounts{})
				So(a[0].Presence, ShouldEqual, model.PresenceAthleteOnly)
			})

			Convey("And b's gold count is one", func() {
				b := rowsByKey(rows)[key("b")]
				So(b, ShouldHaveLength, 1)
				So(b[0].Medals.Gold, ShouldEqual, 1)
				So(b[0].Presence, ShouldEqual, model.PresenceBoth)
			})

			Convey("And blank medal cells were zero-filled", func() {
				// a: 4 fields, b: silver, bronze, total
				So(rep.ZeroFilled, ShouldEqual, 7)
			})
		})
	})
}

func TestReconcile_JoinCompleteness(t *testing.T) {
	Convey("Given athletes and medals that only partially overlap", t, func() {
		r := reconcile.New(reconcile.WithoutDefaultOverrides())
		athletes := []model.Athlete{athlete("a", "judo"), athlete("b"), athlete("c")}
		medals := []model.RawMedal{medal("c", 0, 1, 0, 1), medal("z", 2, 0, 0, 2)}

		rows, rep := r.Reconcile(athletes, medals)
		byKey := rowsByKey(rows)

		Convey("Then every key from either source has a row", func() {
			for _, k := range []string{"a", "b", "c", "z"} {
				So(byKey[key(k)], ShouldNotBeEmpty)
			}
			So(rows, ShouldHaveLength, 4)
		})

		Convey("And rows keep athlete order followed by medal-only rows", func() {
			So(rows[0].Slug, ShouldEqual, "a")
			So(rows[1].Slug, ShouldEqual, "b")
			So(rows[2].Slug, ShouldEqual, "c")
			So(rows[3].Slug, ShouldEqual, "z")
		})

		Convey("And a medal-only row keeps its medals and empty sequences", func() {
			z := byKey[key("z")][0]
			So(z.Presence, ShouldEqual, model.PresenceMedalOnly)
			So(z.Medals.Gold, ShouldEqual, 2)
			So(z.Disciplines, ShouldNotBeNil)
			So(z.Disciplines, ShouldBeEmpty)
			So(z.OlympicGames, ShouldNotBeNil)
			So(rep.MedalOnly, ShouldEqual, 1)
		})

		Convey("And natural keys are preserved unmodified", func() {
			So(byKey[key("c")][0].NaturalKey, ShouldResemble, key("c"))
		})

		Convey("And output rows do not alias the input slices", func() {
			rows[0].Disciplines[0] = "changed"
			So(athletes[0].Disciplines[0], ShouldEqual, "judo")
		})
	})
}

func TestReconcile_DuplicateKeys(t *testing.T) {
	Convey("Given a key duplicated on both sides", t, func() {
		r := reconcile.New(reconcile.WithoutDefaultOverrides())
		athletes := []model.Athlete{athlete("d"), athlete("d"), athlete("e")}
		medals := []model.RawMedal{medal("d", 1, 0, 0, 1), medal("d", 0, 0, 1, 1)}

		Convey("When reconciling", func() {
			var rows []model.RosterRow
			var rep reconcile.Report
			So(func() { rows, rep = r.Reconcile(athletes, medals) }, ShouldNotPanic)

			Convey("Then the join fans out cartesian-style", func() {
				So(rowsByKey(rows)[key("d")], ShouldHaveLength, 4)
				So(rows, ShouldHaveLength, 5)
			})

			Convey("And the duplicated key is reported once", func() {
				So(rep.DuplicateKeys, ShouldResemble, []model.NaturalKey{key("d")})
			})
		})
	})
}

func TestReconcile_Overrides(t *testing.T) {
	overrides := []reconcile.Override{
		{Key: key("m"), Birthdate: "2005-04-08"},
		{Key: key("n"), Medals: &model.MedalCounts{Gold: 1, Total: 1}},
		{Key: key("ghost"), Birthdate: "1999-09-09"},
	}

	Convey("Given overrides addressed by natural key", t, func() {
		r := reconcile.New(reconcile.WithoutDefaultOverrides(), reconcile.WithOverrides(overrides...))
		m := athlete("m")
		m.Birthdate = ""
		athletes := []model.Athlete{athlete("k"), m, athlete("n"), athlete("o")}
		medals := []model.RawMedal{medal("o", 0, 0, 1, 1)}

		Convey("When reconciling", func() {
			rows, rep := r.Reconcile(athletes, medals)
			byKey := rowsByKey(rows)

			Convey("Then the birthdate and medal overrides are applied", func() {
				So(byKey[key("m")][0].Birthdate, ShouldEqual, "2005-04-08")
				So(byKey[key("n")][0].Medals, ShouldResemble, model.MedalCounts{Gold: 1, Total: 1})
				So(rep.OverridesApplied, ShouldEqual, 2)
			})

			Convey("And rows without overrides are untouched", func() {
				So(byKey[key("k")][0].Birthdate, ShouldEqual, "2000-01-01")
				So(byKey[key("o")][0].Medals.Bronze, ShouldEqual, 1)
			})

			Convey("And overrides naming absent keys are reported", func() {
				So(rep.UnmatchedOverrides, ShouldResemble, []model.NaturalKey{key("ghost")})
			})
		})

		Convey("When the inputs are shuffled and reconciled again", func() {
			first, _ := r.Reconcile(athletes, medals)
			want := rowsByKey(first)

			rng := rand.New(rand.NewSource(7)) //nolint:gosec // deterministic shuffle for the test
			for i := 0; i < 20; i++ {
				shuffled := append([]model.Athlete(nil), athletes...)
				rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
				got, _ := r.Reconcile(shuffled, medals)
				gotByKey := rowsByKey(got)

				So(gotByKey[key("m")][0].Birthdate, ShouldEqual, want[key("m")][0].Birthdate)
				So(gotByKey[key("n")][0].Medals, ShouldResemble, want[key("n")][0].Medals)
			}

			Convey("Then overridden fields are identical regardless of order", func() {
				So(want[key("m")][0].Birthdate, ShouldEqual, "2005-04-08")
			})
		})
	})

	Convey("Given the default override table", t, func() {
		defaults := reconcile.DefaultOverrides()

		Convey("Then it patches the missing medal of one athlete", func() {
			So(defaults, ShouldHaveLength, 1)
			So(defaults[0].Medals, ShouldNotBeNil)
			So(defaults[0].Medals.Total, ShouldEqual, 1)
		})

		Convey("And a medal override on a matched row wins over the spreadsheet", func() {
			brizard := model.Athlete{NaturalKey: defaults[0].Key, Disciplines: []string{"volleyball"}}
			blank := model.RawMedal{NaturalKey: defaults[0].Key}
			rows, rep := reconcile.New().Reconcile([]model.Athlete{brizard}, []model.RawMedal{blank})
			So(rows[0].Medals, ShouldResemble, model.MedalCounts{Gold: 1, Total: 1})
			So(rep.ZeroFilled, ShouldEqual, 0)
		})
	})
}

func TestReconcile_ZeroFillTotality(t *testing.T) {
	Convey("Given medal rows with arbitrary blank cells", t, func() {
		r := reconcile.New()
		medals := []model.RawMedal{
			{NaturalKey: key("p"), Gold: intp(2)},
			{NaturalKey: key("q"), Total: intp(3)},
			{NaturalKey: key("s")},
		}
		rows, _ := r.Reconcile([]model.Athlete{athlete("p"), athlete("t")}, medals)

		Convey("Then every row has numeric medal counts", func() {
			So(rows, ShouldHaveLength, 4)
			for _, row := range rows {
				So(row.Medals.Gold, ShouldBeGreaterThanOrEqualTo, 0)
				So(row.Medals.Silver, ShouldBeGreaterThanOrEqualTo, 0)
				So(row.Medals.Bronze, ShouldBeGreaterThanOrEqualTo, 0)
				So(row.Medals.Total, ShouldBeGreaterThanOrEqualTo, 0)
			}
			So(rowsByKey(rows)[key("q")][0].Medals, ShouldResemble, model.MedalCounts{Total: 3})
		})
	})
}
