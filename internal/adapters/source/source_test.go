package source_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/albanecoiffe/JO2024-visualization/internal/adapters/source"
	"github.com/albanecoiffe/JO2024-visualization/internal/domain/normalize"
	"github.com/albanecoiffe/JO2024-visualization/internal/domain/reconcile"
	. "github.com/smartystreets/goconvey/convey"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func writeWorkbook(t *testing.T, name string, rows ...[]any) string {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	path := filepath.Join(t.TempDir(), name)
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	return path
}

func sourceError(err error) *source.SourceError {
	var se *source.SourceError
	if errors.As(err, &se) {
		return se
	}
	return nil
}

const athleteDoc = `{
  "athletes": {
    "hits": [
      {
        "slug": "a", "firstname": "Ann", "lastname": "A",
        "birthdate": "2000-01-13", "gender": "F", "type": "olympic",
        "olympicGames": [{"year": 2020}, {"year": "2024"}],
        "disciplines": [{"slug": "judo"}],
        "_geoloc": {"lat": 48.8, "lng": 2.3},
        "isMedalist": true
      },
      {
        "slug": "b", "firstname": "Bob", "lastname": "B",
        "birthdate": "1998-05-02", "type": "paralympic",
        "olympicGames": null, "disciplines": "oops"
      }
    ]
  }
}`

func TestLoadAthleteDocuments(t *testing.T) {
	ctx := context.Background()

	Convey("Given a well-formed athlete export", t, func() {
		path := writeFile(t, "athletes.json", athleteDoc)

		Convey("When it is loaded and normalized", func() {
			raws, err := source.LoadAthleteDocuments(ctx, path)
			So(err, ShouldBeNil)
			athletes := normalize.NormalizeAll(raws)

			Convey("Then hits keep document order and nested fields decode", func() {
				So(raws, ShouldHaveLength, 2)
				So(raws[0].Slug, ShouldEqual, "a")
				lat, _, ok := normalize.GeoPoint(raws[0].Geoloc)
				So(ok, ShouldBeTrue)
				So(lat, ShouldEqual, 48.8)
				So(athletes[0].OlympicGames, ShouldResemble, []int{2020, 2024})
				So(athletes[0].Disciplines, ShouldResemble, []string{"judo"})
				So(athletes[1].OlympicGames, ShouldBeEmpty)
				So(athletes[1].Disciplines, ShouldBeEmpty)
			})
		})
	})

	Convey("Given hits with a list _geoloc and a string isMedalist", t, func() {
		path := writeFile(t, "athletes.json", `{"athletes": {"hits": [
			{"slug": "a", "firstname": "Ann", "lastname": "A", "_geoloc": [{"lat": 1, "lng": 2}], "isMedalist": "true"},
			{"slug": "b", "firstname": "Bob", "lastname": "B", "_geoloc": "nowhere", "isMedalist": 0}
		]}}`)

		Convey("When it is loaded", func() {
			raws, err := source.LoadAthleteDocuments(ctx, path)

			Convey("Then the load succeeds and only the usable point is mapped", func() {
				So(err, ShouldBeNil)
				So(raws, ShouldHaveLength, 2)
				locs := normalize.Locations(raws)
				So(locs, ShouldHaveLength, 1)
				So(locs[0].Slug, ShouldEqual, "a")
				So(locs[0].Lng, ShouldEqual, 2.0)
			})
		})
	})

	Convey("Given a missing file", t, func() {
		path := filepath.Join(t.TempDir(), "nope.json")
		_, err := source.LoadAthleteDocuments(ctx, path)

		Convey("Then ErrSourceNotFound names the path", func() {
			So(errors.Is(err, source.ErrSourceNotFound), ShouldBeTrue)
			So(sourceError(err).Path, ShouldEqual, path)
		})
	})

	Convey("Given malformed documents", t, func() {
		cases := map[string]string{
			`{"athletes": {}}`:                  "athletes.hits",
			`{"other": 1}`:                      "athletes.hits",
			`{"athletes": {"hits": 3}}`:         "athletes.hits",
			`{"athletes": {"hits": null}}`:      "athletes.hits",
			`{"athletes": {"hits": [1]}}`:       "athletes.hits[0]",
			`{"athletes": {"hits": [{}, "x"]}}`: "athletes.hits[1]",
		}

		Convey("Then each fails with ErrSourceFormat and the field", func() {
			for doc, field := range cases {
				_, err := source.LoadAthleteDocuments(ctx, writeFile(t, "bad.json", doc))
				So(errors.Is(err, source.ErrSourceFormat), ShouldBeTrue)
				So(sourceError(err).Field, ShouldEqual, field)
			}
		})
	})

	Convey("Given an empty hit list", t, func() {
		raws, err := source.LoadAthleteDocuments(ctx, writeFile(t, "empty.json", `{"athletes": {"hits": []}}`))

		Convey("Then no athletes are returned", func() {
			So(err, ShouldBeNil)
			So(raws, ShouldBeEmpty)
		})
	})
}

func TestLoadMedalTable(t *testing.T) {
	ctx := context.Background()
	header := []any{"slug", "firstname", "lastname", "or2024", "argent2024", " Bronze 2024 ", "total2024"}

	Convey("Given a medal workbook with a blank cell", t, func() {
		path := writeWorkbook(t, "medals.xlsx",
			header,
			[]any{"b", "Bob", "B", 1, "", 0, 1},
			[]any{"c", "Cid", "C", 0, 2, 1, 3},
		)

		Convey("When it is loaded", func() {
			medals, err := source.LoadMedalTable(ctx, path)

			Convey("Then counts parse and blanks stay nil", func() {
				So(err, ShouldBeNil)
				So(medals, ShouldHaveLength, 2)
				So(medals[0].Slug, ShouldEqual, "b")
				So(*medals[0].Gold, ShouldEqual, 1)
				So(medals[0].Silver, ShouldBeNil)
				So(*medals[0].Bronze, ShouldEqual, 0)
				So(*medals[1].Total, ShouldEqual, 3)
			})
		})
	})

	Convey("Given a workbook missing a medal column", t, func() {
		path := writeWorkbook(t, "medals.xlsx",
			[]any{"slug", "firstname", "lastname", "or2024", "argent2024", "total2024"},
			[]any{"b", "Bob", "B", 1, 0, 1},
		)
		_, err := source.LoadMedalTable(ctx, path)

		Convey("Then ErrSourceFormat names the column and the path", func() {
			So(errors.Is(err, source.ErrSourceFormat), ShouldBeTrue)
			So(sourceError(err).Field, ShouldEqual, "bronze 2024")
			So(sourceError(err).Path, ShouldEqual, path)
		})
	})

	Convey("Given a CSV with a non-numeric medal cell", t, func() {
		path := writeFile(t, "medals.csv",
			"slug,firstname,lastname,or2024,argent2024,bronze 2024,total2024\n"+
				"b,Bob,B,one,0,0,1\n")
		_, err := source.LoadMedalTable(ctx, path)

		Convey("Then ErrSourceFormat points at the cell", func() {
			So(errors.Is(err, source.ErrSourceFormat), ShouldBeTrue)
			So(sourceError(err).Field, ShouldEqual, "row 2: or2024")
		})
	})

	Convey("Given a CSV with float-encoded counts", t, func() {
		path := writeFile(t, "medals.csv",
			"slug,firstname,lastname,or2024,argent2024,bronze 2024,total2024\n"+
				"b,Bob,B,1.0,0.0,,1.0\n")
		medals, err := source.LoadMedalTable(ctx, path)

		Convey("Then integral floats are accepted", func() {
			So(err, ShouldBeNil)
			So(*medals[0].Gold, ShouldEqual, 1)
			So(medals[0].Bronze, ShouldBeNil)
		})
	})

	Convey("Given an unsupported extension", t, func() {
		_, err := source.LoadMedalTable(ctx, writeFile(t, "medals.txt", "x"))

		Convey("Then ErrSourceFormat is returned", func() {
			So(errors.Is(err, source.ErrSourceFormat), ShouldBeTrue)
		})
	})
}

func TestPaddedKeysJoin(t *testing.T) {
	ctx := context.Background()

	Convey("Given keys padded with whitespace in both sources", t, func() {
		athletes := writeFile(t, "athletes.json", `{"athletes": {"hits": [
			{"slug": "x", "firstname": "Xa", "lastname": "DOE ", "birthdate": "1990-02-01", "type": "olympic"}
		]}}`)
		medals := writeFile(t, "medals.csv",
			"slug,firstname,lastname,or2024,argent2024,bronze 2024,total2024\n"+
				"x,Xa,DOE ,1,0,0,1\n")

		Convey("When both are loaded and reconciled", func() {
			raws, err := source.LoadAthleteDocuments(ctx, athletes)
			So(err, ShouldBeNil)
			rows, err := source.LoadMedalTable(ctx, medals)
			So(err, ShouldBeNil)

			roster, rep := reconcile.New(reconcile.WithoutDefaultOverrides()).
				Reconcile(normalize.NormalizeAll(raws), rows)

			Convey("Then the medal key is kept verbatim and the rows match", func() {
				So(rows[0].Lastname, ShouldEqual, "DOE ")
				So(roster, ShouldHaveLength, 1)
				So(rep.Matched, ShouldEqual, 1)
				So(rep.AthleteOnly, ShouldEqual, 0)
				So(rep.MedalOnly, ShouldEqual, 0)
			})
		})
	})
}

func TestLoadWaypoints(t *testing.T) {
	ctx := context.Background()

	Convey("Given a torch workbook using lat/lon aliases", t, func() {
		path := writeWorkbook(t, "torch.xlsx",
			[]any{"LAT", "lon", "start_datetime"},
			[]any{48.85, 2.35, "2024-07-10 18:30:00"},
			[]any{"", 2.0, "2024-07-11 10:00:00"},
			[]any{43.3, 5.4, 45474},
			[]any{45.7, 4.8, ""},
		)

		Convey("When it is read", func() {
			res, err := source.ReadWaypoints(ctx, path)

			Convey("Then rows with blank coordinates are dropped", func() {
				So(err, ShouldBeNil)
				So(res.Waypoints, ShouldHaveLength, 3)
				So(res.Dropped, ShouldEqual, 1)
				So(res.Untimed, ShouldEqual, 1)
			})

			Convey("Then timestamps and dates are derived", func() {
				So(res.Waypoints[0].Latitude, ShouldEqual, 48.85)
				So(res.Waypoints[0].Date, ShouldEqual, time.Date(2024, 7, 10, 0, 0, 0, 0, time.UTC))
				So(res.Waypoints[1].Date, ShouldEqual, time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC))
				So(res.Waypoints[2].HasTimestamp(), ShouldBeFalse)
			})
		})
	})

	Convey("Given a CSV without a timestamp column", t, func() {
		path := writeFile(t, "torch.csv", "latitude,longitude\n48.1,2.2\nx,2.2\n")
		points, err := source.LoadWaypoints(ctx, path)

		Convey("Then coordinates load untimed", func() {
			So(err, ShouldBeNil)
			So(points, ShouldHaveLength, 1)
			So(points[0].HasTimestamp(), ShouldBeFalse)
		})
	})

	Convey("Given a file missing the longitude column", t, func() {
		_, err := source.LoadWaypoints(ctx, writeFile(t, "torch.csv", "latitude,start_datetime\n1,2024-07-01\n"))

		Convey("Then ErrSourceFormat names the column", func() {
			So(errors.Is(err, source.ErrSourceFormat), ShouldBeTrue)
			So(sourceError(err).Field, ShouldEqual, "longitude")
		})
	})

	Convey("Given a missing torch file", t, func() {
		_, err := source.LoadWaypoints(ctx, filepath.Join(t.TempDir(), "torch.xlsx"))

		Convey("Then ErrSourceNotFound is returned", func() {
			So(errors.Is(err, source.ErrSourceNotFound), ShouldBeTrue)
		})
	})
}

func TestParseTimestamp(t *testing.T) {
	Convey("Given the accepted timestamp forms", t, func() {
		Convey("Then each parses", func() {
			for _, s := range []string{"2024-07-10T18:30:00Z", "2024-07-10 18:30:00", "2024-07-10T18:30:00", "2024-07-10", "45483.75"} {
				ts, ok := source.ParseTimestamp(s)
				So(ok, ShouldBeTrue)
				So(ts.Format(time.DateOnly), ShouldEqual, "2024-07-10")
			}
		})

		Convey("Then garbage does not", func() {
			for _, s := range []string{"", "soon", "-3"} {
				_, ok := source.ParseTimestamp(s)
				So(ok, ShouldBeFalse)
			}
		})
	})
}

func TestContextCancelled(t *testing.T) {
	Convey("Given a cancelled context", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		Convey("Then loaders return the context error", func() {
			_, err := source.LoadAthleteDocuments(ctx, writeFile(t, "a.json", athleteDoc))
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
			_, err = source.LoadMedalTable(ctx, writeFile(t, "m.csv", "slug\n"))
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
		})
	})
}
