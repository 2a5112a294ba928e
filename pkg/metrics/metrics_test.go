package metrics

import (
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	. "github.com/smartystreets/goconvey/convey"
)

func gathered(g prometheus.Gatherer) map[string]*dto.MetricFamily {
	families, err := g.Gather()
	So(err, ShouldBeNil)
	out := make(map[string]*dto.MetricFamily, len(families))
	for _, f := range families {
		out[f.GetName()] = f
	}
	return out
}

func TestMetricsOptions(t *testing.T) {
	Convey("Given metrics options", t, func() {
		Convey("When creating a manager with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("pipeline"),
				WithMetricPrefix("x"),
				WithHTTPBuckets([]float64{1, 10}),
				WithEnabled(false),
				WithRefreshInterval(5*time.Second),
				WithConstLabels(map[string]string{"env": "test"}),
				WithRegisterer(registry),
			)

			Convey("Then the options are applied", func() {
				So(manager.Enabled(), ShouldBeFalse)
				So(manager.RefreshInterval(), ShouldEqual, 5*time.Second)
				So(manager.httpBuckets, ShouldResemble, []float64{1, 10})

				manager.snapshotsPublished.Inc()
				families := gathered(registry)
				f, ok := families["test_pipeline_x_snapshots_published_total"]
				So(ok, ShouldBeTrue)
				So(f.GetMetric()[0].GetLabel()[0].GetName(), ShouldEqual, "env")
			})
		})

		Convey("When passing empty values", func() {
			manager := NewManager(
				WithNamespace(""),
				WithSubsystem(""),
				WithHTTPBuckets(nil),
				WithRefreshInterval(0),
				WithRegisterer(prometheus.NewRegistry()),
			)

			Convey("Then the defaults are kept", func() {
				So(manager.namespace, ShouldEqual, "jo2024")
				So(manager.subsystem, ShouldEqual, "roster")
				So(manager.RefreshInterval(), ShouldEqual, defaultRefreshInterval)
				So(manager.httpBuckets, ShouldResemble, defaultHTTPBuckets)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When recording a pipeline run", func() {
			RecordPipelineRun("success", 42)
			RecordSourceLoad("athletes", 3)
			UpdateSourceRows("athletes", 2)
			UpdateRosterRows("both", 1)
			RecordOverrides(1, 2)
			RecordZeroFilled(7)
			RecordDuplicateKeys(1)
			RecordWaypointsDropped(3)
			RecordSnapshotPublished(time.Unix(1721000000, 0))

			Convey("Then the series are exported on the custom registry", func() {
				families := gathered(GetRegistry())
				for _, name := range []string{
					"jo2024_roster_pipeline_runs_total",
					"jo2024_roster_pipeline_duration_milliseconds",
					"jo2024_roster_source_load_milliseconds",
					"jo2024_roster_source_rows",
					"jo2024_roster_roster_rows",
					"jo2024_roster_overrides_applied_total",
					"jo2024_roster_overrides_unmatched_total",
					"jo2024_roster_zero_filled_fields_total",
					"jo2024_roster_duplicate_keys_total",
					"jo2024_roster_waypoints_dropped_total",
					"jo2024_roster_snapshots_published_total",
				} {
					_, ok := families[name]
					So(ok, ShouldBeTrue)
				}
				So(families["jo2024_roster_snapshot_last_unix"].GetMetric()[0].GetGauge().GetValue(), ShouldEqual, 1721000000)
			})
		})

		Convey("When recording HTTP and error metrics", func() {
			So(func() {
				RecordHTTPRequest("/athletes", "GET", "200")
				RecordHTTPRequestDuration("/athletes", "GET", "200", 1.5)
				RecordErrorByComponent("pipeline", "source_not_found")
				RecordErrorByEndpoint("/athletes/top", "GET", "bad_request")
			}, ShouldNotPanic)
		})

		Convey("When updating system metrics", func() {
			So(func() {
				UpdateSystemMemoryUsage(1 << 20)
				UpdateSystemGoroutineCount(12)
				RecordSystemGCPauseTime(0.3)
			}, ShouldNotPanic)
		})
	})
}

func TestMetricsConcurrency(t *testing.T) {
	Convey("Given concurrent recorders", t, func() {
		Convey("Then recording is safe", func() {
			So(func() {
				var wg sync.WaitGroup
				for i := 0; i < 20; i++ {
					wg.Add(1)
					go func(i int) {
						defer wg.Done()
						RecordHTTPRequest("/stats", "GET", "200")
						UpdateSourceRows("medals", i)
						RecordPipelineRun("failure", float64(i))
					}(i)
				}
				wg.Wait()
			}, ShouldNotPanic)
		})
	})
}

func TestGlobalRefreshInterval(t *testing.T) {
	Convey("The global manager refreshes runtime gauges on the default interval", t, func() {
		So(RefreshInterval(), ShouldEqual, defaultRefreshInterval)
	})
}
