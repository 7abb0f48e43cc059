package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

// counterValue sums the counter samples of the named family.
func counterValue(registry *prometheus.Registry, name string) float64 {
	families, err := registry.Gather()
	So(err, ShouldBeNil)
	total := 0.0
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		for _, m := range f.GetMetric() {
			total += m.GetCounter().GetValue()
		}
	}
	return total
}

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test_namespace"),
				WithSubsystem("test_subsystem"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithMetricsEnabled(true),
				WithCustomLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)
			manager.RecordQuery(OutcomeMatch)

			Convey("Then metric names should use the namespace and subsystem", func() {
				So(counterValue(registry, "test_namespace_test_subsystem_queries_total"), ShouldEqual, 1)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given a manager on its own registry", t, func() {
		registry := prometheus.NewRegistry()
		manager := NewManager(WithPrometheusRegistry(registry))

		Convey("When recording observations", func() {
			manager.RecordObservation("wraith", "solo")
			manager.RecordObservation("wraith", "solo")
			manager.RecordObservation("octane", "trio")
			manager.RecordAppendLatency(1.5)
			manager.RecordAppendError()

			Convey("Then the counters should reflect them", func() {
				So(counterValue(registry, "apexstats_recorder_observations_recorded_total"), ShouldEqual, 3)
				So(counterValue(registry, "apexstats_recorder_append_errors_total"), ShouldEqual, 1)
			})
		})

		Convey("When recording queries", func() {
			manager.RecordQuery(OutcomeMatch)
			manager.RecordQuery(OutcomeNoData)
			manager.RecordQueryLatency(3)
			manager.RecordRecordsScanned(10)
			manager.RecordRecordsMatched(4)
			manager.RecordStoreReadError()

			Convey("Then the counters should reflect them", func() {
				So(counterValue(registry, "apexstats_recorder_queries_total"), ShouldEqual, 2)
				So(counterValue(registry, "apexstats_recorder_records_scanned_total"), ShouldEqual, 10)
				So(counterValue(registry, "apexstats_recorder_records_matched_total"), ShouldEqual, 4)
				So(counterValue(registry, "apexstats_recorder_store_read_errors_total"), ShouldEqual, 1)
			})
		})

		Convey("When recording HTTP and error metrics", func() {
			manager.RecordHTTPRequest("stats", "GET", "200")
			manager.RecordHTTPRequestDuration("stats", "GET", "200", 2)
			manager.RecordError("http", "client_error")

			Convey("Then the counters should reflect them", func() {
				So(counterValue(registry, "apexstats_recorder_http_requests_total"), ShouldEqual, 1)
				So(counterValue(registry, "apexstats_recorder_errors_by_component_total"), ShouldEqual, 1)
			})
		})
	})

	Convey("Given a disabled manager", t, func() {
		registry := prometheus.NewRegistry()
		manager := NewManager(WithPrometheusRegistry(registry), WithMetricsEnabled(false))

		Convey("When recording", func() {
			manager.RecordObservation("wraith", "solo")
			manager.RecordQuery(OutcomeError)

			Convey("Then nothing should be counted", func() {
				So(counterValue(registry, "apexstats_recorder_observations_recorded_total"), ShouldEqual, 0)
				So(counterValue(registry, "apexstats_recorder_queries_total"), ShouldEqual, 0)
			})
		})
	})
}

func TestGlobalRecorders(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("Then the package-level recorders should not panic", func() {
			So(func() {
				RecordObservation("bangalore", "duo")
				RecordAppendError()
				RecordAppendLatency(1)
				RecordStoreReadError()
				RecordQuery(OutcomeMatch)
				RecordQueryLatency(1)
				RecordRecordsScanned(1)
				RecordRecordsMatched(1)
				RecordHTTPRequest("healthz", "GET", "200")
				RecordHTTPRequestDuration("healthz", "GET", "200", 1)
				RecordError("store", "io")
			}, ShouldNotPanic)
		})

		Convey("Then the registry should expose recorded families", func() {
			RecordQuery(OutcomeNoData)
			So(counterValue(GetRegistry(), "apexstats_recorder_queries_total"), ShouldBeGreaterThan, 0)
		})
	})
}

func TestInit(t *testing.T) {
	Convey("Given the global manager rebuilt with a custom namespace and labels", t, func() {
		Init(
			WithNamespace("arena"),
			WithSubsystem("log"),
			WithCustomLabels(map[string]string{"region": "eu"}),
			WithHistogramBuckets([]float64{1, 10, 100}),
		)
		defer Init()

		RecordQuery(OutcomeMatch)

		Convey("Then the fresh registry should expose the renamed families", func() {
			So(counterValue(GetRegistry(), "arena_log_queries_total"), ShouldEqual, 1)
			So(counterValue(GetRegistry(), "apexstats_recorder_queries_total"), ShouldEqual, 0)
		})
	})

	Convey("Given the global manager rebuilt with metrics disabled", t, func() {
		Init(WithMetricsEnabled(false))
		defer Init()

		RecordQuery(OutcomeMatch)

		Convey("Then nothing should be counted", func() {
			So(counterValue(GetRegistry(), "apexstats_recorder_queries_total"), ShouldEqual, 0)
		})
	})
}
