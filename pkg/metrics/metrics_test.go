package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created and enabled", func() {
				So(manager, ShouldNotBeNil)
				So(manager.Enabled(), ShouldBeTrue)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test_namespace"),
				WithSubsystem("test_subsystem"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithMetricsEnabled(false),
				WithConstLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then the options should be applied", func() {
				So(manager.namespace, ShouldEqual, "test_namespace")
				So(manager.subsystem, ShouldEqual, "test_subsystem")
				So(manager.histogramBuckets, ShouldResemble, []float64{0.1, 0.5, 1.0})
				So(manager.Enabled(), ShouldBeFalse)
			})

			Convey("And the metrics should be registered on the custom registry", func() {
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				// Vec metrics only appear once a label set is observed.
				So(len(families), ShouldBeGreaterThan, 0)
			})
		})

		Convey("When empty values are passed to options", func() {
			manager := NewManager(
				WithNamespace(""),
				WithSubsystem(""),
				WithHistogramBuckets(nil),
				WithPrometheusRegistry(prometheus.NewRegistry()),
			)

			Convey("Then defaults should be kept", func() {
				So(manager.namespace, ShouldEqual, "playpulse")
				So(manager.subsystem, ShouldEqual, "analytics")
				So(len(manager.histogramBuckets), ShouldBeGreaterThan, 0)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When recording client metrics", func() {
			before := testutil.ToFloat64(globalManager.eventsRecorded.WithLabelValues("play"))
			RecordEventRecorded("play")
			RecordEventRecorded("play")

			Convey("Then the event counter should increase", func() {
				So(testutil.ToFloat64(globalManager.eventsRecorded.WithLabelValues("play")), ShouldEqual, before+2)
			})
		})

		Convey("When tracking in-flight pings", func() {
			base := testutil.ToFloat64(globalManager.pingsInFlight)
			IncPingsInFlight()
			IncPingsInFlight()
			DecPingsInFlight()

			Convey("Then the gauge should reflect the balance", func() {
				So(testutil.ToFloat64(globalManager.pingsInFlight), ShouldEqual, base+1)
				DecPingsInFlight()
			})
		})

		Convey("When recording the remaining metrics", func() {
			Convey("Then nothing should panic", func() {
				So(func() {
					RecordSeekIgnored()
					UpdateEventBufferSize(12)
					RecordPingTriggered("ready")
					RecordPingResult("vod", "ok")
					RecordPingLatency("live", 42)
					RecordSessionAssigned()
					IncSchedulersActive()
					RecordSchedulerTick()
					DecSchedulersActive()
					RecordHTTPRequest("vod", "POST", "200")
					RecordHTTPRequestDuration("vod", "POST", "200", 3)
					RecordErrorByEndpoint("live", "POST", "client_error")
					RecordCollectorPing("vod")
					UpdateCollectorSessions(3)
					UpdateSystemMemoryUsage(1024)
					UpdateSystemGoroutineCount(10)
				}, ShouldNotPanic)
			})
		})

		Convey("When gathering from the custom registry", func() {
			RecordPingResult("vod", "ok")
			families, err := GetRegistry().Gather()

			Convey("Then playpulse metrics should be present", func() {
				So(err, ShouldBeNil)
				names := make([]string, 0, len(families))
				for _, f := range families {
					names = append(names, f.GetName())
				}
				So(names, ShouldContain, "playpulse_analytics_ping_results_total")
			})
		})
	})
}

func TestInit(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		previous := GetRegistry()
		Reset(func() { Init() })

		Convey("When it is initialized with recording disabled", func() {
			Init(WithMetricsEnabled(false), WithNamespace("disabled"))
			RecordPingTriggered("ready")

			Convey("Then a fresh registry is used and nothing is recorded", func() {
				So(GetRegistry() != previous, ShouldBeTrue)
				So(globalManager.Enabled(), ShouldBeFalse)
				So(testutil.ToFloat64(globalManager.pingsTriggered.WithLabelValues("ready")), ShouldEqual, 0)
			})
		})

		Convey("When it is initialized with defaults", func() {
			Init()
			RecordPingTriggered("pause")

			Convey("Then recording is back on the default namespace", func() {
				So(globalManager.Enabled(), ShouldBeTrue)
				n, err := testutil.GatherAndCount(GetRegistry(), "playpulse_analytics_pings_triggered_total")
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 1)
			})
		})
	})
}
