package metrics

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsOptions(t *testing.T) {
	Convey("Given metrics options", t, func() {
		registry := prometheus.NewRegistry()
		manager := NewManager(
			WithNamespace("test_ns"),
			WithSubsystem("test_sub"),
			WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
			WithConstLabels(map[string]string{"env": "test"}),
			WithPrometheusRegistry(registry),
		)

		Convey("Then the manager should use them", func() {
			So(manager.namespace, ShouldEqual, "test_ns")
			So(manager.subsystem, ShouldEqual, "test_sub")
			So(manager.histogramBuckets, ShouldResemble, []float64{0.1, 0.5, 1.0})
			So(manager.Registry(), ShouldEqual, registry)
		})

		Convey("And empty values should keep the defaults", func() {
			m := NewManager(WithNamespace(""), WithSubsystem(""), WithHistogramBuckets(nil))
			So(m.namespace, ShouldEqual, "contestcorr")
			So(m.subsystem, ShouldEqual, "compare")
			So(m.Registry(), ShouldNotBeNil)
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given a metrics manager on a private registry", t, func() {
		manager := NewManager()

		Convey("When recording comparisons", func() {
			manager.RecordComparison(OutcomeOK)
			manager.RecordComparison(OutcomeOK)
			manager.RecordComparison(OutcomeNoOverlap)

			Convey("Then the counters should be split by outcome", func() {
				So(testutil.ToFloat64(manager.comparisons.WithLabelValues(OutcomeOK)), ShouldEqual, 2)
				So(testutil.ToFloat64(manager.comparisons.WithLabelValues(OutcomeNoOverlap)), ShouldEqual, 1)
			})
		})

		Convey("When recording gauges", func() {
			manager.SetOverlap(42)
			manager.SetCorrelation(MethodPearson, 0.75)
			manager.SetDatasetSize(1000, 12)
			manager.AddExcluded(3)
			manager.AddExcluded(0)
			manager.RecordFitFailure()
			manager.ObserveCompare(10 * time.Millisecond)
			manager.ObserveRender(20 * time.Millisecond)

			Convey("Then the values should be readable", func() {
				So(testutil.ToFloat64(manager.overlapSize), ShouldEqual, 42)
				So(testutil.ToFloat64(manager.correlation.WithLabelValues(MethodPearson)), ShouldEqual, 0.75)
				So(testutil.ToFloat64(manager.recordsLoaded), ShouldEqual, 1000)
				So(testutil.ToFloat64(manager.contestsLoaded), ShouldEqual, 12)
				So(testutil.ToFloat64(manager.excludedPairs), ShouldEqual, 3)
				So(testutil.ToFloat64(manager.fitFailures), ShouldEqual, 1)
			})
		})

		Convey("When recording an undefined correlation", func() {
			manager.SetCorrelation(MethodSpearman, math.NaN())

			Convey("Then NaN should be stored as is", func() {
				So(math.IsNaN(testutil.ToFloat64(manager.correlation.WithLabelValues(MethodSpearman))), ShouldBeTrue)
			})
		})
	})
}

func TestNilManager(t *testing.T) {
	Convey("Given a nil manager", t, func() {
		var manager *Manager

		Convey("Then every method should be a no-op", func() {
			So(func() {
				manager.RecordComparison(OutcomeError)
				manager.SetOverlap(1)
				manager.AddExcluded(1)
				manager.SetCorrelation(MethodPearson, 1)
				manager.ObserveCompare(time.Second)
				manager.ObserveRender(time.Second)
				manager.SetDatasetSize(1, 1)
				manager.RecordFitFailure()
			}, ShouldNotPanic)
			So(manager.Registry(), ShouldBeNil)
			So(manager.WriteTextfile("/tmp/ignored.prom"), ShouldBeNil)
		})
	})
}

func TestWriteTextfile(t *testing.T) {
	Convey("Given a manager with recorded values", t, func() {
		manager := NewManager()
		manager.RecordComparison(OutcomeOK)
		path := filepath.Join(t.TempDir(), "contestcorr.prom")

		Convey("When exporting to a textfile", func() {
			err := manager.WriteTextfile(path)

			Convey("Then the file should contain the metric families", func() {
				So(err, ShouldBeNil)
				data, readErr := os.ReadFile(path)
				So(readErr, ShouldBeNil)
				So(string(data), ShouldContainSubstring, `contestcorr_compare_comparisons_total{outcome="ok"} 1`)
			})
		})

		Convey("When the target directory does not exist", func() {
			err := manager.WriteTextfile(filepath.Join(t.TempDir(), "missing", "x.prom"))

			Convey("Then it should report an export failure", func() {
				So(err, ShouldNotBeNil)
				So(strings.Contains(err.Error(), ErrExportFailed.Error()), ShouldBeTrue)
			})
		})
	})
}
