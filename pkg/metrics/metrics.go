package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Comparison outcomes used as the "outcome" label.
const (
	OutcomeOK        = "ok"
	OutcomeNoOverlap = "no_overlap"
	OutcomeInvalid   = "invalid_argument"
	OutcomeError     = "error"
)

// Correlation method label values.
const (
	MethodPearson  = "pearson"
	MethodSpearman = "spearman"
)

// Manager owns the metrics of a single process run. A nil *Manager is valid
// and records nothing.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         *prometheus.Registry

	comparisons    *prometheus.CounterVec
	overlapSize    prometheus.Gauge
	excludedPairs  prometheus.Counter
	correlation    *prometheus.GaugeVec
	compareLatency prometheus.Histogram
	renderLatency  prometheus.Histogram
	recordsLoaded  prometheus.Gauge
	contestsLoaded prometheus.Gauge
	fitFailures    prometheus.Counter
}

// NewManager creates a metrics manager on its own registry unless one is
// supplied.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "contestcorr",
		subsystem:        "compare",
		histogramBuckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5},
		constLabels:      map[string]string{},
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.comparisons = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "comparisons_total",
		Help:        "Comparisons attempted, by outcome",
		ConstLabels: m.constLabels,
	}, []string{"outcome"})

	m.overlapSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "overlap_participants",
		Help:        "Competitors present in both competitions of the last comparison",
		ConstLabels: m.constLabels,
	})

	m.excludedPairs = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "excluded_pairs_total",
		Help:        "Score pairs dropped because a score was missing",
		ConstLabels: m.constLabels,
	})

	m.correlation = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "correlation",
		Help:        "Correlation coefficient of the last comparison, by method",
		ConstLabels: m.constLabels,
	}, []string{"method"})

	m.compareLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "duration_seconds",
		Help:        "Time spent computing a comparison",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	})

	m.renderLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "render_duration_seconds",
		Help:        "Time spent rendering a scatter plot",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	})

	m.recordsLoaded = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   "dataset",
		Name:        "records",
		Help:        "Competitor records loaded into the result store",
		ConstLabels: m.constLabels,
	})

	m.contestsLoaded = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   "dataset",
		Name:        "competitions",
		Help:        "Competitions in the loaded catalog",
		ConstLabels: m.constLabels,
	})

	m.fitFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "fit_failures_total",
		Help:        "Polynomial fits that could not be computed",
		ConstLabels: m.constLabels,
	})
}

// RecordComparison counts a comparison with the given outcome.
func (m *Manager) RecordComparison(outcome string) {
	if m == nil {
		return
	}
	m.comparisons.WithLabelValues(outcome).Inc()
}

// SetOverlap records the overlap size of the last comparison.
func (m *Manager) SetOverlap(n int) {
	if m == nil {
		return
	}
	m.overlapSize.Set(float64(n))
}

// AddExcluded counts dropped score pairs.
func (m *Manager) AddExcluded(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.excludedPairs.Add(float64(n))
}

// SetCorrelation records a correlation value. Undefined values are recorded
// as NaN, which Prometheus exposes verbatim.
func (m *Manager) SetCorrelation(method string, value float64) {
	if m == nil {
		return
	}
	m.correlation.WithLabelValues(method).Set(value)
}

// ObserveCompare records how long a comparison took.
func (m *Manager) ObserveCompare(d time.Duration) {
	if m == nil {
		return
	}
	m.compareLatency.Observe(d.Seconds())
}

// ObserveRender records how long rendering took.
func (m *Manager) ObserveRender(d time.Duration) {
	if m == nil {
		return
	}
	m.renderLatency.Observe(d.Seconds())
}

// SetDatasetSize records the size of the loaded dataset.
func (m *Manager) SetDatasetSize(records, competitions int) {
	if m == nil {
		return
	}
	m.recordsLoaded.Set(float64(records))
	m.contestsLoaded.Set(float64(competitions))
}

// RecordFitFailure counts an infeasible polynomial fit.
func (m *Manager) RecordFitFailure() {
	if m == nil {
		return
	}
	m.fitFailures.Inc()
}

// Registry returns the registry backing this manager.
func (m *Manager) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// WriteTextfile writes every gathered metric to path in the text exposition
// format used by the node exporter textfile collector.
func (m *Manager) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("%w: %w", ErrExportFailed, err)
	}
	return nil
}
