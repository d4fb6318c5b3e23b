package pubcontent

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors for collection checks.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry      *prometheus.Registry
	entries       *prometheus.CounterVec
	fieldErrors   *prometheus.CounterVec
	checkDuration prometheus.Histogram
}

// NewMetrics creates collectors on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		entries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pubcontent",
			Name:      "entries_checked_total",
			Help:      "Content entries validated, by result.",
		}, []string{"result"}),
		fieldErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pubcontent",
			Name:      "field_errors_total",
			Help:      "Front matter field violations, by field and code.",
		}, []string{"field", "code"}),
		checkDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "pubcontent",
			Name:      "check_duration_seconds",
			Help:      "Time taken to check a whole collection.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	m.registry.MustRegister(m.entries, m.fieldErrors, m.checkDuration)
	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) observeValid() {
	if m == nil {
		return
	}
	m.entries.WithLabelValues("valid").Inc()
}

func (m *Metrics) observeFailure(errs ValidationErrors) {
	if m == nil {
		return
	}
	m.entries.WithLabelValues("invalid").Inc()
	for _, e := range errs {
		m.fieldErrors.WithLabelValues(e.Field, string(e.Code)).Inc()
	}
}

func (m *Metrics) observeDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.checkDuration.Observe(d.Seconds())
}
