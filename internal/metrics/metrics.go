// Package metrics owns the Prometheus collectors of the ledger service.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

const namespace = "maliyye"

// Metrics holds every collector, registered on a private registry so tests can
// build as many instances as they like.
type Metrics struct {
	Registry *prometheus.Registry

	operations      *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	cacheHits       *prometheus.CounterVec
	cacheMisses     *prometheus.CounterVec
	published       *prometheus.CounterVec
	exports         *prometheus.CounterVec
	reminders       prometheus.Counter
	revision        prometheus.Gauge
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		operations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ledger_operations_total",
				Help:      "Ledger operations by name and outcome.",
			},
			[]string{"operation", "outcome"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency by route and status.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
		cacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_hits_total",
				Help:      "Derived view cache hits.",
			},
			[]string{"view"},
		),
		cacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_misses_total",
				Help:      "Derived view cache misses.",
			},
			[]string{"view"},
		),
		published: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "change_events_published_total",
				Help:      "Snapshot change events handed to the broker.",
			},
			[]string{"outcome"},
		),
		exports: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "sheet_exports_total",
				Help:      "Spreadsheet exports by outcome.",
			},
			[]string{"outcome"},
		),
		reminders: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payment_reminders_total",
			Help:      "Payment reminders emitted.",
		}),
		revision: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "snapshot_revision",
			Help:      "Revision of the in-memory snapshot.",
		}),
	}
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// ObserveOperation counts one ledger operation.
func (m *Metrics) ObserveOperation(operation string, err error) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(operation, outcome(err)).Inc()
}

func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.requestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}

func (m *Metrics) CacheHit(view string) {
	if m == nil {
		return
	}
	m.cacheHits.WithLabelValues(view).Inc()
}

func (m *Metrics) CacheMiss(view string) {
	if m == nil {
		return
	}
	m.cacheMisses.WithLabelValues(view).Inc()
}

func (m *Metrics) ObservePublish(err error) {
	if m == nil {
		return
	}
	m.published.WithLabelValues(outcome(err)).Inc()
}

func (m *Metrics) ObserveExport(err error) {
	if m == nil {
		return
	}
	m.exports.WithLabelValues(outcome(err)).Inc()
}

func (m *Metrics) AddReminders(n int) {
	if m == nil {
		return
	}
	m.reminders.Add(float64(n))
}

func (m *Metrics) SetRevision(rev int64) {
	if m == nil {
		return
	}
	m.revision.Set(float64(rev))
}

// OperationCount reads the current value of the operation counter.
func (m *Metrics) OperationCount(operation, outcome string) float64 {
	return counterValue(m.operations.WithLabelValues(operation, outcome))
}

// CacheHits reads the current value of the hit counter for view.
func (m *Metrics) CacheHits(view string) float64 {
	return counterValue(m.cacheHits.WithLabelValues(view))
}

func counterValue(c prometheus.Counter) float64 {
	var out dto.Metric
	if err := c.Write(&out); err != nil {
		return 0
	}
	if out.Counter != nil && out.Counter.Value != nil {
		return *out.Counter.Value
	}
	return 0
}
