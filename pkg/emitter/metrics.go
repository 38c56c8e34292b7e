package emitter

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Batch outcome labels
const (
	BatchOutcomeSuccess        = "success"
	BatchOutcomeHTTPError      = "http_error"
	BatchOutcomeTransportError = "transport_error"
)

// Drop reason labels
const (
	DropReasonOversize = "oversize"
	DropReasonBadURL   = "bad_url"
	DropReasonEncoding = "encoding"
)

// Metrics records emitter activity. A nil *Metrics is valid and records
// nothing, so metrics stay optional for library consumers.
type Metrics struct {
	submittedTotal prometheus.Counter
	droppedTotal   *prometheus.CounterVec
	requeuedTotal  prometheus.Counter
	batchesTotal   *prometheus.CounterVec
	batchEvents    prometheus.Histogram
	sendDuration   prometheus.Histogram
	logger         *zap.Logger
}

func NewMetrics(namespace string, logger *zap.Logger) *Metrics {
	return NewMetricsWithRegistry(namespace, prometheus.DefaultRegisterer, logger)
}

func NewMetricsWithRegistry(namespace string, registerer prometheus.Registerer, logger *zap.Logger) *Metrics {
	m := &Metrics{
		logger: logger,
	}

	m.submittedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "emitter",
			Name:      "events_submitted_total",
			Help:      "Total events accepted by Emit",
		},
	)

	m.droppedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "emitter",
			Name:      "events_dropped_total",
			Help:      "Total events dropped without delivery, by reason",
		},
		[]string{"reason"},
	)

	m.requeuedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "emitter",
			Name:      "events_requeued_total",
			Help:      "Total events re-queued after a failed batch delivery",
		},
	)

	m.batchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "emitter",
			Name:      "batches_total",
			Help:      "Total batch delivery attempts by outcome",
		},
		[]string{"outcome"},
	)

	m.batchEvents = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "emitter",
			Name:      "batch_events",
			Help:      "Events per delivered batch",
			Buckets:   []float64{1, 5, 10, 50, 100, 500, 1000, 5000},
		},
	)

	m.sendDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "emitter",
			Name:      "batch_send_duration_seconds",
			Help:      "Duration of batch POST requests",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
		},
	)

	registerer.MustRegister(
		m.submittedTotal,
		m.droppedTotal,
		m.requeuedTotal,
		m.batchesTotal,
		m.batchEvents,
		m.sendDuration,
	)

	return m
}

func (m *Metrics) RecordSubmitted() {
	if m == nil {
		return
	}
	m.submittedTotal.Inc()
}

func (m *Metrics) RecordDropped(reason string, count int) {
	if m == nil {
		return
	}
	m.droppedTotal.WithLabelValues(reason).Add(float64(count))
}

func (m *Metrics) RecordRequeued(count int) {
	if m == nil {
		return
	}
	m.requeuedTotal.Add(float64(count))
}

func (m *Metrics) RecordBatch(outcome string, events int, seconds float64) {
	if m == nil {
		return
	}
	m.batchesTotal.WithLabelValues(outcome).Inc()
	m.batchEvents.Observe(float64(events))
	m.sendDuration.Observe(seconds)
}
