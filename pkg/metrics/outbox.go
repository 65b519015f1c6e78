package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// OutboxMetrics records publisher throughput and failures.
type OutboxMetrics struct {
	published prometheus.Counter
	failed    prometheus.Counter
	batch     prometheus.Histogram
}

// NewOutboxMetrics registers the outbox metrics on the provided registerer.
func NewOutboxMetrics(reg prometheus.Registerer) *OutboxMetrics {
	if reg == nil {
		return &OutboxMetrics{}
	}
	published := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "outbox_events_published_total",
		Help: "Outbox events successfully handed to Pub/Sub.",
	})
	failed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "outbox_events_failed_total",
		Help: "Outbox publish attempts that errored.",
	})
	batch := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "outbox_batch_duration_seconds",
		Help:    "Duration of one outbox drain pass in seconds.",
		Buckets: prometheus.DefBuckets,
	})
	reg.MustRegister(published, failed, batch)
	return &OutboxMetrics{
		published: published,
		failed:    failed,
		batch:     batch,
	}
}

// IncPublished increments the published counter.
func (m *OutboxMetrics) IncPublished() {
	if m == nil || m.published == nil {
		return
	}
	m.published.Inc()
}

// IncFailed increments the failure counter.
func (m *OutboxMetrics) IncFailed() {
	if m == nil || m.failed == nil {
		return
	}
	m.failed.Inc()
}

// ObserveBatch records how long a drain pass took.
func (m *OutboxMetrics) ObserveBatch(duration time.Duration) {
	if m == nil || m.batch == nil {
		return
	}
	m.batch.Observe(duration.Seconds())
}
