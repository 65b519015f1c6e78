package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// OrderMetrics records order volume and lifecycle transitions.
type OrderMetrics struct {
	created     *prometheus.CounterVec
	transitions *prometheus.CounterVec
	rejected    *prometheus.CounterVec
	checkout    prometheus.Histogram
}

// NewOrderMetrics registers the order metrics on the provided registerer.
func NewOrderMetrics(reg prometheus.Registerer) *OrderMetrics {
	if reg == nil {
		return &OrderMetrics{}
	}
	created := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Orders accepted at checkout, labelled by payment method.",
	}, []string{"payment_method"})
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_transitions_total",
		Help: "Order status transitions applied.",
	}, []string{"from", "to"})
	rejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_rejections_total",
		Help: "Checkout attempts refused before an order was created.",
	}, []string{"reason"})
	checkout := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "checkout_duration_seconds",
		Help:    "Duration of the checkout operation in seconds.",
		Buckets: prometheus.DefBuckets,
	})
	reg.MustRegister(created, transitions, rejected, checkout)
	return &OrderMetrics{
		created:     created,
		transitions: transitions,
		rejected:    rejected,
		checkout:    checkout,
	}
}

// IncCreated increments the created counter for the payment method.
func (m *OrderMetrics) IncCreated(paymentMethod string) {
	if m == nil || m.created == nil {
		return
	}
	m.created.WithLabelValues(normalizeLabel(paymentMethod)).Inc()
}

// IncTransition increments the transition counter for the from/to pair.
func (m *OrderMetrics) IncTransition(from, to string) {
	if m == nil || m.transitions == nil {
		return
	}
	m.transitions.WithLabelValues(normalizeLabel(from), normalizeLabel(to)).Inc()
}

// IncRejected increments the rejection counter for the named reason.
func (m *OrderMetrics) IncRejected(reason string) {
	if m == nil || m.rejected == nil {
		return
	}
	m.rejected.WithLabelValues(normalizeLabel(reason)).Inc()
}

// ObserveCheckout records how long a checkout attempt took.
func (m *OrderMetrics) ObserveCheckout(duration time.Duration) {
	if m == nil || m.checkout == nil {
		return
	}
	m.checkout.Observe(duration.Seconds())
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
