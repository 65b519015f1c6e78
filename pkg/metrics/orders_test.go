package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderMetricsExportsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewOrderMetrics(reg)

	metrics.IncCreated("PIX")
	metrics.IncCreated("PIX")
	metrics.IncTransition("pending", "preparing")
	metrics.IncRejected("out_of_range")
	metrics.ObserveCheckout(120 * time.Millisecond)

	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.created.WithLabelValues("PIX")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.transitions.WithLabelValues("pending", "preparing")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.rejected.WithLabelValues("out_of_range")))

	count, err := testutil.GatherAndCount(reg, "checkout_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestOrderMetricsNilReceiverIsSafe(t *testing.T) {
	var metrics *OrderMetrics
	metrics.IncCreated("CASH")
	metrics.IncTransition("pending", "cancelled")
	metrics.ObserveCheckout(time.Second)

	empty := NewOrderMetrics(nil)
	empty.IncCreated("CASH")
	empty.IncRejected("store_closed")
}

func TestOutboxMetricsExportsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewOutboxMetrics(reg)

	metrics.IncPublished()
	metrics.IncPublished()
	metrics.IncFailed()
	metrics.ObserveBatch(50 * time.Millisecond)

	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.published))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.failed))
}
