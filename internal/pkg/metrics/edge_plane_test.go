package metrics

import (
	"net/http"
	"testing"
	"time"

	"github.com/eventangle/edge/config"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func enableMetrics(t *testing.T) {
	t.Helper()

	cfg := config.DefaultConfiguration
	cfg.Metrics = config.MetricsConfiguration{IsEnabled: true}
	config.Override(&cfg)
}

func TestMetrics_IncrementAuthDecision(t *testing.T) {
	enableMetrics(t)

	m := InitMetrics()

	m.IncrementAuthDecision(DecisionDenied, "INVALID_TOKEN", "bearer_token")

	assert.Equal(t, 1, testutil.CollectAndCount(m.AuthDecisionsTotal))
	assert.Equal(t, 0, testutil.CollectAndCount(m.UpstreamErrorsTotal))
	assert.Equal(t, 0, testutil.CollectAndCount(m.UpstreamLatency))

	assert.Equal(t, float64(1), testutil.ToFloat64(m.AuthDecisionsTotal.WithLabelValues(DecisionDenied, "INVALID_TOKEN", "bearer_token")))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.AuthDecisionsTotal.WithLabelValues(DecisionGranted, "ok", "bearer_token")))
}

func TestMetrics_IncrementUpstreamErrors(t *testing.T) {
	enableMetrics(t)

	m := InitMetrics()

	m.IncrementUpstreamErrors("timeout")
	m.IncrementUpstreamErrors("timeout")

	assert.Equal(t, 1, testutil.CollectAndCount(m.UpstreamErrorsTotal))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.UpstreamErrorsTotal.WithLabelValues("timeout")))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.UpstreamErrorsTotal.WithLabelValues("refused")))
}

func TestMetrics_ObserveUpstreamLatency(t *testing.T) {
	enableMetrics(t)

	m := InitMetrics()

	m.ObserveUpstreamLatency(http.StatusOK, 250*time.Millisecond)

	assert.Equal(t, 1, testutil.CollectAndCount(m.UpstreamLatency))
	assert.Equal(t, 0, testutil.CollectAndCount(m.AuthDecisionsTotal))
}

func TestMetrics_DisabledMetricsAreNoops(t *testing.T) {
	cfg := config.DefaultConfiguration
	cfg.Metrics = config.MetricsConfiguration{IsEnabled: false}
	config.Override(&cfg)

	m := InitMetrics()
	assert.False(t, m.IsEnabled)

	// must not panic on nil collectors
	m.IncrementAuthDecision(DecisionGranted, "ok", "query_param")
	m.IncrementUpstreamErrors("timeout")
	m.ObserveUpstreamLatency(http.StatusBadGateway, time.Second)
}
