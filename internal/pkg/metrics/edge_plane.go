package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/eventangle/edge/config"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	m    *Metrics
	once sync.Once
)

const (
	decisionLabel   = "decision"
	reasonLabel     = "reason"
	methodLabel     = "method"
	statusCodeLabel = "status_code"
)

const (
	DecisionGranted = "granted"
	DecisionDenied  = "denied"
)

// Metrics for the edge plane
type Metrics struct {
	IsEnabled           bool
	AuthDecisionsTotal  *prometheus.CounterVec
	UpstreamErrorsTotal *prometheus.CounterVec
	UpstreamLatency     *prometheus.HistogramVec
}

func GetInstance() *Metrics {
	once.Do(func() {
		m = newMetrics(Reg())
	})
	return m
}

func newMetrics(pr prometheus.Registerer) *Metrics {
	m := InitMetrics()

	if m.IsEnabled {
		pr.MustRegister(
			m.AuthDecisionsTotal,
			m.UpstreamErrorsTotal,
			m.UpstreamLatency,
		)
	}
	return m
}

func InitMetrics() *Metrics {
	cfg, err := config.Get()
	if err != nil {
		return &Metrics{
			IsEnabled: false,
		}
	}
	if !cfg.Metrics.IsEnabled {
		return &Metrics{
			IsEnabled: false,
		}
	}

	m := &Metrics{
		IsEnabled: true,

		AuthDecisionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "edge_admin_auth_decisions_total",
				Help: "Total number of admin gate decisions",
			},
			[]string{decisionLabel, reasonLabel, methodLabel},
		),
		UpstreamErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "edge_upstream_errors_total",
				Help: "Total number of failed upstream forwards",
			},
			[]string{reasonLabel},
		),
		UpstreamLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "edge_upstream_latency_seconds",
				Help:    "Total time (in seconds) the upstream takes to answer a forwarded request.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{statusCodeLabel},
		),
	}
	return m
}

func (m *Metrics) IncrementAuthDecision(decision, reason, method string) {
	if !m.IsEnabled {
		return
	}
	m.AuthDecisionsTotal.With(prometheus.Labels{decisionLabel: decision, reasonLabel: reason, methodLabel: method}).Inc()
}

func (m *Metrics) IncrementUpstreamErrors(reason string) {
	if !m.IsEnabled {
		return
	}
	m.UpstreamErrorsTotal.With(prometheus.Labels{reasonLabel: reason}).Inc()
}

func (m *Metrics) ObserveUpstreamLatency(statusCode int, elapsed time.Duration) {
	if !m.IsEnabled {
		return
	}
	m.UpstreamLatency.With(prometheus.Labels{statusCodeLabel: strconv.Itoa(statusCode)}).Observe(elapsed.Seconds())
}
