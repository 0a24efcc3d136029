package client

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// metrics is nil when no registerer was supplied; every method is then a no-op.
type metrics struct {
	requestsTotal          *prometheus.CounterVec
	requestDurationSeconds *prometheus.HistogramVec
	governorWaitSeconds    prometheus.Histogram
}

// newMetrics registers the client collectors with reg. Clients sharing a
// registry share the collectors already registered there.
func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	requestsTotal, err := register(reg, prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "edgar_requests_total",
			Help: "Total number of EDGAR requests labeled by endpoint and outcome",
		},
		[]string{"endpoint", "outcome"},
	))
	if err != nil {
		return nil, err
	}

	requestDurationSeconds, err := register(reg, prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "edgar_request_duration_seconds",
			Help:    "Duration of EDGAR requests in seconds, including rate governor wait",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	))
	if err != nil {
		return nil, err
	}

	governorWaitSeconds, err := register(reg, prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "edgar_governor_wait_seconds",
			Help:    "Time spent waiting for a rate governor token",
			Buckets: []float64{.001, .01, .05, .1, .25, .5, 1, 2.5, 5},
		},
	))
	if err != nil {
		return nil, err
	}

	return &metrics{
		requestsTotal:          requestsTotal,
		requestDurationSeconds: requestDurationSeconds,
		governorWaitSeconds:    governorWaitSeconds,
	}, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	err := reg.Register(c)
	if err == nil {
		return c, nil
	}

	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(C); ok {
			return existing, nil
		}
	}

	var zero C
	return zero, fmt.Errorf("registering metrics: %w", err)
}

func (m *metrics) recordRequest(endpoint, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(endpoint, outcome).Inc()
	m.requestDurationSeconds.WithLabelValues(endpoint).Observe(d.Seconds())
}

func (m *metrics) recordWait(d time.Duration) {
	if m == nil {
		return
	}
	m.governorWaitSeconds.Observe(d.Seconds())
}
