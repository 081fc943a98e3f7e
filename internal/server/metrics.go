package server

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the service's Prometheus collectors.
type Metrics struct {
	started   *prometheus.CounterVec
	answers   *prometheus.CounterVec
	completed *prometheus.CounterVec
	requests  *prometheus.HistogramVec
}

// NewMetrics registers the collectors on reg. Collectors already present on
// reg are reused.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		started: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "privcheck",
			Name:      "assessments_started_total",
			Help:      "Assessments started, by kind.",
		}, []string{"kind"}),
		answers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "privcheck",
			Name:      "answers_submitted_total",
			Help:      "Answers accepted, by kind.",
		}, []string{"kind"}),
		completed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "privcheck",
			Name:      "assessments_completed_total",
			Help:      "Assessments completed, by kind and rating.",
		}, []string{"kind", "rating"}),
		requests: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "privcheck",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	var err error
	if m.started, err = registerCounter(reg, m.started); err != nil {
		return nil, err
	}
	if m.answers, err = registerCounter(reg, m.answers); err != nil {
		return nil, err
	}
	if m.completed, err = registerCounter(reg, m.completed); err != nil {
		return nil, err
	}
	if err := reg.Register(m.requests); err != nil {
		var already prometheus.AlreadyRegisteredError
		if !errors.As(err, &already) {
			return nil, err
		}
		m.requests = already.ExistingCollector.(*prometheus.HistogramVec)
	}
	return m, nil
}

func registerCounter(reg prometheus.Registerer, c *prometheus.CounterVec) (*prometheus.CounterVec, error) {
	if err := reg.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			return already.ExistingCollector.(*prometheus.CounterVec), nil
		}
		return nil, err
	}
	return c, nil
}
