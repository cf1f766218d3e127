package reqx

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Request outcomes used as the "outcome" label.
const (
	OutcomeSuccess   = "success"
	OutcomeAPIError  = "api_error"
	OutcomeTransport = "transport_error"
	OutcomeSupersede = "superseded"
)

// Metrics holds the prometheus collectors updated by a Client. A nil
// *Metrics records nothing.
type Metrics struct {
	requests   *prometheus.CounterVec
	superseded prometheus.Counter
	resets     prometheus.Counter
	duration   *prometheus.HistogramVec
}

// NewMetrics creates the client collectors and registers them on reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "reqx",
				Subsystem: "client",
				Name:      "requests_total",
				Help:      "Total number of backend requests by outcome.",
			},
			[]string{"method", "outcome"},
		),
		superseded: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "reqx",
				Subsystem: "client",
				Name:      "superseded_total",
				Help:      "Requests cancelled by a newer identical request.",
			},
		),
		resets: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "reqx",
				Subsystem: "client",
				Name:      "session_resets_total",
				Help:      "Responses carrying an illegal token code.",
			},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "reqx",
				Subsystem: "client",
				Name:      "request_duration_seconds",
				Help:      "Backend request latency.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method"},
		),
	}

	if reg != nil {
		reg.MustRegister(m.requests, m.superseded, m.resets, m.duration)
	}
	return m
}

// Requests returns the per outcome request counter.
func (m *Metrics) Requests() *prometheus.CounterVec { return m.requests }

// Superseded returns the superseded request counter.
func (m *Metrics) Superseded() prometheus.Counter { return m.superseded }

// SessionResets returns the illegal token counter.
func (m *Metrics) SessionResets() prometheus.Counter { return m.resets }

func (m *Metrics) observe(method, outcome string, start time.Time) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, outcome).Inc()
	if outcome == OutcomeSupersede {
		m.superseded.Inc()
		return
	}
	m.duration.WithLabelValues(method).Observe(time.Since(start).Seconds())
}

func (m *Metrics) sessionReset() {
	if m == nil {
		return
	}
	m.resets.Inc()
}
