package sender

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/sacavia/sacavia-push-server/domain"
)

const (
	outcomeSent    = "sent"
	outcomeFailed  = "failed"
	outcomeInvalid = "invalid_token"
	outcomeSkipped = "not_configured"
)

type metrics struct {
	attempts *prometheus.CounterVec
	duration *prometheus.SummaryVec
}

func registerMetrics(reg *prometheus.Registry, s *sender) {
	s.metrics.attempts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "push",
		Subsystem: "sender",
		Name:      "attempts_total",
		Help:      "provider delivery attempts",
	}, []string{"provider", "outcome"})
	reg.MustRegister(s.metrics.attempts)
	s.metrics.duration = prometheus.NewSummaryVec(prometheus.SummaryOpts{
		Namespace: "push",
		Subsystem: "sender",
		Name:      "duration_seconds",
		Objectives: map[float64]float64{
			0.5:  0.5,
			0.85: 0.01,
			0.95: 0.0005,
			0.99: 0.0001,
		},
	}, []string{"provider"})
	reg.MustRegister(s.metrics.duration)
}

func (m metrics) observe(provider domain.Provider, outcome string, dur time.Duration) {
	if m.attempts == nil {
		return
	}
	m.attempts.WithLabelValues(string(provider), outcome).Inc()
	if outcome != outcomeSkipped {
		m.duration.WithLabelValues(string(provider)).Observe(dur.Seconds())
	}
}
