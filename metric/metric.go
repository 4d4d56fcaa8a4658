package metric

import (
	"context"
	"time"

	"github.com/anyproto/any-sync/app"
	"github.com/anyproto/any-sync/app/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

const CName = "push.metric"

var log = logger.NewNamed("push.requests")

func New() Metric {
	return new(metric)
}

type Metric interface {
	Registry() *prometheus.Registry
	RequestLog(ctx context.Context, op string, fields ...zap.Field)
	app.Component
}

type metric struct {
	registry *prometheus.Registry
	requests *prometheus.SummaryVec
}

func (m *metric) Init(a *app.App) (err error) {
	m.registry = prometheus.NewRegistry()
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m.requests = prometheus.NewSummaryVec(prometheus.SummaryOpts{
		Namespace: "push",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Objectives: map[float64]float64{
			0.5:  0.05,
			0.95: 0.005,
			0.99: 0.001,
		},
	}, []string{"op"})
	m.registry.MustRegister(m.requests)
	return
}

func (m *metric) Name() (name string) {
	return CName
}

func (m *metric) Registry() *prometheus.Registry {
	return m.registry
}

// RequestLog writes one line per handled request and observes its duration
// when a TotalDur field is present.
func (m *metric) RequestLog(ctx context.Context, op string, fields ...zap.Field) {
	for _, f := range fields {
		if f.Key == totalDurKey {
			m.requests.WithLabelValues(op).Observe(time.Duration(f.Integer).Seconds())
		}
	}
	log.Info(op, fields...)
}

const totalDurKey = "totalDur"

func TotalDur(d time.Duration) zap.Field {
	return zap.Duration(totalDurKey, d)
}
