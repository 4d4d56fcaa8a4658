// Package location answers "what is near me" queries over published locations.
package location

import (
	"context"

	"github.com/anyproto/any-sync/app"
	"github.com/anyproto/any-sync/app/logger"
	"go.uber.org/zap"

	"github.com/sacavia/sacavia-push-server/domain"
	"github.com/sacavia/sacavia-push-server/geo"
	"github.com/sacavia/sacavia-push-server/httpserver"
	"github.com/sacavia/sacavia-push-server/metric"
	"github.com/sacavia/sacavia-push-server/repo/locationrepo"
)

const CName = "push.location"

var log = logger.NewNamed(CName)

const (
	DefaultRadius = 25.0
	DefaultLimit  = 20
	MaxLimit      = 100
)

func New() Location {
	return new(location)
}

type configSource interface {
	GetNearby() Config
}

type Config struct {
	MaxCandidates int `yaml:"maxCandidates"`
}

type Query struct {
	Center domain.Point
	Radius float64
	Limit  int
	Unit   geo.Unit
}

type Response struct {
	Locations []geo.Result `json:"locations"`
	Total     int          `json:"total"`
	Radius    float64      `json:"radius"`
	Unit      geo.Unit     `json:"unit"`
}

type Location interface {
	Nearby(ctx context.Context, q Query) (Response, error)
	app.Component
}

type location struct {
	conf   Config
	repo   locationrepo.LocationRepo
	metric metric.Metric
}

func (l *location) Init(a *app.App) (err error) {
	if cs, ok := a.Component("config").(configSource); ok {
		l.conf = cs.GetNearby()
	}
	if l.conf.MaxCandidates <= 0 {
		l.conf.MaxCandidates = locationrepo.DefaultCandidates
	}
	l.repo = a.MustComponent(locationrepo.CName).(locationrepo.LocationRepo)
	l.metric = a.MustComponent(metric.CName).(metric.Metric)
	h := &handler{l: l}
	h.register(a.MustComponent(httpserver.CName).(httpserver.HTTPServer).Router())
	return
}

func (l *location) Name() (name string) {
	return CName
}

// Nearby scans at most MaxCandidates published locations, so results are
// best effort for large catalogs.
func (l *location) Nearby(ctx context.Context, q Query) (resp Response, err error) {
	if err = geo.ValidatePoint(q.Center); err != nil {
		return
	}
	if q.Radius == 0 {
		q.Radius = DefaultRadius
	}
	if q.Limit <= 0 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	if q.Unit == "" {
		q.Unit = geo.Miles
	}
	candidates, err := l.repo.Candidates(ctx, l.conf.MaxCandidates)
	if err != nil {
		return
	}
	if len(candidates) >= l.conf.MaxCandidates {
		log.Debug("nearby candidates truncated", zap.Int("max", l.conf.MaxCandidates))
	}
	results, err := geo.Nearby(q.Center, candidates, q.Radius, q.Limit, q.Unit)
	if err != nil {
		return
	}
	return Response{
		Locations: results,
		Total:     len(results),
		Radius:    q.Radius,
		Unit:      q.Unit,
	}, nil
}
