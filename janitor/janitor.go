// Package janitor periodically deactivates device tokens that stopped checking in.
package janitor

import (
	"context"
	"time"

	"github.com/anyproto/any-sync/app"
	"github.com/anyproto/any-sync/app/logger"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/sacavia/sacavia-push-server/repo/tokenrepo"
)

const CName = "push.janitor"

var log = logger.NewNamed(CName)

const (
	defaultSchedule       = "0 4 * * *"
	defaultStaleAfterDays = 270
)

func New() Janitor {
	return new(janitor)
}

type configSource interface {
	GetJanitor() Config
}

type Config struct {
	Schedule       string `yaml:"schedule"`
	StaleAfterDays int    `yaml:"staleAfterDays"`
}

type Janitor interface {
	// Sweep deactivates tokens not seen for StaleAfterDays.
	Sweep(ctx context.Context) (count int64, err error)
	app.ComponentRunnable
}

type janitor struct {
	conf      Config
	tokenRepo tokenrepo.TokenRepo
	cron      *cron.Cron
	now       func() time.Time
}

func (j *janitor) Init(a *app.App) (err error) {
	if cs, ok := a.Component("config").(configSource); ok {
		j.conf = cs.GetJanitor()
	}
	if j.conf.Schedule == "" {
		j.conf.Schedule = defaultSchedule
	}
	if j.conf.StaleAfterDays <= 0 {
		j.conf.StaleAfterDays = defaultStaleAfterDays
	}
	j.tokenRepo = a.MustComponent(tokenrepo.CName).(tokenrepo.TokenRepo)
	j.now = time.Now
	j.cron = cron.New()
	_, err = j.cron.AddFunc(j.conf.Schedule, j.run)
	return
}

func (j *janitor) Name() (name string) {
	return CName
}

func (j *janitor) Run(ctx context.Context) (err error) {
	j.cron.Start()
	return
}

func (j *janitor) run() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	st := time.Now()
	count, err := j.Sweep(ctx)
	if err != nil {
		log.Error("sweep stale tokens error", zap.Error(err))
		return
	}
	log.Info("stale tokens deactivated", zap.Int64("count", count), zap.Duration("dur", time.Since(st)))
}

func (j *janitor) Sweep(ctx context.Context) (count int64, err error) {
	seenBefore := j.now().AddDate(0, 0, -j.conf.StaleAfterDays)
	return j.tokenRepo.DeactivateStale(ctx, seenBefore)
}

func (j *janitor) Close(ctx context.Context) (err error) {
	if j.cron == nil {
		return
	}
	stopCtx := j.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
		return ctx.Err()
	}
	return
}
