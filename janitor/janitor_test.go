package janitor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/anyproto/any-sync/app"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/sacavia/sacavia-push-server/repo/tokenrepo"
	"github.com/sacavia/sacavia-push-server/repo/tokenrepo/mock_tokenrepo"
)

var ctx = context.Background()

func TestJanitor_Sweep(t *testing.T) {
	fx := newFixture(t, Config{StaleAfterDays: 30})
	now := time.Date(2026, 3, 31, 4, 0, 0, 0, time.UTC)
	fx.janitor.now = func() time.Time { return now }

	fx.tokenRepo.EXPECT().DeactivateStale(ctx, time.Date(2026, 3, 1, 4, 0, 0, 0, time.UTC)).Return(int64(3), nil)
	count, err := fx.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	fx.tokenRepo.EXPECT().DeactivateStale(ctx, gomock.Any()).Return(int64(0), errors.New("mongo down"))
	_, err = fx.Sweep(ctx)
	require.Error(t, err)
}

func TestJanitor_defaults(t *testing.T) {
	fx := newFixture(t, Config{})
	assert.Equal(t, defaultSchedule, fx.conf.Schedule)
	assert.Equal(t, defaultStaleAfterDays, fx.conf.StaleAfterDays)
	assert.Len(t, fx.cron.Entries(), 1)
}

func TestJanitor_badSchedule(t *testing.T) {
	ctrl := gomock.NewController(t)
	tr := mock_tokenrepo.NewMockTokenRepo(ctrl)
	tr.EXPECT().Name().Return(tokenrepo.CName).AnyTimes()
	tr.EXPECT().Init(gomock.Any()).AnyTimes()
	a := new(app.App)
	a.Register(testConfig{conf: Config{Schedule: "every tuesday"}}).Register(tr).Register(New())
	require.Error(t, a.Start(ctx))
}

type testConfig struct {
	conf Config
}

func (c testConfig) Init(a *app.App) error { return nil }
func (c testConfig) Name() string          { return "config" }
func (c testConfig) GetJanitor() Config    { return c.conf }

type fixture struct {
	*janitor
	tokenRepo *mock_tokenrepo.MockTokenRepo
	a         *app.App
}

func newFixture(t *testing.T, conf Config) *fixture {
	ctrl := gomock.NewController(t)
	fx := &fixture{
		janitor:   New().(*janitor),
		tokenRepo: mock_tokenrepo.NewMockTokenRepo(ctrl),
		a:         new(app.App),
	}
	fx.tokenRepo.EXPECT().Name().Return(tokenrepo.CName).AnyTimes()
	fx.tokenRepo.EXPECT().Init(gomock.Any()).AnyTimes()
	fx.tokenRepo.EXPECT().Run(gomock.Any()).AnyTimes()
	fx.tokenRepo.EXPECT().Close(gomock.Any()).AnyTimes()

	fx.a.Register(testConfig{conf: conf}).Register(fx.tokenRepo).Register(fx.janitor)
	require.NoError(t, fx.a.Start(ctx))
	t.Cleanup(func() {
		require.NoError(t, fx.a.Close(ctx))
	})
	return fx
}
