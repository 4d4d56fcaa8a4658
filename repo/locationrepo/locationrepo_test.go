package locationrepo

import (
	"context"
	"fmt"
	"testing"

	"github.com/anyproto/any-sync/app"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sacavia/sacavia-push-server/db"
	"github.com/sacavia/sacavia-push-server/db/dbtest"
	"github.com/sacavia/sacavia-push-server/domain"
)

var ctx = context.Background()

func ptr(f float64) *float64 {
	return &f
}

func TestLocationRepo_Candidates(t *testing.T) {
	fx := newFixture(t)
	_, err := fx.Create(ctx, domain.Location{
		Name:        "Boston Common",
		Status:      domain.LocationStatusPublished,
		Coordinates: domain.Coordinates{Latitude: ptr(42.355), Longitude: ptr(-71.0656)},
	})
	require.NoError(t, err)
	_, err = fx.Create(ctx, domain.Location{
		Name:        "Draft spot",
		Status:      "draft",
		Coordinates: domain.Coordinates{Latitude: ptr(42.36), Longitude: ptr(-71.06)},
	})
	require.NoError(t, err)
	_, err = fx.Create(ctx, domain.Location{
		Name:        "No coordinates",
		Status:      domain.LocationStatusPublished,
		Coordinates: domain.Coordinates{Latitude: ptr(42.36)},
	})
	require.NoError(t, err)

	res, err := fx.Candidates(ctx, 0)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "Boston Common", res[0].Name)
	p, ok := res[0].Coordinates.Point()
	require.True(t, ok)
	assert.Equal(t, 42.355, p.Lat)
}

func TestLocationRepo_CandidatesLimit(t *testing.T) {
	fx := newFixture(t)
	for i := range 5 {
		_, err := fx.Create(ctx, domain.Location{
			Name:        fmt.Sprintf("spot %d", i),
			Status:      domain.LocationStatusPublished,
			Coordinates: domain.Coordinates{Latitude: ptr(42 + float64(i)/100), Longitude: ptr(-71)},
		})
		require.NoError(t, err)
	}
	res, err := fx.Candidates(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, res, 3)
}

func newFixture(t testing.TB) *fixture {
	dbtest.SkipIfUnavailable(t)
	fx := &fixture{
		LocationRepo: New(),
		a:            new(app.App),
	}
	fx.a.Register(dbtest.Config{Mongo: dbtest.Mongo()}).
		Register(db.New()).
		Register(fx.LocationRepo)
	require.NoError(t, fx.a.Start(ctx))
	t.Cleanup(func() {
		fx.finish(t)
	})
	return fx
}

type fixture struct {
	LocationRepo
	a *app.App
}

func (fx *fixture) finish(t testing.TB) {
	_ = fx.LocationRepo.(*locationRepo).coll.Drop(ctx)
	require.NoError(t, fx.a.Close(ctx))
}
