package tokenrepo

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/anyproto/any-sync/app"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/sacavia/sacavia-push-server/db"
	"github.com/sacavia/sacavia-push-server/db/dbtest"
	"github.com/sacavia/sacavia-push-server/domain"
)

var ctx = context.Background()

func TestTokenRepo_Register(t *testing.T) {
	t.Run("new token", func(t *testing.T) {
		fx := newFixture(t)
		res, created, err := fx.Register(ctx, domain.DeviceToken{
			UserId:      "u1",
			Platform:    domain.PlatformIOS,
			DeviceToken: "fcm-1",
			APNSToken:   "apns-1",
			DeviceInfo:  domain.DeviceInfo{Model: "iPhone15,2"},
		})
		require.NoError(t, err)
		assert.True(t, created)
		assert.True(t, res.IsActive)
		assert.NotEmpty(t, res.Id)
		assert.Equal(t, "apns-1", res.APNSToken)
		assert.Equal(t, int64(1), fx.count(t))
	})
	t.Run("same token updates in place", func(t *testing.T) {
		fx := newFixture(t)
		first, created, err := fx.Register(ctx, domain.DeviceToken{
			UserId:      "u1",
			Platform:    domain.PlatformAndroid,
			DeviceToken: "fcm-1",
		})
		require.NoError(t, err)
		require.True(t, created)

		second, created, err := fx.Register(ctx, domain.DeviceToken{
			UserId:      "u1",
			Platform:    domain.PlatformAndroid,
			DeviceToken: "fcm-1",
			DeviceInfo:  domain.DeviceInfo{AppVersion: "2.1.0"},
		})
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, first.Id, second.Id)
		assert.Equal(t, "2.1.0", second.DeviceInfo.AppVersion)
		assert.Equal(t, int64(1), fx.count(t))
	})
	t.Run("apns token follows the latest registration", func(t *testing.T) {
		fx := newFixture(t)
		_, _, err := fx.Register(ctx, domain.DeviceToken{UserId: "u1", Platform: domain.PlatformIOS, DeviceToken: "fcm-1", APNSToken: "apns-old"})
		require.NoError(t, err)

		rotated, _, err := fx.Register(ctx, domain.DeviceToken{UserId: "u1", Platform: domain.PlatformIOS, DeviceToken: "fcm-1", APNSToken: "apns-new"})
		require.NoError(t, err)
		assert.Equal(t, "apns-new", rotated.APNSToken)

		dropped, _, err := fx.Register(ctx, domain.DeviceToken{UserId: "u1", Platform: domain.PlatformIOS, DeviceToken: "fcm-1"})
		require.NoError(t, err)
		assert.Empty(t, dropped.APNSToken)
		assert.Equal(t, int64(1), fx.count(t))
	})
	t.Run("token moves to another user", func(t *testing.T) {
		fx := newFixture(t)
		_, _, err := fx.Register(ctx, domain.DeviceToken{UserId: "a", Platform: domain.PlatformAndroid, DeviceToken: "1"})
		require.NoError(t, err)
		_, _, err = fx.Register(ctx, domain.DeviceToken{UserId: "b", Platform: domain.PlatformAndroid, DeviceToken: "1"})
		require.NoError(t, err)

		tokens, err := fx.GetActiveTokensByUserIds(ctx, []string{"a"})
		require.NoError(t, err)
		assert.Len(t, tokens, 0)
		tokens, err = fx.GetActiveTokensByUserIds(ctx, []string{"b"})
		require.NoError(t, err)
		require.Len(t, tokens, 1)
		assert.Equal(t, "1", tokens[0].DeviceToken)
	})
	t.Run("concurrent registration", func(t *testing.T) {
		fx := newFixture(t)
		var wg sync.WaitGroup
		for range 10 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _, err := fx.Register(ctx, domain.DeviceToken{UserId: "u1", Platform: domain.PlatformIOS, DeviceToken: "race"})
				assert.NoError(t, err)
			}()
		}
		wg.Wait()
		assert.Equal(t, int64(1), fx.count(t))
	})
}

func TestTokenRepo_Unregister(t *testing.T) {
	fx := newFixture(t)
	res, _, err := fx.Register(ctx, domain.DeviceToken{UserId: "u1", Platform: domain.PlatformIOS, DeviceToken: "1"})
	require.NoError(t, err)

	require.ErrorIs(t, fx.Unregister(ctx, "other", domain.PlatformIOS, "1"), ErrTokenNotFound)
	require.NoError(t, fx.Unregister(ctx, "u1", "", "1"))

	tokens, err := fx.GetActiveTokensByUserIds(ctx, []string{"u1"})
	require.NoError(t, err)
	assert.Len(t, tokens, 0)
	// kept for history
	assert.Equal(t, int64(1), fx.count(t))

	again, created, err := fx.Register(ctx, domain.DeviceToken{UserId: "u1", Platform: domain.PlatformIOS, DeviceToken: "1"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.True(t, again.IsActive)
	assert.Equal(t, res.Id, again.Id)
}

func TestTokenRepo_DeactivateTokens(t *testing.T) {
	fx := newFixture(t)
	t1, _, err := fx.Register(ctx, domain.DeviceToken{UserId: "u1", Platform: domain.PlatformIOS, DeviceToken: "1"})
	require.NoError(t, err)
	_, _, err = fx.Register(ctx, domain.DeviceToken{UserId: "u1", Platform: domain.PlatformAndroid, DeviceToken: "2"})
	require.NoError(t, err)

	require.NoError(t, fx.DeactivateTokens(ctx, []string{t1.Id}))
	require.NoError(t, fx.DeactivateTokens(ctx, nil))

	tokens, err := fx.GetActiveTokensByUserIds(ctx, []string{"u1"})
	require.NoError(t, err)
	require.Len(t, tokens, 1)
	assert.Equal(t, "2", tokens[0].DeviceToken)
}

func TestTokenRepo_DeactivateStale(t *testing.T) {
	fx := newFixture(t)
	_, _, err := fx.Register(ctx, domain.DeviceToken{UserId: "u1", Platform: domain.PlatformIOS, DeviceToken: "1"})
	require.NoError(t, err)

	count, err := fx.DeactivateStale(ctx, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	count, err = fx.DeactivateStale(ctx, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestTokenRepo_TouchUsed(t *testing.T) {
	fx := newFixture(t)
	res, _, err := fx.Register(ctx, domain.DeviceToken{UserId: "u1", Platform: domain.PlatformIOS, DeviceToken: "1"})
	require.NoError(t, err)
	assert.True(t, res.LastUsed.IsZero())

	require.NoError(t, fx.TouchUsed(ctx, []string{res.Id}))
	tokens, err := fx.GetActiveTokensByUserIds(ctx, []string{"u1"})
	require.NoError(t, err)
	require.Len(t, tokens, 1)
	assert.False(t, tokens[0].LastUsed.IsZero())
}

func newFixture(t testing.TB) *fixture {
	dbtest.SkipIfUnavailable(t)
	fx := &fixture{
		TokenRepo: New(),
		a:         new(app.App),
	}
	fx.a.Register(dbtest.Config{Mongo: dbtest.Mongo()}).
		Register(db.New()).
		Register(fx.TokenRepo)
	require.NoError(t, fx.a.Start(ctx))
	t.Cleanup(func() {
		fx.finish(t)
	})
	return fx
}

type fixture struct {
	TokenRepo
	a *app.App
}

func (fx *fixture) count(t testing.TB) int64 {
	n, err := fx.TokenRepo.(*tokenRepo).coll.CountDocuments(ctx, bson.D{})
	require.NoError(t, err)
	return n
}

func (fx *fixture) finish(t testing.TB) {
	_ = fx.TokenRepo.(*tokenRepo).coll.Drop(ctx)
	require.NoError(t, fx.a.Close(ctx))
}
