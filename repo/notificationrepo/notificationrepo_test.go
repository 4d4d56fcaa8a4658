package notificationrepo

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

func TestNotificationRepo_Create(t *testing.T) {
	fx := newFixture(t)
	n, err := fx.Create(ctx, domain.Notification{
		Recipient: "u1",
		Type:      domain.NotificationFollow,
		Title:     "New follower",
		Message:   "alex started following you",
		Metadata:  map[string]string{"followerId": "u2"},
		Read:      true,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, n.Id)
	assert.False(t, n.Read)
	assert.Equal(t, domain.PriorityNormal, n.Priority)
	assert.False(t, n.CreatedAt.IsZero())
}

func TestNotificationRepo_List(t *testing.T) {
	fx := newFixture(t)
	for i := range 5 {
		_, err := fx.Create(ctx, domain.Notification{
			Recipient: "u1",
			Type:      domain.NotificationComment,
			Title:     fmt.Sprintf("comment %d", i),
		})
		require.NoError(t, err)
	}
	_, err := fx.Create(ctx, domain.Notification{Recipient: "u2", Type: domain.NotificationSystem, Title: "hi"})
	require.NoError(t, err)

	list, total, err := fx.List(ctx, "u1", Filter{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, list, 2)
	assert.Equal(t, "comment 4", list[0].Title)
	assert.Equal(t, "comment 3", list[1].Title)

	list, _, err = fx.List(ctx, "u1", Filter{Limit: 2, Skip: 4})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "comment 0", list[0].Title)
}

func TestNotificationRepo_MarkRead(t *testing.T) {
	fx := newFixture(t)
	n, err := fx.Create(ctx, domain.Notification{Recipient: "u1", Type: domain.NotificationTipApproved, Title: "approved"})
	require.NoError(t, err)
	_, err = fx.Create(ctx, domain.Notification{Recipient: "u1", Type: domain.NotificationLike, Title: "like"})
	require.NoError(t, err)

	require.ErrorIs(t, fx.MarkRead(ctx, "u2", n.Id), ErrNotFound)
	require.ErrorIs(t, fx.MarkRead(ctx, "u1", "missing"), ErrNotFound)
	require.NoError(t, fx.MarkRead(ctx, "u1", n.Id))

	count, err := fx.UnreadCount(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	unread, total, err := fx.List(ctx, "u1", Filter{UnreadOnly: true})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, unread, 1)
	assert.Equal(t, "like", unread[0].Title)
}

func TestNotificationRepo_MarkAllRead(t *testing.T) {
	fx := newFixture(t)
	for range 3 {
		_, err := fx.Create(ctx, domain.Notification{Recipient: "u1", Type: domain.NotificationMatch, Title: "match"})
		require.NoError(t, err)
	}
	count, err := fx.MarkAllRead(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	count, err = fx.MarkAllRead(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	unread, err := fx.UnreadCount(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), unread)
}

func newFixture(t testing.TB) *fixture {
	dbtest.SkipIfUnavailable(t)
	fx := &fixture{
		NotificationRepo: New(),
		a:                new(app.App),
	}
	fx.a.Register(dbtest.Config{Mongo: dbtest.Mongo()}).
		Register(db.New()).
		Register(fx.NotificationRepo)
	require.NoError(t, fx.a.Start(ctx))
	t.Cleanup(func() {
		fx.finish(t)
	})
	return fx
}

type fixture struct {
	NotificationRepo
	a *app.App
}

func (fx *fixture) finish(t testing.TB) {
	_ = fx.NotificationRepo.(*notificationRepo).coll.Drop(ctx)
	require.NoError(t, fx.a.Close(ctx))
}
