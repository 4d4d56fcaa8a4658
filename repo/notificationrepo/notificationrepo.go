//go:generate mockgen -destination mock_notificationrepo/mock_notificationrepo.go github.com/sacavia/sacavia-push-server/repo/notificationrepo NotificationRepo

package notificationrepo

import (
	"context"
	"errors"
	"time"

	"github.com/anyproto/any-sync/app"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sacavia/sacavia-push-server/db"
	"github.com/sacavia/sacavia-push-server/domain"
)

var (
	ErrNotFound = errors.New("notification not found")
)

const CName = "push.notificationrepo"

const collName = "notifications"

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

func New() NotificationRepo {
	return new(notificationRepo)
}

type Filter struct {
	UnreadOnly bool
	Limit      int
	Skip       int
}

type NotificationRepo interface {
	Create(ctx context.Context, n domain.Notification) (result domain.Notification, err error)
	List(ctx context.Context, recipient string, filter Filter) (notifications []domain.Notification, total int64, err error)
	MarkRead(ctx context.Context, recipient, id string) (err error)
	MarkAllRead(ctx context.Context, recipient string) (count int64, err error)
	UnreadCount(ctx context.Context, recipient string) (count int64, err error)
	app.ComponentRunnable
}

type notificationRepo struct {
	coll *mongo.Collection
}

func (r *notificationRepo) Init(a *app.App) (err error) {
	r.coll = a.MustComponent(db.CName).(db.Database).Db().Collection(collName)
	return
}

func (r *notificationRepo) Name() (name string) {
	return CName
}

func (r *notificationRepo) Run(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{"recipient", 1}, {"createdAt", -1}}},
		{Keys: bson.D{{"recipient", 1}, {"read", 1}}},
	})
	return err
}

func (r *notificationRepo) Create(ctx context.Context, n domain.Notification) (result domain.Notification, err error) {
	n.Id = primitive.NewObjectID().Hex()
	n.Read = false
	n.ReadAt = nil
	n.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	if n.Priority == "" {
		n.Priority = domain.PriorityNormal
	}
	if _, err = r.coll.InsertOne(ctx, n); err != nil {
		return
	}
	return n, nil
}

func (r *notificationRepo) List(ctx context.Context, recipient string, filter Filter) (notifications []domain.Notification, total int64, err error) {
	query := bson.D{{"recipient", recipient}}
	if filter.UnreadOnly {
		query = append(query, bson.E{Key: "read", Value: false})
	}
	if total, err = r.coll.CountDocuments(ctx, query); err != nil {
		return
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultLimit
	} else if limit > MaxLimit {
		limit = MaxLimit
	}
	opts := options.Find().
		SetSort(bson.D{{"createdAt", -1}, {"_id", -1}}).
		SetLimit(int64(limit)).
		SetSkip(int64(max(filter.Skip, 0)))
	cur, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return
	}
	defer func() {
		_ = cur.Close(ctx)
	}()
	notifications = make([]domain.Notification, 0, limit)
	err = cur.All(ctx, &notifications)
	return
}

func (r *notificationRepo) MarkRead(ctx context.Context, recipient, id string) (err error) {
	res, err := r.coll.UpdateOne(ctx,
		bson.D{{"_id", id}, {"recipient", recipient}},
		bson.D{{"$set", bson.D{{"read", true}, {"readAt", time.Now().UTC()}}}},
	)
	if err != nil {
		return
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return
}

func (r *notificationRepo) MarkAllRead(ctx context.Context, recipient string) (count int64, err error) {
	res, err := r.coll.UpdateMany(ctx,
		bson.D{{"recipient", recipient}, {"read", false}},
		bson.D{{"$set", bson.D{{"read", true}, {"readAt", time.Now().UTC()}}}},
	)
	if err != nil {
		return
	}
	return res.ModifiedCount, nil
}

func (r *notificationRepo) UnreadCount(ctx context.Context, recipient string) (count int64, err error) {
	return r.coll.CountDocuments(ctx, bson.D{{"recipient", recipient}, {"read", false}})
}

func (r *notificationRepo) Close(ctx context.Context) error {
	return nil
}
