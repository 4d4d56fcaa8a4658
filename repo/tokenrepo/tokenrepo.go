//go:generate mockgen -destination mock_tokenrepo/mock_tokenrepo.go github.com/sacavia/sacavia-push-server/repo/tokenrepo TokenRepo

package tokenrepo

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

const CName = "push.tokenrepo"

const collName = "deviceTokens"

var (
	ErrTokenNotFound = errors.New("device token not found")
)

func New() TokenRepo {
	return new(tokenRepo)
}

type TokenRepo interface {
	// Register upserts the token by (platform, deviceToken). The record is
	// created active, or updated in place and reactivated.
	Register(ctx context.Context, token domain.DeviceToken) (result domain.DeviceToken, created bool, err error)
	Unregister(ctx context.Context, userId string, platform domain.Platform, deviceToken string) error
	DeactivateTokens(ctx context.Context, ids []string) error
	DeactivateStale(ctx context.Context, seenBefore time.Time) (count int64, err error)
	TouchUsed(ctx context.Context, ids []string) error
	GetActiveTokensByUserIds(ctx context.Context, userIds []string) (tokens []domain.DeviceToken, err error)
	app.ComponentRunnable
}

type tokenRepo struct {
	coll *mongo.Collection
}

func (t *tokenRepo) Init(a *app.App) (err error) {
	t.coll = a.MustComponent(db.CName).(db.Database).Db().Collection(collName)
	return
}

func (t *tokenRepo) Run(ctx context.Context) error {
	_, err := t.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{"platform", 1}, {"deviceToken", 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{"userId", 1}, {"isActive", 1}},
		},
		{
			Keys: bson.D{{"isActive", 1}, {"lastSeen", 1}},
		},
	})
	return err
}

func (t *tokenRepo) Name() (name string) {
	return CName
}

func (t *tokenRepo) Register(ctx context.Context, token domain.DeviceToken) (result domain.DeviceToken, created bool, err error) {
	now := time.Now().UTC().Truncate(time.Millisecond)
	newId := primitive.NewObjectID().Hex()
	set := bson.D{
		{"userId", token.UserId},
		{"isActive", true},
		{"deviceInfo", token.DeviceInfo},
		{"lastSeen", now},
		{"updated", now},
	}
	update := bson.D{
		{"$setOnInsert", bson.D{{"_id", newId}, {"created", now}}},
	}
	// a registration without an APNs token drops the stored one
	if token.APNSToken != "" {
		set = append(set, bson.E{Key: "apnsToken", Value: token.APNSToken})
	} else {
		update = append(update, bson.E{Key: "$unset", Value: bson.D{{"apnsToken", ""}}})
	}
	update = append(update, bson.E{Key: "$set", Value: set})
	filter := bson.D{{"platform", token.Platform}, {"deviceToken", token.DeviceToken}}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	// two concurrent upserts of an unseen token race on the unique index,
	// the loser is retried and lands on the update path
	err = db.RetryOnConflict(ctx, func(ctx context.Context) error {
		return t.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&result)
	})
	if err != nil {
		return domain.DeviceToken{}, false, err
	}
	return result, result.Id == newId, nil
}

func (t *tokenRepo) Unregister(ctx context.Context, userId string, platform domain.Platform, deviceToken string) error {
	filter := bson.D{{"userId", userId}, {"deviceToken", deviceToken}}
	if platform != "" {
		filter = append(filter, bson.E{Key: "platform", Value: platform})
	}
	res, err := t.coll.UpdateMany(ctx, filter, bson.D{{"$set", bson.D{
		{"isActive", false},
		{"updated", time.Now().UTC()},
	}}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrTokenNotFound
	}
	return nil
}

func (t *tokenRepo) DeactivateTokens(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := t.coll.UpdateMany(ctx,
		bson.D{{"_id", bson.D{{"$in", ids}}}},
		bson.D{{"$set", bson.D{
			{"isActive", false},
			{"updated", time.Now().UTC()},
		}}},
	)
	return err
}

func (t *tokenRepo) DeactivateStale(ctx context.Context, seenBefore time.Time) (count int64, err error) {
	res, err := t.coll.UpdateMany(ctx,
		bson.D{{"isActive", true}, {"lastSeen", bson.D{{"$lt", seenBefore}}}},
		bson.D{{"$set", bson.D{
			{"isActive", false},
			{"updated", time.Now().UTC()},
		}}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (t *tokenRepo) TouchUsed(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := t.coll.UpdateMany(ctx,
		bson.D{{"_id", bson.D{{"$in", ids}}}},
		bson.D{{"$set", bson.D{{"lastUsed", time.Now().UTC()}}}},
	)
	return err
}

func (t *tokenRepo) GetActiveTokensByUserIds(ctx context.Context, userIds []string) (tokens []domain.DeviceToken, err error) {
	cur, err := t.coll.Find(ctx, bson.D{
		{"userId", bson.D{{"$in", userIds}}},
		{"isActive", true},
	})
	if err != nil {
		return
	}
	defer func() {
		_ = cur.Close(ctx)
	}()
	err = cur.All(ctx, &tokens)
	return
}

func (t *tokenRepo) Close(ctx context.Context) (err error) {
	return nil
}
