//go:generate mockgen -destination mock_locationrepo/mock_locationrepo.go github.com/sacavia/sacavia-push-server/repo/locationrepo LocationRepo

package locationrepo

import (
	"context"

	"github.com/anyproto/any-sync/app"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sacavia/sacavia-push-server/db"
	"github.com/sacavia/sacavia-push-server/domain"
)

const CName = "push.locationrepo"

const collName = "locations"

const DefaultCandidates = 1000

func New() LocationRepo {
	return new(locationRepo)
}

type LocationRepo interface {
	// Candidates returns up to limit published locations that have both
	// coordinates set.
	Candidates(ctx context.Context, limit int) (locations []domain.Location, err error)
	Create(ctx context.Context, loc domain.Location) (result domain.Location, err error)
	app.ComponentRunnable
}

type locationRepo struct {
	coll *mongo.Collection
}

func (r *locationRepo) Init(a *app.App) (err error) {
	r.coll = a.MustComponent(db.CName).(db.Database).Db().Collection(collName)
	return
}

func (r *locationRepo) Name() (name string) {
	return CName
}

func (r *locationRepo) Run(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{"status", 1}},
	})
	return err
}

func (r *locationRepo) Candidates(ctx context.Context, limit int) (locations []domain.Location, err error) {
	if limit <= 0 {
		limit = DefaultCandidates
	}
	cur, err := r.coll.Find(ctx, bson.D{
		{"status", domain.LocationStatusPublished},
		{"coordinates.latitude", bson.D{{"$exists", true}, {"$ne", nil}}},
		{"coordinates.longitude", bson.D{{"$exists", true}, {"$ne", nil}}},
	}, options.Find().SetLimit(int64(limit)))
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cur.Close(ctx)
	}()
	if err = cur.All(ctx, &locations); err != nil {
		return nil, err
	}
	return locations, nil
}

func (r *locationRepo) Create(ctx context.Context, loc domain.Location) (result domain.Location, err error) {
	if loc.Id == "" {
		loc.Id = primitive.NewObjectID().Hex()
	}
	if _, err = r.coll.InsertOne(ctx, loc); err != nil {
		return
	}
	return loc, nil
}

func (r *locationRepo) Close(ctx context.Context) error {
	return nil
}
