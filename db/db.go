package db

import (
	"context"
	"time"

	"github.com/anyproto/any-sync/app"
	"github.com/anyproto/any-sync/app/logger"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

const CName = "push.db"

var log = logger.NewNamed(CName)

func New() Database {
	return new(database)
}

type Mongo struct {
	Connect  string `yaml:"connect" env:"MONGO_URL"`
	Database string `yaml:"database" env:"MONGO_DATABASE"`
}

type configSource interface {
	GetMongo() Mongo
}

type Database interface {
	Db() *mongo.Database
	app.ComponentRunnable
}

type database struct {
	client *mongo.Client
	db     *mongo.Database
}

func (d *database) Init(a *app.App) (err error) {
	conf := a.MustComponent("config").(configSource).GetMongo()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if d.client, err = mongo.Connect(ctx, options.Client().ApplyURI(conf.Connect)); err != nil {
		return err
	}
	d.db = d.client.Database(conf.Database)
	return nil
}

func (d *database) Name() (name string) {
	return CName
}

func (d *database) Run(ctx context.Context) error {
	st := time.Now()
	if err := d.client.Ping(ctx, readpref.Primary()); err != nil {
		return err
	}
	log.Info("mongo connected", zap.String("db", d.db.Name()), zap.Duration("dur", time.Since(st)))
	return nil
}

func (d *database) Db() *mongo.Database {
	return d.db
}

func (d *database) Close(ctx context.Context) error {
	if d.client == nil {
		return nil
	}
	return d.client.Disconnect(ctx)
}
