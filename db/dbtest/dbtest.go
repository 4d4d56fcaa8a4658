// Package dbtest holds helpers for tests running against a local mongo.
package dbtest

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/anyproto/any-sync/app"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/sacavia/sacavia-push-server/db"
)

const database = "push_unittest"

func Mongo() db.Mongo {
	connect := os.Getenv("SACAVIA_TEST_MONGO")
	if connect == "" {
		connect = "mongodb://localhost:27017"
	}
	return db.Mongo{Connect: connect, Database: database}
}

// SkipIfUnavailable skips the test when no mongo answers within a second.
func SkipIfUnavailable(t testing.TB) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(Mongo().Connect).
		SetServerSelectionTimeout(time.Second))
	if err != nil {
		t.Skipf("mongo is not available: %v", err)
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()
	if err = client.Ping(ctx, readpref.Primary()); err != nil {
		t.Skipf("mongo is not available: %v", err)
	}
}

type Config struct {
	Mongo db.Mongo
}

func (c Config) Init(a *app.App) (err error) {
	return
}

func (c Config) Name() (name string) {
	return "config"
}

func (c Config) GetMongo() db.Mongo {
	return c.Mongo
}
