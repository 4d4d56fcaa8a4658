package redisprovider

import (
	"context"
	"strings"

	"github.com/anyproto/any-sync/app"
	"github.com/anyproto/any-sync/app/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const CName = "push.redis"

var log = logger.NewNamed(CName)

func New() RedisProvider {
	return new(redisProvider)
}

type Config struct {
	IsCluster bool   `yaml:"isCluster"`
	Url       string `yaml:"url" env:"REDIS_URL"`
}

type configSource interface {
	GetRedis() Config
}

type RedisProvider interface {
	Redis() redis.UniversalClient
	app.ComponentRunnable
}

type redisProvider struct {
	redis redis.UniversalClient
}

func (r *redisProvider) Init(a *app.App) (err error) {
	conf := a.MustComponent("config").(configSource).GetRedis()
	if conf.IsCluster {
		opts, err := redis.ParseClusterURL(conf.Url)
		if err != nil {
			return err
		}
		r.redis = redis.NewClusterClient(opts)
	} else {
		opts, err := redis.ParseURL(conf.Url)
		if err != nil {
			return err
		}
		r.redis = redis.NewClient(opts)
	}
	return nil
}

func (r *redisProvider) Name() (name string) {
	return CName
}

func (r *redisProvider) Run(ctx context.Context) error {
	if err := r.redis.Ping(ctx).Err(); err != nil {
		return err
	}
	log.Info("redis connected", zap.String("addr", clientAddr(r.redis)))
	return nil
}

func (r *redisProvider) Redis() redis.UniversalClient {
	return r.redis
}

func (r *redisProvider) Close(ctx context.Context) error {
	if r.redis == nil {
		return nil
	}
	return r.redis.Close()
}

func clientAddr(c redis.UniversalClient) string {
	if cl, ok := c.(*redis.Client); ok {
		return cl.Options().Addr
	}
	if cl, ok := c.(*redis.ClusterClient); ok {
		return strings.Join(cl.Options().Addrs, ",")
	}
	return ""
}
