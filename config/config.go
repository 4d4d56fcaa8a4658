package config

import (
	"os"

	"github.com/anyproto/any-sync/app"
	"github.com/caarlos0/env/v6"
	"gopkg.in/yaml.v3"

	"github.com/sacavia/sacavia-push-server/auth"
	"github.com/sacavia/sacavia-push-server/db"
	"github.com/sacavia/sacavia-push-server/httpserver"
	"github.com/sacavia/sacavia-push-server/janitor"
	"github.com/sacavia/sacavia-push-server/location"
	"github.com/sacavia/sacavia-push-server/redisprovider"
	"github.com/sacavia/sacavia-push-server/sender"
	"github.com/sacavia/sacavia-push-server/sender/provider/apns"
	"github.com/sacavia/sacavia-push-server/sender/provider/fcm"
)

const CName = "config"

// NewFromFile reads a yaml config. Fields tagged with env are then
// overridden from the environment, so secrets can stay out of the file.
func NewFromFile(path string) (c *Config, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return NewFromBytes(data)
}

func NewFromBytes(data []byte) (c *Config, err error) {
	c = &Config{}
	if err = yaml.Unmarshal(data, c); err != nil {
		return nil, err
	}
	if err = env.Parse(c); err != nil {
		return nil, err
	}
	return
}

type Config struct {
	Mongo   db.Mongo             `yaml:"mongo"`
	Redis   redisprovider.Config `yaml:"redis"`
	HTTP    httpserver.Config    `yaml:"http"`
	Auth    auth.Config          `yaml:"auth"`
	FCM     fcm.Config           `yaml:"fcm"`
	APNS    apns.Config          `yaml:"apns"`
	Sender  sender.Config        `yaml:"sender"`
	Nearby  location.Config      `yaml:"nearby"`
	Janitor janitor.Config       `yaml:"janitor"`
}

func (c *Config) Init(a *app.App) (err error) {
	return nil
}

func (c *Config) Name() (name string) {
	return CName
}

func (c *Config) GetMongo() db.Mongo {
	return c.Mongo
}

func (c *Config) GetRedis() redisprovider.Config {
	return c.Redis
}

func (c *Config) GetHTTP() httpserver.Config {
	return c.HTTP
}

func (c *Config) GetAuth() auth.Config {
	return c.Auth
}

func (c *Config) GetFCM() fcm.Config {
	return c.FCM
}

func (c *Config) GetAPNS() apns.Config {
	return c.APNS
}

func (c *Config) GetSender() sender.Config {
	return c.Sender
}

func (c *Config) GetNearby() location.Config {
	return c.Nearby
}

func (c *Config) GetJanitor() janitor.Config {
	return c.Janitor
}
