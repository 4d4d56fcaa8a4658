package apns

type configSource interface {
	GetAPNS() Config
}

type Config struct {
	KeyFile string `yaml:"keyFile" env:"APNS_KEY_FILE"`
	// Key is the .p8 key content, an alternative to KeyFile.
	Key        string `yaml:"key" env:"APNS_KEY"`
	KeyId      string `yaml:"keyId" env:"APNS_KEY_ID"`
	TeamId     string `yaml:"teamId" env:"APNS_TEAM_ID"`
	BundleId   string `yaml:"bundleId" env:"APNS_BUNDLE_ID"`
	Production bool   `yaml:"production" env:"APNS_PRODUCTION"`
}

func (c Config) enabled() bool {
	return (c.KeyFile != "" || c.Key != "") && c.KeyId != "" && c.TeamId != "" && c.BundleId != ""
}
