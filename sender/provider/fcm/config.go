package fcm

type configSource interface {
	GetFCM() Config
}

type Config struct {
	CredentialsFile string `yaml:"credentialsFile" env:"FIREBASE_CREDENTIALS_FILE"`
	// CredentialsJSON is the service account document itself, usually
	// injected from the environment.
	CredentialsJSON string `yaml:"credentialsJSON" env:"FIREBASE_SERVICE_ACCOUNT_JSON"`
	ProjectId       string `yaml:"projectId" env:"FIREBASE_PROJECT_ID"`
}

func (c Config) enabled() bool {
	return c.CredentialsFile != "" || c.CredentialsJSON != ""
}
