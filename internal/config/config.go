// Package config loads the application configuration from the XDG
// config file, a .env file, and environment variables, in that order of
// increasing precedence.
package config

import (
	"github.com/joho/godotenv"
)

type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	Log     LogConfig
	Jobs    JobsConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type StorageConfig struct {
	DataFile string
}

type LogConfig struct {
	Level string
}

// JobsConfig carries the external job-search provider credentials.
// Every field is optional; with none set the lookup runs on sample data.
type JobsConfig struct {
	USAJobsEmail string
	AdzunaAppID  string
	AdzunaAPIKey string
	RapidAPIKey  string
}

func defaults() Config {
	return Config{
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8414,
		},
		Storage: StorageConfig{
			DataFile: defaultDataFile(),
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from the JSON config file at
// $XDG_CONFIG_HOME/jobtab/config.json, then a .env file in the working
// directory, then JOBTAB_* environment variables. Provider credentials
// are env-only; absence of all of them is a valid configuration that
// selects the sample-data provider.
func Load() (Config, error) {
	return loadWith(newFileBackend())
}

func loadWith(b Backend) (Config, error) {
	cfg := defaults()

	if err := applyBackend(&cfg, b); err != nil {
		return Config{}, err
	}

	// Missing .env is the normal case.
	_ = godotenv.Load()
	applyEnvOverrides(&cfg)

	return cfg, nil
}
