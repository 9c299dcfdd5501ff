package config

import (
	"fmt"
	"os"
	"strconv"
)

type keyType int

const (
	kString keyType = iota
	kInt
)

type keySpec struct {
	key     string
	typ     keyType
	env     string
	secret  bool
	apply   func(cfg *Config, v any)
	extract func(cfg Config) any
}

var specs = []keySpec{
	{
		key: "server.host", typ: kString, env: "JOBTAB_SERVER_HOST",
		apply:   func(cfg *Config, v any) { cfg.Server.Host = v.(string) },
		extract: func(cfg Config) any { return cfg.Server.Host },
	},
	{
		key: "server.port", typ: kInt, env: "JOBTAB_SERVER_PORT",
		apply:   func(cfg *Config, v any) { cfg.Server.Port = v.(int) },
		extract: func(cfg Config) any { return cfg.Server.Port },
	},
	{
		key: "storage.data_file", typ: kString, env: "JOBTAB_DATA_FILE",
		apply:   func(cfg *Config, v any) { cfg.Storage.DataFile = v.(string) },
		extract: func(cfg Config) any { return cfg.Storage.DataFile },
	},
	{
		key: "log.level", typ: kString, env: "JOBTAB_LOG_LEVEL",
		apply:   func(cfg *Config, v any) { cfg.Log.Level = v.(string) },
		extract: func(cfg Config) any { return cfg.Log.Level },
	},
	{
		key: "jobs.usajobs_email", typ: kString, env: "USAJOBS_EMAIL",
		apply:   func(cfg *Config, v any) { cfg.Jobs.USAJobsEmail = v.(string) },
		extract: func(cfg Config) any { return cfg.Jobs.USAJobsEmail },
	},
	{
		key: "jobs.adzuna_app_id", typ: kString, env: "ADZUNA_APP_ID", secret: true,
		apply:   func(cfg *Config, v any) { cfg.Jobs.AdzunaAppID = v.(string) },
		extract: func(cfg Config) any { return cfg.Jobs.AdzunaAppID },
	},
	{
		key: "jobs.adzuna_api_key", typ: kString, env: "ADZUNA_API_KEY", secret: true,
		apply:   func(cfg *Config, v any) { cfg.Jobs.AdzunaAPIKey = v.(string) },
		extract: func(cfg Config) any { return cfg.Jobs.AdzunaAPIKey },
	},
	{
		key: "jobs.rapidapi_key", typ: kString, env: "RAPIDAPI_KEY", secret: true,
		apply:   func(cfg *Config, v any) { cfg.Jobs.RapidAPIKey = v.(string) },
		extract: func(cfg Config) any { return cfg.Jobs.RapidAPIKey },
	},
}

func applyBackend(cfg *Config, b Backend) error {
	for _, s := range specs {
		if s.secret {
			continue
		}
		switch s.typ {
		case kString:
			v, ok, err := b.GetString(s.key)
			if err != nil {
				return fmt.Errorf("reading %s: %w", s.key, err)
			}
			if ok {
				s.apply(cfg, v)
			}
		case kInt:
			v, ok, err := b.GetInt(s.key)
			if err != nil {
				return fmt.Errorf("reading %s: %w", s.key, err)
			}
			if ok {
				s.apply(cfg, v)
			}
		}
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	for _, s := range specs {
		if s.env == "" {
			continue
		}
		raw := os.Getenv(s.env)
		if raw == "" {
			continue
		}
		switch s.typ {
		case kString:
			s.apply(cfg, raw)
		case kInt:
			if i, err := strconv.Atoi(raw); err == nil {
				s.apply(cfg, i)
			} else {
				fmt.Fprintf(os.Stderr, "[WARN] could not parse integer from env var %s=%q: %v. Using default value.\n", s.env, raw, err)
			}
		}
	}
}
