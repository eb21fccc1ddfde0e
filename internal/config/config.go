package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration (env + Viper).
type Config struct {
	Env                 string
	Port                string
	LogLevel            string
	DatabaseURL         string // postgres DSN, or sqlite://<path> for local runs and tests
	RedisURL            string
	AggregatorAPIKey    string // plain key, or a bcrypt hash when it starts with $2
	HealthAdminKey      string
	FrontendURLEndsWith string
	AggregateSchedule   string // cron spec; empty disables scheduled runs

	Sources SourcesConfig
}

// SourcesConfig holds provider endpoints and credentials.
type SourcesConfig struct {
	RemoteOKURL   string
	RemotiveURL   string
	AdzunaURL     string
	AdzunaAppID   string
	AdzunaAPIKey  string
	AdzunaCountry string
	FetchTimeout  time.Duration
}

// IsDevelopment is true when error details may be exposed to clients.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load loads config from env and optional .env file. Environment variables
// win over the file.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("ADZUNA_COUNTRY", "us")
	v.SetDefault("FETCH_TIMEOUT", "15s")

	timeout, err := time.ParseDuration(strings.TrimSpace(v.GetString("FETCH_TIMEOUT")))
	if err != nil || timeout <= 0 {
		return nil, fmt.Errorf("config: invalid FETCH_TIMEOUT %q", v.GetString("FETCH_TIMEOUT"))
	}

	return &Config{
		Env:                 strings.ToLower(strings.TrimSpace(v.GetString("APP_ENV"))),
		Port:                v.GetString("PORT"),
		LogLevel:            v.GetString("LOG_LEVEL"),
		DatabaseURL:         strings.TrimSpace(v.GetString("DATABASE_URL")),
		RedisURL:            strings.TrimSpace(v.GetString("REDIS_URL")),
		AggregatorAPIKey:    v.GetString("AGGREGATOR_API_KEY"),
		HealthAdminKey:      v.GetString("HEALTH_ADMIN_KEY"),
		FrontendURLEndsWith: v.GetString("FRONTEND_URL_ENDS_WITH"),
		AggregateSchedule:   strings.TrimSpace(v.GetString("AGGREGATE_SCHEDULE")),
		Sources: SourcesConfig{
			RemoteOKURL:   v.GetString("REMOTEOK_URL"),
			RemotiveURL:   v.GetString("REMOTIVE_URL"),
			AdzunaURL:     v.GetString("ADZUNA_URL"),
			AdzunaAppID:   v.GetString("ADZUNA_APP_ID"),
			AdzunaAPIKey:  v.GetString("ADZUNA_API_KEY"),
			AdzunaCountry: v.GetString("ADZUNA_COUNTRY"),
			FetchTimeout:  timeout,
		},
	}, nil
}
