package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const EnvPrefix = "AGENCY_LEDGER"

var DefaultSearchPaths = []string{"/config", "./config", "."}

type loadOptions struct {
	fileName    string
	searchPaths []string
	dotEnv      bool
}

type LoadOption func(*loadOptions)

func WithConfigFileName(name string) LoadOption {
	return func(o *loadOptions) { o.fileName = name }
}

func WithConfigFileSearchPaths(paths ...string) LoadOption {
	return func(o *loadOptions) { o.searchPaths = append(o.searchPaths, paths...) }
}

// WithDotEnv preloads a .env file from the working directory before reading the environment.
func WithDotEnv() LoadOption {
	return func(o *loadOptions) { o.dotEnv = true }
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "go-agency-ledger")
	v.SetDefault("app.env", "local")
	v.SetDefault("app.http_port", 8080)
	v.SetDefault("app.http_timeout", "30s")
	v.SetDefault("app.graceful_timeout", "10s")
	v.SetDefault("app.log_option", "stdout")
	v.SetDefault("app.log_level", "info")

	for _, role := range []string{"write", "read"} {
		v.SetDefault("postgres."+role+".db_host", "localhost")
		v.SetDefault("postgres."+role+".db_port", "5432")
		v.SetDefault("postgres."+role+".db_schema", "public")
		v.SetDefault("postgres."+role+".db_user", "")
		v.SetDefault("postgres."+role+".db_pass", "")
		v.SetDefault("postgres."+role+".db_name", "")
	}

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", "6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("secret_key", "")
	v.SetDefault("new_relic_license_key", "")

	v.SetDefault("message_broker.brokers", []string{"localhost:9092"})
	v.SetDefault("message_broker.topic_ledger_events", "ledger_events")
	v.SetDefault("message_broker.metrics_flush", "5s")

	v.SetDefault("exponential_backoff.max_retries", 3)
	v.SetDefault("exponential_backoff.max_backoff_time", "5s")
	v.SetDefault("exponential_backoff.backoff_multiplier", 1.5)

	v.SetDefault("ledger.payout_requires_balance", true)
	v.SetDefault("ledger.default_page_size", 20)
	v.SetDefault("ledger.max_page_size", 100)

	v.SetDefault("jobs.balance_recon_schedule", "@every 1h")
}

// Load reads the config file (if any), then overlays AGENCY_LEDGER_* environment variables.
// A missing config file is not an error.
func Load(opts ...LoadOption) (Config, error) {
	o := &loadOptions{fileName: "config"}
	for _, opt := range opts {
		opt(o)
	}
	if len(o.searchPaths) == 0 {
		o.searchPaths = DefaultSearchPaths
	}

	if o.dotEnv {
		// .env is optional outside local development
		_ = godotenv.Load()
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigName(o.fileName)
	for _, p := range o.searchPaths {
		v.AddConfigPath(p)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return cfg, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to decode config: %w", err)
	}

	return cfg, nil
}
