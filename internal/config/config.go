package config

import (
	"time"
)

type (
	Config struct {
		App                App                      `json:"app" mapstructure:"app"`
		Postgres           Postgres                 `json:"postgres" mapstructure:"postgres"`
		Redis              Redis                    `json:"redis" mapstructure:"redis"`
		MessageBroker      MessageBroker            `json:"message_broker" mapstructure:"message_broker"`
		ExponentialBackoff ExponentialBackOffConfig `json:"exponential_backoff" mapstructure:"exponential_backoff"`
		Ledger             LedgerConfig             `json:"ledger" mapstructure:"ledger"`
		Jobs               JobsConfig               `json:"jobs" mapstructure:"jobs"`
		SecretKey          string                   `json:"secret_key" mapstructure:"secret_key"`
		NewRelicLicenseKey string                   `json:"new_relic_license_key" mapstructure:"new_relic_license_key"`
	}

	App struct {
		Env             string        `json:"env" mapstructure:"env"`
		HTTPPort        int           `json:"http_port" mapstructure:"http_port"`
		HTTPTimeout     time.Duration `json:"http_timeout" mapstructure:"http_timeout"`
		GracefulTimeout time.Duration `json:"graceful_timeout" mapstructure:"graceful_timeout"`
		Name            string        `json:"name" mapstructure:"name"`
		LogOption       string        `json:"log_option" mapstructure:"log_option"`
		LogLevel        string        `json:"log_level" mapstructure:"log_level"`
	}

	Postgres struct {
		Write Database `json:"write" mapstructure:"write"`
		Read  Database `json:"read" mapstructure:"read"`
	}

	Database struct {
		DbHost            string `json:"db_host" mapstructure:"db_host"`
		DbPort            string `json:"db_port" mapstructure:"db_port"`
		DbUser            string `json:"db_user" mapstructure:"db_user"`
		DbPass            string `json:"db_pass" mapstructure:"db_pass"`
		DbName            string `json:"db_name" mapstructure:"db_name"`
		DbSchema          string `json:"db_schema" mapstructure:"db_schema"`
		MaxOpenConnection int    `json:"maxOpenConnections" mapstructure:"max_open_connections"`
		MaxIdleConnection int    `json:"maxIdleConnections" mapstructure:"max_idle_connections"`
		ConnMaxLifetime   int    `json:"connMaxLifetime" mapstructure:"conn_max_lifetime"`
	}

	Redis struct {
		Host     string `json:"host" mapstructure:"host"`
		Port     string `json:"port" mapstructure:"port"`
		Password string `json:"password" mapstructure:"password"`
		Db       int    `json:"db" mapstructure:"db"`
	}

	MessageBroker struct {
		Brokers           []string      `json:"brokers" mapstructure:"brokers"`
		TopicLedgerEvents string        `json:"topic_ledger_events" mapstructure:"topic_ledger_events"`
		MetricsFlush      time.Duration `json:"metrics_flush" mapstructure:"metrics_flush"`
	}

	ExponentialBackOffConfig struct {
		MaxRetries        uint64        `json:"max_retries" mapstructure:"max_retries"`
		MaxBackoffTime    time.Duration `json:"max_backoff_time" mapstructure:"max_backoff_time"`
		BackoffMultiplier float64       `json:"backoff_multiplier" mapstructure:"backoff_multiplier"`
	}

	LedgerConfig struct {
		// PayoutRequiresBalance rejects a payout larger than the user's balance in the
		// payout currency.
		PayoutRequiresBalance bool `json:"payout_requires_balance" mapstructure:"payout_requires_balance"`
		DefaultPageSize       int  `json:"default_page_size" mapstructure:"default_page_size"`
		MaxPageSize           int  `json:"max_page_size" mapstructure:"max_page_size"`
	}

	JobsConfig struct {
		BalanceReconSchedule string `json:"balance_recon_schedule" mapstructure:"balance_recon_schedule"`
	}
)
