package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type DB struct {
	URL             string        `env:"DATABASE_URL,required,notEmpty"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"16"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"8"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"1h"`
	ConnMaxIdleTime time.Duration `env:"DB_CONN_MAX_IDLE_TIME" envDefault:"15m"`
	MigrationsPath  string        `env:"MIGRATIONS_PATH" envDefault:"file://db/migrations"`
}

type Feed struct {
	MinReconnectInterval time.Duration `env:"FEED_MIN_RECONNECT_INTERVAL" envDefault:"10s"`
	MaxReconnectInterval time.Duration `env:"FEED_MAX_RECONNECT_INTERVAL" envDefault:"1m"`
	PingInterval         time.Duration `env:"FEED_PING_INTERVAL" envDefault:"90s"`
	BatchSize            int           `env:"FEED_BATCH_SIZE" envDefault:"100"`
}

type Censor struct {
	Replacement string `env:"CENSOR_REPLACEMENT" envDefault:"[REDACTED]"`
}

// Kafka audit is disabled when BootstrapServers is empty.
type Kafka struct {
	BootstrapServers string        `env:"KAFKA_BOOTSTRAP_SERVERS"`
	AuditTopic       string        `env:"KAFKA_AUDIT_TOPIC" envDefault:"censor.audit"`
	DeliveryTimeout  time.Duration `env:"KAFKA_DELIVERY_TIMEOUT" envDefault:"5s"`
}

type HTTP struct {
	Port string `env:"PORT" envDefault:"8080"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"text"`
}

type Config struct {
	DB     DB
	Feed   Feed
	Censor Censor
	Kafka  Kafka
	HTTP   HTTP
	Log    Log
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) AuditEnabled() bool {
	return c.Kafka.BootstrapServers != ""
}

func (c *Config) validate() error {
	if c.Censor.Replacement == "" {
		return errors.New("CENSOR_REPLACEMENT must not be empty")
	}
	if c.Feed.BatchSize < 1 {
		return fmt.Errorf("FEED_BATCH_SIZE must be positive, got %d", c.Feed.BatchSize)
	}
	if c.Feed.MinReconnectInterval <= 0 || c.Feed.MaxReconnectInterval < c.Feed.MinReconnectInterval {
		return fmt.Errorf("invalid feed reconnect interval range %s..%s",
			c.Feed.MinReconnectInterval, c.Feed.MaxReconnectInterval)
	}
	if c.Feed.PingInterval <= 0 {
		return fmt.Errorf("FEED_PING_INTERVAL must be positive, got %s", c.Feed.PingInterval)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown LOG_FORMAT %q", c.Log.Format)
	}
	return nil
}
