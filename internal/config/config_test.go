package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://censor@localhost/censor?sslmode=disable")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "[REDACTED]", cfg.Censor.Replacement)
	assert.Equal(t, 100, cfg.Feed.BatchSize)
	assert.Equal(t, 90*time.Second, cfg.Feed.PingInterval)
	assert.Equal(t, 10*time.Second, cfg.Feed.MinReconnectInterval)
	assert.Equal(t, time.Minute, cfg.Feed.MaxReconnectInterval)
	assert.Equal(t, "file://db/migrations", cfg.DB.MigrationsPath)
	assert.Equal(t, "8080", cfg.HTTP.Port)
	assert.Equal(t, "censor.audit", cfg.Kafka.AuditTopic)
	assert.False(t, cfg.AuditEnabled())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://censor@localhost/censor")
	t.Setenv("CENSOR_REPLACEMENT", "***")
	t.Setenv("FEED_BATCH_SIZE", "10")
	t.Setenv("KAFKA_BOOTSTRAP_SERVERS", "localhost:9092")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "***", cfg.Censor.Replacement)
	assert.Equal(t, 10, cfg.Feed.BatchSize)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.True(t, cfg.AuditEnabled())
}

func TestLoad_Invalid(t *testing.T) {
	tcs := []struct {
		name string
		env  map[string]string
	}{
		{
			name: "missing database url",
			env:  map[string]string{"DATABASE_URL": ""},
		},
		{
			name: "zero batch size",
			env:  map[string]string{"FEED_BATCH_SIZE": "0"},
		},
		{
			name: "reconnect range inverted",
			env: map[string]string{
				"FEED_MIN_RECONNECT_INTERVAL": "1m",
				"FEED_MAX_RECONNECT_INTERVAL": "10s",
			},
		},
		{
			name: "unknown log format",
			env:  map[string]string{"LOG_FORMAT": "xml"},
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("DATABASE_URL", "postgres://censor@localhost/censor")
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			assert.Error(t, err)
		})
	}
}
