package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"APP_ENV", "LOG_LEVEL", "HTTP_ADDR", "STORAGE_MODE", "MONGO_URI", "MONGO_DB",
	"KAFKA_BROKERS", "KAFKA_TOPIC_PREFIX", "OUTBOX_POLL_INTERVAL", "RETRY_BACKOFF",
	"FIXTURES_PATH", "PRICING_POLICY", "PRICE_ROUNDING_PLACES", "SEARCH_CONCURRENCY",
	"QUERY_TIMEOUT", "SHUTDOWN_TIMEOUT", "CORS_ORIGINS",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, StorageMemory, cfg.StorageMode)
	assert.Equal(t, int32(2), cfg.RoundingPlaces)
	assert.Equal(t, 8, cfg.SearchConcurrency)
	assert.Equal(t, 500*time.Millisecond, cfg.OutboxPollInterval)
	assert.Equal(t, []time.Duration{time.Second, 5 * time.Second, 30 * time.Second}, cfg.RetryBackoff)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.False(t, cfg.KafkaEnabled())
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORAGE_MODE", "Mongo")
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("RETRY_BACKOFF", "2s, ,1m")
	t.Setenv("PRICE_ROUNDING_PLACES", "3")
	t.Setenv("QUERY_TIMEOUT", "750ms")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StorageMongo, cfg.StorageMode)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.KafkaEnabled())
	assert.Equal(t, []time.Duration{2 * time.Second, time.Minute}, cfg.RetryBackoff)
	assert.Equal(t, int32(3), cfg.RoundingPlaces)
	assert.Equal(t, 750*time.Millisecond, cfg.QueryTimeout)
}

func TestLoadErrors(t *testing.T) {
	cases := map[string]map[string]string{
		"mongo without uri": {"STORAGE_MODE": "mongo"},
		"unknown storage":   {"STORAGE_MODE": "redis"},
		"bad duration":      {"OUTBOX_POLL_INTERVAL": "soon"},
		"bad backoff":       {"RETRY_BACKOFF": "1s,later"},
		"bad places":        {"PRICE_ROUNDING_PLACES": "two"},
		"places range":      {"PRICE_ROUNDING_PLACES": "12"},
		"zero places":       {"PRICE_ROUNDING_PLACES": "0"},
		"no concurrency":    {"SEARCH_CONCURRENCY": "0"},
		"bad query timeout": {"QUERY_TIMEOUT": "-"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
