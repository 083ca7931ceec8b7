package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DB_DRIVER", "sqlite")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 5, cfg.TxMaxAttempts)
	assert.Equal(t, 20*time.Millisecond, cfg.TxRetryBase)
	assert.Equal(t, 65536, cfg.PasswordIter)
	assert.False(t, cfg.OneBookingPerDay)
	assert.Equal(t, time.Hour, cfg.SessionTTL())
}

func TestLoadValidatesDriverAndServerSettings(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DB_DRIVER", "sqlite")
	cfg, err := Load()
	require.NoError(t, err)
	assert.ErrorContains(t, cfg.ValidateServer(), "JWT_SECRET")

	t.Setenv("DB_DRIVER", "postgres")
	_, err = Load()
	assert.ErrorContains(t, err, "DB_DRIVER")

	t.Setenv("DB_DRIVER", "mysql")
	t.Setenv("DB_USER", "")
	_, err = Load()
	assert.ErrorContains(t, err, "DB_USER")
}

func TestBrokerURLPrefersRabbitMQ(t *testing.T) {
	assert.Equal(t, "amqp://a", Config{RabbitURL: "amqp://a", AMQPURL: "amqp://b"}.BrokerURL())
	assert.Equal(t, "amqp://b", Config{AMQPURL: "amqp://b"}.BrokerURL())
	assert.Contains(t, Config{}.BrokerURL(), "localhost:5672")
}

func TestRateLimitNormalize(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "2s")
	t.Setenv("RATE_LIMIT_TTL", "1s")
	cfg := LoadRateLimitConfig()
	assert.Equal(t, 1, cfg.Capacity)
	assert.Equal(t, 10*time.Second, cfg.TTL)
	assert.Equal(t, "ip_session_route", cfg.KeyStrategy)
}

func TestRedisOptionsFromEnv(t *testing.T) {
	t.Setenv("REDIS_ADDR", "cache:6380")
	t.Setenv("REDIS_DB", "3")
	opts := RedisOptions()
	assert.Equal(t, "cache:6380", opts.Addr)
	assert.Equal(t, 3, opts.DB)
	assert.Nil(t, opts.TLSConfig)
}
