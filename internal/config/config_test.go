package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8000", cfg.App.Port)
	assert.Equal(t, "postgres", cfg.DB.Driver)
	assert.Equal(t, "apidata", cfg.DB.DBName)
	assert.Equal(t, "London", cfg.Weather.City)
	assert.Equal(t, "USD", cfg.Currency.Base)
	assert.Equal(t, 5*time.Minute, cfg.Collector.Interval)
	assert.False(t, cfg.Redis.Enabled)
	require.NoError(t, cfg.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("REQUEST_INTERVAL", "15")
	t.Setenv("CITY", "Berlin")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("COLLECT_EXCLUSIVE", "true")
	t.Setenv("RATE_LIMIT_RPS", "not-a-number")

	cfg := Load()

	assert.Equal(t, 15*time.Minute, cfg.Collector.Interval)
	assert.Equal(t, "Berlin", cfg.Weather.City)
	assert.Equal(t, "sqlite", cfg.DB.Driver)
	assert.True(t, cfg.Collector.Exclusive)
	assert.Equal(t, 10, cfg.RateLimit.RequestsPerSecond)
	require.NoError(t, cfg.Validate())
}

func TestValidateRejectsBadSettings(t *testing.T) {
	cases := map[string]func(c *Config){
		"zero interval":       func(c *Config) { c.Collector.Interval = 0 },
		"unknown driver":      func(c *Config) { c.DB.Driver = "oracle" },
		"bad log level":       func(c *Config) { c.Log.Level = "loud" },
		"exclusive w/o redis": func(c *Config) { c.Collector.Exclusive = true },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Load()
			mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
