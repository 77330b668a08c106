package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
)

type Config struct {
	App struct {
		Port        string
		Debug       bool
		FrontendURL string
	}
	DB struct {
		Driver   string
		Host     string
		Port     string
		User     string
		Password string
		DBName   string
		SSLMode  string
		Path     string
	}
	Redis struct {
		Enabled  bool
		Host     string
		Port     string
		Password string
		DB       int
	}
	Weather struct {
		APIKey string
		URL    string
		City   string
	}
	Currency struct {
		APIKey string
		URL    string
		Base   string
	}
	Collector struct {
		// Interval between collection cycles; REQUEST_INTERVAL is given in minutes.
		Interval  time.Duration
		Exclusive bool
	}
	RateLimit struct {
		RequestsPerSecond int
		Burst             int
	}
	Log struct {
		Level     string
		ErrorFile string
	}
}

func Load() *Config {
	cfg := &Config{}

	// App
	cfg.App.Port = getEnv("PORT", "8000")
	cfg.App.Debug = getEnvAsBool("DEBUG", false)
	cfg.App.FrontendURL = getEnv("FRONTEND_URL", "http://localhost:3000")

	// DB
	cfg.DB.Driver = getEnv("DB_DRIVER", "postgres")
	cfg.DB.Host = getEnv("DB_HOST", "localhost")
	cfg.DB.Port = getEnv("DB_PORT", "5432")
	cfg.DB.User = getEnv("DB_USER", "postgres")
	cfg.DB.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.DB.DBName = getEnv("DB_NAME", "apidata")
	cfg.DB.SSLMode = getEnv("DB_SSLMODE", "disable")
	cfg.DB.Path = getEnv("DB_PATH", "apidata.db")

	// Redis
	cfg.Redis.Enabled = getEnvAsBool("REDIS_ENABLED", false)
	cfg.Redis.Host = getEnv("REDIS_HOST", "localhost")
	cfg.Redis.Port = getEnv("REDIS_PORT", "6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = getEnvAsInt("REDIS_DB", 0)

	// Upstream APIs
	cfg.Weather.APIKey = getEnv("WEATHER_API_KEY", "")
	cfg.Weather.URL = getEnv("WEATHER_API_URL", "http://api.openweathermap.org/data/2.5/weather")
	cfg.Weather.City = getEnv("CITY", "London")
	cfg.Currency.APIKey = getEnv("CURRENCY_API_KEY", "")
	cfg.Currency.URL = getEnv("CURRENCY_API_URL", "https://api.exchangerate-api.com/v4/latest/USD")
	cfg.Currency.Base = "USD"

	// Collector
	cfg.Collector.Interval = time.Duration(getEnvAsInt("REQUEST_INTERVAL", 5)) * time.Minute
	cfg.Collector.Exclusive = getEnvAsBool("COLLECT_EXCLUSIVE", false)

	// Rate Limit
	cfg.RateLimit.RequestsPerSecond = getEnvAsInt("RATE_LIMIT_RPS", 10)
	cfg.RateLimit.Burst = getEnvAsInt("RATE_LIMIT_BURST", 20)

	// Logging
	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.ErrorFile = getEnv("LOG_ERROR_FILE", "error.log")

	return cfg
}

// Validate reports settings the service cannot start with.
func (c *Config) Validate() error {
	if c.Collector.Interval <= 0 {
		return fmt.Errorf("REQUEST_INTERVAL must be positive, got %v", c.Collector.Interval)
	}

	switch c.DB.Driver {
	case "postgres", "mysql", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DB.Driver)
	}

	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL %q", c.Log.Level)
	}

	if c.Collector.Exclusive && !c.Redis.Enabled {
		return fmt.Errorf("COLLECT_EXCLUSIVE requires REDIS_ENABLED")
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
