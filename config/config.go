package config

import (
	"fmt"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL  string `env:"DATABASE_URL"`
	DatabaseName string `env:"DATABASE_NAME"`

	WeatherAPIKey    string        `env:"OPENWEATHER_API_KEY"`
	WeatherBaseURL   string        `env:"OPENWEATHER_BASE_URL,default=https://api.openweathermap.org"`
	WeatherTimeout   time.Duration `env:"WEATHER_TIMEOUT,default=10s"`
	WeatherRateLimit float64       `env:"WEATHER_RATE_LIMIT,default=5"`
	WeatherRateBurst int           `env:"WEATHER_RATE_BURST,default=5"`
	WeatherCacheTTL  time.Duration `env:"WEATHER_CACHE_TTL,default=10m"`
	RedisURL         string        `env:"REDIS_URL"`

	Port     string `env:"PORT,default=8000"`
	LogLevel string `env:"LOG_LEVEL,default=info"`
	Env      string `env:"APP_ENV,default=development"`
}

// Load reads .env when present, then the process environment.
func Load() (Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	// Strict decoding fails on unparsable values instead of leaving the field
	// zero. Fields with defaults are always set, so the decoder never sees an
	// empty target.
	var cfg Config
	if err := envdecode.StrictDecode(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode environment: %w", err)
	}
	return cfg, nil
}

// StoreConfigured reports whether both database settings are present.
func (c Config) StoreConfigured() bool {
	return c.DatabaseURL != "" && c.DatabaseName != ""
}

// WeatherMock reports whether weather lookups use the built-in mock.
func (c Config) WeatherMock() bool {
	return c.WeatherAPIKey == ""
}

func (c Config) Production() bool {
	return c.Env == "production"
}
