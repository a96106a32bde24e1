package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds server runtime settings.
type Config struct {
	Addr      string        `json:"addr"`
	LogDir    string        `json:"log_dir"`
	RateRPS   float64       `json:"rate_rps"`
	RateBurst int           `json:"rate_burst"`
	CacheTTL  time.Duration `json:"cache_ttl"`
	RedisURL  string        `json:"redis_url"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Addr:      "0.0.0.0:8000",
		LogDir:    "logs",
		RateRPS:   20,
		RateBurst: 40,
		CacheTTL:  10 * time.Minute,
	}
}

// Load returns Default() overridden by FALCON_* environment variables and
// REDIS_URL. A .env file in the working directory is loaded first if present;
// variables already set in the environment win.
func Load() *Config {
	_ = godotenv.Load()

	c := Default()
	if v := env("FALCON_ADDR"); v != "" {
		c.Addr = v
	}
	if v := env("FALCON_LOG_DIR"); v != "" {
		c.LogDir = v
	}
	if v, err := strconv.ParseFloat(env("FALCON_RATE_RPS"), 64); err == nil && v >= 0 {
		c.RateRPS = v
	}
	if v, err := strconv.Atoi(env("FALCON_RATE_BURST")); err == nil && v > 0 {
		c.RateBurst = v
	}
	if v, err := time.ParseDuration(env("FALCON_CACHE_TTL")); err == nil && v >= 0 {
		c.CacheTTL = v
	}
	c.RedisURL = env("REDIS_URL")
	return c
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}
