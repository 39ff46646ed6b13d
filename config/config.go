package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DEFAULT_PORT         = 8080
	DEFAULT_API_BASE_URL = "http://localhost:8000"
	DEFAULT_TOPOJSON_URL = "https://cdn.jsdelivr.net/npm/us-atlas@3/states-10m.json"
	DEFAULT_CACHE_TTL    = 10 * time.Minute
	DEFAULT_HTTP_TIMEOUT = 15 * time.Second
)

// Config holds everything the dashboard reads from the environment.
type Config struct {
	Env  string
	Port int

	APIBaseURL      string
	APIClientID     string
	APIClientSecret string
	APITokenURL     string
	HTTPTimeout     time.Duration

	TopoJSONURL  string
	TopoJSONPath string

	CacheTTL       time.Duration
	ValkeyAddress  string
	ValkeyPassword string
	ValkeyTLS      bool

	RedditClientID     string
	RedditClientSecret string

	LogLevel string
}

// APIAuthEnabled reports whether backend calls go through OAuth2 client credentials.
func (c Config) APIAuthEnabled() bool {
	return c.APIClientID != "" && c.APIClientSecret != "" && c.APITokenURL != ""
}

func (c Config) RedditEnabled() bool {
	return c.RedditClientID != "" && c.RedditClientSecret != ""
}

func (c Config) ValkeyEnabled() bool {
	return c.ValkeyAddress != ""
}

// Load reads the configuration from the process environment. Call LoadEnv
// first to pull in the env file for the current APP_ENV.
func Load() (Config, error) {
	cfg := Config{
		Env:                getEnv("APP_ENV", "dev"),
		APIBaseURL:         strings.TrimRight(getEnv("API_BASE_URL", DEFAULT_API_BASE_URL), "/"),
		APIClientID:        os.Getenv("API_CLIENT_ID"),
		APIClientSecret:    os.Getenv("API_CLIENT_SECRET"),
		APITokenURL:        os.Getenv("API_TOKEN_URL"),
		TopoJSONURL:        getEnv("TOPOJSON_URL", DEFAULT_TOPOJSON_URL),
		TopoJSONPath:       os.Getenv("TOPOJSON_PATH"),
		ValkeyAddress:      os.Getenv("VALKEY_INIT_ADDRESS"),
		ValkeyPassword:     os.Getenv("VALKEY_PASSWORD"),
		ValkeyTLS:          os.Getenv("VALKEY_TLS") == "true",
		RedditClientID:     os.Getenv("REDDIT_CLIENT_ID"),
		RedditClientSecret: os.Getenv("REDDIT_CLIENT_SECRET"),
		LogLevel:           strings.ToLower(getEnv("LOG_LEVEL", "info")),
	}

	port, err := getInt("PORT", DEFAULT_PORT)
	if err != nil {
		return Config{}, err
	}
	if port <= 0 || port > 65535 {
		return Config{}, fmt.Errorf("[Config] PORT out of range: %d", port)
	}
	cfg.Port = port

	if cfg.CacheTTL, err = getDuration("CACHE_TTL", DEFAULT_CACHE_TTL); err != nil {
		return Config{}, err
	}
	if cfg.HTTPTimeout, err = getDuration("HTTP_TIMEOUT", DEFAULT_HTTP_TIMEOUT); err != nil {
		return Config{}, err
	}

	if cfg.APIBaseURL == "" {
		return Config{}, errors.New("[Config] API_BASE_URL must not be empty")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("[Config] invalid %s %q: %w", key, raw, err)
	}
	return v, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("[Config] invalid %s %q: %w", key, raw, err)
	}
	if v < 0 {
		return 0, fmt.Errorf("[Config] %s must not be negative", key)
	}
	return v, nil
}
