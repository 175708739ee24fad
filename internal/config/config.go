package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	DatabaseURL     string
	Port            string
	LogLevel        string
	DictionaryPath  string
	BootstrapAPIKey string
	CheckRateLimit  int
	MaxBodyBytes    int64
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	return LoadFrom(nil)
}

// LoadFrom reads configuration from the provided map, falling back to os.Getenv
// for missing keys. If env is nil, all values come from os.Getenv.
func LoadFrom(env map[string]string) (*Config, error) {
	get := func(key string) string {
		if env != nil {
			return env[key]
		}
		return os.Getenv(key)
	}

	cfg := &Config{}

	// Required
	cfg.DatabaseURL = get("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("required environment variable DATABASE_URL is not set")
	}

	// Strings with defaults
	cfg.Port = getOrDefault(get, "PORT", "8085")
	cfg.LogLevel = getOrDefault(get, "LOG_LEVEL", "info")

	// Optional strings
	cfg.DictionaryPath = get("DICTIONARY_PATH")
	cfg.BootstrapAPIKey = get("BOOTSTRAP_API_KEY")

	// Ints with defaults
	var err error
	cfg.CheckRateLimit, err = getIntOrDefault(get, "CHECK_RATE_LIMIT", 60)
	if err != nil {
		return nil, err
	}
	cfg.MaxBodyBytes, err = getInt64OrDefault(get, "MAX_BODY_BYTES", 1<<20)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

func getOrDefault(get func(string) string, key, defaultVal string) string {
	if v := get(key); v != "" {
		return v
	}
	return defaultVal
}

func getIntOrDefault(get func(string) string, key string, defaultVal int) (int, error) {
	v := get(key)
	if v == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %w", key, err)
	}
	return n, nil
}

func getInt64OrDefault(get func(string) string, key string, defaultVal int64) (int64, error) {
	v := get(key)
	if v == "" {
		return defaultVal, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %w", key, err)
	}
	return n, nil
}
