// Package config handles application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
)

// Storage drivers.
const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
)

// Config holds the application configuration.
type Config struct {
	TelegramBotToken string        `validate:"required"`
	StorageDriver    string        `validate:"oneof=file sqlite"`
	StopwordsDir     string        `validate:"required_if=StorageDriver file"`
	DatabasePath     string        `validate:"required_if=StorageDriver sqlite"`
	LogLevel         string        `validate:"oneof=debug info warn error"`
	LogFile          string        `validate:"-"`
	DedupCacheSize   int           `validate:"min=1"`
	DeleteDelay      time.Duration `validate:"min=0"`
	RequestTimeout   time.Duration `validate:"gt=0"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		StorageDriver:    envOrDefault("STORAGE_DRIVER", DriverFile),
		StopwordsDir:     envOrDefault("STOPWORDS_DIR", "./stopwords"),
		DatabasePath:     envOrDefault("DATABASE_PATH", "./data/bot.db"),
		LogLevel:         envOrDefault("LOG_LEVEL", "info"),
		LogFile:          os.Getenv("LOG_FILE"),
	}

	var err error
	if cfg.DedupCacheSize, err = intEnv("DEDUP_CACHE_SIZE", 1000); err != nil {
		return nil, err
	}
	if cfg.DeleteDelay, err = durationEnv("DELETE_DELAY", 500*time.Millisecond); err != nil {
		return nil, err
	}
	if cfg.RequestTimeout, err = durationEnv("REQUEST_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func intEnv(key string, def int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return n, nil
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return d, nil
}
