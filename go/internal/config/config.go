// Package config assembles the console settings from defaults, an optional
// YAML file and the environment, in that order of precedence.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mcdev12/tplauction/go/clients/auction_backend_client"
	"github.com/mcdev12/tplauction/go/internal/dbconfig"
)

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "console" or "json"
	File   string `yaml:"file"`
}

type Config struct {
	Port           string          `yaml:"port"`
	BackendURL     string          `yaml:"backend_url"`
	BackendTimeout time.Duration   `yaml:"backend_timeout"`
	Passcode       string          `yaml:"passcode"`
	SessionSecret  string          `yaml:"session_secret"`
	RedisURL       string          `yaml:"redis_url"`
	NATSURL        string          `yaml:"nats_url"`
	StampDuration  time.Duration   `yaml:"stamp_duration"`
	TeamPalette    []string        `yaml:"team_palette"`
	AllowedOrigins []string        `yaml:"allowed_origins"`
	Journal        dbconfig.Config `yaml:"journal"`
	Log            LogConfig       `yaml:"log"`
}

// Default returns the settings used when nothing else is configured.
func Default() Config {
	return Config{
		Port:           "8080",
		BackendURL:     auction_backend_client.BaseURL,
		BackendTimeout: 30 * time.Second,
		Passcode:       "abc123",
		SessionSecret:  "tplauction-dev-session-secret",
		AllowedOrigins: []string{"*"},
		Journal:        dbconfig.Default(),
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load builds the configuration. path may be empty; a missing file at a
// non-empty path is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.BackendURL = getEnv("BACKEND_URL", cfg.BackendURL)
	cfg.BackendTimeout = getEnvAsDuration("BACKEND_TIMEOUT", cfg.BackendTimeout)
	cfg.Passcode = getEnv("CONSOLE_PASSCODE", cfg.Passcode)
	cfg.SessionSecret = getEnv("SESSION_SECRET", cfg.SessionSecret)
	cfg.RedisURL = getEnv("REDIS_URL", cfg.RedisURL)
	cfg.NATSURL = getEnv("NATS_URL", cfg.NATSURL)
	cfg.StampDuration = getEnvAsDuration("STAMP_DURATION", cfg.StampDuration)
	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		cfg.AllowedOrigins = strings.Split(origins, ",")
	}

	cfg.Journal = cfg.Journal.WithEnv("JOURNAL_DB")

	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getEnv("LOG_FORMAT", cfg.Log.Format)
	cfg.Log.File = getEnv("LOG_FILE", cfg.Log.File)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
