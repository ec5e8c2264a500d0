package dbconfig

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
)

// Config holds Postgres connection settings.
type Config struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"sslmode"`
}

// Default returns local development settings with no host, so the
// database stays disabled until one is configured.
func Default() Config {
	return Config{
		Port:     5432,
		User:     "postgres",
		Password: "postgres",
		Database: "tplauction",
		SSLMode:  "disable",
	}
}

// NewConfigFromEnv reads <prefix>_HOST, <prefix>_PORT and friends over the
// defaults.
func NewConfigFromEnv(prefix string) Config {
	return Default().WithEnv(prefix)
}

// WithEnv overrides c with whichever <prefix>_* variables are set. An
// unparsable port is ignored.
func (c Config) WithEnv(prefix string) Config {
	c.Host = getEnv(prefix+"_HOST", c.Host)
	if port, err := strconv.Atoi(os.Getenv(prefix + "_PORT")); err == nil {
		c.Port = port
	}
	c.User = getEnv(prefix+"_USER", c.User)
	c.Password = getEnv(prefix+"_PASSWORD", c.Password)
	c.Database = getEnv(prefix+"_NAME", c.Database)
	c.SSLMode = getEnv(prefix+"_SSLMODE", c.SSLMode)
	return c
}

// Enabled reports whether a host was configured.
func (c Config) Enabled() bool {
	return c.Host != ""
}

// DSN returns the Postgres connection URL.
func (c Config) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.Database,
		RawQuery: "sslmode=" + url.QueryEscape(c.SSLMode),
	}
	return u.String()
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
