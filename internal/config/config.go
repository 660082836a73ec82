// Package config defines service configuration and its loading hooks.
package config

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// Timezone is the IANA zone whose calendar defines "today".
	Timezone string `koanf:"timezone"`

	// StorageDriver selects the backend: memory, postgres, sqlite or redis.
	StorageDriver string `koanf:"storage_driver"`
	DatabaseURL   string `koanf:"database_url"`
	SQLitePath    string `koanf:"sqlite_path"`
	RedisURL      string `koanf:"redis_url"`

	// AuthUsername and AuthPassword are the credentials accepted on the
	// candidate routes. The password is hashed at startup and never logged.
	AuthUsername string `koanf:"auth_username"`
	AuthPassword string `koanf:"auth_password"`

	// JWTSecret signs bearer tokens issued by POST /auth/token.
	JWTSecret       string `koanf:"jwt_secret"`
	TokenTTLSeconds int    `koanf:"token_ttl_seconds"`

	// ShutdownTimeoutSeconds bounds graceful HTTP shutdown.
	ShutdownTimeoutSeconds int `koanf:"shutdown_timeout_seconds"`
}

// Placeholder credentials shipped as defaults. They are only accepted with the
// memory driver.
const (
	defaultAuthPassword = "admin"
	defaultJWTSecret    = "change-me"
)

var (
	storageDrivers = []string{"memory", "postgres", "sqlite", "redis"}
	logLevels      = []string{"debug", "info", "warn", "warning", "error"}
	logFormats     = []string{"text", "json"}
)

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:               "info",
		LogFormat:              "text",
		Addr:                   ":8080",
		Timezone:               "UTC",
		StorageDriver:          "memory",
		SQLitePath:             "candidates.db",
		AuthUsername:           "admin",
		AuthPassword:           defaultAuthPassword,
		JWTSecret:              defaultJWTSecret,
		TokenTTLSeconds:        3600,
		ShutdownTimeoutSeconds: 10,
	}
}

// Location resolves Timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: timezone %q: %v", ErrInvalidConfig, c.Timezone, err)
	}
	return loc, nil
}

// TokenTTL returns the bearer token lifetime.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLSeconds) * time.Second
}

// ShutdownTimeout returns the graceful shutdown bound.
func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}

// UsesDefaultSecrets reports whether the password or the signing key is still
// the shipped placeholder.
func (c *Config) UsesDefaultSecrets() bool {
	return c.AuthPassword == defaultAuthPassword || c.JWTSecret == defaultJWTSecret
}

// Validate checks field values and cross-field requirements.
func (c *Config) Validate() error {
	c.StorageDriver = strings.ToLower(strings.TrimSpace(c.StorageDriver))
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))

	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case !slices.Contains(logLevels, c.LogLevel):
		return fmt.Errorf("%w: unknown log level %q", ErrInvalidConfig, c.LogLevel)
	case !slices.Contains(logFormats, c.LogFormat):
		return fmt.Errorf("%w: unknown log format %q", ErrInvalidConfig, c.LogFormat)
	case !slices.Contains(storageDrivers, c.StorageDriver):
		return fmt.Errorf("%w: unknown storage driver %q", ErrInvalidConfig, c.StorageDriver)
	case c.StorageDriver == "postgres" && c.DatabaseURL == "":
		return fmt.Errorf("%w: database_url is required for postgres", ErrInvalidConfig)
	case c.StorageDriver == "redis" && c.RedisURL == "":
		return fmt.Errorf("%w: redis_url is required for redis", ErrInvalidConfig)
	case c.AuthUsername == "" || c.AuthPassword == "":
		return fmt.Errorf("%w: auth_username and auth_password must be set", ErrInvalidConfig)
	case c.JWTSecret == "":
		return fmt.Errorf("%w: jwt_secret must not be empty", ErrInvalidConfig)
	case c.StorageDriver != "memory" && c.UsesDefaultSecrets():
		return fmt.Errorf("%w: auth_password and jwt_secret must be changed from their defaults for the %s driver",
			ErrInvalidConfig, c.StorageDriver)
	case c.TokenTTLSeconds <= 0:
		return fmt.Errorf("%w: token_ttl_seconds must be positive", ErrInvalidConfig)
	case c.ShutdownTimeoutSeconds <= 0:
		return fmt.Errorf("%w: shutdown_timeout_seconds must be positive", ErrInvalidConfig)
	}
	_, err := c.Location()
	return err
}
