package repository

import (
	"context"
	"fmt"
	"strings"
)

// Config selects and configures a storage backend.
type Config struct {
	Driver      string
	DatabaseURL string
	SQLitePath  string
	RedisURL    string
}

// Open builds the Store named by cfg.Driver, wrapped with metrics.
func Open(ctx context.Context, cfg Config) (Store, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	if driver == "" {
		driver = DriverMemory
	}

	var (
		store Store
		err   error
	)
	switch driver {
	case DriverMemory:
		store = NewMemoryStore()
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("postgres driver requires a database url")
		}
		store, err = OpenPostgres(ctx, cfg.DatabaseURL)
	case DriverSQLite:
		path := cfg.SQLitePath
		if path == "" {
			path = ":memory:"
		}
		store, err = OpenSQLite(ctx, path)
	case DriverRedis:
		if cfg.RedisURL == "" {
			return nil, fmt.Errorf("redis driver requires a redis url")
		}
		store, err = OpenRedis(ctx, cfg.RedisURL)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
	if err != nil {
		return nil, err
	}
	return NewInstrumented(driver, store), nil
}
