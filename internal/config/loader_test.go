package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/candidates/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars(t)

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.StorageDriver, convey.ShouldEqual, "memory")
				convey.So(cfg.TokenTTLSeconds, convey.ShouldEqual, 3600)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			t.Setenv("CANDIDATES_ADDR", ":9090")
			t.Setenv("CANDIDATES_STORAGE_DRIVER", "sqlite")
			t.Setenv("CANDIDATES_SQLITE_PATH", "/tmp/c.db")
			t.Setenv("CANDIDATES_TOKEN_TTL_SECONDS", "60")
			t.Setenv("CANDIDATES_TIMEZONE", "Europe/Lisbon")
			t.Setenv("CANDIDATES_AUTH_PASSWORD", "pw")
			t.Setenv("CANDIDATES_JWT_SECRET", "k")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.StorageDriver, convey.ShouldEqual, "sqlite")
				convey.So(cfg.SQLitePath, convey.ShouldEqual, "/tmp/c.db")
				convey.So(cfg.TokenTTLSeconds, convey.ShouldEqual, 60)
				convey.So(cfg.Timezone, convey.ShouldEqual, "Europe/Lisbon")
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			path := writeConfigFile(t, `
addr: ":7070"
storage_driver: redis
redis_url: redis://localhost:6379/0
auth_username: ops
jwt_secret: file-secret
`)
			t.Setenv("CANDIDATES_CONFIG", path)
			t.Setenv("CANDIDATES_ADDR", ":6060")
			t.Setenv("CANDIDATES_AUTH_PASSWORD", "env-pw")

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":6060")
				convey.So(cfg.StorageDriver, convey.ShouldEqual, "redis")
				convey.So(cfg.RedisURL, convey.ShouldEqual, "redis://localhost:6379/0")
				convey.So(cfg.AuthUsername, convey.ShouldEqual, "ops")
				convey.So(cfg.AuthPassword, convey.ShouldEqual, "env-pw")
				convey.So(cfg.JWTSecret, convey.ShouldEqual, "file-secret")
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			t.Setenv("CANDIDATES_CONFIG", writeConfigFile(t, `invalid: yaml: content: [`))

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			t.Setenv("CANDIDATES_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

			_, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When a persistent driver keeps the placeholder secrets", func() {
			t.Setenv("CANDIDATES_STORAGE_DRIVER", "sqlite")

			_, err := config.Load(ctx)

			convey.Convey("Then loading is refused", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "jwt_secret")
			})
		})

		convey.Convey("When the loaded values are invalid", func() {
			t.Setenv("CANDIDATES_STORAGE_DRIVER", "postgres")

			_, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

// clearConfigEnvVars unsets inherited CANDIDATES_ variables for the test.
func clearConfigEnvVars(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"CANDIDATES_CONFIG", "CANDIDATES_ADDR", "CANDIDATES_STORAGE_DRIVER",
		"CANDIDATES_SQLITE_PATH", "CANDIDATES_TOKEN_TTL_SECONDS", "CANDIDATES_TIMEZONE",
		"CANDIDATES_DATABASE_URL", "CANDIDATES_REDIS_URL",
		"CANDIDATES_AUTH_USERNAME", "CANDIDATES_AUTH_PASSWORD", "CANDIDATES_JWT_SECRET",
	} {
		t.Setenv(key, "")
		_ = os.Unsetenv(key)
	}
}
