package config_test

import (
	"errors"
	"testing"
	"time"

	"github.com/okian/candidates/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default values", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
			convey.So(cfg.Timezone, convey.ShouldEqual, "UTC")
			convey.So(cfg.StorageDriver, convey.ShouldEqual, "memory")
			convey.So(cfg.TokenTTL(), convey.ShouldEqual, time.Hour)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
			convey.So(cfg.UsesDefaultSecrets(), convey.ShouldBeTrue)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given a default config", t, func() {
		cfg := config.New()

		cases := map[string]func(*config.Config){
			"empty addr":           func(c *config.Config) { c.Addr = "" },
			"unknown driver":       func(c *config.Config) { c.StorageDriver = "mongo" },
			"postgres without url": func(c *config.Config) { c.StorageDriver = "postgres" },
			"redis without url":    func(c *config.Config) { c.StorageDriver = "redis" },
			"bad timezone":         func(c *config.Config) { c.Timezone = "Mars/Olympus" },
			"bad log level":        func(c *config.Config) { c.LogLevel = "loud" },
			"bad log format":       func(c *config.Config) { c.LogFormat = "xml" },
			"no password":          func(c *config.Config) { c.AuthPassword = "" },
			"no jwt secret":        func(c *config.Config) { c.JWTSecret = "" },
			"zero ttl":             func(c *config.Config) { c.TokenTTLSeconds = 0 },
			"sqlite with default secrets": func(c *config.Config) {
				c.StorageDriver = "sqlite"
			},
			"postgres with default password": func(c *config.Config) {
				c.StorageDriver = "postgres"
				c.DatabaseURL = "postgres://localhost/candidates"
				c.JWTSecret = "k"
			},
			"redis with default jwt secret": func(c *config.Config) {
				c.StorageDriver = "redis"
				c.RedisURL = "redis://localhost:6379/0"
				c.AuthPassword = "pw"
			},
		}
		for name, mutate := range cases {
			convey.Convey("When "+name, func() {
				mutate(cfg)
				err := cfg.Validate()
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		}

		convey.Convey("When the driver is mixed case", func() {
			cfg.StorageDriver = " SQLite "
			cfg.AuthPassword = "pw"
			cfg.JWTSecret = "k"
			convey.So(cfg.Validate(), convey.ShouldBeNil)
			convey.So(cfg.StorageDriver, convey.ShouldEqual, "sqlite")
		})

		convey.Convey("When a persistent driver has its secrets changed", func() {
			cfg.StorageDriver = "sqlite"
			cfg.AuthPassword = "pw"
			cfg.JWTSecret = "k"
			convey.So(cfg.UsesDefaultSecrets(), convey.ShouldBeFalse)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("When the timezone is a real zone", func() {
			cfg.Timezone = "America/Sao_Paulo"
			loc, err := cfg.Location()
			convey.So(err, convey.ShouldBeNil)
			convey.So(loc.String(), convey.ShouldEqual, "America/Sao_Paulo")
		})
	})
}
