package main

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/okian/candidates/internal/config"
	"github.com/okian/candidates/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func testConfig() *config.Config {
	cfg := config.New()
	cfg.AuthUsername = "ops"
	cfg.AuthPassword = "pw"
	cfg.JWTSecret = "k"
	return cfg
}

func TestNewApplication(t *testing.T) {
	convey.Convey("Given the default in-memory configuration", t, func() {
		ctx := context.Background()
		app, err := newApplication(ctx, testConfig(), logger.Nop())
		convey.So(err, convey.ShouldBeNil)
		defer app.svc.Stop()

		convey.Convey("Then the candidate routes require credentials", func() {
			rec := httptest.NewRecorder()
			app.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/candidatos", nil))
			convey.So(rec.Code, convey.ShouldEqual, http.StatusUnauthorized)
		})

		convey.Convey("And an authenticated caller can create a candidate", func() {
			today := time.Now().UTC()
			birth := today.AddDate(-30, 0, -10).Format("2006-01-02")
			req := httptest.NewRequest(http.MethodPost, "/candidatos",
				strings.NewReader(`{"firstName":"Ana","lastName":"Silva","age":30,"birthDate":"`+birth+`"}`))
			req.SetBasicAuth("ops", "pw")
			rec := httptest.NewRecorder()
			app.handler.ServeHTTP(rec, req)
			convey.So(rec.Code, convey.ShouldEqual, http.StatusCreated)
		})

		convey.Convey("And the docs are served", func() {
			rec := httptest.NewRecorder()
			app.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/openapi.yaml", nil))
			convey.So(rec.Code, convey.ShouldEqual, http.StatusOK)
		})
	})

	convey.Convey("Given an unknown storage driver", t, func() {
		cfg := testConfig()
		cfg.StorageDriver = "cassandra"
		_, err := newApplication(context.Background(), cfg, logger.Nop())
		convey.So(err, convey.ShouldNotBeNil)
	})
}

func TestRunStopsOnCancel(t *testing.T) {
	convey.Convey("Given a server on a free port", t, func() {
		l, err := net.Listen("tcp", "127.0.0.1:0")
		convey.So(err, convey.ShouldBeNil)
		addr := l.Addr().String()
		convey.So(l.Close(), convey.ShouldBeNil)

		cfg := testConfig()
		cfg.Addr = addr
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- run(ctx, cfg, logger.Nop()) }()

		var resp *http.Response
		for i := 0; i < 50; i++ {
			resp, err = http.Get("http://" + addr + "/stats")
			if err == nil {
				break
			}
			time.Sleep(20 * time.Millisecond)
		}
		convey.So(err, convey.ShouldBeNil)
		_ = resp.Body.Close()
		convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)

		cancel()
		select {
		case err := <-done:
			convey.So(err, convey.ShouldBeNil)
		case <-time.After(5 * time.Second):
			t.Fatal("run did not return after cancel")
		}
	})
}
