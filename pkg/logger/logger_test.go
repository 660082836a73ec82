package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoggerInit(t *testing.T) {
	Convey("Given the default initializer", t, func() {
		So(Init(), ShouldBeNil)
		So(Get(), ShouldNotBeNil)
		So(Sync(), ShouldBeNil)
	})

	Convey("Given an unknown format", t, func() {
		err := InitWithWriter(&bytes.Buffer{}, "xml")
		So(err, ShouldNotBeNil)
		So(err.Error(), ShouldContainSubstring, "unknown log format")
	})
}

func TestLoggerJSON(t *testing.T) {
	Convey("Given a JSON logger writing to a buffer", t, func() {
		var buf bytes.Buffer
		So(InitWithWriter(&buf, "json"), ShouldBeNil)
		defer func() { _ = Init() }()

		Convey("When logging with a request id in the context", func() {
			ctx := WithRequestID(context.Background(), "req-1")
			Get().Info(ctx, "candidate created", Int64("id", 7), Error(errors.New("boom")))

			var entry map[string]any
			So(json.Unmarshal(buf.Bytes(), &entry), ShouldBeNil)

			Convey("Then fields, request id and source are present", func() {
				So(entry["msg"], ShouldEqual, "candidate created")
				So(entry["id"], ShouldEqual, 7)
				So(entry["request_id"], ShouldEqual, "req-1")
				So(entry["source"], ShouldContainSubstring, "logger_test.go")
			})
		})

		Convey("When the level filters the entry", func() {
			So(SetLevelString("error"), ShouldBeNil)
			defer func() { _ = SetLevelString("info") }()
			Get().Info(context.Background(), "hidden")
			So(buf.Len(), ShouldEqual, 0)
		})

		Convey("When using With and Named", func() {
			Named("api").With(String("driver", "memory")).Warn(context.Background(), "slow")
			out := buf.String()
			So(out, ShouldContainSubstring, `"driver":"memory"`)
			So(out, ShouldContainSubstring, `"api"`)
		})
	})
}

func TestSetLevelString(t *testing.T) {
	Convey("Given level names", t, func() {
		for _, lvl := range []string{"debug", "info", "", "warn", "WARNING", "error"} {
			So(SetLevelString(lvl), ShouldBeNil)
		}
		err := SetLevelString("verbose")
		So(err, ShouldNotBeNil)
		So(strings.Contains(err.Error(), "verbose"), ShouldBeTrue)
		_ = SetLevelString("info")
	})
}

func TestRequestID(t *testing.T) {
	Convey("Given a context without a request id", t, func() {
		So(RequestID(context.Background()), ShouldEqual, "")
	})
}

func TestNop(t *testing.T) {
	Convey("Nop discards without panicking", t, func() {
		l := Nop().Named("x").With(String("k", "v"))
		So(func() { l.Info(context.Background(), "dropped") }, ShouldNotPanic)
	})
}
