package requesttime

import (
	"context"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestRequestTime(t *testing.T) {
	Convey("Given a context without a captured time", t, func() {
		before := time.Now()
		got := Now(context.Background())

		Convey("Now falls back to the wall clock", func() {
			So(got.Before(before), ShouldBeFalse)
			_, ok := From(context.Background())
			So(ok, ShouldBeFalse)
		})
	})

	Convey("Given WithTime", t, func() {
		at := time.Date(2000, 2, 29, 0, 0, 0, 0, time.UTC)
		ctx := WithTime(context.Background(), at)

		So(Now(ctx), ShouldEqual, at)
		got, ok := From(ctx)
		So(ok, ShouldBeTrue)
		So(got, ShouldEqual, at)
	})
}
