package requestclock

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/candidates/pkg/requesttime"
)

func TestRequestClock(t *testing.T) {
	Convey("Given a fixed clock", t, func() {
		fixed := time.Date(2025, 7, 20, 23, 59, 59, 0, time.UTC)
		var seen []time.Time

		h := Middleware(func() time.Time { return fixed })(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			seen = append(seen, requesttime.Now(r.Context()), requesttime.Now(r.Context()))
		}))
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

		Convey("Every read in the request sees the same instant", func() {
			So(seen, ShouldHaveLength, 2)
			So(seen[0], ShouldEqual, fixed)
			So(seen[1], ShouldEqual, fixed)
		})
	})

	Convey("Given a nil clock", t, func() {
		var (
			got time.Time
			ok  bool
		)
		h := Middleware(nil)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			got, ok = requesttime.From(r.Context())
		}))
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		So(ok, ShouldBeTrue)
		So(got.IsZero(), ShouldBeFalse)
	})
}
