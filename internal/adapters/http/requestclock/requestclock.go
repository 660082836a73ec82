// Package requestclock pins a single "now" per HTTP request.
package requestclock

import (
	"net/http"
	"time"

	"github.com/okian/candidates/pkg/requesttime"
)

// Clock returns the current time. Tests substitute a fixed one.
type Clock func() time.Time

// Middleware stores the time returned by clock in the request context, where
// requesttime.Now reads it. A nil clock uses time.Now.
func Middleware(clock Clock) func(http.Handler) http.Handler {
	if clock == nil {
		clock = time.Now
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := requesttime.WithTime(r.Context(), clock())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
