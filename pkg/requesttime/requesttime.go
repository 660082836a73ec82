// Package requesttime carries a single "now" through a context so every
// date-dependent computation in one unit of work agrees on what today is.
package requesttime

import (
	"context"
	"time"
)

type nowKey struct{}

// WithTime injects t into ctx.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, nowKey{}, t)
}

// From returns the captured time and whether one was set.
func From(ctx context.Context) (time.Time, bool) {
	t, ok := ctx.Value(nowKey{}).(time.Time)
	return t, ok
}

// Now returns the captured time, or time.Now when none was set.
func Now(ctx context.Context) time.Time {
	if t, ok := From(ctx); ok {
		return t
	}
	return time.Now()
}
