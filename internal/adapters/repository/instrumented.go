package repository

import (
	"context"
	"errors"
	"time"

	"github.com/okian/candidates/internal/domain/candidate"
	"github.com/okian/candidates/pkg/metrics"
)

// Instrumented decorates a Store with latency and error metrics.
type Instrumented struct {
	next   Store
	driver string
}

// NewInstrumented wraps next, labelling its metrics with driver.
func NewInstrumented(driver string, next Store) *Instrumented {
	return &Instrumented{next: next, driver: driver}
}

func (s *Instrumented) observe(op string, start time.Time, err error) {
	metrics.RecordRepositoryLatency(s.driver, op, float64(time.Since(start).Microseconds())/1000)
	if err != nil && !errors.Is(err, context.Canceled) {
		metrics.RecordRepositoryError(s.driver, op)
	}
}

// Save implements Store.
func (s *Instrumented) Save(ctx context.Context, c candidate.Candidate) (out candidate.Candidate, err error) {
	start := time.Now()
	defer func() { s.observe("save", start, err) }()
	return s.next.Save(ctx, c)
}

// FindAll implements Store.
func (s *Instrumented) FindAll(ctx context.Context) (out []candidate.Candidate, err error) {
	start := time.Now()
	defer func() { s.observe("find_all", start, err) }()
	return s.next.FindAll(ctx)
}

// Count implements Store.
func (s *Instrumented) Count(ctx context.Context) (n int, err error) {
	start := time.Now()
	defer func() { s.observe("count", start, err) }()
	return s.next.Count(ctx)
}

// Close implements Store.
func (s *Instrumented) Close() error {
	return s.next.Close()
}
