// Package service implements the candidate operations exposed by the HTTP
// API: validated creation, enriched listing and age statistics.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/okian/candidates/internal/adapters/repository"
	"github.com/okian/candidates/internal/domain/candidate"
	"github.com/okian/candidates/internal/domain/stats"
	"github.com/okian/candidates/pkg/logger"
	"github.com/okian/candidates/pkg/metrics"
	"github.com/okian/candidates/pkg/requesttime"
)

// Store is the persistence the service depends on.
type Store interface {
	Save(ctx context.Context, c candidate.Candidate) (candidate.Candidate, error)
	FindAll(ctx context.Context) ([]candidate.Candidate, error)
	Count(ctx context.Context) (int, error)
	Close() error
}

// Service coordinates the domain engine and the store.
type Service struct {
	mu sync.RWMutex

	store    Store
	driver   string
	clock    func() time.Time
	location *time.Location

	started bool
	logger  logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStore sets the candidate store. driver labels it in /stats.
func WithStore(driver string, store Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
			s.driver = driver
		}
	}
}

// WithClock sets the time source used when a request carries no captured time.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithLocation sets the zone whose calendar defines today.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.location = loc
		}
	}
}

// New constructs a Service. Without WithStore it keeps candidates in memory.
func New(opts ...Option) *Service {
	s := &Service{
		clock:    time.Now,
		location: time.UTC,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.store == nil {
		s.driver = repository.DriverMemory
		s.store = repository.NewInstrumented(s.driver, repository.NewMemoryStore())
	}
	return s
}

// Start marks the service ready and primes the stored candidates gauge.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	n, err := s.store.Count(ctx)
	if err != nil {
		return fmt.Errorf("%w: count candidates: %w", ErrStorage, err)
	}
	metrics.UpdateCandidatesTotal(n)

	s.started = true
	s.logger.Info(ctx, "candidate service started",
		logger.String("driver", s.driver),
		logger.String("timezone", s.location.String()),
		logger.Int("candidates", n),
	)
	return nil
}

// Stop closes the store. It is safe to call more than once.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	if err := s.store.Close(); err != nil {
		s.logger.Warn(context.Background(), "closing store failed", logger.Error(err))
	}
	s.started = false
	s.logger.Info(context.Background(), "candidate service stopped")
}

// Today returns the civil date of the request in the configured location.
func (s *Service) Today(ctx context.Context) time.Time {
	now, ok := requesttime.From(ctx)
	if !ok {
		now = s.clock()
	}
	now = now.In(s.location)
	return candidate.Date(now.Year(), now.Month(), now.Day())
}

// CreateCandidate validates req against today, stores the normalized
// candidate and returns it with its derived fields. A birth date equal to
// today fails with ErrValidation; business rule failures are returned as
// *candidate.Error. Nothing is stored on failure.
func (s *Service) CreateCandidate(ctx context.Context, req candidate.CreateRequest) (candidate.View, error) {
	today := s.Today(ctx)

	if candidate.Truncate(req.BirthDate).Equal(today) {
		metrics.RecordCandidateRejected("validation")
		return candidate.View{}, fmt.Errorf("%w: birthDate: must be a date in the past", ErrValidation)
	}

	c, err := candidate.Prepare(req, today)
	if err != nil {
		metrics.RecordCandidateRejected(candidate.KindOf(err).String())
		s.log().Debug(ctx, "candidate rejected", logger.Error(err))
		return candidate.View{}, err
	}

	saved, err := s.store.Save(ctx, c)
	if err != nil {
		if errors.Is(err, repository.ErrIntegrity) {
			metrics.RecordCandidateRejected("data_integrity")
		}
		return candidate.View{}, fmt.Errorf("%w: save candidate: %w", ErrStorage, err)
	}

	metrics.RecordCandidateCreated()
	s.refreshTotal(ctx)
	s.log().Info(ctx, "candidate created",
		logger.Int64("id", saved.ID),
		logger.Int("age", saved.Age),
	)
	return candidate.DeriveView(saved, today), nil
}

// ListCandidates returns every stored candidate with derived fields. An empty
// store yields an empty, non-nil slice.
func (s *Service) ListCandidates(ctx context.Context) ([]candidate.View, error) {
	all, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list candidates: %w", ErrStorage, err)
	}
	return candidate.DeriveViews(all, s.Today(ctx)), nil
}

// GetMetrics computes the mean and population standard deviation of the
// stored ages. It fails with the NoData kind when nothing is stored.
func (s *Service) GetMetrics(ctx context.Context) (stats.Snapshot, error) {
	all, err := s.store.FindAll(ctx)
	if err != nil {
		metrics.RecordMetricsRequest("error")
		return stats.Snapshot{}, fmt.Errorf("%w: load ages: %w", ErrStorage, err)
	}

	summary, err := stats.Summarize(stats.Ages(all))
	if err != nil {
		metrics.RecordMetricsRequest(candidate.KindOf(err).String())
		return stats.Snapshot{}, err
	}

	metrics.RecordMetricsRequest("ok")
	s.log().Debug(ctx, "age metrics computed",
		logger.Int("count", summary.Count),
		logger.Int("min_age", summary.MinAge),
		logger.Int("max_age", summary.MaxAge),
		logger.Float64("average", summary.AverageAge),
	)
	return summary.Snapshot, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := map[string]interface{}{
		"started":  s.started,
		"driver":   s.driver,
		"timezone": s.location.String(),
	}
	if s.started {
		ctx := context.Background()
		if n, err := s.store.Count(ctx); err == nil {
			out["totalCandidates"] = n
			metrics.UpdateCandidatesTotal(n)
		} else {
			out["storeError"] = err.Error()
		}
	}
	return out
}

func (s *Service) refreshTotal(ctx context.Context) {
	if n, err := s.store.Count(ctx); err == nil {
		metrics.UpdateCandidatesTotal(n)
	}
}

func (s *Service) log() logger.Logger {
	s.mu.RLock()
	l := s.logger
	s.mu.RUnlock()
	if l == nil {
		return logger.Nop()
	}
	return l
}
