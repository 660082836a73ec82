// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/okian/candidates/internal/adapters/http/auth"
	"github.com/okian/candidates/internal/adapters/http/requestclock"
	"github.com/okian/candidates/internal/domain/candidate"
	"github.com/okian/candidates/internal/domain/stats"
	"github.com/okian/candidates/pkg/logger"
)

// CandidateService is the business API the handlers call.
type CandidateService interface {
	CreateCandidate(ctx context.Context, req candidate.CreateRequest) (candidate.View, error)
	ListCandidates(ctx context.Context) ([]candidate.View, error)
	GetMetrics(ctx context.Context) (stats.Snapshot, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler     *HealthHandler
	statsHandler      *StatsHandler
	candidatesHandler *CandidatesHandler
	tokenHandler      *TokenHandler

	auth   *auth.Authenticator
	clock  requestclock.Clock
	logger logger.Logger
	mounts []func(chi.Router)
}

// Option configures a Server.
type Option func(*Server)

// WithAuthenticator guards the candidate routes and enables POST /auth/token.
// Without it the candidate routes are open.
func WithAuthenticator(a *auth.Authenticator) Option {
	return func(s *Server) { s.auth = a }
}

// WithClock sets the source of the request-scoped time.
func WithClock(clock requestclock.Clock) Option {
	return func(s *Server) { s.clock = clock }
}

// WithLogger sets the logger used by handlers and middleware.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRoutes mounts extra public routes, such as API docs.
func WithRoutes(register func(chi.Router)) Option {
	return func(s *Server) { s.mounts = append(s.mounts, register) }
}

// NewServer creates a new API server with all handlers.
func NewServer(svc CandidateService, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{logger: logger.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	s.healthHandler = NewHealthHandler()
	s.statsHandler = NewStatsHandler(statsProvider)
	s.candidatesHandler = NewCandidatesHandler(svc, s.logger)
	if s.auth != nil {
		s.tokenHandler = NewTokenHandler(s.auth, s.logger)
	}
	return s
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(Recoverer(s.logger))
	r.Use(RequestID)
	r.Use(requestclock.Middleware(s.clock))
	r.Use(AccessLog(s.logger))

	r.NotFound(handleNotFound)
	r.MethodNotAllowed(handleMethodNotAllowed)

	r.Get("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	r.Get("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	for _, mount := range s.mounts {
		mount(r)
	}

	var guard func(http.Handler) http.Handler
	if s.auth != nil {
		guard = s.auth.Require
		r.Post("/auth/token", s.route("auth_token", s.auth.RequireBasic, s.tokenHandler.HandleIssue))
	}
	r.Post("/candidatos", s.route("candidates_create", guard, s.candidatesHandler.HandleCreate))
	r.Get("/candidatos", s.route("candidates_list", guard, s.candidatesHandler.HandleList))
	r.Get("/candidatos/metrics", s.route("candidates_metrics", guard, s.candidatesHandler.HandleMetrics))

	return r
}

// route wraps h with guard (if any) and then with metrics, so rejected
// credentials are still counted per endpoint.
func (s *Server) route(endpoint string, guard func(http.Handler) http.Handler, h http.HandlerFunc) http.HandlerFunc {
	var inner http.Handler = h
	if guard != nil {
		inner = guard(h)
	}
	return MetricsMiddleware(inner.ServeHTTP, endpoint)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
