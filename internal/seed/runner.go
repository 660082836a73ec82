package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/okian/candidates/pkg/logger"
)

const (
	directoryPermission = 0o750
	filePermission      = 0o640
	healthPollInterval  = 200 * time.Millisecond
)

// ErrNothingCreated is returned when every submission was rejected or failed.
var ErrNothingCreated = errors.New("seed: no candidate was created")

// Run seeds the service at cfg.BaseURL and verifies its metrics.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	st := &Stats{RunID: uuid.NewString(), StartTime: time.Now()}
	log := logger.Get().With(logger.String("run", st.RunID))

	log.Info(ctx, "starting candidate seed",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("count", cfg.Count),
		logger.Int("workers", cfg.Workers),
		logger.Duration("timeout", cfg.Timeout))

	client := newHTTPClient(cfg)

	healthCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	err := client.waitHealthy(healthCtx, healthPollInterval)
	cancel()
	if err != nil {
		return st, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	reqs := NewGenerator(seed).Generate(cfg.Count, time.Now())
	st.Generated = len(reqs)

	if err := submit(ctx, client, cfg, reqs, st); err != nil {
		return st, fmt.Errorf("submission failed: %w", err)
	}
	if st.Created == 0 {
		return st, ErrNothingCreated
	}

	var listed []CandidateResponse
	if err := client.getJSON(ctx, "/candidatos", &listed); err != nil {
		return st, fmt.Errorf("listing candidates failed: %w", err)
	}
	st.Listed = len(listed)

	var got MetricsResponse
	if err := client.getJSON(ctx, "/candidatos/metrics", &got); err != nil {
		return st, fmt.Errorf("fetching metrics failed: %w", err)
	}

	if err := Verify(listed, got); err != nil {
		return st, err
	}

	if cfg.OutputFile != "" {
		if err := save(cfg.OutputFile, reqs); err != nil {
			log.Warn(ctx, "failed to save generated candidates", logger.Error(err))
		}
	}

	st.EndTime = time.Now()
	st.Duration = st.EndTime.Sub(st.StartTime)
	logStats(ctx, log, st)
	return st, nil
}

// submit posts reqs with cfg.Workers concurrent workers. Rejections are
// counted, transport failures end the run.
func submit(ctx context.Context, client *HTTPClient, cfg *Config, reqs []CandidateRequest, st *Stats) error {
	var submitted, created, rejected, failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(cfg.Workers, 1))
	for i := range reqs {
		req := reqs[i]
		g.Go(func() error {
			submitted.Add(1)
			status, body, err := client.do(gctx, http.MethodPost, "/candidatos", req)
			if err != nil {
				failed.Add(1)
				return fmt.Errorf("candidate %d: %w", i, err)
			}
			switch {
			case status == http.StatusCreated:
				created.Add(1)
			case status >= http.StatusInternalServerError || status == http.StatusUnauthorized:
				failed.Add(1)
				return fmt.Errorf("candidate %d: status %d: %s", i, status, body)
			default:
				rejected.Add(1)
				if cfg.Verbose {
					logger.Get().Warn(gctx, "candidate rejected",
						logger.Int("index", i),
						logger.Int("status", status),
						logger.String("body", string(body)))
				}
			}
			return nil
		})
	}
	err := g.Wait()

	st.Submitted = int(submitted.Load())
	st.Created = int(created.Load())
	st.Rejected = int(rejected.Load())
	st.Failed = int(failed.Load())
	return err
}

func save(path string, reqs []CandidateRequest) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(reqs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal candidates: %w", err)
	}
	if err := os.WriteFile(path, data, filePermission); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func logStats(ctx context.Context, log logger.Logger, st *Stats) {
	var perSecond float64
	if st.Duration > 0 {
		perSecond = float64(st.Submitted) / st.Duration.Seconds()
	}
	log.Info(ctx, "seed finished",
		logger.Int("generated", st.Generated),
		logger.Int("submitted", st.Submitted),
		logger.Int("created", st.Created),
		logger.Int("rejected", st.Rejected),
		logger.Int("failed", st.Failed),
		logger.Int("listed", st.Listed),
		logger.Duration("duration", st.Duration),
		logger.Float64("perSecond", perSecond))
}
