package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/candidates/internal/seed"
	"github.com/okian/candidates/pkg/logger"
)

const (
	defaultCount      = 1000
	defaultWorkers    = 2 // multiplier for runtime.NumCPU()
	defaultTimeout    = 30 * time.Second
	defaultRunTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL  = flag.String("url", "http://localhost:8080", "Base URL of the service")
		count    = flag.Int("count", defaultCount, "Number of candidates to generate")
		workers  = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout  = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		user     = flag.String("user", envOr("CANDIDATES_AUTH_USERNAME", "admin"), "Basic auth username")
		password = flag.String("password", envOr("CANDIDATES_AUTH_PASSWORD", "admin"), "Basic auth password")
		seedVal  = flag.Uint64("seed", 0, "Generator seed, 0 for a random one")
		output   = flag.String("output", "", "Write the generated payloads to this JSON file")
		verbose  = flag.Bool("verbose", false, "Log every rejected candidate")
		help     = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		seed.ShowHelp()
		return
	}

	if err := logger.Init(); err != nil {
		_, _ = os.Stderr.WriteString("failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, defaultRunTimeout)
	defer cancel()

	cfg := &seed.Config{
		BaseURL:    *baseURL,
		Count:      *count,
		Workers:    *workers,
		Timeout:    *timeout,
		Username:   *user,
		Password:   *password,
		Seed:       *seedVal,
		OutputFile: *output,
		Verbose:    *verbose,
	}

	if _, err := seed.Run(ctx, cfg); err != nil {
		logger.Get().Error(ctx, "seed failed", logger.Error(err))
		cancel()
		stop()
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}
