package seed

import "os"

// ShowHelp prints usage information for the seed tool.
func ShowHelp() {
	_, _ = os.Stdout.WriteString(`Candidates Seed Tool
====================

Generates candidates with consistent ages and birth dates, submits them
concurrently, then checks /candidatos/metrics against the listed ages.

Usage:
  go run ./cmd/seed [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:8080")
  -count int
        Number of candidates to generate (default 1000)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 30s)
  -user string
        Basic auth username (default "admin", env CANDIDATES_AUTH_USERNAME)
  -password string
        Basic auth password (default "admin", env CANDIDATES_AUTH_PASSWORD)
  -seed uint
        Generator seed, 0 for a random one
  -output string
        Write the generated payloads to this JSON file
  -verbose
        Log every rejected candidate
  -help
        Show this help message

Examples:
  go run ./cmd/seed -count 5000 -workers 16
  go run ./cmd/seed -url http://localhost:9090 -seed 42 -output out/seed.json
`)
}
