// Package seed loads a running candidates service with generated candidates
// and checks that the reported age metrics match the stored data.
package seed

import "time"

// Config holds configuration for a seeding run.
type Config struct {
	BaseURL    string        // Base URL of the service
	Count      int           // Number of candidates to generate
	Workers    int           // Number of concurrent submitters
	Timeout    time.Duration // HTTP request timeout
	Username   string        // Basic auth user
	Password   string        // Basic auth password
	Seed       uint64        // Generator seed; 0 picks one from the clock
	OutputFile string        // Where to write the generated payloads; empty skips it
	Verbose    bool          // Log every failed submission
}

// CandidateRequest is the POST /candidatos payload.
type CandidateRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Age       int    `json:"age"`
	BirthDate string `json:"birthDate"`
}

// CandidateResponse is one element of GET /candidatos.
type CandidateResponse struct {
	ID                 int64  `json:"id"`
	FirstName          string `json:"firstName"`
	LastName           string `json:"lastName"`
	Age                int    `json:"age"`
	BirthDate          string `json:"birthDate"`
	EstimatedEventDate string `json:"estimatedEventDate"`
	NextBirthday       string `json:"nextBirthday"`
	DaysToNextBirthday int64  `json:"daysToNextBirthday"`
	AgeInMonths        int64  `json:"ageInMonths"`
}

// MetricsResponse is the GET /candidatos/metrics payload.
type MetricsResponse struct {
	AverageAge      float64 `json:"averageAge"`
	AgeStdDeviation float64 `json:"ageStdDeviation"`
}

// Stats holds run statistics.
type Stats struct {
	RunID     string
	Generated int
	Submitted int
	Created   int
	Rejected  int
	Failed    int
	Listed    int
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
}
