package seed

import (
	"errors"
	"fmt"
	"math"

	"github.com/okian/candidates/internal/domain/stats"
)

// Tolerance is the largest accepted difference between served and
// recomputed metrics.
const Tolerance = 1e-9

// ErrMetricsMismatch is returned when served metrics disagree with the listing.
var ErrMetricsMismatch = errors.New("seed: metrics do not match listed candidates")

// Verify recomputes the age metrics over listed and compares them with got.
func Verify(listed []CandidateResponse, got MetricsResponse) error {
	ages := make([]int, len(listed))
	for i, c := range listed {
		ages[i] = c.Age
	}
	want, err := stats.Compute(ages)
	if err != nil {
		return fmt.Errorf("recomputing metrics: %w", err)
	}
	if math.Abs(want.AverageAge-got.AverageAge) > Tolerance {
		return fmt.Errorf("%w: averageAge %v, want %v", ErrMetricsMismatch, got.AverageAge, want.AverageAge)
	}
	if math.Abs(want.AgeStdDeviation-got.AgeStdDeviation) > Tolerance {
		return fmt.Errorf("%w: ageStdDeviation %v, want %v", ErrMetricsMismatch, got.AgeStdDeviation, want.AgeStdDeviation)
	}
	return nil
}
