// Package stats computes aggregate age statistics over stored candidates.
package stats

import (
	"math"

	"github.com/okian/candidates/internal/domain/candidate"
)

// Snapshot is the response-only metrics view.
type Snapshot struct {
	AverageAge      float64
	AgeStdDeviation float64
}

// Summary extends Snapshot with figures that are logged but not exposed over HTTP.
type Summary struct {
	Snapshot

	Count  int
	MinAge int
	MaxAge int
}

// Compute returns the mean and population standard deviation of ages.
// An empty input fails with candidate.KindNoData.
func Compute(ages []int) (Snapshot, error) {
	s, err := Summarize(ages)
	if err != nil {
		return Snapshot{}, err
	}
	return s.Snapshot, nil
}

// Summarize is Compute plus count and range.
func Summarize(ages []int) (Summary, error) {
	n := len(ages)
	if n == 0 {
		return Summary{}, candidate.NoData()
	}

	sum := 0.0
	lo, hi := ages[0], ages[0]
	for _, a := range ages {
		sum += float64(a)
		lo = min(lo, a)
		hi = max(hi, a)
	}
	mean := sum / float64(n)

	std := 0.0
	if n > 1 {
		sq := 0.0
		for _, a := range ages {
			d := float64(a) - mean
			sq += d * d
		}
		std = math.Sqrt(sq / float64(n))
	}

	return Summary{
		Snapshot: Snapshot{AverageAge: mean, AgeStdDeviation: std},
		Count:    n,
		MinAge:   lo,
		MaxAge:   hi,
	}, nil
}

// Ages extracts the stored ages of cs.
func Ages(cs []candidate.Candidate) []int {
	ages := make([]int, len(cs))
	for i, c := range cs {
		ages[i] = c.Age
	}
	return ages
}
