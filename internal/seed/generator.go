package seed

import (
	"math/rand/v2"
	"time"

	"github.com/okian/candidates/internal/domain/candidate"
)

// Age bounds of generated candidates.
const (
	minGeneratedAge = 18
	maxGeneratedAge = 80
)

var (
	firstNames = []string{
		"Ana", "Bruno", "Carla", "Diego", "Elena", "Felipe", "Gabriela", "Hugo",
		"Isabel", "Joao", "Karina", "Luis", "Mariana", "Nicolas", "Olivia", "Pedro",
	}
	lastNames = []string{
		"Silva", "Souza", "Costa", "Santos", "Oliveira", "Pereira", "Rodrigues",
		"Almeida", "Nascimento", "Lima", "Araujo", "Fernandes", "Carvalho",
	}
)

// Generator produces candidates whose declared age matches their birth date.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator returns a generator seeded with seed.
func NewGenerator(seed uint64) *Generator {
	return &Generator{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Generate returns n requests valid on today.
func (g *Generator) Generate(n int, today time.Time) []CandidateRequest {
	today = candidate.Truncate(today)
	oldest := candidate.AddYears(today, -maxGeneratedAge)
	youngest := candidate.AddYears(today, -minGeneratedAge)
	span := candidate.DaysBetween(oldest, youngest)

	out := make([]CandidateRequest, n)
	for i := range out {
		birth := oldest.AddDate(0, 0, int(g.rng.Int64N(span+1)))
		out[i] = CandidateRequest{
			FirstName: firstNames[g.rng.IntN(len(firstNames))],
			LastName:  lastNames[g.rng.IntN(len(lastNames))],
			Age:       candidate.YearsBetween(birth, today),
			BirthDate: candidate.FormatDate(birth),
		}
	}
	return out
}
