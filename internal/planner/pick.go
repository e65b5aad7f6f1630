package planner

import (
	"math/rand/v2"
	"sync"

	"github.com/pageza/weekplate/backend/internal/model"
)

// Source yields uniform floats in [0, 1). *rand.Rand from math/rand and math/rand/v2 both satisfy it.
type Source interface {
	Float64() float64
}

type globalSource struct{}

func (globalSource) Float64() float64 { return rand.Float64() }

// NewSeededSource returns a deterministic source for replaying a run. It is
// safe to share between concurrent Generate calls, though the draws are then
// interleaved and only a single-caller sequence is reproducible.
func NewSeededSource(seed uint64) Source {
	return &lockedSource{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// lockedSource serializes access to a *rand.Rand, which is not goroutine safe.
type lockedSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func (s *lockedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}

func weight(r *model.Recipe) int {
	if r.IsFavorite {
		return FavoriteWeight
	}
	return DefaultWeight
}

// weightedPick walks the cumulative weight distribution. candidates must not be empty.
func weightedPick(src Source, candidates []*model.Recipe) *model.Recipe {
	total := 0
	for _, c := range candidates {
		total += weight(c)
	}
	r := src.Float64() * float64(total)
	for _, c := range candidates {
		r -= float64(weight(c))
		if r <= 0 {
			return c
		}
	}
	return candidates[len(candidates)-1]
}
