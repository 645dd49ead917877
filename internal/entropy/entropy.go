// Package entropy provides the seeded random source every stochastic
// decision in the kernel draws from: trigger rolls, Markov transitions,
// infection rolls, rumor hops, and action selection. A single Source is
// threaded through the simulators so a run is reproducible from its seed.
package entropy

import (
	"math/rand"
	"sync"
)

// Source is a seeded pseudo-random generator. Safe for use from the
// simulation goroutine and read-side consumers.
type Source struct {
	mu sync.Mutex
	r  *rand.Rand
}

// New creates a Source from a seed.
func New(seed int64) *Source {
	return &Source{r: rand.New(rand.NewSource(seed))}
}

// Float returns a random float64 in [0, 1).
func (s *Source) Float() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Float64()
}

// Intn returns a random int in [0, n).
func (s *Source) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Intn(n)
}

// Between returns a random int in [lo, hi] inclusive.
func (s *Source) Between(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + s.Intn(hi-lo+1)
}

// Range returns a random float64 in [lo, hi).
func (s *Source) Range(lo, hi float64) float64 {
	return lo + s.Float()*(hi-lo)
}

// Chance performs a Bernoulli trial with probability p.
func (s *Source) Chance(p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return s.Float() < p
}
