// Package sampler draws concrete problems from a catalog.
package sampler

import (
	"math/rand"
	"time"

	"github.com/FireLemons/ToMetric/internal/catalog"
	"github.com/FireLemons/ToMetric/internal/conversion"
)

// Sampler produces randomized problem instances.
type Sampler struct {
	rnd *rand.Rand
}

// New returns a Sampler seeded with the current time.
func New() *Sampler {
	return NewWithSeed(time.Now().UnixNano())
}

// NewWithSeed returns a Sampler with a fixed seed.
func NewWithSeed(seed int64) *Sampler {
	return &Sampler{rnd: rand.New(rand.NewSource(seed))}
}

// Next selects a definition uniformly and instantiates it at difficulty.
// The catalog must not be empty.
func (s *Sampler) Next(c *catalog.Catalog, difficulty float64) conversion.Problem {
	def := c.At(s.rnd.Intn(c.Len()))
	return def.Instance(s.rnd, difficulty)
}

// Float64 exposes the underlying source, e.g. for level-up rolls.
func (s *Sampler) Float64() float64 {
	return s.rnd.Float64()
}
