package progress

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCumulativeAverageConvergesToMean(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))
	var s Stats
	sum := 0.0
	const n = 1000
	for i := 0; i < n; i++ {
		v := rnd.Float64() * 100
		sum += v
		s.Record(v, 1+rnd.Intn(3))
	}
	assert.InDelta(t, sum/n, s.AverageErrorPercent, 1e-9)
	assert.Equal(t, n, s.ProblemsSolvedCount)
}

func TestRecord(t *testing.T) {
	var s Stats
	s.Record(0, 1)
	s.Record(4, 3)
	assert.Equal(t, 2.0, s.AverageErrorPercent)
	assert.Equal(t, 4, s.AttemptCount)
	assert.Equal(t, 2, s.ProblemsSolvedCount)
}
