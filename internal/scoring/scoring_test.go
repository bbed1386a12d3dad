package scoring

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FireLemons/ToMetric/internal/conversion"
	"github.com/FireLemons/ToMetric/internal/formula"
)

func TestRound(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{2.5, 3},
		{2.49, 2},
		{3.0, 3},
		{0.2625, 0},
		{0.5, 1},
		{9.99, 10},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Round(tt.in), "Round(%v)", tt.in)
	}
}

func TestCompact(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1.3333333", "1.33..."},
		{"1.5", "1.5"},
		{"100000.2", "100..."},
		{"76.2", "76.2"},
		{"0.19999999999999", "0.199..."},
		{"111.5", "111.5"},
		{"1111.5", "111..."},
		{"-2.0004", "-2.00..."},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Compact(tt.in))
		})
	}
}

func TestCompactFloat(t *testing.T) {
	assert.Equal(t, "0.33...", CompactFloat(1.0/3))
	assert.Equal(t, "76.2", CompactFloat(76.2))
}

func TestErrorPercent(t *testing.T) {
	assert.Equal(t, LessThanOne, NewErrorPercent(0.2625).String())
	assert.Equal(t, 0.0, NewErrorPercent(0.2625).Numeric())
	assert.Equal(t, "3", NewErrorPercent(2.5).String())
	assert.False(t, NewErrorPercent(2.5).IsLessThanOne())
}

func TestPercentError(t *testing.T) {
	assert.InDelta(t, 10, PercentError(100, 90), 1e-9)
	assert.InDelta(t, 10, PercentError(100, 110), 1e-9)
	assert.InDelta(t, 10, PercentError(-100, -90), 1e-9)
	assert.Equal(t, 0.0, PercentError(0, 0))
	assert.True(t, math.IsInf(PercentError(0, 1), 1))
	assert.True(t, math.IsInf(PercentError(1, math.NaN()), 1))
}

func problem(ratio, given float64) conversion.Problem {
	d := conversion.MustNew(conversion.Spec{
		Category:      conversion.Distance,
		CustomaryKey:  "inches",
		MetricKey:     "millimeters",
		CustomaryUnit: "in",
		MetricUnit:    "mm",
		Conversion:    conversion.LinearRatio(ratio),
		Magnitude:     conversion.Coarse,
	}, formula.Fixed)
	return d.ProblemFor(given)
}

func TestEvaluateAcceptsWithinTolerance(t *testing.T) {
	p := problem(25.4, 3)
	require.InDelta(t, 76.2, p.Exact, 1e-9)

	out := Evaluator{Tolerance: 5}.Evaluate(p, "76", 1)
	require.True(t, out.Accepted)
	assert.InDelta(t, 0.2625, out.PercentError, 1e-3)
	assert.Equal(t, LessThanOne, out.Stat.ErrorPercent.String())
	assert.Equal(t, "76", out.Stat.UserAnswer)
	assert.Equal(t, "3", out.Stat.Given)
	assert.Equal(t, 1, out.Stat.Tries)
	assert.Equal(t, "mm", out.Stat.MetricUnit)
}

func TestEvaluateBoundaryInclusive(t *testing.T) {
	p := problem(1, 100)
	out := Evaluator{Tolerance: 10}.Evaluate(p, "90", 1)
	assert.Equal(t, 10.0, out.PercentError)
	assert.True(t, out.Accepted)

	out = Evaluator{Tolerance: 10}.Evaluate(p, "89.9", 1)
	assert.False(t, out.Accepted)
}

func TestEvaluateRejectsGarbage(t *testing.T) {
	p := problem(25.4, 3)
	for _, in := range []string{"", "  ", "abc", "NaN", "Inf", "1e999"} {
		out := Evaluator{Tolerance: 100}.Evaluate(p, in, 1)
		assert.False(t, out.Accepted, in)
		assert.True(t, math.IsInf(out.PercentError, 1), in)
		assert.Equal(t, RoundStat{}, out.Stat, in)
	}
}

func TestEvaluateTrimsInput(t *testing.T) {
	out := Evaluator{Tolerance: 1}.Evaluate(problem(2, 2), " 4 ", 3)
	require.True(t, out.Accepted)
	assert.Equal(t, 3, out.Stat.Tries)
	assert.Equal(t, "0", out.Stat.ErrorAmount)
}
