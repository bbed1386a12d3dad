// Package stats contains statistics calculations and reporting.
package stats

import (
	"math"
	"strings"

	mstats "github.com/montanaflynn/stats"

	"github.com/FireLemons/ToMetric/internal/model"
)

const sparkChars = " .:-=+*#%@"

// GameMetrics returns the share of attempts that were accepted, in percent.
func GameMetrics(g model.GameRecord) (acceptRate float64) {
	if g.Attempts <= 0 {
		return 0
	}
	return float64(g.Solved) / float64(g.Attempts) * 100
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 {
		copy(out, values)
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		n := i + 1
		if i >= window {
			sum -= values[i-window]
			n = window
		}
		out[i] = sum / float64(n)
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if hi-lo < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	last := len(sparkChars) - 1
	var b strings.Builder
	for _, v := range values {
		idx := int(math.Round((v - lo) / (hi - lo) * float64(last)))
		b.WriteByte(sparkChars[max(0, min(idx, last))])
	}
	return b.String()
}

// Distribution summarizes error percents.
type Distribution struct {
	Count  int
	Mean   float64
	Median float64
	P90    float64
	StdDev float64
	Max    float64
}

// ErrorDistribution computes the error-percent distribution of solves.
// An empty input yields the zero Distribution.
func ErrorDistribution(solves []model.SolveRecord) (Distribution, error) {
	if len(solves) == 0 {
		return Distribution{}, nil
	}
	data := make(mstats.Float64Data, len(solves))
	for i, s := range solves {
		data[i] = s.ErrorPercent
	}
	d := Distribution{Count: len(data)}
	var err error
	if d.Mean, err = mstats.Mean(data); err != nil {
		return Distribution{}, err
	}
	if d.Median, err = mstats.Median(data); err != nil {
		return Distribution{}, err
	}
	if d.P90, err = mstats.Percentile(data, 90); err != nil {
		return Distribution{}, err
	}
	if d.StdDev, err = mstats.StandardDeviation(data); err != nil {
		return Distribution{}, err
	}
	if d.Max, err = mstats.Max(data); err != nil {
		return Distribution{}, err
	}
	return d, nil
}
