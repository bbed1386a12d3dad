package stats

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FireLemons/ToMetric/internal/model"
)

func TestMovingAverage(t *testing.T) {
	assert.Equal(t, []float64{1, 1.5, 2.5, 3.5}, MovingAverage([]float64{1, 2, 3, 4}, 2))
	assert.Equal(t, []float64{1, 2}, MovingAverage([]float64{1, 2}, 0))
	assert.Empty(t, MovingAverage(nil, 3))
}

func TestSparkline(t *testing.T) {
	assert.Equal(t, "", Sparkline(nil))
	assert.Equal(t, "+++", Sparkline([]float64{2, 2, 2}))
	assert.Equal(t, " @", Sparkline([]float64{0, 1}))
}

func TestErrorDistribution(t *testing.T) {
	d, err := ErrorDistribution(nil)
	require.NoError(t, err)
	assert.Equal(t, Distribution{}, d)

	solves := []model.SolveRecord{{ErrorPercent: 1}, {ErrorPercent: 2}, {ErrorPercent: 3}, {ErrorPercent: 10}}
	d, err = ErrorDistribution(solves)
	require.NoError(t, err)
	assert.Equal(t, 4, d.Count)
	assert.Equal(t, 4.0, d.Mean)
	assert.Equal(t, 2.5, d.Median)
	assert.Equal(t, 10.0, d.Max)
	assert.Greater(t, d.StdDev, 0.0)
	assert.GreaterOrEqual(t, d.P90, d.Median)
}

func TestConversionRows(t *testing.T) {
	rows := ConversionRows([]model.ConversionAggregate{
		{ConversionKey: "a", CustomaryUnit: "in", MetricUnit: "mm", Solves: 2, Tries: 2, ErrorSum: 4},
		{ConversionKey: "b", CustomaryUnit: "lb", MetricUnit: "kg", Solves: 1, Tries: 3, ErrorSum: 2},
		{ConversionKey: "c", CustomaryUnit: "ft", MetricUnit: "m", Solves: 1, Tries: 1, ErrorSum: 9},
		{ConversionKey: "d", Solves: 0},
	})
	require.Len(t, rows, 3)
	assert.Equal(t, "c", rows[0].Key)
	assert.Equal(t, "b", rows[1].Key)
	assert.Equal(t, "a", rows[2].Key)
	assert.Equal(t, "in → mm", rows[2].Label)
	assert.Equal(t, 3.0, rows[1].AvgTries)

	rows = ConversionRows([]model.ConversionAggregate{
		{ConversionKey: "a", CustomaryUnit: "in", MetricUnit: "cm", Solves: 1, ErrorSum: 1},
		{ConversionKey: "c", CustomaryUnit: "mi", MetricUnit: "km", Solves: 1, ErrorSum: 5},
	})
	assert.Equal(t, []string{"mi → km"}, Hardest(rows, 1))
	assert.Len(t, Hardest(rows, 5), 2)
	assert.Empty(t, Hardest(rows, 0))
}

func TestCategoryTitle(t *testing.T) {
	assert.Equal(t, "Liquid Volume", CategoryTitle("liquidVolume"))
	assert.Equal(t, "Distance", CategoryTitle("distance"))
}

func TestGameMetrics(t *testing.T) {
	assert.Equal(t, 50.0, GameMetrics(model.GameRecord{Solved: 2, Attempts: 4}))
	assert.Equal(t, 0.0, GameMetrics(model.GameRecord{}))
}

func TestRenderGames(t *testing.T) {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	games := []model.GameRecord{
		{ID: "a", StartedAt: start, Outcome: model.OutcomeLost, Level: 1, Solved: 3, Attempts: 6, AvgError: 4},
		{ID: "b", StartedAt: start.Add(time.Hour), Outcome: model.OutcomeQuit, Level: 2, Solved: 4, Attempts: 4, AvgError: 2},
	}
	var buf bytes.Buffer
	require.NoError(t, RenderGames(&buf, games, 10))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[1], "quit")
	assert.Contains(t, lines[1], "100.0")
	assert.Contains(t, lines[2], "50.0")
	assert.Equal(t, "Avg error trend: [@ ]", lines[3])

	buf.Reset()
	require.NoError(t, RenderGames(&buf, nil, 10))
	assert.Equal(t, "No games found.\n", buf.String())
}

func TestRenderFocus(t *testing.T) {
	r := Report{WindowConversions: ConversionRows([]model.ConversionAggregate{
		{ConversionKey: "a", CustomaryUnit: "in", MetricUnit: "cm", Solves: 1, ErrorSum: 1},
		{ConversionKey: "b", CustomaryUnit: "gal", MetricUnit: "L", Solves: 1, ErrorSum: 8},
	})}
	var buf bytes.Buffer
	require.NoError(t, RenderFocus(&buf, r, 1))
	assert.Equal(t, "Practice next: gal → L\n", buf.String())

	buf.Reset()
	require.NoError(t, RenderFocus(&buf, Report{}, 3))
	assert.Empty(t, buf.String())
}
