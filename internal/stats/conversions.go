package stats

import (
	"sort"

	"github.com/FireLemons/ToMetric/internal/model"
)

// ConversionRow is the per-conversion summary shown in tables.
type ConversionRow struct {
	Key      string
	Label    string // e.g. "in → mm"
	Solves   int
	AvgError float64
	AvgTries float64
}

// ConversionRows derives rows from aggregates, hardest first: highest
// average error, then most tries per solve.
func ConversionRows(aggs []model.ConversionAggregate) []ConversionRow {
	rows := make([]ConversionRow, 0, len(aggs))
	for _, agg := range aggs {
		if agg.Solves <= 0 {
			continue
		}
		n := float64(agg.Solves)
		rows = append(rows, ConversionRow{
			Key:      agg.ConversionKey,
			Label:    agg.CustomaryUnit + " → " + agg.MetricUnit,
			Solves:   agg.Solves,
			AvgError: agg.ErrorSum / n,
			AvgTries: float64(agg.Tries) / n,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].AvgError != rows[j].AvgError {
			return rows[i].AvgError > rows[j].AvgError
		}
		if rows[i].AvgTries != rows[j].AvgTries {
			return rows[i].AvgTries > rows[j].AvgTries
		}
		return rows[i].Key < rows[j].Key
	})
	return rows
}

// Hardest returns the labels of the first n rows. Rows from
// ConversionRows are already ordered hardest first.
func Hardest(rows []ConversionRow, n int) []string {
	n = min(max(n, 0), len(rows))
	out := make([]string, n)
	for i := range out {
		out[i] = rows[i].Label
	}
	return out
}
