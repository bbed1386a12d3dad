package stats

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/message"

	"github.com/FireLemons/ToMetric/internal/formula"
	"github.com/FireLemons/ToMetric/internal/model"
)

// RenderSummary prints the overview numbers and the error distribution.
func RenderSummary(w io.Writer, r Report, p *message.Printer) error {
	if r.Summary.Games == 0 {
		_, err := fmt.Fprintln(w, "No games found.")
		return err
	}
	s, d := r.Summary, r.Distribution
	lines := []string{
		"Summary",
		p.Sprintf("Games: %d (%d lost)", s.Games, s.Losses),
		p.Sprintf("Problems solved: %d", s.Solved),
		p.Sprintf("Attempts: %d", s.Attempts),
		p.Sprintf("Accepted attempts: %.1f%%", s.AcceptRate),
		p.Sprintf("Best level: %d", s.BestLevel),
		"",
		"Error %",
		p.Sprintf("Mean: %.2f  Median: %.2f  P90: %.2f", d.Mean, d.Median, d.P90),
		p.Sprintf("Std dev: %.2f  Max: %.2f", d.StdDev, d.Max),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderCurves plots the error percent per solve and its moving average.
func RenderCurves(w io.Writer, r Report, opts PlotOptions) error {
	if len(r.Solves) == 0 {
		return nil
	}
	values := make([]float64, len(r.Solves))
	for i, s := range r.Solves {
		values[i] = s.ErrorPercent
	}
	series := []Series{{Name: "Error %", Values: values}}
	if r.CurveWindow > 1 {
		series = append(series, Series{
			Name:   fmt.Sprintf("Moving avg (%d)", r.CurveWindow),
			Values: MovingAverage(values, r.CurveWindow),
		})
	}
	return Plot(w, "Learning Curve", series, opts)
}

// RenderConversionTable prints per-conversion rows.
func RenderConversionTable(w io.Writer, title string, rows []ConversionRow) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No conversions solved yet.")
		return err
	}
	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}
	headers := []string{"Conversion", "Solves", "Avg error %", "Avg tries"}
	tableRows := make([][]string, 0, len(rows))
	for _, row := range rows {
		tableRows = append(tableRows, []string{
			row.Label,
			fmt.Sprintf("%d", row.Solves),
			fmt.Sprintf("%.2f", row.AvgError),
			fmt.Sprintf("%.2f", row.AvgTries),
		})
	}
	for _, line := range formatTable(headers, tableRows, map[int]bool{1: true, 2: true, 3: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderRecent prints the latest n solves, newest first.
func RenderRecent(w io.Writer, solves []model.SolveRecord, n int) error {
	if len(solves) == 0 {
		_, err := fmt.Fprintln(w, "No solves found.")
		return err
	}
	if n <= 0 || n > len(solves) {
		n = len(solves)
	}
	headers := []string{"When", "Category", "Given", "Exact", "Answer", "Error %", "Tries"}
	rows := make([][]string, 0, n)
	for i := len(solves) - 1; i >= len(solves)-n; i-- {
		s := solves[i]
		rows = append(rows, []string{
			s.SolvedAt.Local().Format("2006-01-02 15:04"),
			CategoryTitle(s.Category),
			formula.Quantity(s.Given) + " " + s.CustomaryUnit,
			fmt.Sprintf("%.4g %s", s.Exact, s.MetricUnit),
			fmt.Sprintf("%g %s", s.Answer, s.MetricUnit),
			fmt.Sprintf("%.0f", s.ErrorPercent),
			fmt.Sprintf("%d", s.Tries),
		})
	}
	for _, line := range formatTable(headers, rows, map[int]bool{5: true, 6: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderGames prints the latest n games, newest first, with a trend line
// of their average error.
func RenderGames(w io.Writer, games []model.GameRecord, n int) error {
	if len(games) == 0 {
		_, err := fmt.Fprintln(w, "No games found.")
		return err
	}
	if n <= 0 || n > len(games) {
		n = len(games)
	}
	headers := []string{"Started", "Outcome", "Level", "Solved", "Accepted %", "Avg error %"}
	rows := make([][]string, 0, n)
	for i := len(games) - 1; i >= len(games)-n; i-- {
		g := games[i]
		rows = append(rows, []string{
			g.StartedAt.Local().Format("2006-01-02 15:04"),
			g.Outcome,
			fmt.Sprintf("%d", g.Level),
			fmt.Sprintf("%d", g.Solved),
			fmt.Sprintf("%.1f", GameMetrics(g)),
			fmt.Sprintf("%.2f", g.AvgError),
		})
	}
	for _, line := range formatTable(headers, rows, map[int]bool{2: true, 3: true, 4: true, 5: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	trend := make([]float64, len(games))
	for i, g := range games {
		trend[i] = g.AvgError
	}
	_, err := fmt.Fprintf(w, "Avg error trend: [%s]\n", Sparkline(trend))
	return err
}

// RenderFocus names the hardest conversions of the curve window.
func RenderFocus(w io.Writer, r Report, n int) error {
	labels := Hardest(r.WindowConversions, n)
	if len(labels) == 0 {
		return nil
	}
	_, err := fmt.Fprintf(w, "Practice next: %s\n", strings.Join(labels, ", "))
	return err
}
