package stats

import (
	"context"

	"github.com/FireLemons/ToMetric/internal/model"
)

// Source is the history the report is built from. *store.Store satisfies it.
type Source interface {
	ListGames(ctx context.Context, cfg model.StatsConfig) ([]model.GameRecord, error)
	ListSolves(ctx context.Context, gameIDs []string, category string) ([]model.SolveRecord, error)
	ListConversionAggregates(ctx context.Context, gameIDs []string, category string) ([]model.ConversionAggregate, error)
}

// Report contains precomputed data for stats rendering.
type Report struct {
	Games             []model.GameRecord
	Solves            []model.SolveRecord
	Conversions       []ConversionRow
	WindowConversions []ConversionRow
	Distribution      Distribution
	Summary           Summary
	CurveWindow       int
}

// Summary holds the overview numbers.
type Summary struct {
	Games      int
	Losses     int
	Solved     int
	Attempts   int
	AcceptRate float64
	BestLevel  int
}

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, src Source, cfg model.StatsConfig) (Report, error) {
	games, err := src.ListGames(ctx, cfg)
	if err != nil {
		return Report{}, err
	}
	allIDs := gameIDs(games)
	solves, err := src.ListSolves(ctx, allIDs, cfg.Category)
	if err != nil {
		return Report{}, err
	}
	aggsAll, err := src.ListConversionAggregates(ctx, allIDs, cfg.Category)
	if err != nil {
		return Report{}, err
	}
	aggsWindow, err := src.ListConversionAggregates(ctx, lastGameIDs(games, cfg.CurveWindow), cfg.Category)
	if err != nil {
		return Report{}, err
	}
	dist, err := ErrorDistribution(solves)
	if err != nil {
		return Report{}, err
	}

	return Report{
		Games:             games,
		Solves:            solves,
		Conversions:       ConversionRows(aggsAll),
		WindowConversions: ConversionRows(aggsWindow),
		Distribution:      dist,
		Summary:           summarize(games, solves),
		CurveWindow:       cfg.CurveWindow,
	}, nil
}

func summarize(games []model.GameRecord, solves []model.SolveRecord) Summary {
	s := Summary{Games: len(games), Solved: len(solves)}
	for _, g := range games {
		if g.Outcome == model.OutcomeLost {
			s.Losses++
		}
		s.BestLevel = max(s.BestLevel, g.Level)
	}
	for _, r := range solves {
		s.Attempts += r.Tries
	}
	if s.Attempts > 0 {
		s.AcceptRate = float64(s.Solved) / float64(s.Attempts) * 100
	}
	return s
}

func gameIDs(games []model.GameRecord) []string {
	ids := make([]string, len(games))
	for i, g := range games {
		ids[i] = g.ID
	}
	return ids
}

func lastGameIDs(games []model.GameRecord, window int) []string {
	if window <= 0 || len(games) <= window {
		return gameIDs(games)
	}
	return gameIDs(games[len(games)-window:])
}
