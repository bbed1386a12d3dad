package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/FireLemons/ToMetric/internal/catalog"
	"github.com/FireLemons/ToMetric/internal/config"
	"github.com/FireLemons/ToMetric/internal/export"
	"github.com/FireLemons/ToMetric/internal/model"
	"github.com/FireLemons/ToMetric/internal/stats"
	"github.com/FireLemons/ToMetric/internal/statsui"
	"github.com/FireLemons/ToMetric/internal/store"
)

const (
	plainPlotHeight = 10
	plainRecent     = 10
	plainFocus      = 3
)

var (
	statsCategory    string
	statsSince       string
	statsLast        int
	statsCurveWindow int
	statsPlain       bool

	exportCategory string
	exportSince    string
	exportLast     int
)

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsCategory, "category", "", "category filter (e.g. distance)")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N games")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print a text report instead of the TUI")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := statsConfig(statsCategory, statsSince, statsLast, statsCurveWindow)
	if err != nil {
		return err
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	if statsPlain {
		report, err := stats.BuildReport(context.Background(), st, cfg)
		if err != nil {
			return fmt.Errorf("failed to build report: %w", err)
		}
		out := cmd.OutOrStdout()
		opts := stats.PlotOptions{
			Width:  stats.TerminalPlotWidth(),
			Height: plainPlotHeight,
			Color:  stats.ColorEnabled(out),
		}
		return renderPlain(out, report, opts)
	}

	ui := statsui.NewModel(st, cfg)
	program := tea.NewProgram(ui, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func renderPlain(w io.Writer, r stats.Report, opts stats.PlotOptions) error {
	if err := stats.RenderSummary(w, r, stats.NewPrinter()); err != nil {
		return err
	}
	if len(r.Games) == 0 {
		return nil
	}
	steps := []func() error{
		func() error { return stats.RenderGames(w, r.Games, plainRecent) },
		func() error { return stats.RenderCurves(w, r, opts) },
		func() error { return stats.RenderConversionTable(w, "All conversions", r.Conversions) },
		func() error {
			title := fmt.Sprintf("Last %d games", r.CurveWindow)
			return stats.RenderConversionTable(w, title, r.WindowConversions)
		},
		func() error { return stats.RenderFocus(w, r, plainFocus) },
		func() error { return stats.RenderRecent(w, r.Solves, plainRecent) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <history.xlsx>",
		Short: "Export games and solved problems to a spreadsheet",
		Args:  cobra.ExactArgs(1),
		RunE:  runExportCmd,
	}
	cmd.Flags().StringVar(&exportCategory, "category", "", "category filter (e.g. distance)")
	cmd.Flags().StringVar(&exportSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&exportLast, "last", 0, "limit to last N games")
	return cmd
}

func runExportCmd(_ *cobra.Command, args []string) error {
	path := args[0]
	if !strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return fmt.Errorf("export path must end in .xlsx: %s", path)
	}
	cfg, err := statsConfig(exportCategory, exportSince, exportLast, 1)
	if err != nil {
		return err
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	n, err := exportHistory(context.Background(), st, cfg, path)
	if err != nil {
		return err
	}
	logErrf("Wrote %d games to %s\n", n, path)
	return nil
}

func exportHistory(ctx context.Context, src stats.Source, cfg model.StatsConfig, path string) (int, error) {
	games, err := src.ListGames(ctx, cfg)
	if err != nil {
		return 0, fmt.Errorf("failed to list games: %w", err)
	}
	if len(games) == 0 {
		logErrln("No games found; writing empty sheets")
	}
	ids := make([]string, len(games))
	for i, g := range games {
		ids[i] = g.ID
	}
	solves, err := src.ListSolves(ctx, ids, cfg.Category)
	if err != nil {
		return 0, fmt.Errorf("failed to list solves: %w", err)
	}
	if err := export.WriteXLSX(path, games, solves); err != nil {
		return 0, err
	}
	return len(games), nil
}

func statsConfig(category, since string, last, curveWindow int) (model.StatsConfig, error) {
	cfg := model.StatsConfig{Last: last, CurveWindow: curveWindow}
	if category != "" {
		if !catalog.HasCategory(category) {
			return model.StatsConfig{}, fmt.Errorf("unknown category %q", category)
		}
		cfg.Category = category
	}
	if since != "" {
		parsed, err := time.ParseInLocation("2006-01-02", since, time.Local)
		if err != nil {
			return model.StatsConfig{}, fmt.Errorf("invalid --since value: %w", err)
		}
		cfg.Since = &parsed
	}
	if last < 0 {
		return model.StatsConfig{}, fmt.Errorf("--last must be >= 0")
	}
	if curveWindow < 1 {
		return model.StatsConfig{}, fmt.Errorf("--curve-window must be >= 1")
	}
	return cfg, nil
}

func openStore() (*store.Store, error) {
	env, err := config.LoadEnv()
	if err != nil {
		return nil, err
	}
	st, err := store.Open(env.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	return st, nil
}
