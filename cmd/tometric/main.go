// Package main provides the CLI entrypoint for tometric.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/FireLemons/ToMetric/internal/catalog"
	"github.com/FireLemons/ToMetric/internal/config"
	"github.com/FireLemons/ToMetric/internal/facts"
	"github.com/FireLemons/ToMetric/internal/logging"
	"github.com/FireLemons/ToMetric/internal/model"
	"github.com/FireLemons/ToMetric/internal/progress"
	"github.com/FireLemons/ToMetric/internal/sampler"
	"github.com/FireLemons/ToMetric/internal/store"
	"github.com/FireLemons/ToMetric/internal/tui"
)

const defaultCurveWindow = 20

var (
	practicePrecision  float64
	practiceOdd        bool
	practiceScientific bool
	practiceTimed      bool
	practiceSeconds    int
	practiceQuota      int
	practiceDifficulty float64
	practiceStep       float64
	practiceNoFact     bool
	practiceFormula    bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "tometric",
		Short:         "Practice estimating metric conversions",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	flags := rootCmd.Flags()
	flags.Float64Var(&practicePrecision, "precision", config.DefaultPrecision, "accepted error in percent")
	flags.BoolVar(&practiceOdd, "odd", false, "include odd conversions (e.g. miles to millimeters)")
	flags.BoolVar(&practiceScientific, "scientific", false, "show formulas in scientific notation")
	flags.BoolVar(&practiceTimed, "timed", false, "limit the time per problem")
	flags.IntVar(&practiceSeconds, "seconds", config.DefaultSecondsPerProblem, "seconds per problem in timed games")
	flags.IntVar(&practiceQuota, "quota", config.DefaultLevelUpQuota, "problems per level at the start")
	flags.Float64Var(&practiceDifficulty, "difficulty", config.DefaultDifficulty, "starting difficulty")
	flags.Float64Var(&practiceStep, "step", config.DefaultDifficultyStep, "difficulty added by a level-up")
	flags.BoolVar(&practiceNoFact, "no-fact", false, "skip the metric fact before the game")
	flags.BoolVar(&practiceFormula, "formula", false, "show the conversion formula from the start")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newUnitsCmd())
	rootCmd.AddCommand(newFactsCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newExportCmd())

	return rootCmd
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	env, err := config.LoadEnv()
	if err != nil {
		return err
	}
	logger, closeLog, err := logging.Open(env.LogPath, env.LogLevel)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeLog(); cerr != nil {
			logErrf("failed to close log: %v\n", cerr)
		}
	}()

	opts, err := resolvePracticeOptions(cmd, env.ConfigPath)
	if err != nil {
		return err
	}
	cat, err := catalog.Build(opts)
	if err != nil {
		if errors.Is(err, catalog.ErrEmpty) {
			return fmt.Errorf("%w\nEnable at least one unit pair with: tometric config", err)
		}
		return err
	}

	st, err := store.Open(env.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	fact := ""
	if !practiceNoFact {
		list, err := facts.LoadFacts(env.FactsPath)
		if err != nil {
			logger.Warn("load facts", "path", env.FactsPath, "err", err)
			list = facts.Builtin()
		}
		fact = facts.Pick(rand.New(rand.NewSource(time.Now().UnixNano())), list)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sched := progress.NewChannelScheduler(ctx)
	smp := sampler.New()
	machine, err := progress.New(cat, smp, progress.SettingsFromOptions(opts),
		progress.WithScheduler(sched),
		progress.WithRoll(smp.Float64),
	)
	if err != nil {
		return err
	}
	defer machine.Close()

	logger.Info("starting game",
		slog.Int("conversions", cat.Len()),
		slog.Bool("timed", opts.Game.Timed),
		slog.Float64("precision", opts.General.Precision),
	)
	ui := tui.NewModel(tui.Options{
		Machine:     machine,
		Ticks:       sched.Ticks(),
		Recorder:    st,
		Logger:      logger,
		Fact:        fact,
		ShowFormula: practiceFormula,
	})
	program := tea.NewProgram(ui, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// resolvePracticeOptions merges defaults, the config file and the flags.
// A flag wins over the file only when it was set explicitly.
func resolvePracticeOptions(cmd *cobra.Command, configPath string) (model.Options, error) {
	fileCfg, err := config.LoadConfig(configPath)
	if err != nil {
		return model.Options{}, fmt.Errorf("failed to load config: %w", err)
	}
	opts, err := config.Apply(config.Defaults(), fileCfg)
	if err != nil {
		return model.Options{}, fmt.Errorf("failed to load config: %w", err)
	}

	applyFloatConfig(cmd, "precision", &practicePrecision, fileCfg.General.Precision)
	applyBoolConfig(cmd, "odd", &practiceOdd, fileCfg.General.OddConversions)
	applyBoolConfig(cmd, "scientific", &practiceScientific, fileCfg.General.Scientific)
	applyBoolConfig(cmd, "timed", &practiceTimed, fileCfg.Game.Timed)
	applyIntConfig(cmd, "seconds", &practiceSeconds, fileCfg.Game.SecondsPerProblem)
	applyIntConfig(cmd, "quota", &practiceQuota, fileCfg.Game.LevelUpQuota)
	applyFloatConfig(cmd, "difficulty", &practiceDifficulty, fileCfg.Game.Difficulty)
	applyFloatConfig(cmd, "step", &practiceStep, fileCfg.Game.DifficultyStep)

	opts.General = model.General{
		OddConversions: practiceOdd,
		Precision:      practicePrecision,
		Scientific:     practiceScientific,
	}
	opts.Game = model.Game{
		Timed:             practiceTimed,
		SecondsPerProblem: practiceSeconds,
		LevelUpQuota:      practiceQuota,
		Difficulty:        practiceDifficulty,
		DifficultyStep:    practiceStep,
	}
	if err := config.Validate(opts); err != nil {
		return model.Options{}, err
	}
	return opts, nil
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
