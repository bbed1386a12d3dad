package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/FireLemons/ToMetric/internal/catalog"
	"github.com/FireLemons/ToMetric/internal/config"
)

var importForce bool

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
	cmd.AddCommand(newConfigImportCmd())
	return cmd
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	env, err := config.LoadEnv()
	if err != nil {
		return err
	}
	path := env.ConfigPath
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newConfigImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <options.json>",
		Short: "Import options saved by the web version",
		Args:  cobra.ExactArgs(1),
		RunE:  runConfigImportCmd,
	}
	cmd.Flags().BoolVar(&importForce, "force", false, "overwrite an existing config file")
	return cmd
}

func runConfigImportCmd(_ *cobra.Command, args []string) error {
	env, err := config.LoadEnv()
	if err != nil {
		return err
	}
	return importOptions(args[0], env.ConfigPath, importForce)
}

func importOptions(jsonPath, configPath string, force bool) error {
	imported, err := config.LoadOptionsJSON(jsonPath)
	if err != nil {
		return err
	}
	opts, err := config.Apply(config.Defaults(), imported)
	if err != nil {
		return err
	}
	if err := config.Validate(opts); err != nil {
		return err
	}
	if _, err := catalog.Build(opts); err != nil {
		return fmt.Errorf("imported options: %w", err)
	}

	if !force {
		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("config already exists: %s (use --force to overwrite)", configPath)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
	}
	if err := config.WriteConfig(configPath, config.FromOptions(opts)); err != nil {
		return err
	}
	logErrf("Wrote %s\n", configPath)
	return nil
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# tometric configuration
# Uncomment a value to enable it. CLI flags override config values.

[general]
# precision = %.1f          # Accepted error in percent
# odd-conversions = false   # Include odd conversions (e.g. miles to millimeters)
# scientific = false        # Show formulas in scientific notation

[game]
# timed = false             # Limit the time per problem
# seconds-per-problem = %d  # Seconds per problem in timed games
# level-up-quota = %d        # Problems per level at the start
# difficulty = %.1f          # Starting difficulty
# difficulty-step = %.1f     # Difficulty added by a level-up

# Every category and unit is on by default. Run "tometric units" for the keys.
# [measurements.temperature]
# on = false
#
# [measurements.distance.customary.yards]
# on = false
`,
		config.DefaultPrecision,
		config.DefaultSecondsPerProblem,
		config.DefaultLevelUpQuota,
		config.DefaultDifficulty,
		config.DefaultDifficultyStep,
	)
}
