package main

import (
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/FireLemons/ToMetric/internal/catalog"
	"github.com/FireLemons/ToMetric/internal/config"
	"github.com/FireLemons/ToMetric/internal/facts"
	"github.com/FireLemons/ToMetric/internal/stats"
)

var (
	unitsOdd        bool
	unitsScientific bool
	factsRandom     bool
)

func newUnitsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "units",
		Short: "List the conversions enabled by the config",
		Args:  cobra.NoArgs,
		RunE:  runUnitsCmd,
	}
	cmd.Flags().BoolVar(&unitsOdd, "odd", false, "include odd conversions")
	cmd.Flags().BoolVar(&unitsScientific, "scientific", false, "show formulas in scientific notation")
	return cmd
}

func runUnitsCmd(cmd *cobra.Command, _ []string) error {
	env, err := config.LoadEnv()
	if err != nil {
		return err
	}
	opts, err := config.Resolve(env.ConfigPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("odd") {
		opts.General.OddConversions = unitsOdd
	}
	if cmd.Flags().Changed("scientific") {
		opts.General.Scientific = unitsScientific
	}

	cat, err := catalog.Build(opts)
	if err != nil {
		return err
	}
	return printCatalog(cmd.OutOrStdout(), cat)
}

func printCatalog(w io.Writer, cat *catalog.Catalog) error {
	defs := cat.Definitions()
	keyWidth := 0
	for _, def := range defs {
		keyWidth = max(keyWidth, runewidth.StringWidth(def.Key()))
	}
	for i, category := range cat.Categories() {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
		}
		if _, err := fmt.Fprintln(w, stats.CategoryTitle(string(category))); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		for _, def := range defs {
			if def.Category() != category {
				continue
			}
			line := "  " + runewidth.FillRight(def.Key(), keyWidth) + "  " + def.Formula()
			if _, err := fmt.Fprintln(w, line); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
		}
	}
	return nil
}

func newFactsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "facts",
		Short: "Print metric facts",
		Args:  cobra.NoArgs,
		RunE:  runFactsCmd,
	}
	cmd.Flags().BoolVar(&factsRandom, "random", false, "print one random fact")
	return cmd
}

func runFactsCmd(cmd *cobra.Command, _ []string) error {
	env, err := config.LoadEnv()
	if err != nil {
		return err
	}
	list, err := facts.LoadFacts(env.FactsPath)
	if err != nil {
		return fmt.Errorf("failed to load facts: %w", err)
	}
	out := cmd.OutOrStdout()
	if factsRandom {
		_, err := fmt.Fprintln(out, facts.Pick(rand.New(rand.NewSource(time.Now().UnixNano())), list))
		return err
	}
	for i, fact := range list {
		if _, err := fmt.Fprintf(out, "%2d. %s\n", i+1, fact); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}
