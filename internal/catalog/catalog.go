// Package catalog builds the set of conversion definitions a game samples from.
package catalog

import (
	"errors"
	"fmt"

	"github.com/FireLemons/ToMetric/internal/conversion"
	"github.com/FireLemons/ToMetric/internal/formula"
	"github.com/FireLemons/ToMetric/internal/model"
)

// ErrEmpty is returned when no conversion survives the options filter.
var ErrEmpty = errors.New("catalog: no conversions enabled")

// Catalog is an immutable, non-empty sequence of active definitions.
type Catalog struct {
	defs []conversion.Definition
}

// Build filters the candidate specs through opts and validates the survivors.
// Odd conversions are added to the candidates when enabled.
func Build(opts model.Options) (*Catalog, error) {
	notation := formula.Fixed
	if opts.General.Scientific {
		notation = formula.Scientific
	}

	candidates := Standard()
	if opts.General.OddConversions {
		candidates = append(candidates, Odd()...)
	}

	defs := make([]conversion.Definition, 0, len(candidates))
	for _, spec := range candidates {
		if !Enabled(opts.Measurements, spec) {
			continue
		}
		def, err := conversion.New(spec, notation)
		if err != nil {
			return nil, fmt.Errorf("build catalog: %w", err)
		}
		defs = append(defs, def)
	}
	return New(defs)
}

// New wraps definitions in a Catalog.
func New(defs []conversion.Definition) (*Catalog, error) {
	if len(defs) == 0 {
		return nil, ErrEmpty
	}
	return &Catalog{defs: append([]conversion.Definition(nil), defs...)}, nil
}

// Enabled reports whether spec's category and both of its units are on.
// Categories or units absent from measurements count as enabled.
func Enabled(measurements map[string]model.Measurement, spec conversion.Spec) bool {
	m, ok := measurements[string(spec.Category)]
	if !ok {
		return true
	}
	if !m.On {
		return false
	}
	return unitOn(m.Customary, spec.CustomaryKey) && unitOn(m.Metric, spec.MetricKey)
}

func unitOn(units map[string]bool, key string) bool {
	on, ok := units[key]
	return !ok || on
}

// Len returns the number of definitions.
func (c *Catalog) Len() int { return len(c.defs) }

// At returns the i-th definition.
func (c *Catalog) At(i int) conversion.Definition { return c.defs[i] }

// Definitions returns a copy of the definitions.
func (c *Catalog) Definitions() []conversion.Definition {
	return append([]conversion.Definition(nil), c.defs...)
}

// Categories returns the distinct categories present, in display order.
func (c *Catalog) Categories() []conversion.Category {
	seen := map[conversion.Category]bool{}
	for _, d := range c.defs {
		seen[d.Category()] = true
	}
	var out []conversion.Category
	for _, category := range conversion.Categories {
		if seen[category] {
			out = append(out, category)
		}
	}
	return out
}
