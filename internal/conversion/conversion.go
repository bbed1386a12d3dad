// Package conversion defines conversion definitions and the problems drawn from them.
package conversion

import (
	"fmt"
	"math"
	"strings"

	"github.com/FireLemons/ToMetric/internal/formula"
)

// Category names a measurement category as it appears in the options.
type Category string

// Measurement categories.
const (
	Distance     Category = "distance"
	LiquidVolume Category = "liquidVolume"
	Mass         Category = "mass"
	Speed        Category = "speed"
	Temperature  Category = "temperature"
)

// Categories lists every category in display order.
var Categories = []Category{Distance, LiquidVolume, Mass, Speed, Temperature}

// Conversion maps a customary value to its metric equivalent. It is either a
// LinearRatio or an AffineTransform.
type Conversion interface {
	Apply(customary float64) float64
	conversion()
}

// LinearRatio converts by multiplication.
type LinearRatio float64

// Apply implements Conversion.
func (r LinearRatio) Apply(customary float64) float64 { return customary * float64(r) }

func (LinearRatio) conversion() {}

// AffineTransform converts with an arbitrary function, e.g. temperature.
type AffineTransform func(customary float64) float64

// Apply implements Conversion.
func (f AffineTransform) Apply(customary float64) float64 { return f(customary) }

func (AffineTransform) conversion() {}

// Spec is the raw description of a definition before validation.
type Spec struct {
	Category      Category
	CustomaryKey  string // options key, e.g. "inches"
	MetricKey     string // options key, e.g. "millimeters"
	CustomaryUnit string // display label, e.g. "in"
	MetricUnit    string // display label, e.g. "mm"
	Conversion    Conversion
	Magnitude     Magnitude
	Formula       string // optional for LinearRatio
}

// Definition is a validated, immutable conversion definition.
type Definition struct {
	category      Category
	customaryKey  string
	metricKey     string
	customaryUnit string
	metricUnit    string
	conversion    Conversion
	magnitude     Magnitude
	formula       string
}

// New validates spec and derives the formula in the given notation when none
// is supplied.
func New(spec Spec, notation formula.Notation) (Definition, error) {
	if strings.TrimSpace(spec.CustomaryUnit) == "" || strings.TrimSpace(spec.MetricUnit) == "" {
		return Definition{}, fmt.Errorf("%s/%s: %w", spec.CustomaryKey, spec.MetricKey, ErrEmptyUnit)
	}
	if spec.Magnitude == nil {
		return Definition{}, fmt.Errorf("%s -> %s: %w", spec.CustomaryUnit, spec.MetricUnit, ErrMissingMagnitude)
	}

	text := spec.Formula
	switch c := spec.Conversion.(type) {
	case LinearRatio:
		r := float64(c)
		if math.IsNaN(r) || math.IsInf(r, 0) || r <= 0 {
			return Definition{}, fmt.Errorf("%s -> %s: ratio %v: %w", spec.CustomaryUnit, spec.MetricUnit, r, ErrInvalidConversion)
		}
		if text == "" {
			text = formula.Render(r, spec.CustomaryUnit, spec.MetricUnit, notation)
		}
	case AffineTransform:
		if c == nil {
			return Definition{}, fmt.Errorf("%s -> %s: %w", spec.CustomaryUnit, spec.MetricUnit, ErrInvalidConversion)
		}
		if text == "" {
			return Definition{}, fmt.Errorf("%s -> %s: %w", spec.CustomaryUnit, spec.MetricUnit, ErrFormulaRequired)
		}
	default:
		return Definition{}, fmt.Errorf("%s -> %s: %w", spec.CustomaryUnit, spec.MetricUnit, ErrInvalidConversion)
	}

	return Definition{
		category:      spec.Category,
		customaryKey:  spec.CustomaryKey,
		metricKey:     spec.MetricKey,
		customaryUnit: spec.CustomaryUnit,
		metricUnit:    spec.MetricUnit,
		conversion:    spec.Conversion,
		magnitude:     spec.Magnitude,
		formula:       text,
	}, nil
}

// MustNew is like New but panics on error. Intended for static tables.
func MustNew(spec Spec, notation formula.Notation) Definition {
	d, err := New(spec, notation)
	if err != nil {
		panic(err)
	}
	return d
}

// Key identifies the definition by its options keys, e.g. "inches/millimeters".
func (d Definition) Key() string { return d.customaryKey + "/" + d.metricKey }

func (d Definition) Category() Category { return d.category }
func (d Definition) CustomaryKey() string { return d.customaryKey }
func (d Definition) MetricKey() string { return d.metricKey }
func (d Definition) CustomaryUnit() string { return d.customaryUnit }
func (d Definition) MetricUnit() string { return d.metricUnit }
func (d Definition) Formula() string { return d.formula }
func (d Definition) Conversion() Conversion { return d.conversion }

// Ratio returns the linear ratio and true, or false for transform conversions.
func (d Definition) Ratio() (float64, bool) {
	if r, ok := d.conversion.(LinearRatio); ok {
		return float64(r), true
	}
	return 0, false
}

// Instance draws a customary quantity for difficulty and converts it.
func (d Definition) Instance(src Source, difficulty float64) Problem {
	given := d.magnitude(src, difficulty)
	return d.ProblemFor(given)
}

// ProblemFor builds the problem for a fixed customary quantity.
func (d Definition) ProblemFor(given float64) Problem {
	return Problem{
		Key:           d.Key(),
		Category:      d.category,
		Given:         given,
		Exact:         d.conversion.Apply(given),
		CustomaryUnit: d.customaryUnit,
		MetricUnit:    d.metricUnit,
		Formula:       d.formula,
	}
}
