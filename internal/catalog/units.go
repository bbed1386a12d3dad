package catalog

import (
	"github.com/FireLemons/ToMetric/internal/conversion"
	"github.com/FireLemons/ToMetric/internal/model"
)

// Unit describes a configurable unit.
type Unit struct {
	Key   string // options key
	Label string // abbreviation shown in problems
	Name  string // human readable name
}

type categoryUnits struct {
	customary []Unit
	metric    []Unit
}

var unitTable = map[conversion.Category]categoryUnits{
	conversion.Distance: {
		customary: []Unit{
			{"inches", "in", "Inches"},
			{"feet", "ft", "Feet"},
			{"yards", "yd", "Yards"},
			{"miles", "mi", "Miles"},
		},
		metric: []Unit{
			{"millimeters", "mm", "Millimeters"},
			{"centimeters", "cm", "Centimeters"},
			{"meters", "m", "Meters"},
			{"kilometers", "km", "Kilometers"},
		},
	},
	conversion.LiquidVolume: {
		customary: []Unit{
			{"gallons", "gal", "Gallons"},
			{"quarts", "qt", "Quarts"},
			{"pints", "pt", "Pints"},
			{"fluidOunces", "fl oz", "Fluid Ounces"},
		},
		metric: []Unit{
			{"milliliters", "mL", "Milliliters"},
			{"liters", "L", "Liters"},
		},
	},
	conversion.Mass: {
		customary: []Unit{
			{"ounces", "oz", "Ounces"},
			{"pounds", "lb", "Pounds"},
		},
		metric: []Unit{
			{"grams", "g", "Grams"},
			{"kilograms", "kg", "Kilograms"},
		},
	},
	conversion.Speed: {
		customary: []Unit{
			{"milesPerHour", "mph", "Miles/Hour"},
			{"feetPerSecond", "ft/s", "Feet/Second"},
		},
		metric: []Unit{
			{"kilometersPerHour", "km/h", "Kilometers/Hour"},
			{"metersPerSecond", "m/s", "Meters/Second"},
		},
	},
	conversion.Temperature: {
		customary: []Unit{{"fahrenheit", "°F", "Fahrenheit"}},
		metric:    []Unit{{"celsius", "°C", "Celsius"}},
	},
}

// Units returns the customary and metric units of a category.
func Units(category conversion.Category) (customary, metric []Unit) {
	u := unitTable[category]
	return append([]Unit(nil), u.customary...), append([]Unit(nil), u.metric...)
}

// HasCategory reports whether name is a known category.
func HasCategory(name string) bool {
	_, ok := unitTable[conversion.Category(name)]
	return ok
}

// DefaultMeasurements returns every category and unit enabled.
func DefaultMeasurements() map[string]model.Measurement {
	out := make(map[string]model.Measurement, len(unitTable))
	for _, category := range conversion.Categories {
		u := unitTable[category]
		m := model.Measurement{
			On:        true,
			Customary: make(map[string]bool, len(u.customary)),
			Metric:    make(map[string]bool, len(u.metric)),
		}
		for _, unit := range u.customary {
			m.Customary[unit.Key] = true
		}
		for _, unit := range u.metric {
			m.Metric[unit.Key] = true
		}
		out[string(category)] = m
	}
	return out
}
