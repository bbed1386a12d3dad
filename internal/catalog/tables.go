package catalog

import "github.com/FireLemons/ToMetric/internal/conversion"

func ratio(category conversion.Category, customaryKey, metricKey string, r float64, gen conversion.Magnitude) conversion.Spec {
	return conversion.Spec{
		Category:      category,
		CustomaryKey:  customaryKey,
		MetricKey:     metricKey,
		CustomaryUnit: label(category, customaryKey, true),
		MetricUnit:    label(category, metricKey, false),
		Conversion:    conversion.LinearRatio(r),
		Magnitude:     gen,
	}
}

func label(category conversion.Category, key string, customary bool) string {
	units := unitTable[category].metric
	if customary {
		units = unitTable[category].customary
	}
	for _, u := range units {
		if u.Key == key {
			return u.Label
		}
	}
	return ""
}

// Standard returns the candidate definitions of everyday conversions.
func Standard() []conversion.Spec {
	fine, coarse := conversion.Fine, conversion.Coarse
	return []conversion.Spec{
		ratio(conversion.Distance, "inches", "millimeters", 25.4, fine),
		ratio(conversion.Distance, "inches", "centimeters", 2.54, fine),
		ratio(conversion.Distance, "inches", "meters", 0.0254, coarse),
		ratio(conversion.Distance, "feet", "centimeters", 30.48, fine),
		ratio(conversion.Distance, "feet", "meters", 0.3048, coarse),
		ratio(conversion.Distance, "yards", "centimeters", 91.44, fine),
		ratio(conversion.Distance, "yards", "meters", 0.9144, coarse),
		ratio(conversion.Distance, "miles", "meters", 1609.344, fine),
		ratio(conversion.Distance, "miles", "kilometers", 1.609, coarse),

		ratio(conversion.LiquidVolume, "fluidOunces", "milliliters", 29.57, fine),
		ratio(conversion.LiquidVolume, "fluidOunces", "liters", 0.02957, coarse),
		ratio(conversion.LiquidVolume, "pints", "milliliters", 473.2, fine),
		ratio(conversion.LiquidVolume, "pints", "liters", 0.4732, coarse),
		ratio(conversion.LiquidVolume, "quarts", "liters", 0.9463, coarse),
		ratio(conversion.LiquidVolume, "gallons", "liters", 3.785, coarse),

		ratio(conversion.Mass, "ounces", "grams", 28.349, fine),
		ratio(conversion.Mass, "ounces", "kilograms", 0.02834, coarse),
		ratio(conversion.Mass, "pounds", "kilograms", 0.453, coarse),

		ratio(conversion.Speed, "feetPerSecond", "metersPerSecond", 0.3048, coarse),
		ratio(conversion.Speed, "feetPerSecond", "kilometersPerHour", 1.097, coarse),
		ratio(conversion.Speed, "milesPerHour", "metersPerSecond", 0.44704, fine),
		ratio(conversion.Speed, "milesPerHour", "kilometersPerHour", 1.609, coarse),

		{
			Category:      conversion.Temperature,
			CustomaryKey:  "fahrenheit",
			MetricKey:     "celsius",
			CustomaryUnit: "°F",
			MetricUnit:    "°C",
			Conversion:    conversion.AffineTransform(func(f float64) float64 { return (f - 32) * 5 / 9 }),
			Magnitude:     conversion.Stepped(-20, 5),
			Formula:       "(°F − 32) × 5/9 = °C",
		},
	}
}

// Odd returns conversions between units of very different magnitude.
func Odd() []conversion.Spec {
	fine, coarse := conversion.Fine, conversion.Coarse
	return []conversion.Spec{
		ratio(conversion.Distance, "inches", "kilometers", 0.0000254, coarse),
		ratio(conversion.Distance, "feet", "millimeters", 304.8, fine),
		ratio(conversion.Distance, "feet", "kilometers", 0.0003048, coarse),
		ratio(conversion.Distance, "yards", "millimeters", 914.4, fine),
		ratio(conversion.Distance, "yards", "kilometers", 0.0009144, coarse),
		ratio(conversion.Distance, "miles", "millimeters", 1609344, fine),
		ratio(conversion.Distance, "miles", "centimeters", 160934.4, fine),
		ratio(conversion.Mass, "pounds", "grams", 453.592, fine),
		ratio(conversion.LiquidVolume, "quarts", "milliliters", 946.3, fine),
		ratio(conversion.LiquidVolume, "gallons", "milliliters", 3785.41, fine),
	}
}
