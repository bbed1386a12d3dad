package formula

import (
	"math"
	"strconv"
)

// Quantity formats a sampled customary value for display. Values within float
// noise of a tenth are shown with at most one decimal.
func Quantity(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	tenth := math.Round(v*10) / 10
	if math.Abs(tenth-v) <= 1e-9*math.Max(1, math.Abs(v)) {
		v = tenth
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
