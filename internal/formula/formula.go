// Package formula renders conversion ratios as display formulas.
package formula

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Notation selects how a ratio coefficient is written.
type Notation int

const (
	// Fixed writes the ratio as a plain decimal, e.g. 25.4.
	Fixed Notation = iota
	// Scientific writes the ratio as mantissa×10^exponent, e.g. 2.54×10^1.
	Scientific
)

// significantDigits bounds the mantissa; digits past it are float noise.
const significantDigits = 12

// Render returns "1 <customary> = <coefficient> <metric>".
func Render(ratio float64, customary, metric string, notation Notation) string {
	return fmt.Sprintf("1 %s = %s %s", customary, Coefficient(ratio, notation), metric)
}

// Coefficient formats ratio in the requested notation.
func Coefficient(ratio float64, notation Notation) string {
	if notation == Scientific {
		mantissa, exponent := ScientificParts(ratio)
		if exponent == 0 {
			return mantissa
		}
		return mantissa + "×10^" + strconv.Itoa(exponent)
	}
	return FixedPoint(ratio)
}

// ScientificParts splits ratio into a mantissa with a single leading digit and
// a base-10 exponent. Trailing zeros of the mantissa are dropped.
func ScientificParts(ratio float64) (mantissa string, exponent int) {
	s := strconv.FormatFloat(ratio, 'e', significantDigits-1, 64)
	m, e, _ := strings.Cut(s, "e")
	exponent, err := strconv.Atoi(e)
	if err != nil {
		exponent = 0
	}
	return trimZeros(m), exponent
}

// FixedPoint formats ratio as a decimal. When the shortest decimal carries
// more fraction digits than the clean scientific mantissa implies, the value
// is re-rendered at the implied precision.
func FixedPoint(ratio float64) string {
	raw := strconv.FormatFloat(ratio, 'f', -1, 64)
	if math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		return raw
	}
	mantissa, exponent := ScientificParts(ratio)
	precision := fractionDigits(mantissa) - exponent
	if precision < 0 {
		precision = 0
	}
	if fractionDigits(raw) > precision {
		return strconv.FormatFloat(ratio, 'f', precision, 64)
	}
	return raw
}

func fractionDigits(s string) int {
	i := strings.IndexByte(s, '.')
	if i < 0 {
		return 0
	}
	return len(s) - i - 1
}

func trimZeros(s string) string {
	if !strings.Contains(s, ".") {
		return s
	}
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
