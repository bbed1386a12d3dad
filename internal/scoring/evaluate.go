// Package scoring evaluates answers against the exact conversion.
package scoring

import (
	"math"
	"strconv"
	"strings"

	"github.com/FireLemons/ToMetric/internal/conversion"
)

// LessThanOne is displayed instead of an error that rounds to zero.
const LessThanOne = "< 1"

// ErrorPercent is a rounded percentage error.
type ErrorPercent struct {
	Rounded float64
}

// IsLessThanOne reports whether the error rounded to zero.
func (e ErrorPercent) IsLessThanOne() bool { return e.Rounded == 0 }

// Numeric returns the value used for averaging; the sentinel counts as 0.
func (e ErrorPercent) Numeric() float64 { return e.Rounded }

func (e ErrorPercent) String() string {
	if e.IsLessThanOne() {
		return LessThanOne
	}
	return strconv.FormatFloat(e.Rounded, 'f', -1, 64)
}

// NewErrorPercent rounds a raw percentage error.
func NewErrorPercent(percent float64) ErrorPercent {
	return ErrorPercent{Rounded: math.Abs(Round(percent))}
}

// RoundStat describes one accepted answer.
type RoundStat struct {
	Key           string
	Category      conversion.Category
	CustomaryUnit string
	MetricUnit    string

	ErrorPercent ErrorPercent
	ErrorAmount  string // compacted |answer - exact|
	Exact        string // compacted
	UserAnswer   string
	Given        string
	Tries        int

	GivenValue   float64
	ExactValue   float64
	AnswerValue  float64
	PercentError float64
}

// Outcome is the result of evaluating one answer.
type Outcome struct {
	Accepted     bool
	PercentError float64
	Stat         RoundStat // set when Accepted
}

// Evaluator accepts answers within Tolerance percent, inclusive.
type Evaluator struct {
	Tolerance float64
}

// ParseAnswer parses user input. Empty or malformed input reports false.
func ParseAnswer(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// PercentError returns |exact - answer| * 100 / |exact|. A zero exact value
// only matches a zero answer.
func PercentError(exact, answer float64) float64 {
	if math.IsNaN(answer) || math.IsInf(answer, 0) {
		return math.Inf(1)
	}
	if exact == 0 {
		if answer == 0 {
			return 0
		}
		return math.Inf(1)
	}
	return math.Abs((exact - answer) * 100 / exact)
}

// Evaluate scores answer against p. tries counts attempts on p including
// this one. Unparsable answers score an infinite error.
func (e Evaluator) Evaluate(p conversion.Problem, answer string, tries int) Outcome {
	value, ok := ParseAnswer(answer)
	if !ok {
		return Outcome{PercentError: math.Inf(1)}
	}

	pe := PercentError(p.Exact, value)
	if !(pe <= e.Tolerance) {
		return Outcome{PercentError: pe}
	}

	return Outcome{
		Accepted:     true,
		PercentError: pe,
		Stat: RoundStat{
			Key:           p.Key,
			Category:      p.Category,
			CustomaryUnit: p.CustomaryUnit,
			MetricUnit:    p.MetricUnit,
			ErrorPercent:  NewErrorPercent(pe),
			ErrorAmount:   CompactFloat(math.Abs(value - p.Exact)),
			Exact:         CompactFloat(p.Exact),
			UserAnswer:    strconv.FormatFloat(value, 'f', -1, 64),
			Given:         p.GivenDisplay(),
			Tries:         tries,
			GivenValue:    p.Given,
			ExactValue:    p.Exact,
			AnswerValue:   value,
			PercentError:  pe,
		},
	}
}
