package conversion

import "github.com/FireLemons/ToMetric/internal/formula"

// Problem is one concrete conversion question.
type Problem struct {
	Key           string
	Category      Category
	Given         float64
	Exact         float64
	CustomaryUnit string
	MetricUnit    string
	Formula       string
}

// GivenDisplay returns the given quantity without float noise.
func (p Problem) GivenDisplay() string {
	return formula.Quantity(p.Given)
}

// IsZero reports whether p is the zero Problem.
func (p Problem) IsZero() bool {
	return p.Key == "" && p.CustomaryUnit == ""
}
