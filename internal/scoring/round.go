package scoring

import (
	"math"
	"strconv"
)

// Round rounds half up from the floor: 2.5 -> 3, 2.49 -> 2.
func Round(x float64) float64 {
	f := math.Floor(x)
	if x-f < 0.5 {
		return f
	}
	return f + 1
}

// Compact shortens the first run of three or more identical digits that is
// not at the very start of s, e.g. "1.3333333" -> "1.33...".
func Compact(s string) string {
	for i := 1; i+2 < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			continue
		}
		if s[i+1] == c && s[i+2] == c {
			return s[:i] + string([]byte{c, c}) + "..."
		}
	}
	return s
}

// CompactFloat formats v in plain decimal form and compacts it.
func CompactFloat(v float64) string {
	return Compact(strconv.FormatFloat(v, 'f', -1, 64))
}
