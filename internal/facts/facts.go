// Package facts provides the metric facts shown before a game starts.
package facts

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"math/rand"
	"os"
	"strings"
)

var builtin = []string{
	"The yard is defined as 0.9144 meters. The meter is defined as the length of the path travelled by light in a vacuum in 1/299792458 of a second.",
	"The Metric Conversion Act declared the metric system as \"the preferred system of weights and measures for United States trade and commerce\", but still allowed the use of customary units.",
	"Astronauts on the ISS have sets of tools for metric and customary units because only the American portion has been built in customary units.",
	"Joseph Dombey was sent to the US to help with metrication. On his way across the Atlantic he was captured by privateers and held captive in Montserrat where he died.",
	"Interstate 19 in Arizona is the only freeway in America that uses the metric system.",
	"The Mars Climate Orbiter was lost in space because some of its software was feeding customary unit output into another piece expecting metric units.",
	"The Gimli Glider was a Boeing 767 that ran out of fuel mid flight. During refueling, the crew used a conversion factor for pounds instead of one for kilograms.",
	"The fractional metric prefixes in decreasing order of magnitude are: deci, centi, milli, micro, nano, pico, femto, atto, zepto, yocto",
	"The multiple metric prefixes in increasing order of magnitude are: deca, hecto, kilo, mega, giga, tera, peta, exa, zetta, yotta",
	"An apple is usually 7 to 8 centimeters",
	"A person is about 1.7 meters tall",
	"CDs are 12 centimeters wide",
	"Cars are about 4 to 5 meters long",
	"An inch is about 25 millimeters",
	"An inch is about 2.5 centimeters",
	"An inch is about .025 meters",
	"A foot is about 30% of a meter",
	"A foot is about 30 centimeters",
	"A yard is about 90 centimeters",
	"A yard is about 90% of a meter",
	"A mile is about 1600 meters",
	"A mile is about 1.6 kilometers",
	"An ounce is about 28 grams",
	"An ounce is about 3 hundredths of a kilogram",
	"A pound is a little less than half a kilogram",
	"A fluid ounce is about 30 milliliters",
	"A fluid ounce is about 3 hundredths of a liter",
	"A pint is a little less than half a liter",
	"A pint is about 470 milliliters",
	"A quart is a little under a liter",
	"A gallon is about 3.8 liters",
}

// Builtin returns a copy of the built-in facts.
func Builtin() []string {
	return append([]string(nil), builtin...)
}

// LoadFacts reads one fact per line from path. Blank lines are skipped.
// A missing file yields the built-in facts.
func LoadFacts(path string) ([]string, error) {
	if path == "" {
		return Builtin(), nil
	}
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Builtin(), nil
		}
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only facts file.
			_ = cerr
		}
	}()

	var out []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read facts %s: %w", path, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("facts file %s is empty", path)
	}
	return out, nil
}

// Pick returns a uniformly drawn fact, or "" for an empty list.
func Pick(rnd *rand.Rand, list []string) string {
	if len(list) == 0 {
		return ""
	}
	return list[rnd.Intn(len(list))]
}
