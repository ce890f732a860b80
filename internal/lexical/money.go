package lexical

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Pick selects which qualifying amount on a line wins.
type Pick int

const (
	// First returns the leftmost amount on the line.
	First Pick = iota
	// Last returns the rightmost amount on the line.
	Last
)

// moneyToken captures an optional dollar sign, an integer part (optionally
// grouped with thousands commas) and every dotted fraction that follows it, so
// that "1.234.56" is seen as one token and can be rejected as a whole.
var moneyToken = regexp.MustCompile(`\$?(\d{1,3}(?:,\d{3})+|\d+)((?:\.\d+)*)`)

var centsFraction = regexp.MustCompile(`^\.\d{2}$`)

// MonetaryValues returns every qualifying amount on the line, left to right.
// Only tokens of the exact shape digits '.' two-digits qualify.
func MonetaryValues(line string) []decimal.Decimal {
	var values []decimal.Decimal
	for _, m := range moneyToken.FindAllStringSubmatch(line, -1) {
		if !centsFraction.MatchString(m[2]) {
			continue
		}
		value, err := decimal.NewFromString(strings.ReplaceAll(m[1], ",", "") + m[2])
		if err != nil {
			continue
		}
		values = append(values, value)
	}
	return values
}

// ExtractMonetaryValue returns the first or last qualifying amount on a line.
func ExtractMonetaryValue(line string, pick Pick) (decimal.Decimal, bool) {
	values := MonetaryValues(line)
	if len(values) == 0 {
		return decimal.Zero, false
	}
	if pick == Last {
		return values[len(values)-1], true
	}
	return values[0], true
}

// MaxMonetaryValue returns the largest qualifying amount found on any line.
func MaxMonetaryValue(lines []string) (decimal.Decimal, bool) {
	largest := decimal.Zero
	found := false
	for _, line := range lines {
		for _, value := range MonetaryValues(line) {
			if !found || value.GreaterThan(largest) {
				largest = value
				found = true
			}
		}
	}
	return largest, found
}
