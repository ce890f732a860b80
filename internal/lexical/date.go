package lexical

import (
	"regexp"
	"time"
)

// DateLayouts is the fixed order in which date tokens are tried. Month-first
// layouts come before day-first ones, so "03/04/2024" is read as March 4.
var DateLayouts = []string{
	"1/2/2006", // MM/DD/YYYY
	"1-2-2006", // MM-DD-YYYY
	"2/1/2006", // DD/MM/YYYY
	"2-1-2006", // DD-MM-YYYY
	"1/2/06",   // MM/DD/YY
	"1-2-06",   // MM-DD-YY
	"2006-1-2", // YYYY-MM-DD
}

var dateToken = regexp.MustCompile(`\b(\d{4}-\d{1,2}-\d{1,2}|\d{1,2}[/-]\d{1,2}[/-]\d{2,4})\b`)

// ExtractDateToken returns the first date-shaped token on the line.
func ExtractDateToken(line string) (string, bool) {
	m := dateToken.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// ParseDate parses a date token with the first layout in DateLayouts that
// accepts it. Results are in UTC.
func ParseDate(token string) (time.Time, bool) {
	for _, layout := range DateLayouts {
		if t, err := time.Parse(layout, token); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
