package lexical

import "strings"

// MatchesAnyKeyword reports whether text contains any of the keywords,
// ignoring case.
func MatchesAnyKeyword(text string, keywords []string) bool {
	_, ok := FirstKeyword(text, keywords)
	return ok
}

// FirstKeyword returns the first keyword, in list order, contained in text.
func FirstKeyword(text string, keywords []string) (string, bool) {
	lower := strings.ToLower(text)
	for _, keyword := range keywords {
		if strings.Contains(lower, strings.ToLower(keyword)) {
			return keyword, true
		}
	}
	return "", false
}
