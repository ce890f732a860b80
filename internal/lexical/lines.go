// Package lexical holds the text primitives shared by receipt extraction and
// synthesis: line splitting, money and date token matching, keyword lookup.
package lexical

import "strings"

// isLineBreak reports whether r terminates a line.
func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}

// SplitLines splits OCR text into trimmed, non-empty lines in their original
// top-to-bottom order.
func SplitLines(text string) []string {
	fields := strings.FieldsFunc(text, isLineBreak)
	lines := make([]string, 0, len(fields))
	for _, field := range fields {
		line := strings.TrimSpace(field)
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
