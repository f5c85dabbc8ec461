// Package filter implements stopword normalization and message matching.
package filter

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Normalize lowercases s the same way for stored stopwords and scanned text,
// so that membership and substring checks agree.
func Normalize(s string) string {
	return cases.Lower(language.Und).String(strings.TrimSpace(s))
}

// FirstMatch returns the first stopword, in stored order, that occurs in text
// as a case-insensitive substring. Words are expected to be normalized already.
func FirstMatch(text string, words []string) (string, bool) {
	if len(words) == 0 {
		return "", false
	}
	lower := cases.Lower(language.Und).String(text)
	for _, w := range words {
		if w == "" {
			continue
		}
		if strings.Contains(lower, w) {
			return w, true
		}
	}
	return "", false
}
