package engine

import (
	"strings"
	"unicode"
)

func isSeparator(r rune) bool {
	if unicode.IsSpace(r) {
		return true
	}
	switch r {
	case '.', ',', '!', '?', ';', ':', '(', ')', '[', ']', '{', '}', '"', '\'':
		return true
	}
	return false
}

// Tokenize lowercases text and splits it on whitespace and the separator punctuation.
// Empty tokens are dropped; the order of the remaining tokens is preserved.
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), isSeparator)
}

// termCounts returns the distinct terms in first-seen order and their occurrence counts.
func termCounts(tokens []string) ([]string, map[string]int) {
	counts := make(map[string]int, len(tokens))
	var distinct []string
	for _, token := range tokens {
		if counts[token] == 0 {
			distinct = append(distinct, token)
		}
		counts[token]++
	}
	return distinct, counts
}
