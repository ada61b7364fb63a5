package textutil

import (
	"strings"
	"unicode"
)

// Tokenize splits text into lowercase word tokens, dropping URLs and tokens
// shorter than minLen runes.
func Tokenize(text string, minLen int) []string {
	fields := strings.Fields(strings.ToLower(text))
	terms := make([]string, 0, len(fields))
	for _, field := range fields {
		if strings.HasPrefix(field, "http://") || strings.HasPrefix(field, "https://") {
			continue
		}
		for _, token := range strings.FieldsFunc(field, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
		}) {
			token = strings.Trim(token, "'")
			if len([]rune(token)) < minLen {
				continue
			}
			terms = append(terms, token)
		}
	}
	return terms
}
