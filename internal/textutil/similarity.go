package textutil

import (
	"strings"
	"unicode"

	"github.com/pmezard/go-difflib/difflib"
)

// DefaultSimilarityThreshold is the ratio at or above which a comment is
// treated as a copy of a reference line.
const DefaultSimilarityThreshold = 0.8

// Normalize lowercases and trims text, keeping only word characters
// (letters, digits, underscore) and whitespace.
func Normalize(text string) string {
	lowered := strings.ToLower(strings.TrimSpace(text))
	return strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '_':
			return r
		case unicode.IsSpace(r):
			return r
		default:
			return -1
		}
	}, lowered)
}

// SequenceRatio returns the matching-block similarity of a and b in [0, 1].
// Two empty strings are considered identical.
func SequenceRatio(a, b string) float64 {
	if a == b {
		return 1
	}
	matcher := difflib.NewMatcher(runeStrings(a), runeStrings(b))
	return matcher.Ratio()
}

// IsSimilar reports whether candidate is a near-duplicate of any reference
// line. Both sides are normalized first. A threshold outside (0, 1] falls back
// to DefaultSimilarityThreshold. An empty candidate or reference set never
// matches.
func IsSimilar(candidate string, reference []string, threshold float64) bool {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultSimilarityThreshold
	}
	normalized := Normalize(candidate)
	if normalized == "" || len(reference) == 0 {
		return false
	}
	for _, line := range reference {
		other := Normalize(line)
		if other == "" {
			continue
		}
		if SequenceRatio(normalized, other) >= threshold {
			return true
		}
	}
	return false
}

func runeStrings(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
