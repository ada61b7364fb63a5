package lyrics

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// keySeparator joins performer and title in cache keys. Trimmed,
// whitespace-collapsed input cannot contain it.
const keySeparator = "\x1f"

var (
	annotationPattern = regexp.MustCompile(`(?i)\([^)]*\)|\[[^\]]*\]|\b(?:remastered|live|hd|official)\b`)
	controlPattern    = regexp.MustCompile(`[\x00-\x1f]+`)
)

// CleanTitle strips bracketed annotations and release words such as
// "Remastered" or "Official" from a video title.
func CleanTitle(title string) string {
	cleaned := annotationPattern.ReplaceAllString(title, " ")
	cleaned = controlPattern.ReplaceAllString(cleaned, " ")
	return strings.Join(strings.Fields(cleaned), " ")
}

// SplitTitle separates "Performer - Song" titles. When no separator is
// present the performer is empty and the whole cleaned title is returned.
func SplitTitle(title string) (performer, song string) {
	cleaned := CleanTitle(title)
	if before, after, ok := strings.Cut(cleaned, " - "); ok {
		performer = strings.TrimSpace(before)
		song = strings.Trim(strings.TrimSpace(after), "-– ")
		if performer != "" && song != "" {
			return performer, song
		}
	}
	return "", cleaned
}

// Key builds the cache key for a (title, performer) pair: both parts are
// cleaned, whitespace-collapsed and Unicode lower-cased.
func Key(title, performer string) string {
	lower := cases.Lower(language.Und)
	p := lower.String(strings.Join(strings.Fields(controlPattern.ReplaceAllString(performer, " ")), " "))
	t := lower.String(CleanTitle(title))
	return p + keySeparator + t
}
