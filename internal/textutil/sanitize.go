package textutil

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// maxFileNameBytes leaves room for suffixes such as "_comments.csv.partial"
// under the common 255-byte filesystem limit.
const maxFileNameBytes = 200

// fileNameReplacer replaces filesystem-unsafe characters with underscores.
var fileNameReplacer = strings.NewReplacer(
	"/", "_",
	"\\", "_",
	":", "_",
	"*", "_",
	"?", "_",
	"\"", "_",
	"<", "_",
	">", "_",
	"|", "_",
)

// SanitizeFileName makes a media title safe to use as a file name. Unsafe
// characters become underscores, control characters are dropped, and the
// result is trimmed of surrounding whitespace and dots. Names longer than
// the byte limit are cut on a rune boundary. Returns "untitled" when nothing
// usable remains.
func SanitizeFileName(name string) string {
	name = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, name)
	name = fileNameReplacer.Replace(strings.TrimSpace(name))
	name = strings.Trim(name, " .")
	if len(name) > maxFileNameBytes {
		cut := maxFileNameBytes
		for cut > 0 && !utf8.RuneStart(name[cut]) {
			cut--
		}
		name = strings.TrimRight(name[:cut], " .")
	}
	if name == "" {
		return "untitled"
	}
	return name
}
