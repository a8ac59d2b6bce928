// Package diagnostic classifies submission themes and derives their scores.
package diagnostic

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	unsafeFileChars = regexp.MustCompile(`[^a-zA-Z0-9\-_ ]`)
	whitespaceRun   = regexp.MustCompile(`\s+`)
)

// StripAccents removes combining marks after canonical decomposition ("Résumé" -> "Resume").
func StripAccents(s string) string {
	// transformers carry state, so the chain is built per call
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// NormalizeKey is the comparison form of a theme name. The original key is kept for display.
func NormalizeKey(s string) string {
	return strings.ToLower(StripAccents(s))
}

// CleanFileComponent turns a free-text name into a filename-safe fragment:
// accents stripped, anything outside [A-Za-z0-9-_ ] dropped, whitespace runs become "-".
func CleanFileComponent(s string) string {
	s = StripAccents(s)
	s = unsafeFileChars.ReplaceAllString(s, "")
	return whitespaceRun.ReplaceAllString(s, "-")
}
