// Package textnorm folds free-text names into a comparable form.
//
// Folding is shared by the fuzzy resolver and the reference-data index so that
// "Cote d'Ivoire", "CÔTE D'IVOIRE" and "Côte d’Ivoire" all land on the same key.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold returns s decomposed (NFKD) with combining marks removed, lower-cased,
// with every run of non-alphanumeric runes collapsed to a single space and the
// result trimmed. Apostrophes are dropped rather than turned into spaces so
// "d'Ivoire" folds to "divoire".
func Fold(s string) string {
	if s == "" {
		return ""
	}

	// transform.Chain is not safe for concurrent use, build one per call.
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}

	var b strings.Builder
	b.Grow(len(stripped))
	pendingSpace := false
	for _, r := range stripped {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteRune(unicode.ToLower(r))
		case r == '\'' || r == '’' || r == '`':
			// elided
		default:
			pendingSpace = true
		}
	}
	return b.String()
}

// Tokens splits a folded string into its space-separated words.
func Tokens(folded string) []string {
	if folded == "" {
		return nil
	}
	return strings.Split(folded, " ")
}
