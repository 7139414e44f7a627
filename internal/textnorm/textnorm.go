// Package textnorm folds free text into the canonical form every matching
// stage works on: lower case, no diacritics, no punctuation, single spaces.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize lowercases text, strips combining marks after canonical
// decomposition ("ótimo" becomes "otimo"), turns every rune that is neither a
// word rune nor a space into a space and collapses whitespace. It never fails
// and Normalize(Normalize(s)) == Normalize(s).
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	// transform.Chain keeps state, so build one per call; the engine is
	// called concurrently.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	folded, _, err := transform.String(t, strings.ToLower(text))
	if err != nil {
		folded = strings.ToLower(text)
	}

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if isWord(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
			continue
		}
		b.WriteByte(' ')
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Tokens returns the space separated words of the normalized text.
func Tokens(text string) []string {
	return strings.Fields(Normalize(text))
}

func isWord(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
