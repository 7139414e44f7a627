// Package detector matches normalized text against a lexicon.
package detector

import (
	"math"
	"strings"

	"interaction-quality-go/internal/lexicon"
	"interaction-quality-go/internal/textnorm"
	"interaction-quality-go/internal/transcript"
	"interaction-quality-go/internal/types"
)

// Detect returns one Detection per category with at least one match, in
// lexicon order. Empty text or an empty lexicon yields an empty slice.
//
// Confidence is keyword density: occurrences divided by the number of
// normalized tokens, as a percentage capped at 100. It is not a statistical
// confidence.
func Detect(text string, lex *lexicon.Lexicon) []types.Detection {
	out := []types.Detection{}
	tokens := textnorm.Tokens(text)
	if len(tokens) == 0 || lex.Len() == 0 {
		return out
	}

	for _, c := range lex.Categories() {
		var (
			matched []string
			count   int
		)
		for _, p := range c.Phrases() {
			if n := p.Count(tokens); n > 0 {
				matched = append(matched, p.Source)
				count += n
			}
		}
		if count == 0 {
			continue
		}
		out = append(out, types.Detection{
			Category:        c.Name,
			Class:           c.Class,
			Weight:          c.Weight,
			Impact:          c.Impact,
			MatchedKeywords: matched,
			Count:           count,
			Confidence:      density(count, len(tokens)),
		})
	}
	return out
}

// DetectSegments scores the texts of transcript segments joined by a space.
func DetectSegments(segments []transcript.Segment, lex *lexicon.Lexicon) []types.Detection {
	return Detect(transcript.JoinText(segments), lex)
}

// DetectLines joins conversation lines before detection.
func DetectLines(lines []string, lex *lexicon.Lexicon) []types.Detection {
	return Detect(strings.Join(lines, " "), lex)
}

func density(count, tokens int) float64 {
	c := float64(count) / float64(tokens) * 100
	if c > 100 {
		c = 100
	}
	return math.Round(c*100) / 100
}
