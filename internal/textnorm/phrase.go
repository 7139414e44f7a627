package textnorm

// Phrase is a keyword or expression prepared for whole-word matching.
// Matching happens on token boundaries, so "na" never matches inside
// "banana" and any run of whitespace between the words of a phrase is
// accepted.
type Phrase struct {
	Source string
	Tokens []string
}

func NewPhrase(source string) Phrase {
	return Phrase{Source: source, Tokens: Tokens(source)}
}

func NewPhrases(sources ...string) []Phrase {
	out := make([]Phrase, 0, len(sources))
	for _, s := range sources {
		p := NewPhrase(s)
		if len(p.Tokens) == 0 {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Count returns the number of non-overlapping occurrences of p in tokens.
func (p Phrase) Count(tokens []string) int {
	n := len(p.Tokens)
	if n == 0 || n > len(tokens) {
		return 0
	}
	count := 0
	for i := 0; i+n <= len(tokens); {
		if p.matchAt(tokens, i) {
			count++
			i += n
			continue
		}
		i++
	}
	return count
}

func (p Phrase) In(tokens []string) bool {
	n := len(p.Tokens)
	if n == 0 {
		return false
	}
	for i := 0; i+n <= len(tokens); i++ {
		if p.matchAt(tokens, i) {
			return true
		}
	}
	return false
}

func (p Phrase) matchAt(tokens []string, i int) bool {
	for j, t := range p.Tokens {
		if tokens[i+j] != t {
			return false
		}
	}
	return true
}

// AnyIn reports whether at least one of the phrases occurs in tokens.
func AnyIn(tokens []string, phrases []Phrase) bool {
	for _, p := range phrases {
		if p.In(tokens) {
			return true
		}
	}
	return false
}
