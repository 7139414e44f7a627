// Package lexicon holds the categorized keyword table used to score
// interactions. A Lexicon is built once at startup and only read afterwards,
// so a single instance can be shared by any number of goroutines.
package lexicon

import (
	"fmt"
	"math"
	"strings"

	"interaction-quality-go/internal/apperr"
	"interaction-quality-go/internal/textnorm"
	"interaction-quality-go/internal/types"
)

// Category classes understood by the recommendation table.
const (
	ClassExcellence      = "excellence"
	ClassCourtesy        = "courtesy"
	ClassResolution      = "resolution"
	ClassProactivity     = "proactivity"
	ClassDissatisfaction = "dissatisfaction"
	ClassTechnical       = "technical"
	ClassDelay           = "delay"
	ClassRudeness        = "rudeness"
	ClassEscalation      = "escalation"
	ClassClarity         = "clarity"
	ClassInformation     = "information"
)

// NeutralWeightTolerance is the largest absolute weight a neutral category
// may carry before it is reported as an advisory.
const NeutralWeightTolerance = 2

type Category struct {
	Name     string       `json:"name" yaml:"name"`
	Class    string       `json:"class,omitempty" yaml:"class"`
	Weight   int          `json:"weight" yaml:"weight"`
	Impact   types.Impact `json:"impact" yaml:"impact"`
	Keywords []string     `json:"keywords" yaml:"keywords"`

	phrases []textnorm.Phrase
}

// Phrases returns the normalized keyword phrases in keyword order.
func (c Category) Phrases() []textnorm.Phrase { return c.phrases }

type Lexicon struct {
	version    string
	categories []Category
	advisories []string
}

// New validates categories and prepares their phrases. Impact labels are
// canonicalized (English or Portuguese, any case). Keywords that
// normalize to nothing are dropped; a category left without keywords is an
// error.
func New(version string, categories []Category) (*Lexicon, error) {
	source := "lexicon " + version
	seen := make(map[string]bool, len(categories))
	lex := &Lexicon{version: version, categories: make([]Category, 0, len(categories))}

	for i, c := range categories {
		c.Name = strings.TrimSpace(c.Name)
		if c.Name == "" {
			return nil, apperr.Config(source, 0, fmt.Sprintf("categories[%d].name", i), "missing category name")
		}
		key := strings.ToLower(c.Name)
		if seen[key] {
			return nil, apperr.Config(source, 0, c.Name, "duplicate category")
		}
		seen[key] = true
		impact, ok := types.ParseImpact(strings.ToLower(strings.TrimSpace(string(c.Impact))))
		if !ok {
			return nil, apperr.Config(source, 0, c.Name, fmt.Sprintf("unknown impact %q", c.Impact))
		}
		c.Impact = impact

		c.Keywords = append([]string(nil), c.Keywords...)
		c.phrases = textnorm.NewPhrases(c.Keywords...)
		if len(c.phrases) == 0 {
			return nil, apperr.Config(source, 0, c.Name, "category has no usable keywords")
		}
		if adv := signAdvisory(c); adv != "" {
			lex.advisories = append(lex.advisories, adv)
		}
		lex.categories = append(lex.categories, c)
	}
	return lex, nil
}

// MustNew is New for tables known to be valid at compile time.
func MustNew(version string, categories []Category) *Lexicon {
	lex, err := New(version, categories)
	if err != nil {
		panic(err)
	}
	return lex
}

func (l *Lexicon) Version() string { return l.version }

// Categories returns the categories in table order. Callers must not modify
// the returned values.
func (l *Lexicon) Categories() []Category {
	if l == nil {
		return nil
	}
	return l.categories
}

func (l *Lexicon) Len() int {
	if l == nil {
		return 0
	}
	return len(l.categories)
}

// Advisories lists categories whose weight sign disagrees with their impact
// tag. They are reported, never rejected.
func (l *Lexicon) Advisories() []string { return l.advisories }

func signAdvisory(c Category) string {
	switch c.Impact {
	case types.ImpactPositive:
		if c.Weight <= 0 {
			return fmt.Sprintf("%s: positive impact with weight %d", c.Name, c.Weight)
		}
	case types.ImpactNegative:
		if c.Weight >= 0 {
			return fmt.Sprintf("%s: negative impact with weight %d", c.Name, c.Weight)
		}
	case types.ImpactNeutral:
		if math.Abs(float64(c.Weight)) > NeutralWeightTolerance {
			return fmt.Sprintf("%s: neutral impact with weight %d", c.Name, c.Weight)
		}
	}
	return ""
}
