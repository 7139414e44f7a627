package scoring

import (
	"fmt"
	"strings"

	"interaction-quality-go/internal/types"
)

// Tally counts keyword occurrences by impact.
type Tally struct {
	Positive int `json:"positive"`
	Neutral  int `json:"neutral"`
	Negative int `json:"negative"`
}

// ImpactTally sums detection counts per impact. Unknown impacts count as
// neutral.
func ImpactTally(detections []types.Detection) Tally {
	var t Tally
	for _, d := range detections {
		switch d.Impact {
		case types.ImpactPositive:
			t.Positive += d.Count
		case types.ImpactNegative:
			t.Negative += d.Count
		default:
			t.Neutral += d.Count
		}
	}
	return t
}

var impactMarks = map[types.Impact]string{
	types.ImpactPositive: "✅",
	types.ImpactNegative: "❌",
	types.ImpactNeutral:  "➖",
}

// Report renders a plain-text summary for supervisors.
func Report(r types.ScoreResult) string {
	var b strings.Builder
	b.WriteString("=== RELATÓRIO DE ANÁLISE DE ATENDIMENTO ===\n\n")
	fmt.Fprintf(&b, "Score Geral: %.2f/100\n", r.OverallScore)
	fmt.Fprintf(&b, "Classificação: %s\n\n", strings.ToUpper(string(r.Tier)))

	t := ImpactTally(r.Detections)
	b.WriteString("📋 RESUMO GERAL:\n")
	fmt.Fprintf(&b, "Palavras críticas: %d\n", t.Negative)
	fmt.Fprintf(&b, "Palavras neutras: %d\n", t.Neutral)
	fmt.Fprintf(&b, "Palavras positivas: %d\n\n", t.Positive)

	if len(r.CriticalIssues) > 0 {
		b.WriteString("🚨 QUESTÕES CRÍTICAS:\n")
		for _, issue := range r.CriticalIssues {
			fmt.Fprintf(&b, "- %s\n", issue)
		}
		b.WriteString("\n")
	}

	b.WriteString("📊 DETECÇÕES POR CATEGORIA:\n")
	for _, d := range r.Detections {
		mark, ok := impactMarks[d.Impact]
		if !ok {
			mark = impactMarks[types.ImpactNeutral]
		}
		fmt.Fprintf(&b, "%s %s: %d ocorrências (Peso: %d)\n", mark, d.Category, d.Count, d.Weight)
		fmt.Fprintf(&b, "   Palavras encontradas: %s\n", strings.Join(d.MatchedKeywords, ", "))
	}

	b.WriteString("\n💡 RECOMENDAÇÕES:\n")
	for _, rec := range r.Recommendations {
		fmt.Fprintf(&b, "- %s\n", rec)
	}
	return b.String()
}
