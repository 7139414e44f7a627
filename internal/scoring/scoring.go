// Package scoring turns detections into a 0-100 quality score, a tier, the
// recommendations for that tier and the list of critical issues.
package scoring

import (
	"fmt"
	"math"

	"interaction-quality-go/internal/lexicon"
	"interaction-quality-go/internal/types"
)

// NeutralScore is returned when nothing weighted was detected.
const NeutralScore = 50.0

// CriticalWeight is the weight at or below which a detection is reported as
// a critical issue.
const CriticalWeight = -10

// TierBounds are inclusive lower bounds, best tier first.
var TierBounds = []struct {
	Min  float64
	Tier types.Tier
}{
	{80, types.TierExcellent},
	{65, types.TierGood},
	{45, types.TierAverage},
	{25, types.TierPoor},
}

// RecommendationRules maps a category class to the advice emitted whenever a
// category of that class is detected. Rules fire in RecommendationOrder.
var RecommendationRules = map[string][]string{
	lexicon.ClassRudeness: {
		"Treinamento em atendimento cortês e profissional",
		"Revisão das técnicas de comunicação empática",
	},
	lexicon.ClassDelay: {
		"Otimização dos tempos de resposta",
		"Implementação de atualizações proativas ao cliente",
	},
	lexicon.ClassTechnical: {
		"Capacitação técnica adicional para o atendente",
		"Revisão dos processos de resolução de problemas",
	},
	lexicon.ClassEscalation: {
		"Atenção imediata - situação crítica identificada",
		"Acompanhamento supervisório necessário",
	},
}

var RecommendationOrder = []string{
	lexicon.ClassRudeness,
	lexicon.ClassDelay,
	lexicon.ClassTechnical,
	lexicon.ClassEscalation,
}

// TierRemarks closes the recommendation list for tiers that deserve one.
var TierRemarks = map[types.Tier]string{
	types.TierExcellent: "Parabéns! Atendimento exemplar - use como benchmark",
	types.TierGood:      "Bom atendimento - pequenos ajustes podem torná-lo excelente",
}

// NormalizeScore computes 50 + 50*total/weightSum clamped to [0,100], where
// total sums weight*count and weightSum sums |weight|*count. A zero
// weightSum yields NeutralScore.
func NormalizeScore(detections []types.Detection) types.ScoreResult {
	var total, weightSum float64
	for _, d := range detections {
		total += float64(d.Weight * d.Count)
		weightSum += math.Abs(float64(d.Weight)) * float64(d.Count)
	}

	score := NeutralScore
	if weightSum > 0 {
		score = clamp(NeutralScore+50*total/weightSum, 0, 100)
	}
	tier := TierFor(score)

	if detections == nil {
		detections = []types.Detection{}
	}
	return types.ScoreResult{
		OverallScore:    math.Round(score*100) / 100,
		Tier:            tier,
		Detections:      detections,
		Recommendations: Recommendations(detections, tier),
		CriticalIssues:  CriticalIssues(detections),
	}
}

func TierFor(score float64) types.Tier {
	for _, b := range TierBounds {
		if score >= b.Min {
			return b.Tier
		}
	}
	return types.TierCritical
}

// Recommendations applies RecommendationRules to the classes present in
// detections, then appends the tier remark if there is one.
func Recommendations(detections []types.Detection, tier types.Tier) []string {
	present := make(map[string]bool, len(detections))
	for _, d := range detections {
		if d.Count > 0 && d.Class != "" {
			present[d.Class] = true
		}
	}
	out := []string{}
	for _, class := range RecommendationOrder {
		if present[class] {
			out = append(out, RecommendationRules[class]...)
		}
	}
	if remark, ok := TierRemarks[tier]; ok {
		out = append(out, remark)
	}
	return out
}

func CriticalIssues(detections []types.Detection) []string {
	out := []string{}
	for _, d := range detections {
		if d.Weight <= CriticalWeight && d.Count > 0 {
			out = append(out, fmt.Sprintf("%s: %d ocorrência(s) detectada(s)", d.Category, d.Count))
		}
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
