// Package classifier derives categorical verdicts from timeline metrics.
//
// The rules have no branch producing a positive overall sentiment or a high
// customer satisfaction; the best outcomes are neutral and medium.
package classifier

import (
	"fmt"
	"strconv"

	"interaction-quality-go/internal/types"
)

type Thresholds struct {
	NegativeTurns int `json:"negative_turns"`

	VeryLowSwears int     `json:"very_low_swears"`
	VeryLowDelay  float64 `json:"very_low_delay"`
	LowSwears     int     `json:"low_swears"`
	LowDelay      float64 `json:"low_delay"`

	AgentCriticalDelay float64 `json:"agent_critical_delay"`
	AgentPoorDelay     float64 `json:"agent_poor_delay"`

	EscalationSwears int     `json:"escalation_swears"`
	EscalationDelay  float64 `json:"escalation_delay"`
	EscalationLevel  int     `json:"escalation_level"`
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		NegativeTurns:      2,
		VeryLowSwears:      2,
		VeryLowDelay:       30,
		LowSwears:          1,
		LowDelay:           20,
		AgentCriticalDelay: 40,
		AgentPoorDelay:     20,
		EscalationSwears:   2,
		EscalationDelay:    30,
		EscalationLevel:    5,
	}
}

const (
	IssueMultipleSwears  = "Múltiplos palavrões detectados"
	IssueSlowResponseFmt = "Tempo de resposta excessivo: %s minutos"
	IssueIrritatedClient = "Cliente extremamente irritado"
	IssueNegativeOverall = "Sentimento geral negativo"
)

func Classify(turns []types.Turn, m types.TimelineMetrics) types.Verdict {
	return ClassifyWith(turns, m, DefaultThresholds())
}

func ClassifyWith(turns []types.Turn, m types.TimelineMetrics, th Thresholds) types.Verdict {
	v := types.Verdict{
		OverallSentiment:     sentiment(turns, th),
		CustomerSatisfaction: satisfaction(m, th),
		AgentPerformance:     agentPerformance(m, th),
		ServiceQuality:       serviceQuality(m),
		CriticalIssues:       []string{},
	}

	if m.SwearCount >= th.EscalationSwears {
		v.CriticalIssues = append(v.CriticalIssues, IssueMultipleSwears)
	}
	if m.MaxDelay > th.EscalationDelay {
		v.CriticalIssues = append(v.CriticalIssues,
			fmt.Sprintf(IssueSlowResponseFmt, strconv.FormatFloat(m.MaxDelay, 'f', -1, 64)))
	}
	if m.EscalationLevel > th.EscalationLevel {
		v.CriticalIssues = append(v.CriticalIssues, IssueIrritatedClient)
	}
	if v.OverallSentiment == types.SentimentNegative {
		v.CriticalIssues = append(v.CriticalIssues, IssueNegativeOverall)
	}

	v.RequiresEscalation = m.SwearCount >= th.EscalationSwears ||
		m.MaxDelay > th.EscalationDelay ||
		m.EscalationLevel > th.EscalationLevel
	return v
}

func sentiment(turns []types.Turn, th Thresholds) types.Sentiment {
	negative := 0
	for _, t := range turns {
		if t.HasSwearing {
			return types.SentimentNegative
		}
		if t.Sentiment == types.SentimentNegative {
			negative++
		}
	}
	if negative >= th.NegativeTurns {
		return types.SentimentNegative
	}
	return types.SentimentNeutral
}

func satisfaction(m types.TimelineMetrics, th Thresholds) types.Satisfaction {
	switch {
	case m.SwearCount >= th.VeryLowSwears && m.MaxDelay > th.VeryLowDelay:
		return types.SatisfactionVeryLow
	case m.SwearCount >= th.LowSwears || m.MaxDelay > th.LowDelay:
		return types.SatisfactionLow
	default:
		return types.SatisfactionMedium
	}
}

func agentPerformance(m types.TimelineMetrics, th Thresholds) types.Tier {
	switch {
	case m.MaxDelay > th.AgentCriticalDelay:
		return types.TierCritical
	case m.MaxDelay > th.AgentPoorDelay:
		return types.TierPoor
	default:
		return types.TierAverage
	}
}

func serviceQuality(m types.TimelineMetrics) types.Tier {
	switch m.Severity {
	case types.SeverityCritical:
		return types.TierCritical
	case types.SeverityHigh:
		return types.TierPoor
	default:
		return types.TierAverage
	}
}
