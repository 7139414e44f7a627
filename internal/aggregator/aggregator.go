// Package aggregator summarizes a batch of scored interactions.
package aggregator

import (
	"math"
	"sort"

	"interaction-quality-go/internal/dataset"
	"interaction-quality-go/internal/types"
)

type Insight struct {
	Total          int                `json:"total"`
	Failed         int                `json:"failed"`
	AverageScore   float64            `json:"average_score"`
	TierCounts     map[types.Tier]int `json:"tier_counts"`
	CategoryCounts map[string]int     `json:"category_counts"`
	// EscalationRate is the share of analyzed conversations flagged for
	// escalation.
	EscalationRate float64 `json:"escalation_rate"`
	// TopIssue is the negative category with the most occurrences.
	TopIssue      string         `json:"top_issue,omitempty"`
	TopIssueCount int            `json:"top_issue_count,omitempty"`
	Agents        []AgentInsight `json:"agents,omitempty"`
}

type AgentInsight struct {
	Agent        string  `json:"agent"`
	Interactions int     `json:"interactions"`
	AverageScore float64 `json:"average_score"`
	Critical     int     `json:"critical"`
}

// Aggregate ignores failed results except to count them. Agents are sorted
// by ascending average score, ties broken by name.
func Aggregate(results []dataset.Result) Insight {
	ins := Insight{
		Total:          len(results),
		TierCounts:     map[types.Tier]int{},
		CategoryCounts: map[string]int{},
	}
	type acc struct {
		n, critical int
		sum         float64
	}
	agents := map[string]*acc{}
	var (
		sum                              float64
		scored, conversations, escalated int
	)
	negative := map[string]int{}
	for _, r := range results {
		if r.Failed() {
			ins.Failed++
			continue
		}
		scored++
		sum += r.Quality.OverallScore
		ins.TierCounts[r.Quality.Tier]++
		for _, d := range r.Quality.Detections {
			ins.CategoryCounts[d.Category] += d.Count
			if d.Impact == types.ImpactNegative {
				negative[d.Category] += d.Count
			}
		}
		if r.Verdict != nil {
			conversations++
			if r.Verdict.RequiresEscalation {
				escalated++
			}
		}
		if r.Agent != "" {
			a, ok := agents[r.Agent]
			if !ok {
				a = &acc{}
				agents[r.Agent] = a
			}
			a.n++
			a.sum += r.Quality.OverallScore
			if r.Quality.Tier == types.TierCritical {
				a.critical++
			}
		}
	}
	if scored > 0 {
		ins.AverageScore = round2(sum / float64(scored))
	}
	if conversations > 0 {
		ins.EscalationRate = round2(float64(escalated) / float64(conversations))
	}
	for name, n := range negative {
		if n > ins.TopIssueCount || (n == ins.TopIssueCount && name < ins.TopIssue) {
			ins.TopIssue, ins.TopIssueCount = name, n
		}
	}
	for name, a := range agents {
		ins.Agents = append(ins.Agents, AgentInsight{
			Agent:        name,
			Interactions: a.n,
			AverageScore: round2(a.sum / float64(a.n)),
			Critical:     a.critical,
		})
	}
	sort.Slice(ins.Agents, func(i, j int) bool {
		if ins.Agents[i].AverageScore != ins.Agents[j].AverageScore {
			return ins.Agents[i].AverageScore < ins.Agents[j].AverageScore
		}
		return ins.Agents[i].Agent < ins.Agents[j].Agent
	})
	return ins
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
