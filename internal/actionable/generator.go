// Package actionable turns a batch insight into a single supervisor action.
package actionable

import (
	"fmt"

	"interaction-quality-go/internal/aggregator"
	"interaction-quality-go/internal/scoring"
	"interaction-quality-go/internal/types"
)

type ActionCard struct {
	Insight string `json:"insight"`
	Action  string `json:"action"`
	Impact  string `json:"impact"`
}

const (
	EscalationRateAlert = 0.35
	CriticalShareAlert  = 0.25
)

// Generate picks the most pressing finding: escalations first, then the
// share of critical interactions, then the weakest agent, then the most
// frequent negative category.
func Generate(ins aggregator.Insight) ActionCard {
	scored := ins.Total - ins.Failed
	if scored <= 0 {
		return ActionCard{
			Insight: "Nenhuma interação analisada",
			Action:  "Verificar a origem dos dados e a transcrição",
			Impact:  "Sem dados para intervenção",
		}
	}

	if ins.EscalationRate >= EscalationRateAlert {
		return ActionCard{
			Insight: fmt.Sprintf("%.0f%% das conversas exigem escalação", ins.EscalationRate*100),
			Action:  "Revisar conversas escaladas com a supervisão e reforçar tempos de resposta",
			Impact:  "Reduzir escalações e reclamações formais",
		}
	}

	critical := float64(ins.TierCounts[types.TierCritical]) / float64(scored)
	if critical >= CriticalShareAlert {
		return ActionCard{
			Insight: fmt.Sprintf("%.0f%% das interações com qualidade crítica", critical*100),
			Action:  "Auditar interações críticas e aplicar treinamento de atendimento",
			Impact:  "Recuperar a satisfação dos clientes afetados",
		}
	}

	if len(ins.Agents) > 0 {
		worst := ins.Agents[0]
		if scoring.TierFor(worst.AverageScore) == types.TierPoor || scoring.TierFor(worst.AverageScore) == types.TierCritical {
			return ActionCard{
				Insight: fmt.Sprintf("Atendente %s com média %.2f em %d interações", worst.Agent, worst.AverageScore, worst.Interactions),
				Action:  "Agendar monitoria individual e feedback com o atendente",
				Impact:  "Elevar a média da equipe",
			}
		}
	}

	if ins.TopIssue != "" {
		return ActionCard{
			Insight: fmt.Sprintf("Problema mais frequente: %s (%d ocorrências)", ins.TopIssue, ins.TopIssueCount),
			Action:  "Priorizar a causa raiz desta categoria no próximo ciclo",
			Impact:  "Reduzir a recorrência do problema",
		}
	}

	return ActionCard{
		Insight: "Nenhum padrão crítico detectado",
		Action:  "Manter a monitoria e coletar mais dados",
		Impact:  "Baixa necessidade de intervenção imediata",
	}
}
