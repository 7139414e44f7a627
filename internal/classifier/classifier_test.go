package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interaction-quality-go/internal/timeline"
	"interaction-quality-go/internal/types"
)

func TestCalmConversation(t *testing.T) {
	v := Classify([]types.Turn{
		{Speaker: types.SpeakerAgent, Sentiment: types.SentimentPositive},
		{Speaker: types.SpeakerClient, Sentiment: types.SentimentNegative},
	}, types.TimelineMetrics{MaxDelay: 5, Severity: types.SeverityLow})

	assert.Equal(t, types.SentimentNeutral, v.OverallSentiment)
	assert.Equal(t, types.SatisfactionMedium, v.CustomerSatisfaction)
	assert.Equal(t, types.TierAverage, v.AgentPerformance)
	assert.Equal(t, types.TierAverage, v.ServiceQuality)
	assert.False(t, v.RequiresEscalation)
	assert.Empty(t, v.CriticalIssues)
	assert.NotNil(t, v.CriticalIssues)
}

func TestWorstCase(t *testing.T) {
	v := Classify([]types.Turn{{HasSwearing: true, Sentiment: types.SentimentNegative}},
		types.TimelineMetrics{SwearCount: 3, MaxDelay: 45, EscalationLevel: 9, Severity: types.SeverityCritical})

	assert.Equal(t, types.SentimentNegative, v.OverallSentiment)
	assert.Equal(t, types.SatisfactionVeryLow, v.CustomerSatisfaction)
	assert.Equal(t, types.TierCritical, v.AgentPerformance)
	assert.Equal(t, types.TierCritical, v.ServiceQuality)
	assert.True(t, v.RequiresEscalation)
	assert.Equal(t, []string{
		"Múltiplos palavrões detectados",
		"Tempo de resposta excessivo: 45 minutos",
		"Cliente extremamente irritado",
		"Sentimento geral negativo",
	}, v.CriticalIssues)
}

func TestRuleBands(t *testing.T) {
	cases := []struct {
		name         string
		m            types.TimelineMetrics
		satisfaction types.Satisfaction
		agent        types.Tier
		service      types.Tier
		escalate     bool
	}{
		{"one swear", types.TimelineMetrics{SwearCount: 1}, types.SatisfactionLow, types.TierAverage, types.TierAverage, false},
		{"two swears quick", types.TimelineMetrics{SwearCount: 2, MaxDelay: 30, Severity: types.SeverityHigh}, types.SatisfactionLow, types.TierPoor, types.TierPoor, true},
		{"slow", types.TimelineMetrics{MaxDelay: 21, Severity: types.SeverityHigh}, types.SatisfactionLow, types.TierPoor, types.TierPoor, false},
		{"very slow", types.TimelineMetrics{MaxDelay: 41}, types.SatisfactionLow, types.TierCritical, types.TierAverage, true},
		{"irritated", types.TimelineMetrics{EscalationLevel: 6, Severity: types.SeverityMedium}, types.SatisfactionMedium, types.TierAverage, types.TierAverage, true},
		{"boundary", types.TimelineMetrics{EscalationLevel: 5, MaxDelay: 20}, types.SatisfactionMedium, types.TierAverage, types.TierAverage, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := Classify(nil, tc.m)
			assert.Equal(t, tc.satisfaction, v.CustomerSatisfaction)
			assert.Equal(t, tc.agent, v.AgentPerformance)
			assert.Equal(t, tc.service, v.ServiceQuality)
			assert.Equal(t, tc.escalate, v.RequiresEscalation)
		})
	}
}

func TestNegativeTurnsThreshold(t *testing.T) {
	neg := types.Turn{Sentiment: types.SentimentNegative}
	assert.Equal(t, types.SentimentNeutral, Classify([]types.Turn{neg}, types.TimelineMetrics{}).OverallSentiment)
	assert.Equal(t, types.SentimentNegative, Classify([]types.Turn{neg, neg}, types.TimelineMetrics{}).OverallSentiment)

	th := DefaultThresholds()
	th.NegativeTurns = 3
	assert.Equal(t, types.SentimentNeutral, ClassifyWith([]types.Turn{neg, neg}, types.TimelineMetrics{}, th).OverallSentiment)
}

func TestClassifyAnalyzedTimeline(t *testing.T) {
	a := timeline.NewAnalyzer(timeline.DefaultConfig(), nil)
	tl, err := a.Analyze([]string{
		"🔵 Atendente 14:00: Boa tarde, como posso ajudar?",
		"🟢 Cliente 14:01: Minha fatura veio errada, que porra",
		"🔵 Atendente 14:40: Vou verificar",
		"🟢 Cliente 14:41: Demorou demais, seu idiota, quero cancelar agora",
	})
	require.NoError(t, err)
	v := Classify(tl.Turns, tl.Metrics)

	assert.Equal(t, types.SentimentNegative, v.OverallSentiment)
	assert.Equal(t, types.SatisfactionVeryLow, v.CustomerSatisfaction)
	assert.Equal(t, types.TierPoor, v.AgentPerformance)
	assert.True(t, v.RequiresEscalation)
	assert.Contains(t, v.CriticalIssues, "Tempo de resposta excessivo: 39 minutos")
}
