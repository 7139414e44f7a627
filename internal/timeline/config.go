package timeline

// SeverityThresholds drive the problem severity rules. Rules are evaluated
// critical first and the first match wins.
type SeverityThresholds struct {
	CriticalSwears   int     `json:"critical_swears"`
	CriticalDelay    float64 `json:"critical_delay"`
	HighSwears       int     `json:"high_swears"`
	HighDelay        float64 `json:"high_delay"`
	MediumEscalation int     `json:"medium_escalation"`
	MediumDelay      float64 `json:"medium_delay"`
}

// Config holds the per-turn word lists and the delay and escalation
// thresholds. Word lists are matched as whole words on normalized text.
type Config struct {
	Swearing []string `json:"swearing"`
	Urgency  []string `json:"urgency"`
	Problem  []string `json:"problem"`
	Solution []string `json:"solution"`
	Negative []string `json:"negative"`
	Positive []string `json:"positive"`

	// Delays strictly above these minute values are concerning and
	// unacceptable respectively.
	DelayConcerning   float64 `json:"delay_concerning"`
	DelayUnacceptable float64 `json:"delay_unacceptable"`

	// Escalation points added per client turn.
	EscalationNegative int `json:"escalation_negative"`
	EscalationSwearing int `json:"escalation_swearing"`
	EscalationUrgency  int `json:"escalation_urgency"`

	Severity SeverityThresholds `json:"severity"`
}

func DefaultConfig() Config {
	return Config{
		Swearing: []string{
			"merda", "pqp", "porra", "caralho", "bosta", "filho da puta", "fdp",
			"desgraça", "peste", "droga", "inferno", "diabos", "burro", "idiota",
			"imbecil", "estúpido", "incompetente", "inútil", "lixo",
		},
		Urgency: []string{
			"urgente", "rápido", "imediato", "agora", "já", "demora", "demorado",
			"esperando", "aguardando", "tempo", "minutos", "horas", "cancelar",
		},
		Problem: []string{
			"problema", "erro", "falha", "bug", "não funciona", "quebrado",
			"ruim", "péssimo", "horrível", "terrível", "decepcionado", "irritado",
		},
		Solution: []string{"resolvido", "solucionado", "corrigido", "arrumado", "funcionando"},
		Negative: []string{"ruim", "péssimo", "horrível", "terrível", "odeio", "irritado", "problema", "erro"},
		Positive: []string{"obrigado", "bom", "ótimo", "excelente", "parabéns", "satisfeito"},

		DelayConcerning:   10,
		DelayUnacceptable: 30,

		EscalationNegative: 2,
		EscalationSwearing: 3,
		EscalationUrgency:  1,

		Severity: SeverityThresholds{
			CriticalSwears:   3,
			CriticalDelay:    30,
			HighSwears:       2,
			HighDelay:        20,
			MediumEscalation: 3,
			MediumDelay:      10,
		},
	}
}
