package lexicon

import "interaction-quality-go/internal/types"

const DefaultVersion = "builtin-1"

var defaultLexicon = MustNew(DefaultVersion, defaultCategories())

// Default returns the built-in Portuguese customer-service lexicon.
func Default() *Lexicon { return defaultLexicon }

func defaultCategories() []Category {
	return []Category{
		{
			Name:   "Excelência no Atendimento",
			Class:  ClassExcellence,
			Weight: 10,
			Impact: types.ImpactPositive,
			Keywords: []string{
				"excelente", "perfeito", "ótimo", "maravilhoso", "fantástico",
				"impressionante", "excepcional", "incrível", "adorei", "amei",
				"superou expectativas", "muito bom", "recomendo", "satisfeito",
				"feliz", "grato", "agradecido", "parabéns", "eficiente",
			},
		},
		{
			Name:   "Cortesia e Educação",
			Class:  ClassCourtesy,
			Weight: 8,
			Impact: types.ImpactPositive,
			Keywords: []string{
				"por favor", "obrigado", "obrigada", "com licença", "desculpe",
				"bom dia", "boa tarde", "boa noite", "prazer", "gentil",
				"educado", "respeitoso", "cortês", "atencioso", "prestativo",
				"solícito", "cordial", "amável", "simpático", "paciente",
			},
		},
		{
			Name:   "Resolução de Problemas",
			Class:  ClassResolution,
			Weight: 9,
			Impact: types.ImpactPositive,
			Keywords: []string{
				"resolvido", "solucionado", "conseguimos", "vamos resolver",
				"encontrei a solução", "posso ajudar", "vou verificar",
				"já está funcionando", "problema resolvido", "tudo certo",
				"consegui resolver", "está funcionando", "sucesso", "concluído",
			},
		},
		{
			Name:   "Proatividade",
			Class:  ClassProactivity,
			Weight: 7,
			Impact: types.ImpactPositive,
			Keywords: []string{
				"antecipando", "prevendo", "sugiro", "recomendo", "posso oferecer",
				"que tal se", "uma alternativa seria", "posso sugerir",
				"vou acompanhar", "vou monitorar", "vou verificar",
				"deixe-me ajudar", "posso fazer mais alguma coisa",
			},
		},
		{
			Name:   "Insatisfação Crítica",
			Class:  ClassDissatisfaction,
			Weight: -15,
			Impact: types.ImpactNegative,
			Keywords: []string{
				"péssimo", "horrível", "terrível", "inaceitável", "revoltante",
				"indignado", "furioso", "irritado", "chateado", "decepcionado",
				"nunca mais", "cancelar", "reclamar", "processar",
				"advogado", "procon", "consumidor", "direitos", "absurdo",
			},
		},
		{
			Name:   "Problemas Técnicos",
			Class:  ClassTechnical,
			Weight: -8,
			Impact: types.ImpactNegative,
			Keywords: []string{
				"não funciona", "está quebrado", "erro", "falha", "problema",
				"bug", "travou", "lento", "não carrega", "não conecta",
				"não consigo", "dificuldade", "complicado", "confuso",
				"não entendo", "difícil", "impossível",
			},
		},
		{
			Name:   "Demora no Atendimento",
			Class:  ClassDelay,
			Weight: -7,
			Impact: types.ImpactNegative,
			Keywords: []string{
				"demorou", "lento", "esperando", "aguardando", "há muito tempo",
				"demora", "lentidão", "atraso", "atrasado", "tempo demais",
				"muito tempo", "horas esperando", "não aguento mais",
				"quando vai resolver", "urgente", "pressa",
			},
		},
		{
			Name:   "Atendimento Inadequado",
			Class:  ClassRudeness,
			Weight: -12,
			Impact: types.ImpactNegative,
			Keywords: []string{
				"mal educado", "grosso", "grosseiro", "grosseira", "rude",
				"indelicado", "desrespeitoso", "não sabe", "incompetente",
				"despreparado", "não ajuda", "não resolve", "não entende",
				"ignorante", "arrogante", "mal treinado", "sem educação",
				"mal preparado",
			},
		},
		{
			Name:   "Escalação de Conflito",
			Class:  ClassEscalation,
			Weight: -20,
			Impact: types.ImpactNegative,
			Keywords: []string{
				"supervisor", "gerente", "falar com o responsável",
				"quero falar com", "chame seu chefe", "ouvidoria",
				"reclamação formal", "vou processar", "meus direitos",
				"isso é um absurdo", "vou na justiça", "advogado",
			},
		},
		{
			Name:   "Comunicação Clara",
			Class:  ClassClarity,
			Weight: 5,
			Impact: types.ImpactPositive,
			Keywords: []string{
				"entendi", "compreendi", "ficou claro", "entendo",
				"faz sentido", "agora sim", "perfeito", "certo",
				"ok", "beleza", "tranquilo", "sem problema",
				"está bem", "tudo bem", "compreendo",
			},
		},
		{
			Name:   "Solicitação de Informações",
			Class:  ClassInformation,
			Weight: 2,
			Impact: types.ImpactNeutral,
			Keywords: []string{
				"como funciona", "pode explicar", "não entendi",
				"pode repetir", "como faço", "onde encontro",
				"preciso saber", "gostaria de saber", "pode me ajudar",
				"tenho uma dúvida", "uma pergunta", "informação",
			},
		},
	}
}
