package timeline

import (
	"errors"
	"regexp"
	"strings"

	"interaction-quality-go/internal/textnorm"
	"interaction-quality-go/internal/types"
)

const (
	agentMarker  = "🔵"
	clientMarker = "🟢"
)

var ErrNoSpeakerTag = errors.New("line has no speaker tag")

// SpeakerAttributor decides who wrote a raw conversation line and returns
// the message text with any speaker markers removed.
type SpeakerAttributor interface {
	Attribute(line string) (types.Speaker, string, error)
}

var (
	agentRoles  = map[string]bool{"atendente": true, "agente": true, "agent": true, "suporte": true, "operador": true}
	clientRoles = map[string]bool{"cliente": true, "client": true, "customer": true}

	agentPhrases = textnorm.NewPhrases(
		"olá", "bom dia", "boa tarde", "boa noite", "posso ajudar", "como posso",
		"vou verificar", "aguarde", "encaminhar",
	)
)

// HeuristicAttributor guesses the speaker of untagged lines. In order it
// looks at the colored markers (🔵 agent, 🟢 client), a role word leading
// the line and greeting or service phrases (agent). Questions and anything
// else are attributed to the client.
type HeuristicAttributor struct{}

func (HeuristicAttributor) Attribute(line string) (types.Speaker, string, error) {
	text := stripMarkers(line)
	switch {
	case strings.Contains(line, agentMarker):
		return types.SpeakerAgent, text, nil
	case strings.Contains(line, clientMarker):
		return types.SpeakerClient, text, nil
	}

	tokens := textnorm.Tokens(text)
	if role := leadingWord(tokens); role != "" {
		if agentRoles[role] {
			return types.SpeakerAgent, text, nil
		}
		if clientRoles[role] {
			return types.SpeakerClient, text, nil
		}
	}
	if textnorm.AnyIn(tokens, agentPhrases) {
		return types.SpeakerAgent, text, nil
	}
	return types.SpeakerClient, text, nil
}

// leadingWord skips the numeric tokens of a leading timestamp.
func leadingWord(tokens []string) string {
	for _, t := range tokens {
		if strings.Trim(t, "0123456789") == "" {
			continue
		}
		return t
	}
	return ""
}

var tagPattern = regexp.MustCompile(`^\s*(?:\[?\d{1,2}:\d{2}\]?\s*-?\s*)?([^:\[\]()\d]+?)\s*(?:\[?\d{1,2}:\d{2}\]?)?\s*(?:\([^)]*\))?\s*:\s*(.*)$`)

// TaggedAttributor trusts only an explicit "role: text" prefix. The timestamp
// may precede the role ("[09:00] Cliente: bom dia") or follow it
// ("Cliente 09:00: bom dia", the transcription service layout). Lines without
// a recognizable role fail with ErrNoSpeakerTag.
type TaggedAttributor struct{}

func (TaggedAttributor) Attribute(line string) (types.Speaker, string, error) {
	m := tagPattern.FindStringSubmatch(stripMarkers(line))
	if m == nil {
		return "", "", ErrNoSpeakerTag
	}
	sp, ok := types.ParseSpeaker(m[1])
	if !ok {
		return "", "", ErrNoSpeakerTag
	}
	return sp, strings.TrimSpace(m[2]), nil
}

func stripMarkers(line string) string {
	return strings.TrimSpace(strings.NewReplacer(agentMarker, "", clientMarker, "").Replace(line))
}
