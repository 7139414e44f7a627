// Package timeline turns an ordered conversation into attributed turns,
// response delays and aggregate escalation metrics.
package timeline

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"interaction-quality-go/internal/apperr"
	"interaction-quality-go/internal/textnorm"
	"interaction-quality-go/internal/types"
)

var clockPattern = regexp.MustCompile(`(\d{1,2}):(\d{2})`)

// Analyzer is immutable after NewAnalyzer and safe for concurrent use.
type Analyzer struct {
	cfg        Config
	attributor SpeakerAttributor

	swearing []textnorm.Phrase
	urgency  []textnorm.Phrase
	problem  []textnorm.Phrase
	solution []textnorm.Phrase
	negative []textnorm.Phrase
	positive []textnorm.Phrase
}

// NewAnalyzer prepares the word lists of cfg. A nil attributor means
// HeuristicAttributor.
func NewAnalyzer(cfg Config, attributor SpeakerAttributor) *Analyzer {
	if attributor == nil {
		attributor = HeuristicAttributor{}
	}
	return &Analyzer{
		cfg:        cfg,
		attributor: attributor,
		swearing:   textnorm.NewPhrases(cfg.Swearing...),
		urgency:    textnorm.NewPhrases(cfg.Urgency...),
		problem:    textnorm.NewPhrases(cfg.Problem...),
		solution:   textnorm.NewPhrases(cfg.Solution...),
		negative:   textnorm.NewPhrases(cfg.Negative...),
		positive:   textnorm.NewPhrases(cfg.Positive...),
	}
}

// Analyze parses raw lines in order. Blank lines are skipped; a conversation
// with no other lines is a validation error. Each line's first HH:MM is its
// timestamp and the attributor decides its speaker.
func (a *Analyzer) Analyze(lines []string) (types.Timeline, error) {
	msgs := make([]types.Message, 0, len(lines))
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		speaker, text, err := a.attributor.Attribute(line)
		if err != nil {
			return types.Timeline{}, apperr.Validation(fmt.Sprintf("lines[%d]", i), err.Error())
		}
		msgs = append(msgs, types.Message{Speaker: speaker, Text: text, Clock: ParseClock(line)})
	}
	if len(msgs) == 0 {
		return types.Timeline{}, apperr.Validation("lines", "empty conversation")
	}
	return a.analyze(msgs), nil
}

// AnalyzeMessages is Analyze for callers that already know who spoke; no
// attribution heuristics run.
func (a *Analyzer) AnalyzeMessages(msgs []types.Message) (types.Timeline, error) {
	if len(msgs) == 0 {
		return types.Timeline{}, apperr.Validation("messages", "empty conversation")
	}
	for i, m := range msgs {
		if m.Speaker != types.SpeakerAgent && m.Speaker != types.SpeakerClient {
			return types.Timeline{}, apperr.Validation(fmt.Sprintf("messages[%d].speaker", i),
				fmt.Sprintf("unknown speaker %q", m.Speaker))
		}
		if m.Clock != nil && !validClock(m.Clock.Hour, m.Clock.Minute) {
			return types.Timeline{}, apperr.Validation(fmt.Sprintf("messages[%d].timestamp", i),
				fmt.Sprintf("invalid time of day %s", m.Clock))
		}
	}
	return a.analyze(msgs), nil
}

// ParseClock returns the first HH:MM in line, or nil when there is none or
// it is not a valid time of day.
func ParseClock(line string) *types.Clock {
	m := clockPattern.FindStringSubmatch(line)
	if m == nil {
		return nil
	}
	h, _ := strconv.Atoi(m[1])
	mn, _ := strconv.Atoi(m[2])
	if !validClock(h, mn) {
		return nil
	}
	return &types.Clock{Hour: h, Minute: mn}
}

func validClock(h, m int) bool {
	return h >= 0 && h < 24 && m >= 0 && m < 60
}

func (a *Analyzer) analyze(msgs []types.Message) types.Timeline {
	turns := make([]types.Turn, len(msgs))
	for i, m := range msgs {
		turns[i] = a.turn(i, m)
	}
	delays := a.delays(turns)

	tl := types.Timeline{
		Turns:   turns,
		Delays:  delays,
		Metrics: a.metrics(turns, delays),
	}
	for i := range turns {
		if c := turns[i].Clock; c != nil {
			if tl.FirstTimestamp == nil {
				tl.FirstTimestamp = c
			}
			tl.LastTimestamp = c
		}
	}
	if tl.FirstTimestamp != nil {
		tl.DurationMinutes = math.Abs(float64(tl.LastTimestamp.Minutes() - tl.FirstTimestamp.Minutes()))
	}
	return tl
}

func (a *Analyzer) turn(idx int, m types.Message) types.Turn {
	tokens := textnorm.Tokens(m.Text)
	t := types.Turn{
		Index:       idx,
		Speaker:     m.Speaker,
		Text:        m.Text,
		Clock:       m.Clock,
		WordCount:   len(strings.Fields(m.Text)),
		HasSwearing: textnorm.AnyIn(tokens, a.swearing),
		HasUrgency:  textnorm.AnyIn(tokens, a.urgency),
		HasProblem:  textnorm.AnyIn(tokens, a.problem),
		HasSolution: textnorm.AnyIn(tokens, a.solution),
	}
	switch {
	case t.HasSwearing || textnorm.AnyIn(tokens, a.negative):
		t.Sentiment = types.SentimentNegative
	case textnorm.AnyIn(tokens, a.positive):
		t.Sentiment = types.SentimentPositive
	default:
		t.Sentiment = types.SentimentNeutral
	}
	return t
}

// delays only pairs adjacent turns where the speaker changes and both carry
// a clock. A later clock reading earlier than the previous one is kept as
// the absolute difference and flagged, never wrapped around midnight.
func (a *Analyzer) delays(turns []types.Turn) []types.ResponseDelay {
	out := []types.ResponseDelay{}
	for i := 1; i < len(turns); i++ {
		prev, cur := turns[i-1], turns[i]
		if prev.Speaker == cur.Speaker || prev.Clock == nil || cur.Clock == nil {
			continue
		}
		diff := cur.Clock.Minutes() - prev.Clock.Minutes()
		delay := math.Abs(float64(diff))
		out = append(out, types.ResponseDelay{
			FromTurn:        prev.Index,
			ToTurn:          cur.Index,
			DelayMinutes:    delay,
			Severity:        a.delaySeverity(delay),
			CrossesMidnight: diff < 0,
		})
	}
	return out
}

func (a *Analyzer) delaySeverity(minutes float64) types.DelaySeverity {
	switch {
	case minutes > a.cfg.DelayUnacceptable:
		return types.DelayUnacceptable
	case minutes > a.cfg.DelayConcerning:
		return types.DelayConcerning
	default:
		return types.DelayAcceptable
	}
}

func (a *Analyzer) metrics(turns []types.Turn, delays []types.ResponseDelay) types.TimelineMetrics {
	m := types.TimelineMetrics{TotalMessages: len(turns)}
	for _, t := range turns {
		if t.HasSwearing {
			m.SwearCount++
		}
		if t.Sentiment == types.SentimentNegative {
			m.NegativeTurns++
		}
		if t.Speaker == types.SpeakerAgent {
			m.AgentMessages++
			continue
		}
		m.ClientMessages++
		if t.Sentiment == types.SentimentNegative {
			m.EscalationLevel += a.cfg.EscalationNegative
		}
		if t.HasSwearing {
			m.EscalationLevel += a.cfg.EscalationSwearing
		}
		if t.HasUrgency {
			m.EscalationLevel += a.cfg.EscalationUrgency
		}
	}

	var sum float64
	for _, d := range delays {
		sum += d.DelayMinutes
		if d.DelayMinutes > m.MaxDelay {
			m.MaxDelay = d.DelayMinutes
		}
		if d.CrossesMidnight {
			m.SuspectDelays++
		}
	}
	if len(delays) > 0 {
		m.AverageDelay = math.Round(sum/float64(len(delays))*100) / 100
	}
	m.Severity = a.problemSeverity(m)
	return m
}

func (a *Analyzer) problemSeverity(m types.TimelineMetrics) types.ProblemSeverity {
	s := a.cfg.Severity
	switch {
	case m.SwearCount >= s.CriticalSwears && m.MaxDelay > s.CriticalDelay:
		return types.SeverityCritical
	case m.SwearCount >= s.HighSwears || m.MaxDelay > s.HighDelay:
		return types.SeverityHigh
	case m.EscalationLevel > s.MediumEscalation || m.MaxDelay > s.MediumDelay:
		return types.SeverityMedium
	default:
		return types.SeverityLow
	}
}
