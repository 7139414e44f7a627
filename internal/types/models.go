package types

import (
	"fmt"
	"strings"
)

type Impact string

const (
	ImpactPositive Impact = "positive"
	ImpactNegative Impact = "negative"
	ImpactNeutral  Impact = "neutral"
)

// ParseImpact accepts the English tags and the Portuguese labels used by the
// monitoring spreadsheets.
func ParseImpact(s string) (Impact, bool) {
	switch s {
	case "positive", "positivo", "positiva":
		return ImpactPositive, true
	case "negative", "negativo", "negativa":
		return ImpactNegative, true
	case "neutral", "neutro", "neutra":
		return ImpactNeutral, true
	}
	return "", false
}

type Tier string

const (
	TierExcellent Tier = "excellent"
	TierGood      Tier = "good"
	TierAverage   Tier = "average"
	TierPoor      Tier = "poor"
	TierCritical  Tier = "critical"
)

// Detection is the result of matching one category's keywords against a text.
type Detection struct {
	Category        string   `json:"category"`
	Class           string   `json:"class,omitempty"`
	Weight          int      `json:"weight"`
	Impact          Impact   `json:"impact"`
	MatchedKeywords []string `json:"matched_keywords"`
	Count           int      `json:"count"`
	// Confidence is keyword density (matches per normalized token, as a
	// percentage), not a statistical confidence.
	Confidence float64 `json:"confidence"`
}

type ScoreResult struct {
	OverallScore    float64     `json:"overall_score"`
	Tier            Tier        `json:"tier"`
	Detections      []Detection `json:"detections"`
	Recommendations []string    `json:"recommendations"`
	CriticalIssues  []string    `json:"critical_issues"`
}

type Speaker string

const (
	SpeakerAgent  Speaker = "agent"
	SpeakerClient Speaker = "client"
)

// ParseSpeaker maps a role label (English or Portuguese, any case) to a
// Speaker.
func ParseSpeaker(s string) (Speaker, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "agent", "atendente", "agente", "operador", "suporte":
		return SpeakerAgent, true
	case "client", "customer", "cliente":
		return SpeakerClient, true
	}
	return "", false
}

// Message is a conversation line whose speaker is already known.
type Message struct {
	Speaker Speaker `json:"speaker" validate:"required,oneof=agent client"`
	Text    string  `json:"text"`
	Clock   *Clock  `json:"timestamp,omitempty"`
}

type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// Clock is a time of day without a date, in minutes since midnight.
type Clock struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

func (c Clock) Minutes() int { return c.Hour*60 + c.Minute }

func (c Clock) String() string { return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute) }

// Turn is one attributed message of a conversation. Index is the ordinal
// position in the input; Clock is nil when the line carried no timestamp.
type Turn struct {
	Index       int       `json:"index"`
	Speaker     Speaker   `json:"speaker"`
	Text        string    `json:"text"`
	Clock       *Clock    `json:"timestamp,omitempty"`
	WordCount   int       `json:"word_count"`
	Sentiment   Sentiment `json:"sentiment"`
	HasSwearing bool      `json:"has_swearing"`
	HasUrgency  bool      `json:"has_urgency"`
	HasProblem  bool      `json:"has_problem"`
	HasSolution bool      `json:"has_solution"`
}

type DelaySeverity string

const (
	DelayAcceptable   DelaySeverity = "acceptable"
	DelayConcerning   DelaySeverity = "concerning"
	DelayUnacceptable DelaySeverity = "unacceptable"
)

type ResponseDelay struct {
	FromTurn     int           `json:"from_turn"`
	ToTurn       int           `json:"to_turn"`
	DelayMinutes float64       `json:"delay_minutes"`
	Severity     DelaySeverity `json:"severity"`
	// CrossesMidnight marks a delay whose later clock reads earlier than the
	// previous one. The absolute difference is kept as is.
	CrossesMidnight bool `json:"crosses_midnight,omitempty"`
}

type ProblemSeverity string

const (
	SeverityLow      ProblemSeverity = "low"
	SeverityMedium   ProblemSeverity = "medium"
	SeverityHigh     ProblemSeverity = "high"
	SeverityCritical ProblemSeverity = "critical"
)

type TimelineMetrics struct {
	TotalMessages   int             `json:"total_messages"`
	AgentMessages   int             `json:"agent_messages"`
	ClientMessages  int             `json:"client_messages"`
	AverageDelay    float64         `json:"average_delay_minutes"`
	MaxDelay        float64         `json:"max_delay_minutes"`
	SwearCount      int             `json:"swear_count"`
	NegativeTurns   int             `json:"negative_turns"`
	EscalationLevel int             `json:"escalation_level"`
	SuspectDelays   int             `json:"suspect_delays"`
	Severity        ProblemSeverity `json:"problem_severity"`
}

type Timeline struct {
	Turns           []Turn          `json:"turns"`
	Delays          []ResponseDelay `json:"response_delays"`
	Metrics         TimelineMetrics `json:"metrics"`
	FirstTimestamp  *Clock          `json:"first_timestamp,omitempty"`
	LastTimestamp   *Clock          `json:"last_timestamp,omitempty"`
	DurationMinutes float64         `json:"duration_minutes"`
}

type Satisfaction string

const (
	SatisfactionHigh    Satisfaction = "high"
	SatisfactionMedium  Satisfaction = "medium"
	SatisfactionLow     Satisfaction = "low"
	SatisfactionVeryLow Satisfaction = "very_low"
)

type Verdict struct {
	OverallSentiment     Sentiment    `json:"overall_sentiment"`
	CustomerSatisfaction Satisfaction `json:"customer_satisfaction"`
	AgentPerformance     Tier         `json:"agent_performance"`
	ServiceQuality       Tier         `json:"service_quality"`
	RequiresEscalation   bool         `json:"requires_escalation"`
	CriticalIssues       []string     `json:"critical_issues"`
}

// Response values accepted by the evaluation form.
const (
	AnswerYes           = "sim"
	AnswerNo            = "nao"
	AnswerNotApplicable = "nao_se_aplica"
	AnswerTrue          = "true"
	AnswerFalse         = "false"
)

type Criterion struct {
	ID       string  `json:"id" yaml:"id" validate:"required"`
	Name     string  `json:"name" yaml:"name" validate:"required"`
	Weight   float64 `json:"weight" yaml:"weight" validate:"gte=0,lte=100"`
	Critical bool    `json:"is_critical" yaml:"critical"`
	Required bool    `json:"is_required" yaml:"required"`
}

type Response struct {
	CriterionID string  `json:"criterion_id" validate:"required"`
	Value       string  `json:"value" validate:"required"`
	Score       float64 `json:"score"`
}

type SectionScore struct {
	SectionID     string  `json:"section_id"`
	Name          string  `json:"name"`
	AchievedScore float64 `json:"achieved_score"`
	MaxScore      float64 `json:"max_score"`
}

type EvaluationResult struct {
	TotalScore          float64        `json:"total_score"`
	HasCriticalFailure  bool           `json:"has_critical_failure"`
	FailedCriteriaNames []string       `json:"failed_criteria_names"`
	Sections            []SectionScore `json:"sections,omitempty"`
	Responses           []Response     `json:"responses,omitempty"`
}
