// Package processor wires the scoring packages into one Engine used by the
// HTTP API and the batch runner.
package processor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"interaction-quality-go/internal/apperr"
	"interaction-quality-go/internal/classifier"
	"interaction-quality-go/internal/dataset"
	"interaction-quality-go/internal/detector"
	"interaction-quality-go/internal/evaluation"
	"interaction-quality-go/internal/lexicon"
	"interaction-quality-go/internal/logger"
	"interaction-quality-go/internal/metrics"
	"interaction-quality-go/internal/scoring"
	"interaction-quality-go/internal/timeline"
	"interaction-quality-go/internal/transcript"
	"interaction-quality-go/internal/types"
)

// Analysis kinds reported to metrics.
const (
	KindText         = "text"
	KindConversation = "conversation"
	KindEvaluation   = "evaluation"
	KindRecording    = "recording"
)

// Attribution modes for raw conversation lines.
const (
	AttributionHeuristic = "heuristic"
	AttributionTagged    = "tagged"
)

// ErrNoTranscriber is returned by ScoreRecording when no transcription
// service is configured.
var ErrNoTranscriber = errors.New("transcription not configured")

// Transcriber turns a recording link into transcript text.
type Transcriber interface {
	Enabled() bool
	Transcript(ctx context.Context, callURL string) (string, error)
}

// Engine is immutable after New and safe for concurrent use.
type Engine struct {
	lex         *lexicon.Lexicon
	heuristic   *timeline.Analyzer
	tagged      *timeline.Analyzer
	thresholds  classifier.Thresholds
	form        *evaluation.Form
	transcriber Transcriber
	metrics     *metrics.Recorder
	log         *logrus.Entry
}

type Option func(*engineOptions)

type engineOptions struct {
	lex         *lexicon.Lexicon
	timeline    timeline.Config
	thresholds  classifier.Thresholds
	form        *evaluation.Form
	transcriber Transcriber
	metrics     *metrics.Recorder
	log         *logger.Logger
}

func WithLexicon(lex *lexicon.Lexicon) Option { return func(o *engineOptions) { o.lex = lex } }

func WithTimeline(cfg timeline.Config) Option { return func(o *engineOptions) { o.timeline = cfg } }

func WithThresholds(th classifier.Thresholds) Option {
	return func(o *engineOptions) { o.thresholds = th }
}

func WithForm(form *evaluation.Form) Option { return func(o *engineOptions) { o.form = form } }

func WithTranscriber(t Transcriber) Option { return func(o *engineOptions) { o.transcriber = t } }

func WithMetrics(m *metrics.Recorder) Option { return func(o *engineOptions) { o.metrics = m } }

func WithLogger(l *logger.Logger) Option { return func(o *engineOptions) { o.log = l } }

// New builds an Engine. Unset options fall back to the built-in lexicon,
// timeline configuration, thresholds and evaluation form.
func New(opts ...Option) *Engine {
	o := engineOptions{
		lex:        lexicon.Default(),
		timeline:   timeline.DefaultConfig(),
		thresholds: classifier.DefaultThresholds(),
		form:       evaluation.DefaultForm(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = logger.New()
	}
	return &Engine{
		lex:         o.lex,
		heuristic:   timeline.NewAnalyzer(o.timeline, timeline.HeuristicAttributor{}),
		tagged:      timeline.NewAnalyzer(o.timeline, timeline.TaggedAttributor{}),
		thresholds:  o.thresholds,
		form:        o.form,
		transcriber: o.transcriber,
		metrics:     o.metrics,
		log:         o.log.Component("processor"),
	}
}

func (e *Engine) Lexicon() *lexicon.Lexicon { return e.lex }

func (e *Engine) Form() *evaluation.Form { return e.form }

// TranscriptionEnabled reports whether ScoreRecording can run.
func (e *Engine) TranscriptionEnabled() bool {
	return e.transcriber != nil && e.transcriber.Enabled()
}

// ScoreText detects lexicon categories in text and scores them.
func (e *Engine) ScoreText(text string) types.ScoreResult {
	start := time.Now()
	res := scoring.NormalizeScore(detector.Detect(text, e.lex))
	e.observeScore(start, res)
	return res
}

// ScoreSegments scores transcript segments joined in input order.
func (e *Engine) ScoreSegments(segments []transcript.Segment) types.ScoreResult {
	start := time.Now()
	res := scoring.NormalizeScore(detector.DetectSegments(segments, e.lex))
	e.observeScore(start, res)
	return res
}

func (e *Engine) observeScore(start time.Time, res types.ScoreResult) {
	e.metrics.Observe(KindText, start, nil)
	e.metrics.Score(res)
	e.log.WithFields(logrus.Fields{
		"score":      res.OverallScore,
		"tier":       res.Tier,
		"detections": len(res.Detections),
	}).Debug("text scored")
}

// AnalyzeConversation attributes raw lines with the given mode (empty means
// heuristic), builds the timeline, classifies it and scores the lines.
func (e *Engine) AnalyzeConversation(lines []string, attribution string) (types.ConversationReport, error) {
	start := time.Now()
	var analyzer *timeline.Analyzer
	switch attribution {
	case "", AttributionHeuristic:
		analyzer = e.heuristic
	case AttributionTagged:
		analyzer = e.tagged
	default:
		err := apperr.Validation("attribution", fmt.Sprintf("unknown mode %q", attribution))
		e.metrics.Observe(KindConversation, start, err)
		return types.ConversationReport{}, err
	}

	tl, err := analyzer.Analyze(lines)
	if err != nil {
		e.metrics.Observe(KindConversation, start, err)
		return types.ConversationReport{}, err
	}
	return e.conversationReport(start, tl, detector.DetectLines(lines, e.lex)), nil
}

// AnalyzeMessages is AnalyzeConversation for messages whose speakers are
// already known.
func (e *Engine) AnalyzeMessages(msgs []types.Message) (types.ConversationReport, error) {
	start := time.Now()
	tl, err := e.heuristic.AnalyzeMessages(msgs)
	if err != nil {
		e.metrics.Observe(KindConversation, start, err)
		return types.ConversationReport{}, err
	}
	texts := make([]string, len(msgs))
	for i, m := range msgs {
		texts[i] = m.Text
	}
	return e.conversationReport(start, tl, detector.DetectLines(texts, e.lex)), nil
}

func (e *Engine) conversationReport(start time.Time, tl types.Timeline, detections []types.Detection) types.ConversationReport {
	verdict := classifier.ClassifyWith(tl.Turns, tl.Metrics, e.thresholds)
	quality := scoring.NormalizeScore(detections)

	e.metrics.Observe(KindConversation, start, nil)
	e.metrics.Score(quality)
	e.metrics.Verdict(verdict)
	e.log.WithFields(logrus.Fields{
		"turns":        len(tl.Turns),
		"severity":     tl.Metrics.Severity,
		"satisfaction": verdict.CustomerSatisfaction,
		"escalate":     verdict.RequiresEscalation,
	}).Debug("conversation analyzed")

	return types.ConversationReport{Timeline: tl, Verdict: verdict, Quality: quality}
}

// Evaluate scores checklist responses against the configured form.
func (e *Engine) Evaluate(responses []types.Response) (types.EvaluationResult, error) {
	start := time.Now()
	res, err := evaluation.Evaluate(e.form, responses)
	e.metrics.Observe(KindEvaluation, start, err)
	if err != nil {
		return res, err
	}
	e.metrics.Evaluation(res)
	if res.HasCriticalFailure {
		e.log.WithField("failed", res.FailedCriteriaNames).Info("evaluation zeroed by critical criterion")
	}
	return res, nil
}

// ScoreRecording transcribes the recording at audioURL and scores the text.
// A transcript with at least two lines is also analyzed as a conversation;
// if that analysis fails, the report carries only the quality score.
func (e *Engine) ScoreRecording(ctx context.Context, audioURL string) (types.RecordingReport, error) {
	start := time.Now()
	res := types.RecordingReport{AudioURL: audioURL}
	log := e.log.WithField("audio_url", audioURL)

	if !e.TranscriptionEnabled() {
		e.metrics.Observe(KindRecording, start, ErrNoTranscriber)
		return res, ErrNoTranscriber
	}
	text, err := e.transcriber.Transcript(ctx, audioURL)
	if err != nil {
		log.WithError(err).Error("transcription error")
		e.metrics.Observe(KindRecording, start, err)
		res.DurationMs = time.Since(start).Milliseconds()
		return res, fmt.Errorf("transcription: %w", err)
	}
	res.Transcript = text
	e.fillFromTranscript(&res, log)

	e.metrics.Observe(KindRecording, start, nil)
	res.DurationMs = time.Since(start).Milliseconds()
	log.WithFields(logrus.Fields{
		"score":       res.Quality.OverallScore,
		"duration_ms": res.DurationMs,
	}).Info("recording scored")
	return res, nil
}

func (e *Engine) fillFromTranscript(res *types.RecordingReport, log *logrus.Entry) {
	lines := nonBlankLines(res.Transcript)
	if len(lines) < 2 {
		res.Quality = e.ScoreText(res.Transcript)
		return
	}
	conv, err := e.AnalyzeConversation(lines, AttributionHeuristic)
	if err != nil {
		log.WithError(err).Warn("conversation analysis skipped")
		res.Quality = e.ScoreText(res.Transcript)
		return
	}
	res.Quality = conv.Quality
	res.Conversation = &conv
}

// ScoreRecord scores one dataset record, transcribing it first when it has
// only a recording link. Failures are reported in the result.
func (e *Engine) ScoreRecord(ctx context.Context, rec dataset.Record) (out dataset.Result) {
	start := time.Now()
	out.Record = rec
	defer func() { out.DurationMs = time.Since(start).Milliseconds() }()

	if rec.Transcript == "" {
		rep, err := e.ScoreRecording(ctx, rec.AudioURL)
		if err != nil {
			out.Err = err.Error()
			return out
		}
		out.Transcript = rep.Transcript
		out.Quality = rep.Quality
		if rep.Conversation != nil {
			out.Verdict = &rep.Conversation.Verdict
		}
		return out
	}

	var rep types.RecordingReport
	rep.Transcript = rec.Transcript
	e.fillFromTranscript(&rep, e.log.WithField("row", rec.Row))
	out.Quality = rep.Quality
	if rep.Conversation != nil {
		out.Verdict = &rep.Conversation.Verdict
	}
	return out
}

func nonBlankLines(text string) []string {
	var out []string
	for _, l := range strings.Split(text, "\n") {
		if strings.TrimSpace(l) != "" {
			out = append(out, l)
		}
	}
	return out
}
