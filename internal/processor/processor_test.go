package processor

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interaction-quality-go/internal/apperr"
	"interaction-quality-go/internal/dataset"
	"interaction-quality-go/internal/logger"
	"interaction-quality-go/internal/metrics"
	"interaction-quality-go/internal/transcript"
	"interaction-quality-go/internal/transcription"
	"interaction-quality-go/internal/types"
)

type fakeTranscriber struct {
	text  string
	err   error
	calls int
}

func (f *fakeTranscriber) Enabled() bool { return true }

func (f *fakeTranscriber) Transcript(_ context.Context, _ string) (string, error) {
	f.calls++
	return f.text, f.err
}

func newEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	var buf bytes.Buffer
	opts = append([]Option{WithLogger(logger.NewWith("test", "debug", &buf))}, opts...)
	return New(opts...)
}

var rudeConversation = []string{
	"[10:00] Atendente: Bom dia, como posso ajudar?",
	"[10:02] Cliente: Meu pedido está com problema, é urgente",
	"[10:03] Cliente: Isso é uma merda, péssimo",
	"[10:20] Atendente: Vou verificar, aguarde",
	"[10:25] Cliente: porra, quero falar com o supervisor",
	"[10:26] Atendente: Pronto, resolvido",
}

func TestScoreText(t *testing.T) {
	rec := metrics.New()
	e := newEngine(t, WithMetrics(rec))

	res := e.ScoreText("Você foi grosseiro e péssimo, quero falar com o supervisor")
	assert.Equal(t, 0.0, res.OverallScore)
	assert.Equal(t, types.TierCritical, res.Tier)
	assert.NotEmpty(t, res.CriticalIssues)

	res = e.ScoreText("")
	assert.Equal(t, 50.0, res.OverallScore)
	assert.Equal(t, types.TierAverage, res.Tier)
	assert.NotNil(t, res.Detections)

	n, err := testutil.GatherAndCount(rec.Registry(), "iq_quality_tier_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestScoreSegmentsMatchesJoinedText(t *testing.T) {
	e := newEngine(t)
	segs := []transcript.Segment{
		{Start: 0, End: 2, Text: "muito obrigado,"},
		{Start: 3, End: 5, Text: "ficou excelente"},
	}
	assert.Equal(t, e.ScoreText("muito obrigado, ficou excelente"), e.ScoreSegments(segs))
}

func TestAnalyzeConversation(t *testing.T) {
	e := newEngine(t)

	rep, err := e.AnalyzeConversation(rudeConversation, AttributionTagged)
	require.NoError(t, err)
	require.Len(t, rep.Timeline.Turns, 6)
	assert.Equal(t, types.SpeakerAgent, rep.Timeline.Turns[0].Speaker)
	assert.Equal(t, 2, rep.Timeline.Metrics.SwearCount)
	assert.True(t, rep.Verdict.RequiresEscalation)
	assert.NotEmpty(t, rep.Quality.Detections)
	assert.Less(t, rep.Quality.OverallScore, 50.0)

	_, err = e.AnalyzeConversation(rudeConversation, "psychic")
	assert.True(t, apperr.IsValidation(err))

	_, err = e.AnalyzeConversation([]string{"", "  "}, "")
	assert.True(t, apperr.IsValidation(err))
}

func TestAnalyzeConversationTaggedTranscript(t *testing.T) {
	e := newEngine(t)
	rep, err := e.AnalyzeConversation(strings.Split(transcription.MockTranscript, "\n"), AttributionTagged)
	require.NoError(t, err)
	require.Len(t, rep.Timeline.Turns, 4)
	want := []types.Speaker{types.SpeakerAgent, types.SpeakerClient, types.SpeakerAgent, types.SpeakerClient}
	for i, turn := range rep.Timeline.Turns {
		assert.Equal(t, want[i], turn.Speaker, i)
	}
}

func TestAnalyzeMessages(t *testing.T) {
	e := newEngine(t)
	rep, err := e.AnalyzeMessages([]types.Message{
		{Speaker: types.SpeakerAgent, Text: "Olá, como posso ajudar?", Clock: &types.Clock{Hour: 9}},
		{Speaker: types.SpeakerClient, Text: "Minha internet não funciona", Clock: &types.Clock{Hour: 9, Minute: 35}},
	})
	require.NoError(t, err)
	require.Len(t, rep.Timeline.Delays, 1)
	assert.Equal(t, 35.0, rep.Timeline.Delays[0].DelayMinutes)

	_, err = e.AnalyzeMessages([]types.Message{{Speaker: "robot", Text: "oi"}})
	assert.True(t, apperr.IsValidation(err))
}

func TestEvaluate(t *testing.T) {
	rec := metrics.New()
	e := newEngine(t, WithMetrics(rec))

	var responses []types.Response
	for _, s := range e.Form().Sections {
		for _, c := range s.Criteria {
			v := types.AnswerYes
			if c.Critical {
				v = types.AnswerFalse
			}
			responses = append(responses, types.Response{CriterionID: c.ID, Value: v})
		}
	}
	res, err := e.Evaluate(responses)
	require.NoError(t, err)
	assert.Equal(t, 100.0, res.TotalScore)
	assert.False(t, res.HasCriticalFailure)

	_, err = e.Evaluate([]types.Response{{CriterionID: "nope", Value: types.AnswerYes}})
	assert.True(t, apperr.IsValidation(err))
}

func TestScoreRecording(t *testing.T) {
	e := newEngine(t)
	_, err := e.ScoreRecording(context.Background(), "https://calls.example.com/1.mp3")
	assert.ErrorIs(t, err, ErrNoTranscriber)
	assert.False(t, e.TranscriptionEnabled())

	tr := &fakeTranscriber{text: transcription.MockTranscript}
	e = newEngine(t, WithTranscriber(tr))
	rep, err := e.ScoreRecording(context.Background(), "https://calls.example.com/1.mp3")
	require.NoError(t, err)
	assert.Equal(t, transcription.MockTranscript, rep.Transcript)
	require.NotNil(t, rep.Conversation)
	require.Len(t, rep.Conversation.Timeline.Turns, 4)
	assert.Equal(t, types.SpeakerAgent, rep.Conversation.Timeline.Turns[0].Speaker)
	assert.Equal(t, rep.Conversation.Quality, rep.Quality)

	tr = &fakeTranscriber{text: "tudo excelente, obrigado"}
	e = newEngine(t, WithTranscriber(tr))
	rep, err = e.ScoreRecording(context.Background(), "https://calls.example.com/2.mp3")
	require.NoError(t, err)
	assert.Nil(t, rep.Conversation)
	assert.Equal(t, types.TierExcellent, rep.Quality.Tier)

	boom := errors.New("boom")
	e = newEngine(t, WithTranscriber(&fakeTranscriber{err: boom}))
	_, err = e.ScoreRecording(context.Background(), "https://calls.example.com/3.mp3")
	assert.ErrorIs(t, err, boom)
}

func TestScoreRecord(t *testing.T) {
	tr := &fakeTranscriber{text: transcription.MockTranscript}
	e := newEngine(t, WithTranscriber(tr))

	res := e.ScoreRecord(context.Background(), dataset.Record{Row: 2, Transcript: "péssimo, quero cancelar"})
	assert.False(t, res.Failed())
	assert.Equal(t, 0, tr.calls)
	assert.Nil(t, res.Verdict)
	assert.Equal(t, types.TierCritical, res.Quality.Tier)

	res = e.ScoreRecord(context.Background(), dataset.Record{Row: 3, AudioURL: "https://calls.example.com/1.mp3"})
	assert.False(t, res.Failed())
	assert.Equal(t, 1, tr.calls)
	assert.Equal(t, transcription.MockTranscript, res.Transcript)
	assert.NotNil(t, res.Verdict)

	e = newEngine(t)
	res = e.ScoreRecord(context.Background(), dataset.Record{Row: 4, AudioURL: "https://calls.example.com/1.mp3"})
	assert.True(t, res.Failed())
	assert.Equal(t, 4, res.Row)
}
