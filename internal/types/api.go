package types

// ScoreRequest carries free text, or transcript segments joined in order.
type ScoreRequest struct {
	Text     string        `json:"text" validate:"required_without=Segments"`
	Segments []SegmentText `json:"segments" validate:"omitempty,dive"`
	Report   bool          `json:"report"`
}

type SegmentText struct {
	Start   float64 `json:"start" validate:"gte=0"`
	End     float64 `json:"end" validate:"gtefield=Start"`
	Speaker string  `json:"speaker"`
	Text    string  `json:"text"`
}

// ConversationRequest carries raw lines to attribute, messages whose
// speakers are already known, or speaker-labelled transcript segments.
type ConversationRequest struct {
	Lines       []string      `json:"lines" validate:"required_without_all=Messages Segments"`
	Messages    []Message     `json:"messages" validate:"omitempty,dive"`
	Segments    []SegmentText `json:"segments" validate:"omitempty,dive"`
	Attribution string        `json:"attribution" validate:"omitempty,oneof=heuristic tagged"`
}

type EvaluateRequest struct {
	Responses []Response `json:"responses" validate:"required,min=1,dive"`
}

// ConversationReport is the full analysis of one conversation.
type ConversationReport struct {
	Timeline Timeline    `json:"timeline"`
	Verdict  Verdict     `json:"verdict"`
	Quality  ScoreResult `json:"quality"`
}

// RecordingReport is returned for a transcribed call recording.
type RecordingReport struct {
	AudioURL     string              `json:"audio_url"`
	Transcript   string              `json:"transcript"`
	Quality      ScoreResult         `json:"quality"`
	Conversation *ConversationReport `json:"conversation,omitempty"`
	DurationMs   int64               `json:"duration_ms"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}
