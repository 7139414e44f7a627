package processor

import (
	"net/http"

	"interaction-quality-go/internal/config"
	"interaction-quality-go/internal/evaluation"
	"interaction-quality-go/internal/lexicon"
	"interaction-quality-go/internal/logger"
	"interaction-quality-go/internal/metrics"
	"interaction-quality-go/internal/transcription"
)

// FromConfig loads the lexicon and form named by cfg, falling back to the
// built-ins when a path is empty, and builds an Engine. Load failures are
// returned as they are; nothing is skipped.
func FromConfig(cfg *config.Config, log *logger.Logger, rec *metrics.Recorder) (*Engine, error) {
	lex := lexicon.Default()
	if cfg.LexiconPath != "" {
		var err error
		if lex, err = lexicon.Load(cfg.LexiconPath, log); err != nil {
			return nil, err
		}
	}
	form := evaluation.DefaultForm()
	if cfg.FormPath != "" {
		var err error
		if form, err = evaluation.LoadForm(cfg.FormPath); err != nil {
			return nil, err
		}
	}

	opts := []Option{
		WithLexicon(lex),
		WithForm(form),
		WithTimeline(cfg.Timeline()),
		WithMetrics(rec),
		WithLogger(log),
	}
	if cfg.TranscriptionEnabled() {
		opts = append(opts, WithTranscriber(transcription.NewClient(cfg.TranscribeURL,
			transcription.WithMock(cfg.UseMockTranscribe),
			transcription.WithHTTPClient(&http.Client{Timeout: cfg.TranscribeTimeout}),
			transcription.WithLogger(log))))
	}

	log.Component("processor").WithFields(map[string]interface{}{
		"lexicon":       lex.Version(),
		"categories":    lex.Len(),
		"form":          form.ID,
		"transcription": cfg.TranscriptionEnabled(),
	}).Info("engine ready")
	return New(opts...), nil
}
