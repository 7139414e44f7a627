// Package server exposes the scoring engine over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"interaction-quality-go/internal/actionable"
	"interaction-quality-go/internal/aggregator"
	"interaction-quality-go/internal/apperr"
	"interaction-quality-go/internal/dataset"
	"interaction-quality-go/internal/lexicon"
	"interaction-quality-go/internal/logger"
	"interaction-quality-go/internal/metrics"
	"interaction-quality-go/internal/pipeline"
	"interaction-quality-go/internal/processor"
	"interaction-quality-go/internal/scoring"
	"interaction-quality-go/internal/transcript"
	"interaction-quality-go/internal/transcription"
	"interaction-quality-go/internal/types"
)

const (
	maxBodyBytes = 1 << 20
	demoLimit    = 5
)

type Options struct {
	Metrics     *metrics.Recorder
	Logger      *logger.Logger
	DatasetPath string
	Workers     int
	// Timeout bounds one recording; callers may lower it with timeout_sec.
	Timeout time.Duration
}

type Server struct {
	engine   *processor.Engine
	opts     Options
	log      *logger.Logger
	validate *validator.Validate
}

func New(engine *processor.Engine, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = logger.New()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 40 * time.Second
	}
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Server{engine: engine, opts: opts, log: opts.Logger, validate: v}
}

// Handler returns the routed mux wrapped in request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "ok")
	})
	if s.opts.Metrics != nil {
		mux.Handle("GET /metrics", s.opts.Metrics.Handler())
	}
	mux.HandleFunc("POST /v1/score", s.handleScore)
	mux.HandleFunc("POST /v1/conversation", s.handleConversation)
	mux.HandleFunc("POST /v1/evaluate", s.handleEvaluate)
	mux.HandleFunc("GET /v1/form", s.handleForm)
	mux.HandleFunc("GET /v1/lexicon", s.handleLexicon)
	mux.HandleFunc("/process", s.handleProcess)
	mux.HandleFunc("GET /demo", s.handleDemo)
	return s.withRequestLog(mux)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(logger.RequestIDHeader) == "" {
			r.Header.Set(logger.RequestIDHeader, logger.RequestID(r))
		}
		w.Header().Set(logger.RequestIDHeader, r.Header.Get(logger.RequestIDHeader))
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)
		s.log.WithRequest(r).WithField("status", rec.status).
			WithField("duration_ms", time.Since(start).Milliseconds()).
			Info("request handled")
	})
}

type scoreResponse struct {
	Quality        types.ScoreResult    `json:"quality"`
	Tally          scoring.Tally        `json:"tally"`
	Report         string               `json:"report,omitempty"`
	Silences       []transcript.Silence `json:"silences,omitempty"`
	SilenceSeconds float64              `json:"silence_seconds,omitempty"`
}

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	var req types.ScoreRequest
	if !s.decode(w, r, &req) {
		return
	}
	var resp scoreResponse
	if len(req.Segments) > 0 {
		segs := segments(req.Segments)
		resp.Quality = s.engine.ScoreSegments(segs)
		resp.Silences = transcript.Silences(segs, transcript.MinSilenceGap)
		resp.SilenceSeconds = transcript.SilenceSeconds(segs, transcript.MinSilenceGap)
	} else {
		resp.Quality = s.engine.ScoreText(req.Text)
	}
	resp.Tally = scoring.ImpactTally(resp.Quality.Detections)
	if req.Report {
		resp.Report = scoring.Report(resp.Quality)
	}
	s.writeJSON(w, r, http.StatusOK, resp)
}

func segments(in []types.SegmentText) []transcript.Segment {
	out := make([]transcript.Segment, len(in))
	for i, sg := range in {
		out[i] = transcript.Segment{Start: sg.Start, End: sg.End, Speaker: sg.Speaker, Text: sg.Text}
	}
	return out
}

func (s *Server) handleConversation(w http.ResponseWriter, r *http.Request) {
	var req types.ConversationRequest
	if !s.decode(w, r, &req) {
		return
	}
	var (
		rep types.ConversationReport
		err error
	)
	switch {
	case len(req.Messages) > 0:
		rep, err = s.engine.AnalyzeMessages(req.Messages)
	case len(req.Segments) > 0:
		var msgs []types.Message
		if msgs, err = transcript.ToMessages(segments(req.Segments)); err == nil {
			rep, err = s.engine.AnalyzeMessages(msgs)
		}
	default:
		rep, err = s.engine.AnalyzeConversation(req.Lines, req.Attribution)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, rep)
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req types.EvaluateRequest
	if !s.decode(w, r, &req) {
		return
	}
	res, err := s.engine.Evaluate(req.Responses)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, res)
}

func (s *Server) handleForm(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, s.engine.Form())
}

type lexiconResponse struct {
	Version    string             `json:"version"`
	Categories []lexicon.Category `json:"categories"`
	Advisories []string           `json:"advisories,omitempty"`
}

func (s *Server) handleLexicon(w http.ResponseWriter, r *http.Request) {
	lex := s.engine.Lexicon()
	s.writeJSON(w, r, http.StatusOK, lexiconResponse{
		Version:    lex.Version(),
		Categories: lex.Categories(),
		Advisories: lex.Advisories(),
	})
}

// handleProcess scores the recording at ?audio_url=, bounded by the server
// timeout or a lower ?timeout_sec=.
func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	audioURL := r.URL.Query().Get("audio_url")
	if audioURL == "" {
		s.writeError(w, r, apperr.Validation("audio_url", "missing audio_url"))
		return
	}
	timeout := s.opts.Timeout
	if t := r.URL.Query().Get("timeout_sec"); t != "" {
		sec, err := strconv.Atoi(t)
		if err != nil || sec <= 0 {
			s.writeError(w, r, apperr.Validation("timeout_sec", "must be a positive integer"))
			return
		}
		if d := time.Duration(sec) * time.Second; d < timeout {
			timeout = d
		}
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	defer cancel()

	rep, err := s.engine.ScoreRecording(ctx, audioURL)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, rep)
}

type demoResponse struct {
	Results    []dataset.Result      `json:"results"`
	Insight    aggregator.Insight    `json:"insight"`
	ActionCard actionable.ActionCard `json:"action_card"`
}

// handleDemo scores the first rows of the configured dataset.
func (s *Server) handleDemo(w http.ResponseWriter, r *http.Request) {
	if s.opts.DatasetPath == "" {
		s.writeError(w, r, apperr.Config("environment", 0, "DATASET_PATH", "not set"))
		return
	}
	records, err := dataset.Load(s.opts.DatasetPath, s.log)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if len(records) > demoLimit {
		records = records[:demoLimit]
	}
	results := pipeline.Run(r.Context(), records, s.engine.ScoreRecord, pipeline.Options{
		Workers: s.opts.Workers,
		Timeout: s.opts.Timeout,
		Logger:  s.log,
	})
	ins := aggregator.Aggregate(results)
	s.writeJSON(w, r, http.StatusOK, demoResponse{Results: results, Insight: ins, ActionCard: actionable.Generate(ins)})
}

// decode reads a JSON body into dst and validates it, writing a 400 on
// failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("empty body")
		}
		s.writeError(w, r, apperr.Validation("body", err.Error()))
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		var ves validator.ValidationErrors
		if errors.As(err, &ves) && len(ves) > 0 {
			fe := ves[0]
			s.writeError(w, r, apperr.Validation(fieldPath(fe.Namespace()), fmt.Sprintf("failed %q", fe.Tag())))
			return false
		}
		s.writeError(w, r, apperr.Validation("body", err.Error()))
		return false
	}
	return true
}

// fieldPath drops the root struct name from a validator namespace.
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func statusFor(err error) int {
	switch {
	case apperr.IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, processor.ErrNoTranscriber), errors.Is(err, transcription.ErrNotConfigured):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, transcription.ErrTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, transcription.ErrFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	resp := types.ErrorResponse{Error: err.Error()}
	var ve *apperr.ValidationError
	if errors.As(err, &ve) {
		resp.Field = ve.Field
	}
	entry := s.log.WithRequest(r).WithField("status", status).WithField("error", err.Error())
	if status >= http.StatusInternalServerError {
		entry.Error("request failed")
	} else {
		entry.Warn("request rejected")
	}
	s.writeJSON(w, r, status, resp)
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		s.log.WithRequest(r).WithError(err).Error("failed to write response")
	}
}
