// Package metrics exposes Prometheus collectors for scoring activity.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"interaction-quality-go/internal/types"
)

// Recorder holds the engine's Prometheus collectors. A nil *Recorder is
// valid and records nothing.
type Recorder struct {
	registry *prometheus.Registry

	analyses         *prometheus.CounterVec
	duration         *prometheus.HistogramVec
	scores           prometheus.Histogram
	tiers            *prometheus.CounterVec
	escalations      prometheus.Counter
	criticalFailures prometheus.Counter
	evaluationScores prometheus.Histogram
}

func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		analyses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "iq_analyses_total",
				Help: "Analyses performed, by kind and outcome",
			},
			[]string{"kind", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "iq_analysis_duration_seconds",
				Help:    "Analysis duration in seconds",
				Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 30},
			},
			[]string{"kind"},
		),
		scores: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "iq_quality_score",
				Help:    "Keyword quality scores",
				Buckets: []float64{10, 25, 45, 65, 80, 90, 100},
			},
		),
		tiers: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "iq_quality_tier_total",
				Help: "Scored interactions by quality tier",
			},
			[]string{"tier"},
		),
		escalations: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "iq_escalations_total",
				Help: "Conversations flagged for escalation",
			},
		),
		criticalFailures: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "iq_evaluation_critical_failures_total",
				Help: "Evaluations zeroed by a critical criterion",
			},
		),
		evaluationScores: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "iq_evaluation_score",
				Help:    "Checklist evaluation scores",
				Buckets: []float64{0, 25, 50, 70, 85, 100},
			},
		),
	}
	r.registry.MustRegister(
		r.analyses, r.duration, r.scores, r.tiers,
		r.escalations, r.criticalFailures, r.evaluationScores,
	)
	return r
}

func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Observe records the outcome and latency of one analysis of the given kind.
func (r *Recorder) Observe(kind string, start time.Time, err error) {
	if r == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	r.analyses.WithLabelValues(kind, status).Inc()
	r.duration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
}

func (r *Recorder) Score(res types.ScoreResult) {
	if r == nil {
		return
	}
	r.scores.Observe(res.OverallScore)
	r.tiers.WithLabelValues(string(res.Tier)).Inc()
}

func (r *Recorder) Verdict(v types.Verdict) {
	if r == nil || !v.RequiresEscalation {
		return
	}
	r.escalations.Inc()
}

func (r *Recorder) Evaluation(res types.EvaluationResult) {
	if r == nil {
		return
	}
	r.evaluationScores.Observe(res.TotalScore)
	if res.HasCriticalFailure {
		r.criticalFailures.Inc()
	}
}
