package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interaction-quality-go/internal/types"
)

func TestRecorder(t *testing.T) {
	r := New()
	r.Observe("score", time.Now(), nil)
	r.Observe("score", time.Now(), errors.New("boom"))
	r.Score(types.ScoreResult{OverallScore: 90, Tier: types.TierExcellent})
	r.Score(types.ScoreResult{OverallScore: 10, Tier: types.TierCritical})
	r.Verdict(types.Verdict{RequiresEscalation: true})
	r.Verdict(types.Verdict{})
	r.Evaluation(types.EvaluationResult{HasCriticalFailure: true})

	assert.Equal(t, 1.0, testutil.ToFloat64(r.analyses.WithLabelValues("score", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.analyses.WithLabelValues("score", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.tiers.WithLabelValues("excellent")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.escalations))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.criticalFailures))
	assert.Equal(t, 2, testutil.CollectAndCount(r.tiers))
	assert.Equal(t, 1, testutil.CollectAndCount(r.scores))
}

func TestNilRecorderIsNoop(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.Observe("score", time.Now(), nil)
		r.Score(types.ScoreResult{})
		r.Verdict(types.Verdict{RequiresEscalation: true})
		r.Evaluation(types.EvaluationResult{})
	})
}

func TestHandlerExposesMetrics(t *testing.T) {
	r := New()
	r.Score(types.ScoreResult{OverallScore: 50, Tier: types.TierAverage})

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `iq_quality_tier_total{tier="average"} 1`)
}
