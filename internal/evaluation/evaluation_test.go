package evaluation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interaction-quality-go/internal/apperr"
	"interaction-quality-go/internal/types"
)

func twoHalves() *Form {
	return &Form{
		ID: "f",
		Sections: []Section{{
			ID: "s",
			Criteria: []types.Criterion{
				{ID: "a", Name: "A", Weight: 50},
				{ID: "b", Name: "B", Weight: 50},
				{ID: "z", Name: "Zera", Critical: true},
			},
		}},
	}
}

func TestYesAndNo(t *testing.T) {
	res, err := Evaluate(twoHalves(), []types.Response{
		{CriterionID: "a", Value: "sim"},
		{CriterionID: "b", Value: "nao"},
	})
	require.NoError(t, err)
	assert.Equal(t, 50.0, res.TotalScore)
	assert.False(t, res.HasCriticalFailure)
	assert.Empty(t, res.FailedCriteriaNames)
	require.Len(t, res.Responses, 2)
	assert.Equal(t, 50.0, res.Responses[0].Score)
	assert.Equal(t, 0.0, res.Responses[1].Score)
}

func TestCriticalFailureZeroes(t *testing.T) {
	res, err := Evaluate(twoHalves(), []types.Response{
		{CriterionID: "a", Value: "sim"},
		{CriterionID: "b", Value: "sim"},
		{CriterionID: "z", Value: "TRUE"},
	})
	require.NoError(t, err)
	assert.Zero(t, res.TotalScore)
	assert.True(t, res.HasCriticalFailure)
	assert.Equal(t, []string{"Zera"}, res.FailedCriteriaNames)
	assert.Zero(t, res.Sections[0].AchievedScore)
	assert.Equal(t, 100.0, res.Sections[0].MaxScore)

	res, err = Evaluate(twoHalves(), []types.Response{
		{CriterionID: "a", Value: "sim"},
		{CriterionID: "z", Value: "false"},
	})
	require.NoError(t, err)
	assert.Equal(t, 50.0, res.TotalScore)
	assert.False(t, res.HasCriticalFailure)
}

func TestNotApplicableCountsAsYes(t *testing.T) {
	form := DefaultForm()
	var yes, na []types.Response
	for _, s := range form.Sections {
		for _, c := range s.Criteria {
			if c.Critical {
				continue
			}
			yes = append(yes, types.Response{CriterionID: c.ID, Value: "sim"})
			na = append(na, types.Response{CriterionID: c.ID, Value: "nao_se_aplica"})
		}
	}
	a, err := Evaluate(form, yes)
	require.NoError(t, err)
	b, err := Evaluate(form, na)
	require.NoError(t, err)
	assert.Equal(t, a.TotalScore, b.TotalScore)
	assert.Equal(t, 100.0, a.TotalScore)
	assert.Equal(t, form.MaxScore(), a.TotalScore)
	assert.Equal(t, "nao_se_aplica", b.Responses[0].Value)
}

func TestAliases(t *testing.T) {
	res, err := Evaluate(twoHalves(), []types.Response{
		{CriterionID: "a", Value: " NA "},
		{CriterionID: "b", Value: "Não"},
	})
	require.NoError(t, err)
	assert.Equal(t, 50.0, res.TotalScore)
	assert.Equal(t, types.AnswerNotApplicable, res.Responses[0].Value)
	assert.Equal(t, types.AnswerNo, res.Responses[1].Value)
}

func TestScoreIsClamped(t *testing.T) {
	form := &Form{ID: "big", Sections: []Section{{ID: "s", Criteria: []types.Criterion{
		{ID: "a", Name: "A", Weight: 80},
		{ID: "b", Name: "B", Weight: 70},
	}}}}
	res, err := Evaluate(form, []types.Response{{CriterionID: "a", Value: "sim"}, {CriterionID: "b", Value: "sim"}})
	require.NoError(t, err)
	assert.Equal(t, 100.0, res.TotalScore)
}

func TestValidationErrors(t *testing.T) {
	required := twoHalves()
	required.Sections[0].Criteria[1].Required = true

	cases := []struct {
		name  string
		form  *Form
		resp  []types.Response
		field string
	}{
		{"unknown id", twoHalves(), []types.Response{{CriterionID: "x", Value: "sim"}}, "responses[0].criterion_id"},
		{"duplicate", twoHalves(), []types.Response{{CriterionID: "a", Value: "sim"}, {CriterionID: "a", Value: "nao"}}, "responses[1].criterion_id"},
		{"bad value", twoHalves(), []types.Response{{CriterionID: "a", Value: "talvez"}}, "responses[0].value"},
		{"bool on scored", twoHalves(), []types.Response{{CriterionID: "a", Value: "true"}}, "responses[0].value"},
		{"scored on critical", twoHalves(), []types.Response{{CriterionID: "z", Value: "sim"}}, "responses[0].value"},
		{"empty value", twoHalves(), []types.Response{{CriterionID: "a"}}, "responses[0]"},
		{"required missing", required, []types.Response{{CriterionID: "a", Value: "sim"}}, "b"},
		{"no form", nil, nil, "form"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Evaluate(tc.form, tc.resp)
			var ve *apperr.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tc.field, ve.Field)
			assert.True(t, apperr.IsValidation(err))
		})
	}
}

func TestDefaultForm(t *testing.T) {
	f := DefaultForm()
	assert.Equal(t, "monitoria-padrao", f.ID)
	assert.Len(t, f.Sections, 4)
	assert.Equal(t, 100.0, f.MaxScore())
	c, ok := f.Criterion("grosseria")
	require.True(t, ok)
	assert.True(t, c.Critical)

	f.Sections[0].Name = "changed"
	assert.NotEqual(t, "changed", DefaultForm().Sections[0].Name)
}

func TestLoadForm(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "form.yaml")
	require.NoError(t, os.WriteFile(good, []byte(`
id: curto
sections:
  - id: unica
    criteria:
      - {id: a, name: Cumprimentou, weight: 60, required: true}
      - {id: b, name: Resolveu, weight: 40}
`), 0o600))
	f, err := LoadForm(good)
	require.NoError(t, err)
	assert.Equal(t, 100.0, f.MaxScore())
	assert.True(t, f.Sections[0].Criteria[0].Required)

	bad := []string{
		"id: x\nsections: []\n",
		"sections:\n  - id: s\n    criteria:\n      - {id: a, name: A, weight: 1}\n",
		"id: x\nsections:\n  - id: s\n    criteria:\n      - {id: a, name: A, weight: 101}\n",
		"id: x\nsections:\n  - id: s\n    criteria:\n      - {id: a, name: A, weight: 1}\n      - {id: a, name: B, weight: 1}\n",
		"id: [\n",
	}
	for i, body := range bad {
		p := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
		_, err := LoadForm(p)
		assert.True(t, apperr.IsConfig(err), "case %d: %v", i, err)
	}

	_, err = LoadForm(filepath.Join(dir, "missing.yaml"))
	assert.True(t, apperr.IsConfig(err))
}
