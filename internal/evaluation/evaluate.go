// Package evaluation scores a filled monitoring checklist. Answering "sim"
// or "nao_se_aplica" awards the full weight of a criterion and "nao" awards
// nothing. A critical criterion answered "true" zeroes the whole evaluation.
package evaluation

import (
	"fmt"
	"math"
	"strings"

	"interaction-quality-go/internal/apperr"
	"interaction-quality-go/internal/types"
)

// canonical maps accepted spellings to the stored answer values.
var canonical = map[string]string{
	"sim":           types.AnswerYes,
	"nao":           types.AnswerNo,
	"não":           types.AnswerNo,
	"nao_se_aplica": types.AnswerNotApplicable,
	"na":            types.AnswerNotApplicable,
	"n/a":           types.AnswerNotApplicable,
	"true":          types.AnswerTrue,
	"false":         types.AnswerFalse,
}

func canonicalValue(c types.Criterion, raw string) (string, bool) {
	v, ok := canonical[strings.ToLower(strings.TrimSpace(raw))]
	if !ok {
		return "", false
	}
	isBool := v == types.AnswerTrue || v == types.AnswerFalse
	return v, isBool == c.Critical
}

// Validate rejects unknown criterion ids, repeated answers, values that do
// not fit the criterion kind and unanswered required criteria. On success it
// returns the responses keyed by criterion id with canonical values.
func Validate(form *Form, responses []types.Response) (map[string]types.Response, error) {
	if form == nil {
		return nil, apperr.Validation("form", "missing form")
	}
	answered := make(map[string]types.Response, len(responses))
	for i, r := range responses {
		field := fmt.Sprintf("responses[%d]", i)
		if err := validate.Struct(r); err != nil {
			return nil, apperr.Validation(field, err.Error())
		}
		c, ok := form.Criterion(r.CriterionID)
		if !ok {
			return nil, apperr.Validation(field+".criterion_id", fmt.Sprintf("unknown criterion %q", r.CriterionID))
		}
		if _, dup := answered[r.CriterionID]; dup {
			return nil, apperr.Validation(field+".criterion_id", fmt.Sprintf("criterion %q answered twice", r.CriterionID))
		}
		v, ok := canonicalValue(c, r.Value)
		if !ok {
			return nil, apperr.Validation(field+".value", fmt.Sprintf("invalid value %q for criterion %q", r.Value, r.CriterionID))
		}
		r.Value = v
		answered[r.CriterionID] = r
	}

	for _, s := range form.Sections {
		for _, c := range s.Criteria {
			if _, ok := answered[c.ID]; c.Required && !ok {
				return nil, apperr.Validation(c.ID, "required criterion not answered")
			}
		}
	}
	return answered, nil
}

// Evaluate validates responses against form and scores them. Unanswered
// optional criteria award nothing.
func Evaluate(form *Form, responses []types.Response) (types.EvaluationResult, error) {
	answered, err := Validate(form, responses)
	if err != nil {
		return types.EvaluationResult{}, err
	}

	res := types.EvaluationResult{
		FailedCriteriaNames: []string{},
		Sections:            make([]types.SectionScore, 0, len(form.Sections)),
		Responses:           make([]types.Response, 0, len(responses)),
	}
	scored := make(map[string]float64, len(answered))
	total := 0.0
	for _, s := range form.Sections {
		section := types.SectionScore{SectionID: s.ID, Name: s.Name, MaxScore: sectionMax(s)}
		failed := false
		for _, c := range s.Criteria {
			r, ok := answered[c.ID]
			if !ok {
				continue
			}
			if c.Critical {
				if r.Value == types.AnswerTrue {
					failed = true
					res.HasCriticalFailure = true
					res.FailedCriteriaNames = append(res.FailedCriteriaNames, c.Name)
				}
				scored[c.ID] = 0
				continue
			}
			points := 0.0
			if r.Value == types.AnswerYes || r.Value == types.AnswerNotApplicable {
				points = c.Weight
			}
			scored[c.ID] = points
			section.AchievedScore += points
		}
		if failed {
			section.AchievedScore = 0
		}
		total += section.AchievedScore
		res.Sections = append(res.Sections, section)
	}

	for _, r := range responses {
		a := answered[r.CriterionID]
		a.Score = scored[r.CriterionID]
		res.Responses = append(res.Responses, a)
	}

	if res.HasCriticalFailure {
		total = 0
	}
	res.TotalScore = math.Round(math.Max(0, math.Min(100, total))*100) / 100
	return res, nil
}
