package dataset

import (
	"strings"

	"github.com/xuri/excelize/v2"

	"interaction-quality-go/internal/types"
)

// Result pairs a record with its analysis. Err is set instead of Quality
// when the record could not be scored.
type Result struct {
	Record
	Quality    types.ScoreResult `json:"quality"`
	Verdict    *types.Verdict    `json:"verdict,omitempty"`
	DurationMs int64             `json:"duration_ms"`
	Err        string            `json:"error,omitempty"`
}

func (r Result) Failed() bool { return r.Err != "" }

const reportSheet = "Scores"

var reportHeader = []interface{}{
	"Row", "Call ID", "Agent", "Score", "Tier", "Critical issues",
	"Recommendations", "Sentiment", "Satisfaction", "Escalate", "Error",
}

// WriteReport saves one row per result, in order, to an .xlsx workbook.
func WriteReport(path string, results []Result) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), reportSheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(reportSheet, "A1", &reportHeader); err != nil {
		return err
	}
	for i, r := range results {
		row := reportRow(r)
		ref, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(reportSheet, ref, &row); err != nil {
			return err
		}
	}
	return f.SaveAs(path)
}

func reportRow(r Result) []interface{} {
	if r.Failed() {
		return []interface{}{r.Row, r.CallID, r.Agent, "", "", "", "", "", "", "", r.Err}
	}
	row := []interface{}{
		r.Row, r.CallID, r.Agent,
		r.Quality.OverallScore, string(r.Quality.Tier),
		strings.Join(r.Quality.CriticalIssues, "; "),
		strings.Join(r.Quality.Recommendations, "; "),
		"", "", "", "",
	}
	if r.Verdict != nil {
		row[7] = string(r.Verdict.OverallSentiment)
		row[8] = string(r.Verdict.CustomerSatisfaction)
		row[9] = r.Verdict.RequiresEscalation
	}
	return row
}
