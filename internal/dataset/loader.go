// Package dataset reads batches of interactions from a spreadsheet and
// writes their scores back out.
package dataset

import (
	"strings"

	"github.com/xuri/excelize/v2"

	"interaction-quality-go/internal/apperr"
	"interaction-quality-go/internal/logger"
)

// Record is one interaction to score. Either Transcript or AudioURL is set.
type Record struct {
	Row        int    `json:"row"`
	CallID     string `json:"call_id,omitempty"`
	Channel    string `json:"channel,omitempty"`
	Agent      string `json:"agent,omitempty"`
	AudioURL   string `json:"audio_url,omitempty"`
	Transcript string `json:"transcript,omitempty"`
}

type columns struct {
	callID, channel, agent, audio, transcript int
}

// detectColumns maps header names to indices. Only the first match of each
// kind counts.
func detectColumns(header []string) columns {
	cols := columns{-1, -1, -1, -1, -1}
	set := func(idx *int, i int) {
		if *idx == -1 {
			*idx = i
		}
	}
	for i, h := range header {
		l := strings.ToLower(strings.TrimSpace(h))
		switch {
		case strings.Contains(l, "transcri") || strings.Contains(l, "text") || strings.Contains(l, "conversa"):
			set(&cols.transcript, i)
		case strings.Contains(l, "audio") || strings.Contains(l, "record") || strings.Contains(l, "grava") ||
			strings.Contains(l, "url") || strings.Contains(l, "link"):
			set(&cols.audio, i)
		case strings.Contains(l, "agent") || strings.Contains(l, "atendente") || strings.Contains(l, "operador"):
			set(&cols.agent, i)
		case strings.Contains(l, "channel") || strings.Contains(l, "canal") || strings.Contains(l, "type"):
			set(&cols.channel, i)
		case strings.Contains(l, "id"):
			set(&cols.callID, i)
		}
	}
	return cols
}

// Load reads the first sheet of an .xlsx workbook. Rows with neither a
// transcript nor an http(s) recording link are skipped.
func Load(path string, log *logger.Logger) ([]Record, error) {
	entry := logger.OrNew(log).Component("dataset").WithField("path", path)
	entry.Info("opening dataset")

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &apperr.ConfigError{Source: path, Reason: "open spreadsheet", Raw: err}
	}
	defer f.Close()
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperr.Config(path, 0, "", "no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, &apperr.ConfigError{Source: path, Reason: "read rows", Raw: err}
	}
	if len(rows) <= 1 {
		return nil, apperr.Config(path, 0, "", "no data rows")
	}

	cols := detectColumns(rows[0])
	if cols.transcript == -1 && cols.audio == -1 {
		return nil, apperr.Config(path, 1, "transcript", "no transcript or recording column")
	}
	entry.WithFields(map[string]interface{}{
		"transcriptIdx": cols.transcript,
		"audioIdx":      cols.audio,
		"callIDIdx":     cols.callID,
	}).Debug("detected column indices")

	var (
		out     []Record
		skipped int
	)
	for i, r := range rows[1:] {
		rec := Record{
			Row:        i + 2,
			CallID:     cell(r, cols.callID),
			Channel:    cell(r, cols.channel),
			Agent:      cell(r, cols.agent),
			AudioURL:   cell(r, cols.audio),
			Transcript: cell(r, cols.transcript),
		}
		if !isHTTP(rec.AudioURL) {
			rec.AudioURL = ""
		}
		if rec.Transcript == "" && rec.AudioURL == "" {
			skipped++
			continue
		}
		out = append(out, rec)
	}
	entry.WithFields(map[string]interface{}{
		"records": len(out),
		"skipped": skipped,
	}).Info("dataset loaded")
	return out, nil
}

func isHTTP(s string) bool {
	l := strings.ToLower(s)
	return strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://")
}

func cell(r []string, idx int) string {
	if idx < 0 || idx >= len(r) {
		return ""
	}
	return strings.TrimSpace(r[idx])
}
