package lexicon

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"interaction-quality-go/internal/apperr"
	"interaction-quality-go/internal/logger"
	"interaction-quality-go/internal/types"
)

// Load reads a human-editable lexicon. Spreadsheets (.xlsx) and .csv files
// carry one row per category (or per keyword, rows of the same category are
// merged) with the columns category, weight, impact, keywords and an
// optional class; keywords in a cell are separated by ";" or "|". YAML files
// hold a version and a categories list. A nil log falls back to one built
// from the environment.
func Load(path string, log *logger.Logger) (*Lexicon, error) {
	entry := logger.OrNew(log).Component("lexicon").WithField("path", path)
	entry.Info("loading lexicon")

	var (
		lex *Lexicon
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		lex, err = loadXLSX(path)
	case ".csv":
		lex, err = loadCSV(path)
	case ".yaml", ".yml":
		lex, err = loadYAML(path)
	default:
		err = apperr.Config(path, 0, "", "unsupported lexicon format (want .xlsx, .csv, .yaml)")
	}
	if err != nil {
		entry.WithError(err).Error("lexicon rejected")
		return nil, err
	}
	for _, adv := range lex.Advisories() {
		entry.WithField("advisory", adv).Warn("weight sign disagrees with impact")
	}
	entry.WithFields(map[string]interface{}{
		"version":    lex.Version(),
		"categories": lex.Len(),
	}).Info("lexicon loaded")
	return lex, nil
}

func loadXLSX(path string) (*Lexicon, error) {
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
	return fromRows(path, versionFromPath(path), rows)
}

func loadCSV(path string) (*Lexicon, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, &apperr.ConfigError{Source: path, Reason: "open csv", Raw: err}
	}
	defer fh.Close()
	return readCSV(path, fh)
}

func readCSV(source string, r io.Reader) (*Lexicon, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, &apperr.ConfigError{Source: source, Reason: "parse csv", Raw: err}
	}
	return fromRows(source, versionFromPath(source), rows)
}

type yamlLexicon struct {
	Version    string     `yaml:"version"`
	Categories []Category `yaml:"categories"`
}

func loadYAML(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &apperr.ConfigError{Source: path, Reason: "read file", Raw: err}
	}
	return parseYAML(path, data)
}

func parseYAML(source string, data []byte) (*Lexicon, error) {
	var doc yamlLexicon
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &apperr.ConfigError{Source: source, Reason: "parse yaml", Raw: err}
	}
	if len(doc.Categories) == 0 {
		return nil, apperr.Config(source, 0, "categories", "no categories")
	}
	for i, c := range doc.Categories {
		if strings.TrimSpace(c.Name) == "" {
			return nil, apperr.Config(source, i+1, "name", "missing category")
		}
		if strings.TrimSpace(string(c.Impact)) == "" {
			return nil, apperr.Config(source, i+1, "impact", "missing impact")
		}
		impact, ok := types.ParseImpact(strings.ToLower(strings.TrimSpace(string(c.Impact))))
		if !ok {
			return nil, apperr.Config(source, i+1, "impact", fmt.Sprintf("unknown impact %q", c.Impact))
		}
		doc.Categories[i].Impact = impact
	}
	version := doc.Version
	if version == "" {
		version = versionFromPath(source)
	}
	return New(version, doc.Categories)
}

type columns struct {
	category, weight, impact, keywords, class int
}

func detectColumns(header []string) columns {
	cols := columns{-1, -1, -1, -1, -1}
	for i, h := range header {
		l := strings.ToLower(strings.TrimSpace(h))
		switch {
		case strings.Contains(l, "categor") || l == "name" || l == "nome":
			if cols.category == -1 {
				cols.category = i
			}
		case strings.Contains(l, "weight") || strings.Contains(l, "peso"):
			if cols.weight == -1 {
				cols.weight = i
			}
		case strings.Contains(l, "impact"):
			if cols.impact == -1 {
				cols.impact = i
			}
		case strings.Contains(l, "keyword") || strings.Contains(l, "palavra") || strings.Contains(l, "express"):
			if cols.keywords == -1 {
				cols.keywords = i
			}
		case strings.Contains(l, "class"):
			if cols.class == -1 {
				cols.class = i
			}
		}
	}
	return cols
}

// fromRows turns a header row plus data rows into a Lexicon. Any malformed
// row fails the whole load; nothing is dropped silently.
func fromRows(source, version string, rows [][]string) (*Lexicon, error) {
	if len(rows) <= 1 {
		return nil, apperr.Config(source, 0, "", "no data rows")
	}
	cols := detectColumns(rows[0])
	for _, req := range []struct {
		name string
		idx  int
	}{
		{"category", cols.category},
		{"weight", cols.weight},
		{"impact", cols.impact},
		{"keywords", cols.keywords},
	} {
		if req.idx == -1 {
			return nil, apperr.Config(source, 1, req.name, "missing column")
		}
	}

	var (
		order []string
		byKey = map[string]*Category{}
	)
	for i, r := range rows[1:] {
		rowNum := i + 2
		if blankRow(r) {
			continue
		}
		name := cell(r, cols.category)
		if name == "" {
			return nil, apperr.Config(source, rowNum, "category", "missing category")
		}
		impactRaw := strings.ToLower(cell(r, cols.impact))
		if impactRaw == "" {
			return nil, apperr.Config(source, rowNum, "impact", "missing impact")
		}
		impact, ok := types.ParseImpact(impactRaw)
		if !ok {
			return nil, apperr.Config(source, rowNum, "impact", fmt.Sprintf("unknown impact %q", impactRaw))
		}
		weight, err := parseWeight(cell(r, cols.weight))
		if err != nil {
			return nil, &apperr.ConfigError{Source: source, Row: rowNum, Field: "weight", Reason: "invalid weight", Raw: err}
		}
		keywords := splitKeywords(cell(r, cols.keywords))
		if len(keywords) == 0 {
			return nil, apperr.Config(source, rowNum, "keywords", "no keywords")
		}
		class := strings.ToLower(cell(r, cols.class))

		key := strings.ToLower(name)
		existing, ok := byKey[key]
		if !ok {
			byKey[key] = &Category{Name: name, Class: class, Weight: weight, Impact: impact, Keywords: keywords}
			order = append(order, key)
			continue
		}
		if existing.Weight != weight || existing.Impact != impact {
			return nil, apperr.Config(source, rowNum, "category",
				fmt.Sprintf("%q repeated with a different weight or impact", name))
		}
		if existing.Class == "" {
			existing.Class = class
		}
		existing.Keywords = append(existing.Keywords, keywords...)
	}
	if len(order) == 0 {
		return nil, apperr.Config(source, 0, "", "no data rows")
	}

	categories := make([]Category, 0, len(order))
	for _, k := range order {
		categories = append(categories, *byKey[k])
	}
	return New(version, categories)
}

func parseWeight(s string) (int, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), "−", "-")
	if s == "" {
		return 0, errors.New("empty")
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	if err != nil {
		return 0, err
	}
	if f != float64(int(f)) {
		return 0, fmt.Errorf("%q is not a whole number", s)
	}
	return int(f), nil
}

func splitKeywords(s string) []string {
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == ';' || r == '|' || r == '\n' })
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func cell(r []string, idx int) string {
	if idx < 0 || idx >= len(r) {
		return ""
	}
	return strings.TrimSpace(r[idx])
}

func blankRow(r []string) bool {
	for _, c := range r {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func versionFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
