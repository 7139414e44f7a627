package lexicon

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"interaction-quality-go/internal/apperr"
	"interaction-quality-go/internal/logger"
	"interaction-quality-go/internal/types"
)

func TestDefaultLexicon(t *testing.T) {
	lex := Default()
	require.NotNil(t, lex)
	assert.Equal(t, DefaultVersion, lex.Version())
	assert.Equal(t, 11, lex.Len())
	assert.Empty(t, lex.Advisories())

	names := map[string]Category{}
	for _, c := range lex.Categories() {
		names[c.Name] = c
		assert.NotEmpty(t, c.Phrases(), c.Name)
		assert.NotEmpty(t, c.Class, c.Name)
	}
	require.Contains(t, names, "Atendimento Inadequado")
	require.Contains(t, names, "Escalação de Conflito")
	assert.Equal(t, -20, names["Escalação de Conflito"].Weight)
	assert.Equal(t, ClassRudeness, names["Atendimento Inadequado"].Class)
}

func TestNewRejectsMalformedCategories(t *testing.T) {
	cases := []struct {
		name string
		cats []Category
	}{
		{"missing name", []Category{{Weight: 1, Impact: types.ImpactPositive, Keywords: []string{"a"}}}},
		{"bad impact", []Category{{Name: "x", Weight: 1, Impact: "great", Keywords: []string{"a"}}}},
		{"no keywords", []Category{{Name: "x", Weight: 1, Impact: types.ImpactPositive}}},
		{"keywords normalize to nothing", []Category{{Name: "x", Weight: 1, Impact: types.ImpactPositive, Keywords: []string{"!!", "  "}}}},
		{"duplicate", []Category{
			{Name: "x", Weight: 1, Impact: types.ImpactPositive, Keywords: []string{"a"}},
			{Name: "X", Weight: 1, Impact: types.ImpactPositive, Keywords: []string{"b"}},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New("t", tc.cats)
			require.Error(t, err)
			assert.True(t, apperr.IsConfig(err))
		})
	}
}

func TestAdvisoriesAreNotErrors(t *testing.T) {
	lex, err := New("t", []Category{
		{Name: "odd positive", Weight: -3, Impact: types.ImpactPositive, Keywords: []string{"legal"}},
		{Name: "odd negative", Weight: 4, Impact: types.ImpactNegative, Keywords: []string{"ruim"}},
		{Name: "heavy neutral", Weight: 7, Impact: types.ImpactNeutral, Keywords: []string{"talvez"}},
		{Name: "fine", Weight: 5, Impact: types.ImpactPositive, Keywords: []string{"bom"}},
	})
	require.NoError(t, err)
	assert.Len(t, lex.Advisories(), 3)
	assert.Equal(t, 4, lex.Len())
}

func TestNewCanonicalizesImpactLabels(t *testing.T) {
	lex, err := New("t", []Category{
		{Name: "Ruim", Weight: 5, Impact: "negativo", Keywords: []string{"ruim"}},
		{Name: "Bom", Weight: 4, Impact: " Positivo ", Keywords: []string{"bom"}},
		{Name: "Talvez", Weight: 1, Impact: "NEUTRO", Keywords: []string{"talvez"}},
	})
	require.NoError(t, err)
	cats := lex.Categories()
	assert.Equal(t, types.ImpactNegative, cats[0].Impact)
	assert.Equal(t, types.ImpactPositive, cats[1].Impact)
	assert.Equal(t, types.ImpactNeutral, cats[2].Impact)
	assert.Equal(t, []string{"Ruim: negative impact with weight 5"}, lex.Advisories())
}

func TestReadCSV(t *testing.T) {
	src := strings.Join([]string{
		"categoria,peso,impacto,palavras,classe",
		`Cortesia,8,positivo,"obrigado; por favor",courtesy`,
		"Escalação,-20,negative,supervisor|gerente,escalation",
		"",
		"Cortesia,8,positive,bom dia,",
	}, "\n")
	lex, err := readCSV("expressions.csv", strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, "expressions", lex.Version())
	require.Equal(t, 2, lex.Len())

	courtesy := lex.Categories()[0]
	assert.Equal(t, "Cortesia", courtesy.Name)
	assert.Equal(t, types.ImpactPositive, courtesy.Impact)
	assert.Equal(t, []string{"obrigado", "por favor", "bom dia"}, courtesy.Keywords)
	assert.Equal(t, "courtesy", courtesy.Class)

	esc := lex.Categories()[1]
	assert.Equal(t, -20, esc.Weight)
	assert.Equal(t, []string{"supervisor", "gerente"}, esc.Keywords)
}

func TestReadCSVFailsFast(t *testing.T) {
	cases := []struct {
		name  string
		body  string
		field string
		row   int
	}{
		{"missing impact column", "category,weight,keywords\nA,1,x", "impact", 1},
		{"missing category", "category,weight,impact,keywords\n,1,positive,x", "category", 2},
		{"missing impact", "category,weight,impact,keywords\nA,1,,x", "impact", 2},
		{"unknown impact", "category,weight,impact,keywords\nA,1,meh,x", "impact", 2},
		{"bad weight", "category,weight,impact,keywords\nA,abc,positive,x", "weight", 2},
		{"fractional weight", "category,weight,impact,keywords\nA,1.5,positive,x", "weight", 2},
		{"no keywords", "category,weight,impact,keywords\nA,1,positive, ; ", "keywords", 2},
		{"conflicting repeat", "category,weight,impact,keywords\nA,1,positive,x\nA,2,positive,y", "category", 3},
		{"header only", "category,weight,impact,keywords", "", 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := readCSV("lex.csv", strings.NewReader(tc.body))
			require.Error(t, err)
			var ce *apperr.ConfigError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tc.field, ce.Field)
			assert.Equal(t, tc.row, ce.Row)
		})
	}
}

func TestParseWeight(t *testing.T) {
	for in, want := range map[string]int{"10": 10, " -15 ": -15, "−7": -7, "8.0": 8, "-12,0": -12} {
		got, err := parseWeight(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestParseYAML(t *testing.T) {
	doc := `
version: "2025.02"
categories:
  - name: Elogio
    class: excellence
    weight: 10
    impact: positive
    keywords: [excelente, "muito bom"]
  - name: Ofensa
    weight: -15
    impact: negativo
    keywords: [péssimo]
`
	lex, err := parseYAML("lexicon.yaml", []byte(doc))
	require.NoError(t, err)
	assert.Equal(t, "2025.02", lex.Version())
	require.Equal(t, 2, lex.Len())
	assert.Equal(t, types.ImpactNegative, lex.Categories()[1].Impact)

	_, err = parseYAML("lexicon.yaml", []byte("categories:\n  - name: A\n    weight: 1\n    keywords: [x]\n"))
	require.Error(t, err)
	assert.True(t, apperr.IsConfig(err))

	_, err = parseYAML("lexicon.yaml", []byte("version: x\n"))
	assert.True(t, apperr.IsConfig(err))
}

func TestLoadXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lexicon.xlsx")
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"Category", "Weight", "Impact", "Keywords", "Class"},
		{"Atendimento Inadequado", -12, "negative", "grosso; grosseiro", "rudeness"},
		{"Excelência", 10, "positive", "excelente", "excellence"},
	}
	for i, r := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cellRef, &r))
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	var buf bytes.Buffer
	lex, err := Load(path, logger.NewWith("test", "info", &buf))
	require.NoError(t, err)
	assert.Equal(t, "lexicon", lex.Version())
	assert.Contains(t, buf.String(), `"msg":"lexicon loaded"`)
	require.Equal(t, 2, lex.Len())
	assert.Equal(t, -12, lex.Categories()[0].Weight)
	assert.Equal(t, []string{"grosso", "grosseiro"}, lex.Categories()[0].Keywords)
}

func TestLoadRejectsUnknownFormatAndMissingFile(t *testing.T) {
	_, err := Load("lexicon.txt", nil)
	assert.True(t, apperr.IsConfig(err))

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	require.Error(t, err)
	assert.True(t, apperr.IsConfig(err))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
