package survey

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var surveyRows = []string{
	"Where are you from?\tWhat is your gender?\tWhat is your gender?\tWho are your favorite girls? (You may choose up to 5)",
	"Europe\tx\tFemale\tMinato Yukina (Roselia - Vocals), Imai Lisa (Roselia - Bass)",
	"North Asia and Central Asia\tx\tMale\tAoba Moca (Afterglow - Lead Guitar)",
	"Oceania\tx\tPrefer not to say\t",
	"\tx\tMale\tImai Lisa (Roselia - Bass)",
}

func writeTSV(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "responses.tsv")
	require.NoError(t, os.WriteFile(p, []byte(strings.Join(surveyRows, "\n")), 0o644))
	return p
}

func TestLoadTSV_MangledHeadersAndMissing(t *testing.T) {
	tbl, err := Load(writeTSV(t), LoadOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Where are you from?",
		"What is your gender?",
		"What is your gender?.1",
		"Who are your favorite girls? (You may choose up to 5)",
	}, tbl.Columns())
	require.Equal(t, 4, tbl.Len())

	_, ok := tbl.Value(2, "Who are your favorite girls? (You may choose up to 5)")
	assert.False(t, ok, "empty cell should be missing")
	_, ok = tbl.Value(3, "Where are you from?")
	assert.False(t, ok)

	g, ok := tbl.Value(0, "What is your gender?.1")
	require.True(t, ok)
	assert.Equal(t, "Female", g)
}

func TestLoad_Unsupported(t *testing.T) {
	_, err := Load("answers.json", LoadOptions{})
	require.ErrorIs(t, err, ErrUnsupported)
}

func TestLoadXLSX_SheetSelection(t *testing.T) {
	p := filepath.Join(t.TempDir(), "responses.xlsx")
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", "Responses"))
	require.NoError(t, f.SetSheetRow("Responses", "A1", &[]any{"Where are you from?", "How old are you?"}))
	require.NoError(t, f.SetSheetRow("Responses", "A2", &[]any{"Europe", "20-24"}))
	require.NoError(t, f.SetSheetRow("Responses", "A3", &[]any{"Oceania", "Under 13"}))
	require.NoError(t, f.SaveAs(p))
	require.NoError(t, f.Close())

	tbl, err := Load(p, LoadOptions{SheetName: "responses"})
	require.NoError(t, err)
	require.Equal(t, 2, tbl.Len())
	v, _ := tbl.Value(1, "How old are you?")
	assert.Equal(t, "Under 13", v)

	_, err = Load(p, LoadOptions{SheetName: "missing"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Available sheets: Responses")
}

func TestTableFiltersArePure(t *testing.T) {
	tbl, err := Load(writeTSV(t), LoadOptions{})
	require.NoError(t, err)

	gender := "What is your gender?.1"
	valid := tbl.FilterInvalid(gender, "Prefer not to say")
	assert.Equal(t, 3, valid.Len())
	assert.Equal(t, 4, tbl.Len(), "source table must not change")

	assert.Equal(t, []string{"Female", "Male"}, valid.Unique(gender))

	roselia := tbl.FilterContains("Who are your favorite girls? (You may choose up to 5)", "Roselia")
	assert.Equal(t, 2, roselia.Len())

	kept := tbl.FilterIn("Where are you from?", []string{"Europe", "Oceania"})
	assert.Equal(t, 2, kept.Len())
}

func TestSchemaPrepareAndRegionFilter(t *testing.T) {
	s := DefaultSchema()
	tbl, err := Load(writeTSV(t), LoadOptions{})
	require.NoError(t, err)

	prepared := s.Prepare(tbl)
	assert.Equal(t, []string{
		s.Questions.Region, s.Questions.Gender, s.Questions.Characters,
	}, prepared.Columns())
	assert.Equal(t, []string{"Europe", "North/Central Asia", "Oceania"}, prepared.Unique(s.Questions.Region))

	core := s.FilterRegion(prepared, false)
	assert.Equal(t, []string{"Europe", "Oceania"}, core.Unique(s.Questions.Region))
	all := s.FilterRegion(prepared, true)
	assert.Equal(t, 3, all.Len())
}

func TestSchemaAgeOrder(t *testing.T) {
	s := DefaultSchema()
	got := s.AgeOrder([]string{"20-24", "Under 13", "14-19", "25-29"})
	assert.Equal(t, []string{"Under 13", "14-19", "20-24", "25-29"}, got)
}

func TestLoadSchema_RequiresSentinel(t *testing.T) {
	p := filepath.Join(t.TempDir(), "schema.yaml")
	require.NoError(t, os.WriteFile(p, []byte("questions:\n  region: Where?\n"), 0o644))
	_, err := LoadSchema(p)
	require.Error(t, err)
}

func TestSplitAnswers(t *testing.T) {
	got := SplitAnswers("Europe (includes Russia), North America [NA] (includes Mexico, Central America, Caribbean)")
	assert.Equal(t, []string{"Europe", "North America [NA]"}, got)
	assert.Nil(t, SplitAnswers("  "))
}

func TestProfileMarkdown(t *testing.T) {
	tbl, err := Load(writeTSV(t), LoadOptions{})
	require.NoError(t, err)

	rep := Profile("responses.tsv", tbl, DefaultProfileOptions())
	md := rep.Markdown()
	assert.Contains(t, md, "[SURVEY SUMMARY]")
	assert.Contains(t, md, "Respondents: 4")
	assert.Contains(t, md, "What is your gender?.1: answered 3, missing 0, no response 1")
	assert.Contains(t, md, "Imai Lisa(2)")
}
