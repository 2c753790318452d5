package miner

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/supreme-chocomint/bandori-2019-stats/internal/mining"
	"github.com/supreme-chocomint/bandori-2019-stats/internal/rules"
	"github.com/supreme-chocomint/bandori-2019-stats/internal/survey"
)

const (
	kasumi = "Toyama Kasumi (Poppin'Party - Vocals/Guitar)"
	yukina = "Minato Yukina (Roselia - Vocals)"
	lisa   = "Imai Lisa (Roselia - Bass)"
	moca   = "Aoba Moca (Afterglow - Lead Guitar)"
)

func fixture(t *testing.T) (*survey.Table, *survey.Schema) {
	t.Helper()
	s := survey.DefaultSchema()
	q := s.Questions
	cols := []string{q.Region, q.Gender, q.Age, q.BandsChara, q.Characters, q.CharacterReasons}
	groups := []struct {
		n                                     int
		region, gender, age, bands, chars, why string
	}{
		{10, "Europe", "Female", "20-24", "Roselia", yukina + ", " + lisa, "Singing, Personality"},
		{10, "North America", "Male", "14-19", "Poppin'Party", kasumi, "Personality"},
		{5, "Oceania", "Male", "20-24", "Afterglow, Roselia", moca + ", " + lisa, "Appearance"},
		{3, "Africa", s.NoResponse, s.NoResponse, "Roselia", lisa, "Voice acting"},
	}
	var rows []survey.Row
	for _, g := range groups {
		for i := 0; i < g.n; i++ {
			rows = append(rows, survey.Row{
				q.Region: g.region, q.Gender: g.gender, q.Age: g.age,
				q.BandsChara: g.bands, q.Characters: g.chars, q.CharacterReasons: g.why,
			})
		}
	}
	return survey.NewTable(cols, rows), s
}

func TestRecipesRegistered(t *testing.T) {
	var names []string
	for _, r := range Recipes() {
		names = append(names, r.Name)
		assert.NotEmpty(t, r.Description)
	}
	assert.Equal(t, []string{
		"age-favorite-characters",
		"character-overview",
		"character-reasons",
		"character-reasons-by-character",
		"character-reasons-by-reason",
		"favorite-band-members",
		"favorite-characters",
		"gender-favorite-bands",
		"gender-favorite-characters",
		"region-favorite-characters",
	}, names)

	_, err := Lookup("favourite-everything")
	require.ErrorIs(t, err, mining.ErrInvalidArgument)
}

func TestMine_DefaultOptions(t *testing.T) {
	tbl, s := fixture(t)
	m := New(tbl, s, DefaultOptions())
	rs, err := m.Run("favorite-characters")
	require.NoError(t, err)

	org, ok := rs.Organized()
	require.True(t, ok)
	require.Len(t, org, 3, "Lisa->Moca falls under 30% confidence")
	for _, r := range org {
		assert.Equal(t, 1, r.AntecedentLen())
		assert.GreaterOrEqual(t, r.Confidence, 0.3)
	}
	assert.Equal(t, 28, m.Table().Len(), "mining does not change the table")
}

func TestRun_NoResponseExcluded(t *testing.T) {
	tbl, s := fixture(t)
	m := New(tbl, s, DefaultOptions())
	sets, err := m.RunItemsets("gender-favorite-characters", false)
	require.NoError(t, err)

	for _, it := range sets {
		assert.NotContains(t, it.Items, s.NoResponse)
		if len(it.Items) == 1 && it.Items[0] == lisa {
			assert.InDelta(t, 15.0/25.0, it.Support, 1e-12)
		}
	}
}

func TestRun_DemographicConsequents(t *testing.T) {
	tbl, s := fixture(t)
	m := New(tbl, s, DefaultOptions())

	cases := map[string][]string{
		"age-favorite-characters":    {"20-24", "14-19"},
		"gender-favorite-characters": {"Female", "Male"},
		"region-favorite-characters": {"Europe", "North America", "Oceania"},
		"gender-favorite-bands":      {"Female", "Male"},
	}
	for name, values := range cases {
		rs, err := m.Run(name)
		require.NoError(t, err, name)
		found := rs.Table()
		require.NotEmpty(t, found, name)
		for _, r := range found {
			cons := r.Consequents.String()
			hit := false
			for _, v := range values {
				hit = hit || strings.Contains(cons, v)
			}
			assert.True(t, hit, "%s: %s", name, cons)
			assert.NotContains(t, cons, "Africa")
		}
	}
}

func TestRun_CharacterReasons(t *testing.T) {
	tbl, s := fixture(t)
	m := New(tbl, s, DefaultOptions())

	rs, err := m.Run("character-reasons-by-reason")
	require.NoError(t, err)
	for _, r := range rs.Table() {
		ante := r.Antecedents.String()
		hit := false
		for _, why := range s.Vocabularies.CharacterReasons {
			hit = hit || strings.Contains(ante, why)
		}
		assert.True(t, hit, ante)
	}

	byChar, err := m.Run("character-reasons-by-character")
	require.NoError(t, err)
	require.NotEmpty(t, byChar.Table())
	for _, r := range byChar.Table() {
		assert.Contains(t, r.Antecedents.String(), "(")
	}
}

func TestRun_CharacterOverview(t *testing.T) {
	tbl, s := fixture(t)
	rs, err := New(tbl, s, DefaultOptions()).Run("character-overview")
	require.NoError(t, err)

	org, ok := rs.Organized()
	require.True(t, ok)
	require.NotEmpty(t, org)
	for i, r := range org {
		assert.LessOrEqual(t, r.ConsequentLen(), 2)
		assert.GreaterOrEqual(t, r.Confidence, 0.1)
		if i > 0 {
			assert.LessOrEqual(t, org[i-1].AntecedentLen(), r.AntecedentLen())
		}
	}
	by, asc := rs.SortKeys()
	assert.Equal(t, []string{rules.ColAntecedentLen, rules.ColLift}, by)
	assert.Equal(t, []bool{true, false}, asc)
}

func TestRun_AprioriAgreesWithFPGrowth(t *testing.T) {
	tbl, s := fixture(t)
	opt := DefaultOptions()
	opt.Algorithm = mining.AlgorithmApriori

	ap, err := New(tbl, s, opt).RunItemsets("character-reasons", true)
	require.NoError(t, err)
	fp, err := New(tbl, s, DefaultOptions()).RunItemsets("character-reasons", true)
	require.NoError(t, err)
	require.NotEmpty(t, fp)
	assert.Equal(t, fp, ap)
}

func TestRun_MissingColumnIsInvalidArgument(t *testing.T) {
	tbl, s := fixture(t)
	_, err := New(tbl, s, DefaultOptions()).Run("favorite-band-members")
	require.ErrorIs(t, err, mining.ErrInvalidArgument)
}

func TestMiner_LogsDebug(t *testing.T) {
	tbl, s := fixture(t)
	var buf bytes.Buffer
	opt := DefaultOptions()
	opt.Logger = slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	_, err := New(tbl, s, opt).Run("favorite-characters")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "itemsets mined")
	assert.Contains(t, buf.String(), "transactions=28")
	assert.Contains(t, buf.String(), "recipe=favorite-characters")
}
