package rules

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/supreme-chocomint/bandori-2019-stats/internal/mining"
)

func scenarioItemsets(t *testing.T) []mining.Itemset {
	t.Helper()
	txs := []mining.Transaction{
		mining.NewTransaction("A", "B"),
		mining.NewTransaction("A", "B"),
		mining.NewTransaction("A"),
		mining.NewTransaction("B", "C"),
	}
	sets, err := mining.FPGrowth(mining.Encode(txs), 0.25)
	require.NoError(t, err)
	return sets
}

func randomRules(t *testing.T, seed int64) Table {
	t.Helper()
	r := rand.New(rand.NewSource(seed))
	names := []string{"Kasumi", "Tae", "Rimi", "Saaya", "Arisa", "Yukina", "Sayo", "Lisa", "Ako", "Rinko"}
	txs := make([]mining.Transaction, 300)
	for i := range txs {
		var tx mining.Transaction
		for j, n := range names {
			if r.Float64() < 0.6/float64(j+1)+0.05 {
				tx.Add(n)
			}
		}
		txs[i] = tx
	}
	sets, err := mining.FPGrowth(mining.Encode(txs), 0.02)
	require.NoError(t, err)
	tbl, err := Generate(sets, MetricConfidence, 0)
	require.NoError(t, err)
	require.NotEmpty(t, tbl)
	return tbl
}

func TestGenerate_Scenario(t *testing.T) {
	tbl, err := Generate(scenarioItemsets(t), MetricConfidence, 0)
	require.NoError(t, err)

	var got []string
	for _, r := range tbl {
		got = append(got, r.Antecedents.String()+"->"+r.Consequents.String())
	}
	assert.Equal(t, []string{"{A}->{B}", "{B}->{A}", "{B}->{C}", "{C}->{B}"}, got)

	ab := tbl[0]
	assert.InDelta(t, 0.5, ab.Support, 1e-12)
	assert.InDelta(t, 2.0/3.0, ab.Confidence, 1e-12)
	assert.InDelta(t, 0.889, ab.Lift, 1e-3)
	assert.InDelta(t, 0.5-0.75*0.75, ab.Leverage, 1e-12)
	assert.InDelta(t, 0.25/(1.0/3.0), ab.Conviction, 1e-12)

	cb := tbl[3]
	assert.Equal(t, 1.0, cb.Confidence)
	assert.True(t, math.IsInf(cb.Conviction, 1))
}

func TestGenerate_ThresholdAndErrors(t *testing.T) {
	sets := scenarioItemsets(t)
	tbl, err := Generate(sets, MetricLift, 1.0)
	require.NoError(t, err)
	require.Len(t, tbl, 2)
	for _, r := range tbl {
		assert.GreaterOrEqual(t, r.Lift, 1.0)
	}

	_, err = Generate(sets, "certainty", 0.5)
	require.ErrorIs(t, err, mining.ErrInvalidArgument)

	empty, err := Generate(mining.FilterItemsets(sets, false)[:2], MetricConfidence, 0)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestGenerate_MetricIdentities(t *testing.T) {
	tbl := randomRules(t, 3)
	for _, r := range tbl {
		assert.InDelta(t, r.Support/r.AntecedentSupport, r.Confidence, 1e-9)
		assert.InDelta(t, r.Confidence/r.ConsequentSupport, r.Lift, 1e-9)
		assert.Equal(t, r.AntecedentLen()+r.ConsequentLen(), r.Len())
		for _, a := range r.Antecedents {
			assert.NotContains(t, r.Consequents, a)
		}
	}
}

func TestOrganize_BoundsAndOriginalUntouched(t *testing.T) {
	tbl := randomRules(t, 5)
	rs := New(tbl)
	opt := DefaultOrganizeOptions()
	opt.MaxAntecedents = 1
	opt.MaxRuleLength = 3
	opt.SortBy = []string{ColAntecedentLen, ColLift}
	opt.SortAscending = []bool{true, false}
	require.NoError(t, rs.Organize(opt))

	org, ok := rs.Organized()
	require.True(t, ok)
	require.NotEmpty(t, org)
	for i, r := range org {
		assert.Equal(t, 1, r.AntecedentLen())
		assert.LessOrEqual(t, r.Len(), 3)
		if i > 0 {
			assert.GreaterOrEqual(t, org[i-1].Lift, r.Lift)
		}
	}
	assert.Equal(t, tbl, rs.Table())

	found, err := rs.Search([]string{"Kasumi", "Lisa"}, LocationAll, true)
	require.NoError(t, err)
	for _, r := range found {
		assert.Equal(t, 1, r.AntecedentLen())
		assert.LessOrEqual(t, r.Len(), 3)
	}
}

func TestOrganize_Idempotent(t *testing.T) {
	rs := New(randomRules(t, 9))
	opt := DefaultOrganizeOptions()
	opt.MaxConsequents = 2
	opt.SortBy = []string{ColLift}
	opt.SortAscending = []bool{false}

	require.NoError(t, rs.Organize(opt))
	first, _ := rs.Organized()
	require.NoError(t, rs.Organize(opt))
	second, _ := rs.Organized()
	assert.Equal(t, first, second)
}

func TestOrganize_InvalidSortKeepsState(t *testing.T) {
	rs := New(randomRules(t, 1))
	err := rs.Organize(OrganizeOptions{SortBy: []string{ColLift, ColSupport}, SortAscending: []bool{false}})
	require.ErrorIs(t, err, mining.ErrInvalidArgument)
	err = rs.Organize(OrganizeOptions{SortBy: []string{"zhang"}, SortAscending: []bool{false}})
	require.ErrorIs(t, err, mining.ErrInvalidArgument)

	_, ok := rs.Organized()
	assert.False(t, ok)
	by, asc := rs.SortKeys()
	assert.Equal(t, []string{ColLift}, by)
	assert.Equal(t, []bool{false}, asc)
}

func TestOrganize_DefaultSortIsConfidence(t *testing.T) {
	rs := New(randomRules(t, 2))
	require.NoError(t, rs.Organize(DefaultOrganizeOptions()))
	org, _ := rs.Organized()
	for i := 1; i < len(org); i++ {
		assert.GreaterOrEqual(t, org[i-1].Confidence, org[i].Confidence)
	}
	by, _ := rs.SortKeys()
	assert.Equal(t, []string{ColConfidence}, by)
}

func key(r Rule) string { return r.Antecedents.String() + "->" + r.Consequents.String() }

func TestSearch_UnionOfTerms(t *testing.T) {
	rs := New(randomRules(t, 4))
	a, err := rs.Search([]string{"Kasumi"}, LocationAll, true)
	require.NoError(t, err)
	b, err := rs.Search([]string{"Ako"}, LocationAll, true)
	require.NoError(t, err)
	both, err := rs.Search([]string{"Kasumi", "Ako"}, LocationAll, true)
	require.NoError(t, err)

	union := map[string]struct{}{}
	for _, r := range append(a.Clone(), b...) {
		union[key(r)] = struct{}{}
	}
	assert.Len(t, both, len(union))
	for _, r := range both {
		_, ok := union[key(r)]
		assert.True(t, ok)
	}
	for i := 1; i < len(both); i++ {
		assert.GreaterOrEqual(t, both[i-1].Lift, both[i].Lift)
	}
}

func TestSearch_Locations(t *testing.T) {
	rs := New(randomRules(t, 6))
	ante, err := rs.Search([]string{"Tae"}, LocationAntecedents, false)
	require.NoError(t, err)
	require.NotEmpty(t, ante)
	for _, r := range ante {
		assert.Contains(t, r.Antecedents.String(), "Tae")
	}
	cons, err := rs.Search([]string{"Tae"}, LocationConsequents, false)
	require.NoError(t, err)
	for _, r := range cons {
		assert.Contains(t, r.Consequents.String(), "Tae")
	}

	_, err = rs.Search([]string{"Tae"}, Location("both"), false)
	require.ErrorIs(t, err, mining.ErrInvalidArgument)

	none, err := rs.Search(nil, LocationAll, false)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSearch_ChainedIsIntersection(t *testing.T) {
	rs := New(randomRules(t, 8))
	first, err := rs.Search([]string{"Kasumi"}, LocationAntecedents, false)
	require.NoError(t, err)
	second, err := rs.Derive(first).Search([]string{"Tae"}, LocationConsequents, false)
	require.NoError(t, err)
	for _, r := range second {
		assert.True(t, strings.Contains(r.Antecedents.String(), "Kasumi") &&
			strings.Contains(r.Consequents.String(), "Tae"), key(r))
	}
}

func TestRuleRecord(t *testing.T) {
	r := newRule(Items{"A"}, Items{"B", "C"}, 0.25, 0.5, 0.5)
	rec := r.Record()
	require.Len(t, rec, len(Columns))
	assert.Equal(t, "{A}", rec[0])
	assert.Equal(t, "{B, C}", rec[1])
	assert.Equal(t, "0.5", rec[5])
	assert.Equal(t, "3", rec[len(rec)-1])
	assert.Equal(t, fmt.Sprint(1.0), r.Field(ColLift))
}
