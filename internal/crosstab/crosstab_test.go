package crosstab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/supreme-chocomint/bandori-2019-stats/internal/mining"
	"github.com/supreme-chocomint/bandori-2019-stats/internal/survey"
)

const noResponse = "Prefer not to say"

func fixture() *survey.Table {
	return survey.NewTable([]string{"age", "gender", "bands"}, []survey.Row{
		{"age": "20-24", "gender": "Female", "bands": "Roselia, Afterglow"},
		{"age": "20-24", "gender": "Male", "bands": "Roselia"},
		{"age": "20-24", "gender": "Male"},
		{"age": "Under 13", "gender": "Male", "bands": "Poppin'Party"},
		{"age": noResponse, "gender": "Female", "bands": "Roselia"},
		{"gender": "Female", "bands": "Afterglow"},
	})
}

func TestGroupCounts(t *testing.T) {
	ct, err := GroupCounts(fixture(), "age", "bands", nil, noResponse)
	require.NoError(t, err)

	assert.Equal(t, []string{"20-24", "Under 13"}, ct.Rows)
	assert.Equal(t, []string{"Roselia", "Afterglow", "Poppin'Party"}, ct.Cols)
	assert.Equal(t, 2.0, ct.Count(0, 0))
	assert.Equal(t, 1.0, ct.Count(0, 1))
	assert.Equal(t, 0.0, ct.Count(0, 2))
	// two of the three 20-24 respondents answered the band question
	assert.InDelta(t, 1.0, ct.Value(0, 0), 1e-12)
	assert.InDelta(t, 0.5, ct.Value(0, 1), 1e-12)
	assert.InDelta(t, 1.0, ct.Value(1, 2), 1e-12)
}

func TestGroupCounts_Validation(t *testing.T) {
	_, err := GroupCounts(fixture(), "region", "bands", nil, noResponse)
	require.ErrorIs(t, err, mining.ErrInvalidArgument)

	empty, err := GroupCounts(fixture(), "age", "bands", []string{}, noResponse)
	require.NoError(t, err)
	assert.True(t, empty.Empty())
}

func TestCrosstabNormalization(t *testing.T) {
	tbl := fixture()
	counts, err := Crosstab(tbl, "age", "gender", noResponse, NormalizeNone)
	require.NoError(t, err)
	assert.Equal(t, []string{"20-24", "Under 13"}, counts.Rows)
	assert.Equal(t, []string{"Female", "Male"}, counts.Cols)
	assert.Equal(t, 1.0, counts.Value(0, 0))
	assert.Equal(t, 2.0, counts.Value(0, 1))

	rows, err := Crosstab(tbl, "age", "gender", noResponse, NormalizeRows)
	require.NoError(t, err)
	assert.InDelta(t, 1.0/3.0, rows.Value(0, 0), 1e-12)
	assert.InDelta(t, 1.0, rows.Value(1, 1), 1e-12)

	cols, err := Crosstab(tbl, "age", "gender", noResponse, NormalizeColumns)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, cols.Value(0, 0), 1e-12)
	assert.InDelta(t, 2.0/3.0, cols.Value(0, 1), 1e-12)

	all, err := Crosstab(tbl, "age", "gender", noResponse, NormalizeAll)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, all.Value(0, 1), 1e-12)

	_, err = ParseNormalize("index")
	require.ErrorIs(t, err, mining.ErrInvalidArgument)
}

func TestReorderAndTranspose(t *testing.T) {
	ct, err := Crosstab(fixture(), "age", "gender", noResponse, NormalizeNone)
	require.NoError(t, err)

	re := ct.Reorder([]string{"Under 13", "65+"})
	assert.Equal(t, []string{"Under 13", "20-24"}, re.Rows)
	assert.Equal(t, 1.0, re.Count(0, 1))
	assert.Equal(t, 2.0, re.Count(1, 1))
	assert.Equal(t, []string{"20-24", "Under 13"}, ct.Rows, "reorder copies")

	tr := ct.Transpose()
	assert.Equal(t, []string{"Female", "Male"}, tr.Rows)
	assert.Equal(t, 2.0, tr.Count(1, 0))
	r, c := tr.Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 2, c)
}
