package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skufu/medplat/internal/analytics"
	"github.com/Skufu/medplat/internal/dataset"
)

func wardRows() []dataset.Row {
	return []dataset.Row{
		dataset.NewRow("_id", "1", "ward", "B", "admissions", "10", "average_age", "61"),
		dataset.NewRow("_id", "2", "ward", "A", "admissions", "7", "average_age", "58"),
		dataset.NewRow("_id", "3", "ward", "B", "admissions", 5.0, "average_age", "70"),
		dataset.NewRow("_id", "4", "ward", "", "admissions", "3", "average_age", ""),
	}
}

func TestParse(t *testing.T) {
	fields := dataset.Infer(wardRows())

	cases := []struct {
		query string
		want  Intent
	}{
		{"what fields do we have?", Intent{Kind: KindListFields}},
		{"Show COLUMNS and total admissions", Intent{Kind: KindListFields}},
		{"total admissions", Intent{Kind: KindAggregate, Field: "admissions", Op: analytics.OpSum}},
		{"mean admissions", Intent{Kind: KindAggregate, Field: "admissions", Op: analytics.OpAvg}},
		{"MAXIMUM admissions", Intent{Kind: KindAggregate, Field: "admissions", Op: analytics.OpMax}},
		{"min average_age", Intent{Kind: KindAggregate, Field: "average_age", Op: analytics.OpMin}},
		{"admissions please", Intent{Kind: KindAggregate, Field: "admissions", Op: analytics.OpSum}},
		{"sum", Intent{Kind: KindAggregate, Field: "admissions", Op: analytics.OpSum}},
		{"total admissions by ward", Intent{Kind: KindGroupedAggregate, Field: "admissions", Op: analytics.OpSum, GroupBy: "ward"}},
		{"average by wards", Intent{Kind: KindGroupedAggregate, Field: "admissions", Op: analytics.OpAvg, GroupBy: "ward"}},
		{"hello there", Intent{Kind: KindUnrecognized}},
	}
	for _, tc := range cases {
		t.Run(tc.query, func(t *testing.T) {
			assert.Equal(t, tc.want, Parse(tc.query, fields))
		})
	}
}

func TestParse_NoFallbackWithoutVerb(t *testing.T) {
	fields := dataset.Infer([]dataset.Row{dataset.NewRow("ward", "A", "count", "1")})
	assert.Equal(t, KindUnrecognized, Parse("how are things", fields).Kind)
}

func TestExecute_TotalContainsSum(t *testing.T) {
	rows := wardRows()
	fields := dataset.Infer(rows)

	res, err := Run("total admissions", rows, fields)
	require.NoError(t, err)

	assert.Contains(t, res.Reply, "25")
	require.NotNil(t, res.Value)
	assert.Equal(t, 25.0, *res.Value)
	require.NotNil(t, res.ChartData)
}

func TestExecute_Grouped(t *testing.T) {
	rows := wardRows()
	fields := dataset.Infer(rows)

	res, err := Run("total admissions by ward", rows, fields)
	require.NoError(t, err)

	assert.Equal(t, []analytics.Group{
		{Label: "B", Value: 15},
		{Label: "A", Value: 7},
		{Label: "N/A", Value: 3},
	}, res.Groups)
	assert.Equal(t, []string{"B", "A", "N/A"}, res.ChartData.Labels)
	assert.Contains(t, res.Reply, "B: 15")
}

func TestExecute_ListFieldsDoesNotAggregate(t *testing.T) {
	fields := dataset.Infer(wardRows())

	// rows are irrelevant for a field listing
	res, err := Run("fields", nil, fields)
	require.NoError(t, err)

	assert.Nil(t, res.ChartData)
	assert.Nil(t, res.Value)
	require.NotNil(t, res.Fields)
	assert.Equal(t, []string{"ward", "admissions", "average_age"}, res.Fields.All)
	assert.Contains(t, res.Reply, "ward, admissions, average_age")
}

func TestExecute_NoNumericData(t *testing.T) {
	fields := dataset.FieldSet{All: []string{"score"}, Numeric: []string{"score"}, Categorical: []string{}}
	rows := []dataset.Row{dataset.NewRow("score", "n/a")}

	res, err := Execute(Intent{Kind: KindAggregate, Field: "score", Op: analytics.OpAvg}, rows, fields)
	require.NoError(t, err)
	assert.Contains(t, res.Reply, "no numeric data")
	assert.Nil(t, res.Value)
	assert.Nil(t, res.ChartData)
}

func TestExecute_Unrecognized(t *testing.T) {
	rows := wardRows()
	fields := dataset.Infer(rows)

	res, err := Run("good morning", rows, fields)
	require.NoError(t, err)
	assert.Equal(t, KindUnrecognized, res.Intent.Kind)
	assert.Contains(t, res.Reply, "ward, admissions, average_age")
	assert.Nil(t, res.ChartData)
}

func TestExecute_Idempotent(t *testing.T) {
	rows := wardRows()
	fields := dataset.Infer(rows)

	first, err := Run("average admissions by ward", rows, fields)
	require.NoError(t, err)
	second, err := Run("average admissions by ward", rows, fields)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
