package dataset

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRow_JSONKeepsFieldOrder(t *testing.T) {
	var r Row
	require.NoError(t, json.Unmarshal([]byte(`{"ward":"A","admissions":"12","date":"2024-01-02","beds":null}`), &r))

	assert.Equal(t, []string{"ward", "admissions", "date", "beds"}, r.Keys())

	out, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Equal(t, `{"ward":"A","admissions":"12","date":"2024-01-02","beds":null}`, string(out))
}

func TestRow_UnmarshalRejectsNonObject(t *testing.T) {
	var r Row
	err := json.Unmarshal([]byte(`[1,2]`), &r)
	assert.ErrorIs(t, err, ErrNotObject)
}

func TestRow_SetKeepsPosition(t *testing.T) {
	r := NewRow("a", 1, "b", 2)
	r.Set("a", 3)
	r.Prepend("_id", "7")

	assert.Equal(t, []string{"_id", "a", "b"}, r.Keys())
	v, ok := r.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 3, v)
}

func TestNumber(t *testing.T) {
	cases := []struct {
		in   any
		want float64
		ok   bool
	}{
		{"12", 12, true},
		{" 2.5 ", 2.5, true},
		{"1e3", 1000, true},
		{float64(4), 4, true},
		{7, 7, true},
		{true, 1, true},
		{json.Number("3"), 3, true},
		{"", 0, false},
		{"   ", 0, false},
		{nil, 0, false},
		{"abc", 0, false},
		{"NaN", 0, false},
		{"Inf", 0, false},
		{math.NaN(), 0, false},
		{map[string]any{}, 0, false},
	}
	for _, tc := range cases {
		got, ok := Number(tc.in)
		assert.Equal(t, tc.ok, ok, "input %#v", tc.in)
		if tc.ok {
			assert.Equal(t, tc.want, got, "input %#v", tc.in)
		}
	}
}

func TestParseCell(t *testing.T) {
	assert.Equal(t, 10.5, ParseCell("10.5"))
	assert.Equal(t, "2024-01-01", ParseCell("2024-01-01"))
	assert.Equal(t, "", ParseCell(" "))
}

func TestParseDate(t *testing.T) {
	for _, s := range []string{"2024-01-15", "2024-01-15T10:00:00Z", "2024-01-15 10:00:00", "01/15/2024", "Jan-2024", "Jan 15, 2024", "2024-01"} {
		_, ok := ParseDate(s)
		assert.True(t, ok, s)
	}
	for _, v := range []any{"2024", "ward A", "", 20240115.0, nil} {
		_, ok := ParseDate(v)
		assert.False(t, ok, "%#v", v)
	}

	d, _ := ParseDate("2024-03-05")
	assert.Equal(t, "2024-03-05", FormatDate(d))
	d, _ = ParseDate("2024-03-05 08:30:00")
	assert.Equal(t, "2024-03-05 08:30:00", FormatDate(d))
}

func TestDateField(t *testing.T) {
	assert.Equal(t, "date", DateField([]string{"ward", "admit_date", "date"}))
	assert.Equal(t, "ds", DateField([]string{"ds", "y"}))
	assert.Equal(t, "admit_date", DateField([]string{"ward", "admit_date"}))
	assert.Equal(t, "", DateField([]string{"ward", "count"}))
}

func TestInfer(t *testing.T) {
	rows := []Row{
		NewRow("_id", "1", "ward", "A", "admissions", "", "notes", nil),
		NewRow("_id", "2", "ward", "B", "admissions", "4", "notes", "stable"),
		NewRow("_id", "3", "ward", "C", "beds", 12.0),
	}

	fs := Infer(rows)

	assert.Equal(t, []string{"ward", "admissions", "notes", "beds"}, fs.All)
	assert.Equal(t, []string{"admissions", "beds"}, fs.Numeric)
	assert.Equal(t, []string{"ward", "notes"}, fs.Categorical)
	assert.True(t, fs.IsNumeric("beds"))
	assert.False(t, fs.Has("_id"))
}

func TestInfer_Empty(t *testing.T) {
	fs := Infer(nil)
	assert.Empty(t, fs.All)
	assert.NotNil(t, fs.Numeric)
}

func TestSampleAndValues(t *testing.T) {
	rows := []Row{
		NewRow("x", "1"),
		NewRow("x", "two"),
		NewRow("x", 3.0),
	}
	assert.Len(t, Sample(rows, 2), 2)
	assert.Len(t, Sample(rows, 0), 3)
	assert.Equal(t, []float64{1, 3}, Values(rows, "x"))
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "N/A", Label("", "N/A"))
	assert.Equal(t, "N/A", Label(nil, "N/A"))
	assert.Equal(t, "A", Label("A", "N/A"))
	assert.Equal(t, "3", Label(3.0, "N/A"))
	assert.Equal(t, "true", Label(true, "N/A"))
}
