package ingest

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestFormatFromName(t *testing.T) {
	f, err := FormatFromName("Admissions.CSV")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	f, err = FormatFromName("report.xlsx")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)

	_, err = FormatFromName("notes.txt")
	assert.ErrorIs(t, err, ErrUnsupportedType)

	_, err = FormatFromName("noext")
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestParseCSV_HeaderCleanup(t *testing.T) {
	input := "\ufeff\"ward\", admissions ,,date\nA,12,x,2024-01-01\n\nB,7\n"

	rows, err := ParseCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, []string{"ward", "admissions", "Column_3", "date"}, rows[0].Keys())
	v, _ := rows[0].Get("admissions")
	assert.Equal(t, "12", v)

	// ragged rows keep the cells they have
	assert.Equal(t, []string{"ward", "admissions"}, rows[1].Keys())
}

func TestParseCSV_HeaderOnly(t *testing.T) {
	_, err := ParseCSV(strings.NewReader("ward,admissions\n"))
	assert.ErrorIs(t, err, ErrNoData)

	_, err = ParseCSV(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrNoData)
}

func TestParseJSON(t *testing.T) {
	rows, err := ParseJSON(strings.NewReader(`[{"ward":"A","admissions":3},{"ward":"B","admissions":"4"}]`))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"ward", "admissions"}, rows[1].Keys())

	rows, err = ParseJSON(strings.NewReader(`{"ward":"C"}`))
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestParseJSON_Errors(t *testing.T) {
	_, err := ParseJSON(strings.NewReader(`[]`))
	assert.ErrorIs(t, err, ErrNoData)

	_, err = ParseJSON(strings.NewReader(`   `))
	assert.ErrorIs(t, err, ErrNoData)

	_, err = ParseJSON(strings.NewReader(`[1,2]`))
	assert.ErrorIs(t, err, ErrInvalidShape)

	_, err = ParseJSON(strings.NewReader(`"text"`))
	assert.ErrorIs(t, err, ErrInvalidShape)

	_, err = ParseJSON(strings.NewReader(`[{"ward":`))
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestParseXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"ward", "", " admissions "}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"A", "x", 12}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]any{"B", "", 9}))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	rows, err := ParseXLSX(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"ward", "Column_2", "admissions"}, rows[0].Keys())
	v, _ := rows[1].Get("admissions")
	assert.Equal(t, "9", v)
}

func TestParseXLSX_HeaderOnly(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetRow(f.GetSheetName(0), "A1", &[]any{"ward", "admissions"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	_, err = ParseXLSX(bytes.NewReader(buf.Bytes()))
	assert.ErrorIs(t, err, ErrNoData)
}

func TestParseFile_Dispatch(t *testing.T) {
	rows, err := ParseFile("data.json", strings.NewReader(`[{"a":1}]`))
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	_, err = ParseFile("data.pdf", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrUnsupportedType)
}
