// Package ingest turns uploaded files into rows.
package ingest

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/Skufu/medplat/internal/dataset"
)

var (
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrNoData          = errors.New("no data found in file")
	ErrInvalidShape    = errors.New("json must be an object or an array of objects")
	// ErrMalformed wraps syntax errors from the underlying decoders.
	ErrMalformed = errors.New("malformed input")
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatXLSX Format = "xlsx"
)

// FormatFromName maps a file name to a Format by extension.
func FormatFromName(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(name), ".")) {
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "xlsx":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedType, filepath.Ext(name))
	}
}

// ParseFile picks a parser from the file name and reads every row from r.
func ParseFile(name string, r io.Reader) ([]dataset.Row, error) {
	format, err := FormatFromName(name)
	if err != nil {
		return nil, err
	}
	return Parse(format, r)
}

func Parse(format Format, r io.Reader) ([]dataset.Row, error) {
	switch format {
	case FormatCSV:
		return ParseCSV(r)
	case FormatJSON:
		return ParseJSON(r)
	case FormatXLSX:
		return ParseXLSX(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, format)
	}
}

// ParseCSV reads a header line followed by records. Cells stay strings;
// numeric coercion happens at read time.
func ParseCSV(r io.Reader) ([]dataset.Row, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrNoData
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read csv header: %v", ErrMalformed, err)
	}
	headers := cleanHeaders(header)

	var rows []dataset.Row
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: csv: %v", ErrMalformed, err)
		}
		if row, ok := buildRow(headers, record); ok {
			rows = append(rows, row)
		}
	}

	if len(rows) == 0 {
		return nil, ErrNoData
	}
	return rows, nil
}

// ParseJSON accepts an array of objects or a single object.
func ParseJSON(r io.Reader) ([]dataset.Row, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read json: %w", err)
	}
	data = bytes.TrimSpace(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf")))
	if len(data) == 0 {
		return nil, ErrNoData
	}

	var rows []dataset.Row
	switch data[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		for _, item := range items {
			row, err := decodeRow(item)
			if err != nil {
				return nil, err
			}
			if row.Len() > 0 {
				rows = append(rows, row)
			}
		}
	case '{':
		row, err := decodeRow(data)
		if err != nil {
			return nil, err
		}
		if row.Len() > 0 {
			rows = append(rows, row)
		}
	default:
		if !json.Valid(data) {
			return nil, fmt.Errorf("%w: invalid json", ErrMalformed)
		}
		return nil, ErrInvalidShape
	}

	if len(rows) == 0 {
		return nil, ErrNoData
	}
	return rows, nil
}

func decodeRow(raw json.RawMessage) (dataset.Row, error) {
	var row dataset.Row
	if err := json.Unmarshal(raw, &row); err != nil {
		if errors.Is(err, dataset.ErrNotObject) {
			return row, ErrInvalidShape
		}
		return row, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return row, nil
}

// ParseXLSX reads the first sheet of a workbook using its first row as header.
func ParseXLSX(r io.Reader) ([]dataset.Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: open workbook: %v", ErrMalformed, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, ErrNoData
	}
	records, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: read sheet %q: %v", ErrMalformed, sheet, err)
	}
	if len(records) == 0 {
		return nil, ErrNoData
	}

	headers := cleanHeaders(records[0])
	var rows []dataset.Row
	for _, record := range records[1:] {
		if row, ok := buildRow(headers, record); ok {
			rows = append(rows, row)
		}
	}

	if len(rows) == 0 {
		return nil, ErrNoData
	}
	return rows, nil
}

func cleanHeaders(raw []string) []string {
	headers := make([]string, len(raw))
	for i, h := range raw {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		h = strings.TrimSpace(strings.ReplaceAll(h, `"`, ""))
		if h == "" {
			h = fmt.Sprintf("Column_%d", i+1)
		}
		headers[i] = h
	}
	return headers
}

// buildRow maps record cells onto headers. Missing trailing cells are left
// out and extra cells are dropped; an all-blank record yields no row.
func buildRow(headers, record []string) (dataset.Row, bool) {
	var row dataset.Row
	blank := true
	for i, h := range headers {
		if i >= len(record) {
			break
		}
		if strings.TrimSpace(record[i]) != "" {
			blank = false
		}
		row.Set(h, record[i])
	}
	return row, !blank
}
