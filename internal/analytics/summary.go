package analytics

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Skufu/medplat/internal/dataset"
)

type FieldStats struct {
	Field  string  `json:"field"`
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stddev"`
}

type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

type Distribution struct {
	Field  string       `json:"field"`
	Values []ValueCount `json:"values"`
}

// Summary describes the whole row set: size, fields, per-field statistics and
// monthly record counts.
type Summary struct {
	RecordCount     int            `json:"record_count"`
	Fields          []string       `json:"fields"`
	Numeric         []FieldStats   `json:"numeric"`
	Categorical     []Distribution `json:"categorical"`
	DateField       string         `json:"date_field,omitempty"`
	RecordsPerMonth []ValueCount   `json:"records_per_month"`
}

// Summarize computes the summary over rows using the classification in fields.
func Summarize(rows []dataset.Row, fields dataset.FieldSet) Summary {
	s := Summary{
		RecordCount:     len(rows),
		Fields:          fields.All,
		Numeric:         []FieldStats{},
		Categorical:     []Distribution{},
		RecordsPerMonth: []ValueCount{},
	}

	for _, f := range fields.Numeric {
		values := dataset.Values(rows, f)
		if len(values) == 0 {
			continue
		}
		lo, _ := OpMin.Apply(values)
		hi, _ := OpMax.Apply(values)
		s.Numeric = append(s.Numeric, FieldStats{
			Field:  f,
			Count:  len(values),
			Min:    lo,
			Max:    hi,
			Mean:   Mean(values),
			StdDev: PopulationStdDev(values),
		})
	}

	for _, f := range fields.Categorical {
		s.Categorical = append(s.Categorical, Distribution{Field: f, Values: distribution(rows, f)})
	}

	for _, f := range fields.All {
		if strings.Contains(strings.ToLower(f), "date") {
			s.DateField = f
			break
		}
	}
	if s.DateField != "" {
		s.RecordsPerMonth = perMonth(rows, s.DateField)
	}
	return s
}

func distribution(rows []dataset.Row, field string) []ValueCount {
	var order []string
	counts := make(map[string]int)
	for _, row := range rows {
		v, _ := row.Get(field)
		label := dataset.Label(v, "Unknown")
		if _, ok := counts[label]; !ok {
			order = append(order, label)
		}
		counts[label]++
	}
	out := make([]ValueCount, 0, len(order))
	for _, label := range order {
		out = append(out, ValueCount{Value: label, Count: counts[label]})
	}
	return out
}

func perMonth(rows []dataset.Row, field string) []ValueCount {
	counts := make(map[time.Time]int)
	for _, row := range rows {
		v, _ := row.Get(field)
		t, ok := dataset.ParseDate(v)
		if !ok {
			continue
		}
		counts[time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)]++
	}
	months := make([]time.Time, 0, len(counts))
	for m := range counts {
		months = append(months, m)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })

	out := make([]ValueCount, 0, len(months))
	for _, m := range months {
		out = append(out, ValueCount{Value: m.Format("Jan 2006"), Count: counts[m]})
	}
	return out
}

// Text renders the summary as plain text.
func (s Summary) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Records: %d\n", s.RecordCount)
	fmt.Fprintf(&b, "Fields: %s\n", strings.Join(s.Fields, ", "))

	if len(s.Numeric) > 0 {
		b.WriteString("\nNumeric fields:\n")
		for _, st := range s.Numeric {
			fmt.Fprintf(&b, "  %s: min=%s max=%s mean=%s stddev=%s (n=%d)\n",
				st.Field, FormatNumber(st.Min), FormatNumber(st.Max),
				FormatNumber(st.Mean), FormatNumber(st.StdDev), st.Count)
		}
	}

	if len(s.Categorical) > 0 {
		b.WriteString("\nCategorical fields:\n")
		for _, d := range s.Categorical {
			parts := make([]string, 0, len(d.Values))
			for _, vc := range d.Values {
				parts = append(parts, fmt.Sprintf("%s=%d", vc.Value, vc.Count))
			}
			fmt.Fprintf(&b, "  %s: %s\n", d.Field, strings.Join(parts, ", "))
		}
	}

	if s.DateField != "" {
		fmt.Fprintf(&b, "\nRecords per month (%s):\n", s.DateField)
		for _, vc := range s.RecordsPerMonth {
			fmt.Fprintf(&b, "  %s: %d\n", vc.Value, vc.Count)
		}
	}
	return b.String()
}
