package dataset

import "strings"

// FieldSet is the result of field inference over a sample. All keeps first
// appearance order; Numeric and Categorical partition it.
type FieldSet struct {
	All         []string `json:"fields"`
	Numeric     []string `json:"numeric"`
	Categorical []string `json:"categorical"`
}

// IsInternal reports whether a field is a store identifier such as _id or __v.
func IsInternal(name string) bool {
	return strings.HasPrefix(name, "_")
}

// Sample returns at most the first n rows.
func Sample(rows []Row, n int) []Row {
	if n <= 0 || len(rows) <= n {
		return rows
	}
	return rows[:n]
}

// Infer classifies every non-internal field in the sample. A field is numeric
// when at least one sampled row holds a non-empty value that coerces to a
// number.
func Infer(sample []Row) FieldSet {
	fs := FieldSet{
		All:         []string{},
		Numeric:     []string{},
		Categorical: []string{},
	}
	seen := make(map[string]bool)
	numeric := make(map[string]bool)

	for _, row := range sample {
		for _, key := range row.keys {
			if IsInternal(key) {
				continue
			}
			if !seen[key] {
				seen[key] = true
				fs.All = append(fs.All, key)
			}
			if numeric[key] {
				continue
			}
			if _, ok := Number(row.values[key]); ok {
				numeric[key] = true
			}
		}
	}

	for _, f := range fs.All {
		if numeric[f] {
			fs.Numeric = append(fs.Numeric, f)
		} else {
			fs.Categorical = append(fs.Categorical, f)
		}
	}
	return fs
}

func (fs FieldSet) IsNumeric(name string) bool {
	for _, f := range fs.Numeric {
		if f == name {
			return true
		}
	}
	return false
}

func (fs FieldSet) Has(name string) bool {
	for _, f := range fs.All {
		if f == name {
			return true
		}
	}
	return false
}

// Values collects the coercible values of field across rows. Values that do
// not coerce are dropped silently.
func Values(rows []Row, field string) []float64 {
	out := make([]float64, 0, len(rows))
	for _, row := range rows {
		if f, ok := Number(row.values[field]); ok {
			out = append(out, f)
		}
	}
	return out
}
