// Package analytics computes aggregates, anomaly reports, chart series and
// summaries over schema-less rows.
package analytics

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Skufu/medplat/internal/dataset"
)

var (
	// ErrNoNumericData is returned when a field has no coercible value in the
	// rows being aggregated.
	ErrNoNumericData = errors.New("no numeric data")
	ErrUnknownOp     = errors.New("unknown aggregation")
	ErrUnknownField  = errors.New("unknown field")
)

// Op is an aggregation verb.
type Op string

const (
	OpSum Op = "sum"
	OpAvg Op = "avg"
	OpMin Op = "min"
	OpMax Op = "max"
)

func ParseOp(s string) (Op, error) {
	switch op := Op(strings.ToLower(strings.TrimSpace(s))); op {
	case OpSum, OpAvg, OpMin, OpMax:
		return op, nil
	case "":
		return OpSum, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownOp, s)
	}
}

// Word is the form used in replies, e.g. "total" for sum.
func (op Op) Word() string {
	switch op {
	case OpAvg:
		return "average"
	case OpMin:
		return "minimum"
	case OpMax:
		return "maximum"
	default:
		return "total"
	}
}

// Apply reduces values with op. Empty input is ErrNoNumericData, never zero.
func (op Op) Apply(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, ErrNoNumericData
	}
	switch op {
	case OpSum, "":
		return sum(values), nil
	case OpAvg:
		return Mean(values), nil
	case OpMin:
		m := values[0]
		for _, v := range values[1:] {
			m = math.Min(m, v)
		}
		return m, nil
	case OpMax:
		m := values[0]
		for _, v := range values[1:] {
			m = math.Max(m, v)
		}
		return m, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownOp, string(op))
	}
}

func sum(values []float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	return total
}

func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return sum(values) / float64(len(values))
}

// PopulationStdDev divides by N, not N-1.
func PopulationStdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := Mean(values)
	var sq float64
	for _, v := range values {
		sq += (v - mean) * (v - mean)
	}
	return math.Sqrt(sq / float64(len(values)))
}

// FormatNumber rounds to two decimals and drops trailing zeros.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

// Group is one labelled aggregate.
type Group struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// GroupBy partitions rows by the value of groupBy and reduces the coercible
// values of field per group. Labels keep first-seen order; blank group values
// fall under "N/A"; groups without any coercible value are left out.
func GroupBy(rows []dataset.Row, field, groupBy string, op Op) ([]Group, error) {
	var order []string
	buckets := make(map[string][]float64)
	for _, row := range rows {
		gv, _ := row.Get(groupBy)
		label := dataset.Label(gv, "N/A")
		v, _ := row.Get(field)
		n, ok := dataset.Number(v)
		if !ok {
			continue
		}
		if _, seen := buckets[label]; !seen {
			order = append(order, label)
		}
		buckets[label] = append(buckets[label], n)
	}
	if len(order) == 0 {
		return nil, fmt.Errorf("%w for %q", ErrNoNumericData, field)
	}

	groups := make([]Group, 0, len(order))
	for _, label := range order {
		value, err := op.Apply(buckets[label])
		if err != nil {
			return nil, err
		}
		groups = append(groups, Group{Label: label, Value: value})
	}
	return groups, nil
}
