package analytics

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Skufu/medplat/internal/dataset"
)

var ErrInvalidInterval = errors.New("interval must be one of none, monthly, half-yearly, yearly")

type ChartData struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

type Dataset struct {
	Label string    `json:"label"`
	Data  []float64 `json:"data"`
}

// NewChartData builds a single-dataset chart from groups.
func NewChartData(label string, groups []Group) *ChartData {
	cd := &ChartData{
		Labels:   make([]string, 0, len(groups)),
		Datasets: []Dataset{{Label: label, Data: make([]float64, 0, len(groups))}},
	}
	for _, g := range groups {
		cd.Labels = append(cd.Labels, g.Label)
		cd.Datasets[0].Data = append(cd.Datasets[0].Data, g.Value)
	}
	return cd
}

type Interval string

const (
	IntervalNone       Interval = "none"
	IntervalMonthly    Interval = "monthly"
	IntervalHalfYearly Interval = "half-yearly"
	IntervalYearly     Interval = "yearly"
)

func ParseInterval(s string) (Interval, error) {
	switch iv := Interval(strings.ToLower(strings.TrimSpace(s))); iv {
	case "", IntervalNone:
		return IntervalNone, nil
	case IntervalMonthly, IntervalHalfYearly, IntervalYearly:
		return iv, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidInterval, s)
	}
}

// bucket returns the period label for a date-like value, or false.
func (iv Interval) bucket(v any) (string, bool) {
	t, ok := dataset.ParseDate(v)
	if !ok {
		return "", false
	}
	switch iv {
	case IntervalMonthly:
		return t.Format("2006-01"), true
	case IntervalHalfYearly:
		half := 1
		if t.Month() > 6 {
			half = 2
		}
		return fmt.Sprintf("%d H%d", t.Year(), half), true
	case IntervalYearly:
		return t.Format("2006"), true
	default:
		return "", false
	}
}

type Series struct {
	X         string     `json:"x"`
	Y         string     `json:"y"`
	Interval  Interval   `json:"interval"`
	Labels    []string   `json:"labels"`
	Values    []float64  `json:"values"`
	ChartData *ChartData `json:"chartData"`
}

// PickAxes fills in x and y when they are blank: x prefers a field named
// "date", then the first categorical field, then the first field; y is the
// first numeric field not named "date".
func PickAxes(fields dataset.FieldSet, x, y string) (string, string) {
	if x == "" {
		switch {
		case fields.Has("date"):
			x = "date"
		case len(fields.Categorical) > 0:
			x = fields.Categorical[0]
		case len(fields.All) > 0:
			x = fields.All[0]
		}
	}
	if y == "" {
		for _, f := range fields.Numeric {
			if f != "date" {
				y = f
				break
			}
		}
	}
	return x, y
}

// BuildSeries groups rows by x (or by x's date bucket) and sums y.
// Without an interval a non-coercible y counts as zero; with one it is skipped.
func BuildSeries(rows []dataset.Row, fields dataset.FieldSet, x, y string, interval Interval) (*Series, error) {
	x, y = PickAxes(fields, x, y)
	if x == "" || y == "" {
		return nil, fmt.Errorf("%w: no field to plot", ErrNoNumericData)
	}
	for _, f := range []string{x, y} {
		if !fields.Has(f) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownField, f)
		}
	}

	var order []string
	totals := make(map[string]float64)
	for _, row := range rows {
		xv, _ := row.Get(x)
		label, bucketed := interval.bucket(xv)
		if !bucketed {
			label = dataset.Label(xv, "N/A")
		}

		yv, _ := row.Get(y)
		n, ok := dataset.Number(yv)
		if !ok && interval != IntervalNone {
			continue
		}
		if _, seen := totals[label]; !seen {
			order = append(order, label)
		}
		totals[label] += n
	}

	if interval != IntervalNone {
		sort.Strings(order)
	}

	groups := make([]Group, 0, len(order))
	for _, label := range order {
		groups = append(groups, Group{Label: label, Value: totals[label]})
	}
	chart := NewChartData(y, groups)
	return &Series{
		X:         x,
		Y:         y,
		Interval:  interval,
		Labels:    chart.Labels,
		Values:    chart.Datasets[0].Data,
		ChartData: chart,
	}, nil
}
