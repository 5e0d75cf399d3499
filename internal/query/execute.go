package query

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Skufu/medplat/internal/analytics"
	"github.com/Skufu/medplat/internal/dataset"
)

// Result is what a query returns to the caller. ChartData stays nil when
// there is nothing to plot.
type Result struct {
	Intent    Intent               `json:"intent"`
	Reply     string               `json:"reply"`
	Summary   string               `json:"summary"`
	Value     *float64             `json:"value,omitempty"`
	Groups    []analytics.Group    `json:"groups,omitempty"`
	ChartData *analytics.ChartData `json:"chartData"`
	Fields    *dataset.FieldSet    `json:"fields,omitempty"`
}

// Execute runs intent over rows. Missing numeric data is reported in the
// reply rather than as an error.
func Execute(intent Intent, rows []dataset.Row, fields dataset.FieldSet) (*Result, error) {
	res := &Result{Intent: intent}

	switch intent.Kind {
	case KindListFields:
		res.Fields = &fields
		if len(fields.All) == 0 {
			res.Reply = "No uploaded data available."
		} else {
			res.Reply = fmt.Sprintf("Available fields: %s.", strings.Join(fields.All, ", "))
		}
		res.Summary = fmt.Sprintf("Numeric: %s. Categorical: %s.",
			listOrNone(fields.Numeric), listOrNone(fields.Categorical))

	case KindAggregate:
		value, err := intent.Op.Apply(dataset.Values(rows, intent.Field))
		if errors.Is(err, analytics.ErrNoNumericData) {
			res.Reply = noNumericData(intent.Field)
			res.Summary = res.Reply
			return res, nil
		}
		if err != nil {
			return nil, fmt.Errorf("aggregate %s: %w", intent.Field, err)
		}
		res.Value = &value
		res.Reply = fmt.Sprintf("The %s of %s is %s.", intent.Op.Word(), intent.Field, analytics.FormatNumber(value))
		res.Summary = res.Reply
		res.ChartData = analytics.NewChartData(intent.Field, []analytics.Group{{Label: intent.Field, Value: value}})

	case KindGroupedAggregate:
		groups, err := analytics.GroupBy(rows, intent.Field, intent.GroupBy, intent.Op)
		if errors.Is(err, analytics.ErrNoNumericData) {
			res.Reply = noNumericData(intent.Field)
			res.Summary = res.Reply
			return res, nil
		}
		if err != nil {
			return nil, fmt.Errorf("group %s by %s: %w", intent.Field, intent.GroupBy, err)
		}
		parts := make([]string, 0, len(groups))
		for _, g := range groups {
			parts = append(parts, fmt.Sprintf("%s: %s", g.Label, analytics.FormatNumber(g.Value)))
		}
		res.Groups = groups
		res.Reply = fmt.Sprintf("The %s of %s by %s is %s.", intent.Op.Word(), intent.Field, intent.GroupBy, strings.Join(parts, ", "))
		res.Summary = fmt.Sprintf("%s of %s across %d %s groups.", capitalize(intent.Op.Word()), intent.Field, len(groups), intent.GroupBy)
		res.ChartData = analytics.NewChartData(fmt.Sprintf("%s of %s", intent.Op.Word(), intent.Field), groups)

	default:
		if len(fields.All) == 0 {
			res.Reply = "No uploaded data available."
		} else {
			res.Reply = fmt.Sprintf("Sorry, I could not match that query to your data. Try asking for a total or an average of one of: %s.",
				strings.Join(fields.All, ", "))
		}
		res.Summary = "No data found for query."
	}
	return res, nil
}

// Run parses and executes text in one step.
func Run(text string, rows []dataset.Row, fields dataset.FieldSet) (*Result, error) {
	return Execute(Parse(text, fields), rows, fields)
}

func noNumericData(field string) string {
	return fmt.Sprintf("There is no numeric data for field '%s'.", field)
}

func listOrNone(fields []string) string {
	if len(fields) == 0 {
		return "none"
	}
	return strings.Join(fields, ", ")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
