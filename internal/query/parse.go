// Package query turns short free-text questions into aggregation intents and
// runs them over rows.
package query

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/Skufu/medplat/internal/analytics"
	"github.com/Skufu/medplat/internal/dataset"
)

type Kind string

const (
	KindListFields       Kind = "list_fields"
	KindAggregate        Kind = "aggregate"
	KindGroupedAggregate Kind = "grouped_aggregate"
	KindUnrecognized     Kind = "unrecognized"
)

// Intent is the parsed form of a query. Field and Op are set for the two
// aggregate kinds; GroupBy only for KindGroupedAggregate.
type Intent struct {
	Kind    Kind         `json:"kind"`
	Field   string       `json:"field,omitempty"`
	Op      analytics.Op `json:"op,omitempty"`
	GroupBy string       `json:"group_by,omitempty"`
}

var (
	listFieldsRe = regexp.MustCompile(`\b(fields|columns)\b`)
	groupByRe    = regexp.MustCompile(`\bby ([a-z0-9_]+)`)

	// checked in order, first match wins
	verbRules = []struct {
		re *regexp.Regexp
		op analytics.Op
	}{
		{regexp.MustCompile(`\b(total|sum)\b`), analytics.OpSum},
		{regexp.MustCompile(`\b(average|mean|avg)\b`), analytics.OpAvg},
		{regexp.MustCompile(`\b(minimum|min)\b`), analytics.OpMin},
		{regexp.MustCompile(`\b(maximum|max)\b`), analytics.OpMax},
	}
)

// Parse maps text onto an Intent using the fields inferred from the data.
// Matching is case-insensitive and works on the NFC form of text.
func Parse(text string, fields dataset.FieldSet) Intent {
	q := fold(strings.TrimSpace(text))

	if listFieldsRe.MatchString(q) {
		return Intent{Kind: KindListFields}
	}

	var op analytics.Op
	for _, rule := range verbRules {
		if rule.re.MatchString(q) {
			op = rule.op
			break
		}
	}

	groupBy := ""
	if m := groupByRe.FindStringSubmatch(q); m != nil {
		groupBy = matchGroupBy(m[1], fields.All)
	}

	field := matchField(q, fields.All, groupBy)
	if field == "" && (op != "" || groupBy != "") {
		for _, f := range fields.Numeric {
			if f != groupBy {
				field = f
				break
			}
		}
	}

	if op == "" {
		op = analytics.OpSum
	}
	switch {
	case field != "" && groupBy != "":
		return Intent{Kind: KindGroupedAggregate, Field: field, Op: op, GroupBy: groupBy}
	case field != "":
		return Intent{Kind: KindAggregate, Field: field, Op: op}
	default:
		return Intent{Kind: KindUnrecognized}
	}
}

// matchGroupBy resolves the token after "by" to the first field that contains
// it or is contained in it.
func matchGroupBy(token string, fields []string) string {
	for _, f := range fields {
		name := fold(f)
		if name == "" {
			continue
		}
		if strings.Contains(name, token) || strings.Contains(token, name) {
			return f
		}
	}
	return ""
}

// matchField finds the first field named in q. Whole-word mentions win over
// plain substrings so "age" does not match inside "average".
func matchField(q string, fields []string, exclude string) string {
	for _, f := range fields {
		if f == exclude {
			continue
		}
		if containsWord(q, fold(f)) {
			return f
		}
	}
	for _, f := range fields {
		if f == exclude || f == "" {
			continue
		}
		if strings.Contains(q, fold(f)) {
			return f
		}
	}
	return ""
}

func fold(s string) string {
	return strings.ToLower(norm.NFC.String(s))
}

func containsWord(s, word string) bool {
	if word == "" {
		return false
	}
	for from := 0; ; {
		i := strings.Index(s[from:], word)
		if i < 0 {
			return false
		}
		start := from + i
		end := start + len(word)
		if (start == 0 || !isWordByte(s[start-1])) && (end == len(s) || !isWordByte(s[end])) {
			return true
		}
		from = start + 1
	}
}

func isWordByte(b byte) bool {
	return b == '_' || b >= '0' && b <= '9' || b >= 'a' && b <= 'z'
}
