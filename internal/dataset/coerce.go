package dataset

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// Number coerces v to a finite float64. Empty strings, nil, NaN and infinities
// are not numbers; booleans count as 1 and 0.
func Number(v any) (float64, bool) {
	var f float64
	switch val := v.(type) {
	case nil:
		return 0, false
	case float64:
		f = val
	case float32:
		f = float64(val)
	case int:
		f = float64(val)
	case int32:
		f = float64(val)
	case int64:
		f = float64(val)
	case uint:
		f = float64(val)
	case uint32:
		f = float64(val)
	case uint64:
		f = float64(val)
	case json.Number:
		parsed, err := strconv.ParseFloat(val.String(), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	case bool:
		if val {
			return 1, true
		}
		return 0, true
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// IsEmpty reports whether v is nil or a blank string.
func IsEmpty(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(val) == ""
	default:
		return false
	}
}

// ParseCell turns a raw text cell into a float64 when it looks numeric and
// leaves it as a string otherwise.
func ParseCell(s string) any {
	s = strings.TrimSpace(s)
	if f, ok := Number(s); ok {
		return f
	}
	return s
}

// Label renders a value as a grouping label. Empty values map to fallback.
func Label(v any, fallback string) string {
	if IsEmpty(v) {
		return fallback
	}
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case time.Time:
		return FormatDate(val)
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return fallback
		}
		return string(b)
	}
}
