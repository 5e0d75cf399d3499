package dataset

import (
	"strings"
	"time"
)

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"01/02/2006",
	"Jan-2006",
	"January 2006",
	"Jan 2, 2006",
	"2 Jan 2006",
	"2006-01",
}

// ParseDate reports whether v is date-like and returns the parsed time.
// Bare numbers are never dates, so a "2024" year column stays numeric.
func ParseDate(v any) (time.Time, bool) {
	switch val := v.(type) {
	case time.Time:
		return val, !val.IsZero()
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

// FormatDate renders t as an ISO date, adding the clock only when it is set.
func FormatDate(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format("2006-01-02")
	}
	return t.Format("2006-01-02 15:04:05")
}

// DateField picks the field holding dates: "date", then "ds", then the first
// field whose name contains "date".
func DateField(fields []string) string {
	for _, want := range []string{"date", "ds"} {
		for _, f := range fields {
			if strings.EqualFold(f, want) {
				return f
			}
		}
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), "date") {
			return f
		}
	}
	return ""
}
