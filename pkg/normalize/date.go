package normalize

import (
	"fmt"
	"strings"
	"time"
)

const (
	isoDate     = "2006-01-02"
	displayDate = "02/01/2006"
)

// timestampLayouts are the ISO timestamp forms seen upstream, tried in order.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
}

// DateError reports a date field that could not be parsed.
type DateError struct {
	Field string
	Value string
	Err   error
}

// Error implements the error interface.
func (e *DateError) Error() string {
	return fmt.Sprintf("parse %s %q: %v", e.Field, e.Value, e.Err)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *DateError) Unwrap() error {
	return e.Err
}

// FormatDate renders an upstream date as DD/MM/YYYY.
// It accepts YYYY-MM-DD, DD/MM/YYYY (returned as is) and ISO timestamps.
// Anything else is returned unchanged.
func FormatDate(s string) string {
	if s == "" {
		return ""
	}

	t, ok := parseDate(strings.TrimSpace(s))
	if !ok {
		return s
	}
	return t.Format(displayDate)
}

// ParseYear extracts the year from an upstream date or timestamp.
func ParseYear(field, s string) (int, error) {
	t, ok := parseDate(strings.TrimSpace(s))
	if !ok {
		return 0, &DateError{Field: field, Value: s, Err: fmt.Errorf("unrecognized date format")}
	}
	return t.Year(), nil
}

// formatDatePart renders only the calendar date of an ISO timestamp.
func formatDatePart(s string) string {
	t, ok := parseDate(strings.TrimSpace(s))
	if !ok {
		return ""
	}
	return t.Format(displayDate)
}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}

	if t, err := time.Parse(isoDate, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(displayDate, s); err == nil {
		return t, true
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
