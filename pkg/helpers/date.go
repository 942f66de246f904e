package helpers

import (
	"strings"
	"time"
)

// DateLayout is the wire format of calendar dates such as planting_date.
const DateLayout = "2006-01-02"

// ParseDate parses an optional YYYY-MM-DD string; empty yields nil.
func ParseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// FormatDate renders an optional date; nil yields nil so JSON shows null.
func FormatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(DateLayout)
	return &s
}
