package model

import (
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// ParseTimestamp accepts an RFC3339 timestamp or a bare YYYY-MM-DD date,
// which is read as midnight in loc. A nil loc means time.Local.
func ParseTimestamp(text string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	trimmed := strings.TrimSpace(text)
	if t, err := time.Parse(time.RFC3339Nano, trimmed); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation(dateLayout, trimmed, loc); err == nil {
		return t, nil
	}
	return time.Time{}, &ParseError{Kind: KindTimestamp, Input: text}
}
