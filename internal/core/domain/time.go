package domain

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// timestampLayouts lists the formats the API is known to emit. Naive
// datetimes (no offset) are interpreted as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Timestamp is a time value that tolerates the API's mixed datetime formats.
type Timestamp struct {
	time.Time
}

// ParseTimestamp parses s using the accepted layouts.
func ParseTimestamp(s string) (Timestamp, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Timestamp{}, nil
	}
	var lastErr error
	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return Timestamp{Time: t}, nil
		}
		lastErr = err
	}
	return Timestamp{}, ErrInvalidArgument.WithDetails("timestamp " + s).WithCause(lastErr)
}

// UnmarshalJSON accepts a string in any accepted layout, or null.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*t = Timestamp{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// MarshalJSON writes RFC 3339, or null for the zero value.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.Format(time.RFC3339))
}

// String formats the timestamp for tables.
func (t Timestamp) String() string {
	if t.IsZero() {
		return "-"
	}
	return t.Time.Local().Format("2006-01-02 15:04")
}
