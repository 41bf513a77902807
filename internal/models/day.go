package models

import (
	"fmt"
	"strings"
	"time"
)

const dayLayout = "2006-01-02"

// Day is a civil date pinned to UTC. All window bounds, checkpoint values and
// order dates in the system compare at day granularity; keeping them as a
// dedicated type avoids the off-by-one-day bugs that come from comparing raw
// timestamps across timezones.
//
// The zero Day means "unknown / not present".
type Day struct {
	t time.Time
}

// NewDay creates a Day from year, month and day.
func NewDay(year int, month time.Month, day int) Day {
	return Day{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DayOf truncates a timestamp to its UTC calendar date.
func DayOf(t time.Time) Day {
	u := t.UTC()
	return NewDay(u.Year(), u.Month(), u.Day())
}

// ParseDay parses a date string. It accepts a bare "YYYY-MM-DD" as well as
// timestamp forms like "YYYY-MM-DDTHH:MM:SS" and "YYYY-MM-DD HH:MM:SS"; only
// the date portion is kept. An empty string parses to the zero Day.
func ParseDay(s string) (Day, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Day{}, nil
	}
	if len(s) > len(dayLayout) {
		s = s[:len(dayLayout)]
	}
	t, err := time.ParseInLocation(dayLayout, s, time.UTC)
	if err != nil {
		return Day{}, fmt.Errorf("failed to parse day %q: %w", s, err)
	}
	return Day{t: t}, nil
}

// IsZero reports whether the day is unset.
func (d Day) IsZero() bool {
	return d.t.IsZero()
}

// Before reports whether d is strictly before o.
func (d Day) Before(o Day) bool {
	return d.t.Before(o.t)
}

// After reports whether d is strictly after o.
func (d Day) After(o Day) bool {
	return d.t.After(o.t)
}

// Equal reports whether d and o are the same calendar date.
func (d Day) Equal(o Day) bool {
	return d.t.Equal(o.t)
}

// Time returns the day as midnight UTC.
func (d Day) Time() time.Time {
	return d.t
}

// String renders the day as "YYYY-MM-DD". The zero Day renders as "".
func (d Day) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(dayLayout)
}

// MarshalJSON encodes the day as a "YYYY-MM-DD" string ("" when unset).
func (d Day) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON decodes a "YYYY-MM-DD" (or timestamp-prefixed) string.
func (d *Day) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" {
		s = ""
	}
	parsed, err := ParseDay(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
