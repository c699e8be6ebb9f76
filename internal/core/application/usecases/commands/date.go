package commands

import (
	"fmt"
	"strings"
	"time"
)

// Date is a day-precision timestamp used in wire payloads. The external
// system sends plain "2006-01-02" values; clients occasionally send full
// RFC 3339 timestamps, which are accepted and truncated to the day.
type Date struct {
	time.Time
}

// NewDate builds a Date from a time value.
func NewDate(t time.Time) Date {
	return Date{Time: t}
}

// UnmarshalJSON accepts "2006-01-02", RFC 3339, and null.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		d.Time = time.Time{}
		return nil
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		d.Time = t
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", s, err)
	}
	// Truncate to the calendar day in the timestamp's own offset, not the
	// absolute UTC timeline, so early-morning local times keep their day.
	d.Time = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return nil
}

// MarshalJSON emits the day-precision form.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Format(time.DateOnly) + `"`), nil
}

// TimePtr returns a *time.Time, or nil for the zero date.
func (d *Date) TimePtr() *time.Time {
	if d == nil || d.IsZero() {
		return nil
	}
	t := d.Time
	return &t
}
