package model

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// DateKey is a civil date in canonical YYYY-MM-DD form. Every date-scoped
// record (tasks, completions, plans, wellbeing entries) is partitioned by it.
type DateKey string

// NewDateKey builds the key for the civil date of t in t's location.
func NewDateKey(t time.Time) DateKey {
	return DateKey(t.Format(dateLayout))
}

// Today returns the key for the current local date.
func Today() DateKey {
	return NewDateKey(time.Now())
}

// ParseDateKey validates raw as a real calendar date.
func ParseDateKey(raw string) (DateKey, error) {
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return "", fmt.Errorf("invalid date %q, expected YYYY-MM-DD", raw)
	}
	return NewDateKey(t), nil
}

func (d DateKey) String() string { return string(d) }

// Time returns the date at midnight UTC. The zero value of time.Time is
// returned for a malformed key.
func (d DateKey) Time() time.Time {
	t, err := time.Parse(dateLayout, string(d))
	if err != nil {
		return time.Time{}
	}
	return t
}

// AddDays shifts the date by n calendar days (n may be negative).
func (d DateKey) AddDays(n int) DateKey {
	return NewDateKey(d.Time().AddDate(0, 0, n))
}

// WeekStart returns the Monday of the week containing d. Sunday belongs to
// the week that started six days earlier.
func (d DateKey) WeekStart() DateKey {
	t := d.Time()
	offset := (int(t.Weekday()) + 6) % 7
	return NewDateKey(t.AddDate(0, 0, -offset))
}

// StartOfDay returns the first instant of the date in loc.
func (d DateKey) StartOfDay(loc *time.Location) time.Time {
	t := d.Time()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// Format renders the date with a custom layout for display.
func (d DateKey) Format(layout string) string {
	return d.Time().Format(layout)
}
