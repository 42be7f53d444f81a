package dates

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrUnparsableDate = errors.New("dates: value is not an ISO date or datetime")
	ErrInvalidRange   = errors.New("dates: end date is before start date")
)

// Day is a calendar date in canonical YYYY-MM-DD form, UTC, no time-of-day.
// Two Days are equal iff their strings are equal.
type Day string

const layout = "2006-01-02"

// Normalize parses an ISO date or datetime and keeps only the UTC calendar
// date. Already-canonical input round-trips unchanged.
func Normalize(value string) (Day, error) {
	if t, err := time.Parse(layout, value); err == nil {
		return fromTime(t), nil
	}
	for _, l := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(l, value); err == nil {
			return fromTime(t.UTC()), nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnparsableDate, value)
}

// MustDay converts a canonical date string, panicking on malformed input.
// Intended for fixtures and tests.
func MustDay(value string) Day {
	d, err := Normalize(value)
	if err != nil {
		panic(err)
	}
	return d
}

// FromTime truncates a timestamp to its UTC calendar date.
func FromTime(t time.Time) Day {
	return fromTime(t.UTC())
}

func fromTime(t time.Time) Day {
	return Day(t.Format(layout))
}

func (d Day) String() string { return string(d) }

// Time returns the day as midnight UTC. Invalid for zero or malformed days.
func (d Day) Time() (time.Time, error) {
	t, err := time.Parse(layout, string(d))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnparsableDate, string(d))
	}
	return t, nil
}

// IsZero reports whether the day is unset.
func (d Day) IsZero() bool { return d == "" }

// Before and After compare calendar order. Canonical form makes string
// comparison equivalent to chronological comparison.
func (d Day) Before(other Day) bool { return string(d) < string(other) }

func (d Day) After(other Day) bool { return string(d) > string(other) }

// DayCountInclusive returns the number of calendar days spanned by
// [start, end], counting both endpoints. start == end yields 1. A result
// of zero or less means end precedes start and the range is invalid.
func DayCountInclusive(start, end Day) int {
	st, err := start.Time()
	if err != nil {
		return 0
	}
	et, err := end.Time()
	if err != nil {
		return 0
	}
	return int(et.Sub(st).Hours()/24) + 1
}

// ExpandRange lists every day from start to end inclusive in ascending
// order. An inverted or malformed range yields nil.
func ExpandRange(start, end Day) []Day {
	n := DayCountInclusive(start, end)
	if n <= 0 {
		return nil
	}
	st, err := start.Time()
	if err != nil {
		return nil
	}
	out := make([]Day, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, fromTime(st.AddDate(0, 0, i)))
	}
	return out
}
