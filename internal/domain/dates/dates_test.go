package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_DateOnly(t *testing.T) {
	d, err := Normalize("2024-06-10")
	require.NoError(t, err)
	assert.Equal(t, Day("2024-06-10"), d)
}

func TestNormalize_Datetime(t *testing.T) {
	cases := map[string]string{
		"2024-06-10T15:30:00Z":      "2024-06-10",
		"2024-06-10T23:59:59+00:00": "2024-06-10",
		"2024-06-11T01:00:00+03:00": "2024-06-10", // UTC calendar date wins
		"2024-06-10 08:00:00":       "2024-06-10",
	}
	for input, want := range cases {
		d, err := Normalize(input)
		require.NoError(t, err, input)
		assert.Equal(t, Day(want), d, input)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	for _, input := range []string{"2024-06-10", "2024-06-10T15:30:00Z", "2024-12-31"} {
		once, err := Normalize(input)
		require.NoError(t, err)
		twice, err := Normalize(string(once))
		require.NoError(t, err)
		assert.Equal(t, once, twice)
	}
}

func TestNormalize_Garbage(t *testing.T) {
	for _, input := range []string{"", "not-a-date", "10/06/2024", "2024-13-40"} {
		_, err := Normalize(input)
		assert.ErrorIs(t, err, ErrUnparsableDate, input)
	}
}

func TestDayCountInclusive(t *testing.T) {
	assert.Equal(t, 1, DayCountInclusive("2024-06-10", "2024-06-10"))
	assert.Equal(t, 3, DayCountInclusive("2024-06-10", "2024-06-12"))
	assert.Equal(t, 31, DayCountInclusive("2024-03-01", "2024-03-31"))
	// inverted ranges are non-positive
	assert.LessOrEqual(t, DayCountInclusive("2024-06-12", "2024-06-10"), 0)
}

func TestDayCountInclusive_AcrossMonthAndLeapDay(t *testing.T) {
	assert.Equal(t, 2, DayCountInclusive("2024-02-29", "2024-03-01"))
	assert.Equal(t, 2, DayCountInclusive("2023-02-28", "2023-03-01"))
}

func TestExpandRange(t *testing.T) {
	got := ExpandRange("2024-06-10", "2024-06-12")
	assert.Equal(t, []Day{"2024-06-10", "2024-06-11", "2024-06-12"}, got)

	assert.Equal(t, []Day{"2024-06-10"}, ExpandRange("2024-06-10", "2024-06-10"))
	assert.Nil(t, ExpandRange("2024-06-12", "2024-06-10"))
}

func TestExpandRange_LengthMatchesDayCount(t *testing.T) {
	spans := [][2]Day{
		{"2024-06-01", "2024-06-01"},
		{"2024-06-01", "2024-06-30"},
		{"2024-02-27", "2024-03-02"},
		{"2024-12-28", "2025-01-03"},
	}
	for _, span := range spans {
		assert.Len(t, ExpandRange(span[0], span[1]), DayCountInclusive(span[0], span[1]))
	}
}

func TestFromTime(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	ts := time.Date(2024, 6, 11, 2, 0, 0, 0, loc) // 2024-06-10T21:00Z
	assert.Equal(t, Day("2024-06-10"), FromTime(ts))
}

func TestNewRange(t *testing.T) {
	r, err := NewRange("2024-06-10", "2024-06-12")
	require.NoError(t, err)
	assert.Equal(t, 3, r.Days())

	_, err = NewRange("2024-06-12", "2024-06-10")
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = NewRange("", "2024-06-10")
	assert.ErrorIs(t, err, ErrInvalidRange)

	single, err := NewRange("2024-06-10", "2024-06-10")
	require.NoError(t, err)
	assert.Equal(t, 1, single.Days())
}

func TestRangeOverlaps(t *testing.T) {
	base, _ := NewRange("2024-06-10", "2024-06-12")

	touching, _ := NewRange("2024-06-12", "2024-06-14")
	assert.True(t, base.Overlaps(touching), "inclusive ranges share the boundary day")

	disjoint, _ := NewRange("2024-06-13", "2024-06-14")
	assert.False(t, base.Overlaps(disjoint))

	inside, _ := NewRange("2024-06-11", "2024-06-11")
	assert.True(t, base.Overlaps(inside))
}

func TestRangeContainsDay(t *testing.T) {
	r, _ := NewRange("2024-06-10", "2024-06-12")
	assert.True(t, r.ContainsDay("2024-06-10"))
	assert.True(t, r.ContainsDay("2024-06-12"))
	assert.False(t, r.ContainsDay("2024-06-13"))
	assert.False(t, r.ContainsDay("2024-06-09"))
}
