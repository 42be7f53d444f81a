package calendar

import (
	"errors"

	"bikely/internal/domain/dates"
)

var (
	ErrIncompleteRange = errors.New("calendar: selection needs both start and end")
	ErrDateBlocked     = errors.New("calendar: selection covers an already booked day")
)

// Selection is the in-progress user-chosen range. End stays unset until a
// second, later day is tapped.
type Selection struct {
	Start dates.Day
	End   dates.Day
}

// IsComplete reports whether both bounds are set.
func (s Selection) IsComplete() bool {
	return !s.Start.IsZero() && !s.End.IsZero()
}

// OnDaySelected advances the selection by one tap and returns the new
// selection. Taps on blocked days are rejected silently: the selection
// comes back unchanged. A tap while a prior range is complete, or at or
// before the pending start, restarts the selection at the tapped day.
func OnDaySelected(day dates.Day, current Selection, blocked BlockedDateSet) Selection {
	if !IsSelectable(day, blocked) {
		return current
	}
	if current.Start.IsZero() || current.IsComplete() {
		return Selection{Start: day}
	}
	if day.After(current.Start) {
		return Selection{Start: current.Start, End: day}
	}
	return Selection{Start: day}
}

// ValidateAndAccept turns a completed selection into a date range. The full
// expanded range is checked against the blocked set so a selection cannot
// straddle a booked day in its interior; any hit is ErrDateBlocked. The
// server still re-validates at booking creation, this check is advisory.
func ValidateAndAccept(sel Selection, blocked BlockedDateSet) (dates.DateRange, error) {
	if !sel.IsComplete() {
		return dates.DateRange{}, ErrIncompleteRange
	}
	r, err := dates.NewRange(sel.Start, sel.End)
	if err != nil {
		return dates.DateRange{}, err
	}
	for _, day := range r.Expand() {
		if blocked.Contains(day) {
			return dates.DateRange{}, ErrDateBlocked
		}
	}
	return r, nil
}
