package calendar

import (
	"bikely/internal/domain/dates"
)

// ExistingBooking is the read-only snapshot of a booking the engine blocks
// dates against. DateFrom and DateEnd may arrive as ISO datetimes; only the
// UTC calendar date matters.
type ExistingBooking struct {
	ID       string
	DateFrom string
	DateEnd  string
}

// BlockedDateSet is the union of every day covered by existing bookings.
type BlockedDateSet map[dates.Day]struct{}

// ComputeBlockedDateSet expands every booking into its inclusive day
// sequence and unions the results. Overlapping bookings block a day once;
// bookings whose dates cannot be parsed or are inverted contribute nothing.
func ComputeBlockedDateSet(bookings []ExistingBooking) BlockedDateSet {
	blocked := make(BlockedDateSet)
	for _, b := range bookings {
		from, err := dates.Normalize(b.DateFrom)
		if err != nil {
			continue
		}
		end, err := dates.Normalize(b.DateEnd)
		if err != nil {
			continue
		}
		for _, day := range dates.ExpandRange(from, end) {
			blocked[day] = struct{}{}
		}
	}
	return blocked
}

// Contains reports whether the day is blocked.
func (s BlockedDateSet) Contains(day dates.Day) bool {
	_, ok := s[day]
	return ok
}

// IsSelectable reports whether a day may enter a new selection.
func IsSelectable(day dates.Day, blocked BlockedDateSet) bool {
	return !blocked.Contains(day)
}
