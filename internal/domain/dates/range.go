package dates

// DateRange is an inclusive span of calendar days. Start == End is a valid
// single-day range.
type DateRange struct {
	Start Day
	End   Day
}

// NewRange validates ordering and returns the inclusive range.
func NewRange(start, end Day) (DateRange, error) {
	r := DateRange{Start: start, End: end}
	if err := r.Validate(); err != nil {
		return DateRange{}, err
	}
	return r, nil
}

func (r DateRange) Validate() error {
	if r.Start.IsZero() || r.End.IsZero() {
		return ErrInvalidRange
	}
	if DayCountInclusive(r.Start, r.End) <= 0 {
		return ErrInvalidRange
	}
	return nil
}

// Days returns the inclusive day count of the range.
func (r DateRange) Days() int {
	return DayCountInclusive(r.Start, r.End)
}

// Expand lists every day the range covers, ascending.
func (r DateRange) Expand() []Day {
	return ExpandRange(r.Start, r.End)
}

// Overlaps reports whether the two inclusive ranges share at least one day.
func (r DateRange) Overlaps(other DateRange) bool {
	return !r.Start.After(other.End) && !other.Start.After(r.End)
}

// ContainsDay reports whether the day falls inside the range.
func (r DateRange) ContainsDay(d Day) bool {
	return !d.Before(r.Start) && !d.After(r.End)
}
