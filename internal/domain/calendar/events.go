package calendar

import (
	"time"

	"bikely/internal/domain/dates"
)

type RangeBlocked struct {
	BikeID string
	Range  dates.DateRange
	Reason BlockReason
	At     time.Time
}

func (e RangeBlocked) EventName() string     { return "calendar.blocked" }
func (e RangeBlocked) AggregateID() string   { return e.BikeID }
func (e RangeBlocked) OccurredAt() time.Time { return e.At }

type RangeReleased struct {
	BikeID string
	Range  dates.DateRange
	Reason BlockReason
	At     time.Time
}

func (e RangeReleased) EventName() string     { return "calendar.released" }
func (e RangeReleased) AggregateID() string   { return e.BikeID }
func (e RangeReleased) OccurredAt() time.Time { return e.At }

type OverbookingPrevented struct {
	BikeID string
	Range  dates.DateRange
	At     time.Time
}

func (e OverbookingPrevented) EventName() string     { return "calendar.overbooking_prevented" }
func (e OverbookingPrevented) AggregateID() string   { return e.BikeID }
func (e OverbookingPrevented) OccurredAt() time.Time { return e.At }
