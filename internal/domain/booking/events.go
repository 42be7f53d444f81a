package booking

import (
	"time"

	"bikely/internal/domain/bikes"
	"bikely/internal/domain/dates"
	"bikely/internal/domain/shared/money"
)

type BookingRequested struct {
	BookingID BookingID
	BikeID    bikes.BikeID
	RenterID  string
	Range     dates.DateRange
	Days      int
	Total     money.Money
	At        time.Time
}

func (e BookingRequested) EventName() string     { return "booking.requested" }
func (e BookingRequested) AggregateID() string   { return string(e.BookingID) }
func (e BookingRequested) OccurredAt() time.Time { return e.At }

type BookingConfirmed struct {
	BookingID BookingID
	BikeID    bikes.BikeID
	Range     dates.DateRange
	Total     money.Money
	At        time.Time
}

func (e BookingConfirmed) EventName() string     { return "booking.confirmed" }
func (e BookingConfirmed) AggregateID() string   { return string(e.BookingID) }
func (e BookingConfirmed) OccurredAt() time.Time { return e.At }

type BookingDeclined struct {
	BookingID BookingID
	BikeID    bikes.BikeID
	Reason    string
	At        time.Time
}

func (e BookingDeclined) EventName() string     { return "booking.declined" }
func (e BookingDeclined) AggregateID() string   { return string(e.BookingID) }
func (e BookingDeclined) OccurredAt() time.Time { return e.At }

type BookingPickedUp struct {
	BookingID BookingID
	BikeID    bikes.BikeID
	At        time.Time
}

func (e BookingPickedUp) EventName() string     { return "booking.picked_up" }
func (e BookingPickedUp) AggregateID() string   { return string(e.BookingID) }
func (e BookingPickedUp) OccurredAt() time.Time { return e.At }

type BookingReturned struct {
	BookingID BookingID
	BikeID    bikes.BikeID
	RenterID  string
	At        time.Time
}

func (e BookingReturned) EventName() string     { return "booking.returned" }
func (e BookingReturned) AggregateID() string   { return string(e.BookingID) }
func (e BookingReturned) OccurredAt() time.Time { return e.At }
