package booking

import (
	"context"
	"errors"
	"time"

	"bikely/internal/domain/bikes"
	"bikely/internal/domain/dates"
	"bikely/internal/domain/shared/events"
	"bikely/internal/domain/shared/money"
)

var (
	ErrInvalidTransition     = errors.New("booking: event not allowed in current status")
	ErrPaymentSetupRequired  = errors.New("booking: owner payout account is not ready to take payments")
	ErrNotYourBooking        = errors.New("booking: actor does not own this side of the booking")
	ErrRenterRequired        = errors.New("booking: renter id required")
	ErrBookingNotFound       = errors.New("booking: not found")
	ErrNonPositivePrice      = errors.New("booking: total price must be positive")
	ErrDeclineReasonRequired = errors.New("booking: decline reason required")
)

type BookingID string

// Status is the integer lifecycle code carried on the wire. Cancelled is a
// terminal state reachable from Pending only.
type Status int

const (
	StatusPending   Status = 1
	StatusConfirmed Status = 2
	StatusPickedUp  Status = 3
	StatusReturned  Status = 4
	StatusCancelled Status = 5
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "PENDING"
	case StatusConfirmed:
		return "CONFIRMED"
	case StatusPickedUp:
		return "PICKED_UP"
	case StatusReturned:
		return "RETURNED"
	case StatusCancelled:
		return "CANCELLED"
	default:
		return "UNKNOWN"
	}
}

// Booking is one renter's reservation of one bike for an inclusive date
// range. Status is the only field the lifecycle mutates; price and range
// are fixed at creation.
type Booking struct {
	ID            BookingID
	BikeID        bikes.BikeID
	OwnerID       bikes.OwnerID
	RenterID      string
	Range         dates.DateRange
	Days          int
	Total         money.Money
	Status        Status
	PaymentHold   string
	DeclineReason string
	ReviewOpen    bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Version       int64
	events.EventRecorder
}

type Repository interface {
	ByID(ctx context.Context, id BookingID) (*Booking, error)
	Save(ctx context.Context, booking *Booking) error
	ListByRenter(ctx context.Context, renterID string) ([]*Booking, error)
	ListByOwner(ctx context.Context, ownerID bikes.OwnerID) ([]*Booking, error)
	ListByBike(ctx context.Context, bikeID bikes.BikeID) ([]*Booking, error)
}

type CreateParams struct {
	ID          BookingID
	BikeID      bikes.BikeID
	OwnerID     bikes.OwnerID
	RenterID    string
	Range       dates.DateRange
	Total       money.Money
	PaymentHold string
	Now         time.Time
}

// NewBooking creates a Pending booking. The range must already have passed
// selection validation; the price was quoted once from the inclusive day
// count and is never recomputed.
func NewBooking(params CreateParams) (*Booking, error) {
	if params.RenterID == "" {
		return nil, ErrRenterRequired
	}
	if err := params.Range.Validate(); err != nil {
		return nil, err
	}
	if !params.Total.IsPositive() {
		return nil, ErrNonPositivePrice
	}
	now := params.Now.UTC()
	b := &Booking{
		ID:          params.ID,
		BikeID:      params.BikeID,
		OwnerID:     params.OwnerID,
		RenterID:    params.RenterID,
		Range:       params.Range,
		Days:        params.Range.Days(),
		Total:       params.Total,
		PaymentHold: params.PaymentHold,
		Status:      StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	b.Record(BookingRequested{
		BookingID: b.ID, BikeID: b.BikeID, RenterID: b.RenterID,
		Range: b.Range, Days: b.Days, Total: b.Total, At: now,
	})
	return b, nil
}

// Confirm moves Pending to Confirmed. The payment hold taken at request
// time must be present; without it the caller gets ErrPaymentSetupRequired,
// which drives a different recovery path than a plain conflict.
// Re-confirming is ErrInvalidTransition so a capture can never run twice.
func (b *Booking) Confirm(now time.Time) error {
	if b.Status != StatusPending {
		return ErrInvalidTransition
	}
	if b.PaymentHold == "" {
		return ErrPaymentSetupRequired
	}
	b.Status = StatusConfirmed
	b.UpdatedAt = now.UTC()
	b.Record(BookingConfirmed{BookingID: b.ID, BikeID: b.BikeID, Range: b.Range, Total: b.Total, At: b.UpdatedAt})
	return nil
}

// Decline moves Pending to Cancelled.
func (b *Booking) Decline(reason string, now time.Time) error {
	if b.Status != StatusPending {
		return ErrInvalidTransition
	}
	if reason == "" {
		return ErrDeclineReasonRequired
	}
	b.Status = StatusCancelled
	b.DeclineReason = reason
	b.UpdatedAt = now.UTC()
	b.Record(BookingDeclined{BookingID: b.ID, BikeID: b.BikeID, Reason: reason, At: b.UpdatedAt})
	return nil
}

// PickUp moves Confirmed to PickedUp and belongs to the renter alone.
func (b *Booking) PickUp(renterID string, now time.Time) error {
	if b.Status != StatusConfirmed {
		return ErrInvalidTransition
	}
	if renterID != b.RenterID {
		return ErrNotYourBooking
	}
	b.Status = StatusPickedUp
	b.UpdatedAt = now.UTC()
	b.Record(BookingPickedUp{BookingID: b.ID, BikeID: b.BikeID, At: b.UpdatedAt})
	return nil
}

// MarkReturned moves PickedUp to Returned, owner only, and opens the review
// window for both parties.
func (b *Booking) MarkReturned(ownerID bikes.OwnerID, now time.Time) error {
	if b.Status != StatusPickedUp {
		return ErrInvalidTransition
	}
	if ownerID != b.OwnerID {
		return ErrNotYourBooking
	}
	b.Status = StatusReturned
	b.ReviewOpen = true
	b.UpdatedAt = now.UTC()
	b.Record(BookingReturned{BookingID: b.ID, BikeID: b.BikeID, RenterID: b.RenterID, At: b.UpdatedAt})
	return nil
}

// Active reports whether the booking still holds its calendar block.
func (b *Booking) Active() bool {
	switch b.Status {
	case StatusPending, StatusConfirmed, StatusPickedUp:
		return true
	default:
		return false
	}
}
