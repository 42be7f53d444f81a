package booking

import (
	"context"
	"errors"
	"time"

	"bikely/internal/app/commands"
	"bikely/internal/app/middleware"
	"bikely/internal/app/outbox"
	"bikely/internal/app/policies"
	"bikely/internal/app/uow"
	domainbikes "bikely/internal/domain/bikes"
	domainbooking "bikely/internal/domain/booking"
	domaincalendar "bikely/internal/domain/calendar"
	"bikely/internal/domain/dates"
	"bikely/internal/domain/pricing"
)

const requestBookingKey = "booking.request"

var (
	ErrUnitOfWorkRequired = errors.New("booking: unit of work required")
	ErrBikeNotRentable    = errors.New("booking: bike is not listed for rent")
	ErrOwnBike            = errors.New("booking: owners cannot book their own bike")
	ErrStartInPast        = errors.New("booking: start date is in the past")
)

type RequestBookingCommand struct {
	CommandID       string
	BikeID          string
	RenterID        string
	DateFrom        string
	DateEnd         string
	IdempotencyKeyV string
}

func (c RequestBookingCommand) Key() string { return requestBookingKey }

func (c RequestBookingCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c RequestBookingCommand) ResultPrototype() any { return &RequestBookingResult{} }

type RequestBookingResult struct {
	BookingID string `json:"booking_id"`
	Days      int    `json:"days"`
	Cents     int64  `json:"total_cents"`
	Currency  string `json:"currency"`
}

type RequestBookingHandler struct {
	UoWFactory uow.UoWFactory
	Quoter     pricing.Quoter
	Payments   policies.PaymentsPort
	Notifier   policies.Notifier
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Now        func() time.Time
}

func (h *RequestBookingHandler) Handle(ctx context.Context, cmd RequestBookingCommand) (*RequestBookingResult, error) {
	unit, ctx, managed, err := beginUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	committed := false
	if managed {
		defer func() {
			if !committed {
				_ = unit.Rollback(ctx)
			}
		}()
	}

	start, err := dates.Normalize(cmd.DateFrom)
	if err != nil {
		return nil, err
	}
	end, err := dates.Normalize(cmd.DateEnd)
	if err != nil {
		return nil, err
	}
	r, err := dates.NewRange(start, end)
	if err != nil {
		return nil, err
	}
	now := h.now()
	if start.Before(dates.FromTime(now)) {
		return nil, ErrStartInPast
	}

	bike, err := unit.Bikes().ByID(ctx, domainbikes.BikeID(cmd.BikeID))
	if err != nil {
		return nil, err
	}
	if !bike.Rentable() {
		return nil, ErrBikeNotRentable
	}
	if string(bike.Owner) == cmd.RenterID {
		return nil, ErrOwnBike
	}

	cal, err := unit.Calendars().Calendar(ctx, bike.ID)
	if err != nil {
		return nil, err
	}
	blocked := domaincalendar.ComputeBlockedDateSet(cal.Snapshot())
	if _, err := domaincalendar.ValidateAndAccept(domaincalendar.Selection{Start: r.Start, End: r.End}, blocked); err != nil {
		return nil, err
	}

	quote, err := h.Quoter.Quote(bike, r)
	if err != nil {
		return nil, err
	}

	holdID := ""
	if h.Payments != nil {
		holdID, err = h.Payments.PlaceHold(ctx, cmd.CommandID, quote.Total)
		if err != nil {
			return nil, err
		}
	}

	bk, err := domainbooking.NewBooking(domainbooking.CreateParams{
		ID:          domainbooking.BookingID(cmd.CommandID),
		BikeID:      bike.ID,
		OwnerID:     bike.Owner,
		RenterID:    cmd.RenterID,
		Range:       r,
		Total:       quote.Total,
		PaymentHold: holdID,
		Now:         now,
	})
	if err != nil {
		return nil, err
	}

	if err := cal.Reserve(r, string(bk.ID), now); err != nil {
		return nil, err
	}
	if err := unit.Calendars().Save(ctx, cal); err != nil {
		return nil, err
	}
	if err := unit.Bookings().Save(ctx, bk); err != nil {
		return nil, err
	}

	if err := drainEvents(ctx, h.Outbox, h.encoder(), bk, cal); err != nil {
		return nil, err
	}

	if managed {
		if err := unit.Commit(ctx); err != nil {
			return nil, err
		}
		committed = true
	}

	notify(ctx, h.Notifier, policies.Notification{
		To:        string(bike.Owner),
		Template:  "booking_requested",
		BookingID: string(bk.ID),
	})

	return &RequestBookingResult{
		BookingID: string(bk.ID),
		Days:      bk.Days,
		Cents:     bk.Total.Cents,
		Currency:  bk.Total.Currency,
	}, nil
}

func (h *RequestBookingHandler) encoder() outbox.EventEncoder {
	if h.Encoder != nil {
		return h.Encoder
	}
	return outbox.JSONEventEncoder{}
}

func (h *RequestBookingHandler) now() time.Time {
	if h.Now != nil {
		return h.Now().UTC()
	}
	return time.Now().UTC()
}

var _ commands.Handler[RequestBookingCommand, *RequestBookingResult] = (*RequestBookingHandler)(nil)
var _ middleware.IdempotentCommand = (*RequestBookingCommand)(nil)
