package booking

import (
	"context"
	"time"

	"bikely/internal/app/commands"
	"bikely/internal/app/middleware"
	"bikely/internal/app/outbox"
	"bikely/internal/app/policies"
	"bikely/internal/app/uow"
	domainbooking "bikely/internal/domain/booking"
)

const declineBookingKey = "booking.decline"

type DeclineBookingCommand struct {
	BookingID       string
	OwnerID         string
	Reason          string
	IdempotencyKeyV string
}

func (c DeclineBookingCommand) Key() string { return declineBookingKey }

func (c DeclineBookingCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c DeclineBookingCommand) ResultPrototype() any { return &DeclineBookingResult{} }

type DeclineBookingResult struct {
	BookingID string `json:"booking_id"`
	StatusID  int    `json:"status_id"`
}

// DeclineBookingHandler cancels a pending request: the payment hold is
// released and the calendar block freed so the dates go back on sale.
type DeclineBookingHandler struct {
	UoWFactory uow.UoWFactory
	Payments   policies.PaymentsPort
	Notifier   policies.Notifier
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Now        func() time.Time
}

func (h *DeclineBookingHandler) Handle(ctx context.Context, cmd DeclineBookingCommand) (*DeclineBookingResult, error) {
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

	bk, err := unit.Bookings().ByID(ctx, domainbooking.BookingID(cmd.BookingID))
	if err != nil {
		return nil, err
	}
	if string(bk.OwnerID) != cmd.OwnerID {
		return nil, domainbooking.ErrNotYourBooking
	}

	now := h.now()
	if err := bk.Decline(cmd.Reason, now); err != nil {
		return nil, err
	}
	if h.Payments != nil && bk.PaymentHold != "" {
		if err := h.Payments.Release(ctx, bk.PaymentHold); err != nil {
			return nil, err
		}
	}

	cal, err := unit.Calendars().Calendar(ctx, bk.BikeID)
	if err != nil {
		return nil, err
	}
	if err := cal.Release(string(bk.ID), now); err != nil {
		return nil, err
	}
	if err := unit.Calendars().Save(ctx, cal); err != nil {
		return nil, err
	}
	if err := unit.Bookings().Save(ctx, bk); err != nil {
		return nil, err
	}
	if err := drainEvents(ctx, h.Outbox, encoderOrDefault(h.Encoder), bk, cal); err != nil {
		return nil, err
	}

	if managed {
		if err := unit.Commit(ctx); err != nil {
			return nil, err
		}
		committed = true
	}

	notify(ctx, h.Notifier, policies.Notification{
		To:        bk.RenterID,
		Template:  "booking_declined",
		BookingID: string(bk.ID),
		Data:      map[string]string{"reason": cmd.Reason},
	})

	return &DeclineBookingResult{BookingID: string(bk.ID), StatusID: int(bk.Status)}, nil
}

func (h *DeclineBookingHandler) now() time.Time {
	if h.Now != nil {
		return h.Now().UTC()
	}
	return time.Now().UTC()
}

var _ commands.Handler[DeclineBookingCommand, *DeclineBookingResult] = (*DeclineBookingHandler)(nil)
var _ middleware.IdempotentCommand = (*DeclineBookingCommand)(nil)
