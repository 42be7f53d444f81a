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
	domainbooking "bikely/internal/domain/booking"
)

const confirmBookingKey = "booking.confirm"

type ConfirmBookingCommand struct {
	BookingID       string
	OwnerID         string
	OwnerAccountID  string
	IdempotencyKeyV string
}

func (c ConfirmBookingCommand) Key() string { return confirmBookingKey }

func (c ConfirmBookingCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c ConfirmBookingCommand) ResultPrototype() any { return &ConfirmBookingResult{} }

type ConfirmBookingResult struct {
	BookingID string `json:"booking_id"`
	StatusID  int    `json:"status_id"`
}

// ConfirmBookingHandler runs the owner-confirm transition: payout
// capability check first, then the state transition, then the capture.
// A capability failure leaves the booking Pending and surfaces as
// ErrPaymentSetupRequired so callers can route the owner to account setup.
type ConfirmBookingHandler struct {
	UoWFactory uow.UoWFactory
	Payments   policies.PaymentsPort
	Notifier   policies.Notifier
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Now        func() time.Time
}

func (h *ConfirmBookingHandler) Handle(ctx context.Context, cmd ConfirmBookingCommand) (*ConfirmBookingResult, error) {
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

	if h.Payments != nil {
		if err := h.Payments.CheckPayoutCapability(ctx, cmd.OwnerAccountID); err != nil {
			if errors.Is(err, policies.ErrPayoutsDisabled) {
				return nil, domainbooking.ErrPaymentSetupRequired
			}
			return nil, err
		}
	}

	now := h.now()
	if err := bk.Confirm(now); err != nil {
		return nil, err
	}
	if h.Payments != nil {
		if err := h.Payments.Capture(ctx, bk.PaymentHold); err != nil {
			return nil, err
		}
	}
	if err := unit.Bookings().Save(ctx, bk); err != nil {
		return nil, err
	}
	if err := drainEvents(ctx, h.Outbox, encoderOrDefault(h.Encoder), bk); err != nil {
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
		Template:  "booking_confirmed",
		BookingID: string(bk.ID),
		Data: map[string]string{
			"date_from": bk.Range.Start.String(),
			"date_end":  bk.Range.End.String(),
		},
	})

	return &ConfirmBookingResult{BookingID: string(bk.ID), StatusID: int(bk.Status)}, nil
}

func (h *ConfirmBookingHandler) now() time.Time {
	if h.Now != nil {
		return h.Now().UTC()
	}
	return time.Now().UTC()
}

var _ commands.Handler[ConfirmBookingCommand, *ConfirmBookingResult] = (*ConfirmBookingHandler)(nil)
var _ middleware.IdempotentCommand = (*ConfirmBookingCommand)(nil)
