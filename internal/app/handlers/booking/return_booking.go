package booking

import (
	"context"
	"time"

	"bikely/internal/app/commands"
	"bikely/internal/app/outbox"
	"bikely/internal/app/policies"
	"bikely/internal/app/uow"
	domainbikes "bikely/internal/domain/bikes"
	domainbooking "bikely/internal/domain/booking"
)

const returnBookingKey = "booking.return"

type ReturnBookingCommand struct {
	BookingID string
	OwnerID   string
}

func (c ReturnBookingCommand) Key() string { return returnBookingKey }

type ReturnBookingResult struct {
	BookingID  string `json:"booking_id"`
	StatusID   int    `json:"status_id"`
	ReviewOpen bool   `json:"review_open"`
}

// ReturnBookingHandler completes the rental. Both parties get a review
// prompt once the owner marks the bike returned.
type ReturnBookingHandler struct {
	UoWFactory uow.UoWFactory
	Notifier   policies.Notifier
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Now        func() time.Time
}

func (h *ReturnBookingHandler) Handle(ctx context.Context, cmd ReturnBookingCommand) (*ReturnBookingResult, error) {
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
	if err := bk.MarkReturned(domainbikes.OwnerID(cmd.OwnerID), h.now()); err != nil {
		return nil, err
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

	for _, party := range []string{bk.RenterID, string(bk.OwnerID)} {
		notify(ctx, h.Notifier, policies.Notification{
			To:        party,
			Template:  "review_prompt",
			BookingID: string(bk.ID),
		})
	}

	return &ReturnBookingResult{BookingID: string(bk.ID), StatusID: int(bk.Status), ReviewOpen: bk.ReviewOpen}, nil
}

func (h *ReturnBookingHandler) now() time.Time {
	if h.Now != nil {
		return h.Now().UTC()
	}
	return time.Now().UTC()
}

var _ commands.Handler[ReturnBookingCommand, *ReturnBookingResult] = (*ReturnBookingHandler)(nil)
