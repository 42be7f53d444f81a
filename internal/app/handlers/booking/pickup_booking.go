package booking

import (
	"context"
	"time"

	"bikely/internal/app/commands"
	"bikely/internal/app/outbox"
	"bikely/internal/app/policies"
	"bikely/internal/app/uow"
	domainbooking "bikely/internal/domain/booking"
)

const pickUpBookingKey = "booking.pickup"

type PickUpBookingCommand struct {
	BookingID string
	RenterID  string
}

func (c PickUpBookingCommand) Key() string { return pickUpBookingKey }

type PickUpBookingResult struct {
	BookingID string `json:"booking_id"`
	StatusID  int    `json:"status_id"`
}

type PickUpBookingHandler struct {
	UoWFactory uow.UoWFactory
	Notifier   policies.Notifier
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Now        func() time.Time
}

func (h *PickUpBookingHandler) Handle(ctx context.Context, cmd PickUpBookingCommand) (*PickUpBookingResult, error) {
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
	if err := bk.PickUp(cmd.RenterID, h.now()); err != nil {
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

	notify(ctx, h.Notifier, policies.Notification{
		To:        string(bk.OwnerID),
		Template:  "booking_picked_up",
		BookingID: string(bk.ID),
	})

	return &PickUpBookingResult{BookingID: string(bk.ID), StatusID: int(bk.Status)}, nil
}

func (h *PickUpBookingHandler) now() time.Time {
	if h.Now != nil {
		return h.Now().UTC()
	}
	return time.Now().UTC()
}

var _ commands.Handler[PickUpBookingCommand, *PickUpBookingResult] = (*PickUpBookingHandler)(nil)
