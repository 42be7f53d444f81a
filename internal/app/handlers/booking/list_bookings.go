package booking

import (
	"context"

	"bikely/internal/app/dto"
	"bikely/internal/app/queries"
	"bikely/internal/app/uow"
	domainbikes "bikely/internal/domain/bikes"
)

const listBookingsKey = "booking.list"

// ListBookingsQuery returns a party's bookings: Role selects which side of
// the marketplace the caller is on.
type ListBookingsQuery struct {
	PartyID string
	Role    string // "renter" or "owner"
}

func (q ListBookingsQuery) Key() string { return listBookingsKey }

type ListBookingsHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *ListBookingsHandler) Handle(ctx context.Context, q ListBookingsQuery) (dto.BookingCollection, error) {
	unit, ok := uow.FromContext(ctx)
	if !ok {
		if h.UoWFactory == nil {
			return dto.BookingCollection{}, ErrUnitOfWorkRequired
		}
		var err error
		unit, err = h.UoWFactory.Begin(ctx, uow.TxOptions{ReadOnly: true})
		if err != nil {
			return dto.BookingCollection{}, err
		}
		ctx = uow.ContextWithUnitOfWork(ctx, unit)
		defer unit.Rollback(ctx)
	}

	if q.Role == "owner" {
		items, err := unit.Bookings().ListByOwner(ctx, domainbikes.OwnerID(q.PartyID))
		if err != nil {
			return dto.BookingCollection{}, err
		}
		return dto.MapBookingCollection(items), nil
	}
	items, err := unit.Bookings().ListByRenter(ctx, q.PartyID)
	if err != nil {
		return dto.BookingCollection{}, err
	}
	return dto.MapBookingCollection(items), nil
}

var _ queries.Handler[ListBookingsQuery, dto.BookingCollection] = (*ListBookingsHandler)(nil)
