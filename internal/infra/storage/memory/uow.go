package memory

import (
	"context"
	"errors"

	"bikely/internal/app/uow"
	domainbikes "bikely/internal/domain/bikes"
	domainbooking "bikely/internal/domain/booking"
	domaincalendar "bikely/internal/domain/calendar"
)

// ErrFactoryMisconfigured indicates missing repositories.
var ErrFactoryMisconfigured = errors.New("memory: unit of work factory misconfigured")

// Factory wires in-memory repositories into a unit-of-work boundary.
type Factory struct {
	BikeRepo     domainbikes.Repository
	CalendarRepo domaincalendar.Repository
	BookingRepo  domainbooking.Repository
}

// Begin starts a lightweight transaction boundary. No isolation is
// provided, but the shape matches the application ports.
func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.BikeRepo == nil || f.CalendarRepo == nil || f.BookingRepo == nil {
		return nil, ErrFactoryMisconfigured
	}
	return &Unit{bikes: f.BikeRepo, calendars: f.CalendarRepo, bookings: f.BookingRepo}, nil
}

// Unit is a uow.UnitOfWork backed by in-memory stores.
type Unit struct {
	bikes     domainbikes.Repository
	calendars domaincalendar.Repository
	bookings  domainbooking.Repository
}

func (u *Unit) Bikes() domainbikes.Repository { return u.bikes }
func (u *Unit) Calendars() domaincalendar.Repository { return u.calendars }
func (u *Unit) Bookings() domainbooking.Repository { return u.bookings }
func (u *Unit) Commit(ctx context.Context) error { return nil }
func (u *Unit) Rollback(ctx context.Context) error { return nil }

var _ uow.UoWFactory = Factory{}
