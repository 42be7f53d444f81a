package uow

import (
	"context"

	domainbikes "bikely/internal/domain/bikes"
	domainbooking "bikely/internal/domain/booking"
	domaincalendar "bikely/internal/domain/calendar"
)

// UnitOfWork coordinates repositories inside a transaction boundary.
type UnitOfWork interface {
	Bikes() domainbikes.Repository
	Calendars() domaincalendar.Repository
	Bookings() domainbooking.Repository

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// UoWFactory starts unit of work instances.
type UoWFactory interface {
	Begin(ctx context.Context, opts TxOptions) (UnitOfWork, error)
}

// TxOptions configure transaction boundaries.
type TxOptions struct {
	ReadOnly bool
}
