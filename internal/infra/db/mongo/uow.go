package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"bikely/internal/app/uow"
	domainbikes "bikely/internal/domain/bikes"
	domainbooking "bikely/internal/domain/booking"
	domaincalendar "bikely/internal/domain/calendar"
)

// Factory wires Mongo transactions into the generic UnitOfWork interface.
type Factory struct {
	DB *mongo.Database

	BikeRepo     domainbikes.Repository
	CalendarRepo domaincalendar.Repository
	BookingRepo  domainbooking.Repository
}

var ErrUnitOfWorkNotConfigured = errors.New("mongo: unit of work factory missing database")

// Begin starts a MongoDB session/transaction.
func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.DB == nil {
		return nil, ErrUnitOfWorkNotConfigured
	}
	session, err := f.DB.Client().StartSession()
	if err != nil {
		return nil, err
	}
	txnOpts := options.Transaction().SetReadConcern(f.DB.ReadConcern()).SetWriteConcern(f.DB.WriteConcern())
	if err := session.StartTransaction(txnOpts); err != nil {
		session.EndSession(ctx)
		return nil, err
	}
	return &Unit{
		db:        f.DB,
		session:   session,
		bikes:     f.BikeRepo,
		calendars: f.CalendarRepo,
		bookings:  f.BookingRepo,
	}, nil
}

type Unit struct {
	db      *mongo.Database
	session mongo.Session

	bikes     domainbikes.Repository
	calendars domaincalendar.Repository
	bookings  domainbooking.Repository
}

func (u *Unit) Bikes() domainbikes.Repository {
	return u.bikes
}

func (u *Unit) Calendars() domaincalendar.Repository {
	return u.calendars
}

func (u *Unit) Bookings() domainbooking.Repository {
	return u.bookings
}

func (u *Unit) Commit(ctx context.Context) error {
	defer u.session.EndSession(ctx)
	return u.session.CommitTransaction(ctx)
}

func (u *Unit) Rollback(ctx context.Context) error {
	defer u.session.EndSession(ctx)
	return u.session.AbortTransaction(ctx)
}

// InjectContext ensures Mongo session is available in context for downstream repos.
func (u *Unit) InjectContext(ctx context.Context) context.Context {
	return mongo.NewSessionContext(ctx, u.session)
}

var _ uow.UoWFactory = Factory{}
