package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bikely/internal/app/commands"
	bookingapp "bikely/internal/app/handlers/booking"
	"bikely/internal/domain/bikes"
	domainbooking "bikely/internal/domain/booking"
	"bikely/internal/domain/pricing"
	"bikely/internal/domain/shared/money"
	"bikely/internal/infra/storage/memory"
)

func TestExpirySweep_DeclinesStalePending(t *testing.T) {
	now := time.Date(2024, 6, 5, 12, 0, 0, 0, time.UTC)

	bikeRepo := memory.NewBikeRepository()
	bike, err := bikes.NewBike(bikes.CreateParams{
		ID:        "bike-1",
		Owner:     "owner-1",
		Title:     "Sweep bike",
		City:      "Hamburg",
		BikeType:  "city",
		DailyRate: money.Must(1000, "EUR"),
		Now:       now.Add(-96 * time.Hour),
	})
	require.NoError(t, err)
	require.NoError(t, bike.Activate(now.Add(-96*time.Hour)))
	require.NoError(t, bikeRepo.Save(context.Background(), bike))

	bookingRepo := memory.NewBookingRepository()
	factory := memory.Factory{
		BikeRepo:     bikeRepo,
		CalendarRepo: memory.NewCalendarRepository(),
		BookingRepo:  bookingRepo,
	}
	payments := memory.NewPayments()

	request := func(id, from, to string, createdAt time.Time) string {
		t.Helper()
		h := &bookingapp.RequestBookingHandler{
			UoWFactory: factory,
			Quoter:     pricing.FixedFeeQuoter{},
			Payments:   payments,
			Outbox:     memory.NewOutbox(),
			Now:        func() time.Time { return createdAt },
		}
		res, err := h.Handle(context.Background(), bookingapp.RequestBookingCommand{
			CommandID: id,
			BikeID:    "bike-1",
			RenterID:  "renter-1",
			DateFrom:  from,
			DateEnd:   to,
		})
		require.NoError(t, err)
		return res.BookingID
	}

	// Requested three days ago and never answered.
	stale := request("cmd-stale", "2024-06-20", "2024-06-22", now.Add(-72*time.Hour))
	// Requested an hour ago.
	fresh := request("cmd-fresh", "2024-06-25", "2024-06-27", now.Add(-time.Hour))

	bus := commands.NewInMemoryBus()
	commands.RegisterHandler(bus, bookingapp.DeclineBookingCommand{}.Key(), &bookingapp.DeclineBookingHandler{
		UoWFactory: factory,
		Payments:   payments,
		Outbox:     memory.NewOutbox(),
		Now:        func() time.Time { return now },
	})

	sweep := &ExpirySweep{
		Commands: bus,
		Lister:   bookingRepo,
		TTL:      48 * time.Hour,
		Now:      func() time.Time { return now },
	}
	sweep.Run(context.Background())

	bk, err := bookingRepo.ByID(context.Background(), domainbooking.BookingID(stale))
	require.NoError(t, err)
	assert.Equal(t, domainbooking.StatusCancelled, bk.Status)
	assert.Equal(t, "request expired", bk.DeclineReason)

	bk, err = bookingRepo.ByID(context.Background(), domainbooking.BookingID(fresh))
	require.NoError(t, err)
	assert.Equal(t, domainbooking.StatusPending, bk.Status)
}
