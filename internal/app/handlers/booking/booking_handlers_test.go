package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bikely/internal/app/policies"
	domainbikes "bikely/internal/domain/bikes"
	domainbooking "bikely/internal/domain/booking"
	domaincalendar "bikely/internal/domain/calendar"
	"bikely/internal/domain/pricing"
	"bikely/internal/domain/shared/money"
	"bikely/internal/infra/storage/memory"
)

var handlerNow = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

type paymentsStub struct {
	mu       sync.Mutex
	holds    int
	captures int
	releases int

	capabilityErr error
	holdErr       error
}

func (p *paymentsStub) CheckPayoutCapability(ctx context.Context, ownerAccountID string) error {
	return p.capabilityErr
}

func (p *paymentsStub) PlaceHold(ctx context.Context, bookingID string, amount money.Money) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.holdErr != nil {
		return "", p.holdErr
	}
	p.holds++
	return "hold-" + bookingID, nil
}

func (p *paymentsStub) Capture(ctx context.Context, holdID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.captures++
	return nil
}

func (p *paymentsStub) Release(ctx context.Context, holdID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.releases++
	return nil
}

type notifierStub struct {
	mu   sync.Mutex
	sent []policies.Notification
}

func (n *notifierStub) Send(ctx context.Context, msg policies.Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, msg)
	return nil
}

func (n *notifierStub) templates() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, 0, len(n.sent))
	for _, msg := range n.sent {
		out = append(out, msg.Template)
	}
	return out
}

type fixture struct {
	factory  memory.Factory
	payments *paymentsStub
	notifier *notifierStub
	bike     *domainbikes.Bike
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	bikeRepo := memory.NewBikeRepository()
	bike, err := domainbikes.NewBike(domainbikes.CreateParams{
		ID:        "bike-1",
		Owner:     "owner-1",
		Title:     "City cruiser",
		City:      "Hamburg",
		BikeType:  "city",
		DailyRate: money.Must(1500, "EUR"),
		Now:       handlerNow,
	})
	require.NoError(t, err)
	require.NoError(t, bike.Activate(handlerNow))
	require.NoError(t, bikeRepo.Save(context.Background(), bike))

	return &fixture{
		factory: memory.Factory{
			BikeRepo:     bikeRepo,
			CalendarRepo: memory.NewCalendarRepository(),
			BookingRepo:  memory.NewBookingRepository(),
		},
		payments: &paymentsStub{},
		notifier: &notifierStub{},
		bike:     bike,
	}
}

func (f *fixture) requestHandler() *RequestBookingHandler {
	return &RequestBookingHandler{
		UoWFactory: f.factory,
		Quoter:     pricing.FixedFeeQuoter{ServiceFee: money.Must(300, "EUR")},
		Payments:   f.payments,
		Outbox:     memory.NewOutbox(),
		Now:        func() time.Time { return handlerNow },
	}
}

func (f *fixture) request(t *testing.T, id, renter, from, to string) *RequestBookingResult {
	t.Helper()
	res, err := f.requestHandler().Handle(context.Background(), RequestBookingCommand{
		CommandID: id,
		BikeID:    string(f.bike.ID),
		RenterID:  renter,
		DateFrom:  from,
		DateEnd:   to,
	})
	require.NoError(t, err)
	return res
}

func TestRequestBooking_QuotesAndHolds(t *testing.T) {
	f := newFixture(t)

	res := f.request(t, "cmd-1", "renter-1", "2024-06-10", "2024-06-12")

	assert.Equal(t, 3, res.Days)
	assert.Equal(t, int64(3*1500+300), res.Cents)
	assert.Equal(t, "EUR", res.Currency)
	assert.Equal(t, 1, f.payments.holds)

	bk, err := f.factory.BookingRepo.ByID(context.Background(), domainbooking.BookingID(res.BookingID))
	require.NoError(t, err)
	assert.Equal(t, domainbooking.StatusPending, bk.Status)
	assert.Equal(t, "hold-cmd-1", bk.PaymentHold)
}

func TestRequestBooking_OverlapRejected(t *testing.T) {
	f := newFixture(t)
	f.request(t, "cmd-1", "renter-1", "2024-06-10", "2024-06-12")

	_, err := f.requestHandler().Handle(context.Background(), RequestBookingCommand{
		CommandID: "cmd-2",
		BikeID:    string(f.bike.ID),
		RenterID:  "renter-2",
		DateFrom:  "2024-06-11",
		DateEnd:   "2024-06-14",
	})
	require.ErrorIs(t, err, domaincalendar.ErrDateBlocked)
	assert.Equal(t, 1, f.payments.holds)
}

func TestRequestBooking_AdjacentRangeAccepted(t *testing.T) {
	f := newFixture(t)
	f.request(t, "cmd-1", "renter-1", "2024-06-10", "2024-06-12")

	res := f.request(t, "cmd-2", "renter-2", "2024-06-13", "2024-06-14")
	assert.Equal(t, 2, res.Days)
}

func TestRequestBooking_Guards(t *testing.T) {
	f := newFixture(t)

	_, err := f.requestHandler().Handle(context.Background(), RequestBookingCommand{
		CommandID: "cmd-1",
		BikeID:    string(f.bike.ID),
		RenterID:  "owner-1",
		DateFrom:  "2024-06-10",
		DateEnd:   "2024-06-12",
	})
	assert.ErrorIs(t, err, ErrOwnBike)

	_, err = f.requestHandler().Handle(context.Background(), RequestBookingCommand{
		CommandID: "cmd-2",
		BikeID:    string(f.bike.ID),
		RenterID:  "renter-1",
		DateFrom:  "2024-05-20",
		DateEnd:   "2024-05-22",
	})
	assert.ErrorIs(t, err, ErrStartInPast)

	assert.Equal(t, 0, f.payments.holds)
}

func TestConfirmBooking_CapturesOnce(t *testing.T) {
	f := newFixture(t)
	res := f.request(t, "cmd-1", "renter-1", "2024-06-10", "2024-06-12")

	confirm := &ConfirmBookingHandler{
		UoWFactory: f.factory,
		Payments:   f.payments,
		Notifier:   f.notifier,
		Outbox:     memory.NewOutbox(),
		Now:        func() time.Time { return handlerNow },
	}
	cmd := ConfirmBookingCommand{
		BookingID:      res.BookingID,
		OwnerID:        "owner-1",
		OwnerAccountID: "acct-1",
	}

	out, err := confirm.Handle(context.Background(), cmd)
	require.NoError(t, err)
	assert.Equal(t, int(domainbooking.StatusConfirmed), out.StatusID)

	_, err = confirm.Handle(context.Background(), cmd)
	require.ErrorIs(t, err, domainbooking.ErrInvalidTransition)
	assert.Equal(t, 1, f.payments.captures)
}

func TestConfirmBooking_PayoutsDisabled(t *testing.T) {
	f := newFixture(t)
	res := f.request(t, "cmd-1", "renter-1", "2024-06-10", "2024-06-12")
	f.payments.capabilityErr = policies.ErrPayoutsDisabled

	confirm := &ConfirmBookingHandler{
		UoWFactory: f.factory,
		Payments:   f.payments,
		Notifier:   f.notifier,
		Outbox:     memory.NewOutbox(),
		Now:        func() time.Time { return handlerNow },
	}
	_, err := confirm.Handle(context.Background(), ConfirmBookingCommand{
		BookingID:      res.BookingID,
		OwnerID:        "owner-1",
		OwnerAccountID: "acct-1",
	})
	require.ErrorIs(t, err, domainbooking.ErrPaymentSetupRequired)

	bk, err := f.factory.BookingRepo.ByID(context.Background(), domainbooking.BookingID(res.BookingID))
	require.NoError(t, err)
	assert.Equal(t, domainbooking.StatusPending, bk.Status)
	assert.Equal(t, 0, f.payments.captures)
}

func TestDeclineBooking_ReleasesHoldAndCalendar(t *testing.T) {
	f := newFixture(t)
	res := f.request(t, "cmd-1", "renter-1", "2024-06-10", "2024-06-12")

	decline := &DeclineBookingHandler{
		UoWFactory: f.factory,
		Payments:   f.payments,
		Notifier:   f.notifier,
		Outbox:     memory.NewOutbox(),
		Now:        func() time.Time { return handlerNow },
	}
	out, err := decline.Handle(context.Background(), DeclineBookingCommand{
		BookingID: res.BookingID,
		OwnerID:   "owner-1",
		Reason:    "bike in repair",
	})
	require.NoError(t, err)
	assert.Equal(t, int(domainbooking.StatusCancelled), out.StatusID)
	assert.Equal(t, 1, f.payments.releases)

	// The declined range is bookable again.
	res2 := f.request(t, "cmd-2", "renter-2", "2024-06-10", "2024-06-12")
	assert.Equal(t, 3, res2.Days)
}

func TestBookingLifecycle_EndToEnd(t *testing.T) {
	f := newFixture(t)
	res := f.request(t, "cmd-1", "renter-1", "2024-06-10", "2024-06-12")

	confirm := &ConfirmBookingHandler{
		UoWFactory: f.factory,
		Payments:   f.payments,
		Notifier:   f.notifier,
		Outbox:     memory.NewOutbox(),
		Now:        func() time.Time { return handlerNow },
	}
	_, err := confirm.Handle(context.Background(), ConfirmBookingCommand{
		BookingID:      res.BookingID,
		OwnerID:        "owner-1",
		OwnerAccountID: "acct-1",
	})
	require.NoError(t, err)

	pickup := &PickUpBookingHandler{
		UoWFactory: f.factory,
		Notifier:   f.notifier,
		Outbox:     memory.NewOutbox(),
		Now:        func() time.Time { return handlerNow },
	}
	_, err = pickup.Handle(context.Background(), PickUpBookingCommand{
		BookingID: res.BookingID,
		RenterID:  "renter-1",
	})
	require.NoError(t, err)

	// Only the renter may register the pickup, only the owner the return.
	ret := &ReturnBookingHandler{
		UoWFactory: f.factory,
		Notifier:   f.notifier,
		Outbox:     memory.NewOutbox(),
		Now:        func() time.Time { return handlerNow },
	}
	_, err = ret.Handle(context.Background(), ReturnBookingCommand{
		BookingID: res.BookingID,
		OwnerID:   "renter-1",
	})
	require.ErrorIs(t, err, domainbooking.ErrNotYourBooking)

	out, err := ret.Handle(context.Background(), ReturnBookingCommand{
		BookingID: res.BookingID,
		OwnerID:   "owner-1",
	})
	require.NoError(t, err)
	assert.True(t, out.ReviewOpen)

	bk, err := f.factory.BookingRepo.ByID(context.Background(), domainbooking.BookingID(res.BookingID))
	require.NoError(t, err)
	assert.Equal(t, domainbooking.StatusReturned, bk.Status)
	assert.Contains(t, f.notifier.templates(), "review_prompt")
}
