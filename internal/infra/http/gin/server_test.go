package ginserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bikely/internal/app/commands"
	availabilityapp "bikely/internal/app/handlers/availability"
	bookingapp "bikely/internal/app/handlers/booking"
	"bikely/internal/app/middleware"
	"bikely/internal/app/queries"
	"bikely/internal/domain/bikes"
	"bikely/internal/domain/pricing"
	"bikely/internal/domain/shared/money"
	"bikely/internal/infra/config"
	"bikely/internal/infra/obs"
	"bikely/internal/infra/storage/memory"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

	bikeRepo := memory.NewBikeRepository()
	bike, err := bikes.NewBike(bikes.CreateParams{
		ID:        "bike-1",
		Owner:     "owner-1",
		Title:     "Test bike",
		City:      "Hamburg",
		BikeType:  "city",
		DailyRate: money.Must(1000, "EUR"),
		Now:       now,
	})
	require.NoError(t, err)
	require.NoError(t, bike.Activate(now))
	require.NoError(t, bikeRepo.Save(context.Background(), bike))

	factory := memory.Factory{
		BikeRepo:     bikeRepo,
		CalendarRepo: memory.NewCalendarRepository(),
		BookingRepo:  memory.NewBookingRepository(),
	}
	outboxStore := memory.NewOutbox()
	payments := memory.NewPayments()

	commandBus := commands.NewInMemoryBus()
	commands.RegisterHandler(commandBus, bookingapp.RequestBookingCommand{}.Key(), &bookingapp.RequestBookingHandler{
		UoWFactory: factory,
		Quoter:     pricing.FixedFeeQuoter{ServiceFee: money.Must(200, "EUR")},
		Payments:   payments,
		Outbox:     outboxStore,
		Now:        func() time.Time { return now },
	})
	commands.RegisterHandler(commandBus, bookingapp.ConfirmBookingCommand{}.Key(), &bookingapp.ConfirmBookingHandler{
		UoWFactory: factory,
		Payments:   payments,
		Outbox:     outboxStore,
		Now:        func() time.Time { return now },
	})

	queryBus := queries.NewInMemoryBus()
	queries.RegisterHandler(queryBus, availabilityapp.GetCalendarQuery{}.Key(), &availabilityapp.GetCalendarHandler{UoWFactory: factory})
	queries.RegisterHandler(queryBus, bookingapp.ListBookingsQuery{}.Key(), &bookingapp.ListBookingsHandler{UoWFactory: factory})

	chained := middleware.ChainCommands(
		commandBus,
		middleware.Idempotency(memory.NewIdempotencyStore(), nil),
		middleware.Transaction(factory, nil),
		middleware.OutboxFlush(outboxStore),
	)

	srv := NewServer(config.Config{Env: "test", HTTPAddr: ":0"}, obs.Middleware{}, obs.HealthHandlers{}, Handlers{
		Booking:      BookingHandler{Commands: chained},
		Availability: AvailabilityHandler{Queries: middleware.ChainQueries(queryBus)},
		Me:           MeHandler{Queries: middleware.ChainQueries(queryBus)},
		Identity:     IdentityMiddleware{}.Handle,
	})
	return srv.Handler
}

func doJSON(t *testing.T, h http.Handler, method, path, userID, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCreateBooking_RequiresIdentity(t *testing.T) {
	h := newTestServer(t)
	rec := doJSON(t, h, http.MethodPost, "/api/v1/bookings", "", `{"bike_id":"bike-1","date_from":"2024-06-10","date_end":"2024-06-12"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBookingFlowOverHTTP(t *testing.T) {
	h := newTestServer(t)

	rec := doJSON(t, h, http.MethodPost, "/api/v1/bookings", "renter-1", `{"bike_id":"bike-1","date_from":"2024-06-10","date_end":"2024-06-12"}`)
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	var created struct {
		BookingID string `json:"booking_id"`
		Days      int    `json:"days"`
		Cents     int64  `json:"total_cents"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, 3, created.Days)
	assert.Equal(t, int64(3200), created.Cents)

	// Same dates again conflict.
	rec = doJSON(t, h, http.MethodPost, "/api/v1/bookings", "renter-2", `{"bike_id":"bike-1","date_from":"2024-06-11","date_end":"2024-06-13"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// The calendar reflects the reserved days.
	rec = doJSON(t, h, http.MethodGet, "/api/v1/bikes/bike-1/calendar", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var cal struct {
		BlockedDays []string `json:"blocked_days"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cal))
	assert.Equal(t, []string{"2024-06-10", "2024-06-11", "2024-06-12"}, cal.BlockedDays)

	// Only the owner may confirm.
	rec = doJSON(t, h, http.MethodPost, "/api/v1/bookings/"+created.BookingID+"/confirm", "renter-1", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = doJSON(t, h, http.MethodPost, "/api/v1/bookings/"+created.BookingID+"/confirm", "owner-1", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// Renter sees the booking as confirmed.
	rec = doJSON(t, h, http.MethodGet, "/api/v1/me/bookings", "renter-1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var listing struct {
		Items []struct {
			StatusID int    `json:"status_id"`
			Status   string `json:"status"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listing))
	require.Len(t, listing.Items, 1)
	assert.Equal(t, 2, listing.Items[0].StatusID)
}
