package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bikely/internal/domain/bikes"
	"bikely/internal/domain/dates"
	"bikely/internal/domain/shared/money"
)

func testBike(t *testing.T, rateCents int64) *bikes.Bike {
	t.Helper()
	b, err := bikes.NewBike(bikes.CreateParams{
		ID:        "bike-1",
		Owner:     "owner-1",
		Title:     "City cruiser",
		DailyRate: money.Must(rateCents, "EUR"),
		Now:       time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return b
}

func TestQuote_MultiDay(t *testing.T) {
	q := FixedFeeQuoter{ServiceFee: money.Must(300, "EUR")}
	r, _ := dates.NewRange("2024-06-10", "2024-06-12")

	got, err := q.Quote(testBike(t, 1500), r)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Days)
	assert.Equal(t, int64(1500*3+300), got.Total.Cents)
}

func TestQuote_SingleDayCostsOneRatePlusFees(t *testing.T) {
	q := FixedFeeQuoter{ServiceFee: money.Must(300, "EUR")}
	r, _ := dates.NewRange("2024-06-10", "2024-06-10")

	got, err := q.Quote(testBike(t, 1500), r)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Days)
	assert.Equal(t, int64(1500+300), got.Total.Cents)
}

func TestQuote_NoFee(t *testing.T) {
	q := FixedFeeQuoter{}
	r, _ := dates.NewRange("2024-06-10", "2024-06-11")

	got, err := q.Quote(testBike(t, 2000), r)
	require.NoError(t, err)
	assert.Equal(t, int64(4000), got.Total.Cents)
	assert.Equal(t, "EUR", got.Total.Currency)
}

func TestQuote_InvalidInputs(t *testing.T) {
	q := FixedFeeQuoter{}

	_, err := q.Quote(testBike(t, 2000), dates.DateRange{Start: "2024-06-12", End: "2024-06-10"})
	assert.ErrorIs(t, err, ErrNoDays)

	r, _ := dates.NewRange("2024-06-10", "2024-06-11")
	_, err = q.Quote(nil, r)
	assert.ErrorIs(t, err, ErrRateMissing)
}
