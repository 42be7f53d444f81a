package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bikely/internal/domain/dates"
)

func TestComputeBlockedDateSet_SingleBooking(t *testing.T) {
	blocked := ComputeBlockedDateSet([]ExistingBooking{
		{ID: "b1", DateFrom: "2024-06-10", DateEnd: "2024-06-12"},
	})

	require.Len(t, blocked, 3)
	for _, day := range []dates.Day{"2024-06-10", "2024-06-11", "2024-06-12"} {
		assert.True(t, blocked.Contains(day), day)
	}
	assert.False(t, blocked.Contains("2024-06-13"))
}

func TestComputeBlockedDateSet_OverlappingBookingsUnion(t *testing.T) {
	blocked := ComputeBlockedDateSet([]ExistingBooking{
		{ID: "b1", DateFrom: "2024-06-10", DateEnd: "2024-06-12"},
		{ID: "b2", DateFrom: "2024-06-11", DateEnd: "2024-06-14"},
	})
	assert.Len(t, blocked, 5)
}

func TestComputeBlockedDateSet_DatetimeInput(t *testing.T) {
	blocked := ComputeBlockedDateSet([]ExistingBooking{
		{ID: "b1", DateFrom: "2024-06-10T14:00:00Z", DateEnd: "2024-06-11T09:30:00Z"},
	})
	assert.True(t, blocked.Contains("2024-06-10"))
	assert.True(t, blocked.Contains("2024-06-11"))
	assert.Len(t, blocked, 2)
}

func TestComputeBlockedDateSet_SkipsMalformedBookings(t *testing.T) {
	blocked := ComputeBlockedDateSet([]ExistingBooking{
		{ID: "bad", DateFrom: "junk", DateEnd: "2024-06-12"},
		{ID: "inverted", DateFrom: "2024-06-12", DateEnd: "2024-06-10"},
		{ID: "ok", DateFrom: "2024-06-20", DateEnd: "2024-06-20"},
	})
	assert.Len(t, blocked, 1)
	assert.True(t, blocked.Contains("2024-06-20"))
}

func TestOnDaySelected_BlockedTapIsNoOp(t *testing.T) {
	blocked := ComputeBlockedDateSet([]ExistingBooking{
		{ID: "b1", DateFrom: "2024-06-12", DateEnd: "2024-06-12"},
	})
	current := Selection{Start: "2024-06-10"}

	got := OnDaySelected("2024-06-12", current, blocked)
	assert.Equal(t, current, got, "tapping a blocked day must leave the selection unchanged")
}

func TestOnDaySelected_FirstTapStartsSelection(t *testing.T) {
	got := OnDaySelected("2024-06-10", Selection{}, nil)
	assert.Equal(t, Selection{Start: "2024-06-10"}, got)
	assert.False(t, got.IsComplete())
}

func TestOnDaySelected_LaterTapCompletesRange(t *testing.T) {
	got := OnDaySelected("2024-06-15", Selection{Start: "2024-06-10"}, nil)
	assert.Equal(t, Selection{Start: "2024-06-10", End: "2024-06-15"}, got)
	assert.True(t, got.IsComplete())
}

func TestOnDaySelected_NonIncreasingTapRestarts(t *testing.T) {
	pending := Selection{Start: "2024-06-10"}

	same := OnDaySelected("2024-06-10", pending, nil)
	assert.Equal(t, Selection{Start: "2024-06-10"}, same)

	earlier := OnDaySelected("2024-06-05", pending, nil)
	assert.Equal(t, Selection{Start: "2024-06-05"}, earlier)
}

func TestOnDaySelected_TapAfterCompleteRangeRestarts(t *testing.T) {
	complete := Selection{Start: "2024-06-10", End: "2024-06-12"}
	got := OnDaySelected("2024-06-20", complete, nil)
	assert.Equal(t, Selection{Start: "2024-06-20"}, got)
}

func TestBuildMarkedModel_RangeCaps(t *testing.T) {
	sel := Selection{Start: "2024-06-01", End: "2024-06-05"}
	model := BuildMarkedModel(sel, nil)

	assert.Equal(t, SelectionStart, model["2024-06-01"])
	assert.Equal(t, SelectionMiddle, model["2024-06-02"])
	assert.Equal(t, SelectionMiddle, model["2024-06-03"])
	assert.Equal(t, SelectionMiddle, model["2024-06-04"])
	assert.Equal(t, SelectionEnd, model["2024-06-05"])
	assert.Len(t, model, 5)
}

func TestBuildMarkedModel_LoneStart(t *testing.T) {
	model := BuildMarkedModel(Selection{Start: "2024-06-01"}, nil)
	assert.Equal(t, MarkedModel{"2024-06-01": SelectionStart}, model)
}

func TestBuildMarkedModel_BlockedWinsOverSelection(t *testing.T) {
	blocked := ComputeBlockedDateSet([]ExistingBooking{
		{ID: "b1", DateFrom: "2024-06-03", DateEnd: "2024-06-03"},
	})
	model := BuildMarkedModel(Selection{Start: "2024-06-01", End: "2024-06-05"}, blocked)

	assert.Equal(t, Blocked, model["2024-06-03"])
	for day, annotation := range model {
		if blocked.Contains(day) {
			assert.Equal(t, Blocked, annotation, day)
		}
	}
}

func TestBuildMarkedModel_EmptySelection(t *testing.T) {
	blocked := ComputeBlockedDateSet([]ExistingBooking{
		{ID: "b1", DateFrom: "2024-06-10", DateEnd: "2024-06-11"},
	})
	model := BuildMarkedModel(Selection{}, blocked)
	assert.Equal(t, MarkedModel{"2024-06-10": Blocked, "2024-06-11": Blocked}, model)
}

func TestValidateAndAccept(t *testing.T) {
	sel := Selection{Start: "2024-06-01", End: "2024-06-05"}
	r, err := ValidateAndAccept(sel, nil)
	require.NoError(t, err)
	assert.Equal(t, dates.DateRange{Start: "2024-06-01", End: "2024-06-05"}, r)
}

func TestValidateAndAccept_IncompleteRange(t *testing.T) {
	_, err := ValidateAndAccept(Selection{Start: "2024-06-01"}, nil)
	assert.ErrorIs(t, err, ErrIncompleteRange)

	_, err = ValidateAndAccept(Selection{}, nil)
	assert.ErrorIs(t, err, ErrIncompleteRange)
}

func TestValidateAndAccept_InteriorBlockedDayRejected(t *testing.T) {
	blocked := ComputeBlockedDateSet([]ExistingBooking{
		{ID: "b1", DateFrom: "2024-06-03", DateEnd: "2024-06-03"},
	})
	_, err := ValidateAndAccept(Selection{Start: "2024-06-01", End: "2024-06-05"}, blocked)
	assert.ErrorIs(t, err, ErrDateBlocked)
}

func TestBikeCalendar_ReserveAndOverlap(t *testing.T) {
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	cal := NewBikeCalendar("bike-1")

	first, _ := dates.NewRange("2024-06-10", "2024-06-12")
	require.NoError(t, cal.Reserve(first, "booking-1", now))

	overlapping, _ := dates.NewRange("2024-06-12", "2024-06-14")
	err := cal.Reserve(overlapping, "booking-2", now)
	assert.ErrorIs(t, err, ErrOverlappingRange)
	assert.Len(t, cal.Blocks, 1)

	free, _ := dates.NewRange("2024-06-13", "2024-06-14")
	require.NoError(t, cal.Reserve(free, "booking-3", now))
	assert.Len(t, cal.Blocks, 2)
}

func TestBikeCalendar_Release(t *testing.T) {
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	cal := NewBikeCalendar("bike-1")
	r, _ := dates.NewRange("2024-06-10", "2024-06-12")
	require.NoError(t, cal.Reserve(r, "booking-1", now))

	require.NoError(t, cal.Release("booking-1", now))
	assert.Empty(t, cal.Blocks)
	assert.True(t, cal.CanReserve(r))

	assert.ErrorIs(t, cal.Release("booking-1", now), ErrBlockNotFound)
}

func TestBikeCalendar_SnapshotFeedsBlockedSet(t *testing.T) {
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	cal := NewBikeCalendar("bike-1")
	r, _ := dates.NewRange("2024-06-10", "2024-06-12")
	require.NoError(t, cal.Reserve(r, "booking-1", now))

	blocked := ComputeBlockedDateSet(cal.Snapshot())
	assert.Len(t, blocked, 3)
	assert.True(t, blocked.Contains("2024-06-11"))
}

func TestLocaleTitles(t *testing.T) {
	loc := DefaultLocale()
	assert.Equal(t, "June 2024", loc.MonthTitle("2024-06-10"))
	assert.Equal(t, "Monday", loc.DayName("2024-06-10"))
}
