package calendar

import (
	"context"
	"errors"
	"time"

	"bikely/internal/domain/bikes"
	"bikely/internal/domain/dates"
	"bikely/internal/domain/shared/events"
)

var (
	ErrOverlappingRange = errors.New("calendar: range overlaps an existing block")
	ErrBlockNotFound    = errors.New("calendar: block not found")
)

type BlockReason string

const (
	ReasonBooking    BlockReason = "BOOKING"
	ReasonOwnerBlock BlockReason = "OWNER_BLOCK"
)

// Block is one reserved inclusive date range on a bike's calendar.
type Block struct {
	Range     dates.DateRange
	Reason    BlockReason
	Reference string
	CreatedAt time.Time
}

// BikeCalendar accumulates blocked ranges for one bike. Confirmed bookings
// become blocks here, which future availability queries see as blocked
// days.
type BikeCalendar struct {
	BikeID  bikes.BikeID
	Blocks  []Block
	Version int64
	events.EventRecorder
}

type Repository interface {
	Calendar(ctx context.Context, id bikes.BikeID) (*BikeCalendar, error)
	Save(ctx context.Context, cal *BikeCalendar) error
}

func NewBikeCalendar(id bikes.BikeID) *BikeCalendar {
	return &BikeCalendar{BikeID: id}
}

// CanReserve reports whether the range is free of every existing block.
func (c *BikeCalendar) CanReserve(r dates.DateRange) bool {
	for _, block := range c.Blocks {
		if block.Range.Overlaps(r) {
			return false
		}
	}
	return true
}

// Reserve blocks the range for a booking. Overlap is rejected and recorded
// as a prevented overbooking.
func (c *BikeCalendar) Reserve(r dates.DateRange, bookingID string, now time.Time) error {
	if !c.CanReserve(r) {
		c.Record(OverbookingPrevented{BikeID: string(c.BikeID), Range: r, At: now.UTC()})
		return ErrOverlappingRange
	}
	c.Blocks = append(c.Blocks, Block{Range: r, Reason: ReasonBooking, Reference: bookingID, CreatedAt: now.UTC()})
	c.Record(RangeBlocked{BikeID: string(c.BikeID), Range: r, Reason: ReasonBooking, At: now.UTC()})
	return nil
}

// BlockRange lets the owner take dates off the market.
func (c *BikeCalendar) BlockRange(r dates.DateRange, reference string, now time.Time) error {
	if !c.CanReserve(r) {
		return ErrOverlappingRange
	}
	c.Blocks = append(c.Blocks, Block{Range: r, Reason: ReasonOwnerBlock, Reference: reference, CreatedAt: now.UTC()})
	c.Record(RangeBlocked{BikeID: string(c.BikeID), Range: r, Reason: ReasonOwnerBlock, At: now.UTC()})
	return nil
}

// Release drops the block tied to the given reference, typically after a
// booking is declined.
func (c *BikeCalendar) Release(reference string, now time.Time) error {
	idx := -1
	for i, block := range c.Blocks {
		if block.Reference == reference {
			idx = i
			break
		}
	}
	if idx == -1 {
		return ErrBlockNotFound
	}
	removed := c.Blocks[idx]
	c.Blocks = append(c.Blocks[:idx], c.Blocks[idx+1:]...)
	c.Record(RangeReleased{BikeID: string(c.BikeID), Range: removed.Range, Reason: removed.Reason, At: now.UTC()})
	return nil
}

// Snapshot renders the calendar's blocks as the read-only booking list the
// blocked-date computation consumes.
func (c *BikeCalendar) Snapshot() []ExistingBooking {
	out := make([]ExistingBooking, 0, len(c.Blocks))
	for _, block := range c.Blocks {
		out = append(out, ExistingBooking{
			ID:       block.Reference,
			DateFrom: block.Range.Start.String(),
			DateEnd:  block.Range.End.String(),
		})
	}
	return out
}
