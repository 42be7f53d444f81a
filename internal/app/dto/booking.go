package dto

import (
	"time"

	domainbooking "bikely/internal/domain/booking"
)

type MoneyDTO struct {
	Cents    int64  `json:"cents"`
	Currency string `json:"currency"`
}

// BookingSummary is the list entry the mobile client caches. StatusID is
// the integer lifecycle code; Status is its readable name.
type BookingSummary struct {
	ID         string    `json:"id"`
	BikeID     string    `json:"bike_id"`
	RenterID   string    `json:"renter_id"`
	OwnerID    string    `json:"owner_id"`
	DateFrom   string    `json:"date_from"`
	DateEnd    string    `json:"date_end"`
	Days       int       `json:"days"`
	StatusID   int       `json:"status_id"`
	Status     string    `json:"status"`
	Total      MoneyDTO  `json:"total"`
	ReviewOpen bool      `json:"review_open"`
	CreatedAt  time.Time `json:"created_at"`
}

type BookingCollection struct {
	Items []BookingSummary `json:"items"`
}

func MapBookingSummary(b *domainbooking.Booking) BookingSummary {
	return BookingSummary{
		ID:         string(b.ID),
		BikeID:     string(b.BikeID),
		RenterID:   b.RenterID,
		OwnerID:    string(b.OwnerID),
		DateFrom:   b.Range.Start.String(),
		DateEnd:    b.Range.End.String(),
		Days:       b.Days,
		StatusID:   int(b.Status),
		Status:     b.Status.String(),
		Total:      MoneyDTO{Cents: b.Total.Cents, Currency: b.Total.Currency},
		ReviewOpen: b.ReviewOpen,
		CreatedAt:  b.CreatedAt,
	}
}

func MapBookingCollection(items []*domainbooking.Booking) BookingCollection {
	out := BookingCollection{Items: make([]BookingSummary, 0, len(items))}
	for _, b := range items {
		out.Items = append(out.Items, MapBookingSummary(b))
	}
	return out
}
