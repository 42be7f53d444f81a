package bikes

import (
	"context"
	"errors"
	"strings"
	"time"

	"bikely/internal/domain/shared/money"
)

var (
	ErrTitleRequired = errors.New("bikes: title is required")
	ErrOwnerRequired = errors.New("bikes: owner id is required")
	ErrDailyRate     = errors.New("bikes: daily rate must be positive")
	ErrInvalidState  = errors.New("bikes: invalid state transition")
	ErrBikeNotFound  = errors.New("bikes: not found")
)

type BikeID string
type OwnerID string

type BikeState string

const (
	BikeDraft    BikeState = "DRAFT"
	BikeActive   BikeState = "ACTIVE"
	BikeUnlisted BikeState = "UNLISTED"
)

// Bike is an owner's listed bicycle. Only the fields the booking flow needs
// live here; media and presentation belong to other services.
type Bike struct {
	ID        BikeID
	Owner     OwnerID
	Title     string
	City      string
	BikeType  string
	DailyRate money.Money
	State     BikeState
	CreatedAt time.Time
	UpdatedAt time.Time
	Version   int64
}

type Repository interface {
	ByID(ctx context.Context, id BikeID) (*Bike, error)
	Save(ctx context.Context, bike *Bike) error
}

type CreateParams struct {
	ID        BikeID
	Owner     OwnerID
	Title     string
	City      string
	BikeType  string
	DailyRate money.Money
	Now       time.Time
}

func NewBike(params CreateParams) (*Bike, error) {
	if strings.TrimSpace(string(params.Owner)) == "" {
		return nil, ErrOwnerRequired
	}
	if strings.TrimSpace(params.Title) == "" {
		return nil, ErrTitleRequired
	}
	if !params.DailyRate.IsPositive() {
		return nil, ErrDailyRate
	}
	now := params.Now.UTC()
	return &Bike{
		ID:        params.ID,
		Owner:     params.Owner,
		Title:     strings.TrimSpace(params.Title),
		City:      strings.TrimSpace(params.City),
		BikeType:  params.BikeType,
		DailyRate: params.DailyRate,
		State:     BikeDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (b *Bike) Activate(now time.Time) error {
	if b.State == BikeActive {
		return ErrInvalidState
	}
	b.State = BikeActive
	b.UpdatedAt = now.UTC()
	return nil
}

func (b *Bike) Unlist(now time.Time) error {
	if b.State != BikeActive {
		return ErrInvalidState
	}
	b.State = BikeUnlisted
	b.UpdatedAt = now.UTC()
	return nil
}

// Rentable reports whether new bookings may be requested for the bike.
func (b *Bike) Rentable() bool {
	return b.State == BikeActive
}
