package pricing

import (
	"errors"

	"bikely/internal/domain/bikes"
	"bikely/internal/domain/dates"
	"bikely/internal/domain/shared/money"
)

var (
	ErrNoDays      = errors.New("pricing: range must span at least one day")
	ErrRateMissing = errors.New("pricing: bike has no daily rate")
)

// Breakdown is the one-time price quote stored on the booking at creation.
// Day counts are inclusive: renting for a single day costs one daily rate.
type Breakdown struct {
	Days       int
	DailyRate  money.Money
	ServiceFee money.Money
	Total      money.Money
}

// Quoter prices a bike for a date range.
type Quoter interface {
	Quote(bike *bikes.Bike, r dates.DateRange) (Breakdown, error)
}

// FixedFeeQuoter charges the bike's daily rate times the inclusive day
// count plus a flat service fee.
type FixedFeeQuoter struct {
	ServiceFee money.Money
}

func (q FixedFeeQuoter) Quote(bike *bikes.Bike, r dates.DateRange) (Breakdown, error) {
	days := r.Days()
	if days <= 0 {
		return Breakdown{}, ErrNoDays
	}
	if bike == nil || !bike.DailyRate.IsPositive() {
		return Breakdown{}, ErrRateMissing
	}
	total := bike.DailyRate.MultiplyDays(days)
	fee := q.ServiceFee
	if fee.Currency == "" {
		fee = money.Money{Currency: total.Currency}
	}
	total, err := total.Add(fee)
	if err != nil {
		return Breakdown{}, err
	}
	return Breakdown{
		Days:       days,
		DailyRate:  bike.DailyRate,
		ServiceFee: fee,
		Total:      total,
	}, nil
}
