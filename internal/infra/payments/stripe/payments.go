package stripepay

import (
	"context"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/account"
	"github.com/stripe/stripe-go/v82/paymentintent"

	"bikely/internal/app/policies"
	"bikely/internal/domain/shared/money"
)

// Service implements the payments port on Stripe. Holds are manual-capture
// payment intents: placed when a booking is requested, captured on owner
// confirm, cancelled on decline.
type Service struct{}

func New(apiKey string) *Service {
	stripe.Key = apiKey
	return &Service{}
}

func (s *Service) CheckPayoutCapability(ctx context.Context, ownerAccountID string) error {
	if ownerAccountID == "" {
		return policies.ErrPayoutsDisabled
	}
	acct, err := account.GetByID(ownerAccountID, nil)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.Code == stripe.ErrorCodeResourceMissing {
			return policies.ErrPayoutsDisabled
		}
		return err
	}
	if !acct.ChargesEnabled || !acct.PayoutsEnabled {
		return policies.ErrPayoutsDisabled
	}
	return nil
}

func (s *Service) PlaceHold(ctx context.Context, bookingID string, amount money.Money) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:        stripe.Int64(amount.Cents),
		Currency:      stripe.String(amount.Currency),
		CaptureMethod: stripe.String(string(stripe.PaymentIntentCaptureMethodManual)),
		Description:   stripe.String(fmt.Sprintf("Bike rental booking %s", bookingID)),
	}
	params.AddMetadata("booking_id", bookingID)
	pi, err := paymentintent.New(params)
	if err != nil {
		return "", err
	}
	return pi.ID, nil
}

func (s *Service) Capture(ctx context.Context, holdID string) error {
	_, err := paymentintent.Capture(holdID, nil)
	return err
}

func (s *Service) Release(ctx context.Context, holdID string) error {
	_, err := paymentintent.Cancel(holdID, nil)
	return err
}

var _ policies.PaymentsPort = (*Service)(nil)
