package policies

import (
	"context"
	"errors"

	"bikely/internal/domain/shared/money"
)

// ErrPayoutsDisabled means the owner's payment account cannot receive
// transfers yet; handlers map it to a "setup required" response instead of
// a generic failure.
var ErrPayoutsDisabled = errors.New("policies: payout account not ready")

// PaymentsPort abstracts the payment provider. Capability is checked before
// any confirm transition; a hold placed at request time is captured on
// confirm and released on decline.
type PaymentsPort interface {
	CheckPayoutCapability(ctx context.Context, ownerAccountID string) error
	PlaceHold(ctx context.Context, bookingID string, amount money.Money) (string, error)
	Capture(ctx context.Context, holdID string) error
	Release(ctx context.Context, holdID string) error
}
