package memory

import (
	"context"
	"errors"
	"sync"

	"bikely/internal/app/policies"
	"bikely/internal/domain/shared/money"
)

var ErrHoldNotFound = errors.New("memory: payment hold not found")

type holdState int

const (
	holdOpen holdState = iota
	holdCaptured
	holdReleased
)

// Payments is a local stand-in for the payment provider. Holds live in a
// map and every account passes the payout check.
type Payments struct {
	mu    sync.Mutex
	holds map[string]holdState
}

func NewPayments() *Payments {
	return &Payments{holds: make(map[string]holdState)}
}

func (p *Payments) CheckPayoutCapability(ctx context.Context, ownerAccountID string) error {
	return nil
}

func (p *Payments) PlaceHold(ctx context.Context, bookingID string, amount money.Money) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := "hold_" + bookingID
	p.holds[id] = holdOpen
	return id, nil
}

func (p *Payments) Capture(ctx context.Context, holdID string) error {
	return p.transition(holdID, holdCaptured)
}

func (p *Payments) Release(ctx context.Context, holdID string) error {
	return p.transition(holdID, holdReleased)
}

func (p *Payments) transition(holdID string, to holdState) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.holds[holdID]; !ok {
		return ErrHoldNotFound
	}
	p.holds[holdID] = to
	return nil
}

var _ policies.PaymentsPort = (*Payments)(nil)
