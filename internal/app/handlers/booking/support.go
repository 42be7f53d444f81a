package booking

import (
	"context"

	"bikely/internal/app/outbox"
	"bikely/internal/app/policies"
	"bikely/internal/app/uow"
	"bikely/internal/domain/shared/events"
)

// eventSource is anything carrying recorded domain events (aggregates).
type eventSource interface {
	PendingEvents() []events.DomainEvent
	ClearEvents()
}

// beginUnit reuses a unit of work already opened by the transaction
// middleware, or opens a managed one for direct invocations (tests,
// maintenance jobs).
func beginUnit(ctx context.Context, factory uow.UoWFactory) (uow.UnitOfWork, context.Context, bool, error) {
	if unit, ok := uow.FromContext(ctx); ok {
		return unit, ctx, false, nil
	}
	if factory == nil {
		return nil, ctx, false, ErrUnitOfWorkRequired
	}
	unit, err := factory.Begin(ctx, uow.TxOptions{})
	if err != nil {
		return nil, ctx, false, err
	}
	return unit, uow.ContextWithUnitOfWork(ctx, unit), true, nil
}

func encoderOrDefault(encoder outbox.EventEncoder) outbox.EventEncoder {
	if encoder != nil {
		return encoder
	}
	return outbox.JSONEventEncoder{}
}

// notify is fire-and-forget: a failed notification never undoes a
// committed transition.
func notify(ctx context.Context, notifier policies.Notifier, n policies.Notification) {
	if notifier == nil {
		return
	}
	_ = notifier.Send(ctx, n)
}

// drainEvents moves pending domain events from aggregates into the outbox.
func drainEvents(ctx context.Context, box outbox.Outbox, encoder outbox.EventEncoder, sources ...eventSource) error {
	for _, src := range sources {
		pending := src.PendingEvents()
		src.ClearEvents()
		if err := outbox.RecordDomainEvents(ctx, box, encoder, pending); err != nil {
			return err
		}
	}
	return nil
}
