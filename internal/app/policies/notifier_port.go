package policies

import "context"

// Notification is one message to one party about a booking.
type Notification struct {
	To        string
	Template  string
	BookingID string
	Data      map[string]string
}

// Notifier delivers booking notifications. Delivery failures are logged by
// callers, never allowed to roll back a committed transition.
type Notifier interface {
	Send(ctx context.Context, n Notification) error
}
