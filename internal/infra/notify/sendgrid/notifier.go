package sendgridnotify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"bikely/internal/app/policies"
)

// Directory resolves a party ID to a deliverable address. Wired to the
// account service at the edge; nil means notifications are logged only.
type Directory interface {
	Email(ctx context.Context, partyID string) (address, name string, err error)
}

// Notifier sends booking emails through SendGrid.
type Notifier struct {
	client    *sendgrid.Client
	from      *mail.Email
	directory Directory
	logger    *slog.Logger
}

func New(apiKey, fromAddress string, directory Directory, logger *slog.Logger) *Notifier {
	return &Notifier{
		client:    sendgrid.NewSendClient(apiKey),
		from:      mail.NewEmail("Bikely", fromAddress),
		directory: directory,
		logger:    logger,
	}
}

func (n *Notifier) Send(ctx context.Context, msg policies.Notification) error {
	subject, body := renderTemplate(msg)
	if n.directory == nil {
		if n.logger != nil {
			n.logger.Info("notification skipped, no directory", "to", msg.To, "template", msg.Template, "booking_id", msg.BookingID)
		}
		return nil
	}
	address, name, err := n.directory.Email(ctx, msg.To)
	if err != nil {
		return err
	}
	email := mail.NewSingleEmail(n.from, subject, mail.NewEmail(name, address), body, "")
	resp, err := n.client.Send(email)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid: unexpected status %d", resp.StatusCode)
	}
	if n.logger != nil {
		n.logger.Info("notification sent", "to", msg.To, "template", msg.Template, "booking_id", msg.BookingID)
	}
	return nil
}

func renderTemplate(msg policies.Notification) (subject, body string) {
	switch msg.Template {
	case "booking_requested":
		return "New booking request", fmt.Sprintf("You have a new booking request (%s).", msg.BookingID)
	case "booking_confirmed":
		return "Your booking is confirmed", fmt.Sprintf("The owner confirmed your booking (%s). Enjoy the ride!", msg.BookingID)
	case "booking_declined":
		reason := msg.Data["reason"]
		return "Your booking was declined", fmt.Sprintf("The owner declined your booking (%s): %s", msg.BookingID, reason)
	case "booking_picked_up":
		return "Bike picked up", fmt.Sprintf("The renter picked up the bike (booking %s).", msg.BookingID)
	case "review_prompt":
		return "How was the rental?", fmt.Sprintf("Your rental (%s) is complete. Leave a review for the other party.", msg.BookingID)
	default:
		return "Bikely update", fmt.Sprintf("Update for booking %s.", msg.BookingID)
	}
}

var _ policies.Notifier = (*Notifier)(nil)
