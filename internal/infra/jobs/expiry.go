package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"bikely/internal/app/commands"
	bookingapp "bikely/internal/app/handlers/booking"
	domainbooking "bikely/internal/domain/booking"
	"bikely/internal/domain/dates"
)

// PendingLister is the storage-side query the sweep needs: pending
// bookings requested before the cutoff.
type PendingLister interface {
	ListPendingBefore(ctx context.Context, cutoff time.Time) ([]*domainbooking.Booking, error)
}

// ExpirySweep declines pending bookings the owner never answered, or whose
// start date already passed, so their calendar blocks and payment holds do
// not linger. Each expiry goes through the regular decline command, which
// releases both.
type ExpirySweep struct {
	Commands commands.Bus
	Lister   PendingLister
	TTL      time.Duration
	Logger   *slog.Logger
	Now      func() time.Time
}

func (s *ExpirySweep) Run(ctx context.Context) {
	now := s.now()
	pending, err := s.Lister.ListPendingBefore(ctx, now)
	if err != nil {
		if s.Logger != nil {
			s.Logger.Error("expiry sweep scan failed", "error", err)
		}
		return
	}
	today := dates.FromTime(now)
	answerDeadline := now.Add(-s.ttl())
	for _, bk := range pending {
		if !bk.CreatedAt.Before(answerDeadline) && !bk.Range.Start.Before(today) {
			continue
		}
		cmd := bookingapp.DeclineBookingCommand{
			BookingID: string(bk.ID),
			OwnerID:   string(bk.OwnerID),
			Reason:    "request expired",
		}
		if _, err := commands.Dispatch[bookingapp.DeclineBookingCommand, *bookingapp.DeclineBookingResult](ctx, s.Commands, cmd); err != nil {
			if s.Logger != nil {
				s.Logger.Error("expiry sweep decline failed", "error", err, "booking_id", bk.ID)
			}
			continue
		}
		if s.Logger != nil {
			s.Logger.Info("pending booking expired", "booking_id", bk.ID)
		}
	}
}

func (s *ExpirySweep) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *ExpirySweep) ttl() time.Duration {
	if s.TTL <= 0 {
		return 48 * time.Hour
	}
	return s.TTL
}

// Schedule registers the sweep on a cron runner. The returned cron is not
// started; the caller owns its lifecycle.
func Schedule(spec string, sweep *ExpirySweep) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		sweep.Run(ctx)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}
