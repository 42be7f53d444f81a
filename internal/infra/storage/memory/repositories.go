package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	domainbikes "bikely/internal/domain/bikes"
	domainbooking "bikely/internal/domain/booking"
	domaincalendar "bikely/internal/domain/calendar"
)

// BikeRepository is an in-memory bikes.Repository for tests and local runs.
type BikeRepository struct {
	mu    sync.RWMutex
	items map[domainbikes.BikeID]*domainbikes.Bike
}

func NewBikeRepository() *BikeRepository {
	return &BikeRepository{items: make(map[domainbikes.BikeID]*domainbikes.Bike)}
}

func (r *BikeRepository) ByID(ctx context.Context, id domainbikes.BikeID) (*domainbikes.Bike, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	bike, ok := r.items[id]
	if !ok {
		return nil, domainbikes.ErrBikeNotFound
	}
	return bike, nil
}

func (r *BikeRepository) Save(ctx context.Context, bike *domainbikes.Bike) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	bike.Version++
	r.items[bike.ID] = bike
	return nil
}

// CalendarRepository keeps bike calendars in memory, lazily creating empty
// ones.
type CalendarRepository struct {
	mu        sync.Mutex
	calendars map[domainbikes.BikeID]*domaincalendar.BikeCalendar
}

func NewCalendarRepository() *CalendarRepository {
	return &CalendarRepository{calendars: make(map[domainbikes.BikeID]*domaincalendar.BikeCalendar)}
}

func (r *CalendarRepository) Calendar(ctx context.Context, id domainbikes.BikeID) (*domaincalendar.BikeCalendar, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cal, ok := r.calendars[id]; ok {
		return cal, nil
	}
	cal := domaincalendar.NewBikeCalendar(id)
	r.calendars[id] = cal
	return cal, nil
}

func (r *CalendarRepository) Save(ctx context.Context, cal *domaincalendar.BikeCalendar) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cal.Version++
	r.calendars[cal.BikeID] = cal
	return nil
}

// BookingRepository stores bookings in memory. Saves overwrite the whole
// record, so a fresher server copy always wins over a stale one.
type BookingRepository struct {
	mu    sync.RWMutex
	items map[domainbooking.BookingID]*domainbooking.Booking
}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{items: make(map[domainbooking.BookingID]*domainbooking.Booking)}
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	bk, ok := r.items[id]
	if !ok {
		return nil, domainbooking.ErrBookingNotFound
	}
	return bk, nil
}

func (r *BookingRepository) Save(ctx context.Context, bk *domainbooking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	bk.Version++
	r.items[bk.ID] = bk
	return nil
}

func (r *BookingRepository) ListByRenter(ctx context.Context, renterID string) ([]*domainbooking.Booking, error) {
	return r.list(func(b *domainbooking.Booking) bool { return b.RenterID == renterID })
}

func (r *BookingRepository) ListByOwner(ctx context.Context, ownerID domainbikes.OwnerID) ([]*domainbooking.Booking, error) {
	return r.list(func(b *domainbooking.Booking) bool { return b.OwnerID == ownerID })
}

func (r *BookingRepository) ListByBike(ctx context.Context, bikeID domainbikes.BikeID) ([]*domainbooking.Booking, error) {
	return r.list(func(b *domainbooking.Booking) bool { return b.BikeID == bikeID })
}

func (r *BookingRepository) ListPendingBefore(ctx context.Context, cutoff time.Time) ([]*domainbooking.Booking, error) {
	return r.list(func(b *domainbooking.Booking) bool {
		return b.Status == domainbooking.StatusPending && b.CreatedAt.Before(cutoff)
	})
}

func (r *BookingRepository) list(match func(*domainbooking.Booking) bool) ([]*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainbooking.Booking, 0)
	for _, bk := range r.items {
		if match(bk) {
			out = append(out, bk)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}
