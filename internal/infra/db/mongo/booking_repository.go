package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainbikes "bikely/internal/domain/bikes"
	domainbooking "bikely/internal/domain/booking"
	"bikely/internal/domain/dates"
	"bikely/internal/domain/shared/money"
)

var ErrConcurrentUpdate = errors.New("mongo: concurrent update detected")

type BookingRepository struct {
	col *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) *BookingRepository {
	col := db.Collection("agg_booking")
	_, _ = col.Indexes().CreateOne(context.Background(), mongo.IndexModel{Keys: bson.D{{Key: "renter_id", Value: 1}, {Key: "created_at", Value: -1}}})
	_, _ = col.Indexes().CreateOne(context.Background(), mongo.IndexModel{Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "created_at", Value: -1}}})
	_, _ = col.Indexes().CreateOne(context.Background(), mongo.IndexModel{Keys: bson.D{{Key: "bike_id", Value: 1}}})
	return &BookingRepository{col: col}
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	var doc bookingDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainbooking.ErrBookingNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *BookingRepository) Save(ctx context.Context, b *domainbooking.Booking) error {
	doc := newBookingDocument(b)
	filter := bson.M{"_id": doc.ID, "version": b.Version}
	doc.Version = b.Version + 1
	update := bson.M{"$set": doc}
	opts := options.Update().SetUpsert(true)
	res, err := r.col.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrConcurrentUpdate
		}
		return err
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		return ErrConcurrentUpdate
	}
	b.Version = doc.Version
	return nil
}

func (r *BookingRepository) ListByRenter(ctx context.Context, renterID string) ([]*domainbooking.Booking, error) {
	return r.list(ctx, bson.M{"renter_id": renterID})
}

func (r *BookingRepository) ListByOwner(ctx context.Context, ownerID domainbikes.OwnerID) ([]*domainbooking.Booking, error) {
	return r.list(ctx, bson.M{"owner_id": string(ownerID)})
}

func (r *BookingRepository) ListByBike(ctx context.Context, bikeID domainbikes.BikeID) ([]*domainbooking.Booking, error) {
	return r.list(ctx, bson.M{"bike_id": string(bikeID)})
}

func (r *BookingRepository) ListPendingBefore(ctx context.Context, cutoff time.Time) ([]*domainbooking.Booking, error) {
	return r.list(ctx, bson.M{
		"status":     int(domainbooking.StatusPending),
		"created_at": bson.M{"$lt": cutoff.UnixMilli()},
	})
}

func (r *BookingRepository) list(ctx context.Context, filter bson.M) ([]*domainbooking.Booking, error) {
	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []*domainbooking.Booking
	for cur.Next(ctx) {
		var doc bookingDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cur.Err()
}

type bookingDocument struct {
	ID            string `bson:"_id"`
	BikeID        string `bson:"bike_id"`
	OwnerID       string `bson:"owner_id"`
	RenterID      string `bson:"renter_id"`
	DateFrom      string `bson:"date_from"`
	DateEnd       string `bson:"date_end"`
	Days          int    `bson:"days"`
	TotalCents    int64  `bson:"total_cents"`
	Currency      string `bson:"currency"`
	Status        int    `bson:"status"`
	PaymentHold   string `bson:"payment_hold"`
	DeclineReason string `bson:"decline_reason,omitempty"`
	ReviewOpen    bool   `bson:"review_open"`
	CreatedAt     int64  `bson:"created_at"`
	UpdatedAt     int64  `bson:"updated_at"`
	Version       int64  `bson:"version"`
}

func newBookingDocument(b *domainbooking.Booking) bookingDocument {
	return bookingDocument{
		ID:            string(b.ID),
		BikeID:        string(b.BikeID),
		OwnerID:       string(b.OwnerID),
		RenterID:      b.RenterID,
		DateFrom:      string(b.Range.Start),
		DateEnd:       string(b.Range.End),
		Days:          b.Days,
		TotalCents:    b.Total.Cents,
		Currency:      b.Total.Currency,
		Status:        int(b.Status),
		PaymentHold:   b.PaymentHold,
		DeclineReason: b.DeclineReason,
		ReviewOpen:    b.ReviewOpen,
		CreatedAt:     b.CreatedAt.UnixMilli(),
		UpdatedAt:     b.UpdatedAt.UnixMilli(),
		Version:       b.Version,
	}
}

func (d bookingDocument) toAggregate() *domainbooking.Booking {
	return &domainbooking.Booking{
		ID:            domainbooking.BookingID(d.ID),
		BikeID:        domainbikes.BikeID(d.BikeID),
		OwnerID:       domainbikes.OwnerID(d.OwnerID),
		RenterID:      d.RenterID,
		Range:         dates.DateRange{Start: dates.Day(d.DateFrom), End: dates.Day(d.DateEnd)},
		Days:          d.Days,
		Total:         money.Money{Cents: d.TotalCents, Currency: d.Currency},
		Status:        domainbooking.Status(d.Status),
		PaymentHold:   d.PaymentHold,
		DeclineReason: d.DeclineReason,
		ReviewOpen:    d.ReviewOpen,
		CreatedAt:     timestampToTime(d.CreatedAt),
		UpdatedAt:     timestampToTime(d.UpdatedAt),
		Version:       d.Version,
	}
}

func timestampToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
