package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainbikes "bikely/internal/domain/bikes"
	"bikely/internal/domain/shared/money"
)

type BikeRepository struct {
	col *mongo.Collection
}

func NewBikeRepository(db *mongo.Database) *BikeRepository {
	col := db.Collection("agg_bike")
	_, _ = col.Indexes().CreateOne(context.Background(), mongo.IndexModel{Keys: bson.D{{Key: "owner_id", Value: 1}}})
	return &BikeRepository{col: col}
}

func (r *BikeRepository) ByID(ctx context.Context, id domainbikes.BikeID) (*domainbikes.Bike, error) {
	var doc bikeDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainbikes.ErrBikeNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *BikeRepository) Save(ctx context.Context, b *domainbikes.Bike) error {
	doc := newBikeDocument(b)
	filter := bson.M{"_id": doc.ID, "version": b.Version}
	doc.Version = b.Version + 1
	res, err := r.col.UpdateOne(ctx, filter, bson.M{"$set": doc}, options.Update().SetUpsert(true))
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

type bikeDocument struct {
	ID        string `bson:"_id"`
	OwnerID   string `bson:"owner_id"`
	Title     string `bson:"title"`
	City      string `bson:"city"`
	BikeType  string `bson:"bike_type"`
	RateCents int64  `bson:"rate_cents"`
	Currency  string `bson:"currency"`
	State     string `bson:"state"`
	CreatedAt int64  `bson:"created_at"`
	UpdatedAt int64  `bson:"updated_at"`
	Version   int64  `bson:"version"`
}

func newBikeDocument(b *domainbikes.Bike) bikeDocument {
	return bikeDocument{
		ID:        string(b.ID),
		OwnerID:   string(b.Owner),
		Title:     b.Title,
		City:      b.City,
		BikeType:  b.BikeType,
		RateCents: b.DailyRate.Cents,
		Currency:  b.DailyRate.Currency,
		State:     string(b.State),
		CreatedAt: b.CreatedAt.UnixMilli(),
		UpdatedAt: b.UpdatedAt.UnixMilli(),
		Version:   b.Version,
	}
}

func (d bikeDocument) toAggregate() *domainbikes.Bike {
	return &domainbikes.Bike{
		ID:        domainbikes.BikeID(d.ID),
		Owner:     domainbikes.OwnerID(d.OwnerID),
		Title:     d.Title,
		City:      d.City,
		BikeType:  d.BikeType,
		DailyRate: money.Money{Cents: d.RateCents, Currency: d.Currency},
		State:     domainbikes.BikeState(d.State),
		CreatedAt: timestampToTime(d.CreatedAt),
		UpdatedAt: timestampToTime(d.UpdatedAt),
		Version:   d.Version,
	}
}
