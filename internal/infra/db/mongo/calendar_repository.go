package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainbikes "bikely/internal/domain/bikes"
	domaincalendar "bikely/internal/domain/calendar"
	"bikely/internal/domain/dates"
)

// CalendarRepository persists one document per bike holding every block.
// A missing document decodes to an empty calendar, so callers never have
// to create one explicitly.
type CalendarRepository struct {
	col *mongo.Collection
}

func NewCalendarRepository(db *mongo.Database) *CalendarRepository {
	return &CalendarRepository{col: db.Collection("agg_calendar")}
}

func (r *CalendarRepository) Calendar(ctx context.Context, id domainbikes.BikeID) (*domaincalendar.BikeCalendar, error) {
	var doc calendarDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domaincalendar.NewBikeCalendar(id), nil
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *CalendarRepository) Save(ctx context.Context, cal *domaincalendar.BikeCalendar) error {
	doc := newCalendarDocument(cal)
	filter := bson.M{"_id": doc.ID, "version": cal.Version}
	doc.Version = cal.Version + 1
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
	cal.Version = doc.Version
	return nil
}

type calendarDocument struct {
	ID      string          `bson:"_id"`
	Blocks  []blockDocument `bson:"blocks"`
	Version int64           `bson:"version"`
}

type blockDocument struct {
	DateFrom  string `bson:"date_from"`
	DateEnd   string `bson:"date_end"`
	Reason    string `bson:"reason"`
	Reference string `bson:"reference"`
	CreatedAt int64  `bson:"created_at"`
}

func newCalendarDocument(cal *domaincalendar.BikeCalendar) calendarDocument {
	doc := calendarDocument{ID: string(cal.BikeID), Version: cal.Version}
	for _, b := range cal.Blocks {
		doc.Blocks = append(doc.Blocks, blockDocument{
			DateFrom:  string(b.Range.Start),
			DateEnd:   string(b.Range.End),
			Reason:    string(b.Reason),
			Reference: b.Reference,
			CreatedAt: b.CreatedAt.UnixMilli(),
		})
	}
	return doc
}

func (d calendarDocument) toAggregate() *domaincalendar.BikeCalendar {
	cal := domaincalendar.NewBikeCalendar(domainbikes.BikeID(d.ID))
	cal.Version = d.Version
	for _, b := range d.Blocks {
		cal.Blocks = append(cal.Blocks, domaincalendar.Block{
			Range:     dates.DateRange{Start: dates.Day(b.DateFrom), End: dates.Day(b.DateEnd)},
			Reason:    domaincalendar.BlockReason(b.Reason),
			Reference: b.Reference,
			CreatedAt: timestampToTime(b.CreatedAt),
		})
	}
	return cal
}
