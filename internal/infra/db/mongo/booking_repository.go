package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainbooking "bookingengine/internal/domain/booking"
	"bookingengine/internal/domain/shared/daterange"
	domainunits "bookingengine/internal/domain/units"
)

type BookingRepository struct {
	col *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) *BookingRepository {
	return &BookingRepository{col: db.Collection(bookingsCollection)}
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	var doc bookingDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainbooking.ErrBookingNotFound
		}
		return nil, err
	}
	b := doc.toDomain()
	return &b, nil
}

func (r *BookingRepository) ActiveByUnit(ctx context.Context, unitID domainunits.UnitID) ([]domainbooking.Booking, error) {
	filter := bson.M{
		"unit_id": string(unitID),
		"status":  bson.M{"$ne": string(domainbooking.StatusCancelled)},
	}
	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "check_in", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := make([]domainbooking.Booking, 0)
	for cur.Next(ctx) {
		var doc bookingDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toDomain())
	}
	return out, cur.Err()
}

func (r *BookingRepository) Save(ctx context.Context, b *domainbooking.Booking) error {
	doc := newBookingDocument(b)
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	return err
}

type bookingDocument struct {
	ID        string `bson:"_id"`
	UnitID    string `bson:"unit_id"`
	CheckIn   int64  `bson:"check_in"`
	CheckOut  int64  `bson:"check_out"`
	Guests    int    `bson:"guests"`
	Status    string `bson:"status"`
	CreatedAt int64  `bson:"created_at"`
}

func newBookingDocument(b *domainbooking.Booking) bookingDocument {
	return bookingDocument{
		ID:        string(b.ID),
		UnitID:    string(b.UnitID),
		CheckIn:   b.Range.CheckIn.UnixMilli(),
		CheckOut:  b.Range.CheckOut.UnixMilli(),
		Guests:    b.Guests,
		Status:    string(b.Status),
		CreatedAt: b.CreatedAt.UnixMilli(),
	}
}

// toDomain keeps unknown status strings as-is; only CANCELLED frees nights.
func (d bookingDocument) toDomain() domainbooking.Booking {
	status, err := domainbooking.ParseStatus(d.Status)
	if err != nil {
		status = domainbooking.Status(d.Status)
	}
	return domainbooking.Booking{
		ID:     domainbooking.BookingID(d.ID),
		UnitID: domainunits.UnitID(d.UnitID),
		Range: daterange.DateRange{
			CheckIn:  daterange.Day(timestampToTime(d.CheckIn)),
			CheckOut: daterange.Day(timestampToTime(d.CheckOut)),
		},
		Guests:    d.Guests,
		Status:    status,
		CreatedAt: timestampToTime(d.CreatedAt),
	}
}
