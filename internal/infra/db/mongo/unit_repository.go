package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainunits "bookingengine/internal/domain/units"
)

type UnitRepository struct {
	col *mongo.Collection
}

func NewUnitRepository(db *mongo.Database) *UnitRepository {
	return &UnitRepository{col: db.Collection(unitsCollection)}
}

func (r *UnitRepository) ByID(ctx context.Context, id domainunits.UnitID) (*domainunits.Unit, error) {
	var doc unitDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainunits.ErrUnitNotFound
		}
		return nil, err
	}
	return doc.toDomain()
}

func (r *UnitRepository) List(ctx context.Context) ([]*domainunits.Unit, error) {
	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []*domainunits.Unit
	for cur.Next(ctx) {
		var doc unitDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		unit, err := doc.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, unit)
	}
	return out, cur.Err()
}

func (r *UnitRepository) Save(ctx context.Context, unit *domainunits.Unit) error {
	doc := newUnitDocument(unit)
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	return err
}

type unitDocument struct {
	ID                 string `bson:"_id"`
	Name               string `bson:"name"`
	BasePrice          string `bson:"base_price"`
	DiscountPercentage string `bson:"discount_percentage"`
	MaxCapacity        int    `bson:"max_capacity"`
	CustomFeatures     string `bson:"custom_features"`
	CreatedAt          int64  `bson:"created_at"`
	UpdatedAt          int64  `bson:"updated_at"`
}

func newUnitDocument(u *domainunits.Unit) unitDocument {
	return unitDocument{
		ID:                 string(u.ID),
		Name:               u.Name,
		BasePrice:          u.BasePrice.String(),
		DiscountPercentage: u.DiscountPercentage.String(),
		MaxCapacity:        u.MaxCapacity,
		CustomFeatures:     u.RawFeatures(),
		CreatedAt:          u.CreatedAt.UnixMilli(),
		UpdatedAt:          u.UpdatedAt.UnixMilli(),
	}
}

// toDomain parses custom features leniently; a broken features string never
// makes the unit unreadable.
func (d unitDocument) toDomain() (*domainunits.Unit, error) {
	base, err := decimalFromDocument(d.BasePrice)
	if err != nil {
		return nil, fmt.Errorf("mongo: unit %s base_price: %w", d.ID, err)
	}
	discount, err := decimalFromDocument(d.DiscountPercentage)
	if err != nil {
		return nil, fmt.Errorf("mongo: unit %s discount_percentage: %w", d.ID, err)
	}
	return &domainunits.Unit{
		ID:                 domainunits.UnitID(d.ID),
		Name:               d.Name,
		BasePrice:          base,
		DiscountPercentage: discount,
		MaxCapacity:        d.MaxCapacity,
		Features:           domainunits.ParseFeatures(d.CustomFeatures),
		CustomFeatures:     d.CustomFeatures,
		CreatedAt:          timestampToTime(d.CreatedAt),
		UpdatedAt:          timestampToTime(d.UpdatedAt),
	}, nil
}
