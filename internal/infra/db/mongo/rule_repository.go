package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainpricing "bookingengine/internal/domain/pricing"
	domainunits "bookingengine/internal/domain/units"
)

// RuleRepository stores pricing rules with a per-insert sequence so ByUnit
// returns them in the order they were added.
type RuleRepository struct {
	col *mongo.Collection
	seq func() int64
}

func NewRuleRepository(db *mongo.Database) *RuleRepository {
	return &RuleRepository{
		col: db.Collection(rulesCollection),
		seq: func() int64 { return time.Now().UnixNano() },
	}
}

func (r *RuleRepository) ByUnit(ctx context.Context, unitID domainunits.UnitID) ([]domainpricing.PricingRule, error) {
	opts := options.Find().SetSort(bson.D{{Key: "seq", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{"unit_id": string(unitID)}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := make([]domainpricing.PricingRule, 0)
	for cur.Next(ctx) {
		var doc ruleDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		rule, err := doc.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, rule)
	}
	return out, cur.Err()
}

// Save upserts by id. An existing rule keeps its original position.
func (r *RuleRepository) Save(ctx context.Context, rule domainpricing.PricingRule) error {
	doc := newRuleDocument(rule)
	update := bson.M{
		"$set":         doc,
		"$setOnInsert": bson.M{"seq": r.seq()},
	}
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": string(rule.ID)}, update, options.Update().SetUpsert(true))
	return err
}

type ruleDocument struct {
	ID          string `bson:"_id,omitempty"`
	UnitID      string `bson:"unit_id"`
	StartDate   int64  `bson:"start_date"`
	EndDate     int64  `bson:"end_date"`
	PriceAmount string `bson:"price_amount"`
	PriceType   string `bson:"price_type,omitempty"`
	Description string `bson:"description,omitempty"`
}

func newRuleDocument(r domainpricing.PricingRule) ruleDocument {
	return ruleDocument{
		UnitID:      string(r.UnitID),
		StartDate:   r.StartDate.UnixMilli(),
		EndDate:     r.EndDate.UnixMilli(),
		PriceAmount: r.PriceAmount.String(),
		PriceType:   r.PriceType,
		Description: r.Description,
	}
}

func (d ruleDocument) toDomain() (domainpricing.PricingRule, error) {
	price, err := decimalFromDocument(d.PriceAmount)
	if err != nil {
		return domainpricing.PricingRule{}, fmt.Errorf("mongo: rule %s price_amount: %w", d.ID, err)
	}
	return domainpricing.PricingRule{
		ID:          domainpricing.RuleID(d.ID),
		UnitID:      domainunits.UnitID(d.UnitID),
		StartDate:   timestampToTime(d.StartDate),
		EndDate:     timestampToTime(d.EndDate),
		PriceAmount: price,
		PriceType:   d.PriceType,
		Description: d.Description,
	}, nil
}
