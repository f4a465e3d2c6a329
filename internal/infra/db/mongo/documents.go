package mongo

import (
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
)

const (
	unitsCollection    = "units"
	rulesCollection    = "pricing_rules"
	bookingsCollection = "bookings"
)

func bsonKeys(fields ...string) bson.D {
	keys := make(bson.D, 0, len(fields))
	for _, f := range fields {
		keys = append(keys, bson.E{Key: f, Value: 1})
	}
	return keys
}

// Amounts are stored as decimal strings so no precision is lost in BSON.
func decimalFromDocument(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(raw)
}

func timestampToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
