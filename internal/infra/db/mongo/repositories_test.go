package mongo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	domainbooking "bookingengine/internal/domain/booking"
	domainpricing "bookingengine/internal/domain/pricing"
	"bookingengine/internal/domain/shared/money"
	domainunits "bookingengine/internal/domain/units"
)

func TestUnitDocumentRoundTrip(t *testing.T) {
	at := time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC)
	unit := &domainunits.Unit{
		ID:                 "u1",
		Name:               "Loft",
		BasePrice:          money.MustParse("120.505"),
		DiscountPercentage: money.MustParse("7.5"),
		MaxCapacity:        3,
		Features:           domainunits.ParseFeatures(`{"cleaning_fee": 40}`),
		CreatedAt:          at,
		UpdatedAt:          at,
	}
	doc := newUnitDocument(unit)
	assert.Equal(t, "120.505", doc.BasePrice)

	back, err := doc.toDomain()
	require.NoError(t, err)
	assert.True(t, unit.BasePrice.Equal(back.BasePrice))
	assert.Equal(t, "40", back.Features.DecimalOrZero("cleaning_fee").String())
	assert.Equal(t, at, back.CreatedAt)
}

func TestUnitDocument_BrokenFeaturesStillLoads(t *testing.T) {
	doc := unitDocument{ID: "u1", BasePrice: "100", MaxCapacity: 2, CustomFeatures: `{"cleaning_fee": 1`}
	unit, err := doc.toDomain()
	require.NoError(t, err)
	assert.Empty(t, unit.Features)
	assert.Equal(t, doc.CustomFeatures, newUnitDocument(unit).CustomFeatures)

	doc.BasePrice = "lots"
	_, err = doc.toDomain()
	assert.Error(t, err)
}

func TestBookingDocument_NormalizesDays(t *testing.T) {
	doc := bookingDocument{
		ID:       "b1",
		UnitID:   "u1",
		CheckIn:  time.Date(2024, 1, 1, 15, 0, 0, 0, time.UTC).UnixMilli(),
		CheckOut: time.Date(2024, 1, 3, 11, 0, 0, 0, time.UTC).UnixMilli(),
		Status:   "canceled",
	}
	b := doc.toDomain()
	assert.Equal(t, domainbooking.StatusCancelled, b.Status)
	assert.Equal(t, 2, b.Range.Nights())
	assert.False(t, b.Active())
}

func TestRuleDocumentRoundTrip(t *testing.T) {
	rule := domainpricing.PricingRule{
		ID:          "r1",
		UnitID:      "u1",
		StartDate:   time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2024, 1, 12, 0, 0, 0, 0, time.UTC),
		PriceAmount: money.MustParse("150"),
		Description: "Festival",
	}
	doc := newRuleDocument(rule)
	doc.ID = string(rule.ID)
	back, err := doc.toDomain()
	require.NoError(t, err)
	assert.Equal(t, rule.StartDate, back.StartDate)
	assert.Equal(t, "Festival", back.Label())
}

func TestRepositoriesAgainstMockDeployment(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("unit not found", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.units", mtest.FirstBatch))
		_, err := NewUnitRepository(mt.DB).ByID(context.Background(), "missing")
		assert.ErrorIs(mt, err, domainunits.ErrUnitNotFound)
	})

	mt.Run("unit found", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.units", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: "u1"},
			{Key: "base_price", Value: "99.99"},
			{Key: "max_capacity", Value: 2},
			{Key: "custom_features", Value: `{"cleaning_fee": "15"}`},
		}))
		unit, err := NewUnitRepository(mt.DB).ByID(context.Background(), "u1")
		require.NoError(mt, err)
		assert.Equal(mt, "99.99", unit.BasePrice.String())
		assert.Equal(mt, "15", unit.Features.DecimalOrZero("cleaning_fee").String())
	})

	mt.Run("rules keep stored order", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "db.pricing_rules", mtest.FirstBatch,
				bson.D{{Key: "_id", Value: "first"}, {Key: "unit_id", Value: "u1"}, {Key: "price_amount", Value: "130"}},
				bson.D{{Key: "_id", Value: "second"}, {Key: "unit_id", Value: "u1"}, {Key: "price_amount", Value: "130"}},
			),
		)
		rules, err := NewRuleRepository(mt.DB).ByUnit(context.Background(), "u1")
		require.NoError(mt, err)
		require.Len(mt, rules, 2)
		assert.Equal(mt, domainpricing.RuleID("first"), rules[0].ID)
	})

	mt.Run("active bookings", func(mt *mtest.T) {
		in := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.bookings", mtest.FirstBatch,
			bson.D{
				{Key: "_id", Value: "b1"},
				{Key: "unit_id", Value: "u1"},
				{Key: "check_in", Value: in.UnixMilli()},
				{Key: "check_out", Value: in.AddDate(0, 0, 2).UnixMilli()},
				{Key: "status", Value: "CONFIRMED"},
			},
		))
		bookings, err := NewBookingRepository(mt.DB).ActiveByUnit(context.Background(), "u1")
		require.NoError(mt, err)
		require.Len(mt, bookings, 1)
		assert.Equal(mt, 2, bookings[0].Range.Nights())
	})

	mt.Run("save unit", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		err := NewUnitRepository(mt.DB).Save(context.Background(), &domainunits.Unit{ID: "u1", BasePrice: money.MustParse("1"), MaxCapacity: 1})
		assert.NoError(mt, err)
	})
}
