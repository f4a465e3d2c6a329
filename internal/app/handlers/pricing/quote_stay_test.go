package pricing

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookingengine/internal/app/handlers/support"
	appoutbox "bookingengine/internal/app/outbox"
	domainbooking "bookingengine/internal/domain/booking"
	domainpricing "bookingengine/internal/domain/pricing"
	"bookingengine/internal/domain/shared/daterange"
	"bookingengine/internal/domain/shared/money"
	domainunits "bookingengine/internal/domain/units"
	"bookingengine/internal/infra/storage/memory"
)

var today = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

func day(m time.Month, d int) time.Time {
	return time.Date(2024, m, d, 0, 0, 0, 0, time.UTC)
}

type fixture struct {
	store   memory.Factory
	outbox  *memory.Outbox
	handler *QuoteStayHandler
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	unit, err := domainunits.NewUnit(domainunits.CreateParams{
		ID: "unit-1", Name: "Loft", BasePrice: money.MustParse("100"), MaxCapacity: 2, Now: today,
	})
	require.NoError(t, err)
	require.NoError(t, store.UnitsRepo.Save(ctx, unit))

	rule, err := domainpricing.NewRule(domainpricing.RuleParams{
		ID: "r1", UnitID: "unit-1", StartDate: day(1, 10), EndDate: day(1, 12), PriceAmount: money.MustParse("150"),
	})
	require.NoError(t, err)
	require.NoError(t, store.RulesRepo.Save(ctx, rule))

	b, err := domainbooking.NewBooking(domainbooking.CreateParams{
		ID: "b1", UnitID: "unit-1", CheckIn: day(2, 1), CheckOut: day(2, 5), Guests: 2, Status: domainbooking.StatusConfirmed,
	})
	require.NoError(t, err)
	require.NoError(t, store.BookingsRepo.Save(ctx, b))

	box := memory.NewOutbox()
	return fixture{
		store:  store,
		outbox: box,
		handler: &QuoteStayHandler{
			UoWFactory: store,
			Outbox:     box,
			Now:        func() time.Time { return today },
		},
	}
}

func TestQuoteStay(t *testing.T) {
	f := newFixture(t)

	out, err := f.handler.Handle(context.Background(), QuoteStayQuery{
		UnitID: "unit-1", CheckIn: day(1, 9), CheckOut: day(1, 13), Guests: 2,
	})
	require.NoError(t, err)

	assert.Equal(t, 4, out.Nights)
	assert.Equal(t, "550.00", out.BaseAmount)
	assert.Equal(t, "27.50", out.Discounts)
	assert.Equal(t, "11.00", out.Fees)
	assert.Equal(t, "26.68", out.Taxes)
	assert.Equal(t, "560.18", out.TotalAmount)
	require.Len(t, out.Breakdown, 4)
	assert.Equal(t, domainpricing.ReasonStandard, out.Breakdown[0].Reason)
	assert.Equal(t, domainpricing.ReasonSpecialPrice, out.Breakdown[1].Reason)

	records := f.outbox.Records()
	require.Len(t, records, 1)
	assert.Equal(t, domainpricing.EventQuoteCalculated, records[0].Name)
	assert.Equal(t, "unit-1", records[0].Aggregate)
	var payload map[string]any
	require.NoError(t, json.Unmarshal(records[0].Payload, &payload))
	assert.Equal(t, "560.18", payload["total"])
	assert.EqualValues(t, 2, payload["guests"])
}

func TestQuoteStay_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		query QuoteStayQuery
		check func(t *testing.T, err error)
	}{
		{
			name:  "missing unit",
			query: QuoteStayQuery{CheckIn: day(1, 9), CheckOut: day(1, 10), Guests: 1},
			check: func(t *testing.T, err error) { assert.ErrorIs(t, err, support.ErrInvalidInput) },
		},
		{
			name:  "no guests",
			query: QuoteStayQuery{UnitID: "unit-1", CheckIn: day(1, 9), CheckOut: day(1, 10)},
			check: func(t *testing.T, err error) { assert.ErrorIs(t, err, support.ErrInvalidInput) },
		},
		{
			name:  "inverted range",
			query: QuoteStayQuery{UnitID: "unit-1", CheckIn: day(1, 10), CheckOut: day(1, 9), Guests: 1},
			check: func(t *testing.T, err error) {
				var rangeErr *domainpricing.InvalidRangeError
				assert.True(t, errors.As(err, &rangeErr))
				assert.ErrorIs(t, err, daterange.ErrInvalidRange)
			},
		},
		{
			name:  "check-in in the past",
			query: QuoteStayQuery{UnitID: "unit-1", CheckIn: day(1, 1).AddDate(0, 0, -1), CheckOut: day(1, 3), Guests: 1},
			check: func(t *testing.T, err error) { assert.ErrorIs(t, err, support.ErrInvalidInput) },
		},
		{
			name:  "unknown unit",
			query: QuoteStayQuery{UnitID: "ghost", CheckIn: day(1, 9), CheckOut: day(1, 10), Guests: 1},
			check: func(t *testing.T, err error) { assert.ErrorIs(t, err, domainunits.ErrUnitNotFound) },
		},
		{
			name:  "too many guests",
			query: QuoteStayQuery{UnitID: "unit-1", CheckIn: day(1, 9), CheckOut: day(1, 10), Guests: 3},
			check: func(t *testing.T, err error) { assert.ErrorIs(t, err, ErrCapacityExceeded) },
		},
		{
			name:  "booked when availability required",
			query: QuoteStayQuery{UnitID: "unit-1", CheckIn: day(2, 3), CheckOut: day(2, 6), Guests: 1, RequireAvailable: true},
			check: func(t *testing.T, err error) { assert.ErrorIs(t, err, ErrUnitUnavailable) },
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.handler.Handle(ctx, tc.query)
			require.Error(t, err)
			tc.check(t, err)
		})
	}
	assert.Empty(t, f.outbox.Records())
}

func TestQuoteStay_BackToBackIsAvailable(t *testing.T) {
	f := newFixture(t)
	out, err := f.handler.Handle(context.Background(), QuoteStayQuery{
		UnitID: "unit-1", CheckIn: day(2, 5), CheckOut: day(2, 7), Guests: 1, RequireAvailable: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Nights)
}

func TestQuoteStay_WithoutAvailabilityCheckPricesBookedDates(t *testing.T) {
	f := newFixture(t)
	_, err := f.handler.Handle(context.Background(), QuoteStayQuery{
		UnitID: "unit-1", CheckIn: day(2, 2), CheckOut: day(2, 4), Guests: 1,
	})
	assert.NoError(t, err)
}

type failingOutbox struct{}

func (failingOutbox) Add(context.Context, appoutbox.EventRecord) error {
	return errors.New("disk full")
}

func TestQuoteStay_OutboxFailureDoesNotFailQuote(t *testing.T) {
	f := newFixture(t)
	f.handler.Outbox = failingOutbox{}
	out, err := f.handler.Handle(context.Background(), QuoteStayQuery{
		UnitID: "unit-1", CheckIn: day(1, 15), CheckOut: day(1, 16), Guests: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, "107.10", out.TotalAmount)
}

func TestQuoteStay_CustomPolicyAndRounding(t *testing.T) {
	f := newFixture(t)
	policy := domainpricing.DefaultPolicy()
	policy.VATRate = money.MustParse("0")
	f.handler.Policy = &policy
	f.handler.RoundingPlaces = 3

	out, err := f.handler.Handle(context.Background(), QuoteStayQuery{
		UnitID: "unit-1", CheckIn: day(1, 15), CheckOut: day(1, 16), Guests: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, "102.000", out.TotalAmount)
	assert.Equal(t, "0.000", out.Taxes)
}
