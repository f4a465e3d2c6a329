package fixtures

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainbooking "bookingengine/internal/domain/booking"
	"bookingengine/internal/infra/storage/memory"
)

const sample = `{
  "units": [
    {"id": "u1", "name": "Loft", "base_price": "100", "max_capacity": 2, "custom_features": "{\"cleaning_fee\": 25}"},
    {"id": "u2", "name": "Villa", "base_price": "250.50", "discount_percentage": "10", "max_capacity": 6, "custom_features": {"cleaning_fee": "40"}},
    {"id": "u3", "name": "Broken", "base_price": "cheap", "max_capacity": 1}
  ],
  "pricing_rules": [
    {"id": "r1", "unit_id": "u1", "start_date": "2030-01-10", "end_date": "2030-01-12", "price_amount": "150", "description": "Festival"},
    {"id": "r2", "unit_id": "u1", "start_date": "2030-01-12", "end_date": "2030-01-10", "price_amount": "150"}
  ],
  "bookings": [
    {"id": "b1", "unit_id": "u1", "check_in": "2030-02-01", "check_out": "2030-02-03", "guests": 2, "status": "confirmed"},
    {"id": "b2", "unit_id": "u1", "check_in": "2030-02-05", "check_out": "2030-02-03", "guests": 2}
  ]
}`

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixtures.json")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))
	store := memory.NewStore()

	report, err := LoadFile(context.Background(), path, store, quietLogger())
	require.NoError(t, err)
	assert.Equal(t, Report{Units: 2, Rules: 1, Bookings: 1, Skipped: 3}, report)

	u1, err := store.UnitsRepo.ByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "25", u1.Features.DecimalOrZero("cleaning_fee").String())

	u2, err := store.UnitsRepo.ByID(context.Background(), "u2")
	require.NoError(t, err)
	assert.Equal(t, "40", u2.Features.DecimalOrZero("cleaning_fee").String())
	assert.Equal(t, "10", u2.DiscountPercentage.String())

	bookings, err := store.BookingsRepo.ActiveByUnit(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, domainbooking.StatusConfirmed, bookings[0].Status)
}

func TestLoadFile_MissingAndMalformed(t *testing.T) {
	store := memory.NewStore()
	report, err := LoadFile(context.Background(), filepath.Join(t.TempDir(), "nope.json"), store, quietLogger())
	require.NoError(t, err)
	assert.Zero(t, report)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"units": [`), 0o600))
	_, err = LoadFile(context.Background(), path, store, quietLogger())
	assert.Error(t, err)
}
