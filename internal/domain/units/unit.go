package units

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrUnitNotFound       = errors.New("units: unit not found")
	ErrIDRequired         = errors.New("units: id is required")
	ErrNegativeBasePrice  = errors.New("units: base price must be non-negative")
	ErrDiscountOutOfRange = errors.New("units: discount percentage must be between 0 and 100")
	ErrCapacity           = errors.New("units: max capacity must be at least 1")
)

type UnitID string

// Unit is a rentable unit as seen by the pricing engine. It is owned and
// edited elsewhere; the engine only reads it.
type Unit struct {
	ID                 UnitID
	Name               string
	BasePrice          decimal.Decimal
	DiscountPercentage decimal.Decimal
	MaxCapacity        int
	Features           Features
	// CustomFeatures is the features text exactly as it was stored; Features
	// is parsed from it. Empty when the unit was built in code.
	CustomFeatures string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Repository interface {
	ByID(ctx context.Context, id UnitID) (*Unit, error)
	List(ctx context.Context) ([]*Unit, error)
	Save(ctx context.Context, unit *Unit) error
}

type CreateParams struct {
	ID                 UnitID
	Name               string
	BasePrice          decimal.Decimal
	DiscountPercentage decimal.Decimal
	MaxCapacity        int
	CustomFeatures     string
	Now                time.Time
}

// NewUnit checks the invariants a unit must hold before the engine can price it.
// Custom features are parsed leniently and never cause an error.
func NewUnit(params CreateParams) (*Unit, error) {
	if strings.TrimSpace(string(params.ID)) == "" {
		return nil, ErrIDRequired
	}
	if params.BasePrice.Sign() < 0 {
		return nil, ErrNegativeBasePrice
	}
	if params.DiscountPercentage.Sign() < 0 || params.DiscountPercentage.GreaterThan(decimal.NewFromInt(100)) {
		return nil, ErrDiscountOutOfRange
	}
	if params.MaxCapacity < 1 {
		return nil, ErrCapacity
	}
	now := params.Now.UTC()
	return &Unit{
		ID:                 params.ID,
		Name:               strings.TrimSpace(params.Name),
		BasePrice:          params.BasePrice,
		DiscountPercentage: params.DiscountPercentage,
		MaxCapacity:        params.MaxCapacity,
		Features:           ParseFeatures(params.CustomFeatures),
		CustomFeatures:     params.CustomFeatures,
		CreatedAt:          now,
		UpdatedAt:          now,
	}, nil
}

// RawFeatures is the text to persist: the stored original when there is one,
// otherwise Features serialized.
func (u *Unit) RawFeatures() string {
	if u.CustomFeatures != "" {
		return u.CustomFeatures
	}
	return u.Features.Raw()
}

// Fits reports whether the unit can host the given number of guests.
func (u *Unit) Fits(guests int) bool {
	return guests >= 1 && guests <= u.MaxCapacity
}
