package memory

import (
	"context"
	"errors"

	"bookingengine/internal/app/uow"
	domainbooking "bookingengine/internal/domain/booking"
	domainpricing "bookingengine/internal/domain/pricing"
	domainunits "bookingengine/internal/domain/units"
)

// Factory wires in-memory repositories into a unit-of-work boundary.
type Factory struct {
	UnitsRepo    domainunits.Repository
	RulesRepo    domainpricing.RuleRepository
	BookingsRepo domainbooking.Repository
}

var ErrFactoryMisconfigured = errors.New("memory: unit of work factory misconfigured")

// NewStore builds a factory over fresh repositories.
func NewStore() Factory {
	return Factory{
		UnitsRepo:    NewUnitRepository(),
		RulesRepo:    NewRuleRepository(),
		BookingsRepo: NewBookingRepository(),
	}
}

// Begin provides no isolation; the repositories are individually thread-safe.
func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.UnitsRepo == nil || f.RulesRepo == nil || f.BookingsRepo == nil {
		return nil, ErrFactoryMisconfigured
	}
	return &Unit{units: f.UnitsRepo, rules: f.RulesRepo, bookings: f.BookingsRepo}, nil
}

type Unit struct {
	units    domainunits.Repository
	rules    domainpricing.RuleRepository
	bookings domainbooking.Repository
}

func (u *Unit) Units() domainunits.Repository {
	return u.units
}

func (u *Unit) PricingRules() domainpricing.RuleRepository {
	return u.rules
}

func (u *Unit) Bookings() domainbooking.Repository {
	return u.bookings
}

func (u *Unit) Commit(ctx context.Context) error {
	return nil
}

func (u *Unit) Rollback(ctx context.Context) error {
	return nil
}

var _ uow.UoWFactory = Factory{}
