package uow

import (
	"context"

	domainbooking "bookingengine/internal/domain/booking"
	domainpricing "bookingengine/internal/domain/pricing"
	domainunits "bookingengine/internal/domain/units"
)

// UnitOfWork gives handlers a consistent view over the repositories.
type UnitOfWork interface {
	Units() domainunits.Repository
	PricingRules() domainpricing.RuleRepository
	Bookings() domainbooking.Repository

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// UoWFactory starts unit of work instances.
type UoWFactory interface {
	Begin(ctx context.Context, opts TxOptions) (UnitOfWork, error)
}

type TxOptions struct {
	ReadOnly bool
}
