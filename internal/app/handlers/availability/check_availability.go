package availability

import (
	"context"
	"strings"
	"time"

	"bookingengine/internal/app/dto"
	"bookingengine/internal/app/handlers/support"
	"bookingengine/internal/app/queries"
	"bookingengine/internal/app/uow"
	domainavailability "bookingengine/internal/domain/availability"
	domainpricing "bookingengine/internal/domain/pricing"
	"bookingengine/internal/domain/shared/daterange"
	domainunits "bookingengine/internal/domain/units"
)

const CheckAvailabilityKey = "availability.check"

type CheckAvailabilityQuery struct {
	UnitID   string
	CheckIn  time.Time
	CheckOut time.Time
}

func (q CheckAvailabilityQuery) Key() string { return CheckAvailabilityKey }

type CheckAvailabilityHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *CheckAvailabilityHandler) Handle(ctx context.Context, q CheckAvailabilityQuery) (dto.Availability, error) {
	unitID := strings.TrimSpace(q.UnitID)
	if unitID == "" {
		return dto.Availability{}, support.Invalid("unit id is required")
	}
	stay, err := daterange.New(q.CheckIn, q.CheckOut)
	if err != nil {
		return dto.Availability{}, &domainpricing.InvalidRangeError{CheckIn: daterange.Day(q.CheckIn), CheckOut: daterange.Day(q.CheckOut)}
	}

	unit, ctx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.Availability{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	if _, err := unit.Units().ByID(ctx, domainunits.UnitID(unitID)); err != nil {
		return dto.Availability{}, err
	}
	bookings, err := unit.Bookings().ActiveByUnit(ctx, domainunits.UnitID(unitID))
	if err != nil {
		return dto.Availability{}, err
	}
	conflicts := domainavailability.Conflicts(domainunits.UnitID(unitID), stay.CheckIn, stay.CheckOut, bookings)
	return dto.MapAvailability(unitID, stay, conflicts), nil
}

var _ queries.Handler[CheckAvailabilityQuery, dto.Availability] = (*CheckAvailabilityHandler)(nil)
