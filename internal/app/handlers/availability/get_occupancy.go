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

const GetOccupancyKey = "availability.occupancy"

// MaxOccupancyWindow caps how far a single occupancy lookup may reach.
const MaxOccupancyWindow = 366

type GetOccupancyQuery struct {
	UnitID string
	From   time.Time
	To     time.Time
}

func (q GetOccupancyQuery) Key() string { return GetOccupancyKey }

type GetOccupancyHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *GetOccupancyHandler) Handle(ctx context.Context, q GetOccupancyQuery) (dto.Occupancy, error) {
	unitID := strings.TrimSpace(q.UnitID)
	if unitID == "" {
		return dto.Occupancy{}, support.Invalid("unit id is required")
	}
	window, err := daterange.New(q.From, q.To)
	if err != nil {
		return dto.Occupancy{}, &domainpricing.InvalidRangeError{CheckIn: daterange.Day(q.From), CheckOut: daterange.Day(q.To)}
	}
	if window.Nights() > MaxOccupancyWindow {
		return dto.Occupancy{}, support.Invalid("occupancy window exceeds %d days", MaxOccupancyWindow)
	}

	unit, ctx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.Occupancy{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	if _, err := unit.Units().ByID(ctx, domainunits.UnitID(unitID)); err != nil {
		return dto.Occupancy{}, err
	}
	bookings, err := unit.Bookings().ActiveByUnit(ctx, domainunits.UnitID(unitID))
	if err != nil {
		return dto.Occupancy{}, err
	}
	blocks := domainavailability.Occupancy(domainunits.UnitID(unitID), window, bookings)
	return dto.MapOccupancy(unitID, window, blocks), nil
}

var _ queries.Handler[GetOccupancyQuery, dto.Occupancy] = (*GetOccupancyHandler)(nil)
