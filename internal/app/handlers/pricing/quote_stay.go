package pricing

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"bookingengine/internal/app/dto"
	"bookingengine/internal/app/handlers/support"
	"bookingengine/internal/app/outbox"
	"bookingengine/internal/app/queries"
	"bookingengine/internal/app/uow"
	domainavailability "bookingengine/internal/domain/availability"
	domainpricing "bookingengine/internal/domain/pricing"
	"bookingengine/internal/domain/shared/daterange"
	"bookingengine/internal/domain/shared/events"
	domainunits "bookingengine/internal/domain/units"
)

const QuoteStayKey = "pricing.quote_stay"

var (
	ErrCapacityExceeded = errors.New("pricing: guests exceed unit capacity")
	ErrUnitUnavailable  = errors.New("pricing: unit is not available for the requested dates")
)

type QuoteStayQuery struct {
	UnitID           string
	CheckIn          time.Time
	CheckOut         time.Time
	Guests           int
	RequireAvailable bool
}

func (q QuoteStayQuery) Key() string { return QuoteStayKey }

// QuoteStayHandler prices a stay for one unit. The engine itself assumes the
// caller already checked availability, capacity and dates; those checks live
// here.
type QuoteStayHandler struct {
	UoWFactory     uow.UoWFactory
	Policy         *domainpricing.Policy
	Outbox         outbox.Outbox
	Encoder        outbox.EventEncoder
	RoundingPlaces int32
	Now            func() time.Time
	Logger         *slog.Logger
}

func (h *QuoteStayHandler) Handle(ctx context.Context, q QuoteStayQuery) (dto.Quote, error) {
	unitID := strings.TrimSpace(q.UnitID)
	if unitID == "" {
		return dto.Quote{}, support.Invalid("unit id is required")
	}
	if q.Guests < 1 {
		return dto.Quote{}, support.Invalid("guests must be at least 1")
	}
	stay, err := daterange.New(q.CheckIn, q.CheckOut)
	if err != nil {
		return dto.Quote{}, &domainpricing.InvalidRangeError{CheckIn: daterange.Day(q.CheckIn), CheckOut: daterange.Day(q.CheckOut)}
	}
	now := h.now()
	if stay.CheckIn.Before(daterange.Day(now)) {
		return dto.Quote{}, support.Invalid("check-in %s is in the past", stay.CheckIn.Format(time.DateOnly))
	}

	unit, ctx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.Quote{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	target, err := unit.Units().ByID(ctx, domainunits.UnitID(unitID))
	if err != nil {
		return dto.Quote{}, err
	}
	if !target.Fits(q.Guests) {
		return dto.Quote{}, ErrCapacityExceeded
	}
	rules, err := unit.PricingRules().ByUnit(ctx, target.ID)
	if err != nil {
		return dto.Quote{}, err
	}
	if q.RequireAvailable {
		bookings, err := unit.Bookings().ActiveByUnit(ctx, target.ID)
		if err != nil {
			return dto.Quote{}, err
		}
		if !domainavailability.IsAvailable(target.ID, stay.CheckIn, stay.CheckOut, bookings) {
			return dto.Quote{}, ErrUnitUnavailable
		}
	}

	quote, err := h.policy().CalculateStay(*target, rules, stay.CheckIn, stay.CheckOut)
	if err != nil {
		return dto.Quote{}, err
	}
	out := dto.MapQuote(quote, q.Guests, h.places())

	var recorder events.Recorder
	recorder.Record(domainpricing.NewQuoteCalculated(quote, q.Guests, out.TotalAmount, now))
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.encoder(), recorder.Drain()); err != nil {
		h.logger().WarnContext(ctx, "quote event not recorded", "unit_id", unitID, "error", err)
	}
	return out, nil
}

func (h *QuoteStayHandler) policy() domainpricing.Policy {
	if h.Policy != nil {
		return *h.Policy
	}
	return domainpricing.DefaultPolicy()
}

func (h *QuoteStayHandler) places() int32 {
	if h.RoundingPlaces > 0 {
		return h.RoundingPlaces
	}
	return dto.DefaultRoundingPlaces
}

func (h *QuoteStayHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now().UTC()
}

func (h *QuoteStayHandler) encoder() outbox.EventEncoder {
	if h.Encoder != nil {
		return h.Encoder
	}
	return outbox.JSONEventEncoder{}
}

func (h *QuoteStayHandler) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

var _ queries.Handler[QuoteStayQuery, dto.Quote] = (*QuoteStayHandler)(nil)
