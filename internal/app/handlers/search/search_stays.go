package search

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"bookingengine/internal/app/dto"
	"bookingengine/internal/app/handlers/support"
	"bookingengine/internal/app/queries"
	"bookingengine/internal/app/uow"
	domainavailability "bookingengine/internal/domain/availability"
	domainpricing "bookingengine/internal/domain/pricing"
	"bookingengine/internal/domain/shared/daterange"
	domainunits "bookingengine/internal/domain/units"
)

const SearchStaysKey = "search.stays"

const (
	defaultConcurrency = 8
	maxLimit           = 100
)

// SearchStaysQuery prices a stay across many units. An empty UnitIDs searches
// every known unit.
type SearchStaysQuery struct {
	CheckIn  time.Time
	CheckOut time.Time
	Guests   int
	UnitIDs  []string
	Limit    int
}

func (q SearchStaysQuery) Key() string { return SearchStaysKey }

type SearchStaysHandler struct {
	UoWFactory     uow.UoWFactory
	Policy         *domainpricing.Policy
	Concurrency    int
	RoundingPlaces int32
	Now            func() time.Time
}

type hit struct {
	unit  *domainunits.Unit
	quote domainpricing.Quote
}

func (h *SearchStaysHandler) Handle(ctx context.Context, q SearchStaysQuery) (dto.SearchResult, error) {
	if q.Guests < 1 {
		return dto.SearchResult{}, support.Invalid("guests must be at least 1")
	}
	if q.Limit < 0 {
		return dto.SearchResult{}, support.Invalid("limit must not be negative")
	}
	stay, err := daterange.New(q.CheckIn, q.CheckOut)
	if err != nil {
		return dto.SearchResult{}, &domainpricing.InvalidRangeError{CheckIn: daterange.Day(q.CheckIn), CheckOut: daterange.Day(q.CheckOut)}
	}
	if stay.CheckIn.Before(daterange.Day(h.now())) {
		return dto.SearchResult{}, support.Invalid("check-in %s is in the past", stay.CheckIn.Format(time.DateOnly))
	}

	unit, ctx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.SearchResult{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	candidates, missing, err := h.candidates(ctx, unit, q.UnitIDs)
	if err != nil {
		return dto.SearchResult{}, err
	}

	hits := make([]*hit, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(h.concurrency())
	for i, candidate := range candidates {
		g.Go(func() error {
			found, err := h.price(gctx, unit, candidate, stay, q.Guests)
			if err != nil {
				return err
			}
			hits[i] = found
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return dto.SearchResult{}, err
	}

	matched := make([]*hit, 0, len(hits))
	for _, found := range hits {
		if found != nil {
			matched = append(matched, found)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		if c := matched[i].quote.TotalAmount.Cmp(matched[j].quote.TotalAmount); c != 0 {
			return c < 0
		}
		return matched[i].unit.ID < matched[j].unit.ID
	})

	limit := q.Limit
	if limit == 0 || limit > maxLimit {
		limit = maxLimit
	}
	if len(matched) > limit {
		matched = matched[:limit]
	}

	result := dto.SearchResult{
		CheckIn:  stay.CheckIn,
		CheckOut: stay.CheckOut,
		Guests:   q.Guests,
		Items:    make([]dto.SearchHit, 0, len(matched)),
		Skipped:  missing + len(candidates) - countNonNil(hits),
	}
	for _, m := range matched {
		result.Items = append(result.Items, dto.SearchHit{
			UnitID:      string(m.unit.ID),
			Name:        m.unit.Name,
			MaxCapacity: m.unit.MaxCapacity,
			Quote:       dto.MapQuote(m.quote, q.Guests, h.places()),
		})
	}
	return result, nil
}

// candidates resolves the units to price. Unknown ids are counted, not fatal.
func (h *SearchStaysHandler) candidates(ctx context.Context, unit uow.UnitOfWork, ids []string) ([]*domainunits.Unit, int, error) {
	if len(ids) == 0 {
		all, err := unit.Units().List(ctx)
		return all, 0, err
	}
	seen := make(map[string]struct{}, len(ids))
	out := make([]*domainunits.Unit, 0, len(ids))
	missing := 0
	for _, raw := range ids {
		id := strings.TrimSpace(raw)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		u, err := unit.Units().ByID(ctx, domainunits.UnitID(id))
		if errors.Is(err, domainunits.ErrUnitNotFound) {
			missing++
			continue
		}
		if err != nil {
			return nil, 0, err
		}
		out = append(out, u)
	}
	return out, missing, nil
}

// price returns nil when the unit is too small or already booked.
func (h *SearchStaysHandler) price(ctx context.Context, unit uow.UnitOfWork, candidate *domainunits.Unit, stay daterange.DateRange, guests int) (*hit, error) {
	if candidate == nil || !candidate.Fits(guests) {
		return nil, nil
	}
	bookings, err := unit.Bookings().ActiveByUnit(ctx, candidate.ID)
	if err != nil {
		return nil, err
	}
	if !domainavailability.IsAvailable(candidate.ID, stay.CheckIn, stay.CheckOut, bookings) {
		return nil, nil
	}
	rules, err := unit.PricingRules().ByUnit(ctx, candidate.ID)
	if err != nil {
		return nil, err
	}
	policy := domainpricing.DefaultPolicy()
	if h.Policy != nil {
		policy = *h.Policy
	}
	quote, err := policy.CalculateStay(*candidate, rules, stay.CheckIn, stay.CheckOut)
	if err != nil {
		return nil, err
	}
	return &hit{unit: candidate, quote: quote}, nil
}

func (h *SearchStaysHandler) concurrency() int {
	if h.Concurrency > 0 {
		return h.Concurrency
	}
	return defaultConcurrency
}

func (h *SearchStaysHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now().UTC()
}

func (h *SearchStaysHandler) places() int32 {
	if h.RoundingPlaces > 0 {
		return h.RoundingPlaces
	}
	return dto.DefaultRoundingPlaces
}

func countNonNil(hits []*hit) int {
	n := 0
	for _, h := range hits {
		if h != nil {
			n++
		}
	}
	return n
}

var _ queries.Handler[SearchStaysQuery, dto.SearchResult] = (*SearchStaysHandler)(nil)
