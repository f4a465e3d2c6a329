package memory

import (
	"context"
	"sort"
	"sync"

	domainunits "bookingengine/internal/domain/units"
)

// UnitRepository keeps units in a map guarded by a RWMutex. Callers get
// copies, so a unit read during a search cannot change underneath them.
type UnitRepository struct {
	mu    sync.RWMutex
	items map[domainunits.UnitID]domainunits.Unit
}

func NewUnitRepository() *UnitRepository {
	return &UnitRepository{items: make(map[domainunits.UnitID]domainunits.Unit)}
}

func (r *UnitRepository) ByID(ctx context.Context, id domainunits.UnitID) (*domainunits.Unit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	unit, ok := r.items[id]
	if !ok {
		return nil, domainunits.ErrUnitNotFound
	}
	return &unit, nil
}

// List returns every unit ordered by id.
func (r *UnitRepository) List(ctx context.Context) ([]*domainunits.Unit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainunits.Unit, 0, len(r.items))
	for _, unit := range r.items {
		u := unit
		out = append(out, &u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *UnitRepository) Save(ctx context.Context, unit *domainunits.Unit) error {
	if unit == nil {
		return domainunits.ErrIDRequired
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[unit.ID] = *unit
	return nil
}
